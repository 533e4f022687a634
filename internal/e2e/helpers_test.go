package e2e

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/rs/zerolog"

	"lajed/internal/config"
	"lajed/internal/extract"
	"lajed/internal/httpapi"
)

// fakeUpstream stands in for the OpenAI API. It answers every call with
// status and a body built by reply, and counts calls per path.
type fakeUpstream struct {
	srv    *httptest.Server
	calls  int32
	status int
	reply  func(path string) string
	last   atomic.Value // map[string]any
}

func newFakeUpstream(t *testing.T, status int, reply func(path string) string) *fakeUpstream {
	t.Helper()
	f := &fakeUpstream{status: status, reply: reply}
	f.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&f.calls, 1)
		b, _ := io.ReadAll(r.Body)
		m := map[string]any{}
		_ = json.Unmarshal(b, &m)
		m["_path"] = r.URL.Path
		f.last.Store(m)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(f.status)
		_, _ = io.WriteString(w, f.reply(r.URL.Path))
	}))
	t.Cleanup(f.srv.Close)
	return f
}

func (f *fakeUpstream) Calls() int { return int(atomic.LoadInt32(&f.calls)) }

func (f *fakeUpstream) Last() map[string]any {
	m, _ := f.last.Load().(map[string]any)
	return m
}

// modelSays wraps text as the reply of both OpenAI surfaces.
func modelSays(text string) func(string) string {
	return func(path string) string {
		var b []byte
		if path == "/responses" {
			b, _ = json.Marshal(map[string]any{"output_text": text})
		} else {
			b, _ = json.Marshal(map[string]any{"choices": []any{map[string]any{"message": map[string]any{"content": text}}}})
		}
		return string(b)
	}
}

// newServer wires config -> extract service -> HTTP mux the way cmd/lajed does.
func newServer(t *testing.T, apiKey, upstreamURL string) *httptest.Server {
	t.Helper()
	cfg := config.Config{OpenAIAPIKey: apiKey, OpenAIBaseURL: upstreamURL}
	cfg.Defaults()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("config: %v", err)
	}
	svc, err := extract.NewFromConfig(cfg, zerolog.Nop())
	if err != nil {
		t.Fatalf("service: %v", err)
	}
	httpapi.SetLogger(zerolog.Nop())
	srv := httptest.NewServer(httpapi.NewMux(svc))
	t.Cleanup(srv.Close)
	return srv
}

// upload posts data as the multipart field "file" and returns status and body.
func upload(t *testing.T, url, field string, data []byte) (int, []byte, http.Header) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if field != "" {
		fw, err := mw.CreateFormFile(field, "planta.png")
		if err != nil {
			t.Fatalf("form file: %v", err)
		}
		_, _ = fw.Write(data)
	}
	_ = mw.Close()
	req, err := http.NewRequest(http.MethodPost, url, &buf)
	if err != nil {
		t.Fatalf("new req: %v", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Origin", "https://app.example.com")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do req: %v", err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, body, resp.Header
}

var pngBytes = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")
