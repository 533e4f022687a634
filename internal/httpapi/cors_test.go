package httpapi

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestCORS_EchoesOriginOrWildcard(t *testing.T) {
	h := NewMux(&mockService{})
	req := httptest.NewRequest(http.MethodGet, "/extract", nil)
	req.Header.Set("Origin", "https://obra.example.com")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "https://obra.example.com" { t.Fatalf("origin=%q", got) }
	if got := w.Header().Get("Access-Control-Allow-Headers"); got != corsHeaders { t.Fatalf("headers=%q", got) }

	w = httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/extract", nil))
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "*" { t.Fatalf("origin=%q", got) }
	if got := w.Header().Get("Access-Control-Allow-Methods"); got != corsMethods { t.Fatalf("methods=%q", got) }
}

func TestCORS_PreflightIs204WithoutBusinessLogic(t *testing.T) {
	svc := &mockService{}
	h := NewMux(svc)
	for _, path := range []string{"/extract", "/analisar", "/extract/lajes", "/extract/anything"} {
		req := httptest.NewRequest(http.MethodOptions, path, nil)
		req.Header.Set("Origin", "https://obra.example.com")
		req.Header.Set("Access-Control-Request-Method", "POST")
		req.Header.Set("Access-Control-Request-Headers", "Content-Type")
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)
		if w.Code != http.StatusNoContent { t.Fatalf("%s status=%d", path, w.Code) }
		if w.Body.Len() != 0 { t.Fatalf("%s body=%q", path, w.Body.String()) }
		if got := w.Header().Get("Access-Control-Allow-Origin"); got != "https://obra.example.com" { t.Fatalf("%s origin=%q", path, got) }
		if got := w.Header().Get("Access-Control-Allow-Methods"); got != corsMethods { t.Fatalf("%s methods=%q", path, got) }
	}
	if svc.calls != 0 { t.Fatalf("calls=%d", svc.calls) }
}

func TestCORS_AllowList(t *testing.T) {
	SetCORSOrigins([]string{"https://ok.example.com"})
	defer SetCORSOrigins(nil)
	h := NewMux(&mockService{})

	req := httptest.NewRequest(http.MethodGet, "/extract", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "" { t.Fatalf("disallowed origin got %q", got) }

	req.Header.Set("Origin", "https://ok.example.com")
	w = httptest.NewRecorder()
	h.ServeHTTP(w, req)
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "https://ok.example.com" { t.Fatalf("allowed origin got %q", got) }

	SetCORSOrigins([]string{"https://ok.example.com", "*"})
	if !originAllowed("https://anything.example.com") { t.Fatalf("wildcard should allow any origin") }
}
