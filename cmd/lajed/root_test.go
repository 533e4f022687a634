package main

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"lajed/pkg/types"
)

func envMap(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func run(t *testing.T, env map[string]string, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd(envMap(env))
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestProfilesCommand(t *testing.T) {
	out, err := run(t, nil, "profiles")
	if err != nil { t.Fatalf("profiles: %v", err) }
	for _, name := range []string{"laje", "laje-schema", "lajes", "lajes-schema"} {
		if !strings.Contains(out, name) { t.Fatalf("missing %s in:\n%s", name, out) }
	}

	out, err = run(t, map[string]string{"LAJED_DEFAULT_PROFILE": "lajes"}, "profiles", "--json", "--model", "gpt-4.1")
	if err != nil { t.Fatalf("profiles --json: %v", err) }
	var body types.ProfilesResponse
	if err := json.Unmarshal([]byte(out), &body); err != nil { t.Fatalf("json: %v", err) }
	for _, p := range body.Profiles {
		if p.Model != "gpt-4.1" { t.Fatalf("model override not applied: %+v", p) }
		if p.Default != (p.Name == "lajes") { t.Fatalf("default flag wrong: %+v", p) }
	}
}

func TestConfigPrecedence(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "lajed.yaml")
	if err := os.WriteFile(cfgPath, []byte("default_profile: laje-schema\nmodel: from-file\nprofiles:\n  - name: extra\n    base: lajes\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	out, err := run(t, map[string]string{"LAJED_CONFIG": cfgPath, "LAJED_MODEL": "from-env"}, "profiles", "--json")
	if err != nil { t.Fatalf("profiles: %v", err) }
	var body types.ProfilesResponse
	_ = json.Unmarshal([]byte(out), &body)
	if len(body.Profiles) != 5 || body.Profiles[4].Name != "extra" { t.Fatalf("profiles=%+v", body.Profiles) }
	if body.Profiles[0].Model != "from-env" || !body.Profiles[1].Default { t.Fatalf("precedence wrong: %+v", body.Profiles[:2]) }

	if _, err := run(t, nil, "profiles", "--provider", "azure"); err == nil { t.Fatalf("expected provider validation error") }
	if _, err := run(t, nil, "profiles", "--config", filepath.Join(dir, "missing.toml")); err == nil { t.Fatalf("expected load error") }
}

func TestExtractCommand(t *testing.T) {
	var calls int32
	up := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		_, _ = io.Copy(io.Discard, r.Body)
		_, _ = io.WriteString(w, `{"choices":[{"message":{"content":"Aqui está: [{\"largura\":3,\"comprimento\":6,\"alturaViga\":\"H14\"}]"}}]}`)
	}))
	defer up.Close()

	img := filepath.Join(t.TempDir(), "planta.png")
	if err := os.WriteFile(img, []byte("\x89PNG\r\n\x1a\n"), 0o644); err != nil { t.Fatalf("write: %v", err) }
	env := map[string]string{"OPENAI_API_KEY": "sk-test", "OPENAI_BASE_URL": up.URL, "LAJED_LOG_LEVEL": "off"}

	out, err := run(t, env, "extract", img, "--profile", "lajes")
	if err != nil { t.Fatalf("extract: %v", err) }
	var got []types.Laje
	if err := json.Unmarshal([]byte(out), &got); err != nil { t.Fatalf("json: %v\n%s", err, out) }
	if len(got) != 1 || got[0] != (types.Laje{Largura: 3, Comprimento: 6, AlturaViga: "H14"}) { t.Fatalf("got %+v", got) }

	delete(env, "OPENAI_API_KEY")
	if _, err := run(t, env, "extract", img); err == nil { t.Fatalf("expected missing credential error") }
	if calls != 1 { t.Fatalf("calls=%d", calls) }
	if _, err := run(t, env, "extract"); err == nil { t.Fatalf("expected args error") }
}

func TestEnvFile(t *testing.T) {
	dir := t.TempDir()
	envPath := filepath.Join(dir, "lajed.env")
	if err := os.WriteFile(envPath, []byte("LAJED_DEFAULT_PROFILE=lajes\nLAJED_MODEL=from-dotenv\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	out, err := run(t, map[string]string{"LAJED_MODEL": "from-env"}, "profiles", "--json", "--env-file", envPath)
	if err != nil { t.Fatalf("profiles: %v", err) }
	var body types.ProfilesResponse
	_ = json.Unmarshal([]byte(out), &body)
	if body.Profiles[0].Model != "from-env" { t.Fatalf("process env must win: %+v", body.Profiles[0]) }
	if !body.Profiles[2].Default { t.Fatalf("dotenv default profile not applied: %+v", body.Profiles) }

	if _, err := run(t, nil, "profiles", "--env-file", filepath.Join(dir, "missing.env")); err == nil { t.Fatalf("expected error for a named missing env file") }
}
