package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeTempFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return p
}

func TestLoadYAML(t *testing.T) {
	d := t.TempDir()
	p := writeTempFile(t, d, "cfg.yaml", `addr: :9999
provider: gemini
default_profile: lajes
max_upload_bytes: 1048576
cors_origins: [https://lajes.example.com]
profiles:
  - name: lajes-detalhe
    base: lajes
    model: gpt-4.1
    schema: true
`)
	cfg, err := Load(p)
	if err != nil { t.Fatalf("load: %v", err) }
	if cfg.Addr != ":9999" || cfg.Provider != "gemini" || cfg.DefaultProfile != "lajes" || cfg.MaxUploadBytes != 1<<20 {
		t.Fatalf("unexpected cfg: %+v", cfg)
	}
	if len(cfg.CORSOrigins) != 1 || cfg.CORSOrigins[0] != "https://lajes.example.com" { t.Fatalf("origins=%v", cfg.CORSOrigins) }
	if len(cfg.Profiles) != 1 { t.Fatalf("profiles=%+v", cfg.Profiles) }
	pc := cfg.Profiles[0]
	if pc.Name != "lajes-detalhe" || pc.Base != "lajes" || pc.Model != "gpt-4.1" || pc.Schema == nil || !*pc.Schema {
		t.Fatalf("unexpected profile: %+v", pc)
	}
}

func TestLoadJSON(t *testing.T) {
	d := t.TempDir()
	p := writeTempFile(t, d, "cfg.json", `{"addr":":7070","model":"gpt-4o-mini","upstream_timeout_sec":30}`)
	cfg, err := Load(p)
	if err != nil { t.Fatalf("load: %v", err) }
	if cfg.Addr != ":7070" || cfg.Model != "gpt-4o-mini" || cfg.UpstreamTimeoutSec != 30 {
		t.Fatalf("unexpected cfg: %+v", cfg)
	}
}

func TestLoadTOML(t *testing.T) {
	d := t.TempDir()
	p := writeTempFile(t, d, "cfg.toml", "addr=\":8081\"\nlog_level=\"debug\"\n\n[[profiles]]\nname=\"x\"\nshape=\"many\"\n")
	cfg, err := Load(p)
	if err != nil { t.Fatalf("load: %v", err) }
	if cfg.Addr != ":8081" || cfg.LogLevel != "debug" || len(cfg.Profiles) != 1 || cfg.Profiles[0].Shape != "many" {
		t.Fatalf("unexpected cfg: %+v", cfg)
	}
}

func TestLoad_IgnoresCredentialsInFile(t *testing.T) {
	d := t.TempDir()
	p := writeTempFile(t, d, "cfg.json", `{"OpenAIAPIKey":"sk-leak","openai_api_key":"sk-leak"}`)
	cfg, err := Load(p)
	if err != nil { t.Fatalf("load: %v", err) }
	if cfg.OpenAIAPIKey != "" { t.Fatalf("credential must not be read from file") }
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load(""); err == nil { t.Fatalf("expected error on empty path") }
	d := t.TempDir()
	p := writeTempFile(t, d, "cfg.txt", "not supported")
	if _, err := Load(p); err == nil { t.Fatalf("expected unsupported extension error") }
	if _, err := Load("/definitely/not/a/real/file-12345.yaml"); err == nil { t.Fatalf("expected error for nonexistent file") }
	bad := writeTempFile(t, d, "bad.yaml", "addr: :8080\n: broken\n")
	if _, err := Load(bad); err == nil { t.Fatalf("expected YAML unmarshal error") }
	badTOML := writeTempFile(t, d, "bad.toml", "addr=:8080\nprovider\n")
	if _, err := Load(badTOML); err == nil { t.Fatalf("expected TOML unmarshal error") }
}

func TestApplyEnvAndDefaults(t *testing.T) {
	env := map[string]string{
		"OPENAI_API_KEY":             " sk-test ",
		"PORT":                       "3000",
		"LAJED_UPSTREAM_TIMEOUT_SEC": "45",
		"LAJED_MAX_UPLOAD_BYTES":     "2048",
		"LAJED_CORS_ORIGINS":         "https://a.example, ,https://b.example",
		"LAJED_DEFAULT_PROFILE":      "lajes-schema",
	}
	var cfg Config
	ApplyEnv(&cfg, func(k string) string { return env[k] })
	cfg.Defaults()
	if cfg.OpenAIAPIKey != "sk-test" { t.Fatalf("key=%q", cfg.OpenAIAPIKey) }
	if cfg.Addr != ":3000" { t.Fatalf("addr=%q", cfg.Addr) }
	if cfg.UpstreamTimeoutSec != 45 || cfg.MaxUploadBytes != 2048 { t.Fatalf("unexpected: %+v", cfg) }
	if len(cfg.CORSOrigins) != 2 { t.Fatalf("origins=%v", cfg.CORSOrigins) }
	if cfg.DefaultProfile != "lajes-schema" || cfg.Provider != "openai" || cfg.LogLevel != "info" { t.Fatalf("unexpected: %+v", cfg) }
	if err := cfg.Validate(); err != nil { t.Fatalf("validate: %v", err) }
}

func TestApplyEnv_AddrWinsOverPort(t *testing.T) {
	cfg := Config{Addr: ":9000"}
	ApplyEnv(&cfg, func(k string) string {
		if k == "PORT" { return "3000" }
		return ""
	})
	if cfg.Addr != ":9000" { t.Fatalf("addr=%q", cfg.Addr) }
}

func TestValidate(t *testing.T) {
	if err := (Config{Provider: "claude"}).Validate(); err == nil { t.Fatalf("expected provider error") }
	cfg := Config{Provider: "openai", Profiles: []ProfileConfig{{Name: "a"}, {Name: "a"}}}
	if err := cfg.Validate(); err == nil { t.Fatalf("expected duplicate error") }
	cfg.Profiles = []ProfileConfig{{}}
	if err := cfg.Validate(); err == nil { t.Fatalf("expected name error") }
}

func TestSplitCSV(t *testing.T) {
	cases := []struct{ in string; want []string }{
		{"a,b,c", []string{"a", "b", "c"}},
		{" a , b , c ", []string{"a", "b", "c"}},
		{"a,,c", []string{"a", "c"}},
		{"", nil},
	}
	for _, c := range cases {
		got := SplitCSV(c.in)
		if len(got) != len(c.want) { t.Fatalf("%q -> %v, want %v", c.in, got, c.want) }
		for i := range got {
			if got[i] != c.want[i] { t.Fatalf("%q -> %v, want %v", c.in, got, c.want) }
		}
	}
}
