package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"lajed/internal/common/fsutil"
)

// Config holds runtime parameters for the service.
// Zero values mean "unspecified" and are replaced by Defaults.
type Config struct {
	Addr string `json:"addr" yaml:"addr" toml:"addr"`
	// Provider selects the upstream API: openai or gemini.
	Provider      string `json:"provider" yaml:"provider" toml:"provider"`
	OpenAIBaseURL string `json:"openai_base_url" yaml:"openai_base_url" toml:"openai_base_url"`
	// Model overrides every profile's model when set.
	Model          string `json:"model" yaml:"model" toml:"model"`
	GeminiModel    string `json:"gemini_model" yaml:"gemini_model" toml:"gemini_model"`
	DefaultProfile string `json:"default_profile" yaml:"default_profile" toml:"default_profile"`
	// UpstreamTimeoutSec bounds the outbound call; 0 leaves it to the platform.
	UpstreamTimeoutSec int `json:"upstream_timeout_sec" yaml:"upstream_timeout_sec" toml:"upstream_timeout_sec"`
	// MaxUploadBytes limits the request body; 0 means unlimited.
	MaxUploadBytes int64    `json:"max_upload_bytes" yaml:"max_upload_bytes" toml:"max_upload_bytes"`
	CORSOrigins    []string `json:"cors_origins" yaml:"cors_origins" toml:"cors_origins"`
	LogLevel       string   `json:"log_level" yaml:"log_level" toml:"log_level"`
	// Profiles adds or overrides extraction profiles.
	Profiles []ProfileConfig `json:"profiles" yaml:"profiles" toml:"profiles"`

	// Credentials only come from the environment.
	OpenAIAPIKey string `json:"-" yaml:"-" toml:"-"`
	GeminiAPIKey string `json:"-" yaml:"-" toml:"-"`
}

// ProfileConfig customizes a profile. Base names a built-in profile to start
// from; empty fields keep the base's values.
type ProfileConfig struct {
	Name         string `json:"name" yaml:"name" toml:"name"`
	Base         string `json:"base" yaml:"base" toml:"base"`
	Description  string `json:"description" yaml:"description" toml:"description"`
	Surface      string `json:"surface" yaml:"surface" toml:"surface"`
	Model        string `json:"model" yaml:"model" toml:"model"`
	Shape        string `json:"shape" yaml:"shape" toml:"shape"`
	SystemPrompt string `json:"system_prompt" yaml:"system_prompt" toml:"system_prompt"`
	UserPrompt   string `json:"user_prompt" yaml:"user_prompt" toml:"user_prompt"`
	// Schema toggles the JSON-schema constraint; nil keeps the base's setting.
	Schema *bool `json:"schema" yaml:"schema" toml:"schema"`
}

// Load reads a configuration file based on its extension.
// Supports: .yaml/.yml, .json, .toml
func Load(path string) (Config, error) {
	var cfg Config
	if path == "" {
		return cfg, fmt.Errorf("empty config path")
	}
	path, err := fsutil.ExpandHome(path)
	if err != nil {
		return cfg, err
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return cfg, fmt.Errorf("parse %s: %w", path, err)
		}
	case ".json":
		if err := json.Unmarshal(b, &cfg); err != nil {
			return cfg, fmt.Errorf("parse %s: %w", path, err)
		}
	case ".toml":
		if err := toml.Unmarshal(b, &cfg); err != nil {
			return cfg, fmt.Errorf("parse %s: %w", path, err)
		}
	default:
		return cfg, fmt.Errorf("unsupported config extension: %s", ext)
	}
	return cfg, nil
}

// ApplyEnv overlays environment variables onto cfg. Credentials are read
// here and nowhere else; a missing key is not an error at this point.
func ApplyEnv(cfg *Config, getenv func(string) string) {
	if getenv == nil {
		getenv = os.Getenv
	}
	cfg.OpenAIAPIKey = strings.TrimSpace(getenv("OPENAI_API_KEY"))
	cfg.GeminiAPIKey = strings.TrimSpace(getenv("GEMINI_API_KEY"))

	setString := func(dst *string, key string) {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			*dst = v
		}
	}
	setString(&cfg.Addr, "LAJED_ADDR")
	setString(&cfg.Provider, "LAJED_PROVIDER")
	setString(&cfg.OpenAIBaseURL, "OPENAI_BASE_URL")
	setString(&cfg.Model, "LAJED_MODEL")
	setString(&cfg.GeminiModel, "GEMINI_MODEL")
	setString(&cfg.DefaultProfile, "LAJED_DEFAULT_PROFILE")
	setString(&cfg.LogLevel, "LAJED_LOG_LEVEL")
	if v := strings.TrimSpace(getenv("PORT")); v != "" && cfg.Addr == "" {
		cfg.Addr = ":" + v
	}
	if v, err := strconv.Atoi(strings.TrimSpace(getenv("LAJED_UPSTREAM_TIMEOUT_SEC"))); err == nil {
		cfg.UpstreamTimeoutSec = v
	}
	if v, err := strconv.ParseInt(strings.TrimSpace(getenv("LAJED_MAX_UPLOAD_BYTES")), 10, 64); err == nil {
		cfg.MaxUploadBytes = v
	}
	if v := getenv("LAJED_CORS_ORIGINS"); strings.TrimSpace(v) != "" {
		cfg.CORSOrigins = SplitCSV(v)
	}
}

// Defaults fills unspecified fields.
func (c *Config) Defaults() {
	if c.Addr == "" {
		c.Addr = ":8080"
	}
	if c.Provider == "" {
		c.Provider = "openai"
	}
	if c.GeminiModel == "" {
		c.GeminiModel = "gemini-2.5-flash"
	}
	if c.DefaultProfile == "" {
		c.DefaultProfile = "laje"
	}
	if c.UpstreamTimeoutSec < 0 {
		c.UpstreamTimeoutSec = 0
	}
	if c.MaxUploadBytes < 0 {
		c.MaxUploadBytes = 0
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
}

// Validate checks values that cannot be defaulted.
func (c Config) Validate() error {
	switch c.Provider {
	case "openai", "gemini":
	default:
		return fmt.Errorf("unknown provider %q (want openai or gemini)", c.Provider)
	}
	seen := map[string]bool{}
	for i, p := range c.Profiles {
		if strings.TrimSpace(p.Name) == "" {
			return fmt.Errorf("profiles[%d]: name is required", i)
		}
		if seen[p.Name] {
			return fmt.Errorf("profiles[%d]: duplicate name %q", i, p.Name)
		}
		seen[p.Name] = true
	}
	return nil
}

// SplitCSV splits a comma separated list, trimming blanks and dropping empties.
func SplitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
