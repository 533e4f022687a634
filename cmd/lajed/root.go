package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"lajed/internal/config"
)

// app carries the resolved configuration and logger to every subcommand.
type app struct {
	getenv  func(string) string
	cfgPath string
	envFile string
	cfg     config.Config
	log     zerolog.Logger
}

// newRootCmd builds the command tree. getenv is injectable for tests.
func newRootCmd(getenv func(string) string) *cobra.Command {
	a := &app{getenv: getenv}
	root := &cobra.Command{
		Use:           "lajed",
		Short:         "Slab dimension extraction service",
		Long:          "lajed reads construction plan images with a vision model and returns slab dimensions as JSON.",
		SilenceUsage:  true,
		SilenceErrors: true,
		// serve is the default action
		RunE: func(cmd *cobra.Command, args []string) error { return a.serve(cmd) },
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.cfgPath, "config", "", "Config file (.yaml, .yml, .json, .toml); defaults to LAJED_CONFIG")
	pf.StringVar(&a.envFile, "env-file", ".env", "Dotenv file consulted for variables missing from the environment")
	pf.String("addr", "", "HTTP listen address, e.g. :8080 (LAJED_ADDR, PORT)")
	pf.String("provider", "", "Upstream provider: openai|gemini (LAJED_PROVIDER)")
	pf.String("model", "", "Override the model of every profile (LAJED_MODEL)")
	pf.String("default-profile", "", "Profile served by /extract (LAJED_DEFAULT_PROFILE)")
	pf.String("log-level", "", "Log level: debug|info|warn|error|off (LAJED_LOG_LEVEL)")
	pf.Int64("max-upload-bytes", 0, "Reject uploads larger than this; 0 means unlimited (LAJED_MAX_UPLOAD_BYTES)")
	pf.Int("upstream-timeout-sec", 0, "Timeout for the upstream model call; 0 means none (LAJED_UPSTREAM_TIMEOUT_SEC)")
	pf.StringSlice("cors-origins", nil, "Allowed CORS origins; empty allows any (LAJED_CORS_ORIGINS)")

	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		return a.configure(cmd)
	}

	root.AddCommand(newServeCmd(a), newExtractCmd(a), newProfilesCmd(a))
	return root
}

// configure resolves file < environment < flags, then defaults and validation.
func (a *app) configure(cmd *cobra.Command) error {
	getenv, err := a.dotenv(cmd.Flags().Changed("env-file"))
	if err != nil {
		return err
	}
	path := a.cfgPath
	if path == "" {
		path = getenv("LAJED_CONFIG")
	}
	var cfg config.Config
	if path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	config.ApplyEnv(&cfg, getenv)

	fl := cmd.Flags()
	if fl.Changed("addr") {
		cfg.Addr, _ = fl.GetString("addr")
	}
	if fl.Changed("provider") {
		cfg.Provider, _ = fl.GetString("provider")
	}
	if fl.Changed("model") {
		cfg.Model, _ = fl.GetString("model")
	}
	if fl.Changed("default-profile") {
		cfg.DefaultProfile, _ = fl.GetString("default-profile")
	}
	if fl.Changed("log-level") {
		cfg.LogLevel, _ = fl.GetString("log-level")
	}
	if fl.Changed("max-upload-bytes") {
		cfg.MaxUploadBytes, _ = fl.GetInt64("max-upload-bytes")
	}
	if fl.Changed("upstream-timeout-sec") {
		cfg.UpstreamTimeoutSec, _ = fl.GetInt("upstream-timeout-sec")
	}
	if fl.Changed("cors-origins") {
		cfg.CORSOrigins, _ = fl.GetStringSlice("cors-origins")
	}
	cfg.Defaults()
	if err := cfg.Validate(); err != nil {
		return err
	}
	a.cfg = cfg
	a.log = newLogger(cmd.ErrOrStderr(), cfg.LogLevel)
	return nil
}

// dotenv layers the env file under the process environment. A missing file
// is only an error when it was named explicitly.
func (a *app) dotenv(explicit bool) (func(string) string, error) {
	if a.envFile == "" {
		return a.getenv, nil
	}
	vals, err := godotenv.Read(a.envFile)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) && !explicit {
			return a.getenv, nil
		}
		return nil, fmt.Errorf("env file %s: %w", a.envFile, err)
	}
	return func(k string) string {
		if v := a.getenv(k); v != "" {
			return v
		}
		return vals[k]
	}, nil
}

// newLogger writes human readable output to terminals and JSON lines elsewhere.
func newLogger(w io.Writer, level string) zerolog.Logger {
	if f, ok := w.(*os.File); ok && isatty.IsTerminal(f.Fd()) {
		w = zerolog.ConsoleWriter{Out: f, TimeFormat: "15:04:05"}
	}
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	if strings.EqualFold(level, "off") {
		lvl = zerolog.Disabled
	}
	return zerolog.New(w).Level(lvl).With().Timestamp().Str("svc", "lajed").Logger()
}
