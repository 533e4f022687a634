// Command lajed-lambda serves the extraction API from AWS Lambda behind an
// API Gateway HTTP API or a function URL. Configuration comes from the
// environment only.
package main

import (
	"os"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/rs/zerolog"

	"lajed/internal/config"
	"lajed/internal/extract"
	"lajed/internal/httpapi"
	"lajed/internal/lambdaproxy"
)

func main() {
	log := zerolog.New(os.Stdout).With().Timestamp().Str("svc", "lajed-lambda").Logger()

	var cfg config.Config
	if path := os.Getenv("LAJED_CONFIG"); path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			log.Fatal().Err(err).Msg("load config")
		}
		cfg = loaded
	}
	config.ApplyEnv(&cfg, os.Getenv)
	cfg.Defaults()
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid config")
	}
	if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil && lvl != zerolog.NoLevel {
		log = log.Level(lvl)
	}

	svc, err := extract.NewFromConfig(cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("build service")
	}
	httpapi.SetLogger(log)
	httpapi.SetDefaultLogLevel(cfg.LogLevel)
	httpapi.SetMaxUploadBytes(cfg.MaxUploadBytes)
	httpapi.SetCORSOrigins(cfg.CORSOrigins)

	lambda.Start(lambdaproxy.Handler(httpapi.NewMux(svc)))
}
