package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"lajed/internal/extract"
	"lajed/internal/httpapi"
)

func newServeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "serve",
		Short:   "Run the HTTP API (default)",
		Example: "  OPENAI_API_KEY=sk-... lajed serve --addr :8080",
		Args:    cobra.NoArgs,
		RunE:    func(cmd *cobra.Command, args []string) error { return a.serve(cmd) },
	}
}

// buildHandler wires the service and HTTP layer from a.cfg.
func (a *app) buildHandler() (http.Handler, *extract.Service, error) {
	svc, err := extract.NewFromConfig(a.cfg, a.log)
	if err != nil {
		return nil, nil, err
	}
	httpapi.SetLogger(a.log)
	httpapi.SetDefaultLogLevel(a.cfg.LogLevel)
	httpapi.SetMaxUploadBytes(a.cfg.MaxUploadBytes)
	httpapi.SetCORSOrigins(a.cfg.CORSOrigins)
	return httpapi.NewMux(svc), svc, nil
}

func (a *app) serve(cmd *cobra.Command) error {
	handler, svc, err := a.buildHandler()
	if err != nil {
		return err
	}
	if !svc.Ready() {
		// not fatal: requests answer 500 until the key is provided
		a.log.Warn().Str("provider", a.cfg.Provider).Msg("no API key configured for the default profile")
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	httpapi.SetBaseContext(ctx)

	srv := &http.Server{
		Addr:              a.cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errc := make(chan error, 1)
	go func() {
		a.log.Info().Str("addr", a.cfg.Addr).Str("provider", a.cfg.Provider).Str("default_profile", svc.DefaultProfile()).Msg("lajed listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
		close(errc)
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}
	a.log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		a.log.Error().Err(err).Msg("graceful shutdown error")
		return err
	}
	return nil
}
