// stash-api serves the item API, authenticating callers against the
// configured identity provider's signing keys.
package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/stashkeep/stash-api/internal/auth"
	"github.com/stashkeep/stash-api/internal/config"
	"github.com/stashkeep/stash-api/internal/jwks"
	"github.com/stashkeep/stash-api/internal/server"
	"github.com/stashkeep/stash-api/internal/store"
	"github.com/stashkeep/stash-api/internal/version"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("stash-api: %v", err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.Observability.LogLevel)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	authLogger := auth.NewZapLogger(logger.Sugar())

	// The fetcher, cache, and verifier are constructed once here and shared
	// by every request worker; there is no package-level state to tear down
	// beyond the process itself.
	fetcher, err := jwks.NewFetcher(cfg.Auth.Issuer,
		jwks.WithHTTPClient(&http.Client{Timeout: cfg.Auth.FetchTimeout}),
		jwks.WithFetcherLogger(authLogger),
	)
	if err != nil {
		return err
	}

	cache, err := jwks.NewCache(fetcher.Fetch,
		jwks.WithTTL(cfg.Auth.KeySetTTL),
		jwks.WithCacheLogger(authLogger),
	)
	if err != nil {
		return err
	}

	verifierOpts := []auth.VerifierOption{auth.WithLogger(authLogger)}
	if cfg.Auth.ClientID != "" {
		verifierOpts = append(verifierOpts, auth.WithClientID(cfg.Auth.ClientID))
	}
	verifier, err := auth.NewVerifier(cache, cfg.Auth.Issuer, verifierOpts...)
	if err != nil {
		return err
	}

	var metrics auth.Metrics = &auth.NoopMetrics{}
	if cfg.Observability.MetricsEnabled {
		metrics = auth.NewPrometheusMetrics(nil)
	}

	router := server.New(server.Deps{
		AuthMiddleware: auth.NewMiddleware(verifier, authLogger, metrics),
		Store:          store.NewMemoryStore(),
		Logger:         logger,
		ServeMetrics:   cfg.Observability.MetricsEnabled,
	})

	srv := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting server",
			zap.String("addr", cfg.Server.Addr),
			zap.String("version", version.Version),
			zap.String("issuer", cfg.Auth.Issuer),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-stop:
		logger.Info("shutting down", zap.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	return srv.Shutdown(ctx)
}

func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		lvl = zapcore.InfoLevel
	}

	zapCfg := zap.NewProductionConfig()
	zapCfg.Level = zap.NewAtomicLevelAt(lvl)
	return zapCfg.Build()
}
