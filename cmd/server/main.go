package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/mmynk/splitshare/internal/auth"
	"github.com/mmynk/splitshare/internal/config"
	"github.com/mmynk/splitshare/internal/seed"
	"github.com/mmynk/splitshare/internal/service"
	"github.com/mmynk/splitshare/internal/storage"
	"github.com/mmynk/splitshare/internal/storage/memory"
	"github.com/mmynk/splitshare/internal/storage/sqlite"
	"github.com/mmynk/splitshare/pkg/logging"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := run(); err != nil {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger := logging.Setup(cfg.Log.Level, cfg.Log.Format)

	if cfg.Auth.JWTSecret == config.DefaultJWTSecret {
		logger.Warn("Using the development JWT secret; set SPLITSHARE_AUTH_JWT_SECRET in production")
	}

	store, err := openStore(cfg.Storage)
	if err != nil {
		return err
	}
	defer store.Close()
	logger.Info("Storage initialized", "driver", cfg.Storage.Driver, "database", cfg.Storage.SQLitePath)

	loc, err := cfg.UI.Location()
	if err != nil {
		return err
	}

	authenticator := auth.NewPasswordAuthenticator(store)
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Seed.Demo {
		if _, err := seed.Demo(ctx, store, authenticator, time.Now(), logger); err != nil {
			return fmt.Errorf("seed demo data: %w", err)
		}
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	handler := newRouter(deps{
		store:         store,
		authenticator: authenticator,
		jwtManager:    auth.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL),
		presentation:  service.Presentation{CurrencySymbol: cfg.UI.CurrencySymbol, Location: loc},
		registry:      registry,
		logger:        logger,
	})

	// Wrap with h2c for HTTP/2 without TLS
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           h2c.NewHandler(handler, &http2.Server{}),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Connect server starting", "address", srv.Addr, "url", fmt.Sprintf("http://localhost%s", srv.Addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func openStore(cfg config.StorageConfig) (storage.Store, error) {
	switch cfg.Driver {
	case "memory":
		return memory.New(), nil
	default:
		store, err := sqlite.New(cfg.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("open sqlite store: %w", err)
		}
		return store, nil
	}
}
