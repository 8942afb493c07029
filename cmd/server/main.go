package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/villageveggies/backend/internal/auth"
	"github.com/villageveggies/backend/internal/config"
	"github.com/villageveggies/backend/internal/logging"
	"github.com/villageveggies/backend/internal/server"
	"github.com/villageveggies/backend/internal/store"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "villageveggies:", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger, err := logging.New(logging.Options{Level: cfg.LogLevel, JSON: cfg.LogJSON})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// ── PostgreSQL ────────────────────────────────────────────
	pool, err := store.NewPool(ctx, cfg.PostgresDSN)
	if err != nil {
		return err
	}
	defer pool.Close()
	pgStore := store.NewPostgresStore(pool)
	if err := pgStore.Migrate(ctx); err != nil {
		return err
	}

	// ── Sessions ─────────────────────────────────────────────
	var sessions auth.SessionStore
	switch cfg.SessionBackend {
	case config.SessionBackendRedis:
		rdb, err := store.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword)
		if err != nil {
			return err
		}
		defer rdb.Close()
		sessions = auth.NewRedisSessionStore(rdb, cfg.SessionTTL)
	default:
		sessions = store.NewSessionStore(pool, cfg.SessionTTL)
	}
	logger.Info("session backend ready", "backend", cfg.SessionBackend, "ttl", cfg.SessionTTL)

	// ── Router ───────────────────────────────────────────────
	handler := server.NewRouter(server.Options{
		Store:       pgStore,
		Sessions:    sessions,
		Cookies:     auth.Cookies{TTL: cfg.SessionTTL, Secure: cfg.CookieSecure},
		CORSOrigins: cfg.CORSOrigins,
		BrowseLimit: cfg.BrowseLimit,
		Logger:      logger,
	})

	// ── Server ───────────────────────────────────────────────
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       2 * time.Minute,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("backend listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutCtx); err != nil {
		logger.Error("shutdown", "err", err)
		return err
	}
	return nil
}
