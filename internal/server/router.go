// Package server assembles the HTTP router.
package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/villageveggies/backend/internal/auth"
	"github.com/villageveggies/backend/internal/crops"
	"github.com/villageveggies/backend/internal/growers"
	"github.com/villageveggies/backend/internal/metrics"
	"github.com/villageveggies/backend/internal/middleware"
	"github.com/villageveggies/backend/internal/profile"
	"github.com/villageveggies/backend/internal/respond"
)

// Store is everything the handlers need from persistence.
type Store interface {
	auth.AccountStore
	crops.Store
	profile.Store
	growers.Store
	Ping(ctx context.Context) error
}

type Options struct {
	Store       Store
	Sessions    auth.SessionStore
	Cookies     auth.Cookies
	CORSOrigins []string
	BrowseLimit int
	Logger      *slog.Logger
}

// NewRouter wires handlers and middleware into a chi router.
func NewRouter(opts Options) http.Handler {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	authHandler := auth.NewHandler(opts.Store, opts.Sessions, opts.Cookies)
	cropHandler := crops.NewHandler(opts.Store, opts.BrowseLimit)
	profileHandler := profile.NewHandler(opts.Store, opts.Sessions, opts.Cookies)
	growerHandler := growers.NewHandler(opts.Store, opts.BrowseLimit)
	requireAuth := middleware.RequireAuth(opts.Sessions, opts.Cookies)

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestLog(logger))
	r.Use(middleware.Recover(logger))
	r.Use(metrics.Instrument)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := opts.Store.Ping(ctx); err != nil {
			logger.WarnContext(r.Context(), "health check failed", "err", err)
			respond.JSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
		respond.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	// Auth routes (public)
	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", authHandler.Register)
		r.Post("/login", authHandler.Login)
		r.Post("/logout", authHandler.Logout)
	})

	// Marketplace routes (protected)
	r.Route("/api", func(r chi.Router) {
		r.Use(requireAuth)

		r.Get("/profile", profileHandler.Get)
		r.Delete("/profile", profileHandler.Delete)

		r.Get("/browse", cropHandler.Browse)
		r.Post("/crops", cropHandler.Create)
		r.Get("/crops/{id}", cropHandler.Get)
		r.Patch("/crops/{id}", cropHandler.UpdateStatus)
		r.Delete("/crops/{id}", cropHandler.Delete)
		r.Post("/crops/{id}/reveal-contact", cropHandler.RevealContact)

		r.Get("/growers", growerHandler.List)
		r.Get("/growers/{ref}", growerHandler.Get)
		r.Get("/growers/{ref}/listings", growerHandler.Inventory)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		respond.JSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		respond.JSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
	})

	return r
}
