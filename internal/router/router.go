// Package router exposes the show catalog over HTTP: the home, detail and
// search views, the state read surface and health probes.
package router

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"

	"github.com/Belphemur/ShowCatalog/internal/store"
)

// Options configures New.
type Options struct {
	// Logger is attached to every request and used for the access log.
	Logger zerolog.Logger

	// CORSOrigins is a comma-separated origin list. Empty allows any origin.
	CORSOrigins string
}

// New builds the catalog router. Paths are matched case-sensitively.
func New(controller *store.Controller, opts Options) chi.Router {
	r := chi.NewRouter()
	v := &views{controller: controller}

	r.Use(hlog.NewHandler(opts.Logger))
	r.Use(RequestIDMiddleware)
	r.Use(hlog.AccessHandler(func(r *http.Request, status, size int, duration time.Duration) {
		hlog.FromRequest(r).Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", status).
			Int("size", size).
			Dur("duration", duration).
			Msg("HTTP request")
	}))
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   parseCORSOrigins(opts.CORSOrigins),
		AllowedMethods:   []string{"GET", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", RequestIDHeader},
		ExposedHeaders:   []string{RequestIDHeader},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.NotFound(v.notFound)

	r.Get("/healthz", v.healthz)
	r.Get("/readyz", v.readyz)

	r.Get("/", v.home)
	r.With(ShowDetailResolver(controller)).Get("/details/{id}", v.detail)
	r.Get("/search", v.search)

	r.Route("/api/state", func(r chi.Router) {
		r.Get("/genres", v.genres)
		r.Get("/shows", v.shows)
		r.Get("/search-results", v.searchResults)
		r.Get("/show-detail", v.showDetail)
		r.Get("/loading", v.loading)
	})

	return r
}

func parseCORSOrigins(raw string) []string {
	var origins []string
	for _, origin := range strings.Split(raw, ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			origins = append(origins, origin)
		}
	}
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}
