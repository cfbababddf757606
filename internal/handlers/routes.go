package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// conditionalHTTPLogger only logs HTTP requests when HTTP logging is enabled
func (h *Handlers) conditionalHTTPLogger(next http.Handler) http.Handler {
	logger := middleware.Logger(next)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if h.Log != nil && h.Log.IsHTTPLoggingEnabled() {
			logger.ServeHTTP(w, r)
		} else {
			next.ServeHTTP(w, r)
		}
	})
}

// Router returns a configured chi router with all routes
func (h *Handlers) Router() chi.Router {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(h.conditionalHTTPLogger) // Custom conditional HTTP logger
	r.Use(middleware.Recoverer)
	r.Use(middleware.RedirectSlashes)
	r.Use(middleware.Timeout(60 * time.Second))

	// Overlays are loaded by streaming software from other origins
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Static files (served from embedded filesystem)
	if h.staticServer != nil {
		r.Handle("/static/*", http.StripPrefix("/static/", h.staticServer))
	}

	// Display pages
	if h.templates != nil {
		r.Get("/", h.renderPage("index"))
		r.Get("/bracket", h.renderPage("bracket"))
		r.Get("/overlay", h.renderPage("overlay"))
		r.Get("/schedule", h.renderPage("schedule"))
		r.Get("/pools", h.renderPage("pools"))
	}
	r.Get("/qr.png", h.handleQRCode)
	r.Get("/healthz", h.handleHealth)

	// WebSocket
	if h.Hub != nil {
		r.Get("/ws", h.Hub.ServeWs)
	}

	r.Route("/api", func(r chi.Router) {
		r.Get("/bracket", h.handleGetBracket)
		r.Get("/bracket.svg", h.handleBracketSVG)
		r.Get("/pools", h.handleGetPools)
		r.Get("/overlay", h.handleGetOverlay)
		r.Get("/schedule", h.handleGetSchedule)

		r.Get("/rotation", h.handleGetRotation)
		r.Post("/rotation/pool", h.handleAdvancePool)
		r.Post("/rotation/side", h.handleToggleSide)

		r.Post("/refresh", h.handleRefresh)
		r.Get("/refreshes", h.handleGetRefreshes)

		r.Get("/settings", h.handleGetSettings)
		r.Put("/settings", h.handleUpdateSettings)
	})

	return r
}
