// Package router sets up the HTTP routes and middleware chain for the
// QuoteForge server: the action catalog endpoint, the storyboard session
// routes, and the client-config endpoint the browser bootstraps from.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"quoteforge/internal/handlers"
	"quoteforge/internal/middleware"
)

// New creates and returns the configured Chi router with all middleware
// and routes wired up.
func New(api *handlers.API) chi.Router {
	r := chi.NewRouter()

	// Global middleware — applied to every request.
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.SecureHeaders)

	// Health check — never rate-limited.
	r.Get("/health", healthHandler)

	r.Route("/api", func(r chi.Router) {
		// The single envelope endpoint the browser front end talks to.
		r.Post("/gemini", api.Dispatch)

		// Public client bootstrap values (OAuth client id, redirect URI).
		r.Get("/config", api.ClientConfig)

		// Storyboard sessions.
		r.Route("/storyboards", func(r chi.Router) {
			r.Post("/", api.CreateStoryboard)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", api.GetStoryboard)
				r.Delete("/", api.DeleteStoryboard)
				r.Post("/scenes/{scene}/image", api.GenerateStoryboardSceneImage)
				r.Post("/thumbnail/image", api.GenerateStoryboardThumbnail)
				// GET for browser downloads, POST for API clients.
				r.Get("/package", api.PackageStoryboard)
				r.Post("/package", api.PackageStoryboard)
				r.Post("/drive", api.UploadStoryboardToDrive)
			})
		})
	})

	return r
}

// healthHandler returns a simple JSON health check response.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
