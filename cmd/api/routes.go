package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func (app *Application) routes() http.Handler {
	router := chi.NewRouter()
	router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		app.Http.NotFound(w, r, "Page not found")
	})
	router.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		app.Http.MethodNotAllowed(w, r)
	})
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Logger)
	router.Use(app.Instrument)
	router.Use(app.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: app.cfg.CORS.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	}))
	router.Use(app.RateLimiter)
	router.Use(app.Authenticate)

	router.Handle("/metrics", promhttp.Handler())
	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/healthcheck", app.healthcheck)
		r.Route("/genres", func(r chi.Router) {
			r.Get("/", app.listGenres)
			r.Get("/{id}", app.getGenre)
			r.Get("/by-name/{name}", app.getGenreByName)
			r.Group(func(r chi.Router) {
				r.Use(app.requireAdmin)
				r.Post("/", app.createGenre)
				r.Post("/sync", app.syncGenres)
				// genres are addressed by numeric id for reads and by refId for writes
				r.Patch("/{id}", app.updateGenre)
				r.Delete("/{id}", app.deleteGenre)
			})
		})
		r.Route("/contents", func(r chi.Router) {
			r.Get("/", app.listContents)
			r.Get("/{id}", app.getContent)
			r.Group(func(r chi.Router) {
				r.Use(app.requireAdmin)
				r.Post("/", app.createContent)
				r.Post("/bulk", app.createContents)
				r.Patch("/{id}", app.updateContent)
				r.Delete("/{id}", app.deleteContent)
			})
		})
		r.Route("/streamingTypes", func(r chi.Router) {
			r.Get("/", app.listStreamingTypes)
			r.Get("/{id}", app.getStreamingType)
			r.Group(func(r chi.Router) {
				r.Use(app.requireAdmin)
				r.Post("/", app.createStreamingType)
				r.Patch("/{id}", app.updateStreamingType)
				r.Delete("/{id}", app.deleteStreamingType)
				r.Post("/{id}/genres", app.addStreamingTypeGenres)
				r.Delete("/{id}/genres", app.removeStreamingTypeGenres)
			})
		})
		r.Route("/accounts", func(r chi.Router) {
			r.Post("/signup", app.signup)
			r.Post("/login", app.login)
		})
		r.Route("/users/me", func(r chi.Router) {
			r.Use(app.requireAuthenticatedUser)
			r.Get("/", app.getCurrentUser)
			r.Put("/preferences", app.updatePreferences)
			r.Post("/history", app.recordView)
			r.Get("/history", app.getHistory)
			r.Get("/stats", app.getStats)
		})
	})
	return router
}
