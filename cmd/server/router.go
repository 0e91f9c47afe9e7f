package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/celestial/post-api/internal/api"
	apimiddleware "github.com/celestial/post-api/internal/api/middleware"
)

// setupRouter creates and configures the application router with all
// routes and middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(apimiddleware.TraceMiddleware)

	postHandler := api.NewPostHandler(app.postService)

	r.Route("/api", func(r chi.Router) {
		r.Post("/generate", postHandler.Generate)
		r.Post("/cache-status", postHandler.CacheStatus)
		r.Post("/clear-cache", postHandler.ClearCache)
	})

	r.Get("/health", postHandler.Health)

	return r
}
