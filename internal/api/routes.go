package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/cors"
)

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(recoveryMiddleware)
	r.Use(loggingMiddleware)
	r.Use(securityHeadersMiddleware)
	r.Use(s.corsMiddleware())

	r.Get("/health", s.handleHealth)
	r.Get("/ready", s.handleReady)

	r.Route("/api", func(r chi.Router) {
		r.Use(userMiddleware)

		r.Get("/sets", s.handleListSets)
		r.Post("/sets", s.handleCreateSet)
		r.Get("/sets/{id}", s.handleGetSet)
		r.Put("/sets/{id}", s.handleUpdateSet)
		r.Delete("/sets/{id}", s.handleDeleteSet)
		r.Get("/sets/{id}/cards", s.handleListSetCards)
		r.Post("/sets/{id}/cards", s.handleCreateCard)
		r.Post("/sets/{id}/import", s.handleImport)

		r.Get("/cards", s.handleListCards)
		r.Get("/cards/stats", s.handleStats)
		r.Post("/cards/{id}/review", s.handleReviewCard)
		r.Get("/cards/{id}/history", s.handleCardHistory)
		r.Delete("/cards/{id}", s.handleDeleteCard)

		r.Post("/practice", s.handleStartPractice)
		r.Get("/practice/{id}", s.handleGetPractice)
		r.Delete("/practice/{id}", s.handleEndPractice)
		r.Post("/practice/{id}/flip", s.handleFlipPractice)
		r.Post("/practice/{id}/rate", s.handleRatePractice)
		r.Post("/practice/{id}/skip", s.handleSkipPractice)
	})

	return r
}

func (s *Server) corsMiddleware() func(http.Handler) http.Handler {
	origins := s.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	return cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", userHeader, "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         300,
	}).Handler
}
