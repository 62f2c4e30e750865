package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(recoveryMiddleware)
	r.Use(loggingMiddleware)
	r.Use(s.authMiddleware)

	r.Get("/api/health", s.handleHealth)
	r.Get("/api/ready", s.handleReady)

	r.Post("/api/sessions", s.handleStartSession)
	r.Post("/api/sessions/auto-start", s.handleAutoStart)
	r.Get("/api/sessions/{id}", s.handleGetSession)
	r.Post("/api/sessions/{id}/answer", s.handleAnswer)
	r.Post("/api/sessions/{id}/cancel", s.handleCancel)
	r.Post("/api/sessions/{id}/play-again", s.handlePlayAgain)

	r.Get("/api/sets", s.handleListSets)
	r.Get("/api/srs/sets", s.handleSrsRows)
	r.Get("/api/stats/sets", s.handleSetStats)

	return r
}
