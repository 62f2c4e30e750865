package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/jlin/hanziflash/internal/logger"
	"github.com/jlin/hanziflash/internal/models"
	"github.com/jlin/hanziflash/internal/session"
)

func (s *Server) handleStartSession(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	var payload models.StartPayload
	if err := decodeJSON(r, &payload); err != nil {
		handleError(w, r, err)
		return
	}

	sessionID := uuid.NewString()
	log.Debug("starting session %s: mode=%s", sessionID, payload.Mode)

	resp, err := s.Sessions.Start(r.Context(), sessionID, payload)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	resp, err := s.Sessions.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, resp)
}

func (s *Server) handleAnswer(w http.ResponseWriter, r *http.Request) {
	var payload session.AnswerPayload
	if err := decodeJSON(r, &payload); err != nil {
		handleError(w, r, err)
		return
	}

	resp, err := s.Sessions.Answer(r.Context(), chi.URLParam(r, "id"), payload)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCancel(w http.ResponseWriter, r *http.Request) {
	resp, err := s.Sessions.Cancel(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, resp)
}

func (s *Server) handlePlayAgain(w http.ResponseWriter, r *http.Request) {
	resp, err := s.Sessions.PlayAgain(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, resp)
}
