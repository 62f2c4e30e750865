package api

import (
	"net/http"

	"github.com/jlin/hanziflash/internal/autostart"
)

func (s *Server) handleAutoStart(w http.ResponseWriter, r *http.Request) {
	var req autostart.StartRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	resp, err := s.AutoStart.Run(r.Context(), req)
	if err != nil {
		handleError(w, r, err)
		return
	}

	status := http.StatusOK
	if resp.Type == autostart.TypeSessionStarted {
		status = http.StatusCreated
	}
	respondJSON(w, status, resp)
}
