package api

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/jlin/hanziflash/internal/autostart"
	"github.com/jlin/hanziflash/internal/db"
	"github.com/jlin/hanziflash/internal/errors"
	"github.com/jlin/hanziflash/internal/repository"
	"github.com/jlin/hanziflash/internal/session"
)

// Server holds the wired dependencies of the HTTP layer.
type Server struct {
	DB            *db.DB
	Sessions      *session.Manager
	AutoStart     *autostart.Orchestrator
	Cards         repository.CardRepository
	APIToken      string
	DefaultDomain string
}

const maxBodyBytes = 1 << 20

// decodeJSON reads a JSON request body into dst, rejecting malformed input
// at the boundary.
func decodeJSON(r *http.Request, dst any) error {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		return errors.NewBadRequestError("could not read request body")
	}
	if len(body) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, dst); err != nil {
		return errors.NewBadRequestError("invalid JSON body")
	}
	return nil
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// domainOf resolves the domain query parameter, falling back to the
// configured default.
func (s *Server) domainOf(r *http.Request) string {
	if d := r.URL.Query().Get("domain"); d != "" {
		return d
	}
	return s.DefaultDomain
}
