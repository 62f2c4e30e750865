package api

import (
	"net/http"

	"github.com/jlin/hanziflash/internal/difficulty"
	"github.com/jlin/hanziflash/internal/errors"
	"github.com/jlin/hanziflash/internal/logger"
	"github.com/jlin/hanziflash/internal/models"
)

func (s *Server) handleListSets(w http.ResponseWriter, r *http.Request) {
	domain := s.domainOf(r)
	keys, err := s.Cards.ListSetKeys(r.Context(), domain)
	if err != nil {
		handleError(w, r, errors.NewInternalError(err))
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"domain": domain,
		"sets":   keys,
	})
}

func (s *Server) handleSrsRows(w http.ResponseWriter, r *http.Request) {
	setKey := r.URL.Query().Get("set")
	if setKey == "" {
		handleError(w, r, errors.NewBadRequestError("set query parameter is required"))
		return
	}

	rows, err := s.Cards.SrsRowsBySet(r.Context(), s.domainOf(r), setKey)
	if err != nil {
		handleError(w, r, errors.NewInternalError(err))
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"set":  setKey,
		"rows": rows,
	})
}

// handleSetStats returns aggregate stats for every set, or per-card stats
// plus a summary when a set is named.
func (s *Server) handleSetStats(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())
	domain := s.domainOf(r)

	setKey := r.URL.Query().Get("set")
	if setKey == "" {
		stats, err := s.Cards.SetStats(r.Context(), domain)
		if err != nil {
			handleError(w, r, errors.NewInternalError(err))
			return
		}
		respondJSON(w, http.StatusOK, map[string]any{
			"domain": domain,
			"sets":   stats,
		})
		return
	}

	cards, err := s.Cards.CardStatsBySet(r.Context(), domain, setKey)
	if err != nil {
		handleError(w, r, errors.NewInternalError(err))
		return
	}

	log.Debug("summarizing %d cards for set %s", len(cards), setKey)
	respondJSON(w, http.StatusOK, map[string]any{
		"set":     setKey,
		"summary": summarize(cards),
		"cards":   cards,
	})
}

func summarize(cards []models.CardStat) models.SetSummary {
	var sum models.SetSummary
	sum.TotalCards = len(cards)
	for _, c := range cards {
		sum.Correct += c.Correct
		sum.Incorrect += c.Incorrect
		sum.Total += c.Total
		if c.Total > 0 {
			sum.AttemptedCards++
		}
		if difficulty.Classify(c.Correct, c.Incorrect, c.Total) == models.DifficultyHard && c.Total > 0 {
			sum.DifficultCount++
		}
	}
	if sum.Total > 0 {
		sum.Accuracy = float64(sum.Correct) * 100 / float64(sum.Total)
	}
	return sum
}
