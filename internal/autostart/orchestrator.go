// Package autostart picks the most useful practice session automatically:
// it scores every unlocked set by learning priority, warns when the chosen
// sets still contain unlearned cards, and starts an SRS or difficulty
// session accordingly.
package autostart

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/jlin/hanziflash/internal/errors"
	"github.com/jlin/hanziflash/internal/logger"
	"github.com/jlin/hanziflash/internal/models"
	"github.com/jlin/hanziflash/internal/repository"
	"github.com/jlin/hanziflash/internal/session"
)

const (
	TypeSessionStarted   = "session_started"
	TypeNewCardsDetected = "new_cards_detected"
)

// StartRequest is the request body for the auto-start endpoint.
type StartRequest struct {
	DomainID         string `json:"domain_id,omitempty"`
	SkipNewCardCheck bool   `json:"skip_new_card_check,omitempty"`
	ExcludeNewCards  bool   `json:"exclude_new_cards,omitempty"`
	ConnectionAware  bool   `json:"connection_aware,omitempty"`
}

// Analysis describes the learning state of the chosen sets.
type Analysis struct {
	TotalCards      int              `json:"total_cards"`
	NewCards        int              `json:"new_cards"`
	PracticedCards  int              `json:"practiced_cards"`
	SelectedSets    []string         `json:"selected_sets"`
	NewCardExamples []NewCardExample `json:"new_card_examples"`
	Message         string           `json:"message,omitempty"`
}

// NewCardExample is a sample unlearned card shown in the advisory.
type NewCardExample struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
	Set      string `json:"set"`
}

// Option is one way forward offered by the new-card advisory.
type Option struct {
	Description  string   `json:"description"`
	Payload      any      `json:"payload,omitempty"`
	SetsToBrowse []string `json:"sets_to_browse,omitempty"`
}

// Options are the three advisory choices.
type Options struct {
	ContinueWithNew Option `json:"continue_with_new"`
	PracticeOnly    Option `json:"practice_only"`
	BrowseFirst     Option `json:"browse_first"`
}

// Response is either a started session or a new-card advisory.
type Response struct {
	Type     string                 `json:"type"`
	Session  *session.StartResponse `json:"session,omitempty"`
	Analysis *Analysis              `json:"analysis,omitempty"`
	Options  *Options               `json:"options,omitempty"`
}

// Orchestrator wires set scoring to the session manager.
type Orchestrator struct {
	cards         repository.CardRepository
	sessions      *session.Manager
	defaultDomain string
}

func New(cards repository.CardRepository, sessions *session.Manager, defaultDomain string) *Orchestrator {
	return &Orchestrator{cards: cards, sessions: sessions, defaultDomain: defaultDomain}
}

// Run executes one auto-start decision. It never starts a session while the
// chosen sets still contain unlearned cards unless the caller opted in.
func (o *Orchestrator) Run(ctx context.Context, req StartRequest) (*Response, error) {
	log := logger.FromContext(ctx).WithPrefix("autostart")

	if req.DomainID == "" {
		req.DomainID = o.defaultDomain
	}

	stats, err := o.cards.SetStats(ctx, req.DomainID)
	if err != nil {
		return nil, errors.NewInternalError(fmt.Errorf("loading set stats: %w", err))
	}

	ranked := rankSets(stats)
	if len(ranked) == 0 {
		return nil, errors.NewBadRequestError("no available sets for practice")
	}

	selected := make([]string, 0, maxSelectedSets)
	for _, s := range ranked {
		if len(selected) == maxSelectedSets {
			break
		}
		selected = append(selected, s.SetKey)
	}
	levels := []models.DifficultyLevel{models.DifficultyHard, models.DifficultyMedium}

	if !req.SkipNewCardCheck {
		analysis, err := o.analyze(ctx, req.DomainID, selected)
		if err != nil {
			return nil, errors.NewInternalError(fmt.Errorf("analyzing selected sets: %w", err))
		}
		if analysis.NewCards > 0 {
			log.Info("advisory: %d unlearned cards in %v", analysis.NewCards, selected)
			return advisory(req, analysis, selected, levels), nil
		}
	}

	var dueSets []string
	for _, s := range ranked {
		if len(dueSets) == maxSelectedSets {
			break
		}
		if scoreSet(s) == scoreDue {
			dueSets = append(dueSets, s.SetKey)
		}
	}

	var payload models.StartPayload
	if len(dueSets) > 0 {
		payload = models.StartPayload{
			Mode:            models.ModeMultiSetSrs,
			DomainID:        req.DomainID,
			SelectedSets:    dueSets,
			ConnectionAware: req.ConnectionAware,
		}
	} else {
		payload = models.StartPayload{
			Mode:             models.ModeMultiSetDifficulty,
			DomainID:         req.DomainID,
			SelectedSets:     selected,
			DifficultyLevels: levels,
			ExcludeNewCards:  req.ExcludeNewCards,
			ConnectionAware:  req.ConnectionAware,
		}
	}

	log.Info("starting %s session with sets %v", payload.Mode, payload.SelectedSets)
	start, err := o.sessions.Start(ctx, uuid.NewString(), payload)
	if err != nil {
		return nil, err
	}
	return &Response{Type: TypeSessionStarted, Session: start}, nil
}

// analyze loads the chosen sets concurrently and counts unlearned cards.
func (o *Orchestrator) analyze(ctx context.Context, domainID string, sets []string) (*Analysis, error) {
	perSet := make([][]models.Card, len(sets))
	g, gctx := errgroup.WithContext(ctx)
	for i, key := range sets {
		i, key := i, key
		g.Go(func() error {
			cards, err := o.cards.ListBySets(gctx, domainID, []string{key})
			if err != nil {
				return err
			}
			perSet[i] = cards
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	analysis := &Analysis{SelectedSets: sets, NewCardExamples: []NewCardExample{}}
	for _, cards := range perSet {
		for _, c := range cards {
			analysis.TotalCards++
			if !isNewCard(c) {
				analysis.PracticedCards++
				continue
			}
			analysis.NewCards++
			if len(analysis.NewCardExamples) < 3 {
				analysis.NewCardExamples = append(analysis.NewCardExamples, NewCardExample{
					Question: c.Question,
					Answer:   c.Answer,
					Set:      c.SetKey,
				})
			}
		}
	}
	return analysis, nil
}

func advisory(req StartRequest, analysis *Analysis, selected []string, levels []models.DifficultyLevel) *Response {
	plural := ""
	if analysis.NewCards > 1 {
		plural = "s"
	}
	analysis.Message = fmt.Sprintf(
		"This session includes %d learning card%s that need extra attention.",
		analysis.NewCards, plural,
	)

	retry := req
	retry.SkipNewCardCheck = true

	return &Response{
		Type:     TypeNewCardsDetected,
		Analysis: analysis,
		Options: &Options{
			ContinueWithNew: Option{
				Description: "Start session with learning cards included",
				Payload:     retry,
			},
			PracticeOnly: Option{
				Description: "Practice only cards you've seen before",
				Payload: models.StartPayload{
					Mode:             models.ModeMultiSetDifficulty,
					DomainID:         req.DomainID,
					SelectedSets:     selected,
					DifficultyLevels: levels,
					ExcludeNewCards:  true,
				},
			},
			BrowseFirst: Option{
				Description:  "Browse new cards first, then practice",
				SetsToBrowse: selected,
			},
		},
	}
}
