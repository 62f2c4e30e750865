package selection

import (
	"context"

	"github.com/jlin/hanziflash/internal/difficulty"
	"github.com/jlin/hanziflash/internal/logger"
	"github.com/jlin/hanziflash/internal/models"
	"github.com/jlin/hanziflash/internal/repository"
)

// TargetSessionSize is the card budget for filled session modes.
const TargetSessionSize = 20

// Selector resolves a start payload to the candidate card rows for a
// session. Rows keep their counters and SRS fields so the lookup maps can be
// built without further queries.
type Selector struct {
	cards repository.CardRepository
}

// NewSelector creates a Selector over the card catalog.
func NewSelector(cards repository.CardRepository) *Selector {
	return &Selector{cards: cards}
}

// Select dispatches on the payload mode. An empty result is valid and yields
// a zero-length session.
func (s *Selector) Select(ctx context.Context, payload models.StartPayload) ([]models.Card, error) {
	log := logger.FromContext(ctx).WithPrefix("selection")
	log.Debug("selecting cards: mode=%s, sets=%d", payload.Mode, len(payload.SelectedSets))

	switch payload.Mode {
	case models.ModeMultiSetAll:
		return s.cards.ListBySets(ctx, payload.DomainID, payload.SelectedSets)
	case models.ModeMultiSetSrs:
		return s.cards.ListDueBySets(ctx, payload.DomainID, payload.SelectedSets, TargetSessionSize)
	case models.ModeMultiSetDifficulty:
		return s.selectByDifficulty(ctx, payload)
	case models.ModeReviewIncorrect:
		return s.resolveReviewItems(ctx, payload)
	default:
		return nil, nil
	}
}

// selectByDifficulty fills the session budget by exhausting SRS-due cards
// first (memory decay is time-sensitive), then backfilling with cards in the
// requested difficulty buckets.
func (s *Selector) selectByDifficulty(ctx context.Context, payload models.StartPayload) ([]models.Card, error) {
	log := logger.FromContext(ctx).WithPrefix("selection")

	due, err := s.cards.ListDueBySets(ctx, payload.DomainID, payload.SelectedSets, TargetSessionSize)
	if err != nil {
		return nil, err
	}

	selected := make([]models.Card, 0, TargetSessionSize)
	chosen := make(map[int64]bool)
	for _, c := range due {
		if len(selected) >= TargetSessionSize {
			break
		}
		selected = append(selected, c)
		chosen[c.ID] = true
	}
	log.Debug("filled %d/%d slots with due cards", len(selected), TargetSessionSize)

	if len(selected) >= TargetSessionSize {
		return selected, nil
	}

	all, err := s.cards.ListBySets(ctx, payload.DomainID, payload.SelectedSets)
	if err != nil {
		return nil, err
	}

	requested := make(map[models.DifficultyLevel]bool, len(payload.DifficultyLevels))
	for _, lvl := range payload.DifficultyLevels {
		requested[lvl] = true
	}

	for _, c := range all {
		if len(selected) >= TargetSessionSize {
			break
		}
		if chosen[c.ID] {
			continue
		}
		if payload.ExcludeNewCards && c.Attempts() == 0 {
			continue
		}
		if len(requested) > 0 && !requested[difficulty.ClassifyCard(c)] {
			continue
		}
		selected = append(selected, c)
		chosen[c.ID] = true
	}

	log.Debug("selected %d cards by difficulty", len(selected))
	return selected, nil
}

// resolveReviewItems maps (question, answer[, set]) pairs back to canonical
// card rows. Rows that fail to resolve are dropped: a replay of a finished
// session's mistakes is best-effort, never an error.
func (s *Selector) resolveReviewItems(ctx context.Context, payload models.StartPayload) ([]models.Card, error) {
	log := logger.FromContext(ctx).WithPrefix("selection")

	var out []models.Card
	for _, item := range payload.ReviewItems {
		if item.Question == "" || item.Answer == "" {
			continue
		}
		card, err := s.cards.FindByContent(ctx, payload.DomainID, item)
		if err != nil {
			return nil, err
		}
		if card == nil {
			log.Debug("review item not resolved, dropping: question=%s", item.Question)
			continue
		}
		out = append(out, *card)
	}
	log.Debug("resolved %d/%d review items", len(out), len(payload.ReviewItems))
	return out, nil
}
