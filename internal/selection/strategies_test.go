package selection

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/jlin/hanziflash/internal/models"
	"github.com/jlin/hanziflash/internal/testutil/mocks"
)

func card(id int64, question, answer string, correct, incorrect, reviewed int) models.Card {
	return models.Card{
		ID:             id,
		DomainID:       "chinese",
		SetKey:         "hsk1",
		Question:       question,
		Answer:         answer,
		CorrectCount:   correct,
		IncorrectCount: incorrect,
		ReviewedCount:  reviewed,
		EasinessFactor: 2.5,
	}
}

func TestSelectMultiSetAll(t *testing.T) {
	repo := new(mocks.MockCardRepository)
	catalog := []models.Card{card(1, "水", "water", 0, 0, 0), card(2, "火", "fire", 0, 0, 0)}
	repo.On("ListBySets", mock.Anything, "chinese", []string{"hsk1"}).Return(catalog, nil)

	sel := NewSelector(repo)
	got, err := sel.Select(context.Background(), models.StartPayload{
		Mode:         models.ModeMultiSetAll,
		DomainID:     "chinese",
		SelectedSets: []string{"hsk1"},
	})

	require.NoError(t, err)
	assert.Equal(t, catalog, got)
	repo.AssertExpectations(t)
}

func TestSelectSrsUsesDueQuery(t *testing.T) {
	repo := new(mocks.MockCardRepository)
	due := []models.Card{card(1, "水", "water", 2, 1, 3)}
	repo.On("ListDueBySets", mock.Anything, "chinese", []string{"hsk1"}, TargetSessionSize).Return(due, nil)

	sel := NewSelector(repo)
	got, err := sel.Select(context.Background(), models.StartPayload{
		Mode:         models.ModeMultiSetSrs,
		DomainID:     "chinese",
		SelectedSets: []string{"hsk1"},
	})

	require.NoError(t, err)
	assert.Equal(t, due, got)
	repo.AssertExpectations(t)
}

func TestSelectUnknownModeYieldsNothing(t *testing.T) {
	sel := NewSelector(new(mocks.MockCardRepository))
	got, err := sel.Select(context.Background(), models.StartPayload{Mode: "bogus"})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestSelectByDifficultyDueFirst(t *testing.T) {
	repo := new(mocks.MockCardRepository)
	due := []models.Card{card(1, "水", "water", 1, 9, 10)}
	catalog := []models.Card{
		// 水 is already chosen as due; 火 classifies hard, 山 easy.
		card(1, "水", "water", 1, 9, 10),
		card(2, "火", "fire", 3, 12, 15),
		card(3, "山", "mountain", 14, 1, 15),
	}
	repo.On("ListDueBySets", mock.Anything, "chinese", []string{"hsk1"}, TargetSessionSize).Return(due, nil)
	repo.On("ListBySets", mock.Anything, "chinese", []string{"hsk1"}).Return(catalog, nil)

	sel := NewSelector(repo)
	got, err := sel.Select(context.Background(), models.StartPayload{
		Mode:             models.ModeMultiSetDifficulty,
		DomainID:         "chinese",
		SelectedSets:     []string{"hsk1"},
		DifficultyLevels: []models.DifficultyLevel{models.DifficultyHard, models.DifficultyMedium},
	})

	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "水", got[0].Question, "due card leads the selection")
	assert.Equal(t, "火", got[1].Question, "hard backfill follows")
	repo.AssertExpectations(t)
}

func TestSelectByDifficultyExcludesNewCards(t *testing.T) {
	repo := new(mocks.MockCardRepository)
	catalog := []models.Card{
		// 水 has never been attempted.
		card(1, "水", "water", 0, 0, 0),
		card(2, "火", "fire", 2, 4, 6),
	}
	repo.On("ListDueBySets", mock.Anything, "chinese", []string{"hsk1"}, TargetSessionSize).Return([]models.Card{}, nil)
	repo.On("ListBySets", mock.Anything, "chinese", []string{"hsk1"}).Return(catalog, nil)

	sel := NewSelector(repo)
	got, err := sel.Select(context.Background(), models.StartPayload{
		Mode:            models.ModeMultiSetDifficulty,
		DomainID:        "chinese",
		SelectedSets:    []string{"hsk1"},
		ExcludeNewCards: true,
	})

	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "火", got[0].Question)
}

func TestSelectByDifficultyStopsAtBudget(t *testing.T) {
	repo := new(mocks.MockCardRepository)
	due := make([]models.Card, 0, TargetSessionSize)
	for i := 0; i < TargetSessionSize; i++ {
		due = append(due, card(int64(i+1), fmt.Sprintf("q%d", i), "a", 1, 1, 2))
	}
	repo.On("ListDueBySets", mock.Anything, "chinese", []string{"hsk1"}, TargetSessionSize).Return(due, nil)

	sel := NewSelector(repo)
	got, err := sel.Select(context.Background(), models.StartPayload{
		Mode:         models.ModeMultiSetDifficulty,
		DomainID:     "chinese",
		SelectedSets: []string{"hsk1"},
	})

	require.NoError(t, err)
	assert.Len(t, got, TargetSessionSize)
	repo.AssertNotCalled(t, "ListBySets", mock.Anything, mock.Anything, mock.Anything)
}

func TestResolveReviewItemsDropsUnresolved(t *testing.T) {
	repo := new(mocks.MockCardRepository)
	resolved := card(1, "水", "water", 2, 1, 3)
	repo.On("FindByContent", mock.Anything, "chinese", models.ReviewItem{Question: "水", Answer: "water"}).
		Return(&resolved, nil)
	repo.On("FindByContent", mock.Anything, "chinese", models.ReviewItem{Question: "鬼", Answer: "ghost"}).
		Return(nil, nil)

	sel := NewSelector(repo)
	got, err := sel.Select(context.Background(), models.StartPayload{
		Mode:     models.ModeReviewIncorrect,
		DomainID: "chinese",
		ReviewItems: []models.ReviewItem{
			{Question: "水", Answer: "water"},
			{Question: "鬼", Answer: "ghost"},
			{Question: "", Answer: "blank questions are skipped"},
		},
	})

	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "水", got[0].Question)
	repo.AssertExpectations(t)
}

func TestResolveReviewItemsPropagatesLookupError(t *testing.T) {
	repo := new(mocks.MockCardRepository)
	repo.On("FindByContent", mock.Anything, "chinese", mock.Anything).
		Return(nil, fmt.Errorf("database locked"))

	sel := NewSelector(repo)
	_, err := sel.Select(context.Background(), models.StartPayload{
		Mode:        models.ModeReviewIncorrect,
		DomainID:    "chinese",
		ReviewItems: []models.ReviewItem{{Question: "水", Answer: "water"}},
	})

	assert.Error(t, err)
}
