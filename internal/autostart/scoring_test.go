package autostart

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jlin/hanziflash/internal/models"
)

func TestScoreSet(t *testing.T) {
	cases := []struct {
		name string
		stat models.SetStat
		want int
	}{
		{"due cards dominate", models.SetStat{DueCards: 3, TotalAttempts: 200, TotalCorrect: 195}, 100},
		{"struggling", models.SetStat{TotalAttempts: 40, TotalCorrect: 20}, 80},
		{"improving", models.SetStat{TotalAttempts: 50, TotalCorrect: 42}, 60},
		{"barely started", models.SetStat{TotalAttempts: 5, TotalCorrect: 5}, 40},
		{"over-mastered", models.SetStat{TotalAttempts: 200, TotalCorrect: 190}, -50},
		{"untouched and not due", models.SetStat{}, 0},
		{"ten attempts at 100% scores as new", models.SetStat{TotalAttempts: 10, TotalCorrect: 10}, 40},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, scoreSet(tc.stat))
		})
	}
}

func TestPreviousSetKey(t *testing.T) {
	prev, ok := previousSetKey("HSK1_Set_02")
	assert.True(t, ok)
	assert.Equal(t, "HSK1_Set_01", prev)

	prev, ok = previousSetKey("HSK1_Set_10")
	assert.True(t, ok)
	assert.Equal(t, "HSK1_Set_09", prev)

	_, ok = previousSetKey("HSK1_Set_01")
	assert.False(t, ok)

	_, ok = previousSetKey("hsk1")
	assert.False(t, ok)
}

func TestUnlockedSets(t *testing.T) {
	stats := []models.SetStat{
		{SetKey: "HSK1_Set_01", TotalAttempts: 30, TotalCorrect: 25},
		{SetKey: "HSK1_Set_02", TotalAttempts: 4, TotalCorrect: 2},
		{SetKey: "HSK1_Set_03"},
		{SetKey: "radicals"},
	}
	unlocked := unlockedSets(stats)

	assert.True(t, unlocked["HSK1_Set_01"], "first set is always available")
	assert.True(t, unlocked["HSK1_Set_02"], "predecessor has 30 attempts at 83%")
	assert.False(t, unlocked["HSK1_Set_03"], "predecessor has too few attempts")
	assert.True(t, unlocked["radicals"], "unnumbered sets are never gated")
}

func TestUnlockedSetsAccuracyGate(t *testing.T) {
	stats := []models.SetStat{
		{SetKey: "HSK1_Set_01", TotalAttempts: 50, TotalCorrect: 30},
		{SetKey: "HSK1_Set_02"},
	}
	unlocked := unlockedSets(stats)
	assert.False(t, unlocked["HSK1_Set_02"], "60% accuracy does not unlock")
}

func TestRankSets(t *testing.T) {
	stats := []models.SetStat{
		{SetKey: "b_set", TotalAttempts: 40, TotalCorrect: 20},        // struggling, 80
		{SetKey: "a_set", DueCards: 1, TotalAttempts: 10},             // due, 100
		{SetKey: "c_set", TotalAttempts: 200, TotalCorrect: 190},      // over-mastered, out
		{SetKey: "d_set", TotalAttempts: 3, TotalCorrect: 3},          // new, 40
		{SetKey: "e_set", DueCards: 2, TotalAttempts: 50},             // due, 100
	}
	ranked := rankSets(stats)

	keys := make([]string, len(ranked))
	for i, s := range ranked {
		keys[i] = s.SetKey
	}
	assert.Equal(t, []string{"a_set", "e_set", "b_set", "d_set"}, keys)
}

func TestIsNewCard(t *testing.T) {
	assert.True(t, isNewCard(models.Card{}), "never attempted")
	assert.True(t, isNewCard(models.Card{ReviewedCount: 4, CorrectCount: 2}), "50% after 4 reviews")
	assert.False(t, isNewCard(models.Card{ReviewedCount: 4, CorrectCount: 3}), "75% after 4 reviews")
	assert.False(t, isNewCard(models.Card{ReviewedCount: 12, CorrectCount: 2}), "enough reviews even at low accuracy")
	assert.False(t, isNewCard(models.Card{CorrectCount: 1}), "counter activity without reviews")
}
