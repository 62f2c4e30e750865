package autostart

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"

	"github.com/jlin/hanziflash/internal/models"
)

const (
	scoreDue          = 100
	scoreStruggling   = 80
	scoreImproving    = 60
	scoreNew          = 40
	scoreOverMastered = -50

	unlockMinAttempts = 10
	unlockMinAccuracy = 70.0

	maxRankedSets   = 5
	maxSelectedSets = 2
)

// scoreSet assigns a single priority bucket to a set. The buckets are
// exclusive and checked in order: memory maintenance beats struggle
// recovery beats active improvement beats fresh material; heavily practiced
// high-accuracy sets are pushed below zero so they never auto-start.
func scoreSet(s models.SetStat) int {
	acc := accuracyPct(s.TotalCorrect, s.TotalAttempts)
	switch {
	case s.DueCards > 0:
		return scoreDue
	case s.TotalAttempts > 10 && acc < 80:
		return scoreStruggling
	case s.TotalAttempts >= 10 && s.TotalAttempts <= 100 && acc >= 80 && acc < 90:
		return scoreImproving
	case s.TotalAttempts > 0 && s.TotalAttempts <= 10:
		return scoreNew
	case s.TotalAttempts > 100 && acc > 90:
		return scoreOverMastered
	default:
		return 0
	}
}

func accuracyPct(correct, attempts int) float64 {
	if attempts == 0 {
		return 0
	}
	return float64(correct) * 100 / float64(attempts)
}

var numberedSetRe = regexp.MustCompile(`^(.+_)(\d{2})$`)

// previousSetKey returns the set that gates the given one. Sets without a
// two-digit numeric suffix, and the first set of a run, have no gate.
func previousSetKey(key string) (string, bool) {
	m := numberedSetRe.FindStringSubmatch(key)
	if m == nil {
		return "", false
	}
	n, err := strconv.Atoi(m[2])
	if err != nil || n <= 1 {
		return "", false
	}
	return fmt.Sprintf("%s%02d", m[1], n-1), true
}

// unlockedSets reports which sets are playable: a numbered set unlocks once
// its predecessor has at least 10 attempts at 70% accuracy or better.
func unlockedSets(stats []models.SetStat) map[string]bool {
	byKey := make(map[string]models.SetStat, len(stats))
	for _, s := range stats {
		byKey[s.SetKey] = s
	}

	unlocked := make(map[string]bool, len(stats))
	for _, s := range stats {
		prevKey, gated := previousSetKey(s.SetKey)
		if !gated {
			unlocked[s.SetKey] = true
			continue
		}
		prev, ok := byKey[prevKey]
		unlocked[s.SetKey] = ok &&
			prev.TotalAttempts >= unlockMinAttempts &&
			accuracyPct(prev.TotalCorrect, prev.TotalAttempts) >= unlockMinAccuracy
	}
	return unlocked
}

// rankSets filters to unlocked, positively scored sets and orders them by
// score descending, then set key, keeping at most maxRankedSets.
func rankSets(stats []models.SetStat) []models.SetStat {
	unlocked := unlockedSets(stats)

	var ranked []models.SetStat
	for _, s := range stats {
		if unlocked[s.SetKey] && scoreSet(s) > 0 {
			ranked = append(ranked, s)
		}
	}
	sort.Slice(ranked, func(i, j int) bool {
		si, sj := scoreSet(ranked[i]), scoreSet(ranked[j])
		if si != sj {
			return si > sj
		}
		return ranked[i].SetKey < ranked[j].SetKey
	})
	if len(ranked) > maxRankedSets {
		ranked = ranked[:maxRankedSets]
	}
	return ranked
}

// isNewCard marks cards that still need deliberate learning: never attempted
// at all, or lightly reviewed with at most 50% accuracy.
func isNewCard(c models.Card) bool {
	if c.ReviewedCount == 0 && c.CorrectCount == 0 && c.IncorrectCount == 0 {
		return true
	}
	return c.ReviewedCount > 0 && c.ReviewedCount < 10 &&
		float64(c.CorrectCount)*100/float64(c.ReviewedCount) <= 50
}
