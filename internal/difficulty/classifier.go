package difficulty

import "github.com/jlin/hanziflash/internal/models"

// Thresholds for historical classification (accuracy percent).
const (
	easyThreshold   = 90
	mediumThreshold = 80
	// minAttempts is the evidence floor: with this many attempts or fewer a
	// card is treated as hard rather than unknown.
	minAttempts = 10
)

// Classify buckets a card from its accumulated counters. The attempt count
// is the reviewed counter when present, otherwise correct+incorrect. This is
// the single shared implementation used for both pre-session bucketing and
// live feedback coloring.
func Classify(correct, incorrect, reviewed int) models.DifficultyLevel {
	attempts := reviewed
	if attempts <= 0 {
		attempts = correct + incorrect
	}
	if attempts <= minAttempts {
		return models.DifficultyHard
	}
	accuracy := float64(correct) / float64(attempts) * 100
	switch {
	case accuracy > easyThreshold:
		return models.DifficultyEasy
	case accuracy > mediumThreshold:
		return models.DifficultyMedium
	default:
		return models.DifficultyHard
	}
}

// ClassifyCard is Classify applied to a catalog row.
func ClassifyCard(c models.Card) models.DifficultyLevel {
	return Classify(c.CorrectCount, c.IncorrectCount, c.ReviewedCount)
}

// IsStruggling reports whether a card has enough history to judge and is
// below the struggle threshold.
func IsStruggling(correct, reviewed int) bool {
	if reviewed < 3 {
		return false
	}
	return float64(correct)/float64(reviewed)*100 < mediumThreshold
}
