package difficulty

import "github.com/jlin/hanziflash/internal/models"

// AssessResponse derives a live difficulty from response time and
// correctness: up to 2s is easy, up to 4s medium, beyond that hard. An
// incorrect answer bumps the time-derived bucket up one level.
func AssessResponse(responseTimeMs int64, correct bool) models.DifficultyLevel {
	sec := float64(responseTimeMs) / 1000

	var level models.DifficultyLevel
	switch {
	case sec <= 2:
		level = models.DifficultyEasy
	case sec <= 4:
		level = models.DifficultyMedium
	default:
		level = models.DifficultyHard
	}

	if !correct {
		switch level {
		case models.DifficultyEasy:
			level = models.DifficultyMedium
		case models.DifficultyMedium:
			level = models.DifficultyHard
		}
	}
	return level
}

// FeedbackDuration computes how long (ms) the answer feedback should stay on
// screen: a base time plus a capped share of the response time and a penalty
// for incorrect answers, never shorter than the combined-difficulty floor and
// never longer than 6 seconds.
func FeedbackDuration(responseTimeMs int64, response, card models.DifficultyLevel, correct bool) int64 {
	const (
		baseTime        = 1500
		responseCap     = 2000
		overallCap      = 6000
		incorrectBonus  = 1500
		hardCardPenalty = 2000
	)

	responseContribution := int64(float64(responseTimeMs) * 0.25)
	if responseContribution > responseCap {
		responseContribution = responseCap
	}

	combined := combine(response, card)
	var floor int64
	switch combined {
	case models.DifficultyEasy:
		floor = 1000
	case models.DifficultyMedium:
		floor = 1500
	default:
		floor = 2500
	}

	var bonus int64
	if !correct {
		bonus = incorrectBonus
		if card == models.DifficultyHard {
			bonus = hardCardPenalty
		}
	}

	total := baseTime + responseContribution + bonus
	if total < floor {
		total = floor
	}
	if total > overallCap {
		total = overallCap
	}
	return total
}

// combine takes the harder of the live response bucket and the historical
// card bucket.
func combine(a, b models.DifficultyLevel) models.DifficultyLevel {
	if a == models.DifficultyHard || b == models.DifficultyHard {
		return models.DifficultyHard
	}
	if a == models.DifficultyMedium || b == models.DifficultyMedium {
		return models.DifficultyMedium
	}
	return models.DifficultyEasy
}
