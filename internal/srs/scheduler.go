package srs

import (
	"math"
	"time"

	"github.com/jlin/hanziflash/internal/models"
)

const (
	// MinEasiness is the floor of the easiness factor (SM-2 convention).
	MinEasiness = 1.3
	// MaxIntervalHours caps every interval at one week. This bounds how
	// stale a card can become at the cost of long-horizon retention.
	MaxIntervalHours = 168
	// TimeFormat is the UTC second-precision format used for review dates.
	TimeFormat = "2006-01-02 15:04:05"
)

// ramp is the fixed interval sequence (hours) for the first six successful
// repetitions; beyond it the interval grows by the easiness factor.
var ramp = [6]int{1, 4, 12, 24, 72, 168}

// Advance maps a card's scheduling state and an answer to the next state
// plus the next review timestamp ("now + interval", UTC, second precision).
// It is deterministic given its inputs.
func Advance(state models.SrsState, correct bool, now time.Time) (models.SrsState, string) {
	ef := state.EasinessFactor
	interval := state.IntervalHours
	reps := state.Repetitions

	if correct {
		if reps < len(ramp) {
			interval = ramp[reps]
		} else {
			interval = int(math.Round(float64(interval) * ef))
		}
		reps++
	} else {
		reps = 0
		interval = 1
	}

	quality := 0
	if correct {
		quality = 5
	}
	ef = ef + 0.1 - float64(5-quality)*(0.08+float64(5-quality)*0.02)
	if ef < MinEasiness {
		ef = MinEasiness
	}
	if interval > MaxIntervalHours {
		interval = MaxIntervalHours
	}

	next := models.SrsState{
		EasinessFactor: math.Round(ef*100) / 100,
		IntervalHours:  interval,
		Repetitions:    reps,
	}
	nextReview := now.UTC().Add(time.Duration(interval) * time.Hour).Format(TimeFormat)
	return next, nextReview
}
