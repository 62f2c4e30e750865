package difficulty_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jlin/hanziflash/internal/difficulty"
	"github.com/jlin/hanziflash/internal/models"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name      string
		correct   int
		incorrect int
		reviewed  int
		want      models.DifficultyLevel
	}{
		{"never attempted", 0, 0, 0, models.DifficultyHard},
		{"ten attempts all correct is still hard", 10, 0, 10, models.DifficultyHard},
		{"perfect accuracy past evidence floor", 20, 0, 20, models.DifficultyEasy},
		{"91 percent is easy", 91, 9, 100, models.DifficultyEasy},
		{"exactly 90 percent is medium", 18, 2, 20, models.DifficultyMedium},
		{"85 percent is medium", 17, 3, 20, models.DifficultyMedium},
		{"exactly 80 percent is hard", 16, 4, 20, models.DifficultyHard},
		{"low accuracy", 5, 15, 20, models.DifficultyHard},
		{"falls back to correct+incorrect when reviewed is zero", 18, 2, 0, models.DifficultyMedium},
		{"reviewed counter wins over raw counts", 18, 2, 9, models.DifficultyHard},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := difficulty.Classify(tt.correct, tt.incorrect, tt.reviewed)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestClassify_Pure(t *testing.T) {
	for i := 0; i < 5; i++ {
		assert.Equal(t, models.DifficultyMedium, difficulty.Classify(17, 3, 20))
	}
}

func TestIsStruggling(t *testing.T) {
	assert.False(t, difficulty.IsStruggling(0, 2), "needs at least 3 attempts")
	assert.True(t, difficulty.IsStruggling(1, 3))
	assert.False(t, difficulty.IsStruggling(8, 10), "80 percent is not struggling")
	assert.True(t, difficulty.IsStruggling(7, 10))
}

func TestAssessResponse(t *testing.T) {
	tests := []struct {
		name    string
		ms      int64
		correct bool
		want    models.DifficultyLevel
	}{
		{"fast and correct", 1500, true, models.DifficultyEasy},
		{"moderate and correct", 3000, true, models.DifficultyMedium},
		{"slow and correct", 5000, true, models.DifficultyHard},
		{"fast but incorrect bumps to medium", 1500, false, models.DifficultyMedium},
		{"moderate and incorrect bumps to hard", 3000, false, models.DifficultyHard},
		{"slow and incorrect stays hard", 9000, false, models.DifficultyHard},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, difficulty.AssessResponse(tt.ms, tt.correct))
		})
	}
}

func TestFeedbackDuration(t *testing.T) {
	// Fast correct answer on an easy card sits near the base time.
	d := difficulty.FeedbackDuration(1000, models.DifficultyEasy, models.DifficultyEasy, true)
	assert.Equal(t, int64(1750), d)

	// Incorrect on a hard card gets the larger consolidation bonus.
	d = difficulty.FeedbackDuration(1000, models.DifficultyMedium, models.DifficultyHard, false)
	assert.Equal(t, int64(3750), d)

	// The response-time contribution is capped, so a very slow answer
	// cannot push the duration past the overall bound.
	d = difficulty.FeedbackDuration(60000, models.DifficultyHard, models.DifficultyHard, false)
	assert.Equal(t, int64(5500), d)
	assert.LessOrEqual(t, d, int64(6000))
}
