package testutil

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jlin/hanziflash/internal/db"
	"github.com/jlin/hanziflash/internal/models"
)

// NewTestDB creates an in-memory SQLite database with all migrations
// applied, closed automatically when the test finishes.
func NewTestDB(t *testing.T) *db.DB {
	t.Helper()

	database, err := db.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })
	return database
}

// SeedCard inserts a catalog row and returns its id.
func SeedCard(t *testing.T, database *db.DB, c models.Card) int64 {
	t.Helper()

	if c.DomainID == "" {
		c.DomainID = "chinese"
	}
	if c.NextReviewDate == "" {
		c.NextReviewDate = "1970-01-01 00:00:00"
	}
	if c.EasinessFactor == 0 {
		c.EasinessFactor = 2.5
	}
	res, err := database.ExecContext(context.Background(), `
		INSERT INTO cards (domain_id, category_key, set_key, question, answer,
			correct_count, incorrect_count, reviewed_count,
			easiness_factor, interval_hours, repetitions, next_review_date)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		c.DomainID, c.CategoryKey, c.SetKey, c.Question, c.Answer,
		c.CorrectCount, c.IncorrectCount, c.ReviewedCount,
		c.EasinessFactor, c.IntervalHours, c.Repetitions, c.NextReviewDate,
	)
	require.NoError(t, err)
	id, err := res.LastInsertId()
	require.NoError(t, err)
	return id
}

// SeedConnection inserts one semantic-graph edge.
func SeedConnection(t *testing.T, database *db.DB, domainID string, conn models.Connection) {
	t.Helper()

	if domainID == "" {
		domainID = "chinese"
	}
	_, err := database.ExecContext(context.Background(), `
		INSERT INTO character_connections (domain_id, source_char, target_char, connection_type, strength)
		VALUES (?, ?, ?, ?, ?)`,
		domainID, conn.SourceChar, conn.TargetChar, conn.ConnectionType, conn.Strength,
	)
	require.NoError(t, err)
}

// MustClose closes a resource and fails the test on error.
func MustClose(t *testing.T, closer interface{ Close() error }) {
	require.NoError(t, closer.Close())
}
