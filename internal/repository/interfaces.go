package repository

import (
	"context"

	"github.com/jlin/hanziflash/internal/models"
)

// CardRepository handles card catalog access
type CardRepository interface {
	ListBySets(ctx context.Context, domainID string, setKeys []string) ([]models.Card, error)
	ListDueBySets(ctx context.Context, domainID string, setKeys []string, limit int) ([]models.Card, error)
	FindByContent(ctx context.Context, domainID string, item models.ReviewItem) (*models.Card, error)
	StatsByQuestions(ctx context.Context, domainID string, questions []string) ([]models.Card, error)
	ApplyAnswer(ctx context.Context, w models.AnswerWrite) error
	ListSetKeys(ctx context.Context, domainID string) ([]string, error)
	SetStats(ctx context.Context, domainID string) ([]models.SetStat, error)
	CardStatsBySet(ctx context.Context, domainID, setKey string) ([]models.CardStat, error)
	SrsRowsBySet(ctx context.Context, domainID, setKey string) ([]models.SrsRow, error)
}

// ConnectionRepository handles semantic-graph edge access
type ConnectionRepository interface {
	// ConnectedTo returns edges touching any of chars, restricted to the
	// semantic/compound/radical types, ordered by type priority then
	// strength, capped at limit.
	ConnectedTo(ctx context.Context, domainID string, chars []string, limit int) ([]models.Connection, error)
	// SemanticAmong returns semantic edges whose both endpoints are in chars.
	SemanticAmong(ctx context.Context, domainID string, chars []string) ([]models.Connection, error)
}

// SessionLogRepository handles session header and summary rows
type SessionLogRepository interface {
	InsertHeader(ctx context.Context, h models.SessionHeader) error
	Finalize(ctx context.Context, s models.SessionSummary) error
}

// SessionStore persists the session actor's own durable state
type SessionStore interface {
	Save(ctx context.Context, snap models.SessionSnapshot) error
	Load(ctx context.Context, sessionID string) (*models.SessionSnapshot, error)
	Delete(ctx context.Context, sessionID string) error
}
