// Package mocks provides testify mocks for the repository interfaces.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/jlin/hanziflash/internal/models"
)

type MockCardRepository struct {
	mock.Mock
}

func (m *MockCardRepository) ListBySets(ctx context.Context, domainID string, setKeys []string) ([]models.Card, error) {
	args := m.Called(ctx, domainID, setKeys)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Card), args.Error(1)
}

func (m *MockCardRepository) ListDueBySets(ctx context.Context, domainID string, setKeys []string, limit int) ([]models.Card, error) {
	args := m.Called(ctx, domainID, setKeys, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Card), args.Error(1)
}

func (m *MockCardRepository) FindByContent(ctx context.Context, domainID string, item models.ReviewItem) (*models.Card, error) {
	args := m.Called(ctx, domainID, item)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Card), args.Error(1)
}

func (m *MockCardRepository) StatsByQuestions(ctx context.Context, domainID string, questions []string) ([]models.Card, error) {
	args := m.Called(ctx, domainID, questions)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Card), args.Error(1)
}

func (m *MockCardRepository) ApplyAnswer(ctx context.Context, w models.AnswerWrite) error {
	args := m.Called(ctx, w)
	return args.Error(0)
}

func (m *MockCardRepository) ListSetKeys(ctx context.Context, domainID string) ([]string, error) {
	args := m.Called(ctx, domainID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockCardRepository) SetStats(ctx context.Context, domainID string) ([]models.SetStat, error) {
	args := m.Called(ctx, domainID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.SetStat), args.Error(1)
}

func (m *MockCardRepository) CardStatsBySet(ctx context.Context, domainID, setKey string) ([]models.CardStat, error) {
	args := m.Called(ctx, domainID, setKey)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.CardStat), args.Error(1)
}

func (m *MockCardRepository) SrsRowsBySet(ctx context.Context, domainID, setKey string) ([]models.SrsRow, error) {
	args := m.Called(ctx, domainID, setKey)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.SrsRow), args.Error(1)
}

type MockConnectionRepository struct {
	mock.Mock
}

func (m *MockConnectionRepository) ConnectedTo(ctx context.Context, domainID string, chars []string, limit int) ([]models.Connection, error) {
	args := m.Called(ctx, domainID, chars, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Connection), args.Error(1)
}

func (m *MockConnectionRepository) SemanticAmong(ctx context.Context, domainID string, chars []string) ([]models.Connection, error) {
	args := m.Called(ctx, domainID, chars)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Connection), args.Error(1)
}

type MockSessionLogRepository struct {
	mock.Mock
}

func (m *MockSessionLogRepository) InsertHeader(ctx context.Context, h models.SessionHeader) error {
	args := m.Called(ctx, h)
	return args.Error(0)
}

func (m *MockSessionLogRepository) Finalize(ctx context.Context, s models.SessionSummary) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

type MockSessionStore struct {
	mock.Mock
}

func (m *MockSessionStore) Save(ctx context.Context, snap models.SessionSnapshot) error {
	args := m.Called(ctx, snap)
	return args.Error(0)
}

func (m *MockSessionStore) Load(ctx context.Context, sessionID string) (*models.SessionSnapshot, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.SessionSnapshot), args.Error(1)
}

func (m *MockSessionStore) Delete(ctx context.Context, sessionID string) error {
	args := m.Called(ctx, sessionID)
	return args.Error(0)
}
