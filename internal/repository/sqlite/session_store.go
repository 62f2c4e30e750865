package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/jlin/hanziflash/internal/logger"
	"github.com/jlin/hanziflash/internal/models"
	"github.com/jlin/hanziflash/internal/repository"
)

type sessionStore struct {
	db *sql.DB
}

// NewSessionStore creates a SessionStore backed by the session_state table.
// The snapshot is stored as a JSON blob keyed by session id; the actor is
// the only writer for a given key.
func NewSessionStore(db *sql.DB) repository.SessionStore {
	return &sessionStore{db: db}
}

func (s *sessionStore) Save(ctx context.Context, snap models.SessionSnapshot) error {
	log := logger.FromContext(ctx).WithPrefix("session_store")
	log.Debug("saving session state: id=%s, position=%d", snap.SessionID, snap.Position)

	blob, err := json.Marshal(snap)
	if err != nil {
		log.Error("failed to marshal session state: %v", err)
		return err
	}
	_, err = s.db.ExecContext(ctx, `
INSERT INTO session_state (session_id, state, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
ON CONFLICT(session_id) DO UPDATE SET state = excluded.state, updated_at = CURRENT_TIMESTAMP
`, snap.SessionID, string(blob))
	if err != nil {
		log.Error("failed to save session state: %v", err)
	}
	return err
}

func (s *sessionStore) Load(ctx context.Context, sessionID string) (*models.SessionSnapshot, error) {
	log := logger.FromContext(ctx).WithPrefix("session_store")

	var blob string
	err := s.db.QueryRowContext(ctx, `SELECT state FROM session_state WHERE session_id = ?`, sessionID).Scan(&blob)
	if errors.Is(err, sql.ErrNoRows) {
		log.Debug("session state not found: id=%s", sessionID)
		return nil, nil
	}
	if err != nil {
		log.Error("failed to load session state: %v", err)
		return nil, err
	}

	var snap models.SessionSnapshot
	if err := json.Unmarshal([]byte(blob), &snap); err != nil {
		log.Error("failed to unmarshal session state: %v", err)
		return nil, err
	}
	return &snap, nil
}

func (s *sessionStore) Delete(ctx context.Context, sessionID string) error {
	log := logger.FromContext(ctx).WithPrefix("session_store")
	log.Debug("deleting session state: id=%s", sessionID)

	_, err := s.db.ExecContext(ctx, `DELETE FROM session_state WHERE session_id = ?`, sessionID)
	if err != nil {
		log.Error("failed to delete session state: %v", err)
	}
	return err
}
