package sqlite

import (
	"context"
	"database/sql"

	"github.com/jlin/hanziflash/internal/logger"
	"github.com/jlin/hanziflash/internal/models"
	"github.com/jlin/hanziflash/internal/repository"
)

type sessionLogRepository struct {
	db *sql.DB
}

// NewSessionLogRepository creates a new SessionLogRepository implementation
func NewSessionLogRepository(db *sql.DB) repository.SessionLogRepository {
	return &sessionLogRepository{db: db}
}

func (r *sessionLogRepository) InsertHeader(ctx context.Context, h models.SessionHeader) error {
	log := logger.FromContext(ctx).WithPrefix("session_log_repo")
	log.Debug("inserting session header: id=%s, type=%s", h.ID, h.SessionType)

	_, err := r.db.ExecContext(ctx, `
INSERT OR REPLACE INTO sessions (id, practice_name, session_type, started_at)
VALUES (?, ?, ?, ?)
`, h.ID, h.PracticeName, h.SessionType, h.StartedAt.UTC().Format("2006-01-02 15:04:05"))
	if err != nil {
		log.Error("failed to insert session header: %v", err)
	}
	return err
}

func (r *sessionLogRepository) Finalize(ctx context.Context, s models.SessionSummary) error {
	log := logger.FromContext(ctx).WithPrefix("session_log_repo")
	log.Debug("finalizing session: id=%s, correct=%d, total=%d", s.ID, s.CorrectCount, s.Total)

	_, err := r.db.ExecContext(ctx, `
UPDATE sessions SET ended_at = ?, duration_seconds = ?, correct_count = ?, total = ? WHERE id = ?
`, s.EndedAt.UTC().Format("2006-01-02 15:04:05"), s.DurationSeconds, s.CorrectCount, s.Total, s.ID)
	if err != nil {
		log.Error("failed to finalize session: %v", err)
	}
	return err
}
