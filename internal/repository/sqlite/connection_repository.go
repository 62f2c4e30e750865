package sqlite

import (
	"context"
	"database/sql"
	"strings"

	"github.com/jlin/hanziflash/internal/logger"
	"github.com/jlin/hanziflash/internal/models"
	"github.com/jlin/hanziflash/internal/repository"
)

type connectionRepository struct {
	db *sql.DB
}

// NewConnectionRepository creates a new ConnectionRepository implementation
func NewConnectionRepository(db *sql.DB) repository.ConnectionRepository {
	return &connectionRepository{db: db}
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}

func (r *connectionRepository) ConnectedTo(ctx context.Context, domainID string, chars []string, limit int) ([]models.Connection, error) {
	log := logger.FromContext(ctx).WithPrefix("connection_repo")
	log.Debug("finding connections for %d chars", len(chars))

	if len(chars) == 0 {
		return nil, nil
	}

	ph := placeholders(len(chars))
	query := `
SELECT source_char, target_char, connection_type, strength
FROM character_connections
WHERE domain_id = ?
  AND (source_char IN (` + ph + `) OR target_char IN (` + ph + `))
  AND connection_type IN ('semantic', 'compound', 'radical')
ORDER BY
  CASE connection_type
    WHEN 'semantic' THEN 1
    WHEN 'compound' THEN 2
    WHEN 'radical' THEN 3
    ELSE 4
  END,
  strength DESC
LIMIT ?
`
	args := make([]any, 0, 2*len(chars)+2)
	args = append(args, domainID)
	for _, c := range chars {
		args = append(args, c)
	}
	for _, c := range chars {
		args = append(args, c)
	}
	args = append(args, limit)

	return r.queryConnections(ctx, query, args...)
}

func (r *connectionRepository) SemanticAmong(ctx context.Context, domainID string, chars []string) ([]models.Connection, error) {
	log := logger.FromContext(ctx).WithPrefix("connection_repo")
	log.Debug("finding semantic edges among %d chars", len(chars))

	if len(chars) == 0 {
		return nil, nil
	}

	ph := placeholders(len(chars))
	query := `
SELECT source_char, target_char, connection_type, strength
FROM character_connections
WHERE domain_id = ?
  AND source_char IN (` + ph + `)
  AND target_char IN (` + ph + `)
  AND connection_type = 'semantic'
ORDER BY strength DESC
`
	args := make([]any, 0, 2*len(chars)+1)
	args = append(args, domainID)
	for _, c := range chars {
		args = append(args, c)
	}
	for _, c := range chars {
		args = append(args, c)
	}

	return r.queryConnections(ctx, query, args...)
}

func (r *connectionRepository) queryConnections(ctx context.Context, query string, args ...any) ([]models.Connection, error) {
	log := logger.FromContext(ctx).WithPrefix("connection_repo")

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to query connections: %v", err)
		return nil, err
	}
	defer rows.Close()

	var out []models.Connection
	for rows.Next() {
		var c models.Connection
		if err := rows.Scan(&c.SourceChar, &c.TargetChar, &c.ConnectionType, &c.Strength); err != nil {
			log.Error("failed to scan connection row: %v", err)
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
