package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"math"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/jlin/hanziflash/internal/logger"
	"github.com/jlin/hanziflash/internal/models"
	"github.com/jlin/hanziflash/internal/repository"
)

const cardColumns = "id, domain_id, category_key, set_key, question, answer, correct_count, incorrect_count, reviewed_count, easiness_factor, interval_hours, repetitions, next_review_date"

type cardRepository struct {
	db *sql.DB
}

// NewCardRepository creates a new CardRepository implementation
func NewCardRepository(db *sql.DB) repository.CardRepository {
	return &cardRepository{db: db}
}

func scanCard(scanner interface{ Scan(...any) error }) (models.Card, error) {
	var c models.Card
	err := scanner.Scan(&c.ID, &c.DomainID, &c.CategoryKey, &c.SetKey, &c.Question, &c.Answer,
		&c.CorrectCount, &c.IncorrectCount, &c.ReviewedCount,
		&c.EasinessFactor, &c.IntervalHours, &c.Repetitions, &c.NextReviewDate)
	return c, err
}

func (r *cardRepository) queryCards(ctx context.Context, query squirrel.SelectBuilder) ([]models.Card, error) {
	log := logger.FromContext(ctx).WithPrefix("card_repo")

	sqlStr, args, err := query.ToSql()
	if err != nil {
		log.Error("failed to build query: %v", err)
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		log.Error("failed to query cards: %v", err)
		return nil, err
	}
	defer rows.Close()

	var cards []models.Card
	for rows.Next() {
		c, err := scanCard(rows)
		if err != nil {
			log.Error("failed to scan card row: %v", err)
			return nil, err
		}
		cards = append(cards, c)
	}
	return cards, rows.Err()
}

func (r *cardRepository) ListBySets(ctx context.Context, domainID string, setKeys []string) ([]models.Card, error) {
	log := logger.FromContext(ctx).WithPrefix("card_repo")
	log.Debug("listing cards: domain=%s, sets=%d", domainID, len(setKeys))

	if len(setKeys) == 0 {
		return nil, nil
	}

	query := sqlBuilder.Select(cardColumns).From("cards").
		Where(squirrel.Eq{"domain_id": domainID}).
		Where(squirrel.Eq{"set_key": setKeys}).
		OrderBy("set_key", "id")

	cards, err := r.queryCards(ctx, query)
	if err != nil {
		return nil, err
	}
	log.Debug("found %d cards", len(cards))
	return cards, nil
}

func (r *cardRepository) ListDueBySets(ctx context.Context, domainID string, setKeys []string, limit int) ([]models.Card, error) {
	log := logger.FromContext(ctx).WithPrefix("card_repo")
	log.Debug("listing due cards: domain=%s, sets=%d, limit=%d", domainID, len(setKeys), limit)

	if len(setKeys) == 0 {
		return nil, nil
	}

	query := sqlBuilder.Select(cardColumns).From("cards").
		Where(squirrel.Eq{"domain_id": domainID}).
		Where(squirrel.Eq{"set_key": setKeys}).
		Where(squirrel.Expr("datetime(next_review_date) <= CURRENT_TIMESTAMP")).
		OrderBy("(julianday('now') - julianday(next_review_date)) DESC")
	if limit > 0 {
		query = query.Limit(uint64(limit))
	}

	cards, err := r.queryCards(ctx, query)
	if err != nil {
		return nil, err
	}
	log.Debug("found %d due cards", len(cards))
	return cards, nil
}

func (r *cardRepository) FindByContent(ctx context.Context, domainID string, item models.ReviewItem) (*models.Card, error) {
	log := logger.FromContext(ctx).WithPrefix("card_repo")

	query := sqlBuilder.Select(cardColumns).From("cards").
		Where(squirrel.Eq{"domain_id": domainID}).
		Where(squirrel.Eq{"question": item.Question}).
		Where(squirrel.Eq{"answer": item.Answer}).
		Limit(1)
	if item.SetName != "" {
		query = query.Where(squirrel.Eq{"set_key": item.SetName})
	}

	sqlStr, args, err := query.ToSql()
	if err != nil {
		log.Error("failed to build query: %v", err)
		return nil, err
	}

	c, err := scanCard(r.db.QueryRowContext(ctx, sqlStr, args...))
	if errors.Is(err, sql.ErrNoRows) {
		log.Debug("card not found: question=%s", item.Question)
		return nil, nil
	}
	if err != nil {
		log.Error("failed to find card by content: %v", err)
		return nil, err
	}
	return &c, nil
}

func (r *cardRepository) StatsByQuestions(ctx context.Context, domainID string, questions []string) ([]models.Card, error) {
	log := logger.FromContext(ctx).WithPrefix("card_repo")
	log.Debug("fetching stats for %d questions", len(questions))

	if len(questions) == 0 {
		return nil, nil
	}

	// Ranked worst-first: lowest accuracy, then most attempts.
	query := sqlBuilder.Select(cardColumns).From("cards").
		Where(squirrel.Eq{"domain_id": domainID}).
		Where(squirrel.Eq{"question": questions}).
		Where(squirrel.GtOrEq{"reviewed_count": 3}).
		OrderBy("CASE WHEN reviewed_count > 0 THEN (correct_count * 100.0 / reviewed_count) ELSE 100 END ASC").
		OrderBy("reviewed_count DESC")

	return r.queryCards(ctx, query)
}

func (r *cardRepository) ApplyAnswer(ctx context.Context, w models.AnswerWrite) error {
	log := logger.FromContext(ctx).WithPrefix("card_repo")
	log.Debug("applying answer: card_id=%d, correct=%t, srs=%t", w.CardID, w.Correct, w.Srs != nil)

	correctDelta, incorrectDelta := 0, 1
	if w.Correct {
		correctDelta, incorrectDelta = 1, 0
	}
	now := time.Now().UTC().Format("2006-01-02 15:04:05")

	return tx(ctx, r.db, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `
UPDATE cards SET
    correct_count = correct_count + ?,
    incorrect_count = incorrect_count + ?,
    reviewed_count = reviewed_count + 1,
    updated_at = ?
WHERE id = ?
`, correctDelta, incorrectDelta, now, w.CardID); err != nil {
			return err
		}

		if w.Srs != nil {
			if _, err := tx.ExecContext(ctx, `
UPDATE cards SET easiness_factor = ?, interval_hours = ?, repetitions = ?, next_review_date = ?, updated_at = ?
WHERE id = ?
`, w.Srs.State.EasinessFactor, w.Srs.State.IntervalHours, w.Srs.State.Repetitions, w.Srs.NextReviewDate, now, w.CardID); err != nil {
				return err
			}
		}

		correct := 0
		if w.Event.Correct {
			correct = 1
		}
		_, err := tx.ExecContext(ctx, `
INSERT OR IGNORE INTO session_events (session_id, position, card_id, category_key, set_key, question, user_answer, correct_answer, correct, duration_seconds, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`, w.Event.SessionID, w.Event.Position, w.Event.CardID, w.Event.CategoryKey, w.Event.SetKey,
			w.Event.Question, w.Event.UserAnswer, w.Event.CorrectAnswer, correct, w.Event.DurationSeconds, now)
		return err
	})
}

func (r *cardRepository) ListSetKeys(ctx context.Context, domainID string) ([]string, error) {
	log := logger.FromContext(ctx).WithPrefix("card_repo")

	rows, err := r.db.QueryContext(ctx, `SELECT DISTINCT set_key FROM cards WHERE domain_id = ? ORDER BY set_key`, domainID)
	if err != nil {
		log.Error("failed to list set keys: %v", err)
		return nil, err
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, err
		}
		keys = append(keys, k)
	}
	return keys, rows.Err()
}

func (r *cardRepository) SetStats(ctx context.Context, domainID string) ([]models.SetStat, error) {
	log := logger.FromContext(ctx).WithPrefix("card_repo")
	log.Debug("aggregating set stats: domain=%s", domainID)

	rows, err := r.db.QueryContext(ctx, `
SELECT
    set_key,
    COUNT(*) AS total_cards,
    SUM(correct_count) AS total_correct,
    SUM(incorrect_count) AS total_incorrect,
    SUM(CASE WHEN reviewed_count > 0 THEN reviewed_count ELSE correct_count + incorrect_count END) AS total_attempts,
    SUM(CASE WHEN datetime(next_review_date) <= CURRENT_TIMESTAMP THEN 1 ELSE 0 END) AS due_cards
FROM cards
WHERE domain_id = ?
GROUP BY set_key
ORDER BY set_key
`, domainID)
	if err != nil {
		log.Error("failed to aggregate set stats: %v", err)
		return nil, err
	}
	defer rows.Close()

	var stats []models.SetStat
	for rows.Next() {
		var s models.SetStat
		if err := rows.Scan(&s.SetKey, &s.TotalCards, &s.TotalCorrect, &s.TotalIncorrect, &s.TotalAttempts, &s.DueCards); err != nil {
			log.Error("failed to scan set stat row: %v", err)
			return nil, err
		}
		if s.TotalAttempts > 0 {
			s.Accuracy = float64(s.TotalCorrect) / float64(s.TotalAttempts) * 100
		}
		stats = append(stats, s)
	}
	log.Debug("aggregated %d sets", len(stats))
	return stats, rows.Err()
}

func (r *cardRepository) CardStatsBySet(ctx context.Context, domainID, setKey string) ([]models.CardStat, error) {
	log := logger.FromContext(ctx).WithPrefix("card_repo")

	rows, err := r.db.QueryContext(ctx, `
SELECT question, answer, correct_count, incorrect_count, reviewed_count
FROM cards
WHERE domain_id = ? AND set_key = ?
ORDER BY question
`, domainID, setKey)
	if err != nil {
		log.Error("failed to query card stats: %v", err)
		return nil, err
	}
	defer rows.Close()

	var stats []models.CardStat
	for rows.Next() {
		var s models.CardStat
		var reviewed int
		if err := rows.Scan(&s.Question, &s.Answer, &s.Correct, &s.Incorrect, &reviewed); err != nil {
			return nil, err
		}
		s.Total = reviewed
		if s.Total == 0 {
			s.Total = s.Correct + s.Incorrect
		}
		if s.Total > 0 {
			s.Accuracy = math.Round(float64(s.Correct)/float64(s.Total)*1000) / 10
		}
		stats = append(stats, s)
	}
	return stats, rows.Err()
}

func (r *cardRepository) SrsRowsBySet(ctx context.Context, domainID, setKey string) ([]models.SrsRow, error) {
	log := logger.FromContext(ctx).WithPrefix("card_repo")

	rows, err := r.db.QueryContext(ctx, `
SELECT set_key, question, answer, easiness_factor, interval_hours, repetitions, next_review_date
FROM cards
WHERE domain_id = ? AND set_key = ?
ORDER BY question
`, domainID, setKey)
	if err != nil {
		log.Error("failed to query srs rows: %v", err)
		return nil, err
	}
	defer rows.Close()

	var out []models.SrsRow
	for rows.Next() {
		var r models.SrsRow
		if err := rows.Scan(&r.SetName, &r.Question, &r.Answer, &r.EasinessFactor, &r.IntervalHours, &r.Repetitions, &r.NextReviewDate); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
