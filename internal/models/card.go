package models

import "time"

// Card is a full catalog row, including the learning counters and SRS
// scheduling fields owned by the store.
type Card struct {
	ID             int64   `json:"id"`
	DomainID       string  `json:"domain_id"`
	CategoryKey    string  `json:"category_key"`
	SetKey         string  `json:"set_key"`
	Question       string  `json:"question"`
	Answer         string  `json:"answer"`
	CorrectCount   int     `json:"correct_count"`
	IncorrectCount int     `json:"incorrect_count"`
	ReviewedCount  int     `json:"reviewed_count"`
	EasinessFactor float64 `json:"easiness_factor"`
	IntervalHours  int     `json:"interval_hours"`
	Repetitions    int     `json:"repetitions"`
	NextReviewDate string  `json:"next_review_date"`
}

// Attempts returns the attempt count used for accuracy math: the reviewed
// counter when present, otherwise correct+incorrect.
func (c Card) Attempts() int {
	if c.ReviewedCount > 0 {
		return c.ReviewedCount
	}
	return c.CorrectCount + c.IncorrectCount
}

// SessionCard is the immutable per-session snapshot of a card. Counters and
// SRS fields are deliberately absent; they live in the session lookup maps.
type SessionCard struct {
	ID          int64  `json:"id"`
	CategoryKey string `json:"category_key"`
	SetKey      string `json:"set_key"`
	Question    string `json:"question"`
	Answer      string `json:"answer"`
}

// Snapshot converts a catalog row into its session-time projection.
func (c Card) Snapshot() SessionCard {
	return SessionCard{
		ID:          c.ID,
		CategoryKey: c.CategoryKey,
		SetKey:      c.SetKey,
		Question:    c.Question,
		Answer:      c.Answer,
	}
}

// SrsState is the scheduling state carried per card.
type SrsState struct {
	EasinessFactor float64 `json:"easiness_factor"`
	IntervalHours  int     `json:"interval_hours"`
	Repetitions    int     `json:"repetitions"`
}

// DefaultSrsState is used when a card has never been scheduled.
func DefaultSrsState() SrsState {
	return SrsState{EasinessFactor: 2.5, IntervalHours: 0, Repetitions: 0}
}

// DifficultyLevel buckets a card by demonstrated performance.
type DifficultyLevel string

const (
	DifficultyEasy   DifficultyLevel = "easy"
	DifficultyMedium DifficultyLevel = "medium"
	DifficultyHard   DifficultyLevel = "hard"
)

// Connection is a semantic-graph edge between two characters of a domain.
type Connection struct {
	SourceChar     string  `json:"source_char"`
	TargetChar     string  `json:"target_char"`
	ConnectionType string  `json:"connection_type"`
	Strength       float64 `json:"strength"`
}

// SrsRow is the wire shape of the SRS table endpoint.
type SrsRow struct {
	SetName        string  `json:"set_name"`
	Question       string  `json:"question"`
	Answer         string  `json:"answer"`
	EasinessFactor float64 `json:"easiness_factor"`
	IntervalHours  int     `json:"interval_hours"`
	Repetitions    int     `json:"repetitions"`
	NextReviewDate string  `json:"next_review_date"`
}

// AnswerWrite is the atomic per-answer mutation batch: one counter update,
// an optional SRS update, and one append-only event row. It is applied in a
// single transaction so a crash cannot leave the counters and the event log
// disagreeing.
type AnswerWrite struct {
	CardID  int64
	Correct bool
	Srs     *SrsUpdate
	Event   SessionEvent
}

// SrsUpdate carries the post-answer scheduling fields for a card.
type SrsUpdate struct {
	State          SrsState
	NextReviewDate string
}

// SessionEvent is one append-only answer record in the session log.
type SessionEvent struct {
	SessionID       string  `json:"session_id"`
	Position        int     `json:"position"`
	CardID          int64   `json:"card_id"`
	CategoryKey     string  `json:"category_key"`
	SetKey          string  `json:"set_key"`
	Question        string  `json:"question"`
	UserAnswer      string  `json:"user_answer"`
	CorrectAnswer   string  `json:"correct_answer"`
	Correct         bool    `json:"correct"`
	DurationSeconds float64 `json:"duration_seconds"`
}

// SessionHeader is written once when a session starts.
type SessionHeader struct {
	ID           string
	PracticeName string
	SessionType  string
	StartedAt    time.Time
}

// SessionSummary finalizes a session row on completion or cancel.
type SessionSummary struct {
	ID              string
	EndedAt         time.Time
	DurationSeconds float64
	CorrectCount    int
	Total           int
}
