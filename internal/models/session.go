package models

import "time"

// SessionMode selects the card-selection strategy for a session.
type SessionMode string

const (
	ModeMultiSetAll        SessionMode = "multi_set_all"
	ModeMultiSetDifficulty SessionMode = "multi_set_difficulty"
	ModeMultiSetSrs        SessionMode = "multi_set_srs"
	ModeReviewIncorrect    SessionMode = "review_incorrect"
)

// SessionType returns the human label recorded in the session log.
func (m SessionMode) SessionType() string {
	switch m {
	case ModeMultiSetAll:
		return "Multi-Set Review"
	case ModeMultiSetDifficulty:
		return "Multi-Set Practice by Difficulty"
	case ModeMultiSetSrs:
		return "SRS Review"
	case ModeReviewIncorrect:
		return "Review Incorrect"
	default:
		return string(m)
	}
}

// ReviewItem identifies a previously-missed card by content. SetName is
// optional; without it resolution falls back to a question+answer lookup.
type ReviewItem struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
	SetName  string `json:"set_name,omitempty"`
}

// StartPayload is the request body for starting a session.
type StartPayload struct {
	Mode             SessionMode       `json:"mode"`
	DomainID         string            `json:"domain_id,omitempty"`
	SelectedSets     []string          `json:"selected_sets,omitempty"`
	DifficultyLevels []DifficultyLevel `json:"difficulty_levels,omitempty"`
	ReviewItems      []ReviewItem      `json:"review_items,omitempty"`
	ExcludeNewCards  bool              `json:"exclude_new_cards,omitempty"`
	ConnectionAware  bool              `json:"connection_aware,omitempty"`
}

// AnswerResult is the immutable per-answer record accumulated by a session,
// in presentation order.
type AnswerResult struct {
	Question      string `json:"question"`
	Correct       bool   `json:"correct"`
	CorrectAnswer string `json:"correct_answer"`
	UserAnswer    string `json:"user_answer"`
}

// SessionSnapshot is the durable form of a session actor's state. The lookup
// maps derived purely from Cards (answers, metadata) are rebuilt on load;
// the difficulty and SRS maps are persisted because they were fetched from
// the store at selection time.
type SessionSnapshot struct {
	SessionID       string                     `json:"session_id"`
	Mode            SessionMode                `json:"mode"`
	DomainID        string                     `json:"domain_id"`
	StartedAt       time.Time                  `json:"started_at"`
	PracticeName    string                     `json:"practice_name"`
	SessionType     string                     `json:"session_type"`
	Position        int                        `json:"position"`
	Order           []int                      `json:"order"`
	Cards           []SessionCard              `json:"cards"`
	CorrectCount    int                        `json:"correct_count"`
	Results         []AnswerResult             `json:"results"`
	Difficulty      map[string]DifficultyLevel `json:"difficulty"`
	Srs             map[string]SrsState        `json:"srs"`
	QuestionStart   time.Time                  `json:"question_start"`
	ConnectionAware bool                       `json:"connection_aware"`
}
