package session

import "github.com/jlin/hanziflash/internal/models"

// AnswerPayload is the request body for answering the current card.
// ResponseTimeMs is optional; when absent the elapsed time since the card
// was served is used.
type AnswerPayload struct {
	Answer         string `json:"answer"`
	ResponseTimeMs int64  `json:"response_time_ms,omitempty"`
}

// CardView is the client-facing shape of the card being served. The answer
// is never included.
type CardView struct {
	Index    int    `json:"index"`
	Question string `json:"question"`
}

// Progress counts answered cards against the session total.
type Progress struct {
	Current int `json:"current"`
	Total   int `json:"total"`
}

// Evaluation is the graded outcome of a single answer. Difficulty is the
// live bucket derived from response time and correctness, not the card's
// historical one.
type Evaluation struct {
	Question           string                 `json:"question"`
	Correct            bool                   `json:"correct"`
	CorrectAnswer      string                 `json:"correct_answer"`
	UserAnswer         string                 `json:"user_answer"`
	Difficulty         models.DifficultyLevel `json:"difficulty"`
	FeedbackDurationMs int64                  `json:"feedback_duration_ms"`
}

// FinalResult is the terminal score of a session.
type FinalResult struct {
	Correct int `json:"correct"`
	Total   int `json:"total"`
}

// StartResponse is returned by Start and PlayAgain.
type StartResponse struct {
	SessionID    string    `json:"session_id"`
	PracticeName string    `json:"practice_name"`
	SessionType  string    `json:"session_type"`
	Done         bool      `json:"done"`
	Card         *CardView `json:"card,omitempty"`
	Progress     *Progress `json:"progress,omitempty"`
	// Degraded is set when connection-aware ordering was requested but the
	// session fell back to plain ordering.
	Degraded       bool   `json:"degraded,omitempty"`
	DegradedReason string `json:"degraded_reason,omitempty"`
}

// AnswerResponse is returned by Answer. When Done is true it carries the
// full result list and final score instead of a next card.
type AnswerResponse struct {
	Done       bool                  `json:"done"`
	Evaluation *Evaluation           `json:"evaluation,omitempty"`
	Card       *CardView             `json:"card,omitempty"`
	Progress   *Progress             `json:"progress,omitempty"`
	Results    []models.AnswerResult `json:"results,omitempty"`
	Result     *FinalResult          `json:"result,omitempty"`
}

// StateResponse is the read-only view returned by Get.
type StateResponse struct {
	SessionID    string                `json:"session_id"`
	PracticeName string                `json:"practice_name"`
	SessionType  string                `json:"session_type"`
	Done         bool                  `json:"done"`
	Card         *CardView             `json:"card,omitempty"`
	Progress     Progress              `json:"progress"`
	Results      []models.AnswerResult `json:"results"`
	Result       *FinalResult          `json:"result,omitempty"`
}

// CancelResponse acknowledges a cancel. Cancelled is false when no live
// session existed for the id.
type CancelResponse struct {
	Cancelled bool         `json:"cancelled"`
	Result    *FinalResult `json:"result,omitempty"`
}
