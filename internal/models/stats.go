package models

// SetStat aggregates the learning state of one card set, as used by the
// auto-start orchestrator for scoring and unlock checks.
type SetStat struct {
	SetKey         string  `json:"set_key"`
	TotalCards     int     `json:"total_cards"`
	TotalCorrect   int     `json:"total_correct"`
	TotalIncorrect int     `json:"total_incorrect"`
	TotalAttempts  int     `json:"total_attempts"`
	DueCards       int     `json:"due_cards"`
	Accuracy       float64 `json:"accuracy"`
}

// CardStat is a per-card accuracy row for the stats endpoints and for
// struggle detection.
type CardStat struct {
	Question  string  `json:"question"`
	Answer    string  `json:"answer"`
	Correct   int     `json:"correct"`
	Incorrect int     `json:"incorrect"`
	Total     int     `json:"total"`
	Accuracy  float64 `json:"accuracy"`
}

// SetSummary is the aggregate block of the per-set stats endpoint.
type SetSummary struct {
	Correct        int     `json:"correct"`
	Incorrect      int     `json:"incorrect"`
	Total          int     `json:"total"`
	Accuracy       float64 `json:"accuracy"`
	TotalCards     int     `json:"total_cards"`
	AttemptedCards int     `json:"attempted_cards"`
	DifficultCount int     `json:"difficult_count"`
}
