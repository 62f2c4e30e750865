package session

import (
	"github.com/jlin/hanziflash/internal/difficulty"
	"github.com/jlin/hanziflash/internal/models"
)

// lookups are the four derived maps built once per session, giving O(1)
// answer validation and write-back targeting during answer processing.
// They are computed by a single constructor from the card rows so the maps
// can never drift apart from each other or from the snapshot.
type lookups struct {
	answers map[string]string
	meta    map[string]models.SessionCard
	levels  map[string]models.DifficultyLevel
	srs     map[string]models.SrsState
}

// newLookups derives all four maps from the selected card rows, before the
// first card is served. Cards missing SRS fields default to a fresh state.
func newLookups(cards []models.Card) lookups {
	l := lookups{
		answers: make(map[string]string, len(cards)),
		meta:    make(map[string]models.SessionCard, len(cards)),
		levels:  make(map[string]models.DifficultyLevel, len(cards)),
		srs:     make(map[string]models.SrsState, len(cards)),
	}
	for _, c := range cards {
		l.answers[c.Question] = c.Answer
		l.meta[c.Question] = c.Snapshot()
		l.levels[c.Question] = difficulty.ClassifyCard(c)
		st := models.SrsState{
			EasinessFactor: c.EasinessFactor,
			IntervalHours:  c.IntervalHours,
			Repetitions:    c.Repetitions,
		}
		if st.EasinessFactor == 0 {
			st = models.DefaultSrsState()
		}
		l.srs[c.Question] = st
	}
	return l
}

// lookupsFromSnapshot rebuilds the answer and metadata maps from the
// persisted card snapshot and carries the stored difficulty and SRS maps.
func lookupsFromSnapshot(snap *models.SessionSnapshot) lookups {
	l := lookups{
		answers: make(map[string]string, len(snap.Cards)),
		meta:    make(map[string]models.SessionCard, len(snap.Cards)),
		levels:  snap.Difficulty,
		srs:     snap.Srs,
	}
	if l.levels == nil {
		l.levels = make(map[string]models.DifficultyLevel)
	}
	if l.srs == nil {
		l.srs = make(map[string]models.SrsState)
	}
	for _, c := range snap.Cards {
		l.answers[c.Question] = c.Answer
		l.meta[c.Question] = c
	}
	return l
}

// level returns the historical difficulty for a question, treating unknown
// cards as hard.
func (l lookups) level(question string) models.DifficultyLevel {
	if lvl, ok := l.levels[question]; ok {
		return lvl
	}
	return models.DifficultyHard
}

// srsState returns the scheduling state for a question, defaulting to a
// fresh card.
func (l lookups) srsState(question string) models.SrsState {
	if st, ok := l.srs[question]; ok {
		return st
	}
	return models.DefaultSrsState()
}

// done reports whether a snapshot has served every card.
func done(snap *models.SessionSnapshot) bool {
	return snap.Position >= len(snap.Order)
}
