package session

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/jlin/hanziflash/internal/difficulty"
	"github.com/jlin/hanziflash/internal/errors"
	"github.com/jlin/hanziflash/internal/logger"
	"github.com/jlin/hanziflash/internal/models"
	"github.com/jlin/hanziflash/internal/repository"
	"github.com/jlin/hanziflash/internal/selection"
	"github.com/jlin/hanziflash/internal/srs"
	"github.com/jlin/hanziflash/internal/worker"
)

const playAgainSuffix = " (Play Again)"

// Manager owns every live practice session. All writes to a session go
// through a per-session mutex, so each session behaves as a single-writer
// actor: answers are applied strictly one at a time, in arrival order.
type Manager struct {
	selector   *selection.Selector
	connAware  *selection.ConnectionAware
	cards      repository.CardRepository
	sessionLog repository.SessionLogRepository
	store      repository.SessionStore
	pool       *worker.Pool

	defaultDomain string
	now           func() time.Time

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewManager wires the session actor. pool may be nil; cancel summaries are
// then written inline.
func NewManager(
	selector *selection.Selector,
	connAware *selection.ConnectionAware,
	cards repository.CardRepository,
	sessionLog repository.SessionLogRepository,
	store repository.SessionStore,
	pool *worker.Pool,
	defaultDomain string,
) *Manager {
	return &Manager{
		selector:      selector,
		connAware:     connAware,
		cards:         cards,
		sessionLog:    sessionLog,
		store:         store,
		pool:          pool,
		defaultDomain: defaultDomain,
		now:           time.Now,
		locks:         make(map[string]*sync.Mutex),
	}
}

// lockFor returns the mutex serializing all operations on one session id.
func (m *Manager) lockFor(sessionID string) *sync.Mutex {
	m.mu.Lock()
	defer m.mu.Unlock()
	l, ok := m.locks[sessionID]
	if !ok {
		l = &sync.Mutex{}
		m.locks[sessionID] = l
	}
	return l
}

func (m *Manager) releaseLock(sessionID string) {
	m.mu.Lock()
	delete(m.locks, sessionID)
	m.mu.Unlock()
}

// Start creates a session under the given id: selects cards for the
// requested mode, optionally applies connection-aware ordering, persists the
// snapshot and the session header, and serves the first card.
func (m *Manager) Start(ctx context.Context, sessionID string, payload models.StartPayload) (*StartResponse, error) {
	lock := m.lockFor(sessionID)
	lock.Lock()
	defer lock.Unlock()

	log := logger.FromContext(ctx).WithField("session_id", sessionID)

	if err := validatePayload(payload); err != nil {
		return nil, err
	}
	if payload.DomainID == "" {
		payload.DomainID = m.defaultDomain
	}

	cards, err := m.selector.Select(ctx, payload)
	if err != nil {
		return nil, errors.NewInternalError(fmt.Errorf("selecting cards: %w", err))
	}

	var degradedReason string
	degradedFlag := false
	if payload.ConnectionAware {
		res := m.connAware.Apply(ctx, payload.DomainID, cards)
		cards = res.Cards
		degradedFlag = res.Degraded
		degradedReason = res.Reason
	}

	practiceName := practiceNameFor(payload)
	sessionType := payload.Mode.SessionType()

	now := m.now()
	order := make([]int, len(cards))
	for i := range order {
		order[i] = i
	}
	// Connection-aware output is already ordered; shuffling would undo it.
	// The flag holds even when the selection degraded, so a retried session
	// behaves the same way.
	if !payload.ConnectionAware {
		rand.Shuffle(len(order), func(i, j int) {
			order[i], order[j] = order[j], order[i]
		})
	}

	l := newLookups(cards)
	snaps := make([]models.SessionCard, len(cards))
	for i, c := range cards {
		snaps[i] = c.Snapshot()
	}

	snap := models.SessionSnapshot{
		SessionID:       sessionID,
		Mode:            payload.Mode,
		DomainID:        payload.DomainID,
		StartedAt:       now,
		PracticeName:    practiceName,
		SessionType:     sessionType,
		Order:           order,
		Cards:           snaps,
		Results:         []models.AnswerResult{},
		Difficulty:      l.levels,
		Srs:             l.srs,
		QuestionStart:   now,
		ConnectionAware: payload.ConnectionAware,
	}

	if err := m.store.Save(ctx, snap); err != nil {
		return nil, errors.NewInternalError(fmt.Errorf("saving session state: %w", err))
	}
	if err := m.sessionLog.InsertHeader(ctx, models.SessionHeader{
		ID:           sessionID,
		PracticeName: practiceName,
		SessionType:  sessionType,
		StartedAt:    now,
	}); err != nil {
		return nil, errors.NewInternalError(fmt.Errorf("recording session header: %w", err))
	}

	// A zero-length session is still a real session: its state and header
	// were persisted above, so Get resolves it and the log records the
	// attempt.
	if len(order) == 0 {
		log.Info("no cards matched, session %s is empty", sessionID)
		return &StartResponse{
			SessionID:    sessionID,
			PracticeName: practiceName,
			SessionType:  sessionType,
			Done:         true,
			Progress:     &Progress{Current: 0, Total: 0},
		}, nil
	}

	log.Info("session started: mode=%s cards=%d connection_aware=%v", payload.Mode, len(cards), payload.ConnectionAware)

	return &StartResponse{
		SessionID:      sessionID,
		PracticeName:   practiceName,
		SessionType:    sessionType,
		Card:           cardViewAt(&snap),
		Progress:       &Progress{Current: 0, Total: len(order)},
		Degraded:       degradedFlag,
		DegradedReason: degradedReason,
	}, nil
}

// Answer grades the submitted answer against the current card, applies the
// counter and scheduling writes, advances the position, and returns either
// the next card or the terminal summary. Answering a finished session is
// not an error; it returns the done response again.
func (m *Manager) Answer(ctx context.Context, sessionID string, payload AnswerPayload) (*AnswerResponse, error) {
	lock := m.lockFor(sessionID)
	lock.Lock()
	defer lock.Unlock()

	log := logger.FromContext(ctx).WithField("session_id", sessionID)

	snap, err := m.store.Load(ctx, sessionID)
	if err != nil {
		return nil, errors.NewInternalError(fmt.Errorf("loading session state: %w", err))
	}
	if snap == nil {
		return nil, errors.NewNotFoundError("session", sessionID)
	}
	if done(snap) {
		return doneResponse(snap, nil), nil
	}

	l := lookupsFromSnapshot(snap)
	now := m.now()
	card := snap.Cards[snap.Order[snap.Position]]
	correctAnswer := l.answers[card.Question]
	correct := ValidateAnswer(payload.Answer, correctAnswer)

	ms := payload.ResponseTimeMs
	if ms <= 0 {
		ms = now.Sub(snap.QuestionStart).Milliseconds()
	}
	if ms < 0 {
		ms = 0
	}
	durationSeconds := math.Round(float64(ms)/100) / 10

	response := difficulty.AssessResponse(ms, correct)
	feedback := difficulty.FeedbackDuration(ms, response, l.level(card.Question), correct)

	write := models.AnswerWrite{
		CardID:  card.ID,
		Correct: correct,
		Event: models.SessionEvent{
			SessionID:       sessionID,
			Position:        snap.Position,
			CardID:          card.ID,
			CategoryKey:     card.CategoryKey,
			SetKey:          card.SetKey,
			Question:        card.Question,
			UserAnswer:      payload.Answer,
			CorrectAnswer:   correctAnswer,
			Correct:         correct,
			DurationSeconds: durationSeconds,
		},
	}
	// Scheduling only moves in SRS sessions; other modes touch counters but
	// leave the review calendar alone.
	if snap.Mode == models.ModeMultiSetSrs {
		next, nextReview := srs.Advance(l.srsState(card.Question), correct, now)
		write.Srs = &models.SrsUpdate{State: next, NextReviewDate: nextReview}
		l.srs[card.Question] = next
		snap.Srs = l.srs
	}
	if err := m.cards.ApplyAnswer(ctx, write); err != nil {
		// The session keeps moving even when the catalog write fails; the
		// in-session score is the source of truth for this run.
		log.Error("answer write failed for card %d: %v", card.ID, err)
	}

	snap.Results = append(snap.Results, models.AnswerResult{
		Question:      card.Question,
		Correct:       correct,
		CorrectAnswer: correctAnswer,
		UserAnswer:    payload.Answer,
	})
	if correct {
		snap.CorrectCount++
	}
	snap.Position++
	snap.QuestionStart = now

	eval := &Evaluation{
		Question:           card.Question,
		Correct:            correct,
		CorrectAnswer:      correctAnswer,
		UserAnswer:         payload.Answer,
		Difficulty:         response,
		FeedbackDurationMs: feedback,
	}

	if done(snap) {
		if err := m.sessionLog.Finalize(ctx, summaryOf(snap, now)); err != nil {
			log.Error("finalizing session summary: %v", err)
		}
		if err := m.store.Save(ctx, *snap); err != nil {
			return nil, errors.NewInternalError(fmt.Errorf("saving session state: %w", err))
		}
		log.Info("session complete: %d/%d correct", snap.CorrectCount, len(snap.Order))
		return doneResponse(snap, eval), nil
	}

	if err := m.store.Save(ctx, *snap); err != nil {
		return nil, errors.NewInternalError(fmt.Errorf("saving session state: %w", err))
	}

	return &AnswerResponse{
		Evaluation: eval,
		Card:       cardViewAt(snap),
		Progress:   &Progress{Current: snap.Position, Total: len(snap.Order)},
	}, nil
}

// Get returns a read-only view of the session without advancing it.
func (m *Manager) Get(ctx context.Context, sessionID string) (*StateResponse, error) {
	snap, err := m.store.Load(ctx, sessionID)
	if err != nil {
		return nil, errors.NewInternalError(fmt.Errorf("loading session state: %w", err))
	}
	if snap == nil {
		return nil, errors.NewNotFoundError("session", sessionID)
	}

	resp := &StateResponse{
		SessionID:    snap.SessionID,
		PracticeName: snap.PracticeName,
		SessionType:  snap.SessionType,
		Done:         done(snap),
		Progress:     Progress{Current: snap.Position, Total: len(snap.Order)},
		Results:      snap.Results,
	}
	if resp.Done {
		resp.Result = &FinalResult{Correct: snap.CorrectCount, Total: len(snap.Order)}
	} else {
		resp.Card = cardViewAt(snap)
	}
	return resp, nil
}

// Cancel ends a session early. The partial summary is written best-effort
// through the worker pool; the durable state is deleted either way.
func (m *Manager) Cancel(ctx context.Context, sessionID string) (*CancelResponse, error) {
	lock := m.lockFor(sessionID)
	lock.Lock()
	defer lock.Unlock()

	log := logger.FromContext(ctx).WithField("session_id", sessionID)

	snap, err := m.store.Load(ctx, sessionID)
	if err != nil {
		return nil, errors.NewInternalError(fmt.Errorf("loading session state: %w", err))
	}
	if snap == nil {
		return &CancelResponse{Cancelled: false}, nil
	}

	// The summary keeps the planned session length; the score shows how far
	// the run got before the cancel.
	m.finalizeBestEffort(summaryOf(snap, m.now()))

	if err := m.store.Delete(ctx, sessionID); err != nil {
		log.Error("deleting session state: %v", err)
	}
	m.releaseLock(sessionID)

	return &CancelResponse{
		Cancelled: true,
		Result:    &FinalResult{Correct: snap.CorrectCount, Total: len(snap.Order)},
	}, nil
}

// PlayAgain restarts a finished (or mid-flight) session with the same cards:
// fresh order, zeroed score, carried difficulty and scheduling maps.
func (m *Manager) PlayAgain(ctx context.Context, sessionID string) (*StartResponse, error) {
	lock := m.lockFor(sessionID)
	lock.Lock()
	defer lock.Unlock()

	snap, err := m.store.Load(ctx, sessionID)
	if err != nil {
		return nil, errors.NewInternalError(fmt.Errorf("loading session state: %w", err))
	}
	if snap == nil {
		return nil, errors.NewNotFoundError("session", sessionID)
	}

	now := m.now()
	order := make([]int, len(snap.Cards))
	for i := range order {
		order[i] = i
	}
	if !snap.ConnectionAware {
		rand.Shuffle(len(order), func(i, j int) {
			order[i], order[j] = order[j], order[i]
		})
	}

	name := snap.PracticeName
	if !strings.HasSuffix(name, playAgainSuffix) {
		name += playAgainSuffix
	}

	snap.PracticeName = name
	snap.StartedAt = now
	snap.QuestionStart = now
	snap.Order = order
	snap.Position = 0
	snap.CorrectCount = 0
	snap.Results = []models.AnswerResult{}

	if err := m.store.Save(ctx, *snap); err != nil {
		return nil, errors.NewInternalError(fmt.Errorf("saving session state: %w", err))
	}
	if err := m.sessionLog.InsertHeader(ctx, models.SessionHeader{
		ID:           sessionID,
		PracticeName: name,
		SessionType:  snap.SessionType,
		StartedAt:    now,
	}); err != nil {
		return nil, errors.NewInternalError(fmt.Errorf("recording session header: %w", err))
	}

	return &StartResponse{
		SessionID:    sessionID,
		PracticeName: name,
		SessionType:  snap.SessionType,
		Card:         cardViewAt(snap),
		Progress:     &Progress{Current: 0, Total: len(order)},
	}, nil
}

// finalizeBestEffort writes a summary through the pool when one is running,
// inline otherwise. Failures are logged and swallowed.
func (m *Manager) finalizeBestEffort(summary models.SessionSummary) {
	write := func(ctx context.Context) error {
		return m.sessionLog.Finalize(ctx, summary)
	}
	job := worker.JobFunc{JobName: "session-summary-" + summary.ID, Fn: write}
	if m.pool != nil && m.pool.TrySubmit(job) {
		return
	}
	if err := write(context.Background()); err != nil {
		logger.Default().Warn("summary write failed for session %s: %v", summary.ID, err)
	}
}

func validatePayload(payload models.StartPayload) error {
	switch payload.Mode {
	case models.ModeMultiSetAll, models.ModeMultiSetSrs:
		if len(payload.SelectedSets) == 0 {
			return errors.NewValidationError("selected_sets", "at least one set is required")
		}
	case models.ModeMultiSetDifficulty:
		if len(payload.SelectedSets) == 0 {
			return errors.NewValidationError("selected_sets", "at least one set is required")
		}
		if len(payload.DifficultyLevels) == 0 {
			return errors.NewValidationError("difficulty_levels", "at least one level is required")
		}
	case models.ModeReviewIncorrect:
		if len(payload.ReviewItems) == 0 {
			return errors.NewValidationError("review_items", "at least one item is required")
		}
	default:
		return errors.NewValidationError("mode", fmt.Sprintf("unknown session mode %q", payload.Mode))
	}
	return nil
}

func practiceNameFor(payload models.StartPayload) string {
	switch payload.Mode {
	case models.ModeMultiSetAll, models.ModeMultiSetDifficulty:
		return fmt.Sprintf("Multi-Set (%d sets)", len(payload.SelectedSets))
	case models.ModeMultiSetSrs:
		return "Selected Sets"
	case models.ModeReviewIncorrect:
		return "Review Incorrect"
	default:
		return string(payload.Mode)
	}
}

func cardViewAt(snap *models.SessionSnapshot) *CardView {
	idx := snap.Order[snap.Position]
	return &CardView{Index: idx, Question: snap.Cards[idx].Question}
}

func summaryOf(snap *models.SessionSnapshot, endedAt time.Time) models.SessionSummary {
	return models.SessionSummary{
		ID:              snap.SessionID,
		EndedAt:         endedAt,
		DurationSeconds: endedAt.Sub(snap.StartedAt).Seconds(),
		CorrectCount:    snap.CorrectCount,
		Total:           len(snap.Order),
	}
}

func doneResponse(snap *models.SessionSnapshot, eval *Evaluation) *AnswerResponse {
	return &AnswerResponse{
		Done:       true,
		Evaluation: eval,
		Results:    snap.Results,
		Result:     &FinalResult{Correct: snap.CorrectCount, Total: len(snap.Order)},
	}
}
