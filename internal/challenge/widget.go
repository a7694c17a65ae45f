package challenge

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/SAP-F-2025/challenge-service/internal/events"
	"github.com/SAP-F-2025/challenge-service/internal/models"
	"github.com/SAP-F-2025/challenge-service/internal/store"
)

// TickInterval is how often the countdown advances while Locked.
const TickInterval = time.Second

type Status string

const (
	StatusUnanswered Status = "unanswered"
	StatusLocked     Status = "locked"
	StatusCompleted  Status = "completed"
)

type Config struct {
	Question  models.Question
	Store     store.Store
	Clock     Clock
	Ticker    Ticker
	Publisher events.EventPublisher
	Logger    *slog.Logger
}

// Widget is the quiz state machine for one question. All methods are safe for
// concurrent use; the countdown job and page requests are serialized.
type Widget struct {
	question  models.Question
	store     store.Store
	clock     Clock
	ticker    Ticker
	publisher events.EventPublisher
	logger    *slog.Logger

	mu         sync.Mutex
	attempt    models.AttemptState
	candidate  models.Answer
	showResult bool
	locked     bool
	remaining  time.Duration
}

// SubmitResult reports whether a submission was graded and its outcome.
type SubmitResult struct {
	Accepted bool `json:"accepted"`
	Correct  bool `json:"correct"`
}

func New(cfg Config) *Widget {
	if cfg.Clock == nil {
		cfg.Clock = SystemClock()
	}
	if cfg.Ticker == nil {
		cfg.Ticker = noopTicker{}
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	return &Widget{
		question:  cfg.Question,
		store:     cfg.Store,
		clock:     cfg.Clock,
		ticker:    cfg.Ticker,
		publisher: cfg.Publisher,
		logger:    cfg.Logger.With("question_id", cfg.Question.ID),
		candidate: cfg.Question.EmptyAnswer(),
	}
}

func (w *Widget) Question() models.Question {
	return w.question
}

// Restore rebuilds in-memory state from the persisted attempt. Missing or
// malformed records yield a fresh, unanswered widget.
func (w *Widget) Restore(ctx context.Context) Snapshot {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.attempt = models.AttemptState{}
	w.candidate = w.question.EmptyAnswer()
	w.showResult = false
	w.locked = false
	w.remaining = 0

	if state, ok := w.load(ctx); ok {
		w.attempt = state
		if remaining := state.LockRemaining(w.clock.Now()); remaining > 0 {
			w.locked = true
			w.remaining = remaining
		}
		if state.UserAnswer != nil {
			w.candidate = state.UserAnswer.Clone()
			w.showResult = true
		}
	}

	if w.locked {
		w.startCountdown()
	} else {
		w.stopCountdown()
	}

	w.logger.Debug("Challenge restored", "status", w.status(), "lock_remaining", w.remaining.String())
	w.publish(ctx, events.EventRestored)
	return w.snapshot()
}

// SelectAnswer replaces the candidate (single, fill) or toggles a key in it
// (multiple). It returns false when the widget is Locked or Completed, or the
// key is not an option.
func (w *Widget) SelectAnswer(ctx context.Context, value string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.locked || w.attempt.IsCompleted {
		return false
	}

	switch w.question.Kind {
	case models.KindMultiple:
		if !w.question.HasOption(value) {
			return false
		}
		w.candidate = w.candidate.Toggle(value)
	case models.KindSingle:
		if !w.question.HasOption(value) {
			return false
		}
		w.candidate = models.TextAnswer(value)
	default:
		w.candidate = models.TextAnswer(value)
	}

	w.publish(ctx, events.EventSelected)
	return true
}

// Submit grades the candidate and persists the outcome. Locked, Completed and
// empty candidates are ignored. When the write fails nothing changes.
func (w *Widget) Submit(ctx context.Context) (SubmitResult, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.locked || w.attempt.IsCompleted || w.candidate.IsEmpty() {
		return SubmitResult{}, nil
	}

	now := w.clock.Now()
	correct := w.question.Answer.Matches(w.candidate)
	submitted := w.candidate.Clone()

	next := models.AttemptState{
		IsCompleted: correct,
		UserAnswer:  &submitted,
	}
	if !correct {
		next.LastWrongTime = models.UnixMillis(now)
	}

	if err := w.save(ctx, next); err != nil {
		return SubmitResult{}, err
	}

	w.attempt = next
	w.showResult = true
	w.publish(ctx, events.EventSubmitted)

	if correct {
		w.logger.Info("Challenge completed")
		w.publish(ctx, events.EventCompleted)
	} else {
		w.locked = true
		w.remaining = models.LockoutDuration
		w.startCountdown()
		w.logger.Info("Challenge locked after wrong answer", "lock_remaining", w.remaining.String())
		w.publish(ctx, events.EventLocked)
	}

	return SubmitResult{Accepted: true, Correct: correct}, nil
}

// Tick advances the lockout countdown by elapsed. Reaching zero unlocks the
// widget; the persisted lastWrongTime is left as is.
func (w *Widget) Tick(ctx context.Context, elapsed time.Duration) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.locked {
		return
	}

	if w.remaining <= elapsed {
		w.remaining = 0
		w.locked = false
		w.stopCountdown()
		w.logger.Info("Challenge lockout expired")
		w.publish(ctx, events.EventUnlocked)
		return
	}

	w.remaining -= elapsed
	w.publish(ctx, events.EventTick)
}

// Reset deletes the persisted attempt and clears the candidate. It is refused while Locked.
func (w *Widget) Reset(ctx context.Context) (bool, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.locked {
		return false, nil
	}

	if err := w.store.Delete(ctx, w.question.StorageKey()); err != nil {
		return false, fmt.Errorf("failed to delete attempt state: %w", err)
	}

	w.attempt = models.AttemptState{}
	w.candidate = w.question.EmptyAnswer()
	w.showResult = false
	w.remaining = 0

	w.logger.Info("Challenge reset")
	w.publish(ctx, events.EventReset)
	return true, nil
}

// Close tears the widget down and cancels its countdown.
func (w *Widget) Close() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.stopCountdown()
}

func (w *Widget) Status() Status {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.status()
}

// Remaining returns the in-memory lockout countdown.
func (w *Widget) Remaining() time.Duration {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.remaining
}

func (w *Widget) Snapshot() Snapshot {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.snapshot()
}

func (w *Widget) status() Status {
	switch {
	case w.locked:
		return StatusLocked
	case w.attempt.IsCompleted:
		return StatusCompleted
	default:
		return StatusUnanswered
	}
}

func (w *Widget) load(ctx context.Context) (models.AttemptState, bool) {
	data, err := w.store.Get(ctx, w.question.StorageKey())
	if store.IsNotFound(err) {
		return models.AttemptState{}, false
	}
	if err != nil {
		w.logger.Warn("Failed to read attempt state, starting fresh", "error", err)
		return models.AttemptState{}, false
	}

	state, err := models.DecodeAttemptState(data)
	if err != nil {
		w.logger.Warn("Discarding malformed attempt state", "error", err)
		return models.AttemptState{}, false
	}
	if state.UserAnswer != nil && state.UserAnswer.Multi != (w.question.Kind == models.KindMultiple) {
		w.logger.Warn("Discarding attempt state with mismatched answer shape", "kind", w.question.Kind)
		return models.AttemptState{}, false
	}
	return state, true
}

func (w *Widget) save(ctx context.Context, state models.AttemptState) error {
	data, err := state.Encode()
	if err != nil {
		return fmt.Errorf("failed to encode attempt state: %w", err)
	}
	if err := w.store.Set(ctx, w.question.StorageKey(), data); err != nil {
		return fmt.Errorf("failed to save attempt state: %w", err)
	}
	return nil
}

func (w *Widget) startCountdown() {
	err := w.ticker.Every(w.question.StorageKey(), TickInterval, func() {
		w.Tick(context.Background(), TickInterval)
	})
	if err != nil {
		w.logger.Error("Failed to start lockout countdown", "error", err)
	}
}

func (w *Widget) stopCountdown() {
	w.ticker.Cancel(w.question.StorageKey())
}

func (w *Widget) publish(ctx context.Context, eventType events.EventType) {
	if w.publisher == nil {
		return
	}
	event := events.NewChallengeEvent(eventType, w.question.ID, w.clock.Now(), w.snapshot())
	if err := w.publisher.PublishChallengeEvent(ctx, event); err != nil {
		w.logger.Warn("Failed to publish challenge event", "event_type", eventType, "error", err)
	}
}
