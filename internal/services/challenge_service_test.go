package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/SAP-F-2025/challenge-service/internal/challenge"
	"github.com/SAP-F-2025/challenge-service/internal/events"
	"github.com/SAP-F-2025/challenge-service/internal/models"
	"github.com/SAP-F-2025/challenge-service/internal/repositories"
	"github.com/SAP-F-2025/challenge-service/internal/store"
	"github.com/SAP-F-2025/challenge-service/internal/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stepClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *stepClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *stepClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type recordingTicker struct {
	mu   sync.Mutex
	jobs map[string]func()
}

func (r *recordingTicker) Every(key string, _ time.Duration, fn func()) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.jobs[key] = fn
	return nil
}

func (r *recordingTicker) Cancel(key string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.jobs, key)
}

func (r *recordingTicker) Active(key string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.jobs[key]
	return ok
}

type failingStore struct {
	*store.MemoryStore
}

func (failingStore) Set(context.Context, string, []byte) error {
	return errors.New("disk full")
}

type serviceFixture struct {
	service   ChallengeService
	store     store.Store
	clock     *stepClock
	ticker    *recordingTicker
	publisher *events.MockEventPublisher
}

func testQuestions() []*models.Question {
	return []*models.Question{
		{
			ID:    "event-loop",
			Kind:  models.KindSingle,
			Title: "Event loop order",
			Options: []models.Option{
				{Key: "A", Label: "setTimeout"},
				{Key: "B", Label: "Promise.then"},
			},
			Answer: models.TextAnswer("B"),
		},
		{
			ID:     "closure",
			Kind:   models.KindFill,
			Title:  "Closure output",
			Answer: models.TextAnswer("3"),
		},
	}
}

func newServiceFixture(t *testing.T, s store.Store) *serviceFixture {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	f := &serviceFixture{
		store:     s,
		clock:     &stepClock{now: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)},
		ticker:    &recordingTicker{jobs: make(map[string]func())},
		publisher: events.NewMockEventPublisher(logger),
	}
	f.service = NewChallengeService(ChallengeServiceDeps{
		Questions: repositories.NewQuestionCatalog(testQuestions()),
		Store:     s,
		Ticker:    f.ticker,
		Clock:     f.clock,
		Publisher: f.publisher,
		Validator: validator.New(),
		Logger:    logger,
	})
	return f
}

func TestChallengeService_MountUnknownQuestion(t *testing.T) {
	f := newServiceFixture(t, store.NewMemoryStore())

	_, err := f.service.Mount(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrQuestionNotFound)
	assert.True(t, IsNotFound(err))
	assert.Empty(t, f.service.Mounted())
}

func TestChallengeService_OperationsRequireMount(t *testing.T) {
	f := newServiceFixture(t, store.NewMemoryStore())
	ctx := context.Background()

	_, err := f.service.Get(ctx, "event-loop")
	assert.ErrorIs(t, err, ErrChallengeNotMounted)

	_, err = f.service.Select(ctx, "event-loop", &SelectAnswerRequest{Value: "B"})
	assert.ErrorIs(t, err, ErrChallengeNotMounted)

	_, err = f.service.Submit(ctx, "event-loop")
	assert.ErrorIs(t, err, ErrChallengeNotMounted)

	_, err = f.service.Reset(ctx, "event-loop")
	assert.ErrorIs(t, err, ErrChallengeNotMounted)

	err = f.service.Unmount(ctx, "event-loop")
	assert.ErrorIs(t, err, ErrChallengeNotMounted)
}

func TestChallengeService_CorrectAnswerCompletes(t *testing.T) {
	f := newServiceFixture(t, store.NewMemoryStore())
	ctx := context.Background()

	mounted, err := f.service.Mount(ctx, "event-loop")
	require.NoError(t, err)
	assert.Equal(t, challenge.StatusUnanswered, mounted.State.Status)

	selected, err := f.service.Select(ctx, "event-loop", &SelectAnswerRequest{Value: "B"})
	require.NoError(t, err)
	assert.True(t, selected.Accepted)

	submitted, err := f.service.Submit(ctx, "event-loop")
	require.NoError(t, err)
	assert.True(t, submitted.Accepted)
	require.NotNil(t, submitted.Correct)
	assert.True(t, *submitted.Correct)
	assert.Equal(t, challenge.StatusCompleted, submitted.State.Status)

	raw, err := f.store.Get(ctx, "challenge_event-loop")
	require.NoError(t, err)
	state, err := models.DecodeAttemptState(raw)
	require.NoError(t, err)
	assert.True(t, state.IsCompleted)
	assert.Nil(t, state.LastWrongTime)
}

func TestChallengeService_WrongAnswerLocksUntilRemount(t *testing.T) {
	f := newServiceFixture(t, store.NewMemoryStore())
	ctx := context.Background()

	_, err := f.service.Mount(ctx, "event-loop")
	require.NoError(t, err)
	_, err = f.service.Select(ctx, "event-loop", &SelectAnswerRequest{Value: "A"})
	require.NoError(t, err)

	submitted, err := f.service.Submit(ctx, "event-loop")
	require.NoError(t, err)
	require.NotNil(t, submitted.Correct)
	assert.False(t, *submitted.Correct)
	assert.Equal(t, challenge.StatusLocked, submitted.State.Status)
	assert.True(t, f.ticker.Active("challenge_event-loop"))

	again, err := f.service.Submit(ctx, "event-loop")
	require.NoError(t, err)
	assert.False(t, again.Accepted)
	assert.Nil(t, again.Correct)

	reset, err := f.service.Reset(ctx, "event-loop")
	require.NoError(t, err)
	assert.False(t, reset.Accepted)

	require.NoError(t, f.service.Unmount(ctx, "event-loop"))
	assert.False(t, f.ticker.Active("challenge_event-loop"))

	f.clock.Advance(models.LockoutDuration)
	remounted, err := f.service.Mount(ctx, "event-loop")
	require.NoError(t, err)
	assert.Equal(t, challenge.StatusUnanswered, remounted.State.Status)
	assert.True(t, remounted.State.ShowResult)

	reset, err = f.service.Reset(ctx, "event-loop")
	require.NoError(t, err)
	assert.True(t, reset.Accepted)
	assert.False(t, reset.State.ShowResult)
}

func TestChallengeService_SelectRejectedIsNotAnError(t *testing.T) {
	f := newServiceFixture(t, store.NewMemoryStore())
	ctx := context.Background()

	_, err := f.service.Mount(ctx, "event-loop")
	require.NoError(t, err)

	resp, err := f.service.Select(ctx, "event-loop", &SelectAnswerRequest{Value: "Z"})
	require.NoError(t, err)
	assert.False(t, resp.Accepted)

	_, err = f.service.Select(ctx, "event-loop", nil)
	assert.True(t, IsValidation(err))
}

func TestChallengeService_SubmitStoreFailure(t *testing.T) {
	f := newServiceFixture(t, failingStore{store.NewMemoryStore()})
	ctx := context.Background()

	_, err := f.service.Mount(ctx, "closure")
	require.NoError(t, err)
	_, err = f.service.Select(ctx, "closure", &SelectAnswerRequest{Value: "3"})
	require.NoError(t, err)

	_, err = f.service.Submit(ctx, "closure")
	assert.True(t, IsPersistence(err))

	current, err := f.service.Get(ctx, "closure")
	require.NoError(t, err)
	assert.Equal(t, challenge.StatusUnanswered, current.State.Status)
	assert.False(t, current.State.ShowResult)
}

func TestChallengeService_ShutdownUnmountsAll(t *testing.T) {
	f := newServiceFixture(t, store.NewMemoryStore())
	ctx := context.Background()

	_, err := f.service.Mount(ctx, "event-loop")
	require.NoError(t, err)
	_, err = f.service.Mount(ctx, "closure")
	require.NoError(t, err)
	assert.Equal(t, []string{"closure", "event-loop"}, f.service.Mounted())

	require.NoError(t, f.service.Shutdown(ctx))
	assert.Empty(t, f.service.Mounted())
}

func TestChallengeService_PublishesLifecycleEvents(t *testing.T) {
	f := newServiceFixture(t, store.NewMemoryStore())
	ctx := context.Background()

	_, err := f.service.Mount(ctx, "closure")
	require.NoError(t, err)
	_, err = f.service.Select(ctx, "closure", &SelectAnswerRequest{Value: "3"})
	require.NoError(t, err)
	_, err = f.service.Submit(ctx, "closure")
	require.NoError(t, err)

	assert.Equal(t, []events.EventType{
		events.EventRestored,
		events.EventSelected,
		events.EventSubmitted,
		events.EventCompleted,
	}, f.publisher.EventTypes())
}

func TestQuestionService(t *testing.T) {
	svc := NewQuestionService(repositories.NewQuestionCatalog(testQuestions()), slog.New(slog.NewTextHandler(io.Discard, nil)))
	ctx := context.Background()

	q, err := svc.GetByID(ctx, "event-loop")
	require.NoError(t, err)
	assert.Equal(t, "challenge_event-loop", q.StorageKey)
	assert.Len(t, q.Options, 2)

	_, err = svc.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, ErrQuestionNotFound)

	list, err := svc.List(ctx, repositories.QuestionFilters{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), list.Total)

	_, err = svc.List(ctx, repositories.QuestionFilters{Limit: -1})
	assert.True(t, IsValidation(err))
}
