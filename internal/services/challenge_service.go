package services

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/SAP-F-2025/challenge-service/internal/challenge"
	"github.com/SAP-F-2025/challenge-service/internal/events"
	"github.com/SAP-F-2025/challenge-service/internal/repositories"
	"github.com/SAP-F-2025/challenge-service/internal/store"
	"github.com/SAP-F-2025/challenge-service/internal/validator"
)

type ChallengeServiceDeps struct {
	Questions repositories.QuestionRepository
	Store     store.Store
	Ticker    challenge.Ticker
	Clock     challenge.Clock
	Publisher events.EventPublisher
	Validator *validator.Validator
	Logger    *slog.Logger
	Debug     bool
}

type challengeService struct {
	questions repositories.QuestionRepository
	store     store.Store
	ticker    challenge.Ticker
	clock     challenge.Clock
	publisher events.EventPublisher
	validator *validator.Validator
	logger    *slog.Logger
	opLogger  *ServiceLogger

	mu      sync.RWMutex
	widgets map[string]*challenge.Widget
}

func NewChallengeService(deps ChallengeServiceDeps) ChallengeService {
	return &challengeService{
		questions: deps.Questions,
		store:     deps.Store,
		ticker:    deps.Ticker,
		clock:     deps.Clock,
		publisher: deps.Publisher,
		validator: deps.Validator,
		logger:    deps.Logger,
		opLogger: NewServiceLogger(deps.Logger, LogConfig{
			Service:     "challenge",
			Component:   "widget",
			EnableDebug: deps.Debug,
		}),
		widgets: make(map[string]*challenge.Widget),
	}
}

// Mount builds the widget for a question and restores its persisted state.
// Mounting an already mounted question restores it again.
func (s *challengeService) Mount(ctx context.Context, questionID string) (resp *ChallengeResponse, err error) {
	op := s.opLogger.WithOperation(ctx, "mount")
	defer func() { op.LogResult(questionID, err) }()

	s.mu.Lock()
	w, ok := s.widgets[questionID]
	if !ok {
		q, getErr := s.questions.GetByID(ctx, questionID)
		if getErr != nil {
			s.mu.Unlock()
			if repositories.IsNotFoundError(getErr) {
				return nil, fmt.Errorf("%w: %s", ErrQuestionNotFound, questionID)
			}
			return nil, fmt.Errorf("failed to load question: %w", getErr)
		}

		w = challenge.New(challenge.Config{
			Question:  *q,
			Store:     s.store,
			Clock:     s.clock,
			Ticker:    s.ticker,
			Publisher: s.publisher,
			Logger:    s.logger,
		})
		s.widgets[questionID] = w
	}
	s.mu.Unlock()

	snapshot := w.Restore(ctx)
	return &ChallengeResponse{Accepted: true, State: snapshot}, nil
}

func (s *challengeService) Get(ctx context.Context, questionID string) (*ChallengeResponse, error) {
	w, err := s.widget(questionID)
	if err != nil {
		return nil, err
	}
	return &ChallengeResponse{Accepted: true, State: w.Snapshot()}, nil
}

func (s *challengeService) Select(ctx context.Context, questionID string, req *SelectAnswerRequest) (resp *ChallengeResponse, err error) {
	op := s.opLogger.WithOperation(ctx, "select")
	defer func() { op.LogResult(questionID, err) }()

	if req == nil {
		return nil, ErrInvalidSelection
	}
	if err := s.validator.ValidateStruct(req); err != nil {
		return nil, err
	}

	w, err := s.widget(questionID)
	if err != nil {
		return nil, err
	}

	accepted := w.SelectAnswer(ctx, req.Value)
	return &ChallengeResponse{Accepted: accepted, State: w.Snapshot()}, nil
}

func (s *challengeService) Submit(ctx context.Context, questionID string) (resp *ChallengeResponse, err error) {
	op := s.opLogger.WithOperation(ctx, "submit")
	defer func() { op.LogResult(questionID, err) }()

	w, err := s.widget(questionID)
	if err != nil {
		return nil, err
	}

	result, err := w.Submit(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStateNotPersisted, err)
	}

	resp = &ChallengeResponse{Accepted: result.Accepted, State: w.Snapshot()}
	if result.Accepted {
		correct := result.Correct
		resp.Correct = &correct
	}
	return resp, nil
}

func (s *challengeService) Reset(ctx context.Context, questionID string) (resp *ChallengeResponse, err error) {
	op := s.opLogger.WithOperation(ctx, "reset")
	defer func() { op.LogResult(questionID, err) }()

	w, err := s.widget(questionID)
	if err != nil {
		return nil, err
	}

	accepted, err := w.Reset(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStateNotPersisted, err)
	}
	return &ChallengeResponse{Accepted: accepted, State: w.Snapshot()}, nil
}

// Unmount stops the widget's countdown and forgets it. Persisted state is kept.
func (s *challengeService) Unmount(ctx context.Context, questionID string) error {
	s.mu.Lock()
	w, ok := s.widgets[questionID]
	delete(s.widgets, questionID)
	s.mu.Unlock()

	if !ok {
		return fmt.Errorf("%w: %s", ErrChallengeNotMounted, questionID)
	}
	w.Close()
	s.logger.Debug("Challenge unmounted", "question_id", questionID)
	return nil
}

func (s *challengeService) Mounted() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.widgets))
	for id := range s.widgets {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func (s *challengeService) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	widgets := s.widgets
	s.widgets = make(map[string]*challenge.Widget)
	s.mu.Unlock()

	for _, w := range widgets {
		w.Close()
	}
	s.logger.Info("Challenge service stopped", "unmounted", len(widgets))
	return nil
}

func (s *challengeService) widget(questionID string) (*challenge.Widget, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	w, ok := s.widgets[questionID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrChallengeNotMounted, questionID)
	}
	return w, nil
}
