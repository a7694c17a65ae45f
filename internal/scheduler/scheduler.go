package scheduler

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
)

// Scheduler runs the per-widget countdown jobs. Each job is tagged with the
// widget key so it can be cancelled on its own.
type Scheduler struct {
	scheduler *gocron.Scheduler
	logger    *slog.Logger

	mu   sync.Mutex
	jobs map[string]struct{}
}

// New creates a new scheduler instance
func New(logger *slog.Logger) *Scheduler {
	s := gocron.NewScheduler(time.UTC)
	s.TagsUnique()
	return &Scheduler{
		scheduler: s,
		logger:    logger,
		jobs:      make(map[string]struct{}),
	}
}

// Start begins running scheduled jobs in a non-blocking manner
func (s *Scheduler) Start() {
	s.scheduler.StartAsync()
}

// Stop terminates all scheduled jobs
func (s *Scheduler) Stop() {
	s.scheduler.Stop()
}

// Every runs fn once per interval under key, replacing any job already
// registered for key. The first run happens one interval from now.
func (s *Scheduler) Every(key string, interval time.Duration, fn func()) error {
	s.Cancel(key)

	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.scheduler.Every(interval).
		Tag(key).
		SingletonMode().
		WaitForSchedule().
		Do(fn)
	if err != nil {
		return fmt.Errorf("failed to schedule %s: %w", key, err)
	}
	s.jobs[key] = struct{}{}

	s.logger.Debug("Scheduled countdown", "key", key, "interval", interval.String())
	return nil
}

// Cancel removes the job registered under key, if any.
func (s *Scheduler) Cancel(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.jobs[key]; !ok {
		return
	}
	delete(s.jobs, key)

	if err := s.scheduler.RemoveByTag(key); err != nil {
		s.logger.Warn("Failed to remove countdown job", "key", key, "error", err)
		return
	}
	s.logger.Debug("Cancelled countdown", "key", key)
}

// Active reports whether a job is registered under key.
func (s *Scheduler) Active(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.jobs[key]
	return ok
}
