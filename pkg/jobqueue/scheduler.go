package jobqueue

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// TimerFunc is invoked each time a recurring timer fires.
type TimerFunc func(ctx context.Context) error

type timer struct {
	name     string
	schedule Schedule
	fn       TimerFunc
	cancel   context.CancelFunc
}

// SchedulerOption configures a Scheduler.
type SchedulerOption func(*Scheduler)

// WithLocation sets the timezone used to evaluate schedules.
func WithLocation(loc *time.Location) SchedulerOption {
	return func(s *Scheduler) {
		if loc != nil {
			s.loc = loc
		}
	}
}

// WithSchedulerLogger sets the scheduler's logger.
func WithSchedulerLogger(log *slog.Logger) SchedulerOption {
	return func(s *Scheduler) {
		if log != nil {
			s.logger = log
		}
	}
}

// Scheduler runs named recurring timers. Registering a name that already
// exists replaces it, so repeated wiring at application startup is
// harmless. Timers fire on their own goroutines once Start is called.
type Scheduler struct {
	mu      sync.Mutex
	timers  map[string]*timer
	loc     *time.Location
	logger  *slog.Logger
	ctx     context.Context
	started bool
}

// NewScheduler creates a scheduler that evaluates schedules in UTC unless
// WithLocation overrides it.
func NewScheduler(opts ...SchedulerOption) *Scheduler {
	s := &Scheduler{
		timers: make(map[string]*timer),
		loc:    time.UTC,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register adds or replaces the named recurring timer. When the scheduler
// is already running the new timer starts immediately; a replaced timer is
// stopped first.
func (s *Scheduler) Register(name string, schedule Schedule, fn TimerFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.timers[name]; ok && existing.cancel != nil {
		existing.cancel()
	}

	t := &timer{name: name, schedule: schedule, fn: fn}
	s.timers[name] = t

	if s.started {
		s.startTimer(t)
	}

	s.logger.Info("registered recurring timer",
		slog.String("timer", name),
		slog.String("schedule", schedule.String()))
}

// Deregister stops and removes the named timer.
func (s *Scheduler) Deregister(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.timers[name]
	if !ok {
		return ErrTimerNotFound
	}
	if t.cancel != nil {
		t.cancel()
	}
	delete(s.timers, name)
	return nil
}

// Timers returns the names of all registered timers.
func (s *Scheduler) Timers() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	names := make([]string, 0, len(s.timers))
	for name := range s.timers {
		names = append(names, name)
	}
	return names
}

// Start launches all registered timers and blocks until ctx is canceled.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	s.ctx = ctx
	s.started = true
	for _, t := range s.timers {
		s.startTimer(t)
	}
	s.mu.Unlock()

	<-ctx.Done()

	s.mu.Lock()
	s.started = false
	for _, t := range s.timers {
		if t.cancel != nil {
			t.cancel()
		}
	}
	s.mu.Unlock()

	s.logger.Info("scheduler shutting down")
	return ctx.Err()
}

// startTimer launches the timer goroutine. Caller must hold s.mu.
func (s *Scheduler) startTimer(t *timer) {
	ctx, cancel := context.WithCancel(s.ctx)
	t.cancel = cancel
	go s.runTimer(ctx, t)
}

func (s *Scheduler) runTimer(ctx context.Context, t *timer) {
	for {
		next := t.schedule.Next(time.Now().In(s.loc))
		wait := time.NewTimer(time.Until(next))

		select {
		case <-ctx.Done():
			wait.Stop()
			return
		case <-wait.C:
		}

		start := time.Now()
		if err := t.fn(ctx); err != nil {
			s.logger.Error("timer run failed",
				slog.String("timer", t.name),
				slog.Duration("duration", time.Since(start)),
				slog.Any("error", err))
			continue
		}
		s.logger.Info("timer run completed",
			slog.String("timer", t.name),
			slog.Duration("duration", time.Since(start)))
	}
}
