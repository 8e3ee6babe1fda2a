package jobqueue

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
)

// ChannelResult is the dispatcher's verdict for one channel of a job.
// Skipped channels consume no attempt and never count against the outcome.
type ChannelResult struct {
	Err     error
	Skipped bool
}

// Dispatcher performs the actual delivery for a job's pending channels and
// reports a per-channel result. Channels missing from the returned map are
// treated as failed attempts.
type Dispatcher interface {
	Dispatch(ctx context.Context, job *Job, channels []string) map[string]ChannelResult
}

// Worker drains the job store, dispatching each claimed job's pending
// channels and retrying failed ones with exponential backoff until every
// channel settles.
type Worker struct {
	store      Store
	dispatcher Dispatcher
	sem        chan struct{}
	wg         sync.WaitGroup
	mu         sync.Mutex
	stopMu     sync.Mutex

	pollInterval    time.Duration
	maxAttempts     int
	baseBackoff     time.Duration
	dispatchTimeout time.Duration
	logger          *slog.Logger

	ctx      context.Context
	cancel   context.CancelFunc
	stopping atomic.Bool
}

// NewWorker creates a delivery worker.
func NewWorker(store Store, dispatcher Dispatcher, opts ...WorkerOption) (*Worker, error) {
	if store == nil {
		return nil, ErrStoreNil
	}
	if dispatcher == nil {
		return nil, ErrDispatcherNil
	}

	options := defaultWorkerOptions()
	for _, opt := range opts {
		opt(&options)
	}

	return &Worker{
		store:           store,
		dispatcher:      dispatcher,
		sem:             make(chan struct{}, options.maxConcurrent),
		pollInterval:    options.pollInterval,
		maxAttempts:     options.maxAttempts,
		baseBackoff:     options.baseBackoff,
		dispatchTimeout: options.dispatchTimeout,
		logger:          options.logger,
	}, nil
}

// Backoff returns the delay before the retry following the given attempt
// number (1-based): base, 2*base, 4*base, ...
func (w *Worker) Backoff(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	return w.baseBackoff << (attempt - 1)
}

// Start begins processing jobs in the background.
func (w *Worker) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.cancel != nil {
		w.mu.Unlock()
		return ErrWorkerAlreadyStarted
	}
	w.ctx, w.cancel = context.WithCancel(ctx)
	w.mu.Unlock()

	w.stopping.Store(false)
	go w.run()

	w.logger.Info("delivery worker started",
		slog.Duration("poll_interval", w.pollInterval),
		slog.Int("max_concurrent", cap(w.sem)))
	return nil
}

// Stop shuts the worker down, waiting for in-flight jobs to finish.
func (w *Worker) Stop() error {
	w.mu.Lock()
	if w.cancel == nil {
		w.mu.Unlock()
		return ErrWorkerNotStarted
	}

	w.stopMu.Lock()
	w.stopping.Store(true)
	w.stopMu.Unlock()

	cancel := w.cancel
	w.cancel = nil
	w.mu.Unlock()

	cancel()
	w.wg.Wait()

	w.logger.Info("delivery worker stopped")
	return nil
}

// Run returns a function suitable for errgroup: it starts the worker, waits
// for ctx cancellation and then stops cleanly.
func (w *Worker) Run(ctx context.Context) func() error {
	return func() error {
		if err := w.Start(ctx); err != nil {
			return err
		}
		<-ctx.Done()
		return w.Stop()
	}
}

func (w *Worker) run() {
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-w.ctx.Done():
			return
		case <-ticker.C:
			select {
			case w.sem <- struct{}{}:
				// Don't add to the WaitGroup once Stop has begun waiting.
				w.stopMu.Lock()
				if w.stopping.Load() {
					w.stopMu.Unlock()
					<-w.sem
					return
				}
				w.wg.Add(1)
				w.stopMu.Unlock()

				go func() {
					defer w.wg.Done()
					defer func() { <-w.sem }()

					if err := w.claimAndProcess(); err != nil {
						w.logger.Error("failed to process job",
							slog.Any("error", err))
					}
				}()
			default:
				// All slots busy, skip this tick.
			}
		}
	}
}

func (w *Worker) claimAndProcess() error {
	job, err := w.store.Claim(w.ctx, time.Now())
	if err != nil {
		if errors.Is(err, ErrNoJobReady) {
			return nil
		}
		return fmt.Errorf("claim job: %w", err)
	}
	return w.processJob(job)
}

func (w *Worker) processJob(job *Job) (retErr error) {
	start := time.Now()

	defer func() {
		if r := recover(); r != nil {
			retErr = fmt.Errorf("panic dispatching job %s: %v", job.ID, r)
			w.logger.Error("dispatcher panicked",
				slog.String("job_id", job.ID),
				slog.Any("panic", r))
			job.State = StateFailed
			if err := w.store.Update(w.ctx, job); err != nil {
				w.logger.Error("failed to fail panicked job",
					slog.String("job_id", job.ID), slog.Any("error", err))
			}
		}
	}()

	pending := job.Pending()
	if len(pending) == 0 {
		return w.finalize(job, start)
	}

	// Detach from the worker lifecycle so graceful shutdown lets the
	// in-flight dispatch complete.
	ctx, cancel := context.WithTimeout(context.Background(), w.dispatchTimeout)
	defer cancel()

	results := w.dispatcher.Dispatch(ctx, job, pending)
	now := time.Now()

	for _, ch := range pending {
		cs := job.channelState(ch)
		if cs == nil {
			continue
		}
		res, ok := results[ch]
		if !ok {
			res = ChannelResult{Err: fmt.Errorf("no result for channel %s", ch)}
		}
		if res.Skipped {
			cs.Skipped = true
			continue
		}

		cs.Attempts++
		r := Result{
			Channel:   ch,
			Success:   res.Err == nil,
			Attempt:   cs.Attempts,
			Timestamp: now,
		}
		if res.Err != nil {
			r.Error = res.Err.Error()
			if cs.Attempts >= w.maxAttempts {
				cs.Failed = true
			}
		} else {
			cs.Delivered = true
		}
		job.Results = append(job.Results, r)
	}

	if retryable := job.Pending(); len(retryable) > 0 {
		attempt := 1
		for _, ch := range retryable {
			if cs := job.channelState(ch); cs != nil && cs.Attempts > attempt {
				attempt = cs.Attempts
			}
		}
		delay := w.Backoff(attempt)
		job.State = StateQueued
		job.NotBefore = now.Add(delay)

		w.logger.Info("job requeued for retry",
			slog.String("job_id", job.ID),
			slog.Any("channels", retryable),
			slog.Int("attempt", attempt),
			slog.Duration("delay", delay))
		return w.store.Update(w.ctx, job)
	}

	return w.finalize(job, start)
}

func (w *Worker) finalize(job *Job, start time.Time) error {
	job.State = FinalState(job.Channels)
	if err := w.store.Update(w.ctx, job); err != nil {
		return fmt.Errorf("finalize job %s: %w", job.ID, err)
	}

	w.logger.Info("job settled",
		slog.String("job_id", job.ID),
		slog.String("user_id", job.UserID),
		slog.String("state", string(job.State)),
		slog.Duration("duration", time.Since(start)))
	return nil
}

func (j *Job) channelState(channel string) *ChannelState {
	for i := range j.Channels {
		if j.Channels[i].Channel == channel {
			return &j.Channels[i]
		}
	}
	return nil
}
