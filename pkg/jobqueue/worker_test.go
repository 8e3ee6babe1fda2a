package jobqueue_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ledgerly/notify/pkg/jobqueue"
)

// scriptedDispatcher returns canned per-channel results and records how many
// times each channel was attempted.
type scriptedDispatcher struct {
	mu       sync.Mutex
	results  map[string][]jobqueue.ChannelResult
	attempts map[string]int
}

func newScriptedDispatcher() *scriptedDispatcher {
	return &scriptedDispatcher{
		results:  make(map[string][]jobqueue.ChannelResult),
		attempts: make(map[string]int),
	}
}

// script queues the outcomes a channel returns on successive attempts; the
// last outcome repeats once the script runs out.
func (d *scriptedDispatcher) script(channel string, outcomes ...jobqueue.ChannelResult) {
	d.results[channel] = outcomes
}

func (d *scriptedDispatcher) Dispatch(ctx context.Context, job *jobqueue.Job, channels []string) map[string]jobqueue.ChannelResult {
	d.mu.Lock()
	defer d.mu.Unlock()

	out := make(map[string]jobqueue.ChannelResult, len(channels))
	for _, ch := range channels {
		script := d.results[ch]
		i := d.attempts[ch]
		d.attempts[ch]++
		if len(script) == 0 {
			out[ch] = jobqueue.ChannelResult{}
			continue
		}
		if i >= len(script) {
			i = len(script) - 1
		}
		out[ch] = script[i]
	}
	return out
}

func (d *scriptedDispatcher) attemptCount(channel string) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.attempts[channel]
}

func startWorker(t *testing.T, store jobqueue.Store, d jobqueue.Dispatcher) {
	t.Helper()
	worker, err := jobqueue.NewWorker(store, d,
		jobqueue.WithPollInterval(5*time.Millisecond),
		jobqueue.WithBaseBackoff(10*time.Millisecond),
	)
	require.NoError(t, err)
	require.NoError(t, worker.Start(context.Background()))
	t.Cleanup(func() { _ = worker.Stop() })
}

func waitForState(t *testing.T, store jobqueue.Store, id string, want jobqueue.State) *jobqueue.Job {
	t.Helper()
	var got *jobqueue.Job
	require.Eventually(t, func() bool {
		j, err := store.Get(context.Background(), id)
		if err != nil {
			return false
		}
		got = j
		return j.State == want
	}, 5*time.Second, 5*time.Millisecond, "job never reached state %s", want)
	return got
}

func TestWorkerDeliversAllChannels(t *testing.T) {
	t.Parallel()

	store := jobqueue.NewMemoryStore()
	d := newScriptedDispatcher()
	d.script("EMAIL", jobqueue.ChannelResult{})
	d.script("PUSH", jobqueue.ChannelResult{})

	job := &jobqueue.Job{
		ID:     uuid.New().String(),
		UserID: "user-1",
		Rank:   2,
		Channels: []jobqueue.ChannelState{
			{Channel: "EMAIL"},
			{Channel: "PUSH"},
		},
	}
	require.NoError(t, store.Create(context.Background(), job))
	startWorker(t, store, d)

	got := waitForState(t, store, job.ID, jobqueue.StateDelivered)
	assert.Len(t, got.Results, 2)
	for _, c := range got.Channels {
		assert.True(t, c.Delivered)
		assert.Equal(t, 1, c.Attempts)
	}
}

func TestWorkerRetriesFailedChannelOnly(t *testing.T) {
	t.Parallel()

	store := jobqueue.NewMemoryStore()
	d := newScriptedDispatcher()
	d.script("EMAIL", jobqueue.ChannelResult{})
	d.script("PUSH",
		jobqueue.ChannelResult{Err: errors.New("gateway timeout")},
		jobqueue.ChannelResult{})

	job := &jobqueue.Job{
		ID:     uuid.New().String(),
		UserID: "user-1",
		Rank:   2,
		Channels: []jobqueue.ChannelState{
			{Channel: "EMAIL"},
			{Channel: "PUSH"},
		},
	}
	require.NoError(t, store.Create(context.Background(), job))
	startWorker(t, store, d)

	got := waitForState(t, store, job.ID, jobqueue.StateDelivered)
	assert.Equal(t, 1, d.attemptCount("EMAIL"), "delivered channel is not retried")
	assert.Equal(t, 2, d.attemptCount("PUSH"))

	var pushResults []jobqueue.Result
	for _, r := range got.Results {
		if r.Channel == "PUSH" {
			pushResults = append(pushResults, r)
		}
	}
	require.Len(t, pushResults, 2)
	assert.False(t, pushResults[0].Success)
	assert.Equal(t, "gateway timeout", pushResults[0].Error)
	assert.True(t, pushResults[1].Success)
	assert.Equal(t, 2, pushResults[1].Attempt)
}

func TestWorkerExhaustsAttempts(t *testing.T) {
	t.Parallel()

	store := jobqueue.NewMemoryStore()
	d := newScriptedDispatcher()
	d.script("SMS", jobqueue.ChannelResult{Err: errors.New("carrier rejected")})

	job := &jobqueue.Job{
		ID:       uuid.New().String(),
		UserID:   "user-1",
		Rank:     1,
		Channels: []jobqueue.ChannelState{{Channel: "SMS"}},
	}
	require.NoError(t, store.Create(context.Background(), job))
	startWorker(t, store, d)

	got := waitForState(t, store, job.ID, jobqueue.StateFailed)
	assert.Equal(t, 3, d.attemptCount("SMS"), "three attempts then give up")
	require.Len(t, got.Results, 3)
	assert.True(t, got.Channels[0].Failed)
}

func TestWorkerPartialOutcome(t *testing.T) {
	t.Parallel()

	store := jobqueue.NewMemoryStore()
	d := newScriptedDispatcher()
	d.script("EMAIL", jobqueue.ChannelResult{})
	d.script("PUSH", jobqueue.ChannelResult{Err: errors.New("device unregistered")})

	job := &jobqueue.Job{
		ID:     uuid.New().String(),
		UserID: "user-1",
		Rank:   2,
		Channels: []jobqueue.ChannelState{
			{Channel: "EMAIL"},
			{Channel: "PUSH"},
		},
	}
	require.NoError(t, store.Create(context.Background(), job))
	startWorker(t, store, d)

	waitForState(t, store, job.ID, jobqueue.StatePartial)
}

func TestWorkerSkippedChannelConsumesNoAttempt(t *testing.T) {
	t.Parallel()

	store := jobqueue.NewMemoryStore()
	d := newScriptedDispatcher()
	d.script("EMAIL", jobqueue.ChannelResult{Skipped: true})
	d.script("PUSH", jobqueue.ChannelResult{})

	job := &jobqueue.Job{
		ID:     uuid.New().String(),
		UserID: "user-1",
		Rank:   2,
		Channels: []jobqueue.ChannelState{
			{Channel: "EMAIL"},
			{Channel: "PUSH"},
		},
	}
	require.NoError(t, store.Create(context.Background(), job))
	startWorker(t, store, d)

	got := waitForState(t, store, job.ID, jobqueue.StateDelivered)
	for _, c := range got.Channels {
		if c.Channel == "EMAIL" {
			assert.True(t, c.Skipped)
			assert.Zero(t, c.Attempts)
		}
	}
	for _, r := range got.Results {
		assert.NotEqual(t, "EMAIL", r.Channel, "skipped channel records no result")
	}
}

func TestWorkerEmptyChannelSetDelivers(t *testing.T) {
	t.Parallel()

	store := jobqueue.NewMemoryStore()
	d := newScriptedDispatcher()

	job := &jobqueue.Job{
		ID:     uuid.New().String(),
		UserID: "user-1",
		Rank:   4,
	}
	require.NoError(t, store.Create(context.Background(), job))
	startWorker(t, store, d)

	got := waitForState(t, store, job.ID, jobqueue.StateDelivered)
	assert.Empty(t, got.Results)
}

func TestWorkerBackoff(t *testing.T) {
	t.Parallel()

	worker, err := jobqueue.NewWorker(jobqueue.NewMemoryStore(), newScriptedDispatcher(),
		jobqueue.WithBaseBackoff(2*time.Second))
	require.NoError(t, err)

	assert.Equal(t, 2*time.Second, worker.Backoff(1))
	assert.Equal(t, 4*time.Second, worker.Backoff(2))
	assert.Equal(t, 8*time.Second, worker.Backoff(3))
}

func TestWorkerLifecycle(t *testing.T) {
	t.Parallel()

	worker, err := jobqueue.NewWorker(jobqueue.NewMemoryStore(), newScriptedDispatcher())
	require.NoError(t, err)

	require.Error(t, worker.Stop(), "stop before start")
	require.NoError(t, worker.Start(context.Background()))
	require.ErrorIs(t, worker.Start(context.Background()), jobqueue.ErrWorkerAlreadyStarted)
	require.NoError(t, worker.Stop())
}

func TestNewWorkerValidation(t *testing.T) {
	t.Parallel()

	_, err := jobqueue.NewWorker(nil, newScriptedDispatcher())
	assert.ErrorIs(t, err, jobqueue.ErrStoreNil)

	_, err = jobqueue.NewWorker(jobqueue.NewMemoryStore(), nil)
	assert.ErrorIs(t, err, jobqueue.ErrDispatcherNil)
}
