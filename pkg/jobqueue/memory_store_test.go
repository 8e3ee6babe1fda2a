package jobqueue_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ledgerly/notify/pkg/jobqueue"
)

func newJob(rank int, notBefore time.Time) *jobqueue.Job {
	return &jobqueue.Job{
		ID:        uuid.New().String(),
		UserID:    "user-1",
		Rank:      rank,
		Channels:  []jobqueue.ChannelState{{Channel: "IN_APP"}},
		NotBefore: notBefore,
	}
}

func TestMemoryStoreClaimOrdering(t *testing.T) {
	t.Parallel()

	store := jobqueue.NewMemoryStore()
	ctx := context.Background()
	now := time.Now()

	low := newJob(4, now)
	urgent := newJob(1, now)
	medium := newJob(3, now)
	require.NoError(t, store.Create(ctx, low))
	require.NoError(t, store.Create(ctx, urgent))
	require.NoError(t, store.Create(ctx, medium))

	first, err := store.Claim(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, urgent.ID, first.ID, "lowest rank claimed first")
	assert.Equal(t, jobqueue.StateProcessing, first.State)

	second, err := store.Claim(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, medium.ID, second.ID)

	third, err := store.Claim(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, low.ID, third.ID)

	_, err = store.Claim(ctx, now)
	assert.ErrorIs(t, err, jobqueue.ErrNoJobReady)
}

func TestMemoryStoreClaimFIFOWithinRank(t *testing.T) {
	t.Parallel()

	store := jobqueue.NewMemoryStore()
	ctx := context.Background()
	now := time.Now()

	first := newJob(2, now)
	second := newJob(2, now)
	require.NoError(t, store.Create(ctx, first))
	require.NoError(t, store.Create(ctx, second))

	claimed, err := store.Claim(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, first.ID, claimed.ID, "equal ranks drain in creation order")
}

func TestMemoryStoreClaimHonorsNotBefore(t *testing.T) {
	t.Parallel()

	store := jobqueue.NewMemoryStore()
	ctx := context.Background()
	now := time.Now()

	delayed := newJob(1, now.Add(time.Hour))
	require.NoError(t, store.Create(ctx, delayed))

	_, err := store.Claim(ctx, now)
	assert.ErrorIs(t, err, jobqueue.ErrNoJobReady)

	claimed, err := store.Claim(ctx, now.Add(time.Hour+time.Second))
	require.NoError(t, err)
	assert.Equal(t, delayed.ID, claimed.ID)
}

func TestMemoryStoreClaimFinalizesExpired(t *testing.T) {
	t.Parallel()

	store := jobqueue.NewMemoryStore()
	ctx := context.Background()
	now := time.Now()

	expired := newJob(1, now)
	past := now.Add(-time.Minute)
	expired.ExpiresAt = &past
	require.NoError(t, store.Create(ctx, expired))

	_, err := store.Claim(ctx, now)
	require.ErrorIs(t, err, jobqueue.ErrNoJobReady)

	got, err := store.Get(ctx, expired.ID)
	require.NoError(t, err)
	assert.Equal(t, jobqueue.StateFailed, got.State, "expired job never dispatched")
	require.Len(t, got.Results, 1)
	assert.Equal(t, jobqueue.ExpiryReason, got.Results[0].Error,
		"expiry is recorded so it reads differently from channel failures")
	assert.False(t, got.Results[0].Timestamp.IsZero())
}

func TestMemoryStoreWithdraw(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	now := time.Now()

	t.Run("future job withdrawn", func(t *testing.T) {
		t.Parallel()
		store := jobqueue.NewMemoryStore()
		job := newJob(3, now.Add(time.Hour))
		require.NoError(t, store.Create(ctx, job))

		require.NoError(t, store.Withdraw(ctx, job.ID, now))

		_, err := store.Get(ctx, job.ID)
		assert.ErrorIs(t, err, jobqueue.ErrJobNotFound)
	})

	t.Run("due job not withdrawable", func(t *testing.T) {
		t.Parallel()
		store := jobqueue.NewMemoryStore()
		job := newJob(3, now.Add(-time.Second))
		require.NoError(t, store.Create(ctx, job))

		err := store.Withdraw(ctx, job.ID, now)
		assert.ErrorIs(t, err, jobqueue.ErrNotWithdrawable)
	})

	t.Run("claimed job not withdrawable", func(t *testing.T) {
		t.Parallel()
		store := jobqueue.NewMemoryStore()
		job := newJob(3, now)
		require.NoError(t, store.Create(ctx, job))
		_, err := store.Claim(ctx, now)
		require.NoError(t, err)

		err = store.Withdraw(ctx, job.ID, now)
		assert.ErrorIs(t, err, jobqueue.ErrNotWithdrawable)
	})

	t.Run("unknown id", func(t *testing.T) {
		t.Parallel()
		store := jobqueue.NewMemoryStore()
		err := store.Withdraw(ctx, "missing", now)
		assert.ErrorIs(t, err, jobqueue.ErrJobNotFound)
	})
}

func TestMemoryStoreCreateValidation(t *testing.T) {
	t.Parallel()

	store := jobqueue.NewMemoryStore()
	ctx := context.Background()

	err := store.Create(ctx, &jobqueue.Job{})
	assert.ErrorIs(t, err, jobqueue.ErrInvalidJob)

	job := newJob(1, time.Now())
	require.NoError(t, store.Create(ctx, job))
	err = store.Create(ctx, job)
	assert.ErrorIs(t, err, jobqueue.ErrInvalidJob, "duplicate id rejected")
}
