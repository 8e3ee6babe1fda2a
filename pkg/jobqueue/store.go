package jobqueue

import (
	"context"
	"time"
)

// Store persists delivery jobs and hands them out in priority order.
type Store interface {
	// Create persists a new queued job and assigns its Seq.
	Create(ctx context.Context, job *Job) error

	// Claim atomically picks the ready job with the lowest Rank (FIFO within
	// a rank), marks it processing and returns it. Jobs whose NotBefore is in
	// the future are not ready; jobs past their expiry are finalized as
	// failed and never returned. Returns ErrNoJobReady when nothing is due.
	Claim(ctx context.Context, now time.Time) (*Job, error)

	// Update persists the job's channel states, results, state and NotBefore.
	Update(ctx context.Context, job *Job) error

	// Get returns a job by id, or ErrJobNotFound.
	Get(ctx context.Context, id string) (*Job, error)

	// Withdraw cancels a job that is still queued with NotBefore in the
	// future. Returns ErrJobNotFound for unknown ids and ErrNotWithdrawable
	// for jobs already due or already claimed.
	Withdraw(ctx context.Context, id string, now time.Time) error
}
