package jobqueue

import "errors"

var (
	// ErrStoreNil indicates a worker or enqueuer was built without a store.
	ErrStoreNil = errors.New("job store is nil")
	// ErrDispatcherNil indicates a worker was built without a dispatcher.
	ErrDispatcherNil = errors.New("dispatcher is nil")
	// ErrInvalidJob indicates a job could not be created as given.
	ErrInvalidJob = errors.New("invalid job")
	// ErrNoJobReady indicates no queued job is due for processing.
	ErrNoJobReady = errors.New("no job ready")
	// ErrJobNotFound indicates the job id is unknown to the store.
	ErrJobNotFound = errors.New("job not found")
	// ErrNotWithdrawable indicates the job is past the point of withdrawal.
	ErrNotWithdrawable = errors.New("job not withdrawable")
	// ErrWorkerAlreadyStarted indicates Start was called twice.
	ErrWorkerAlreadyStarted = errors.New("worker already started")
	// ErrWorkerNotStarted indicates Stop was called before Start.
	ErrWorkerNotStarted = errors.New("worker not started")
	// ErrTimerNotFound indicates no recurring timer with that name exists.
	ErrTimerNotFound = errors.New("timer not found")
)
