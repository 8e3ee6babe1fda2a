package dedupe

import "errors"

var (
	// ErrNilClient indicates a guard was constructed without a Redis client.
	ErrNilClient = errors.New("redis client is nil")
	// ErrGuardUnavailable indicates the backing store could not be reached.
	ErrGuardUnavailable = errors.New("dedup guard unavailable")
)
