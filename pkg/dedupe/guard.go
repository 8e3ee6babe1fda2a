package dedupe

import (
	"context"
	"time"
)

// DefaultWindow is how long a deduplication key suppresses repeats.
const DefaultWindow = 24 * time.Hour

// Guard records deduplication keys and reports repeats within the window.
type Guard interface {
	// Mark atomically claims the (userID, key) pair for the given id.
	// When the pair was already claimed inside the window, Mark returns the
	// id issued to the first caller and duplicate=true; the claim and its
	// expiry are left untouched. Exactly one of N concurrent callers for the
	// same pair claims it.
	Mark(ctx context.Context, userID, key, id string) (existingID string, duplicate bool, err error)

	// Release drops the claim on the (userID, key) pair so the next Mark
	// wins again. Callers use it to undo a claim whose notification was
	// never accepted. Releasing an absent pair is not an error.
	Release(ctx context.Context, userID, key string) error
}

func guardKey(userID, key string) string {
	return "dedup:" + userID + ":" + key
}
