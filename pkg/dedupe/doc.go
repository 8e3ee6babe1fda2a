// Package dedupe suppresses repeated notifications carrying the same
// caller-supplied deduplication key.
//
// A Guard claims (userID, key) pairs for a fixed window (24 hours by
// default). The first claim wins; every later claim inside the window is
// reported as a duplicate together with the id issued to the first caller,
// so callers can hand back the original notification id instead of sending
// again. Claiming is atomic: of N concurrent callers for the same pair,
// exactly one is told it was first.
//
//	guard, err := dedupe.NewRedisGuard(client)
//	existingID, dup, err := guard.Mark(ctx, userID, "budget_exceeded:groceries:2025-07", id)
//	if dup {
//		// Reuse existingID; nothing is sent.
//	}
//
// MemoryGuard provides the same behavior in-process for tests and
// single-instance deployments.
package dedupe
