// Package prefs manages per-user notification preferences with layered
// defaults, partial updates and a cache in front of the backing store.
//
// Every user resolves to a complete Preferences value: stored documents are
// deep-merged over Defaults, so absent users and documents written before a
// field existed behave predictably. Updates are expressed as a Patch whose
// nil fields leave the current value untouched.
//
// # Basic Usage
//
//	store := prefs.NewStore(prefs.NewPGStorage(pool), prefs.NewRedisCache(client))
//
//	p, err := store.Get(ctx, userID)
//	if err != nil {
//		// p still holds usable defaults; log and continue.
//	}
//
//	enabled := false
//	p, err = store.Update(ctx, userID, prefs.Patch{
//		SMS: &prefs.SMSPatch{Enabled: &enabled},
//	})
//
// Quiet hours are per-channel time-of-day windows that may wrap midnight:
//
//	qh := prefs.QuietHours{Start: 22, End: 6}
//	qh.Contains(23) // true
//	qh.Contains(7)  // false
//
// The cache holds resolved documents for 24 hours by default and is
// invalidated on every update, so changes take effect immediately while
// repeated reads for active users stay cheap.
package prefs
