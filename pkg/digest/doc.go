// Package digest assembles periodic summary emails from unread
// notifications.
//
// Users opt in through their preferences (daily or weekly). On each run
// the Aggregator collects every unread, not-yet-digested notification
// record inside the frequency window, groups it by category (most urgent
// group first), renders a single HTML email and marks the included records
// digested. Read state is never touched: the notifications stay unread in
// the application until the user opens them.
//
//	agg := digest.NewAggregator(records, prefStore, directory, sender)
//	agg.Register(scheduler, 8) // daily at 08:00, weekly on Monday 08:00
//
// Register is idempotent via the scheduler's named timers, so wiring can
// run on every application start.
package digest
