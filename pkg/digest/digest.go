package digest

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/ledgerly/notify/pkg/email"
	"github.com/ledgerly/notify/pkg/jobqueue"
	"github.com/ledgerly/notify/pkg/logger"
	"github.com/ledgerly/notify/pkg/notify"
	"github.com/ledgerly/notify/pkg/prefs"
)

// Timer names registered on the scheduler. Registration is idempotent, so
// Register can run on every application start.
const (
	TimerDaily  = "digest:daily"
	TimerWeekly = "digest:weekly"
)

// Aggregator rolls unread notifications up into periodic digest emails.
// Records included in a digest are marked digested so the next run skips
// them; their read state is untouched.
type Aggregator struct {
	records   notify.Storage
	prefs     *prefs.Store
	directory notify.Directory
	sender    email.Sender
	logger    *slog.Logger
	now       func() time.Time
}

// Option configures an Aggregator.
type Option func(*Aggregator)

// WithLogger sets the aggregator's logger.
func WithLogger(log *slog.Logger) Option {
	return func(a *Aggregator) {
		if log != nil {
			a.logger = log
		}
	}
}

// WithClock overrides the aggregator clock, used by tests.
func WithClock(now func() time.Time) Option {
	return func(a *Aggregator) {
		if now != nil {
			a.now = now
		}
	}
}

// NewAggregator creates a digest aggregator.
func NewAggregator(records notify.Storage, prefStore *prefs.Store, directory notify.Directory, sender email.Sender, opts ...Option) *Aggregator {
	a := &Aggregator{
		records:   records,
		prefs:     prefStore,
		directory: directory,
		sender:    sender,
		logger:    slog.Default(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Register wires the aggregator's recurring timers onto the scheduler:
// a daily digest at the given hour and a weekly digest on Monday at the
// same hour.
func (a *Aggregator) Register(sched *jobqueue.Scheduler, hour int) {
	sched.Register(TimerDaily, jobqueue.DailyAt(hour, 0), func(ctx context.Context) error {
		return a.Run(ctx, prefs.DigestDaily)
	})
	sched.Register(TimerWeekly, jobqueue.WeeklyOn(time.Monday, hour, 0), func(ctx context.Context) error {
		return a.Run(ctx, prefs.DigestWeekly)
	})
}

// window returns how far back a digest run looks for candidates.
func window(freq prefs.DigestFrequency) time.Duration {
	if freq == prefs.DigestWeekly {
		return 7 * 24 * time.Hour
	}
	return 24 * time.Hour
}

// Run assembles and sends digests for every user subscribed at the given
// frequency. Per-user failures are logged and skipped so one bad address
// never stalls the whole run.
func (a *Aggregator) Run(ctx context.Context, freq prefs.DigestFrequency) error {
	users, err := a.prefs.ListDigestUsers(ctx, freq)
	if err != nil {
		return fmt.Errorf("list digest users: %w", err)
	}

	now := a.now()
	since := now.Add(-window(freq))
	sent := 0
	for _, userID := range users {
		if err := a.runForUser(ctx, userID, freq, since); err != nil {
			a.logger.ErrorContext(ctx, "digest failed for user",
				logger.UserID(userID),
				logger.Error(err))
			continue
		}
		sent++
	}

	a.logger.InfoContext(ctx, "digest run completed",
		slog.String("frequency", string(freq)),
		logger.Count(sent))
	return nil
}

func (a *Aggregator) runForUser(ctx context.Context, userID string, freq prefs.DigestFrequency, since time.Time) error {
	records, err := a.records.ListForDigest(ctx, userID, since)
	if err != nil {
		return fmt.Errorf("list digest candidates: %w", err)
	}
	if len(records) == 0 {
		return nil
	}

	groups := groupRecords(records)
	body, err := renderDigest(digestData{
		Frequency: freq,
		Groups:    groups,
		Total:     len(records),
	})
	if err != nil {
		return fmt.Errorf("render digest: %w", err)
	}

	addr, err := a.directory.EmailAddress(ctx, userID)
	if err != nil {
		return fmt.Errorf("resolve email address: %w", err)
	}

	if err := a.sender.SendEmail(ctx, email.SendParams{
		SendTo:   addr,
		Subject:  subjectFor(freq, len(records)),
		BodyHTML: body,
		Tag:      string(notify.EventAccountDigest),
	}); err != nil {
		return fmt.Errorf("send digest: %w", err)
	}

	ids := make([]string, 0, len(records))
	for _, r := range records {
		ids = append(ids, r.ID)
	}
	if err := a.records.MarkDigested(ctx, userID, ids...); err != nil {
		return fmt.Errorf("mark records digested: %w", err)
	}
	return nil
}

func subjectFor(freq prefs.DigestFrequency, count int) string {
	period := "daily"
	if freq == prefs.DigestWeekly {
		period = "weekly"
	}
	plural := "notifications"
	if count == 1 {
		plural = "notification"
	}
	return fmt.Sprintf("Your %s Ledgerly digest: %d %s", period, count, plural)
}
