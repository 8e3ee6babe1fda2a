package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/ledgerly/notify/pkg/dedupe"
	"github.com/ledgerly/notify/pkg/jobqueue"
	"github.com/ledgerly/notify/pkg/logger"
	"github.com/ledgerly/notify/pkg/prefs"
)

// Service is the application-facing entry point of the notification engine.
// Send resolves preferences, deduplicates and enqueues; the jobqueue worker
// performs the actual delivery asynchronously.
type Service struct {
	guard   dedupe.Guard
	prefs   *prefs.Store
	jobs    jobqueue.Store
	records Storage
	logger  *slog.Logger
	now     func() time.Time
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithServiceLogger sets the service logger.
func WithServiceLogger(log *slog.Logger) ServiceOption {
	return func(s *Service) {
		if log != nil {
			s.logger = log
		}
	}
}

// WithClock overrides the service clock, used by tests to pin send time.
func WithClock(now func() time.Time) ServiceOption {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// NewService wires the notification engine together. The guard may be nil
// to disable deduplication entirely.
func NewService(guard dedupe.Guard, prefStore *prefs.Store, jobs jobqueue.Store, records Storage, opts ...ServiceOption) *Service {
	s := &Service{
		guard:   guard,
		prefs:   prefStore,
		jobs:    jobs,
		records: records,
		logger:  slog.Default(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Send validates, deduplicates and enqueues a notification, returning its
// id. A request whose DedupKey was already seen inside the window returns
// the previously issued id and enqueues nothing. A request that resolves to
// no eligible channels still enqueues a job, which settles as delivered
// without any provider calls.
func (s *Service) Send(ctx context.Context, req Request) (string, error) {
	if err := req.Validate(); err != nil {
		return "", err
	}

	id := uuid.New().String()

	claimed := false
	if s.guard != nil && req.DedupKey != "" {
		existingID, duplicate, err := s.guard.Mark(ctx, req.UserID, req.DedupKey, id)
		if err != nil {
			return "", fmt.Errorf("dedup check: %w", err)
		}
		if duplicate {
			s.logger.DebugContext(ctx, "duplicate notification suppressed",
				logger.UserID(req.UserID),
				logger.Event(string(req.Event)),
				logger.NotificationID(existingID))
			return existingID, nil
		}
		claimed = true
	}

	p, err := s.prefs.Get(ctx, req.UserID)
	if err != nil {
		// Defaults still allow delivery; losing a notification over a
		// preference store hiccup is worse than ignoring quiet hours.
		s.logger.WarnContext(ctx, "preferences unavailable, using defaults",
			logger.UserID(req.UserID),
			logger.Error(err))
	}

	now := s.now()
	sendAt := req.SendAt
	if sendAt.IsZero() {
		sendAt = now
	}

	priority := req.priority()
	category := req.category()
	channels := SelectChannels(p, priority, category, sendAt, req.Channels)

	payload, err := json.Marshal(Payload{
		Event:    req.Event,
		Category: category,
		Priority: priority,
		Title:    req.Title,
		Message:  req.Message,
		Data:     req.Data,
		GroupKey: req.GroupKey,
	})
	if err != nil {
		return "", fmt.Errorf("encode payload: %w", err)
	}

	states := make([]jobqueue.ChannelState, 0, len(channels))
	for _, ch := range channels {
		states = append(states, jobqueue.ChannelState{Channel: string(ch)})
	}

	job := &jobqueue.Job{
		ID:        id,
		UserID:    req.UserID,
		Rank:      priority.Rank(),
		Payload:   payload,
		Channels:  states,
		NotBefore: sendAt,
		ExpiresAt: req.ExpiresAt,
		CreatedAt: now,
	}
	if err := s.jobs.Create(ctx, job); err != nil {
		if claimed {
			// The claim points at a job that never existed; drop it so a
			// retry with the same key is not suppressed for the whole window.
			if relErr := s.guard.Release(ctx, req.UserID, req.DedupKey); relErr != nil {
				s.logger.ErrorContext(ctx, "failed to release dedup claim",
					logger.UserID(req.UserID),
					logger.Error(relErr))
			}
		}
		return "", fmt.Errorf("enqueue notification: %w", err)
	}

	s.logger.InfoContext(ctx, "notification enqueued",
		logger.NotificationID(id),
		logger.UserID(req.UserID),
		logger.Event(string(req.Event)),
		logger.Count(len(channels)))
	return id, nil
}

// Withdraw cancels a scheduled notification that has not become due yet.
func (s *Service) Withdraw(ctx context.Context, id string) error {
	return s.jobs.Withdraw(ctx, id, s.now())
}

// JobState reports the delivery state of a previously sent notification.
func (s *Service) JobState(ctx context.Context, id string) (jobqueue.State, error) {
	job, err := s.jobs.Get(ctx, id)
	if err != nil {
		return "", err
	}
	return job.State, nil
}

// NotificationPage is one page of a user's notification feed.
type NotificationPage struct {
	Notifications []Record `json:"notifications"`
	Total         int      `json:"total"`
	Page          int      `json:"page"`
	Limit         int      `json:"limit"`
}

// GetNotifications returns a page of the user's stored notifications,
// newest first.
func (s *Service) GetNotifications(ctx context.Context, userID string, opts ListOptions) (NotificationPage, error) {
	records, total, err := s.records.List(ctx, userID, opts)
	if err != nil {
		return NotificationPage{}, fmt.Errorf("list notifications: %w", err)
	}
	page := opts.Page
	if page < 1 {
		page = 1
	}
	return NotificationPage{
		Notifications: records,
		Total:         total,
		Page:          page,
		Limit:         opts.Limit,
	}, nil
}

// GetUnreadCount returns the user's unread notification count.
func (s *Service) GetUnreadCount(ctx context.Context, userID string) (int, error) {
	return s.records.CountUnread(ctx, userID)
}

// MarkAsRead marks the given notifications as read.
func (s *Service) MarkAsRead(ctx context.Context, userID string, ids ...string) error {
	return s.records.MarkRead(ctx, userID, ids...)
}

// Delete removes the given notifications from the user's feed.
func (s *Service) Delete(ctx context.Context, userID string, ids ...string) error {
	return s.records.Delete(ctx, userID, ids...)
}

// GetPreferences returns the user's resolved notification preferences.
func (s *Service) GetPreferences(ctx context.Context, userID string) (prefs.Preferences, error) {
	return s.prefs.Get(ctx, userID)
}

// UpdatePreferences merges a partial update over the user's current
// preferences and returns the result.
func (s *Service) UpdatePreferences(ctx context.Context, userID string, patch prefs.Patch) (prefs.Preferences, error) {
	return s.prefs.Update(ctx, userID, patch)
}
