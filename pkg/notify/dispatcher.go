package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/ledgerly/notify/pkg/email"
	"github.com/ledgerly/notify/pkg/jobqueue"
	"github.com/ledgerly/notify/pkg/logger"
)

// SMSMaxRunes is the single-segment SMS length; longer texts are truncated
// with an ellipsis rather than split across segments.
const SMSMaxRunes = 160

// Dispatcher delivers a job's channels through the configured providers.
// It implements jobqueue.Dispatcher: channels are attempted concurrently
// and settle independently, so one provider outage never blocks the rest.
type Dispatcher struct {
	storage   Storage
	directory Directory
	emails    email.Sender
	push      PushSender
	sms       SMSSender
	logger    *slog.Logger
}

// DispatcherOption configures a Dispatcher.
type DispatcherOption func(*Dispatcher)

// WithDispatcherLogger sets the dispatcher's logger.
func WithDispatcherLogger(log *slog.Logger) DispatcherOption {
	return func(d *Dispatcher) {
		if log != nil {
			d.logger = log
		}
	}
}

// NewDispatcher creates a channel dispatcher. Any provider may be nil, in
// which case its channel fails with a configuration error rather than
// panicking mid-delivery.
func NewDispatcher(storage Storage, directory Directory, emails email.Sender, push PushSender, sms SMSSender, opts ...DispatcherOption) *Dispatcher {
	d := &Dispatcher{
		storage:   storage,
		directory: directory,
		emails:    emails,
		push:      push,
		sms:       sms,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Dispatch delivers the given channels of a job concurrently and reports a
// per-channel verdict.
func (d *Dispatcher) Dispatch(ctx context.Context, job *jobqueue.Job, channels []string) map[string]jobqueue.ChannelResult {
	results := make(map[string]jobqueue.ChannelResult, len(channels))

	var payload Payload
	if err := json.Unmarshal(job.Payload, &payload); err != nil {
		err = fmt.Errorf("decode job payload: %w", err)
		for _, ch := range channels {
			results[ch] = jobqueue.ChannelResult{Err: err}
		}
		return results
	}

	var (
		wg sync.WaitGroup
		mu sync.Mutex
	)
	for _, ch := range channels {
		wg.Add(1)
		go func(ch string) {
			defer wg.Done()
			res := d.deliver(ctx, job, payload, Channel(ch))
			mu.Lock()
			results[ch] = res
			mu.Unlock()
		}(ch)
	}
	wg.Wait()
	return results
}

func (d *Dispatcher) deliver(ctx context.Context, job *jobqueue.Job, payload Payload, channel Channel) jobqueue.ChannelResult {
	switch channel {
	case ChannelEmail:
		return d.deliverEmail(ctx, job, payload)
	case ChannelPush:
		return d.deliverPush(ctx, job, payload)
	case ChannelInApp:
		return d.deliverInApp(ctx, job, payload)
	case ChannelSMS:
		return d.deliverSMS(ctx, job, payload)
	}
	return jobqueue.ChannelResult{Err: fmt.Errorf("unknown channel %q", channel)}
}

func (d *Dispatcher) deliverEmail(ctx context.Context, job *jobqueue.Job, payload Payload) jobqueue.ChannelResult {
	if d.emails == nil {
		return jobqueue.ChannelResult{Err: fmt.Errorf("no email sender configured")}
	}

	subject, body, ok, err := RenderEmail(payload)
	if !ok {
		// Missing template is a wiring gap, not a delivery failure.
		d.logger.WarnContext(ctx, "no email template for event, skipping email channel",
			logger.Event(string(payload.Event)),
			logger.NotificationID(job.ID))
		return jobqueue.ChannelResult{Skipped: true}
	}
	if err != nil {
		return jobqueue.ChannelResult{Err: err}
	}

	addr, err := d.directory.EmailAddress(ctx, job.UserID)
	if err != nil {
		return jobqueue.ChannelResult{Err: fmt.Errorf("resolve email address: %w", err)}
	}

	err = d.emails.SendEmail(ctx, email.SendParams{
		SendTo:   addr,
		Subject:  subject,
		BodyHTML: body,
		Tag:      string(payload.Event),
	})
	return jobqueue.ChannelResult{Err: err}
}

func (d *Dispatcher) deliverPush(ctx context.Context, job *jobqueue.Job, payload Payload) jobqueue.ChannelResult {
	if d.push == nil {
		return jobqueue.ChannelResult{Err: fmt.Errorf("no push sender configured")}
	}
	err := d.push.SendPush(ctx, job.UserID, PushMessage{
		Title:   payload.Title,
		Message: payload.Message,
		Data:    payload.Data,
	})
	return jobqueue.ChannelResult{Err: err}
}

func (d *Dispatcher) deliverInApp(ctx context.Context, job *jobqueue.Job, payload Payload) jobqueue.ChannelResult {
	if d.storage == nil {
		return jobqueue.ChannelResult{Err: fmt.Errorf("no record storage configured")}
	}
	err := d.storage.Create(ctx, Record{
		ID:        job.ID,
		UserID:    job.UserID,
		Event:     payload.Event,
		Category:  payload.Category,
		Priority:  payload.Priority,
		Title:     payload.Title,
		Message:   payload.Message,
		Data:      payload.Data,
		CreatedAt: job.CreatedAt,
		ExpiresAt: job.ExpiresAt,
	})
	return jobqueue.ChannelResult{Err: err}
}

func (d *Dispatcher) deliverSMS(ctx context.Context, job *jobqueue.Job, payload Payload) jobqueue.ChannelResult {
	if d.sms == nil {
		return jobqueue.ChannelResult{Err: fmt.Errorf("no sms sender configured")}
	}
	phone, err := d.directory.PhoneNumber(ctx, job.UserID)
	if err != nil {
		return jobqueue.ChannelResult{Err: fmt.Errorf("resolve phone number: %w", err)}
	}

	text := TruncateSMS(payload.Title+": "+payload.Message, SMSMaxRunes)
	start := time.Now()
	if err := d.sms.SendSMS(ctx, phone, text); err != nil {
		return jobqueue.ChannelResult{Err: err}
	}
	d.logger.DebugContext(ctx, "sms delivered",
		logger.NotificationID(job.ID),
		logger.Duration(time.Since(start)))
	return jobqueue.ChannelResult{}
}

// TruncateSMS shortens text to at most max runes, appending an ellipsis
// when truncation occurs.
func TruncateSMS(text string, max int) string {
	runes := []rune(text)
	if len(runes) <= max {
		return text
	}
	if max <= 1 {
		return string(runes[:max])
	}
	return string(runes[:max-1]) + "…"
}
