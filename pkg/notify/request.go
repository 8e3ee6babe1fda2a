package notify

import (
	"errors"
	"fmt"
	"time"
	"unicode/utf8"
)

const (
	// MaxTitleLength bounds request titles.
	MaxTitleLength = 100
	// MaxMessageLength bounds request messages.
	MaxMessageLength = 1000
)

// Request describes a notification to send. Priority defaults to MEDIUM
// when empty. Channels, when non-nil, bypasses preference-based channel
// selection entirely and is used verbatim.
type Request struct {
	UserID   string         `json:"user_id"`
	Event    Event          `json:"event"`
	Priority Priority       `json:"priority,omitempty"`
	Title    string         `json:"title"`
	Message  string         `json:"message"`
	Data     map[string]any `json:"data,omitempty"`

	// Category overrides the event-derived category when set.
	Category Category `json:"category,omitempty"`

	// GroupKey clusters related notifications for digest and feed grouping.
	GroupKey string `json:"group_key,omitempty"`

	// DedupKey suppresses repeats of the same logical notification within
	// the deduplication window. Empty disables deduplication.
	DedupKey string `json:"dedup_key,omitempty"`

	// SendAt delays delivery until the given time. Zero means immediately.
	SendAt time.Time `json:"send_at,omitempty"`

	// ExpiresAt drops the notification if it has not been delivered by then.
	ExpiresAt *time.Time `json:"expires_at,omitempty"`

	// Channels overrides channel selection when non-nil.
	Channels []Channel `json:"channels,omitempty"`
}

// Validate checks the request, joining every violation into one error that
// wraps ErrInvalidRequest.
func (r Request) Validate() error {
	var errs []error

	if r.UserID == "" {
		errs = append(errs, ErrMissingUserID)
	}
	if !r.Event.Valid() {
		errs = append(errs, fmt.Errorf("%w: %q", ErrUnknownEvent, r.Event))
	}
	if r.Priority != "" && !r.Priority.Valid() {
		errs = append(errs, fmt.Errorf("%w: %q", ErrInvalidPriority, r.Priority))
	}
	if r.Category != "" && !r.Category.Valid() {
		errs = append(errs, fmt.Errorf("%w: %q", ErrUnknownCategory, r.Category))
	}
	if r.Title == "" {
		errs = append(errs, ErrMissingTitle)
	} else if utf8.RuneCountInString(r.Title) > MaxTitleLength {
		errs = append(errs, fmt.Errorf("%w: %d > %d", ErrTitleTooLong,
			utf8.RuneCountInString(r.Title), MaxTitleLength))
	}
	if r.Message == "" {
		errs = append(errs, ErrMissingMessage)
	} else if utf8.RuneCountInString(r.Message) > MaxMessageLength {
		errs = append(errs, fmt.Errorf("%w: %d > %d", ErrMessageTooLong,
			utf8.RuneCountInString(r.Message), MaxMessageLength))
	}
	for _, ch := range r.Channels {
		switch ch {
		case ChannelEmail, ChannelPush, ChannelInApp, ChannelSMS:
		default:
			errs = append(errs, fmt.Errorf("%w: %q", ErrUnknownChannel, ch))
		}
	}

	if len(errs) > 0 {
		return errors.Join(append([]error{ErrInvalidRequest}, errs...)...)
	}
	return nil
}

// priority returns the effective priority, defaulting to MEDIUM.
func (r Request) priority() Priority {
	if r.Priority == "" {
		return PriorityMedium
	}
	return r.Priority
}

// category returns the effective category: the explicit override when set,
// the event-derived one otherwise.
func (r Request) category() Category {
	if r.Category != "" {
		return r.Category
	}
	return r.Event.Category()
}

// Payload is the job payload carried through the queue to the dispatcher.
type Payload struct {
	Event    Event          `json:"event"`
	Category Category       `json:"category"`
	Priority Priority       `json:"priority"`
	Title    string         `json:"title"`
	Message  string         `json:"message"`
	Data     map[string]any `json:"data,omitempty"`
	GroupKey string         `json:"group_key,omitempty"`
}
