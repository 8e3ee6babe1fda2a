package notify

import (
	"time"
)

// Priority represents notification urgency. Rank converts it to queue
// order, where 1 is drained first.
type Priority string

const (
	PriorityUrgent Priority = "URGENT"
	PriorityHigh   Priority = "HIGH"
	PriorityMedium Priority = "MEDIUM"
	PriorityLow    Priority = "LOW"
)

// Rank returns the queue rank for the priority, 1 (urgent) through 4 (low).
// Unknown priorities rank as medium.
func (p Priority) Rank() int {
	switch p {
	case PriorityUrgent:
		return 1
	case PriorityHigh:
		return 2
	case PriorityMedium:
		return 3
	case PriorityLow:
		return 4
	}
	return 3
}

// Valid reports whether the priority is one of the defined levels.
func (p Priority) Valid() bool {
	switch p {
	case PriorityUrgent, PriorityHigh, PriorityMedium, PriorityLow:
		return true
	}
	return false
}

// Category groups notifications by product area for preference filtering
// and digest grouping.
type Category string

const (
	CategoryGoals    Category = "GOALS"
	CategoryBudget   Category = "BUDGET"
	CategoryTaxes    Category = "TAXES"
	CategorySecurity Category = "SECURITY"
	CategoryAccount  Category = "ACCOUNT"
)

// Valid reports whether the category is one of the defined product areas.
func (c Category) Valid() bool {
	switch c {
	case CategoryGoals, CategoryBudget, CategoryTaxes, CategorySecurity, CategoryAccount:
		return true
	}
	return false
}

// Event identifies what happened in the application. Each event maps to a
// fixed category.
type Event string

const (
	EventGoalProgress     Event = "goal_progress"
	EventGoalAchieved     Event = "goal_achieved"
	EventBudgetWarning    Event = "budget_warning"
	EventBudgetExceeded   Event = "budget_exceeded"
	EventTaxDeadline      Event = "tax_deadline"
	EventSecurityAlert    Event = "security_alert"
	EventLargeTransaction Event = "large_transaction"
	EventAccountDigest    Event = "account_digest"
)

// Events returns every defined event.
func Events() []Event {
	return []Event{
		EventGoalProgress,
		EventGoalAchieved,
		EventBudgetWarning,
		EventBudgetExceeded,
		EventTaxDeadline,
		EventSecurityAlert,
		EventLargeTransaction,
		EventAccountDigest,
	}
}

// Valid reports whether the event is one of the defined events.
func (e Event) Valid() bool {
	for _, known := range Events() {
		if e == known {
			return true
		}
	}
	return false
}

// Category returns the product area the event belongs to.
func (e Event) Category() Category {
	switch e {
	case EventGoalProgress, EventGoalAchieved:
		return CategoryGoals
	case EventBudgetWarning, EventBudgetExceeded:
		return CategoryBudget
	case EventTaxDeadline:
		return CategoryTaxes
	case EventSecurityAlert:
		return CategorySecurity
	case EventLargeTransaction, EventAccountDigest:
		return CategoryAccount
	}
	return CategoryAccount
}

// Channel is a delivery mechanism.
type Channel string

const (
	ChannelEmail Channel = "EMAIL"
	ChannelPush  Channel = "PUSH"
	ChannelInApp Channel = "IN_APP"
	ChannelSMS   Channel = "SMS"
)

// orderedChannels fixes the evaluation and delivery preference order.
var orderedChannels = []Channel{ChannelEmail, ChannelPush, ChannelInApp, ChannelSMS}

// Record is a stored in-app notification. It doubles as the source for
// digest assembly: unread, undigested records are rolled up by the digest
// aggregator and marked digested without being marked read.
type Record struct {
	ID         string         `json:"id" bson:"id"`
	UserID     string         `json:"user_id" bson:"user_id"`
	Event      Event          `json:"event" bson:"event"`
	Category   Category       `json:"category" bson:"category"`
	Priority   Priority       `json:"priority" bson:"priority"`
	Title      string         `json:"title" bson:"title"`
	Message    string         `json:"message" bson:"message"`
	Data       map[string]any `json:"data,omitempty" bson:"data,omitempty"`
	Read       bool           `json:"read" bson:"read"`
	ReadAt     *time.Time     `json:"read_at,omitempty" bson:"read_at,omitempty"`
	Digested   bool           `json:"digested" bson:"digested"`
	DigestedAt *time.Time     `json:"digested_at,omitempty" bson:"digested_at,omitempty"`
	CreatedAt  time.Time      `json:"created_at" bson:"created_at"`
	ExpiresAt  *time.Time     `json:"expires_at,omitempty" bson:"expires_at,omitempty"`
}

// IsExpired returns true if the record has expired.
func (r *Record) IsExpired() bool {
	if r.ExpiresAt == nil {
		return false
	}
	return time.Now().After(*r.ExpiresAt)
}

// MarkAsRead marks the record as read with the current timestamp.
func (r *Record) MarkAsRead() {
	r.Read = true
	now := time.Now()
	r.ReadAt = &now
}

// MarkDigested marks the record as included in a digest. Read state is
// deliberately untouched: a digested notification still shows as unread
// in the application.
func (r *Record) MarkDigested() {
	r.Digested = true
	now := time.Now()
	r.DigestedAt = &now
}
