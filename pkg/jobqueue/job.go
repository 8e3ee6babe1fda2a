package jobqueue

import (
	"encoding/json"
	"time"
)

// State is the lifecycle state of a delivery job.
type State string

const (
	StateQueued     State = "queued"
	StateProcessing State = "processing"
	StateDelivered  State = "delivered"
	StatePartial    State = "partial"
	StateFailed     State = "failed"
)

// Terminal reports whether the state is final.
func (s State) Terminal() bool {
	switch s {
	case StateDelivered, StatePartial, StateFailed:
		return true
	}
	return false
}

// ChannelState tracks delivery progress for one channel of a job.
// A channel is settled once it is delivered, failed, or skipped.
type ChannelState struct {
	Channel   string `json:"channel"`
	Attempts  int    `json:"attempts"`
	Delivered bool   `json:"delivered"`
	Failed    bool   `json:"failed"`
	Skipped   bool   `json:"skipped"`
}

func (c ChannelState) settled() bool {
	return c.Delivered || c.Failed || c.Skipped
}

// Result records the outcome of a single delivery attempt.
type Result struct {
	Channel   string    `json:"channel"`
	Success   bool      `json:"success"`
	Error     string    `json:"error,omitempty"`
	Attempt   int       `json:"attempt"`
	Timestamp time.Time `json:"timestamp"`
}

// Job is a unit of notification delivery work. Rank orders jobs across the
// queue (1 is most urgent); Seq preserves FIFO order within a rank and is
// assigned by the store on Create.
type Job struct {
	ID        string          `json:"id"`
	UserID    string          `json:"user_id"`
	Rank      int             `json:"rank"`
	Payload   json.RawMessage `json:"payload"`
	Channels  []ChannelState  `json:"channels"`
	Results   []Result        `json:"results,omitempty"`
	State     State           `json:"state"`
	NotBefore time.Time       `json:"not_before"`
	ExpiresAt *time.Time      `json:"expires_at,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
	Seq       uint64          `json:"seq"`
}

// Pending returns the channels that still need a delivery attempt.
func (j *Job) Pending() []string {
	var pending []string
	for _, c := range j.Channels {
		if !c.settled() {
			pending = append(pending, c.Channel)
		}
	}
	return pending
}

// Expired reports whether the job's expiry has passed at the given time.
func (j *Job) Expired(now time.Time) bool {
	return j.ExpiresAt != nil && now.After(*j.ExpiresAt)
}

// ExpiryReason marks jobs failed because their expiry passed before any
// delivery happened, distinguishing them from jobs whose channels failed.
const ExpiryReason = "expired before delivery"

// markExpired finalizes an expired job with an ExpiryReason result entry.
func (j *Job) markExpired(now time.Time) {
	j.State = StateFailed
	j.Results = append(j.Results, Result{Error: ExpiryReason, Timestamp: now})
}

// FinalState aggregates settled channel states into a terminal job state.
// Skipped channels are excluded so a skip never counts against the outcome;
// a job whose channels were all skipped (or that had none) is delivered.
func FinalState(channels []ChannelState) State {
	delivered, failed := 0, 0
	for _, c := range channels {
		switch {
		case c.Skipped:
		case c.Delivered:
			delivered++
		case c.Failed:
			failed++
		}
	}
	switch {
	case failed == 0:
		return StateDelivered
	case delivered == 0:
		return StateFailed
	default:
		return StatePartial
	}
}
