package prefs

import (
	"slices"
	"time"
)

// DigestFrequency controls how often unread notifications are rolled up
// into a single digest email for a user.
type DigestFrequency string

const (
	DigestOff    DigestFrequency = "off"
	DigestDaily  DigestFrequency = "daily"
	DigestWeekly DigestFrequency = "weekly"
)

// QuietHours is a time-of-day window, in hours 0-23, during which non-urgent
// notifications are suppressed for a channel. The window may wrap midnight:
// Start=22 End=6 covers 22:00-05:59.
type QuietHours struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Contains reports whether the given hour falls inside the window.
// Start <= End means Start <= hour < End; Start > End wraps midnight.
func (q QuietHours) Contains(hour int) bool {
	if q.Start <= q.End {
		return q.Start <= hour && hour < q.End
	}
	return hour >= q.Start || hour < q.End
}

// ChannelPreference holds the per-channel delivery settings for a user.
type ChannelPreference struct {
	Enabled    bool        `json:"enabled"`
	Categories []string    `json:"categories"`
	QuietHours *QuietHours `json:"quiet_hours,omitempty"`
}

// Allows reports whether notifications of the given category may use the channel.
func (c ChannelPreference) Allows(category string) bool {
	return c.Enabled && slices.Contains(c.Categories, category)
}

// SMSPreference holds SMS settings. SMS carries an additional emergency-only
// gate because it is the most intrusive and most expensive channel.
type SMSPreference struct {
	Enabled       bool     `json:"enabled"`
	Categories    []string `json:"categories"`
	EmergencyOnly bool     `json:"emergency_only"`
}

// Allows reports whether notifications of the given category may use SMS.
func (s SMSPreference) Allows(category string) bool {
	return s.Enabled && slices.Contains(s.Categories, category)
}

// Preferences is the full per-user notification configuration. Quiet hours
// on the in-app channel are stored but never enforced; the in-app feed is
// not an interruption, so channel selection ignores that window.
type Preferences struct {
	Email    ChannelPreference `json:"email"`
	Push     ChannelPreference `json:"push"`
	InApp    ChannelPreference `json:"in_app"`
	SMS      SMSPreference     `json:"sms"`
	Timezone string            `json:"timezone"`
	Digest   DigestFrequency   `json:"digest"`
}

// Location resolves the user's timezone, falling back to UTC when the
// timezone is absent or unknown.
func (p Preferences) Location() *time.Location {
	if p.Timezone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(p.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// defaultCategories lists every category a freshly provisioned user receives.
var defaultCategories = []string{"GOALS", "BUDGET", "TAXES", "SECURITY", "ACCOUNT"}

// Defaults returns the fixed baseline preferences. Stored user documents are
// deep-merged over this value, so absent users and documents that predate new
// fields always resolve to something sensible.
func Defaults() Preferences {
	return Preferences{
		Email: ChannelPreference{
			Enabled:    true,
			Categories: slices.Clone(defaultCategories),
		},
		Push: ChannelPreference{
			Enabled:    true,
			Categories: slices.Clone(defaultCategories),
		},
		InApp: ChannelPreference{
			Enabled:    true,
			Categories: slices.Clone(defaultCategories),
		},
		SMS: SMSPreference{
			Enabled:       false,
			Categories:    []string{"SECURITY"},
			EmergencyOnly: true,
		},
		Timezone: "UTC",
		Digest:   DigestOff,
	}
}
