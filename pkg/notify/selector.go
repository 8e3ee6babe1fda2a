package notify

import (
	"slices"
	"time"

	"github.com/ledgerly/notify/pkg/prefs"
)

// SelectChannels resolves which channels a notification goes to, evaluating
// the user's preferences at the given send time. Channels are returned in
// the fixed order EMAIL, PUSH, IN_APP, SMS.
//
// Rules, per channel:
//   - the channel must be enabled and allow the notification's category
//   - quiet hours suppress EMAIL and PUSH, except for URGENT notifications
//   - IN_APP is never suppressed by quiet hours; the feed entry just sits
//     there until the user looks
//   - SMS marked emergency-only carries URGENT notifications exclusively
//
// A non-nil override skips selection and is returned verbatim.
func SelectChannels(p prefs.Preferences, priority Priority, category Category, at time.Time, override []Channel) []Channel {
	if override != nil {
		return slices.Clone(override)
	}

	hour := at.In(p.Location()).Hour()
	urgent := priority == PriorityUrgent

	var selected []Channel
	for _, ch := range orderedChannels {
		switch ch {
		case ChannelEmail:
			if p.Email.Allows(string(category)) && (urgent || !inQuietHours(p.Email.QuietHours, hour)) {
				selected = append(selected, ch)
			}
		case ChannelPush:
			if p.Push.Allows(string(category)) && (urgent || !inQuietHours(p.Push.QuietHours, hour)) {
				selected = append(selected, ch)
			}
		case ChannelInApp:
			if p.InApp.Allows(string(category)) {
				selected = append(selected, ch)
			}
		case ChannelSMS:
			if p.SMS.Allows(string(category)) && (!p.SMS.EmergencyOnly || urgent) {
				selected = append(selected, ch)
			}
		}
	}
	return selected
}

func inQuietHours(window *prefs.QuietHours, hour int) bool {
	if window == nil {
		return false
	}
	return window.Contains(hour)
}
