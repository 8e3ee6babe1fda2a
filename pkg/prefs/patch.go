package prefs

// ChannelPatch is a partial update for a single channel. Nil fields are
// left untouched; a non-nil QuietHours replaces the window wholesale.
type ChannelPatch struct {
	Enabled         *bool       `json:"enabled,omitempty"`
	Categories      *[]string   `json:"categories,omitempty"`
	QuietHours      *QuietHours `json:"quiet_hours,omitempty"`
	ClearQuietHours bool        `json:"clear_quiet_hours,omitempty"`
}

// SMSPatch is a partial update for the SMS channel.
type SMSPatch struct {
	Enabled       *bool     `json:"enabled,omitempty"`
	Categories    *[]string `json:"categories,omitempty"`
	EmergencyOnly *bool     `json:"emergency_only,omitempty"`
}

// Patch is a partial update for a user's preferences. Only the non-nil
// fields are applied; everything else keeps its current value.
type Patch struct {
	Email    *ChannelPatch    `json:"email,omitempty"`
	Push     *ChannelPatch    `json:"push,omitempty"`
	InApp    *ChannelPatch    `json:"in_app,omitempty"`
	SMS      *SMSPatch        `json:"sms,omitempty"`
	Timezone *string          `json:"timezone,omitempty"`
	Digest   *DigestFrequency `json:"digest,omitempty"`
}

func applyChannel(cur ChannelPreference, patch *ChannelPatch) ChannelPreference {
	if patch == nil {
		return cur
	}
	if patch.Enabled != nil {
		cur.Enabled = *patch.Enabled
	}
	if patch.Categories != nil {
		cur.Categories = *patch.Categories
	}
	if patch.ClearQuietHours {
		cur.QuietHours = nil
	} else if patch.QuietHours != nil {
		qh := *patch.QuietHours
		cur.QuietHours = &qh
	}
	return cur
}

func applySMS(cur SMSPreference, patch *SMSPatch) SMSPreference {
	if patch == nil {
		return cur
	}
	if patch.Enabled != nil {
		cur.Enabled = *patch.Enabled
	}
	if patch.Categories != nil {
		cur.Categories = *patch.Categories
	}
	if patch.EmergencyOnly != nil {
		cur.EmergencyOnly = *patch.EmergencyOnly
	}
	return cur
}

// Apply returns a copy of p with the patch merged in.
func (p Preferences) Apply(patch Patch) Preferences {
	p.Email = applyChannel(p.Email, patch.Email)
	p.Push = applyChannel(p.Push, patch.Push)
	p.InApp = applyChannel(p.InApp, patch.InApp)
	p.SMS = applySMS(p.SMS, patch.SMS)
	if patch.Timezone != nil {
		p.Timezone = *patch.Timezone
	}
	if patch.Digest != nil {
		p.Digest = *patch.Digest
	}
	return p
}
