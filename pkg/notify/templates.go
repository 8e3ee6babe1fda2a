package notify

import (
	"fmt"
	"html/template"
	"strings"
	texttemplate "text/template"
)

// emailBodyHTML is the shared layout for single-notification emails.
// Digest emails are assembled elsewhere with their own layout.
const emailBodyHTML = `<!DOCTYPE html>
<html>
<body style="margin:0;padding:0;background-color:#f4f5f7;font-family:Helvetica,Arial,sans-serif;">
  <table role="presentation" width="100%" cellpadding="0" cellspacing="0">
    <tr><td align="center" style="padding:24px;">
      <table role="presentation" width="560" cellpadding="0" cellspacing="0" style="background:#ffffff;border-radius:8px;padding:32px;">
        <tr><td style="color:#1a1f36;font-size:20px;font-weight:bold;padding-bottom:12px;">{{.Title}}</td></tr>
        <tr><td style="color:#3c4257;font-size:15px;line-height:22px;">{{.Message}}</td></tr>
        <tr><td style="color:#8792a2;font-size:12px;padding-top:24px;">You are receiving this because of your Ledgerly notification settings.</td></tr>
      </table>
    </td></tr>
  </table>
</body>
</html>`

var emailBody = template.Must(template.New("email_body").Parse(emailBodyHTML))

// emailSubjects maps events to their subject line templates. An event that
// maps to an empty string has no email rendition: the email channel skips
// it with a warning rather than failing the notification.
var emailSubjects = map[Event]string{
	EventGoalProgress:     "Goal update: {{.Title}}",
	EventGoalAchieved:     "🎉 {{.Title}}",
	EventBudgetWarning:    "Budget warning: {{.Title}}",
	EventBudgetExceeded:   "Budget exceeded: {{.Title}}",
	EventTaxDeadline:      "Tax deadline: {{.Title}}",
	EventSecurityAlert:    "Security alert: {{.Title}}",
	EventLargeTransaction: "Large transaction: {{.Title}}",
	EventAccountDigest:    "", // assembled by the digest aggregator
}

// HasEmailTemplate reports whether the event can be rendered as an email.
func HasEmailTemplate(e Event) bool {
	subject, ok := emailSubjects[e]
	return ok && subject != ""
}

// RenderEmail renders the subject and HTML body for a notification email.
// Returns ok=false when the event has no email rendition.
func RenderEmail(p Payload) (subject, bodyHTML string, ok bool, err error) {
	subjectTmpl, found := emailSubjects[p.Event]
	if !found || subjectTmpl == "" {
		return "", "", false, nil
	}

	t, err := texttemplate.New("subject").Parse(subjectTmpl)
	if err != nil {
		return "", "", true, fmt.Errorf("parse subject template for %s: %w", p.Event, err)
	}
	var sb strings.Builder
	if err := t.Execute(&sb, p); err != nil {
		return "", "", true, fmt.Errorf("render subject for %s: %w", p.Event, err)
	}

	var bb strings.Builder
	if err := emailBody.Execute(&bb, p); err != nil {
		return "", "", true, fmt.Errorf("render body for %s: %w", p.Event, err)
	}
	return sb.String(), bb.String(), true, nil
}
