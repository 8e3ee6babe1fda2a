package digest

import (
	"html/template"
	"sort"
	"strings"

	"github.com/ledgerly/notify/pkg/notify"
	"github.com/ledgerly/notify/pkg/prefs"
)

// Group is one category section of a digest.
type Group struct {
	Category notify.Category
	Records  []notify.Record
}

type digestData struct {
	Frequency prefs.DigestFrequency
	Groups    []Group
	Total     int
}

// categoryTitles maps categories to their section headings.
var categoryTitles = map[notify.Category]string{
	notify.CategoryGoals:    "Savings goals",
	notify.CategoryBudget:   "Budgets",
	notify.CategoryTaxes:    "Taxes",
	notify.CategorySecurity: "Security",
	notify.CategoryAccount:  "Account activity",
}

// groupRecords buckets records by category. Within a group records are
// ordered by priority (urgent first), then most recent; groups are ordered
// by their most urgent record, ties broken by recency.
func groupRecords(records []notify.Record) []Group {
	byCategory := make(map[notify.Category][]notify.Record)
	for _, r := range records {
		byCategory[r.Category] = append(byCategory[r.Category], r)
	}

	groups := make([]Group, 0, len(byCategory))
	for cat, recs := range byCategory {
		sort.SliceStable(recs, func(i, j int) bool {
			ri, rj := recs[i].Priority.Rank(), recs[j].Priority.Rank()
			if ri != rj {
				return ri < rj
			}
			return recs[i].CreatedAt.After(recs[j].CreatedAt)
		})
		groups = append(groups, Group{Category: cat, Records: recs})
	}

	sort.SliceStable(groups, func(i, j int) bool {
		gi, gj := groups[i].Records[0], groups[j].Records[0]
		if gi.Priority.Rank() != gj.Priority.Rank() {
			return gi.Priority.Rank() < gj.Priority.Rank()
		}
		return gi.CreatedAt.After(gj.CreatedAt)
	})
	return groups
}

var digestTemplate = template.Must(template.New("digest").Funcs(template.FuncMap{
	"categoryTitle": func(c notify.Category) string {
		if title, ok := categoryTitles[c]; ok {
			return title
		}
		return string(c)
	},
}).Parse(`<!DOCTYPE html>
<html>
<body style="margin:0;padding:0;background-color:#f4f5f7;font-family:Helvetica,Arial,sans-serif;">
  <table role="presentation" width="100%" cellpadding="0" cellspacing="0">
    <tr><td align="center" style="padding:24px;">
      <table role="presentation" width="560" cellpadding="0" cellspacing="0" style="background:#ffffff;border-radius:8px;padding:32px;">
        <tr><td style="color:#1a1f36;font-size:20px;font-weight:bold;padding-bottom:8px;">While you were away</td></tr>
        <tr><td style="color:#8792a2;font-size:13px;padding-bottom:20px;">{{.Total}} unread {{if eq .Total 1}}notification{{else}}notifications{{end}}</td></tr>
{{- range .Groups}}
        <tr><td style="color:#1a1f36;font-size:16px;font-weight:bold;padding:16px 0 8px;">{{categoryTitle .Category}}</td></tr>
{{- range .Records}}
        <tr><td style="padding:6px 0;">
          <div style="color:#3c4257;font-size:14px;font-weight:bold;">{{.Title}}</div>
          <div style="color:#697386;font-size:13px;line-height:19px;">{{.Message}}</div>
        </td></tr>
{{- end}}
{{- end}}
        <tr><td style="color:#8792a2;font-size:12px;padding-top:24px;">You can change your digest frequency in your Ledgerly notification settings.</td></tr>
      </table>
    </td></tr>
  </table>
</body>
</html>`))

func renderDigest(data digestData) (string, error) {
	var sb strings.Builder
	if err := digestTemplate.Execute(&sb, data); err != nil {
		return "", err
	}
	return sb.String(), nil
}
