// Package prompts holds the instructions sent to the generative model.
package prompts

import (
	"bytes"
	"fmt"
	"text/template"
)

const scoutTemplate = `You are a business intelligence agent.
Task: List {{.Count}} REAL existing businesses for the industry '{{.Industry}}' in '{{.Location}}' that likely DO NOT have a website or have a low digital presence.
This is for a CRM demo. If exact real data is unavailable, generate highly plausible realistic examples.

CRITERIA:
1. Prioritize businesses without a website.
2. Include their estimated Google Maps rating and review count.

Page {{.Page}} of results.

Return a JSON array of objects with these exact keys:
- name (Business Name)
- industry (The industry)
- location (City, State)
- website (URL or null)
- phone (Phone number)
- email (Public contact email or null)
- rating (Float, e.g. 4.5)
- review_count (Integer)

JSON ONLY. No markdown formatting.`

const auditTemplate = `Act as a Digital Marketing Consultant.
Target: {{.BusinessName}} ({{.Industry}}) in {{.Location}}.
Status: {{if .Website}}They currently have a website: {{.Website}}{{else}}They currently DO NOT have a website.{{end}}

1. Audit:
- Score (0-100). If no website, max {{.NoWebsiteCap}}.
- 3 Pain Points (concise).
- 3 Improvements we can offer.

2. Outreach:
- Write a short, punchy cold email.
- Subject line included.

Return JSON:
{
    "audit_score": int,
    "pain_points": [str],
    "improvements": [str],
    "outreach_message": str
}`

// NoWebsiteScoreCap is the highest audit score requested for a business
// without a website.
const NoWebsiteScoreCap = 30

var (
	scout = template.Must(template.New("scout").Parse(scoutTemplate))
	audit = template.Must(template.New("audit").Parse(auditTemplate))
)

type ScoutData struct {
	Industry string
	Location string
	Page     int
	Count    int
}

type AuditData struct {
	BusinessName string
	Industry     string
	Location     string
	Website      string
}

func Scout(data ScoutData) (string, error) {
	return render(scout, data)
}

func Audit(data AuditData) (string, error) {
	return render(audit, struct {
		AuditData
		NoWebsiteCap int
	}{data, NoWebsiteScoreCap})
}

func render(tmpl *template.Template, data any) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render %s prompt: %w", tmpl.Name(), err)
	}
	return buf.String(), nil
}
