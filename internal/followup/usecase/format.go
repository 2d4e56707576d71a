package usecase

import (
	"fmt"
	"strings"
	"text/template"
	"time"

	"github.com/shandysiswandi/followup/internal/followup/entity"
)

const bodyTemplate = `<div style="font-family: sans-serif; font-size: 16px;">
  <p>Hello,</p>
  <p>{{.Intro}}</p>
  <ul>
{{- range .Items}}
    {{template "entry" .}}
{{- end}}
  </ul>
  <p>Please open the Follow-up App to take action.</p>
</div>`

type layout struct {
	subject string
	intro   string
	entry   string
}

var layouts = map[entity.Variant]layout{
	entity.VariantDailyPerUser: {
		subject: "You have %d follow-up(s) due today!",
		intro:   "This is a reminder that the following follow-ups are due today:",
		entry:   `<li><b>{{value .Name}}</b> at {{value .Address}}</li>`,
	},
	entity.VariantDailySummary: {
		subject: "Daily summary: %d follow-up(s) due today",
		intro:   "The following follow-ups are due today across all workers:",
		entry:   `<li><b>{{value .Name}}</b> at {{value .Address}} ({{value .WorkerEmail}})</li>`,
	},
	entity.VariantOverdueReport: {
		subject: "Overdue report: %d follow-up(s) past due",
		intro:   "The following follow-ups are past their due date:",
		entry:   `<li><b>{{value .Name}}</b> at {{value .Address}}, due {{dmy .DueDate}} ({{value .WorkerEmail}})</li>`,
	},
}

type compiled struct {
	layout layout
	body   *template.Template
}

// Formatter renders mail subjects and bodies for each preset. Values are
// inserted verbatim unless escaping was requested.
type Formatter struct {
	variants map[entity.Variant]compiled
}

func NewFormatter(escape bool) (*Formatter, error) {
	funcs := template.FuncMap{
		"value": func(s string) string { return s },
		"dmy":   formatDMY,
	}
	if escape {
		funcs["value"] = template.HTMLEscapeString
	}

	f := &Formatter{variants: make(map[entity.Variant]compiled, len(layouts))}
	for v, l := range layouts {
		body, err := template.New(string(v)).Funcs(funcs).Parse(bodyTemplate)
		if err != nil {
			return nil, err
		}
		if _, err := body.New("entry").Parse(l.entry); err != nil {
			return nil, err
		}
		f.variants[v] = compiled{layout: l, body: body}
	}

	return f, nil
}

// Format returns the subject and HTML body for items under p's preset.
func (f *Formatter) Format(p entity.Pipeline, items []entity.DueItem) (string, string, error) {
	c, ok := f.variants[p.Variant]
	if !ok {
		return "", "", fmt.Errorf("no template for variant %q", p.Variant)
	}

	var sb strings.Builder
	if err := c.body.Execute(&sb, struct {
		Intro string
		Items []entity.DueItem
	}{Intro: c.layout.intro, Items: items}); err != nil {
		return "", "", err
	}

	return fmt.Sprintf(c.layout.subject, len(items)), sb.String(), nil
}

// formatDMY renders a YYYY-MM-DD date as DD/MM/YYYY, or returns it unchanged.
func formatDMY(s string) string {
	t, err := time.Parse(entity.DateLayout, s)
	if err != nil {
		return s
	}
	return t.Format("02/01/2006")
}
