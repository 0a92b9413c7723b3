package reminder

import (
	"strings"

	"classreminder/internal/record"
)

// Template placeholders. Substitution replaces only the first occurrence of
// each, matching the behavior the scheduling UI documents.
const (
	phName     = "{name}"
	phDateTime = "{datetime}"
	phSubject  = "{subject}"
	phTeacher  = "{teacher}"
)

// Render substitutes schedule fields into the template. A placeholder absent
// from the template is ignored; one that repeats is replaced once.
func Render(template string, s record.Schedule) string {
	out := strings.Replace(template, phName, s.Student, 1)
	out = strings.Replace(out, phDateTime, s.Date+" "+s.Time, 1)
	out = strings.Replace(out, phSubject, s.Subject, 1)
	out = strings.Replace(out, phTeacher, s.Teacher, 1)
	return out
}

// Banner prefixes the rendered body with the window label.
func Banner(w Window, body string) string {
	return "[Class Reminder - " + w.Label() + "]\n" + body
}

// TemplateFor picks the window-specific template, falling back to the shared
// one (which itself defaults when the settings document has none).
func TemplateFor(w Window, settings record.Settings) string {
	var t string
	switch w {
	case Window24h:
		t = settings.Template24h
	case Window3h:
		t = settings.Template3h
	case Window1h:
		t = settings.Template1h
	}
	if t == "" {
		t = settings.Template
	}
	if t == "" {
		t = record.DefaultTemplate
	}
	return t
}
