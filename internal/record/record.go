package record

import (
	"strconv"
	"time"
)

// Attendance states carried on schedule documents. Terminal states are
// excluded from reminders.
const (
	AttendancePending   = "pending"
	AttendanceCompleted = "completed"
	AttendanceAbsent    = "absent"
)

// Schedule is a flattened class schedule document.
type Schedule struct {
	ID         string
	Student    string
	Date       string
	Time       string
	Subject    string
	Teacher    string
	Attendance string
}

// Student maps a student name to a messaging recipient identifier.
// The join to Schedule is by exact name equality, not a foreign key.
type Student struct {
	Name   string
	LineID string
}

// Settings controls which reminder windows fire and what the messages say.
// The per-window templates are optional; each falls back to Template.
type Settings struct {
	Remind24h   bool
	Remind3h    bool
	Remind1h    bool
	Template    string
	Template24h string
	Template3h  string
	Template1h  string
}

// DefaultTemplate is used when the settings document carries no template.
const DefaultTemplate = "{name}さん、{datetime}から{subject}の授業があります。担当は{teacher}先生です。"

// DefaultSettings applies when no settings document exists in the data source.
func DefaultSettings() Settings {
	return Settings{
		Remind24h: true,
		Remind3h:  true,
		Remind1h:  false,
		Template:  DefaultTemplate,
	}
}

// Complete reports whether the schedule carries the fields required for
// reminder evaluation.
func (s Schedule) Complete() bool {
	return s.Date != "" && s.Time != "" && s.Student != ""
}

// Eligible reports whether the schedule's attendance state still allows
// reminders.
func (s Schedule) Eligible() bool {
	return s.Attendance != AttendanceCompleted && s.Attendance != AttendanceAbsent
}

// StartAt parses the schedule's civil date and time in the given location.
// Dates may use "-" or "/" separators; seconds in the time are optional.
func (s Schedule) StartAt(loc *time.Location) (time.Time, error) {
	var lastErr error
	for _, layout := range []string{"2006-01-02 15:04", "2006-01-02 15:04:05", "2006/1/2 15:04", "2006/1/2 15:04:05"} {
		t, err := time.ParseInLocation(layout, s.Date+" "+s.Time, loc)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}

// ScheduleFromFields builds a Schedule from a flattened document.
func ScheduleFromFields(id string, fields map[string]any) Schedule {
	return Schedule{
		ID:         id,
		Student:    asString(fields["student_name"]),
		Date:       asString(fields["date"]),
		Time:       asString(fields["time"]),
		Subject:    asString(fields["subject"]),
		Teacher:    asString(fields["teacher"]),
		Attendance: asString(fields["attendance"]),
	}
}

// StudentFromFields builds a Student from a flattened document.
func StudentFromFields(fields map[string]any) Student {
	return Student{
		Name:   asString(fields["student_name"]),
		LineID: asString(fields["line_user_id"]),
	}
}

// SettingsFromFields builds Settings from a flattened document, falling back
// to defaults for absent fields.
func SettingsFromFields(fields map[string]any) Settings {
	def := DefaultSettings()
	s := Settings{
		Remind24h:   asBool(fields["remind_24h"], def.Remind24h),
		Remind3h:    asBool(fields["remind_3h"], def.Remind3h),
		Remind1h:    asBool(fields["remind_1h"], def.Remind1h),
		Template:    asString(fields["template"]),
		Template24h: asString(fields["template_24h"]),
		Template3h:  asString(fields["template_3h"]),
		Template1h:  asString(fields["template_1h"]),
	}
	if s.Template == "" {
		s.Template = def.Template
	}
	return s
}

func asString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case int64:
		return strconv.FormatInt(t, 10)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return ""
	}
}

func asBool(v any, fallback bool) bool {
	if b, ok := v.(bool); ok {
		return b
	}
	return fallback
}
