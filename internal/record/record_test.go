package record

import (
	"testing"
	"time"
)

var jst = time.FixedZone("JST", 9*60*60)

func TestStartAtLayouts(t *testing.T) {
	tests := []struct {
		date, tod string
	}{
		{"2024-06-10", "10:00"},
		{"2024-06-10", "10:00:00"},
		{"2024/6/10", "10:00"},
	}
	want := time.Date(2024, 6, 10, 10, 0, 0, 0, jst)
	for _, tt := range tests {
		s := Schedule{Date: tt.date, Time: tt.tod}
		got, err := s.StartAt(jst)
		if err != nil {
			t.Fatalf("%s %s: %v", tt.date, tt.tod, err)
		}
		if !got.Equal(want) {
			t.Fatalf("%s %s: got %v, want %v", tt.date, tt.tod, got, want)
		}
	}

	if _, err := (Schedule{Date: "tomorrow", Time: "10:00"}).StartAt(jst); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestCompleteAndEligible(t *testing.T) {
	full := Schedule{Student: "田中", Date: "2024-06-10", Time: "10:00"}
	if !full.Complete() {
		t.Fatal("complete schedule reported incomplete")
	}
	for _, s := range []Schedule{
		{Date: "2024-06-10", Time: "10:00"},
		{Student: "田中", Time: "10:00"},
		{Student: "田中", Date: "2024-06-10"},
	} {
		if s.Complete() {
			t.Fatalf("incomplete schedule reported complete: %+v", s)
		}
	}

	if !(Schedule{Attendance: AttendancePending}).Eligible() {
		t.Fatal("pending should be eligible")
	}
	if !(Schedule{}).Eligible() {
		t.Fatal("unset attendance should be eligible")
	}
	if (Schedule{Attendance: AttendanceCompleted}).Eligible() {
		t.Fatal("completed should not be eligible")
	}
	if (Schedule{Attendance: AttendanceAbsent}).Eligible() {
		t.Fatal("absent should not be eligible")
	}
}

func TestSettingsFromFieldsDefaults(t *testing.T) {
	s := SettingsFromFields(map[string]any{})
	def := DefaultSettings()
	if s.Remind24h != def.Remind24h || s.Remind3h != def.Remind3h || s.Remind1h != def.Remind1h {
		t.Fatalf("got %+v, want defaults %+v", s, def)
	}
	if s.Template != DefaultTemplate {
		t.Fatalf("template %q", s.Template)
	}
}

func TestSettingsFromFieldsOverrides(t *testing.T) {
	s := SettingsFromFields(map[string]any{
		"remind_24h":  false,
		"remind_1h":   true,
		"template":    "shared {name}",
		"template_1h": "soon {name}",
	})
	if s.Remind24h || !s.Remind3h || !s.Remind1h {
		t.Fatalf("flags %+v", s)
	}
	if s.Template != "shared {name}" || s.Template1h != "soon {name}" {
		t.Fatalf("templates %+v", s)
	}
}

func TestScheduleFromFieldsIgnoresNonStrings(t *testing.T) {
	s := ScheduleFromFields("doc1", map[string]any{
		"student_name": "田中",
		"date":         nil,
		"time":         "10:00",
	})
	if s.ID != "doc1" || s.Student != "田中" || s.Date != "" || s.Time != "10:00" {
		t.Fatalf("got %+v", s)
	}
	if s.Complete() {
		t.Fatal("nil date must leave the schedule incomplete")
	}
}
