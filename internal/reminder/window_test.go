package reminder

import (
	"testing"
	"time"

	"classreminder/internal/record"
)

func allWindows() record.Settings {
	return record.Settings{Remind24h: true, Remind3h: true, Remind1h: true}
}

func evalAt(t *testing.T, diffMinutes int, settings record.Settings) (Window, bool) {
	t.Helper()
	now := time.Date(2024, 6, 9, 10, 0, 0, 0, JST)
	start := now.Add(time.Duration(diffMinutes) * time.Minute)
	return MatchWindow(start, now, settings)
}

func TestMatchWindowBands(t *testing.T) {
	tests := []struct {
		name string
		diff int
		want Window
		due  bool
	}{
		{"below 24h band", 1424, WindowNone, false},
		{"24h lower edge", 1425, Window24h, true},
		{"24h nominal", 1440, Window24h, true},
		{"24h upper edge", 1455, Window24h, true},
		{"above 24h band", 1456, WindowNone, false},
		{"3h lower edge", 165, Window3h, true},
		{"3h nominal", 180, Window3h, true},
		{"3h upper edge", 195, Window3h, true},
		{"above 3h band", 196, WindowNone, false},
		{"1h lower edge", 45, Window1h, true},
		{"1h nominal", 60, Window1h, true},
		{"1h upper edge", 75, Window1h, true},
		{"below 1h band", 44, WindowNone, false},
		{"class started", -10, WindowNone, false},
		{"between 1h and 3h", 120, WindowNone, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, due := evalAt(t, tt.diff, allWindows())
			if due != tt.due || got != tt.want {
				t.Fatalf("diff %d: got (%v, %v), want (%v, %v)", tt.diff, got, due, tt.want, tt.due)
			}
		})
	}
}

func TestMatchWindowDisabled(t *testing.T) {
	settings := record.DefaultSettings() // 1h off
	if got, due := evalAt(t, 60, settings); due {
		t.Fatalf("1h disabled but matched %v", got)
	}
	// A disabled window must not fall through to another band.
	if got, due := evalAt(t, 45, settings); due {
		t.Fatalf("1h disabled but matched %v at band edge", got)
	}
	if got, due := evalAt(t, 180, settings); !due || got != Window3h {
		t.Fatalf("3h enabled, got (%v, %v)", got, due)
	}
}

func TestWindowsMutuallyExclusive(t *testing.T) {
	// Under default offsets and tolerances no diff can sit inside two bands.
	for diff := -120; diff <= 1600; diff++ {
		matches := 0
		for _, w := range []Window{Window24h, Window3h, Window1h} {
			offset := w.offsetMinutes()
			if diff >= offset-toleranceMinutes && diff <= offset+toleranceMinutes {
				matches++
			}
		}
		if matches > 1 {
			t.Fatalf("diff %d matched %d windows", diff, matches)
		}
	}
}

func TestDiffMinutesFloors(t *testing.T) {
	now := time.Date(2024, 6, 9, 10, 0, 0, 0, JST)
	start := now.Add(90*time.Second + 500*time.Millisecond)
	if got := DiffMinutes(start, now); got != 1 {
		t.Fatalf("got %d, want 1", got)
	}
	past := now.Add(-30 * time.Second)
	if got := DiffMinutes(past, now); got != -1 {
		t.Fatalf("got %d, want -1 (floor, not truncation)", got)
	}
}

func TestMatchWindowPure(t *testing.T) {
	now := time.Date(2024, 6, 9, 10, 5, 0, 0, JST)
	start := time.Date(2024, 6, 10, 10, 0, 0, 0, JST)
	w1, d1 := MatchWindow(start, now, allWindows())
	w2, d2 := MatchWindow(start, now, allWindows())
	if w1 != w2 || d1 != d2 {
		t.Fatalf("identical inputs gave different results: (%v,%v) vs (%v,%v)", w1, d1, w2, d2)
	}
	if w1 != Window24h || !d1 {
		t.Fatalf("got (%v, %v), want (Window24h, true)", w1, d1)
	}
}
