package reminder

import (
	"math"
	"time"

	"classreminder/internal/record"
)

// JST is the fixed civil zone class times are interpreted in, independent of
// the host zone.
var JST = time.FixedZone("JST", 9*60*60)

// Window is one of the fixed lead-time categories before a class.
type Window int

const (
	WindowNone Window = iota
	Window24h
	Window3h
	Window1h
)

// toleranceMinutes is the band around each nominal offset within which a
// reminder counts as due.
const toleranceMinutes = 15

// offsetMinutes returns the window's nominal lead time before class start.
func (w Window) offsetMinutes() int {
	switch w {
	case Window24h:
		return 1440
	case Window3h:
		return 180
	case Window1h:
		return 60
	default:
		return 0
	}
}

// Label returns the human-readable window name used in banners and outcomes.
func (w Window) Label() string {
	switch w {
	case Window24h:
		return "24-hour"
	case Window3h:
		return "3-hour"
	case Window1h:
		return "1-hour"
	default:
		return "none"
	}
}

// DiffMinutes returns floor((start - now) in minutes).
func DiffMinutes(start, now time.Time) int {
	return int(math.Floor(start.Sub(now).Minutes()))
}

// MatchWindow reports which window, if any, is due for a class starting at
// start when evaluated at now. Windows are checked 24h, 3h, 1h; the first
// enabled window whose band contains the diff wins. Pure: no I/O, no clock.
func MatchWindow(start, now time.Time, settings record.Settings) (Window, bool) {
	diff := DiffMinutes(start, now)
	for _, w := range []Window{Window24h, Window3h, Window1h} {
		if !enabled(w, settings) {
			continue
		}
		offset := w.offsetMinutes()
		if diff >= offset-toleranceMinutes && diff <= offset+toleranceMinutes {
			return w, true
		}
	}
	return WindowNone, false
}

func enabled(w Window, settings record.Settings) bool {
	switch w {
	case Window24h:
		return settings.Remind24h
	case Window3h:
		return settings.Remind3h
	case Window1h:
		return settings.Remind1h
	default:
		return false
	}
}
