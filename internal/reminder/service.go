package reminder

import (
	"context"
	"log"
	"time"

	"classreminder/internal/datasource"
	"classreminder/internal/linepush"
	"classreminder/internal/metrics"
	"classreminder/internal/queue"
)

// Outcome results.
const (
	ResultSuccess   = "success"
	ResultFailed    = "failed"
	ResultDuplicate = "duplicate"
)

// Source provides one invocation's records.
type Source interface {
	Fetch(ctx context.Context) (datasource.Snapshot, error)
}

// Channel pushes a text message to a recipient identifier.
type Channel interface {
	Push(ctx context.Context, to, text string) (linepush.Result, error)
}

// Outcome records what happened to one due schedule.
type Outcome struct {
	Student string `json:"student"`
	Window  string `json:"window"`
	Status  int    `json:"status"`
	Result  string `json:"result"`
}

// Summary is the result of one reminder cycle.
type Summary struct {
	Sent         []Outcome `json:"sent"`
	SkippedCount int       `json:"skippedCount"`
	CheckedAt    time.Time `json:"checkedAt"`
}

// SentCount counts outcomes the channel accepted.
func (s Summary) SentCount() int {
	n := 0
	for _, o := range s.Sent {
		if o.Result == ResultSuccess {
			n++
		}
	}
	return n
}

// Service runs reminder cycles and ad-hoc broadcasts.
type Service struct {
	src   Source
	ch    Channel
	dedup Deduper
	queue queue.Queue
	now   func() time.Time
}

// NewService wires the coordinator. queue may be nil when no send log is
// wanted; dedup may be nil to disable idempotency.
func NewService(src Source, ch Channel, dedup Deduper, q queue.Queue) *Service {
	if dedup == nil {
		dedup = NoopDeduper{}
	}
	return &Service{src: src, ch: ch, dedup: dedup, queue: q, now: time.Now}
}

// WithClock overrides the clock, for tests.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// RunCycle evaluates every schedule against the reminder windows and pushes
// the due ones. A data source failure yields an empty cycle, not an error;
// an individual send failure is recorded and never stops the loop.
func (s *Service) RunCycle(ctx context.Context) Summary {
	metrics.Cycles.Inc()

	snap, err := s.src.Fetch(ctx)
	if err != nil {
		log.Printf("data source fetch failed, running empty cycle: %v", err)
		metrics.DataSourceFailures.Inc()
	}

	now := s.now().In(JST)
	summary := Summary{Sent: []Outcome{}, CheckedAt: now}

	recipients := make(map[string]string, len(snap.Students))
	for _, st := range snap.Students {
		if _, ok := recipients[st.Name]; !ok {
			recipients[st.Name] = st.LineID
		}
	}

	for _, sched := range snap.Schedules {
		if !sched.Complete() || !sched.Eligible() {
			continue
		}

		start, err := sched.StartAt(JST)
		if err != nil {
			log.Printf("schedule %s: unparseable date/time %q %q: %v", sched.ID, sched.Date, sched.Time, err)
			continue
		}

		w, due := MatchWindow(start, now, snap.Settings)
		if !due {
			summary.SkippedCount++
			metrics.Skipped.Inc()
			log.Printf("skip %s: %d minutes to class, no window due", sched.Student, DiffMinutes(start, now))
			continue
		}

		to, ok := recipients[sched.Student]
		if !ok || to == "" {
			log.Printf("skip %s: no recipient id registered", sched.Student)
			continue
		}

		fresh, err := s.dedup.MarkIfNew(ctx, sched.ID, w)
		if err != nil {
			log.Printf("dedup unavailable for %s, sending anyway: %v", sched.ID, err)
			fresh = true
		}
		if !fresh {
			summary.Sent = append(summary.Sent, Outcome{Student: sched.Student, Window: w.Label(), Result: ResultDuplicate})
			continue
		}

		text := Banner(w, Render(TemplateFor(w, snap.Settings), sched))
		outcome := Outcome{Student: sched.Student, Window: w.Label()}
		res, err := s.ch.Push(ctx, to, text)
		switch {
		case err != nil:
			log.Printf("push to %s failed: %v", sched.Student, err)
			outcome.Result = ResultFailed
			metrics.SendFailures.Inc()
		case res.OK():
			outcome.Status = res.Status
			outcome.Result = ResultSuccess
			metrics.Sent.Inc()
		default:
			log.Printf("push to %s rejected: %d %s", sched.Student, res.Status, res.Body)
			outcome.Status = res.Status
			outcome.Result = ResultFailed
			metrics.SendFailures.Inc()
		}
		summary.Sent = append(summary.Sent, outcome)

		// A marker must not survive a failed send, or the retry in the next
		// invocation would be suppressed as a duplicate.
		if outcome.Result == ResultFailed {
			if err := s.dedup.Unmark(ctx, sched.ID, w); err != nil {
				log.Printf("dedup unmark for %s failed: %v", sched.ID, err)
			}
		}

		s.publish(ctx, SentEvent{
			ScheduleID: sched.ID,
			Student:    sched.Student,
			Window:     w.Label(),
			Status:     outcome.Status,
			Result:     outcome.Result,
			Message:    text,
			SentAt:     now,
		})
	}

	return summary
}

func (s *Service) publish(ctx context.Context, evt SentEvent) {
	if s.queue == nil {
		return
	}
	body, err := evt.Marshal()
	if err != nil {
		log.Printf("encode sent event failed: %v", err)
		return
	}
	if err := s.queue.Publish(ctx, queue.Message{Type: queue.TypeNotification, Body: body}); err != nil {
		log.Printf("queue publish failed: %v", err)
	}
}
