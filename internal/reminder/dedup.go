package reminder

import "context"

// Deduper remembers which (schedule, window) pairs have already been
// notified, so overlapping scheduler invocations cannot double-send.
type Deduper interface {
	// MarkIfNew atomically records the pair and reports whether it was new.
	MarkIfNew(ctx context.Context, scheduleID string, w Window) (bool, error)
	// Unmark releases the pair after a failed send so a later invocation
	// inside the same tolerance band can retry.
	Unmark(ctx context.Context, scheduleID string, w Window) error
}

// NoopDeduper never suppresses a send. It preserves the original stateless
// behavior and is what tests use.
type NoopDeduper struct{}

// MarkIfNew always reports the pair as new.
func (NoopDeduper) MarkIfNew(ctx context.Context, scheduleID string, w Window) (bool, error) {
	return true, nil
}

// Unmark has nothing to release.
func (NoopDeduper) Unmark(ctx context.Context, scheduleID string, w Window) error {
	return nil
}
