package reminder

import (
	"context"
	"log"
	"sync"
)

// broadcastWorkers bounds the fan-out to the push channel.
const broadcastWorkers = 4

// BroadcastOutcome records the result for one recipient of an ad-hoc
// broadcast.
type BroadcastOutcome struct {
	To     string `json:"to"`
	Result string `json:"result"`
	Status int    `json:"status"`
}

// Broadcast pushes a literal message to each recipient with bounded
// concurrency. The result slice has exactly one entry per input id, in input
// order; one recipient failing never affects the others.
func (s *Service) Broadcast(ctx context.Context, to []string, message string) []BroadcastOutcome {
	outcomes := make([]BroadcastOutcome, len(to))
	sem := make(chan struct{}, broadcastWorkers)

	var wg sync.WaitGroup
	for i, id := range to {
		wg.Add(1)
		sem <- struct{}{}
		go func(i int, id string) {
			defer wg.Done()
			defer func() { <-sem }()

			outcome := BroadcastOutcome{To: id}
			res, err := s.ch.Push(ctx, id, message)
			switch {
			case err != nil:
				log.Printf("broadcast to %s failed: %v", id, err)
				outcome.Result = "error"
			case res.OK():
				outcome.Status = res.Status
				outcome.Result = ResultSuccess
			default:
				log.Printf("broadcast to %s rejected: %d %s", id, res.Status, res.Body)
				outcome.Status = res.Status
				outcome.Result = "error"
			}
			outcomes[i] = outcome
		}(i, id)
	}
	wg.Wait()

	return outcomes
}
