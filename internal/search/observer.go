package search

import (
	"context"
	"time"

	"fastexplorer/internal/domain"
	"fastexplorer/internal/eventbus"
)

// BusObserver forwards controller notifications onto an event bus
type BusObserver struct {
	bus eventbus.EventBus
}

// NewBusObserver creates an observer publishing to bus
func NewBusObserver(bus eventbus.EventBus) *BusObserver {
	return &BusObserver{bus: bus}
}

func (o *BusObserver) OnSearchStarted(id domain.RunID, req domain.SearchRequest) {
	o.bus.Publish(eventbus.SearchStartedEvent{RunID: id, Request: req})
}

func (o *BusObserver) OnProgress(id domain.RunID, counters domain.ProgressCounters, elapsed time.Duration) {
	o.bus.Publish(eventbus.SearchProgressEvent{RunID: id, Counters: counters, Elapsed: elapsed})
}

func (o *BusObserver) OnResultsUpdated(id domain.RunID, results []string) {
	o.bus.Publish(eventbus.SearchResultsUpdatedEvent{RunID: id, Results: results})
}

func (o *BusObserver) OnSearchComplete(s Summary) {
	o.bus.Publish(eventbus.SearchCompletedEvent{
		RunID:    s.RunID,
		Request:  s.Request,
		Counters: s.Counters,
		Results:  s.Results,
		Reason:   s.Reason,
		Elapsed:  s.Elapsed,
	})
}

// BusPrompt returns a PromptFunc that publishes a SearchTimeoutEvent and
// waits for the reply. A run that ends while the question is pending is
// treated as declined.
func BusPrompt(bus eventbus.EventBus) PromptFunc {
	return func(ctx context.Context, id domain.RunID, req domain.SearchRequest, elapsed time.Duration) bool {
		reply := make(chan bool, 1)
		bus.Publish(eventbus.SearchTimeoutEvent{RunID: id, Request: req, Elapsed: elapsed, Reply: reply})
		select {
		case answer := <-reply:
			return answer
		case <-ctx.Done():
			return false
		}
	}
}
