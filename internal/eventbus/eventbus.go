package eventbus

import (
	"log/slog"
	"runtime/debug"
	"sync"

	"fastexplorer/internal/domain"
	"fastexplorer/internal/logging"
)

var busLog = logging.ForComponent(logging.CompBus)

// Re-export domain types for convenience
type DomainEvent = domain.DomainEvent
type EventType = domain.EventType

// Event type constants
const (
	EventSearchStarted        = domain.EventSearchStarted
	EventSearchProgress       = domain.EventSearchProgress
	EventSearchResultsUpdated = domain.EventSearchResultsUpdated
	EventSearchCompleted      = domain.EventSearchCompleted
	EventSearchTimeout        = domain.EventSearchTimeout
	EventDirectoryLoaded      = domain.EventDirectoryLoaded
	EventDirectoryChanged     = domain.EventDirectoryChanged
	EventError                = domain.EventError
	EventConfigLoaded         = domain.EventConfigLoaded
	EventConfigSaved          = domain.EventConfigSaved
)

// Re-export domain event types
type SearchStartedEvent = domain.SearchStartedEvent
type SearchProgressEvent = domain.SearchProgressEvent
type SearchResultsUpdatedEvent = domain.SearchResultsUpdatedEvent
type SearchCompletedEvent = domain.SearchCompletedEvent
type SearchTimeoutEvent = domain.SearchTimeoutEvent
type DirectoryLoadedEvent = domain.DirectoryLoadedEvent
type DirectoryChangedEvent = domain.DirectoryChangedEvent
type ErrorEvent = domain.ErrorEvent
type ConfigLoadedEvent = domain.ConfigLoadedEvent
type ConfigSavedEvent = domain.ConfigSavedEvent

// EventHandler is a function that handles domain events
type EventHandler func(DomainEvent)

// EventBus is the interface for the event bus
type EventBus interface {
	Publish(event DomainEvent)
	Subscribe(eventType EventType, handler EventHandler) func()
	Close()
}

type subscription struct {
	id      uint64
	handler EventHandler
}

// bus is the concrete implementation of EventBus.
// Events are delivered on a single dispatcher goroutine in publish order.
type bus struct {
	mu        sync.RWMutex
	handlers  map[EventType][]subscription
	nextID    uint64
	eventChan chan DomainEvent
	wg        sync.WaitGroup
	quit      chan struct{}
	closeOnce sync.Once
}

// New creates a new event bus
func New() EventBus {
	return NewWithBuffer(1000)
}

// NewWithBuffer creates an event bus whose queue holds size pending events
func NewWithBuffer(size int) EventBus {
	if size < 1 {
		size = 1
	}
	b := &bus{
		handlers:  make(map[EventType][]subscription),
		eventChan: make(chan DomainEvent, size),
		quit:      make(chan struct{}),
	}

	b.wg.Add(1)
	go b.dispatch()

	return b
}

// Publish queues an event for all subscribers. It never blocks; when the
// queue is full the event is dropped, except for completion and timeout events
// which wait for room so the UI never misses the end of a run.
func (b *bus) Publish(event DomainEvent) {
	switch event.Type() {
	case EventSearchProgress, EventSearchResultsUpdated:
		// too frequent to log
	default:
		busLog.Debug("publish", slog.String("event", string(event.Type())))
	}

	select {
	case <-b.quit:
		return
	default:
	}

	switch event.Type() {
	case EventSearchCompleted, EventSearchTimeout:
		select {
		case b.eventChan <- event:
		case <-b.quit:
		}
		return
	}

	select {
	case b.eventChan <- event:
	default:
		busLog.Warn("queue_full_dropping_event", slog.String("event", string(event.Type())))
	}
}

// Subscribe subscribes to events of a specific type.
// Returns an unsubscribe function.
func (b *bus) Subscribe(eventType EventType, handler EventHandler) func() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	id := b.nextID
	b.handlers[eventType] = append(b.handlers[eventType], subscription{id: id, handler: handler})

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()

		subs := b.handlers[eventType]
		for i, s := range subs {
			if s.id == id {
				b.handlers[eventType] = append(subs[:i:i], subs[i+1:]...)
				break
			}
		}
	}
}

// Close stops the dispatcher. Pending events are discarded.
func (b *bus) Close() {
	b.closeOnce.Do(func() {
		close(b.quit)
	})
	b.wg.Wait()
}

func (b *bus) dispatch() {
	defer b.wg.Done()

	for {
		select {
		case event := <-b.eventChan:
			b.mu.RLock()
			subs := make([]subscription, len(b.handlers[event.Type()]))
			copy(subs, b.handlers[event.Type()])
			b.mu.RUnlock()

			for _, s := range subs {
				b.call(s.handler, event)
			}

		case <-b.quit:
			for {
				select {
				case <-b.eventChan:
				default:
					return
				}
			}
		}
	}
}

func (b *bus) call(h EventHandler, event DomainEvent) {
	defer func() {
		if r := recover(); r != nil {
			busLog.Error("handler_panic",
				slog.String("event", string(event.Type())),
				slog.Any("panic", r),
				slog.String("stack", string(debug.Stack())))
		}
	}()
	h(event)
}
