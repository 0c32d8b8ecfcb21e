package eventbus

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fastexplorer/internal/domain"
)

func TestPublishDeliversInOrder(t *testing.T) {
	b := New()
	defer b.Close()

	var mu sync.Mutex
	var got []int64
	b.Subscribe(EventSearchProgress, func(e DomainEvent) {
		ev := e.(SearchProgressEvent)
		mu.Lock()
		got = append(got, ev.Counters.FilesSearched)
		mu.Unlock()
	})

	for i := int64(1); i <= 50; i++ {
		b.Publish(SearchProgressEvent{Counters: domain.ProgressCounters{FilesSearched: i}})
	}

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(got) == 50
	}, time.Second, 5*time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	for i, v := range got {
		assert.Equal(t, int64(i+1), v)
	}
}

func TestUnsubscribeStopsDelivery(t *testing.T) {
	b := New()
	defer b.Close()

	var mu sync.Mutex
	first, second := 0, 0
	unsub := b.Subscribe(EventDirectoryChanged, func(DomainEvent) {
		mu.Lock()
		first++
		mu.Unlock()
	})
	b.Subscribe(EventDirectoryChanged, func(DomainEvent) {
		mu.Lock()
		second++
		mu.Unlock()
	})

	b.Publish(DirectoryChangedEvent{Path: "/a"})
	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return first == 1 && second == 1
	}, time.Second, 5*time.Millisecond)

	unsub()
	b.Publish(DirectoryChangedEvent{Path: "/a"})
	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return second == 2
	}, time.Second, 5*time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 1, first)
}

func TestHandlerPanicDoesNotStopBus(t *testing.T) {
	b := New()
	defer b.Close()

	done := make(chan struct{})
	b.Subscribe(EventError, func(DomainEvent) { panic("boom") })
	b.Subscribe(EventError, func(DomainEvent) { close(done) })

	b.Publish(ErrorEvent{Message: "x"})

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("second handler was not called after first panicked")
	}
}

func TestPublishAfterCloseIsNoop(t *testing.T) {
	b := New()
	b.Close()
	b.Close()

	assert.NotPanics(t, func() {
		b.Publish(SearchCompletedEvent{})
		b.Publish(ErrorEvent{})
	})
}

func TestFullQueueDropsFrequentEvents(t *testing.T) {
	b := NewWithBuffer(1)
	defer b.Close()

	block := make(chan struct{})
	b.Subscribe(EventSearchProgress, func(DomainEvent) { <-block })

	assert.NotPanics(t, func() {
		for i := 0; i < 100; i++ {
			b.Publish(SearchProgressEvent{})
		}
	})
	close(block)
}
