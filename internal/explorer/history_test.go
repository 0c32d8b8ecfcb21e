package explorer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHistoryBackForwardRoundTrip(t *testing.T) {
	h := NewHistory(0)
	h.Visit("/a")
	h.Visit("/b")

	prev, ok := h.Back("/c")
	assert.True(t, ok)
	assert.Equal(t, "/b", prev)

	prev, ok = h.Back("/b")
	assert.True(t, ok)
	assert.Equal(t, "/a", prev)
	assert.False(t, h.CanGoBack())

	next, ok := h.Forward("/a")
	assert.True(t, ok)
	assert.Equal(t, "/b", next)
	next, ok = h.Forward("/b")
	assert.True(t, ok)
	assert.Equal(t, "/c", next)
	assert.False(t, h.CanGoForward())
}

func TestHistoryVisitClearsForward(t *testing.T) {
	h := NewHistory(0)
	h.Visit("/a")
	_, _ = h.Back("/b")
	assert.True(t, h.CanGoForward())

	h.Visit("/a")
	assert.False(t, h.CanGoForward())
}

func TestHistoryEmpty(t *testing.T) {
	h := NewHistory(0)
	_, ok := h.Back("/x")
	assert.False(t, ok)
	_, ok = h.Forward("/x")
	assert.False(t, ok)
}

func TestHistoryLimit(t *testing.T) {
	h := NewHistory(2)
	h.Visit("/1")
	h.Visit("/2")
	h.Visit("/3")

	p, _ := h.Back("/4")
	assert.Equal(t, "/3", p)
	p, _ = h.Back("/3")
	assert.Equal(t, "/2", p)
	assert.False(t, h.CanGoBack())
}
