package navigation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func newList(rows int, height int) *Service {
	s := NewService()
	s.SetQueryFunction(func() int { return rows })
	s.SetViewportHeight(height + reservedRows)
	s.Reset()
	return s
}

func TestCursorStaysInBounds(t *testing.T) {
	s := newList(3, 10)

	s.Navigate(DirectionUp)
	assert.Equal(t, 0, s.GetCursor())

	s.Navigate(DirectionDown)
	s.Navigate(DirectionDown)
	s.Navigate(DirectionDown)
	assert.Equal(t, 2, s.GetCursor())

	s.Navigate(DirectionHome)
	assert.Equal(t, 0, s.GetCursor())
	s.Navigate(DirectionEnd)
	assert.Equal(t, 2, s.GetCursor())
}

func TestEmptyList(t *testing.T) {
	s := newList(0, 10)
	s.Navigate(DirectionDown)
	s.Navigate(DirectionEnd)
	s.Navigate(DirectionPageDown)
	assert.Equal(t, 0, s.GetCursor())
	assert.Equal(t, 0, s.GetViewportOffset())
}

func TestViewportFollowsCursor(t *testing.T) {
	s := newList(100, 10)

	s.Navigate(DirectionPageDown)
	assert.Equal(t, 9, s.GetCursor())
	assert.Equal(t, 0, s.GetViewportOffset())

	s.Navigate(DirectionDown)
	assert.Equal(t, 10, s.GetCursor())
	assert.Equal(t, 1, s.GetViewportOffset())

	s.Navigate(DirectionEnd)
	assert.Equal(t, 99, s.GetCursor())
	assert.Equal(t, 90, s.GetViewportOffset())

	s.Navigate(DirectionPageUp)
	assert.Equal(t, 90, s.GetCursor())
	assert.Equal(t, 90, s.GetViewportOffset())

	s.MoveToIndex(5)
	assert.Equal(t, 5, s.GetViewportOffset())
}

func TestClampAfterShrink(t *testing.T) {
	rows := 50
	s := NewService()
	s.SetQueryFunction(func() int { return rows })
	s.SetViewportHeight(16)
	s.MoveToIndex(40)

	rows = 5
	s.Clamp()
	assert.Equal(t, 4, s.GetCursor())
	assert.LessOrEqual(t, s.GetViewportOffset(), 4)
}
