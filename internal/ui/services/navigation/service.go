package navigation

// reservedRows are taken by the header, status bar and help line
const reservedRows = 6

// Service handles cursor and viewport movement over a list
type Service struct {
	state   *State
	queryFn func() int // Function to get the number of rows
}

// NewService creates a new navigation service
func NewService() *Service {
	return &Service{
		state: &State{
			ViewportHeight: 20, // Default, will be updated
			MaxIndex:       -1,
		},
	}
}

// SetQueryFunction sets the function returning the number of rows
func (s *Service) SetQueryFunction(fn func() int) {
	s.queryFn = fn
}

// GetCursor returns current cursor position
func (s *Service) GetCursor() int {
	return s.state.Cursor
}

// GetViewportOffset returns current viewport offset
func (s *Service) GetViewportOffset() int {
	return s.state.ViewportOffset
}

// GetViewportHeight returns current viewport height
func (s *Service) GetViewportHeight() int {
	return s.state.ViewportHeight
}

// SetViewportHeight updates viewport height from the terminal height
func (s *Service) SetViewportHeight(height int) {
	effectiveHeight := height - reservedRows
	if effectiveHeight < 1 {
		effectiveHeight = 1
	}
	s.state.ViewportHeight = effectiveHeight
	s.ensureVisible()
}

// Navigate handles navigation in a direction
func (s *Service) Navigate(direction Direction) {
	s.refreshMax()

	switch direction {
	case DirectionUp:
		if s.state.Cursor > 0 {
			s.state.Cursor--
		}
	case DirectionDown:
		if s.state.Cursor < s.state.MaxIndex {
			s.state.Cursor++
		}
	case DirectionPageUp:
		s.state.Cursor = s.clampIndex(s.state.Cursor - s.pageSize())
	case DirectionPageDown:
		s.state.Cursor = s.clampIndex(s.state.Cursor + s.pageSize())
	case DirectionHome:
		s.state.Cursor = 0
		s.state.ViewportOffset = 0
	case DirectionEnd:
		s.state.Cursor = s.clampIndex(s.state.MaxIndex)
	}
	s.ensureVisible()
}

// MoveToIndex moves cursor to specific index
func (s *Service) MoveToIndex(index int) {
	s.refreshMax()
	s.state.Cursor = s.clampIndex(index)
	s.ensureVisible()
}

// Reset puts the cursor back on the first row
func (s *Service) Reset() {
	s.state.Cursor = 0
	s.state.ViewportOffset = 0
	s.refreshMax()
}

// Clamp keeps the cursor valid after the list changed size
func (s *Service) Clamp() {
	s.refreshMax()
	s.state.Cursor = s.clampIndex(s.state.Cursor)
	s.ensureVisible()
}

func (s *Service) refreshMax() {
	if s.queryFn != nil {
		s.state.MaxIndex = s.queryFn() - 1
	}
}

func (s *Service) pageSize() int {
	if s.state.ViewportHeight > 1 {
		return s.state.ViewportHeight - 1
	}
	return 1
}

func (s *Service) clampIndex(index int) int {
	if index > s.state.MaxIndex {
		index = s.state.MaxIndex
	}
	if index < 0 {
		return 0
	}
	return index
}

func (s *Service) ensureVisible() {
	if s.state.Cursor < s.state.ViewportOffset {
		s.state.ViewportOffset = s.state.Cursor
	} else if s.state.Cursor >= s.state.ViewportOffset+s.state.ViewportHeight {
		s.state.ViewportOffset = s.state.Cursor - s.state.ViewportHeight + 1
	}
	if s.state.ViewportOffset < 0 {
		s.state.ViewportOffset = 0
	}
}
