package explorer

// History keeps the back and forward stacks of a browsing session.
// The most recent entry sits at the end of each slice.
type History struct {
	back    []string
	forward []string
	limit   int
}

// NewHistory creates a history holding at most limit entries per direction.
// limit <= 0 means unbounded.
func NewHistory(limit int) *History {
	return &History{limit: limit}
}

// Visit records that the session is leaving from for a new location
func (h *History) Visit(from string) {
	h.back = h.push(h.back, from)
	h.forward = nil
}

// Back returns the previous location and moves current onto the forward stack
func (h *History) Back(current string) (string, bool) {
	if len(h.back) == 0 {
		return "", false
	}
	prev := h.back[len(h.back)-1]
	h.back = h.back[:len(h.back)-1]
	h.forward = h.push(h.forward, current)
	return prev, true
}

// Forward returns the next location and moves current onto the back stack
func (h *History) Forward(current string) (string, bool) {
	if len(h.forward) == 0 {
		return "", false
	}
	next := h.forward[len(h.forward)-1]
	h.forward = h.forward[:len(h.forward)-1]
	h.back = h.push(h.back, current)
	return next, true
}

func (h *History) CanGoBack() bool    { return len(h.back) > 0 }
func (h *History) CanGoForward() bool { return len(h.forward) > 0 }

func (h *History) push(stack []string, p string) []string {
	stack = append(stack, p)
	if h.limit > 0 && len(stack) > h.limit {
		stack = stack[len(stack)-h.limit:]
	}
	return stack
}
