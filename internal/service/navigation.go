package service

import "sync"

// NavigationHistory tracks the focus ids visited during one tree-browsing
// session as an explicit stack. The root entry is the viewer's own member id
// and can never be popped.
type NavigationHistory struct {
	rootID string
	stack  []string
}

func NewNavigationHistory(rootID string) *NavigationHistory {
	return &NavigationHistory{
		rootID: rootID,
		stack:  []string{rootID},
	}
}

// Current returns the focus id at the top of the stack
func (h *NavigationHistory) Current() string {
	return h.stack[len(h.stack)-1]
}

// NavigateTo pushes id unless it equals the current top (repeated navigation
// to the same node is a no-op)
func (h *NavigationHistory) NavigateTo(id string) {
	if h.Current() == id {
		return
	}
	h.stack = append(h.stack, id)
}

// GoBack pops the top entry and returns the new focus id. Going back past the
// root is a no-op.
func (h *NavigationHistory) GoBack() string {
	if len(h.stack) > 1 {
		h.stack = h.stack[:len(h.stack)-1]
	}
	return h.Current()
}

// GoToRoot replaces the entire stack with the root entry
func (h *NavigationHistory) GoToRoot() string {
	h.stack = []string{h.rootID}
	return h.rootID
}

// Depth returns the number of entries on the stack
func (h *NavigationHistory) Depth() int {
	return len(h.stack)
}

// NavigationSessions hands out the per-viewer navigation history. Each
// history itself is only ever touched by that viewer's requests; the map is
// guarded because sessions for different viewers come and go concurrently.
type NavigationSessions struct {
	mu       sync.Mutex
	byViewer map[string]*NavigationHistory
}

func NewNavigationSessions() *NavigationSessions {
	return &NavigationSessions{
		byViewer: make(map[string]*NavigationHistory),
	}
}

// Get returns the viewer's history, creating one rooted at the viewer's own
// id on first use
func (s *NavigationSessions) Get(viewerID string) *NavigationHistory {
	s.mu.Lock()
	defer s.mu.Unlock()

	history, ok := s.byViewer[viewerID]
	if !ok {
		history = NewNavigationHistory(viewerID)
		s.byViewer[viewerID] = history
	}
	return history
}

// Reset discards the viewer's history (e.g. on logout)
func (s *NavigationSessions) Reset(viewerID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.byViewer, viewerID)
}
