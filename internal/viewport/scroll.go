package viewport

import "sync"

// Scroll is the scroll offset of a viewport without a widget behind it, as
// used by the headless server.
type Scroll struct {
	mu   sync.Mutex
	x, y float64
}

func (s *Scroll) ScrollOffset() (float64, float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.x, s.y
}

// ScrollTo moves the viewport; offsets never go negative.
func (s *Scroll) ScrollTo(x, y float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.x = max(0, x)
	s.y = max(0, y)
}
