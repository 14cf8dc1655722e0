package conversion

import "sync"

// HistoryCap bounds the conversion history log
const HistoryCap = 100

// History is a bounded, mutex-guarded log of recent conversions. It is
// display-only; dropping old entries has no invariant beyond the cap.
type History struct {
	mu      sync.Mutex
	entries []*Result
	cap     int
}

// NewHistory creates a history log holding at most cap entries
func NewHistory(cap int) *History {
	return &History{cap: cap}
}

// Add records a result, evicting the oldest entry past the cap
func (h *History) Add(r *Result) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.entries = append(h.entries, r)
	if len(h.entries) > h.cap {
		h.entries = h.entries[len(h.entries)-h.cap:]
	}
}

// List returns the recorded results, most recent first
func (h *History) List() []*Result {
	h.mu.Lock()
	defer h.mu.Unlock()

	out := make([]*Result, len(h.entries))
	for i, r := range h.entries {
		out[len(h.entries)-1-i] = r
	}
	return out
}

// Len returns the number of recorded results
func (h *History) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.entries)
}
