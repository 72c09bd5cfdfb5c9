package engine

import (
	"sync"
	"time"
)

// HistorySize is the number of load points the dashboard keeps. The
// chart never needs more than one screenful, so the window is fixed.
const HistorySize = 20

// LoadPoint is one headline-metric sample on the rolling chart.
type LoadPoint struct {
	Time time.Time
	Load float64
}

// History is a fixed-capacity ring buffer of load points. When full,
// a push evicts the oldest point. Safe for concurrent use.
type History struct {
	mu   sync.Mutex
	buf  []LoadPoint
	head int
	size int
	cap  int
}

func NewHistory(capacity int) *History {
	if capacity <= 0 {
		capacity = HistorySize
	}
	return &History{
		buf: make([]LoadPoint, capacity),
		cap: capacity,
	}
}

// Push appends a point, evicting the oldest when the buffer is full.
func (h *History) Push(p LoadPoint) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.buf[h.head] = p
	h.head = (h.head + 1) % h.cap
	if h.size < h.cap {
		h.size++
	}
}

// Len reports how many points are currently stored.
func (h *History) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.size
}

// Points returns the stored points oldest first.
func (h *History) Points() []LoadPoint {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]LoadPoint, h.size)
	for i := 0; i < h.size; i++ {
		out[i] = h.buf[(h.head-h.size+i+h.cap)%h.cap]
	}
	return out
}

// Values returns just the load values oldest first, for charting.
func (h *History) Values() []float64 {
	pts := h.Points()
	out := make([]float64, len(pts))
	for i, p := range pts {
		out[i] = p.Load
	}
	return out
}
