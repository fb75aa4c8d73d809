package core

import "github.com/dkeye/Lobby/internal/domain"

const DefaultHistoryCapacity = 50

// History is a fixed-capacity FIFO of chat messages.
// Not safe for concurrent use; the owning room guards it.
type History struct {
	buf   []domain.Message
	start int
	n     int
}

func NewHistory(capacity int) *History {
	if capacity <= 0 {
		capacity = DefaultHistoryCapacity
	}
	return &History{buf: make([]domain.Message, capacity)}
}

func (h *History) Cap() int { return len(h.buf) }
func (h *History) Len() int { return h.n }

// Append stores m and reports whether the oldest entry was evicted to make room.
func (h *History) Append(m domain.Message) (evicted bool) {
	if h.n < len(h.buf) {
		h.buf[(h.start+h.n)%len(h.buf)] = m
		h.n++
		return false
	}
	h.buf[h.start] = m
	h.start = (h.start + 1) % len(h.buf)
	return true
}

// Snapshot returns a copy in append order, oldest first.
func (h *History) Snapshot() []domain.Message {
	out := make([]domain.Message, h.n)
	for i := 0; i < h.n; i++ {
		out[i] = h.buf[(h.start+i)%len(h.buf)]
	}
	return out
}
