package howling

import (
	"github.com/RyanBlaney/howl-sonar/algorithms/common"
)

// History is the fixed-capacity FIFO of linear-amplitude frames the sparsity
// scorer reads. It owns copies of every pushed frame.
type History struct {
	ring *common.FrameRing
}

// NewHistory creates an empty history. A binCount of 0 lets the first Push
// establish the width.
func NewHistory(capacity, binCount int) *History {
	return &History{ring: common.NewFrameRing(capacity, binCount)}
}

// Push appends a copy of frame, evicting the oldest frame at capacity.
// A frame whose length differs from the established bin count is a caller
// bug and panics.
func (h *History) Push(frame []float64) {
	if err := h.ring.Push(frame); err != nil {
		panic("howling: history push: " + err.Error())
	}
}

// Len returns the number of frames held
func (h *History) Len() int {
	return h.ring.Available()
}

// Capacity returns the window length
func (h *History) Capacity() int {
	return h.ring.Capacity()
}

// IsFull reports whether Len() == Capacity()
func (h *History) IsFull() bool {
	return h.ring.IsFull()
}

// BinCount returns the established frame width, 0 before the first Push
func (h *History) BinCount() int {
	return h.ring.Width()
}

// FrameAt returns the frame offset positions back from the newest
// (0 = newest). The slice is read-only and valid until the next Push.
func (h *History) FrameAt(offsetFromNewest int) []float64 {
	return h.ring.At(offsetFromNewest)
}

// Reset drops every frame, keeping the bin count
func (h *History) Reset() {
	h.ring.Clear()
}

// Resize drops every frame and changes the bin count
func (h *History) Resize(binCount int) {
	h.ring.Resize(binCount)
}
