package common

import (
	"fmt"
)

// FrameRing is a fixed-capacity circular buffer of equal-width float64 rows.
// Rows are copied into preallocated storage so Push never allocates once
// the ring has been sized.
type FrameRing struct {
	rows     [][]float64
	width    int
	size     int
	writePos int
	count    int
}

// NewFrameRing creates a ring holding up to size rows of the given width.
// A width of 0 defers sizing to the first Push.
func NewFrameRing(size, width int) *FrameRing {
	fr := &FrameRing{
		rows: make([][]float64, size),
		size: size,
	}
	if width > 0 {
		fr.allocate(width)
	}
	return fr
}

func (fr *FrameRing) allocate(width int) {
	backing := make([]float64, fr.size*width)
	for i := range fr.rows {
		fr.rows[i] = backing[i*width : (i+1)*width : (i+1)*width]
	}
	fr.width = width
}

// Push copies row into the ring, overwriting the oldest row when full.
// It returns an error when row does not match the ring width.
func (fr *FrameRing) Push(row []float64) error {
	if fr.width == 0 {
		if len(row) == 0 {
			return fmt.Errorf("row must not be empty")
		}
		fr.allocate(len(row))
	}
	if len(row) != fr.width {
		return fmt.Errorf("row width (%d) doesn't match ring width (%d)", len(row), fr.width)
	}

	copy(fr.rows[fr.writePos], row)
	fr.writePos = (fr.writePos + 1) % fr.size
	if fr.count < fr.size {
		fr.count++
	}
	return nil
}

// At returns the row offset positions back from the newest (0 = newest).
// The returned slice aliases ring storage and is only valid until the next Push.
func (fr *FrameRing) At(offset int) []float64 {
	if offset < 0 || offset >= fr.count {
		panic(fmt.Sprintf("frame ring offset %d out of range [0,%d)", offset, fr.count))
	}
	idx := (fr.writePos - 1 - offset + fr.size) % fr.size
	return fr.rows[idx]
}

// Available returns the number of rows held
func (fr *FrameRing) Available() int {
	return fr.count
}

// Capacity returns the maximum number of rows
func (fr *FrameRing) Capacity() int {
	return fr.size
}

// Width returns the row width, 0 if not yet established
func (fr *FrameRing) Width() int {
	return fr.width
}

// Clear empties the ring but keeps its width and storage
func (fr *FrameRing) Clear() {
	fr.writePos = 0
	fr.count = 0
}

// Resize empties the ring and changes its row width
func (fr *FrameRing) Resize(width int) {
	fr.Clear()
	fr.width = 0
	if width > 0 {
		fr.allocate(width)
	}
}

// IsFull returns true if the ring holds Capacity rows
func (fr *FrameRing) IsFull() bool {
	return fr.count == fr.size
}

// IsEmpty returns true if the ring holds no rows
func (fr *FrameRing) IsEmpty() bool {
	return fr.count == 0
}
