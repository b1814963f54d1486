package howling

import (
	"fmt"
	"math"
)

// PeakHold tracks the per-bin dB maximum with a fixed linear decay per
// frame, floored at minDB. It feeds the display only.
type PeakHold struct {
	peaks []float64
	decay float64
	minDB float64
}

// NewPeakHold creates a tracker with every bin at minDB
func NewPeakHold(binCount int, decayPerFrameDB, minDB float64) *PeakHold {
	p := &PeakHold{
		peaks: make([]float64, binCount),
		decay: decayPerFrameDB,
		minDB: minDB,
	}
	p.Reset()
	return p
}

// Update folds one frame of dB magnitudes into the held peaks
func (p *PeakHold) Update(frameDB []float64) {
	if len(frameDB) != len(p.peaks) {
		panic(fmt.Sprintf("howling: peak hold update with %d bins, want %d", len(frameDB), len(p.peaks)))
	}

	for i, db := range frameDB {
		if db > p.peaks[i] {
			p.peaks[i] = db
		} else {
			p.peaks[i] = math.Max(p.peaks[i]-p.decay, p.minDB)
		}
	}
}

// Peaks returns a copy of the held values
func (p *PeakHold) Peaks() []float64 {
	out := make([]float64, len(p.peaks))
	copy(out, p.peaks)
	return out
}

// Reset sets every bin back to minDB
func (p *PeakHold) Reset() {
	for i := range p.peaks {
		p.peaks[i] = p.minDB
	}
}

// Resize changes the bin count and resets
func (p *PeakHold) Resize(binCount int) {
	p.peaks = make([]float64, binCount)
	p.Reset()
}
