package howling

import (
	"fmt"

	"github.com/RyanBlaney/howl-sonar/algorithms/common"
)

// SpectralFrame is one analyser snapshot in both decibel and linear
// amplitude form. Both slices have the same length (the bin count).
type SpectralFrame struct {
	DB     []float64 `json:"db"`
	Linear []float64 `json:"-"`
}

// NewSpectralFrame copies db and derives the linear view (10^(db/20)).
func NewSpectralFrame(db []float64) SpectralFrame {
	frame := SpectralFrame{
		DB:     make([]float64, len(db)),
		Linear: make([]float64, len(db)),
	}
	copy(frame.DB, db)
	common.DBSliceToLinear(frame.Linear, frame.DB)
	return frame
}

// BinCount returns the number of bins in the frame
func (f SpectralFrame) BinCount() int {
	return len(f.DB)
}

func (f SpectralFrame) mustBeConsistent() {
	if len(f.DB) != len(f.Linear) {
		panic(fmt.Sprintf("spectral frame has %d dB bins but %d linear bins", len(f.DB), len(f.Linear)))
	}
}

// LoudestBin returns the bin with the highest dB value and that value,
// lowest index on ties. It is kept separate from the sparsity argmax: this
// pass answers "how loud", the scorer answers "how tonal".
func LoudestBin(frameDB []float64) (bin int, db float64) {
	bin = common.MaxIndex(frameDB)
	if bin < 0 {
		return -1, 0
	}
	return bin, frameDB[bin]
}
