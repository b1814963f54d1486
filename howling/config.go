package howling

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidCapacity indicates the history must hold at least two frames
	ErrInvalidCapacity = errors.New("history capacity must be at least 2")
	// ErrInvalidBinCount indicates a non-positive bin count
	ErrInvalidBinCount = errors.New("bin count must be positive")
	// ErrInvalidSampleRate indicates a non-positive sample rate
	ErrInvalidSampleRate = errors.New("sample rate must be positive")
	// ErrInvalidDBRange indicates min dB is not below max dB
	ErrInvalidDBRange = errors.New("min dB must be below max dB")
	// ErrInvalidDecay indicates a negative peak-hold decay
	ErrInvalidDecay = errors.New("peak decay per frame must be non-negative")
	// ErrInvalidWorkers indicates a negative scoring worker count
	ErrInvalidWorkers = errors.New("scoring workers must be non-negative")
)

// Config holds the per-session detection parameters. It is fixed for the
// lifetime of an Engine except for BinCount, which Reconfigure may change.
type Config struct {
	// HistoryCapacity is the sparsity window length in frames; detection is
	// suppressed until this many frames have been seen.
	HistoryCapacity int `json:"history_capacity"`
	// BinCount is the number of frequency bins per frame (fftSize/2).
	BinCount int `json:"bin_count"`
	// SampleRate in Hz, used only to map bins to frequencies.
	SampleRate float64 `json:"sample_rate"`

	DecayPerFrameDB float64 `json:"decay_per_frame_db"`
	MinDB           float64 `json:"min_db"`
	MaxDB           float64 `json:"max_db"`

	// DynamicThresholdAlpha scales the frame's standard deviation; larger
	// values require a bin to be more of an outlier to count as strong.
	DynamicThresholdAlpha float64 `json:"dynamic_threshold_alpha"`
	NinosThreshold        float64 `json:"ninos_threshold"`
	SilenceFloorDB        float64 `json:"silence_floor_db"`

	// ScoringWorkers splits the per-bin sparsity scan across goroutines.
	// 0 or 1 scans serially.
	ScoringWorkers int `json:"scoring_workers,omitempty"`
}

// DefaultConfig returns the settings used by the interactive test: a
// 2048-point analyser at 44.1 kHz with a 64-frame window.
func DefaultConfig() Config {
	return Config{
		HistoryCapacity:       64,
		BinCount:              1024,
		SampleRate:            44100,
		DecayPerFrameDB:       0.5,
		MinDB:                 -100,
		MaxDB:                 0,
		DynamicThresholdAlpha: 6.0,
		NinosThreshold:        0.15,
		SilenceFloorDB:        -80,
	}
}

// Validate reports the first configuration error found
func (c Config) Validate() error {
	if c.HistoryCapacity < 2 {
		return fmt.Errorf("%w: got %d", ErrInvalidCapacity, c.HistoryCapacity)
	}
	if c.BinCount <= 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidBinCount, c.BinCount)
	}
	if c.SampleRate <= 0 {
		return fmt.Errorf("%w: got %g", ErrInvalidSampleRate, c.SampleRate)
	}
	if c.MinDB >= c.MaxDB {
		return fmt.Errorf("%w: min %g, max %g", ErrInvalidDBRange, c.MinDB, c.MaxDB)
	}
	if c.DecayPerFrameDB < 0 {
		return fmt.Errorf("%w: got %g", ErrInvalidDecay, c.DecayPerFrameDB)
	}
	if c.ScoringWorkers < 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidWorkers, c.ScoringWorkers)
	}
	return nil
}

// BinFrequency maps a bin index to its frequency in Hz:
// bin * (sampleRate/2) / binCount.
func BinFrequency(bin, binCount int, sampleRate float64) float64 {
	if binCount <= 0 || bin < 0 {
		return 0
	}
	return float64(bin) * (sampleRate / 2) / float64(binCount)
}
