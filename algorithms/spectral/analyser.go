package spectral

import (
	"fmt"
	"math/cmplx"

	"github.com/RyanBlaney/howl-sonar/algorithms/common"
	"github.com/RyanBlaney/howl-sonar/howling"
	"github.com/RyanBlaney/howl-sonar/logging"
	"github.com/mjibson/go-dsp/fft"
	"github.com/mjibson/go-dsp/window"
	"gonum.org/v1/gonum/floats"
)

// AnalyserConfig mirrors the knobs of a browser AnalyserNode
type AnalyserConfig struct {
	FFTSize    int     `json:"fft_size"`
	SampleRate float64 `json:"sample_rate"`
	// SmoothingTimeConstant blends each frame with the previous one:
	// X = τ·X_prev + (1−τ)·|FFT|/N.
	SmoothingTimeConstant float64 `json:"smoothing_time_constant"`
	MinDB                 float64 `json:"min_db"`
	MaxDB                 float64 `json:"max_db"`
}

// DefaultAnalyserConfig returns a 2048-point analyser at 44.1 kHz with 0.8 smoothing
func DefaultAnalyserConfig() AnalyserConfig {
	return AnalyserConfig{
		FFTSize:               2048,
		SampleRate:            44100,
		SmoothingTimeConstant: 0.8,
		MinDB:                 -100,
		MaxDB:                 0,
	}
}

// Validate checks the analyser settings
func (c AnalyserConfig) Validate() error {
	if c.FFTSize < 32 || c.FFTSize > 32768 || !common.IsPowerOfTwo(c.FFTSize) {
		return fmt.Errorf("fft size must be a power of two in [32, 32768]: %d", c.FFTSize)
	}
	if c.SampleRate <= 0 {
		return fmt.Errorf("sample rate must be positive: %g", c.SampleRate)
	}
	if c.SmoothingTimeConstant < 0 || c.SmoothingTimeConstant >= 1 {
		return fmt.Errorf("smoothing time constant must be in [0, 1): %g", c.SmoothingTimeConstant)
	}
	if c.MinDB >= c.MaxDB {
		return fmt.Errorf("min dB (%g) must be below max dB (%g)", c.MinDB, c.MaxDB)
	}
	return nil
}

// HowlingConfig derives the engine configuration that matches this analyser
func (c AnalyserConfig) HowlingConfig(base howling.Config) howling.Config {
	base.BinCount = c.FFTSize / 2
	base.SampleRate = c.SampleRate
	base.MinDB = c.MinDB
	base.MaxDB = c.MaxDB
	return base
}

// FrequencyAnalyser keeps the most recent FFTSize samples and turns them
// into smoothed dB spectra, one SpectralFrame per call to Frame.
type FrequencyAnalyser struct {
	config     AnalyserConfig
	window     []float64
	timeDomain []float64
	windowed   []float64
	smoothed   []float64
	logger     logging.Logger
}

// NewFrequencyAnalyser creates an analyser with an empty (silent) input buffer
func NewFrequencyAnalyser(config AnalyserConfig) (*FrequencyAnalyser, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	fa := &FrequencyAnalyser{
		logger: logging.WithFields(logging.Fields{
			"component":   "frequency_analyser",
			"sample_rate": config.SampleRate,
		}),
	}
	fa.configure(config)
	return fa, nil
}

func (fa *FrequencyAnalyser) configure(config AnalyserConfig) {
	n := config.FFTSize
	fa.config = config
	fa.window = window.Blackman(n)
	fa.timeDomain = make([]float64, n)
	fa.windowed = make([]float64, n)
	fa.smoothed = make([]float64, n/2)
}

// Push appends samples to the input buffer, keeping the newest FFTSize
func (fa *FrequencyAnalyser) Push(samples []float64) {
	n := len(fa.timeDomain)
	if len(samples) >= n {
		copy(fa.timeDomain, samples[len(samples)-n:])
		return
	}
	copy(fa.timeDomain, fa.timeDomain[len(samples):])
	copy(fa.timeDomain[n-len(samples):], samples)
}

// Frame windows and transforms the current input buffer, updates the
// smoothed magnitudes and returns them in dB, floored at MinDB.
func (fa *FrequencyAnalyser) Frame() howling.SpectralFrame {
	n := len(fa.timeDomain)
	floats.MulTo(fa.windowed, fa.timeDomain, fa.window)
	spectrum := fft.FFTReal(fa.windowed)

	tau := fa.config.SmoothingTimeConstant
	db := make([]float64, len(fa.smoothed))
	for k := range fa.smoothed {
		mag := cmplx.Abs(spectrum[k]) / float64(n)
		fa.smoothed[k] = tau*fa.smoothed[k] + (1-tau)*mag
		db[k] = common.LinearToDB(fa.smoothed[k], fa.config.MinDB)
	}

	return howling.NewSpectralFrame(db)
}

// Analyse is Push followed by Frame
func (fa *FrequencyAnalyser) Analyse(samples []float64) howling.SpectralFrame {
	fa.Push(samples)
	return fa.Frame()
}

// Reset clears the input buffer and the smoothing state
func (fa *FrequencyAnalyser) Reset() {
	clear(fa.timeDomain)
	clear(fa.smoothed)
}

// SetFFTSize changes the transform size and resets. Any engine fed by this
// analyser must be reconfigured to BinCount().
func (fa *FrequencyAnalyser) SetFFTSize(size int) error {
	config := fa.config
	config.FFTSize = size
	if err := config.Validate(); err != nil {
		return err
	}
	fa.configure(config)
	fa.logger.Debug("Analyser resized", logging.Fields{"fft_size": size})
	return nil
}

// BinCount returns FFTSize/2
func (fa *FrequencyAnalyser) BinCount() int {
	return len(fa.smoothed)
}

// Config returns the active configuration
func (fa *FrequencyAnalyser) Config() AnalyserConfig {
	return fa.config
}

// BinFrequency returns the centre frequency of bin in Hz
func (fa *FrequencyAnalyser) BinFrequency(bin int) float64 {
	return howling.BinFrequency(bin, fa.BinCount(), fa.config.SampleRate)
}
