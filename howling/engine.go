package howling

import (
	"fmt"

	"github.com/RyanBlaney/howl-sonar/logging"
)

// Engine runs the detection pipeline for one analysis session. It owns its
// history and peak-hold state exclusively and is not safe for concurrent
// use: drive it from the single loop that produces frames.
type Engine struct {
	config     Config
	history    *History
	peaks      *PeakHold
	classifier *Classifier

	frames    uint64
	lastLevel Level
	logger    logging.Logger
}

// NewEngine validates cfg and returns an engine in its fresh state
func NewEngine(cfg Config) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid howling config: %w", err)
	}

	e := &Engine{
		config:     cfg,
		history:    NewHistory(cfg.HistoryCapacity, cfg.BinCount),
		peaks:      NewPeakHold(cfg.BinCount, cfg.DecayPerFrameDB, cfg.MinDB),
		classifier: NewClassifier(cfg),
		logger: logging.WithFields(logging.Fields{
			"component":   "howling_engine",
			"bin_count":   cfg.BinCount,
			"sample_rate": cfg.SampleRate,
		}),
	}

	e.logger.Debug("Howling engine created", logging.Fields{
		"history_capacity": cfg.HistoryCapacity,
		"alpha":            cfg.DynamicThresholdAlpha,
		"ninos_threshold":  cfg.NinosThreshold,
		"silence_floor_db": cfg.SilenceFloorDB,
		"scoring_workers":  cfg.ScoringWorkers,
	})

	return e, nil
}

// Process consumes one frame and returns its verdict. A frame whose bin
// count differs from the configured one panics; call Reconfigure first when
// the analyser resolution changes.
func (e *Engine) Process(frame SpectralFrame) HowlingResult {
	frame.mustBeConsistent()
	if frame.BinCount() != e.config.BinCount {
		panic(fmt.Sprintf("howling: frame has %d bins, engine configured for %d", frame.BinCount(), e.config.BinCount))
	}

	e.peaks.Update(frame.DB)
	e.history.Push(frame.Linear)
	result := e.classifier.Classify(e.history, frame.DB, e.config.SampleRate)

	e.frames++
	if result.Level != e.lastLevel {
		e.logger.Debug("Howling level changed", logging.Fields{
			"frame":        e.frames,
			"from":         e.lastLevel.String(),
			"to":           result.Level.String(),
			"bin":          result.Bin,
			"frequency_hz": result.FrequencyHz,
			"score":        result.Score,
		})
		e.lastLevel = result.Level
	}

	return result
}

// ProcessDB wraps db in a SpectralFrame and processes it
func (e *Engine) ProcessDB(db []float64) HowlingResult {
	return e.Process(NewSpectralFrame(db))
}

// Reset clears history and peak hold, leaving the engine as if newly built
func (e *Engine) Reset() {
	e.history.Reset()
	e.peaks.Reset()
	e.frames = 0
	e.lastLevel = LevelNone
	e.logger.Debug("Howling engine reset")
}

// Reconfigure switches the engine to a new bin count. All buffered state is
// discarded, even when binCount is unchanged.
func (e *Engine) Reconfigure(binCount int) error {
	cfg := e.config
	cfg.BinCount = binCount
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("reconfigure howling engine: %w", err)
	}

	e.config = cfg
	e.history.Resize(binCount)
	e.peaks.Resize(binCount)
	e.frames = 0
	e.lastLevel = LevelNone
	e.logger = e.logger.WithFields(logging.Fields{"bin_count": binCount})
	e.logger.Debug("Howling engine reconfigured")
	return nil
}

// Peaks returns a copy of the peak-hold vector in dB
func (e *Engine) Peaks() []float64 {
	return e.peaks.Peaks()
}

// Scores returns the current per-bin sparsity scores for diagnostics, nil
// before two frames have been seen.
func (e *Engine) Scores() []float64 {
	return e.classifier.scorer.Scores(e.history)
}

// Config returns the active configuration
func (e *Engine) Config() Config {
	return e.config
}

// FrameCount returns the number of frames processed since the last reset
func (e *Engine) FrameCount() uint64 {
	return e.frames
}

// WarmedUp reports whether the history window is full
func (e *Engine) WarmedUp() bool {
	return e.history.IsFull()
}
