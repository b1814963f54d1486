package scan

import (
	"context"
	"fmt"
	"math"

	"github.com/RyanBlaney/howl-sonar/algorithms/spectral"
	"github.com/RyanBlaney/howl-sonar/howling"
	"github.com/RyanBlaney/howl-sonar/logging"
	"github.com/RyanBlaney/howl-sonar/report"
)

// DefaultFramesPerSecond matches a display refresh driven analyser loop
const DefaultFramesPerSecond = 60

// Options configures a scan of one mono signal
type Options struct {
	Analyser        spectral.AnalyserConfig `json:"analyser"`
	Engine          howling.Config          `json:"engine"`
	FramesPerSecond float64                 `json:"frames_per_second"`
}

// DefaultOptions pairs the default analyser with a matching engine config
func DefaultOptions() Options {
	analyser := spectral.DefaultAnalyserConfig()
	return Options{
		Analyser:        analyser,
		Engine:          analyser.HowlingConfig(howling.DefaultConfig()),
		FramesPerSecond: DefaultFramesPerSecond,
	}
}

// Transition is emitted whenever the verdict level changes. PeakDB is the
// peak-hold level of the reported bin, or MinDB when there is none.
type Transition struct {
	TimeSeconds float64
	From        howling.Level
	Result      howling.HowlingResult
	PeakDB      float64
}

// Scanner feeds fixed hops of audio through the analyser and engine
type Scanner struct {
	analyser *spectral.FrequencyAnalyser
	engine   *howling.Engine
	hop      int
	logger   logging.Logger
}

// NewScanner builds the analyser and engine. The engine bin count and
// sample rate are taken from the analyser.
func NewScanner(opts Options) (*Scanner, error) {
	analyser, err := spectral.NewFrequencyAnalyser(opts.Analyser)
	if err != nil {
		return nil, fmt.Errorf("invalid analyser config: %w", err)
	}

	engine, err := howling.NewEngine(opts.Analyser.HowlingConfig(opts.Engine))
	if err != nil {
		return nil, err
	}

	fps := opts.FramesPerSecond
	if fps <= 0 {
		fps = DefaultFramesPerSecond
	}
	hop := max(int(math.Round(opts.Analyser.SampleRate/fps)), 1)

	return &Scanner{
		analyser: analyser,
		engine:   engine,
		hop:      hop,
		logger: logging.WithFields(logging.Fields{
			"component": "scanner",
			"hop":       hop,
			"fft_size":  opts.Analyser.FFTSize,
		}),
	}, nil
}

// Hop returns the number of samples between frames
func (s *Scanner) Hop() int {
	return s.hop
}

// Engine exposes the detection engine, e.g. for peak-hold display
func (s *Scanner) Engine() *howling.Engine {
	return s.engine
}

func (s *Scanner) peakAt(bin int) float64 {
	peaks := s.engine.Peaks()
	if bin < 0 || bin >= len(peaks) {
		return s.engine.Config().MinDB
	}
	return peaks[bin]
}

// Run analyses samples from the start of a fresh session and returns one
// record per frame. onTransition may be nil.
func (s *Scanner) Run(ctx context.Context, samples []float64, onTransition func(Transition)) ([]report.Record, error) {
	s.analyser.Reset()
	s.engine.Reset()

	sr := s.analyser.Config().SampleRate
	records := make([]report.Record, 0, len(samples)/s.hop+1)
	last := howling.LevelNone

	for start := 0; start+s.hop <= len(samples); start += s.hop {
		if len(records)%256 == 0 {
			if err := ctx.Err(); err != nil {
				return records, err
			}
		}

		end := start + s.hop
		frame := s.analyser.Analyse(samples[start:end])
		result := s.engine.Process(frame)
		t := float64(end) / sr

		records = append(records, report.NewRecord(int64(len(records)), t, result))
		if result.Level != last {
			if onTransition != nil {
				onTransition(Transition{
					TimeSeconds: t,
					From:        last,
					Result:      result,
					PeakDB:      s.peakAt(result.Bin),
				})
			}
			last = result.Level
		}
	}

	s.logger.Info("Scan completed", logging.Fields{
		"frames":   len(records),
		"duration": float64(len(samples)) / sr,
	})

	return records, nil
}
