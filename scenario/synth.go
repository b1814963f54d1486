package scenario

import (
	"fmt"
	"math"
	"math/rand/v2"
	"time"

	"github.com/RyanBlaney/howl-sonar/algorithms/common"
)

// SynthConfig controls the simulated feedback signal: looping brown noise
// with a sine that fades in at the onset and ramps up.
type SynthConfig struct {
	SampleRate int           `json:"sample_rate"`
	Duration   time.Duration `json:"duration"`
	Scenario   Scenario      `json:"scenario"`
	NoiseGain  float64       `json:"noise_gain"`
	// HowlStartGain is applied at the onset, HowlPeakGain at onset+ramp
	HowlStartGain float64 `json:"howl_start_gain"`
	HowlPeakGain  float64 `json:"howl_peak_gain"`
	MasterGain    float64 `json:"master_gain"`
	Seed          uint64  `json:"seed"`
}

// DefaultSynthConfig returns a 12 s simulation with a 1 kHz howl at 6 s
func DefaultSynthConfig() SynthConfig {
	return SynthConfig{
		SampleRate: 44100,
		Duration:   12 * time.Second,
		Scenario: Scenario{
			OnsetSeconds: 6,
			RampSeconds:  DefaultRampSeconds,
			TargetHz:     1000,
		},
		NoiseGain:     0.05,
		HowlStartGain: 0.001,
		HowlPeakGain:  0.2,
		MasterGain:    0.5,
		Seed:          1,
	}
}

// Validate checks the synthesis settings
func (c SynthConfig) Validate() error {
	if c.SampleRate <= 0 {
		return fmt.Errorf("sample rate must be positive: %d", c.SampleRate)
	}
	if c.Duration <= 0 {
		return fmt.Errorf("duration must be positive: %v", c.Duration)
	}
	if c.Scenario.TargetHz <= 0 || c.Scenario.TargetHz >= float64(c.SampleRate)/2 {
		return fmt.Errorf("target frequency %g Hz outside (0, %d)", c.Scenario.TargetHz, c.SampleRate/2)
	}
	if c.Scenario.OnsetSeconds < 0 || c.Scenario.RampSeconds < 0 {
		return fmt.Errorf("onset and ramp must not be negative")
	}
	return nil
}

// HowlGain returns the sine gain at time t seconds
func (c SynthConfig) HowlGain(t float64) float64 {
	onset := c.Scenario.OnsetSeconds
	ramp := c.Scenario.RampSeconds
	switch {
	case t < onset:
		return 0
	case ramp <= 0 || t >= onset+ramp:
		return c.HowlPeakGain
	default:
		return common.Lerp(c.HowlStartGain, c.HowlPeakGain, (t-onset)/ramp)
	}
}

// Synthesize renders the scenario as mono samples
func Synthesize(cfg SynthConfig) ([]float64, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	sr := float64(cfg.SampleRate)
	n := int(cfg.Duration.Seconds() * sr)
	noise := brownNoise(cfg.SampleRate*2, cfg.Seed)
	phaseStep := 2 * math.Pi * cfg.Scenario.TargetHz / sr

	out := make([]float64, n)
	for i := range out {
		t := float64(i) / sr
		howl := cfg.HowlGain(t) * math.Sin(phaseStep*float64(i))
		out[i] = cfg.MasterGain * (cfg.NoiseGain*noise[i%len(noise)] + howl)
	}
	return out, nil
}

// brownNoise fills a loop of leaky-integrated white noise
func brownNoise(n int, seed uint64) []float64 {
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	out := make([]float64, n)
	last := 0.0
	for i := range out {
		white := rng.Float64()*2 - 1
		last = (last + 0.02*white) / 1.02
		out[i] = last * 3.5
	}
	return out
}

// RandomScenario draws an onset in [minOnset, maxOnset] and a target near an
// ISO band in [loHz, hiHz], jittered by up to ±5%.
func RandomScenario(rng *rand.Rand, minOnset, maxOnset, loHz, hiHz float64) (Scenario, error) {
	bands := BandsBetween(loHz, hiHz)
	if len(bands) == 0 {
		return Scenario{}, fmt.Errorf("no ISO band between %g and %g Hz", loHz, hiHz)
	}
	onset := minOnset + rng.Float64()*(maxOnset-minOnset)
	base := bands[rng.IntN(len(bands))]
	jitter := rng.Float64()*0.1 - 0.05
	return Scenario{
		OnsetSeconds: onset,
		RampSeconds:  DefaultRampSeconds,
		TargetHz:     base * (1 + jitter),
	}, nil
}
