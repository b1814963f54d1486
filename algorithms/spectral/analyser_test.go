package spectral

import (
	"math"
	"testing"

	"github.com/RyanBlaney/howl-sonar/howling"
)

func sine(freq, sampleRate, amp float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = amp * math.Sin(2*math.Pi*freq*float64(i)/sampleRate)
	}
	return out
}

func newTestAnalyser(t *testing.T, fftSize int) *FrequencyAnalyser {
	t.Helper()
	cfg := DefaultAnalyserConfig()
	cfg.FFTSize = fftSize
	fa, err := NewFrequencyAnalyser(cfg)
	if err != nil {
		t.Fatalf("NewFrequencyAnalyser error: %v", err)
	}
	return fa
}

func TestAnalyserConfigValidate(t *testing.T) {
	if err := DefaultAnalyserConfig().Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*AnalyserConfig)
	}{
		{"not power of two", func(c *AnalyserConfig) { c.FFTSize = 1000 }},
		{"too small", func(c *AnalyserConfig) { c.FFTSize = 16 }},
		{"sample rate", func(c *AnalyserConfig) { c.SampleRate = 0 }},
		{"smoothing", func(c *AnalyserConfig) { c.SmoothingTimeConstant = 1 }},
		{"db range", func(c *AnalyserConfig) { c.MinDB = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultAnalyserConfig()
			tt.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}

func TestSilenceYieldsFloor(t *testing.T) {
	fa := newTestAnalyser(t, 256)
	frame := fa.Frame()
	if frame.BinCount() != 128 {
		t.Fatalf("bins=%d want=128", frame.BinCount())
	}
	for i, v := range frame.DB {
		if v != -100 {
			t.Fatalf("DB[%d]=%v want=-100", i, v)
		}
		if frame.Linear[i] != math.Pow(10, -5) {
			t.Fatalf("Linear[%d]=%v want 1e-5", i, frame.Linear[i])
		}
	}
}

func TestToneLandsOnItsBin(t *testing.T) {
	const n = 1024
	fa := newTestAnalyser(t, n)
	sr := fa.Config().SampleRate
	bin := 100
	freq := float64(bin) * sr / n

	var frame howling.SpectralFrame
	for range 40 {
		frame = fa.Analyse(sine(freq, sr, 0.5, n))
	}

	if got, _ := howling.LoudestBin(frame.DB); got != bin {
		t.Fatalf("loudest bin=%d want=%d", got, bin)
	}
	if got := fa.BinFrequency(bin); math.Abs(got-freq) > 1e-9 {
		t.Fatalf("BinFrequency=%v want=%v", got, freq)
	}
	// Blackman coherent gain 0.42, one-sided half amplitude
	want := 20 * math.Log10(0.5*0.42/2)
	if math.Abs(frame.DB[bin]-want) > 0.5 {
		t.Fatalf("tone level=%.2f dB want≈%.2f dB", frame.DB[bin], want)
	}
}

func TestSmoothingRisesGradually(t *testing.T) {
	const n = 512
	fa := newTestAnalyser(t, n)
	sr := fa.Config().SampleRate
	block := sine(40*sr/n, sr, 0.5, n)

	first := fa.Analyse(block).Linear[40]
	second := fa.Analyse(block).Linear[40]
	if !(second > first) {
		t.Fatalf("smoothed magnitude did not rise: %v then %v", first, second)
	}
	// with τ = 0.8 the second frame holds 1 − 0.8² of the steady value
	if ratio := second / first; math.Abs(ratio-1.8) > 1e-9 {
		t.Fatalf("second/first=%v want=1.8", ratio)
	}
}

func TestPushKeepsNewestSamples(t *testing.T) {
	fa := newTestAnalyser(t, 32)
	ramp := make([]float64, 40)
	for i := range ramp {
		ramp[i] = float64(i)
	}
	fa.Push(ramp[:10])
	fa.Push(ramp[10:])
	for i, v := range fa.timeDomain {
		if v != float64(i+8) {
			t.Fatalf("timeDomain[%d]=%v want=%d", i, v, i+8)
		}
	}
}

func TestResetAndResize(t *testing.T) {
	fa := newTestAnalyser(t, 256)
	fa.Analyse(sine(1000, fa.Config().SampleRate, 0.5, 256))
	fa.Reset()
	for i, v := range fa.Frame().DB {
		if v != -100 {
			t.Fatalf("after reset DB[%d]=%v", i, v)
		}
	}

	if err := fa.SetFFTSize(4096); err != nil {
		t.Fatalf("SetFFTSize error: %v", err)
	}
	if fa.BinCount() != 2048 || len(fa.Frame().DB) != 2048 {
		t.Fatalf("bin count=%d want=2048", fa.BinCount())
	}
	if err := fa.SetFFTSize(3000); err == nil {
		t.Fatal("expected error for non power of two")
	}
	if fa.BinCount() != 2048 {
		t.Fatal("failed resize changed the analyser")
	}
}

func TestHowlingConfigMatchesAnalyser(t *testing.T) {
	cfg := DefaultAnalyserConfig()
	cfg.FFTSize = 4096
	cfg.SampleRate = 48000
	hc := cfg.HowlingConfig(howling.DefaultConfig())
	if hc.BinCount != 2048 || hc.SampleRate != 48000 {
		t.Fatalf("derived config bins=%d sr=%v", hc.BinCount, hc.SampleRate)
	}
	if err := hc.Validate(); err != nil {
		t.Fatalf("derived config invalid: %v", err)
	}
}
