package scenario

import (
	"errors"
	"math"
	"math/rand/v2"
	"strings"
	"testing"
	"time"
)

func TestLoadMetadata(t *testing.T) {
	tests := []struct {
		name string
		csv  string
		want Scenario
		err  error
	}{
		{
			name: "full row",
			csv:  "Name, Start transition time, Length transition time, MSG frequency\nspeech_01002, 5.25, 1.5, 1250\n",
			want: Scenario{OnsetSeconds: 5.25, RampSeconds: 1.5, TargetHz: 1250},
		},
		{
			name: "ramp defaults",
			csv:  "Start transition time,MSG frequency\n4,800",
			want: Scenario{OnsetSeconds: 4, RampSeconds: 1, TargetHz: 800},
		},
		{
			name: "zero ramp defaults",
			csv:  "Start transition time,Length transition time,MSG frequency\n4,0,800",
			want: Scenario{OnsetSeconds: 4, RampSeconds: 1, TargetHz: 800},
		},
		{name: "header only", csv: "Start transition time,MSG frequency\n", err: ErrNoMetadataRow},
		{name: "empty", csv: "", err: ErrNoMetadataRow},
		{name: "bad onset", csv: "Start transition time,MSG frequency\nsoon,800", err: ErrMissingOnset},
		{name: "no frequency", csv: "Start transition time\n4", err: ErrMissingFrequency},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := LoadMetadata(strings.NewReader(tt.csv))
			if tt.err != nil {
				if !errors.Is(err, tt.err) {
					t.Fatalf("error=%v want=%v", err, tt.err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Fatalf("got=%+v want=%+v", got, tt.want)
			}
		})
	}
}

func TestNearestBand(t *testing.T) {
	tests := []struct {
		freq float64
		want float64
	}{
		{1000, 1000},
		{1040, 1000},
		{1150, 1250},
		{5, 20},
		{30000, 20000},
		{1125, 1000}, // tie goes low
	}
	for _, tt := range tests {
		if _, got := NearestBand(tt.freq); got != tt.want {
			t.Fatalf("NearestBand(%v)=%v want=%v", tt.freq, got, tt.want)
		}
	}
	if d := BandDistance(1000, 1600); d != 2 {
		t.Fatalf("BandDistance=%d want=2", d)
	}
	if got := BandsBetween(400, 4000); len(got) != 11 || got[0] != 400 || got[10] != 4000 {
		t.Fatalf("BandsBetween=%v", got)
	}
}

func TestHowlGainEnvelope(t *testing.T) {
	cfg := DefaultSynthConfig()
	onset := cfg.Scenario.OnsetSeconds
	tests := []struct {
		t    float64
		want float64
	}{
		{0, 0},
		{onset - 0.01, 0},
		{onset, 0.001},
		{onset + 0.5, 0.001 + 0.5*(0.2-0.001)},
		{onset + 1, 0.2},
		{onset + 5, 0.2},
	}
	for _, tt := range tests {
		if got := cfg.HowlGain(tt.t); math.Abs(got-tt.want) > 1e-12 {
			t.Fatalf("HowlGain(%v)=%v want=%v", tt.t, got, tt.want)
		}
	}
}

func TestSynthesize(t *testing.T) {
	cfg := DefaultSynthConfig()
	cfg.Duration = 2 * time.Second
	cfg.Scenario.OnsetSeconds = 1

	a, err := Synthesize(cfg)
	if err != nil {
		t.Fatalf("Synthesize error: %v", err)
	}
	if len(a) != 2*cfg.SampleRate {
		t.Fatalf("len=%d want=%d", len(a), 2*cfg.SampleRate)
	}
	b, _ := Synthesize(cfg)
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("sample %d differs between runs with the same seed", i)
		}
	}

	rms := func(x []float64) float64 {
		var s float64
		for _, v := range x {
			s += v * v
		}
		return math.Sqrt(s / float64(len(x)))
	}
	before := rms(a[:cfg.SampleRate])
	after := rms(a[cfg.SampleRate+cfg.SampleRate/2:])
	if !(after > 2*before) {
		t.Fatalf("howl did not dominate after onset: rms before=%v after=%v", before, after)
	}
}

func TestSynthesizeRejectsBadConfig(t *testing.T) {
	cfg := DefaultSynthConfig()
	cfg.Scenario.TargetHz = 30000
	if _, err := Synthesize(cfg); err == nil {
		t.Fatal("expected error above Nyquist")
	}
}

func TestRandomScenario(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 7))
	for range 50 {
		s, err := RandomScenario(rng, 4, 8, 400, 4000)
		if err != nil {
			t.Fatalf("RandomScenario error: %v", err)
		}
		if s.OnsetSeconds < 4 || s.OnsetSeconds > 8 {
			t.Fatalf("onset %v outside [4, 8]", s.OnsetSeconds)
		}
		if s.TargetHz < 400*0.95 || s.TargetHz > 4000*1.05 {
			t.Fatalf("target %v outside jittered range", s.TargetHz)
		}
	}
	if _, err := RandomScenario(rng, 4, 8, 21000, 22000); err == nil {
		t.Fatal("expected error for an empty band range")
	}
}
