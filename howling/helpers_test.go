package howling

import (
	"math"
	"testing"
)

const floatTol = 1e-12

// filledDB returns n bins at fill with the given overrides applied
func filledDB(n int, fill float64, overrides map[int]float64) []float64 {
	db := make([]float64, n)
	for i := range db {
		db[i] = fill
	}
	for bin, v := range overrides {
		db[bin] = v
	}
	return db
}

func filledLinear(n int, fill float64, overrides map[int]float64) []float64 {
	return filledDB(n, fill, overrides)
}

// scenarioConfig is the small end-to-end configuration: four-frame window,
// eight bins, NINOS threshold 0.1, alpha 2, silence floor -80 dB.
func scenarioConfig() Config {
	cfg := DefaultConfig()
	cfg.HistoryCapacity = 4
	cfg.BinCount = 8
	cfg.SampleRate = 48000
	cfg.NinosThreshold = 0.1
	cfg.DynamicThresholdAlpha = 2.0
	cfg.SilenceFloorDB = -80
	return cfg
}

func newTestEngine(t *testing.T, cfg Config) *Engine {
	t.Helper()
	e, err := NewEngine(cfg)
	if err != nil {
		t.Fatalf("NewEngine error: %v", err)
	}
	return e
}

func assertClose(t *testing.T, name string, got, want, tol float64) {
	t.Helper()
	if math.Abs(got-want) > tol {
		t.Fatalf("%s=%v want=%v (tol %g)", name, got, want, tol)
	}
}

func mustPanic(t *testing.T, name string, fn func()) {
	t.Helper()
	defer func() {
		if recover() == nil {
			t.Fatalf("%s: expected panic", name)
		}
	}()
	fn()
}
