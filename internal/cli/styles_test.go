package cli

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/RyanBlaney/howl-sonar/howling"
	"github.com/RyanBlaney/howl-sonar/internal/meter"
	"github.com/RyanBlaney/howl-sonar/internal/scan"
	"github.com/RyanBlaney/howl-sonar/report"
)

func TestPrintTransition(t *testing.T) {
	var buf bytes.Buffer
	PrintTransition(&buf, scan.Transition{
		TimeSeconds: 6.25,
		From:        howling.LevelWarning,
		Result:      howling.HowlingResult{Bin: 46, FrequencyHz: 990.53, Level: howling.LevelCritical, Score: 0.168},
		PeakDB:      -33.5,
	}, -100, 0)
	out := buf.String()
	for _, want := range []string{"6.250s", "critical", "990.5 Hz", "bin 46", "0.1680", "-33.5 dB"} {
		if !strings.Contains(out, want) {
			t.Fatalf("output %q missing %q", out, want)
		}
	}

	buf.Reset()
	PrintTransition(&buf, scan.Transition{TimeSeconds: 1, Result: howling.HowlingResult{Bin: -1}}, -100, 0)
	if strings.Contains(buf.String(), "Hz") {
		t.Fatalf("none verdict without a bin should not print a frequency: %q", buf.String())
	}
}

func TestPrintSummary(t *testing.T) {
	var buf bytes.Buffer
	PrintSummary(&buf, report.Summary{
		Frames:         300,
		CriticalFrames: 40,
		FirstCritical:  &report.Detection{TimeSeconds: 3.4, FrequencyHz: 990.5, Band: 1000},
		OnsetSeconds:   3,
		TargetBand:     1000,
		LatencySeconds: 0.4,
		TimeScore:      100,
		FreqScore:      100,
		TotalScore:     100,
	})
	out := buf.String()
	for _, want := range []string{"300 (0 warning, 40 critical)", "never", "0.400s", "100 (time 100, frequency 100)"} {
		if !strings.Contains(out, want) {
			t.Fatalf("summary missing %q:\n%s", want, out)
		}
	}
}

func TestPeakMeter(t *testing.T) {
	tests := []struct {
		db     float64
		filled int
	}{
		{-100, 0},
		{-50, 5},
		{0, 10},
		{12, 10},
		{-130, 0},
	}
	for _, tt := range tests {
		bar := PeakMeter(tt.db, -100, 0, 10)
		if got := strings.Count(bar, "█"); got != tt.filled {
			t.Fatalf("PeakMeter(%v) filled=%d want=%d (%q)", tt.db, got, tt.filled, bar)
		}
		if got := strings.Count(bar, "·"); got != 10-tt.filled {
			t.Fatalf("PeakMeter(%v) empty=%d want=%d", tt.db, got, 10-tt.filled)
		}
	}
}

func TestLevelLabel(t *testing.T) {
	for _, l := range []howling.Level{howling.LevelNone, howling.LevelWarning, howling.LevelCritical, howling.Level(9)} {
		if !strings.Contains(LevelLabel(l), l.String()) {
			t.Fatalf("LevelLabel(%v)=%q", l, LevelLabel(l))
		}
	}
}

func TestPrintStats(t *testing.T) {
	var buf bytes.Buffer
	PrintStats(&buf, meter.Stats{Frames: 10, Elapsed: 20 * time.Millisecond, PerFrame: 2 * time.Millisecond, RealtimeFactor: 8.33})
	for _, want := range []string{"20ms", "2ms", "8.3x"} {
		if !strings.Contains(buf.String(), want) {
			t.Fatalf("stats missing %q:\n%s", want, buf.String())
		}
	}
}
