package report

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/RyanBlaney/howl-sonar/howling"
	"github.com/RyanBlaney/howl-sonar/scenario"
)

func run(levels ...howling.Level) []Record {
	out := make([]Record, len(levels))
	for i, l := range levels {
		r := howling.HowlingResult{Bin: -1, Level: l}
		if l != howling.LevelNone {
			r = howling.HowlingResult{Bin: 46, FrequencyHz: 990.5, Level: l, Score: 0.4}
		}
		out[i] = NewRecord(int64(i), float64(i)*0.5, r)
	}
	return out
}

func TestSummarizeWithScenario(t *testing.T) {
	records := run(howling.LevelNone, howling.LevelNone, howling.LevelWarning,
		howling.LevelWarning, howling.LevelCritical, howling.LevelCritical)
	sc := &scenario.Scenario{OnsetSeconds: 1.2, RampSeconds: 1, TargetHz: 1250}

	s := Summarize(records, sc)
	if s.Frames != 6 || s.WarningFrames != 2 || s.CriticalFrames != 2 {
		t.Fatalf("counts frames=%d warning=%d critical=%d", s.Frames, s.WarningFrames, s.CriticalFrames)
	}
	if s.FirstWarning == nil || s.FirstWarning.TimeSeconds != 1.0 {
		t.Fatalf("first warning=%+v want t=1.0", s.FirstWarning)
	}
	if s.FirstCritical == nil || s.FirstCritical.TimeSeconds != 2.0 || s.FirstCritical.Band != 1000 {
		t.Fatalf("first critical=%+v", s.FirstCritical)
	}
	if s.FalseAlarm {
		t.Fatal("unexpected false alarm")
	}
	if got := s.LatencySeconds; got < 0.799 || got > 0.801 {
		t.Fatalf("latency=%v want=0.8", got)
	}
	if s.BandDistance != 1 || s.TimeScore != 80 || s.FreqScore != 70 || s.TotalScore != 75 {
		t.Fatalf("scoring distance=%d time=%d freq=%d total=%d",
			s.BandDistance, s.TimeScore, s.FreqScore, s.TotalScore)
	}
	if s.TargetBand != 1250 {
		t.Fatalf("target band=%v want=1250", s.TargetBand)
	}
}

func TestSummarizeFalseAlarm(t *testing.T) {
	records := run(howling.LevelCritical, howling.LevelNone)
	s := Summarize(records, &scenario.Scenario{OnsetSeconds: 3, TargetHz: 1000})
	if !s.FalseAlarm || s.TotalScore != 0 {
		t.Fatalf("summary=%+v want false alarm", s)
	}
}

func TestSummarizeWithoutScenario(t *testing.T) {
	s := Summarize(run(howling.LevelNone, howling.LevelCritical), nil)
	if s.FirstCritical == nil || s.TargetBand != 0 || s.TimeScore != 0 {
		t.Fatalf("summary=%+v", s)
	}
	if s := Summarize(nil, nil); s.Frames != 0 || s.FirstWarning != nil {
		t.Fatalf("empty summary=%+v", s)
	}
}

func TestScoreTables(t *testing.T) {
	times := map[float64]int{0: 100, 0.49: 100, 0.5: 80, 1.2: 50, 1.5: 10, 9: 10}
	for latency, want := range times {
		if got := timeScore(latency); got != want {
			t.Fatalf("timeScore(%v)=%d want=%d", latency, got, want)
		}
	}
	freqs := map[int]int{0: 100, 1: 70, 2: 30, 3: 0, 10: 0}
	for distance, want := range freqs {
		if got := freqScore(distance); got != want {
			t.Fatalf("freqScore(%d)=%d want=%d", distance, got, want)
		}
	}
}

func TestParquetRoundTrip(t *testing.T) {
	records := run(howling.LevelNone, howling.LevelWarning, howling.LevelCritical)
	path := filepath.Join(t.TempDir(), "run.parquet")

	for _, codec := range []string{"snappy", "zstd", "gzip", "none"} {
		if err := WriteParquet(path, records, codec); err != nil {
			t.Fatalf("%s: WriteParquet error: %v", codec, err)
		}
		got, err := ReadParquet(path)
		if err != nil {
			t.Fatalf("%s: ReadParquet error: %v", codec, err)
		}
		if len(got) != len(records) {
			t.Fatalf("%s: rows=%d want=%d", codec, len(got), len(records))
		}
		for i := range records {
			if got[i] != records[i] {
				t.Fatalf("%s: row %d=%+v want=%+v", codec, i, got[i], records[i])
			}
		}
	}
}

func TestWriteRecordsRejectsUnknownCodec(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteRecords(&buf, nil, "lzma"); err == nil {
		t.Fatal("expected error for unknown codec")
	}
}
