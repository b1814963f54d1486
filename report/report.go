package report

import (
	"math"

	"github.com/RyanBlaney/howl-sonar/howling"
	"github.com/RyanBlaney/howl-sonar/scenario"
)

// Record is one analysed frame
type Record struct {
	FrameIndex  int64   `parquet:"frame_index" json:"frame_index"`
	TimeSeconds float64 `parquet:"time_seconds" json:"time_seconds"`
	Bin         int64   `parquet:"bin" json:"bin"`
	FrequencyHz float64 `parquet:"frequency_hz" json:"frequency_hz"`
	Level       string  `parquet:"level,dict" json:"level"`
	Score       float64 `parquet:"score" json:"score"`
}

// NewRecord converts an engine result taken at time t
func NewRecord(frameIndex int64, t float64, r howling.HowlingResult) Record {
	return Record{
		FrameIndex:  frameIndex,
		TimeSeconds: t,
		Bin:         int64(r.Bin),
		FrequencyHz: r.FrequencyHz,
		Level:       r.Level.String(),
		Score:       r.Score,
	}
}

// Detection marks the first frame that reached a level
type Detection struct {
	TimeSeconds float64 `json:"time_seconds"`
	FrequencyHz float64 `json:"frequency_hz"`
	Band        float64 `json:"band"`
}

// Summary condenses a run against its known scenario
type Summary struct {
	Frames         int        `json:"frames"`
	WarningFrames  int        `json:"warning_frames"`
	CriticalFrames int        `json:"critical_frames"`
	FirstWarning   *Detection `json:"first_warning,omitempty"`
	FirstCritical  *Detection `json:"first_critical,omitempty"`

	// Fields below are only set when a scenario is known
	OnsetSeconds float64 `json:"onset_seconds,omitempty"`
	TargetBand   float64 `json:"target_band,omitempty"`
	// FalseAlarm is set when the first critical frame precedes the onset
	FalseAlarm     bool    `json:"false_alarm"`
	LatencySeconds float64 `json:"latency_seconds,omitempty"`
	BandDistance   int     `json:"band_distance,omitempty"`
	TimeScore      int     `json:"time_score"`
	FreqScore      int     `json:"freq_score"`
	TotalScore     int     `json:"total_score"`
}

// Summarize scans records in order. sc may be nil for recordings without
// metadata, in which case only the detection times are filled.
func Summarize(records []Record, sc *scenario.Scenario) Summary {
	s := Summary{Frames: len(records)}
	for _, rec := range records {
		switch rec.Level {
		case howling.LevelWarning.String():
			s.WarningFrames++
			if s.FirstWarning == nil {
				s.FirstWarning = newDetection(rec)
			}
		case howling.LevelCritical.String():
			s.CriticalFrames++
			if s.FirstCritical == nil {
				s.FirstCritical = newDetection(rec)
			}
		}
	}

	if sc == nil {
		return s
	}

	_, s.TargetBand = scenario.NearestBand(sc.TargetHz)
	s.OnsetSeconds = sc.OnsetSeconds
	if s.FirstCritical == nil {
		return s
	}
	if s.FirstCritical.TimeSeconds < sc.OnsetSeconds {
		s.FalseAlarm = true
		return s
	}

	s.LatencySeconds = s.FirstCritical.TimeSeconds - sc.OnsetSeconds
	s.BandDistance = scenario.BandDistance(s.FirstCritical.FrequencyHz, sc.TargetHz)
	s.TimeScore = timeScore(s.LatencySeconds)
	s.FreqScore = freqScore(s.BandDistance)
	s.TotalScore = int(math.Round(float64(s.TimeScore+s.FreqScore) / 2))
	return s
}

func newDetection(rec Record) *Detection {
	_, band := scenario.NearestBand(rec.FrequencyHz)
	return &Detection{
		TimeSeconds: rec.TimeSeconds,
		FrequencyHz: rec.FrequencyHz,
		Band:        band,
	}
}

func timeScore(latency float64) int {
	switch {
	case latency < 0.5:
		return 100
	case latency < 1.0:
		return 80
	case latency < 1.5:
		return 50
	default:
		return 10
	}
}

func freqScore(distance int) int {
	switch distance {
	case 0:
		return 100
	case 1:
		return 70
	case 2:
		return 30
	default:
		return 0
	}
}
