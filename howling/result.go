package howling

import (
	"fmt"
)

// Level is the per-frame howling verdict
type Level int

const (
	LevelNone Level = iota
	LevelWarning
	LevelCritical
)

func (l Level) String() string {
	switch l {
	case LevelNone:
		return "none"
	case LevelWarning:
		return "warning"
	case LevelCritical:
		return "critical"
	default:
		return fmt.Sprintf("level(%d)", int(l))
	}
}

// ParseLevel is the inverse of Level.String
func ParseLevel(s string) (Level, error) {
	switch s {
	case "none":
		return LevelNone, nil
	case "warning":
		return LevelWarning, nil
	case "critical":
		return LevelCritical, nil
	default:
		return LevelNone, fmt.Errorf("unknown howling level %q", s)
	}
}

// MarshalText encodes the level by name so JSON output reads "critical"
// rather than 2.
func (l Level) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

func (l *Level) UnmarshalText(text []byte) error {
	parsed, err := ParseLevel(string(text))
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}

// HowlingResult is emitted once per frame. Bin is -1 when no bin could be
// scored (warm-up, silence, or an all-zero window).
type HowlingResult struct {
	Bin         int     `json:"bin"`
	FrequencyHz float64 `json:"frequency_hz"`
	Level       Level   `json:"level"`
	Score       float64 `json:"score"`
}

// Detected reports whether the frame carried a warning or critical verdict
func (r HowlingResult) Detected() bool {
	return r.Level != LevelNone
}

func noDetection() HowlingResult {
	return HowlingResult{Bin: -1, Level: LevelNone}
}
