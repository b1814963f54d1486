package scenario

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

const (
	headerOnset     = "Start transition time"
	headerRamp      = "Length transition time"
	headerFrequency = "MSG frequency"

	// DefaultRampSeconds is used when the metadata leaves the ramp empty
	DefaultRampSeconds = 1.0
)

var (
	ErrNoMetadataRow    = errors.New("metadata has no data row")
	ErrMissingOnset     = errors.New("metadata onset time missing or invalid")
	ErrMissingFrequency = errors.New("metadata frequency missing or invalid")
)

// Scenario describes when and where feedback starts in a recording
type Scenario struct {
	OnsetSeconds float64 `json:"onset_seconds"`
	RampSeconds  float64 `json:"ramp_seconds"`
	TargetHz     float64 `json:"target_hz"`
}

// LoadMetadata parses a header line plus one value line. Only the first
// data row is used; extra columns are ignored.
func LoadMetadata(r io.Reader) (Scenario, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return Scenario{}, ErrNoMetadataRow
		}
		return Scenario{}, fmt.Errorf("failed to read metadata header: %w", err)
	}
	values, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return Scenario{}, ErrNoMetadataRow
		}
		return Scenario{}, fmt.Errorf("failed to read metadata values: %w", err)
	}

	lookup := func(key string) (float64, bool) {
		for i, h := range header {
			if strings.TrimSpace(h) != key || i >= len(values) {
				continue
			}
			v, err := strconv.ParseFloat(strings.TrimSpace(values[i]), 64)
			return v, err == nil
		}
		return 0, false
	}

	onset, ok := lookup(headerOnset)
	if !ok {
		return Scenario{}, ErrMissingOnset
	}
	freq, ok := lookup(headerFrequency)
	if !ok {
		return Scenario{}, ErrMissingFrequency
	}
	ramp, ok := lookup(headerRamp)
	if !ok || ramp == 0 {
		ramp = DefaultRampSeconds
	}

	return Scenario{OnsetSeconds: onset, RampSeconds: ramp, TargetHz: freq}, nil
}

// LoadMetadataFile opens path and parses it with LoadMetadata
func LoadMetadataFile(path string) (Scenario, error) {
	f, err := os.Open(path)
	if err != nil {
		return Scenario{}, fmt.Errorf("failed to open metadata: %w", err)
	}
	defer f.Close()

	s, err := LoadMetadata(f)
	if err != nil {
		return Scenario{}, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}
