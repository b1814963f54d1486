package meter

import (
	"runtime"
	"time"

	"github.com/shirou/gopsutil/cpu"
	"github.com/shirou/gopsutil/mem"
)

// Stats describes the cost of one scan
type Stats struct {
	Frames         int           `json:"frames"`
	Elapsed        time.Duration `json:"elapsed"`
	PerFrame       time.Duration `json:"per_frame"`
	RealtimeFactor float64       `json:"realtime_factor"`
	CPUPercent     float64       `json:"cpu_percent"`
	RAMPercent     float64       `json:"ram_percent"`
	Goroutines     int           `json:"goroutines"`
}

// Meter times a scan and samples host load around it
type Meter struct {
	start time.Time
	now   func() time.Time
}

// Start begins timing and primes the CPU counter
func Start() *Meter {
	_, _ = cpu.Percent(0, false)
	return &Meter{start: time.Now(), now: time.Now}
}

// Stop returns the stats for frames covering audioSeconds of signal.
// CPU usage is averaged since Start.
func (m *Meter) Stop(frames int, audioSeconds float64) Stats {
	elapsed := m.now().Sub(m.start)
	s := Stats{
		Frames:     frames,
		Elapsed:    elapsed,
		Goroutines: runtime.NumGoroutine(),
	}
	if frames > 0 {
		s.PerFrame = elapsed / time.Duration(frames)
	}
	if elapsed > 0 {
		s.RealtimeFactor = audioSeconds / elapsed.Seconds()
	}

	if cpuPercentages, err := cpu.Percent(0, false); err == nil && len(cpuPercentages) > 0 {
		s.CPUPercent = cpuPercentages[0]
	}
	if memStats, err := mem.VirtualMemory(); err == nil {
		s.RAMPercent = memStats.UsedPercent
	}
	return s
}
