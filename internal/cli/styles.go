package cli

import (
	"fmt"
	"io"
	"math"
	"os"
	"strings"
	"time"

	"github.com/RyanBlaney/howl-sonar/algorithms/common"
	"github.com/RyanBlaney/howl-sonar/howling"
	"github.com/RyanBlaney/howl-sonar/internal/meter"
	"github.com/RyanBlaney/howl-sonar/internal/scan"
	"github.com/RyanBlaney/howl-sonar/report"
	"github.com/charmbracelet/lipgloss"
)

// Color palette
var (
	primaryColor  = lipgloss.Color("#0077B6") // sonar blue
	warningColor  = lipgloss.Color("#FFA500")
	criticalColor = lipgloss.Color("#D00000")
	mutedColor    = lipgloss.Color("#888888")
	textColor     = lipgloss.Color("#FFFFFF")
)

// Styles
var (
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(primaryColor).
			MarginBottom(1)

	ErrorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(criticalColor)

	KeyStyle = lipgloss.NewStyle().
			Foreground(mutedColor).
			Width(18)

	ValueStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(textColor)

	meterStyle = lipgloss.NewStyle().
			Foreground(primaryColor)

	levelStyles = map[howling.Level]lipgloss.Style{
		howling.LevelNone:     lipgloss.NewStyle().Foreground(mutedColor).Width(8),
		howling.LevelWarning:  lipgloss.NewStyle().Bold(true).Foreground(warningColor).Width(8),
		howling.LevelCritical: lipgloss.NewStyle().Bold(true).Foreground(criticalColor).Width(8),
	}
)

// LevelLabel renders a verdict with its colour
func LevelLabel(level howling.Level) string {
	style, ok := levelStyles[level]
	if !ok {
		style = levelStyles[howling.LevelNone]
	}
	return style.Render(level.String())
}

// PrintVersion prints version information
func PrintVersion(version string) {
	fmt.Println(TitleStyle.Render("howlscan"))
	fmt.Printf("%s %s\n", KeyStyle.Render("Version:"), ValueStyle.Render(version))
	fmt.Println()
}

// PrintError prints an error message
func PrintError(message string) {
	fmt.Fprintf(os.Stderr, "%s %s\n", ErrorStyle.Render("Error:"), message)
}

// PeakMeter renders peakDB as a bar of width cells over [minDB, maxDB]
func PeakMeter(peakDB, minDB, maxDB float64, width int) string {
	filled := int(math.Round(common.NormalizeDB(peakDB, minDB, maxDB) * float64(width)))
	return meterStyle.Render(strings.Repeat("█", filled)) + strings.Repeat("·", width-filled)
}

// PrintTransition prints one level change with the peak-hold level of its bin
func PrintTransition(w io.Writer, tr scan.Transition, minDB, maxDB float64) {
	r := tr.Result
	if r.Bin < 0 {
		fmt.Fprintf(w, "%8.3fs  %s\n", tr.TimeSeconds, LevelLabel(r.Level))
		return
	}
	fmt.Fprintf(w, "%8.3fs  %s  %9.1f Hz  bin %-5d score %.4f  %s %6.1f dB\n",
		tr.TimeSeconds, LevelLabel(r.Level), r.FrequencyHz, r.Bin, r.Score,
		PeakMeter(tr.PeakDB, minDB, maxDB, 20), tr.PeakDB)
}

// PrintSummary prints the end-of-run summary
func PrintSummary(w io.Writer, s report.Summary) {
	row := func(key, value string) {
		fmt.Fprintf(w, "%s %s\n", KeyStyle.Render(key), ValueStyle.Render(value))
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, TitleStyle.Render("Summary"))
	row("Frames:", fmt.Sprintf("%d (%d warning, %d critical)", s.Frames, s.WarningFrames, s.CriticalFrames))

	detection := func(key string, d *report.Detection) {
		if d == nil {
			row(key, "never")
			return
		}
		row(key, fmt.Sprintf("%.3fs at %.1f Hz (band %g Hz)", d.TimeSeconds, d.FrequencyHz, d.Band))
	}
	detection("First warning:", s.FirstWarning)
	detection("First critical:", s.FirstCritical)

	if s.TargetBand == 0 {
		return
	}
	row("Onset:", fmt.Sprintf("%.3fs, band %g Hz", s.OnsetSeconds, s.TargetBand))
	switch {
	case s.FalseAlarm:
		row("Result:", ErrorStyle.Render("false alarm before onset"))
	case s.FirstCritical == nil:
		row("Result:", ErrorStyle.Render("missed"))
	default:
		row("Latency:", fmt.Sprintf("%.3fs", s.LatencySeconds))
		row("Band distance:", fmt.Sprintf("%d", s.BandDistance))
		row("Score:", fmt.Sprintf("%d (time %d, frequency %d)", s.TotalScore, s.TimeScore, s.FreqScore))
	}
}

// PrintStats prints processing cost and host load
func PrintStats(w io.Writer, s meter.Stats) {
	row := func(key, value string) {
		fmt.Fprintf(w, "%s %s\n", KeyStyle.Render(key), ValueStyle.Render(value))
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, TitleStyle.Render("Processing"))
	row("Elapsed:", s.Elapsed.Round(time.Millisecond).String())
	row("Per frame:", s.PerFrame.String())
	row("Realtime factor:", fmt.Sprintf("%.1fx", s.RealtimeFactor))
	row("Host CPU:", fmt.Sprintf("%.1f%%", s.CPUPercent))
	row("Host RAM:", fmt.Sprintf("%.1f%%", s.RAMPercent))
}
