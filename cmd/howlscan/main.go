package main

import (
	"context"
	"fmt"
	"math/rand/v2"
	"os"
	"os/signal"
	"time"

	"github.com/RyanBlaney/howl-sonar/internal/cli"
	"github.com/RyanBlaney/howl-sonar/internal/meter"
	"github.com/RyanBlaney/howl-sonar/internal/scan"
	"github.com/RyanBlaney/howl-sonar/logging"
	"github.com/RyanBlaney/howl-sonar/report"
	"github.com/RyanBlaney/howl-sonar/scenario"
	"github.com/RyanBlaney/howl-sonar/transcode"
	"github.com/alecthomas/kong"
)

var (
	version = "0.1.0"
)

// CLI defines the command-line interface
type CLI struct {
	Version bool   `short:"v" help:"Show version information"`
	File    string `arg:"" optional:"" type:"existingfile" help:"Audio file to scan (decoded with ffmpeg)"`

	Synth    bool          `help:"Scan a synthesized feedback scenario instead of a file"`
	Onset    float64       `help:"Synth onset time in seconds (random when negative)" default:"-1"`
	Target   float64       `help:"Synth howl frequency in Hz (random ISO band when zero)" default:"0"`
	Duration time.Duration `help:"Synth length" default:"12s"`
	Seed     uint64        `help:"Synth noise and scenario seed" default:"1"`
	Metadata string        `type:"existingfile" help:"CSV with onset, ramp and frequency for the file"`

	FFTSize      int     `name:"fft-size" help:"Analyser FFT size" default:"2048"`
	SampleRate   int     `name:"sample-rate" help:"Analysis sample rate" default:"44100"`
	FPS          float64 `name:"fps" help:"Analysis frames per second" default:"60"`
	History      int     `help:"History capacity in frames" default:"64"`
	Alpha        float64 `help:"Dynamic threshold alpha" default:"6"`
	Ninos        float64 `help:"NINOS score threshold" default:"0.15"`
	SilenceFloor float64 `name:"silence-floor" help:"Silence floor in dB" default:"-80"`
	Decay        float64 `help:"Peak-hold decay in dB per frame" default:"0.5"`
	Workers      int     `help:"Parallel scoring workers (0 scores inline)" default:"0"`

	Parquet     string `type:"path" help:"Write per-frame results to this parquet file"`
	Compression string `help:"Parquet compression" enum:"snappy,zstd,gzip,none" default:"snappy"`
	Events      string `type:"path" help:"Write level transitions as JSON lines to this file"`
	EventsCodec string `name:"events-codec" help:"Event log compression" enum:"none,gzip,snappy,zstd,brotli,lz4" default:"none"`
	Stats       bool   `help:"Print processing cost and host load after the scan"`
	LogFormat   string `name:"log-format" help:"Log output format" enum:"text,json" default:"text"`
	Debug       bool   `help:"Enable debug logging"`
}

func main() {
	cliArgs := &CLI{}
	ctx := kong.Parse(cliArgs,
		kong.Name("howlscan"),
		kong.Description("Acoustic feedback (howling) detector"),
		kong.UsageOnError(),
		kong.Help(cli.StyledHelpPrinter(kong.HelpOptions{Compact: true})),
	)

	if cliArgs.Version {
		cli.PrintVersion(version)
		os.Exit(0)
	}

	if cliArgs.File == "" && !cliArgs.Synth {
		cli.PrintError("Specify an audio file or --synth")
		ctx.PrintUsage(false)
		os.Exit(1)
	}

	if err := setupLogging(cliArgs); err != nil {
		cli.PrintError(err.Error())
		os.Exit(1)
	}

	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err := run(runCtx, cliArgs)
	if zl, ok := logging.GetGlobalLogger().(*logging.ZapLogger); ok {
		_ = zl.Sync()
	}
	if err != nil {
		cli.PrintError(err.Error())
		os.Exit(1)
	}
}

func setupLogging(c *CLI) error {
	level := logging.InfoLevel
	if c.Debug {
		level = logging.DebugLevel
	}

	if c.LogFormat == "json" {
		zl, err := logging.NewZapLogger()
		if err != nil {
			return fmt.Errorf("failed to create zap logger: %w", err)
		}
		logging.SetGlobalLogger(zl)
	}
	logging.SetLevel(level)
	return nil
}

func run(ctx context.Context, c *CLI) error {
	samples, sc, err := loadSignal(ctx, c)
	if err != nil {
		return err
	}

	opts := scan.DefaultOptions()
	opts.Analyser.FFTSize = c.FFTSize
	opts.Analyser.SampleRate = float64(c.SampleRate)
	opts.FramesPerSecond = c.FPS
	opts.Engine.HistoryCapacity = c.History
	opts.Engine.DynamicThresholdAlpha = c.Alpha
	opts.Engine.NinosThreshold = c.Ninos
	opts.Engine.SilenceFloorDB = c.SilenceFloor
	opts.Engine.DecayPerFrameDB = c.Decay
	opts.Engine.ScoringWorkers = c.Workers

	scanner, err := scan.NewScanner(opts)
	if err != nil {
		return err
	}

	events, closeEvents, err := openEventLog(c)
	if err != nil {
		return err
	}

	m := meter.Start()
	records, err := scanner.Run(ctx, samples, func(tr scan.Transition) {
		cli.PrintTransition(os.Stdout, tr, opts.Analyser.MinDB, opts.Analyser.MaxDB)
		if events == nil {
			return
		}
		if werr := events.Write(transitionEvent(tr)); werr != nil {
			logging.Error(werr, "Failed to write event")
		}
	})
	stats := m.Stop(len(records), float64(len(samples))/opts.Analyser.SampleRate)
	if cerr := closeEvents(); cerr != nil {
		logging.Error(cerr, "Failed to close event log", logging.Fields{"path": c.Events})
	}
	if err != nil {
		return fmt.Errorf("scan interrupted: %w", err)
	}

	cli.PrintSummary(os.Stdout, report.Summarize(records, sc))
	if c.Stats {
		cli.PrintStats(os.Stdout, stats)
	}

	if c.Parquet != "" {
		if err := report.WriteParquet(c.Parquet, records, c.Compression); err != nil {
			return err
		}
		logging.Info("Wrote frame report", logging.Fields{
			"path": c.Parquet,
			"rows": len(records),
		})
	}
	return nil
}

// loadSignal returns mono samples at the analysis rate plus the scenario
// they should be judged against, if any.
func loadSignal(ctx context.Context, c *CLI) ([]float64, *scenario.Scenario, error) {
	if c.Synth {
		cfg := scenario.DefaultSynthConfig()
		cfg.SampleRate = c.SampleRate
		cfg.Duration = c.Duration
		cfg.Seed = c.Seed
		cfg.Scenario = syntheticScenario(c)

		samples, err := scenario.Synthesize(cfg)
		if err != nil {
			return nil, nil, err
		}
		logging.Info("Synthesized scenario", logging.Fields{
			"onset_seconds": cfg.Scenario.OnsetSeconds,
			"target_hz":     cfg.Scenario.TargetHz,
		})
		return samples, &cfg.Scenario, nil
	}

	decoderCfg := transcode.DefaultDecoderConfig()
	decoderCfg.TargetSampleRate = c.SampleRate
	decoder := transcode.NewDecoder(decoderCfg)
	if err := decoder.ValidateConfig(ctx); err != nil {
		return nil, nil, err
	}
	audio, err := decoder.DecodeFile(ctx, c.File)
	if err != nil {
		return nil, nil, err
	}

	if c.Metadata == "" {
		return audio.PCM, nil, nil
	}
	sc, err := scenario.LoadMetadataFile(c.Metadata)
	if err != nil {
		return nil, nil, err
	}
	return audio.PCM, &sc, nil
}

// openEventLog returns a nil writer when no event log was requested
func openEventLog(c *CLI) (*report.EventWriter, func() error, error) {
	if c.Events == "" {
		return nil, func() error { return nil }, nil
	}
	f, err := os.Create(c.Events)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create event log: %w", err)
	}
	ew, err := report.NewEventWriter(f, c.EventsCodec)
	if err != nil {
		f.Close()
		return nil, nil, err
	}
	return ew, func() error {
		if err := ew.Close(); err != nil {
			f.Close()
			return err
		}
		return f.Close()
	}, nil
}

func transitionEvent(tr scan.Transition) report.Event {
	return report.Event{
		TimeSeconds: tr.TimeSeconds,
		From:        tr.From.String(),
		To:          tr.Result.Level.String(),
		Bin:         tr.Result.Bin,
		FrequencyHz: tr.Result.FrequencyHz,
		Score:       tr.Result.Score,
	}
}

func syntheticScenario(c *CLI) scenario.Scenario {
	rng := rand.New(rand.NewPCG(c.Seed, c.Seed+1))
	sc, _ := scenario.RandomScenario(rng, 4, 8, 400, 4000)
	if c.Onset >= 0 {
		sc.OnsetSeconds = c.Onset
	}
	if c.Target > 0 {
		sc.TargetHz = c.Target
	}
	return sc
}
