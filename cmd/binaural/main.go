package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/satindergrewal/binaural/internal/config"
	"github.com/satindergrewal/binaural/internal/metrics"
	"github.com/satindergrewal/binaural/internal/program"
	"github.com/satindergrewal/binaural/internal/sequence"
)

var (
	cfg    = config.Load()
	logger = zap.NewNop()
)

// programFlags select the program to play: a spec file, or one scalar instruction.
type programFlags struct {
	left, right float64
	duration    float64
	volume      float64
	specFile    string
	loop        bool
	debug       bool
}

var flags programFlags

var rootCmd = &cobra.Command{
	Use:   "binaural",
	Short: "Play binaural beat programs",
	Long: `Synthesizes stereo sine tones whose left and right frequencies differ slightly
and plays them on the default audio device. A program is either a single tone
given by flags or a JSON/YAML spec file.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setupLogger,
	RunE:              runPlay,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.Float64VarP(&flags.left, "left_frequency", "l", cfg.LeftFrequency, "left ear frequency in Hz")
	pf.Float64VarP(&flags.right, "right_frequency", "r", cfg.RightFrequency, "right ear frequency in Hz")
	pf.Float64VarP(&flags.duration, "duration", "d", cfg.Duration, "tone duration in seconds")
	pf.Float64VarP(&flags.volume, "volume", "v", cfg.Volume, "volume in dBFS")
	pf.StringVarP(&flags.specFile, "spec_file", "s", "", "JSON or YAML program file; overrides the tone flags")
	pf.BoolVar(&flags.loop, "loop", false, "repeat the program until interrupted")
	pf.BoolVar(&flags.debug, "debug", false, "development logging at debug level")
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	cancel()
	logger.Sync()

	if err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("binaural failed", zap.Error(err))
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func setupLogger(cmd *cobra.Command, args []string) error {
	l, err := newLogger(cfg.LogLevel, flags.debug)
	if err != nil {
		return err
	}
	logger = l
	return nil
}

func newLogger(level string, debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	lvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return nil, fmt.Errorf("log level %q: %w", level, err)
	}
	zc := zap.NewProductionConfig()
	zc.Level = lvl
	return zc.Build()
}

// loadProgram builds the program from the spec file if one was given,
// otherwise from the scalar tone flags. --loop forces looping either way.
func loadProgram(f programFlags) (program.Program, error) {
	if f.specFile != "" {
		p, err := program.LoadProgram(f.specFile)
		if err != nil {
			return program.Program{}, err
		}
		if f.loop {
			p.Loop = true
		}
		return p, nil
	}

	in, err := program.NewInstruction(f.left, f.right, f.duration, f.volume)
	if err != nil {
		return program.Program{}, err
	}
	return program.Program{Instructions: []program.ToneInstruction{in}, Loop: f.loop}, nil
}

func programName(f programFlags, p program.Program) string {
	if f.specFile != "" {
		return filepath.Base(f.specFile)
	}
	in := p.Instructions[0]
	return fmt.Sprintf("%g/%g Hz", in.LeftFrequency, in.RightFrequency)
}

func render(p program.Program) (sequence.PlaybackSpec, error) {
	start := time.Now()
	spec, err := sequence.Render(p, sequence.RenderOptions{
		MaxChunk:   cfg.MaxChunk,
		LoopTarget: cfg.LoopTarget,
		OnSegment:  metrics.ObserveSegment,
	})
	if err != nil {
		return sequence.PlaybackSpec{}, err
	}
	elapsed := time.Since(start)
	metrics.RenderLatency.Observe(elapsed.Seconds())
	metrics.RenderedSamples.Set(float64(len(spec.Buffer)))

	logger.Info("program rendered",
		zap.Int("instructions", len(p.Instructions)),
		zap.Float64("nominal_seconds", p.Duration()),
		zap.Duration("length", spec.Buffer.Duration()),
		zap.Bool("loop", spec.Loop),
		zap.Duration("elapsed", elapsed),
	)
	return spec, nil
}
