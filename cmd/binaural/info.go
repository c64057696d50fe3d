package main

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/satindergrewal/binaural/internal/audio"
	"github.com/satindergrewal/binaural/internal/program"
	"github.com/satindergrewal/binaural/internal/sequence"
)

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Describe the program without playing it",
	RunE:  runInfo,
}

func init() {
	rootCmd.AddCommand(infoCmd)
}

func runInfo(cmd *cobra.Command, args []string) error {
	p, err := loadProgram(flags)
	if err != nil {
		return err
	}
	return describe(cmd.OutOrStdout(), programName(flags, p), p)
}

func describe(w io.Writer, name string, p program.Program) error {
	if err := p.Validate(); err != nil {
		return err
	}

	fmt.Fprintf(w, "program: %s\n", name)
	for i, in := range p.Instructions {
		fmt.Fprintf(w, "  %2d  L %g Hz  R %g Hz  beat %g Hz  %gs  %g dBFS\n",
			i+1, in.LeftFrequency, in.RightFrequency, in.Beat(), in.Duration, in.Volume)
	}

	frames := sequence.FrameCount(p, cfg.MaxChunk)
	fmt.Fprintf(w, "nominal duration: %gs\n", p.Duration())
	fmt.Fprintf(w, "frames per pass: %d (%s)\n", frames, frameDuration(frames))

	if !p.Loop {
		fmt.Fprintln(w, "loop: no")
		return nil
	}
	target := cfg.LoopTarget
	if target <= 0 {
		target = sequence.LoopTarget
	}
	reps, err := sequence.Repetitions(p.Duration(), target.Seconds())
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "loop: %d repetitions, %d frames (%s), then repeats until interrupted\n",
		reps, frames*reps, frameDuration(frames*reps))
	return nil
}

func frameDuration(frames int) time.Duration {
	return time.Duration(frames) * time.Second / audio.SampleRate
}
