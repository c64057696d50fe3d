package sequence

import (
	"fmt"
	"math"
	"time"

	"github.com/satindergrewal/binaural/internal/audio"
	"github.com/satindergrewal/binaural/internal/program"
	"github.com/satindergrewal/binaural/internal/tone"
)

// LoopTarget is how much nominal playback a looping program is expanded to.
const LoopTarget = 2 * time.Hour

// PlaybackSpec is what a sink receives: the rendered buffer and whether to repeat it.
type PlaybackSpec struct {
	Buffer audio.Buffer
	Loop   bool
}

// Repetitions returns floor(target / nominal). A program longer than target
// still plays once.
func Repetitions(nominal, target float64) (int, error) {
	if !(nominal > 0) || math.IsInf(nominal, 1) {
		return 0, fmt.Errorf("%w: nominal loop duration must be > 0, got %v", program.ErrValidation, nominal)
	}
	reps := int(math.Floor(target / nominal))
	if reps < 1 {
		reps = 1
	}
	return reps, nil
}

// Expand tiles buf end-to-end Repetitions(nominal, target) times.
// An empty buf stays empty.
func Expand(buf audio.Buffer, nominal, target float64) (audio.Buffer, error) {
	reps, err := Repetitions(nominal, target)
	if err != nil {
		return nil, err
	}
	if len(buf) == 0 {
		return audio.Buffer{}, nil
	}
	out := make(audio.Buffer, 0, len(buf)*reps)
	for i := 0; i < reps; i++ {
		out = append(out, buf...)
	}
	return out, nil
}

// RenderOptions tune Render. Zero values select the defaults.
type RenderOptions struct {
	MaxChunk   float64       // seconds, default tone.MaxChunkSeconds
	LoopTarget time.Duration // default LoopTarget
	OnSegment  SegmentFunc
}

// Render validates p, builds its buffer and, when p.Loop is set, expands it
// to the loop target. A program too short to produce a single frame is
// rejected with program.ErrValidation.
func Render(p program.Program, opts RenderOptions) (PlaybackSpec, error) {
	if err := p.Validate(); err != nil {
		return PlaybackSpec{}, err
	}

	maxChunk := opts.MaxChunk
	if maxChunk <= 0 {
		maxChunk = tone.MaxChunkSeconds
	}
	target := opts.LoopTarget
	if target <= 0 {
		target = LoopTarget
	}

	if FrameCount(p, maxChunk) == 0 {
		return PlaybackSpec{}, fmt.Errorf("%w: program of %vs renders no frames at %d Hz",
			program.ErrValidation, p.Duration(), audio.SampleRate)
	}

	buildOpts := []Option{WithMaxChunk(maxChunk)}
	if opts.OnSegment != nil {
		buildOpts = append(buildOpts, WithSegmentHook(opts.OnSegment))
	}
	buf := Build(p, buildOpts...)

	if !p.Loop {
		return PlaybackSpec{Buffer: buf}, nil
	}
	looped, err := Expand(buf, p.Duration(), target.Seconds())
	if err != nil {
		return PlaybackSpec{}, err
	}
	return PlaybackSpec{Buffer: looped, Loop: true}, nil
}
