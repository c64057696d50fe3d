// Package sequence renders programs into one contiguous sample buffer.
//
// Every chunk is synthesized from phase zero and appended as-is, so a click
// may be audible at chunk and instruction boundaries. Frame counts are
// floored per chunk, not per instruction: a buffer for a program holds
// exactly FrameCount(p, maxChunk) frames.
package sequence

import (
	"github.com/satindergrewal/binaural/internal/audio"
	"github.com/satindergrewal/binaural/internal/program"
	"github.com/satindergrewal/binaural/internal/tone"
)

// SegmentFunc observes each synthesized chunk.
type SegmentFunc func(seconds float64, frames int)

// Builder appends synthesized instructions to an owned, growable buffer.
type Builder struct {
	buf        audio.Buffer
	maxChunk   float64
	sampleRate int
	onSegment  SegmentFunc
}

// Option configures a Builder.
type Option func(*Builder)

// WithMaxChunk overrides tone.MaxChunkSeconds.
func WithMaxChunk(seconds float64) Option {
	return func(b *Builder) {
		if seconds > 0 {
			b.maxChunk = seconds
		}
	}
}

// WithSegmentHook registers fn to be called after every chunk.
func WithSegmentHook(fn SegmentFunc) Option {
	return func(b *Builder) {
		b.onSegment = fn
	}
}

// NewBuilder returns an empty builder at audio.SampleRate.
func NewBuilder(opts ...Option) *Builder {
	b := &Builder{
		maxChunk:   tone.MaxChunkSeconds,
		sampleRate: audio.SampleRate,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Grow reserves room for frames more frames.
func (b *Builder) Grow(frames int) {
	need := frames * audio.Channels
	if cap(b.buf)-len(b.buf) >= need {
		return
	}
	next := make(audio.Buffer, len(b.buf), len(b.buf)+need)
	copy(next, b.buf)
	b.buf = next
}

// Append chunks the instruction's duration and appends each synthesized chunk in order.
func (b *Builder) Append(in program.ToneInstruction) {
	for _, seconds := range tone.Chunk(in.Duration, b.maxChunk) {
		before := len(b.buf)
		b.buf = tone.Append(b.buf, in.LeftFrequency, in.RightFrequency, seconds, in.Volume, b.sampleRate)
		if b.onSegment != nil {
			b.onSegment(seconds, (len(b.buf)-before)/audio.Channels)
		}
	}
}

// Len returns the number of samples appended so far.
func (b *Builder) Len() int {
	return len(b.buf)
}

// Buffer returns the accumulated samples. The builder must not be used afterwards.
func (b *Builder) Buffer() audio.Buffer {
	buf := b.buf
	b.buf = nil
	return buf
}

// Build renders every instruction of p, in order, into a single buffer.
func Build(p program.Program, opts ...Option) audio.Buffer {
	b := NewBuilder(opts...)
	b.Grow(FrameCount(p, b.maxChunk))
	for _, in := range p.Instructions {
		b.Append(in)
	}
	return b.Buffer()
}

// FrameCount returns the number of frames Build produces for p:
// the sum of floor(chunk * SampleRate) over every chunk of every instruction.
func FrameCount(p program.Program, maxChunk float64) int {
	if maxChunk <= 0 {
		maxChunk = tone.MaxChunkSeconds
	}
	frames := 0
	for _, in := range p.Instructions {
		for _, seconds := range tone.Chunk(in.Duration, maxChunk) {
			frames += tone.SampleCount(seconds, audio.SampleRate)
		}
	}
	return frames
}
