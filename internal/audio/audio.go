package audio

import "time"

const (
	SampleRate = 44100
	Channels   = 2
	BitDepth   = 16

	// Network listeners get Opus-compatible 48kHz frames.
	StreamRate    = 48000
	FrameDuration = 20 * time.Millisecond
	FrameSize     = 960                  // samples per channel per 20ms frame at StreamRate
	FrameSamples  = FrameSize * Channels // total interleaved samples per frame
	FrameBytes    = FrameSamples * 2     // bytes per frame (int16 = 2 bytes)
)

// Buffer is interleaved stereo PCM (L0,R0,L1,R1,...) at SampleRate.
// Its length is always a whole number of frames.
type Buffer []int16

// Frames returns the number of L/R sample pairs.
func (b Buffer) Frames() int {
	return len(b) / Channels
}

// Duration returns the playback length of the buffer at SampleRate.
func (b Buffer) Duration() time.Duration {
	return time.Duration(b.Frames()) * time.Second / SampleRate
}

// Bytes encodes the buffer as s16le.
func (b Buffer) Bytes() []byte {
	return SamplesToBytes(b)
}

// TrackInfo identifies the rendered program handed to the pipeline.
type TrackInfo struct {
	ID   string
	Name string
	Loop bool
}
