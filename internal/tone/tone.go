// Package tone synthesizes fixed-frequency stereo sine segments and splits
// long durations into bounded synthesis chunks.
package tone

import (
	"math"

	"github.com/satindergrewal/binaural/internal/audio"
)

const (
	// FullScale is the peak amplitude of an undamped sine.
	FullScale = 32767

	// MaxChunkSeconds bounds how much audio a single Synthesize call produces.
	MaxChunkSeconds = 60.0
)

// Gain converts a dBFS level to a linear amplitude factor.
func Gain(dbfs float64) float64 {
	return math.Pow(10, dbfs/20)
}

// SampleCount is the number of frames generated for seconds of audio:
// the half-open time range [0, seconds) stepped by 1/sampleRate.
func SampleCount(seconds float64, sampleRate int) int {
	if seconds <= 0 || sampleRate <= 0 {
		return 0
	}
	return int(math.Floor(seconds * float64(sampleRate)))
}

// Synthesize generates an interleaved stereo segment with leftHz on the left
// channel and rightHz on the right, attenuated by volume dBFS.
// Phase starts at zero on every call.
func Synthesize(leftHz, rightHz, seconds, volume float64, sampleRate int) audio.Buffer {
	return Append(nil, leftHz, rightHz, seconds, volume, sampleRate)
}

// Append synthesizes like Synthesize and appends the samples to dst.
func Append(dst audio.Buffer, leftHz, rightHz, seconds, volume float64, sampleRate int) audio.Buffer {
	n := SampleCount(seconds, sampleRate)
	if n == 0 {
		return dst
	}

	start := len(dst)
	dst = grow(dst, n*audio.Channels)
	out := dst[start:]

	gain := Gain(volume)
	rate := float64(sampleRate)
	for i := 0; i < n; i++ {
		t := float64(i) / rate
		out[i*2] = scale(quantize(math.Sin(2*math.Pi*leftHz*t)), gain)
		out[i*2+1] = scale(quantize(math.Sin(2*math.Pi*rightHz*t)), gain)
	}
	return dst
}

func grow(dst audio.Buffer, n int) audio.Buffer {
	if cap(dst)-len(dst) < n {
		next := make(audio.Buffer, len(dst), len(dst)+n)
		copy(next, dst)
		dst = next
	}
	return dst[:len(dst)+n]
}

func quantize(x float64) int16 {
	return clamp(math.Round(x * FullScale))
}

// scale applies gain after quantization.
func scale(s int16, gain float64) int16 {
	if gain == 1 {
		return s
	}
	return clamp(math.Round(float64(s) * gain))
}

func clamp(v float64) int16 {
	if v > math.MaxInt16 {
		return math.MaxInt16
	}
	if v < math.MinInt16 {
		return math.MinInt16
	}
	return int16(v)
}
