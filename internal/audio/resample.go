package audio

import "math"

// Resample converts interleaved stereo samples between rates by linear
// interpolation per channel. The output holds floor(frames*to/from) frames.
func Resample(in []int16, fromRate, toRate int) []int16 {
	if fromRate <= 0 || toRate <= 0 || fromRate == toRate {
		out := make([]int16, len(in))
		copy(out, in)
		return out
	}

	inFrames := len(in) / Channels
	if inFrames == 0 {
		return nil
	}
	outFrames := int(int64(inFrames) * int64(toRate) / int64(fromRate))
	out := make([]int16, outFrames*Channels)

	step := float64(fromRate) / float64(toRate)
	for i := 0; i < outFrames; i++ {
		pos := float64(i) * step
		j := int(pos)
		frac := pos - float64(j)
		k := j + 1
		if k >= inFrames {
			k = inFrames - 1
		}
		for c := 0; c < Channels; c++ {
			a := float64(in[j*Channels+c])
			b := float64(in[k*Channels+c])
			out[i*Channels+c] = int16(math.Round(a + (b-a)*frac))
		}
	}
	return out
}

// ToStream resamples a SampleRate buffer to StreamRate.
func ToStream(buf Buffer) []int16 {
	return Resample(buf, SampleRate, StreamRate)
}
