package tone

import "math"

// Chunk splits seconds into full maxChunk pieces followed by the remainder.
// The remainder chunk is omitted when seconds divides evenly.
func Chunk(seconds, maxChunk float64) []float64 {
	if seconds <= 0 {
		return nil
	}
	if maxChunk <= 0 {
		return []float64{seconds}
	}

	full := int(seconds / maxChunk)
	remainder := math.Mod(seconds, maxChunk)

	chunks := make([]float64, 0, full+1)
	for i := 0; i < full; i++ {
		chunks = append(chunks, maxChunk)
	}
	if remainder > 0 {
		chunks = append(chunks, remainder)
	}
	return chunks
}
