package audio

import (
	"encoding/binary"
	"io"
)

// SamplesToBytes converts int16 samples to little-endian bytes.
func SamplesToBytes(samples []int16) []byte {
	buf := make([]byte, len(samples)*2)
	for i, s := range samples {
		binary.LittleEndian.PutUint16(buf[i*2:], uint16(s))
	}
	return buf
}

// Reader streams a Buffer as s16le without encoding it all up front.
type Reader struct {
	samples Buffer
	pos     int // byte offset
}

// NewReader returns an io.Reader over buf's s16le encoding.
func NewReader(buf Buffer) *Reader {
	return &Reader{samples: buf}
}

func (r *Reader) Read(p []byte) (int, error) {
	total := len(r.samples) * 2
	if r.pos >= total {
		return 0, io.EOF
	}

	n := 0
	for n < len(p) && r.pos < total {
		s := uint16(r.samples[r.pos/2])
		if r.pos%2 == 0 {
			p[n] = byte(s)
		} else {
			p[n] = byte(s >> 8)
		}
		n++
		r.pos++
	}
	return n, nil
}
