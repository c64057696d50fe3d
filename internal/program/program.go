// Package program holds binaural tone programs and the spec files they are loaded from.
package program

import (
	"errors"
	"fmt"
	"math"
)

// DefaultVolume is applied to every instruction expanded from a compact spec.
const DefaultVolume = -20.0

var (
	ErrFileAccess = errors.New("file access")
	ErrParse      = errors.New("parse")
	ErrSchema     = errors.New("schema")
	ErrValidation = errors.New("validation")
)

// ToneInstruction is one timed frequency pair. Frequencies are in Hz,
// Duration in seconds and Volume in dBFS.
type ToneInstruction struct {
	LeftFrequency  float64 `json:"left_frequency" yaml:"left_frequency"`
	RightFrequency float64 `json:"right_frequency" yaml:"right_frequency"`
	Duration       float64 `json:"duration" yaml:"duration"`
	Volume         float64 `json:"volume" yaml:"volume"`
}

// NewInstruction returns a validated instruction.
func NewInstruction(left, right, duration, volume float64) (ToneInstruction, error) {
	in := ToneInstruction{
		LeftFrequency:  left,
		RightFrequency: right,
		Duration:       duration,
		Volume:         volume,
	}
	if err := in.Validate(); err != nil {
		return ToneInstruction{}, err
	}
	return in, nil
}

// Validate rejects non-positive frequencies and durations and non-finite volumes.
func (in ToneInstruction) Validate() error {
	if !positive(in.LeftFrequency) {
		return fmt.Errorf("%w: left_frequency must be > 0, got %v", ErrValidation, in.LeftFrequency)
	}
	if !positive(in.RightFrequency) {
		return fmt.Errorf("%w: right_frequency must be > 0, got %v", ErrValidation, in.RightFrequency)
	}
	if !positive(in.Duration) {
		return fmt.Errorf("%w: duration must be > 0, got %v", ErrValidation, in.Duration)
	}
	if math.IsNaN(in.Volume) || math.IsInf(in.Volume, 0) {
		return fmt.Errorf("%w: volume must be finite, got %v", ErrValidation, in.Volume)
	}
	return nil
}

// Beat returns the perceived beat frequency, |right - left|.
func (in ToneInstruction) Beat() float64 {
	return math.Abs(in.RightFrequency - in.LeftFrequency)
}

func positive(v float64) bool {
	return v > 0 && !math.IsInf(v, 1)
}

// Program is an ordered list of instructions; slice order is playback order.
type Program struct {
	Instructions []ToneInstruction
	Loop         bool
}

// Duration returns the nominal length of one pass in seconds.
func (p Program) Duration() float64 {
	var total float64
	for _, in := range p.Instructions {
		total += in.Duration
	}
	return total
}

// Validate checks that the program has instructions and that each is valid.
func (p Program) Validate() error {
	if len(p.Instructions) == 0 {
		return fmt.Errorf("%w: program has no instructions", ErrSchema)
	}
	for i, in := range p.Instructions {
		if err := in.Validate(); err != nil {
			return fmt.Errorf("instruction %d: %w", i, err)
		}
	}
	return nil
}
