package program

// Spec is a program as written in a spec file, before canonicalisation.
// It is either an ExplicitSpec or a CompactSpec.
type Spec interface {
	// Program resolves the spec into a validated Program.
	Program() (Program, error)
	isSpec()
}

// ExplicitSpec lists every instruction. It never loops.
type ExplicitSpec struct {
	Instructions []ToneInstruction
}

func (ExplicitSpec) isSpec() {}

// Program validates and returns the listed instructions.
func (s ExplicitSpec) Program() (Program, error) {
	p := Program{Instructions: append([]ToneInstruction(nil), s.Instructions...)}
	if err := p.Validate(); err != nil {
		return Program{}, err
	}
	return p, nil
}

// Step is one compact-form entry: a right-channel offset from the base and its duration.
type Step struct {
	Offset   float64
	Duration float64
}

// CompactSpec holds a base frequency and a sequence of offsets from it.
type CompactSpec struct {
	Base  float64
	Steps []Step
	Loop  bool
}

func (CompactSpec) isSpec() {}

// Program expands every step to left=Base, right=Base+Offset at DefaultVolume.
func (s CompactSpec) Program() (Program, error) {
	p := Program{
		Instructions: make([]ToneInstruction, 0, len(s.Steps)),
		Loop:         s.Loop,
	}
	for _, st := range s.Steps {
		p.Instructions = append(p.Instructions, ToneInstruction{
			LeftFrequency:  s.Base,
			RightFrequency: s.Base + st.Offset,
			Duration:       st.Duration,
			Volume:         DefaultVolume,
		})
	}
	if err := p.Validate(); err != nil {
		return Program{}, err
	}
	return p, nil
}
