package program

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Format is the encoding of a spec file.
type Format int

const (
	FormatJSON Format = iota
	FormatYAML
)

func (f Format) String() string {
	switch f {
	case FormatYAML:
		return "yaml"
	default:
		return "json"
	}
}

// FormatFromPath picks YAML for .yaml/.yml files and JSON otherwise.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// wire shapes use pointers so missing keys can be told apart from zeros.
type wireInstruction struct {
	LeftFrequency  *float64 `json:"left_frequency" yaml:"left_frequency"`
	RightFrequency *float64 `json:"right_frequency" yaml:"right_frequency"`
	Duration       *float64 `json:"duration" yaml:"duration"`
	Volume         *float64 `json:"volume" yaml:"volume"`
}

type wireCompact struct {
	Base    *float64    `json:"base" yaml:"base"`
	Program [][]float64 `json:"program" yaml:"program"`
	Loop    bool        `json:"loop" yaml:"loop"`
}

// Load reads and parses the spec file at path. The format follows the file extension.
func Load(path string) (Spec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: read spec: %w", ErrFileAccess, err)
	}
	spec, err := Parse(data, FormatFromPath(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return spec, nil
}

// LoadProgram loads the spec file at path and resolves it into a Program.
func LoadProgram(path string) (Program, error) {
	spec, err := Load(path)
	if err != nil {
		return Program{}, err
	}
	p, err := spec.Program()
	if err != nil {
		return Program{}, fmt.Errorf("%s: %w", path, err)
	}
	return p, nil
}

// Parse decodes a spec. A list is an ExplicitSpec; an object with a "base"
// key is a CompactSpec. Values are not validated until Spec.Program.
func Parse(data []byte, format Format) (Spec, error) {
	if format == FormatYAML {
		return parseYAML(data)
	}
	return parseJSON(data)
}

func parseJSON(data []byte) (Spec, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("%w: empty spec", ErrParse)
	}
	if !json.Valid(trimmed) {
		var v any
		err := json.Unmarshal(trimmed, &v)
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}

	switch trimmed[0] {
	case '[':
		var items []wireInstruction
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return nil, decodeError(err)
		}
		return explicitFromWire(items)
	case '{':
		var keys map[string]json.RawMessage
		if err := json.Unmarshal(trimmed, &keys); err != nil {
			return nil, decodeError(err)
		}
		if _, ok := keys["base"]; !ok {
			return nil, fmt.Errorf("%w: object spec needs a %q key", ErrSchema, "base")
		}
		var c wireCompact
		if err := json.Unmarshal(trimmed, &c); err != nil {
			return nil, decodeError(err)
		}
		return compactFromWire(c)
	default:
		return nil, fmt.Errorf("%w: spec must be a list of instructions or an object with %q", ErrSchema, "base")
	}
}

func parseYAML(data []byte) (Spec, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}
	if root.Kind != yaml.DocumentNode || len(root.Content) == 0 {
		return nil, fmt.Errorf("%w: empty spec", ErrParse)
	}

	doc := root.Content[0]
	switch doc.Kind {
	case yaml.SequenceNode:
		var items []wireInstruction
		if err := doc.Decode(&items); err != nil {
			return nil, decodeError(err)
		}
		return explicitFromWire(items)
	case yaml.MappingNode:
		if !hasKey(doc, "base") {
			return nil, fmt.Errorf("%w: object spec needs a %q key", ErrSchema, "base")
		}
		var c wireCompact
		if err := doc.Decode(&c); err != nil {
			return nil, decodeError(err)
		}
		return compactFromWire(c)
	default:
		return nil, fmt.Errorf("%w: spec must be a list of instructions or an object with %q", ErrSchema, "base")
	}
}

func hasKey(n *yaml.Node, key string) bool {
	for i := 0; i+1 < len(n.Content); i += 2 {
		if n.Content[i].Value == key {
			return true
		}
	}
	return false
}

// decodeError classifies type mismatches as schema errors and everything else as parse errors.
func decodeError(err error) error {
	var jsonType *json.UnmarshalTypeError
	var yamlType *yaml.TypeError
	if errors.As(err, &jsonType) || errors.As(err, &yamlType) {
		return fmt.Errorf("%w: %v", ErrSchema, err)
	}
	return fmt.Errorf("%w: %v", ErrParse, err)
}

func explicitFromWire(items []wireInstruction) (Spec, error) {
	if len(items) == 0 {
		return nil, fmt.Errorf("%w: instruction list is empty", ErrSchema)
	}
	spec := ExplicitSpec{Instructions: make([]ToneInstruction, 0, len(items))}
	for i, w := range items {
		in, err := w.instruction()
		if err != nil {
			return nil, fmt.Errorf("instruction %d: %w", i, err)
		}
		spec.Instructions = append(spec.Instructions, in)
	}
	return spec, nil
}

func (w wireInstruction) instruction() (ToneInstruction, error) {
	fields := []struct {
		name  string
		value *float64
	}{
		{"left_frequency", w.LeftFrequency},
		{"right_frequency", w.RightFrequency},
		{"duration", w.Duration},
		{"volume", w.Volume},
	}
	for _, f := range fields {
		if f.value == nil {
			return ToneInstruction{}, fmt.Errorf("%w: missing %q", ErrSchema, f.name)
		}
	}
	return ToneInstruction{
		LeftFrequency:  *w.LeftFrequency,
		RightFrequency: *w.RightFrequency,
		Duration:       *w.Duration,
		Volume:         *w.Volume,
	}, nil
}

func compactFromWire(c wireCompact) (Spec, error) {
	if c.Base == nil {
		return nil, fmt.Errorf("%w: missing %q", ErrSchema, "base")
	}
	if c.Program == nil {
		return nil, fmt.Errorf("%w: missing %q", ErrSchema, "program")
	}
	if len(c.Program) == 0 {
		return nil, fmt.Errorf("%w: program is empty", ErrSchema)
	}

	spec := CompactSpec{
		Base:  *c.Base,
		Steps: make([]Step, 0, len(c.Program)),
		Loop:  c.Loop,
	}
	for i, pair := range c.Program {
		if len(pair) != 2 {
			return nil, fmt.Errorf("%w: program step %d must be [tone_offset, duration], got %d values", ErrSchema, i, len(pair))
		}
		spec.Steps = append(spec.Steps, Step{Offset: pair[0], Duration: pair[1]})
	}
	return spec, nil
}
