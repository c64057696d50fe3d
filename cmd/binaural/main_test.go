package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/satindergrewal/binaural/internal/audio"
	"github.com/satindergrewal/binaural/internal/program"
	"github.com/satindergrewal/binaural/internal/sequence"
)

func TestLoadProgramScalar(t *testing.T) {
	p, err := loadProgram(programFlags{left: 200, right: 210, duration: 30, volume: -6})
	require.NoError(t, err)

	require.Len(t, p.Instructions, 1)
	assert.Equal(t, program.ToneInstruction{
		LeftFrequency:  200,
		RightFrequency: 210,
		Duration:       30,
		Volume:         -6,
	}, p.Instructions[0])
	assert.False(t, p.Loop)
}

func TestLoadProgramScalarLoop(t *testing.T) {
	p, err := loadProgram(programFlags{left: 440, right: 444, duration: 10, volume: -20, loop: true})
	require.NoError(t, err)
	assert.True(t, p.Loop)
}

func TestLoadProgramScalarInvalid(t *testing.T) {
	_, err := loadProgram(programFlags{left: 440, right: 444, duration: 0, volume: -20})
	require.Error(t, err)
	assert.ErrorIs(t, err, program.ErrValidation)
}

func TestLoadProgramSpecFileOverridesFlags(t *testing.T) {
	path := filepath.Join(t.TempDir(), "theta.json")
	data := `[{"left_frequency": 100, "right_frequency": 106, "duration": 5, "volume": -10}]`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	f := programFlags{left: 440, right: 444, duration: 10, volume: -20, specFile: path}
	p, err := loadProgram(f)
	require.NoError(t, err)

	require.Len(t, p.Instructions, 1)
	assert.Equal(t, 100.0, p.Instructions[0].LeftFrequency)
	assert.Equal(t, "theta.json", programName(f, p))
}

func TestLoadProgramSpecFileForcedLoop(t *testing.T) {
	path := filepath.Join(t.TempDir(), "theta.yaml")
	data := "base: 200\nprogram:\n  - [4, 60]\n  - [6, 30]\n"
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	p, err := loadProgram(programFlags{specFile: path, loop: true})
	require.NoError(t, err)
	assert.True(t, p.Loop)
	assert.Len(t, p.Instructions, 2)
}

func TestLoadProgramMissingFile(t *testing.T) {
	_, err := loadProgram(programFlags{specFile: filepath.Join(t.TempDir(), "nope.json")})
	assert.ErrorIs(t, err, program.ErrFileAccess)
}

func TestProgramNameScalar(t *testing.T) {
	f := programFlags{left: 440, right: 444.5, duration: 1, volume: -20}
	p, err := loadProgram(f)
	require.NoError(t, err)
	assert.Equal(t, "440/444.5 Hz", programName(f, p))
}

func TestDescribe(t *testing.T) {
	p := program.Program{Instructions: []program.ToneInstruction{
		{LeftFrequency: 200, RightFrequency: 204, Duration: 90, Volume: -20},
	}}

	var out bytes.Buffer
	require.NoError(t, describe(&out, "single", p))

	s := out.String()
	assert.Contains(t, s, "program: single")
	assert.Contains(t, s, "beat 4 Hz")
	assert.Contains(t, s, "nominal duration: 90s")
	assert.Contains(t, s, "frames per pass: 3969000 (1m30s)")
	assert.Contains(t, s, "loop: no")
}

func TestDescribeLoop(t *testing.T) {
	p := program.Program{
		Instructions: []program.ToneInstruction{
			{LeftFrequency: 200, RightFrequency: 204, Duration: 3000, Volume: -20},
		},
		Loop: true,
	}

	var out bytes.Buffer
	require.NoError(t, describe(&out, "long", p))
	assert.Contains(t, out.String(), "loop: 2 repetitions")
}

func TestDescribeRejectsEmptyProgram(t *testing.T) {
	var out bytes.Buffer
	err := describe(&out, "empty", program.Program{})
	assert.Error(t, err)
	assert.Empty(t, out.String())
}

func TestNewLogger(t *testing.T) {
	l, err := newLogger("warn", false)
	require.NoError(t, err)
	assert.False(t, l.Core().Enabled(-1))

	l, err = newLogger("info", true)
	require.NoError(t, err)
	assert.True(t, l.Core().Enabled(-1))

	_, err = newLogger("loud", false)
	assert.Error(t, err)
}

func TestStreamPassRendersOnePass(t *testing.T) {
	p := program.Program{
		Instructions: []program.ToneInstruction{
			{LeftFrequency: 200, RightFrequency: 204, Duration: 0.5, Volume: -20},
		},
		Loop: true,
	}

	spec, err := render(streamPass(p))
	require.NoError(t, err)

	assert.False(t, spec.Loop)
	assert.Len(t, spec.Buffer, sequence.FrameCount(p, cfg.MaxChunk)*audio.Channels)
	assert.True(t, p.Loop, "caller's program must keep its loop flag")
}
