package sequence

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/satindergrewal/binaural/internal/audio"
	"github.com/satindergrewal/binaural/internal/program"
	"github.com/satindergrewal/binaural/internal/tone"
)

func instr(left, right, duration float64) program.ToneInstruction {
	return program.ToneInstruction{LeftFrequency: left, RightFrequency: right, Duration: duration, Volume: -20}
}

func TestBuild_LengthFloorsPerChunk(t *testing.T) {
	p := program.Program{Instructions: []program.ToneInstruction{
		instr(440, 444, 2.35),
		instr(300, 306, 0.1),
		instr(200, 210, 3),
	}}

	buf := Build(p, WithMaxChunk(1))

	want := 0
	for _, chunks := range [][]float64{tone.Chunk(2.35, 1), tone.Chunk(0.1, 1), tone.Chunk(3, 1)} {
		for _, c := range chunks {
			want += int(math.Floor(c * audio.SampleRate))
		}
	}
	require.Len(t, buf, 2*want)
	require.Equal(t, want, FrameCount(p, 1))
	require.Equal(t, 0, len(buf)%2)
}

func TestBuild_DefaultChunkMatchesFrameCount(t *testing.T) {
	p := program.Program{Instructions: []program.ToneInstruction{instr(440, 444, 61.25)}}
	buf := Build(p)
	require.Equal(t, FrameCount(p, tone.MaxChunkSeconds), buf.Frames())
	require.Equal(t, 60*44100+55125, buf.Frames())
}

func TestBuild_ConcatenatesInOrder(t *testing.T) {
	p := program.Program{Instructions: []program.ToneInstruction{
		instr(440, 444, 0.5),
		instr(200, 210, 0.25),
	}}
	buf := Build(p)

	first := tone.Synthesize(440, 444, 0.5, -20, audio.SampleRate)
	second := tone.Synthesize(200, 210, 0.25, -20, audio.SampleRate)
	require.Equal(t, first, buf[:len(first)])
	require.Equal(t, second, buf[len(first):])
}

func TestBuild_ChunksRestartPhase(t *testing.T) {
	// With 1s chunks, the second second starts again from sin(0).
	p := program.Program{Instructions: []program.ToneInstruction{instr(441.5, 443.5, 2)}}
	buf := Build(p, WithMaxChunk(1))
	require.Equal(t, int16(0), buf[audio.SampleRate*2])
	require.Equal(t, int16(0), buf[audio.SampleRate*2+1])
}

func TestBuild_Deterministic(t *testing.T) {
	p := program.Program{Instructions: []program.ToneInstruction{instr(440, 444, 0.3), instr(100, 107, 0.2)}}
	require.Equal(t, Build(p), Build(p))
}

func TestBuild_SegmentHook(t *testing.T) {
	var seconds []float64
	frames := 0
	p := program.Program{Instructions: []program.ToneInstruction{instr(440, 444, 2.5), instr(440, 448, 1)}}
	buf := Build(p, WithMaxChunk(1), WithSegmentHook(func(s float64, f int) {
		seconds = append(seconds, s)
		frames += f
	}))

	require.Equal(t, []float64{1, 1, 0.5, 1}, seconds)
	require.Equal(t, buf.Frames(), frames)
}

func TestBuilder_GrowAvoidsReallocation(t *testing.T) {
	p := program.Program{Instructions: []program.ToneInstruction{instr(440, 444, 0.2), instr(440, 450, 0.3)}}
	b := NewBuilder()
	b.Grow(FrameCount(p, tone.MaxChunkSeconds))
	b.Append(p.Instructions[0])
	start := &b.buf[0]
	b.Append(p.Instructions[1])
	require.Equal(t, start, &b.buf[0])
	require.Equal(t, FrameCount(p, tone.MaxChunkSeconds)*audio.Channels, b.Len())
}

func TestRepetitions(t *testing.T) {
	reps, err := Repetitions(10, 7200)
	require.NoError(t, err)
	require.Equal(t, 720, reps)

	reps, err = Repetitions(7, 7200)
	require.NoError(t, err)
	require.Equal(t, 1028, reps)

	reps, err = Repetitions(9000, 7200)
	require.NoError(t, err)
	require.Equal(t, 1, reps, "program longer than target still plays once")

	for _, nominal := range []float64{0, -5, math.NaN(), math.Inf(1)} {
		_, err := Repetitions(nominal, 7200)
		require.ErrorIs(t, err, program.ErrValidation, "nominal=%v", nominal)
	}
}

func TestExpand_TilesBuffer(t *testing.T) {
	buf := audio.Buffer{1, -1, 2, -2}
	out, err := Expand(buf, 10, LoopTarget.Seconds())
	require.NoError(t, err)
	require.Len(t, out, 720*len(buf))
	for i := 0; i < 720; i++ {
		require.Equal(t, buf, out[i*len(buf):(i+1)*len(buf)])
	}
}

func TestExpand_ZeroDuration(t *testing.T) {
	_, err := Expand(audio.Buffer{1, 2}, 0, 7200)
	require.ErrorIs(t, err, program.ErrValidation)
}

func TestRender_NoLoop(t *testing.T) {
	p := program.Program{Instructions: []program.ToneInstruction{instr(440, 444, 0.5)}}
	spec, err := Render(p, RenderOptions{})
	require.NoError(t, err)
	require.False(t, spec.Loop)
	require.Equal(t, Build(p), spec.Buffer)
}

func TestRender_LoopExpandsToTarget(t *testing.T) {
	p := program.Program{
		Instructions: []program.ToneInstruction{instr(440, 444, 0.5), instr(440, 448, 0.25)},
		Loop:         true,
	}
	spec, err := Render(p, RenderOptions{LoopTarget: 3 * time.Second})
	require.NoError(t, err)
	require.True(t, spec.Loop)

	once := Build(p)
	require.Len(t, spec.Buffer, 4*len(once))
	require.Equal(t, once, spec.Buffer[3*len(once):])
}

func TestRender_CompactProgram(t *testing.T) {
	p, err := program.CompactSpec{
		Base:  440,
		Steps: []program.Step{{Offset: 4, Duration: 0.3}, {Offset: 8, Duration: 0.2}},
		Loop:  true,
	}.Program()
	require.NoError(t, err)

	spec, err := Render(p, RenderOptions{LoopTarget: time.Second})
	require.NoError(t, err)
	require.Len(t, spec.Buffer, 2*2*(13230+8820))
}

func TestRender_RejectsInvalidProgram(t *testing.T) {
	_, err := Render(program.Program{}, RenderOptions{})
	require.ErrorIs(t, err, program.ErrSchema)

	_, err = Render(program.Program{Instructions: []program.ToneInstruction{instr(440, 444, 0)}, Loop: true}, RenderOptions{})
	require.ErrorIs(t, err, program.ErrValidation)
}

func TestRender_SegmentHook(t *testing.T) {
	calls := 0
	p := program.Program{Instructions: []program.ToneInstruction{instr(440, 444, 0.1)}}
	_, err := Render(p, RenderOptions{OnSegment: func(float64, int) { calls++ }})
	require.NoError(t, err)
	require.Equal(t, 1, calls)
}

func TestRender_RejectsSubSampleProgram(t *testing.T) {
	for _, loop := range []bool{false, true} {
		p := program.Program{Instructions: []program.ToneInstruction{instr(440, 444, 1e-9)}, Loop: loop}

		done := make(chan error, 1)
		go func() {
			_, err := Render(p, RenderOptions{})
			done <- err
		}()

		select {
		case err := <-done:
			require.ErrorIs(t, err, program.ErrValidation, "loop=%v", loop)
		case <-time.After(5 * time.Second):
			t.Fatalf("Render did not return for a program shorter than one sample (loop=%v)", loop)
		}
	}
}

func TestExpand_EmptyBuffer(t *testing.T) {
	out, err := Expand(nil, 1e-9, LoopTarget.Seconds())
	require.NoError(t, err)
	require.Empty(t, out)
}
