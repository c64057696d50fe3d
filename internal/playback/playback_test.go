package playback

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/satindergrewal/binaural/internal/audio"
	"github.com/satindergrewal/binaural/internal/sequence"
)

// recordingSink counts plays and can cancel the run after a given pass.
type recordingSink struct {
	mu       sync.Mutex
	plays    int
	lastLen  int
	cancelAt int
	cancel   context.CancelFunc
	err      error
}

func (s *recordingSink) Play(ctx context.Context, buf audio.Buffer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.plays++
	s.lastLen = len(buf)
	if s.cancelAt > 0 && s.plays == s.cancelAt {
		s.cancel()
	}
	return s.err
}

func TestSinkFunc_ImplementsSink(t *testing.T) {
	called := false
	var sink Sink = SinkFunc(func(context.Context, audio.Buffer) error {
		called = true
		return nil
	})
	require.NoError(t, sink.Play(context.Background(), nil))
	require.True(t, called)
}

func TestRun_PlaysOnceWithoutLoop(t *testing.T) {
	sink := &recordingSink{}
	spec := sequence.PlaybackSpec{Buffer: audio.Buffer{1, 2, 3, 4}}

	require.NoError(t, Run(context.Background(), sink, spec, zap.NewNop()))
	require.Equal(t, 1, sink.plays)
	require.Equal(t, 4, sink.lastLen)
}

func TestRun_PropagatesSinkError(t *testing.T) {
	boom := errors.New("device lost")
	sink := &recordingSink{err: boom}
	err := Run(context.Background(), sink, sequence.PlaybackSpec{Buffer: audio.Buffer{1, 2}}, zap.NewNop())
	require.ErrorIs(t, err, boom)
}

func TestRun_LoopRepeatsUntilCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sink := &recordingSink{cancelAt: 3, cancel: cancel}
	spec := sequence.PlaybackSpec{Buffer: audio.Buffer{1, 2}, Loop: true}

	err := Run(ctx, sink, spec, zap.NewNop())
	require.ErrorIs(t, err, context.Canceled)
	// The pass that saw the cancel completes; no new pass starts.
	require.Equal(t, 3, sink.plays)
}

func TestRepeat_AlreadyCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	sink := &recordingSink{}

	err := Repeat(ctx, sink, audio.Buffer{1, 2}, zap.NewNop())
	require.ErrorIs(t, err, context.Canceled)
	require.Equal(t, 0, sink.plays)
}

func TestRepeat_StopsOnSinkError(t *testing.T) {
	boom := errors.New("write failed")
	sink := &recordingSink{err: boom}

	err := Repeat(context.Background(), sink, audio.Buffer{1, 2}, zap.NewNop())
	require.ErrorIs(t, err, boom)
	require.Equal(t, 1, sink.plays)
}

func TestRepeat_SinkInterruptedByCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	sink := SinkFunc(func(ctx context.Context, _ audio.Buffer) error {
		cancel()
		<-ctx.Done()
		return ctx.Err()
	})

	done := make(chan error, 1)
	go func() { done <- Repeat(ctx, sink, audio.Buffer{1, 2}, zap.NewNop()) }()

	select {
	case err := <-done:
		require.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("Repeat did not return after cancel")
	}
}
