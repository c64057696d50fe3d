// Package playback hands rendered buffers to sinks.
package playback

import (
	"context"

	"go.uber.org/zap"

	"github.com/satindergrewal/binaural/internal/audio"
	"github.com/satindergrewal/binaural/internal/metrics"
	"github.com/satindergrewal/binaural/internal/sequence"
)

// Sink plays a buffer and blocks until it has finished or ctx is cancelled.
type Sink interface {
	Play(ctx context.Context, buf audio.Buffer) error
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(ctx context.Context, buf audio.Buffer) error

// Play calls f.
func (f SinkFunc) Play(ctx context.Context, buf audio.Buffer) error {
	return f(ctx, buf)
}

// Run plays spec once, or repeats it until ctx is cancelled when spec.Loop is set.
func Run(ctx context.Context, sink Sink, spec sequence.PlaybackSpec, logger *zap.Logger) error {
	if !spec.Loop {
		err := sink.Play(ctx, spec.Buffer)
		observePass(err)
		return err
	}
	return Repeat(ctx, sink, spec.Buffer, logger)
}

// Repeat calls sink.Play with buf over and over. Cancellation is checked
// between passes; a pass in progress is left to the sink.
// It returns ctx.Err() once cancelled, or the first sink error.
func Repeat(ctx context.Context, sink Sink, buf audio.Buffer, logger *zap.Logger) error {
	for pass := 1; ; pass++ {
		if err := ctx.Err(); err != nil {
			logger.Info("loop stopped", zap.Int("passes", pass-1))
			return err
		}

		logger.Debug("loop pass",
			zap.Int("pass", pass),
			zap.Duration("length", buf.Duration()),
		)
		err := sink.Play(ctx, buf)
		observePass(err)
		if err != nil {
			if ctx.Err() != nil {
				logger.Info("loop stopped", zap.Int("passes", pass))
				return ctx.Err()
			}
			return err
		}
	}
}

func observePass(err error) {
	outcome := "completed"
	if err != nil {
		outcome = "interrupted"
	}
	metrics.PlaybackPassesTotal.WithLabelValues(outcome).Inc()
}
