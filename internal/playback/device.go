package playback

import (
	"context"
	"fmt"
	"time"

	"github.com/hajimehoshi/oto/v2"
	"go.uber.org/zap"

	"github.com/satindergrewal/binaural/internal/audio"
)

// DeviceSink plays s16le stereo on the default output device.
type DeviceSink struct {
	ctx    *oto.Context
	logger *zap.Logger
	poll   time.Duration
}

// NewDeviceSink opens the default output at audio.SampleRate and waits until it is ready.
func NewDeviceSink(ctx context.Context, logger *zap.Logger) (*DeviceSink, error) {
	otoCtx, ready, err := oto.NewContext(audio.SampleRate, audio.Channels, oto.FormatSignedInt16LE)
	if err != nil {
		return nil, fmt.Errorf("open audio device: %w", err)
	}

	select {
	case <-ready:
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	logger.Debug("audio device ready",
		zap.Int("sample_rate", audio.SampleRate),
		zap.Int("channels", audio.Channels),
	)
	return &DeviceSink{ctx: otoCtx, logger: logger, poll: 10 * time.Millisecond}, nil
}

// Play streams buf to the device and blocks until it has drained.
// Cancelling ctx pauses the player and returns ctx.Err().
func (s *DeviceSink) Play(ctx context.Context, buf audio.Buffer) error {
	player := s.ctx.NewPlayer(audio.NewReader(buf))
	defer func() {
		if err := player.Close(); err != nil {
			s.logger.Debug("close player", zap.Error(err))
		}
	}()

	player.Play()

	ticker := time.NewTicker(s.poll)
	defer ticker.Stop()
	for player.IsPlaying() {
		select {
		case <-ctx.Done():
			player.Pause()
			return ctx.Err()
		case <-ticker.C:
		}
	}

	if err := player.Err(); err != nil {
		return fmt.Errorf("audio playback: %w", err)
	}
	return nil
}
