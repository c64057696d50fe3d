package audio

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Pipeline resamples rendered buffers to StreamRate and outputs PCM frames at real-time rate.
type Pipeline struct {
	frameCh  chan []int16
	skipCh   chan struct{}
	interval time.Duration
	logger   *zap.Logger

	mu            sync.RWMutex
	currentTrack  TrackInfo
	trackPosition time.Duration
	trackDuration time.Duration
	passes        int

	// last resampled buffer, reused while the same buffer is replayed
	cacheSrc *int16
	cacheLen int
	cache    []int16
}

// NewPipeline creates a pipeline that paces frames every FrameDuration.
func NewPipeline(logger *zap.Logger) *Pipeline {
	return &Pipeline{
		frameCh:  make(chan []int16, 100),
		skipCh:   make(chan struct{}, 1),
		interval: FrameDuration,
		logger:   logger,
	}
}

// Frames returns the channel of outgoing PCM frames (20ms each).
func (p *Pipeline) Frames() <-chan []int16 {
	return p.frameCh
}

// SetTrack records what is being played for Status.
func (p *Pipeline) SetTrack(info TrackInfo) {
	p.mu.Lock()
	p.currentTrack = info
	p.mu.Unlock()
}

// Skip ends the current pass early. A skip requested between passes is
// discarded when the next pass starts.
func (p *Pipeline) Skip() {
	select {
	case p.skipCh <- struct{}{}:
	default:
	}
}

// Status returns current playback info.
func (p *Pipeline) Status() (track TrackInfo, position, duration time.Duration) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.currentTrack, p.trackPosition, p.trackDuration
}

// Passes returns how many times Play has started a buffer.
func (p *Pipeline) Passes() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.passes
}

// Close closes the frame channel. Play must not be called afterwards.
func (p *Pipeline) Close() {
	close(p.frameCh)
}

// Play sends buf as 20ms frames at real-time rate and blocks until the whole
// buffer has been sent, the pass is skipped, or ctx is cancelled.
// The last partial frame is padded with silence.
func (p *Pipeline) Play(ctx context.Context, buf Buffer) error {
	samples := p.resampled(buf)
	totalFrames := (len(samples) + FrameSamples - 1) / FrameSamples

	p.startPass(totalFrames)
	track, _, _ := p.Status()
	p.logger.Debug("pipeline pass started",
		zap.String("track", track.ID),
		zap.Int("frames", totalFrames),
	)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for i := 0; i < totalFrames; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		ok, err := p.sendFrame(ctx, ticker, frameAt(samples, i))
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		p.updatePosition(i + 1)
	}
	return nil
}

func (p *Pipeline) resampled(buf Buffer) []int16 {
	if len(buf) == 0 {
		return nil
	}
	if p.cacheSrc == &buf[0] && p.cacheLen == len(buf) {
		return p.cache
	}
	p.cache = ToStream(buf)
	p.cacheSrc = &buf[0]
	p.cacheLen = len(buf)
	return p.cache
}

func frameAt(samples []int16, i int) []int16 {
	start := i * FrameSamples
	end := start + FrameSamples
	if end <= len(samples) {
		return samples[start:end]
	}
	frame := make([]int16, FrameSamples)
	copy(frame, samples[start:])
	return frame
}

// sendFrame waits for the ticker then sends a frame. Returns false on skip.
func (p *Pipeline) sendFrame(ctx context.Context, ticker *time.Ticker, frame []int16) (bool, error) {
	select {
	case <-ctx.Done():
		return false, ctx.Err()
	case <-p.skipCh:
		p.logger.Info("pass skipped")
		return false, nil
	case <-ticker.C:
	}

	select {
	case p.frameCh <- frame:
		return true, nil
	case <-ctx.Done():
		return false, ctx.Err()
	}
}

func (p *Pipeline) startPass(totalFrames int) {
	select {
	case <-p.skipCh:
	default:
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.passes++
	p.trackPosition = 0
	p.trackDuration = time.Duration(totalFrames) * FrameDuration
}

func (p *Pipeline) updatePosition(frames int) {
	p.mu.Lock()
	p.trackPosition = time.Duration(frames) * FrameDuration
	p.mu.Unlock()
}
