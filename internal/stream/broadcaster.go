package stream

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/satindergrewal/binaural/internal/metrics"
)

const (
	TransportHTTP   = "http"
	TransportWebRTC = "webrtc"
)

// Broadcaster fans out PCM frames from one source to N listeners.
type Broadcaster struct {
	mu        sync.RWMutex
	listeners map[*Listener]struct{}
}

// Listener receives PCM frames from the broadcaster.
type Listener struct {
	ID        string
	Transport string
	C         chan []int16 // buffered channel of 20ms PCM frames
	done      chan struct{}
}

// NewBroadcaster creates a new broadcaster.
func NewBroadcaster() *Broadcaster {
	return &Broadcaster{
		listeners: make(map[*Listener]struct{}),
	}
}

// Subscribe registers a new listener for the given transport.
func (b *Broadcaster) Subscribe(transport string) *Listener {
	l := &Listener{
		ID:        uuid.NewString(),
		Transport: transport,
		C:         make(chan []int16, 150), // ~3 seconds of buffer at 20ms/frame
		done:      make(chan struct{}),
	}
	b.mu.Lock()
	b.listeners[l] = struct{}{}
	b.mu.Unlock()
	metrics.ActiveListeners.WithLabelValues(transport).Inc()
	return l
}

// Unsubscribe removes a listener and signals it to stop.
func (b *Broadcaster) Unsubscribe(l *Listener) {
	b.mu.Lock()
	delete(b.listeners, l)
	b.mu.Unlock()
	metrics.ActiveListeners.WithLabelValues(l.Transport).Dec()
	close(l.done)
}

// ListenerCount returns the number of active listeners.
func (b *Broadcaster) ListenerCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.listeners)
}

// ListenerCountBy returns the number of active listeners on one transport.
func (b *Broadcaster) ListenerCountBy(transport string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	n := 0
	for l := range b.listeners {
		if l.Transport == transport {
			n++
		}
	}
	return n
}

// Run reads frames from source and fans out to all listeners.
// Slow listeners get frames dropped rather than blocking the broadcast.
func (b *Broadcaster) Run(ctx context.Context, source <-chan []int16) {
	for {
		select {
		case <-ctx.Done():
			return
		case frame, ok := <-source:
			if !ok {
				return
			}
			b.mu.RLock()
			for l := range b.listeners {
				select {
				case l.C <- frame:
				default:
					metrics.FramesDroppedTotal.Inc()
				}
			}
			b.mu.RUnlock()
		}
	}
}
