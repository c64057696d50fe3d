package stream

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/google/uuid"
	"github.com/pion/webrtc/v4"
	"github.com/pion/webrtc/v4/pkg/media"
	"go.uber.org/zap"
	"gopkg.in/hraban/opus.v2"

	"github.com/satindergrewal/binaural/internal/audio"
	"github.com/satindergrewal/binaural/internal/metrics"
)

// WebRTCHandler serves WebRTC SDP negotiation for Opus streaming of the program.
type WebRTCHandler struct {
	broadcaster *Broadcaster
	bitrate     int
	streamID    string
	logger      *zap.Logger

	mu    sync.Mutex
	peers map[string]*webrtc.PeerConnection
}

// NewWebRTCHandler creates a WebRTC stream handler encoding at bitrate bits/s.
func NewWebRTCHandler(b *Broadcaster, bitrate int, streamID string, logger *zap.Logger) *WebRTCHandler {
	return &WebRTCHandler{
		broadcaster: b,
		bitrate:     bitrate,
		streamID:    streamID,
		logger:      logger,
		peers:       make(map[string]*webrtc.PeerConnection),
	}
}

// PeerCount returns the number of active WebRTC peers.
func (h *WebRTCHandler) PeerCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.peers)
}

func (h *WebRTCHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "POST required", http.StatusMethodNotAllowed)
		return
	}

	var offer webrtc.SessionDescription
	if err := json.NewDecoder(r.Body).Decode(&offer); err != nil {
		http.Error(w, "invalid SDP offer", http.StatusBadRequest)
		return
	}

	pc, err := webrtc.NewPeerConnection(webrtc.Configuration{})
	if err != nil {
		http.Error(w, "create peer connection failed", http.StatusInternalServerError)
		return
	}

	audioTrack, err := webrtc.NewTrackLocalStaticSample(
		webrtc.RTPCodecCapability{
			MimeType:  webrtc.MimeTypeOpus,
			ClockRate: audio.StreamRate,
			Channels:  audio.Channels,
		},
		"audio",
		h.streamID,
	)
	if err != nil {
		pc.Close()
		http.Error(w, "create audio track failed", http.StatusInternalServerError)
		return
	}

	if _, err := pc.AddTrack(audioTrack); err != nil {
		pc.Close()
		http.Error(w, "add track failed", http.StatusInternalServerError)
		return
	}

	if err := pc.SetRemoteDescription(offer); err != nil {
		pc.Close()
		http.Error(w, "set remote description failed", http.StatusBadRequest)
		return
	}

	answer, err := pc.CreateAnswer(nil)
	if err != nil {
		pc.Close()
		http.Error(w, "create answer failed", http.StatusInternalServerError)
		return
	}

	if err := pc.SetLocalDescription(answer); err != nil {
		pc.Close()
		http.Error(w, "set local description failed", http.StatusInternalServerError)
		return
	}

	// Wait for ICE gathering to complete
	gatherComplete := webrtc.GatheringCompletePromise(pc)
	select {
	case <-gatherComplete:
	case <-r.Context().Done():
		pc.Close()
		return
	}

	peerID := uuid.NewString()
	logger := h.logger.With(zap.String("peer", peerID))

	h.mu.Lock()
	h.peers[peerID] = pc
	h.mu.Unlock()

	logger.Info("webrtc peer connected", zap.Int("total", h.PeerCount()))

	go h.streamToPeer(pc, audioTrack, logger)

	pc.OnConnectionStateChange(func(s webrtc.PeerConnectionState) {
		if s == webrtc.PeerConnectionStateFailed ||
			s == webrtc.PeerConnectionStateClosed ||
			s == webrtc.PeerConnectionStateDisconnected {
			if h.removePeer(peerID) {
				pc.Close()
				logger.Info("webrtc peer disconnected", zap.Int("remaining", h.PeerCount()))
			}
		}
	})

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(pc.LocalDescription())
}

func (h *WebRTCHandler) streamToPeer(pc *webrtc.PeerConnection, track *webrtc.TrackLocalStaticSample, logger *zap.Logger) {
	listener := h.broadcaster.Subscribe(TransportWebRTC)
	defer h.broadcaster.Unsubscribe(listener)

	enc, err := opus.NewEncoder(audio.StreamRate, audio.Channels, opus.AppAudio)
	if err != nil {
		logger.Error("webrtc: opus encoder", zap.Error(err))
		return
	}
	if err := enc.SetBitrate(h.bitrate); err != nil {
		logger.Warn("webrtc: opus bitrate", zap.Int("bitrate", h.bitrate), zap.Error(err))
	}

	opusBuf := make([]byte, 4000)

	for {
		select {
		case <-listener.done:
			return
		case frame, ok := <-listener.C:
			if !ok {
				return
			}
			n, err := enc.Encode(frame, opusBuf)
			if err != nil {
				metrics.EncodeErrorsTotal.Inc()
				logger.Warn("webrtc: opus encode", zap.Error(err))
				continue
			}
			if err := track.WriteSample(media.Sample{
				Data:     opusBuf[:n],
				Duration: audio.FrameDuration,
			}); err != nil {
				return
			}
		}
	}
}

// removePeer reports whether peerID was still registered.
func (h *WebRTCHandler) removePeer(peerID string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.peers[peerID]; !ok {
		return false
	}
	delete(h.peers, peerID)
	return true
}

// Close hangs up every peer.
func (h *WebRTCHandler) Close() {
	h.mu.Lock()
	peers := h.peers
	h.peers = make(map[string]*webrtc.PeerConnection)
	h.mu.Unlock()

	for id, pc := range peers {
		if err := pc.Close(); err != nil {
			h.logger.Debug("close peer", zap.String("peer", id), zap.Error(err))
		}
	}
}
