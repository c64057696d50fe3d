package stream

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/satindergrewal/binaural/internal/audio"
)

// ProgramInfo describes the program being served, for /api/status.
type ProgramInfo struct {
	Name            string
	Instructions    int
	Loop            bool
	NominalDuration float64 // seconds of one pass before loop expansion
}

// Player is the playback source the server reports on and controls.
type Player interface {
	Status() (track audio.TrackInfo, position, duration time.Duration)
	Passes() int
	Skip()
}

// Server wires the stream handlers and the status API onto one router.
type Server struct {
	info        ProgramInfo
	player      Player
	broadcaster *Broadcaster
	stream      http.Handler
	webrtc      *WebRTCHandler
	logger      *zap.Logger
}

// NewServer creates a server. webrtc may be nil to disable /offer.
func NewServer(info ProgramInfo, player Player, b *Broadcaster, stream http.Handler, webrtc *WebRTCHandler, logger *zap.Logger) *Server {
	return &Server{
		info:        info,
		player:      player,
		broadcaster: b,
		stream:      stream,
		webrtc:      webrtc,
		logger:      logger,
	}
}

// Router returns the HTTP handler for all routes.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RealIP)
	r.Use(chimw.RequestID)
	r.Use(s.logRequests)
	r.Use(chimw.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/healthz", s.health)
	r.Get("/metrics", promhttp.Handler().ServeHTTP)
	if s.stream != nil {
		r.Get("/stream", s.stream.ServeHTTP)
	}
	if s.webrtc != nil {
		r.Post("/offer", s.webrtc.ServeHTTP)
	}

	r.Route("/api", func(r chi.Router) {
		r.Get("/status", s.status)
		r.Post("/skip", s.skip)
	})
	return r
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) status(w http.ResponseWriter, r *http.Request) {
	track, pos, dur := s.player.Status()

	webrtcPeers := 0
	if s.webrtc != nil {
		webrtcPeers = s.webrtc.PeerCount()
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"name":             s.info.Name,
		"track_id":         track.ID,
		"track_name":       track.Name,
		"loop":             s.info.Loop,
		"instructions":     s.info.Instructions,
		"nominal_duration": s.info.NominalDuration,
		"position":         pos.Seconds(),
		"duration":         dur.Seconds(),
		"passes":           s.player.Passes(),
		"http_listeners":   s.broadcaster.ListenerCountBy(TransportHTTP),
		"webrtc_listeners": webrtcPeers,
	})
}

func (s *Server) skip(w http.ResponseWriter, r *http.Request) {
	s.player.Skip()
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

// logRequests logs one line per request. Streams are logged when they end.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Debug("http request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Int("bytes", ww.BytesWritten()),
			zap.Duration("elapsed", time.Since(start)),
			zap.String("request_id", chimw.GetReqID(r.Context())),
		)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
