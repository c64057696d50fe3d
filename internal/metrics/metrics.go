package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Gauges
var (
	ActiveListeners = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "binaural_active_listeners",
		Help: "Number of connected stream listeners by transport",
	}, []string{"transport"})
	RenderedSamples = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "binaural_rendered_samples",
		Help: "Interleaved samples in the most recently rendered buffer",
	})
)

// Counters
var (
	SegmentsSynthesizedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "binaural_segments_synthesized_total",
		Help: "Total tone chunks synthesized",
	})
	FramesSynthesizedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "binaural_frames_synthesized_total",
		Help: "Total stereo frames synthesized",
	})
	PlaybackPassesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "binaural_playback_passes_total",
		Help: "Total buffer passes handed to a sink by outcome",
	}, []string{"outcome"})
	FramesDroppedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "binaural_stream_frames_dropped_total",
		Help: "Frames dropped for listeners that fell behind",
	})
	EncodeErrorsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "binaural_opus_encode_errors_total",
		Help: "Total Opus encode failures",
	})
)

// Histograms
var (
	RenderLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "binaural_render_duration_seconds",
		Help:    "Time to render a program into a playback buffer",
		Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 2, 5, 10, 30},
	})
)

// ObserveSegment records one synthesized chunk. It matches sequence.SegmentFunc.
func ObserveSegment(_ float64, frames int) {
	SegmentsSynthesizedTotal.Inc()
	FramesSynthesizedTotal.Add(float64(frames))
}
