package config

import (
	"os"
	"strconv"
	"time"
)

func envFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

// Config holds all runtime configuration, loaded from environment variables.
type Config struct {
	// Synthesis
	MaxChunk   float64       // seconds per synthesized chunk
	LoopTarget time.Duration // nominal playback a looping program is expanded to

	// Defaults for the scalar CLI form
	LeftFrequency  float64 // Hz
	RightFrequency float64 // Hz
	Duration       float64 // seconds
	Volume         float64 // dBFS

	// Server
	Port          int
	StreamName    string
	StreamBitrate int // Opus bits per second

	LogLevel string
}

// Load reads configuration from environment variables with sane defaults.
func Load() Config {
	return Config{
		MaxChunk:   envFloat("BINAURAL_MAX_CHUNK", 60),
		LoopTarget: time.Duration(envInt("BINAURAL_LOOP_TARGET", 7200)) * time.Second,

		LeftFrequency:  envFloat("BINAURAL_LEFT_FREQUENCY", 440.0),
		RightFrequency: envFloat("BINAURAL_RIGHT_FREQUENCY", 444.0),
		Duration:       envFloat("BINAURAL_DURATION", 10.0),
		Volume:         envFloat("BINAURAL_VOLUME", -20.0),

		Port:          envInt("BINAURAL_PORT", 8080),
		StreamName:    envStr("BINAURAL_STREAM_NAME", "binaural"),
		StreamBitrate: envInt("BINAURAL_STREAM_BITRATE", 128000),

		LogLevel: envStr("BINAURAL_LOG_LEVEL", "info"),
	}
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
