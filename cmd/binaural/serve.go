package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/satindergrewal/binaural/internal/audio"
	"github.com/satindergrewal/binaural/internal/playback"
	"github.com/satindergrewal/binaural/internal/program"
	"github.com/satindergrewal/binaural/internal/stream"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Stream the program to HTTP and WebRTC listeners",
	Long: `Renders the program once and streams it in a loop until interrupted:
MP3 over HTTP at /stream (requires ffmpeg) and Opus over WebRTC via /offer.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", ":"+strconv.Itoa(cfg.Port), "listen address")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	p, err := loadProgram(flags)
	if err != nil {
		return err
	}
	spec, err := render(streamPass(p))
	if err != nil {
		return err
	}

	name := programName(flags, p)
	pipeline := audio.NewPipeline(logger)
	pipeline.SetTrack(audio.TrackInfo{ID: uuid.NewString(), Name: name, Loop: p.Loop})

	broadcaster := stream.NewBroadcaster()
	go broadcaster.Run(ctx, pipeline.Frames())

	webrtcHandler := stream.NewWebRTCHandler(broadcaster, cfg.StreamBitrate, cfg.StreamName, logger)
	defer webrtcHandler.Close()

	server := stream.NewServer(
		stream.ProgramInfo{
			Name:            name,
			Instructions:    len(p.Instructions),
			Loop:            p.Loop,
			NominalDuration: p.Duration(),
		},
		pipeline,
		broadcaster,
		stream.NewHTTPHandler(broadcaster, cfg.StreamName, logger),
		webrtcHandler,
		logger,
	)

	// No WriteTimeout: /stream responses never end.
	srv := &http.Server{
		Addr:              serveAddr,
		Handler:           server.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	srvErr := make(chan error, 1)
	go func() {
		logger.Info("listening", zap.String("addr", serveAddr), zap.String("program", name))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			srvErr <- fmt.Errorf("http server: %w", err)
		}
	}()

	playErr := make(chan error, 1)
	go func() {
		playErr <- playback.Repeat(ctx, pipeline, spec.Buffer, logger)
	}()

	select {
	case err = <-playErr:
	case err = <-srvErr:
		cancel()
		<-playErr
	}
	pipeline.Close()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if shutdownErr := srv.Shutdown(shutdownCtx); shutdownErr != nil {
		logger.Warn("http shutdown", zap.Error(shutdownErr))
	}
	logger.Info("stopped", zap.Int("passes", pipeline.Passes()))
	return err
}

// streamPass returns p as a single pass. The stream repeats it with
// playback.Repeat, so the loop expansion is never rendered.
func streamPass(p program.Program) program.Program {
	p.Loop = false
	return p
}
