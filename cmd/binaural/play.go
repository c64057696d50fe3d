package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/satindergrewal/binaural/internal/playback"
)

func runPlay(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	p, err := loadProgram(flags)
	if err != nil {
		return err
	}
	spec, err := render(p)
	if err != nil {
		return err
	}

	sink, err := playback.NewDeviceSink(ctx, logger)
	if err != nil {
		return err
	}

	logger.Info("playing",
		zap.String("program", programName(flags, p)),
		zap.Bool("loop", spec.Loop),
	)
	return playback.Run(ctx, sink, spec, logger)
}
