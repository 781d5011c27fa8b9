package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"codeberg.org/tovald/powerlogd/internal/availability"
	"codeberg.org/tovald/powerlogd/internal/config"
	"codeberg.org/tovald/powerlogd/internal/logger"
	"codeberg.org/tovald/powerlogd/internal/pid"
	"codeberg.org/tovald/powerlogd/internal/power"
	"codeberg.org/tovald/powerlogd/internal/sampler"
	"codeberg.org/tovald/powerlogd/internal/sink"
	"codeberg.org/tovald/powerlogd/internal/telemetry"
)

var cfg *config.Config

func init() {
	var err error
	cfg, err = config.Load()
	if err != nil {
		fmt.Printf("failed to load config: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.LogLevel, logger.IsService()); err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	logger.Debug().Msg("Config loaded")
}

func main() {
	if err := pid.Write(); err != nil {
		logger.FatalWithCode(err).Msg("failed to write pid file")
	}
	defer func() {
		if err := pid.Remove(); err != nil {
			logger.Warn().Err(err).Msg("failed to remove pid file")
		}
	}()

	recordSink, err := sink.NewFileSink(cfg.LogFile)
	if err != nil {
		logger.FatalWithCode(err).Msg("failed to open power log")
	}

	var mirror telemetry.Collector
	if cfg.Telemetry {
		mirror, err = telemetry.NewService(telemetry.Config{DBPath: cfg.Database})
		if err != nil {
			logger.FatalWithCode(err).Msg("failed to initialize telemetry")
		}
	}

	source := power.NewSysfsSource("")
	flags := availability.NewProbe(cfg.CameraDevice, recordSink)

	samplerCfg := sampler.DefaultConfig()
	samplerCfg.Interval = time.Duration(cfg.Interval) * time.Second

	smp, err := sampler.New(samplerCfg, source, flags, recordSink, mirror)
	if err != nil {
		logger.FatalWithCode(err).Msg("failed to initialize sampler")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go handleSignals(cancel)

	if err := smp.Run(ctx); err != nil {
		logger.ErrorWithCode(err).Msg("shutdown completed with errors")
		os.Exit(1)
	}
	logger.Info().Msg("Exiting...")
}

func handleSignals(cancel context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	<-sigs
	logger.Info().Msg("Received termination signal.")
	cancel()
}
