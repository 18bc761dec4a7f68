package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"

	"github.com/hvaltia/ldr-platform/internal/replay"
)

// ldr-replay publishes a recorded ADC trace to the raw sampler topic so
// the light level agent can be exercised without hardware attached.
func main() {
	var (
		traceFile = pflag.StringP("trace", "t", "", "Path to YAML trace file (required)")
		broker    = pflag.StringP("broker", "b", "tcp://localhost:1883", "MQTT broker address")
		clientID  = pflag.String("client-id", "ldr-replay", "MQTT client identifier")
		speed     = pflag.Float64P("speed", "s", 1.0, "Playback speed multiplier")
		logLevel  = pflag.String("log-level", "info", "Log level (debug, info, warn, error)")
	)
	pflag.Parse()

	logger := setupLogger(*logLevel)

	if *traceFile == "" {
		pflag.Usage()
		fmt.Fprintln(os.Stderr, "error: --trace is required")
		os.Exit(1)
	}

	trace, err := replay.LoadTrace(*traceFile)
	if err != nil {
		logger.Error("Failed to load trace", "file", *traceFile, "error", err)
		os.Exit(1)
	}

	player, err := replay.NewPlayer(*broker, *clientID, *speed, logger)
	if err != nil {
		logger.Error("Failed to connect", "broker", *broker, "error", err)
		os.Exit(1)
	}
	defer player.Close()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := player.Play(ctx, trace); err != nil {
		logger.Error("Playback failed", "error", err)
		os.Exit(1)
	}
}

func setupLogger(level string) *slog.Logger {
	var logLevel slog.Level
	switch level {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	handler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	})
	return slog.New(handler)
}
