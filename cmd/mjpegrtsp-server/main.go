// Command mjpegrtsp-server serves still or pre-encoded JPEG images as
// an RTSP/RTP-MJPEG stream, grounded on the flag parsing, structured
// logging and signal-driven shutdown of
// angkira-rpi-webrtc-streamer's go/main.go.
package main

import (
	"context"
	"flag"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/tidescope/mjpegrtsp"
	"github.com/tidescope/mjpegrtsp/config"
)

const appName = "mjpegrtsp-server"

func main() {
	var (
		configPath = flag.String("config", "", "path to a TOML configuration file")
		address    = flag.String("address", "", "RTSP listen address, overrides config (e.g. :8554)")
		src        = flag.String("src", "", "source directory to serve JPEG files from, overrides config")
		logLevel   = flag.String("log-level", "", "log level (debug, info, warn, error), overrides config")
	)
	flag.Parse()

	bootLogger, _ := zap.NewProduction()
	cfg, err := config.Load(*configPath, bootLogger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: loading config: %v\n", appName, err)
		os.Exit(1)
	}

	if *address != "" {
		cfg.Server.RTSPAddr = *address
	}
	if *src != "" {
		cfg.Stream.SourceDir = *src
	}
	if *logLevel != "" {
		cfg.Logging.Level = *logLevel
	}

	log, err := newLogger(cfg.Logging.Level)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: creating logger: %v\n", appName, err)
		os.Exit(1)
	}
	defer log.Sync()

	factory := mjpegrtsp.NewFileStreamFactory(
		cfg.Stream.SourceDir, cfg.Stream.SSRCSeed, cfg.Stream.Quantization, cfg.Stream.FPS, cfg.Stream.MTU)

	srv, err := mjpegrtsp.NewServer(mjpegrtsp.Config{
		VideoAddr:    cfg.Server.VideoAddr,
		ServerName:   cfg.Server.ServerName,
		TickInterval: time.Duration(cfg.Timing.TickIntervalMS) * time.Millisecond,
	}, factory, log)
	if err != nil {
		log.Fatal("failed to start rtp publisher", zap.Error(err))
	}
	defer srv.Close()

	ln, err := net.Listen("tcp", cfg.Server.RTSPAddr)
	if err != nil {
		log.Fatal("failed to bind rtsp listener", zap.String("addr", cfg.Server.RTSPAddr), zap.Error(err))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	signalCh := make(chan os.Signal, 1)
	signal.Notify(signalCh, os.Interrupt, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ctx, ln)
	}()

	log.Info("server listening",
		zap.String("rtsp_addr", cfg.Server.RTSPAddr),
		zap.Int("video_port", srv.VideoPort()),
		zap.String("source_dir", cfg.Stream.SourceDir))

	select {
	case sig := <-signalCh:
		log.Info("received shutdown signal", zap.String("signal", sig.String()))
		cancel()
	case err := <-errCh:
		if err != nil {
			log.Error("server stopped", zap.Error(err))
			os.Exit(1)
		}
	}
}

func newLogger(level string) (*zap.Logger, error) {
	var zapLevel zapcore.Level
	switch level {
	case "debug":
		zapLevel = zapcore.DebugLevel
	case "warn":
		zapLevel = zapcore.WarnLevel
	case "error":
		zapLevel = zapcore.ErrorLevel
	default:
		zapLevel = zapcore.InfoLevel
	}

	cfg := zap.Config{
		Level:            zap.NewAtomicLevelAt(zapLevel),
		Development:      false,
		Encoding:         "console",
		EncoderConfig:    zap.NewProductionEncoderConfig(),
		OutputPaths:      []string{"stdout"},
		ErrorOutputPaths: []string{"stderr"},
	}
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder

	return cfg.Build()
}
