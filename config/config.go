// Package config loads the server's optional TOML configuration file,
// grounded on the defaults-then-overlay pattern of
// angkira-rpi-webrtc-streamer's go/config/config.go: start from a
// struct of defaults, overlay whatever the file on disk sets, and log
// which path was taken.
package config

import (
	"os"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// ServerConfig holds the RTSP listener's network settings.
type ServerConfig struct {
	RTSPAddr   string `toml:"rtsp_addr"`
	VideoAddr  string `toml:"video_addr"`
	ServerName string `toml:"server_name"`
}

// StreamConfig holds the source-resolution and packetisation settings.
type StreamConfig struct {
	SourceDir    string `toml:"source_dir"`
	SSRCSeed     uint32 `toml:"ssrc_seed"`
	Quantization uint8  `toml:"quantization"`
	FPS          int    `toml:"fps"`
	MTU          int    `toml:"mtu"`
}

// TimingConfig holds the RTP publisher's tick interval in milliseconds.
type TimingConfig struct {
	TickIntervalMS int `toml:"tick_interval_ms"`
}

// LoggingConfig holds the zap log level.
type LoggingConfig struct {
	Level string `toml:"level"`
}

// Config is the top-level, TOML-decodable server configuration.
type Config struct {
	Server  ServerConfig  `toml:"server"`
	Stream  StreamConfig  `toml:"stream"`
	Timing  TimingConfig  `toml:"timing"`
	Logging LoggingConfig `toml:"logging"`
}

// Default returns the configuration used when no file is present or a
// setting is left unspecified in one.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			RTSPAddr:   ":8554",
			VideoAddr:  ":8888",
			ServerName: "mjpegrtsp",
		},
		Stream: StreamConfig{
			SourceDir:    ".",
			SSRCSeed:     1,
			Quantization: 255,
			FPS:          20,
			MTU:          1400,
		},
		Timing: TimingConfig{
			TickIntervalMS: 40,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load overlays a TOML file at path onto the defaults. A missing file
// is not an error: the defaults are returned as-is, matching the
// teacher's "config file not found, using defaults" behavior.
func Load(path string, log *zap.Logger) (*Config, error) {
	cfg := Default()

	if path == "" {
		return cfg, nil
	}

	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			log.Info("config file not found, using defaults", zap.String("path", path))
			return cfg, nil
		}
		return nil, errors.Wrapf(err, "stat %q", path)
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, errors.Wrapf(err, "decoding %q", path)
	}
	log.Info("config loaded from file", zap.String("path", path))

	return cfg, nil
}
