package config

import (
	"time"

	"github.com/engrbugs/ticktok/internal/ffmpeg"
)

// ConvertSettings configures the offline SRT to JSON converter.
type ConvertSettings struct {
	InputPath  string `toml:"input_path" yaml:"input_path"`
	OutputPath string `toml:"output_path" yaml:"output_path"`
	Policy     string `toml:"policy" yaml:"policy"`
}

// RuntimeSettings configures loading caption sources for playback.
type RuntimeSettings struct {
	Policy          string  `toml:"policy" yaml:"policy"`
	Shape           string  `toml:"shape" yaml:"shape"`
	FPS             float64 `toml:"fps" yaml:"fps"`
	FetchTimeoutSec int     `toml:"fetch_timeout_sec" yaml:"fetch_timeout_sec"`
	MaxBytes        int64   `toml:"max_bytes" yaml:"max_bytes"`
	RateLimitPerMin int     `toml:"rate_limit_per_min" yaml:"rate_limit_per_min"`
}

// FetchTimeout returns the per-request fetch timeout.
func (r RuntimeSettings) FetchTimeout() time.Duration {
	return time.Duration(r.FetchTimeoutSec) * time.Second
}

// WorkerSettings configures batch conversion.
type WorkerSettings struct {
	MaxConcurrent int  `toml:"max_concurrent" yaml:"max_concurrent"`
	NoAsync       bool `toml:"no_async" yaml:"no_async"`
}

// Config holds the full application configuration.
type Config struct {
	Convert ConvertSettings `toml:"convert" yaml:"convert"`
	Runtime RuntimeSettings `toml:"runtime" yaml:"runtime"`
	Worker  WorkerSettings  `toml:"worker" yaml:"worker"`
}

// Default returns a Config with the converter's fixed sample paths.
func Default() *Config {
	return &Config{
		Convert: ConvertSettings{
			InputPath:  "public/sample-video.srt",
			OutputPath: "public/sample-video.json",
			Policy:     "pair",
		},
		Runtime: RuntimeSettings{
			Policy:          "smart",
			Shape:           "auto",
			FPS:             ffmpeg.DefaultFPS,
			FetchTimeoutSec: 15,
			MaxBytes:        10_000_000,
			RateLimitPerMin: 120,
		},
		Worker: WorkerSettings{
			MaxConcurrent: 3,
		},
	}
}
