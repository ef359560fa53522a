package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestDefault_Valid(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	if cfg.Convert.InputPath != "public/sample-video.srt" {
		t.Errorf("InputPath = %q", cfg.Convert.InputPath)
	}
	if cfg.Convert.OutputPath != "public/sample-video.json" {
		t.Errorf("OutputPath = %q", cfg.Convert.OutputPath)
	}
	if cfg.Runtime.FPS != 30 {
		t.Errorf("FPS = %v, want 30", cfg.Runtime.FPS)
	}
}

func TestLoad_EmptyPathReturnsDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Convert.Policy != "pair" || cfg.Runtime.Policy != "smart" {
		t.Errorf("unexpected policies: %+v", cfg)
	}
}

func TestLoad_TOML(t *testing.T) {
	path := writeConfig(t, "ticktok.toml", `
[convert]
input_path = "in/video.srt"
output_path = "out/video.json"
policy = "Smart"

[runtime]
fps = 60

[worker]
max_concurrent = 8
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Convert.InputPath != "in/video.srt" || cfg.Convert.OutputPath != "out/video.json" {
		t.Errorf("paths = %+v", cfg.Convert)
	}
	if cfg.Convert.Policy != "smart" {
		t.Errorf("policy = %q, want smart", cfg.Convert.Policy)
	}
	if cfg.Runtime.FPS != 60 {
		t.Errorf("fps = %v, want 60", cfg.Runtime.FPS)
	}
	if cfg.Runtime.FetchTimeoutSec != 15 {
		t.Errorf("unset value should keep default, got %d", cfg.Runtime.FetchTimeoutSec)
	}
	if cfg.Worker.MaxConcurrent != 8 {
		t.Errorf("max_concurrent = %d, want 8", cfg.Worker.MaxConcurrent)
	}
}

func TestLoad_YAML(t *testing.T) {
	path := writeConfig(t, "ticktok.yaml", `
runtime:
  shape: prebaked
  rate_limit_per_min: 10
worker:
  no_async: true
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Runtime.Shape != "prebaked" || cfg.Runtime.RateLimitPerMin != 10 {
		t.Errorf("runtime = %+v", cfg.Runtime)
	}
	if !cfg.Worker.NoAsync {
		t.Error("expected no_async true")
	}
}

func TestLoad_UnknownField(t *testing.T) {
	path := writeConfig(t, "bad.toml", "[convert]\nbogus = 1\n")
	if _, err := Load(path); err == nil {
		t.Fatal("expected error for unknown field")
	}
}

func TestLoad_Missing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	if err == nil || !strings.Contains(err.Error(), "not found") {
		t.Fatalf("expected not found error, got %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"policy", func(c *Config) { c.Convert.Policy = "triples" }, "convert.policy"},
		{"shape", func(c *Config) { c.Runtime.Shape = "mixed" }, "runtime.shape"},
		{"fps", func(c *Config) { c.Runtime.FPS = 0 }, "runtime.fps"},
		{"input", func(c *Config) { c.Convert.InputPath = " " }, "convert.input_path"},
		{"concurrency", func(c *Config) { c.Worker.MaxConcurrent = 0 }, "worker.max_concurrent"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if !errors.Is(err, ErrInvalid) {
				t.Fatalf("expected ErrInvalid, got %v", err)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q should mention %q", err, tt.want)
			}
		})
	}
}
