package config

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalid marks a configuration value that failed validation.
var ErrInvalid = errors.New("invalid config")

var (
	validPolicies = map[string]bool{"pair": true, "smart": true}
	validShapes   = map[string]bool{"auto": true, "prebaked": true, "plain": true}
)

// Validate checks that all values are usable.
func (c *Config) Validate() error {
	var problems []string

	if strings.TrimSpace(c.Convert.InputPath) == "" {
		problems = append(problems, "convert.input_path is empty")
	}
	if strings.TrimSpace(c.Convert.OutputPath) == "" {
		problems = append(problems, "convert.output_path is empty")
	}
	if !validPolicies[c.Convert.Policy] {
		problems = append(problems, fmt.Sprintf("convert.policy %q must be pair or smart", c.Convert.Policy))
	}
	if !validPolicies[c.Runtime.Policy] {
		problems = append(problems, fmt.Sprintf("runtime.policy %q must be pair or smart", c.Runtime.Policy))
	}
	if !validShapes[c.Runtime.Shape] {
		problems = append(problems, fmt.Sprintf("runtime.shape %q must be auto, prebaked or plain", c.Runtime.Shape))
	}
	if c.Runtime.FPS <= 0 {
		problems = append(problems, "runtime.fps must be positive")
	}
	if c.Runtime.FetchTimeoutSec <= 0 {
		problems = append(problems, "runtime.fetch_timeout_sec must be positive")
	}
	if c.Runtime.MaxBytes <= 0 {
		problems = append(problems, "runtime.max_bytes must be positive")
	}
	if c.Runtime.RateLimitPerMin <= 0 {
		problems = append(problems, "runtime.rate_limit_per_min must be positive")
	}
	if c.Worker.MaxConcurrent < 1 {
		problems = append(problems, "worker.max_concurrent must be at least 1")
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalid, strings.Join(problems, "; "))
	}
	return nil
}
