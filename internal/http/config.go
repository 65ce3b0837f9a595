package http

import (
	"fmt"
	"os"
	"strings"
	"time"
)

type HTTPServerConfig struct {
	Host     string
	Timeouts struct {
		Read         time.Duration
		ReadHeader   time.Duration
		Write        time.Duration
		Idle         time.Duration
		ShutdownWait time.Duration
	}
}

// NewHTTPServerConfig reads the server settings from the environment. config.env has
// already been loaded by the caller; unset variables fall back to defaults.
func NewHTTPServerConfig() (*HTTPServerConfig, error) {
	var errors []string
	cfg := &HTTPServerConfig{}

	cfg.Host = os.Getenv("HTTP_SERVER_HOST")
	if cfg.Host == "" {
		cfg.Host = ":8080"
	}

	parseDuration := func(envVar string, fallback time.Duration) (time.Duration, error) {
		value := os.Getenv(envVar)
		if value == "" {
			return fallback, nil
		}
		duration, err := time.ParseDuration(value)
		if err != nil {
			return 0, fmt.Errorf("%s: invalid duration format: %w", envVar, err)
		}
		if duration <= 0 {
			return 0, fmt.Errorf("%s must be positive", envVar)
		}
		return duration, nil
	}

	if dur, err := parseDuration("HTTP_APP_READ_TIMEOUT_DURATION", 5*time.Second); err != nil {
		errors = append(errors, err.Error())
	} else {
		cfg.Timeouts.Read = dur
	}

	if dur, err := parseDuration("HTTP_APP_READ_HEADER_TIMEOUT_DURATION", 2*time.Second); err != nil {
		errors = append(errors, err.Error())
	} else {
		cfg.Timeouts.ReadHeader = dur
	}

	// The write deadline bounds a whole scan request, probes included.
	if dur, err := parseDuration("HTTP_APP_WRITE_TIMEOUT_DURATION", 5*time.Minute); err != nil {
		errors = append(errors, err.Error())
	} else {
		cfg.Timeouts.Write = dur
	}

	if dur, err := parseDuration("HTTP_APP_IDLE_TIMEOUT_DURATION", 60*time.Second); err != nil {
		errors = append(errors, err.Error())
	} else {
		cfg.Timeouts.Idle = dur
	}

	if dur, err := parseDuration("HTTP_APP_SHUTDOWN_TIMEOUT_DURATION", 10*time.Second); err != nil {
		errors = append(errors, err.Error())
	} else {
		cfg.Timeouts.ShutdownWait = dur
	}

	if len(errors) > 0 {
		return nil, fmt.Errorf("configuration validation failed:\n%s", strings.Join(errors, "\n"))
	}

	return cfg, nil
}

// ScanTimeout is the deadline given to one scan. It ends before the write deadline so an
// overlong scan is answered as interrupted instead of having its connection cut.
func (c *HTTPServerConfig) ScanTimeout() time.Duration {
	return c.Timeouts.Write - c.Timeouts.Write/10
}
