// Package runtimeconfig aggregates the converter's runtime settings so the
// CLI and embedding hosts share one validated configuration surface.
package runtimeconfig

import (
	"errors"
	"fmt"
	"strings"

	"github.com/coursekit/nblite/internal/convert"
)

var ErrLoggingLevelInvalid = errors.New("nblite config: logging level is invalid")
var ErrLoggingFormatInvalid = errors.New("nblite config: logging format is invalid")

// Config aggregates logging and conversion settings. Fields intentionally use
// simple types so host applications can extend them later.
type Config struct {
	Logging LoggingConfig
	Convert convert.Config
}

// LoggingConfig captures options forwarded to the logger provider.
type LoggingConfig struct {
	Level     string
	Format    string
	AddSource bool
	Focus     []string
}

// DefaultConfig returns opinionated defaults for a CLI invocation.
func DefaultConfig() Config {
	return Config{
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
		Convert: convert.Config{}.WithDefaults(),
	}
}

// Validate performs high-level consistency checks across both sections.
func (cfg Config) Validate() error {
	if level := strings.TrimSpace(cfg.Logging.Level); level != "" && !isSupportedLevel(level) {
		return fmt.Errorf("%w: %s", ErrLoggingLevelInvalid, level)
	}
	if format := strings.TrimSpace(cfg.Logging.Format); format != "" && !isSupportedFormat(format) {
		return fmt.Errorf("%w: %s", ErrLoggingFormatInvalid, format)
	}
	return cfg.Convert.Validate()
}

func isSupportedLevel(level string) bool {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal":
		return true
	default:
		return false
	}
}

func isSupportedFormat(format string) bool {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "json", "console", "pretty":
		return true
	default:
		return false
	}
}
