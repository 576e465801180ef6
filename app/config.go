package app

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/anatolykoptev/go-kit/env"

	"github.com/Rishpraveen/Medical-Data-factchecker-for-youtube/observe"
)

// ErrInvalidConfig wraps every Validate failure.
var ErrInvalidConfig = errors.New("app: invalid config")

// Config is the application configuration.
type Config struct {
	ServiceName string
	Version     string

	LogLevel        string  // debug|info|warn|error
	TracesExporter  string  // otlp|stdout|none
	MetricsExporter string  // otlp|prometheus|stdout|none
	TraceSamplePct  float64 // 0.0-1.0

	LoaderTimeout  time.Duration
	LoaderRetries  int
	GroupSize      int
	PreloadDelay   time.Duration
	PreloadModules []string

	// BreakerMaxFailures opens a module's circuit after that many failed
	// load chains in a row. Zero disables circuit breaking.
	BreakerMaxFailures  int
	BreakerResetTimeout time.Duration

	MemoCapacity  int
	HealthTimeout time.Duration

	// Output receives log lines and stdout exporters. Default: os.Stderr.
	Output io.Writer
}

// ConfigFromEnv reads the configuration from the environment, falling back
// to the defaults for unset variables.
func ConfigFromEnv() Config {
	return Config{
		ServiceName:         env.Str("SERVICE_NAME", "factcheck"),
		Version:             env.Str("SERVICE_VERSION", "dev"),
		LogLevel:            env.Str("LOG_LEVEL", "info"),
		TracesExporter:      env.Str("OTEL_TRACES_EXPORTER", "none"),
		MetricsExporter:     env.Str("OTEL_METRICS_EXPORTER", "none"),
		TraceSamplePct:      env.Float("OTEL_TRACE_SAMPLE_PCT", 1.0),
		LoaderTimeout:       env.Duration("LOADER_TIMEOUT", 10*time.Second),
		LoaderRetries:       env.Int("LOADER_RETRIES", 3),
		GroupSize:           env.Int("LOADER_GROUP_SIZE", 3),
		PreloadDelay:        env.Duration("PRELOAD_DELAY", 100*time.Millisecond),
		PreloadModules:      env.List("PRELOAD_MODULES", ""),
		BreakerMaxFailures:  env.Int("LOADER_BREAKER_MAX_FAILURES", 0),
		BreakerResetTimeout: env.Duration("LOADER_BREAKER_RESET", 30*time.Second),
		MemoCapacity:        env.Int("MEMO_CAPACITY", 100),
		HealthTimeout:       env.Duration("HEALTH_TIMEOUT", 5*time.Second),
	}
}

// Validate checks the configuration.
func (c Config) Validate() error {
	var problems []string
	if c.LoaderTimeout <= 0 {
		problems = append(problems, fmt.Sprintf("loader timeout must be positive, got %v", c.LoaderTimeout))
	}
	if c.LoaderRetries < 1 {
		problems = append(problems, fmt.Sprintf("loader retries must be at least 1, got %d", c.LoaderRetries))
	}
	if c.GroupSize < 1 {
		problems = append(problems, fmt.Sprintf("group size must be at least 1, got %d", c.GroupSize))
	}
	if c.PreloadDelay < 0 {
		problems = append(problems, fmt.Sprintf("preload delay must not be negative, got %v", c.PreloadDelay))
	}
	if c.MemoCapacity < 1 {
		problems = append(problems, fmt.Sprintf("memo capacity must be at least 1, got %d", c.MemoCapacity))
	}
	if c.BreakerMaxFailures < 0 {
		problems = append(problems, fmt.Sprintf("breaker max failures must not be negative, got %d", c.BreakerMaxFailures))
	}
	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(problems, "; "))
	}

	oc := c.observeConfig()
	if err := oc.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}

func (c Config) observeConfig() observe.Config {
	return observe.Config{
		ServiceName: c.ServiceName,
		Version:     c.Version,
		Tracing: observe.TracingConfig{
			Enabled:   c.TracesExporter != "" && c.TracesExporter != "none",
			Exporter:  c.TracesExporter,
			SamplePct: c.TraceSamplePct,
		},
		Metrics: observe.MetricsConfig{
			Enabled:  c.MetricsExporter != "" && c.MetricsExporter != "none",
			Exporter: c.MetricsExporter,
		},
		Logging: observe.LoggingConfig{
			Enabled: true,
			Level:   c.LogLevel,
		},
		Output: c.Output,
	}
}
