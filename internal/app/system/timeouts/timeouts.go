// Package timeouts holds the deadlines applied to store operations.
//
// Handlers and the scheduler wrap each store call in context.WithTimeout
// using one of these values, so a stuck database fails a request or a
// scheduler run instead of hanging it.
//
//   - Ping: connectivity checks
//   - Short: single-document reads and status flips
//   - Medium: roster and campaign list queries
//   - Batch: assignment batch writes
//   - Run: an entire scheduler invocation
package timeouts

import (
	"context"
	"os"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Defaults, used until Configure or ConfigureFromEnv overrides them.
const (
	DefaultPing   = 2 * time.Second
	DefaultShort  = 5 * time.Second
	DefaultMedium = 10 * time.Second
	DefaultBatch  = 60 * time.Second
	DefaultRun    = 10 * time.Minute
)

// Config holds timeout values. Zero fields keep the current value.
type Config struct {
	Ping   time.Duration
	Short  time.Duration
	Medium time.Duration
	Batch  time.Duration
	Run    time.Duration
}

var (
	mu      sync.RWMutex
	current = defaults()
)

func defaults() Config {
	return Config{Ping: DefaultPing, Short: DefaultShort, Medium: DefaultMedium, Batch: DefaultBatch, Run: DefaultRun}
}

func get(f func(Config) time.Duration) time.Duration {
	mu.RLock()
	defer mu.RUnlock()
	return f(current)
}

// Ping returns the timeout for connectivity checks.
func Ping() time.Duration { return get(func(c Config) time.Duration { return c.Ping }) }

// Short returns the timeout for single-document operations.
func Short() time.Duration { return get(func(c Config) time.Duration { return c.Short }) }

// Medium returns the timeout for list queries.
func Medium() time.Duration { return get(func(c Config) time.Duration { return c.Medium }) }

// Batch returns the timeout for batch writes.
func Batch() time.Duration { return get(func(c Config) time.Duration { return c.Batch }) }

// Run returns the overall budget for one scheduler invocation.
func Run() time.Duration { return get(func(c Config) time.Duration { return c.Run }) }

// Current returns the active configuration.
func Current() Config {
	mu.RLock()
	defer mu.RUnlock()
	return current
}

// Configure overrides the non-zero fields of cfg.
func Configure(cfg Config) {
	mu.Lock()
	defer mu.Unlock()
	merge(&current, cfg)
}

// Reset restores the defaults. Tests use it.
func Reset() {
	mu.Lock()
	defer mu.Unlock()
	current = defaults()
}

func merge(dst *Config, src Config) {
	set := func(d *time.Duration, v time.Duration) {
		if v > 0 {
			*d = v
		}
	}
	set(&dst.Ping, src.Ping)
	set(&dst.Short, src.Short)
	set(&dst.Medium, src.Medium)
	set(&dst.Batch, src.Batch)
	set(&dst.Run, src.Run)
}

// ConfigureFromEnv reads TIMEOUT_PING, TIMEOUT_SHORT, TIMEOUT_MEDIUM,
// TIMEOUT_BATCH and TIMEOUT_RUN (Go durations such as "5s" or "2m").
// Unset, invalid or non-positive values are ignored. It returns how many
// values were applied.
func ConfigureFromEnv() int {
	var cfg Config
	applied := 0
	read := func(key string, d *time.Duration) {
		v := os.Getenv(key)
		if v == "" {
			return
		}
		if parsed, err := time.ParseDuration(v); err == nil && parsed > 0 {
			*d = parsed
			applied++
		}
	}
	read("TIMEOUT_PING", &cfg.Ping)
	read("TIMEOUT_SHORT", &cfg.Short)
	read("TIMEOUT_MEDIUM", &cfg.Medium)
	read("TIMEOUT_BATCH", &cfg.Batch)
	read("TIMEOUT_RUN", &cfg.Run)
	Configure(cfg)
	return applied
}

// WithTimeout is context.WithTimeout whose cancel logs a warning when the
// deadline was what ended the operation.
//
//	ctx, cancel := timeouts.WithTimeout(ctx, timeouts.Batch(), log, "copy assignments")
//	defer cancel()
func WithTimeout(parent context.Context, timeout time.Duration, log *zap.Logger, operation string) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithTimeout(parent, timeout)
	return ctx, func() {
		if ctx.Err() == context.DeadlineExceeded && log != nil {
			log.Warn("operation timed out",
				zap.String("operation", operation),
				zap.Duration("timeout", timeout))
		}
		cancel()
	}
}
