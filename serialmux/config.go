//go:build linux

package serialmux

import (
	"errors"
	"fmt"
	"time"

	"github.com/serialmux/go-serialmux/logger"
)

const (
	// DefaultPollTimeout bounds one reactor poll. It is the smallest non-zero
	// wait epoll can express, so the host tick is never starved and never spins.
	DefaultPollTimeout = time.Millisecond

	// DefaultReadBufferLen is the initial drain buffer capacity and the fixed
	// increment the buffer grows by when one readiness event carries more data.
	DefaultReadBufferLen = 2048
)

// ErrorHandler is invoked for non-fatal read or write errors on a single port.
// label identifies the affected port; the tick is not aborted.
type ErrorHandler func(label string, err error)

// FatalHandler is invoked for unrecoverable reactor errors. The mux cannot
// continue after one fires; the host decides whether to abort the process.
type FatalHandler func(err error)

// Config holds all configuration for a Mux.
type Config struct {
	pollTimeout   time.Duration
	readBufferLen int

	// maxWriteAttempts bounds the write pump's retry loop per request.
	// 0 means unbounded, matching the busy-retry behavior of the underlying
	// "this tick is dedicated to serial I/O" deployment model.
	maxWriteAttempts int

	onReadError  ErrorHandler
	onWriteError ErrorHandler
	onFatal      FatalHandler

	logger logger.Logger
}

func newConfig(opts ...Option) (*Config, error) {
	cfg := &Config{
		pollTimeout:   DefaultPollTimeout,
		readBufferLen: DefaultReadBufferLen,
		logger:        logger.GetLogger(),
	}

	for _, opt := range opts {
		if err := opt.apply(cfg); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

// --- Getters ---

// PollTimeout returns the bound on one reactor poll.
func (cfg *Config) PollTimeout() time.Duration { return cfg.pollTimeout }

// ReadBufferLen returns the drain buffer's initial capacity and growth increment.
func (cfg *Config) ReadBufferLen() int { return cfg.readBufferLen }

// MaxWriteAttempts returns the per-request write attempt bound; 0 means unbounded.
func (cfg *Config) MaxWriteAttempts() int { return cfg.maxWriteAttempts }

// GetLogger returns the configured logger.
func (cfg *Config) GetLogger() logger.Logger { return cfg.logger }

// --- Option ---

// Option is a functional option for configuring a Mux.
type Option interface {
	apply(*Config) error
}

type optFunc func(*Config) error

func (f optFunc) apply(cfg *Config) error { return f(cfg) }

// WithPollTimeout sets the bound on one reactor poll. The value is rounded up
// to a whole millisecond, epoll's granularity, and must be positive.
func WithPollTimeout(d time.Duration) Option {
	return optFunc(func(cfg *Config) error {
		if d <= 0 {
			return errors.New("serialmux: poll timeout must be positive")
		}
		cfg.pollTimeout = d

		return nil
	})
}

// WithReadBufferLen sets the drain buffer's initial capacity and growth increment.
func WithReadBufferLen(n int) Option {
	return optFunc(func(cfg *Config) error {
		if n < 16 {
			return fmt.Errorf("serialmux: read buffer length %d too small, minimum is 16", n)
		}
		cfg.readBufferLen = n

		return nil
	})
}

// WithMaxWriteAttempts bounds the write pump's retry loop per request. When the
// bound is reached before the full payload was accepted, the request fails with
// ErrWriteRetriesExhausted. n = 0 restores the default unbounded busy-retry.
func WithMaxWriteAttempts(n int) Option {
	return optFunc(func(cfg *Config) error {
		if n < 0 {
			return errors.New("serialmux: max write attempts must not be negative")
		}
		cfg.maxWriteAttempts = n

		return nil
	})
}

// WithReadErrorHandler sets the handler for non-fatal read errors.
func WithReadErrorHandler(h ErrorHandler) Option {
	return optFunc(func(cfg *Config) error {
		cfg.onReadError = h

		return nil
	})
}

// WithWriteErrorHandler sets the handler for non-fatal write errors.
func WithWriteErrorHandler(h ErrorHandler) Option {
	return optFunc(func(cfg *Config) error {
		cfg.onWriteError = h

		return nil
	})
}

// WithFatalHandler sets the handler for unrecoverable reactor errors.
func WithFatalHandler(h FatalHandler) Option {
	return optFunc(func(cfg *Config) error {
		cfg.onFatal = h

		return nil
	})
}

// WithLogger sets the logger for the mux.
func WithLogger(l logger.Logger) Option {
	return optFunc(func(cfg *Config) error {
		if l == nil {
			return errors.New("serialmux: logger must not be nil")
		}
		cfg.logger = l

		return nil
	})
}
