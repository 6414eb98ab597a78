package hci

import (
	"errors"
	"fmt"
	"time"

	"github.com/arloliu/go-wimod/logger"
)

// Default values.
const (
	DefaultResponseTimeout = 1 * time.Second       // wait for a response message
	DefaultPollTimeout     = 50 * time.Millisecond // read deadline per receive loop iteration
	DefaultCloseTimeout    = 3 * time.Second       // wait for the receive loop on Close
	DefaultReadChunkSize   = 512                   // bytes requested per transport read
	DefaultSnapshotQueue   = 64                    // snapshots buffered for a slow sink
)

// Range limits.
const (
	MinResponseTimeout = 10 * time.Millisecond
	MaxResponseTimeout = 60 * time.Second

	MinPollTimeout = 1 * time.Millisecond
	MaxPollTimeout = 1 * time.Second

	MinReadChunkSize = 16
	MaxReadChunkSize = 4096

	MinSnapshotQueue = 1
	MaxSnapshotQueue = 4096
)

// ConnectionConfig holds all configuration for a WiMOD HCI connection.
type ConnectionConfig struct {
	responseTimeout time.Duration
	pollTimeout     time.Duration
	closeTimeout    time.Duration
	readChunkSize   int

	// snapshotSink receives the reconciled radio link test counters.
	snapshotSink  SnapshotSink
	snapshotQueue int

	// clock stamps radio link test snapshots.
	clock func() time.Time

	logger logger.Logger
}

// NewConnectionConfig creates a new connection configuration.
//
// opts are functional options applied in order; see With* functions.
func NewConnectionConfig(opts ...ConnOption) (*ConnectionConfig, error) {
	cfg := &ConnectionConfig{
		responseTimeout: DefaultResponseTimeout,
		pollTimeout:     DefaultPollTimeout,
		closeTimeout:    DefaultCloseTimeout,
		readChunkSize:   DefaultReadChunkSize,
		snapshotQueue:   DefaultSnapshotQueue,
		clock:           time.Now,
		logger:          logger.GetLogger(),
	}

	for _, opt := range opts {
		if err := opt.apply(cfg); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

// --- Getters ---

// ResponseTimeout returns the default time to wait for a response message.
func (cfg *ConnectionConfig) ResponseTimeout() time.Duration { return cfg.responseTimeout }

// PollTimeout returns the read deadline applied to each transport read.
func (cfg *ConnectionConfig) PollTimeout() time.Duration { return cfg.pollTimeout }

// CloseTimeout returns how long Close waits for the receive loop to exit.
func (cfg *ConnectionConfig) CloseTimeout() time.Duration { return cfg.closeTimeout }

// ReadChunkSize returns the number of bytes requested per transport read.
func (cfg *ConnectionConfig) ReadChunkSize() int { return cfg.readChunkSize }

// SnapshotSink returns the configured radio link test sink, or nil.
func (cfg *ConnectionConfig) SnapshotSink() SnapshotSink { return cfg.snapshotSink }

// SnapshotQueue returns how many snapshots are buffered ahead of the sink.
func (cfg *ConnectionConfig) SnapshotQueue() int { return cfg.snapshotQueue }

// GetLogger returns the configured logger.
func (cfg *ConnectionConfig) GetLogger() logger.Logger { return cfg.logger }

// --- ConnOption ---

// ConnOption is a functional option for configuring a ConnectionConfig.
type ConnOption interface {
	apply(*ConnectionConfig) error
}

type connOptFunc func(*ConnectionConfig) error

func (f connOptFunc) apply(cfg *ConnectionConfig) error { return f(cfg) }

// WithResponseTimeout sets the default time to wait for a response message.
// Must be in [10ms, 60s].
func WithResponseTimeout(d time.Duration) ConnOption {
	return connOptFunc(func(cfg *ConnectionConfig) error {
		if d < MinResponseTimeout || d > MaxResponseTimeout {
			return fmt.Errorf("hci: response timeout %v out of range [%v, %v]", d, MinResponseTimeout, MaxResponseTimeout)
		}
		cfg.responseTimeout = d

		return nil
	})
}

// WithPollTimeout sets the read deadline of the receive loop. It bounds how
// long Close takes to stop the loop on transports supporting deadlines.
// Must be in [1ms, 1s].
func WithPollTimeout(d time.Duration) ConnOption {
	return connOptFunc(func(cfg *ConnectionConfig) error {
		if d < MinPollTimeout || d > MaxPollTimeout {
			return fmt.Errorf("hci: poll timeout %v out of range [%v, %v]", d, MinPollTimeout, MaxPollTimeout)
		}
		cfg.pollTimeout = d

		return nil
	})
}

// WithCloseTimeout sets how long Close waits for the receive loop to exit.
func WithCloseTimeout(d time.Duration) ConnOption {
	return connOptFunc(func(cfg *ConnectionConfig) error {
		if d <= 0 {
			return errors.New("hci: close timeout must be positive")
		}
		cfg.closeTimeout = d

		return nil
	})
}

// WithReadChunkSize sets the number of bytes requested per transport read.
func WithReadChunkSize(n int) ConnOption {
	return connOptFunc(func(cfg *ConnectionConfig) error {
		if n < MinReadChunkSize || n > MaxReadChunkSize {
			return fmt.Errorf("hci: read chunk size %d out of range [%d, %d]", n, MinReadChunkSize, MaxReadChunkSize)
		}
		cfg.readChunkSize = n

		return nil
	})
}

// WithSnapshotSink sets the sink receiving radio link test snapshots.
func WithSnapshotSink(sink SnapshotSink) ConnOption {
	return connOptFunc(func(cfg *ConnectionConfig) error {
		if sink == nil {
			return errors.New("hci: snapshot sink must not be nil")
		}
		cfg.snapshotSink = sink

		return nil
	})
}

// WithSnapshotQueue sets how many snapshots may wait for a slow sink before
// new ones are dropped. Must be in [1, 4096].
func WithSnapshotQueue(n int) ConnOption {
	return connOptFunc(func(cfg *ConnectionConfig) error {
		if n < MinSnapshotQueue || n > MaxSnapshotQueue {
			return fmt.Errorf("hci: snapshot queue %d out of range [%d, %d]", n, MinSnapshotQueue, MaxSnapshotQueue)
		}
		cfg.snapshotQueue = n

		return nil
	})
}

// WithClock sets the time source stamping radio link test snapshots.
func WithClock(clock func() time.Time) ConnOption {
	return connOptFunc(func(cfg *ConnectionConfig) error {
		if clock == nil {
			return errors.New("hci: clock must not be nil")
		}
		cfg.clock = clock

		return nil
	})
}

// WithLogger sets the logger for the connection.
func WithLogger(l logger.Logger) ConnOption {
	return connOptFunc(func(cfg *ConnectionConfig) error {
		if l == nil {
			return errors.New("hci: logger must not be nil")
		}
		cfg.logger = l

		return nil
	})
}
