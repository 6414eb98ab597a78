// Package serialport connects an hci.Connection to a serial device.
package serialport

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/tarm/serial"

	"github.com/arloliu/go-wimod/hci"
)

// Defaults of a WiMOD LR serial interface.
const (
	DefaultBaud        = 115200
	DefaultReadTimeout = 100 * time.Millisecond
)

// ErrClosed is returned by operations on a closed Port.
var ErrClosed = errors.New("serialport: port closed")

// Config describes the serial device.
type Config struct {
	// Name is the device path, e.g. "/dev/ttyUSB0" or "COM3". A bare
	// name such as "ttyUSB0" is looked up under /dev.
	Name string
	// Baud defaults to DefaultBaud.
	Baud int
	// ReadTimeout bounds each Read. Zero means DefaultReadTimeout.
	ReadTimeout time.Duration
}

// DevicePath returns the device path for name.
func DevicePath(name string) string {
	if strings.ContainsAny(name, `/\`) || strings.HasPrefix(strings.ToUpper(name), "COM") {
		return name
	}

	return "/dev/" + name
}

// Port is a serial device implementing hci.Transport.
type Port struct {
	name        string
	rwc         io.ReadWriteCloser
	readTimeout time.Duration

	mu     sync.Mutex
	closed bool
}

var (
	_ hci.Transport   = (*Port)(nil)
	_ hci.TimedReader = (*Port)(nil)
)

// Open opens the serial device with 8 data bits, no parity and one stop bit.
func Open(cfg Config) (*Port, error) {
	if cfg.Name == "" {
		return nil, errors.New("serialport: device name is empty")
	}

	if cfg.Baud == 0 {
		cfg.Baud = DefaultBaud
	}

	if cfg.ReadTimeout == 0 {
		cfg.ReadTimeout = DefaultReadTimeout
	}

	name := DevicePath(cfg.Name)
	sp, err := serial.OpenPort(&serial.Config{
		Name:        name,
		Baud:        cfg.Baud,
		ReadTimeout: cfg.ReadTimeout,
		Size:        8,
		Parity:      serial.ParityNone,
		StopBits:    serial.Stop1,
	})
	if err != nil {
		return nil, fmt.Errorf("serialport: open %s: %w", name, err)
	}

	return newPort(name, sp, cfg.ReadTimeout), nil
}

func newPort(name string, rwc io.ReadWriteCloser, readTimeout time.Duration) *Port {
	return &Port{name: name, rwc: rwc, readTimeout: readTimeout}
}

// Name returns the device path.
func (p *Port) Name() string {
	return p.name
}

// ReadTimeout returns how long Read waits for data before returning (0, nil).
func (p *Port) ReadTimeout() time.Duration {
	return p.readTimeout
}

// Read reads available bytes. A read timeout with no data yields (0, nil).
func (p *Port) Read(b []byte) (int, error) {
	if p.isClosed() {
		return 0, ErrClosed
	}

	n, err := p.rwc.Read(b)
	if errors.Is(err, io.EOF) && !p.isClosed() {
		// the device reports an expired read timeout as EOF
		return n, nil
	}

	return n, err
}

// Write writes all of b.
func (p *Port) Write(b []byte) (int, error) {
	if p.isClosed() {
		return 0, ErrClosed
	}

	written := 0
	for written < len(b) {
		n, err := p.rwc.Write(b[written:])
		written += n
		if err != nil {
			return written, err
		}

		if n == 0 {
			return written, io.ErrShortWrite
		}
	}

	return written, nil
}

// Close closes the device. Closing twice is a no-op.
func (p *Port) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return nil
	}
	p.closed = true

	return p.rwc.Close()
}

func (p *Port) isClosed() bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.closed
}
