package hci

import (
	"errors"
	"io"
	"net"
	"os"
	"time"
)

// Transport is the byte link to the radio module.
//
// Read may return (0, nil) when no bytes are available. Write must either
// write all of p or return an error. Opening and closing the underlying
// device is up to the owner of the Transport.
type Transport interface {
	io.Reader
	io.Writer
}

// ReadDeadliner is implemented by transports supporting read deadlines,
// such as net.Conn. The receive loop uses it to bound each read by the
// poll timeout.
type ReadDeadliner interface {
	SetReadDeadline(t time.Time) error
}

// TimedReader is implemented by transports whose Read already waits for data
// up to a bounded timeout, such as a serial port configured with a read
// timeout. The receive loop does not pause after an empty read from such a
// transport.
type TimedReader interface {
	ReadTimeout() time.Duration
}

// blocksOnRead reports whether an empty read from t already waited.
func blocksOnRead(t Transport) bool {
	r, ok := t.(TimedReader)

	return ok && r.ReadTimeout() > 0
}

// isTimeout reports whether err is a read deadline expiry.
func isTimeout(err error) bool {
	if errors.Is(err, os.ErrDeadlineExceeded) {
		return true
	}

	var netErr net.Error

	return errors.As(err, &netErr) && netErr.Timeout()
}
