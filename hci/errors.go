package hci

import "errors"

var (
	// ErrChecksum reports a frame whose CRC16 does not verify.
	ErrChecksum = errors.New("hci: checksum mismatch")

	// ErrMessageLength reports a frame or payload too short for its layout.
	ErrMessageLength = errors.New("hci: message too short")

	// ErrPayloadLength reports a payload larger than MaxPayloadSize.
	ErrPayloadLength = errors.New("hci: payload too long")

	// ErrPayloadPointer reports a request declaring payload bytes it does not carry.
	ErrPayloadPointer = errors.New("hci: payload missing")

	// ErrTransport reports a failed or partial write to the transport.
	ErrTransport = errors.New("hci: transport error")

	// ErrNoResponse reports that the expected message did not arrive in time.
	ErrNoResponse = errors.New("hci: no response")

	// ErrRequestPending reports an attempt to wait while another wait is in progress.
	ErrRequestPending = errors.New("hci: request already pending")

	// ErrConnClosed reports an operation on a connection that is not open.
	ErrConnClosed = errors.New("hci: connection closed")
)
