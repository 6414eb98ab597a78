package slip

import "fmt"

// State is the decoder state.
type State int

const (
	StateIdle      State = iota // between frames
	StateReceiving              // inside a frame
	StateEscaped                // inside a frame, after ESC
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "Idle"
	case StateReceiving:
		return "Receiving"
	case StateEscaped:
		return "Escaped"
	default:
		return "Unknown"
	}
}

// FrameFunc receives a decoded frame. The slice aliases the decoder buffer
// and must not be retained after the function returns.
type FrameFunc func(frame []byte)

// ErrorFunc receives a decoding error for a discarded frame.
type ErrorFunc func(err error)

// Decoder is a streaming SLIP decoder.
//
// Decoder is NOT goroutine-safe. It is meant to be fed by a single receive loop.
type Decoder struct {
	buf      []byte
	pos      int
	state    State
	overflow bool

	onFrame FrameFunc
	onError ErrorFunc
}

// NewDecoder creates a Decoder holding frames of up to size bytes.
// onFrame is called for every complete frame.
func NewDecoder(size int, onFrame FrameFunc) *Decoder {
	if size <= 0 {
		panic("slip: decoder size must be positive")
	}

	return &Decoder{
		buf:     make([]byte, size),
		onFrame: onFrame,
	}
}

// OnError sets the function receiving errors for discarded frames.
func (d *Decoder) OnError(fn ErrorFunc) {
	d.onError = fn
}

// State returns the current decoder state.
func (d *Decoder) State() State {
	return d.state
}

// Size returns the decoder buffer capacity.
func (d *Decoder) Size() int {
	return len(d.buf)
}

// Reset drops any partially received frame and returns to StateIdle.
func (d *Decoder) Reset() {
	d.pos = 0
	d.overflow = false
	d.state = StateIdle
}

// Write feeds p into the decoder. It always consumes all of p.
func (d *Decoder) Write(p []byte) (int, error) {
	d.Decode(p)

	return len(p), nil
}

// Decode feeds a chunk of the byte stream into the decoder.
func (d *Decoder) Decode(p []byte) {
	for _, b := range p {
		d.DecodeByte(b)
	}
}

// DecodeByte feeds a single byte into the decoder.
func (d *Decoder) DecodeByte(b byte) {
	switch d.state {
	case StateIdle:
		switch b {
		case END:
			// empty frame, nothing to do
		case ESC:
			d.state = StateEscaped
		default:
			d.store(b)
			d.state = StateReceiving
		}

	case StateReceiving:
		switch b {
		case END:
			d.complete()
		case ESC:
			d.state = StateEscaped
		default:
			d.store(b)
		}

	case StateEscaped:
		switch b {
		case END:
			d.complete()
		case ESCEND:
			d.store(END)
			d.state = StateReceiving
		case ESCESC:
			d.store(ESC)
			d.state = StateReceiving
		default:
			d.Reset()
			d.report(fmt.Errorf("%w: 0x%02X after ESC", ErrProtocolSyntax, b))
		}
	}
}

func (d *Decoder) store(b byte) {
	if d.pos >= len(d.buf) {
		d.overflow = true
		return
	}

	d.buf[d.pos] = b
	d.pos++
}

func (d *Decoder) complete() {
	n, overflow := d.pos, d.overflow
	d.Reset()

	if overflow {
		d.report(fmt.Errorf("%w: limit %d bytes", ErrFrameOverflow, len(d.buf)))
		return
	}

	if n > 0 && d.onFrame != nil {
		d.onFrame(d.buf[:n])
	}
}

func (d *Decoder) report(err error) {
	if d.onError != nil {
		d.onError(err)
	}
}
