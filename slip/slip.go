package slip

import (
	"errors"
	"fmt"
)

// SLIP special bytes.
const (
	END    byte = 0xC0 // frame delimiter
	ESC    byte = 0xDB // escape introducer
	ESCEND byte = 0xDC // escaped END
	ESCESC byte = 0xDD // escaped ESC
)

var (
	// ErrProtocolSyntax reports an ESC followed by a byte other than ESC_END or ESC_ESC.
	ErrProtocolSyntax = errors.New("slip: invalid escape sequence")

	// ErrFrameOverflow reports a frame that did not fit into the decoder buffer.
	ErrFrameOverflow = errors.New("slip: frame exceeds buffer size")

	// ErrBufferTooSmall reports that the encode destination cannot hold the frame.
	ErrBufferTooSmall = errors.New("slip: destination buffer too small")
)

// EncodedLen returns the number of bytes Encode writes for src.
func EncodedLen(src []byte) int {
	n := len(src) + 2
	for _, b := range src {
		if b == END || b == ESC {
			n++
		}
	}

	return n
}

// MaxEncodedLen returns the worst-case encoded size of an n-byte frame.
func MaxEncodedLen(n int) int {
	return 2*n + 2
}

// Encode writes src as a SLIP frame into dst and returns the number of bytes
// written. The frame starts and ends with END.
func Encode(dst, src []byte) (int, error) {
	if need := EncodedLen(src); need > len(dst) {
		return 0, fmt.Errorf("%w: need %d bytes, have %d", ErrBufferTooSmall, need, len(dst))
	}

	i := 0
	dst[i] = END
	i++

	for _, b := range src {
		switch b {
		case END:
			dst[i], dst[i+1] = ESC, ESCEND
			i += 2
		case ESC:
			dst[i], dst[i+1] = ESC, ESCESC
			i += 2
		default:
			dst[i] = b
			i++
		}
	}

	dst[i] = END
	i++

	return i, nil
}

// AppendEncode appends the SLIP frame of src to dst.
func AppendEncode(dst, src []byte) []byte {
	start := len(dst)
	need := EncodedLen(src)

	if cap(dst)-start < need {
		grown := make([]byte, start, start+need)
		copy(grown, dst)
		dst = grown
	}
	dst = dst[:start+need]

	// cannot fail, dst has exactly the required room
	_, _ = Encode(dst[start:], src)

	return dst
}
