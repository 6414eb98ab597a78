// Package slip implements the SLIP (RFC 1055) byte-stream framing used by the
// WiMOD HCI serial interface.
//
// A frame on the wire is delimited by END bytes. END and ESC bytes occurring
// inside the frame are replaced by two-byte escape sequences:
//
//   - END (0xC0) is sent as ESC ESC_END (0xDB 0xDC)
//   - ESC (0xDB) is sent as ESC ESC_ESC (0xDB 0xDD)
//
// # Decoding
//
// A [Decoder] consumes an unstructured byte stream in chunks of any size and
// reports each complete frame through a callback. The decoder owns a single
// fixed-size buffer; the frame slice handed to the callback aliases that
// buffer and is only valid until the callback returns. Copy it to retain it.
//
// Malformed escape sequences and frames larger than the buffer are discarded
// and reported through the optional error callback as [ErrProtocolSyntax] and
// [ErrFrameOverflow]. The decoder never stops on such errors; it resumes at
// the next frame.
//
// # Encoding
//
// [Encode] writes a complete frame, including leading and trailing END bytes,
// into a caller supplied buffer.
package slip
