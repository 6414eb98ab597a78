package hci

import (
	"encoding/binary"
	"fmt"

	"github.com/sigurn/crc16"
)

// Message layout limits.
const (
	HeaderSize     = 2   // service ID + message ID
	CRCSize        = 2   // CRC16, low byte first
	MaxPayloadSize = 280 // payload bytes per message
	MinMessageSize = HeaderSize + CRCSize
	MaxMessageSize = HeaderSize + MaxPayloadSize + CRCSize
)

// crcGood is the CRC residue over a complete message including its checksum.
const crcGood = 0xF0B8

var crcTable = crc16.MakeTable(crc16.CRC16_MCRF4XX)

// Message is a decoded HCI message.
//
// A Message returned by ParseMessage, or handed to a service handler or a
// subscriber, borrows its payload from the receive buffer. Use Clone to keep it.
type Message struct {
	ServiceID byte
	MessageID byte
	Payload   []byte
}

// Length returns the payload length.
func (m *Message) Length() int {
	return len(m.Payload)
}

// Clone returns a copy of m that owns its payload.
func (m *Message) Clone() *Message {
	c := &Message{ServiceID: m.ServiceID, MessageID: m.MessageID}
	if m.Payload != nil {
		c.Payload = make([]byte, len(m.Payload))
		copy(c.Payload, m.Payload)
	}

	return c
}

// Status returns the first payload byte, which carries the result code of a
// response message.
func (m *Message) Status() (byte, error) {
	if len(m.Payload) == 0 {
		return 0, fmt.Errorf("%w: 0x%02X/0x%02X has no status byte", ErrMessageLength, m.ServiceID, m.MessageID)
	}

	return m.Payload[0], nil
}

func (m *Message) String() string {
	return fmt.Sprintf("SAP=0x%02X MsgID=0x%02X Len=%d", m.ServiceID, m.MessageID, len(m.Payload))
}

// Checksum returns the CRC16 of data in the form it is transmitted: the one's
// complement of CRC-16/MCRF4XX.
func Checksum(data []byte) uint16 {
	return ^crc16.Checksum(data, crcTable)
}

// BuildMessage returns the unframed wire form of a message:
// service ID, message ID, payload and the checksum, low byte first.
func BuildMessage(serviceID, messageID byte, payload []byte) ([]byte, error) {
	return AppendMessage(make([]byte, 0, HeaderSize+len(payload)+CRCSize), serviceID, messageID, payload)
}

// AppendMessage appends the unframed wire form of a message to dst.
func AppendMessage(dst []byte, serviceID, messageID byte, payload []byte) ([]byte, error) {
	if len(payload) > MaxPayloadSize {
		return dst, fmt.Errorf("%w: %d bytes, limit %d", ErrPayloadLength, len(payload), MaxPayloadSize)
	}

	start := len(dst)
	dst = append(dst, serviceID, messageID)
	dst = append(dst, payload...)
	dst = binary.LittleEndian.AppendUint16(dst, Checksum(dst[start:]))

	return dst, nil
}

// ParseMessage validates a decoded frame and extracts its fields.
// The returned payload aliases frame.
func ParseMessage(frame []byte) (*Message, error) {
	if len(frame) < MinMessageSize {
		return nil, fmt.Errorf("%w: %d bytes, need at least %d", ErrMessageLength, len(frame), MinMessageSize)
	}

	if len(frame) > MaxMessageSize {
		return nil, fmt.Errorf("%w: frame of %d bytes, limit %d", ErrPayloadLength, len(frame), MaxMessageSize)
	}

	if crc16.Checksum(frame, crcTable) != crcGood {
		n := len(frame) - CRCSize
		return nil, fmt.Errorf("%w: got 0x%04X, want 0x%04X", ErrChecksum,
			binary.LittleEndian.Uint16(frame[n:]), Checksum(frame[:n]))
	}

	return &Message{
		ServiceID: frame[0],
		MessageID: frame[1],
		Payload:   frame[HeaderSize : len(frame)-CRCSize],
	}, nil
}
