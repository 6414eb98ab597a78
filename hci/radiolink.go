package hci

import (
	"context"
	"encoding/binary"
	"fmt"
	"time"
)

// Radio data indication layout.
const (
	RadioMessageHeaderSize = 7 // format, destination and source addresses
	RadioMessageFooterSize = 7 // RSSI, SNR, RX time

	// RadioFormatExtended marks a radio data indication carrying the footer.
	RadioFormatExtended byte = 0x01
)

// RadioMessage is a radio packet received by the module.
type RadioMessage struct {
	Format           byte
	DstGroupAddress  byte
	DstDeviceAddress uint16
	SrcGroupAddress  byte
	SrcDeviceAddress uint16
	Payload          []byte

	// Set only when Format has RadioFormatExtended.
	Extended bool
	RSSI     int16  // dBm
	SNR      int8   // dB
	RxTime   uint32 // module RTC time, see DecodeRTCTime
}

// RxTimestamp returns RxTime as calendar time.
func (m *RadioMessage) RxTimestamp() time.Time {
	return DecodeRTCTime(m.RxTime)
}

// ParseRadioMessage decodes the payload of a radio data indication.
// The returned Payload aliases payload.
func ParseRadioMessage(payload []byte) (*RadioMessage, error) {
	if len(payload) < RadioMessageHeaderSize {
		return nil, fmt.Errorf("%w: radio message of %d bytes, need %d", ErrMessageLength, len(payload), RadioMessageHeaderSize)
	}

	m := &RadioMessage{
		Format:           payload[0],
		DstGroupAddress:  payload[1],
		DstDeviceAddress: binary.LittleEndian.Uint16(payload[2:]),
		SrcGroupAddress:  payload[4],
		SrcDeviceAddress: binary.LittleEndian.Uint16(payload[5:]),
	}

	end := len(payload)
	if m.Format&RadioFormatExtended != 0 {
		end -= RadioMessageFooterSize
		if end < RadioMessageHeaderSize {
			return nil, fmt.Errorf("%w: extended radio message of %d bytes, need %d", ErrMessageLength,
				len(payload), RadioMessageHeaderSize+RadioMessageFooterSize)
		}

		footer := payload[end:]
		m.Extended = true
		m.RSSI = int16(binary.LittleEndian.Uint16(footer))
		m.SNR = int8(footer[2])
		m.RxTime = binary.LittleEndian.Uint32(footer[3:])
	}

	m.Payload = payload[RadioMessageHeaderSize:end]

	return m, nil
}

// RadioMessageHandler receives decoded radio data indications.
// The message payload is only valid during the call.
type RadioMessageHandler func(msg *RadioMessage)

// radioLinkService handles the radio link service.
type radioLinkService struct {
	serviceBase
}

func (s *radioLinkService) handleMessage(msg *Message) {
	switch msg.MessageID {
	case RadioLinkSendUDataRsp:
		s.logStatus(msg, RadioLinkStatusString)

	case RadioLinkUDataRxInd:
		rm, err := ParseRadioMessage(msg.Payload)
		if err != nil {
			s.logger.Warn("hci: malformed radio message dropped", "error", err)
			return
		}
		s.logger.Debug("hci: radio message received",
			"srcGroup", rm.SrcGroupAddress, "srcDevice", rm.SrcDeviceAddress,
			"length", len(rm.Payload), "rssi", rm.RSSI, "snr", rm.SNR,
		)

	case RadioLinkUDataTxInd:
		s.logger.Debug("hci: radio message sent")

	default:
		s.unsupported(msg)
	}
}

// SendURadioMessage sends data as an unreliable radio message and returns
// the module status.
func (c *Connection) SendURadioMessage(ctx context.Context, data []byte) (byte, error) {
	return c.request(ctx, RadioLinkSAP, RadioLinkSendUDataReq, RadioLinkSendUDataRsp, data)
}

// OnRadioMessage registers fn for received radio data indications.
// Malformed indications are not delivered. The returned function removes
// the registration.
func (c *Connection) OnRadioMessage(fn RadioMessageHandler) (unsubscribe func()) {
	return c.Subscribe(RadioLinkSAP, RadioLinkUDataRxInd, func(msg *Message) {
		rm, err := ParseRadioMessage(msg.Payload)
		if err != nil {
			return
		}
		fn(rm)
	})
}
