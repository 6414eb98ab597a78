package hci

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRadioMessage_Plain(t *testing.T) {
	payload := []byte{
		0x00,       // format
		0x10,       // dst group
		0x34, 0x12, // dst device
		0x20,       // src group
		0x78, 0x56, // src device
		'h', 'i',
	}

	msg, err := ParseRadioMessage(payload)
	require.NoError(t, err)

	assert.Equal(t, byte(0x10), msg.DstGroupAddress)
	assert.Equal(t, uint16(0x1234), msg.DstDeviceAddress)
	assert.Equal(t, byte(0x20), msg.SrcGroupAddress)
	assert.Equal(t, uint16(0x5678), msg.SrcDeviceAddress)
	assert.Equal(t, []byte("hi"), msg.Payload)
	assert.False(t, msg.Extended)
}

func TestParseRadioMessage_Extended(t *testing.T) {
	rx := time.Date(2024, time.March, 5, 14, 30, 15, 0, time.UTC)
	rxTime := EncodeRTCTime(rx)

	payload := []byte{RadioFormatExtended, 0x10, 0x34, 0x12, 0x20, 0x78, 0x56, 0xAB}
	payload = append(payload,
		0xA9, 0xFF, // RSSI -87
		0xFD, // SNR -3
		byte(rxTime), byte(rxTime>>8), byte(rxTime>>16), byte(rxTime>>24),
	)

	msg, err := ParseRadioMessage(payload)
	require.NoError(t, err)

	assert.True(t, msg.Extended)
	assert.Equal(t, []byte{0xAB}, msg.Payload)
	assert.Equal(t, int16(-87), msg.RSSI)
	assert.Equal(t, int8(-3), msg.SNR)
	assert.Equal(t, rx, msg.RxTimestamp())
}

func TestParseRadioMessage_TooShort(t *testing.T) {
	_, err := ParseRadioMessage(make([]byte, RadioMessageHeaderSize-1))
	require.ErrorIs(t, err, ErrMessageLength)

	// extended flag without room for the footer
	short := make([]byte, RadioMessageHeaderSize+RadioMessageFooterSize-1)
	short[0] = RadioFormatExtended
	_, err = ParseRadioMessage(short)
	require.ErrorIs(t, err, ErrMessageLength)

	// empty payload is fine
	msg, err := ParseRadioMessage(make([]byte, RadioMessageHeaderSize))
	require.NoError(t, err)
	assert.Empty(t, msg.Payload)
}
