package hci

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRadioConfig() *RadioConfig {
	return &RadioConfig{
		RadioMode:       RadioModeStandard,
		GroupAddress:    0x10,
		TxGroupAddress:  0x11,
		DeviceAddress:   0x1234,
		TxDeviceAddress: 0x5678,
		Modulation:      ModulationLoRa,
		Frequency:       14221312, // 868 MHz
		Bandwidth:       Bandwidth125kHz,
		SpreadingFactor: SpreadingFactor9,
		ErrorCoding:     ErrorCoding4_5,
		PowerLevel:      14,
		TxControl:       0,
		RxControl:       1,
		RxWindowTime:    3000,
		LEDControl:      0x0F,
		RadioOptions:    0x04,
	}
}

func TestRadioConfig_Layout(t *testing.T) {
	b, err := testRadioConfig().MarshalBinary()
	require.NoError(t, err)
	require.Len(t, b, RadioConfigSize)

	assert.Equal(t, []byte{
		RadioModeStandard, 0x10, 0x11,
		0x34, 0x12, // device address
		0x78, 0x56, // tx device address
		ModulationLoRa,
		0x00, 0x00, 0xD9, // frequency register, 24 bit
		Bandwidth125kHz, SpreadingFactor9, ErrorCoding4_5, 14, 0, 1,
		0xB8, 0x0B, // rx window 3000 ms
		0x0F, 0x04,
	}, b)
}

func TestRadioConfig_RoundTrip(t *testing.T) {
	want := testRadioConfig()
	b, err := want.MarshalBinary()
	require.NoError(t, err)

	var got RadioConfig
	require.NoError(t, got.UnmarshalBinary(b))
	assert.Equal(t, *want, got)

	require.ErrorIs(t, got.UnmarshalBinary(b[:RadioConfigSize-1]), ErrMessageLength)
}

func TestRadioConfig_FrequencyOverflow(t *testing.T) {
	cfg := testRadioConfig()
	cfg.Frequency = 1 << 24

	_, err := cfg.MarshalBinary()
	require.Error(t, err)
}

func TestConnection_GetRadioConfig(t *testing.T) {
	conn, module := newTestConnection(t)

	cfgBytes, err := testRadioConfig().MarshalBinary()
	require.NoError(t, err)

	reqCh := module.respond(DevMgmtSAP, DevMgmtGetRadioConfigRsp, append([]byte{DevMgmtStatusOK}, cfgBytes...))

	cfg, status, err := conn.GetRadioConfig(t.Context())
	require.NoError(t, err)
	assert.Equal(t, DevMgmtStatusOK, status)
	assert.Equal(t, testRadioConfig(), cfg)

	req := <-reqCh
	require.NotNil(t, req)
	assert.Equal(t, DevMgmtGetRadioConfigReq, req.MessageID)
	assert.Empty(t, req.Payload)
}

func TestConnection_GetRadioConfig_StatusError(t *testing.T) {
	conn, module := newTestConnection(t)

	module.respond(DevMgmtSAP, DevMgmtGetRadioConfigRsp, []byte{DevMgmtStatusWrongDeviceMode})

	cfg, status, err := conn.GetRadioConfig(t.Context())
	require.NoError(t, err)
	assert.Equal(t, DevMgmtStatusWrongDeviceMode, status)
	assert.Nil(t, cfg)
}

func TestConnection_SetRadioConfig(t *testing.T) {
	conn, module := newTestConnection(t)

	reqCh := module.respond(DevMgmtSAP, DevMgmtSetRadioConfigRsp, []byte{DevMgmtStatusOK})

	status, err := conn.SetRadioConfig(t.Context(), testRadioConfig(), RadioConfigEEPROM)
	require.NoError(t, err)
	assert.Equal(t, DevMgmtStatusOK, status)

	req := <-reqCh
	require.NotNil(t, req)
	require.Len(t, req.Payload, 1+RadioConfigSize)
	assert.Equal(t, RadioConfigEEPROM, req.Payload[0])

	var sent RadioConfig
	require.NoError(t, sent.UnmarshalBinary(req.Payload[1:]))
	assert.Equal(t, *testRadioConfig(), sent)
}

func TestConnection_SetRadioConfig_SnifferMode(t *testing.T) {
	conn, module := newTestConnection(t)

	reqCh := module.respond(DevMgmtSAP, DevMgmtSetRadioConfigRsp, []byte{DevMgmtStatusOK})

	cfg := testRadioConfig()
	cfg.RadioMode = RadioModeSniffer

	_, err := conn.SetRadioConfig(t.Context(), cfg, RadioConfigRAM)
	require.NoError(t, err)

	req := <-reqCh
	require.NotNil(t, req)
	assert.Equal(t, byte(0x02), req.Payload[1], "sniffer mode byte on the wire")
	assert.Equal(t, "Sniffer", RadioModeString(req.Payload[1]))
}

func TestConnection_FactoryResetAndPing(t *testing.T) {
	conn, module := newTestConnection(t)

	reqCh := module.respond(DevMgmtSAP, DevMgmtResetRadioConfigRsp, []byte{DevMgmtStatusOK})
	status, err := conn.FactoryReset(t.Context())
	require.NoError(t, err)
	assert.Equal(t, DevMgmtStatusOK, status)
	assert.Equal(t, DevMgmtResetRadioConfigReq, (<-reqCh).MessageID)

	reqCh = module.respond(DevMgmtSAP, DevMgmtPingRsp, []byte{DevMgmtStatusOK})
	require.NoError(t, conn.Ping(t.Context()))
	assert.Equal(t, DevMgmtPingReq, (<-reqCh).MessageID)

	reqCh = module.respond(DevMgmtSAP, DevMgmtResetRsp, []byte{DevMgmtStatusOK})
	status, err = conn.ResetRadio(t.Context())
	require.NoError(t, err)
	assert.Equal(t, DevMgmtStatusOK, status)
	assert.Equal(t, DevMgmtResetReq, (<-reqCh).MessageID)
}
