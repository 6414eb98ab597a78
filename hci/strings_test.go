package hci

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestStatusStrings(t *testing.T) {
	assert.Equal(t, "OK", DevMgmtStatusString(DevMgmtStatusOK))
	assert.Equal(t, "wrong device mode", DevMgmtStatusString(DevMgmtStatusWrongDeviceMode))
	assert.Equal(t, "queue full", RadioLinkStatusString(RadioLinkStatusQueueFull))
	assert.Equal(t, "wrong radio mode", RLTStatusString(RLTStatusWrongRadioMode))
	assert.Equal(t, "Unsupported ID", RLTStatusString(0x42))
}

func TestRadioConfigStrings(t *testing.T) {
	assert.Equal(t, byte(0x02), RadioModeSniffer)
	assert.Equal(t, "Standard", RadioModeString(0x00))
	assert.Equal(t, "Echo", RadioModeString(0x01))
	assert.Equal(t, "Sniffer", RadioModeString(0x02))
	assert.Equal(t, "Unsupported ID", RadioModeString(0x03))
	assert.Equal(t, "LoRa", ModulationString(ModulationLoRa))
	assert.Equal(t, "500 kHz", BandwidthString(Bandwidth500kHz))

	assert.Equal(t, "SF7", SpreadingFactorString(0))
	assert.Equal(t, "SF7", SpreadingFactorString(SpreadingFactor7))
	assert.Equal(t, "SF12", SpreadingFactorString(SpreadingFactor12))
	assert.Equal(t, "Unsupported ID", SpreadingFactorString(13))

	assert.Equal(t, "4/5", ErrorCodingString(0))
	assert.Equal(t, "4/8", ErrorCodingString(ErrorCoding4_8))

	assert.Equal(t, "5 dBm", PowerLevelString(0))
	assert.Equal(t, "7 dBm", PowerLevelString(7))
	assert.Equal(t, "14 dBm", PowerLevelString(14))
	assert.Equal(t, "Unsupported ID", PowerLevelString(22))

	assert.Equal(t, "Tx Filter on", TxControlString(1))
	assert.Equal(t, "Rx window on", RxControlString(2))
}

func TestCombinedStrings(t *testing.T) {
	assert.Equal(t, "off", LEDControlString(0))
	assert.Equal(t, "Rx(D3)/Alive(D4)", LEDControlString(0x05))
	assert.Equal(t, "Rx(D3)/Tx(D2)/Alive(D4)/Button(D1)", LEDControlString(0xFF))
	assert.Equal(t, "RTC ON/HCI PowerUp-Ind", RadioOptionsString(0x0A))
}

func TestFrequencyFromRegister(t *testing.T) {
	assert.Equal(t, uint32(868_000_000), FrequencyFromRegister(14221312))
	assert.Equal(t, uint32(0), FrequencyFromRegister(0))
	// 61.03515625 Hz per step
	assert.Equal(t, uint32(61), FrequencyFromRegister(1))
}

func TestRTCTime(t *testing.T) {
	tm := time.Date(2023, time.December, 31, 23, 59, 58, 0, time.UTC)
	packed := EncodeRTCTime(tm)

	assert.Equal(t, uint32(58), packed&0x3F)
	assert.Equal(t, uint32(59), packed>>6&0x3F)
	assert.Equal(t, uint32(12), packed>>12&0x0F)
	assert.Equal(t, uint32(23), packed>>16&0x1F)
	assert.Equal(t, uint32(31), packed>>21&0x1F)
	assert.Equal(t, uint32(23), packed>>26)

	assert.Equal(t, tm, DecodeRTCTime(packed))
}
