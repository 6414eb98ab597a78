package hci

import (
	"strconv"
	"strings"
	"time"
)

// unsupportedID is returned for identifiers missing from a table.
const unsupportedID = "Unsupported ID"

// oscillatorHz is the crystal frequency of the SX1272 transceiver.
const oscillatorHz = 32_000_000

var devMgmtStatusStrings = map[byte]string{
	DevMgmtStatusOK:              "OK",
	DevMgmtStatusError:           "error",
	DevMgmtStatusCmdNotSupported: "command not supported",
	DevMgmtStatusWrongParameter:  "wrong parameter",
	DevMgmtStatusWrongDeviceMode: "wrong device mode",
}

var radioLinkStatusStrings = map[byte]string{
	RadioLinkStatusOK:              "OK",
	RadioLinkStatusError:           "error",
	RadioLinkStatusCmdNotSupported: "command not supported",
	RadioLinkStatusWrongParameter:  "wrong parameter",
	RadioLinkStatusWrongDeviceMode: "wrong device mode",
	RadioLinkStatusMediaBusy:       "media busy",
	RadioLinkStatusDeviceBusy:      "device busy",
	RadioLinkStatusQueueFull:       "queue full",
}

var rltStatusStrings = map[byte]string{
	RLTStatusOK:              "OK",
	RLTStatusError:           "error",
	RLTStatusCmdNotSupported: "command not supported",
	RLTStatusWrongParameter:  "wrong parameter",
	RLTStatusWrongRadioMode:  "wrong radio mode",
}

var radioModeStrings = map[byte]string{
	RadioModeStandard: "Standard",
	RadioModeEcho:     "Echo",
	RadioModeSniffer:  "Sniffer",
}

var modulationStrings = map[byte]string{
	ModulationLoRa: "LoRa",
	ModulationFSK:  "FSK",
}

var bandwidthStrings = map[byte]string{
	Bandwidth125kHz: "125 kHz",
	Bandwidth250kHz: "250 kHz",
	Bandwidth500kHz: "500 kHz",
}

var errorCodingStrings = map[byte]string{
	0:              "4/5",
	ErrorCoding4_5: "4/5",
	ErrorCoding4_6: "4/6",
	ErrorCoding4_7: "4/7",
	ErrorCoding4_8: "4/8",
}

var txControlStrings = map[byte]string{
	0: "Tx Filter off",
	1: "Tx Filter on",
}

var rxControlStrings = map[byte]string{
	0: "Rx off",
	1: "Rx always on",
	2: "Rx window on",
}

// indexed by bit position
var ledControlBits = []string{"Rx(D3)", "Tx(D2)", "Alive(D4)", "Button(D1)"}

// indexed by bit position
var radioOptionBits = []string{"Ext. Output", "RTC ON", "HCI TxInd", "HCI PowerUp-Ind", "HCI Button-Ind"}

func lookup(table map[byte]string, id byte) string {
	if s, ok := table[id]; ok {
		return s
	}

	return unsupportedID
}

func combined(bits []string, value byte) string {
	var names []string
	for i, name := range bits {
		if value&(1<<i) != 0 {
			names = append(names, name)
		}
	}

	if len(names) == 0 {
		return "off"
	}

	return strings.Join(names, "/")
}

// DevMgmtStatusString returns the text of a device management status code.
func DevMgmtStatusString(status byte) string { return lookup(devMgmtStatusStrings, status) }

// RadioLinkStatusString returns the text of a radio link status code.
func RadioLinkStatusString(status byte) string { return lookup(radioLinkStatusStrings, status) }

// RLTStatusString returns the text of a radio link test status code.
func RLTStatusString(status byte) string { return lookup(rltStatusStrings, status) }

// RadioModeString returns the name of a radio mode.
func RadioModeString(mode byte) string { return lookup(radioModeStrings, mode) }

// ModulationString returns the name of a modulation.
func ModulationString(m byte) string { return lookup(modulationStrings, m) }

// BandwidthString returns the text of a LoRa bandwidth.
func BandwidthString(bw byte) string { return lookup(bandwidthStrings, bw) }

// SpreadingFactorString returns the text of a LoRa spreading factor.
// Values below SF7 are reported as SF7, as the module does.
func SpreadingFactorString(sf byte) string {
	switch {
	case sf <= SpreadingFactor7:
		return "SF7"
	case sf <= SpreadingFactor12:
		return "SF" + strconv.Itoa(int(sf))
	default:
		return unsupportedID
	}
}

// ErrorCodingString returns the text of a LoRa error coding rate.
func ErrorCodingString(ec byte) string { return lookup(errorCodingStrings, ec) }

// PowerLevelString returns the text of a power level. Levels below 5 dBm
// are reported as 5 dBm.
func PowerLevelString(level byte) string {
	switch {
	case level <= 5:
		return "5 dBm"
	case level <= 21:
		return strconv.Itoa(int(level)) + " dBm"
	default:
		return unsupportedID
	}
}

// TxControlString returns the text of a TX control setting.
func TxControlString(v byte) string { return lookup(txControlStrings, v) }

// RxControlString returns the text of an RX control setting.
func RxControlString(v byte) string { return lookup(rxControlStrings, v) }

// LEDControlString returns the enabled LEDs joined by "/", or "off".
func LEDControlString(v byte) string { return combined(ledControlBits, v) }

// RadioOptionsString returns the enabled radio options joined by "/", or "off".
func RadioOptionsString(v byte) string { return combined(radioOptionBits, v) }

// FrequencyFromRegister converts a 24-bit frequency register value to Hz.
func FrequencyFromRegister(reg uint32) uint32 {
	return uint32(uint64(reg) * oscillatorHz >> 19)
}

// DecodeRTCTime converts the packed module RTC time to calendar time in UTC.
//
//	bits  0-5  seconds
//	bits  6-11 minutes
//	bits 12-15 month
//	bits 16-20 hours
//	bits 21-25 day
//	bits 26-31 years since 2000
func DecodeRTCTime(t uint32) time.Time {
	sec := int(t & 0x3F)
	minute := int(t >> 6 & 0x3F)
	month := time.Month(t >> 12 & 0x0F)
	hour := int(t >> 16 & 0x1F)
	day := int(t >> 21 & 0x1F)
	year := int(t>>26&0x3F) + 2000

	return time.Date(year, month, day, hour, minute, sec, 0, time.UTC)
}

// EncodeRTCTime packs tm into the module RTC time format.
func EncodeRTCTime(tm time.Time) uint32 {
	return uint32(tm.Second()) |
		uint32(tm.Minute())<<6 |
		uint32(tm.Month())<<12 |
		uint32(tm.Hour())<<16 |
		uint32(tm.Day())<<21 |
		uint32(tm.Year()-2000)<<26
}
