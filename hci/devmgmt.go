package hci

import (
	"context"
	"encoding/binary"
	"fmt"
)

// RadioConfigSize is the serialized size of a RadioConfig.
const RadioConfigSize = 21

// Radio modes.
const (
	RadioModeStandard byte = 0x00
	RadioModeEcho     byte = 0x01
	RadioModeSniffer  byte = 0x02
)

// Modulations.
const (
	ModulationLoRa byte = 0x00
	ModulationFSK  byte = 0x01
)

// LoRa bandwidths.
const (
	Bandwidth125kHz byte = 0x00
	Bandwidth250kHz byte = 0x01
	Bandwidth500kHz byte = 0x02
)

// LoRa spreading factors.
const (
	SpreadingFactor7  byte = 7
	SpreadingFactor8  byte = 8
	SpreadingFactor9  byte = 9
	SpreadingFactor10 byte = 10
	SpreadingFactor11 byte = 11
	SpreadingFactor12 byte = 12
)

// LoRa error coding rates.
const (
	ErrorCoding4_5 byte = 0x01
	ErrorCoding4_6 byte = 0x02
	ErrorCoding4_7 byte = 0x03
	ErrorCoding4_8 byte = 0x04
)

// RadioConfig is the radio configuration of the module.
type RadioConfig struct {
	RadioMode       byte
	GroupAddress    byte
	TxGroupAddress  byte
	DeviceAddress   uint16
	TxDeviceAddress uint16
	Modulation      byte
	Frequency       uint32 // 24-bit register value, see FrequencyFromRegister
	Bandwidth       byte
	SpreadingFactor byte
	ErrorCoding     byte
	PowerLevel      byte // dBm
	TxControl       byte
	RxControl       byte
	RxWindowTime    uint16 // ms
	LEDControl      byte   // bit set, see LEDControlString
	RadioOptions    byte   // bit set, see RadioOptionsString
}

// MarshalBinary returns the 21-byte wire form of c.
func (c *RadioConfig) MarshalBinary() ([]byte, error) {
	if c.Frequency > 0xFFFFFF {
		return nil, fmt.Errorf("hci: frequency register 0x%X exceeds 24 bits", c.Frequency)
	}

	b := make([]byte, 0, RadioConfigSize)
	b = append(b, c.RadioMode, c.GroupAddress, c.TxGroupAddress)
	b = binary.LittleEndian.AppendUint16(b, c.DeviceAddress)
	b = binary.LittleEndian.AppendUint16(b, c.TxDeviceAddress)
	b = append(b, c.Modulation, byte(c.Frequency), byte(c.Frequency>>8), byte(c.Frequency>>16))
	b = append(b, c.Bandwidth, c.SpreadingFactor, c.ErrorCoding, c.PowerLevel, c.TxControl, c.RxControl)
	b = binary.LittleEndian.AppendUint16(b, c.RxWindowTime)
	b = append(b, c.LEDControl, c.RadioOptions)

	return b, nil
}

// UnmarshalBinary decodes the 21-byte wire form into c.
func (c *RadioConfig) UnmarshalBinary(b []byte) error {
	if len(b) < RadioConfigSize {
		return fmt.Errorf("%w: radio config of %d bytes, need %d", ErrMessageLength, len(b), RadioConfigSize)
	}

	c.RadioMode = b[0]
	c.GroupAddress = b[1]
	c.TxGroupAddress = b[2]
	c.DeviceAddress = binary.LittleEndian.Uint16(b[3:])
	c.TxDeviceAddress = binary.LittleEndian.Uint16(b[5:])
	c.Modulation = b[7]
	c.Frequency = uint32(b[8]) | uint32(b[9])<<8 | uint32(b[10])<<16
	c.Bandwidth = b[11]
	c.SpreadingFactor = b[12]
	c.ErrorCoding = b[13]
	c.PowerLevel = b[14]
	c.TxControl = b[15]
	c.RxControl = b[16]
	c.RxWindowTime = binary.LittleEndian.Uint16(b[17:])
	c.LEDControl = b[19]
	c.RadioOptions = b[20]

	return nil
}

// devMgmtService handles the device management service.
type devMgmtService struct {
	serviceBase
}

func (s *devMgmtService) handleMessage(msg *Message) {
	switch msg.MessageID {
	case DevMgmtPingRsp, DevMgmtResetRsp,
		DevMgmtGetDeviceInfoRsp, DevMgmtGetFWInfoRsp,
		DevMgmtSetRadioConfigRsp, DevMgmtGetRadioConfigRsp, DevMgmtResetRadioConfigRsp:
		s.logStatus(msg, DevMgmtStatusString)

	case DevMgmtPowerUpInd:
		s.logger.Info("hci: radio module powered up")

	default:
		s.unsupported(msg)
	}
}

// Ping checks that the module answers.
func (c *Connection) Ping(ctx context.Context) error {
	_, err := c.SendHCIMessage(ctx, DevMgmtSAP, DevMgmtPingReq, DevMgmtPingRsp, nil)

	return err
}

// ResetRadio restarts the radio module and returns its status.
func (c *Connection) ResetRadio(ctx context.Context) (byte, error) {
	return c.request(ctx, DevMgmtSAP, DevMgmtResetReq, DevMgmtResetRsp, nil)
}

// FactoryReset restores the default radio configuration and returns the module status.
func (c *Connection) FactoryReset(ctx context.Context) (byte, error) {
	return c.request(ctx, DevMgmtSAP, DevMgmtResetRadioConfigReq, DevMgmtResetRadioConfigRsp, nil)
}

// GetRadioConfig reads the radio configuration. The returned config is nil
// unless status is DevMgmtStatusOK.
func (c *Connection) GetRadioConfig(ctx context.Context) (*RadioConfig, byte, error) {
	rsp, err := c.SendHCIMessage(ctx, DevMgmtSAP, DevMgmtGetRadioConfigReq, DevMgmtGetRadioConfigRsp, nil)
	if err != nil {
		return nil, 0, err
	}

	status, err := rsp.Status()
	if err != nil || status != DevMgmtStatusOK {
		return nil, status, err
	}

	cfg := &RadioConfig{}
	if err := cfg.UnmarshalBinary(rsp.Payload[1:]); err != nil {
		return nil, status, err
	}

	return cfg, status, nil
}

// SetRadioConfig writes the radio configuration to destMemory
// (RadioConfigRAM or RadioConfigEEPROM) and returns the module status.
func (c *Connection) SetRadioConfig(ctx context.Context, cfg *RadioConfig, destMemory byte) (byte, error) {
	b, err := cfg.MarshalBinary()
	if err != nil {
		return 0, err
	}

	payload := make([]byte, 0, 1+RadioConfigSize)
	payload = append(payload, destMemory)
	payload = append(payload, b...)

	return c.request(ctx, DevMgmtSAP, DevMgmtSetRadioConfigReq, DevMgmtSetRadioConfigRsp, payload)
}
