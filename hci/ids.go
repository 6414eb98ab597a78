package hci

// Service access point identifiers.
const (
	DevMgmtSAP       byte = 0x01 // device management
	RadioLinkTestSAP byte = 0x02 // radio link test
	RadioLinkSAP     byte = 0x03 // radio link (data link)
)

// Device management message identifiers.
const (
	DevMgmtPingReq             byte = 0x01
	DevMgmtPingRsp             byte = 0x02
	DevMgmtGetDeviceInfoReq    byte = 0x03
	DevMgmtGetDeviceInfoRsp    byte = 0x04
	DevMgmtGetFWInfoReq        byte = 0x05
	DevMgmtGetFWInfoRsp        byte = 0x06
	DevMgmtResetReq            byte = 0x07
	DevMgmtResetRsp            byte = 0x08
	DevMgmtSetOpModeReq        byte = 0x09
	DevMgmtSetOpModeRsp        byte = 0x0A
	DevMgmtGetOpModeReq        byte = 0x0B
	DevMgmtGetOpModeRsp        byte = 0x0C
	DevMgmtSetRTCReq           byte = 0x0D
	DevMgmtSetRTCRsp           byte = 0x0E
	DevMgmtGetRTCReq           byte = 0x0F
	DevMgmtGetRTCRsp           byte = 0x10
	DevMgmtSetRadioConfigReq   byte = 0x11
	DevMgmtSetRadioConfigRsp   byte = 0x12
	DevMgmtGetRadioConfigReq   byte = 0x13
	DevMgmtGetRadioConfigRsp   byte = 0x14
	DevMgmtResetRadioConfigReq byte = 0x15
	DevMgmtResetRadioConfigRsp byte = 0x16
	DevMgmtPowerUpInd          byte = 0x20
)

// Radio link test message identifiers.
const (
	RLTStartReq  byte = 0x01
	RLTStartRsp  byte = 0x02
	RLTStopReq   byte = 0x03
	RLTStopRsp   byte = 0x04
	RLTStatusInd byte = 0x06
)

// Radio link message identifiers.
const (
	RadioLinkSendUDataReq byte = 0x01
	RadioLinkSendUDataRsp byte = 0x02
	RadioLinkUDataRxInd   byte = 0x04
	RadioLinkUDataTxInd   byte = 0x06
)

// Device management status codes, carried in the first payload byte of a response.
const (
	DevMgmtStatusOK              byte = 0x00
	DevMgmtStatusError           byte = 0x01
	DevMgmtStatusCmdNotSupported byte = 0x02
	DevMgmtStatusWrongParameter  byte = 0x03
	DevMgmtStatusWrongDeviceMode byte = 0x04
)

// Radio link status codes.
const (
	RadioLinkStatusOK              byte = 0x00
	RadioLinkStatusError           byte = 0x01
	RadioLinkStatusCmdNotSupported byte = 0x02
	RadioLinkStatusWrongParameter  byte = 0x03
	RadioLinkStatusWrongDeviceMode byte = 0x04
	RadioLinkStatusMediaBusy       byte = 0x05
	RadioLinkStatusDeviceBusy      byte = 0x06
	RadioLinkStatusQueueFull       byte = 0x07
)

// Radio link test status codes.
const (
	RLTStatusOK              byte = 0x00
	RLTStatusError           byte = 0x01
	RLTStatusCmdNotSupported byte = 0x02
	RLTStatusWrongParameter  byte = 0x03
	RLTStatusWrongRadioMode  byte = 0x04
)

// Radio link test modes.
const (
	RLTModeSingle     byte = 0x00 // stop after NumPackets
	RLTModeContinuous byte = 0x01 // run until stopped
)

// Destination memory of SetRadioConfig.
const (
	RadioConfigRAM    byte = 0x00
	RadioConfigEEPROM byte = 0x01
)
