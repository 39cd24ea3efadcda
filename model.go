package sx126x

//go:generate stringer -type=Register
type Register uint16

const (
	RegIqPolaritySetup Register = 0x0736
	RegLoraSyncWordMsb Register = 0x0740
	RegTxModulation    Register = 0x0889
	RegRxGain          Register = 0x08AC
	RegTxClampConfig   Register = 0x08D8
	RegRtcControl      Register = 0x0902
	RegEventMask       Register = 0x0944
	RegRandomNumberGen Register = 0x0819
	RegRetentionList   Register = 0x029F
)

//go:generate stringer -type=OpCode
type OpCode uint8

const (
	// SX126X SPI Commands (OpCodes)
	CmdSetSleep              OpCode = 0x84
	CmdSetStandby            OpCode = 0x80
	CmdSetFs                 OpCode = 0xC1
	CmdSetTx                 OpCode = 0x83
	CmdSetRx                 OpCode = 0x82
	CmdSetRxDutyCycle        OpCode = 0x94
	CmdSetCadParams          OpCode = 0x88
	CmdSetCad                OpCode = 0xC5
	CmdSetTxContinuousWave   OpCode = 0xD1
	CmdSetTxInfinitePreamble OpCode = 0xD2
	CmdSetRegulatorMode      OpCode = 0x96
	CmdCalibrate             OpCode = 0x89
	CmdCalibrateImage        OpCode = 0x98
	CmdSetRxTxFallbackMode   OpCode = 0x93
	CmdWriteRegister         OpCode = 0x0D
	CmdReadRegister          OpCode = 0x1D
	CmdWriteBuffer           OpCode = 0x0E
	CmdReadBuffer            OpCode = 0x1E
	CmdGetBufferStatus       OpCode = 0x13
	CmdSetDioIrqParams       OpCode = 0x08
	CmdGetIrqStatus          OpCode = 0x12
	CmdClearIrqStatus        OpCode = 0x02
	CmdSetDio2AsRfSwitchCtrl OpCode = 0x9D
	CmdSetDio3AsTcxoCtrl     OpCode = 0x97
	CmdSetRfFrequency        OpCode = 0x86
	CmdSetPacketType         OpCode = 0x8A
	CmdGetPacketType         OpCode = 0x11
	CmdSetTxParams           OpCode = 0x8E
	CmdSetModulationParams   OpCode = 0x8B
	CmdSetPacketParams       OpCode = 0x8C
	CmdGetStatus             OpCode = 0xC0
	CmdGetDeviceErrors       OpCode = 0x17
	CmdClearDeviceErrors     OpCode = 0x07
	CmdSetBufferBaseAddress  OpCode = 0x8F
	CmdStopOnPreamble        OpCode = 0x9F
	CmdSetSymbNumTimeout     OpCode = 0xA0
	CmdGetPacketStatus       OpCode = 0x14
	CmdGetPacketRssi         OpCode = 0x15
)

//go:generate stringer -type=SleepConfig
type SleepConfig uint8

const (
	SleepColdStart    SleepConfig = 0x00 // Cold start, configuration is lost (default)
	SleepWarmStart    SleepConfig = 0x04 // Warm start, configuration is retained
	SleepColdStartRtc SleepConfig = 0x01 // Cold start and wake on RTC timeout
	SleepWarmStartRtc SleepConfig = 0x05 // Warm start and wake on RTC timeout
)

//go:generate stringer -type=StandbyMode
type StandbyMode uint8

const (
	StandbyRc   StandbyMode = 0x00 // 13 MHz RC oscillator
	StandbyXosc StandbyMode = 0x01 // 32 MHz crystal oscillator
)

//go:generate stringer -type=RegulatorMode
type RegulatorMode uint8

const (
	RegulatorLdo  RegulatorMode = 0x00 // LDO (default)
	RegulatorDcDc RegulatorMode = 0x01 // DC-DC
)

// RxContinuousTimeout is the 24-bit sentinel that selects continuous RX.
const RxContinuousTimeout uint32 = 0xFFFFFF

//go:generate stringer -type=CalibrationImageFreq
type CalibrationImageFreq uint8

const (
	CalImg430 CalibrationImageFreq = 0x6B // 430 - 440 MHz
	CalImg440 CalibrationImageFreq = 0x6F
	CalImg470 CalibrationImageFreq = 0x75 // 470 - 510 MHz
	CalImg510 CalibrationImageFreq = 0x81
	CalImg779 CalibrationImageFreq = 0xC1 // 779 - 787 MHz
	CalImg787 CalibrationImageFreq = 0xC5
	CalImg863 CalibrationImageFreq = 0xD7 // 863 - 870 MHz
	CalImg870 CalibrationImageFreq = 0xDB
	CalImg902 CalibrationImageFreq = 0xE1 // 902 - 928 MHz
	CalImg928 CalibrationImageFreq = 0xE9
)

const (
	RfFrequencyXtal = 32000000 // XTAL frequency used for RF frequency calculation
	RfFrequencyNom  = 33554432 // Used for RF frequency calculation
)

//go:generate stringer -type=RampTime
type RampTime uint8

const (
	PaRamp10u   RampTime = 0x00 // Ramp time 10 us
	PaRamp20u   RampTime = 0x01 // Ramp time 20 us
	PaRamp40u   RampTime = 0x02 // Ramp time 40 us
	PaRamp80u   RampTime = 0x03 // Ramp time 80 us
	PaRamp200u  RampTime = 0x04 // Ramp time 200 us
	PaRamp800u  RampTime = 0x05 // Ramp time 800 us
	PaRamp1700u RampTime = 0x06 // Ramp time 1700 us
	PaRamp3400u RampTime = 0x07 // Ramp time 3400 us
)

//go:generate stringer -type=IrqMask
type IrqMask uint16

const (
	IrqTxDone           IrqMask = 0x0001 // Packet transmission completed
	IrqRxDone           IrqMask = 0x0002 // Packet received
	IrqPreambleDetected IrqMask = 0x0004 // Preamble detected
	IrqSyncWordValid    IrqMask = 0x0008 // Valid sync word detected
	IrqHeaderValid      IrqMask = 0x0010 // Valid LoRa header received
	IrqHeaderErr        IrqMask = 0x0020 // LoRa header CRC error
	IrqCrcErr           IrqMask = 0x0040 // Wrong CRC received
	IrqCadDone          IrqMask = 0x0080 // Channel activity detection finished
	IrqCadDetected      IrqMask = 0x0100 // Channel activity detected
	IrqTimeout          IrqMask = 0x0200 // Rx or Tx timeout
	IrqAll              IrqMask = 0x03FF // All interrupts
	IrqNone             IrqMask = 0x0000 // No interrupts
)

//go:generate stringer -type=PacketType
type PacketType uint8

const (
	PacketTypeLoRa PacketType = 0x01
)

//go:generate stringer -type=LoRaBandwidth
type LoRaBandwidth uint8

const (
	LoRaBW_125 LoRaBandwidth = 0x04 // 125.0 kHz
	LoRaBW_250 LoRaBandwidth = 0x05 // 250.0 kHz
	LoRaBW_500 LoRaBandwidth = 0x06 // 500.0 kHz
)

// bandwidthHz maps a LoRaBandwidth register value to its Hz equivalent, the
// way the time-on-air math in GetTimeOnAir requires.
var bandwidthHz = map[LoRaBandwidth]uint32{
	LoRaBW_125: 125000,
	LoRaBW_250: 250000,
	LoRaBW_500: 500000,
}

//go:generate stringer -type=LoRaCodingRate
type LoRaCodingRate uint8

const (
	LoRaCR_4_5 LoRaCodingRate = 0x01 // 4/5
	LoRaCR_4_6 LoRaCodingRate = 0x02 // 4/6
	LoRaCR_4_7 LoRaCodingRate = 0x03 // 4/7
	LoRaCR_4_8 LoRaCodingRate = 0x04 // 4/8
)

//go:generate stringer -type=LoRaLowDataRateOptimize
type LoRaLowDataRateOptimize uint8

const (
	LDROOff LoRaLowDataRateOptimize = 0x00
	LDROOn  LoRaLowDataRateOptimize = 0x01
)

//go:generate stringer -type=LoRaHeaderType
type LoRaHeaderType uint8

const (
	HeaderExplicit LoRaHeaderType = 0x00
	HeaderImplicit LoRaHeaderType = 0x01
)

//go:generate stringer -type=LoRaCrcMode
type LoRaCrcMode uint8

const (
	CrcOff LoRaCrcMode = 0x00
	CrcOn  LoRaCrcMode = 0x01
)

//go:generate stringer -type=LoRaIQMode
type LoRaIQMode uint8

const (
	IqStandard LoRaIQMode = 0x00
	IqInverted LoRaIQMode = 0x01
)

//go:generate stringer -type=CadSymbolNum
type CadSymbolNum uint8

const (
	CadOn1Symb  CadSymbolNum = 0x00 // Number of symbols used for CAD: 1
	CadOn2Symb  CadSymbolNum = 0x01 // Number of symbols used for CAD: 2
	CadOn4Symb  CadSymbolNum = 0x02 // Number of symbols used for CAD: 4
	CadOn8Symb  CadSymbolNum = 0x03 // Number of symbols used for CAD: 8
	CadOn16Symb CadSymbolNum = 0x04 // Number of symbols used for CAD: 16
)

//go:generate stringer -type=CadExitMode
type CadExitMode uint8

const (
	CadExitStdby CadExitMode = 0x00 // Always exit to STDBY_RC
	CadExitRx    CadExitMode = 0x01 // Exit to Rx if detected
)

//go:generate stringer -type=StatusMode
type StatusMode uint8

const (
	StatusModeStdbyRc   StatusMode = 0x20 // Chip mode: STDBY_RC
	StatusModeStdbyXosc StatusMode = 0x30 // Chip mode: STDBY_XOSC
	StatusModeFs        StatusMode = 0x40 // Chip mode: FS
	StatusModeRx        StatusMode = 0x50 // Chip mode: RX
	StatusModeTx        StatusMode = 0x60 // Chip mode: TX
)

//go:generate stringer -type=CommandStatus
type CommandStatus uint8

const (
	StatusDataAvailable CommandStatus = 0x04 // Packet received and data can be retrieved
	StatusCmdTimeout    CommandStatus = 0x06 // SPI command timed out
	StatusCmdError      CommandStatus = 0x08 // Invalid SPI command
	StatusCmdFailed     CommandStatus = 0x0A // SPI command failed to execute
	StatusCmdTxDone     CommandStatus = 0x0C // Packet transmission done
)

//go:generate stringer -type=DeviceError
type DeviceError uint16

const (
	ErrRC64KCalib DeviceError = 0x0001 // RC64K calibration failed
	ErrRC13MCalib DeviceError = 0x0002 // RC13M calibration failed
	ErrPllCalib   DeviceError = 0x0004 // PLL calibration failed
	ErrAdcCalib   DeviceError = 0x0008 // ADC calibration failed
	ErrImgCalib   DeviceError = 0x0010 // Image calibration failed
	ErrXoscStart  DeviceError = 0x0020 // Crystal oscillator failed to start
	ErrPllLock    DeviceError = 0x0040 // PLL failed to lock
	ErrPaRamp     DeviceError = 0x0100 // PA ramp failed
)

func (e DeviceError) Has(flag DeviceError) bool {
	return e&flag != 0
}

const (
	LoraSyncWordPublic  uint16 = 0x3444 // LoRa SyncWord for public network
	LoraSyncWordPrivate uint16 = 0x1424 // LoRa SyncWord for private network (default)
)

// MaxRetentionEntries bounds the on-chip retention list (§3, §4.E).
const MaxRetentionEntries = 4

// RadioWakeupTimeMS is the minimum margin SetStandby needs after Sleep.
const RadioWakeupTimeMS = 3

//go:generate stringer -type=OperatingMode
type OperatingMode uint8

const (
	ModeSleep OperatingMode = iota
	ModeStandbyRC
	ModeStandbyXOSC
	ModeFrequencySynthesis
	ModeTransmit
	ModeReceive
	ModeReceiveDutyCycle
	ModeChannelActivityDetection
)

// ModulationParams is the last modulation configuration written to the chip.
type ModulationParams struct {
	SpreadingFactor    uint8
	Bandwidth           LoRaBandwidth
	CodingRate          LoRaCodingRate
	LowDataRateOptimize LoRaLowDataRateOptimize
}

// PacketParams is the last packet configuration written to the chip.
type PacketParams struct {
	PreambleLength uint16
	ImplicitHeader bool
	PayloadLength  uint8
	CRCOn          bool
	IQInverted     bool
}

// PacketStatus is the decoded result of the most recent successful receive.
type PacketStatus struct {
	RSSIPkt    int8
	SNR        float32
	SignalRSSI int8
}

// ModemStatus is the parsed result of GetStatus.
type ModemStatus struct {
	ChipMode      StatusMode
	CommandStatus CommandStatus
}

// BufferStatus is the parsed result of GetRxBufferStatus.
type BufferStatus struct {
	PayloadLength   uint8
	RxStartBufferPtr uint8
}
