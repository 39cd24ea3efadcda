package sx126x

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// Radio is a handle to one SX126x chip. It owns no heap state beyond its own
// fields - no internal queues, no background goroutines - so the caller
// controls every suspension point by choosing when to call a method and
// what context to hand it. A Radio is not safe for concurrent use; a caller
// that needs to share one across goroutines must serialize access itself.
type Radio struct {
	bus   Bus
	iface InterfaceVariant
	delay DelayFunc

	mode OperatingMode

	modParams ModulationParams
	pktParams PacketParams
	paramsSet bool

	txBufferBase uint8
	rxBufferBase uint8

	cadSymbolNum CadSymbolNum
	cadDetPeak   uint8
	cadDetMin    uint8
	cadExit      CadExitMode
	cadTimeout   uint32

	retention retentionEntries
}

// New brings up a freshly reset chip: hardware reset, standby, LDO/DC-DC
// regulator selection, default buffer base addresses, 0 dBm/200us tx
// params, all IRQs routed to DIO1, RxGain and TxModulation added to the
// retention list, then setLoRaModem selects the LoRa packet type and writes
// the public or private sync word depending on publicNetwork.
func New(ctx context.Context, bus Bus, iface InterfaceVariant, delay DelayFunc, useDCDC, publicNetwork bool) (*Radio, error) {
	log := slog.With("func", "New()", "params", "(context.Context, Bus, InterfaceVariant, DelayFunc, bool, bool)", "return", "(*Radio, error)", "lib", "sx126x")
	log.Debug("bringing up sx126x")

	r := &Radio{
		bus:   bus,
		iface: iface,
		delay: delay,
		mode:  ModeSleep,
	}

	if err := r.iface.Reset(ctx); err != nil {
		return nil, fmt.Errorf("reset: %w", err)
	}
	if err := r.delay(ctx, RadioWakeupTimeMS*time.Millisecond); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDelay, err)
	}

	r.mode = ModeStandbyRC
	if err := r.setStandby(ctx, StandbyRc); err != nil {
		return nil, fmt.Errorf("initial standby: %w", err)
	}

	regMode := RegulatorLdo
	if useDCDC {
		regMode = RegulatorDcDc
	}
	if err := r.setRegulatorMode(ctx, regMode); err != nil {
		return nil, fmt.Errorf("regulator mode: %w", err)
	}

	r.txBufferBase, r.rxBufferBase = 0x00, 0x00
	if err := r.setBufferBaseAddress(ctx, r.txBufferBase, r.rxBufferBase); err != nil {
		return nil, fmt.Errorf("buffer base address: %w", err)
	}

	if err := r.setTxParams(ctx, 0, PaRamp200u); err != nil {
		return nil, fmt.Errorf("tx params: %w", err)
	}

	if err := r.setDioIrqParams(ctx, IrqAll, IrqAll, IrqNone, IrqNone); err != nil {
		return nil, fmt.Errorf("dio irq params: %w", err)
	}

	if err := r.addToRetentionList(ctx, RegRxGain); err != nil {
		return nil, fmt.Errorf("retain rx gain: %w", err)
	}
	if err := r.addToRetentionList(ctx, RegTxModulation); err != nil {
		return nil, fmt.Errorf("retain tx modulation: %w", err)
	}

	if err := r.setLoRaModem(ctx, publicNetwork); err != nil {
		return nil, fmt.Errorf("lora modem: %w", err)
	}

	log.Info("sx126x ready")
	return r, nil
}

// setLoRaModem selects the LoRa packet type and writes the sync word that
// matches the requested network visibility: the public constant for
// interoperating with other public LoRaWAN-style gateways, the private one
// otherwise (the chip's own power-on default).
func (r *Radio) setLoRaModem(ctx context.Context, publicNetwork bool) error {
	if err := r.setPacketType(ctx, PacketTypeLoRa); err != nil {
		return fmt.Errorf("set packet type: %w", err)
	}

	syncWord := LoraSyncWordPrivate
	if publicNetwork {
		syncWord = LoraSyncWordPublic
	}
	if err := r.writeRegister(ctx, RegLoraSyncWordMsb, []uint8{uint8(syncWord >> 8), uint8(syncWord)}); err != nil {
		return fmt.Errorf("write sync word: %w", err)
	}
	return nil
}

// CheckRFFrequency validates that freqHz falls within the chip's supported
// RF range before SetChannel commits it to hardware.
func CheckRFFrequency(freqHz uint32) error {
	const (
		minHz = 150000000
		maxHz = 960000000
	)
	if freqHz < minHz || freqHz > maxHz {
		return fmt.Errorf("%w: %d Hz", ErrInvalidFrequency, freqHz)
	}
	return nil
}

// SetChannel calibrates the image rejection filter for freqHz's band and
// tunes the PLL to it.
func (r *Radio) SetChannel(ctx context.Context, freqHz uint32) error {
	if err := CheckRFFrequency(freqHz); err != nil {
		return err
	}

	if img, ok := imageCalibrationFor(freqHz); ok {
		if err := r.calibrateImage(ctx, img); err != nil {
			return fmt.Errorf("calibrate image: %w", err)
		}
	}

	raw := uint32((uint64(freqHz) << 25) / RfFrequencyXtal)
	return r.setRfFrequency(ctx, raw)
}

func imageCalibrationFor(freqHz uint32) (CalibrationImageFreq, bool) {
	switch {
	case freqHz >= 430000000 && freqHz <= 440000000:
		return CalImg430, true
	case freqHz >= 470000000 && freqHz <= 510000000:
		return CalImg470, true
	case freqHz >= 779000000 && freqHz <= 787000000:
		return CalImg779, true
	case freqHz >= 863000000 && freqHz <= 870000000:
		return CalImg863, true
	case freqHz >= 902000000 && freqHz <= 928000000:
		return CalImg902, true
	default:
		return 0, false
	}
}

// RxConfig groups the parameters needed to arm the chip for reception.
type RxConfig struct {
	SpreadingFactor    uint8
	Bandwidth          LoRaBandwidth
	CodingRate         LoRaCodingRate
	LowDataRateOptimize bool
	PreambleLength     uint16
	ImplicitHeader     bool
	PayloadLength      uint8
	CRCOn              bool
	IQInverted         bool
	SymbolTimeout      uint8
}

// SetRxConfig writes modulation and packet parameters for reception and
// applies the IQ-polarity register errata datasheet section 15.4 calls for:
// the register bit is cleared for inverted IQ and set for standard IQ.
func (r *Radio) SetRxConfig(ctx context.Context, cfg RxConfig) error {
	mp := deriveModulationParams(cfg.SpreadingFactor, cfg.Bandwidth, cfg.CodingRate, cfg.LowDataRateOptimize)
	if err := r.setModulationParams(ctx, mp); err != nil {
		return err
	}

	pp := derivePacketParams(cfg.PreambleLength, cfg.ImplicitHeader, cfg.PayloadLength, cfg.CRCOn, cfg.IQInverted)
	if err := r.setPacketParams(ctx, pp); err != nil {
		return err
	}

	if err := r.applyIQPolarityErrata(ctx, cfg.IQInverted); err != nil {
		return err
	}

	if err := r.setLoRaSymbNumTimeout(ctx, encodeSymbolTimeout(cfg.SymbolTimeout)); err != nil {
		return err
	}

	r.modParams, r.pktParams, r.paramsSet = mp, pp, true
	return nil
}

// TxConfig groups the parameters needed to arm the chip for transmission.
type TxConfig struct {
	SpreadingFactor    uint8
	Bandwidth          LoRaBandwidth
	CodingRate         LoRaCodingRate
	LowDataRateOptimize bool
	PreambleLength     uint16
	ImplicitHeader     bool
	CRCOn              bool
	Power              int8
	RampTime           RampTime
}

// SetTxConfig writes modulation and packet parameters for transmission and
// applies the TxModulation quality-optimization errata for the 500 kHz
// bandwidth, which the datasheet calls out as requiring a register tweak
// that SetModulationParams alone does not make.
func (r *Radio) SetTxConfig(ctx context.Context, cfg TxConfig, payloadLen uint8) error {
	mp := deriveModulationParams(cfg.SpreadingFactor, cfg.Bandwidth, cfg.CodingRate, cfg.LowDataRateOptimize)
	if err := r.setModulationParams(ctx, mp); err != nil {
		return err
	}

	pp := derivePacketParams(cfg.PreambleLength, cfg.ImplicitHeader, payloadLen, cfg.CRCOn, false)
	if err := r.setPacketParams(ctx, pp); err != nil {
		return err
	}

	if err := r.applyTxModulationErrata(ctx, cfg.Bandwidth); err != nil {
		return err
	}

	if err := r.setTxParams(ctx, cfg.Power, cfg.RampTime); err != nil {
		return err
	}

	r.modParams, r.pktParams, r.paramsSet = mp, pp, true
	return nil
}

// applyIQPolarityErrata flips bit 2 of RegIqPolaritySetup for inverted IQ,
// the read-modify-write workaround Semtech's datasheet errata documents for
// SetPacketParams not doing this itself.
func (r *Radio) applyIQPolarityErrata(ctx context.Context, inverted bool) error {
	data, err := r.readRegister(ctx, RegIqPolaritySetup, 1)
	if err != nil {
		return fmt.Errorf("read iq polarity: %w", err)
	}
	reg := data[0]
	if inverted {
		reg &^= 1 << 2
	} else {
		reg |= 1 << 2
	}
	return r.writeRegister(ctx, RegIqPolaritySetup, []uint8{reg})
}

// applyTxModulationErrata implements the TxModulation register fix-up the
// datasheet calls for to keep spectral quality in spec: bit 2 is cleared at
// 500 kHz bandwidth and set at every other bandwidth.
func (r *Radio) applyTxModulationErrata(ctx context.Context, bw LoRaBandwidth) error {
	data, err := r.readRegister(ctx, RegTxModulation, 1)
	if err != nil {
		return fmt.Errorf("read tx modulation: %w", err)
	}
	reg := data[0]
	if bw == LoRaBW_500 {
		reg &^= 1 << 2
	} else {
		reg |= 1 << 2
	}
	return r.writeRegister(ctx, RegTxModulation, []uint8{reg})
}

// SetRxBoosted switches the LNA between its default and boosted gain
// tables. Boosted gives better sensitivity at the cost of current draw.
func (r *Radio) SetRxBoosted(ctx context.Context, boosted bool) error {
	v := uint8(0x94)
	if boosted {
		v = 0x96
	}
	return r.writeRegister(ctx, RegRxGain, []uint8{v})
}

// Send transmits payload and blocks until TxDone, a transmit timeout or an
// unexpected IRQ resolves the operation.
func (r *Radio) Send(ctx context.Context, payload []byte, timeout time.Duration) error {
	if !r.paramsSet {
		return ErrPacketParamsMissing
	}
	if err := r.checkTransition(ModeTransmit); err != nil {
		return err
	}

	if len(payload) != int(r.pktParams.PayloadLength) {
		r.pktParams.PayloadLength = uint8(len(payload))
		if err := r.setPacketParams(ctx, r.pktParams); err != nil {
			return err
		}
	}

	if err := r.writeBuffer(ctx, r.txBufferBase, payload); err != nil {
		return fmt.Errorf("write tx buffer: %w", err)
	}

	if err := r.setTx(ctx, encodeTimeout(timeout)); err != nil {
		return err
	}

	outcome, _, err := r.processIRQ(ctx, false)
	if err != nil {
		return err
	}
	if outcome != irqTxDone {
		return fmt.Errorf("unexpected irq outcome %v for send", outcome)
	}
	return nil
}

// Rx arms the receiver and blocks until RxDone, a receive timeout or an
// unexpected IRQ resolves the operation. A negative timeout requests
// continuous RX: the chip stays in Receive after a successful packet
// instead of falling back to standby.
func (r *Radio) Rx(ctx context.Context, timeout time.Duration) ([]byte, PacketStatus, error) {
	if !r.paramsSet {
		return nil, PacketStatus{}, ErrPacketParamsMissing
	}
	if err := r.checkTransition(ModeReceive); err != nil {
		return nil, PacketStatus{}, err
	}

	continuous := timeout < 0
	rxTimeout := uint32(0)
	if continuous {
		rxTimeout = RxContinuousTimeout
	} else if timeout > 0 {
		rxTimeout = encodeTimeout(timeout)
	}

	if err := r.setRx(ctx, rxTimeout); err != nil {
		return nil, PacketStatus{}, err
	}

	outcome, _, err := r.processIRQ(ctx, continuous)
	if err != nil {
		return nil, PacketStatus{}, err
	}
	if outcome != irqRxDone {
		return nil, PacketStatus{}, fmt.Errorf("unexpected irq outcome %v for rx", outcome)
	}

	buf, err := r.getRxBufferStatus(ctx)
	if err != nil {
		return nil, PacketStatus{}, err
	}
	data, err := r.readBuffer(ctx, buf.RxStartBufferPtr, int(buf.PayloadLength))
	if err != nil {
		return nil, PacketStatus{}, fmt.Errorf("read rx buffer: %w", err)
	}
	status, err := r.getPacketStatus(ctx)
	if err != nil {
		return nil, PacketStatus{}, err
	}
	return data, status, nil
}

// SetRxDutyCycle arms receive-duty-cycle mode: rxPeriod listening alternated
// with sleepPeriod sleeping, used for low-power always-on reception.
func (r *Radio) SetRxDutyCycle(ctx context.Context, rxPeriod, sleepPeriod time.Duration) error {
	if err := r.checkTransition(ModeReceiveDutyCycle); err != nil {
		return err
	}
	return r.setRxDutyCycle(ctx, encodeTimeout(rxPeriod), encodeTimeout(sleepPeriod))
}

// CADConfig groups the parameters StartCAD arms the chip with.
type CADConfig struct {
	SymbolNum CadSymbolNum
	DetPeak   uint8
	DetMin    uint8
	ExitMode  CadExitMode
	Timeout   time.Duration
}

// StartCAD runs one channel-activity-detection pass and reports whether
// activity was found.
func (r *Radio) StartCAD(ctx context.Context, cfg CADConfig) (bool, error) {
	if err := r.checkTransition(ModeChannelActivityDetection); err != nil {
		return false, err
	}

	if err := r.setCad(ctx, cfg.SymbolNum, cfg.DetPeak, cfg.DetMin, cfg.ExitMode, encodeTimeout(cfg.Timeout)); err != nil {
		return false, err
	}

	outcome, detected, err := r.processIRQ(ctx, false)
	if err != nil {
		return false, err
	}
	if outcome != irqCADDone {
		return false, fmt.Errorf("unexpected irq outcome %v for cad", outcome)
	}
	return detected, nil
}

// SetTxContinuousWave puts the chip into an unmodulated continuous-wave
// transmission, used for RF test and calibration, not for data traffic.
func (r *Radio) SetTxContinuousWave(ctx context.Context) error {
	if err := r.checkTransition(ModeTransmit); err != nil {
		return err
	}
	return r.setTxContinuousWave(ctx)
}

// Sleep puts the chip to sleep with a warm start: any registers added via
// the retention list are preserved across the cycle. Returns once the
// chip's internal sleep sequencing has had time to settle.
func (r *Radio) Sleep(ctx context.Context, wakeOnRTC bool) error {
	if err := r.enterSleep(ctx, wakeOnRTC); err != nil {
		return err
	}
	if err := r.delay(ctx, 2*time.Millisecond); err != nil {
		return fmt.Errorf("%w: %v", ErrDelay, err)
	}
	return nil
}

// Standby transitions the chip to the given standby oscillator.
func (r *Radio) Standby(ctx context.Context, xosc bool) error {
	mode := StandbyRc
	if xosc {
		mode = StandbyXosc
	}
	return r.enterStandby(ctx, mode)
}

// GetRSSI returns the chip's instantaneous RSSI reading as the raw signed
// byte the chip reports, without the -raw/2 dBm conversion GetPacketStatus
// applies to a completed receive's signal strength: this is a live carrier
// sense reading, not a packet measurement.
func (r *Radio) GetRSSI(ctx context.Context) (int8, error) {
	return r.getRssiInst(ctx)
}

// GetLatestPacketStatus returns the RSSI/SNR of the most recently received
// packet.
func (r *Radio) GetLatestPacketStatus(ctx context.Context) (PacketStatus, error) {
	return r.getPacketStatus(ctx)
}

// GetRandomValue reads the chip's hardware random number generator. The
// generator only free-runs while the chip is synthesizing a frequency, so
// the caller should have already issued a SetRx or SetTx when this is
// called - GetRandomValue does not change the operating mode itself.
func (r *Radio) GetRandomValue(ctx context.Context) (uint32, error) {
	data, err := r.readRegister(ctx, RegRandomNumberGen, 4)
	if err != nil {
		return 0, fmt.Errorf("get random value: %w", err)
	}
	return uint32(data[0])<<24 | uint32(data[1])<<16 | uint32(data[2])<<8 | uint32(data[3]), nil
}

// SetMaxPayloadLength updates the payload length packet parameters expect
// for variable-length (explicit header) operation, without touching
// modulation parameters.
func (r *Radio) SetMaxPayloadLength(ctx context.Context, max uint8) error {
	if !r.paramsSet {
		return ErrPacketParamsMissing
	}
	r.pktParams.PayloadLength = max
	return r.setPacketParams(ctx, r.pktParams)
}

// WriteRegistersFromBuffer writes buf verbatim starting at addr.
func (r *Radio) WriteRegistersFromBuffer(ctx context.Context, addr Register, buf []byte) error {
	return r.writeRegister(ctx, addr, buf)
}

// ReadRegistersIntoBuffer reads len(buf) bytes starting at addr into buf.
func (r *Radio) ReadRegistersIntoBuffer(ctx context.Context, addr Register, buf []byte) error {
	data, err := r.readRegister(ctx, addr, len(buf))
	if err != nil {
		return err
	}
	copy(buf, data)
	return nil
}

// RetainRegister adds addr to the on-chip retention list so its value
// survives a warm-start Sleep/wake cycle.
func (r *Radio) RetainRegister(ctx context.Context, addr Register) error {
	return r.addToRetentionList(ctx, addr)
}

// GetWakeupTime returns the minimum delay New and Sleep callers should
// budget between issuing a wake-causing event and the chip being ready to
// accept the next command.
func (r *Radio) GetWakeupTime() time.Duration {
	return RadioWakeupTimeMS * time.Millisecond
}

// GetDeviceErrors reports the chip's latched calibration/oscillator/PLL
// error flags and clears them.
func (r *Radio) GetDeviceErrors(ctx context.Context) (DeviceError, error) {
	errs, err := r.getDeviceErrors(ctx)
	if err != nil {
		return 0, err
	}
	if err := r.clearDeviceErrors(ctx); err != nil {
		return errs, err
	}
	return errs, nil
}

// GetModemStatus reports the chip's current mode and command-execution
// status, as distinct from the Radio's own tracked OperatingMode.
func (r *Radio) GetModemStatus(ctx context.Context) (ModemStatus, error) {
	return r.getStatus(ctx)
}
