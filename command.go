package sx126x

import (
	"context"
	"fmt"
	"log/slog"
)

// transact performs one framed SPI command: wait for BUSY low, drop NSS,
// shift w out while clocking r in, raise NSS, then wait for BUSY low again
// so the chip has finished processing before the next command is issued.
// Every command method in this file goes through transact - unlike the
// device this package started from, there is no direct-to-SPI shortcut for
// WriteRegister/ReadRegister/WriteBuffer/ReadBuffer, since those commands
// need the same BUSY handshake as any other opcode.
func (r *Radio) transact(ctx context.Context, w, rx []uint8) error {
	if err := r.iface.WaitOnBusy(ctx); err != nil {
		return fmt.Errorf("%w: %v", ErrBusy, err)
	}
	if err := r.iface.SetNSS(ctx, false); err != nil {
		return fmt.Errorf("%w: %v", ErrSPI, err)
	}

	if err := r.bus.Tx(w, rx); err != nil {
		return fmt.Errorf("%w: %v", ErrSPI, err)
	}

	if err := r.iface.SetNSS(ctx, true); err != nil {
		return fmt.Errorf("%w: %v", ErrSPI, err)
	}
	if err := r.iface.WaitOnBusy(ctx); err != nil {
		return fmt.Errorf("%w: %v", ErrBusy, err)
	}
	return nil
}

func (r *Radio) cmd(ctx context.Context, op OpCode, params ...uint8) error {
	w := append([]uint8{uint8(op)}, params...)
	status := make([]uint8, len(w))
	return r.transact(ctx, w, status)
}

func (r *Radio) setSleep(ctx context.Context, cfg SleepConfig) error {
	log := slog.With("func", "Radio.setSleep()", "params", "(context.Context, SleepConfig)", "return", "(error)", "lib", "sx126x")
	log.Debug("set sleep mode", "config", cfg)

	if err := r.cmd(ctx, CmdSetSleep, uint8(cfg)); err != nil {
		return fmt.Errorf("set sleep %v: %w", cfg, err)
	}
	r.mode = ModeSleep
	log.Info("chip entered sleep")
	return nil
}

func (r *Radio) setStandby(ctx context.Context, mode StandbyMode) error {
	log := slog.With("func", "Radio.setStandby()", "params", "(context.Context, StandbyMode)", "return", "(error)", "lib", "sx126x")
	log.Debug("set standby mode", "mode", mode)

	if err := r.cmd(ctx, CmdSetStandby, uint8(mode)); err != nil {
		return fmt.Errorf("set standby %v: %w", mode, err)
	}
	if mode == StandbyXosc {
		r.mode = ModeStandbyXOSC
	} else {
		r.mode = ModeStandbyRC
	}
	log.Info("chip entered standby", "mode", mode)
	return nil
}

func (r *Radio) setRegulatorMode(ctx context.Context, mode RegulatorMode) error {
	log := slog.With("func", "Radio.setRegulatorMode()", "params", "(context.Context, RegulatorMode)", "return", "(error)", "lib", "sx126x")
	log.Debug("set regulator mode", "mode", mode)

	if err := r.cmd(ctx, CmdSetRegulatorMode, uint8(mode)); err != nil {
		return fmt.Errorf("set regulator mode %v: %w", mode, err)
	}
	return nil
}

func (r *Radio) setRfFrequency(ctx context.Context, raw uint32) error {
	log := slog.With("func", "Radio.setRfFrequency()", "params", "(context.Context, uint32)", "return", "(error)", "lib", "sx126x")
	log.Debug("set rf frequency", "raw", raw)

	if err := r.cmd(ctx, CmdSetRfFrequency, uint8(raw>>24), uint8(raw>>16), uint8(raw>>8), uint8(raw)); err != nil {
		return fmt.Errorf("set rf frequency 0x%08X: %w", raw, err)
	}
	return nil
}

func (r *Radio) setPacketType(ctx context.Context, pt PacketType) error {
	log := slog.With("func", "Radio.setPacketType()", "params", "(context.Context, PacketType)", "return", "(error)", "lib", "sx126x")
	log.Debug("set packet type", "type", pt)

	if err := r.cmd(ctx, CmdSetPacketType, uint8(pt)); err != nil {
		return fmt.Errorf("set packet type %v: %w", pt, err)
	}
	return nil
}

func (r *Radio) setModulationParams(ctx context.Context, p ModulationParams) error {
	log := slog.With("func", "Radio.setModulationParams()", "params", "(context.Context, ModulationParams)", "return", "(error)", "lib", "sx126x")
	log.Debug("set modulation params", "sf", p.SpreadingFactor, "bw", p.Bandwidth, "cr", p.CodingRate, "ldro", p.LowDataRateOptimize)

	if err := r.cmd(ctx, CmdSetModulationParams, p.SpreadingFactor, uint8(p.Bandwidth), uint8(p.CodingRate), uint8(p.LowDataRateOptimize), 0, 0, 0, 0); err != nil {
		return fmt.Errorf("set modulation params: %w", err)
	}
	return nil
}

func (r *Radio) setPacketParams(ctx context.Context, p PacketParams) error {
	log := slog.With("func", "Radio.setPacketParams()", "params", "(context.Context, PacketParams)", "return", "(error)", "lib", "sx126x")
	log.Debug("set packet params", "preamble", p.PreambleLength, "implicit", p.ImplicitHeader, "payload", p.PayloadLength, "crc", p.CRCOn, "iqInverted", p.IQInverted)

	headerType := uint8(HeaderExplicit)
	if p.ImplicitHeader {
		headerType = uint8(HeaderImplicit)
	}
	crc := uint8(CrcOff)
	if p.CRCOn {
		crc = uint8(CrcOn)
	}
	iq := uint8(IqStandard)
	if p.IQInverted {
		iq = uint8(IqInverted)
	}

	if err := r.cmd(ctx, CmdSetPacketParams,
		uint8(p.PreambleLength>>8), uint8(p.PreambleLength),
		headerType, p.PayloadLength, crc, iq,
	); err != nil {
		return fmt.Errorf("set packet params: %w", err)
	}
	return nil
}

func (r *Radio) setTxParams(ctx context.Context, power int8, ramp RampTime) error {
	log := slog.With("func", "Radio.setTxParams()", "params", "(context.Context, int8, RampTime)", "return", "(error)", "lib", "sx126x")
	log.Debug("set tx params", "power", power, "ramp", ramp)

	if err := r.cmd(ctx, CmdSetTxParams, uint8(power), uint8(ramp)); err != nil {
		return fmt.Errorf("set tx params power %d ramp %v: %w", power, ramp, err)
	}
	return nil
}

func (r *Radio) setBufferBaseAddress(ctx context.Context, txBase, rxBase uint8) error {
	log := slog.With("func", "Radio.setBufferBaseAddress()", "params", "(context.Context, uint8, uint8)", "return", "(error)", "lib", "sx126x")
	log.Debug("set buffer base address", "tx", txBase, "rx", rxBase)

	if err := r.cmd(ctx, CmdSetBufferBaseAddress, txBase, rxBase); err != nil {
		return fmt.Errorf("set buffer base address tx=0x%02X rx=0x%02X: %w", txBase, rxBase, err)
	}
	return nil
}

func (r *Radio) setDioIrqParams(ctx context.Context, irqMask, dio1Mask, dio2Mask, dio3Mask IrqMask) error {
	log := slog.With("func", "Radio.setDioIrqParams()", "params", "(context.Context, IrqMask, IrqMask, IrqMask, IrqMask)", "return", "(error)", "lib", "sx126x")
	log.Debug("set dio irq params", "irq", irqMask, "dio1", dio1Mask)

	if err := r.cmd(ctx, CmdSetDioIrqParams,
		uint8(irqMask>>8), uint8(irqMask),
		uint8(dio1Mask>>8), uint8(dio1Mask),
		uint8(dio2Mask>>8), uint8(dio2Mask),
		uint8(dio3Mask>>8), uint8(dio3Mask),
	); err != nil {
		return fmt.Errorf("set dio irq params: %w", err)
	}
	return nil
}

func (r *Radio) getIrqStatus(ctx context.Context) (IrqMask, error) {
	w := []uint8{uint8(CmdGetIrqStatus), 0, 0, 0}
	rx := make([]uint8, len(w))
	if err := r.transact(ctx, w, rx); err != nil {
		return 0, fmt.Errorf("get irq status: %w", err)
	}
	return IrqMask(rx[2])<<8 | IrqMask(rx[3]), nil
}

func (r *Radio) clearIrqStatus(ctx context.Context, mask IrqMask) error {
	log := slog.With("func", "Radio.clearIrqStatus()", "params", "(context.Context, IrqMask)", "return", "(error)", "lib", "sx126x")
	log.Debug("clear irq status", "mask", mask)

	if err := r.cmd(ctx, CmdClearIrqStatus, uint8(mask>>8), uint8(mask)); err != nil {
		return fmt.Errorf("clear irq status 0x%04X: %w", mask, err)
	}
	return nil
}

func (r *Radio) setTx(ctx context.Context, timeout uint32) error {
	log := slog.With("func", "Radio.setTx()", "params", "(context.Context, uint32)", "return", "(error)", "lib", "sx126x")
	log.Debug("set tx", "timeout", timeout)

	if err := r.cmd(ctx, CmdSetTx, uint8(timeout>>16), uint8(timeout>>8), uint8(timeout)); err != nil {
		return fmt.Errorf("set tx timeout %d: %w", timeout, err)
	}
	r.mode = ModeTransmit
	return nil
}

func (r *Radio) setRx(ctx context.Context, timeout uint32) error {
	log := slog.With("func", "Radio.setRx()", "params", "(context.Context, uint32)", "return", "(error)", "lib", "sx126x")
	log.Debug("set rx", "timeout", timeout)

	if err := r.cmd(ctx, CmdSetRx, uint8(timeout>>16), uint8(timeout>>8), uint8(timeout)); err != nil {
		return fmt.Errorf("set rx timeout %d: %w", timeout, err)
	}
	r.mode = ModeReceive
	return nil
}

func (r *Radio) setRxDutyCycle(ctx context.Context, rxPeriod, sleepPeriod uint32) error {
	log := slog.With("func", "Radio.setRxDutyCycle()", "params", "(context.Context, uint32, uint32)", "return", "(error)", "lib", "sx126x")
	log.Debug("set rx duty cycle", "rx", rxPeriod, "sleep", sleepPeriod)

	if err := r.cmd(ctx, CmdSetRxDutyCycle,
		uint8(rxPeriod>>16), uint8(rxPeriod>>8), uint8(rxPeriod),
		uint8(sleepPeriod>>16), uint8(sleepPeriod>>8), uint8(sleepPeriod),
	); err != nil {
		return fmt.Errorf("set rx duty cycle rx=%d sleep=%d: %w", rxPeriod, sleepPeriod, err)
	}
	r.mode = ModeReceiveDutyCycle
	return nil
}

func (r *Radio) setStopRxTimerOnPreamble(ctx context.Context, stop bool) error {
	v := uint8(0)
	if stop {
		v = 1
	}
	if err := r.cmd(ctx, CmdStopOnPreamble, v); err != nil {
		return fmt.Errorf("set stop rx timer on preamble %v: %w", stop, err)
	}
	return nil
}

func (r *Radio) setLoRaSymbNumTimeout(ctx context.Context, symbNum uint8) error {
	if err := r.cmd(ctx, CmdSetSymbNumTimeout, symbNum); err != nil {
		return fmt.Errorf("set lora symb num timeout %d: %w", symbNum, err)
	}
	return nil
}

func (r *Radio) setCad(ctx context.Context, symbolNum CadSymbolNum, detPeak, detMin uint8, exit CadExitMode, timeout uint32) error {
	log := slog.With("func", "Radio.setCad()", "params", "(context.Context, ...)", "return", "(error)", "lib", "sx126x")
	log.Debug("set cad params")

	if err := r.cmd(ctx, CmdSetCadParams, uint8(symbolNum), detPeak, detMin, uint8(exit), uint8(timeout>>16), uint8(timeout>>8), uint8(timeout)); err != nil {
		return fmt.Errorf("set cad params: %w", err)
	}
	if err := r.cmd(ctx, CmdSetCad); err != nil {
		return fmt.Errorf("set cad: %w", err)
	}
	r.mode = ModeChannelActivityDetection
	return nil
}

func (r *Radio) setTxContinuousWave(ctx context.Context) error {
	if err := r.cmd(ctx, CmdSetTxContinuousWave); err != nil {
		return fmt.Errorf("set tx continuous wave: %w", err)
	}
	r.mode = ModeTransmit
	return nil
}

func (r *Radio) calibrate(ctx context.Context, calibParam uint8) error {
	if err := r.cmd(ctx, CmdCalibrate, calibParam); err != nil {
		return fmt.Errorf("calibrate 0x%02X: %w", calibParam, err)
	}
	return nil
}

func (r *Radio) calibrateImage(ctx context.Context, freq CalibrationImageFreq) error {
	if err := r.cmd(ctx, CmdCalibrateImage, uint8(freq), uint8(freq)); err != nil {
		return fmt.Errorf("calibrate image %v: %w", freq, err)
	}
	return nil
}

func (r *Radio) writeRegister(ctx context.Context, addr Register, data []uint8) error {
	w := append([]uint8{uint8(CmdWriteRegister), uint8(addr >> 8), uint8(addr)}, data...)
	status := make([]uint8, len(w))
	if err := r.transact(ctx, w, status); err != nil {
		return fmt.Errorf("write register 0x%04X: %w", addr, err)
	}
	return nil
}

func (r *Radio) readRegister(ctx context.Context, addr Register, n int) ([]uint8, error) {
	w := make([]uint8, n+4)
	w[0] = uint8(CmdReadRegister)
	w[1] = uint8(addr >> 8)
	w[2] = uint8(addr)
	rx := make([]uint8, len(w))
	if err := r.transact(ctx, w, rx); err != nil {
		return nil, fmt.Errorf("read register 0x%04X: %w", addr, err)
	}
	return rx[4:], nil
}

func (r *Radio) writeBuffer(ctx context.Context, offset uint8, data []uint8) error {
	w := append([]uint8{uint8(CmdWriteBuffer), offset}, data...)
	status := make([]uint8, len(w))
	if err := r.transact(ctx, w, status); err != nil {
		return fmt.Errorf("write buffer offset 0x%02X: %w", offset, err)
	}
	return nil
}

func (r *Radio) readBuffer(ctx context.Context, offset uint8, n int) ([]uint8, error) {
	w := make([]uint8, n+3)
	w[0] = uint8(CmdReadBuffer)
	w[1] = offset
	rx := make([]uint8, len(w))
	if err := r.transact(ctx, w, rx); err != nil {
		return nil, fmt.Errorf("read buffer offset 0x%02X: %w", offset, err)
	}
	return rx[3:], nil
}

func (r *Radio) getRxBufferStatus(ctx context.Context) (BufferStatus, error) {
	w := []uint8{uint8(CmdGetBufferStatus), 0, 0, 0}
	rx := make([]uint8, len(w))
	if err := r.transact(ctx, w, rx); err != nil {
		return BufferStatus{}, fmt.Errorf("get rx buffer status: %w", err)
	}
	return BufferStatus{PayloadLength: rx[2], RxStartBufferPtr: rx[3]}, nil
}

func (r *Radio) getPacketStatus(ctx context.Context) (PacketStatus, error) {
	w := []uint8{uint8(CmdGetPacketStatus), 0, 0, 0, 0}
	rx := make([]uint8, len(w))
	if err := r.transact(ctx, w, rx); err != nil {
		return PacketStatus{}, fmt.Errorf("get packet status: %w", err)
	}
	return PacketStatus{
		RSSIPkt:    -int8(rx[2] / 2),
		SNR:        float32(int8(rx[3])) / 4.0,
		SignalRSSI: -int8(rx[4] / 2),
	}, nil
}

// getRssiInst returns the byte GetRssiInst yields as a raw signed value,
// with no conversion applied. The chip's dBm conversion is -raw/2, which
// getPacketStatus applies to packet RSSI; the instantaneous reading GetRSSI
// reports is left for the caller to convert.
func (r *Radio) getRssiInst(ctx context.Context) (int8, error) {
	w := []uint8{uint8(CmdGetPacketRssi), 0, 0}
	rx := make([]uint8, len(w))
	if err := r.transact(ctx, w, rx); err != nil {
		return 0, fmt.Errorf("get rssi inst: %w", err)
	}
	return int8(rx[2]), nil
}

func (r *Radio) getStatus(ctx context.Context) (ModemStatus, error) {
	w := []uint8{uint8(CmdGetStatus), 0}
	rx := make([]uint8, len(w))
	if err := r.transact(ctx, w, rx); err != nil {
		return ModemStatus{}, fmt.Errorf("get status: %w", err)
	}
	return ModemStatus{
		ChipMode:      StatusMode(rx[1] & 0x70),
		CommandStatus: CommandStatus(rx[1] & 0x0E),
	}, nil
}

func (r *Radio) getDeviceErrors(ctx context.Context) (DeviceError, error) {
	w := []uint8{uint8(CmdGetDeviceErrors), 0, 0, 0}
	rx := make([]uint8, len(w))
	if err := r.transact(ctx, w, rx); err != nil {
		return 0, fmt.Errorf("get device errors: %w", err)
	}
	return DeviceError(rx[2])<<8 | DeviceError(rx[3]), nil
}

func (r *Radio) clearDeviceErrors(ctx context.Context) error {
	if err := r.cmd(ctx, CmdClearDeviceErrors, 0, 0); err != nil {
		return fmt.Errorf("clear device errors: %w", err)
	}
	return nil
}
