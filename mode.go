package sx126x

import (
	"context"
	"fmt"
	"log/slog"
)

// legalFrom lists the operating modes a transition may start from. A Radio
// reaches ModeTransmit/ModeReceiveDutyCycle/ModeChannelActivityDetection
// only from one of the standby modes; ModeReceive may also be re-entered
// from ModeReceive (RX continuous). Any of these busy modes may go back to
// ModeStandbyRC, either through processIRQ or an explicit Standby call.
var legalFrom = map[OperatingMode][]OperatingMode{
	ModeStandbyRC:                {ModeSleep, ModeStandbyRC, ModeStandbyXOSC, ModeTransmit, ModeReceive, ModeReceiveDutyCycle, ModeChannelActivityDetection},
	ModeStandbyXOSC:              {ModeStandbyRC, ModeStandbyXOSC},
	ModeTransmit:                 {ModeStandbyRC, ModeStandbyXOSC},
	ModeReceive:                  {ModeStandbyRC, ModeStandbyXOSC, ModeReceive},
	ModeReceiveDutyCycle:         {ModeStandbyRC, ModeStandbyXOSC},
	ModeChannelActivityDetection: {ModeStandbyRC, ModeStandbyXOSC},
	ModeSleep:                    {ModeStandbyRC, ModeStandbyXOSC},
}

func (r *Radio) checkTransition(target OperatingMode) error {
	for _, from := range legalFrom[target] {
		if from == r.mode {
			return nil
		}
	}
	return fmt.Errorf("cannot enter %v from %v", target, r.mode)
}

// retentionEntries is the fixed-size, idempotent set of registers the chip
// is told to preserve across a warm-start Sleep/wake cycle. The chip's own
// retention list register only has room for MaxRetentionEntries addresses;
// adding past that is a caller error, not something to silently drop.
type retentionEntries struct {
	regs []Register
}

func (r *Radio) addToRetentionList(ctx context.Context, reg Register) error {
	log := slog.With("func", "Radio.addToRetentionList()", "params", "(context.Context, Register)", "return", "(error)", "lib", "sx126x")

	for _, existing := range r.retention.regs {
		if existing == reg {
			log.Debug("register already retained", "register", reg)
			return nil
		}
	}
	if len(r.retention.regs) >= MaxRetentionEntries {
		return fmt.Errorf("%w: register 0x%04X", ErrRetentionListExceeded, reg)
	}

	r.retention.regs = append(r.retention.regs, reg)
	if err := r.writeRetentionList(ctx); err != nil {
		r.retention.regs = r.retention.regs[:len(r.retention.regs)-1]
		return err
	}
	log.Info("register added to retention list", "register", reg, "count", len(r.retention.regs))
	return nil
}

// writeRetentionList shifts the current retention set to the chip as a
// count byte followed by up to MaxRetentionEntries big-endian addresses,
// padded to the register's fixed 9-byte width.
func (r *Radio) writeRetentionList(ctx context.Context) error {
	data := make([]uint8, 1+2*MaxRetentionEntries)
	data[0] = uint8(len(r.retention.regs))
	for i, reg := range r.retention.regs {
		data[1+2*i] = uint8(reg >> 8)
		data[1+2*i+1] = uint8(reg)
	}
	return r.writeRegister(ctx, RegRetentionList, data)
}

// enterSleep puts the chip to sleep with a warm start: any registers added
// to the retention list survive the cycle regardless of whether the list is
// actually non-empty, matching the unconditional warmStart=true the
// datasheet-level Sleep() contract calls for.
func (r *Radio) enterSleep(ctx context.Context, wakeOnRTC bool) error {
	if err := r.checkTransition(ModeSleep); err != nil {
		return err
	}

	cfg := SleepWarmStart
	if wakeOnRTC {
		cfg |= SleepConfig(0x01)
	}
	return r.setSleep(ctx, cfg)
}

// enterStandby transitions the chip into the requested standby oscillator
// and is the only legal landing mode after Transmit, Receive,
// ReceiveDutyCycle or ChannelActivityDetection complete.
func (r *Radio) enterStandby(ctx context.Context, osc StandbyMode) error {
	target := ModeStandbyRC
	if osc == StandbyXosc {
		target = ModeStandbyXOSC
	}
	if err := r.checkTransition(target); err != nil {
		return err
	}
	return r.setStandby(ctx, osc)
}
