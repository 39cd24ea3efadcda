package sx126x

import (
	"context"
	"fmt"
	"log/slog"
)

// irqOutcome is the event ProcessIRQ resolved the wait to, once it found one
// that actually completes the caller's in-flight operation.
type irqOutcome uint8

const (
	irqTxDone irqOutcome = iota
	irqRxDone
	irqCADDone
)

// processIRQ awaits DIO1, reads and clears the IRQ status and classifies it.
// Flags are checked in a fixed, first-match-wins order: a header/CRC/timeout
// error always wins over a done flag raised in the same read, and a done
// flag raised while the chip is not in the matching operating mode is
// reported as "unexpected" rather than treated as success. Informational
// flags (preamble/syncword/header-valid) never end the wait; the loop reads
// again.
//
// continuousRx tells the RxDone, HeaderError and CRCError-during-receive
// branches whether the chip stays in Receive (RX continuous) or falls back
// to StandbyRC once this packet is consumed.
func (r *Radio) processIRQ(ctx context.Context, continuousRx bool) (irqOutcome, bool, error) {
	log := slog.With("func", "Radio.processIRQ()", "params", "(context.Context, bool)", "return", "(irqOutcome, bool, error)", "lib", "sx126x")

	for {
		if err := r.iface.AwaitIRQ(ctx); err != nil {
			return 0, false, fmt.Errorf("%w: %v", ErrIRQ, err)
		}

		status, err := r.getIrqStatus(ctx)
		if err != nil {
			return 0, false, err
		}
		if err := r.clearIrqStatus(ctx, status); err != nil {
			return 0, false, err
		}
		log.Debug("irq status", "status", status, "mode", r.mode)

		switch {
		case status&IrqHeaderErr != 0:
			if !continuousRx {
				r.mode = ModeStandbyRC
			}
			return 0, false, ErrHeaderError

		case status&IrqCrcErr != 0:
			wasReceiving := r.mode == ModeReceive || r.mode == ModeReceiveDutyCycle
			if !continuousRx {
				r.mode = ModeStandbyRC
			}
			if wasReceiving {
				return 0, false, ErrCRCErrorOnReceive
			}
			return 0, false, ErrCRCErrorUnexpected

		case status&IrqTimeout != 0:
			wasMode := r.mode
			r.mode = ModeStandbyRC
			switch wasMode {
			case ModeTransmit:
				return 0, false, ErrTransmitTimeout
			case ModeReceive, ModeReceiveDutyCycle:
				return 0, false, ErrReceiveTimeout
			default:
				return 0, false, ErrTimeoutUnexpected
			}

		case status&IrqTxDone != 0:
			if r.mode != ModeTransmit {
				r.mode = ModeStandbyRC
				return 0, false, ErrTransmitDoneUnexpected
			}
			r.mode = ModeStandbyRC
			log.Info("tx done")
			return irqTxDone, false, nil

		case status&IrqRxDone != 0:
			if r.mode != ModeReceive && r.mode != ModeReceiveDutyCycle {
				r.mode = ModeStandbyRC
				return 0, false, ErrReceiveDoneUnexpected
			}
			if err := r.implicitHeaderTimeoutWorkaround(ctx); err != nil {
				return 0, false, err
			}
			if !continuousRx {
				r.mode = ModeStandbyRC
			}
			log.Info("rx done")
			return irqRxDone, false, nil

		case status&IrqCadDone != 0:
			if r.mode != ModeChannelActivityDetection {
				return 0, false, ErrCADUnexpected
			}
			r.mode = ModeStandbyRC
			detected := status&IrqCadDetected != 0
			log.Info("cad done", "detected", detected)
			return irqCADDone, detected, nil

		case status&(IrqHeaderValid|IrqPreambleDetected|IrqSyncWordValid) != 0:
			continue

		default:
			continue
		}
	}
}

// implicitHeaderTimeoutWorkaround clears a latched RTC wakeup event. It runs
// after every RxDone, whatever the header mode: in implicit-header mode the
// chip can otherwise leave its RTC controller running and raise a spurious
// timeout on the next operation.
func (r *Radio) implicitHeaderTimeoutWorkaround(ctx context.Context) error {
	if err := r.writeRegister(ctx, RegRtcControl, []uint8{0x00}); err != nil {
		return fmt.Errorf("clear rtc control: %w", err)
	}
	data, err := r.readRegister(ctx, RegEventMask, 1)
	if err != nil {
		return fmt.Errorf("read event mask: %w", err)
	}
	data[0] |= 1 << 1
	if err := r.writeRegister(ctx, RegEventMask, data); err != nil {
		return fmt.Errorf("write event mask: %w", err)
	}
	return nil
}
