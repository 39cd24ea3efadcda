package sx126x

import (
	"context"
	"time"

	"periph.io/x/conn/v3/spi"
)

// InterfaceVariant abstracts the board-specific wiring around the SX126x:
// chip select, reset, the BUSY line and the DIO1 interrupt line. A caller
// supplies a concrete implementation (periph.io GPIO pins, a bit-banged
// bridge, a simulator for tests); Radio never touches GPIO directly.
//
// Every method takes a context so a caller using real hardware can make the
// same cooperative-suspension points visible that an async runtime would:
// WaitOnBusy and AwaitIRQ are the two calls that can legitimately block for
// a long time, and both return ctx.Err() on cancellation.
type InterfaceVariant interface {
	// SetNSS drives the chip-select line. high == true deselects the chip.
	SetNSS(ctx context.Context, high bool) error

	// Reset pulses the RESET line and returns once the chip has come out of
	// reset (NSS high, RESET low then high, per §6 of the wire contract).
	Reset(ctx context.Context) error

	// WaitOnBusy blocks until the BUSY line reads low, or ctx is done.
	WaitOnBusy(ctx context.Context) error

	// AwaitIRQ blocks until DIO1 reports a pending interrupt, or ctx is
	// done. It does not clear the interrupt; ProcessIRQ does that over SPI.
	AwaitIRQ(ctx context.Context) error
}

// DelayFunc is the suspension point an Radio uses for fixed waits (e.g. the
// post-reset settle time) that are not gated by BUSY or an IRQ. Production
// code passes a context-aware sleep; tests pass a func that returns
// immediately or that injects ErrDelay.
type DelayFunc func(ctx context.Context, d time.Duration) error

// Bus is the SPI contract a Radio transacts over. periph.io/x/conn/v3's
// spi.Conn already satisfies it; the alias keeps this package's public API
// from leaking the periph.io import into every caller that only needs to
// pass a bus through.
type Bus = spi.Conn
