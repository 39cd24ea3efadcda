package sx126x

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"periph.io/x/conn/v3/gpio"
)

// GPIOVariant is the production InterfaceVariant: NSS, RESET and BUSY driven
// directly as periph.io gpio.PinIO lines, DIO1 watched through WaitForEdge.
// Board-specific RF-switch wiring is out of this driver's scope; a caller
// needing one composes it around GPIOVariant rather than through it.
type GPIOVariant struct {
	NSS   gpio.PinIO
	Reset gpio.PinIO
	Busy  gpio.PinIO
	DIO1  gpio.PinIO

	BusyPollInterval time.Duration
}

func (g *GPIOVariant) SetNSS(ctx context.Context, high bool) error {
	level := gpio.Low
	if high {
		level = gpio.High
	}
	if err := g.NSS.Out(level); err != nil {
		return fmt.Errorf("set nss %v: %w", level, err)
	}
	return nil
}

// Reset pulses RESET low then high and waits for BUSY to drop, the same
// hard-reset sequence the datasheet's reset timing diagram describes.
func (g *GPIOVariant) Reset(ctx context.Context) error {
	log := slog.With("func", "GPIOVariant.Reset()", "lib", "sx126x")
	log.Debug("hard reset")

	if err := g.NSS.Out(gpio.High); err != nil {
		return fmt.Errorf("nss high before reset: %w", err)
	}
	if err := g.Reset.Out(gpio.Low); err != nil {
		return fmt.Errorf("reset low: %w", err)
	}
	select {
	case <-time.After(1 * time.Millisecond):
	case <-ctx.Done():
		return ctx.Err()
	}
	if err := g.Reset.Out(gpio.High); err != nil {
		return fmt.Errorf("reset high: %w", err)
	}
	return g.WaitOnBusy(ctx)
}

// WaitOnBusy polls BUSY at BusyPollInterval (10ms if unset), matching the
// teacher's busy-check loop rather than relying on an edge interrupt, since
// some boards don't wire BUSY to an interrupt-capable pin.
func (g *GPIOVariant) WaitOnBusy(ctx context.Context) error {
	interval := g.BusyPollInterval
	if interval <= 0 {
		interval = 10 * time.Millisecond
	}
	for {
		if g.Busy.Read() == gpio.Low {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(interval):
		}
	}
}

// AwaitIRQ blocks on DIO1's rising edge. Callers must have armed the pin for
// edge detection (gpio.PinIn.In with a RisingEdge) before the first call.
func (g *GPIOVariant) AwaitIRQ(ctx context.Context) error {
	in, ok := g.DIO1.(gpio.PinIn)
	if !ok {
		return fmt.Errorf("dio1 pin does not support edge detection")
	}

	done := make(chan bool, 1)
	go func() { done <- in.WaitForEdge(-1 * time.Nanosecond) }()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case ok := <-done:
		if !ok {
			return fmt.Errorf("dio1 wait for edge failed")
		}
		return nil
	}
}

// RealDelay is the production DelayFunc: a context-aware sleep, cancellable
// the same way WaitOnBusy and AwaitIRQ are.
func RealDelay(ctx context.Context, d time.Duration) error {
	select {
	case <-time.After(d):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
