package sx126x

import (
	"context"
	"errors"
	"testing"
)

// irqRadio builds a Radio whose getIrqStatus/clearIrqStatus round-trip
// through a MockSPI that reports the given status bytes on every
// transaction. Every case here resolves on its first status read, so
// processIRQ never loops back for a second one.
func irqRadio(mode OperatingMode, statusHi, statusLo uint8) (*Radio, *MockSPI) {
	spi := &MockSPI{RxData: []uint8{0, 0, statusHi, statusLo}}
	iface := &MockInterfaceVariant{}
	return &Radio{bus: spi, iface: iface, mode: mode}, spi
}

func TestProcessIRQHeaderErrorWinsOverEverything(t *testing.T) {
	r, _ := irqRadio(ModeReceive, uint8(IrqHeaderErr>>8)|uint8(IrqRxDone>>8), uint8(IrqHeaderErr)|uint8(IrqRxDone))
	_, _, err := r.processIRQ(context.Background(), false)
	if !errors.Is(err, ErrHeaderError) {
		t.Errorf("expected ErrHeaderError, got %v", err)
	}
}

func TestProcessIRQCRCErrorDuringReceive(t *testing.T) {
	r, _ := irqRadio(ModeReceive, 0, uint8(IrqCrcErr))
	_, _, err := r.processIRQ(context.Background(), false)
	if !errors.Is(err, ErrCRCErrorOnReceive) {
		t.Errorf("expected ErrCRCErrorOnReceive, got %v", err)
	}
}

func TestProcessIRQHeaderErrorContinuousStaysInReceive(t *testing.T) {
	r, _ := irqRadio(ModeReceive, uint8(IrqHeaderErr>>8), uint8(IrqHeaderErr))
	_, _, err := r.processIRQ(context.Background(), true)
	if !errors.Is(err, ErrHeaderError) {
		t.Errorf("expected ErrHeaderError, got %v", err)
	}
	if r.mode != ModeReceive {
		t.Errorf("expected mode to stay Receive on a continuous-rx header error, got %v", r.mode)
	}
}

func TestProcessIRQCRCErrorContinuousStaysInReceive(t *testing.T) {
	r, _ := irqRadio(ModeReceive, 0, uint8(IrqCrcErr))
	_, _, err := r.processIRQ(context.Background(), true)
	if !errors.Is(err, ErrCRCErrorOnReceive) {
		t.Errorf("expected ErrCRCErrorOnReceive, got %v", err)
	}
	if r.mode != ModeReceive {
		t.Errorf("expected mode to stay Receive on a continuous-rx crc error, got %v", r.mode)
	}
}

func TestProcessIRQCRCErrorOutsideReceive(t *testing.T) {
	r, _ := irqRadio(ModeTransmit, 0, uint8(IrqCrcErr))
	_, _, err := r.processIRQ(context.Background(), false)
	if !errors.Is(err, ErrCRCErrorUnexpected) {
		t.Errorf("expected ErrCRCErrorUnexpected, got %v", err)
	}
}

func TestProcessIRQTimeoutClassification(t *testing.T) {
	tests := []struct {
		mode     OperatingMode
		expected RadioError
	}{
		{ModeTransmit, ErrTransmitTimeout},
		{ModeReceive, ErrReceiveTimeout},
		{ModeChannelActivityDetection, ErrTimeoutUnexpected},
	}
	for _, tc := range tests {
		r, _ := irqRadio(tc.mode, uint8(IrqTimeout>>8), uint8(IrqTimeout))
		_, _, err := r.processIRQ(context.Background(), false)
		if !errors.Is(err, tc.expected) {
			t.Errorf("mode %v: expected %v, got %v", tc.mode, tc.expected, err)
		}
	}
}

func TestProcessIRQTxDoneSuccessReturnsToStandby(t *testing.T) {
	r, _ := irqRadio(ModeTransmit, uint8(IrqTxDone>>8), uint8(IrqTxDone))
	outcome, _, err := r.processIRQ(context.Background(), false)
	if err != nil {
		t.Fatalf("processIRQ: %v", err)
	}
	if outcome != irqTxDone {
		t.Errorf("expected irqTxDone, got %v", outcome)
	}
	if r.mode != ModeStandbyRC {
		t.Errorf("expected mode StandbyRC after tx done, got %v", r.mode)
	}
}

func TestProcessIRQTxDoneUnexpected(t *testing.T) {
	r, _ := irqRadio(ModeReceive, uint8(IrqTxDone>>8), uint8(IrqTxDone))
	_, _, err := r.processIRQ(context.Background(), false)
	if !errors.Is(err, ErrTransmitDoneUnexpected) {
		t.Errorf("expected ErrTransmitDoneUnexpected, got %v", err)
	}
}

func TestProcessIRQRxDoneContinuousStaysInReceive(t *testing.T) {
	r, spi := irqRadio(ModeReceive, uint8(IrqRxDone>>8), uint8(IrqRxDone))
	// implicitHeaderTimeoutWorkaround does a write then a read then a write;
	// the mock's RxData keeps returning the same 4-byte frame for every
	// subsequent transaction, which is harmless for this test's assertions.
	_ = spi

	outcome, _, err := r.processIRQ(context.Background(), true)
	if err != nil {
		t.Fatalf("processIRQ: %v", err)
	}
	if outcome != irqRxDone {
		t.Errorf("expected irqRxDone, got %v", outcome)
	}
	if r.mode != ModeReceive {
		t.Errorf("expected mode to stay Receive in continuous mode, got %v", r.mode)
	}
}

func TestProcessIRQRxDoneSingleFallsBackToStandby(t *testing.T) {
	r, _ := irqRadio(ModeReceive, uint8(IrqRxDone>>8), uint8(IrqRxDone))
	outcome, _, err := r.processIRQ(context.Background(), false)
	if err != nil {
		t.Fatalf("processIRQ: %v", err)
	}
	if outcome != irqRxDone {
		t.Errorf("expected irqRxDone, got %v", outcome)
	}
	if r.mode != ModeStandbyRC {
		t.Errorf("expected mode StandbyRC after single rx done, got %v", r.mode)
	}
}

func TestProcessIRQCADDoneDetected(t *testing.T) {
	mask := IrqCadDone | IrqCadDetected
	r, _ := irqRadio(ModeChannelActivityDetection, uint8(mask>>8), uint8(mask))
	outcome, detected, err := r.processIRQ(context.Background(), false)
	if err != nil {
		t.Fatalf("processIRQ: %v", err)
	}
	if outcome != irqCADDone || !detected {
		t.Errorf("expected irqCADDone with detected=true, got %v detected=%v", outcome, detected)
	}
	if r.mode != ModeStandbyRC {
		t.Errorf("expected mode StandbyRC after cad done, got %v", r.mode)
	}
}

func TestProcessIRQCADUnexpected(t *testing.T) {
	r, _ := irqRadio(ModeReceive, uint8(IrqCadDone>>8), uint8(IrqCadDone))
	_, _, err := r.processIRQ(context.Background(), false)
	if !errors.Is(err, ErrCADUnexpected) {
		t.Errorf("expected ErrCADUnexpected, got %v", err)
	}
}
