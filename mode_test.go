package sx126x

import (
	"context"
	"errors"
	"testing"
)

func TestAddToRetentionListIsIdempotent(t *testing.T) {
	r, spi, _ := newTestRadio()

	if err := r.addToRetentionList(context.Background(), RegRxGain); err != nil {
		t.Fatalf("first add: %v", err)
	}
	n := len(spi.TxData)

	if err := r.addToRetentionList(context.Background(), RegRxGain); err != nil {
		t.Fatalf("second add: %v", err)
	}
	if len(spi.TxData) != n {
		t.Errorf("expected no new SPI traffic for a duplicate retention entry, got %d extra bytes", len(spi.TxData)-n)
	}
	if len(r.retention.regs) != 1 {
		t.Errorf("expected exactly one retained register, got %d", len(r.retention.regs))
	}
}

func TestAddToRetentionListExceedsCapacity(t *testing.T) {
	r, _, _ := newTestRadio()
	regs := []Register{RegRxGain, RegTxModulation, RegIqPolaritySetup, RegRtcControl}

	for _, reg := range regs {
		if err := r.addToRetentionList(context.Background(), reg); err != nil {
			t.Fatalf("add %v: %v", reg, err)
		}
	}

	err := r.addToRetentionList(context.Background(), RegEventMask)
	if !errors.Is(err, ErrRetentionListExceeded) {
		t.Errorf("expected ErrRetentionListExceeded, got %v", err)
	}
	if len(r.retention.regs) != MaxRetentionEntries {
		t.Errorf("expected retention list to stay at %d entries, got %d", MaxRetentionEntries, len(r.retention.regs))
	}
}

func TestCheckTransitionRejectsIllegalMoves(t *testing.T) {
	r := &Radio{mode: ModeTransmit}
	if err := r.checkTransition(ModeChannelActivityDetection); err == nil {
		t.Error("expected an error transitioning straight from Transmit to CAD")
	}
}

func TestCheckTransitionAllowsReceiveContinuousSelfLoop(t *testing.T) {
	r := &Radio{mode: ModeReceive}
	if err := r.checkTransition(ModeReceive); err != nil {
		t.Errorf("expected Receive->Receive to be legal for RX continuous, got %v", err)
	}
}
