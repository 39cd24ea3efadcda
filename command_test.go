package sx126x

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"testing"
)

func init() {
	slog.SetDefault(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func newTestRadio() (*Radio, *MockSPI, *MockInterfaceVariant) {
	spi := &MockSPI{}
	iface := &MockInterfaceVariant{}
	return &Radio{bus: spi, iface: iface, mode: ModeStandbyRC, delay: noopDelay}, spi, iface
}

func TestSetSleep(t *testing.T) {
	tests := []struct {
		name          string
		cfg           SleepConfig
		expectedBytes []uint8
	}{
		{"ColdStart", SleepColdStart, []uint8{0x84, 0x00}},
		{"WarmStart", SleepWarmStart, []uint8{0x84, 0x04}},
		{"ColdStartRtc", SleepColdStartRtc, []uint8{0x84, 0x01}},
		{"WarmStartRtc", SleepWarmStartRtc, []uint8{0x84, 0x05}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r, spi, _ := newTestRadio()
			if err := r.setSleep(context.Background(), tc.cfg); err != nil {
				t.Fatalf("setSleep: %v", err)
			}
			if !bytes.Equal(spi.TxData, tc.expectedBytes) {
				t.Errorf("expected % x, got % x", tc.expectedBytes, spi.TxData)
			}
			if r.mode != ModeSleep {
				t.Errorf("expected mode ModeSleep, got %v", r.mode)
			}
		})
	}
}

func TestSetStandby(t *testing.T) {
	tests := []struct {
		name          string
		mode          StandbyMode
		expectedBytes []uint8
		expectedMode  OperatingMode
	}{
		{"Rc", StandbyRc, []uint8{0x80, 0x00}, ModeStandbyRC},
		{"Xosc", StandbyXosc, []uint8{0x80, 0x01}, ModeStandbyXOSC},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r, spi, _ := newTestRadio()
			if err := r.setStandby(context.Background(), tc.mode); err != nil {
				t.Fatalf("setStandby: %v", err)
			}
			if !bytes.Equal(spi.TxData, tc.expectedBytes) {
				t.Errorf("expected % x, got % x", tc.expectedBytes, spi.TxData)
			}
			if r.mode != tc.expectedMode {
				t.Errorf("expected mode %v, got %v", tc.expectedMode, r.mode)
			}
		})
	}
}

func TestSetTxTimeoutFraming(t *testing.T) {
	tests := []struct {
		name          string
		timeout       uint32
		expectedBytes []uint8
	}{
		{"Zero", 0x000000, []uint8{0x83, 0x00, 0x00, 0x00}},
		{"Max24bit", 0xFFFFFF, []uint8{0x83, 0xFF, 0xFF, 0xFF}},
		{"ShiftCheck", 0x123456, []uint8{0x83, 0x12, 0x34, 0x56}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r, spi, _ := newTestRadio()
			if err := r.setTx(context.Background(), tc.timeout); err != nil {
				t.Fatalf("setTx: %v", err)
			}
			if !bytes.Equal(spi.TxData, tc.expectedBytes) {
				t.Errorf("expected % x, got % x", tc.expectedBytes, spi.TxData)
			}
			if r.mode != ModeTransmit {
				t.Errorf("expected mode ModeTransmit, got %v", r.mode)
			}
		})
	}
}

func TestSetRxDutyCycleFraming(t *testing.T) {
	r, spi, _ := newTestRadio()
	if err := r.setRxDutyCycle(context.Background(), 0x123456, 0xABCDEF); err != nil {
		t.Fatalf("setRxDutyCycle: %v", err)
	}
	expected := []uint8{0x94, 0x12, 0x34, 0x56, 0xAB, 0xCD, 0xEF}
	if !bytes.Equal(spi.TxData, expected) {
		t.Errorf("expected % x, got % x", expected, spi.TxData)
	}
	if r.mode != ModeReceiveDutyCycle {
		t.Errorf("expected mode ModeReceiveDutyCycle, got %v", r.mode)
	}
}

func TestWriteReadRegisterRoundTrip(t *testing.T) {
	r, spi, _ := newTestRadio()
	if err := r.writeRegister(context.Background(), RegLoraSyncWordMsb, []uint8{0x14, 0x24}); err != nil {
		t.Fatalf("writeRegister: %v", err)
	}
	expected := []uint8{0x0D, 0x07, 0x40, 0x14, 0x24}
	if !bytes.Equal(spi.TxData, expected) {
		t.Errorf("expected % x, got % x", expected, spi.TxData)
	}

	spi.TxData = nil
	spi.RxData = []uint8{0x00, 0x00, 0x00, 0x00, 0x14, 0x24}
	data, err := r.readRegister(context.Background(), RegLoraSyncWordMsb, 2)
	if err != nil {
		t.Fatalf("readRegister: %v", err)
	}
	if !bytes.Equal(data, []uint8{0x14, 0x24}) {
		t.Errorf("expected [0x14 0x24], got % x", data)
	}
}

func TestTransactPropagatesBusyError(t *testing.T) {
	r, _, iface := newTestRadio()
	iface.BusyErr = context.DeadlineExceeded

	err := r.transact(context.Background(), []uint8{uint8(CmdGetStatus)}, make([]uint8, 1))
	if err == nil {
		t.Fatal("expected an error when BUSY never clears")
	}
}

func TestTransactTogglesNSSAroundTheBus(t *testing.T) {
	r, _, iface := newTestRadio()

	if err := r.cmd(context.Background(), CmdGetStatus); err != nil {
		t.Fatalf("cmd: %v", err)
	}

	if len(iface.NSSHistory) != 2 || iface.NSSHistory[0] != false || iface.NSSHistory[1] != true {
		t.Errorf("expected NSS low then high, got %v", iface.NSSHistory)
	}
}
