package sx126x

import (
	"context"
	"time"

	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
)

// MockSPI is a bus double that records every frame shifted out and replays
// a fixed response on every transaction, the way the SX126x itself would
// for a fixed register/status value.
type MockSPI struct {
	TxData      []uint8
	RxData      []uint8
	ReturnError error
}

func (m *MockSPI) Tx(w, r []uint8) error {
	if m.ReturnError != nil {
		return m.ReturnError
	}
	m.TxData = append(m.TxData, w...)
	if r != nil && len(m.RxData) > 0 {
		copy(r, m.RxData)
	}
	return nil
}

func (m *MockSPI) Duplex() conn.Duplex            { return conn.Half }
func (m *MockSPI) TxPackets(p []spi.Packet) error { return nil }
func (m *MockSPI) String() string                 { return "MockSPI" }
func (m *MockSPI) Baud() physic.Frequency         { return 0 }

// MockInterfaceVariant is an InterfaceVariant double with no hardware
// behind it: BUSY reads low and IRQ is pending immediately unless the test
// sets BusyErr or IRQErr, which WaitOnBusy or AwaitIRQ then return.
type MockInterfaceVariant struct {
	NSSHistory []bool
	ResetCalls int
	BusyErr    error
	IRQErr     error
}

func (m *MockInterfaceVariant) SetNSS(ctx context.Context, high bool) error {
	m.NSSHistory = append(m.NSSHistory, high)
	return nil
}

func (m *MockInterfaceVariant) Reset(ctx context.Context) error {
	m.ResetCalls++
	return nil
}

func (m *MockInterfaceVariant) WaitOnBusy(ctx context.Context) error {
	return m.BusyErr
}

func (m *MockInterfaceVariant) AwaitIRQ(ctx context.Context) error {
	return m.IRQErr
}

// noopDelay is a DelayFunc that returns immediately, for tests that don't
// care about real wall-clock waits.
func noopDelay(ctx context.Context, d time.Duration) error { return nil }
