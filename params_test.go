package sx126x

import (
	"testing"
	"time"
)

// TestGetTimeOnAir exercises the Semtech time-on-air formula across a
// spread of spreading factors, bandwidths and coding rates. The expected
// durations were hand-derived from the same formula this package
// implements (blocks = ceil(numerator/denominator) * crDenom, crDenom =
// CodingRate index + 4, then the whole result rounded up to the next whole
// millisecond) rather than lifted from any single source, since the two
// places this formula is documented disagree on whether the multiplier is
// keyed on SF or on CR.
func TestGetTimeOnAir(t *testing.T) {
	tests := []struct {
		name     string
		sf       uint8
		bw       LoRaBandwidth
		cr       LoRaCodingRate
		ldro     bool
		preamble uint16
		crc      bool
		implicit bool
		payload  uint8
		expected time.Duration
	}{
		{
			name: "SF7_BW125_CR4_5_payload10", sf: 7, bw: LoRaBW_125, cr: LoRaCR_4_5,
			preamble: 8, crc: true, payload: 10,
			expected: 42 * time.Millisecond,
		},
		{
			name: "SF12_BW125_CR4_5_payload10", sf: 12, bw: LoRaBW_125, cr: LoRaCR_4_5,
			preamble: 8, crc: true, payload: 10,
			expected: 992 * time.Millisecond,
		},
		{
			name: "SF9_BW500_CR4_7_payload32_implicit_noCRC", sf: 9, bw: LoRaBW_500, cr: LoRaCR_4_7,
			preamble: 12, crc: false, implicit: true, payload: 32,
			expected: 76 * time.Millisecond,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r := &Radio{
				modParams: deriveModulationParams(tc.sf, tc.bw, tc.cr, tc.ldro),
				pktParams: derivePacketParams(tc.preamble, tc.implicit, tc.payload, tc.crc, false),
				paramsSet: true,
			}

			got, err := r.GetTimeOnAir(tc.payload)
			if err != nil {
				t.Fatalf("GetTimeOnAir: %v", err)
			}
			if got != tc.expected {
				t.Errorf("expected %v, got %v", tc.expected, got)
			}
		})
	}
}

func TestGetTimeOnAirRequiresParams(t *testing.T) {
	r := &Radio{}
	if _, err := r.GetTimeOnAir(10); err != ErrPacketParamsMissing {
		t.Errorf("expected ErrPacketParamsMissing, got %v", err)
	}
}

func TestGetTimeOnAirRejectsUnknownBandwidth(t *testing.T) {
	r := &Radio{
		modParams: deriveModulationParams(7, LoRaBandwidth(0xFF), LoRaCR_4_5, false),
		pktParams: derivePacketParams(8, false, 10, true, false),
		paramsSet: true,
	}
	if _, err := r.GetTimeOnAir(10); err == nil {
		t.Error("expected an error for an unmapped bandwidth")
	}
}

func TestEncodeTimeout(t *testing.T) {
	tests := []struct {
		name     string
		d        time.Duration
		expected uint32
	}{
		{"Zero", 0, 0},
		{"OneTick", 15625 * time.Nanosecond, 1},
		{"Clamped", 1000 * time.Second, 0xFFFFFF},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := encodeTimeout(tc.d); got != tc.expected {
				t.Errorf("expected %d, got %d", tc.expected, got)
			}
		})
	}
}
