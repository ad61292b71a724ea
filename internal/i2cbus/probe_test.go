package i2cbus

import "testing"

func TestProbeAddressing_SixteenBit(t *testing.T) {
	bus := &fakeBus{reg0Script: []byte{0xAA, 0xBB, 0xCC, 0xDD, 0xEE, 0xFF, 0x11, 0x22}}
	width, err := ProbeAddressing(bus)
	if err != nil {
		t.Fatalf("probe failed: %v", err)
	}
	if width != Width16Bit {
		t.Fatalf("expected Width16Bit, got %v", width)
	}
}

func TestProbeAddressing_EightBit(t *testing.T) {
	bus := &fakeBus{reg0Script: []byte{0xAA, 0xAA, 0xAA, 0xAA, 0xAA, 0xAA, 0xAA, 0xAA}}
	width, err := ProbeAddressing(bus)
	if err != nil {
		t.Fatalf("probe failed: %v", err)
	}
	if width != Width8Bit {
		t.Fatalf("expected Width8Bit, got %v", width)
	}
}

func TestProbeAddressing_LateDivergenceStillSixteenBit(t *testing.T) {
	bus := &fakeBus{reg0Script: []byte{0x10, 0x10, 0x10, 0x10, 0x10, 0x10, 0x10, 0x99}}
	width, err := ProbeAddressing(bus)
	if err != nil {
		t.Fatalf("probe failed: %v", err)
	}
	if width != Width16Bit {
		t.Fatalf("expected Width16Bit on late divergence, got %v", width)
	}
}

func TestProbeAddressing_ReadFailureShortCircuits(t *testing.T) {
	bus := &fakeBus{reg0Script: []byte{0xAA}, failAfter: 0}
	bus.failAfter = 1
	if _, err := ProbeAddressing(bus); err == nil {
		t.Fatal("expected a read failure to abort the probe")
	}
}
