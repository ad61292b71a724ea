package i2cbus

import (
	"errors"
	"testing"
	"time"
)

func noSleep(time.Duration) {}

func TestWriteRawFru_WritesAllBytes(t *testing.T) {
	bus := &fakeBus{}
	data := []byte{0x01, 0x02, 0x03, 0x04}

	if err := WriteRawFru(bus, 0x50, data, noSleep); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	for i, want := range data {
		if bus.writes[i] != want {
			t.Errorf("byte %d: got %#x, want %#x", i, bus.writes[i], want)
		}
	}
}

func TestWriteRawFru_CrossesPageBoundary(t *testing.T) {
	bus := &fakeBus{}
	data := make([]byte, 300)
	for i := range data {
		data[i] = byte(i)
	}

	var selected []Address
	tracking := &trackingBus{fakeBus: bus, onSelect: func(a Address) { selected = append(selected, a) }}

	if err := WriteRawFru(tracking, 0x50, data, noSleep); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	if len(selected) != 2 {
		t.Fatalf("expected 2 address selections (initial + one page crossing), got %d: %v", len(selected), selected)
	}
	if selected[0] != 0x50 || selected[1] != 0x51 {
		t.Fatalf("expected addresses [0x50 0x51], got %v", selected)
	}
}

func TestWriteRawFru_FailsAfterThreeConsecutiveErrors(t *testing.T) {
	bus := &alwaysFailBus{}
	err := WriteRawFru(bus, 0x50, []byte{0xAA}, noSleep)
	if err == nil {
		t.Fatal("expected write to fail")
	}
	if bus.attempts != writeAttempts {
		t.Fatalf("expected %d attempts, got %d", writeAttempts, bus.attempts)
	}
}

// trackingBus wraps a fakeBus and records every SetSlaveAddress call.
type trackingBus struct {
	*fakeBus
	onSelect func(Address)
}

func (t *trackingBus) SetSlaveAddress(addr Address) error {
	t.onSelect(addr)
	return t.fakeBus.SetSlaveAddress(addr)
}

// alwaysFailBus fails every WriteByte call.
type alwaysFailBus struct {
	fakeBus
	attempts int
}

func (b *alwaysFailBus) WriteByte(register byte, value byte) error {
	b.attempts++
	return errors.New("simulated write failure")
}
