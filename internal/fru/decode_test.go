package fru

import "testing"

func TestDecode_BoardManufactureDate(t *testing.T) {
	// header: version=1, board offset=1 block, checksum=0xFE
	// board area: format=1, len=2 blocks(16 bytes), language=0,
	// minutes=0x002710 (10000, little-endian), MANUFACTURER="ACME", terminator.
	raw := RawFru{
		0x01, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0xFE,
		0x01, 0x02, 0x00, 0x10, 0x27, 0x00, 0xC4, 'A', 'C', 'M', 'E', 0xC1, 0x00, 0x00, 0x00, 0x00,
	}

	decoded, err := Decode(raw)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}

	if decoded["BOARD_LANGUAGE_CODE"] != "0" {
		t.Errorf("BOARD_LANGUAGE_CODE: got %s, want 0", decoded["BOARD_LANGUAGE_CODE"])
	}
	if got, want := decoded["BOARD_MANUFACTURE_DATE"], "1996-01-07 22:40:00"; got != want {
		t.Errorf("BOARD_MANUFACTURE_DATE: got %s, want %s", got, want)
	}
	if got, want := decoded["BOARD_MANUFACTURER"], "ACME"; got != want {
		t.Errorf("BOARD_MANUFACTURER: got %q, want %q", got, want)
	}
	if _, ok := decoded["BOARD_PRODUCT_NAME"]; ok {
		t.Error("expected no further fields to be read after the 0xC1 terminator")
	}
}

func TestDecode_ManufactureDateInvariant(t *testing.T) {
	minutes := 12345
	raw := RawFru{
		0x01, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0xFE,
		0x01, 0x01, 0x00,
		byte(minutes), byte(minutes >> 8), byte(minutes >> 16),
		0xC1, 0x00,
	}

	decoded, err := Decode(raw)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}

	if got, want := decoded["BOARD_MANUFACTURE_DATE"], "1996-01-09 13:45:00"; got != want {
		t.Errorf("BOARD_MANUFACTURE_DATE: got %s, want %s", got, want)
	}
}

func TestDecode_ChassisType(t *testing.T) {
	raw := RawFru{
		0x01, 0x00, 0x01, 0x00, 0x00, 0x00, 0x00, 0xFE,
		0x01, 0x01, 0x11, 0xC1, 0x00, 0x00, 0x00, 0x00,
	}

	decoded, err := Decode(raw)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if decoded["CHASSIS_TYPE"] != "17" {
		t.Errorf("CHASSIS_TYPE: got %s, want 17", decoded["CHASSIS_TYPE"])
	}
}

func TestDecode_TruncatedAreaFails(t *testing.T) {
	// CHASSIS area declares a PART_NUMBER field of length 8 but only
	// provides 2 bytes before the buffer ends.
	raw := RawFru{
		0x01, 0x00, 0x01, 0x00, 0x00, 0x00, 0x00, 0xFE,
		0x01, 0x02, 0x11, 0xC8, 0x41, 0x42,
	}
	if _, err := Decode(raw); err == nil {
		t.Fatal("expected decode to fail on truncated field data")
	}
}

func TestDecode_TooShortFails(t *testing.T) {
	if _, err := Decode(RawFru{0x01, 0x00}); err == nil {
		t.Fatal("expected decode to fail for input shorter than a header")
	}
}

func TestDecode_PresenceMarkers(t *testing.T) {
	raw := RawFru{
		0x01, 0x01, 0x00, 0x00, 0x00, 0x02, 0x00, 0xFC,
		0x01, 0x01, 0x11, 0xC1, 0x00, 0x00, 0x00, 0x00, // INTERNAL area at block 1
		0x01, 0x01, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, // MULTIRECORD area at block 2
	}
	decoded, err := Decode(raw)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if decoded["MULTIRECORD_PRESENT"] != "1" {
		t.Error("expected MULTIRECORD_PRESENT to be set")
	}
}

func TestDecode_NonASCIISanitized(t *testing.T) {
	raw := RawFru{
		0x01, 0x00, 0x01, 0x00, 0x00, 0x00, 0x00, 0xFE,
		0x01, 0x01, 0x11, 0xC2, 0xFF, 0x80, 0xC1, 0x00,
	}
	decoded, err := Decode(raw)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if got, want := decoded["CHASSIS_PART_NUMBER"], "__"; got != want {
		t.Errorf("CHASSIS_PART_NUMBER: got %q, want %q", got, want)
	}
}
