package fru

import "testing"

func TestValidateForWrite_AcceptsWellFormedFru(t *testing.T) {
	raw, err := Encode(FieldSet{
		"CHASSIS_TYPE":        "1",
		"CHASSIS_PART_NUMBER": "PN-1",
	})
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}
	if err := ValidateForWrite(raw); err != nil {
		t.Fatalf("expected well-formed fru to validate, got: %v", err)
	}
}

func TestValidateForWrite_RejectsOversized(t *testing.T) {
	candidate := make([]byte, MaxFruSize+1)
	if err := ValidateForWrite(candidate); err != ErrTooLarge {
		t.Fatalf("expected ErrTooLarge, got %v", err)
	}
}

func TestValidateForWrite_RejectsUndecodable(t *testing.T) {
	if err := ValidateForWrite([]byte{0x01, 0x00}); err == nil {
		t.Fatal("expected undecodable candidate to be rejected")
	}
}
