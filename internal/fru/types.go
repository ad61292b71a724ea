// Package fru implements the IPMI FRU Information Storage Definition:
// header validation, area decoding into a flat string map, encoding a
// field map back into FRU bytes, and the validation a write-back request
// must pass before it reaches an EEPROM.
package fru

// RawFru is the raw byte sequence of an FRU: an 8-byte common header
// followed by the concatenation of whichever areas the header declares.
type RawFru []byte

// AreaOffset is a header offset field, expressed as a count of 8-byte
// blocks from the start of the FRU. Zero means the area is absent.
type AreaOffset uint8

// Bytes returns the byte offset this AreaOffset addresses.
func (o AreaOffset) Bytes() int {
	return int(o) * 8
}

// DecodedFru is the flat key/value view of an FRU produced by Decode,
// keyed by <AREA>_<FIELD>, plus the synthetic Common_Format_Version,
// CHASSIS_TYPE, BOARD_LANGUAGE_CODE, PRODUCT_LANGUAGE_CODE and
// BOARD_MANUFACTURE_DATE entries.
type DecodedFru map[string]string
