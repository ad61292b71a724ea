package fru

import (
	"fmt"
	"strconv"
	"time"
)

// intelEpoch is the reference point for BOARD_MANUFACTURE_DATE: minutes
// since 1996-01-01T00:00:00 UTC.
var intelEpoch = time.Date(1996, time.January, 1, 0, 0, 0, 0, time.UTC)

// nonASCIIReplacement is substituted for any decoded byte outside the
// printable-ASCII range 0x01..0x7F before a value is published.
const nonASCIIReplacement = '_'

// Decode converts a raw FRU byte vector into a flat key/value map. It
// does not itself validate the common header checksum — callers that
// read raw bytes off the wire should run ValidateHeader first; Decode's
// own job is walking the area graph and the type/length field streams.
func Decode(raw RawFru) (DecodedFru, error) {
	if len(raw) <= HeaderSize {
		return nil, ErrTooShort
	}

	out := make(DecodedFru)
	out["Common_Format_Version"] = strconv.Itoa(int(raw[0]))

	for i, area := range areaOrder {
		offsetByte := raw[i+1]
		if offsetByte == 0 {
			continue
		}

		cursor := AreaOffset(offsetByte).Bytes() + 2 // skip area format version + length
		if cursor >= len(raw) {
			return nil, ErrTruncated
		}

		switch area {
		case areaChassis:
			out["CHASSIS_TYPE"] = strconv.Itoa(int(raw[cursor]))
			cursor++
			if err := decodeFields(raw, cursor, area, fieldsForArea(area), out); err != nil {
				return nil, err
			}
		case areaBoard:
			out["BOARD_LANGUAGE_CODE"] = strconv.Itoa(int(raw[cursor]))
			cursor++
			if cursor+3 > len(raw) {
				return nil, ErrTruncated
			}
			minutes := int(raw[cursor]) | int(raw[cursor+1])<<8 | int(raw[cursor+2])<<16
			cursor += 3
			out["BOARD_MANUFACTURE_DATE"] = intelEpoch.Add(time.Duration(minutes) * time.Minute).Format("2006-01-02 15:04:05")
			if err := decodeFields(raw, cursor, area, fieldsForArea(area), out); err != nil {
				return nil, err
			}
		case areaProduct:
			out["PRODUCT_LANGUAGE_CODE"] = strconv.Itoa(int(raw[cursor]))
			cursor++
			if err := decodeFields(raw, cursor, area, fieldsForArea(area), out); err != nil {
				return nil, err
			}
		case areaInternal:
			out["INTERNAL_PRESENT"] = "1"
		case areaMultirecord:
			out["MULTIRECORD_PRESENT"] = "1"
		}
	}

	return out, nil
}

// decodeFields walks the type/length field stream for one area starting
// at cursor, stopping at the 0xC1 terminator, running out of the field
// vocabulary, or running out of bytes.
func decodeFields(raw RawFru, cursor int, area string, fields []string, out DecodedFru) error {
	for _, field := range fields {
		if cursor >= len(raw) {
			return ErrTruncated
		}
		typeLen := raw[cursor]
		if typeLen == typeLengthTerminator {
			return nil
		}
		length := int(typeLen & typeLengthMask)
		cursor++

		if cursor+length > len(raw) {
			return ErrTruncated
		}
		value := stripTrailingNUL(raw[cursor : cursor+length])
		out[fmt.Sprintf("%s_%s", area, field)] = string(sanitizeASCII(value))

		cursor += length
		if cursor > len(raw) {
			return ErrTruncated
		}
	}
	return nil
}

// stripTrailingNUL removes trailing NUL bytes from a decoded field value.
func stripTrailingNUL(b []byte) []byte {
	end := len(b)
	for end > 0 && b[end-1] == 0 {
		end--
	}
	return b[:end]
}

// sanitizeASCII replaces every byte outside 0x01..0x7F with underscore,
// per spec §4.7's non-ASCII handling. The raw decoded key bytes
// (Decode's map keys) are never touched, only the values.
func sanitizeASCII(b []byte) []byte {
	out := make([]byte, len(b))
	for i, c := range b {
		if c < 0x01 || c > 0x7F {
			out[i] = nonASCIIReplacement
		} else {
			out[i] = c
		}
	}
	return out
}
