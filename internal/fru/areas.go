package fru

// area names in header-offset-slot order (spec §4.7 step 2).
const (
	areaInternal    = "INTERNAL"
	areaChassis     = "CHASSIS"
	areaBoard       = "BOARD"
	areaProduct     = "PRODUCT"
	areaMultirecord = "MULTIRECORD"
)

// areaOrder is the fixed order the five header offset slots (bytes 1..5)
// are interpreted in.
var areaOrder = [areaCount]string{areaInternal, areaChassis, areaBoard, areaProduct, areaMultirecord}

// Field vocabularies per area, in on-wire order. CHASSIS_TYPE,
// BOARD_LANGUAGE_CODE, PRODUCT_LANGUAGE_CODE and BOARD_MANUFACTURE_DATE
// are handled separately since they aren't type/length fields.
var (
	chassisFields = []string{"PART_NUMBER", "SERIAL_NUMBER", "INFO_AM1", "INFO_AM2"}
	boardFields   = []string{"MANUFACTURER", "PRODUCT_NAME", "SERIAL_NUMBER", "PART_NUMBER", "FRU_VERSION_ID", "INFO_AM1", "INFO_AM2"}
	productFields = []string{
		"MANUFACTURER", "PRODUCT_NAME", "PART_NUMBER", "VERSION", "SERIAL_NUMBER",
		"ASSET_TAG", "FRU_VERSION_ID", "INFO_AM1", "INFO_AM2",
	}
)

// fieldsForArea returns the type/length field vocabulary for the named
// area, or nil if the area has no type/length fields of its own (this
// decoder only carries presence for INTERNAL and MULTIRECORD).
func fieldsForArea(area string) []string {
	switch area {
	case areaChassis:
		return chassisFields
	case areaBoard:
		return boardFields
	case areaProduct:
		return productFields
	default:
		return nil
	}
}

// typeLengthTerminator marks the end of an area's type/length field
// stream.
const typeLengthTerminator = 0xC1

// typeLengthMask extracts the byte length from a type/length byte; the
// upper two bits (the encoding type) are not interpreted by this decoder.
const typeLengthMask = 0x3F
