package elevation

// Bit-packed codec for the dense index. Every slot holds an elevation
// biased by Bias in a BitsPerValue-wide field at bit offset slot*BitsPerValue.
// A field is read and written through a 3-byte little-endian window, which
// covers any 14-bit field starting at bit 0..7 of its first byte.

const (
	Bias         = 1000
	BitsPerValue = 14

	fieldMask = 1<<BitsPerValue - 1

	// MaxEncodable is the largest elevation a field can represent.
	// The smallest is Invalid, which encodes as all zero bits.
	MaxEncodable = fieldMask - Bias
)

// PackedLen returns the number of bytes needed for slots fields.
func PackedLen(slots uint64) uint64 {
	return (slots*BitsPerValue+7)/8 + 2
}

// Encodable reports whether elev fits into a field.
func Encodable(elev int16) bool {
	return int(elev) >= int(Invalid) && int(elev) <= MaxEncodable
}

// Encode writes elev into slot. Values outside the encodable range are
// stored as Invalid.
func Encode(buf []byte, slot uint64, elev int16) {
	if !Encodable(elev) {
		elev = Invalid
	}
	biased := uint32(int32(elev) + Bias)

	bit := slot * BitsPerValue
	off := bit / 8
	shift := bit % 8

	w := uint32(buf[off]) | uint32(buf[off+1])<<8 | uint32(buf[off+2])<<16
	w &^= fieldMask << shift
	w |= biased << shift

	buf[off] = byte(w)
	buf[off+1] = byte(w >> 8)
	buf[off+2] = byte(w >> 16)
}

// Decode reads the elevation stored in slot.
func Decode(buf []byte, slot uint64) int16 {
	bit := slot * BitsPerValue
	off := bit / 8
	shift := bit % 8

	w := uint32(buf[off]) | uint32(buf[off+1])<<8 | uint32(buf[off+2])<<16
	return int16(int32((w>>shift)&fieldMask) - Bias)
}
