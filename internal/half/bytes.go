package half

import "encoding/binary"

// AppendFloat16s appends the little-endian binary16 encoding of src to dst.
func AppendFloat16s(dst []byte, src []float32) []byte {
	for _, f := range src {
		dst = binary.LittleEndian.AppendUint16(dst, uint16(NewFloat16(f)))
	}
	return dst
}

// AppendBFloat16s appends the little-endian bfloat16 encoding of src to dst.
func AppendBFloat16s(dst []byte, src []float32) []byte {
	for _, f := range src {
		dst = binary.LittleEndian.AppendUint16(dst, uint16(NewBFloat16(f)))
	}
	return dst
}

// Float16s widens little-endian binary16 bytes into dst.
// dst must have length >= len(src)/2.
func Float16s(dst []float32, src []byte) {
	for i := range len(src) / 2 {
		dst[i] = Float16(binary.LittleEndian.Uint16(src[2*i:])).Float32()
	}
}

// BFloat16s widens little-endian bfloat16 bytes into dst.
// dst must have length >= len(src)/2.
func BFloat16s(dst []float32, src []byte) {
	for i := range len(src) / 2 {
		dst[i] = BFloat16(binary.LittleEndian.Uint16(src[2*i:])).Float32()
	}
}
