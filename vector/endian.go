package vector

import (
	"encoding/binary"
	"math"
	"unsafe"

	"golang.org/x/sys/cpu"
)

// appendFloat32s appends the little-endian encoding of src to dst.
func appendFloat32s(dst []byte, src []float32) []byte {
	if len(src) == 0 {
		return dst
	}
	if !cpu.IsBigEndian {
		raw := unsafe.Slice((*byte)(unsafe.Pointer(&src[0])), len(src)*4)
		return append(dst, raw...)
	}
	for _, f := range src {
		dst = binary.LittleEndian.AppendUint32(dst, math.Float32bits(f))
	}
	return dst
}

// readFloat32s decodes little-endian float32 values from src into dst.
// dst must have length >= len(src)/4.
func readFloat32s(dst []float32, src []byte) {
	n := len(src) / 4
	if n == 0 {
		return
	}
	if !cpu.IsBigEndian {
		copy(unsafe.Slice((*byte)(unsafe.Pointer(&dst[0])), n*4), src[:n*4])
		return
	}
	for i := range n {
		dst[i] = math.Float32frombits(binary.LittleEndian.Uint32(src[4*i:]))
	}
}

// FloatVectorFromBytes decodes a little-endian float32 blob.
func FloatVectorFromBytes(b []byte) (FloatVector, error) {
	if len(b)%4 != 0 {
		return nil, errDims(len(b), 4)
	}
	out := make(FloatVector, len(b)/4)
	readFloat32s(out, b)
	return out, nil
}
