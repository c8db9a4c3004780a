// Package half implements IEEE-754 binary16 (float16) and bfloat16
// conversions.
//
// Both formats are storage formats only: arithmetic stays in float32.
package half

import "math"

// Float16 is the raw IEEE-754 binary16 bit-pattern.
//
// Layout:
//
//	sign: 1 bit
//	exp:  5 bits (bias 15)
//	frac: 10 bits
type Float16 uint16

// BFloat16 is the raw bfloat16 bit-pattern: the upper half of a float32.
//
// Layout:
//
//	sign: 1 bit
//	exp:  8 bits (bias 127)
//	frac: 7 bits
type BFloat16 uint16

const (
	signMask Float16 = 0x8000
	expMask  Float16 = 0x7C00
	fracMask Float16 = 0x03FF

	f32ExpMask  uint32 = 0x7F800000
	f32FracMask uint32 = 0x007FFFFF
)

// Float32 converts a binary16 bit-pattern to float32. The conversion is exact.
func (h Float16) Float32() float32 {
	sign := uint32(h&signMask) << 16
	exp := uint32(h&expMask) >> 10
	frac := uint32(h & fracMask)

	switch exp {
	case 0:
		if frac == 0 {
			return math.Float32frombits(sign)
		}
		// Subnormal: shift until the implicit bit appears.
		e := int32(-14)
		m := frac
		for (m & 0x0400) == 0 {
			m <<= 1
			e--
		}
		m &= 0x03FF
		return math.Float32frombits(sign | uint32(127+e)<<23 | m<<13)
	case 0x1F:
		if frac == 0 {
			return math.Float32frombits(sign | f32ExpMask)
		}
		return math.Float32frombits(sign | f32ExpMask | frac<<13)
	default:
		return math.Float32frombits(sign | uint32(int32(exp)-15+127)<<23 | frac<<13)
	}
}

// NewFloat16 rounds a float32 to the nearest binary16 value, ties to even.
// Values beyond the binary16 range become signed infinity.
func NewFloat16(f float32) Float16 {
	bits := math.Float32bits(f)
	sign := Float16((bits >> 16) & uint32(signMask))
	exp := int32((bits & f32ExpMask) >> 23)
	frac := bits & f32FracMask

	if exp == 0xFF {
		if frac == 0 {
			return sign | expMask
		}
		// Keep a non-zero quiet NaN payload.
		payload := Float16(frac >> 13)
		if payload == 0 {
			payload = 1
		}
		payload |= 0x0200
		return sign | expMask | (payload & fracMask)
	}

	// float32 subnormals are far below the binary16 range.
	if exp == 0 {
		return sign
	}

	e16 := exp - 127 + 15
	if e16 >= 0x1F {
		return sign | expMask
	}

	if e16 <= 0 {
		if e16 < -10 {
			return sign
		}
		mant := frac | 0x00800000
		shift := uint32(1-e16) + 13
		m := mant >> shift
		remainder := mant & ((uint32(1) << shift) - 1)
		halfway := uint32(1) << (shift - 1)
		if remainder > halfway || (remainder == halfway && m&1 == 1) {
			m++
		}
		return sign | Float16(m)
	}

	m := frac >> 13
	remainder := frac & 0x1FFF
	if remainder > 0x1000 || (remainder == 0x1000 && m&1 == 1) {
		m++
		if m == 0x0400 {
			m = 0
			e16++
			if e16 >= 0x1F {
				return sign | expMask
			}
		}
	}
	return sign | Float16(uint32(e16)<<10) | Float16(m)
}

// Float32 converts a bfloat16 bit-pattern to float32. The conversion is exact.
func (b BFloat16) Float32() float32 {
	return math.Float32frombits(uint32(b) << 16)
}

// NewBFloat16 rounds a float32 to the nearest bfloat16 value, ties to even.
func NewBFloat16(f float32) BFloat16 {
	bits := math.Float32bits(f)
	if bits&f32ExpMask == f32ExpMask && bits&f32FracMask != 0 {
		// Quiet NaN, never rounded into infinity.
		return BFloat16(bits>>16) | 0x0040
	}
	bias := uint32(0x7FFF) + (bits>>16)&1
	return BFloat16((bits + bias) >> 16)
}
