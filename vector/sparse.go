package vector

import (
	"encoding/binary"
	"fmt"
	"math"
	"slices"
	"sort"

	"github.com/hupe1980/vecwire/internal/conv"
)

// sparseEntrySize is the wire size of one (uint32 index, float32 value) pair.
const sparseEntrySize = 8

// SparseVector is a sparse float vector with strictly ascending indices.
// Indices are int64 in the API and must fit the uint32 wire index.
type SparseVector struct {
	Indices []int64
	Values  []float32
}

// NewSparseVector builds a sparse vector from an index→value mapping.
// Indices must lie in [0, 2^32-1].
func NewSparseVector(m map[int64]float32) (SparseVector, error) {
	v := SparseVector{
		Indices: make([]int64, 0, len(m)),
		Values:  make([]float32, 0, len(m)),
	}
	for idx := range m {
		if _, err := conv.Int64ToUint32(idx); err != nil {
			return SparseVector{}, fmt.Errorf("%w: %w", ErrMalformedSparseVector, err)
		}
		v.Indices = append(v.Indices, idx)
	}
	slices.Sort(v.Indices)
	for _, idx := range v.Indices {
		v.Values = append(v.Values, m[idx])
	}
	return v, nil
}

// NewSparseVectorFromSlices builds a sparse vector from parallel slices in any
// order. Duplicate indices are rejected.
func NewSparseVectorFromSlices(indices []int64, values []float32) (SparseVector, error) {
	if len(indices) != len(values) {
		return SparseVector{}, fmt.Errorf("%w: %d indices, %d values", ErrMalformedSparseVector, len(indices), len(values))
	}
	v := SparseVector{Indices: slices.Clone(indices), Values: slices.Clone(values)}
	sort.Sort(byIndex(v))
	if err := v.Validate(); err != nil {
		return SparseVector{}, err
	}
	return v, nil
}

type byIndex SparseVector

func (b byIndex) Len() int           { return len(b.Indices) }
func (b byIndex) Less(i, j int) bool { return b.Indices[i] < b.Indices[j] }
func (b byIndex) Swap(i, j int) {
	b.Indices[i], b.Indices[j] = b.Indices[j], b.Indices[i]
	b.Values[i], b.Values[j] = b.Values[j], b.Values[i]
}

// Len returns the number of non-zero entries.
func (v SparseVector) Len() int { return len(v.Indices) }

// Dim returns the largest index plus one, or zero for an empty vector.
func (v SparseVector) Dim() int {
	if len(v.Indices) == 0 {
		return 0
	}
	return int(v.Indices[len(v.Indices)-1]) + 1
}

// Get returns the value at index i, or zero if the entry is absent.
func (v SparseVector) Get(i int64) float32 {
	if k, ok := slices.BinarySearch(v.Indices, i); ok {
		return v.Values[k]
	}
	return 0
}

// Map returns the vector as an index→value mapping.
func (v SparseVector) Map() map[int64]float32 {
	m := make(map[int64]float32, len(v.Indices))
	for i, idx := range v.Indices {
		m[idx] = v.Values[i]
	}
	return m
}

// Clone returns a deep copy.
func (v SparseVector) Clone() SparseVector {
	return SparseVector{Indices: slices.Clone(v.Indices), Values: slices.Clone(v.Values)}
}

// Validate checks that indices are strictly ascending, fit in 32 bits and
// are paired with values.
func (v SparseVector) Validate() error {
	if len(v.Indices) != len(v.Values) {
		return fmt.Errorf("%w: %d indices, %d values", ErrMalformedSparseVector, len(v.Indices), len(v.Values))
	}
	for i, idx := range v.Indices {
		if _, err := conv.Int64ToUint32(idx); err != nil {
			return fmt.Errorf("%w: position %d: %w", ErrMalformedSparseVector, i, err)
		}
		if i > 0 && idx <= v.Indices[i-1] {
			return fmt.Errorf("%w: index %d at position %d does not follow %d", ErrMalformedSparseVector, idx, i, v.Indices[i-1])
		}
	}
	return nil
}

// EncodeSparse serializes v as consecutive 8-byte entries: a little-endian
// uint32 index followed by a little-endian float32 value.
func EncodeSparse(v SparseVector) ([]byte, error) {
	if err := v.Validate(); err != nil {
		return nil, err
	}
	out := make([]byte, 0, len(v.Indices)*sparseEntrySize)
	for i, idx := range v.Indices {
		out = binary.LittleEndian.AppendUint32(out, uint32(idx)) //nolint:gosec // range checked by Validate
		out = binary.LittleEndian.AppendUint32(out, math.Float32bits(v.Values[i]))
	}
	return out, nil
}

// DecodeSparse parses one sparse row blob.
func DecodeSparse(blob []byte) (SparseVector, error) {
	if len(blob)%sparseEntrySize != 0 {
		return SparseVector{}, fmt.Errorf("%w: blob length %d is not a multiple of %d", ErrMalformedSparseVector, len(blob), sparseEntrySize)
	}
	n := len(blob) / sparseEntrySize
	v := SparseVector{Indices: make([]int64, n), Values: make([]float32, n)}
	for i := range n {
		off := i * sparseEntrySize
		v.Indices[i] = int64(binary.LittleEndian.Uint32(blob[off:]))
		v.Values[i] = math.Float32frombits(binary.LittleEndian.Uint32(blob[off+4:]))
	}
	if err := v.Validate(); err != nil {
		return SparseVector{}, err
	}
	return v, nil
}
