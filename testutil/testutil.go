package testutil

import (
	"math"
	"math/rand"
	"sync"

	"github.com/hupe1980/vecwire/vector"
)

// RNG struct encapsulates the random number generator and seed.
// It is thread-safe.
type RNG struct {
	rand *rand.Rand
	seed int64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)), //nolint:gosec // deterministic test data
		seed: seed,
	}
}

// Reset resets the RNG to its initial seed.
func (r *RNG) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand.Seed(r.seed)
}

// Seed returns the initial seed.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Intn returns a non-negative pseudo-random number in [0,n).
func (r *RNG) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Intn(n)
}

// Uint64 returns a pseudo-random uint64.
func (r *RNG) Uint64() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Uint64()
}

// Float32 returns, as a float32, a pseudo-random number in [0.0,1.0).
func (r *RNG) Float32() float32 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Float32()
}

// FillUniform fills dst with random values in range [0, 1).
// Locks only once per call.
func (r *RNG) FillUniform(dst []float32) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range dst {
		dst[i] = r.rand.Float32()
	}
}

// FillUniformRange fills dst with random values in range [minVal, maxVal).
func (r *RNG) FillUniformRange(dst []float32, minVal, maxVal float32) {
	r.mu.Lock()
	defer r.mu.Unlock()
	span := maxVal - minVal
	for i := range dst {
		dst[i] = minVal + r.rand.Float32()*span
	}
}

// Bytes returns n random bytes.
func (r *RNG) Bytes(n int) []byte {
	r.mu.Lock()
	defer r.mu.Unlock()
	b := make([]byte, n)
	_, _ = r.rand.Read(b)
	return b
}

// UniformVectors generates random vectors with values in range [0, 1).
// Uses a single backing array.
func (r *RNG) UniformVectors(num int, dimensions int) [][]float32 {
	r.mu.Lock()
	defer r.mu.Unlock()

	data := make([]float32, num*dimensions)
	vectors := make([][]float32, num)

	for i := range num {
		vec := data[i*dimensions : (i+1)*dimensions]
		for j := range vec {
			vec[j] = r.rand.Float32()
		}
		vectors[i] = vec
	}

	return vectors
}

// UnitVector generates a single L2-normalized random vector.
func (r *RNG) UnitVector(dimensions int) vector.FloatVector {
	r.mu.Lock()
	defer r.mu.Unlock()

	vec := make(vector.FloatVector, dimensions)
	var norm float64
	for j := range vec {
		v := r.rand.NormFloat64()
		vec[j] = float32(v)
		norm += v * v
	}

	if norm == 0 {
		norm = 1
	}

	inv := float32(1.0 / math.Sqrt(norm))
	for j := range vec {
		vec[j] *= inv
	}
	return vec
}

// Int8Vector returns a vector with values spread over the full int8 range.
func (r *RNG) Int8Vector(dimensions int) vector.Int8Vector {
	r.mu.Lock()
	defer r.mu.Unlock()

	vec := make(vector.Int8Vector, dimensions)
	for i := range vec {
		vec[i] = int8(r.rand.Intn(256) - 128) //nolint:gosec // in range
	}
	return vec
}

// BinaryVector returns a packed bit vector of the given dimension, which
// must be a multiple of 8.
func (r *RNG) BinaryVector(dimensions int) vector.BinaryVector {
	return vector.BinaryVector(r.Bytes(dimensions / 8))
}

// SparseVector returns a sparse vector with nnz distinct indices below maxIndex.
func (r *RNG) SparseVector(nnz int, maxIndex int) vector.SparseVector {
	r.mu.Lock()
	m := make(map[int64]float32, nnz)
	for len(m) < min(nnz, maxIndex) {
		m[int64(r.rand.Intn(maxIndex))] = r.rand.Float32() + 0.01
	}
	r.mu.Unlock()

	sv, err := vector.NewSparseVector(m)
	if err != nil {
		panic(err)
	}
	return sv
}

// Mask returns n validity flags where each flag is false with probability nullRate.
func (r *RNG) Mask(n int, nullRate float64) []bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	valid := make([]bool, n)
	for i := range n {
		valid[i] = r.rand.Float64() >= nullRate
	}

	return valid
}

// String returns a random lowercase ASCII string of length n.
func (r *RNG) String(n int) string {
	r.mu.Lock()
	defer r.mu.Unlock()

	b := make([]byte, n)
	for i := range b {
		b[i] = byte('a' + r.rand.Intn(26)) //nolint:gosec // in range
	}
	return string(b)
}
