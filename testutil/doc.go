// Package testutil provides testing utilities for vecwire.
//
// This package is intended for use in tests and benchmarks only.
// It provides a seeded, thread-safe random source and helpers for
// generating vectors, sparse vectors and validity masks.
//
// # Random Data Generation
//
//	rng := testutil.NewRNG(seed)
//	vec := make([]float32, 128)
//	rng.FillUniform(vec)            // uniform [0, 1)
//	sv := rng.SparseVector(8, 1000) // 8 non-zero entries
//	valid := rng.Mask(100, 0.3)     // ~30% nulls
package testutil
