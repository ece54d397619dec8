// Package mock provides deterministic test doubles for the ai interfaces.
//
// The mock embedder derives unit vectors from an FNV hash of the input
// text, so identical texts embed identically across runs; the mock
// classifier falls back to a crude keyword mapping. Both expose function
// fields for injecting custom behavior and call counters for assertions.
package mock
