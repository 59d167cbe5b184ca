package engine

import "math/rand/v2"

// Source supplies uniform integers in [0, n). *rand.Rand from math/rand/v2
// satisfies it, as does *Stream.
type Source interface {
	IntN(n int) int
}

// NewSeededSource returns a deterministic PCG-backed source. The same seed
// always yields the same sequence, which keeps tests reproducible.
func NewSeededSource(seed uint64) Source {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// NewRandomSource returns a PCG source seeded from the runtime's entropy.
func NewRandomSource() Source {
	return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
}
