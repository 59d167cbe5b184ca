package keno

import (
	"slices"

	"github.com/MJE43/keno-sim/internal/engine"
)

// DrawingEngine draws 20 distinct numbers from 1..80 per call.
type DrawingEngine struct {
	rng engine.Source
}

// NewDrawingEngine returns an engine drawing from src, or from a randomly
// seeded source when src is nil.
func NewDrawingEngine(src engine.Source) *DrawingEngine {
	if src == nil {
		src = engine.NewRandomSource()
	}
	return &DrawingEngine{rng: src}
}

// Draw returns DrawSize unique numbers in the order they were drawn.
func (d *DrawingEngine) Draw() []int {
	return drawFrom(d.rng)
}

// ReplayDraw reproduces the provably-fair drawing for seeds and nonce.
func ReplayDraw(seeds engine.Seeds, nonce uint64) []int {
	return drawFrom(engine.NewStream(seeds, nonce))
}

// drawFrom selects without replacement: each step picks an index into the
// remaining pool and removes it, keeping the pool order stable.
func drawFrom(src engine.Source) []int {
	pool := make([]int, MaxNumber)
	for i := range pool {
		pool[i] = MinNumber + i
	}

	draws := make([]int, DrawSize)
	for i := range draws {
		idx := src.IntN(len(pool))
		draws[i] = pool[idx]
		pool = slices.Delete(pool, idx, idx+1)
	}
	return draws
}

// Sorted returns an ascending copy of nums.
func Sorted(nums []int) []int {
	out := slices.Clone(nums)
	slices.Sort(out)
	return out
}
