// Package rng defines the minimal random-number source every geometry,
// material, and integrator function needs, plus the PCG-backed
// implementation workers seed per task.
package rng

import "math/rand/v2"

// Source is the narrow RNG contract the rendering core depends on: a
// uniform float in [0,1) and a uniform float in an arbitrary range. It lets
// material/geometry code stay agnostic of the concrete generator (uniform
// PRNG during normal rendering, a PSSMLT mutation stream during Metropolis
// sampling).
type Source interface {
	Float32() float32
	Range(lo, hi float32) float32
}

// PCG is the default uniform RNG, seeded per work item from a base seed and
// work id the way the dispatcher's worker pool requires (§4.10).
type PCG struct {
	r *rand.Rand
}

// New seeds a PCG source from a 128-bit value split into two 64-bit halves,
// mirroring Pcg64Mcg::new(seed) from the reference implementation.
func New(seedHi, seedLo uint64) *PCG {
	return &PCG{r: rand.New(rand.NewPCG(seedHi, seedLo))}
}

// NewFromWork seeds a source for dispatcher work item workID given the
// render's base seed (§4.10: "seed a per-task PRNG from base_seed +
// work_id").
func NewFromWork(baseSeed uint64, workID uint64) *PCG {
	return New(baseSeed+workID, workID)
}

func (p *PCG) Float32() float32 { return p.r.Float32() }

func (p *PCG) Range(lo, hi float32) float32 {
	return lo + p.r.Float32()*(hi-lo)
}

// Gauss draws a standard-normal deviate via math/rand/v2's NormFloat64, used by PSSMLT's
// small-mutation perturbation (the reference uses rand_distr::StandardNormal
// for the same purpose).
func (p *PCG) Gauss() float32 {
	return float32(p.r.NormFloat64())
}
