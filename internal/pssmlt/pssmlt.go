// Package pssmlt implements the primary-sample-space mutation machine for
// Metropolis light transport (§12, optional PSSMLT state described in
// §2's component table). A PssState wraps an inner uniform RNG and
// replaces each requested random number with a lazily-mutated coordinate
// of the current sample vector, so it can itself be used anywhere an
// rng.Source is expected.
package pssmlt

import "math"

// sample is one coordinate of the primary sample space state vector: its
// current value, a backup to roll back to on rejection, and the
// iteration indices at which each was last written.
type sample struct {
	value       float32
	backupValue float32
	modifiedIdx uint64
	backupIdx   uint64
}

func (s *sample) backup() {
	s.backupValue = s.value
	s.backupIdx = s.modifiedIdx
}

func (s *sample) restore() {
	s.value = s.backupValue
	s.modifiedIdx = s.backupIdx
}

const (
	largeProb  = 0.1
	smallStdev = 0.3
)

// innerRng is the minimal uniform source PssState mutates from: a
// uniform float in [0,1) and a standard-normal deviate.
type innerRng interface {
	Float32() float32
	Gauss() float32
}

// PssState is a lazily-mutated primary-sample-space coordinate vector.
// Only coordinates actually requested via Float32 are ever materialized,
// matching the reference's lazy ensure_ready.
type PssState struct {
	iteration       uint64
	lastLargeIdx    uint64
	state           []sample
	rng             innerRng
	isLargeMutation bool
	stateIdx        int
}

// New wraps rng in a fresh PSSMLT mutation state. The 0th iteration is
// treated as a large mutation so ensure_ready never reads an
// uninitialized modifiedIdx comparison.
func New(rng innerRng) *PssState {
	return &PssState{rng: rng, isLargeMutation: true}
}

// StartIteration begins a new mutation attempt: rolls whether it is a
// large (uniform resample) or small (Gaussian perturbation) mutation at
// a roughly 1:9 ratio, and rewinds the state cursor to the first
// coordinate.
func (p *PssState) StartIteration() {
	p.iteration++
	p.isLargeMutation = p.rng.Float32() < largeProb
	p.stateIdx = 0
}

// Accept commits the current iteration's mutation: if it was large,
// future small mutations measure their accumulated perturbation from
// this iteration onward.
func (p *PssState) Accept() {
	if p.isLargeMutation {
		p.lastLargeIdx = p.iteration
	}
}

// Reject rolls back every touched coordinate to its pre-mutation value
// and rewinds the iteration counter, so the next StartIteration retries
// from the last accepted state.
func (p *PssState) Reject() {
	for i := range p.state {
		if p.state[i].modifiedIdx == p.iteration {
			p.state[i].restore()
		}
	}
	p.iteration--
}

func (p *PssState) ensureReady() {
	if p.stateIdx >= len(p.state) {
		p.state = append(p.state, sample{})
	}
	s := &p.state[p.stateIdx]

	if s.modifiedIdx < p.lastLargeIdx {
		s.value = p.rng.Float32()
	}

	s.backup()
	if p.isLargeMutation {
		s.value = p.rng.Float32()
	} else {
		smallMutations := p.iteration - p.lastLargeIdx
		effStd := smallStdev * float32(math.Sqrt(float64(smallMutations)))
		norSample := p.rng.Gauss()

		s.value += norSample * effStd
		s.value -= float32(math.Floor(float64(s.value)))
	}
	s.modifiedIdx = p.iteration
}

// GenUnif returns the current iteration's value for the next state
// vector coordinate, mutating it into existence if this is the first
// time it has been requested this run.
func (p *PssState) GenUnif() float32 {
	p.ensureReady()
	v := p.state[p.stateIdx].value
	p.stateIdx++
	return v
}

// Float32 satisfies rng.Source by delegating to GenUnif, letting a
// PssState stand in anywhere a uniform RNG is expected.
func (p *PssState) Float32() float32 { return p.GenUnif() }

// Range satisfies rng.Source: a uniform value in [lo, hi) driven by the
// next mutated state-vector coordinate.
func (p *PssState) Range(lo, hi float32) float32 {
	return (hi-lo)*p.GenUnif() + lo
}
