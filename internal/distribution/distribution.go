// Package distribution implements a 1-D piecewise-constant distribution:
// build a normalized CDF from a set of non-negative weights, then draw a
// bucket index proportional to its weight (the selection a PSSMLT
// bootstrap phase uses to pick a starting seed; the pssmlt package has no
// bootstrap phase and does not call this package).
package distribution

import "sort"

// Distribution1D is a normalized CDF/PDF pair over n buckets plus the
// original (pre-normalization) integral of the input values.
type Distribution1D struct {
	PDF     []float32
	CDF     []float32
	FuncInt float32
}

// New builds a distribution over values, which must be non-empty. A
// funcInt of zero (all-zero input) leaves the CDF unnormalized, matching
// the reference's guard against dividing by zero.
func New(values []float32) Distribution1D {
	if len(values) == 0 {
		panic("distribution: New called with an empty slice")
	}
	n := len(values)
	intervals := make([]float32, n+1)
	for i := 1; i <= n; i++ {
		intervals[i] = intervals[i-1] + values[i-1]
	}

	funcInt := intervals[n]
	if funcInt != 0 {
		for i := range intervals {
			intervals[i] /= funcInt
		}
	}

	pdf := make([]float32, n)
	last := float32(0)
	for i := 1; i <= n; i++ {
		pdf[i-1] = intervals[i] - last
		last = intervals[i]
	}

	return Distribution1D{PDF: pdf, CDF: intervals, FuncInt: funcInt}
}

// SampleNaive draws a bucket index via a linear scan of the CDF; kept as
// a test oracle for Sample's binary search.
func (d Distribution1D) SampleNaive(u float32) int {
	for i, v := range d.CDF {
		if v > u {
			return i - 1
		}
	}
	panic("distribution: sample_naive found no CDF bucket > u; u out of [0,1)?")
}

// Sample draws a bucket index proportional to its weight via binary
// search over the CDF, given a uniform sample u in [0, 1).
func (d Distribution1D) Sample(u float32) int {
	first := sort.Search(len(d.CDF), func(i int) bool { return d.CDF[i] > u })
	idx := first - 1
	if idx < 0 {
		idx = 0
	}
	if max := len(d.CDF) - 2; idx > max {
		idx = max
	}
	return idx
}
