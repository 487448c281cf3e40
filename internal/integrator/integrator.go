// Package integrator implements the two path-tracing estimators described
// in §4.8: a naive unidirectional path tracer, and a next-event-estimation
// path tracer with multiple importance sampling (power heuristic).
package integrator

import (
	"github.com/nthall/gopt/internal/logx"
	"github.com/nthall/gopt/internal/material"
	"github.com/nthall/gopt/internal/rng"
	"github.com/nthall/gopt/internal/scene"
	"github.com/nthall/gopt/internal/vec"
)

const (
	maxDepth                = 50
	russianRouletteThreshold = 15
)

// PowerHeuristic is the two-sample power heuristic (beta=2) used to
// combine light-sampling and BSDF-sampling PDFs in NEEMIS.
func PowerHeuristic(pdfA, pdfB float32) float32 {
	aSq := pdfA * pdfA
	return aSq / (aSq + pdfB*pdfB)
}

// Naive traces ray with plain unidirectional path tracing: every bounce
// only relies on BSDF sampling, and emitted radiance is only gathered by
// landing on a light by chance. Returns the estimated radiance and the
// number of rays traced.
func Naive(s *scene.Scene, ray vec.Ray, rnd rng.Source) (vec.Vec3, uint64) {
	tp, rgb := vec.One, vec.Zero
	var depth uint64
	var rayCount uint64

	for depth < maxDepth {
		depth++
		rayCount++

		sect := s.GetIntersection(ray, rnd)
		if sect.IsNone() {
			rgb = rgb.Add(tp.Hadamard(s.Env.SampleDir(ray.Dir)))
			break
		}

		mat := s.Materials[sect.Mat]
		wo := ray.Dir.Neg()

		rgb = rgb.Add(mat.Le().Hadamard(tp))

		status := material.ScatterAndOffset(mat, &sect, &ray, rnd)
		if status.Contains(material.StatusExit) {
			break
		}

		tp = tp.Hadamard(material.EvalWithFrame(mat, &sect, wo, ray.Dir, status))
		if tp.ContainsNaN() {
			logx.Trace("integrator: NaN throughput, sample contributes zero")
			return vec.Zero, rayCount
		}

		if depth > russianRouletteThreshold {
			p := tp.ComponentMax()
			if rnd.Float32() > p {
				break
			}
			tp = tp.Scale(1 / p)
		}
	}

	if rgb.ContainsNaN() {
		logx.Trace("integrator: NaN radiance, sample contributes zero")
		return vec.Zero, 0
	}
	return rgb, rayCount
}

// NEEMIS traces ray with next-event estimation and multiple importance
// sampling between light sampling and BSDF sampling, falling back to
// Naive when the scene has no samplable (emissive) triangles.
func NEEMIS(s *scene.Scene, ray vec.Ray, rnd rng.Source) (vec.Vec3, uint64) {
	if len(s.Samplable) == 0 {
		return Naive(s, ray, rnd)
	}
	inverseSamplable := 1 / float32(len(s.Samplable))

	tp := vec.One
	var rayCount uint64 = 1

	sect := s.GetIntersection(ray, rnd)
	if sect.IsNone() {
		return s.Env.SampleDir(ray.Dir), rayCount
	}

	mat := s.Materials[sect.Mat]
	rgb := mat.Le()

	if _, ok := mat.(material.Light); ok {
		return rgb, 1
	}

	wo := ray.Dir.Neg()

	for depth := uint64(1); depth < maxDepth; depth++ {
		// Light sampling: pick a uniformly-random samplable triangle and a
		// uniformly-random point on it, then test visibility.
		lightIdx := s.Samplable[int(rnd.Range(0, float32(len(s.Samplable))))]
		light := s.Triangles[lightIdx]
		lightMat := s.Materials[light.Mat]

		lightRay, lightLe := light.SampleRay(sect, s.Vertices, s.Normals, lightMat.Le(), rnd)

		rayCount++
		lightSect := s.IntersectIdx(lightRay, lightIdx, rnd)
		if !lightSect.IsNone() && !mat.Properties().Contains(material.PropertiesOnlyDiracDelta) {
			lightPdf := light.PDF(lightSect, lightRay, s.Vertices) * inverseSamplable
			lightBsdfPdf := material.SpdfWithFrame(mat, &sect, wo, lightRay.Dir)
			if lightBsdfPdf != 0 && lightPdf != 0 {
				weight := PowerHeuristic(lightPdf, lightBsdfPdf)
				contrib := material.BxdfCosWithFrame(mat, &sect, wo, lightRay.Dir).Hadamard(lightLe).Scale(weight / lightPdf)
				rgb = rgb.Add(tp.Hadamard(contrib))
			}
		}

		// BSDF sampling: scatter and continue the path.
		status := material.ScatterAndOffset(mat, &sect, &ray, rnd)
		if status.Contains(material.StatusExit) {
			break
		}

		tp = tp.Hadamard(material.EvalWithFrame(mat, &sect, wo, ray.Dir, status))

		rayCount++
		newSect := s.GetIntersection(ray, rnd)
		if newSect.IsNone() {
			rgb = rgb.Add(tp.Hadamard(s.Env.SampleDir(ray.Dir)))
			break
		}

		newMat := s.Materials[newSect.Mat]

		if isSamplable(s.Samplable, newSect.ID) && !status.Contains(material.StatusDiracDelta) {
			bsdfPdf := material.SpdfWithFrame(mat, &sect, wo, ray.Dir)
			bsdfLightPdf := s.Triangles[newSect.ID].PDF(newSect, ray, s.Vertices) * inverseSamplable
			weight := PowerHeuristic(bsdfPdf, bsdfLightPdf)
			rgb = rgb.Add(tp.Hadamard(newMat.Le()).Scale(weight))
		} else {
			rgb = rgb.Add(tp.Hadamard(newMat.Le()))
		}

		if _, ok := newMat.(material.Light); ok {
			break
		}

		sect = newSect
		mat = newMat
		wo = ray.Dir.Neg()

		if depth > russianRouletteThreshold {
			p := tp.ComponentMax()
			if rnd.Float32() > p {
				break
			}
			tp = tp.Scale(1 / p)
		}
	}

	if rgb.ContainsNaN() {
		logx.Trace("integrator: NaN radiance, sample contributes zero")
		return vec.Zero, 0
	}
	return rgb, rayCount
}

func isSamplable(samplable []int, id int) bool {
	for _, s := range samplable {
		if s == id {
			return true
		}
	}
	return false
}
