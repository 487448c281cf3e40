package material

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/nthall/gopt/internal/geom"
	"github.com/nthall/gopt/internal/texture"
	"github.com/nthall/gopt/internal/vec"
)

type pcgRng struct{ r *rand.Rand }

func (p pcgRng) Float32() float32              { return p.r.Float32() }
func (p pcgRng) Range(lo, hi float32) float32  { return lo + p.r.Float32()*(hi-lo) }

func newTestRng(seed uint64) Rng {
	return pcgRng{r: rand.New(rand.NewPCG(seed, seed^0x9e3779b9))}
}

func TestScatterStatusContains(t *testing.T) {
	s := StatusNormal | StatusBTDF
	if !s.Contains(StatusBTDF) {
		t.Fatalf("expected BTDF bit set")
	}
	if s.Contains(StatusDiracDelta) {
		t.Fatalf("did not expect dirac-delta bit set")
	}
}

func TestFresnelDielectricIsBoundedAndTIR(t *testing.T) {
	nor := vec.UnitZ
	wo := vec.New(0, 0.999, 0.0447).Normalized() // near-grazing, should trigger TIR going dense->sparse
	r := FresnelDielectric(1.5, 1.0, nor, wo)
	if r < 0 || r > 1 {
		t.Fatalf("fresnel reflectance out of [0,1]: %v", r)
	}

	// straight-on incidence should give a small, well-defined reflectance.
	wo2 := vec.UnitZ
	r2 := FresnelDielectric(1.0, 1.5, nor, wo2)
	if r2 < 0 || r2 > 1 {
		t.Fatalf("fresnel reflectance out of [0,1] at normal incidence: %v", r2)
	}
}

func TestFresnelConductorAtNormalIncidenceReturnsF0(t *testing.T) {
	f0 := vec.New(0.9, 0.8, 0.7)
	got := FresnelConductor(f0, 1.0)
	if got.Sub(f0).Mag() > 1e-5 {
		t.Fatalf("expected Fresnel(cos=1) == f0, got %v want %v", got, f0)
	}
}

func TestLambertianSpdfNonNegativeAndZeroBelowHorizon(t *testing.T) {
	m := NewLambertian(texture.NewSolid(vec.New(0.5, 0.5, 0.5)))
	sect := &geom.Intersection{Nor: vec.UnitZ}
	wi := vec.UnitZ.Neg() // below the hemisphere
	if p := m.Spdf(sect, vec.UnitZ, wi); p != 0 {
		t.Fatalf("expected zero pdf below the horizon, got %v", p)
	}
	wi2 := vec.UnitZ
	if p := m.Spdf(sect, vec.UnitZ, wi2); p <= 0 {
		t.Fatalf("expected positive pdf at the normal, got %v", p)
	}
}

func TestSmoothConductorScatterIsDiracDelta(t *testing.T) {
	m := NewSmoothConductor(texture.NewSolid(vec.New(0.9, 0.9, 0.9)))
	sect := &geom.Intersection{Pos: vec.Zero, Nor: vec.UnitZ}
	// incoming from the +Z side, so the +Z normal faces the ray as intersections guarantee.
	ray := vec.NewRay(vec.New(0, 0, 1), vec.UnitZ.Neg())
	status := m.Scatter(sect, &ray, newTestRng(1))
	if !status.Contains(StatusDiracDelta) {
		t.Fatalf("expected smooth conductor scatter to be dirac-delta")
	}
	if ray.Dir.Dot(vec.UnitZ) <= 0 {
		t.Fatalf("expected mirror reflection to bounce back toward +Z, got dir %v", ray.Dir)
	}
}

func TestGGXNDFIntegratesOverHemisphereRoughly(t *testing.T) {
	// Projected area law (§8): integral of D(wm)*wm.z over the hemisphere
	// should be close to 1 for any roughness. Approximate via a coarse
	// Riemann sum over (theta, phi).
	const aSq = 0.3 * 0.3
	const nTheta, nPhi = 200, 200
	var sum float64
	for i := 0; i < nTheta; i++ {
		theta := (float64(i) + 0.5) / nTheta * (math.Pi / 2)
		dTheta := (math.Pi / 2) / nTheta
		sinT, cosT := math.Sin(theta), math.Cos(theta)
		for j := 0; j < nPhi; j++ {
			phi := (float64(j) + 0.5) / nPhi * (2 * math.Pi)
			dPhi := (2 * math.Pi) / nPhi
			wm := vec.New(float32(sinT*math.Cos(phi)), float32(sinT*math.Sin(phi)), float32(cosT))
			d := float64(ggxNDF(aSq, wm))
			sum += d * cosT * sinT * dTheta * dPhi
		}
	}
	if sum < 0.9 || sum > 1.1 {
		t.Fatalf("GGX NDF projected-area integral far from 1: got %v", sum)
	}
}
