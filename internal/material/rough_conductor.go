package material

import (
	"github.com/nthall/gopt/internal/frame"
	"github.com/nthall/gopt/internal/geom"
	"github.com/nthall/gopt/internal/vec"
)

// RoughConductor is a GGX microfacet conductor sampled via Heitz (2018)'s
// visible normal distribution function, with Schlick Fresnel from a
// texture-driven F0 (§4.5).
type RoughConductor struct {
	Roughness textureLookup
	F0        textureLookup
}

func NewRoughConductor(roughness, f0 textureLookup) RoughConductor {
	return RoughConductor{Roughness: roughness, F0: f0}
}

func (m RoughConductor) getA(sect *geom.Intersection) float32 {
	a := m.Roughness.UVValue(sect.UV).Y
	if a < 0.0001 {
		return 0.0001
	}
	return a
}

func (m RoughConductor) Scatter(sect *geom.Intersection, ray *vec.Ray, rnd Rng) ScatterStatus {
	wo := ray.Dir.Neg()
	wi := m.sample(sect, wo, rnd)
	*ray = vec.NewRay(sect.Pos, wi)
	return StatusNormal
}

func (m RoughConductor) sample(sect *geom.Intersection, wo vec.Vec3, rnd Rng) vec.Vec3 {
	a := m.getA(sect)
	coord := frame.NewFromZ(sect.Nor)
	localWo := coord.GlobalToLocal(wo)
	wm := sampleVNDFLocal(a, localWo, rnd)
	wi := localWo.Reflected(wm)
	return coord.LocalToGlobal(wi).Normalized()
}

func (m RoughConductor) Eval(sect *geom.Intersection, wo, wi vec.Vec3, status ScatterStatus) vec.Vec3 {
	a := m.getA(sect)
	aSq := a * a
	wm := wo.Add(wi).Normalized()

	f0 := m.F0.UVValue(sect.UV)
	f := FresnelConductor(f0, wm.Dot(wo))

	g2 := ggxG2(aSq, wo, wi, wm)
	g1 := ggxG1(aSq, wo, wm)
	if g1 == 0 {
		return vec.Zero
	}
	return f.Scale(g2 / g1)
}

func (m RoughConductor) BxdfCos(sect *geom.Intersection, wo, wi vec.Vec3) vec.Vec3 {
	aSq := m.getA(sect)
	aSq *= aSq
	f0 := m.F0.UVValue(sect.UV)
	wm := wo.Add(wi).Normalized()
	f := FresnelConductor(f0, wm.Dot(wo))
	return f.Scale(ggxNDF(aSq, wm) * ggxG2(aSq, wo, wi, wm) / (4 * wo.Z))
}

func (m RoughConductor) Spdf(sect *geom.Intersection, wo, wi vec.Vec3) float32 {
	a := m.getA(sect)
	wm := wo.Add(wi).Normalized()
	if wm.Z < 0 {
		wm = wm.Neg()
	}
	return ggxVNDF(a*a, wm, wo) / (4 * wo.Dot(wm))
}

func (m RoughConductor) Le() vec.Vec3 { return vec.Zero }

func (m RoughConductor) UVIntersect(uv vec.Vec2, rnd Rng) bool {
	return m.F0.DoesIntersect(uv, rnd)
}

func (m RoughConductor) Properties() Properties { return PropertiesNormal }

func (m RoughConductor) requiresLocalSpace() bool { return true }

// --- GGX VNDF helpers shared with RoughDielectric ---

// sampleVNDFLocal importance-samples a microfacet normal in local shading
// space, local to the normal z = (0,0,1), per Heitz (2018).
func sampleVNDFLocal(a float32, inW vec.Vec3, rnd Rng) vec.Vec3 {
	stretched := vec.New(a*inW.X, a*inW.Y, inW.Z).Normalized()
	p := sampleVNDFHemisphere(stretched, rnd)
	return vec.New(p.X*a, p.Y*a, p.Z).Normalized()
}

func sampleVNDFHemisphere(inWHemi vec.Vec3, rnd Rng) vec.Vec3 {
	phi := float32(tau) * rnd.Float32()
	z := (1-rnd.Float32())*(1+inWHemi.Z) - inWHemi.Z
	sinTheta := clamp01(1 - z*z)
	sinTheta = sqrt32(sinTheta)
	c := vec.New(sinTheta*cos32(phi), sinTheta*sin32(phi), z)
	return c.Add(inWHemi)
}

func clamp01(x float32) float32 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}

// ggxVNDF is the visible normal distribution function; a valid PDF over
// microfacet normals as seen from wo.
func ggxVNDF(aSq float32, wm, wo vec.Vec3) float32 {
	if wm.Z < 0 {
		return 0
	}
	return ggxG1(aSq, wo, wm) * maxf(wo.Dot(wm), 0) * ggxNDF(aSq, wm) / absf32(wo.Z)
}

// ggxNDF is the GGX normal distribution function.
func ggxNDF(aSq float32, wm vec.Vec3) float32 {
	if wm.Z <= 0 {
		return 0
	}
	tmp := wm.Z*wm.Z*(aSq-1) + 1
	return aSq * float32(fracOneOverPi) / (tmp * tmp)
}

func ggxLambda(aSq float32, w vec.Vec3) float32 {
	lambda := aSq * (w.X*w.X + w.Y*w.Y) / (w.Z * w.Z)
	out := 0.5 * (sqrt32(1+lambda) - 1)
	if out < 0 {
		return 0
	}
	return out
}

func ggxG1(aSq float32, w, wm vec.Vec3) float32 {
	if w.Dot(wm)*wm.Z <= 0 {
		return 0
	}
	return 1 / (1 + ggxLambda(aSq, w))
}

// ggxG2 is the height-correlated Smith masking-shadowing term (Heitz 2014).
func ggxG2(aSq float32, wa, wb, wm vec.Vec3) float32 {
	out := float32(1) / (1 + ggxLambda(aSq, wa) + ggxLambda(aSq, wb))
	if wa.Dot(wm)*wa.Z <= 0 || wb.Dot(wm)*wb.Z <= 0 {
		return 0
	}
	return out
}

func absf32(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}
