package material

import (
	"github.com/nthall/gopt/internal/frame"
	"github.com/nthall/gopt/internal/geom"
	"github.com/nthall/gopt/internal/vec"
)

// RoughDielectric is a microfacet reflective/refractive interface: a
// half-vector is importance-sampled from the GGX VNDF, then a
// Fresnel-weighted coin flip picks reflection or refraction about it
// (Walter 2007).
type RoughDielectric struct {
	Roughness textureLookup
	IOR       float32
}

func NewRoughDielectric(roughness textureLookup, ior float32) RoughDielectric {
	return RoughDielectric{Roughness: roughness, IOR: ior}
}

func (m RoughDielectric) getA(sect *geom.Intersection) float32 {
	a := m.Roughness.UVValue(sect.UV).Y
	if a < 0.0001 {
		return 0.0001
	}
	return a
}

func (m RoughDielectric) etas(sect *geom.Intersection) (float32, float32) {
	eta1, eta2 := float32(1), m.IOR
	if !sect.Out {
		eta1, eta2 = eta2, eta1
	}
	return eta1, eta2
}

func (m RoughDielectric) Scatter(sect *geom.Intersection, ray *vec.Ray, rnd Rng) ScatterStatus {
	wo := ray.Dir.Neg()
	a := m.getA(sect)

	coord := frame.NewFromZ(sect.Nor)
	localWo := coord.GlobalToLocal(wo)
	wm := sampleVNDFLocal(a, localWo, rnd)

	eta1, eta2 := m.etas(sect)
	eta := eta1 / eta2
	cosi := wm.Dot(localWo)

	f := FresnelDielectric(1, m.IOR, wm, localWo)

	if f >= rnd.Float32() {
		wi := localWo.Reflected(wm)
		origin := sect.Pos.Add(sect.Nor.Scale(0.00001))
		*ray = vec.NewRay(origin, coord.LocalToGlobal(wi).Normalized())
		return StatusNormal
	}

	perp := wm.Scale(cosi).Sub(localWo).Scale(eta)
	para := wm.Scale(-sqrt32(absf32(1 - perp.MagSq())))
	wi := perp.Add(para)
	origin := sect.Pos.Sub(sect.Nor.Scale(0.00001))
	*ray = vec.NewRay(origin, coord.LocalToGlobal(wi).Normalized())
	return StatusNormal
}

func (m RoughDielectric) Eval(sect *geom.Intersection, wo, wi vec.Vec3, status ScatterStatus) vec.Vec3 {
	pdf := m.Spdf(sect, wo, wi)
	bxdfCos := m.BxdfCos(sect, wo, wi)
	if pdf == 0 {
		return vec.Zero
	}
	return bxdfCos.Scale(1 / pdf)
}

func (m RoughDielectric) BxdfCos(sect *geom.Intersection, wo, wi vec.Vec3) vec.Vec3 {
	aSq := m.getA(sect)
	aSq *= aSq
	eta1, eta2 := m.etas(sect)

	refraction := wo.Z*wi.Z < 0

	var wm vec.Vec3
	if refraction {
		wm = wi.Scale(eta2).Add(wo.Scale(eta1)).Normalized()
		wm = wm.Scale(signum(wm.Z))
	} else {
		wm = wo.Add(wi).Normalized()
	}

	if wm.Dot(wi)*wi.Z < 0 || wm.Dot(wo)*wo.Z < 0 {
		return vec.Zero
	}

	f := FresnelDielectric(eta1, eta2, wm, wo)
	eta := eta1 / eta2
	sumDot := wm.Dot(wi) + wm.Dot(wo)
	denom := (sumDot / eta) * (sumDot / eta)

	if refraction {
		v := (1 - f) * ggxNDF(aSq, wm) * ggxG2(aSq, wo, wi, wm) / denom *
			absf32(wi.Dot(wm) * wo.Dot(wm) / wo.Z)
		return vec.Splat(v)
	}

	v := f * ggxNDF(aSq, wm) * ggxG2(aSq, wo, wi, wm) / (4 * wo.Z)
	return vec.Splat(v)
}

func (m RoughDielectric) Spdf(sect *geom.Intersection, wo, wi vec.Vec3) float32 {
	a := m.getA(sect)
	eta1, eta2 := m.etas(sect)
	eta := eta1 / eta2

	var ret float32

	wRef := wi.Add(wo).Normalized()
	if wRef.Z > 0 && !(wRef.Dot(wi)*wi.Z < 0 || wRef.Dot(wo)*wo.Z < 0) {
		ret += FresnelDielectric(eta1, eta2, wRef, wo) * ggxVNDF(a*a, wRef, wo) / (4 * wo.Dot(wRef))
	}

	wRef = wi.Scale(eta2).Add(wo.Scale(eta1)).Normalized()
	if wRef.Z > 0 && !(wRef.Dot(wi)*wi.Z < 0 || wRef.Dot(wo)*wo.Z < 0) {
		sumDot := wRef.Dot(wi) + wRef.Dot(wo)
		denom := (sumDot / eta) * (sumDot / eta)
		ret += (1 - FresnelDielectric(eta1, eta2, wRef, wo)) * ggxVNDF(a*a, wRef, wo) * absf32(wo.Dot(wRef)) / denom
	}

	return ret
}

func (m RoughDielectric) Le() vec.Vec3 { return vec.Zero }

func (m RoughDielectric) UVIntersect(uv vec.Vec2, rnd Rng) bool { return true }

func (m RoughDielectric) Properties() Properties { return PropertiesNormal }

func (m RoughDielectric) requiresLocalSpace() bool { return true }

func signum(x float32) float32 {
	if x > 0 {
		return 1
	}
	if x < 0 {
		return -1
	}
	return 0
}
