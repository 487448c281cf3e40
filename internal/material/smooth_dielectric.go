package material

import (
	"github.com/nthall/gopt/internal/geom"
	"github.com/nthall/gopt/internal/vec"
)

// SmoothDielectric is a perfectly smooth refractive interface: a
// Fresnel-weighted random choice between mirror reflection and Snell
// refraction, both of which are dirac-delta samples (§4.5).
type SmoothDielectric struct {
	IOR float32
}

func NewSmoothDielectric(ior float32) SmoothDielectric {
	return SmoothDielectric{IOR: ior}
}

func (m SmoothDielectric) Scatter(sect *geom.Intersection, ray *vec.Ray, rnd Rng) ScatterStatus {
	wo := ray.Dir.Neg()

	eta1, eta2 := float32(1), m.IOR
	if !sect.Out {
		eta1, eta2 = eta2, eta1
	}
	eta := eta1 / eta2
	cosi := wo.Dot(sect.Nor)

	r := FresnelDielectric(eta1, eta2, sect.Nor, wo)

	if r >= rnd.Float32() {
		wi := wo.Reflected(sect.Nor)
		origin := sect.Pos.Add(sect.Nor.Scale(0.00001))
		*ray = vec.NewRay(origin, wi)
		return StatusDiracDelta
	}

	perp := sect.Nor.Scale(cosi).Sub(wo).Scale(eta)
	para := sect.Nor.Scale(-sqrt32(absf32(1 - perp.MagSq())))
	wi := perp.Add(para)
	origin := sect.Pos.Sub(sect.Nor.Scale(0.00001))
	*ray = vec.NewRay(origin, wi)
	return StatusDiracDelta
}

func (m SmoothDielectric) Eval(sect *geom.Intersection, wo, wi vec.Vec3, status ScatterStatus) vec.Vec3 {
	return vec.One
}

func (m SmoothDielectric) Spdf(sect *geom.Intersection, wo, wi vec.Vec3) float32 { return 0 }

func (m SmoothDielectric) BxdfCos(sect *geom.Intersection, wo, wi vec.Vec3) vec.Vec3 {
	panic("material: BxdfCos called on a dirac-delta SmoothDielectric")
}

func (m SmoothDielectric) Le() vec.Vec3 { return vec.Zero }

func (m SmoothDielectric) UVIntersect(uv vec.Vec2, rnd Rng) bool { return true }

func (m SmoothDielectric) Properties() Properties { return PropertiesOnlyDiracDelta }

func (m SmoothDielectric) requiresLocalSpace() bool { return false }
