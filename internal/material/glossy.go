package material

import (
	"math"

	"github.com/nthall/gopt/internal/frame"
	"github.com/nthall/gopt/internal/geom"
	"github.com/nthall/gopt/internal/vec"
)

// Glossy is a smooth dielectric top coat over a Lambertian base: a
// precomputed average internal reflectance (closed form in the refractive
// index) accounts for multiple internal bounces between the coat and the
// base without simulating them (§4.5, "Smooth-dielectric-Lambertian").
type Glossy struct {
	IOR       float32
	Albedo    textureLookup
	etaSq     float32
	riAverage float32
}

// NewGlossy precomputes etaSq and the average internal reflectance the way
// SmoothDielectricLambertian::new_raw does.
func NewGlossy(ior float32, albedo textureLookup) Glossy {
	ni := float64(ior)
	ni2 := ni * ni
	ni4 := ni2 * ni2

	reAverage := 0.5 +
		((ni-1)*(3*ni+1))/(6*(ni+1)*(ni+1)) +
		(ni2*(ni2-1)*(ni2-1))/((ni2+1)*(ni2+1)*(ni2+1))*math.Log((ni-1)/(ni+1)) -
		(2*ni2*ni*(ni2+2*ni-1))/((ni2+1)*(ni4-1)) +
		(8*ni4*(ni4+1))/((ni2+1)*(ni4-1)*(ni4-1))*math.Log(ni)

	riAverage := 1 - (1/ni2)*(1-reAverage)
	if math.Abs(ni-1) < 0.000001 {
		riAverage = 0
	}

	return Glossy{
		IOR:       ior,
		Albedo:    albedo,
		etaSq:     float32(1 / (ni * ni)),
		riAverage: float32(riAverage),
	}
}

func (m Glossy) getAlbedo(sect *geom.Intersection) vec.Vec3 {
	return m.Albedo.UVValue(sect.UV)
}

func (m Glossy) Scatter(sect *geom.Intersection, ray *vec.Ray, rnd Rng) ScatterStatus {
	wo := ray.Dir.Neg()
	r := FresnelDielectric(1, m.IOR, sect.Nor, wo)

	if rnd.Float32() > r {
		cosTheta := sqrt32(rnd.Float32())
		sinTheta := sqrt32(1 - cosTheta*cosTheta)
		phi := float32(tau) * rnd.Float32()
		localWi := vec.New(cos32(phi)*sinTheta, sin32(phi)*sinTheta, cosTheta)
		wi := frame.NewFromZ(sect.Nor).LocalToGlobal(localWi)
		*ray = vec.NewRay(sect.Pos, wi)
		return StatusNormal
	}

	wi := wo.Reflected(sect.Nor)
	*ray = vec.NewRay(sect.Pos, wi)
	return StatusDiracDelta
}

// BxdfCos mirrors SmoothDielectricLambertian::bxdf_cos. NEE calls it for
// light-sampled directions; it covers the diffuse base only, not the
// dirac-delta mirror lobe.
func (m Glossy) BxdfCos(sect *geom.Intersection, wo, wi vec.Vec3) vec.Vec3 {
	fi := FresnelDielectric(1, m.IOR, sect.Nor, wo)
	fo := FresnelDielectric(1, m.IOR, sect.Nor, wi)
	a := m.getAlbedo(sect)

	num := a.Scale(m.etaSq * (1 - fi) * float32(fracOneOverPi) * (1 - fo) * maxf(wi.Dot(sect.Nor), 0))
	denom := vec.One.Sub(a.Scale(m.riAverage))
	return num.Div(denom)
}

func (m Glossy) Spdf(sect *geom.Intersection, wo, wi vec.Vec3) float32 {
	fi := FresnelDielectric(1, m.IOR, sect.Nor, wo)
	return (1 - fi) * maxf(wi.Dot(sect.Nor), 0) * float32(fracOneOverPi)
}

// Eval mirrors SmoothDielectricLambertian::eval, which (per the reference
// dispatch) only evaluates the Fresnel term at wi, not wo.
func (m Glossy) Eval(sect *geom.Intersection, wo, wi vec.Vec3, status ScatterStatus) vec.Vec3 {
	if status.Contains(StatusDiracDelta) {
		return vec.One
	}
	a := m.getAlbedo(sect)
	fo := FresnelDielectric(1, m.IOR, sect.Nor, wi)
	denom := vec.One.Sub(a.Scale(m.riAverage))
	return a.Scale(m.etaSq * (1 - fo)).Div(denom)
}

func (m Glossy) Le() vec.Vec3 { return vec.Zero }

func (m Glossy) UVIntersect(uv vec.Vec2, rnd Rng) bool { return true }

func (m Glossy) Properties() Properties { return PropertiesNormal }

func (m Glossy) requiresLocalSpace() bool { return false }
