package material

import (
	"github.com/nthall/gopt/internal/geom"
	"github.com/nthall/gopt/internal/vec"
)

// SmoothConductor is a perfect mirror with Schlick Fresnel reflectance.
type SmoothConductor struct {
	F0 textureLookup
}

func NewSmoothConductor(f0 textureLookup) SmoothConductor {
	return SmoothConductor{F0: f0}
}

func (m SmoothConductor) Scatter(sect *geom.Intersection, ray *vec.Ray, rnd Rng) ScatterStatus {
	wo := ray.Dir.Neg()
	wi := wo.Reflected(sect.Nor)
	origin := sect.Pos.Add(sect.Nor.Scale(0.00001))
	*ray = vec.NewRay(origin, wi)
	return StatusDiracDelta
}

func (m SmoothConductor) Eval(sect *geom.Intersection, wo, wi vec.Vec3, status ScatterStatus) vec.Vec3 {
	f0 := m.F0.UVValue(sect.UV)
	return FresnelConductor(f0, sect.Nor.Dot(wo))
}

func (m SmoothConductor) Spdf(sect *geom.Intersection, wo, wi vec.Vec3) float32 { return 0 }

func (m SmoothConductor) BxdfCos(sect *geom.Intersection, wo, wi vec.Vec3) vec.Vec3 {
	panic("material: BxdfCos called on a dirac-delta SmoothConductor")
}

func (m SmoothConductor) Le() vec.Vec3 { return vec.Zero }

func (m SmoothConductor) UVIntersect(uv vec.Vec2, rnd Rng) bool {
	return m.F0.DoesIntersect(uv, rnd)
}

func (m SmoothConductor) Properties() Properties { return PropertiesOnlyDiracDelta }

func (m SmoothConductor) requiresLocalSpace() bool { return false }
