package material

import (
	"github.com/nthall/gopt/internal/geom"
	"github.com/nthall/gopt/internal/vec"
)

// Light is an emissive, non-scattering surface: any scatter exits the path
// immediately (§4.5).
type Light struct {
	Irradiance vec.Vec3
}

func NewLight(irradiance vec.Vec3) Light {
	return Light{Irradiance: irradiance}
}

func (m Light) Scatter(sect *geom.Intersection, ray *vec.Ray, rnd Rng) ScatterStatus {
	return StatusExit
}

func (m Light) Eval(sect *geom.Intersection, wo, wi vec.Vec3, status ScatterStatus) vec.Vec3 {
	panic("material: Eval called on a Light material")
}

func (m Light) Spdf(sect *geom.Intersection, wo, wi vec.Vec3) float32 { return 0 }

func (m Light) BxdfCos(sect *geom.Intersection, wo, wi vec.Vec3) vec.Vec3 {
	panic("material: BxdfCos called on a Light material")
}

func (m Light) Le() vec.Vec3 { return m.Irradiance }

func (m Light) UVIntersect(uv vec.Vec2, rnd Rng) bool { return true }

func (m Light) Properties() Properties { return PropertiesNormal }

func (m Light) requiresLocalSpace() bool { return false }

// Invisible is transparent to both geometry and MIS: the ray continues
// straight through, offset to just inside the surface, and primary
// intersection rejects it outright via UVIntersect (§4.5).
type Invisible struct{}

func (m Invisible) Scatter(sect *geom.Intersection, ray *vec.Ray, rnd Rng) ScatterStatus {
	*ray = vec.NewRay(sect.Pos, ray.Dir)
	return StatusNormal | StatusBTDF
}

func (m Invisible) Eval(sect *geom.Intersection, wo, wi vec.Vec3, status ScatterStatus) vec.Vec3 {
	panic("material: Eval called on an Invisible material")
}

func (m Invisible) Spdf(sect *geom.Intersection, wo, wi vec.Vec3) float32 {
	panic("material: Spdf called on an Invisible material")
}

func (m Invisible) BxdfCos(sect *geom.Intersection, wo, wi vec.Vec3) vec.Vec3 {
	panic("material: BxdfCos called on an Invisible material")
}

func (m Invisible) Le() vec.Vec3 { return vec.Zero }

func (m Invisible) UVIntersect(uv vec.Vec2, rnd Rng) bool { return false }

func (m Invisible) Properties() Properties { return PropertiesNormal }

func (m Invisible) requiresLocalSpace() bool { return false }
