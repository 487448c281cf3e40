package material

import (
	"math"

	"github.com/nthall/gopt/internal/frame"
	"github.com/nthall/gopt/internal/geom"
	"github.com/nthall/gopt/internal/vec"
)

const tau = 2 * math.Pi
const fracOneOverPi = 1 / math.Pi

// Lambertian is a perfect diffuse reflector: cosine-weighted hemisphere
// sampling, f = albedo/pi.
type Lambertian struct {
	Albedo textureLookup
}

func NewLambertian(albedo textureLookup) Lambertian {
	return Lambertian{Albedo: albedo}
}

func (m Lambertian) Scatter(sect *geom.Intersection, ray *vec.Ray, rnd Rng) ScatterStatus {
	dir := sampleCosineHemisphere(sect.Nor, rnd)
	*ray = vec.NewRay(sect.Pos, dir)
	return StatusNormal
}

func sampleCosineHemisphere(normal vec.Vec3, rnd Rng) vec.Vec3 {
	cosTheta := sqrt32(rnd.Float32())
	sinTheta := sqrt32(1 - cosTheta*cosTheta)
	phi := float32(tau) * rnd.Float32()
	local := vec.New(cos32(phi)*sinTheta, sin32(phi)*sinTheta, cosTheta)
	return frame.NewFromZ(normal).LocalToGlobal(local)
}

func (m Lambertian) Eval(sect *geom.Intersection, wo, wi vec.Vec3, status ScatterStatus) vec.Vec3 {
	// cosine pdf and the foreshortening weakening factor cancel exactly.
	return m.Albedo.UVValue(sect.UV)
}

func (m Lambertian) Spdf(sect *geom.Intersection, wo, wi vec.Vec3) float32 {
	return maxf(wi.Dot(sect.Nor), 0) * float32(fracOneOverPi)
}

func (m Lambertian) BxdfCos(sect *geom.Intersection, wo, wi vec.Vec3) vec.Vec3 {
	return m.Albedo.UVValue(sect.UV).Scale(maxf(wi.Dot(sect.Nor), 0) * float32(fracOneOverPi))
}

func (m Lambertian) Le() vec.Vec3 { return vec.Zero }

func (m Lambertian) UVIntersect(uv vec.Vec2, rnd Rng) bool { return true }

func (m Lambertian) Properties() Properties { return PropertiesNormal }

func (m Lambertian) requiresLocalSpace() bool { return false }

func maxf(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}

func cos32(x float32) float32 { return float32(math.Cos(float64(x))) }
func sin32(x float32) float32 { return float32(math.Sin(float64(x))) }
