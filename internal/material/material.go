// Package material implements the tagged family of BSDF variants described
// in §4.5: every variant satisfies the same scatter/eval/spdf/bxdf_cos/le
// contract, dispatched through the Material interface (the "one interface,
// many implementations" form of the sum-type dispatch §9 allows).
package material

import (
	"math"

	"github.com/nthall/gopt/internal/frame"
	"github.com/nthall/gopt/internal/geom"
	"github.com/nthall/gopt/internal/texture"
	"github.com/nthall/gopt/internal/vec"
)

// Rng is the randomness contract every scatter/sample routine needs; it is
// the same method set as rng.Source and geom.Rng, kept as its own name here
// so this package does not need to import rng (avoiding an import cycle
// with rng's own higher-level consumers).
type Rng = geom.Rng

// ScatterStatus is a bitset of flags returned by Scatter (§4.5).
type ScatterStatus uint8

const (
	StatusNormal     ScatterStatus = 0
	StatusExit       ScatterStatus = 1
	StatusDiracDelta ScatterStatus = 1 << 1
	StatusBTDF       ScatterStatus = 1 << 2
)

// Contains reports whether all bits in other are set in s.
func (s ScatterStatus) Contains(other ScatterStatus) bool {
	return s|other == s
}

// Properties is a bitset describing static material traits that don't
// depend on a particular intersection.
type Properties uint8

const (
	PropertiesNormal          Properties = 0
	PropertiesOnlyDiracDelta  Properties = 1
)

func (p Properties) Contains(other Properties) bool {
	return p|other == p
}

// Material is the uniform contract every BSDF variant implements (§4.5).
// wo and wi both point away from the surface by convention.
type Material interface {
	Scatter(sect *geom.Intersection, ray *vec.Ray, rnd Rng) ScatterStatus
	Eval(sect *geom.Intersection, wo, wi vec.Vec3, status ScatterStatus) vec.Vec3
	Spdf(sect *geom.Intersection, wo, wi vec.Vec3) float32
	BxdfCos(sect *geom.Intersection, wo, wi vec.Vec3) vec.Vec3
	Le() vec.Vec3
	UVIntersect(uv vec.Vec2, rnd Rng) bool
	Properties() Properties
	requiresLocalSpace() bool
}

// selfIntersectEps is the self-intersection offset applied to every scatter
// (§9 design notes: "tuned empirically, on the order of 1e-5").
const selfIntersectEps = 0.00001

// ScatterAndOffset calls mat.Scatter and then applies the self-intersection
// offset along the outward (BRDF) or inward (BTDF) normal, mirroring the
// generic dispatch wrapper in the reference implementation. Some variants
// (smooth conductor, smooth/rough dielectric) also offset the ray origin
// internally during their own branch logic; that is intentional and
// preserved faithfully rather than "fixed" into a single offset site.
func ScatterAndOffset(mat Material, sect *geom.Intersection, ray *vec.Ray, rnd Rng) ScatterStatus {
	status := mat.Scatter(sect, ray, rnd)
	if status.Contains(StatusBTDF) {
		ray.Origin = ray.Origin.Sub(sect.Nor.Scale(selfIntersectEps))
	} else {
		ray.Origin = ray.Origin.Add(sect.Nor.Scale(selfIntersectEps))
	}
	return status
}

// EvalWithFrame calls mat.Eval, first transforming wo/wi into the material's
// local shading frame if it requires one (§4.5: "materials that need a
// local frame transform both before evaluation").
func EvalWithFrame(mat Material, sect *geom.Intersection, wo, wi vec.Vec3, status ScatterStatus) vec.Vec3 {
	if mat.requiresLocalSpace() {
		wo, wi = toLocalSpace(sect, wo, wi)
	}
	return mat.Eval(sect, wo, wi, status)
}

// SpdfWithFrame is the local-space-aware wrapper for Spdf, mirroring
// EvalWithFrame.
func SpdfWithFrame(mat Material, sect *geom.Intersection, wo, wi vec.Vec3) float32 {
	if mat.requiresLocalSpace() {
		wo, wi = toLocalSpace(sect, wo, wi)
	}
	return mat.Spdf(sect, wo, wi)
}

// BxdfCosWithFrame is the local-space-aware wrapper for BxdfCos, mirroring
// EvalWithFrame.
func BxdfCosWithFrame(mat Material, sect *geom.Intersection, wo, wi vec.Vec3) vec.Vec3 {
	if mat.requiresLocalSpace() {
		wo, wi = toLocalSpace(sect, wo, wi)
	}
	return mat.BxdfCos(sect, wo, wi)
}

func toLocalSpace(sect *geom.Intersection, wo, wi vec.Vec3) (vec.Vec3, vec.Vec3) {
	c := frame.NewFromZ(sect.Nor)
	return c.GlobalToLocal(wo), c.GlobalToLocal(wi)
}

// FresnelDielectric is the exact Fresnel reflectance for a dielectric
// interface, handling total internal reflection. eta1 is the outer IOR,
// eta2 the inner IOR.
func FresnelDielectric(eta1, eta2 float32, nor, wo vec.Vec3) float32 {
	eta := eta1 / eta2
	cosi := wo.Dot(nor)

	sinTSq := eta * eta * (1 - cosi*cosi)
	if sinTSq >= 1 {
		return 1
	}
	cost := sqrt32(1 - sinTSq)

	rs := (eta1*cosi - eta2*cost) / (eta1*cosi + eta2*cost)
	rp := (eta1*cost - eta2*cosi) / (eta1*cost + eta2*cosi)
	return 0.5 * (rs*rs + rp*rp)
}

// FresnelConductor is Schlick's approximation, used throughout for
// conductors since RGB rendering makes the exact complex-IOR form overkill.
func FresnelConductor(f0 vec.Vec3, cos float32) vec.Vec3 {
	oneMinusF0 := vec.One.Sub(f0)
	weight := pow5(1 - cos)
	return f0.Add(oneMinusF0.Scale(weight))
}

func pow5(x float32) float32 {
	x2 := x * x
	return x2 * x2 * x
}

func sqrt32(x float32) float32 {
	return float32(math.Sqrt(float64(x)))
}

// textureLookup is the texture type materials sample; each variant holds
// its own texture.Texture value rather than an index into the scene's
// Textures slice.
type textureLookup = texture.Texture
