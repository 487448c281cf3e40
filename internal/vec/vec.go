// Package vec implements the fixed-size vector and ray primitives shared by
// every geometry, material, and integrator package in gopt.
package vec

import "math"

// Vec3 is a 3-component vector used for positions, directions, and RGB
// radiance alike.
type Vec3 struct {
	X, Y, Z float32
}

var (
	Zero = Vec3{0, 0, 0}
	One  = Vec3{1, 1, 1}
	UnitX = Vec3{1, 0, 0}
	UnitY = Vec3{0, 1, 0}
	UnitZ = Vec3{0, 0, 1}
)

func New(x, y, z float32) Vec3 { return Vec3{x, y, z} }

func Splat(v float32) Vec3 { return Vec3{v, v, v} }

func (v Vec3) Add(o Vec3) Vec3 { return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z} }
func (v Vec3) Sub(o Vec3) Vec3 { return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z} }
func (v Vec3) Mul(o Vec3) Vec3 { return Vec3{v.X * o.X, v.Y * o.Y, v.Z * o.Z} }
func (v Vec3) Div(o Vec3) Vec3 { return Vec3{v.X / o.X, v.Y / o.Y, v.Z / o.Z} }

func (v Vec3) Scale(s float32) Vec3 { return Vec3{v.X * s, v.Y * s, v.Z * s} }
func (v Vec3) AddS(s float32) Vec3  { return Vec3{v.X + s, v.Y + s, v.Z + s} }

func (v Vec3) Neg() Vec3 { return Vec3{-v.X, -v.Y, -v.Z} }

// Hadamard is an explicit alias for Mul, matching the component-wise product
// name used throughout the material package's BSDF algebra.
func (v Vec3) Hadamard(o Vec3) Vec3 { return v.Mul(o) }

func (v Vec3) Dot(o Vec3) float32 { return v.X*o.X + v.Y*o.Y + v.Z*o.Z }

func (v Vec3) Cross(o Vec3) Vec3 {
	return Vec3{
		v.Y*o.Z - v.Z*o.Y,
		v.Z*o.X - v.X*o.Z,
		v.X*o.Y - v.Y*o.X,
	}
}

func (v Vec3) MagSq() float32 { return v.Dot(v) }
func (v Vec3) Mag() float32   { return float32(math.Sqrt(float64(v.MagSq()))) }

func (v Vec3) Normalized() Vec3 {
	m := v.Mag()
	if m == 0 {
		return v
	}
	return v.Scale(1 / m)
}

func (v Vec3) Abs() Vec3 {
	return Vec3{absf(v.X), absf(v.Y), absf(v.Z)}
}

// Reflected reflects v (pointing away from the surface) about normal.
func (v Vec3) Reflected(normal Vec3) Vec3 {
	return normal.Scale(2 * v.Dot(normal)).Sub(v)
}

func (v Vec3) ComponentMin() float32 { return minf(v.X, minf(v.Y, v.Z)) }
func (v Vec3) ComponentMax() float32 { return maxf(v.X, maxf(v.Y, v.Z)) }

func MinByComponent(a, b Vec3) Vec3 {
	return Vec3{minf(a.X, b.X), minf(a.Y, b.Y), minf(a.Z, b.Z)}
}

func MaxByComponent(a, b Vec3) Vec3 {
	return Vec3{maxf(a.X, b.X), maxf(a.Y, b.Y), maxf(a.Z, b.Z)}
}

func (v Vec3) ContainsNaN() bool {
	return math.IsNaN(float64(v.X)) || math.IsNaN(float64(v.Y)) || math.IsNaN(float64(v.Z))
}

func (v Vec3) IsFinite() bool {
	return !math.IsInf(float64(v.X), 0) && !math.IsInf(float64(v.Y), 0) && !math.IsInf(float64(v.Z), 0) &&
		!v.ContainsNaN()
}

// Zyx and Xzy are the axis-swizzles used by the watertight triangle
// intersection test to permute coordinates around the ray's dominant axis.
func (v Vec3) Zyx() Vec3 { return Vec3{v.Z, v.Y, v.X} }
func (v Vec3) Xzy() Vec3 { return Vec3{v.X, v.Z, v.Y} }
func (v Vec3) Yxz() Vec3 { return Vec3{v.Y, v.X, v.Z} }

// At returns the component at index 0, 1, 2 (x, y, z). It panics on an
// out-of-range index, mirroring an unreachable branch in indexed access.
func (v Vec3) At(i int) float32 {
	switch i {
	case 0:
		return v.X
	case 1:
		return v.Y
	case 2:
		return v.Z
	default:
		panic("vec3: index out of range")
	}
}

// MaxAxis returns the index (0, 1, 2) of v's largest component, used to pick
// a BVH split axis.
func MaxAxis(v Vec3) int {
	if v.X > v.Y && v.X > v.Z {
		return 0
	}
	if v.Y > v.Z {
		return 1
	}
	return 2
}

// Gamma is the conservative floating-point error bound from Woop's
// watertight intersection paper. The triangle test's degenerate-edge
// fallback recomputes in float64 and does not call it.
func Gamma(n int) float32 {
	nm := float32(n) * 0.5 * float32EPSILON
	return nm / (1 - nm)
}

const float32EPSILON = 1.1920929e-7

// Vec2 is a 2-component vector, used for UV coordinates and film pixel
// offsets.
type Vec2 struct {
	X, Y float32
}

func NewV2(x, y float32) Vec2 { return Vec2{x, y} }

func (v Vec2) Add(o Vec2) Vec2 { return Vec2{v.X + o.X, v.Y + o.Y} }
func (v Vec2) Sub(o Vec2) Vec2 { return Vec2{v.X - o.X, v.Y - o.Y} }
func (v Vec2) Scale(s float32) Vec2 { return Vec2{v.X * s, v.Y * s} }
func (v Vec2) Dot(o Vec2) float32   { return v.X*o.X + v.Y*o.Y }

func absf(a float32) float32 {
	if a < 0 {
		return -a
	}
	return a
}

func minf(a, b float32) float32 {
	if a < b {
		return a
	}
	return b
}

func maxf(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}

// Ray is a parametric ray with a pre-normalized direction and its
// component-wise reciprocal, cached the way the slab AABB test wants it.
type Ray struct {
	Origin Vec3
	Dir    Vec3
	InvDir Vec3
}

// NewRay normalizes dir and caches its reciprocal in InvDir.
func NewRay(origin, dir Vec3) Ray {
	d := dir.Normalized()
	return Ray{
		Origin: origin,
		Dir:    d,
		InvDir: Vec3{1 / d.X, 1 / d.Y, 1 / d.Z},
	}
}

// At evaluates the ray at parameter t.
func (r Ray) At(t float32) Vec3 {
	return r.Origin.Add(r.Dir.Scale(t))
}
