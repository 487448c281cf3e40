package geom

import "github.com/nthall/gopt/internal/vec"

// Intersection is the ephemeral per-ray hit record produced by triangle
// intersection and BVH traversal (§3).
type Intersection struct {
	T   float32
	UV  vec.Vec2
	Pos vec.Vec3
	Nor vec.Vec3
	// Out records whether the front face was hit; the shading normal has
	// already been flipped to face the incoming ray.
	Out bool
	Mat int
	ID  int
}

// None is the sentinel "no intersection" value (T = -1).
var None = Intersection{T: -1, Mat: 0, ID: 0}

// IsNone reports whether this is the sentinel value.
func (s Intersection) IsNone() bool { return s.T == -1 }

// Min replaces s with other if other is closer and positive, keeping the
// nearest-hit invariant BVH traversal relies on.
func (s *Intersection) Min(other Intersection) {
	if s.IsNone() || (other.T < s.T && other.T > 0) {
		*s = other
	}
}

// AlphaTester is the minimal contract a triangle's material must satisfy to
// participate in the cutout-alpha intersection test (§4.4, §4.5
// uv_intersect); it lets this package test alpha without importing the
// material package.
type AlphaTester interface {
	UVIntersect(uv vec.Vec2, rng Rng) bool
}

// Rng is the narrow randomness contract geometry code needs; it mirrors
// rng.Source without creating an import cycle with the rng package's own
// consumers.
type Rng interface {
	Float32() float32
	Range(lo, hi float32) float32
}
