package geom

import (
	"math/rand/v2"
	"testing"

	"github.com/nthall/gopt/internal/vec"
)

type alwaysPass struct{}

func (alwaysPass) UVIntersect(uv vec.Vec2, r Rng) bool { return true }

type pcgRng struct{ r *rand.Rand }

func (p pcgRng) Float32() float32 { return p.r.Float32() }
func (p pcgRng) Range(lo, hi float32) float32 {
	return lo + p.r.Float32()*(hi-lo)
}

func newTestRng(seed uint64) Rng {
	return pcgRng{r: rand.New(rand.NewPCG(seed, seed^0x9e3779b9))}
}

func TestTriangleIntersectHitsCenter(t *testing.T) {
	verts := []vec.Vec3{
		vec.New(-1, -1, 0),
		vec.New(1, -1, 0),
		vec.New(0, 1, 0),
	}
	norms := []vec.Vec3{vec.UnitZ, vec.UnitZ, vec.UnitZ}
	uvs := []vec.Vec2{vec.NewV2(0, 0), vec.NewV2(1, 0), vec.NewV2(0.5, 1)}
	tri := NewTriangle([3]int{0, 1, 2}, [3]int{0, 1, 2}, [3]int{0, 1, 2}, 0)
	mats := []AlphaTester{alwaysPass{}}

	// The ray arrives from the +Z side, against the +Z normal: a front-face hit.
	r := vec.NewRay(vec.New(0, -0.1, 5), vec.New(0, 0, -1))
	rnd := newTestRng(1)

	sect := tri.Intersect(r, verts, norms, uvs, mats, rnd)
	if sect.IsNone() {
		t.Fatalf("expected a hit, got none")
	}
	if sect.T <= 0 {
		t.Fatalf("expected positive t, got %v", sect.T)
	}
	if !sect.Out {
		t.Fatalf("expected front-face hit")
	}
}

func TestTriangleIntersectMissesOutsideEdges(t *testing.T) {
	verts := []vec.Vec3{
		vec.New(-1, -1, 0),
		vec.New(1, -1, 0),
		vec.New(0, 1, 0),
	}
	norms := []vec.Vec3{vec.UnitZ, vec.UnitZ, vec.UnitZ}
	uvs := []vec.Vec2{vec.NewV2(0, 0), vec.NewV2(1, 0), vec.NewV2(0.5, 1)}
	tri := NewTriangle([3]int{0, 1, 2}, [3]int{0, 1, 2}, [3]int{0, 1, 2}, 0)
	mats := []AlphaTester{alwaysPass{}}

	r := vec.NewRay(vec.New(5, 5, -5), vec.New(0, 0, 1))
	sect := tri.Intersect(r, verts, norms, uvs, mats, newTestRng(2))
	if !sect.IsNone() {
		t.Fatalf("expected a miss far outside the triangle, got %+v", sect)
	}
}

func TestAABBInflatesDegenerateAxis(t *testing.T) {
	verts := []vec.Vec3{
		vec.New(0, 0, 0),
		vec.New(1, 0, 0),
		vec.New(0.5, 0, 1),
	}
	tri := NewTriangle([3]int{0, 1, 2}, [3]int{0, 1, 2}, [3]int{0, 1, 2}, 0)
	box := tri.AABB(verts)
	if box.Max.Y-box.Min.Y <= 0 {
		t.Fatalf("expected Y axis inflated above zero thickness, got extent %v", box.Max.Y-box.Min.Y)
	}
}

func TestSampleRayPDFMatchesAreaDensity(t *testing.T) {
	verts := []vec.Vec3{
		vec.New(-1, -1, 0),
		vec.New(1, -1, 0),
		vec.New(0, 1, 0),
	}
	norms := []vec.Vec3{vec.UnitZ, vec.UnitZ, vec.UnitZ}
	tri := NewTriangle([3]int{0, 1, 2}, [3]int{0, 1, 2}, [3]int{0, 1, 2}, 0)

	rnd := newTestRng(7)
	origin := Intersection{Pos: vec.New(0, 0, -5)}
	ray, _ := tri.SampleRay(origin, verts, norms, vec.One, rnd)

	sect := tri.Intersect(ray, verts, norms, []vec.Vec2{vec.NewV2(0, 0), vec.NewV2(1, 0), vec.NewV2(0.5, 1)}, []AlphaTester{alwaysPass{}}, rnd)
	if sect.IsNone() {
		t.Fatalf("sampled ray should hit its own source triangle")
	}
	pdf := tri.PDF(sect, vec.NewRay(vec.New(0, 0, -5), sect.Pos.Sub(vec.New(0, 0, -5))), verts)
	if pdf <= 0 {
		t.Fatalf("expected positive pdf, got %v", pdf)
	}
}
