package bvh

import (
	"testing"

	"github.com/nthall/gopt/internal/geom"
	"github.com/nthall/gopt/internal/vec"
)

// makeScattered builds n unit cubes spread out along the X axis at
// positions 0, 10, 20, ... so a ray along +X crosses them in order.
func makeScattered(n int) []geom.Aabb {
	boxes := make([]geom.Aabb, n)
	for i := 0; i < n; i++ {
		x := float32(i * 10)
		boxes[i] = geom.Aabb{
			Min: vec.New(x, -0.5, -0.5),
			Max: vec.New(x+1, 0.5, 0.5),
		}
	}
	return boxes
}

func TestBuildCoversEveryPrimitiveExactlyOnce(t *testing.T) {
	const n = 37
	boxes := makeScattered(n)
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	b := Build(n, func(i int) geom.Aabb { return boxes[i] }, func(i, j int) {
		order[i], order[j] = order[j], order[i]
		boxes[i], boxes[j] = boxes[j], boxes[i]
	})

	ray := vec.NewRay(vec.New(-1, 0, 0), vec.UnitX)
	seen := make(map[int]bool)
	for _, r := range b.Traverse(ray) {
		for i := r.Begin; i < r.End; i++ {
			seen[order[i]] = true
		}
	}
	for i := 0; i < n; i++ {
		if !seen[i] {
			t.Fatalf("primitive %d never appeared in any traversal range", i)
		}
	}
}

func TestTraverseSkipsBoxesBehindTheRay(t *testing.T) {
	boxes := makeScattered(5)
	order := []int{0, 1, 2, 3, 4}
	b := Build(len(boxes), func(i int) geom.Aabb { return boxes[i] }, func(i, j int) {
		order[i], order[j] = order[j], order[i]
		boxes[i], boxes[j] = boxes[j], boxes[i]
	})

	// A ray pointing +X from far to the right has every box behind its
	// origin, so traversal must report no range at all, and never a
	// degenerate one.
	ray := vec.NewRay(vec.New(1000, 0, 0), vec.New(1, 0, 0))
	ranges := b.Traverse(ray)
	for _, r := range ranges {
		if r.Begin >= r.End {
			t.Fatalf("got a degenerate range [%d,%d)", r.Begin, r.End)
		}
	}
	if len(ranges) != 0 {
		t.Fatalf("expected no ranges for boxes behind the ray, got %v", ranges)
	}
}

func TestBuildEmptyDoesNotPanic(t *testing.T) {
	b := Build(0, func(i int) geom.Aabb { return geom.Aabb{} }, func(i, j int) {})
	ray := vec.NewRay(vec.Zero, vec.UnitX)
	if ranges := b.Traverse(ray); len(ranges) != 0 {
		t.Fatalf("expected no ranges from an empty BVH, got %v", ranges)
	}
}
