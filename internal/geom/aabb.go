// Package geom implements the triangle primitive: watertight ray
// intersection, area sampling, and the axis-aligned bounding box the BVH
// builds over.
package geom

import "github.com/nthall/gopt/internal/vec"

// Aabb is a closed axis-aligned box [Min, Max].
type Aabb struct {
	Min, Max vec.Vec3
}

// Union returns the smallest box containing both a and b.
func Union(a, b Aabb) Aabb {
	return Aabb{
		Min: vec.MinByComponent(a.Min, b.Min),
		Max: vec.MaxByComponent(a.Max, b.Max),
	}
}

// Centroid is the box's midpoint, used for BVH median splits.
func (b Aabb) Centroid() vec.Vec3 {
	return b.Min.Add(b.Max).Scale(0.5)
}

// Extent returns the axis-aligned side lengths.
func (b Aabb) Extent() vec.Vec3 {
	return b.Max.Sub(b.Min)
}

// Intersects runs the slab test against ray, using its cached inverse
// direction, and reports whether the ray's parametric range [0, tMax)
// overlaps the box.
func (b Aabb) Intersects(r vec.Ray, tMax float32) bool {
	tMin := float32(0)
	for axis := 0; axis < 3; axis++ {
		var origin, invDir, lo, hi float32
		switch axis {
		case 0:
			origin, invDir, lo, hi = r.Origin.X, r.InvDir.X, b.Min.X, b.Max.X
		case 1:
			origin, invDir, lo, hi = r.Origin.Y, r.InvDir.Y, b.Min.Y, b.Max.Y
		default:
			origin, invDir, lo, hi = r.Origin.Z, r.InvDir.Z, b.Min.Z, b.Max.Z
		}
		t0 := (lo - origin) * invDir
		t1 := (hi - origin) * invDir
		if t0 > t1 {
			t0, t1 = t1, t0
		}
		if t0 > tMin {
			tMin = t0
		}
		if t1 < tMax {
			tMax = t1
		}
		if tMin > tMax {
			return false
		}
	}
	return true
}

// SurfaceArea returns the box's total surface area. The BVH builder
// splits at the centroid median and does not use it.
func (b Aabb) SurfaceArea() float32 {
	e := b.Extent()
	return 2 * (e.X*e.Y + e.Y*e.Z + e.Z*e.X)
}
