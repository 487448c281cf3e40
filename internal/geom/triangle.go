package geom

import (
	"math"

	"github.com/nthall/gopt/internal/vec"
)

// Triangle indexes three vertices, three (possibly shared) shading normals,
// three UVs, and one material, all into the scene's shared arrays (§3).
type Triangle struct {
	Pos [3]int
	Nor [3]int
	UV  [3]int
	Mat int
}

// NewTriangle builds a triangle from vertex/normal/UV/material indices.
func NewTriangle(pos, nor, uv [3]int, mat int) Triangle {
	return Triangle{Pos: pos, Nor: nor, UV: uv, Mat: mat}
}

// AABB computes the triangle's bounding box, inflating degenerate axes so
// the BVH never sees a zero-thickness box (§4.3).
func (t Triangle) AABB(verts []vec.Vec3) Aabb {
	a, b, c := verts[t.Pos[0]], verts[t.Pos[1]], verts[t.Pos[2]]

	min := vec.MinByComponent(a, vec.MinByComponent(b, c))
	max := vec.MaxByComponent(a, vec.MaxByComponent(b, c))
	diff := max.Sub(min)

	if diff.X == 0 {
		max.X += 1e-5
		min.X -= 1e-5
	}
	if diff.Y == 0 {
		max.Y += 1e-5
		min.Y -= 1e-5
	}
	if diff.Z == 0 {
		max.Z += 1e-5
		min.Z -= 1e-5
	}
	max = max.Add(diff.Scale(1e-5))
	min = min.Sub(diff.Scale(1e-5))

	return Aabb{Min: min, Max: max}
}

// Intersect is the Woop et al. (2013) watertight ray/triangle test: the ray
// direction's dominant axis selects a coordinate permutation, the remaining
// two axes are sheared so the ray becomes (0,0,1) in the transformed frame,
// and the edge functions are evaluated in that frame. A double-precision
// fallback resolves edge functions that land exactly on zero.
func (t Triangle) Intersect(r vec.Ray, verts []vec.Vec3, norms []vec.Vec3, uvs []vec.Vec2, mats []AlphaTester, rnd Rng) Intersection {
	v0, v1, v2 := verts[t.Pos[0]], verts[t.Pos[1]], verts[t.Pos[2]]
	n0, n1, n2 := norms[t.Nor[0]], norms[t.Nor[1]], norms[t.Nor[2]]
	uv0, uv1, uv2 := uvs[t.UV[0]], uvs[t.UV[1]], uvs[t.UV[2]]

	p0t := v0.Sub(r.Origin)
	p1t := v1.Sub(r.Origin)
	p2t := v2.Sub(r.Origin)

	ax, ay, az := absf(r.Dir.X), absf(r.Dir.Y), absf(r.Dir.Z)
	maxAxis := 2
	if ax > ay && ax > az {
		maxAxis = 0
	} else if ay > az {
		maxAxis = 1
	}

	dir := r.Dir
	switch maxAxis {
	case 0:
		p0t, p1t, p2t, dir = p0t.Zyx(), p1t.Zyx(), p2t.Zyx(), dir.Zyx()
	case 1:
		p0t, p1t, p2t, dir = p0t.Xzy(), p1t.Xzy(), p2t.Xzy(), dir.Xzy()
	}

	sz := 1 / dir.Z
	sx := -dir.X * sz
	sy := -dir.Y * sz

	p0t.X += sx * p0t.Z
	p0t.Y += sy * p0t.Z
	p1t.X += sx * p1t.Z
	p1t.Y += sy * p1t.Z
	p2t.X += sx * p2t.Z
	p2t.Y += sy * p2t.Z

	e0 := p1t.X*p2t.Y - p1t.Y*p2t.X
	e1 := p2t.X*p0t.Y - p2t.Y*p0t.X
	e2 := p0t.X*p1t.Y - p0t.Y*p1t.X
	if e0 == 0 || e1 == 0 || e2 == 0 {
		e0 = float32(float64(p1t.X)*float64(p2t.Y) - float64(p1t.Y)*float64(p2t.X))
		e1 = float32(float64(p2t.X)*float64(p0t.Y) - float64(p2t.Y)*float64(p0t.X))
		e2 = float32(float64(p0t.X)*float64(p1t.Y) - float64(p0t.Y)*float64(p1t.X))
	}

	if (e0 < 0 || e1 < 0 || e2 < 0) && (e0 > 0 || e1 > 0 || e2 > 0) {
		return None
	}

	det := e0 + e1 + e2
	if det == 0 {
		return None
	}

	p0t = p0t.Scale(sz)
	p1t = p1t.Scale(sz)
	p2t = p2t.Scale(sz)

	tScaled := e0*p0t.Z + e1*p1t.Z + e2*p2t.Z
	if (det < 0 && tScaled >= 0) || (det > 0 && tScaled <= 0) {
		return None
	}

	invDet := 1 / det
	b0, b1, b2 := e0*invDet, e1*invDet, e2*invDet

	uv := uv0.Scale(b0).Add(uv1.Scale(b1)).Add(uv2.Scale(b2))
	if !mats[t.Mat].UVIntersect(uv, rnd) {
		return None
	}

	tHit := invDet * tScaled

	normal := n0.Scale(b0).Add(n1.Scale(b1)).Add(n2.Scale(b2))
	out := normal.Dot(r.Dir) < 0
	if !out {
		normal = normal.Neg()
	}

	point := v0.Scale(b0).Add(v1.Scale(b1)).Add(v2.Scale(b2))
	point = point.Add(normal.Scale(0.000001))

	return Intersection{T: tHit, UV: uv, Pos: point, Nor: normal, Out: out, Mat: t.Mat}
}

// SampleRay draws a uniform-by-area point on the triangle via the usual
// sqrt-based barycentric scheme, and returns a ray from sect.Pos toward
// that point along with the triangle's emission there.
func (t Triangle) SampleRay(sect Intersection, verts []vec.Vec3, norms []vec.Vec3, le vec.Vec3, rnd Rng) (vec.Ray, vec.Vec3) {
	v0, v1, v2 := verts[t.Pos[0]], verts[t.Pos[1]], verts[t.Pos[2]]
	n0, n1, n2 := norms[t.Nor[0]], norms[t.Nor[1]], norms[t.Nor[2]]

	uvSqrt := sqrt32(rnd.Float32())
	b0 := 1 - uvSqrt
	b1 := uvSqrt * rnd.Float32()
	b2 := 1 - b0 - b1

	point := v0.Scale(b0).Add(v1.Scale(b1)).Add(v2.Scale(b2))
	nor := n0.Scale(b0).Add(n1.Scale(b1)).Add(n2.Scale(b2))
	point = point.Add(nor.Scale(0.000001))

	dir := point.Sub(sect.Pos)
	ray := vec.NewRay(sect.Pos, dir)

	return ray, le
}

// PDF is the area-to-solid-angle density of sampling sect from ray.Origin
// via SampleRay: |p-o|^2 / (|n.w| * area).
func (t Triangle) PDF(sect Intersection, r vec.Ray, verts []vec.Vec3) float32 {
	v0, v1, v2 := verts[t.Pos[0]], verts[t.Pos[1]], verts[t.Pos[2]]
	area := float32(0.5) * v1.Sub(v0).Cross(v2.Sub(v0)).Mag()
	return sect.Pos.Sub(r.Origin).MagSq() / (absf(sect.Nor.Dot(r.Dir)) * area)
}

func absf(a float32) float32 {
	if a < 0 {
		return -a
	}
	return a
}

func sqrt32(a float32) float32 {
	return float32(math.Sqrt(float64(a)))
}
