// Package bvh builds a bounding volume hierarchy over a slice of
// axis-aligned-bounded primitives and yields near-to-far traversal ranges
// (§4.2). Primitives are reordered in place during construction so every
// leaf maps to a contiguous [begin, end) index range into the caller's
// backing slice (e.g. the scene's triangle array).
package bvh

import (
	"github.com/nthall/gopt/internal/geom"
	"github.com/nthall/gopt/internal/vec"
)

const leafSize = 4

type node struct {
	bounds geom.Aabb
	// leaf: begin/end index range into the caller's primitive slice.
	// internal: left/right are indices into the node slice, axis is the
	// split axis used to decide traversal order.
	begin, end  int
	left, right int
	axis        int
	isLeaf      bool
}

// BVH is a flat node array built once over a caller-owned primitive slice.
// The primitive slice itself is reordered in place during Build; the BVH
// only ever stores indices into it.
type BVH struct {
	nodes []node
}

// Build constructs a BVH over prims, reordering prims in place so every
// leaf's [begin,end) range is contiguous. prims must expose bounds via
// aabb(i); swap must exchange prims[i] and prims[j] (and, by the caller,
// any parallel arrays that must stay aligned with them).
func Build(n int, aabb func(i int) geom.Aabb, swap func(i, j int)) *BVH {
	b := &BVH{}
	if n == 0 {
		b.nodes = append(b.nodes, node{isLeaf: true, begin: 0, end: 0})
		return b
	}
	centroids := make([]vec.Vec3, n)
	bounds := make([]geom.Aabb, n)
	for i := 0; i < n; i++ {
		bounds[i] = aabb(i)
		centroids[i] = bounds[i].Centroid()
	}

	// recompute-on-the-fly wrapper: aabb/centroid arrays are reordered in
	// lockstep with the caller's primitive swap so indices stay aligned.
	swapAll := func(i, j int) {
		swap(i, j)
		bounds[i], bounds[j] = bounds[j], bounds[i]
		centroids[i], centroids[j] = centroids[j], centroids[i]
	}

	b.nodes = make([]node, 0, 2*n)
	b.build(bounds, centroids, swapAll, 0, n)
	return b
}

// build recursively partitions the half-open range [begin,end) and
// appends nodes to b.nodes, returning the index of the node just created.
func (b *BVH) build(bounds []geom.Aabb, centroids []vec.Vec3, swap func(i, j int), begin, end int) int {
	count := end - begin
	nodeBounds := geom.Aabb{Min: bounds[begin].Min, Max: bounds[begin].Max}
	for i := begin + 1; i < end; i++ {
		nodeBounds = geom.Union(nodeBounds, bounds[i])
	}

	idx := len(b.nodes)
	b.nodes = append(b.nodes, node{})

	if count <= leafSize {
		b.nodes[idx] = node{bounds: nodeBounds, begin: begin, end: end, isLeaf: true}
		return idx
	}

	extent := nodeBounds.Extent()
	axis := vec.MaxAxis(extent)
	if extent.At(axis) <= 0 {
		b.nodes[idx] = node{bounds: nodeBounds, begin: begin, end: end, isLeaf: true}
		return idx
	}

	mid := (begin + end) / 2
	partitionByCentroidAxis(centroids, swap, begin, end, mid, axis)

	left := b.build(bounds, centroids, swap, begin, mid)
	right := b.build(bounds, centroids, swap, mid, end)
	b.nodes[idx] = node{bounds: nodeBounds, left: left, right: right, axis: axis, isLeaf: false}
	return idx
}

// partitionByCentroidAxis reorders [begin,end) in place so every element
// before mid has a centroid coordinate (on axis) no greater than every
// element from mid onward, via quickselect (average O(n) rather than a
// full sort).
func partitionByCentroidAxis(centroids []vec.Vec3, swap func(i, j int), begin, end, mid, axis int) {
	lo, hi := begin, end-1
	for lo < hi {
		p := hoarePartition(centroids, swap, lo, hi, axis)
		switch {
		case mid <= p:
			hi = p
		default:
			lo = p + 1
		}
	}
}

func hoarePartition(centroids []vec.Vec3, swap func(i, j int), lo, hi, axis int) int {
	pivot := centroids[(lo+hi)/2].At(axis)
	i, j := lo-1, hi+1
	for {
		for {
			i++
			if centroids[i].At(axis) >= pivot {
				break
			}
		}
		for {
			j--
			if centroids[j].At(axis) <= pivot {
				break
			}
		}
		if i >= j {
			return j
		}
		swap(i, j)
	}
}

// Range is a contiguous [Begin, End) slice of primitive indices that the
// caller should intersect against, in the order Traverse yields them.
type Range struct {
	Begin, End int
}

// Traverse walks the hierarchy near-to-far with respect to ray.Dir and
// yields each overlapping leaf's index range, in roughly front-to-back
// order (§4.2). The returned slice can be iterated lazily by the caller;
// it is materialized eagerly here since Go lacks generator syntax.
func (b *BVH) Traverse(ray vec.Ray) []Range {
	var ranges []Range
	if len(b.nodes) == 0 {
		return ranges
	}
	var stack [64]int
	sp := 0
	stack[sp] = 0
	sp++

	for sp > 0 {
		sp--
		ni := stack[sp]
		n := &b.nodes[ni]
		if !n.bounds.Intersects(ray, maxFloat32) {
			continue
		}
		if n.isLeaf {
			if n.end > n.begin {
				ranges = append(ranges, Range{Begin: n.begin, End: n.end})
			}
			continue
		}
		// Push so the near child is popped first: if the ray travels in
		// the positive direction along the split axis, the left child
		// (lower centroids) is nearer.
		if ray.Dir.At(n.axis) >= 0 {
			stack[sp] = n.right
			sp++
			stack[sp] = n.left
			sp++
		} else {
			stack[sp] = n.left
			sp++
			stack[sp] = n.right
			sp++
		}
	}
	return ranges
}

const maxFloat32 = 3.4028235e38
