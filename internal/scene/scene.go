// Package scene holds the immutable, shared render state built once at
// startup (§3): the vertex/normal/UV/triangle/material/texture arrays, the
// BVH built over them, the environment map, and the camera. Scene
// ingestion itself (parsing GLTF/OBJ into this data model) is out of
// scope; Loader pins the boundary a concrete ingestion package must
// satisfy.
package scene

import (
	"github.com/nthall/gopt/internal/bvh"
	"github.com/nthall/gopt/internal/camera"
	"github.com/nthall/gopt/internal/envmap"
	"github.com/nthall/gopt/internal/geom"
	"github.com/nthall/gopt/internal/material"
	"github.com/nthall/gopt/internal/texture"
	"github.com/nthall/gopt/internal/vec"
)

// Scene is the complete, read-only render state every worker goroutine
// shares (§3, "Ownership": workers hold shared read-only references;
// they never mutate it).
type Scene struct {
	Vertices  []vec.Vec3
	Normals   []vec.Vec3
	UVs       []vec.Vec2
	Triangles []geom.Triangle
	Materials []material.Material
	Textures  []texture.Texture
	// Samplable holds the indices (into Triangles, post-BVH-reorder) of
	// every triangle whose material is a Light.
	Samplable []int
	BVH       *bvh.BVH
	Env       envmap.EnvMap
	Cam       camera.Camera

	// alphaTesters mirrors Materials as geom.AlphaTester values; Go does
	// not let a []material.Material be passed where []geom.AlphaTester is
	// expected even though every element satisfies it, so this parallel
	// slice is built once at New and handed to every triangle intersect.
	alphaTesters []geom.AlphaTester
}

// New assembles a Scene from its post-parse components and builds the
// BVH over tris' AABBs, reordering tris in place so every leaf maps to a
// contiguous range (§3, §4.2).
//
// The Samplable set is derived after the reorder, matching "Samplable:
// ... built after BVH reorders triangles."
func New(verts, normals []vec.Vec3, uvs []vec.Vec2, tris []geom.Triangle, mats []material.Material, texs []texture.Texture, env envmap.EnvMap, cam camera.Camera) *Scene {
	alphaTesters := make([]geom.AlphaTester, len(mats))
	for i, m := range mats {
		alphaTesters[i] = m
	}

	tree := bvh.Build(len(tris), func(i int) geom.Aabb { return tris[i].AABB(verts) }, func(i, j int) {
		tris[i], tris[j] = tris[j], tris[i]
	})

	var samplable []int
	for i, t := range tris {
		if _, ok := mats[t.Mat].(material.Light); ok {
			samplable = append(samplable, i)
		}
	}

	return &Scene{
		Vertices:     verts,
		Normals:      normals,
		UVs:          uvs,
		Triangles:    tris,
		Materials:    mats,
		Textures:     texs,
		Samplable:    samplable,
		BVH:          tree,
		Env:          env,
		Cam:          cam,
		alphaTesters: alphaTesters,
	}
}

// GetIntersection finds the nearest hit along ray by walking the BVH
// near-to-far and intersecting every candidate triangle, mirroring
// get_intersection.
func (s *Scene) GetIntersection(ray vec.Ray, rnd material.Rng) geom.Intersection {
	sect := geom.None
	for _, r := range s.BVH.Traverse(ray) {
		for i := r.Begin; i < r.End; i++ {
			triSect := s.Triangles[i].Intersect(ray, s.Vertices, s.Normals, s.UVs, s.alphaTesters, rnd)
			triSect.ID = i
			sect.Min(triSect)
		}
	}
	return sect
}

// IntersectIdx tests ray against the single triangle idx, then rejects
// the hit if any other BVH-reachable triangle occludes it strictly
// closer — an occlusion test used by next-event estimation's shadow ray,
// mirroring intersect_idx.
func (s *Scene) IntersectIdx(ray vec.Ray, idx int, rnd material.Rng) geom.Intersection {
	sect := s.Triangles[idx].Intersect(ray, s.Vertices, s.Normals, s.UVs, s.alphaTesters, rnd)
	if sect.IsNone() {
		return sect
	}

	for _, r := range s.BVH.Traverse(ray) {
		for i := r.Begin; i < r.End; i++ {
			if i == idx {
				continue
			}
			t := s.Triangles[i].Intersect(ray, s.Vertices, s.Normals, s.UVs, s.alphaTesters, rnd).T
			if t > 0 && t < sect.T {
				return geom.None
			}
		}
	}
	return sect
}

// Loader is the boundary a concrete scene-ingestion package (parsing
// GLTF/OBJ into vertex/normal/UV/triangle/material/texture arrays) must
// satisfy; this package specifies only the resulting data model.
type Loader interface {
	Load(path string) (*Scene, error)
}
