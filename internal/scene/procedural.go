package scene

import (
	"github.com/nthall/gopt/internal/camera"
	"github.com/nthall/gopt/internal/envmap"
	"github.com/nthall/gopt/internal/geom"
	"github.com/nthall/gopt/internal/material"
	"github.com/nthall/gopt/internal/texture"
	"github.com/nthall/gopt/internal/vec"
)

// DefaultLoader builds a procedural test scene instead of parsing a
// scene description file: scene ingestion (GLTF/OBJ parsing) is out of
// scope, so the pinned Loader interface gets a minimal built-in
// implementation good enough to exercise the whole engine end to end.
type DefaultLoader struct {
	Width, Height uint32
}

// Load ignores path and returns a small box scene: five Lambertian
// walls and an emissive ceiling panel, lit only by the panel (so NEEMIS
// has a nontrivial light to importance-sample). The box is empty.
func (l DefaultLoader) Load(path string) (*Scene, error) {
	return NewCornellBox(l.Width, l.Height), nil
}

// NewCornellBox builds the classic box scene procedurally: no GLTF/OBJ
// file is read. Walls span [-1,1] on x/y and [0,2] on z (camera looks
// down +z), with a small emissive quad set into the ceiling.
func NewCornellBox(width, height uint32) *Scene {
	var verts []vec.Vec3
	var normals []vec.Vec3
	uvs := []vec.Vec2{vec.NewV2(0, 0)}

	addQuad := func(a, b, c, d vec.Vec3, n vec.Vec3, mat int, tris *[]geom.Triangle) {
		base := len(verts)
		verts = append(verts, a, b, c, d)
		normals = append(normals, n)
		normIdx := len(normals) - 1
		*tris = append(*tris,
			geom.NewTriangle([3]int{base, base + 1, base + 2}, [3]int{normIdx, normIdx, normIdx}, [3]int{0, 0, 0}, mat),
			geom.NewTriangle([3]int{base, base + 2, base + 3}, [3]int{normIdx, normIdx, normIdx}, [3]int{0, 0, 0}, mat),
		)
	}

	const (
		matWhite = iota
		matRed
		matGreen
		matLight
	)

	mats := []material.Material{
		material.Lambertian{Albedo: texture.NewSolid(vec.New(0.73, 0.73, 0.73))},
		material.Lambertian{Albedo: texture.NewSolid(vec.New(0.65, 0.05, 0.05))},
		material.Lambertian{Albedo: texture.NewSolid(vec.New(0.12, 0.45, 0.15))},
		material.Light{Irradiance: vec.New(15, 15, 15)},
	}
	texs := []texture.Texture{
		texture.NewSolid(vec.New(0.73, 0.73, 0.73)),
		texture.NewSolid(vec.New(0.65, 0.05, 0.05)),
		texture.NewSolid(vec.New(0.12, 0.45, 0.15)),
	}

	var tris []geom.Triangle

	// floor (y=-1), ceiling (y=1), back wall (z=2), left (x=-1, red),
	// right (x=1, green).
	addQuad(vec.New(-1, -1, 0), vec.New(1, -1, 0), vec.New(1, -1, 2), vec.New(-1, -1, 2), vec.New(0, 1, 0), matWhite, &tris)
	addQuad(vec.New(-1, 1, 2), vec.New(1, 1, 2), vec.New(1, 1, 0), vec.New(-1, 1, 0), vec.New(0, -1, 0), matWhite, &tris)
	addQuad(vec.New(-1, -1, 2), vec.New(1, -1, 2), vec.New(1, 1, 2), vec.New(-1, 1, 2), vec.New(0, 0, -1), matWhite, &tris)
	addQuad(vec.New(-1, -1, 2), vec.New(-1, -1, 0), vec.New(-1, 1, 0), vec.New(-1, 1, 2), vec.New(1, 0, 0), matRed, &tris)
	addQuad(vec.New(1, -1, 0), vec.New(1, -1, 2), vec.New(1, 1, 2), vec.New(1, 1, 0), vec.New(-1, 0, 0), matGreen, &tris)

	// emissive ceiling panel, inset slightly below y=1.
	addQuad(vec.New(-0.3, 0.99, 0.8), vec.New(0.3, 0.99, 0.8), vec.New(0.3, 0.99, 1.2), vec.New(-0.3, 0.99, 1.2), vec.New(0, -1, 0), matLight, &tris)

	cam := camera.New(vec.New(0, 0, -2.2), vec.New(0, 0, 1), vec.New(0, 1, 0), 50, 1, camera.DefaultSettings(width, height))

	return New(verts, normals, uvs, tris, mats, texs, envmap.NewSolid(vec.Zero), cam)
}
