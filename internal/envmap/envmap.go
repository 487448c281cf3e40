// Package envmap implements the directional environment radiance source:
// either a uniform solid color or an equirectangular image sampled by ray
// direction (§4.6).
package envmap

import (
	"image"
	"math"

	"github.com/nthall/gopt/internal/vec"
)

// EnvMap is a solid color or an equirectangular image, sampled either by a
// (theta, phi) UV pair directly or by a world-space ray direction.
type EnvMap struct {
	isSolid bool
	solid   vec.Vec3
	width   int
	height  int
	data    []vec.Vec3
}

// Default is the zero-radiance solid environment.
var Default = EnvMap{isSolid: true, solid: vec.Zero}

// NewSolid builds a uniform-radiance environment.
func NewSolid(color vec.Vec3) EnvMap {
	return EnvMap{isSolid: true, solid: color}
}

// NewImage builds an equirectangular environment from a decoded HDR/LDR
// image, matching TextureData::from_path's row-major RGB layout.
func NewImage(img image.Image) EnvMap {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	data := make([]vec.Vec3, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			r, g, b, _ := img.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			data[x+w*y] = vec.New(float32(r)/65535, float32(g)/65535, float32(b)/65535)
		}
	}
	return EnvMap{width: w, height: h, data: data}
}

// Sample looks up radiance at a (theta, phi) UV pair, clamping rather than
// wrapping (unlike texture.Texture's fractional wrap) since theta/phi are
// already confined to [0,1] by SampleDir's construction.
func (e EnvMap) Sample(uv vec.Vec2) vec.Vec3 {
	if e.isSolid {
		return e.solid
	}
	x := clamp01(uv.Y) * float32(e.width-1)
	y := clamp01(uv.X) * float32(e.height-1)
	idx := int(x) + int(y)*e.width
	return e.data[idx]
}

// SampleDir samples radiance for a world-space unit direction via the
// standard equirectangular mapping: theta = acos(z)/pi,
// phi = (atan2(y,x)+pi)/tau.
func (e EnvMap) SampleDir(dir vec.Vec3) vec.Vec3 {
	theta := float32(math.Acos(clampUnit(float64(dir.Z)))) / math.Pi
	phi := (float32(math.Atan2(float64(dir.Y), float64(dir.X))) + math.Pi) / (2 * math.Pi)
	return e.Sample(vec.NewV2(theta, phi))
}

func clamp01(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func clampUnit(v float64) float64 {
	if v < -1 {
		return -1
	}
	if v > 1 {
		return 1
	}
	return v
}
