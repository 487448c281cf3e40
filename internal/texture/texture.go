// Package texture implements solid-color and 2-D image textures, including
// the alpha-cutout test used during primary intersection (§4.4).
package texture

import (
	"image"
	"math"

	// Registered for side effects: widens the set of formats image.Decode
	// accepts for texture and environment-map loading beyond the stdlib's
	// built-in PNG/JPEG/GIF decoders.
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"

	"github.com/nthall/gopt/internal/vec"
)

// AlphaMode controls how a loaded image's alpha channel is baked at load
// time, matching glTF's alpha-mode semantics (§12: image texture alpha
// modes).
type AlphaMode int

const (
	AlphaOpaque AlphaMode = iota
	AlphaMask
	AlphaBlend
)

// Texture is a solid color or a 2-D RGBA image sampled by UV.
type Texture struct {
	solid    vec.Vec3
	isSolid  bool
	width    int
	height   int
	// backing holds RGBA in row-major order, one [4]float32 per texel.
	backing []texel
}

type texel struct {
	r, g, b, a float32
}

// NewSolid builds a uniform-color texture.
func NewSolid(color vec.Vec3) Texture {
	return Texture{solid: color, isSolid: true}
}

// NewImage builds an image texture from decoded RGBA data, applying
// alphaMode the way Image::from_rgbaf32 bakes glTF alpha modes at load
// time.
func NewImage(img image.Image, mode AlphaMode, alphaCutoff float32) Texture {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	backing := make([]texel, w*h)

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			r, g, b, a := img.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			alpha := float32(a) / 65535
			switch mode {
			case AlphaOpaque:
				alpha = 1
			case AlphaMask:
				if alpha > alphaCutoff {
					alpha = 1
				} else {
					alpha = 0
				}
			case AlphaBlend:
				// keep decoded alpha
			}
			backing[x+w*y] = texel{
				r: float32(r) / 65535,
				g: float32(g) / 65535,
				b: float32(b) / 65535,
				a: alpha,
			}
		}
	}
	return Texture{width: w, height: h, backing: backing}
}

// uvIndex wraps u,v to [0,1) by the fractional-part-of-absolute-value rule
// and returns the nearest-neighbour texel index.
func (t Texture) uvIndex(uv vec.Vec2) int {
	u := fractAbs(uv.X)
	v := fractAbs(uv.Y)
	x := clampInt(int(float32(t.width)*u), 0, t.width-1)
	y := clampInt(int(float32(t.height)*v), 0, t.height-1)
	return x + t.width*y
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// UVValue samples the texture's RGB at uv (§4.4).
func (t Texture) UVValue(uv vec.Vec2) vec.Vec3 {
	if t.isSolid {
		return t.solid
	}
	tx := t.backing[t.uvIndex(uv)]
	return vec.New(tx.r, tx.g, tx.b)
}

// Rng is the narrow randomness contract the alpha test needs.
type Rng interface {
	Float32() float32
}

// DoesIntersect is the alpha-cutout test (§4.4): true iff alpha(uv) >=
// a uniform sample. Solid textures are always opaque.
func (t Texture) DoesIntersect(uv vec.Vec2, rnd Rng) bool {
	if t.isSolid {
		return true
	}
	tx := t.backing[t.uvIndex(uv)]
	return tx.a >= rnd.Float32()
}

func fractAbs(v float32) float32 {
	f, _ := math.Modf(float64(v))
	frac := float32(float64(v) - f)
	if frac < 0 {
		frac = -frac
	}
	return frac
}
