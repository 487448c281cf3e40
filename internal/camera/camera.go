// Package camera generates primary rays from pixel indices (§4.7), with
// three equivalent ways to orient it (look-at, Euler rotation, explicit
// quaternion) and an optional crop window restricting rendering to a
// pixel sub-rectangle (§12).
package camera

import (
	"math"

	"github.com/nthall/gopt/internal/frame"
	"github.com/nthall/gopt/internal/rng"
	"github.com/nthall/gopt/internal/vec"
)

// Window is a fractional crop window along one image axis: [Lo, Hi]
// restricts the camera's lower-left/right/up basis to a sub-rectangle of
// the full image plane, matching RenderSettings.u / .v.
type Window struct {
	Lo, Hi float32
}

// FullWindow covers the entire image axis.
var FullWindow = Window{Lo: 0, Hi: 1}

// Settings carries the pixel dimensions and optional crop window used to
// derive a Camera's basis vectors, mirroring RenderSettings.
type Settings struct {
	Width, Height uint32
	U, V          Window
}

// DefaultSettings has no crop window.
func DefaultSettings(width, height uint32) Settings {
	return Settings{Width: width, Height: height, U: FullWindow, V: FullWindow}
}

// Camera holds a pinhole basis: an image-plane lower-left corner plus
// right/up step vectors, derived once from user parameters (§3).
type Camera struct {
	LowerLeft vec.Vec3
	Up        vec.Vec3
	Right     vec.Vec3
	Origin    vec.Vec3
	Width     uint32
	Height    uint32
}

// New builds a look-at camera: forward points from origin to lookAt, up
// is the desired world-up hint (need not be orthogonal to forward).
func New(origin, lookAt, up vec.Vec3, hfovDeg, focusDist float32, s Settings) Camera {
	forward := lookAt.Sub(origin).Normalized()
	up = up.Normalized()
	aspect := float32(s.Width) / float32(s.Height)

	rightMag := focusDist * 2 * tan32(0.5*radians(hfovDeg))
	upMag := rightMag / aspect

	right := forward.Cross(up).Normalized().Scale(rightMag)
	upVec := right.Cross(forward).Normalized().Scale(upMag)

	lowerLeft := origin.Sub(right.Scale(0.5)).Sub(upVec.Scale(0.5)).Add(forward.Scale(focusDist))
	lowerLeft = lowerLeft.Add(right.Scale(s.U.Lo)).Add(upVec.Scale(s.V.Lo))
	right = right.Scale(s.U.Hi - s.U.Lo)
	upVec = upVec.Scale(s.V.Hi - s.V.Lo)

	return Camera{LowerLeft: lowerLeft, Up: upVec, Right: right, Origin: origin, Width: s.Width, Height: s.Height}
}

// NewRot builds a camera from an Euler rotation (XYZ, Blender convention:
// default orientation looks down -Z with +Y up), in radians unless
// degrees is true.
func NewRot(origin, rotation vec.Vec3, hfovDeg float32, s Settings, degrees bool) Camera {
	if degrees {
		rotation = rotation.Scale(float32(math.Pi) / 180)
	}
	q := frame.FromEuler(rotation.X, rotation.Y, rotation.Z)
	return NewQuat(origin, q, hfovDeg, s)
}

// NewQuat builds a camera from an explicit orientation quaternion,
// matching Cam::new_quat.
func NewQuat(origin vec.Vec3, q frame.Quaternion, hfovDeg float32, s Settings) Camera {
	up := q.Rotate(vec.New(0, 1, 0))
	forward := q.Rotate(vec.New(0, 0, -1))

	aspect := float32(s.Width) / float32(s.Height)
	rightMag := 2 * tan32(0.5*radians(hfovDeg))
	upMag := rightMag / aspect

	right := forward.Cross(up).Normalized().Scale(rightMag)
	upVec := right.Cross(forward).Normalized().Scale(upMag)

	lowerLeft := origin.Sub(right.Scale(0.5)).Sub(upVec.Scale(0.5)).Add(forward)
	lowerLeft = lowerLeft.Add(right.Scale(s.U.Lo)).Add(upVec.Scale(s.V.Lo))
	right = right.Scale(s.U.Hi - s.U.Lo)
	upVec = upVec.Scale(s.V.Hi - s.V.Lo)

	return Camera{LowerLeft: lowerLeft, Up: upVec, Right: right, Origin: origin, Width: s.Width, Height: s.Height}
}

// GetRay derives a jittered primary ray for linear pixel index i, and
// returns the sampled (u, v) film-plane coordinate alongside it.
func (c Camera) GetRay(i uint64, rnd rng.Source) (vec.Vec2, vec.Ray) {
	px, py := i%uint64(c.Width), i/uint64(c.Width)
	u := (float32(px) + rnd.Float32()) / float32(c.Width)
	v := (float32(py) + rnd.Float32()) / float32(c.Height)
	return vec.NewV2(u, v), c.rayForUV(u, v)
}

// GetCentreRay derives the unjittered ray through the exact center of
// pixel i, used for deterministic debug passes such as BVH heatmaps.
func (c Camera) GetCentreRay(i uint64) vec.Ray {
	px, py := i%uint64(c.Width), i/uint64(c.Width)
	u := (float32(px) + 0.5) / float32(c.Width)
	v := (float32(py) + 0.5) / float32(c.Height)
	return c.rayForUV(u, v)
}

// GetRandomRay derives a ray through a fully random point on the image
// plane, used by PSSMLT's bootstrap and large mutations.
func (c Camera) GetRandomRay(rnd rng.Source) (vec.Vec2, vec.Ray) {
	u, v := rnd.Float32(), rnd.Float32()
	return vec.NewV2(u, v), c.rayForUV(u, v)
}

func (c Camera) rayForUV(u, v float32) vec.Ray {
	target := c.LowerLeft.Add(c.Right.Scale(u)).Add(c.Up.Scale(1 - v)).Sub(c.Origin)
	return vec.NewRay(c.Origin, target)
}

func tan32(x float32) float32  { return float32(math.Tan(float64(x))) }
func radians(deg float32) float32 { return deg * float32(math.Pi) / 180 }
