// Package frame builds orthonormal local coordinate systems and quaternion
// rotations used by the camera and by materials that need a local shading
// frame.
package frame

import (
	"math"

	"github.com/nthall/gopt/internal/vec"
)

// Coordinate is an orthonormal basis (x, y, z) built from a single unit
// normal. z is the basis normal; x and y span its tangent plane.
type Coordinate struct {
	X, Y, Z vec.Vec3
}

// NOP is the identity frame (world space == local space).
var NOP = Coordinate{X: vec.UnitX, Y: vec.UnitY, Z: vec.UnitZ}

// NewFromZ builds a stable orthonormal frame from unit normal z, switching
// the tangent construction on whichever of z.X, z.Y is further from zero to
// avoid the degenerate case where z is near the other axis.
func NewFromZ(z vec.Vec3) Coordinate {
	var x vec.Vec3
	if absf(z.X) > absf(z.Y) {
		x = vec.New(-z.Z, 0, z.X).Scale(1 / sqrt32(z.X*z.X+z.Z*z.Z))
	} else {
		x = vec.New(0, z.Z, -z.Y).Scale(1 / sqrt32(z.Y*z.Y+z.Z*z.Z))
	}
	return Coordinate{X: x, Y: x.Cross(z), Z: z}
}

// LocalToGlobal transforms a vector expressed in this frame's local space
// into world space.
func (c Coordinate) LocalToGlobal(v vec.Vec3) vec.Vec3 {
	return vec.New(
		v.X*c.X.X+v.Y*c.Y.X+v.Z*c.Z.X,
		v.X*c.X.Y+v.Y*c.Y.Y+v.Z*c.Z.Y,
		v.X*c.X.Z+v.Y*c.Y.Z+v.Z*c.Z.Z,
	)
}

// GlobalToLocal transforms a world-space vector into this frame's local
// space; the matrix is the transpose of LocalToGlobal's since the frame is
// orthonormal.
func (c Coordinate) GlobalToLocal(v vec.Vec3) vec.Vec3 {
	return vec.New(
		v.X*c.X.X+v.Y*c.X.Y+v.Z*c.X.Z,
		v.X*c.Y.X+v.Y*c.Y.Y+v.Z*c.Y.Z,
		v.X*c.Z.X+v.Y*c.Z.Y+v.Z*c.Z.Z,
	)
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

func sin32(a float32) float32 { return float32(math.Sin(float64(a))) }
func cos32(a float32) float32 { return float32(math.Cos(float64(a))) }

// Quaternion is a unit quaternion used by the rotation-based camera
// constructor.
type Quaternion struct {
	W, X, Y, Z float32
}

func NewQuaternion(w, x, y, z float32) Quaternion {
	return Quaternion{w, x, y, z}
}

// FromVec3 embeds a vector as a pure quaternion (w = 0), the form used to
// rotate a vector via conjugation.
func FromVec3(v vec.Vec3) Quaternion {
	return Quaternion{0, v.X, v.Y, v.Z}
}

// Hamilton is the quaternion (Hamilton) product q * o.
func (q Quaternion) Hamilton(o Quaternion) Quaternion {
	return Quaternion{
		W: q.W*o.W - q.X*o.X - q.Y*o.Y - q.Z*o.Z,
		X: q.W*o.X + q.X*o.W + q.Y*o.Z - q.Z*o.Y,
		Y: q.W*o.Y - q.X*o.Z + q.Y*o.W + q.Z*o.X,
		Z: q.W*o.Z + q.X*o.Y - q.Y*o.X + q.Z*o.W,
	}
}

// XYZ extracts the vector part of the quaternion.
func (q Quaternion) XYZ() vec.Vec3 { return vec.New(q.X, q.Y, q.Z) }

// Conj is the quaternion conjugate.
func (q Quaternion) Conj() Quaternion { return Quaternion{q.W, -q.X, -q.Y, -q.Z} }

// Rotate rotates v by this (assumed unit) quaternion via q * v * conj(q).
func (q Quaternion) Rotate(v vec.Vec3) vec.Vec3 {
	return q.Hamilton(FromVec3(v)).Hamilton(q.Conj()).XYZ()
}

// FromEuler builds a unit quaternion from Euler angles (radians) applied in
// the Blender convention: rotate about X, then Y, then Z, composed as
// qz * qy * qx.
func FromEuler(x, y, z float32) Quaternion {
	hx, hy, hz := x*0.5, y*0.5, z*0.5
	qx := Quaternion{cos32(hx), sin32(hx), 0, 0}
	qy := Quaternion{cos32(hy), 0, sin32(hy), 0}
	qz := Quaternion{cos32(hz), 0, 0, sin32(hz)}
	return qz.Hamilton(qy).Hamilton(qx)
}
