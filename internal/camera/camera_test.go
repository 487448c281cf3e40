package camera

import (
	"testing"

	"github.com/nthall/gopt/internal/rng"
	"github.com/nthall/gopt/internal/vec"
)

func TestCentreRayPointsTowardLookAt(t *testing.T) {
	origin := vec.New(0, 0, -5)
	lookAt := vec.Zero
	s := DefaultSettings(100, 100)
	c := New(origin, lookAt, vec.New(0, 1, 0), 60, 1, s)

	ray := c.GetCentreRay(uint64(50) + uint64(50)*100)
	want := lookAt.Sub(origin).Normalized()
	if dot := ray.Dir.Dot(want); dot < 0.99 {
		t.Fatalf("center ray direction %v not close to look-at direction %v (dot=%v)", ray.Dir, want, dot)
	}
}

func TestGetRayStaysWithinPixelCell(t *testing.T) {
	s := DefaultSettings(10, 10)
	c := New(vec.New(0, 0, -5), vec.Zero, vec.New(0, 1, 0), 60, 1, s)
	r := rng.New(1, 2)

	uv, _ := c.GetRay(0, r)
	if uv.X < 0 || uv.X > 0.1 || uv.Y < 0 || uv.Y > 0.1 {
		t.Fatalf("jittered uv %v escaped pixel (0,0)'s cell", uv)
	}
}

func TestCropWindowShrinksRightAndUp(t *testing.T) {
	full := DefaultSettings(100, 100)
	cropped := Settings{Width: 100, Height: 100, U: Window{Lo: 0.25, Hi: 0.75}, V: Window{Lo: 0.25, Hi: 0.75}}

	origin := vec.New(0, 0, -5)
	cFull := New(origin, vec.Zero, vec.New(0, 1, 0), 60, 1, full)
	cCrop := New(origin, vec.Zero, vec.New(0, 1, 0), 60, 1, cropped)

	if cCrop.Right.Mag() >= cFull.Right.Mag() {
		t.Fatalf("cropped camera's right vector should shrink: full=%v cropped=%v", cFull.Right.Mag(), cCrop.Right.Mag())
	}
}
