package envmap

import (
	"image"
	"image/color"
	"testing"

	"github.com/nthall/gopt/internal/vec"
)

func make1x1Image() image.Image {
	img := image.NewNRGBA(image.Rect(0, 0, 1, 1))
	img.Set(0, 0, color.NRGBA{R: 255, G: 0, B: 0, A: 255})
	return img
}

func TestSolidIgnoresDirection(t *testing.T) {
	e := NewSolid(vec.New(1, 2, 3))
	got := e.SampleDir(vec.UnitZ)
	want := vec.New(1, 2, 3)
	if got != want {
		t.Fatalf("got %v want %v", got, want)
	}
}

func TestSampleDirStraightUpMapsToThetaZero(t *testing.T) {
	img := make1x1Image()
	e := NewImage(img)
	got := e.SampleDir(vec.UnitZ)
	if got.X != 1 {
		t.Fatalf("expected the single-texel image's value, got %v", got)
	}
}
