package gui

import (
	"testing"

	"github.com/hajimehoshi/ebiten/v2"
)

type stubSource struct {
	pix           []byte
	width, height int
}

func (s stubSource) Snapshot() ([]byte, int, int) { return s.pix, s.width, s.height }
func (s stubSource) Stats() (float64, float64, uint64, uint64) { return 1.5, 0.5, 3, 10 }

type stubController struct{ shutdownCalled bool }

func (c *stubController) Shutdown() { c.shutdownCalled = true }

func TestWindowImplementsEbitenGame(t *testing.T) {
	w := New(64, 64, stubSource{}, &stubController{})
	var _ ebiten.Game = w
}

func TestLayoutEchoesOutsideSize(t *testing.T) {
	w := New(64, 64, stubSource{}, &stubController{})
	gw, gh := w.Layout(320, 240)
	if gw != 320 || gh != 240 {
		t.Fatalf("expected Layout to echo the outside size, got %d,%d", gw, gh)
	}
}
