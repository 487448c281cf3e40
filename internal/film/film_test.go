package film

import (
	"testing"

	"github.com/nthall/gopt/internal/vec"
)

func TestSplatsAccumulateIntoCorrectPixel(t *testing.T) {
	out, child := New(4, 4, 1, nil)

	child.AddResults(Results{
		RaysShot: 10,
		Splats: []Splat{
			{UV: vec.NewV2(0.1, 0.1), RGB: vec.New(1, 0, 0)},
			{UV: vec.NewV2(0.1, 0.1), RGB: vec.New(1, 0, 0)},
			{UV: vec.NewV2(0.9, 0.9), RGB: vec.New(0, 0, 1)},
		},
	})
	child.FinishRender()

	canvas := <-out
	if got := canvas[0]; got.X != 2 {
		t.Fatalf("expected pixel (0,0) to accumulate two red splats, got %v", got)
	}
	lastIdx := len(canvas) - 1
	if got := canvas[lastIdx]; got.Z != 1 {
		t.Fatalf("expected the last pixel to hold the blue splat, got %v", got)
	}
}

func TestSplatBufferRecycling(t *testing.T) {
	out, child := New(2, 2, 1, nil)
	if buf := child.GetSplatBuffer(); buf != nil {
		t.Fatalf("expected no recycled buffer before any batch is submitted")
	}

	child.AddResults(Results{RaysShot: 1, Splats: []Splat{{UV: vec.NewV2(0, 0), RGB: vec.One}}})
	// FinishRender is processed strictly after the batch above since the
	// film goroutine drains its channel in order; waiting on out blocks
	// until both have been handled.
	child.FinishRender()
	<-out

	buf := child.GetSplatBuffer()
	if buf == nil {
		t.Fatalf("expected the submitted batch's buffer to be recycled onto the free-list")
	}
	if len(buf) != 0 {
		t.Fatalf("expected the recycled buffer's length to be reset to zero, got %d", len(buf))
	}
}

func TestEmptySplatsBatchIsANoOp(t *testing.T) {
	out, child := New(2, 2, 1, nil)
	child.AddResults(Results{RaysShot: 0, Splats: nil})
	child.FinishRender()
	canvas := <-out
	if len(canvas) != 4 {
		t.Fatalf("expected a 2x2 canvas, got %d pixels", len(canvas))
	}
	for _, c := range canvas {
		if c != vec.Zero {
			t.Fatalf("expected an empty splats batch to leave the canvas untouched, got %v", c)
		}
	}
}
