package main

import (
	"testing"
	"time"

	"github.com/nthall/gopt/internal/vec"
)

func TestFrameSourceAdapterStatsReflectsRecordedProgress(t *testing.T) {
	src := newFrameSourceAdapter(4, 4)
	src.spp = 10
	src.start = time.Now().Add(-time.Second)

	src.recordProgress(1000, 8)
	src.recordProgress(1000, 8)

	rays, splats, done, total := src.Stats()
	if rays <= 0 {
		t.Fatalf("expected a positive rays/sec figure once progress has been recorded, got %v", rays)
	}
	if splats <= 0 {
		t.Fatalf("expected a positive splats/sec figure once progress has been recorded, got %v", splats)
	}
	if total != 10 {
		t.Fatalf("expected Stats to report spp as the total, got %d", total)
	}
	// splatsPerSample is width*height == 16; 16 splats recorded is one full sample.
	if done != 1 {
		t.Fatalf("expected one completed sample, got %d", done)
	}
}

func TestFrameSourceAdapterStatsStartsAtZero(t *testing.T) {
	src := newFrameSourceAdapter(4, 4)
	src.spp = 10

	rays, splats, done, _ := src.Stats()
	if rays != 0 || splats != 0 || done != 0 {
		t.Fatalf("expected zeroed throughput before any progress is recorded, got rays=%v splats=%v done=%d", rays, splats, done)
	}
}

func TestFrameSourceAdapterUpdateTonemapsCanvasIntoPix(t *testing.T) {
	src := newFrameSourceAdapter(1, 1)
	src.update([]vec.Vec3{vec.New(1, 1, 1)}, 1, 1, 1)

	pix, w, h := src.Snapshot()
	if w != 1 || h != 1 {
		t.Fatalf("expected a 1x1 frame, got %dx%d", w, h)
	}
	if pix[3] != 255 {
		t.Fatalf("expected alpha to always be opaque, got %d", pix[3])
	}
	if pix[0] == 0 {
		t.Fatalf("expected a fully lit pixel to tonemap to a nonzero channel value")
	}
}

func TestTonemapClampsToByteRange(t *testing.T) {
	if got := tonemap(-1); got != 0 {
		t.Fatalf("expected a negative value to clamp to 0, got %d", got)
	}
	if got := tonemap(1e6); got != 255 {
		t.Fatalf("expected a huge value to clamp to 255, got %d", got)
	}
}
