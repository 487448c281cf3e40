package dispatch

import (
	"context"
	"testing"
	"time"

	"github.com/nthall/gopt/internal/camera"
	"github.com/nthall/gopt/internal/envmap"
	"github.com/nthall/gopt/internal/film"
	"github.com/nthall/gopt/internal/geom"
	"github.com/nthall/gopt/internal/material"
	"github.com/nthall/gopt/internal/scene"
	"github.com/nthall/gopt/internal/texture"
	"github.com/nthall/gopt/internal/vec"
)

func oneTriangleScene() *scene.Scene {
	verts := []vec.Vec3{
		vec.New(-1, -1, 5),
		vec.New(1, -1, 5),
		vec.New(0, 1, 5),
	}
	normals := []vec.Vec3{vec.New(0, 0, -1)}
	uvs := []vec.Vec2{vec.NewV2(0, 0)}
	tri := geom.NewTriangle([3]int{0, 1, 2}, [3]int{0, 0, 0}, [3]int{0, 0, 0}, 0)
	mats := []material.Material{material.Light{Irradiance: vec.New(1, 1, 1)}}
	texs := []texture.Texture{texture.NewSolid(vec.One)}
	cam := camera.New(vec.Zero, vec.New(0, 0, 1), vec.New(0, 1, 0), 60, 1, camera.DefaultSettings(4, 4))
	return scene.New(verts, normals, uvs, []geom.Triangle{tri}, mats, texs, envmap.Default, cam)
}

func testState() *State {
	s := oneTriangleScene()
	return &State{
		Width: 4, Height: 4,
		Integrator: IntegratorNaive,
		BaseSeed:   1,
		Scene:      s,
		Cam:        s.Cam,
	}
}

func TestWorkSamplesWithNoStatePublishesNoState(t *testing.T) {
	d := New(4)
	d.WorkSamples(1, 1)

	select {
	case u := <-d.Updates():
		if u.Kind != UpdateNoState {
			t.Fatalf("expected UpdateNoState, got %v", u.Kind)
		}
	default:
		t.Fatalf("expected an update to be published")
	}
}

func TestUpdateStateThenWorkSamplesProducesResults(t *testing.T) {
	d := New(16)
	d.UpdateState(testState())
	<-d.Updates() // WorkQueueCleared from UpdateState

	d.WorkSamples(1, 1)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	go d.RunWorkers(ctx, 2)

	var sawCalc bool
	deadline := time.After(time.Second)
	for !sawCalc {
		select {
		case u := <-d.Updates():
			if u.Kind == UpdateCalculation {
				sawCalc = true
				if len(u.Calc.Splats) == 0 {
					t.Fatalf("expected a calculation to carry splats")
				}
				if u.Calc.WorkloadID != 1 {
					t.Fatalf("expected workload id 1, got %v", u.Calc.WorkloadID)
				}
			}
		case <-deadline:
			t.Fatalf("timed out waiting for a calculation result")
		}
	}
}

func TestStaleWorkloadResultsAreDiscarded(t *testing.T) {
	d := New(16)
	d.UpdateState(testState())
	<-d.Updates()

	// Enqueue a single work item under workload 1, then immediately move
	// the dispatcher on to workload 2 before any worker has a chance to
	// run. The in-flight item's result must never reach the update
	// channel's Calculation case with workload id 1.
	d.WorkSamples(1, 1)
	d.currentWorkloadID.Store(2)

	w, ok := d.getWork()
	if !ok {
		t.Fatalf("expected a queued work item")
	}
	d.processWork(w)

	select {
	case u := <-d.Updates():
		if u.Kind == UpdateCalculation {
			t.Fatalf("expected the stale workload's result to be discarded, got a Calculation")
		}
	case <-time.After(50 * time.Millisecond):
		// no update published: the stale result was correctly dropped.
	}
}

type stubSplatSource struct {
	buf   []film.Splat
	calls int
}

func (s *stubSplatSource) GetSplatBuffer() []film.Splat {
	s.calls++
	return s.buf
}

func TestProcessWorkReusesRecycledSplatBuffer(t *testing.T) {
	d := New(4)
	d.UpdateState(testState())
	<-d.Updates()

	recycled := make([]film.Splat, 0, 64)
	src := &stubSplatSource{buf: recycled}
	d.SetSplatSource(src)

	d.WorkSamples(1, 1)
	w, ok := d.getWork()
	if !ok {
		t.Fatalf("expected a queued work item")
	}
	d.processWork(w)

	if src.calls == 0 {
		t.Fatalf("expected processWork to pull a buffer from the splat source")
	}

	u := <-d.Updates()
	if u.Kind != UpdateCalculation {
		t.Fatalf("expected a calculation update, got %v", u.Kind)
	}
	if cap(u.Calc.Splats) != cap(recycled) {
		t.Fatalf("expected the calculation to carry the recycled backing array's capacity, got cap %d want %d", cap(u.Calc.Splats), cap(recycled))
	}
}

func TestAcquireSplatBufferFallsBackToAllocationWhenFreeListEmpty(t *testing.T) {
	d := New(4)
	src := &stubSplatSource{buf: nil}
	d.SetSplatSource(src)

	buf := d.acquireSplatBuffer(8)
	if src.calls != 1 {
		t.Fatalf("expected the splat source to be consulted once")
	}
	if cap(buf) != 8 || len(buf) != 0 {
		t.Fatalf("expected a fresh zero-length buffer with the requested capacity, got len %d cap %d", len(buf), cap(buf))
	}
}

func TestShutdownClearsQueuedWork(t *testing.T) {
	d := New(16)
	d.UpdateState(testState())
	<-d.Updates()

	d.WorkSamples(4, 1)
	d.Shutdown()
	<-d.Updates() // WorkQueueCleared from Shutdown

	if _, ok := d.getWork(); ok {
		t.Fatalf("expected the queue to be empty after Shutdown")
	}
}
