// Package dispatch implements the versioned work queue and worker pool
// that drives rendering (§4.10): a GUI or CLI control goroutine pushes
// pixel-range work items tagged with a workload id, a fixed pool of
// worker goroutines pulls items and traces samples against the shared
// scene, and stale results (from a workload superseded by a newer
// UpdateState) are discarded rather than delivered.
package dispatch

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/nthall/gopt/internal/camera"
	"github.com/nthall/gopt/internal/film"
	"github.com/nthall/gopt/internal/integrator"
	"github.com/nthall/gopt/internal/logx"
	"github.com/nthall/gopt/internal/rng"
	"github.com/nthall/gopt/internal/scene"
	"github.com/nthall/gopt/internal/vec"
)

// minWorkgroupSize is the smallest pixel range a single work item covers,
// matching MIN_WORKGROUP_SIZE; larger frames split into more, not
// smaller, items.
const minWorkgroupSize = 4096

// parkInterval is how long an idle worker sleeps between queue polls; the
// reference implementation busy-loops instead, but a real sleep is the
// idiomatic Go equivalent of "park" without burning a core.
const parkInterval = 20 * time.Millisecond

// IntegratorKind selects which integrator a work item is traced with.
type IntegratorKind int

const (
	IntegratorNaive IntegratorKind = iota
	IntegratorNEEMIS
)

// State is the render configuration a work item is traced against; it is
// swapped out wholesale by UpdateState.
type State struct {
	Width, Height uint32
	Integrator    IntegratorKind
	BaseSeed      uint64
	Scene         *scene.Scene
	Cam           camera.Camera
}

// work is one item in the queue: a contiguous range of linear pixel
// indices (wrapping modulo width*height, as repeated samples of the same
// frame), tagged with the state and workload id in effect when it was
// queued.
type work struct {
	pixelsStart, pixelsEnd uint64
	state                  *State
	workID                 uint64
	workloadID             uint32
}

// Calculation is a completed work item's result: the splats it produced
// and how many rays it traced.
type Calculation struct {
	Splats     []film.Splat
	WorkloadID uint32
	Rays       uint64
}

// Update is a message surfaced from a worker (or the control loop) back
// to whatever is consuming render progress (a GUI, a CLI progress bar,
// or a test harness).
type Update struct {
	Kind UpdateKind
	Calc Calculation
}

type UpdateKind int

const (
	UpdateCalculation UpdateKind = iota
	UpdateNoState
	UpdateWorkQueueCleared
)

// SplatBufferSource hands a worker a recycled splat slice instead of
// making a fresh one per work item (§3, §4.9: splat buffers are recycled
// through a free-list guarded by a lock). GetSplatBuffer may return nil
// when the free-list is empty, in which case the caller allocates.
type SplatBufferSource interface {
	GetSplatBuffer() []film.Splat
}

// Dispatcher owns the work queue, the current State, and the worker
// pool. Zero value is not usable; construct with New.
type Dispatcher struct {
	mu    sync.Mutex
	queue []work

	state *State

	nextWorkID        uint64
	currentWorkloadID atomic.Uint32

	updates chan Update

	bufSource SplatBufferSource
}

// New creates a Dispatcher with no state and an empty queue. Updates are
// delivered on the returned channel's buffer; callers should drain it
// continuously once RunWorkers is started.
func New(updateBuffer int) *Dispatcher {
	return &Dispatcher{updates: make(chan Update, updateBuffer)}
}

// SetSplatSource installs the free-list a worker pulls a recycled splat
// buffer from before falling back to allocation. It must be called
// before RunWorkers starts; it is not safe to change concurrently with
// running workers.
func (d *Dispatcher) SetSplatSource(src SplatBufferSource) {
	d.bufSource = src
}

// Updates returns the channel workers publish progress and results on.
func (d *Dispatcher) Updates() <-chan Update { return d.updates }

// UpdateState installs a new render configuration, discarding any queued
// (not yet started) work items and notifying consumers the queue was
// cleared so they can reset any progress UI.
func (d *Dispatcher) UpdateState(s *State) {
	d.mu.Lock()
	d.queue = nil
	d.state = s
	d.mu.Unlock()
	d.updates <- Update{Kind: UpdateWorkQueueCleared}
}

// Shutdown clears the queue without installing new state, matching
// ComputeChange::Shutdown.
func (d *Dispatcher) Shutdown() {
	logx.Trace("dispatch: shutdown, clearing queue")
	d.mu.Lock()
	d.queue = nil
	d.mu.Unlock()
	d.updates <- Update{Kind: UpdateWorkQueueCleared}
}

// WorkSamples enqueues enough pixel-range work items to cover `samples`
// full-frame passes at the current state's resolution, tagged with
// workloadID. If no state has been installed yet, a NoState update is
// published instead and nothing is queued.
func (d *Dispatcher) WorkSamples(samples uint64, workloadID uint32) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.state == nil {
		d.updates <- Update{Kind: UpdateNoState}
		return
	}
	d.currentWorkloadID.Store(workloadID)

	framePixels := uint64(d.state.Width) * uint64(d.state.Height)
	workgroupSize := max64(minWorkgroupSize, framePixels/256)

	end := samples * framePixels
	for start := uint64(0); start < end; {
		stop := start + workgroupSize
		if stop > end {
			stop = end
		}
		d.queue = append(d.queue, work{
			pixelsStart: start, pixelsEnd: stop,
			state: d.state, workID: d.nextWorkID, workloadID: workloadID,
		})
		d.nextWorkID++
		start = stop
	}
}

// getWork pops the next queued item, or reports false if the queue is
// empty.
func (d *Dispatcher) getWork() (work, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if len(d.queue) == 0 {
		return work{}, false
	}
	w := d.queue[0]
	d.queue = d.queue[1:]
	return w, true
}

// RunWorkers starts numWorkers goroutines that pull work until ctx is
// canceled, using errgroup the way a bounded worker pool should: each
// worker's error (there are none in steady-state operation, but a
// panic-turned-error in integrator code would propagate) cancels the
// group.
func (d *Dispatcher) RunWorkers(ctx context.Context, numWorkers int) error {
	g, ctx := errgroup.WithContext(ctx)
	for i := 0; i < numWorkers; i++ {
		g.Go(func() error { return d.workerLoop(ctx) })
	}
	return g.Wait()
}

func (d *Dispatcher) workerLoop(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		w, ok := d.getWork()
		if !ok {
			logx.Trace("dispatch: worker parking for %v", parkInterval)
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(parkInterval):
			}
			continue
		}

		d.processWork(w)
	}
}

func (d *Dispatcher) processWork(w work) {
	r := rng.NewFromWork(w.state.BaseSeed, w.workID)

	framePixels := uint64(w.state.Width) * uint64(w.state.Height)
	splats := d.acquireSplatBuffer(int(w.pixelsEnd - w.pixelsStart))
	var rays uint64

	for pixelI := w.pixelsStart; pixelI < w.pixelsEnd; pixelI++ {
		idx := pixelI % framePixels
		uv, ray := w.state.Cam.GetRay(idx, r)

		var rgb vec.Vec3
		var count uint64
		switch w.state.Integrator {
		case IntegratorNaive:
			rgb, count = integrator.Naive(w.state.Scene, ray, r)
		default:
			rgb, count = integrator.NEEMIS(w.state.Scene, ray, r)
		}

		splats = append(splats, film.Splat{UV: uv, RGB: rgb})
		rays += count
	}

	if d.currentWorkloadID.Load() != w.workloadID {
		// A newer UpdateState/WorkSamples call superseded this workload
		// while we were tracing; drop the result instead of publishing it.
		logx.Trace("dispatch: discarding result of stale workload %d", w.workloadID)
		return
	}
	d.updates <- Update{Kind: UpdateCalculation, Calc: Calculation{Splats: splats, WorkloadID: w.workloadID, Rays: rays}}
}

// acquireSplatBuffer pops a recycled buffer from the free-list when one
// is wired and available, else allocates with capHint headroom.
func (d *Dispatcher) acquireSplatBuffer(capHint int) []film.Splat {
	if d.bufSource != nil {
		if buf := d.bufSource.GetSplatBuffer(); buf != nil {
			return buf[:0]
		}
	}
	return make([]film.Splat, 0, capHint)
}

func max64(a, b uint64) uint64 {
	if a > b {
		return a
	}
	return b
}
