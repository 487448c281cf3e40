// Package film runs the single-writer canvas accumulator: splats arrive
// from worker goroutines over a channel, are folded into a pixel buffer,
// and the canvas is handed back once the render finishes (§4.9).
package film

import (
	"fmt"
	"sync"
	"time"

	"github.com/nthall/gopt/internal/vec"
)

// Splat is one weighted radiance contribution at a film-plane UV
// coordinate.
type Splat struct {
	UV  vec.Vec2
	RGB vec.Vec3
}

// Results is a worker's completed batch: the rays it traced and the
// splats it produced.
type Results struct {
	RaysShot uint64
	Splats   []Splat
}

// toFilm is the message Film's run loop consumes; exactly one of the
// fields is meaningful per message, selected by kind.
type toFilm struct {
	kind    toFilmKind
	results Results
}

type toFilmKind int

const (
	kindResults toFilmKind = iota
	kindDisplayImage
	kindFinishRender
)

// Film owns the canvas exclusively; it runs on its own goroutine and is
// only ever reached through a Child handle.
type Film struct {
	readyToUse *sync.Mutex
	freeList   *[][]Splat
	canvas     []vec.Vec3
	recv       chan toFilm
	width      int
	height     int
	stats      *stats
	display    func(canvas []vec.Vec3, width, height int, samplesScale float32)
}

// New spawns the film's accumulator goroutine and returns a channel that
// will receive the final canvas once the render finishes, plus the
// Child handle workers use to submit results.
//
// display, if non-nil, is called synchronously from the film goroutine
// whenever a DisplayImage message arrives (e.g. to push a frame to a GUI
// preview window); it must not block indefinitely.
func New(width, height int, totalSamples uint64, display func(canvas []vec.Vec3, width, height int, samplesScale float32)) (<-chan []vec.Vec3, *Child) {
	recv := make(chan toFilm, 64)
	var mu sync.Mutex
	var freeList [][]Splat

	f := &Film{
		readyToUse: &mu,
		freeList:   &freeList,
		canvas:     make([]vec.Vec3, width*height),
		recv:       recv,
		width:      width,
		height:     height,
		stats:      newStats(totalSamples, uint64(width*height)),
		display:    display,
	}

	out := make(chan []vec.Vec3, 1)
	child := &Child{readyToUse: &mu, freeList: &freeList, send: recv}

	go func() {
		out <- f.run()
	}()

	return out, child
}

func (f *Film) run() []vec.Vec3 {
	for msg := range f.recv {
		switch msg.kind {
		case kindDisplayImage:
			f.displayBlocking()
			continue
		case kindFinishRender:
			f.stats.finish()
			return f.canvas
		case kindResults:
			f.addSplats(msg.results.Splats)
			f.stats.addBatch(msg.results.RaysShot, len(msg.results.Splats))

			splats := msg.results.Splats[:0]
			f.readyToUse.Lock()
			*f.freeList = append(*f.freeList, splats)
			f.readyToUse.Unlock()
		}
	}
	return f.canvas
}

func (f *Film) addSplats(splats []Splat) {
	for _, s := range splats {
		idx := f.uvToIdx(s.UV)
		f.canvas[idx] = f.canvas[idx].Add(s.RGB)
	}
}

func (f *Film) uvToIdx(uv vec.Vec2) int {
	x := int(uv.X * float32(f.width))
	y := int(uv.Y * float32(f.height))
	idx := y*f.width + x
	if max := f.width*f.height - 1; idx > max {
		idx = max
	}
	return idx
}

func (f *Film) displayBlocking() {
	if f.display == nil {
		return
	}
	mult := float32(float64(f.width*f.height) / float64(f.stats.splatsDone))
	f.display(f.canvas, f.width, f.height, mult)
}

// Child is the handle worker goroutines hold to submit results and to pull
// a recycled splat buffer from the free-list, avoiding an allocation per
// task (§3: "their splat buffers are recycled via a free-list guarded by a
// lock").
type Child struct {
	readyToUse *sync.Mutex
	freeList   *[][]Splat
	send       chan<- toFilm
}

// AddResults submits a worker's completed batch to the film.
func (c *Child) AddResults(r Results) {
	c.send <- toFilm{kind: kindResults, results: r}
}

// GetSplatBuffer pops a recycled splat slice from the free-list, or
// returns nil if none is available yet.
func (c *Child) GetSplatBuffer() []Splat {
	c.readyToUse.Lock()
	defer c.readyToUse.Unlock()
	n := len(*c.freeList)
	if n == 0 {
		return nil
	}
	buf := (*c.freeList)[n-1]
	*c.freeList = (*c.freeList)[:n-1]
	return buf
}

// FinishRender tells the film no more results are coming; it will flush
// its stats and return the canvas on New's result channel.
func (c *Child) FinishRender() {
	c.send <- toFilm{kind: kindFinishRender}
}

// DisplayImageBlocking asks the film goroutine to push the current
// canvas through its display callback.
func (c *Child) DisplayImageBlocking() {
	c.send <- toFilm{kind: kindDisplayImage}
}

// stats tracks render throughput the way FilmStats does, minus the
// terminal progress bar rendering itself (owned by internal/progress).
type stats struct {
	raysShot        uint64
	splatsDone      uint64
	splatsPerSample uint64
	samplesDone     uint64
	sampleSplats    uint64
	sampleRays      uint64
	start           time.Time
	lastSample      time.Time
	totalSamples    uint64
}

func newStats(totalSamples, splatsPerSample uint64) *stats {
	now := time.Now()
	return &stats{
		splatsPerSample: splatsPerSample,
		start:           now,
		lastSample:      now,
		totalSamples:    totalSamples,
	}
}

func (s *stats) addBatch(rays uint64, splats int) {
	s.raysShot += rays
	s.sampleRays += rays
	s.splatsDone += uint64(splats)
	s.sampleSplats += uint64(splats)
	if s.sampleSplats >= s.splatsPerSample {
		s.samplesDone++
		s.lastSample = time.Now()
		s.sampleRays = 0
		s.sampleSplats = 0
	}
}

func (s *stats) finish() {
	dur := time.Since(s.start)
	secs := dur.Seconds()
	if s.samplesDone == 0 || secs == 0 {
		return
	}
	fmt.Printf("time taken: %.0fs @ %.1f ms/sample\n", dur.Seconds(), 1e3*secs/float64(s.samplesDone))
	fmt.Printf("rays shot: %d @ %.2f MRay/s\n", s.raysShot, 1e-6*float64(s.raysShot)/secs)
	fmt.Printf("splats done: %d @ %.2f MSplat/s\n", s.splatsDone, 1e-6*float64(s.splatsDone)/secs)
	if s.splatsDone > 0 {
		fmt.Printf("average ray depth: %.2f\n", float64(s.raysShot)/float64(s.splatsDone))
	}
}
