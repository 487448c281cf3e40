// Command gopt is the path tracer's CLI entry point: it loads a scene,
// fans work out across a worker pool, and writes the accumulated canvas
// to a PNG, with an optional ebiten preview window.
package main

import (
	"context"
	"flag"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math"
	"os"
	"runtime"
	"sync"
	"time"

	"github.com/nthall/gopt/internal/dispatch"
	"github.com/nthall/gopt/internal/film"
	"github.com/nthall/gopt/internal/gui"
	"github.com/nthall/gopt/internal/logx"
	"github.com/nthall/gopt/internal/progress"
	"github.com/nthall/gopt/internal/scene"
	"github.com/nthall/gopt/internal/vec"
)

func main() {
	scenePath := flag.String("scene", "", "path to a scene description (unset: renders a built-in Cornell box)")
	outPath := flag.String("out", "out.png", "output PNG path")
	width := flag.Uint("width", 512, "image width in pixels")
	height := flag.Uint("height", 512, "image height in pixels")
	spp := flag.Uint64("spp", 64, "samples per pixel")
	workers := flag.Int("workers", runtime.NumCPU(), "worker goroutine count")
	seed := flag.Uint64("seed", 1, "base RNG seed")
	integratorName := flag.String("integrator", "nee", "integrator: naive|nee")
	useGUI := flag.Bool("gui", false, "launch the interactive preview window")
	verbose := flag.Bool("v", false, "enable trace logging")
	flag.Parse()

	logx.SetVerbose(*verbose)

	var kind dispatch.IntegratorKind
	switch *integratorName {
	case "naive":
		kind = dispatch.IntegratorNaive
	case "nee":
		kind = dispatch.IntegratorNEEMIS
	default:
		fmt.Fprintf(os.Stderr, "[gopt] error: -integrator must be naive or nee, got %q\n", *integratorName)
		os.Exit(1)
	}

	loader := scene.DefaultLoader{Width: uint32(*width), Height: uint32(*height)}
	sc, err := loader.Load(*scenePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "[gopt] error: loading scene: %v\n", err)
		os.Exit(1)
	}

	var src *frameSourceAdapter
	if *useGUI {
		src = newFrameSourceAdapter(int(*width), int(*height))
	}

	app := newApp(sc, uint32(*width), uint32(*height), *spp, *seed, kind, *workers, src)

	if *useGUI {
		app.runWithGUI(src)
	} else {
		app.runHeadless()
	}

	if err := writePNG(*outPath, app.canvas, uint32(*width), uint32(*height), *spp); err != nil {
		fmt.Fprintf(os.Stderr, "[gopt] error: writing %s: %v\n", *outPath, err)
		os.Exit(1)
	}
}

// app wires the dispatcher, film, and progress reporter together for one
// render. canvas is only valid after runHeadless/runWithGUI returns.
type app struct {
	disp    *dispatch.Dispatcher
	canvasC <-chan []vec.Vec3
	filmC   *film.Child

	width, height uint32
	spp           uint64

	prog *progress.Reporter
	src  *frameSourceAdapter

	canvas []vec.Vec3
}

func newApp(sc *scene.Scene, width, height uint32, spp, seed uint64, kind dispatch.IntegratorKind, workers int, src *frameSourceAdapter) *app {
	var display func(canvas []vec.Vec3, width, height int, samplesScale float32)
	if src != nil {
		display = src.update
	}
	canvasC, filmC := film.New(int(width), int(height), spp, display)

	d := dispatch.New(256)
	d.SetSplatSource(filmC)
	d.UpdateState(&dispatch.State{
		Width: width, Height: height,
		Integrator: kind, BaseSeed: seed,
		Scene: sc, Cam: sc.Cam,
	})
	<-d.Updates() // WorkQueueCleared published by UpdateState

	if src != nil {
		src.spp = spp
	}

	a := &app{
		disp: d, canvasC: canvasC, filmC: filmC,
		width: width, height: height, spp: spp,
		prog: progress.New(spp, uint64(width)*uint64(height)),
		src:  src,
	}

	ctx := context.Background()
	go func() {
		if err := d.RunWorkers(ctx, workers); err != nil {
			logx.Error("worker pool: %v", err)
		}
	}()

	d.WorkSamples(spp, 1)
	return a
}

// drainUpdates forwards dispatcher calculations into the film and
// reports progress until every expected splat has landed, then signals
// the film to finish and waits for the accumulated canvas. Every 64
// batches it also asks the film to refresh its display callback, so a
// GUI's live preview advances instead of staying blank until the end.
func (a *app) drainUpdates() {
	expectedSplats := a.spp * uint64(a.width) * uint64(a.height)
	var splatsSeen uint64
	var batches uint64

	for splatsSeen < expectedSplats {
		u := <-a.disp.Updates()
		switch u.Kind {
		case dispatch.UpdateCalculation:
			a.filmC.AddResults(film.Results{RaysShot: u.Calc.Rays, Splats: u.Calc.Splats})
			splatsSeen += uint64(len(u.Calc.Splats))
			a.prog.Report(u.Calc.Rays, len(u.Calc.Splats))
			if a.src != nil {
				a.src.recordProgress(u.Calc.Rays, len(u.Calc.Splats))
			}

			batches++
			if batches%64 == 0 {
				a.filmC.DisplayImageBlocking()
			}
		case dispatch.UpdateNoState, dispatch.UpdateWorkQueueCleared:
			logx.Trace("dispatch: %v", u.Kind)
		}
	}

	a.filmC.FinishRender()
	a.canvas = <-a.canvasC
	a.prog.Finish()
}

func (a *app) runHeadless() {
	a.drainUpdates()
}

// frameSourceAdapter lets the GUI read the live canvas and throughput
// without the gui package depending on vec.Vec3, film, or dispatch
// internals. update is passed to film.New as its display callback, so it
// runs on the film's own goroutine each time a DisplayImageBlocking
// message arrives; recordProgress is fed the same per-batch rays/splats
// counters drainUpdates hands the headless progress.Reporter.
type frameSourceAdapter struct {
	mu   sync.Mutex
	pix  []byte
	w, h int
	spp  uint64

	raysShot        uint64
	splatsDone      uint64
	splatsPerSample uint64
	samplesDone     uint64
	start           time.Time
}

func newFrameSourceAdapter(w, h int) *frameSourceAdapter {
	return &frameSourceAdapter{
		pix: make([]byte, w*h*4), w: w, h: h,
		splatsPerSample: uint64(w * h),
		start:           time.Now(),
	}
}

func (f *frameSourceAdapter) update(canvas []vec.Vec3, width, height int, samplesScale float32) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, c := range canvas {
		v := c.Scale(samplesScale)
		f.pix[i*4+0] = tonemap(v.X)
		f.pix[i*4+1] = tonemap(v.Y)
		f.pix[i*4+2] = tonemap(v.Z)
		f.pix[i*4+3] = 255
	}
}

// recordProgress accumulates a completed work batch's rays and splats,
// the same counters the headless progress.Reporter tracks.
func (f *frameSourceAdapter) recordProgress(rays uint64, splats int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.raysShot += rays
	f.splatsDone += uint64(splats)
	if f.splatsPerSample > 0 {
		f.samplesDone = f.splatsDone / f.splatsPerSample
	}
}

func (f *frameSourceAdapter) Snapshot() ([]byte, int, int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.pix, f.w, f.h
}

func (f *frameSourceAdapter) Stats() (raysPerSec, splatsPerSec float64, samplesDone, samplesTotal uint64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	secs := time.Since(f.start).Seconds()
	if secs <= 0 {
		secs = 1e-9
	}
	raysPerSec = 1e-6 * float64(f.raysShot) / secs
	splatsPerSec = 1e-6 * float64(f.splatsDone) / secs
	return raysPerSec, splatsPerSec, f.samplesDone, f.spp
}

func (a *app) runWithGUI(src *frameSourceAdapter) {
	done := make(chan struct{})
	go func() {
		a.drainUpdates()
		close(done)
	}()

	w := gui.New(int(a.width), int(a.height), src, a.disp)
	if err := gui.Run(w, "gopt preview"); err != nil {
		logx.Error("gui: %v", err)
	}
	<-done
}

// writePNG tonemaps the accumulated canvas (divide by sample count,
// gamma-correct, clamp) and encodes it as an 8-bit PNG.
func writePNG(path string, canvas []vec.Vec3, width, height uint32, spp uint64) error {
	img := image.NewRGBA(image.Rect(0, 0, int(width), int(height)))
	scale := 1 / float32(spp)

	for y := 0; y < int(height); y++ {
		for x := 0; x < int(width); x++ {
			c := canvas[y*int(width)+x].Scale(scale)
			img.SetRGBA(x, y, color.RGBA{
				R: tonemap(c.X), G: tonemap(c.Y), B: tonemap(c.Z), A: 255,
			})
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return png.Encode(f, img)
}

func tonemap(v float32) uint8 {
	if v < 0 {
		v = 0
	}
	gamma := float32(math.Pow(float64(v), 1/2.2))
	if gamma > 1 {
		gamma = 1
	}
	return uint8(gamma*255 + 0.5)
}
