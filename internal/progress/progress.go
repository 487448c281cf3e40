// Package progress renders a single, carriage-return-updated status line
// for headless (non-GUI) renders: percent complete, rays/sec, and an
// ETA, sized to the terminal width the way a well-behaved CLI tool
// should rather than wrapping mid-render.
package progress

import (
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"golang.org/x/term"
)

// fallbackWidth is used when the terminal size cannot be queried, e.g.
// stdout redirected to a file.
const fallbackWidth = 80

// Reporter tracks cumulative ray/splat counts against a known total and
// redraws a status line on each Report call. Safe for concurrent use;
// cmd/gopt reports to it from its single update-draining goroutine.
type Reporter struct {
	mu sync.Mutex

	fd           int
	totalSamples uint64
	splatsPerFrm uint64

	raysShot    uint64
	splatsDone  uint64
	samplesDone uint64

	start    time.Time
	lastDraw time.Time
}

// New creates a Reporter for a render of totalSamples samples, each
// sample consisting of splatsPerFrame splats (width*height for a
// one-splat-per-pixel integrator).
func New(totalSamples, splatsPerFrame uint64) *Reporter {
	now := time.Now()
	return &Reporter{
		fd:           int(os.Stdout.Fd()),
		totalSamples: totalSamples,
		splatsPerFrm: splatsPerFrame,
		start:        now,
		lastDraw:     now,
	}
}

// Report records a completed batch of rays/splats and redraws the status
// line, throttled to at most once every 100ms so a flood of small
// batches doesn't thrash the terminal.
func (r *Reporter) Report(rays uint64, splats int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.raysShot += rays
	r.splatsDone += uint64(splats)
	if r.splatsPerFrm > 0 {
		r.samplesDone = r.splatsDone / r.splatsPerFrm
	}

	now := time.Now()
	if now.Sub(r.lastDraw) < 100*time.Millisecond && r.samplesDone < r.totalSamples {
		return
	}
	r.lastDraw = now
	r.draw(now)
}

func (r *Reporter) draw(now time.Time) {
	secs := now.Sub(r.start).Seconds()
	if secs <= 0 {
		secs = 1e-9
	}

	var pct float64
	if r.totalSamples > 0 {
		pct = 100 * float64(r.samplesDone) / float64(r.totalSamples)
	}

	raysPerSec := 1e-6 * float64(r.raysShot) / secs

	var eta time.Duration
	if r.samplesDone > 0 && r.totalSamples > r.samplesDone {
		perSample := secs / float64(r.samplesDone)
		eta = time.Duration(perSample * float64(r.totalSamples-r.samplesDone) * float64(time.Second))
	}

	line := fmt.Sprintf("[%5.1f%%] sample %d/%d  %.2f MRay/s  eta %s",
		pct, r.samplesDone, r.totalSamples, raysPerSec, roundSeconds(eta))

	width := r.terminalWidth()
	if len(line) > width {
		line = line[:width]
	} else {
		line += strings.Repeat(" ", width-len(line))
	}
	fmt.Fprintf(os.Stdout, "\r%s", line)
}

func (r *Reporter) terminalWidth() int {
	if w, _, err := term.GetSize(r.fd); err == nil && w > 0 {
		return w
	}
	return fallbackWidth
}

// Finish redraws a final 100% line and moves to a fresh line, then
// prints the same summary the film package's batch stats would: total
// rays/splats and throughput over the render's wall-clock duration.
func (r *Reporter) Finish() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.draw(time.Now())
	fmt.Fprintln(os.Stdout)

	secs := time.Since(r.start).Seconds()
	if secs <= 0 {
		return
	}
	fmt.Printf("time taken: %.0fs\n", secs)
	fmt.Printf("rays shot: %d @ %.2f MRay/s\n", r.raysShot, 1e-6*float64(r.raysShot)/secs)
	fmt.Printf("splats done: %d @ %.2f MSplat/s\n", r.splatsDone, 1e-6*float64(r.splatsDone)/secs)
}

func roundSeconds(d time.Duration) time.Duration {
	return d.Round(time.Second)
}
