// Package gui implements the optional interactive preview window (§12):
// an ebiten-backed surface that streams film snapshots instead of
// emulated video RAM, adapting the teacher's Update/Draw/Layout loop and
// frame-buffer-copy discipline, plus a debug HUD overlay and a
// copy-stats-to-clipboard hotkey.
package gui

import (
	"fmt"
	"image"
	"image/color"
	"sync"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"golang.design/x/clipboard"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// FrameSource is whatever the window reads frames and throughput stats
// from; cmd/gopt's frameSourceAdapter satisfies it without this package
// needing to know about vec.Vec3 or tonemapping.
type FrameSource interface {
	// Snapshot returns a tonemapped RGBA8 frame (row-major, 4 bytes per
	// pixel) and its dimensions.
	Snapshot() (pix []byte, width, height int)
	// Stats reports current throughput for the HUD overlay.
	Stats() (raysPerSec, splatsPerSec float64, samplesDone, samplesTotal uint64)
}

// Controller is the subset of dispatcher operations the window can
// trigger from keyboard input.
type Controller interface {
	Shutdown()
}

// Window is an ebiten.Game that mirrors the film canvas into a resizable
// preview window.
type Window struct {
	source     FrameSource
	controller Controller

	width, height int

	mu         sync.Mutex
	frame      *ebiten.Image
	scaled     *ebiten.Image
	scratchRGBA *image.RGBA

	clipboardOnce sync.Once
	clipboardOK   bool

	closed bool
}

// New creates a preview window of the given logical size, reading frames
// from source and forwarding the quit/shutdown key to controller.
func New(width, height int, source FrameSource, controller Controller) *Window {
	return &Window{
		width: width, height: height,
		source: source, controller: controller,
	}
}

// Run launches the ebiten window and blocks until it is closed. Must be
// called from the program's main goroutine, as ebiten requires.
func Run(w *Window, title string) error {
	ebiten.SetWindowSize(w.width, w.height)
	ebiten.SetWindowTitle(title)
	ebiten.SetWindowResizable(true)
	ebiten.SetRunnableOnUnfocused(true)
	return ebiten.RunGame(w)
}

func (w *Window) Update() error {
	if ebiten.IsWindowBeingClosed() || w.closed {
		if w.controller != nil {
			w.controller.Shutdown()
		}
		return ebiten.Termination
	}

	ctrl := ebiten.IsKeyPressed(ebiten.KeyControlLeft) || ebiten.IsKeyPressed(ebiten.KeyControlRight)
	if ctrl && inpututil.IsKeyJustPressed(ebiten.KeyC) {
		w.copyStatsToClipboard()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		w.closed = true
	}
	return nil
}

func (w *Window) copyStatsToClipboard() {
	w.clipboardOnce.Do(func() {
		w.clipboardOK = clipboard.Init() == nil
	})
	if !w.clipboardOK {
		return
	}
	rays, splats, done, total := w.source.Stats()
	text := fmt.Sprintf("rays/s: %.2fM  splats/s: %.2fM  sample %d/%d", rays, splats, done, total)
	clipboard.Write(clipboard.FmtText, []byte(text))
}

func (w *Window) Draw(screen *ebiten.Image) {
	pix, pw, ph := w.source.Snapshot()
	if pw == 0 || ph == 0 {
		return
	}

	w.mu.Lock()
	if w.scratchRGBA == nil || w.scratchRGBA.Bounds().Dx() != pw || w.scratchRGBA.Bounds().Dy() != ph {
		w.scratchRGBA = image.NewRGBA(image.Rect(0, 0, pw, ph))
	}
	copy(w.scratchRGBA.Pix, pix)

	if w.frame == nil || w.frame.Bounds().Dx() != pw || w.frame.Bounds().Dy() != ph {
		w.frame = ebiten.NewImage(pw, ph)
	}
	w.frame.WritePixels(w.scratchRGBA.Pix)
	w.mu.Unlock()

	sw, sh := screen.Bounds().Dx(), screen.Bounds().Dy()
	if sw == pw && sh == ph {
		screen.DrawImage(w.frame, nil)
	} else {
		dst := image.NewRGBA(image.Rect(0, 0, sw, sh))
		draw.NearestNeighbor.Scale(dst, dst.Bounds(), w.scratchRGBA, w.scratchRGBA.Bounds(), draw.Over, nil)
		if w.scaled == nil || w.scaled.Bounds().Dx() != sw || w.scaled.Bounds().Dy() != sh {
			w.scaled = ebiten.NewImage(sw, sh)
		}
		w.scaled.WritePixels(dst.Pix)
		screen.DrawImage(w.scaled, nil)
	}

	w.drawHUD(screen)
}

func (w *Window) drawHUD(screen *ebiten.Image) {
	rays, splats, done, total := w.source.Stats()
	text := fmt.Sprintf("%.2f MRay/s  %.2f MSplat/s  sample %d/%d", rays, splats, done, total)

	hud := image.NewRGBA(screen.Bounds())
	d := &font.Drawer{
		Dst:  hud,
		Src:  image.NewUniform(color.White),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(8, 16),
	}
	d.DrawString(text)

	overlay := ebiten.NewImageFromImage(hud)
	screen.DrawImage(overlay, nil)
}

func (w *Window) Layout(outsideWidth, outsideHeight int) (int, int) {
	return outsideWidth, outsideHeight
}
