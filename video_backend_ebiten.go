//go:build !headless

// video_backend_ebiten.go - windowed displayBackend, backed by ebiten
//
// Grounded on _examples/IntuitionAmiga-IntuitionEngine/video_backend_ebiten.go:
// the RunGame-in-a-goroutine bridge between ebiten's callback-driven loop and
// this emulator's own pull-based Present call is carried over, with the
// teacher's one-way vsync signal replaced by a presentReq/presentAck round
// trip; everything about keyboard-to-byte
// translation and clipboard paste is dropped, since WBOX's only input path
// is the guest's own NT console handles (§3/§4.1), not an interactive
// terminal passthrough.
//
// License: GPLv3 or later

package main

import (
	"sync"

	"github.com/hajimehoshi/ebiten/v2"
)

type displayBackendEbiten struct {
	w, h int
	// pixels is the live ARGB8888 buffer the VM core's screen DC writes
	// into directly; bufMu only guards the BGRA->RGBA conversion copy made
	// for ebiten's WritePixels, not guest-side drawing itself (the VM is
	// single-threaded, per spec §5).
	pixels []byte
	bufMu  sync.Mutex

	window *ebiten.Image
	rgba   []byte

	title string

	closed    bool
	closeOnce sync.Once

	presentReq chan struct{}
	presentAck chan struct{}
	ready      chan struct{}
}

func init() {
	compiledFeatures = append(compiledFeatures, "display-ebiten")
}

func newDisplayBackend() displayBackend {
	return &displayBackendEbiten{
		presentReq: make(chan struct{}, 1),
		presentAck: make(chan struct{}, 1),
		ready:      make(chan struct{}),
	}
}

func (e *displayBackendEbiten) Init(w, h int, title string) error {
	e.w, e.h = w, h
	e.pixels = make([]byte, w*h*4)
	e.rgba = make([]byte, w*h*4)
	e.title = title

	ebiten.SetWindowSize(w, h)
	ebiten.SetWindowTitle(title)
	ebiten.SetWindowResizable(true)
	ebiten.SetRunnableOnUnfocused(true)
	ebiten.SetVsyncEnabled(true)

	go func() {
		if err := ebiten.RunGame(e); err != nil {
			e.closeOnce.Do(func() { e.closed = true })
		}
	}()

	<-e.ready
	return nil
}

func (e *displayBackendEbiten) Dimensions() (int, int) { return e.w, e.h }

func (e *displayBackendEbiten) FrameBuffer() []byte { return e.pixels }

// Present requests ebiten's Draw callback blit the current buffer and blocks
// until that blit has happened, the same hand-off the teacher's
// UpdateFrame/WaitForVSync pair implemented with a channel.
func (e *displayBackendEbiten) Present() {
	select {
	case e.presentReq <- struct{}{}:
	default:
	}
	<-e.presentAck
}

func (e *displayBackendEbiten) PollEvents() bool {
	return e.closed || ebiten.IsWindowBeingClosed()
}

func (e *displayBackendEbiten) Close() error {
	e.closeOnce.Do(func() { e.closed = true })
	return nil
}

// --- ebiten.Game ---

func (e *displayBackendEbiten) Update() error {
	select {
	case <-e.ready:
	default:
		close(e.ready)
	}
	if e.closed || ebiten.IsWindowBeingClosed() {
		return ebiten.Termination
	}
	return nil
}

func (e *displayBackendEbiten) Draw(screen *ebiten.Image) {
	if e.window == nil {
		e.window = ebiten.NewImage(e.w, e.h)
	}

	select {
	case <-e.presentReq:
		e.bufMu.Lock()
		bgraToRGBA(e.rgba, e.pixels)
		e.bufMu.Unlock()
		e.window.WritePixels(e.rgba)
		select {
		case e.presentAck <- struct{}{}:
		default:
		}
	default:
	}

	screen.DrawImage(e.window, nil)
}

func (e *displayBackendEbiten) Layout(_, _ int) (int, int) {
	return e.w, e.h
}

// bgraToRGBA converts the core's internal byte order (B,G,R,A per pixel, as
// written by getPixel/setPixel in gdi_raster.go) into ebiten's expected
// (R,G,B,A) order.
func bgraToRGBA(dst, src []byte) {
	for i := 0; i+3 < len(src); i += 4 {
		dst[i+0] = src[i+2]
		dst[i+1] = src[i+1]
		dst[i+2] = src[i+0]
		dst[i+3] = src[i+3]
	}
}
