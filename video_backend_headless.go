//go:build headless

// video_backend_headless.go - in-memory displayBackend for tests and CI
//
// Grounded on _examples/IntuitionAmiga-IntuitionEngine/video_backend_headless.go's
// build-tag pairing and no-op lifecycle shape, re-fitted to the narrower
// displayBackend contract in video_interface.go.
//
// License: GPLv3 or later

package main

type displayBackendHeadless struct {
	w, h   int
	pixels []byte
}

func init() {
	compiledFeatures = append(compiledFeatures, "display-headless")
}

func newDisplayBackend() displayBackend {
	return &displayBackendHeadless{}
}

func (h *displayBackendHeadless) Init(w, height int, title string) error {
	h.w, h.h = w, height
	h.pixels = make([]byte, w*height*4)
	return nil
}

func (h *displayBackendHeadless) Dimensions() (int, int) { return h.w, h.h }

func (h *displayBackendHeadless) FrameBuffer() []byte { return h.pixels }

func (h *displayBackendHeadless) Present() {}

func (h *displayBackendHeadless) PollEvents() bool { return false }

func (h *displayBackendHeadless) Close() error { return nil }
