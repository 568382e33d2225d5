//go:build headless

package main

import "testing"

func TestHeadlessBackend_InitSizesFrameBuffer(t *testing.T) {
	b := newDisplayBackend()
	if err := b.Init(320, 240, "test"); err != nil {
		t.Fatalf("Init returned error: %v", err)
	}
	w, h := b.Dimensions()
	if w != 320 || h != 240 {
		t.Fatalf("expected 320x240, got %dx%d", w, h)
	}
	if len(b.FrameBuffer()) != 320*240*4 {
		t.Fatalf("expected framebuffer of %d bytes, got %d", 320*240*4, len(b.FrameBuffer()))
	}
}

func TestHeadlessBackend_WritesThroughFrameBuffer(t *testing.T) {
	b := newDisplayBackend()
	if err := b.Init(4, 4, "test"); err != nil {
		t.Fatalf("Init returned error: %v", err)
	}
	fb := b.FrameBuffer()
	fb[0] = 0xAB
	if b.FrameBuffer()[0] != 0xAB {
		t.Fatal("expected FrameBuffer to return the same live slice across calls")
	}
}

func TestHeadlessBackend_PollEventsNeverQuits(t *testing.T) {
	b := newDisplayBackend()
	_ = b.Init(4, 4, "test")
	if b.PollEvents() {
		t.Fatal("headless backend should never report a quit request")
	}
	b.Present()
	if err := b.Close(); err != nil {
		t.Fatalf("Close returned error: %v", err)
	}
}
