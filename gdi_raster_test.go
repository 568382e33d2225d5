package main

import "testing"

func newTestDC(w, h int) *dc {
	return newScreenDC(0, surface{Pixels: make([]byte, w*h*4), W: w, H: h, Pitch: w * 4})
}

func TestColorrefRoundTrip(t *testing.T) {
	c := colorrefToARGB(0x00112233) // COLORREF 0x00BBGGRR
	back := argbToColorref(c)
	if back != 0x00112233 {
		t.Fatalf("expected 0x00112233, got 0x%08X", back)
	}
	if c&0xFF000000 != 0xFF000000 {
		t.Fatal("expected alpha forced to 0xFF on store")
	}
}

func TestApplyROP2_CopyPenAndBlack(t *testing.T) {
	if got := applyROP2(R2_COPYPEN, 0xFF112233, 0xFFAABBCC); got != 0xFFAABBCC {
		t.Fatalf("R2_COPYPEN: expected pen color, got 0x%08X", got)
	}
	if got := applyROP2(R2_BLACK, 0xFFFFFFFF, 0xFF000000); got != 0xFF000000 {
		t.Fatalf("R2_BLACK: expected black, got 0x%08X", got)
	}
}

func TestApplyROP3_SrcCopyAndBlackness(t *testing.T) {
	if got := applyROP3(ROP_SRCCOPY, 0xFF000000, 0xFF123456, 0); got != 0xFF123456 {
		t.Fatalf("SRCCOPY: expected src, got 0x%08X", got)
	}
	if got := applyROP3(ROP_BLACKNESS, 0xFFFFFFFF, 0xFFFFFFFF, 0xFFFFFFFF); got != 0xFF000000 {
		t.Fatalf("BLACKNESS: expected opaque black, got 0x%08X", got)
	}
}

func TestGetSetPixel_OutOfBoundsIsNoOp(t *testing.T) {
	d := newTestDC(4, 4)
	setPixel(&d.Surface, -1, 0, 0xFFFFFFFF)
	setPixel(&d.Surface, 4, 4, 0xFFFFFFFF)
	for _, b := range d.Surface.Pixels {
		if b != 0 {
			t.Fatal("expected out-of-bounds writes to be ignored")
		}
	}
	if got := getPixel(&d.Surface, 10, 10); got != 0 {
		t.Fatalf("expected 0 for an out-of-bounds read, got 0x%08X", got)
	}
}

func TestClipRect_TranslatesByViewportWindowDelta(t *testing.T) {
	d := newTestDC(10, 10)
	d.ViewportOrgX, d.ViewportOrgY = 2, 0
	d.WindowOrgX, d.WindowOrgY = 0, 0

	x, y, w, h := 0, 0, 5, 5
	ok := clipRect(d, &x, &y, &w, &h)
	if !ok {
		t.Fatal("expected a non-empty clip result")
	}
	if x != 2 {
		t.Fatalf("expected x translated by viewport delta to 2, got %d", x)
	}
}

func TestClipRect_EmptyWhenFullyOffSurface(t *testing.T) {
	d := newTestDC(10, 10)
	x, y, w, h := 20, 20, 5, 5
	if clipRect(d, &x, &y, &w, &h) {
		t.Fatal("expected clipRect to report empty for a rect entirely off-surface")
	}
}

func TestFillRect_PaintsOnlyWithinClippedBounds(t *testing.T) {
	d := newTestDC(4, 4)
	brush := brushRecord{Style: brushSolid, Color: 0x00FF0000}
	fillRect(d, &brush, 2, 2, 10, 10) // deliberately overruns the 4x4 surface
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			want := uint32(0)
			if x >= 2 && y >= 2 {
				want = 0xFFFF0000
			}
			if got := getPixel(&d.Surface, x, y); got != want {
				t.Fatalf("pixel (%d,%d): expected 0x%08X, got 0x%08X", x, y, want, got)
			}
		}
	}
}

func TestFillRect_NullBrushPaintsNothing(t *testing.T) {
	d := newTestDC(4, 4)
	brush := brushRecord{Style: brushNull}
	fillRect(d, &brush, 0, 0, 4, 4)
	for _, b := range d.Surface.Pixels {
		if b != 0 {
			t.Fatal("expected BS_NULL brush to paint nothing")
		}
	}
}

func TestBitBlt_SrcCopyExactSubregion(t *testing.T) {
	src := newTestDC(4, 4)
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			setPixel(&src.Surface, x, y, 0xFF010203)
		}
	}
	dst := newTestDC(10, 10)
	bitBlt(dst, 3, 3, 4, 4, src, 0, 0, 0, ROP_SRCCOPY)

	for y := 0; y < 10; y++ {
		for x := 0; x < 10; x++ {
			inRegion := x >= 3 && x < 7 && y >= 3 && y < 7
			got := getPixel(&dst.Surface, x, y)
			if inRegion && got != 0xFF010203 {
				t.Fatalf("pixel (%d,%d): expected copied color, got 0x%08X", x, y, got)
			}
			if !inRegion && got != 0 {
				t.Fatalf("pixel (%d,%d): expected untouched, got 0x%08X", x, y, got)
			}
		}
	}
}

func TestLineTo_DrawsAndUpdatesCurrentPosition(t *testing.T) {
	d := newTestDC(10, 10)
	d.CurX, d.CurY = 0, 0
	pen := penRecord{Style: penSolid, Color: 0x00FFFFFF}
	lineTo(d, &pen, 4, 0)

	if d.CurX != 4 || d.CurY != 0 {
		t.Fatalf("expected current position (4,0), got (%d,%d)", d.CurX, d.CurY)
	}
	for x := 0; x <= 4; x++ {
		if got := getPixel(&d.Surface, x, 0); got != 0xFFFFFFFF {
			t.Fatalf("expected pixel (%d,0) drawn white, got 0x%08X", x, got)
		}
	}
}

func TestLineTo_NullPenMovesWithoutDrawing(t *testing.T) {
	d := newTestDC(10, 10)
	pen := penRecord{Style: penNull, Color: 0x00FFFFFF}
	lineTo(d, &pen, 4, 0)
	if d.CurX != 4 {
		t.Fatal("expected position updated even with PS_NULL")
	}
	for _, b := range d.Surface.Pixels {
		if b != 0 {
			t.Fatal("expected PS_NULL to draw nothing")
		}
	}
}

func TestSaveRestoreDC_LIFOAndHandlePreserved(t *testing.T) {
	d := newTestDC(10, 10)
	d.Handle = 0xABCD
	d.TextColor = 1

	level1 := saveDC(d)
	d.TextColor = 2
	level2 := saveDC(d)
	d.TextColor = 3

	if level1 != 1 || level2 != 2 {
		t.Fatalf("expected levels 1,2, got %d,%d", level1, level2)
	}

	if !restoreDC(d, -1) {
		t.Fatal("expected restore to succeed")
	}
	if d.TextColor != 2 {
		t.Fatalf("expected TextColor restored to 2, got %d", d.TextColor)
	}
	if d.Handle != 0xABCD {
		t.Fatal("expected handle preserved across restore")
	}

	if !restoreDC(d, 1) {
		t.Fatal("expected restore to level 1 to succeed")
	}
	if d.TextColor != 1 {
		t.Fatalf("expected TextColor restored to 1, got %d", d.TextColor)
	}

	if restoreDC(d, 1) {
		t.Fatal("expected restore to fail once the save stack is empty")
	}
}
