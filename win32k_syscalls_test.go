package main

import "testing"

func newTestVMContextWithDC() (*vmContext, uint32, *dc) {
	vm := newTestVMContext()
	handle, obj, status := vm.gdi.alloc(gdiTypeDC)
	if status != STATUS_SUCCESS {
		panic("test setup: failed to allocate a DC")
	}
	d := newScreenDC(handle, surface{Pixels: make([]byte, 10*10*4), W: 10, H: 10, Pitch: 10 * 4})
	obj.dc = d
	return vm, handle, d
}

func TestSelectBitmap_RejectsSelectionIntoSecondDC(t *testing.T) {
	vm, hdc1, _ := newTestVMContextWithDC()
	hdc2, obj2, _ := vm.gdi.alloc(gdiTypeDC)
	obj2.dc = newMemoryDC(hdc2)

	hbmp, bmpObj, status := vm.gdi.alloc(gdiTypeBitmap)
	if status != STATUS_SUCCESS {
		t.Fatalf("expected bitmap allocation to succeed, got %s", status)
	}
	bmpObj.bitmap = &bitmapRecord{W: 4, H: 4, BPP: 32, Pitch: 16, Pixels: make([]byte, 64)}

	status, _, _ = sysNtGdiSelectBitmap(vm, []uint32{hdc1, hbmp})
	if status != STATUS_SUCCESS {
		t.Fatalf("expected first selection to succeed, got %s", status)
	}

	status, _, _ = sysNtGdiSelectBitmap(vm, []uint32{hdc2, hbmp})
	if status != STATUS_INVALID_PARAMETER {
		t.Fatalf("expected STATUS_INVALID_PARAMETER selecting into a second DC, got %s", status)
	}
}

func TestSelectBitmap_ReselectIntoSameDCSucceeds(t *testing.T) {
	vm, hdc, _ := newTestVMContextWithDC()
	hbmp, bmpObj, _ := vm.gdi.alloc(gdiTypeBitmap)
	bmpObj.bitmap = &bitmapRecord{W: 4, H: 4, BPP: 32, Pitch: 16, Pixels: make([]byte, 64)}

	if status, _, _ := sysNtGdiSelectBitmap(vm, []uint32{hdc, hbmp}); status != STATUS_SUCCESS {
		t.Fatalf("expected first selection to succeed, got %s", status)
	}
	if status, _, _ := sysNtGdiSelectBitmap(vm, []uint32{hdc, hbmp}); status != STATUS_SUCCESS {
		t.Fatalf("expected re-selection into the same DC to succeed, got %s", status)
	}
}

func TestGdiRectangle_FillsInteriorAndFramesEdge(t *testing.T) {
	vm, hdc, d := newTestVMContextWithDC()
	brush, _, _ := vm.gdi.alloc(gdiTypeBrush)
	pen, _, _ := vm.gdi.alloc(gdiTypePen)
	vm.gdi.slots[gdiDecodeIndex(brush)].object.brush = brushRecord{Style: brushSolid, Color: 0x00FF0000}
	vm.gdi.slots[gdiDecodeIndex(pen)].object.pen = penRecord{Style: penSolid, Width: 1, Color: 0x00FFFFFF}

	sysNtGdiSelectBrush(vm, []uint32{hdc, brush})
	sysNtGdiSelectPen(vm, []uint32{hdc, pen})

	status, _, _ := sysNtGdiRectangle(vm, []uint32{hdc, 2, 2, 8, 8})
	if status != STATUS_SUCCESS {
		t.Fatalf("expected STATUS_SUCCESS, got %s", status)
	}
	if got := getPixel(&d.Surface, 5, 5); got != 0xFFFF0000 {
		t.Fatalf("expected interior filled red, got 0x%08X", got)
	}
	if got := getPixel(&d.Surface, 2, 2); got != 0xFFFFFFFF {
		t.Fatalf("expected top-left edge pixel white, got 0x%08X", got)
	}
}

// gdiDecodeIndex extracts a handle's slot index, a small test helper rather
// than a duplicate of gdiDecodeHandle's full four-value return.
func gdiDecodeIndex(h uint32) uint16 {
	_, _, _, index := gdiDecodeHandle(h)
	return index
}

func TestSaveRestoreDCSyscalls_RoundTrip(t *testing.T) {
	vm, hdc, d := newTestVMContextWithDC()
	d.TextColor = 0xAA

	_, level, _ := sysNtGdiSaveDC(vm, []uint32{hdc})
	if level != 1 {
		t.Fatalf("expected save level 1, got %d", level)
	}
	d.TextColor = 0xBB

	status, _, _ := sysNtGdiRestoreDC(vm, []uint32{hdc, 0xFFFFFFFF})
	if status != STATUS_SUCCESS {
		t.Fatalf("expected STATUS_SUCCESS restoring level -1, got %s", status)
	}
	if d.TextColor != 0xAA {
		t.Fatalf("expected TextColor restored to 0xAA, got 0x%X", d.TextColor)
	}
}
