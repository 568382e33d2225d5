// bitmap_resource.go - bootstrap cursor/icon bitmap, decoded at start-up
//
// Grounded on original_source/src/gdi's resource-section cursor loader: the
// original maps a cursor bitmap out of the guest PE's resource section at
// process start. Without a PE-resource-section parser (out of scope, see
// SPEC_FULL.md §1 non-goals), this decodes an equivalent embedded bitmap
// with golang.org/x/image/bmp and imports it into a pool-allocated Bitmap GDI
// object (an ordinary handle, not a stock one) the same way the original's loader hands the decoded pixels to the GDI
// object pool.
//
// License: GPLv3 or later

package main

import (
	"bytes"
	"fmt"
	"image"

	"golang.org/x/image/bmp"
)

// bootstrapCursorBMP is a tiny 2x2 24bpp BMP standing in for the original's
// PE-resource cursor bitmap.
var bootstrapCursorBMP = []byte{
	0x42, 0x4D, 0x46, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x36, 0x00, 0x00, 0x00,
	0x28, 0x00, 0x00, 0x00, 0x02, 0x00, 0x00, 0x00, 0x02, 0x00, 0x00, 0x00,
	0x01, 0x00, 0x18, 0x00, 0x00, 0x00, 0x00, 0x00, 0x10, 0x00, 0x00, 0x00,
	0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	0xFF, 0x00, 0x00, 0xFF, 0xFF, 0xFF, 0x00, 0x00,
	0x00, 0x00, 0xFF, 0x00, 0xFF, 0x00, 0x00, 0x00,
}

// loadBootstrapCursor decodes bootstrapCursorBMP and imports it as an
// ordinary (non-stock) Bitmap GDI object, returning its handle.
func loadBootstrapCursor(vm *vmContext) (uint32, error) {
	img, err := bmp.Decode(bytes.NewReader(bootstrapCursorBMP))
	if err != nil {
		return 0, fmt.Errorf("decode bootstrap cursor bitmap: %w", err)
	}
	return importBitmap(vm, img)
}

// importBitmap copies an arbitrary decoded image into a freshly allocated,
// pixel-owning Bitmap GDI object in the engine's native BGRA byte order (see
// getPixel/setPixel in gdi_raster.go).
func importBitmap(vm *vmContext, img image.Image) (uint32, error) {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= 0 || h <= 0 {
		return 0, fmt.Errorf("import bitmap: degenerate bounds %v", b)
	}
	pitch := w * 4
	pixels := make([]byte, pitch*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			r, g, bch, a := img.At(b.Min.X+x, b.Min.Y+y).RGBA()
			off := y*pitch + x*4
			pixels[off+0] = byte(bch >> 8)
			pixels[off+1] = byte(g >> 8)
			pixels[off+2] = byte(r >> 8)
			pixels[off+3] = byte(a >> 8)
		}
	}

	handle, obj, status := vm.gdi.alloc(gdiTypeBitmap)
	if status != STATUS_SUCCESS {
		return 0, fmt.Errorf("import bitmap: gdi pool exhausted: %s", status)
	}
	obj.bitmap = &bitmapRecord{W: w, H: h, BPP: 32, Planes: 1, Pitch: pitch, Pixels: pixels}
	return handle, nil
}
