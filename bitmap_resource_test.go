package main

import (
	"image"
	"image/color"
	"testing"
)

func TestLoadBootstrapCursor_ImportsBitmap(t *testing.T) {
	vm := &vmContext{gdi: newGDIHandleTable()}

	handle, err := loadBootstrapCursor(vm)
	if err != nil {
		t.Fatalf("loadBootstrapCursor returned error: %v", err)
	}

	obj, status := vm.gdi.resolve(handle, gdiTypeBitmap)
	if status != STATUS_SUCCESS {
		t.Fatalf("expected resolvable bitmap handle, got %s", status)
	}
	if obj.bitmap.W != 2 || obj.bitmap.H != 2 {
		t.Fatalf("expected a 2x2 bitmap, got %dx%d", obj.bitmap.W, obj.bitmap.H)
	}
	if len(obj.bitmap.Pixels) != 2*2*4 {
		t.Fatalf("expected %d pixel bytes, got %d", 2*2*4, len(obj.bitmap.Pixels))
	}
}

func TestImportBitmap_RejectsDegenerateBounds(t *testing.T) {
	vm := &vmContext{gdi: newGDIHandleTable()}
	if _, err := importBitmap(vm, blankImage{}); err == nil {
		t.Fatal("expected an error for a zero-sized image")
	}
}

// blankImage is a degenerate image.Image with empty bounds, used to exercise
// importBitmap's bounds check without constructing a real decoded image.
type blankImage struct{}

func (blankImage) ColorModel() color.Model    { return color.RGBAModel }
func (blankImage) Bounds() image.Rectangle    { return image.Rectangle{} }
func (blankImage) At(_, _ int) color.Color    { return color.RGBA{} }
