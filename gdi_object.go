// gdi_object.go - GDI object variant records and the stock-object table
//
// Grounded on original_source/src/gdi/gdi_handle_table.c (stock object
// construction) and spec §3's GDI object record variants.
//
// License: GPLv3 or later

package main

type brushStyle int

const (
	brushSolid brushStyle = iota
	brushNull
	brushHatched
	brushPattern
)

type penStyle int

const (
	penSolid penStyle = iota
	penDash
	penNull
)

// gdiObject is the tagged-variant GDI object record. Only the fields for the
// active typ are meaningful; this mirrors dispatcherObject's shared-header
// approach rather than an interface-per-kind, keeping every variant in the
// same fixed-size pool slot.
type gdiObject struct {
	inUse    bool
	typ      gdiObjType
	fromPool bool // see SPEC_FULL.md §12: explicit provenance tag

	dc      *dc
	brush   brushRecord
	pen     penRecord
	font    fontRecord
	bitmap  *bitmapRecord
	region  regionRecord
	palette []uint32
}

type brushRecord struct {
	Style       brushStyle
	Color       uint32 // ARGB8888
	HatchStyle  int
	PatternBmp  *bitmapRecord
}

type penRecord struct {
	Style penStyle
	Width int
	Color uint32
}

type fontRecord struct {
	Height   int
	Weight   int
	Italic   bool
	FaceName string
}

// bitmapRecord is the pixel-owning variant. At most one DC may select a
// given bitmap at a time (spec §3's "at-most-one DC selection invariant").
type bitmapRecord struct {
	W, H, BPP, Planes, Pitch int
	Pixels                   []byte // owned, ARGB8888
	selectedInto             *dc
}

type regionRecord struct {
	Bounds   rect
	RectList []rect // nil => single bounding rect
}

type rect struct {
	X, Y, W, H int
}

// --- dc: the mutable drawing-state bundle ---

type surface struct {
	Pixels        []byte // ARGB8888, may alias a bitmap's or borrow a back-end's
	W, H, Pitch   int
	ownedByBitmap *bitmapRecord
}

// oneByOneSurface is the distinguished "no bitmap selected" surface: a 1x1
// sentinel into which drawing is a no-op, per spec §9's pixel-buffer
// ownership design note.
func oneByOneSurface() surface {
	return surface{Pixels: make([]byte, 4), W: 1, H: 1, Pitch: 4}
}

type dc struct {
	Handle  uint32
	Surface surface

	CurX, CurY int
	TextColor  uint32
	BkColor    uint32
	BkMode     int
	MapMode    int
	TextAlign  int
	Rop2       int
	StretchMode int
	PolyFillMode int

	ViewportOrgX, ViewportOrgY   int
	ViewportExtW, ViewportExtH   int
	WindowOrgX, WindowOrgY       int
	WindowExtW, WindowExtH       int
	BrushOrgX, BrushOrgY         int

	SelBrush, SelPen, SelFont, SelBitmap, SelPalette uint32
	ClipRegion                                       uint32

	PrevBrush, PrevPen, PrevFont, PrevBitmap uint32

	saveStack []dc // LIFO of saved copies, per SaveDC/RestoreDC

	Dirty       bool
	OwningWindow uint32
}

func newScreenDC(handle uint32, screenSurface surface) *dc {
	return &dc{
		Handle:    handle,
		Surface:   screenSurface,
		BkMode:    1, // OPAQUE
		Rop2:      13, // R2_COPYPEN
		ViewportExtW: screenSurface.W, ViewportExtH: screenSurface.H,
		WindowExtW: screenSurface.W, WindowExtH: screenSurface.H,
	}
}

func newMemoryDC(handle uint32) *dc {
	return &dc{
		Handle:    handle,
		Surface:   oneByOneSurface(),
		BkMode:    1,
		Rop2:      13,
		ViewportExtW: 1, ViewportExtH: 1,
		WindowExtW: 1, WindowExtH: 1,
	}
}

// --- stock objects ---

type gdiStockTable struct {
	brushes [6]gdiObject
	pens    [3]gdiObject
	fonts   [8]gdiObject
	palette gdiObject

	// DC_BRUSH/DC_PEN singletons: a per-table live color, overwritten on
	// each selection. Spec §9 design note (c): single-threaded execution
	// makes this safe; it is not safe to call concurrently, which matches
	// the scheduler's single-runner execution model documented in §5.
	dcBrush gdiObject
	dcPen   gdiObject
}

const (
	WHITE_BRUSH = iota
	LTGRAY_BRUSH
	GRAY_BRUSH
	DKGRAY_BRUSH
	BLACK_BRUSH
	NULL_BRUSH
)

const (
	WHITE_PEN = iota
	BLACK_PEN
	NULL_PEN
)

func newGDIStockTable() *gdiStockTable {
	s := &gdiStockTable{}
	colors := [6]uint32{0xFFFFFFFF, 0xFFC0C0C0, 0xFF808080, 0xFF404040, 0xFF000000, 0}
	styles := [6]brushStyle{brushSolid, brushSolid, brushSolid, brushSolid, brushSolid, brushNull}
	for i := range s.brushes {
		s.brushes[i] = gdiObject{inUse: true, typ: gdiTypeBrush, brush: brushRecord{Style: styles[i], Color: colors[i]}}
	}
	penColors := [3]uint32{0xFFFFFFFF, 0xFF000000, 0}
	penStyles := [3]penStyle{penSolid, penSolid, penNull}
	for i := range s.pens {
		s.pens[i] = gdiObject{inUse: true, typ: gdiTypePen, pen: penRecord{Style: penStyles[i], Width: 1, Color: penColors[i]}}
	}
	for i := range s.fonts {
		s.fonts[i] = gdiObject{inUse: true, typ: gdiTypeFont, font: fontRecord{Height: 12, FaceName: "System"}}
	}
	s.palette = gdiObject{inUse: true, typ: gdiTypePalette, palette: make([]uint32, 20)}
	s.dcBrush = gdiObject{inUse: true, typ: gdiTypeBrush, brush: brushRecord{Style: brushSolid, Color: 0xFFFFFFFF}}
	s.dcPen = gdiObject{inUse: true, typ: gdiTypePen, pen: penRecord{Style: penSolid, Width: 1, Color: 0xFF000000}}
	return s
}

const (
	stockIndexDCBrush uint16 = 0xFFFE
	stockIndexDCPen   uint16 = 0xFFFD
)

func (s *gdiStockTable) lookup(typ gdiObjType, index uint16) *gdiObject {
	switch typ {
	case gdiTypeBrush:
		if index == stockIndexDCBrush {
			return &s.dcBrush
		}
		if int(index) < len(s.brushes) {
			return &s.brushes[index]
		}
	case gdiTypePen:
		if index == stockIndexDCPen {
			return &s.dcPen
		}
		if int(index) < len(s.pens) {
			return &s.pens[index]
		}
	case gdiTypeFont:
		if int(index) < len(s.fonts) {
			return &s.fonts[index]
		}
	case gdiTypePalette:
		if index == 0 {
			return &s.palette
		}
	}
	return nil
}

func (s *gdiStockTable) handle(typ gdiObjType, index uint16) uint32 {
	return gdiMakeHandle(true, 0, typ, index)
}
