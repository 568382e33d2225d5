// gdi_handle_table.go - GDI handle table: bit-packed type+reuse+stock handles
//
// Grounded on original_source/src/gdi/gdi_handle_table.c: pool sizes, stock
// object table layout, gdi_alloc_handle/gdi_get_object/gdi_free_handle and
// the reuse-counter discipline below all follow that file. Pool sizes are
// the ones SPEC_FULL.md §12 pins from the original (64 DC, 256 brush, 128
// pen, 64 font, 128 bitmap, 128 region).
//
// License: GPLv3 or later

package main

import "fmt"

// gdiObjType is the 8-bit type nibble packed into bits 23..16 of a handle.
type gdiObjType uint8

const (
	gdiTypeDC gdiObjType = 0x01 + iota
	gdiTypeBrush
	gdiTypePen
	gdiTypeFont
	gdiTypeBitmap
	gdiTypeRegion
	gdiTypePalette
)

const (
	poolSizeDC      = 64
	poolSizeBrush   = 256
	poolSizePen     = 128
	poolSizeFont    = 64
	poolSizeBitmap  = 128
	poolSizeRegion  = 128
)

const (
	gdiStockBit      = uint32(1) << 31
	gdiReuseShift    = 24
	gdiReuseMask     = 0x7F
	gdiTypeShift     = 16
	gdiTypeMask      = 0xFF
	gdiIndexMask     = 0xFFFF
)

func gdiMakeHandle(stock bool, reuse uint8, typ gdiObjType, index uint16) uint32 {
	h := uint32(typ&gdiTypeMask)<<gdiTypeShift | uint32(index)
	h |= uint32(reuse&gdiReuseMask) << gdiReuseShift
	if stock {
		h |= gdiStockBit
	}
	return h
}

func gdiDecodeHandle(h uint32) (stock bool, reuse uint8, typ gdiObjType, index uint16) {
	stock = h&gdiStockBit != 0
	reuse = uint8((h >> gdiReuseShift) & gdiReuseMask)
	typ = gdiObjType((h >> gdiTypeShift) & gdiTypeMask)
	index = uint16(h & gdiIndexMask)
	return
}

// gdiSlot is one entry of the direct table layered over the object pools.
type gdiSlot struct {
	inUse      bool
	typ        gdiObjType
	reuseCount uint8
	object     *gdiObject
}

// gdiHandleTable is the direct table plus per-kind object pools described in
// spec §4.4.
type gdiHandleTable struct {
	slots     []gdiSlot
	allocHint int

	dcPool     []gdiObject
	brushPool  []gdiObject
	penPool    []gdiObject
	fontPool   []gdiObject
	bitmapPool []gdiObject
	regionPool []gdiObject

	// dynamic fallback: objects allocated once their pool is exhausted.
	// Each carries fromPool=false (see SPEC_FULL.md §12 for why this
	// replaces the original's pointer-range pool-membership test).
	dynamic []*gdiObject

	stock *gdiStockTable

	sharedIndexPage []byte // optional guest-mapped informational page
}

func newGDIHandleTable() *gdiHandleTable {
	t := &gdiHandleTable{
		allocHint:  0,
		dcPool:     make([]gdiObject, poolSizeDC),
		brushPool:  make([]gdiObject, poolSizeBrush),
		penPool:    make([]gdiObject, poolSizePen),
		fontPool:   make([]gdiObject, poolSizeFont),
		bitmapPool: make([]gdiObject, poolSizeBitmap),
		regionPool: make([]gdiObject, poolSizeRegion),
	}
	total := poolSizeDC + poolSizeBrush + poolSizePen + poolSizeFont + poolSizeBitmap + poolSizeRegion
	t.slots = make([]gdiSlot, total)
	t.stock = newGDIStockTable()
	return t
}

func (t *gdiHandleTable) poolFor(typ gdiObjType) []gdiObject {
	switch typ {
	case gdiTypeDC:
		return t.dcPool
	case gdiTypeBrush:
		return t.brushPool
	case gdiTypePen:
		return t.penPool
	case gdiTypeFont:
		return t.fontPool
	case gdiTypeBitmap:
		return t.bitmapPool
	case gdiTypeRegion:
		return t.regionPool
	}
	return nil
}

// alloc allocates a new handle of the given type, preferring the fixed pool
// and falling back to a dynamically allocated record when the pool for that
// type is exhausted.
func (t *gdiHandleTable) alloc(typ gdiObjType) (uint32, *gdiObject, NTSTATUS) {
	pool := t.poolFor(typ)
	for i := range pool {
		if !pool[i].inUse {
			pool[i] = gdiObject{inUse: true, typ: typ, fromPool: true}
			slotIdx, reuse := t.bindSlot(typ, &pool[i])
			return gdiMakeHandle(false, reuse, typ, uint16(slotIdx)), &pool[i], STATUS_SUCCESS
		}
	}

	// Pool exhausted: dynamic fallback.
	obj := &gdiObject{inUse: true, typ: typ, fromPool: false}
	t.dynamic = append(t.dynamic, obj)
	slotIdx, reuse := t.bindSlot(typ, obj)
	return gdiMakeHandle(false, reuse, typ, uint16(slotIdx)), obj, STATUS_SUCCESS
}

// bindSlot assigns a direct-table slot to obj, incrementing the slot's reuse
// counter modulo 128, and writes the shared index page entry if mapped.
func (t *gdiHandleTable) bindSlot(typ gdiObjType, obj *gdiObject) (index int, reuse uint8) {
	start := t.allocHint
	n := len(t.slots)
	for i := 0; i < n; i++ {
		idx := (start + i) % n
		if !t.slots[idx].inUse {
			t.allocHint = (idx + 1) % n
			s := &t.slots[idx]
			s.inUse = true
			s.typ = typ
			s.object = obj
			s.reuseCount = (s.reuseCount + 1) & gdiReuseMask
			t.writeSharedIndex(idx, s)
			return idx, s.reuseCount
		}
	}
	// Table somehow full; caller still gets a usable object but handle
	// resolution degrades to index 0 (should not occur given pool bounds).
	return 0, 0
}

func (t *gdiHandleTable) writeSharedIndex(index int, s *gdiSlot) {
	if t.sharedIndexPage == nil || (index+1)*4 > len(t.sharedIndexPage) {
		return
	}
	base := index * 4
	t.sharedIndexPage[base+0] = byte(s.typ)
	t.sharedIndexPage[base+1] = s.reuseCount
	if s.inUse {
		t.sharedIndexPage[base+2] = 1
	} else {
		t.sharedIndexPage[base+2] = 0
	}
	t.sharedIndexPage[base+3] = 0 // reserved / refcount placeholder
}

// resolve validates stock-bit, type, index range, in-use and reuse-counter
// match, per spec §4.4/§3.
func (t *gdiHandleTable) resolve(h uint32, expected gdiObjType) (*gdiObject, NTSTATUS) {
	stock, reuse, typ, index := gdiDecodeHandle(h)
	if stock {
		obj := t.stock.lookup(typ, index)
		if obj == nil || typ != expected {
			return nil, STATUS_INVALID_HANDLE
		}
		return obj, STATUS_SUCCESS
	}
	if typ != expected || int(index) >= len(t.slots) {
		return nil, STATUS_INVALID_HANDLE
	}
	s := &t.slots[index]
	if !s.inUse || s.typ != typ || s.reuseCount != reuse {
		return nil, STATUS_INVALID_HANDLE
	}
	return s.object, STATUS_SUCCESS
}

// free releases a non-stock handle. Whether the underlying record returns
// to the fixed pool or is simply dropped (dynamic fallback) is decided by
// the record's own fromPool tag, not by address-range arithmetic.
func (t *gdiHandleTable) free(h uint32) NTSTATUS {
	stock, _, typ, index := gdiDecodeHandle(h)
	if stock {
		return STATUS_INVALID_PARAMETER // stock objects are never deleted
	}
	if int(index) >= len(t.slots) {
		return STATUS_INVALID_HANDLE
	}
	s := &t.slots[index]
	if !s.inUse || s.typ != typ {
		return STATUS_INVALID_HANDLE
	}
	obj := s.object
	s.inUse = false
	s.object = nil
	t.writeSharedIndex(int(index), s)

	if obj.fromPool {
		*obj = gdiObject{}
	} else {
		for i, d := range t.dynamic {
			if d == obj {
				t.dynamic = append(t.dynamic[:i], t.dynamic[i+1:]...)
				break
			}
		}
	}
	return STATUS_SUCCESS
}

func (t *gdiHandleTable) String() string {
	return fmt.Sprintf("gdiHandleTable{slots=%d dynamic=%d}", len(t.slots), len(t.dynamic))
}
