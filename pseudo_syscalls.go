// pseudo_syscalls.go - reserved bands used by guest CRT/runtime thunks
//
// Grounded on original_source/src/user/user_syscalls.h and spec §4.6/§12:
// 0xFFE0..0xFFE3 (string conversion helpers), 0xFFF0..0xFFF3 (heap bump
// allocator), 0xFFFE (image-init, called once before WinMain).
//
// License: GPLv3 or later

package main

const (
	sysStrMultiByteToUnicodeN = pseudoStringBandLo + iota
	sysStrUnicodeToMultiByteN
	sysStrMultiByteSize
	sysStrUnicodeSize
)

const (
	sysHeapAlloc = pseudoHeapBandLo + iota
	sysHeapFree
	sysHeapRealloc
	sysHeapSize
)

func registerPseudoSyscalls(d *syscallDispatcher) {
	d.register(sysStrMultiByteToUnicodeN, 3, sysStrMBToUnicode)
	d.register(sysStrUnicodeToMultiByteN, 3, sysStrUnicodeToMB)
	d.register(sysStrMultiByteSize, 1, sysStrMBSize)
	d.register(sysStrUnicodeSize, 1, sysStrUnicodeSize_)

	d.register(sysHeapAlloc, 1, sysHeapAllocHandler)
	d.register(sysHeapFree, 1, sysHeapFreeHandler)
	d.register(sysHeapRealloc, 2, sysHeapReallocHandler)
	d.register(sysHeapSize, 1, sysHeapSizeHandler)

	d.register(pseudoImageInit, 0, sysImageInit)
}

// sysStrMBToUnicode widens a bounded ASCII/Latin-1 guest string into 16-bit
// code units (high byte zero), a simplification of the real MultiByteToWideChar
// host assist sufficient for the guest CRT thunks that call it.
func sysStrMBToUnicode(vm *vmContext, args []uint32) (NTSTATUS, uint32, bool) {
	dst, src, max := args[0], args[1], int(args[2])
	n := guestStrLen(vm.mem, src, max)
	for i := 0; i < n; i++ {
		b := vm.mem.ReadU8(src + uint32(i))
		vm.mem.WriteU8(dst+uint32(2*i), b)
		vm.mem.WriteU8(dst+uint32(2*i)+1, 0)
	}
	vm.mem.WriteU8(dst+uint32(2*n), 0)
	vm.mem.WriteU8(dst+uint32(2*n)+1, 0)
	return STATUS_SUCCESS, uint32(n), false
}

// sysStrUnicodeToMB narrows 16-bit code units back to single bytes,
// truncating anything above U+00FF (acceptable: the guest thunks that use
// this band only ever pass ASCII resource strings).
func sysStrUnicodeToMB(vm *vmContext, args []uint32) (NTSTATUS, uint32, bool) {
	dst, src, max := args[0], args[1], int(args[2])
	n := 0
	for i := 0; i < max; i++ {
		lo := vm.mem.ReadU8(src + uint32(2*i))
		hi := vm.mem.ReadU8(src + uint32(2*i) + 1)
		if lo == 0 && hi == 0 {
			break
		}
		vm.mem.WriteU8(dst+uint32(i), lo)
		n++
	}
	vm.mem.WriteU8(dst+uint32(n), 0)
	return STATUS_SUCCESS, uint32(n), false
}

func sysStrMBSize(vm *vmContext, args []uint32) (NTSTATUS, uint32, bool) {
	return STATUS_SUCCESS, uint32(guestStrLen(vm.mem, args[0], 4096)), false
}

func sysStrUnicodeSize_(vm *vmContext, args []uint32) (NTSTATUS, uint32, bool) {
	addr := args[0]
	n := 0
	for n < 4096 {
		lo := vm.mem.ReadU8(addr + uint32(2*n))
		hi := vm.mem.ReadU8(addr + uint32(2*n) + 1)
		if lo == 0 && hi == 0 {
			break
		}
		n++
	}
	return STATUS_SUCCESS, uint32(n), false
}

func sysHeapAllocHandler(vm *vmContext, args []uint32) (NTSTATUS, uint32, bool) {
	addr := vm.heapAlloc(args[0])
	if addr == 0 {
		return STATUS_NO_MEMORY, 0, false
	}
	return STATUS_SUCCESS, addr, false
}

// sysHeapFreeHandler is a no-op: the bump allocator backing this band never
// reclaims individual blocks (spec §12's heap band is a host assist for the
// guest CRT, not a full allocator).
func sysHeapFreeHandler(vm *vmContext, args []uint32) (NTSTATUS, uint32, bool) {
	return STATUS_SUCCESS, 1, false
}

func sysHeapReallocHandler(vm *vmContext, args []uint32) (NTSTATUS, uint32, bool) {
	newSize := args[1]
	addr := vm.heapAlloc(newSize)
	if addr == 0 {
		return STATUS_NO_MEMORY, 0, false
	}
	return STATUS_SUCCESS, addr, false
}

// sysHeapSizeHandler cannot recover a per-block size from a bump allocator
// that never stores block headers; it always reports zero.
func sysHeapSizeHandler(vm *vmContext, args []uint32) (NTSTATUS, uint32, bool) {
	return STATUS_SUCCESS, 0, false
}

func sysImageInit(vm *vmContext, args []uint32) (NTSTATUS, uint32, bool) {
	return STATUS_SUCCESS, 1, false
}
