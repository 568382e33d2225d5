// vm_context.go - the VM context threading every subsystem through entry points
//
// Grounded on spec §9's "global mutable state" design note: the source's
// three process-wide singletons (GDI handle table, active scheduler,
// syscall hook) are collected here into one value constructed at start and
// destroyed at exit, rather than kept as package-level globals - the same
// consolidation the note prescribes. The mutex-guarded-snapshot shape is
// carried over from _examples/IntuitionAmiga-IntuitionEngine/runtime_status.go's
// pattern (now deleted; see DESIGN.md), repurposed for VM-wide state instead
// of hardware-chip references.
//
// License: GPLv3 or later

package main

import (
	"fmt"
	"os"
	"sync"
)

type vmContext struct {
	mu sync.Mutex

	mem   guestMemory
	nt    *ntHandleTable
	gdi   *gdiHandleTable
	sched *scheduler
	disp  *syscallDispatcher
	files *hostFileBackend

	display displayBackend

	pid uint32

	exitRequested bool
	exitStatus    uint32

	// heapRegion backs the 0xFFF0..0xFFF3 pseudo-syscall band: a simple
	// bump allocator over a fixed guest-virtual range, standing in for the
	// guest CRT's heap-alloc host assist (SPEC_FULL.md §12).
	heapBase, heapLimit, heapNext uint32

	mainThread *threadRecord

	// screenDC is the single screen DC created for the back-end's
	// framebuffer; GetDC/ReleaseDC hand out handles to it.
	screenDC       *dc
	screenDCHandle uint32
}

func newVMContext(mem guestMemory, display displayBackend, heapBase, heapSize uint32, fileBaseDir string) *vmContext {
	vm := &vmContext{
		mem:       mem,
		nt:        newNTHandleTable(os.Stdin, os.Stdout, os.Stderr),
		gdi:       newGDIHandleTable(),
		files:     newHostFileBackend(fileBaseDir),
		display:   display,
		pid:       1,
		heapBase:  heapBase,
		heapLimit: heapBase + heapSize,
		heapNext:  heapBase,
	}
	vm.sched = newScheduler(mem)
	vm.disp = newSyscallDispatcher()

	w, h := display.Dimensions()
	screenSurface := surface{Pixels: display.FrameBuffer(), W: w, H: h, Pitch: w * 4}
	vm.screenDC = newScreenDC(0, screenSurface)
	handle, obj, _ := vm.gdi.alloc(gdiTypeDC)
	obj.dc = vm.screenDC
	vm.screenDCHandle = handle
	vm.screenDC.Handle = handle

	return vm
}

// CreateMainThread materializes the thread record for the CPU's starting
// state, per spec §3 ("the main thread is materialized from the CPU's
// starting state").
func (vm *vmContext) CreateMainThread(stackBase, stackLimit, tebVAddr uint32) *threadRecord {
	t := vm.sched.NewThread(vm.pid, stackBase, stackLimit, tebVAddr, 0, 20)
	t.ExitObject = newThreadExitObject()
	vm.mainThread = t
	return t
}

// heapAlloc services the guest heap pseudo-syscall band: a bump allocator,
// returning 0 on exhaustion.
func (vm *vmContext) heapAlloc(size uint32) uint32 {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	aligned := (size + 15) &^ 15
	if vm.heapNext+aligned > vm.heapLimit {
		return 0
	}
	addr := vm.heapNext
	vm.heapNext += aligned
	return addr
}

// guestStrLen reads a NUL-terminated string from guest memory starting at
// addr, bounded to avoid runaway scans on malformed guest pointers.
func guestStrLen(mem guestMemory, addr uint32, max int) int {
	for i := 0; i < max; i++ {
		if mem.ReadU8(addr+uint32(i)) == 0 {
			return i
		}
	}
	return max
}

func guestStrCopy(mem guestMemory, dst, src uint32, max int) int {
	n := guestStrLen(mem, src, max)
	for i := 0; i < n; i++ {
		mem.WriteU8(dst+uint32(i), mem.ReadU8(src+uint32(i)))
	}
	mem.WriteU8(dst+uint32(n), 0)
	return n
}

func (vm *vmContext) String() string {
	return fmt.Sprintf("vmContext{pid=%d %s %s}", vm.pid, vm.nt, vm.gdi)
}
