// main.go - WBOX entry point: wires the VM context and drives a demo scene
//
// Grounded on _examples/IntuitionAmiga-IntuitionEngine/main.go's shape: a
// flat main() that builds the bus/peripherals and starts the run loop, with
// boilerPlate()-style startup banner printing. The CPU/PE-loader/thunk layer
// this emulator would normally run guest code through is out of scope (see
// SPEC_FULL.md §1), so main drives a short demo sequence directly against
// the syscall handlers instead of loading and executing a guest program.
//
// License: GPLv3 or later

package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"
)

func boilerPlate() {
	fmt.Println("WBOX - a host-side NT/Win32k kernel surface")
	fmt.Println("dispatcher objects, handle tables, scheduler, software GDI")
	fmt.Println("License: GPLv3 or later")
}

// validateResolutionOverride accepts a width/height pair only when both are
// supplied together; a lone dimension is treated as malformed input and
// rejected rather than silently guessed at.
func validateResolutionOverride(width, height int) (int, int, bool) {
	if width > 0 && height > 0 {
		return width, height, true
	}
	return 0, 0, false
}

func main() {
	verbose := flag.Bool("verbose", false, "trace every dispatched syscall number and arguments")
	scale := flag.Int("scale", 1, "integer display scale factor (1-4)")
	width := flag.Int("width", 0, "override display width in pixels (requires -height)")
	height := flag.Int("height", 0, "override display height in pixels (requires -width)")
	fileRoot := flag.String("filedir", ".", "host directory NT file syscalls are sandboxed to")
	frames := flag.Int("frames", 0, "present this many demo frames then exit (0 = run until window closes)")
	flag.Parse()

	boilerPlate()

	w, h := 640, 480
	if ow, oh, ok := validateResolutionOverride(*width, *height); ok {
		w, h = ow, oh
	}
	s := clampScale(*scale)
	w, h = w*s, h*s

	display := newDisplayBackend()
	if err := display.Init(w, h, "WBOX"); err != nil {
		log.Fatalf("failed to initialize display backend: %v", err)
	}
	defer display.Close()

	mem := newFlatGuestMemory()
	vm := newVMContext(mem, display, 0x00100000, 0x00100000, *fileRoot)
	vm.disp.trace = *verbose

	vm.CreateMainThread(0x00200000, 0x001F0000, 0x7FFDE000)

	if _, err := loadBootstrapCursor(vm); err != nil {
		log.Printf("bootstrap cursor bitmap not loaded: %v", err)
	}

	printFeatures()
	runDemoScene(vm)

	frameCount := 0
	lastTick := time.Now()
	for {
		now := time.Now()
		vm.sched.AdvanceClock(uint64(now.Sub(lastTick) / 100))
		lastTick = now
		vm.sched.Tick()
		if vm.exitRequested {
			break
		}
		if display.PollEvents() {
			break
		}
		display.Present()
		frameCount++
		if *frames > 0 && frameCount >= *frames {
			break
		}
	}

	os.Exit(int(vm.exitStatus))
}

// runDemoScene exercises the GDI stack directly (brush/pen creation,
// rectangle, line, pixel ops, save/restore) the way a guest program would
// via the Win32k syscalls, standing in for the absent guest program this
// emulator would otherwise load and execute.
func runDemoScene(vm *vmContext) {
	hdc := vm.screenDCHandle

	brushStatus, brushResult, _ := sysNtGdiCreateSolidBrush(vm, []uint32{0x000000FF})
	if brushStatus != STATUS_SUCCESS {
		return
	}
	penStatus, penResult, _ := sysNtGdiCreatePen(vm, []uint32{0, 2, 0x00FFFFFF})
	if penStatus != STATUS_SUCCESS {
		return
	}

	sysNtGdiSelectBrush(vm, []uint32{hdc, brushResult})
	sysNtGdiSelectPen(vm, []uint32{hdc, penResult})

	w, h := vm.display.Dimensions()
	sysNtGdiRectangle(vm, []uint32{hdc, uint32(w / 4), uint32(h / 4), uint32(3 * w / 4), uint32(3 * h / 4)})
	sysNtGdiMoveTo(vm, []uint32{hdc, 0, 0, 0})
	sysNtGdiLineTo(vm, []uint32{hdc, uint32(w - 1), uint32(h - 1)})

	_, level, _ := sysNtGdiSaveDC(vm, []uint32{hdc})
	_ = level
	sysNtGdiSetPixel(vm, []uint32{hdc, uint32(w / 2), uint32(h / 2), 0x0000FF00})
	sysNtGdiRestoreDC(vm, []uint32{hdc, 0xFFFFFFFF})

	sysNtGdiFlush(vm, []uint32{hdc})
}
