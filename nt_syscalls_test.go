package main

import (
	"os"
	"testing"
)

func newTestVMContext() *vmContext {
	mem := newFlatGuestMemory()
	vm := &vmContext{
		mem:  mem,
		nt:   newNTHandleTable(os.Stdin, os.Stdout, os.Stderr),
		gdi:  newGDIHandleTable(),
		sched: newScheduler(mem),
		pid:  1,
	}
	vm.disp = newSyscallDispatcher()
	return vm
}

// TestCreateThread_WaitOnHandleWakesOnTerminate guards the ExitObject fix:
// a thread waiting on another thread's creation handle must wake when that
// thread terminates, which only holds if both syscalls share one dispatcher
// object instead of each allocating its own.
func TestCreateThread_WaitOnHandleWakesOnTerminate(t *testing.T) {
	vm := newTestVMContext()

	mainThread := vm.sched.NewThread(vm.pid, 0x10000, 0, 0x20000, 0, 10)
	vm.sched.scheduleNext() // mainThread becomes current
	if vm.sched.current != mainThread {
		t.Fatal("test setup: expected mainThread to be current")
	}

	const handlePtr = 0x5000
	status, _, _ := sysNtCreateThread(vm, []uint32{handlePtr, 0x30000, 0x401000})
	if status != STATUS_SUCCESS {
		t.Fatalf("sysNtCreateThread: expected STATUS_SUCCESS, got %s", status)
	}
	h := vm.mem.ReadU32(handlePtr)

	var child *threadRecord
	for _, th := range vm.sched.all {
		if th != mainThread {
			child = th
		}
	}
	if child == nil {
		t.Fatal("expected a second thread record to have been created")
	}

	sysNtWaitForSingleObject(vm, []uint32{h, 0, 0})
	if mainThread.State != threadWaiting {
		t.Fatalf("expected mainThread Waiting on the child's exit handle, got %v", mainThread.State)
	}

	vm.sched.current = child
	status, _, _ = sysNtTerminateThread(vm, []uint32{0})
	if status != STATUS_SUCCESS {
		t.Fatalf("sysNtTerminateThread: expected STATUS_SUCCESS, got %s", status)
	}

	// The terminating child was current, so Terminate switches straight into
	// the woken mainThread, the only ready thread.
	if mainThread.State != threadRunning || vm.sched.current != mainThread {
		t.Fatal("expected mainThread woken and running once the waited-on thread terminated")
	}
	if mainThread.WaitStatus != waitSatisfied(0) {
		t.Fatalf("expected WAIT_0, got %s", mainThread.WaitStatus)
	}
}

func TestCreateEventAndSetEvent_WakesWaiter(t *testing.T) {
	vm := newTestVMContext()
	waiter := vm.sched.NewThread(vm.pid, 0x10000, 0, 0x20000, 0, 10)
	vm.sched.scheduleNext()

	const handlePtr = 0x6000
	// flags bit0=notification, bit1=initial-signaled; 0 => auto-reset, unsignaled.
	status, _, _ := sysNtCreateEvent(vm, []uint32{handlePtr, 0})
	if status != STATUS_SUCCESS {
		t.Fatalf("sysNtCreateEvent: expected STATUS_SUCCESS, got %s", status)
	}
	h := vm.mem.ReadU32(handlePtr)

	sysNtWaitForSingleObject(vm, []uint32{h, 0, 0})
	if waiter.State != threadWaiting {
		t.Fatal("expected waiter blocked on the unsignaled event")
	}

	status, _, _ = sysNtSetEvent(vm, []uint32{h})
	if status != STATUS_SUCCESS {
		t.Fatalf("sysNtSetEvent: expected STATUS_SUCCESS, got %s", status)
	}
	if waiter.State != threadReady {
		t.Fatal("expected waiter woken by SetEvent")
	}
}

func TestWaitForSingleObject_PollTimeoutDoesNotBlock(t *testing.T) {
	vm := newTestVMContext()
	waiter := vm.sched.NewThread(vm.pid, 0x10000, 0, 0x20000, 0, 10)
	vm.sched.scheduleNext()

	const handlePtr = 0x6000
	const zeroTimeoutPtr = 0x7000
	sysNtCreateEvent(vm, []uint32{handlePtr, 0})
	h := vm.mem.ReadU32(handlePtr)
	vm.mem.WriteU32(zeroTimeoutPtr, 0)
	vm.mem.WriteU32(zeroTimeoutPtr+4, 0)

	status, _, _ := sysNtWaitForSingleObject(vm, []uint32{h, 0, zeroTimeoutPtr})
	if status != STATUS_TIMEOUT {
		t.Fatalf("expected STATUS_TIMEOUT for a poll against an unsignaled object, got %s", status)
	}
	if waiter.State != threadRunning {
		t.Fatal("expected a poll wait to never block the calling thread")
	}
}

func TestTerminateThread_RejectsNonSelfHandle(t *testing.T) {
	vm := newTestVMContext()
	caller := vm.sched.NewThread(vm.pid, 0x10000, 0, 0x20000, 0, 10)
	vm.sched.scheduleNext()
	_ = caller

	status, _, _ := sysNtTerminateThread(vm, []uint32{0xDEAD})
	if status != STATUS_NOT_IMPLEMENTED {
		t.Fatalf("expected STATUS_NOT_IMPLEMENTED for a non-self handle, got %s", status)
	}
}
