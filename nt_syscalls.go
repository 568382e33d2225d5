// nt_syscalls.go - NT syscall numbers (<0x1000) and their handlers
//
// Grounded on _examples/original_source/src/nt/syscalls.h for the numeric
// values and on win32k_dispatcher.c's read_stack_arg/write_guest_dword idiom
// for how a handler pulls its arguments and writes results back into guest
// memory (out-pointer arguments land in the same stack slots a real NT call
// would use them in; the handle/status itself still returns through the
// accumulator per spec §4.6).
//
// License: GPLv3 or later

package main

// Real NT syscall numbers, taken from original_source/src/nt/syscalls.h.
const (
	ntClose                   = 27
	ntCreateEvent             = 37
	ntCreateFile              = 39
	ntCreateMutant            = 45
	ntCreateSemaphore         = 53
	ntCreateThread            = 55
	ntCreateTimer             = 56
	ntAlertThread             = 14
	ntDelayExecution          = 61
	ntOpenFile                = 122
	ntPulseEvent              = 144
	ntQueryPerformanceCounter = 173
	ntReadFile                = 191
	ntReleaseMutant           = 196
	ntReleaseSemaphore        = 197
	ntResetEvent              = 210
	ntSetEvent                = 228
	ntSetTimer                = 253
	ntTerminateProcess        = 266
	ntTerminateThread         = 267
	ntWaitForMultipleObjects  = 280
	ntWaitForSingleObject     = 281
	ntWriteFile               = 284
)

func registerNTSyscalls(d *syscallDispatcher) {
	d.register(ntClose, 1, sysNtClose)
	d.register(ntCreateFile, 3, sysNtCreateFile)
	d.register(ntOpenFile, 2, sysNtOpenFile)
	d.register(ntReadFile, 3, sysNtReadFile)
	d.register(ntWriteFile, 3, sysNtWriteFile)
	d.register(ntTerminateProcess, 1, sysNtTerminateProcess)
	d.register(ntQueryPerformanceCounter, 1, sysNtQueryPerformanceCounter)

	d.register(ntCreateEvent, 2, sysNtCreateEvent)
	d.register(ntSetEvent, 1, sysNtSetEvent)
	d.register(ntResetEvent, 1, sysNtResetEvent)
	d.register(ntPulseEvent, 1, sysNtPulseEvent)

	d.register(ntCreateSemaphore, 3, sysNtCreateSemaphore)
	d.register(ntReleaseSemaphore, 3, sysNtReleaseSemaphore)

	d.register(ntCreateMutant, 2, sysNtCreateMutant)
	d.register(ntReleaseMutant, 1, sysNtReleaseMutant)

	d.register(ntCreateTimer, 1, sysNtCreateTimer)
	d.register(ntSetTimer, 4, sysNtSetTimer)

	d.register(ntWaitForSingleObject, 3, sysNtWaitForSingleObject)
	d.register(ntWaitForMultipleObjects, 5, sysNtWaitForMultipleObjects)
	d.register(ntDelayExecution, 2, sysNtDelayExecution)

	d.register(ntCreateThread, 3, sysNtCreateThread)
	d.register(ntTerminateThread, 1, sysNtTerminateThread)
	d.register(ntAlertThread, 1, sysNtAlertThread)
}

// sysNtClose closes any NT handle kind uniformly; pseudo-handles are
// rejected the same way the table itself rejects them.
func sysNtClose(vm *vmContext, args []uint32) (NTSTATUS, uint32, bool) {
	return vm.nt.close(args[0]), 0, false
}

// readTimeoutPtr follows the convention used by both NtWaitFor* and
// NtDelayExecution: a null pointer means "wait forever" (timeoutAbs100ns 0,
// matching the scheduler's own infinite sentinel); otherwise the guest
// stores a signed 64-bit 100ns count, negative for relative-to-now and
// non-negative treated as already absolute against the scheduler's clock
// (there is no real FILETIME epoch wired into this emulator; see DESIGN.md).
func readTimeoutPtr(vm *vmContext, ptr uint32) uint64 {
	if ptr == 0 {
		return 0
	}
	lo := vm.mem.ReadU32(ptr)
	hi := vm.mem.ReadU32(ptr + 4)
	v := int64(uint64(hi)<<32 | uint64(lo))
	if v == 0 {
		// Poll: caller is expected to have already special-cased this by
		// reading the pointee directly before calling into the scheduler's
		// blocking Wait/Delay path; handlers below do exactly that.
		return 0
	}
	if v < 0 {
		return vm.sched.now100ns + uint64(-v)
	}
	return uint64(v)
}

// isPollTimeout reports whether the guest's timeout pointer is non-null and
// points at a literal zero, the NT convention for "test and return
// immediately" rather than "wait forever" (spec §4.2).
func isPollTimeout(vm *vmContext, ptr uint32) bool {
	if ptr == 0 {
		return false
	}
	lo := vm.mem.ReadU32(ptr)
	hi := vm.mem.ReadU32(ptr + 4)
	return lo == 0 && hi == 0
}

func sysNtCreateFile(vm *vmContext, args []uint32) (NTSTATUS, uint32, bool) {
	handlePtr, namePtr, accessMask := args[0], args[1], args[2]
	name := readGuestFileName(vm.mem, namePtr)
	f, status := vm.files.open(name, true)
	if status != STATUS_SUCCESS {
		return status, 0, false
	}
	h, status := vm.nt.allocFile(&ntFileRecord{File: f, AccessMask: accessMask})
	if status != STATUS_SUCCESS {
		f.Close()
		return status, 0, false
	}
	vm.mem.WriteU32(handlePtr, h)
	return STATUS_SUCCESS, 0, false
}

func sysNtOpenFile(vm *vmContext, args []uint32) (NTSTATUS, uint32, bool) {
	handlePtr, namePtr := args[0], args[1]
	name := readGuestFileName(vm.mem, namePtr)
	f, status := vm.files.open(name, false)
	if status != STATUS_SUCCESS {
		return status, 0, false
	}
	h, status := vm.nt.allocFile(&ntFileRecord{File: f})
	if status != STATUS_SUCCESS {
		f.Close()
		return status, 0, false
	}
	vm.mem.WriteU32(handlePtr, h)
	return STATUS_SUCCESS, 0, false
}

func sysNtReadFile(vm *vmContext, args []uint32) (NTSTATUS, uint32, bool) {
	h, bufPtr, length := args[0], args[1], args[2]
	slot, status := vm.nt.resolve(h)
	if status != STATUS_SUCCESS {
		return status, 0, false
	}
	if slot.kind != ntObjFile && slot.kind != ntObjConsole {
		return STATUS_INVALID_HANDLE, 0, false
	}
	buf := make([]byte, length)
	n, err := slot.file.File.ReadAt(buf, slot.file.Offset)
	if n > 0 {
		slot.file.Offset += int64(n)
		for i := 0; i < n; i++ {
			vm.mem.WriteU8(bufPtr+uint32(i), buf[i])
		}
	}
	if err != nil && n == 0 {
		return STATUS_IO_DEVICE_ERROR, 0, false
	}
	return STATUS_SUCCESS, uint32(n), false
}

func sysNtWriteFile(vm *vmContext, args []uint32) (NTSTATUS, uint32, bool) {
	h, bufPtr, length := args[0], args[1], args[2]
	slot, status := vm.nt.resolve(h)
	if status != STATUS_SUCCESS {
		return status, 0, false
	}
	if slot.kind != ntObjFile && slot.kind != ntObjConsole {
		return STATUS_INVALID_HANDLE, 0, false
	}
	buf := make([]byte, length)
	for i := uint32(0); i < length; i++ {
		buf[i] = byte(vm.mem.ReadU8(bufPtr + i))
	}
	var n int
	var err error
	if slot.kind == ntObjConsole {
		n, err = slot.file.File.Write(buf)
	} else {
		n, err = slot.file.File.WriteAt(buf, slot.file.Offset)
		slot.file.Offset += int64(n)
	}
	if err != nil {
		return STATUS_IO_DEVICE_ERROR, uint32(n), false
	}
	return STATUS_SUCCESS, uint32(n), false
}

func sysNtTerminateProcess(vm *vmContext, args []uint32) (NTSTATUS, uint32, bool) {
	vm.exitRequested = true
	vm.exitStatus = args[0]
	return STATUS_SUCCESS, 0, true
}

func sysNtQueryPerformanceCounter(vm *vmContext, args []uint32) (NTSTATUS, uint32, bool) {
	counterPtr := args[0]
	vm.mem.WriteU32(counterPtr, uint32(vm.sched.now100ns))
	vm.mem.WriteU32(counterPtr+4, uint32(vm.sched.now100ns>>32))
	return STATUS_SUCCESS, 0, false
}

func sysNtCreateEvent(vm *vmContext, args []uint32) (NTSTATUS, uint32, bool) {
	handlePtr, flags := args[0], args[1]
	notification := flags&1 != 0
	initial := flags&2 != 0
	var obj *dispatcherObject
	if notification {
		obj = newEventNotification(initial)
	} else {
		obj = newEventSynchronization(initial)
	}
	h, status := vm.nt.allocDispatcher(obj)
	if status != STATUS_SUCCESS {
		return status, 0, false
	}
	vm.mem.WriteU32(handlePtr, h)
	return STATUS_SUCCESS, 0, false
}

func resolveDispatcher(vm *vmContext, h uint32) (*dispatcherObject, NTSTATUS) {
	slot, status := vm.nt.resolve(h)
	if status != STATUS_SUCCESS {
		return nil, status
	}
	if slot.kind != ntObjDispatcher {
		return nil, STATUS_INVALID_HANDLE
	}
	return slot.dispatcher, STATUS_SUCCESS
}

func sysNtSetEvent(vm *vmContext, args []uint32) (NTSTATUS, uint32, bool) {
	obj, status := resolveDispatcher(vm, args[0])
	if status != STATUS_SUCCESS {
		return status, 0, false
	}
	obj.signal = 1
	vm.sched.SignalObject(obj)
	return STATUS_SUCCESS, 0, false
}

func sysNtResetEvent(vm *vmContext, args []uint32) (NTSTATUS, uint32, bool) {
	obj, status := resolveDispatcher(vm, args[0])
	if status != STATUS_SUCCESS {
		return status, 0, false
	}
	obj.signal = 0
	return STATUS_SUCCESS, 0, false
}

// sysNtPulseEvent signals, wakes waiters synchronously, then drops back to
// non-signaled; with the single-runner scheduler the wake walk is complete
// before this handler returns, so no race window exists before the reset.
func sysNtPulseEvent(vm *vmContext, args []uint32) (NTSTATUS, uint32, bool) {
	obj, status := resolveDispatcher(vm, args[0])
	if status != STATUS_SUCCESS {
		return status, 0, false
	}
	obj.signal = 1
	vm.sched.SignalObject(obj)
	obj.signal = 0
	return STATUS_SUCCESS, 0, false
}

func sysNtCreateSemaphore(vm *vmContext, args []uint32) (NTSTATUS, uint32, bool) {
	handlePtr, initial, limit := args[0], int32(args[1]), int32(args[2])
	if initial < 0 || limit < 1 || initial > limit {
		return STATUS_INVALID_PARAMETER, 0, false
	}
	h, status := vm.nt.allocDispatcher(newSemaphore(initial, limit))
	if status != STATUS_SUCCESS {
		return status, 0, false
	}
	vm.mem.WriteU32(handlePtr, h)
	return STATUS_SUCCESS, 0, false
}

func sysNtReleaseSemaphore(vm *vmContext, args []uint32) (NTSTATUS, uint32, bool) {
	h, releaseCount, prevCountPtr := args[0], int32(args[1]), args[2]
	obj, status := resolveDispatcher(vm, h)
	if status != STATUS_SUCCESS {
		return status, 0, false
	}
	if obj.kind != kindSemaphore {
		return STATUS_INVALID_HANDLE, 0, false
	}
	prev := obj.semCount
	if prev+releaseCount > obj.semLimit {
		return STATUS_INVALID_PARAMETER, 0, false
	}
	obj.semCount += releaseCount
	obj.signal = obj.semCount
	if prevCountPtr != 0 {
		vm.mem.WriteU32(prevCountPtr, uint32(prev))
	}
	vm.sched.SignalObject(obj)
	return STATUS_SUCCESS, 0, false
}

func sysNtCreateMutant(vm *vmContext, args []uint32) (NTSTATUS, uint32, bool) {
	handlePtr, initialOwner := args[0], args[1]
	owner := uint32(0)
	if vm.sched.current != nil {
		owner = vm.sched.current.ID
	}
	h, status := vm.nt.allocDispatcher(newMutant(initialOwner != 0, owner))
	if status != STATUS_SUCCESS {
		return status, 0, false
	}
	vm.mem.WriteU32(handlePtr, h)
	return STATUS_SUCCESS, 0, false
}

func sysNtReleaseMutant(vm *vmContext, args []uint32) (NTSTATUS, uint32, bool) {
	obj, status := resolveDispatcher(vm, args[0])
	if status != STATUS_SUCCESS {
		return status, 0, false
	}
	if obj.kind != kindMutant {
		return STATUS_INVALID_HANDLE, 0, false
	}
	if vm.sched.current == nil || obj.mutantOwner != vm.sched.current.ID {
		return STATUS_INVALID_PARAMETER, 0, false
	}
	obj.mutantRecursion--
	obj.signal++
	if obj.mutantRecursion == 0 {
		obj.mutantOwner = 0
		obj.signal = 1
		vm.sched.SignalObject(obj)
	}
	return STATUS_SUCCESS, 0, false
}

func sysNtCreateTimer(vm *vmContext, args []uint32) (NTSTATUS, uint32, bool) {
	handlePtr := args[0]
	h, status := vm.nt.allocDispatcher(newTimer())
	if status != STATUS_SUCCESS {
		return status, 0, false
	}
	vm.mem.WriteU32(handlePtr, h)
	return STATUS_SUCCESS, 0, false
}

// sysNtSetTimer is supplemented: the distilled surface only names
// NtCreateTimer, but a timer with no way to arm it can never fire. DueTime
// follows the same signed-100ns convention as the wait timeout pointer;
// Period is milliseconds, 0 for one-shot.
func sysNtSetTimer(vm *vmContext, args []uint32) (NTSTATUS, uint32, bool) {
	h, dueTimePtr, period := args[0], args[1], args[2]
	obj, status := resolveDispatcher(vm, h)
	if status != STATUS_SUCCESS {
		return status, 0, false
	}
	if obj.kind != kindTimer {
		return STATUS_INVALID_HANDLE, 0, false
	}
	obj.signal = 0
	obj.timerDue100ns = readTimeoutPtr(vm, dueTimePtr)
	if obj.timerDue100ns == 0 {
		obj.timerDue100ns = vm.sched.now100ns
	}
	obj.timerPeriodMs = period
	return STATUS_SUCCESS, 0, false
}

func sysNtWaitForSingleObject(vm *vmContext, args []uint32) (NTSTATUS, uint32, bool) {
	h, alertable, timeoutPtr := args[0], args[1], args[2]
	obj, status := resolveDispatcher(vm, h)
	if status != STATUS_SUCCESS {
		return status, 0, false
	}
	t := vm.sched.current
	if t == nil {
		return STATUS_INVALID_PARAMETER, 0, false
	}
	objects := []*dispatcherObject{obj}
	if isPollTimeout(vm, timeoutPtr) {
		if s, ok := vm.sched.tryFastPath(t, objects, waitAny); ok {
			return s, 0, false
		}
		return STATUS_TIMEOUT, 0, false
	}
	status = vm.sched.Wait(t, objects, waitAny, readTimeoutPtr(vm, timeoutPtr), alertable != 0)
	return status, 0, false
}

func sysNtWaitForMultipleObjects(vm *vmContext, args []uint32) (NTSTATUS, uint32, bool) {
	count, handlesPtr, waitAllFlag, alertable, timeoutPtr := args[0], args[1], args[2], args[3], args[4]
	if count == 0 || int(count) > maxWaitBlocks {
		return STATUS_INVALID_PARAMETER, 0, false
	}
	objects := make([]*dispatcherObject, count)
	for i := uint32(0); i < count; i++ {
		h := vm.mem.ReadU32(handlesPtr + 4*i)
		obj, status := resolveDispatcher(vm, h)
		if status != STATUS_SUCCESS {
			return status, 0, false
		}
		objects[i] = obj
	}
	t := vm.sched.current
	if t == nil {
		return STATUS_INVALID_PARAMETER, 0, false
	}
	wt := waitAny
	if waitAllFlag != 0 {
		wt = waitAll
	}
	if isPollTimeout(vm, timeoutPtr) {
		if s, ok := vm.sched.tryFastPath(t, objects, wt); ok {
			return s, 0, false
		}
		return STATUS_TIMEOUT, 0, false
	}
	status := vm.sched.Wait(t, objects, wt, readTimeoutPtr(vm, timeoutPtr), alertable != 0)
	return status, 0, false
}

func sysNtDelayExecution(vm *vmContext, args []uint32) (NTSTATUS, uint32, bool) {
	alertable, intervalPtr := args[0], args[1]
	t := vm.sched.current
	if t == nil {
		return STATUS_INVALID_PARAMETER, 0, false
	}
	if isPollTimeout(vm, intervalPtr) {
		return STATUS_SUCCESS, 0, false
	}
	status := vm.sched.Delay(t, readTimeoutPtr(vm, intervalPtr), alertable != 0)
	return status, 0, false
}

// sysNtCreateThread and friends are supplemented: the distilled
// syscall table does not list them explicitly but the scheduler's thread
// model (component D) is unusable from guest code without a way to spawn,
// terminate, and alert a second thread.
func sysNtCreateThread(vm *vmContext, args []uint32) (NTSTATUS, uint32, bool) {
	handlePtr, stackBase, startVAddr := args[0], args[1], args[2]
	t := vm.sched.NewThread(vm.pid, stackBase, stackBase-0x10000, 0, 0, 20)
	t.Context.EIP = startVAddr
	t.Context.GPR[4] = stackBase
	t.ExitObject = newThreadExitObject()
	h, status := vm.nt.allocDispatcher(t.ExitObject)
	if status != STATUS_SUCCESS {
		return status, 0, false
	}
	vm.mem.WriteU32(handlePtr, h)
	return STATUS_SUCCESS, 0, false
}

// sysNtTerminateThread only supports self-termination (handle 0, matching
// the guest CRT's own thread-exit thunk); terminating another thread by
// handle would require suspending it mid-quantum, which the cooperative
// single-runner scheduler has no safe way to do.
func sysNtTerminateThread(vm *vmContext, args []uint32) (NTSTATUS, uint32, bool) {
	h := args[0]
	t := vm.sched.current
	if t == nil {
		return STATUS_INVALID_PARAMETER, 0, false
	}
	if h == 0 {
		if t.ExitObject == nil {
			t.ExitObject = newThreadExitObject()
		}
		var mutants []*dispatcherObject
		for i := range vm.nt.slots {
			if s := &vm.nt.slots[i]; s.inUse && s.kind == ntObjDispatcher && s.dispatcher.kind == kindMutant {
				mutants = append(mutants, s.dispatcher)
			}
		}
		vm.sched.Terminate(t, 0, mutants, t.ExitObject)
		return STATUS_SUCCESS, 0, false
	}
	return STATUS_NOT_IMPLEMENTED, 0, false
}

func sysNtAlertThread(vm *vmContext, args []uint32) (NTSTATUS, uint32, bool) {
	t := vm.sched.current
	if t == nil {
		return STATUS_INVALID_PARAMETER, 0, false
	}
	vm.sched.Alert(t)
	return STATUS_SUCCESS, 0, false
}
