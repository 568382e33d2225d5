// thread.go - per-guest-thread record and CPU context snapshot
//
// Grounded on original_source/src/thread/scheduler.c's thread_t, and on the
// register-file shape of cpu_x86.go (naming convention for the snapshot
// fields only; the x86 interpreter itself is out of scope - see DESIGN.md).
//
// License: GPLv3 or later

package main

type threadState int

const (
	threadInit threadState = iota
	threadReady
	threadRunning
	threadWaiting
	threadTerminated
)

const maxWaitBlocks = 64

type waitType int

const (
	waitAny waitType = iota
	waitAll
)

// cpuContext is the full host-visible CPU state a context switch saves and
// restores: general-purpose registers, instruction pointer, segment bases
// (including the hidden descriptor-cache fields a real switch must carry),
// and FPU state. The software CPU itself is an external collaborator (see
// SPEC_FULL.md §1); this struct is the snapshot shape the scheduler's
// context switch manipulates, independent of any particular interpreter.
type cpuContext struct {
	GPR       [8]uint32 // EAX, ECX, EDX, EBX, ESP, EBP, ESI, EDI
	EIP       uint32
	EFlags    uint32
	SegBase   [6]uint32 // CS,DS,ES,FS,GS,SS linear bases
	SegLimit  [6]uint32
	FPUStack  [8]uint64
	FPUTag    uint16
	FPUTop    uint8
	FPUCtrl   uint16
	FPUStatus uint16
}

// waitBlock is the unit linking a waiting thread into an object's waiter
// chain. A thread owns a fixed array of these (its allocation); an object
// chain holds only a head pointer that is a non-owning reference into some
// thread's block array, per the cyclic-reference strategy in spec §9.
type waitBlock struct {
	owner        *threadRecord
	target       *dispatcherObject
	nextInChain  *waitBlock
	waitKey      int
}

type threadRecord struct {
	ID    uint32
	PID   uint32
	State threadState

	Context cpuContext

	StackBase  uint32
	StackLimit uint32
	StackSize  uint32
	TEBVAddr   uint32

	WaitStatus       NTSTATUS
	WaitTimeoutAbs   uint64 // absolute 100ns deadline, 0 = infinite
	WaitBlocks       [maxWaitBlocks]waitBlock
	WaitCount        int
	WaitType         waitType
	Alertable        bool

	Priority      int // [-15, +15]
	Quantum       int
	QuantumReset  int

	ExitCode   uint32
	Terminated bool
	ExitObject *dispatcherObject // signaled by Terminate; handle owners wait on this

	allListNext   *threadRecord
	readyListNext *threadRecord
}

func newThreadRecord(id, pid uint32, stackBase, stackLimit, tebVAddr uint32, priority, quantum int) *threadRecord {
	t := &threadRecord{
		ID:           id,
		PID:          pid,
		State:        threadInit,
		StackBase:    stackBase,
		StackLimit:   stackLimit,
		StackSize:    stackBase - stackLimit,
		TEBVAddr:     tebVAddr,
		Priority:     priority,
		Quantum:      quantum,
		QuantumReset: quantum,
	}
	for i := range t.WaitBlocks {
		t.WaitBlocks[i].owner = t
	}
	return t
}
