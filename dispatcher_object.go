// dispatcher_object.go - kernel dispatcher objects and wait-semantics primitives
//
// Grounded on original_source/src/nt/sync.c (sync_is_signaled / sync_satisfy_wait
// / sync_get_header). The C original switches on an object kind tag to reach a
// shared {kind, signal, waiters} header; this is re-expressed as a tagged sum
// type with a shared dispatcherHeader embedded in every variant, matching the
// dense register-file/variant style of the teacher's CPU core.
//
// License: GPLv3 or later

package main

// dispatcherKind tags the variant carried by dispatcherObject.
type dispatcherKind int

const (
	kindEventNotification dispatcherKind = iota
	kindEventSynchronization
	kindSemaphore
	kindMutant
	kindTimer
	kindThreadExit
)

// dispatcherHeader is the common prefix every waitable kernel object shares.
// Operations that do not depend on the variant tag operate through this
// header alone.
type dispatcherHeader struct {
	kind    dispatcherKind
	signal  int32
	waiters *waitBlock // head of this object's waiter chain (non-owning)
}

// dispatcherObject is the tagged-variant kernel object described in spec §3.
// Every variant is this one struct (NT handle slots hold a *dispatcherObject);
// the variant-specific payload fields live on dispatcherObject itself rather
// than behind an interface, since the set of kinds is closed and hot-path
// dispatch switches on the tag directly.
type dispatcherObject struct {
	dispatcherHeader

	// Semaphore
	semCount int32
	semLimit int32

	// Mutant
	mutantOwner     uint32
	mutantRecursion uint32
	mutantAbandoned bool

	// Timer
	timerDue100ns  uint64
	timerPeriodMs  uint32
}

func newEventNotification(initiallySignaled bool) *dispatcherObject {
	o := &dispatcherObject{dispatcherHeader: dispatcherHeader{kind: kindEventNotification}}
	if initiallySignaled {
		o.signal = 1
	}
	return o
}

func newEventSynchronization(initiallySignaled bool) *dispatcherObject {
	o := &dispatcherObject{dispatcherHeader: dispatcherHeader{kind: kindEventSynchronization}}
	if initiallySignaled {
		o.signal = 1
	}
	return o
}

func newSemaphore(initial, limit int32) *dispatcherObject {
	return &dispatcherObject{
		dispatcherHeader: dispatcherHeader{kind: kindSemaphore, signal: initial},
		semCount:         initial,
		semLimit:         limit,
	}
}

func newMutant(initiallyOwned bool, owner uint32) *dispatcherObject {
	o := &dispatcherObject{dispatcherHeader: dispatcherHeader{kind: kindMutant}}
	if initiallyOwned {
		o.signal = -1
		o.mutantOwner = owner
		o.mutantRecursion = 1
	} else {
		o.signal = 1
	}
	return o
}

func newTimer() *dispatcherObject {
	return &dispatcherObject{dispatcherHeader: dispatcherHeader{kind: kindTimer}}
}

func newThreadExitObject() *dispatcherObject {
	return &dispatcherObject{dispatcherHeader: dispatcherHeader{kind: kindThreadExit}}
}

// isSignaled implements the per-kind query in spec §4.2's table.
func (o *dispatcherObject) isSignaled(threadID uint32) bool {
	switch o.kind {
	case kindEventNotification, kindEventSynchronization, kindTimer, kindThreadExit:
		return o.signal > 0
	case kindSemaphore:
		return o.signal > 0
	case kindMutant:
		return o.signal > 0 || (o.mutantOwner == threadID && threadID != 0)
	}
	return false
}

// satisfyWait applies the per-kind state transition a successful wait causes.
// This must only be called when isSignaled(threadID) was already true; the
// mutant case where neither branch applies (signal <= 0 and not owned by
// threadID) cannot be reached given that precondition.
func (o *dispatcherObject) satisfyWait(threadID uint32) {
	switch o.kind {
	case kindEventNotification, kindTimer, kindThreadExit:
		// no change, stays signaled
	case kindEventSynchronization:
		o.signal = 0
	case kindSemaphore:
		o.signal--
		o.semCount = o.signal
	case kindMutant:
		if o.signal > 0 {
			o.signal = -1
			o.mutantOwner = threadID
			o.mutantRecursion = 1
		} else if o.mutantOwner == threadID {
			o.mutantRecursion++
			o.signal--
		}
		// else: unreachable under the documented precondition.
	}
}

// abandon is invoked by the scheduler on thread termination for every mutant
// the terminating thread owns (spec §4.2, "Mutant abandonment").
func (o *dispatcherObject) abandon() {
	o.mutantAbandoned = true
	o.signal = 1
	o.mutantOwner = 0
	o.mutantRecursion = 0
}

// fireTimer transitions a timer to signaled and reschedules it if periodic.
func (o *dispatcherObject) fireTimer(now uint64) {
	o.signal = 1
	if o.timerPeriodMs > 0 {
		o.timerDue100ns = now + uint64(o.timerPeriodMs)*10_000
	}
}
