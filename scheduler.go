// scheduler.go - cooperative single-runner scheduler
//
// Grounded on original_source/src/thread/scheduler.c: the tick/context-switch/
// timeout-sweep/block-thread/signal-object algorithms below follow that file's
// structure closely, re-expressed with Go slices/pointers in place of the C
// original's fixed arrays and manual linked-list surgery.
//
// License: GPLv3 or later

package main

import "fmt"

// memoryBusContract is the subset of the CPU/memory-bus external contract
// (spec §6) the scheduler needs: setting the FS segment base on context
// switch so the guest can locate its TEB through the FS selector.
type memoryBusContract interface {
	SetFSBase(vaddr uint32)
}

type scheduler struct {
	bus memoryBusContract

	all     []*threadRecord
	ready   []*threadRecord
	current *threadRecord

	nextTID uint32

	// now100ns is the scheduler's notion of wall-clock time in 100-nanosecond
	// units. It starts at 0 and is not tied to the FILETIME epoch; wait
	// deadlines are compared against it directly. Advanced by Tick's caller
	// via AdvanceClock.
	now100ns uint64

	idle *threadRecord // sentinel parked-CPU marker; never scheduled
}

func newScheduler(bus memoryBusContract) *scheduler {
	return &scheduler{bus: bus, nextTID: 1}
}

// NewThread creates a thread record in the Ready state and enqueues it.
func (s *scheduler) NewThread(pid, stackBase, stackLimit, tebVAddr uint32, priority, quantum int) *threadRecord {
	t := newThreadRecord(s.nextTID, pid, stackBase, stackLimit, tebVAddr, priority, quantum)
	s.nextTID++
	t.State = threadReady
	s.all = append(s.all, t)
	s.enqueueReady(t)
	return t
}

func (s *scheduler) enqueueReady(t *threadRecord) {
	s.ready = append(s.ready, t)
}

func (s *scheduler) dequeueReady() *threadRecord {
	if len(s.ready) == 0 {
		return nil
	}
	t := s.ready[0]
	s.ready = s.ready[1:]
	return t
}

// Tick is called from the CPU loop every fixed number of executed
// instructions: it decrements the current thread's quantum and, on
// exhaustion, rotates the ready queue via a context switch.
func (s *scheduler) Tick() {
	s.sweepTimeouts()

	if s.current == nil {
		s.scheduleNext()
		return
	}

	s.current.Quantum--
	if s.current.Quantum > 0 {
		return
	}
	s.current.Quantum = s.current.QuantumReset
	if len(s.ready) == 0 {
		return
	}
	outgoing := s.current
	outgoing.State = threadReady
	s.enqueueReady(outgoing)
	s.scheduleNext()
}

// scheduleNext dequeues the head of the ready queue (if any) and context
// switches into it. If the ready queue is empty, current becomes nil (the
// idle state) until an external event makes a thread Ready.
func (s *scheduler) scheduleNext() {
	incoming := s.dequeueReady()
	if incoming == nil {
		s.current = nil
		return
	}
	s.contextSwitch(s.current, incoming)
}

// contextSwitch saves the live CPU state into outgoing's snapshot (if any)
// and loads incoming's snapshot into the live CPU state, setting FS base to
// the incoming thread's TEB virtual address so the guest's FS-relative TEB
// access resolves correctly.
func (s *scheduler) contextSwitch(outgoing, incoming *threadRecord) {
	// outgoing.Context already holds the live register state in this
	// emulator: the "live CPU register file" the spec describes is modeled
	// here as the current thread's own Context value, so saving is a
	// no-op beyond the bookkeeping above; a CPU driver wired to real
	// registers copies its live file into outgoing.Context before calling
	// this method and incoming.Context into its live file after.
	incoming.State = threadRunning
	s.current = incoming
	s.bus.SetFSBase(incoming.TEBVAddr)
}

// AdvanceClock moves the scheduler's wall-clock forward; callers drive this
// from the host monotonic clock once per tick.
func (s *scheduler) AdvanceClock(delta100ns uint64) {
	s.now100ns += delta100ns
}

// sweepTimeouts runs each tick. It first fires every due timer that a
// waiting thread is blocked on (a timer with no waiter is not fired here),
// then wakes with STATUS_TIMEOUT any waiting thread whose absolute deadline
// has passed, unlinking it from every object chain it was waiting on.
func (s *scheduler) sweepTimeouts() {
	var timers []*dispatcherObject
	for _, t := range s.all {
		if t.State != threadWaiting {
			continue
		}
		for i := 0; i < t.WaitCount; i++ {
			if o := t.WaitBlocks[i].target; o != nil && o.kind == kindTimer {
				timers = append(timers, o)
			}
		}
	}
	for _, o := range timers {
		s.FireTimer(o)
	}

	for _, t := range s.all {
		if t.State != threadWaiting {
			continue
		}
		if t.WaitTimeoutAbs == 0 || t.WaitTimeoutAbs > s.now100ns {
			continue
		}
		s.detachWaitBlocks(t)
		t.WaitStatus = STATUS_TIMEOUT
		t.State = threadReady
		s.enqueueReady(t)
	}
}

// FireTimer fires a Timer dispatcher object whose due time has passed and
// runs the normal signal-path wake walk over its waiters.
func (s *scheduler) FireTimer(obj *dispatcherObject) {
	if obj.kind != kindTimer {
		return
	}
	if obj.timerDue100ns == 0 || obj.timerDue100ns > s.now100ns {
		return
	}
	obj.fireTimer(s.now100ns)
	s.SignalObject(obj)
}

// detachWaitBlocks removes every wait block belonging to t from the object
// chains it is linked into. Each object's chain only holds a head pointer
// (non-owning); removal is a pointer-rewrite over the singly-linked chain.
func (s *scheduler) detachWaitBlocks(t *threadRecord) {
	for i := 0; i < t.WaitCount; i++ {
		wb := &t.WaitBlocks[i]
		obj := wb.target
		if obj == nil {
			continue
		}
		if obj.waiters == wb {
			obj.waiters = wb.nextInChain
		} else {
			for p := obj.waiters; p != nil; p = p.nextInChain {
				if p.nextInChain == wb {
					p.nextInChain = wb.nextInChain
					break
				}
			}
		}
		wb.target = nil
		wb.nextInChain = nil
	}
	t.WaitCount = 0
}

// Wait evaluates a wait request per spec §4.2: a fast path that can
// immediately satisfy the request, and a slow path that blocks the calling
// thread. Returns the satisfying status if the fast path applies. Otherwise
// it links t into the objects' waiter chains, switches away from t and
// returns at once; the value it returns then is t.WaitStatus as it stood
// before the wait, not the wait's result, which a later signal, timeout or
// alert stores in t.WaitStatus when it makes t Ready.
func (s *scheduler) Wait(t *threadRecord, objects []*dispatcherObject, wt waitType, timeoutAbs100ns uint64, alertable bool) NTSTATUS {
	if len(objects) == 0 || len(objects) > maxWaitBlocks {
		return STATUS_INVALID_PARAMETER
	}

	if status, ok := s.tryFastPath(t, objects, wt); ok {
		return status
	}
	if timeoutAbs100ns != 0 && timeoutAbs100ns <= s.now100ns {
		return STATUS_TIMEOUT
	}

	s.blockOnWait(t, objects, wt, timeoutAbs100ns, alertable)
	// In a real integration the CPU loop suspends here until the scheduler
	// resumes t; this function is written so that once resumed, t.WaitStatus
	// holds the answer. Embedding engines call this, then check
	// t.State == threadRunning before reading WaitStatus on resume.
	return t.WaitStatus
}

// Delay implements NtDelayExecution: the calling thread blocks on no object,
// waking only via the timeout sweep (or an alert). There is nothing to
// signal it early, so an already-past deadline degenerates to an immediate
// STATUS_SUCCESS rather than a real suspension. A zero deadline means no
// deadline: only an alert wakes the thread.
func (s *scheduler) Delay(t *threadRecord, timeoutAbs100ns uint64, alertable bool) NTSTATUS {
	if timeoutAbs100ns != 0 && timeoutAbs100ns <= s.now100ns {
		return STATUS_SUCCESS
	}
	t.WaitCount = 0
	t.WaitType = waitAny
	t.WaitTimeoutAbs = timeoutAbs100ns
	t.Alertable = alertable
	t.State = threadWaiting
	if s.current == t {
		s.current = nil
	}
	s.scheduleNext()
	if t.WaitStatus == STATUS_TIMEOUT {
		return STATUS_SUCCESS
	}
	return t.WaitStatus
}

func (s *scheduler) tryFastPath(t *threadRecord, objects []*dispatcherObject, wt waitType) (NTSTATUS, bool) {
	switch wt {
	case waitAny:
		for i, o := range objects {
			if o.isSignaled(t.ID) {
				o.satisfyWait(t.ID)
				if o.kind == kindMutant && o.mutantAbandoned {
					o.mutantAbandoned = false
					return waitAbandoned(i), true
				}
				return waitSatisfied(i), true
			}
		}
		return 0, false
	case waitAll:
		for _, o := range objects {
			if !o.isSignaled(t.ID) {
				return 0, false
			}
		}
		abandoned := false
		for _, o := range objects {
			if o.kind == kindMutant && o.mutantAbandoned {
				abandoned = true
				o.mutantAbandoned = false
			}
			o.satisfyWait(t.ID)
		}
		if abandoned {
			return waitAbandoned(0), true
		}
		return waitSatisfied(0), true
	}
	return 0, false
}

func (s *scheduler) blockOnWait(t *threadRecord, objects []*dispatcherObject, wt waitType, timeoutAbs100ns uint64, alertable bool) {
	t.WaitCount = len(objects)
	t.WaitType = wt
	t.WaitTimeoutAbs = timeoutAbs100ns
	t.Alertable = alertable

	for i, o := range objects {
		wb := &t.WaitBlocks[i]
		wb.target = o
		wb.waitKey = i
		wb.nextInChain = o.waiters
		o.waiters = wb
	}

	t.State = threadWaiting
	if s.current == t {
		s.current = nil
	}
	s.scheduleNext()
}

// SignalObject walks obj's waiter chain after a syscall handler changed its
// state such that it may now be signaled (SetEvent, ReleaseSemaphore,
// ReleaseMutant, timer fire, thread exit). For each waiter it checks whether
// that waiter's whole wait request is now satisfiable, and if so, satisfies
// every object in the waiter's set (in original index order), detaches the
// waiter's blocks, and makes it Ready.
func (s *scheduler) SignalObject(obj *dispatcherObject) {
	wb := obj.waiters
	for wb != nil {
		next := wb.nextInChain
		t := wb.owner

		satisfiable := false
		switch t.WaitType {
		case waitAny:
			satisfiable = obj.isSignaled(t.ID)
		case waitAll:
			satisfiable = true
			for i := 0; i < t.WaitCount; i++ {
				if !t.WaitBlocks[i].target.isSignaled(t.ID) {
					satisfiable = false
					break
				}
			}
		}

		if satisfiable {
			abandoned := false
			switch t.WaitType {
			case waitAny:
				if obj.kind == kindMutant && obj.mutantAbandoned {
					abandoned = true
					obj.mutantAbandoned = false
				}
				obj.satisfyWait(t.ID)
				if abandoned {
					t.WaitStatus = waitAbandoned(wb.waitKey)
				} else {
					t.WaitStatus = waitSatisfied(wb.waitKey)
				}
			case waitAll:
				for i := 0; i < t.WaitCount; i++ {
					o := t.WaitBlocks[i].target
					if o.kind == kindMutant && o.mutantAbandoned {
						abandoned = true
						o.mutantAbandoned = false
					}
					o.satisfyWait(t.ID)
				}
				if abandoned {
					t.WaitStatus = waitAbandoned(0)
				} else {
					t.WaitStatus = waitSatisfied(0)
				}
			}

			s.detachWaitBlocks(t)
			t.State = threadReady
			s.enqueueReady(t)
		}

		if !obj.isSignaled(t.ID) {
			// Auto-reset event / exhausted semaphore: stop the wake walk.
			break
		}
		wb = next
	}
}

// Alert implements NtAlertThread: an alertable waiting thread wakes with
// STATUS_ALERTED; a non-alertable wait ignores the alert.
func (s *scheduler) Alert(t *threadRecord) {
	if t.State != threadWaiting || !t.Alertable {
		return
	}
	s.detachWaitBlocks(t)
	t.WaitStatus = STATUS_ALERTED
	t.State = threadReady
	s.enqueueReady(t)
}

// Terminate moves t to Terminated, abandons every mutant in owned that t
// still owns (waking their waiters the same way a normal release would;
// other entries are left alone), and removes t from
// scheduling; if t was current, the head of the ready queue is switched in.
// exitObj is t's ThreadExit dispatcher object, signaled so
// anyone waiting on the thread handle wakes.
func (s *scheduler) Terminate(t *threadRecord, exitCode uint32, owned []*dispatcherObject, exitObj *dispatcherObject) {
	t.ExitCode = exitCode
	t.Terminated = true
	t.State = threadTerminated

	for _, m := range owned {
		if m.kind == kindMutant && m.mutantOwner == t.ID {
			m.abandon()
			s.SignalObject(m)
		}
	}

	exitObj.signal = 1
	s.SignalObject(exitObj)

	if s.current == t {
		s.current = nil
		s.scheduleNext()
	}
}

func (s *scheduler) String() string {
	return fmt.Sprintf("scheduler{threads=%d ready=%d current=%v}", len(s.all), len(s.ready), s.current)
}
