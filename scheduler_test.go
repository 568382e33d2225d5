package main

import "testing"

type fakeBus struct{ fsBase uint32 }

func (b *fakeBus) SetFSBase(vaddr uint32) { b.fsBase = vaddr }

func newTestScheduler() (*scheduler, *fakeBus) {
	bus := &fakeBus{}
	return newScheduler(bus), bus
}

// dequeueAsCurrent pops the given just-created thread off the ready queue
// and makes it current, the state blockOnWait assumes its caller is in
// (a running thread blocking itself), without pulling in the full syscall
// dispatch path this test file is exercising underneath.
func dequeueAsCurrent(s *scheduler, t *threadRecord) {
	s.scheduleNext()
	if s.current != t {
		panic("test setup: expected thread to be at the head of the ready queue")
	}
}

func TestScheduler_WaitFastPathOnAlreadySignaledEvent(t *testing.T) {
	s, _ := newTestScheduler()
	waiter := s.NewThread(1, 0x1000, 0x0, 0x2000, 0, 4)
	dequeueAsCurrent(s, waiter)

	evt := newEventNotification(true)
	status := s.Wait(waiter, []*dispatcherObject{evt}, waitAny, 0, false)
	if status != waitSatisfied(0) {
		t.Fatalf("expected WAIT_0, got %s", status)
	}
}

func TestScheduler_WaitBlocksThenWakesOnSignal(t *testing.T) {
	s, _ := newTestScheduler()
	waiter := s.NewThread(1, 0x1000, 0x0, 0x2000, 0, 4)
	dequeueAsCurrent(s, waiter)

	evt := newEventSynchronization(false)
	s.blockOnWait(waiter, []*dispatcherObject{evt}, waitAny, 0, false)
	if waiter.State != threadWaiting {
		t.Fatalf("expected waiter to be Waiting, got %v", waiter.State)
	}
	if s.current == waiter {
		t.Fatal("expected scheduler to move off the blocked thread")
	}

	evt.signal = 1
	s.SignalObject(evt)
	if waiter.State != threadReady {
		t.Fatalf("expected waiter Ready after signal, got %v", waiter.State)
	}
	if waiter.WaitStatus != waitSatisfied(0) {
		t.Fatalf("expected WAIT_0, got %s", waiter.WaitStatus)
	}
}

func TestScheduler_SignalObjectStopsAtAutoResetExhaustion(t *testing.T) {
	s, _ := newTestScheduler()
	w1 := s.NewThread(1, 0x1000, 0, 0x2000, 0, 4)
	dequeueAsCurrent(s, w1)
	evt := newEventSynchronization(false)
	s.blockOnWait(w1, []*dispatcherObject{evt}, waitAny, 0, false)

	w2 := s.NewThread(2, 0x3000, 0, 0x4000, 0, 4)
	dequeueAsCurrent(s, w2)
	s.blockOnWait(w2, []*dispatcherObject{evt}, waitAny, 0, false)

	evt.signal = 1
	s.SignalObject(evt)

	// Head insertion puts the most recent waiter (w2) at the chain head.
	if w2.State != threadReady {
		t.Fatal("expected the waiter at the chain head woken")
	}
	if w1.State == threadReady {
		t.Fatal("auto-reset event must not wake a second waiter in the same signal")
	}
}

func TestScheduler_TimeoutSweepWakesExpiredWaiter(t *testing.T) {
	s, _ := newTestScheduler()
	waiter := s.NewThread(1, 0x1000, 0, 0x2000, 0, 4)
	dequeueAsCurrent(s, waiter)
	evt := newEventSynchronization(false)
	s.blockOnWait(waiter, []*dispatcherObject{evt}, waitAny, 100, false)

	s.now100ns = 50
	s.sweepTimeouts()
	if waiter.State != threadWaiting {
		t.Fatal("expected waiter still waiting before deadline")
	}

	s.now100ns = 150
	s.sweepTimeouts()
	if waiter.State != threadReady {
		t.Fatal("expected waiter woken once deadline passed")
	}
	if waiter.WaitStatus != STATUS_TIMEOUT {
		t.Fatalf("expected STATUS_TIMEOUT, got %s", waiter.WaitStatus)
	}
}

func TestScheduler_TerminateAbandonsOwnedMutantAndSignalsExit(t *testing.T) {
	s, _ := newTestScheduler()
	owner := s.NewThread(1, 0x1000, 0, 0x2000, 0, 4)
	dequeueAsCurrent(s, owner)

	waiter := s.NewThread(2, 0x3000, 0, 0x4000, 0, 4)
	dequeueAsCurrent(s, waiter)

	mx := newMutant(true, owner.ID)
	exitObj := newThreadExitObject()
	owner.ExitObject = exitObj

	s.blockOnWait(waiter, []*dispatcherObject{mx}, waitAny, 0, false)

	s.Terminate(owner, 42, []*dispatcherObject{mx}, exitObj)

	if waiter.State != threadReady {
		t.Fatal("expected waiter woken by mutant abandonment")
	}
	if waiter.WaitStatus != waitAbandoned(0) {
		t.Fatalf("expected abandoned wait status, got %s", waiter.WaitStatus)
	}
	if !exitObj.isSignaled(0) {
		t.Fatal("expected thread exit object signaled after Terminate")
	}
	if owner.State != threadTerminated {
		t.Fatalf("expected owner Terminated, got %v", owner.State)
	}
}

func TestScheduler_DelayDegeneratesWhenDeadlineAlreadyPassed(t *testing.T) {
	s, _ := newTestScheduler()
	t1 := s.NewThread(1, 0x1000, 0, 0x2000, 0, 4)
	dequeueAsCurrent(s, t1)
	s.now100ns = 1000
	status := s.Delay(t1, 500, false)
	if status != STATUS_SUCCESS {
		t.Fatalf("expected STATUS_SUCCESS for a past deadline, got %s", status)
	}
}

func TestScheduler_AlertWakesAlertableWaiterOnly(t *testing.T) {
	s, _ := newTestScheduler()
	alertable := s.NewThread(1, 0x1000, 0, 0x2000, 0, 4)
	dequeueAsCurrent(s, alertable)
	evt := newEventSynchronization(false)
	s.blockOnWait(alertable, []*dispatcherObject{evt}, waitAny, 0, true)

	nonAlertable := s.NewThread(2, 0x3000, 0, 0x4000, 0, 4)
	dequeueAsCurrent(s, nonAlertable)
	s.blockOnWait(nonAlertable, []*dispatcherObject{evt}, waitAny, 0, false)

	s.Alert(alertable)
	if alertable.State != threadReady || alertable.WaitStatus != STATUS_ALERTED {
		t.Fatalf("expected alertable waiter woken with STATUS_ALERTED, got state=%v status=%s", alertable.State, alertable.WaitStatus)
	}

	s.Alert(nonAlertable)
	if nonAlertable.State != threadWaiting {
		t.Fatal("expected non-alertable waiter to remain blocked after Alert")
	}
}
