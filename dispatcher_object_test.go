package main

import "testing"

func TestEventNotification_SatisfyWaitStaysSignaled(t *testing.T) {
	o := newEventNotification(true)
	if !o.isSignaled(0) {
		t.Fatal("expected initially signaled")
	}
	o.satisfyWait(1)
	if !o.isSignaled(0) {
		t.Fatal("notification event must remain signaled after a wait is satisfied")
	}
}

func TestEventSynchronization_SatisfyWaitResets(t *testing.T) {
	o := newEventSynchronization(true)
	if !o.isSignaled(0) {
		t.Fatal("expected initially signaled")
	}
	o.satisfyWait(1)
	if o.isSignaled(0) {
		t.Fatal("synchronization event must reset after a wait is satisfied")
	}
}

func TestSemaphore_SatisfyWaitDecrements(t *testing.T) {
	o := newSemaphore(2, 5)
	if !o.isSignaled(0) {
		t.Fatal("expected signaled with count 2")
	}
	o.satisfyWait(1)
	if o.signal != 1 || o.semCount != 1 {
		t.Fatalf("expected count 1 after one wait, got signal=%d semCount=%d", o.signal, o.semCount)
	}
	o.satisfyWait(1)
	if o.isSignaled(0) {
		t.Fatal("expected unsignaled once count reaches 0")
	}
}

func TestMutant_RecursiveAcquireByOwner(t *testing.T) {
	o := newMutant(false, 0)
	if !o.isSignaled(7) {
		t.Fatal("expected initially signaled (unowned)")
	}
	o.satisfyWait(7)
	if o.mutantOwner != 7 || o.mutantRecursion != 1 {
		t.Fatalf("expected owner=7 recursion=1, got owner=%d recursion=%d", o.mutantOwner, o.mutantRecursion)
	}
	if !o.isSignaled(7) {
		t.Fatal("owning thread must see its own mutant as acquirable (recursive)")
	}
	o.satisfyWait(7)
	if o.mutantRecursion != 2 {
		t.Fatalf("expected recursion count 2, got %d", o.mutantRecursion)
	}
	if o.isSignaled(3) {
		t.Fatal("non-owning thread must not see an owned mutant as signaled")
	}
}

func TestMutant_Abandon(t *testing.T) {
	o := newMutant(true, 5)
	o.abandon()
	if !o.mutantAbandoned {
		t.Fatal("expected mutantAbandoned to be set")
	}
	if o.mutantOwner != 0 || o.mutantRecursion != 0 {
		t.Fatalf("expected owner/recursion cleared, got owner=%d recursion=%d", o.mutantOwner, o.mutantRecursion)
	}
	if !o.isSignaled(0) {
		t.Fatal("expected abandoned mutant to read as signaled")
	}
}

func TestTimer_FireTimerReschedulesPeriodic(t *testing.T) {
	o := newTimer()
	o.timerPeriodMs = 10
	o.fireTimer(1000)
	if !o.isSignaled(0) {
		t.Fatal("expected signaled after firing")
	}
	if o.timerDue100ns != 1000+10*10_000 {
		t.Fatalf("expected next due 101000, got %d", o.timerDue100ns)
	}
}

func TestThreadExitObject_SignaledByTerminate(t *testing.T) {
	o := newThreadExitObject()
	if o.isSignaled(0) {
		t.Fatal("expected unsignaled before termination")
	}
	o.signal = 1
	if !o.isSignaled(0) {
		t.Fatal("expected signaled once set")
	}
	o.satisfyWait(0)
	if !o.isSignaled(0) {
		t.Fatal("thread exit object must stay signaled, like a notification event")
	}
}
