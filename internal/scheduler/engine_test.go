package scheduler

import (
	"testing"
	"time"
)

func TestEngineEmitsInStartOrder(t *testing.T) {
	engine := NewEngine(8)
	engine.Start()
	defer engine.Stop()

	now := time.Now().UTC()
	if err := engine.Schedule(StartAlert{TaskID: "later", StartAt: now.Add(80 * time.Millisecond)}); err != nil {
		t.Fatalf("schedule later: %v", err)
	}
	if err := engine.Schedule(StartAlert{TaskID: "sooner", StartAt: now.Add(20 * time.Millisecond)}); err != nil {
		t.Fatalf("schedule sooner: %v", err)
	}

	first := waitAlert(t, engine.C(), time.Second)
	second := waitAlert(t, engine.C(), time.Second)
	if first.TaskID != "sooner" || second.TaskID != "later" {
		t.Fatalf("unexpected order: first=%s second=%s", first.TaskID, second.TaskID)
	}
}

func TestCancelSuppressesAlert(t *testing.T) {
	engine := NewEngine(8)
	engine.Start()
	defer engine.Stop()

	now := time.Now().UTC()
	if err := engine.Schedule(StartAlert{TaskID: "moved", StartAt: now.Add(30 * time.Millisecond)}); err != nil {
		t.Fatalf("schedule: %v", err)
	}
	if err := engine.Schedule(StartAlert{TaskID: "kept", StartAt: now.Add(50 * time.Millisecond)}); err != nil {
		t.Fatalf("schedule: %v", err)
	}
	engine.Cancel("moved")

	got := waitAlert(t, engine.C(), time.Second)
	if got.TaskID != "kept" {
		t.Fatalf("cancelled alert delivered: %s", got.TaskID)
	}
}

func TestRescheduleAfterCancel(t *testing.T) {
	engine := NewEngine(8)
	engine.Start()
	defer engine.Stop()

	now := time.Now().UTC()
	_ = engine.Schedule(StartAlert{TaskID: "t1", StartAt: now.Add(30 * time.Millisecond)})
	engine.Cancel("t1")
	// Scheduling again clears the cancellation.
	_ = engine.Schedule(StartAlert{TaskID: "t1", StartAt: now.Add(60 * time.Millisecond)})

	got := waitAlert(t, engine.C(), time.Second)
	if got.TaskID != "t1" {
		t.Fatalf("rescheduled alert missing, got %s", got.TaskID)
	}
}

func TestEngineNonBlockingDropsWhenConsumerIsSlow(t *testing.T) {
	engine := NewEngine(1)
	engine.Start()
	defer engine.Stop()

	now := time.Now().UTC().Add(20 * time.Millisecond)
	for i := 0; i < 25; i++ {
		if err := engine.Schedule(StartAlert{TaskID: "evt", StartAt: now}); err != nil {
			t.Fatalf("schedule alert: %v", err)
		}
	}

	time.Sleep(120 * time.Millisecond)
	if engine.Dropped() == 0 {
		t.Fatalf("expected dropped alerts > 0, got %d", engine.Dropped())
	}
}

func TestScheduleValidatesStartTime(t *testing.T) {
	engine := NewEngine(1)
	if err := engine.Schedule(StartAlert{TaskID: "bad"}); err != ErrInvalidStartTime {
		t.Fatalf("expected ErrInvalidStartTime, got %v", err)
	}
}

func waitAlert(t *testing.T, ch <-chan StartAlert, timeout time.Duration) StartAlert {
	t.Helper()
	select {
	case a := <-ch:
		return a
	case <-time.After(timeout):
		t.Fatalf("timed out waiting for alert")
		return StartAlert{}
	}
}
