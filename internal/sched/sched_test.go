package sched

import (
	"reflect"
	"testing"
	"time"
)

func TestAdvanceFiresInDueOrder(t *testing.T) {
	s := New()
	var got []string

	s.After(300*time.Millisecond, func() { got = append(got, "c") })
	s.After(100*time.Millisecond, func() { got = append(got, "a") })
	s.After(200*time.Millisecond, func() { got = append(got, "b") })
	s.After(100*time.Millisecond, func() { got = append(got, "a2") })

	s.Advance(250 * time.Millisecond)
	if want := []string{"a", "a2", "b"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("fired %v, expected %v", got, want)
	}
	if s.Now() != 250*time.Millisecond {
		t.Errorf("Now() = %v, expected 250ms", s.Now())
	}

	s.Advance(50 * time.Millisecond)
	if want := []string{"a", "a2", "b", "c"}; !reflect.DeepEqual(got, want) {
		t.Errorf("fired %v, expected %v", got, want)
	}
	if s.Pending() != 0 {
		t.Errorf("Pending() = %d, expected 0", s.Pending())
	}
}

func TestCallbackSeesDueTime(t *testing.T) {
	s := New()
	var at time.Duration
	s.After(40*time.Millisecond, func() { at = s.Now() })

	s.Advance(100 * time.Millisecond)
	if at != 40*time.Millisecond {
		t.Errorf("callback saw Now() = %v, expected 40ms", at)
	}
}

func TestCancel(t *testing.T) {
	s := New()
	fired := false
	id := s.After(time.Second, func() { fired = true })

	if !s.Cancel(id) {
		t.Fatal("Cancel() should succeed for a waiting task")
	}
	if s.Cancel(id) {
		t.Error("Cancel() twice should return false")
	}

	s.Advance(2 * time.Second)
	if fired {
		t.Error("cancelled task must not fire")
	}
}

func TestChainedTasksWithinWindow(t *testing.T) {
	s := New()
	count := 0
	var tick func()
	tick = func() {
		count++
		s.After(100*time.Millisecond, tick)
	}
	s.After(100*time.Millisecond, tick)

	s.Advance(time.Second)
	if count != 10 {
		t.Errorf("chained task fired %d times, expected 10", count)
	}
}

func TestTimerRearmCancelsPrevious(t *testing.T) {
	s := New()
	timer := NewTimer(s)
	var fired []int

	timer.Arm(time.Second, func() { fired = append(fired, 1) })
	timer.Arm(2*time.Second, func() { fired = append(fired, 2) })

	if s.Pending() != 1 {
		t.Fatalf("re-arming should leave one task, got %d", s.Pending())
	}

	s.Advance(3 * time.Second)
	if !reflect.DeepEqual(fired, []int{2}) {
		t.Errorf("fired %v, expected only the second arm", fired)
	}
	if timer.Armed() {
		t.Error("timer should not be armed after firing")
	}
}

func TestTimerStop(t *testing.T) {
	s := New()
	timer := NewTimer(s)
	fired := false
	timer.Arm(time.Second, func() { fired = true })

	if !timer.Armed() {
		t.Fatal("timer should be armed")
	}
	timer.Stop()
	s.Advance(2 * time.Second)

	if fired || timer.Armed() {
		t.Error("stopped timer must not fire")
	}
}

func TestTimerRearmFromOwnCallback(t *testing.T) {
	s := New()
	timer := NewTimer(s)
	count := 0
	var fire func()
	fire = func() {
		count++
		if count < 3 {
			timer.Arm(time.Second, fire)
		}
	}
	timer.Arm(time.Second, fire)

	s.Advance(10 * time.Second)
	if count != 3 {
		t.Errorf("timer fired %d times, expected 3", count)
	}
}

func TestCancelAll(t *testing.T) {
	s := New()
	s.After(time.Second, func() { t.Error("should not fire") })
	s.After(2*time.Second, func() { t.Error("should not fire") })

	s.CancelAll()
	s.Advance(5 * time.Second)
	if s.Pending() != 0 {
		t.Errorf("Pending() = %d, expected 0", s.Pending())
	}
}
