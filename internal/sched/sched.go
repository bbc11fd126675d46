// Package sched provides a deterministic virtual-clock scheduler for
// game timers. Time only moves when the owner calls Advance, so timer-driven
// behavior runs on the same goroutine as the simulation and is reproducible
// in tests.
package sched

import (
	"sort"
	"time"
)

// TaskID identifies a scheduled task. The zero value is never issued.
type TaskID uint64

type task struct {
	id  TaskID
	due time.Duration
	fn  func()
}

// Scheduler runs one-shot callbacks at virtual times.
type Scheduler struct {
	now    time.Duration
	nextID TaskID
	tasks  map[TaskID]*task
}

// New creates a scheduler with its clock at zero.
func New() *Scheduler {
	return &Scheduler{tasks: make(map[TaskID]*task)}
}

// Now returns the current virtual time.
func (s *Scheduler) Now() time.Duration {
	return s.now
}

// After schedules fn to run once the clock has advanced by d.
// Non-positive delays fire on the next Advance call.
func (s *Scheduler) After(d time.Duration, fn func()) TaskID {
	if d < 0 {
		d = 0
	}
	s.nextID++
	id := s.nextID
	s.tasks[id] = &task{id: id, due: s.now + d, fn: fn}
	return id
}

// Cancel removes a scheduled task. Returns false if it already ran or was cancelled.
func (s *Scheduler) Cancel(id TaskID) bool {
	if _, ok := s.tasks[id]; !ok {
		return false
	}
	delete(s.tasks, id)
	return true
}

// Scheduled reports whether a task is still waiting to run.
func (s *Scheduler) Scheduled(id TaskID) bool {
	_, ok := s.tasks[id]
	return ok
}

// Pending returns the number of waiting tasks.
func (s *Scheduler) Pending() int {
	return len(s.tasks)
}

// CancelAll drops every waiting task.
func (s *Scheduler) CancelAll() {
	for id := range s.tasks {
		delete(s.tasks, id)
	}
}

// Advance moves the clock forward by d and runs every task that becomes due,
// ordered by due time then by scheduling order. Tasks scheduled by callbacks
// run in the same call when they fall due within the window.
func (s *Scheduler) Advance(d time.Duration) {
	target := s.now + d
	for {
		t := s.nextDue(target)
		if t == nil {
			break
		}
		delete(s.tasks, t.id)
		if t.due > s.now {
			s.now = t.due
		}
		t.fn()
	}
	s.now = target
}

// nextDue returns the earliest task due at or before target.
func (s *Scheduler) nextDue(target time.Duration) *task {
	var due []*task
	for _, t := range s.tasks {
		if t.due <= target {
			due = append(due, t)
		}
	}
	if len(due) == 0 {
		return nil
	}
	sort.Slice(due, func(i, j int) bool {
		if due[i].due != due[j].due {
			return due[i].due < due[j].due
		}
		return due[i].id < due[j].id
	})
	return due[0]
}

// Timer is a single re-armable slot on a Scheduler. Arming always cancels
// the previously armed task, so at most one firing per slot is outstanding.
type Timer struct {
	s  *Scheduler
	id TaskID
}

// NewTimer creates an unarmed timer bound to s.
func NewTimer(s *Scheduler) *Timer {
	return &Timer{s: s}
}

// Arm schedules fn after d, replacing any armed task.
func (t *Timer) Arm(d time.Duration, fn func()) {
	t.Stop()
	var id TaskID
	id = t.s.After(d, func() {
		if t.id == id {
			t.id = 0
		}
		fn()
	})
	t.id = id
}

// Stop cancels the armed task, if any.
func (t *Timer) Stop() {
	if t.id != 0 {
		t.s.Cancel(t.id)
		t.id = 0
	}
}

// Armed reports whether a task is waiting to fire.
func (t *Timer) Armed() bool {
	return t.id != 0 && t.s.Scheduled(t.id)
}
