// Package scheduler is the simulation clock: a min-heap of scheduled
// events and the loop that drains it up to a target hour.
//
// Events at the same hour fire in the order they were scheduled. Every
// entry carries a sequence number taken from a monotonic counter, and the
// counter is part of the saved state, so the order survives a
// save/restore cycle.
package scheduler

import (
	"container/heap"
	"errors"
	"fmt"
	"sort"

	"github.com/runwaysim/runways/pkg/core"
)

// ErrInPast is returned when an event is scheduled before the clock.
var ErrInPast = errors.New("event scheduled in the past")

// ErrOverflow is returned when a delay runs past the last representable hour.
var ErrOverflow = errors.New("event time overflows the game clock")

// DispatchFunc handles one event. The clock already reads the event's hour.
type DispatchFunc func(core.ScheduledEvent)

type eventHeap []core.ScheduledEvent

func (h eventHeap) Len() int { return len(h) }
func (h eventHeap) Less(i, j int) bool {
	if h[i].Time != h[j].Time {
		return h[i].Time < h[j].Time
	}
	return h[i].Seq < h[j].Seq
}
func (h eventHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }
func (h *eventHeap) Push(x any)   { *h = append(*h, x.(core.ScheduledEvent)) }
func (h *eventHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// Scheduler owns the game clock and the pending events.
type Scheduler struct {
	now     core.GameTime
	nextSeq uint64
	queue   eventHeap
}

// New returns an empty scheduler whose clock reads now.
func New(now core.GameTime) *Scheduler {
	return &Scheduler{now: now}
}

// Now returns the current hour.
func (s *Scheduler) Now() core.GameTime {
	return s.now
}

// Len returns the number of pending events.
func (s *Scheduler) Len() int {
	return len(s.queue)
}

// NextSeq returns the sequence number the next event will get.
func (s *Scheduler) NextSeq() uint64 {
	return s.nextSeq
}

// Schedule queues ev to fire at hour at.
func (s *Scheduler) Schedule(at core.GameTime, ev core.Event) error {
	if at < s.now {
		return fmt.Errorf("%w: %s at %d, clock at %d", ErrInPast, ev.Kind, at, s.now)
	}
	heap.Push(&s.queue, core.ScheduledEvent{Time: at, Seq: s.nextSeq, Event: ev})
	s.nextSeq++
	return nil
}

// ScheduleIn queues ev to fire delay hours from now.
func (s *Scheduler) ScheduleIn(delay core.GameTime, ev core.Event) error {
	at := s.now + delay
	if at < s.now {
		return fmt.Errorf("%w: %s in %d hours, clock at %d", ErrOverflow, ev.Kind, delay, s.now)
	}
	return s.Schedule(at, ev)
}

// Peek returns the next event without removing it.
func (s *Scheduler) Peek() (core.ScheduledEvent, bool) {
	if len(s.queue) == 0 {
		return core.ScheduledEvent{}, false
	}
	return s.queue[0], true
}

// Advance fires every event due at or before target, moving the clock to
// each event's hour before dispatching it, and finally sets the clock to
// target. It returns the number of events fired. A target behind the
// clock fires nothing and leaves the clock alone.
func (s *Scheduler) Advance(target core.GameTime, dispatch DispatchFunc) int {
	if target < s.now {
		return 0
	}
	fired := 0
	for len(s.queue) > 0 && s.queue[0].Time <= target {
		ev := heap.Pop(&s.queue).(core.ScheduledEvent)
		s.now = ev.Time
		dispatch(ev)
		fired++
	}
	s.now = target
	return fired
}

// Pending returns a copy of the queue in firing order.
func (s *Scheduler) Pending() []core.ScheduledEvent {
	out := make([]core.ScheduledEvent, len(s.queue))
	copy(out, s.queue)
	sort.Slice(out, func(i, j int) bool {
		return eventHeap(out).Less(i, j)
	})
	return out
}

// Count returns how many pending events match the predicate.
func (s *Scheduler) Count(match func(core.ScheduledEvent) bool) int {
	n := 0
	for _, ev := range s.queue {
		if match(ev) {
			n++
		}
	}
	return n
}

// Restore rebuilds a scheduler from saved state. Events before now and
// sequence numbers at or above nextSeq are rejected.
func Restore(now core.GameTime, nextSeq uint64, events []core.ScheduledEvent) (*Scheduler, error) {
	s := &Scheduler{now: now, nextSeq: nextSeq, queue: make(eventHeap, 0, len(events))}
	seen := make(map[uint64]bool, len(events))
	for _, ev := range events {
		if ev.Time < now {
			return nil, fmt.Errorf("%w: saved %s at %d, clock at %d", ErrInPast, ev.Event.Kind, ev.Time, now)
		}
		if ev.Seq >= nextSeq {
			return nil, fmt.Errorf("saved event seq %d not below counter %d", ev.Seq, nextSeq)
		}
		if seen[ev.Seq] {
			return nil, fmt.Errorf("duplicate saved event seq %d", ev.Seq)
		}
		seen[ev.Seq] = true
		s.queue = append(s.queue, ev)
	}
	heap.Init(&s.queue)
	return s, nil
}
