package queue

import (
	"sync"
	"testing"
)

type entry struct {
	Hour uint64
	Text string
}

func TestQueue_PushDrain(t *testing.T) {
	q := New[entry](0)
	q.Push(entry{1, "plane 0 departed"})
	q.Push(entry{2, "plane 0 arrived"}, entry{2, "order 4 delivered"})

	if q.Len() != 3 {
		t.Fatalf("expected 3 items, got %d", q.Len())
	}
	got := q.Drain()
	if len(got) != 3 || got[0].Text != "plane 0 departed" || got[2].Text != "order 4 delivered" {
		t.Errorf("unexpected drain: %+v", got)
	}
	if q.Len() != 0 {
		t.Errorf("expected empty queue after drain, got %d", q.Len())
	}
}

func TestQueue_Bounded(t *testing.T) {
	q := New[int](3)
	q.Push(1, 2)
	q.Push(3, 4, 5)

	got := q.Drain()
	if len(got) != 3 || got[0] != 3 || got[2] != 5 {
		t.Errorf("expected [3 4 5], got %v", got)
	}
}

func TestQueue_NegativeLimit(t *testing.T) {
	q := New[int](-1)
	for i := range 50 {
		q.Push(i)
	}
	if q.Len() != 50 {
		t.Errorf("expected 50, got %d", q.Len())
	}
}

func TestQueue_Peek(t *testing.T) {
	q := New[string](0)
	q.Push("a", "b")

	p := q.Peek()
	p[0] = "changed"
	if q.Len() != 2 {
		t.Errorf("peek must not remove items")
	}
	if q.Drain()[0] != "a" {
		t.Error("peek must return a copy")
	}
}

func TestQueue_ConcurrentPush(t *testing.T) {
	q := New[int](0)
	var wg sync.WaitGroup
	for i := range 100 {
		wg.Add(1)
		go func(v int) {
			defer wg.Done()
			q.Push(v)
		}(i)
	}
	wg.Wait()

	if q.Len() != 100 {
		t.Errorf("expected 100 items, got %d", q.Len())
	}
}
