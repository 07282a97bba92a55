package notify

import (
	"sync"
	"testing"
	"time"
)

func TestPushPreservesInsertionOrder(t *testing.T) {
	q := NewQueue()
	q.PushFor(KindInfo, "first", 0)
	q.PushFor(KindError, "second", 0)
	q.PushFor(KindSuccess, "third", 0)

	items := q.Items()
	if len(items) != 3 {
		t.Fatalf("len = %d, want 3", len(items))
	}
	for i, want := range []string{"first", "second", "third"} {
		if items[i].Message != want {
			t.Errorf("items[%d] = %q, want %q", i, items[i].Message, want)
		}
	}
}

func TestIDsAreMonotonic(t *testing.T) {
	q := NewQueue()
	a := q.PushFor(KindInfo, "a", 0)
	b := q.PushFor(KindInfo, "b", 0)
	c := q.PushFor(KindInfo, "c", 0)
	if !(a < b && b < c) {
		t.Fatalf("ids not monotonic: %d, %d, %d", a, b, c)
	}
}

func TestAutoExpiry(t *testing.T) {
	q := NewQueue()
	q.PushFor(KindInfo, "short-lived", 20*time.Millisecond)

	if q.Len() != 1 {
		t.Fatalf("len = %d, want 1 before expiry", q.Len())
	}

	time.Sleep(100 * time.Millisecond)
	if q.Len() != 0 {
		t.Fatalf("len = %d, want 0 after expiry", q.Len())
	}
}

func TestStickyDoesNotExpire(t *testing.T) {
	q := NewQueue()
	id := q.PushFor(KindWarning, "sticky", 0)

	time.Sleep(60 * time.Millisecond)
	items := q.Items()
	if len(items) != 1 || items[0].ID != id {
		t.Fatalf("sticky notification expired: %+v", items)
	}
	if !items[0].Sticky {
		t.Fatal("notification not marked sticky")
	}

	q.Remove(id)
	if q.Len() != 0 {
		t.Fatal("sticky notification not removable")
	}
}

func TestRemoveIsIdempotent(t *testing.T) {
	q := NewQueue()
	id := q.PushFor(KindInfo, "once", 0)

	q.Remove(id)
	q.Remove(id) // second call must be a no-op
	q.Remove(9999)

	if q.Len() != 0 {
		t.Fatalf("len = %d, want 0", q.Len())
	}
}

func TestRemoveCancelsTimer(t *testing.T) {
	q := NewQueue()
	id := q.PushFor(KindInfo, "dismissed early", 30*time.Millisecond)
	keep := q.PushFor(KindInfo, "survivor", 0)

	q.Remove(id)
	time.Sleep(80 * time.Millisecond)

	// The cancelled timer must not have fired against a reused position.
	items := q.Items()
	if len(items) != 1 || items[0].ID != keep {
		t.Fatalf("queue after cancelled timer = %+v, want only id %d", items, keep)
	}
}

func TestDefaultTTL(t *testing.T) {
	if DefaultTTL != 4*time.Second {
		t.Fatalf("DefaultTTL = %v, want 4s", DefaultTTL)
	}
}

func TestOnChangeReceivesSnapshots(t *testing.T) {
	q := NewQueue()

	var mu sync.Mutex
	var calls [][]Notification
	q.OnChange = func(s []Notification) {
		mu.Lock()
		calls = append(calls, s)
		mu.Unlock()
	}

	id := q.PushFor(KindInfo, "hello", 0)
	q.Remove(id)

	mu.Lock()
	defer mu.Unlock()
	if len(calls) != 2 {
		t.Fatalf("OnChange fired %d times, want 2", len(calls))
	}
	if len(calls[0]) != 1 || len(calls[1]) != 0 {
		t.Fatalf("snapshot sizes = %d, %d; want 1, 0", len(calls[0]), len(calls[1]))
	}
}

func TestOnChangeMayCallBackIntoQueue(t *testing.T) {
	q := NewQueue()
	q.OnChange = func(s []Notification) {
		// Re-entrancy: reading the queue from the hook must not deadlock.
		_ = len(s)
		_ = q.Len()
	}
	id := q.PushFor(KindInfo, "reentrant", 0)
	q.Remove(id)
}

func TestExpiryNotifiesOnChange(t *testing.T) {
	q := NewQueue()

	done := make(chan int, 4)
	q.OnChange = func(s []Notification) { done <- len(s) }

	q.PushFor(KindInfo, "expiring", 15*time.Millisecond)
	<-done // push snapshot

	select {
	case n := <-done:
		if n != 0 {
			t.Fatalf("snapshot after expiry has %d items, want 0", n)
		}
	case <-time.After(time.Second):
		t.Fatal("expiry never fired OnChange")
	}
}
