// Package notify holds the process-wide queue of transient operator-facing
// messages. Entries auto-expire on a per-entry timer unless pushed as sticky.
package notify

import (
	"sync"
	"time"
)

// Kind classifies a notification for the rendering surface.
type Kind string

const (
	KindInfo    Kind = "info"
	KindSuccess Kind = "success"
	KindError   Kind = "error"
	KindWarning Kind = "warning"
)

// DefaultTTL is how long a notification lives unless pushed with an explicit
// duration.
const DefaultTTL = 4 * time.Second

// Notification is one entry in the queue. Sticky entries (pushed with a
// non-positive duration) stay until explicitly removed.
type Notification struct {
	ID        int64     `json:"id"`
	Kind      Kind      `json:"kind"`
	Message   string    `json:"message"`
	Sticky    bool      `json:"sticky"`
	CreatedAt time.Time `json:"created_at"`
}

// Queue is an insertion-ordered list of notifications with per-entry expiry
// timers. Timers live in a side table keyed by id so that removal is a
// targeted lookup, and cancelling a timer that already fired is harmless.
type Queue struct {
	mu     sync.Mutex
	nextID int64
	items  []Notification
	timers map[int64]*time.Timer

	// OnChange, when set, receives a snapshot after every mutation. It is
	// invoked outside the queue lock, so the callback may call back into
	// the queue. Set it before the first Push.
	OnChange func([]Notification)
}

// NewQueue creates an empty queue.
func NewQueue() *Queue {
	return &Queue{timers: make(map[int64]*time.Timer)}
}

// Push appends a notification with the default TTL and returns its id.
func (q *Queue) Push(kind Kind, message string) int64 {
	return q.PushFor(kind, message, DefaultTTL)
}

// PushFor appends a notification that expires after d. A non-positive d
// means the entry is sticky and only leaves via Remove.
func (q *Queue) PushFor(kind Kind, message string, d time.Duration) int64 {
	q.mu.Lock()
	q.nextID++
	id := q.nextID
	q.items = append(q.items, Notification{
		ID:        id,
		Kind:      kind,
		Message:   message,
		Sticky:    d <= 0,
		CreatedAt: time.Now(),
	})
	if d > 0 {
		q.timers[id] = time.AfterFunc(d, func() { q.Remove(id) })
	}
	snapshot := q.snapshotLocked()
	q.mu.Unlock()

	q.notify(snapshot)
	return id
}

// Remove deletes the entry with the given id and cancels its pending timer.
// Removing an unknown or already-expired id is a no-op, so calling it twice
// (or from inside the expiry callback) is safe.
func (q *Queue) Remove(id int64) {
	q.mu.Lock()
	if t, ok := q.timers[id]; ok {
		t.Stop()
		delete(q.timers, id)
	}
	idx := -1
	for i, n := range q.items {
		if n.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		q.mu.Unlock()
		return
	}
	q.items = append(q.items[:idx], q.items[idx+1:]...)
	snapshot := q.snapshotLocked()
	q.mu.Unlock()

	q.notify(snapshot)
}

// Items returns a copy of the queue in insertion order.
func (q *Queue) Items() []Notification {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.snapshotLocked()
}

// Len returns the number of live notifications.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

func (q *Queue) snapshotLocked() []Notification {
	out := make([]Notification, len(q.items))
	copy(out, q.items)
	return out
}

func (q *Queue) notify(snapshot []Notification) {
	if q.OnChange != nil {
		q.OnChange(snapshot)
	}
}
