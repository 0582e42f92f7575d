package reconciler

import (
	"sync"

	"github.com/emirpasic/gods/maps/linkedhashmap"

	"github.com/vango-dev/reactor/pkg/hooks"
)

// pendingStore collects the mutations queued for one composite.
type pendingStore struct {
	store   *hooks.Store
	updates []hooks.Update
}

// updateQueue holds state mutations until the next commit. Entries are keyed
// by hook store, which is one-to-one with a mounted composite, and drained in
// the order each composite first received a mutation. Safe for concurrent
// use.
type updateQueue struct {
	mu      sync.Mutex
	entries *linkedhashmap.Map // store ID -> *pendingStore
	size    int

	// wake has capacity 1; a pending signal already covers later enqueues.
	wake chan struct{}

	report func(error)
	depth  func(int)
}

func newUpdateQueue() *updateQueue {
	return &updateQueue{
		entries: linkedhashmap.New(),
		wake:    make(chan struct{}, 1),
	}
}

// Enqueue implements hooks.Queue. It never applies the mutation.
func (q *updateQueue) Enqueue(u hooks.Update) {
	if u.Store == nil || u.Apply == nil {
		return
	}
	q.mu.Lock()
	key := u.Store.ID()
	var entry *pendingStore
	if v, ok := q.entries.Get(key); ok {
		entry = v.(*pendingStore)
	} else {
		entry = &pendingStore{store: u.Store}
		q.entries.Put(key, entry)
	}
	entry.updates = append(entry.updates, u)
	q.size++
	size := q.size
	q.mu.Unlock()

	if q.depth != nil {
		q.depth(size)
	}
	select {
	case q.wake <- struct{}{}:
	default:
	}
}

// Report implements hooks.ErrorReporter.
func (q *updateQueue) Report(err error) {
	if q.report != nil {
		q.report(err)
	}
}

// drain removes and returns every pending entry in first-enqueue order.
func (q *updateQueue) drain() []*pendingStore {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.entries.Empty() {
		return nil
	}
	out := make([]*pendingStore, 0, q.entries.Size())
	it := q.entries.Iterator()
	for it.Next() {
		out = append(out, it.Value().(*pendingStore))
	}
	q.entries.Clear()
	q.size = 0
	if q.depth != nil {
		q.depth(0)
	}
	return out
}

// len returns the number of queued mutations.
func (q *updateQueue) len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.size
}
