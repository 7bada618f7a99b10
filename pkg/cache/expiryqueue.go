package cache

import (
	"container/heap"
	"time"
)

// compactSlack keeps small stores from rebuilding the index on every overwrite.
const compactSlack = 64

// expiryItem schedules key for a check at the given instant.
type expiryItem[K comparable] struct {
	key K
	at  time.Time
}

type expiryHeap[K comparable] []expiryItem[K]

func (h expiryHeap[K]) Len() int           { return len(h) }
func (h expiryHeap[K]) Less(i, j int) bool { return h[i].at.Before(h[j].at) }
func (h expiryHeap[K]) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }

func (h *expiryHeap[K]) Push(x any) { *h = append(*h, x.(expiryItem[K])) }

func (h *expiryHeap[K]) Pop() any {
	old := *h
	n := len(old)
	it := old[n-1]
	var zero expiryItem[K]
	old[n-1] = zero
	*h = old[:n-1]
	return it
}

// expiryQueue orders keys by expiry instant.
//
// Entries are never removed from the queue on overwrite or Remove; the sweeper
// re-checks the live entry for every key it pops, so stale items are harmless
// and are dropped either when popped or when the queue is compacted.
type expiryQueue[K comparable] struct {
	h expiryHeap[K]
}

func newExpiryQueue[K comparable]() *expiryQueue[K] {
	return &expiryQueue[K]{}
}

func (q *expiryQueue[K]) push(key K, at time.Time) {
	heap.Push(&q.h, expiryItem[K]{key: key, at: at})
}

// popDue removes and returns the earliest key whose instant is at or before now.
func (q *expiryQueue[K]) popDue(now time.Time) (K, bool) {
	if len(q.h) == 0 || now.Before(q.h[0].at) {
		var zero K
		return zero, false
	}
	it := heap.Pop(&q.h).(expiryItem[K])
	return it.key, true
}

func (q *expiryQueue[K]) len() int {
	return len(q.h)
}

func (q *expiryQueue[K]) reset() {
	q.h = nil
}

// compactQueueLocked rebuilds the expiry index from the live entries once stale
// items outnumber them. Caller holds s.mu.
func (s *store[K, V]) compactQueueLocked() {
	if s.queue == nil || s.queue.len() <= 2*len(s.items)+compactSlack {
		return
	}
	h := make(expiryHeap[K], 0, len(s.items))
	for k, e := range s.items {
		if !e.ExpiresAt.IsZero() {
			h = append(h, expiryItem[K]{key: k, at: e.ExpiresAt})
		}
	}
	heap.Init(&h)
	s.queue.h = h
}
