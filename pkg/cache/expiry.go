package cache

import (
	"log/slog"
	"sync"
	"time"
	"weak"
)

// sweeper periodically removes expired entries from one store.
//
// It holds the store through a weak pointer so that an unreferenced cache can
// be collected; a tick that finds the store gone ends the loop.
type sweeper[K comparable, V any] struct {
	target   weak.Pointer[store[K, V]]
	interval time.Duration
	log      *slog.Logger

	stopOnce sync.Once
	stopCh   chan struct{}
	done     chan struct{}
}

func startSweeper[K comparable, V any](s *store[K, V], interval time.Duration, log *slog.Logger) *sweeper[K, V] {
	sw := &sweeper[K, V]{
		target:   weak.Make(s),
		interval: interval,
		log:      log,
		stopCh:   make(chan struct{}),
		done:     make(chan struct{}),
	}
	go sw.run()
	return sw
}

// stop asks the loop to exit. It does not wait.
func (sw *sweeper[K, V]) stop() {
	sw.stopOnce.Do(func() {
		close(sw.stopCh)
	})
}

func (sw *sweeper[K, V]) run() {
	defer close(sw.done)

	t := time.NewTicker(sw.interval)
	defer t.Stop()

	sw.log.Debug("sweeper started", "interval", sw.interval)
	for {
		select {
		case <-sw.stopCh:
			sw.log.Debug("sweeper stopped")
			return
		case now := <-t.C:
			if !sw.tick(now) {
				sw.log.Debug("sweeper stopped", "reason", "store released")
				return
			}
		}
	}
}

// tick runs one sweep pass. It returns false once the store has been collected.
func (sw *sweeper[K, V]) tick(now time.Time) bool {
	s := sw.target.Value()
	if s == nil {
		return false
	}

	// A pending Lock keeps new readers out, so the wait is bounded by the
	// critical sections already in progress.
	if !s.mu.TryLock() {
		s.stats.contendedSweeps.Add(1)
		s.mu.Lock()
	}
	removed := s.sweepLocked(now)
	s.mu.Unlock()

	if removed > 0 {
		sw.log.Debug("swept expired entries", "removed", removed)
	}
	return true
}

// sweepLocked removes every entry that is expired at now. Caller holds s.mu.
// The decision is made on the entry currently stored under the key, so a key
// re-armed by a later Set is never removed.
func (s *store[K, V]) sweepLocked(now time.Time) int {
	removed := 0
	if s.queue != nil {
		for {
			key, ok := s.queue.popDue(now)
			if !ok {
				break
			}
			if e, exists := s.items[key]; exists && e.expired(now) {
				delete(s.items, key)
				removed++
			}
		}
		s.compactQueueLocked()
	} else {
		for k, e := range s.items {
			if e.expired(now) {
				delete(s.items, k)
				removed++
			}
		}
	}

	s.stats.recordSweep(now, removed)
	return removed
}

// removeIfExpired deletes key if it is still expired under the write lock.
func (s *store[K, V]) removeIfExpired(key K, now time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.items[key]
	if !ok || !e.expired(now) {
		return false
	}
	delete(s.items, key)
	s.stats.lazyRemovals.Add(1)
	return true
}

// SweepNow runs one sweep pass immediately, waiting for the lock if needed,
// and returns the number of entries removed.
func (c *Cache[K, V]) SweepNow() int {
	now := time.Now()
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sweepLocked(now)
}
