package cache

import (
	"sync/atomic"
	"time"
)

// Stats is a point-in-time copy of a cache's counters.
type Stats struct {
	Hits            uint64
	Misses          uint64
	LazyRemovals    uint64 // expired entries deleted by Get or Contains
	Sweeps          uint64 // completed sweep passes
	ContendedSweeps uint64 // sweep passes that waited for the lock
	Swept           uint64 // entries removed by sweep passes
	LastSweep       time.Time
}

// counters are updated under either lock mode, hence atomics.
type counters struct {
	hits            atomic.Uint64
	misses          atomic.Uint64
	lazyRemovals    atomic.Uint64
	sweeps          atomic.Uint64
	contendedSweeps atomic.Uint64
	swept           atomic.Uint64
	lastSweep       atomic.Int64 // unix nanos, 0 = never
}

func (c *counters) recordSweep(now time.Time, removed int) {
	c.sweeps.Add(1)
	c.swept.Add(uint64(removed))
	c.lastSweep.Store(now.UnixNano())
}

func (c *counters) recordLookup(hit bool) {
	if hit {
		c.hits.Add(1)
	} else {
		c.misses.Add(1)
	}
}

// Stats returns the cache's counters.
func (c *Cache[K, V]) Stats() Stats {
	st := Stats{
		Hits:            c.stats.hits.Load(),
		Misses:          c.stats.misses.Load(),
		LazyRemovals:    c.stats.lazyRemovals.Load(),
		Sweeps:          c.stats.sweeps.Load(),
		ContendedSweeps: c.stats.contendedSweeps.Load(),
		Swept:           c.stats.swept.Load(),
	}
	if ns := c.stats.lastSweep.Load(); ns != 0 {
		st.LastSweep = time.Unix(0, ns)
	}
	return st
}

// RawLen returns the number of entries physically held, including expired
// entries that have not been reclaimed yet.
func (c *Cache[K, V]) RawLen() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}
