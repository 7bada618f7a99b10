package cache

import "time"

// Set stores key->value. A positive ttl makes the entry expire ttl after this
// call; ttl <= 0 means it never expires. Any previous entry for key, including
// its expiry, is replaced.
func (c *Cache[K, V]) Set(key K, value V, ttl time.Duration) {
	var exp time.Time
	if ttl > 0 {
		exp = time.Now().Add(ttl)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.setLocked(key, value, exp)
}

// SetUntil stores key->value with an absolute expiry instant. A zero at means
// the entry never expires; an instant that is not in the future makes the
// entry invisible to every read from now on.
func (c *Cache[K, V]) SetUntil(key K, value V, at time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.setLocked(key, value, at)
}

func (s *store[K, V]) setLocked(key K, value V, exp time.Time) {
	s.items[key] = &Entry[V]{Value: value, ExpiresAt: exp}
	if s.queue != nil && !exp.IsZero() {
		s.queue.push(key, exp)
		s.compactQueueLocked()
	}
}

// Get returns the value for key if it is present and not expired.
//
// An expired entry found here is removed right away rather than left for the
// sweeper.
func (c *Cache[K, V]) Get(key K) (V, bool) {
	v, ok := c.lookup(key)
	c.stats.recordLookup(ok)
	return v, ok
}

// Contains reports whether Get would return a value for key.
func (c *Cache[K, V]) Contains(key K) bool {
	_, ok := c.lookup(key)
	return ok
}

func (c *Cache[K, V]) lookup(key K) (V, bool) {
	var zero V
	now := time.Now()

	c.mu.RLock()
	e, ok := c.items[key]
	if !ok {
		c.mu.RUnlock()
		return zero, false
	}
	if !e.expired(now) {
		v := e.Value
		c.mu.RUnlock()
		return v, true
	}
	c.mu.RUnlock()

	// Re-checked under the write lock: a concurrent Set may have re-armed the key.
	c.removeIfExpired(key, now)
	return zero, false
}

// Remove deletes key. Removing an absent key is a no-op.
func (c *Cache[K, V]) Remove(key K) {
	c.mu.Lock()
	delete(c.items, key)
	c.mu.Unlock()
}

// Clear deletes every entry.
func (c *Cache[K, V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = make(map[K]*Entry[V])
	if c.queue != nil {
		c.queue.reset()
	}
}

// Len returns the number of unexpired entries at the time of the call.
// Expired entries are not counted even if no sweep has removed them yet.
func (c *Cache[K, V]) Len() int {
	now := time.Now()
	c.mu.RLock()
	defer c.mu.RUnlock()

	n := 0
	for _, e := range c.items {
		if !e.expired(now) {
			n++
		}
	}
	return n
}

// IsEmpty reports whether Len is zero.
func (c *Cache[K, V]) IsEmpty() bool {
	now := time.Now()
	c.mu.RLock()
	defer c.mu.RUnlock()

	for _, e := range c.items {
		if !e.expired(now) {
			return false
		}
	}
	return true
}

// Keys returns the unexpired keys in no particular order.
func (c *Cache[K, V]) Keys() []K {
	now := time.Now()
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]K, 0, len(c.items))
	for k, e := range c.items {
		if !e.expired(now) {
			out = append(out, k)
		}
	}
	return out
}

// Entries returns the unexpired key-value pairs, taken under a single lock
// acquisition.
func (c *Cache[K, V]) Entries() []KeyValue[K, V] {
	now := time.Now()
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]KeyValue[K, V], 0, len(c.items))
	for k, e := range c.items {
		if !e.expired(now) {
			out = append(out, KeyValue[K, V]{Key: k, Value: e.Value})
		}
	}
	return out
}
