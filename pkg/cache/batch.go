package cache

// SetMany applies every item as an independent Set, in slice order.
//
// The batch is not atomic: concurrent readers may observe a prefix of it.
// When a key appears more than once, the last occurrence wins.
func (c *Cache[K, V]) SetMany(items []Item[K, V]) {
	for _, it := range items {
		c.Set(it.Key, it.Value, it.TTL)
	}
}

// GetMany looks up each key independently and returns the hits in the order
// the keys were given. Absent and expired keys are left out.
func (c *Cache[K, V]) GetMany(keys []K) []KeyValue[K, V] {
	out := make([]KeyValue[K, V], 0, len(keys))
	for _, k := range keys {
		if v, ok := c.Get(k); ok {
			out = append(out, KeyValue[K, V]{Key: k, Value: v})
		}
	}
	return out
}
