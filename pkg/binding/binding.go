// Package binding adapts the generic cache to a string-keyed, string-valued
// surface with millisecond TTLs, the shape host-language bindings expect.
package binding

import (
	"math"
	"time"

	"github.com/yourusername/minicache/pkg/cache"
)

// DefaultCleanupIntervalMs is used when Options leave the interval unset.
const DefaultCleanupIntervalMs uint32 = 60000

// Options configure a new StringCache.
type Options struct {
	CleanupIntervalMs *uint32 `json:"cleanupIntervalMs,omitempty"`
	ExpiryIndex       bool    `json:"expiryIndex,omitempty"`
}

// SetItem is one element of a SetMany batch. A nil TTLMs means no expiry.
type SetItem struct {
	Key   string  `json:"key"`
	Value string  `json:"value"`
	TTLMs *uint32 `json:"ttlMs,omitempty"`
}

// Entry is a key and its value.
type Entry struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// StringCache is a cache of strings.
type StringCache struct {
	c *cache.Cache[string, string]
}

// New creates a StringCache. opts may be nil.
func New(opts *Options) *StringCache {
	interval := DefaultCleanupIntervalMs
	cfg := cache.Config{}
	if opts != nil {
		if opts.CleanupIntervalMs != nil && *opts.CleanupIntervalMs > 0 {
			interval = *opts.CleanupIntervalMs
		}
		cfg.ExpiryIndex = opts.ExpiryIndex
	}
	cfg.CleanupInterval = time.Duration(interval) * time.Millisecond
	return &StringCache{c: cache.New[string, string](cfg)}
}

// Wrap exposes an existing cache through the string surface.
func Wrap(c *cache.Cache[string, string]) *StringCache {
	return &StringCache{c: c}
}

// Cache returns the underlying generic cache.
func (s *StringCache) Cache() *cache.Cache[string, string] {
	return s.c
}

// Set stores value under key. A nil ttlMs means no expiry; any other value,
// zero included, expires ttlMs milliseconds from now.
func (s *StringCache) Set(key, value string, ttlMs *uint32) {
	if ttlMs == nil {
		s.c.Set(key, value, 0)
		return
	}
	s.c.SetUntil(key, value, time.Now().Add(time.Duration(*ttlMs)*time.Millisecond))
}

// Get returns the value for key, or false when it is absent or expired.
func (s *StringCache) Get(key string) (string, bool) {
	return s.c.Get(key)
}

// Remove deletes key.
func (s *StringCache) Remove(key string) { s.c.Remove(key) }

// Clear deletes every entry.
func (s *StringCache) Clear() { s.c.Clear() }

// Has reports whether key holds an unexpired value.
func (s *StringCache) Has(key string) bool { return s.c.Contains(key) }

// Size returns the number of unexpired entries, saturating at math.MaxUint32.
func (s *StringCache) Size() uint32 { return clampUint32(s.c.Len()) }

// IsEmpty reports whether Size is zero.
func (s *StringCache) IsEmpty() bool { return s.c.IsEmpty() }

// Keys returns the unexpired keys in no particular order.
func (s *StringCache) Keys() []string { return s.c.Keys() }

// Entries returns every unexpired entry from one consistent snapshot.
func (s *StringCache) Entries() []Entry {
	return toEntries(s.c.Entries())
}

// SetMany sets each item in order; later items win on duplicate keys.
func (s *StringCache) SetMany(items []SetItem) {
	for _, it := range items {
		s.Set(it.Key, it.Value, it.TTLMs)
	}
}

// GetMany returns entries for the keys that are present, in key order.
func (s *StringCache) GetMany(keys []string) []Entry {
	return toEntries(s.c.GetMany(keys))
}

// Close stops the background sweeper.
func (s *StringCache) Close() error {
	return s.c.Close()
}

func toEntries(kvs []cache.KeyValue[string, string]) []Entry {
	out := make([]Entry, 0, len(kvs))
	for _, kv := range kvs {
		out = append(out, Entry{Key: kv.Key, Value: kv.Value})
	}
	return out
}

func clampUint32(n int) uint32 {
	if uint64(n) > math.MaxUint32 {
		return math.MaxUint32
	}
	return uint32(n)
}
