package cache

import (
	"log/slog"
	"runtime"
	"sync"
	"time"

	"github.com/google/uuid"
)

// DefaultCleanupInterval is the sweeper period used when Config.CleanupInterval is not positive.
const DefaultCleanupInterval = 60 * time.Second

// Entry represents a cached value and expiry metadata.
type Entry[V any] struct {
	Value     V
	ExpiresAt time.Time // zero = no expiry
}

// expired reports whether the entry is logically absent at now.
// An entry expires once the clock reaches its expiry instant.
func (e *Entry[V]) expired(now time.Time) bool {
	return !e.ExpiresAt.IsZero() && !now.Before(e.ExpiresAt)
}

// Item is one element of a SetMany batch. TTL <= 0 means no expiry.
type Item[K comparable, V any] struct {
	Key   K
	Value V
	TTL   time.Duration
}

// KeyValue is a key and the value it held when it was read.
type KeyValue[K comparable, V any] struct {
	Key   K
	Value V
}

// Config controls the sweeper of a Cache.
type Config struct {
	// CleanupInterval is the sweeper tick period. Values <= 0 select DefaultCleanupInterval.
	CleanupInterval time.Duration

	// ExpiryIndex keeps a min-heap of expiry instants so that a sweep only
	// visits entries that are actually due instead of scanning the whole map.
	ExpiryIndex bool

	// Logger receives sweeper lifecycle events. Nil means slog.Default().
	Logger *slog.Logger
}

func (cfg Config) withDefaults() Config {
	if cfg.CleanupInterval <= 0 {
		cfg.CleanupInterval = DefaultCleanupInterval
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return cfg
}

// store holds the entries and everything the sweeper needs to reach.
// The sweeper only keeps a weak pointer to it.
type store[K comparable, V any] struct {
	mu    sync.RWMutex
	items map[K]*Entry[V]
	queue *expiryQueue[K] // nil unless Config.ExpiryIndex
	stats counters
}

// Cache is a concurrency-safe key-value store with optional per-entry TTL.
//
// A Cache owns one background sweeper. The sweeper stops when Close is called
// or when the Cache becomes unreachable, whichever happens first.
type Cache[K comparable, V any] struct {
	*store[K, V]

	id       string
	interval time.Duration
	sweeper  *sweeper[K, V]
}

// New constructs a Cache and starts its sweeper.
func New[K comparable, V any](cfg Config) *Cache[K, V] {
	cfg = cfg.withDefaults()

	s := &store[K, V]{items: make(map[K]*Entry[V])}
	if cfg.ExpiryIndex {
		s.queue = newExpiryQueue[K]()
	}

	id := uuid.NewString()
	c := &Cache[K, V]{
		store:    s,
		id:       id,
		interval: cfg.CleanupInterval,
	}
	c.sweeper = startSweeper(s, cfg.CleanupInterval, cfg.Logger.With("component", "sweeper", "store_id", id))

	// The sweeper must not keep the cache alive; when the handle is collected, stop it.
	runtime.AddCleanup(c, func(sw *sweeper[K, V]) { sw.stop() }, c.sweeper)
	return c
}

// ID returns the identifier attached to this cache's log lines.
func (c *Cache[K, V]) ID() string {
	return c.id
}

// CleanupInterval returns the sweeper tick period.
func (c *Cache[K, V]) CleanupInterval() time.Duration {
	return c.interval
}

// Close stops the sweeper and waits for it to exit. Stored data stays readable
// and writable; expired entries are then only reclaimed lazily or by SweepNow.
//
// Close is safe to call multiple times.
func (c *Cache[K, V]) Close() error {
	c.sweeper.stop()
	<-c.sweeper.done
	return nil
}
