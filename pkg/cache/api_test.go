package cache

import (
	"sort"
	"testing"
	"time"
)

// newTestCache returns a cache whose sweeper will not run during the test,
// so every expiry observation comes from read-side masking.
func newTestCache[K comparable, V any](t *testing.T) *Cache[K, V] {
	t.Helper()
	c := New[K, V](Config{CleanupInterval: time.Hour})
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestSetGet_NoTTL(t *testing.T) {
	c := New[string, string](Config{CleanupInterval: 10 * time.Millisecond})
	defer c.Close()

	c.Set("user:1", "Alice", 0)
	if v, ok := c.Get("user:1"); !ok || v != "Alice" {
		t.Fatalf("get user:1 = %q, %v; want Alice, true", v, ok)
	}

	// Several sweeps later the entry must still be there.
	time.Sleep(60 * time.Millisecond)
	if v, ok := c.Get("user:1"); !ok || v != "Alice" {
		t.Fatalf("get user:1 after sweeps = %q, %v; want Alice, true", v, ok)
	}
}

func TestGet_Missing(t *testing.T) {
	c := newTestCache[string, int](t)

	v, ok := c.Get("nope")
	if ok {
		t.Fatalf("expected miss")
	}
	if v != 0 {
		t.Fatalf("expected zero value on miss, got %d", v)
	}
}

func TestTTL_ExpiryIsMaskedBeforeSweep(t *testing.T) {
	c := newTestCache[string, string](t)

	c.Set("s", "x", 100*time.Millisecond)
	if v, ok := c.Get("s"); !ok || v != "x" {
		t.Fatalf("get s = %q, %v; want x, true", v, ok)
	}
	if c.Len() != 1 {
		t.Fatalf("len = %d, want 1", c.Len())
	}

	time.Sleep(150 * time.Millisecond)

	if c.Len() != 0 {
		t.Fatalf("len after expiry = %d, want 0", c.Len())
	}
	if keys := c.Keys(); len(keys) != 0 {
		t.Fatalf("keys after expiry = %v, want none", keys)
	}
	if entries := c.Entries(); len(entries) != 0 {
		t.Fatalf("entries after expiry = %v, want none", entries)
	}
	if c.Contains("s") {
		t.Fatalf("contains s after expiry")
	}
	if _, ok := c.Get("s"); ok {
		t.Fatalf("get s after expiry returned a value")
	}
}

func TestSet_OverwriteReplacesTTL(t *testing.T) {
	c := newTestCache[string, string](t)

	// TTL -> no TTL: the old expiry must not survive the overwrite.
	c.Set("a", "v1", 30*time.Millisecond)
	c.Set("a", "v2", 0)

	// No TTL -> TTL.
	c.Set("b", "v1", 0)
	c.Set("b", "v2", 30*time.Millisecond)

	time.Sleep(60 * time.Millisecond)

	if v, ok := c.Get("a"); !ok || v != "v2" {
		t.Fatalf("get a = %q, %v; want v2, true", v, ok)
	}
	if _, ok := c.Get("b"); ok {
		t.Fatalf("expected b to expire after being re-set with a ttl")
	}
}

func TestSet_AfterExpiryCreatesFreshEntry(t *testing.T) {
	c := newTestCache[string, string](t)

	c.Set("k", "old", 20*time.Millisecond)
	time.Sleep(40 * time.Millisecond)
	if c.Contains("k") {
		t.Fatalf("expected k to be expired")
	}

	c.Set("k", "new", time.Hour)
	if v, ok := c.Get("k"); !ok || v != "new" {
		t.Fatalf("get k = %q, %v; want new, true", v, ok)
	}
}

func TestSetUntil(t *testing.T) {
	for _, mode := range sweepModes {
		t.Run(mode.name, func(t *testing.T) {
			c := New[string, string](Config{CleanupInterval: time.Hour, ExpiryIndex: mode.index})
			defer c.Close()

			now := time.Now()
			c.SetUntil("past", "v", now.Add(-time.Second))
			c.SetUntil("now", "v", now)
			c.SetUntil("later", "v", now.Add(time.Hour))
			c.SetUntil("never", "v", time.Time{})

			for _, key := range []string{"past", "now"} {
				if c.Contains(key) {
					t.Fatalf("%s should be expired on arrival", key)
				}
			}
			if c.Len() != 2 || !c.Contains("later") || !c.Contains("never") {
				t.Fatalf("len = %d, keys %v", c.Len(), c.Keys())
			}
		})
	}
}

func TestGet_ReadsDoNotRefreshTTL(t *testing.T) {
	c := newTestCache[string, string](t)

	c.Set("k", "v", 60*time.Millisecond)
	deadline := time.Now().Add(40 * time.Millisecond)
	for time.Now().Before(deadline) {
		c.Get("k")
		time.Sleep(5 * time.Millisecond)
	}
	time.Sleep(40 * time.Millisecond)

	if c.Contains("k") {
		t.Fatalf("reads must not extend the ttl")
	}
}

func TestGet_RemovesExpiredEntry(t *testing.T) {
	c := newTestCache[string, string](t)

	c.Set("k", "v", 20*time.Millisecond)
	c.Set("keep", "v", 0)
	time.Sleep(40 * time.Millisecond)

	// Len and Keys mask but keep the entry in place.
	if c.Len() != 1 {
		t.Fatalf("len = %d, want 1", c.Len())
	}
	if c.RawLen() != 2 {
		t.Fatalf("raw len before read = %d, want 2", c.RawLen())
	}

	if _, ok := c.Get("k"); ok {
		t.Fatalf("expected k to be expired")
	}
	if c.RawLen() != 1 {
		t.Fatalf("raw len after read = %d, want 1", c.RawLen())
	}
	if got := c.Stats().LazyRemovals; got != 1 {
		t.Fatalf("lazy removals = %d, want 1", got)
	}
}

func TestContains_RemovesExpiredEntry(t *testing.T) {
	c := newTestCache[string, string](t)

	c.Set("k", "v", 20*time.Millisecond)
	time.Sleep(40 * time.Millisecond)

	if c.Contains("k") {
		t.Fatalf("expected k to be expired")
	}
	if c.RawLen() != 0 {
		t.Fatalf("raw len = %d, want 0", c.RawLen())
	}
}

func TestRemove(t *testing.T) {
	c := newTestCache[string, string](t)

	c.Set("user:1", "Alice", 0)
	c.Set("tmp", "x", time.Hour)
	c.Remove("user:1")
	c.Remove("tmp")
	c.Remove("never-set")

	if c.Contains("user:1") {
		t.Fatalf("expected user:1 to be removed")
	}
	if _, ok := c.Get("tmp"); ok {
		t.Fatalf("expected tmp to be removed despite its ttl")
	}
	if !c.IsEmpty() {
		t.Fatalf("expected empty cache")
	}
}

func TestClear(t *testing.T) {
	for _, index := range []bool{false, true} {
		c := New[string, string](Config{CleanupInterval: time.Hour, ExpiryIndex: index})

		c.Set("key1", "value1", 0)
		c.Set("key2", "value2", time.Hour)
		if c.Len() != 2 {
			t.Fatalf("index=%v: len = %d, want 2", index, c.Len())
		}

		c.Clear()

		if c.Len() != 0 || !c.IsEmpty() {
			t.Fatalf("index=%v: len after clear = %d, want 0", index, c.Len())
		}
		if len(c.Keys()) != 0 || len(c.Entries()) != 0 {
			t.Fatalf("index=%v: keys or entries left after clear", index)
		}
		if c.RawLen() != 0 {
			t.Fatalf("index=%v: raw len after clear = %d", index, c.RawLen())
		}
		if index && c.queue.len() != 0 {
			t.Fatalf("expiry index not reset by clear: %d items", c.queue.len())
		}
		_ = c.Close()
	}
}

func TestLen_MatchesContains(t *testing.T) {
	c := newTestCache[int, int](t)

	for i := 0; i < 20; i++ {
		ttl := time.Duration(0)
		if i%2 == 0 {
			ttl = 20 * time.Millisecond
		}
		c.Set(i, i*i, ttl)
	}

	check := func(stage string) {
		t.Helper()
		n := 0
		for i := 0; i < 20; i++ {
			if c.Contains(i) {
				n++
			}
		}
		if got := c.Len(); got != n {
			t.Fatalf("%s: len = %d, contains count = %d", stage, got, n)
		}
	}

	check("before expiry")
	time.Sleep(40 * time.Millisecond)
	check("after expiry")
	if c.Len() != 10 {
		t.Fatalf("len = %d, want 10", c.Len())
	}
}

func TestKeysAndEntries(t *testing.T) {
	c := newTestCache[string, string](t)

	c.Set("key1", "value1", 0)
	c.Set("key2", "value2", 0)
	c.Set("key3", "value3", 20*time.Millisecond)
	time.Sleep(40 * time.Millisecond)

	keys := c.Keys()
	sort.Strings(keys)
	if len(keys) != 2 || keys[0] != "key1" || keys[1] != "key2" {
		t.Fatalf("keys = %v, want [key1 key2]", keys)
	}

	entries := c.Entries()
	sort.Slice(entries, func(i, j int) bool { return entries[i].Key < entries[j].Key })
	want := []KeyValue[string, string]{{"key1", "value1"}, {"key2", "value2"}}
	if len(entries) != len(want) {
		t.Fatalf("entries = %v, want %v", entries, want)
	}
	for i := range want {
		if entries[i] != want[i] {
			t.Fatalf("entries[%d] = %v, want %v", i, entries[i], want[i])
		}
	}
}

func TestGenericKeyTypes(t *testing.T) {
	type point struct{ X, Y int }

	c := newTestCache[point, []string](t)
	c.Set(point{1, 2}, []string{"a"}, 0)

	if v, ok := c.Get(point{1, 2}); !ok || len(v) != 1 || v[0] != "a" {
		t.Fatalf("get {1,2} = %v, %v", v, ok)
	}
	if c.Contains(point{2, 1}) {
		t.Fatalf("unexpected hit for {2,1}")
	}
}

func TestIndependentInstances(t *testing.T) {
	a := newTestCache[string, string](t)
	b := newTestCache[string, string](t)

	a.Set("k", "a", 0)
	if b.Contains("k") {
		t.Fatalf("caches must not share data")
	}
	if a.ID() == b.ID() {
		t.Fatalf("caches share id %s", a.ID())
	}
}

func TestStats_HitsAndMisses(t *testing.T) {
	c := newTestCache[string, string](t)

	c.Set("k", "v", 0)
	c.Get("k")
	c.Get("k")
	c.Get("missing")

	st := c.Stats()
	if st.Hits != 2 || st.Misses != 1 {
		t.Fatalf("hits=%d misses=%d, want 2 and 1", st.Hits, st.Misses)
	}
	if !st.LastSweep.IsZero() {
		t.Fatalf("no sweep ran yet, got last sweep %v", st.LastSweep)
	}
}

func TestConfig_Defaults(t *testing.T) {
	c := newTestCache[string, string](t)
	if c.CleanupInterval() != time.Hour {
		t.Fatalf("interval = %v", c.CleanupInterval())
	}

	d := New[string, string](Config{})
	defer d.Close()
	if d.CleanupInterval() != DefaultCleanupInterval {
		t.Fatalf("default interval = %v, want %v", d.CleanupInterval(), DefaultCleanupInterval)
	}
}

func TestInfo(t *testing.T) {
	c := newTestCache[string, string](t)

	info := c.Info()
	if info.Version != Version {
		t.Fatalf("version = %q", info.Version)
	}
	found := false
	for _, f := range info.Features {
		if f == "ttl" {
			found = true
		}
	}
	if !found {
		t.Fatalf("features %v missing ttl", info.Features)
	}
}
