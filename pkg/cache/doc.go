// Package cache implements a generic, in-process key-value store with
// optional per-entry TTL.
//
// Reads never return an expired entry, whether or not the background sweeper
// has run yet. Get and Contains also delete the expired entry they find; Len,
// Keys and Entries only skip them. Every Cache runs one sweeper goroutine that
// removes expired entries on a fixed interval; it ends on Close or once the
// Cache is garbage collected.
package cache
