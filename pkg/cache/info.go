package cache

// Version of the cache implementation reported by Info.
const Version = "0.1.1"

// Info is static metadata about the implementation.
type Info struct {
	Version  string   `json:"version"`
	Backend  string   `json:"backend"`
	Features []string `json:"features"`
}

// GetInfo returns the implementation metadata. It touches no cache.
func GetInfo() Info {
	return Info{
		Version:  Version,
		Backend:  "go",
		Features: []string{"ttl", "concurrent", "auto-cleanup", "generic", "batch"},
	}
}

// Info is GetInfo, reachable from a cache handle.
func (c *Cache[K, V]) Info() Info {
	return GetInfo()
}
