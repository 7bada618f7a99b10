// Package metrics exposes cache counters as Prometheus metrics.
package metrics

import (
	"weak"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/yourusername/minicache/pkg/cache"
)

// Source is what the collector reads on every scrape. *cache.Cache satisfies it.
type Source interface {
	ID() string
	Stats() cache.Stats
	Len() int
	RawLen() int
}

// Collector reports one cache. Values are read at collection time, so the
// collector never holds the cache lock between scrapes.
//
// The cache is referenced weakly: registering a collector does not keep the
// cache alive, and once the cache is collected the collector reports nothing.
type Collector struct {
	src func() Source

	hits            *prometheus.Desc
	misses          *prometheus.Desc
	lazyRemovals    *prometheus.Desc
	sweeps          *prometheus.Desc
	contendedSweeps *prometheus.Desc
	swept           *prometheus.Desc
	lastSweep       *prometheus.Desc
	entries         *prometheus.Desc
	rawEntries      *prometheus.Desc
}

// NewCollector builds a collector labelled with the cache's ID.
func NewCollector[K comparable, V any](namespace string, c *cache.Cache[K, V]) *Collector {
	wp := weak.Make(c)
	return newCollector(namespace, c.ID(), func() Source {
		if c := wp.Value(); c != nil {
			return c
		}
		return nil
	})
}

func newCollector(namespace, id string, src func() Source) *Collector {
	labels := prometheus.Labels{"store_id": id}
	desc := func(name, help string) *prometheus.Desc {
		return prometheus.NewDesc(prometheus.BuildFQName(namespace, "cache", name), help, nil, labels)
	}
	return &Collector{
		src:             src,
		hits:            desc("hits_total", "Get calls that returned a value."),
		misses:          desc("misses_total", "Get calls that found nothing or an expired entry."),
		lazyRemovals:    desc("lazy_removals_total", "Expired entries deleted by a read."),
		sweeps:          desc("sweeps_total", "Completed sweep passes."),
		contendedSweeps: desc("contended_sweeps_total", "Sweep passes that had to wait for the store lock."),
		swept:           desc("swept_entries_total", "Entries removed by sweep passes."),
		lastSweep:       desc("last_sweep_timestamp_seconds", "Unix time of the last completed sweep, 0 if none."),
		entries:         desc("entries", "Unexpired entries."),
		rawEntries:      desc("raw_entries", "Entries held in memory, including expired ones awaiting reclamation."),
	}
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.hits
	ch <- c.misses
	ch <- c.lazyRemovals
	ch <- c.sweeps
	ch <- c.contendedSweeps
	ch <- c.swept
	ch <- c.lastSweep
	ch <- c.entries
	ch <- c.rawEntries
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	src := c.src()
	if src == nil {
		return
	}
	st := src.Stats()

	counter := func(d *prometheus.Desc, v uint64) {
		ch <- prometheus.MustNewConstMetric(d, prometheus.CounterValue, float64(v))
	}
	counter(c.hits, st.Hits)
	counter(c.misses, st.Misses)
	counter(c.lazyRemovals, st.LazyRemovals)
	counter(c.sweeps, st.Sweeps)
	counter(c.contendedSweeps, st.ContendedSweeps)
	counter(c.swept, st.Swept)

	var last float64
	if !st.LastSweep.IsZero() {
		last = float64(st.LastSweep.UnixNano()) / 1e9
	}
	ch <- prometheus.MustNewConstMetric(c.lastSweep, prometheus.GaugeValue, last)
	ch <- prometheus.MustNewConstMetric(c.entries, prometheus.GaugeValue, float64(src.Len()))
	ch <- prometheus.MustNewConstMetric(c.rawEntries, prometheus.GaugeValue, float64(src.RawLen()))
}

var _ prometheus.Collector = (*Collector)(nil)
