package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"runtime"
	"sort"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"

	"github.com/yourusername/minicache/internal/config"
	"github.com/yourusername/minicache/internal/metrics"
	"github.com/yourusername/minicache/pkg/binding"
	"github.com/yourusername/minicache/pkg/cache"
)

func main() {
	envFile := flag.String("env", ".env", "optional dotenv file")
	entries := flag.Int("entries", 10000, "entries written by the throughput phase")
	workers := flag.Int("workers", 10, "goroutines used by the concurrent phase")
	flag.Parse()

	cfg, err := config.Load(*envFile)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	log := config.ConfigureLogging(cfg.LogLevel)
	cfg.Cache.Logger = log

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, log, cfg.Cache, *entries, *workers); err != nil {
		log.Error("demo failed", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, log *slog.Logger, cfg cache.Config, entries, workers int) error {
	c := cache.New[string, string](cfg)
	defer c.Close()

	reg := prometheus.NewRegistry()
	reg.MustRegister(metrics.NewCollector("minicache", c))

	log.Info("minicache demo starting",
		"store_id", c.ID(),
		"cleanup_interval", c.CleanupInterval(),
		"expiry_index", cfg.ExpiryIndex,
	)

	before := heapInUse()
	throughput(log, c, entries)
	log.Info("memory", "heap_delta_kb", (int64(heapInUse())-int64(before))/1024, "entries", c.Len())

	if err := ttlPhase(ctx, log, cfg); err != nil {
		return err
	}
	if err := concurrentPhase(ctx, log, c, workers, entries/workers); err != nil {
		return err
	}
	if err := batchPhase(log); err != nil {
		return err
	}

	c.Clear()
	runtime.GC()
	log.Info("memory after clear", "heap_in_use_kb", heapInUse()/1024)

	return dumpMetrics(reg)
}

func throughput(log *slog.Logger, c *cache.Cache[string, string], n int) {
	start := time.Now()
	for i := 0; i < n; i++ {
		c.Set(fmt.Sprintf("key_%d", i), fmt.Sprintf("value_%d", i), 0)
	}
	writes := time.Since(start)

	start = time.Now()
	for i := 0; i < n; i++ {
		c.Get(fmt.Sprintf("key_%d", i))
	}
	reads := time.Since(start)

	log.Info("throughput",
		"writes", n, "write_time", writes, "write_ops_per_sec", opsPerSec(n, writes),
		"reads", n, "read_time", reads, "read_ops_per_sec", opsPerSec(n, reads),
	)
}

// ttlPhase uses its own short-interval cache so the sweeper is visible.
func ttlPhase(ctx context.Context, log *slog.Logger, base cache.Config) error {
	cfg := base
	cfg.CleanupInterval = 100 * time.Millisecond
	c := cache.New[int, string](cfg)
	defer c.Close()

	for i := 0; i < 1000; i++ {
		c.Set(i, fmt.Sprintf("ttl_value_%d", i), 500*time.Millisecond)
	}
	log.Info("ttl entries written", "len", c.Len())

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(600 * time.Millisecond):
	}

	st := c.Stats()
	log.Info("after expiration", "len", c.Len(), "raw_len", c.RawLen(), "sweeps", st.Sweeps, "swept", st.Swept)
	return nil
}

func concurrentPhase(ctx context.Context, log *slog.Logger, c *cache.Cache[string, string], workers, perWorker int) error {
	if workers <= 0 {
		workers = 1
	}
	start := time.Now()
	g, ctx := errgroup.WithContext(ctx)
	for w := 0; w < workers; w++ {
		g.Go(func() error {
			for i := 0; i < perWorker; i++ {
				if i%256 == 0 && ctx.Err() != nil {
					return ctx.Err()
				}
				key := fmt.Sprintf("task_%d_%d", w, i)
				c.Set(key, fmt.Sprintf("concurrent_value_%d_%d", w, i), 0)
				if _, ok := c.Get(key); !ok {
					return fmt.Errorf("lost write for %s", key)
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	elapsed := time.Since(start)
	ops := 2 * workers * perWorker
	log.Info("concurrent", "workers", workers, "ops", ops, "elapsed", elapsed, "ops_per_sec", opsPerSec(ops, elapsed), "len", c.Len())
	return nil
}

func batchPhase(log *slog.Logger) error {
	s, err := binding.NewFromJSON([]byte(`{"cleanupIntervalMs": 30000}`))
	if err != nil {
		return err
	}
	defer s.Close()

	err = s.SetManyJSON([]byte(`[
		{"key": "user:1", "value": "Alice", "ttlMs": 300000},
		{"key": "user:2", "value": "Bob"}
	]`))
	if err != nil {
		return err
	}
	found, err := s.GetManyJSON([]byte(`["user:1", "user:2", "user:3"]`))
	if err != nil {
		return err
	}
	info, err := binding.InfoJSON()
	if err != nil {
		return err
	}
	log.Info("batch", "get_many", string(found), "info", string(info))
	return nil
}

func dumpMetrics(reg *prometheus.Registry) error {
	families, err := reg.Gather()
	if err != nil {
		return fmt.Errorf("gather metrics: %w", err)
	}
	lines := make([]string, 0, len(families))
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			v := m.GetGauge().GetValue()
			if m.GetCounter() != nil {
				v = m.GetCounter().GetValue()
			}
			lines = append(lines, fmt.Sprintf("%s %g", mf.GetName(), v))
		}
	}
	sort.Strings(lines)
	for _, l := range lines {
		fmt.Println(l)
	}
	return nil
}

func heapInUse() uint64 {
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	return ms.HeapInuse
}

func opsPerSec(n int, d time.Duration) float64 {
	if d <= 0 {
		return 0
	}
	return float64(n) / d.Seconds()
}
