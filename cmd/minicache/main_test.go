package main

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/yourusername/minicache/pkg/cache"
)

func TestRun_SmallWorkload(t *testing.T) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg := cache.Config{CleanupInterval: 50 * time.Millisecond, Logger: log}

	if err := run(context.Background(), log, cfg, 200, 4); err != nil {
		t.Fatalf("run: %v", err)
	}
}

func TestRun_CanceledDuringTTLPhase(t *testing.T) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := run(ctx, log, cache.Config{Logger: log}, 10, 1); err == nil {
		t.Fatalf("expected cancellation error")
	}
}

func TestOpsPerSec(t *testing.T) {
	if got := opsPerSec(100, 0); got != 0 {
		t.Fatalf("opsPerSec with zero duration = %v", got)
	}
	if got := opsPerSec(100, time.Second); got != 100 {
		t.Fatalf("opsPerSec = %v, want 100", got)
	}
}
