package daemon

import (
	"context"
	"errors"
	"io"
	"log"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"
)

type countingSyncer struct {
	calls atomic.Int32
	err   error
}

func (c *countingSyncer) Sync(context.Context) error {
	c.calls.Add(1)
	return c.err
}

func testConfig() *Config {
	return &Config{
		ResyncInterval:   time.Hour, // out of the way for these tests
		DebounceInterval: 20 * time.Millisecond,
		Logger:           log.New(io.Discard, "", 0),
	}
}

func writeHostFile(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "Bookmarks")
	if err := os.WriteFile(path, []byte(`{"roots":{}}`), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestNewValidation(t *testing.T) {
	if _, err := New(nil, "x", nil); err == nil {
		t.Error("nil syncer should be rejected")
	}
	if _, err := New(&countingSyncer{}, "", nil); err == nil {
		t.Error("empty host file should be rejected")
	}
}

func TestStartRunsInitialSync(t *testing.T) {
	syncer := &countingSyncer{}
	d, err := New(syncer, writeHostFile(t), testConfig())
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- d.Start(ctx) }()

	waitFor(t, func() bool { return syncer.calls.Load() >= 1 })
	cancel()
	if err := <-done; err != nil {
		t.Fatalf("start returned %v", err)
	}
}

func TestStartFailsWhenInitialSyncFails(t *testing.T) {
	syncer := &countingSyncer{err: errors.New("host gone")}
	d, err := New(syncer, writeHostFile(t), testConfig())
	if err != nil {
		t.Fatal(err)
	}

	if err := d.Start(context.Background()); err == nil {
		t.Fatal("expected the initial sync failure to propagate")
	}
	_ = d.Stop()
}

func TestFileChangeTriggersSync(t *testing.T) {
	syncer := &countingSyncer{}
	hostFile := writeHostFile(t)
	d, err := New(syncer, hostFile, testConfig())
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = d.Start(ctx) }()

	waitFor(t, func() bool { return syncer.calls.Load() >= 1 })

	if err := os.WriteFile(hostFile, []byte(`{"roots":{"other":{}}}`), 0o644); err != nil {
		t.Fatal(err)
	}

	waitFor(t, func() bool { return syncer.calls.Load() >= 2 })
}

func TestUnrelatedFileIgnored(t *testing.T) {
	syncer := &countingSyncer{}
	hostFile := writeHostFile(t)
	d, err := New(syncer, hostFile, testConfig())
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = d.Start(ctx) }()

	waitFor(t, func() bool { return syncer.calls.Load() >= 1 })

	other := filepath.Join(filepath.Dir(hostFile), "Bookmarks.bak")
	if err := os.WriteFile(other, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	time.Sleep(150 * time.Millisecond)
	if got := syncer.calls.Load(); got != 1 {
		t.Errorf("sibling file change caused %d syncs, want 1", got)
	}
}

func TestPeriodicResync(t *testing.T) {
	syncer := &countingSyncer{}
	cfg := testConfig()
	cfg.ResyncInterval = 30 * time.Millisecond
	d, err := New(syncer, writeHostFile(t), cfg)
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = d.Start(ctx) }()

	waitFor(t, func() bool { return syncer.calls.Load() >= 3 })
}

// waitFor polls cond for up to five seconds.
func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("condition not met in time")
}
