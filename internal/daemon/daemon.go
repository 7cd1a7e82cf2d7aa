// Package daemon watches the host browser's bookmarks file and keeps the
// store in sync.
//
// The daemon:
//  1. Performs a full sync on startup
//  2. Watches the bookmarks file's directory for changes
//  3. Debounces rapid rewrites (browsers replace the file wholesale)
//  4. Re-syncs periodically as a safety net
//  5. Handles graceful shutdown
package daemon

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Syncer is the slice of the engine the daemon drives.
type Syncer interface {
	Sync(ctx context.Context) error
}

// Config holds configuration for the daemon.
type Config struct {
	// ResyncInterval is how often to run a full sync regardless of file
	// events, as a safety net for missed notifications.
	ResyncInterval time.Duration

	// DebounceInterval is how long to wait after a file event before
	// syncing. Browsers rewrite the bookmarks file several times in
	// quick succession; this batches those rewrites.
	DebounceInterval time.Duration

	// Logger for daemon activity.
	Logger *log.Logger
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		ResyncInterval:   5 * time.Minute,
		DebounceInterval: 500 * time.Millisecond,
		Logger:           log.New(os.Stderr, "[daemon] ", log.LstdFlags),
	}
}

// Daemon orchestrates file watching and sync passes.
type Daemon struct {
	syncer   Syncer
	hostFile string
	config   *Config

	watcher *fsnotify.Watcher

	pendingMu sync.Mutex
	pendingAt time.Time // zero when no change is queued

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New creates a daemon that re-syncs whenever hostFile changes.
func New(syncer Syncer, hostFile string, config *Config) (*Daemon, error) {
	if syncer == nil {
		return nil, fmt.Errorf("syncer cannot be nil")
	}
	if hostFile == "" {
		return nil, fmt.Errorf("hostFile cannot be empty")
	}
	if config == nil {
		config = DefaultConfig()
	}
	if config.Logger == nil {
		config.Logger = log.New(os.Stderr, "[daemon] ", log.LstdFlags)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Daemon{
		syncer:   syncer,
		hostFile: hostFile,
		config:   config,
		watcher:  watcher,
		ctx:      ctx,
		cancel:   cancel,
	}, nil
}

// Start begins watching and syncing. Blocks until ctx is cancelled or the
// initial sync fails.
func (d *Daemon) Start(ctx context.Context) error {
	d.config.Logger.Println("Starting daemon")

	if err := d.syncer.Sync(ctx); err != nil {
		return fmt.Errorf("initial sync failed: %w", err)
	}

	// Watch the directory, not the file: browsers replace the bookmarks
	// file by rename, which drops a watch on the file itself.
	dir := filepath.Dir(d.hostFile)
	if err := d.watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}
	d.config.Logger.Printf("Watching: %s", d.hostFile)

	d.wg.Add(3)
	go d.watchFileEvents()
	go d.processPending()
	go d.periodicResync()

	select {
	case <-ctx.Done():
		d.config.Logger.Println("Shutdown signal received")
		return d.Stop()
	case <-d.ctx.Done():
		return nil
	}
}

// Stop gracefully shuts down the daemon.
func (d *Daemon) Stop() error {
	d.cancel()
	if err := d.watcher.Close(); err != nil {
		d.config.Logger.Printf("Error closing watcher: %v", err)
	}
	d.wg.Wait()
	d.config.Logger.Println("Daemon stopped")
	return nil
}

// watchFileEvents queues a sync whenever the bookmarks file changes.
func (d *Daemon) watchFileEvents() {
	defer d.wg.Done()

	for {
		select {
		case <-d.ctx.Done():
			return

		case event, ok := <-d.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename) == 0 {
				continue
			}
			if filepath.Base(event.Name) != filepath.Base(d.hostFile) {
				continue
			}
			d.queueSync()

		case err, ok := <-d.watcher.Errors:
			if !ok {
				return
			}
			d.config.Logger.Printf("Watcher error: %v", err)
		}
	}
}

// queueSync marks a pending sync, restarting the debounce window.
func (d *Daemon) queueSync() {
	d.pendingMu.Lock()
	d.pendingAt = time.Now()
	d.pendingMu.Unlock()
}

// processPending runs queued syncs once the debounce window has passed.
func (d *Daemon) processPending() {
	defer d.wg.Done()

	ticker := time.NewTicker(d.config.DebounceInterval)
	defer ticker.Stop()

	for {
		select {
		case <-d.ctx.Done():
			return

		case <-ticker.C:
			d.pendingMu.Lock()
			ready := !d.pendingAt.IsZero() && time.Since(d.pendingAt) >= d.config.DebounceInterval
			if ready {
				d.pendingAt = time.Time{}
			}
			d.pendingMu.Unlock()

			if ready {
				d.runSync("file change")
			}
		}
	}
}

// periodicResync runs full syncs on a timer.
func (d *Daemon) periodicResync() {
	defer d.wg.Done()

	ticker := time.NewTicker(d.config.ResyncInterval)
	defer ticker.Stop()

	for {
		select {
		case <-d.ctx.Done():
			return
		case <-ticker.C:
			d.runSync("periodic")
		}
	}
}

func (d *Daemon) runSync(reason string) {
	d.config.Logger.Printf("Sync triggered (%s)", reason)
	if err := d.syncer.Sync(d.ctx); err != nil {
		d.config.Logger.Printf("Sync failed (%s): %v", reason, err)
	}
}
