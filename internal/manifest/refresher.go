// internal/manifest/refresher.go
package manifest

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/mwiater/greenview/internal/logging"
	"github.com/mwiater/greenview/internal/telemetry"
)

// DefaultInterval is how often the manifest is rebuilt when no interval is set.
const DefaultInterval = 60 * time.Second

// debounce coalesces bursts of file events into one rebuild.
const debounce = 250 * time.Millisecond

// ErrRunning is returned by Start when the refresher is already running.
var ErrRunning = errors.New("refresher already running")

// Refresher rebuilds the manifest on a fixed interval and, when Watch is set,
// whenever a CSV file under Root changes.
type Refresher struct {
	Root     string
	Output   string
	Interval time.Duration
	Watch    bool
	Recorder *telemetry.Recorder
	// OnRefresh, when set, receives every successfully written listing.
	OnRefresh func(files []string)

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// NewRefresher returns a refresher writing root's listing to output.
func NewRefresher(root, output string, interval time.Duration, watch bool) *Refresher {
	return &Refresher{Root: root, Output: output, Interval: interval, Watch: watch}
}

// Start runs the refresher in the background until Stop is called or ctx ends.
// Watcher setup happens before it returns, so a bad root is reported here.
func (r *Refresher) Start(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.cancel != nil {
		return ErrRunning
	}
	w, err := r.watcher()
	if err != nil {
		return err
	}
	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	r.cancel = cancel
	r.done = done
	go func() {
		defer close(done)
		_ = r.loop(ctx, w)
	}()
	return nil
}

// Stop cancels a running refresher and waits for it to exit.
func (r *Refresher) Stop() {
	r.mu.Lock()
	cancel, done := r.cancel, r.done
	r.cancel, r.done = nil, nil
	r.mu.Unlock()
	if cancel == nil {
		return
	}
	cancel()
	<-done
}

// Refresh rebuilds the manifest once.
func (r *Refresher) Refresh() ([]string, error) {
	files, err := Generate(r.Root, r.output())
	r.Recorder.ObserveRefresh(err == nil, len(files))
	if err != nil {
		logging.LogEvent("[MANIFEST] refresh failed root=%s: %v", r.Root, err)
		return nil, err
	}
	logging.LogDebug("[MANIFEST] wrote %s files=%d", r.output(), len(files))
	if r.OnRefresh != nil {
		r.OnRefresh(files)
	}
	return files, nil
}

// Run blocks, rebuilding the manifest until ctx is done. It returns
// ctx.Err() on shutdown. Refresh failures are logged and retried on the next
// tick.
func (r *Refresher) Run(ctx context.Context) error {
	w, err := r.watcher()
	if err != nil {
		return err
	}
	return r.loop(ctx, w)
}

// watcher returns a watcher over the whole tree, or nil when Watch is off.
func (r *Refresher) watcher() (*fsnotify.Watcher, error) {
	if !r.Watch {
		return nil, nil
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := addTree(w, r.Root); err != nil {
		_ = w.Close()
		return nil, err
	}
	return w, nil
}

func (r *Refresher) loop(ctx context.Context, watcher *fsnotify.Watcher) error {
	_, _ = r.Refresh()

	ticker := time.NewTicker(r.interval())
	defer ticker.Stop()

	var events <-chan fsnotify.Event
	var watchErrs <-chan error
	if watcher != nil {
		defer watcher.Close()
		events, watchErrs = watcher.Events, watcher.Errors
	}

	var pending <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			_, _ = r.Refresh()
		case ev, ok := <-events:
			if !ok {
				events = nil
				continue
			}
			if r.relevant(watcher, ev) {
				pending = time.After(debounce)
			}
		case err, ok := <-watchErrs:
			if !ok {
				watchErrs = nil
				continue
			}
			logging.LogEvent("[MANIFEST] watch error: %v", err)
		case <-pending:
			pending = nil
			_, _ = r.Refresh()
		}
	}
}

// relevant reports whether ev should trigger a rebuild. New directories are
// added to the watcher so nested logs are seen too.
func (r *Refresher) relevant(w *fsnotify.Watcher, ev fsnotify.Event) bool {
	if ev.Has(fsnotify.Create) {
		if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
			if err := addTree(w, ev.Name); err != nil {
				logging.LogEvent("[MANIFEST] watch %s: %v", ev.Name, err)
			}
			return true
		}
	}
	if !IsDataFile(ev.Name) {
		return false
	}
	return ev.Has(fsnotify.Create) || ev.Has(fsnotify.Write) || ev.Has(fsnotify.Remove) || ev.Has(fsnotify.Rename)
}

func addTree(w *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if err := w.Add(p); err != nil {
			return fmt.Errorf("watch %s: %w", p, err)
		}
		return nil
	})
}

func (r *Refresher) interval() time.Duration {
	if r.Interval <= 0 {
		return DefaultInterval
	}
	return r.Interval
}

func (r *Refresher) output() string {
	if r.Output != "" {
		return r.Output
	}
	return filepath.Join(r.Root, DefaultFile)
}
