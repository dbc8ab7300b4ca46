// Package watcher notifies on settled edits to the workspace catalogs so
// watch mode can re-run a case after a save burst finishes.
package watcher

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/project-avie/avie/internal/domain"
	"github.com/project-avie/avie/internal/infra/logger"
)

// Watcher batches filesystem events on the catalog directories. Rapid saves
// to the same file collapse into one notification once the debounce window
// passes without further writes.
type Watcher struct {
	mu          sync.Mutex
	fsw         *fsnotify.Watcher
	dirs        []string
	pending     map[string]time.Time
	debounceDur time.Duration
	events      chan []string
	stopCh      chan struct{}
	doneCh      chan struct{}
	running     bool
}

type Option func(*Watcher)

// WithDebounce overrides the settle window. Tests use a short one.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) { w.debounceDur = d }
}

// New prepares a watcher over the workspace catalog directories. Directories
// that do not exist yet are skipped; they can be picked up by a restart.
func New(root string, paths domain.PathsConfig, opts ...Option) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, &domain.OpError{Op: "watcher.new", Kind: domain.KindExecution, Err: err}
	}

	w := &Watcher{
		fsw: fsw,
		dirs: []string{
			filepath.Join(root, paths.VehiclesDir),
			filepath.Join(root, paths.MissionsDir),
			filepath.Join(root, paths.CasesDir),
			filepath.Join(root, paths.ScenariosDir),
			filepath.Join(root, paths.StudiesDir),
		},
		pending:     make(map[string]time.Time),
		debounceDur: 500 * time.Millisecond,
		events:      make(chan []string, 1),
		stopCh:      make(chan struct{}),
		doneCh:      make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Start begins watching and returns immediately. Calling Start twice is a
// no-op.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = true
	w.mu.Unlock()

	watched := 0
	for _, d := range w.dirs {
		if _, err := os.Stat(d); err != nil {
			continue
		}
		if err := w.fsw.Add(d); err != nil {
			logger.L().Warn("watcher.add_failed", "dir", d, "error", err.Error())
			continue
		}
		watched++
	}
	logger.L().Debug("watcher.started", "dirs", watched)

	go w.run(ctx)
	return nil
}

// Events delivers batches of settled file paths. A slow consumer loses
// intermediate batches, never the newest one.
func (w *Watcher) Events() <-chan []string {
	return w.events
}

// Close stops the loop and releases the underlying watcher.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return w.fsw.Close()
	}
	w.running = false
	w.mu.Unlock()

	close(w.stopCh)
	<-w.doneCh
	return w.fsw.Close()
}

func (w *Watcher) run(ctx context.Context) {
	defer close(w.doneCh)

	tick := time.NewTicker(w.debounceDur / 4)
	defer tick.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopCh:
			return
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			w.record(ev)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			logger.L().Warn("watcher.error", "error", err.Error())
		case <-tick.C:
			w.flush()
		}
	}
}

func (w *Watcher) record(ev fsnotify.Event) {
	if !isYAML(ev.Name) {
		return
	}
	if ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
		return
	}

	w.mu.Lock()
	w.pending[ev.Name] = time.Now()
	w.mu.Unlock()
}

func (w *Watcher) flush() {
	w.mu.Lock()
	now := time.Now()
	var settled []string
	for path, at := range w.pending {
		if now.Sub(at) >= w.debounceDur {
			settled = append(settled, path)
			delete(w.pending, path)
		}
	}
	w.mu.Unlock()

	if len(settled) == 0 {
		return
	}

	select {
	case w.events <- settled:
	default:
		// Drop the buffered batch so the newest one wins.
		select {
		case <-w.events:
		default:
		}
		select {
		case w.events <- settled:
		default:
		}
	}
}

func isYAML(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}
