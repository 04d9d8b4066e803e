// Package watch keeps a resolved project current while its files change.
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/vk/bstgraph/internal/ctxlog"
	"github.com/vk/bstgraph/internal/element"
	"github.com/vk/bstgraph/internal/engine"
	"github.com/vk/bstgraph/internal/fsutil"
	"github.com/vk/bstgraph/internal/hcl_adapter"
	"github.com/vk/bstgraph/internal/metrics"
	"github.com/vk/bstgraph/internal/registry"
)

// DefaultDebounce is how long Watch waits for a burst of file events to
// settle before it re-resolves.
const DefaultDebounce = 100 * time.Millisecond

// Resolver produces a registry for a project directory.
type Resolver interface {
	Resolve(ctx context.Context, dir string) (*engine.Registry, error)
}

// Holder provides thread-safe access to the current registry of a project.
// A failed re-resolution keeps the previous registry.
type Holder struct {
	mu       sync.RWMutex
	reg      *engine.Registry
	dir      string
	resolver Resolver
	onChange []func(*engine.Registry)
	metrics  *metrics.Metrics
	debounce time.Duration
}

// Option configures a Holder.
type Option func(*Holder)

// WithMetrics counts reloads on m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(h *Holder) { h.metrics = m }
}

// WithDebounce overrides DefaultDebounce.
func WithDebounce(d time.Duration) Option {
	return func(h *Holder) { h.debounce = d }
}

// NewHolder resolves the project in dir and returns a holder for it.
func NewHolder(ctx context.Context, dir string, resolver Resolver, opts ...Option) (*Holder, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("absolute path: %w", err)
	}
	h := &Holder{dir: absDir, resolver: resolver, debounce: DefaultDebounce}
	for _, opt := range opts {
		opt(h)
	}

	reg, err := resolver.Resolve(ctx, absDir)
	if err != nil {
		return nil, err
	}
	h.reg = reg
	return h, nil
}

// Get returns the current registry.
func (h *Holder) Get() *engine.Registry {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.reg
}

// OnChange registers fn to be called with every new registry.
func (h *Holder) OnChange(fn func(*engine.Registry)) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onChange = append(h.onChange, fn)
}

// Reload resolves the project again and swaps the registry in. On failure
// the old registry stays current and the error is returned.
func (h *Holder) Reload(ctx context.Context) error {
	logger := ctxlog.FromContext(ctx)
	logger.Info("Reloading project.", "dir", h.dir)

	reg, err := h.resolver.Resolve(ctx, h.dir)
	h.metrics.IncrementReloads(err)
	if err != nil {
		logger.Error("Project reload failed, keeping previous resolution.", "error", err)
		return fmt.Errorf("reload project: %w", err)
	}

	h.mu.Lock()
	old := h.reg
	h.reg = reg
	listeners := slices.Clone(h.onChange)
	h.mu.Unlock()

	for _, fn := range listeners {
		fn(reg)
	}
	logger.Info("Project reloaded.", "elements", len(reg.Elements()), "changed", changedElements(old, reg))
	return nil
}

// changedElements returns the sorted keys of elements that were added,
// removed, or resolve differently in cur than in old.
func changedElements(old, cur *engine.Registry) []string {
	var changed []string
	for _, key := range cur.Elements() {
		if fingerprint(old, key) != fingerprint(cur, key) {
			changed = append(changed, key)
		}
	}
	for _, key := range old.Elements() {
		if _, err := cur.ResolvedElement(key); err != nil {
			changed = append(changed, key)
		}
	}
	slices.Sort(changed)
	return changed
}

// fingerprint returns the fingerprint of key in reg, or "" if reg has no
// such element.
func fingerprint(reg *engine.Registry, key string) string {
	e, err := reg.ResolvedElement(key)
	if err != nil {
		return ""
	}
	fp, err := e.Fingerprint()
	if err != nil {
		return ""
	}
	return fp
}

// Watch starts watching the project tree and reloads whenever a declaration
// changes. It returns once the watcher is set up; watching stops when ctx is
// done.
func (h *Holder) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}

	dirs, err := fsutil.Dirs(h.dir)
	if err != nil {
		watcher.Close()
		return fmt.Errorf("failed to walk project directory: %w", err)
	}
	for _, d := range dirs {
		if err := watcher.Add(d); err != nil {
			watcher.Close()
			return fmt.Errorf("watch directory %s: %w", d, err)
		}
	}

	go h.watchLoop(ctx, watcher)

	ctxlog.FromContext(ctx).Info("Watching project for changes.", "dir", h.dir, "directories", len(dirs))
	return nil
}

func (h *Holder) watchLoop(ctx context.Context, watcher *fsnotify.Watcher) {
	logger := ctxlog.FromContext(ctx)
	defer watcher.Close()

	timer := time.NewTimer(h.debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if event.Op.Has(fsnotify.Create) {
				// fsnotify does not recurse: pick up new directories.
				if dirs, err := fsutil.Dirs(event.Name); err == nil {
					for _, d := range dirs {
						if err := watcher.Add(d); err != nil {
							logger.Warn("Failed to watch new directory.", "dir", d, "error", err)
						}
					}
				}
			}
			if !relevant(event.Name) || event.Op == fsnotify.Chmod {
				continue
			}
			logger.Debug("Project file changed.", "event", event.Op.String(), "file", event.Name)
			timer.Reset(h.debounce)

		case <-timer.C:
			if err := h.Reload(ctx); err != nil {
				logger.Error("File watch reload failed.", "error", err)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			logger.Error("File watcher error.", "error", err)

		case <-ctx.Done():
			return
		}
	}
}

// relevant reports whether a change to name can affect the resolution.
func relevant(name string) bool {
	base := filepath.Base(name)
	if strings.HasPrefix(base, ".") {
		return false
	}
	return base == hcl_adapter.ProjectFile ||
		strings.HasSuffix(base, element.Suffix) ||
		strings.HasSuffix(base, registry.KindSuffix)
}
