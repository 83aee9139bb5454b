package schedule

import (
	"context"
	"sort"
	"sync"
)

// Watcher runs one Poller per path on a shared broadcaster.
type Watcher struct {
	bus     *Broadcaster
	pollers map[string]*Poller
}

// NewWatcher builds pollers for paths; duplicate paths are collapsed.
func NewWatcher(fetcher Fetcher, bus *Broadcaster, paths []string, base Config) *Watcher {
	w := &Watcher{bus: bus, pollers: make(map[string]*Poller, len(paths))}
	for _, path := range paths {
		if _, exists := w.pollers[path]; exists || path == "" {
			continue
		}
		cfg := base
		cfg.Path = path
		w.pollers[path] = NewPoller(fetcher, bus, cfg)
	}
	return w
}

// Broadcaster returns the shared broadcaster.
func (w *Watcher) Broadcaster() *Broadcaster { return w.bus }

// Paths lists watched paths in sorted order.
func (w *Watcher) Paths() []string {
	out := make([]string, 0, len(w.pollers))
	for path := range w.pollers {
		out = append(out, path)
	}
	sort.Strings(out)
	return out
}

// Status returns the last known value for path.
func (w *Watcher) Status(path string) (active, known bool) {
	p, ok := w.pollers[path]
	if !ok {
		return false, false
	}
	return p.Last()
}

// Snapshot returns every path with a known value.
func (w *Watcher) Snapshot() map[string]bool {
	out := make(map[string]bool, len(w.pollers))
	for path, p := range w.pollers {
		if active, known := p.Last(); known {
			out[path] = active
		}
	}
	return out
}

// Run starts every poller and blocks until all have stopped.
func (w *Watcher) Run(ctx context.Context) error {
	var wg sync.WaitGroup
	for _, p := range w.pollers {
		wg.Add(1)
		go func(p *Poller) {
			defer wg.Done()
			_ = p.Run(ctx)
		}(p)
	}
	wg.Wait()
	return ctx.Err()
}
