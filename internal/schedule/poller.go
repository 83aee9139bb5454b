// Package schedule polls time-gated feature flags and broadcasts changes.
package schedule

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// DefaultInterval is used when Config.Interval is unset.
const DefaultInterval = 5 * time.Second

// Fetcher asks the site whether the feature behind path is active.
type Fetcher interface {
	Status(ctx context.Context, path string) (bool, error)
}

// Recorder receives poll outcomes; MetricsService satisfies it.
type Recorder interface {
	ObserveScheduleCheck(path string, ok bool)
	ObserveScheduleTransition(path string, active bool)
}

// Config configures a Poller.
type Config struct {
	Path     string
	Interval time.Duration
	Logger   *zap.Logger
	Recorder Recorder
}

// Poller tracks one schedule flag. Failed checks keep the last known value
// and publish nothing; only real changes are published.
type Poller struct {
	path     string
	interval time.Duration
	fetcher  Fetcher
	bus      *Broadcaster
	logger   *zap.Logger
	recorder Recorder
	now      func() time.Time

	mu     sync.Mutex
	active bool
	known  bool
}

// NewPoller builds a poller publishing to bus.
func NewPoller(fetcher Fetcher, bus *Broadcaster, cfg Config) *Poller {
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultInterval
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	return &Poller{
		path:     cfg.Path,
		interval: cfg.Interval,
		fetcher:  fetcher,
		bus:      bus,
		logger:   cfg.Logger,
		recorder: cfg.Recorder,
		now:      time.Now,
	}
}

// Path returns the polled path.
func (p *Poller) Path() string { return p.path }

// Last returns the last known value; known is false before the first
// successful check.
func (p *Poller) Last() (active, known bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.active, p.known
}

// Check performs a single poll and reports whether an event was published.
func (p *Poller) Check(ctx context.Context) bool {
	active, err := p.fetcher.Status(ctx, p.path)
	if p.recorder != nil {
		p.recorder.ObserveScheduleCheck(p.path, err == nil)
	}
	if err != nil {
		p.logger.Debug("schedule check failed", zap.String("path", p.path), zap.Error(err))
		return false
	}

	p.mu.Lock()
	prev, known := p.active, p.known
	p.active, p.known = active, true
	p.mu.Unlock()

	if known && prev == active {
		return false
	}
	ev := Event{Path: p.path, Active: active, At: p.now().UTC()}
	if known {
		ev.Previous = &prev
	}
	if p.recorder != nil {
		p.recorder.ObserveScheduleTransition(p.path, active)
	}
	p.logger.Info("schedule changed", zap.String("path", p.path), zap.Bool("active", active))
	if p.bus != nil {
		p.bus.Publish(ev)
	}
	return true
}

// Run checks immediately and then once per interval until ctx is done.
// Checks never overlap: a tick that fires while a check is in flight is
// dropped. Cancelling ctx aborts the in-flight request; Run returns after
// the ticker is stopped.
func (p *Poller) Run(ctx context.Context) error {
	p.Check(ctx)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			p.Check(ctx)
			select {
			case <-ticker.C:
			default:
			}
		}
	}
}
