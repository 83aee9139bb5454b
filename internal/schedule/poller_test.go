package schedule

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type step struct {
	active bool
	err    error
}

type scriptedFetcher struct {
	mu    sync.Mutex
	steps []step
	calls int
	paths []string
}

func (f *scriptedFetcher) Status(ctx context.Context, path string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.paths = append(f.paths, path)
	if f.calls >= len(f.steps) {
		last := f.steps[len(f.steps)-1]
		return last.active, last.err
	}
	s := f.steps[f.calls]
	f.calls++
	return s.active, s.err
}

type recorderStub struct {
	checks      int32
	failures    int32
	transitions int32
}

func (r *recorderStub) ObserveScheduleCheck(path string, ok bool) {
	atomic.AddInt32(&r.checks, 1)
	if !ok {
		atomic.AddInt32(&r.failures, 1)
	}
}

func (r *recorderStub) ObserveScheduleTransition(path string, active bool) {
	atomic.AddInt32(&r.transitions, 1)
}

func TestPollerEmitsOnlyOnChange(t *testing.T) {
	fetcher := &scriptedFetcher{steps: []step{
		{active: true},
		{active: true},
		{err: errors.New("connection reset")},
		{active: true},
		{active: false},
	}}
	bus := NewBroadcaster()
	var events []Event
	bus.Subscribe(func(ev Event) { events = append(events, ev) })
	rec := &recorderStub{}
	p := NewPoller(fetcher, bus, Config{Path: "/magang", Recorder: rec})

	_, known := p.Last()
	assert.False(t, known)

	for range fetcher.steps {
		p.Check(context.Background())
	}

	require.Len(t, events, 2)
	assert.True(t, events[0].Active)
	assert.Nil(t, events[0].Previous)
	assert.False(t, events[1].Active)
	require.NotNil(t, events[1].Previous)
	assert.True(t, *events[1].Previous)
	assert.Equal(t, "/magang", events[1].Path)

	active, known := p.Last()
	assert.True(t, known)
	assert.False(t, active)
	assert.Equal(t, []string{"/magang", "/magang", "/magang", "/magang", "/magang"}, fetcher.paths)
	assert.EqualValues(t, 5, rec.checks)
	assert.EqualValues(t, 1, rec.failures)
	assert.EqualValues(t, 2, rec.transitions)
}

func TestPollerFailureBeforeFirstValueStaysUnknown(t *testing.T) {
	fetcher := &scriptedFetcher{steps: []step{{err: errors.New("down")}}}
	bus := NewBroadcaster()
	published := 0
	bus.Subscribe(func(Event) { published++ })
	p := NewPoller(fetcher, bus, Config{Path: "/oprec"})

	assert.False(t, p.Check(context.Background()))
	_, known := p.Last()
	assert.False(t, known)
	assert.Zero(t, published)
}

func TestPollerRunChecksImmediately(t *testing.T) {
	fetcher := &scriptedFetcher{steps: []step{{active: true}}}
	bus := NewBroadcaster()
	got := make(chan Event, 1)
	bus.Subscribe(func(ev Event) { got <- ev })
	p := NewPoller(fetcher, bus, Config{Path: "/magang", Interval: time.Hour})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- p.Run(ctx) }()

	select {
	case ev := <-got:
		assert.True(t, ev.Active)
	case <-time.After(2 * time.Second):
		t.Fatal("expected immediate check")
	}
	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not stop after cancel")
	}
}

type blockingFetcher struct {
	inFlight    int32
	maxInFlight int32
	calls       int32
	delay       time.Duration
}

func (f *blockingFetcher) Status(ctx context.Context, path string) (bool, error) {
	n := atomic.AddInt32(&f.inFlight, 1)
	defer atomic.AddInt32(&f.inFlight, -1)
	for {
		max := atomic.LoadInt32(&f.maxInFlight)
		if n <= max || atomic.CompareAndSwapInt32(&f.maxInFlight, max, n) {
			break
		}
	}
	atomic.AddInt32(&f.calls, 1)
	select {
	case <-time.After(f.delay):
		return true, nil
	case <-ctx.Done():
		return false, ctx.Err()
	}
}

func TestPollerNeverOverlapsChecks(t *testing.T) {
	fetcher := &blockingFetcher{delay: 30 * time.Millisecond}
	p := NewPoller(fetcher, NewBroadcaster(), Config{Path: "/magang", Interval: 5 * time.Millisecond})

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()
	_ = p.Run(ctx)

	assert.EqualValues(t, 1, atomic.LoadInt32(&fetcher.maxInFlight))
	assert.Greater(t, atomic.LoadInt32(&fetcher.calls), int32(1))
	assert.Less(t, atomic.LoadInt32(&fetcher.calls), int32(10))
}

func TestPollerCancelAbortsInFlightRequest(t *testing.T) {
	fetcher := &blockingFetcher{delay: time.Hour}
	p := NewPoller(fetcher, NewBroadcaster(), Config{Path: "/magang", Interval: time.Hour})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		_ = p.Run(ctx)
		close(done)
	}()

	require.Eventually(t, func() bool { return atomic.LoadInt32(&fetcher.inFlight) == 1 }, time.Second, 5*time.Millisecond)
	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
	assert.EqualValues(t, 0, atomic.LoadInt32(&fetcher.inFlight))
	_, known := p.Last()
	assert.False(t, known)
}

func TestBroadcasterUnsubscribe(t *testing.T) {
	bus := NewBroadcaster()
	var a, b int
	unsubA := bus.Subscribe(func(Event) { a++ })
	bus.Subscribe(func(Event) { b++ })
	assert.Equal(t, 2, bus.Len())

	bus.Publish(Event{Path: "/x", Active: true})
	unsubA()
	unsubA()
	bus.Publish(Event{Path: "/x", Active: false})

	assert.Equal(t, 1, a)
	assert.Equal(t, 2, b)
	assert.Equal(t, 1, bus.Len())
}

func TestWatcherSnapshot(t *testing.T) {
	fetcher := &scriptedFetcher{steps: []step{{active: true}}}
	bus := NewBroadcaster()
	w := NewWatcher(fetcher, bus, []string{"/magang", "/magang", "", "/oprec"}, Config{Interval: time.Hour})
	assert.Equal(t, []string{"/magang", "/oprec"}, w.Paths())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		_ = w.Run(ctx)
		close(done)
	}()
	require.Eventually(t, func() bool { return len(w.Snapshot()) == 2 }, 2*time.Second, 5*time.Millisecond)
	cancel()
	<-done

	active, known := w.Status("/oprec")
	assert.True(t, known)
	assert.True(t, active)
	_, known = w.Status("/unknown")
	assert.False(t, known)
}
