package clock

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/pixil98/go-aeternus/internal/storage"
)

const (
	DefaultMultiplier    = 30
	DefaultFastPeriod    = time.Second * 2
	DefaultSlowPeriod    = time.Second * 10
	DefaultPersistPeriod = time.Minute * 5
	DefaultYearOffset    = 1000
)

// Snapshot is the persisted world-time record.
type Snapshot struct {
	TotalWorldSeconds  float64 `json:"total_world_seconds"`
	WallClockTimestamp float64 `json:"wall_clock_timestamp"`
}

// FastFunc is invoked once per fast period.
type FastFunc func(ctx context.Context) error

// SlowFunc is invoked once per slow period with the world date at the start
// of that tick.
type SlowFunc func(ctx context.Context, d Date) error

type subscriber[F any] struct {
	name string
	fn   F
}

// Clock converts wall-clock time into world time and drives the periodic
// subscriber loops. Start blocks until the context is cancelled and saves a
// final snapshot on the way out.
type Clock struct {
	multiplier    float64
	fastPeriod    time.Duration
	slowPeriod    time.Duration
	persistPeriod time.Duration
	yearOffset    int
	now           func() time.Time
	snapshots     storage.Document[Snapshot]

	mu    sync.Mutex
	base  float64
	start time.Time
	last  float64

	subMu sync.Mutex
	fast  []subscriber[FastFunc]
	slow  []subscriber[SlowFunc]
}

// NewClock returns a clock persisting to snapshots. A nil document disables
// persistence and the world starts from zero on every boot.
func NewClock(snapshots storage.Document[Snapshot], opts ...ClockOpt) *Clock {
	c := &Clock{
		multiplier:    DefaultMultiplier,
		fastPeriod:    DefaultFastPeriod,
		slowPeriod:    DefaultSlowPeriod,
		persistPeriod: DefaultPersistPeriod,
		yearOffset:    DefaultYearOffset,
		now:           time.Now,
		snapshots:     snapshots,
	}

	for _, opt := range opts {
		opt(c)
	}

	c.start = c.now()
	return c
}

func (c *Clock) RegisterFast(name string, fn FastFunc) {
	c.subMu.Lock()
	defer c.subMu.Unlock()
	c.fast = append(c.fast, subscriber[FastFunc]{name: name, fn: fn})
}

func (c *Clock) RegisterSlow(name string, fn SlowFunc) {
	c.subMu.Lock()
	defer c.subMu.Unlock()
	c.slow = append(c.slow, subscriber[SlowFunc]{name: name, fn: fn})
}

// TotalSeconds is the elapsed world time. It never decreases, even if the
// wall clock steps backwards.
func (c *Clock) TotalSeconds() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	total := c.base + c.now().Sub(c.start).Seconds()*c.multiplier
	if total < c.last {
		return c.last
	}
	c.last = total
	return total
}

func (c *Clock) Date() Date {
	return DateAt(c.TotalSeconds(), c.yearOffset)
}

// Restore loads the persisted snapshot and advances world time by the
// downtime since it was written.
func (c *Clock) Restore(ctx context.Context) error {
	if c.snapshots == nil {
		return nil
	}

	snap, ok, err := c.snapshots.Load(ctx)
	if err != nil {
		return fmt.Errorf("loading clock snapshot: %w", err)
	}

	now := c.now()

	c.mu.Lock()
	defer c.mu.Unlock()

	c.start = now
	if !ok {
		c.base = 0
		c.last = 0
		slog.InfoContext(ctx, "no clock snapshot found, starting a new world", "year", c.yearOffset)
		return nil
	}

	offline := unixSeconds(now) - snap.WallClockTimestamp
	if offline < 0 {
		offline = 0
	}
	c.base = snap.TotalWorldSeconds + offline*c.multiplier
	c.last = c.base

	slog.InfoContext(ctx, "clock snapshot loaded",
		"world_seconds", snap.TotalWorldSeconds,
		"caught_up", offline*c.multiplier,
		"date", DateAt(c.base, c.yearOffset).String())
	return nil
}

// Save writes the current world time.
func (c *Clock) Save(ctx context.Context) error {
	if c.snapshots == nil {
		return nil
	}

	snap := Snapshot{
		TotalWorldSeconds:  c.TotalSeconds(),
		WallClockTimestamp: unixSeconds(c.now()),
	}
	if err := c.snapshots.Store(ctx, snap); err != nil {
		return fmt.Errorf("saving clock snapshot: %w", err)
	}

	slog.DebugContext(ctx, "clock snapshot saved", "world_seconds", snap.TotalWorldSeconds)
	return nil
}

func (c *Clock) Start(ctx context.Context) error {
	if err := c.Restore(ctx); err != nil {
		return err
	}

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		runEvery(ctx, c.fastPeriod, c.FastTick)
	}()
	go func() {
		defer wg.Done()
		runEvery(ctx, c.slowPeriod, c.SlowTick)
	}()

	ticker := time.NewTicker(c.persistPeriod)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			wg.Wait()
			// The run context is already cancelled; the final save must still land.
			if err := c.Save(context.WithoutCancel(ctx)); err != nil {
				slog.ErrorContext(ctx, "final clock save failed", "error", err)
				return err
			}
			return nil
		case <-ticker.C:
			if err := c.Save(ctx); err != nil {
				slog.ErrorContext(ctx, "clock save failed", "error", err)
			}
		}
	}
}

// FastTick runs every fast subscriber once, in registration order.
func (c *Clock) FastTick(ctx context.Context) {
	c.subMu.Lock()
	subs := append([]subscriber[FastFunc](nil), c.fast...)
	c.subMu.Unlock()

	for _, s := range subs {
		invoke(ctx, "fast", s.name, func() error { return s.fn(ctx) })
	}
}

// SlowTick runs every slow subscriber once with the current date.
func (c *Clock) SlowTick(ctx context.Context) {
	c.subMu.Lock()
	subs := append([]subscriber[SlowFunc](nil), c.slow...)
	c.subMu.Unlock()

	date := c.Date()
	for _, s := range subs {
		invoke(ctx, "slow", s.name, func() error { return s.fn(ctx, date) })
	}
}

// runEvery calls tick, then sleeps whatever is left of period.
func runEvery(ctx context.Context, period time.Duration, tick func(context.Context)) {
	timer := time.NewTimer(0)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
		}

		began := time.Now()
		tick(ctx)
		timer.Reset(max(0, period-time.Since(began)))
	}
}

func invoke(ctx context.Context, loop, name string, fn func() error) {
	defer func() {
		if r := recover(); r != nil {
			slog.ErrorContext(ctx, "tick subscriber panicked", "loop", loop, "subscriber", name, "panic", r)
		}
	}()

	if err := fn(); err != nil {
		slog.ErrorContext(ctx, "tick subscriber failed", "loop", loop, "subscriber", name, "error", err)
	}
}

func unixSeconds(t time.Time) float64 {
	return float64(t.UnixNano()) / float64(time.Second)
}
