package clock

import "time"

type ClockOpt func(*Clock)

func WithMultiplier(m float64) ClockOpt {
	return func(c *Clock) {
		c.multiplier = m
	}
}

func WithFastPeriod(d time.Duration) ClockOpt {
	return func(c *Clock) {
		c.fastPeriod = d
	}
}

func WithSlowPeriod(d time.Duration) ClockOpt {
	return func(c *Clock) {
		c.slowPeriod = d
	}
}

func WithPersistPeriod(d time.Duration) ClockOpt {
	return func(c *Clock) {
		c.persistPeriod = d
	}
}

func WithYearOffset(year int) ClockOpt {
	return func(c *Clock) {
		c.yearOffset = year
	}
}

// WithNow replaces the wall clock used for world-time conversion.
func WithNow(now func() time.Time) ClockOpt {
	return func(c *Clock) {
		c.now = now
	}
}
