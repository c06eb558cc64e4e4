package command

import (
	"context"
	"fmt"

	"github.com/pixil98/go-aeternus/internal/clock"
	"github.com/pixil98/go-aeternus/internal/storage"
	"github.com/pixil98/go-aeternus/internal/tuning"
	"github.com/pixil98/go-errors"
)

type ClockConfig struct {
	Snapshot SnapshotConfig `json:"snapshot"`
}

type SnapshotConfig struct {
	Backend  string `json:"backend"`
	Path     string `json:"path,omitempty"`
	RedisURL string `json:"redis_url,omitempty"`
	Key      string `json:"key,omitempty"`
}

func (c *ClockConfig) validate() error {
	el := errors.NewErrorList()

	s := c.Snapshot
	switch s.Backend {
	case "", "file":
		if s.Path == "" {
			el.Add(fmt.Errorf("clock.snapshot.path is required for the file backend"))
		}
	case "redis":
		if s.RedisURL == "" {
			el.Add(fmt.Errorf("clock.snapshot.redis_url is required for the redis backend"))
		}
	default:
		el.Add(fmt.Errorf("clock.snapshot.backend must be file or redis, got %q", s.Backend))
	}

	return el.Err()
}

func (c *ClockConfig) buildSnapshots(ctx context.Context) (storage.Document[clock.Snapshot], error) {
	s := c.Snapshot
	if s.Backend != "redis" {
		return storage.NewFileDocument[clock.Snapshot](s.Path), nil
	}

	key := s.Key
	if key == "" {
		key = "aeternus:clock"
	}
	doc, err := storage.NewRedisDocument[clock.Snapshot](ctx, s.RedisURL, key)
	if err != nil {
		return nil, fmt.Errorf("opening clock snapshot: %w", err)
	}
	return doc, nil
}

func (c *ClockConfig) BuildClock(ctx context.Context, t tuning.Clock) (*clock.Clock, error) {
	snaps, err := c.buildSnapshots(ctx)
	if err != nil {
		return nil, err
	}

	return clock.NewClock(snaps,
		clock.WithMultiplier(t.Multiplier),
		clock.WithFastPeriod(t.FastPeriod),
		clock.WithSlowPeriod(t.SlowPeriod),
		clock.WithPersistPeriod(t.PersistPeriod),
		clock.WithYearOffset(t.YearOffset),
	), nil
}
