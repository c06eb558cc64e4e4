package command

import (
	"fmt"

	"github.com/pixil98/go-errors"
)

type Config struct {
	Log        LogConfig        `json:"log"`
	TuningPath string           `json:"tuning_path,omitempty"`
	Storage    StorageConfig    `json:"storage"`
	Clock      ClockConfig      `json:"clock"`
	Nats       NatsConfig       `json:"nats"`
	Chronicle  ChronicleConfig  `json:"chronicle"`
	Listeners  []ListenerConfig `json:"listeners"`
	Player     PlayerConfig     `json:"player"`
	SeedSpawns []SeedSpawn      `json:"seed_spawns"`
}

func (c *Config) Validate() error {
	el := errors.NewErrorList()

	el.Add(c.Log.validate())
	el.Add(c.Storage.validate())
	el.Add(c.Clock.validate())
	el.Add(c.Nats.validate())
	el.Add(c.Player.validate())

	if len(c.Listeners) == 0 {
		el.Add(fmt.Errorf("at least one listener is required"))
	}
	for i, l := range c.Listeners {
		if err := l.validate(); err != nil {
			el.Add(fmt.Errorf("listener %d: %w", i, err))
		}
	}

	for i, s := range c.SeedSpawns {
		if err := s.validate(); err != nil {
			el.Add(fmt.Errorf("seed spawn %d: %w", i, err))
		}
	}

	return el.Err()
}
