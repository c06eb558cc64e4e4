package tuning

import (
	"fmt"
	"os"
	"time"

	"github.com/pixil98/go-errors"
	"gopkg.in/yaml.v3"
)

// Tuning holds the balance constants of the simulation. Fields missing from
// the file keep their defaults.
type Tuning struct {
	Clock   Clock   `yaml:"clock"`
	Combat  Combat  `yaml:"combat"`
	Ecology Ecology `yaml:"ecology"`
}

type Clock struct {
	Multiplier    float64       `yaml:"multiplier"`
	FastPeriod    time.Duration `yaml:"fast_period"`
	SlowPeriod    time.Duration `yaml:"slow_period"`
	PersistPeriod time.Duration `yaml:"persist_period"`
	YearOffset    int           `yaml:"year_offset"`
}

type Combat struct {
	FumbleRoll     float64 `yaml:"fumble_roll"`
	CritRoll       float64 `yaml:"crit_roll"`
	CritMultiplier float64 `yaml:"crit_multiplier"`
	CatalystChance float64 `yaml:"catalyst_chance"`
}

type Ecology struct {
	ApexKills           int     `yaml:"apex_kills"`
	EvolutionThresholds []int   `yaml:"evolution_thresholds"`
	EvolutionHPFactor   float64 `yaml:"evolution_hp_factor"`
	TitleChance         float64 `yaml:"title_chance"`
	MaxTitles           int     `yaml:"max_titles"`

	// RespawnEvery is the number of slow ticks between respawn cycles.
	RespawnEvery int        `yaml:"respawn_every"`
	Resources    []Resource `yaml:"resources"`
}

// Resource is a species the ecosystem keeps from dying out in one region.
// Each respawn cycle below Optimal spawns half the deficit, at least one.
type Resource struct {
	NPC     int `yaml:"npc"`
	Region  int `yaml:"region"`
	Minimum int `yaml:"minimum"`
	Optimal int `yaml:"optimal"`
}

func Default() Tuning {
	return Tuning{
		Clock: Clock{
			Multiplier:    30,
			FastPeriod:    2 * time.Second,
			SlowPeriod:    10 * time.Second,
			PersistPeriod: 5 * time.Minute,
			YearOffset:    1000,
		},
		Combat: Combat{
			FumbleRoll:     0.95,
			CritRoll:       0.05,
			CritMultiplier: 1.5,
			CatalystChance: 0.4,
		},
		Ecology: Ecology{
			ApexKills:           10,
			EvolutionThresholds: []int{1, 5, 10, 25, 50},
			EvolutionHPFactor:   1.2,
			TitleChance:         0.1,
			MaxTitles:           3,
			RespawnEvery:        6,
			Resources: []Resource{
				{NPC: 100001, Region: 1, Minimum: 8, Optimal: 20},
				{NPC: 100003, Region: 1, Minimum: 2, Optimal: 8},
				{NPC: 100010, Region: 1, Minimum: 5, Optimal: 15},
			},
		},
	}
}

// Load reads a tuning file over the defaults. An empty path yields the
// defaults unchanged.
func Load(path string) (Tuning, error) {
	t := Default()
	if path == "" {
		return t, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return t, fmt.Errorf("reading tuning: %w", err)
	}
	if err := yaml.Unmarshal(raw, &t); err != nil {
		return t, fmt.Errorf("parsing %s: %w", path, err)
	}
	if err := t.Validate(); err != nil {
		return t, fmt.Errorf("validating %s: %w", path, err)
	}
	return t, nil
}

func (t Tuning) Validate() error {
	el := errors.NewErrorList()

	if t.Clock.Multiplier <= 0 {
		el.Add(fmt.Errorf("clock.multiplier must be positive"))
	}
	if t.Clock.FastPeriod <= 0 || t.Clock.SlowPeriod <= 0 || t.Clock.PersistPeriod <= 0 {
		el.Add(fmt.Errorf("clock periods must be positive"))
	}

	if t.Combat.CritRoll < 0 || t.Combat.CritRoll >= t.Combat.FumbleRoll || t.Combat.FumbleRoll > 1 {
		el.Add(fmt.Errorf("combat rolls must satisfy 0 <= crit_roll < fumble_roll <= 1"))
	}
	if t.Combat.CritMultiplier < 1 {
		el.Add(fmt.Errorf("combat.crit_multiplier must be at least 1"))
	}
	if t.Combat.CatalystChance < 0 || t.Combat.CatalystChance > 1 {
		el.Add(fmt.Errorf("combat.catalyst_chance must be within [0, 1]"))
	}

	if t.Ecology.ApexKills < 0 {
		el.Add(fmt.Errorf("ecology.apex_kills must not be negative"))
	}
	for i, th := range t.Ecology.EvolutionThresholds {
		if i > 0 && th <= t.Ecology.EvolutionThresholds[i-1] {
			el.Add(fmt.Errorf("ecology.evolution_thresholds must be strictly increasing"))
			break
		}
	}
	if t.Ecology.EvolutionHPFactor < 1 {
		el.Add(fmt.Errorf("ecology.evolution_hp_factor must be at least 1"))
	}
	if t.Ecology.RespawnEvery < 1 {
		el.Add(fmt.Errorf("ecology.respawn_every must be at least 1"))
	}
	for i, r := range t.Ecology.Resources {
		if r.NPC <= 0 {
			el.Add(fmt.Errorf("ecology.resources[%d]: npc is required", i))
		}
		if r.Minimum < 0 || r.Optimal < r.Minimum {
			el.Add(fmt.Errorf("ecology.resources[%d]: must satisfy 0 <= minimum <= optimal", i))
		}
	}

	return el.Err()
}
