package ecology

import (
	"context"
	"testing"

	"github.com/pixil98/go-aeternus/internal/clock"
	"github.com/pixil98/go-aeternus/internal/game/gametest"
	"github.com/pixil98/go-aeternus/internal/tuning"
	"github.com/pixil98/go-aeternus/internal/vnum"
	"github.com/pixil98/go-testutil"
)

func populationTuning(every int, res ...tuning.Resource) tuning.Ecology {
	cfg := tuning.Default().Ecology
	cfg.RespawnEvery = every
	cfg.Resources = res
	return cfg
}

func TestPopulation_Replenish(t *testing.T) {
	tests := map[string]struct {
		resource   tuning.Resource
		existing   int
		expSpawned []int
	}{
		"culled species refills toward optimum": {
			resource:   tuning.Resource{NPC: int(gametest.Rat), Region: 1, Minimum: 1, Optimal: 5},
			existing:   1,
			expSpawned: []int{2, 1, 1, 0},
		},
		"extinct species comes back": {
			resource:   tuning.Resource{NPC: int(gametest.Rat), Region: 1, Minimum: 1, Optimal: 2},
			expSpawned: []int{1, 1, 0},
		},
		"at optimum nothing spawns": {
			resource:   tuning.Resource{NPC: int(gametest.Rat), Region: 1, Optimal: 2},
			existing:   2,
			expSpawned: []int{0},
		},
		"unknown template is skipped": {
			resource:   tuning.Resource{NPC: int(vnum.MustNew(1, 99)), Region: 1, Optimal: 3},
			expSpawned: []int{0},
		},
		"region without rooms is skipped": {
			resource:   tuning.Resource{NPC: int(gametest.Rat), Region: 9, Optimal: 3},
			expSpawned: []int{0},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			w := gametest.World(t)
			for range tt.existing {
				gametest.Spawn(t, w, gametest.Rat, gametest.Clearing)
			}

			p := NewPopulation(w,
				WithRand(&scriptedRand{ints: []int{1}}),
				WithTuning(populationTuning(1, tt.resource)),
			)

			total := tt.existing
			for i, exp := range tt.expSpawned {
				got := p.Replenish(ctx)
				testutil.AssertEqual(t, "spawned", got, exp)
				total += got
				if i == 0 && exp > 0 {
					testutil.AssertEqual(t, "spread into ridge", len(w.RoomNPCs(gametest.Ridge)) > 0, true)
				}
			}
			testutil.AssertEqual(t, "population", countSpecies(w, tt.resource.Region, gametest.Rat), total)
		})
	}
}

func TestPopulation_TickCadence(t *testing.T) {
	ctx := context.Background()
	w := gametest.World(t)
	p := NewPopulation(w, WithTuning(populationTuning(3,
		tuning.Resource{NPC: int(gametest.Deer), Region: 1, Minimum: 1, Optimal: 2},
	)))

	for tick := 1; tick <= 3; tick++ {
		err := p.Tick(ctx, clock.Date{})
		testutil.AssertEqual(t, "err", err, nil)
		exp := 0
		if tick == 3 {
			exp = 1
		}
		testutil.AssertEqual(t, "deer", countSpecies(w, 1, gametest.Deer), exp)
	}
}

func TestPopulation_Resources(t *testing.T) {
	w := gametest.World(t)
	gametest.Spawn(t, w, gametest.Rat, gametest.Ridge)
	gametest.Spawn(t, w, gametest.Deer, gametest.Cave)

	p := NewPopulation(w, WithTuning(populationTuning(1,
		tuning.Resource{NPC: int(gametest.Rat), Region: 1, Minimum: 1, Optimal: 3},
		tuning.Resource{NPC: int(gametest.Deer), Region: 1, Minimum: 1, Optimal: 2},
		tuning.Resource{NPC: int(gametest.Deer), Region: 2, Minimum: 0, Optimal: 1},
	)))

	got := p.Resources(1)
	testutil.AssertEqual(t, "count", len(got), 2)
	testutil.AssertEqual(t, "rat", got[0], ResourceStatus{Name: "giant rat", Count: 1, Minimum: 1, Optimal: 3})
	testutil.AssertEqual(t, "rat status", got[0].Status(), "scarce")
	testutil.AssertEqual(t, "deer status", got[1].Status(), "critical")
	testutil.AssertEqual(t, "cave deer", p.Resources(2)[0].Status(), "thriving")

	r := Report(w, 1)
	r.Resources = got
	testutil.AssertEqual(t, "report", r.String(),
		"Region 1, threat level 1.\n  giant rat            1\nResources:\n"+
			"  giant rat            1/3 (min 1) scarce\n"+
			"  red deer             0/2 (min 1) critical")
}
