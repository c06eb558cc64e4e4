package ecology

import (
	"context"
	"testing"

	"github.com/pixil98/go-aeternus/internal/clock"
	"github.com/pixil98/go-aeternus/internal/combat"
	"github.com/pixil98/go-aeternus/internal/game"
	"github.com/pixil98/go-aeternus/internal/game/gametest"
	"github.com/pixil98/go-aeternus/internal/tuning"
	"github.com/pixil98/go-aeternus/internal/vnum"
	"github.com/pixil98/go-testutil"
)

func TestEcosystem_Tick(t *testing.T) {
	tests := map[string]struct {
		spawn      []vnum.VNum
		floats     []float64
		busy       bool
		expAlive   string
		expDead    string
		expDeaths  int
		expWinnerH int
	}{
		"predator eats prey": {
			spawn:      []vnum.VNum{gametest.Wolf, gametest.Deer},
			floats:     []float64{0.9, 0.0},
			expAlive:   "grey wolf",
			expDead:    "red deer",
			expDeaths:  1,
			expWinnerH: 48,
		},
		"prey wins when stronger": {
			spawn:      []vnum.VNum{gametest.Wolf, gametest.Deer},
			floats:     []float64{0.0, 0.99},
			expAlive:   "red deer",
			expDead:    "grey wolf",
			expDeaths:  1,
			expWinnerH: 36,
		},
		"tie goes to the defender": {
			spawn:      []vnum.VNum{gametest.Wolf, gametest.Wolf},
			floats:     []float64{0.5, 0.5},
			expDeaths:  1,
			expWinnerH: 48,
		},
		"no predators": {
			spawn: []vnum.VNum{gametest.Rat, gametest.Deer},
		},
		"predator in combat is left alone": {
			spawn: []vnum.VNum{gametest.Wolf, gametest.Deer},
			busy:  true,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			w := gametest.World(t)
			var npcs []*game.NPC
			for _, tmpl := range tt.spawn {
				npcs = append(npcs, gametest.Spawn(t, w, tmpl, gametest.Clearing))
			}

			busy := fakeCombat{}
			if tt.busy {
				busy[combat.NPCID(npcs[0].ID)] = true
			}

			j := &recordingJournal{}
			eco := NewEcosystem(w,
				WithRand(&scriptedRand{floats: tt.floats}),
				WithJournal(j),
				WithCombat(busy),
			)

			err := eco.Tick(context.Background(), clock.Date{})
			testutil.AssertEqual(t, "err", err, nil)
			testutil.AssertEqual(t, "deaths", len(j.deaths), tt.expDeaths)

			alive := w.RoomNPCs(gametest.Clearing)
			testutil.AssertEqual(t, "survivors", len(alive), len(tt.spawn)-tt.expDeaths)
			if tt.expDeaths == 0 {
				return
			}

			winner := alive[0]
			_, maxHP := winner.Health()
			testutil.AssertEqual(t, "winner max hp", maxHP, tt.expWinnerH)
			testutil.AssertEqual(t, "winner kills", winner.Progression().Kills, 1)
			testutil.AssertEqual(t, "evolutions", len(j.evolutions), 1)
			testutil.AssertEqual(t, "method", j.deaths[0].Method, EcosystemMethod)
			if tt.expAlive != "" {
				testutil.AssertEqual(t, "winner", winner.Name(), tt.expAlive)
				testutil.AssertEqual(t, "victim", j.deaths[0].Victim, tt.expDead)
			}
		})
	}
}

func TestEcosystem_Crown(t *testing.T) {
	w := gametest.World(t)
	wolf := gametest.Spawn(t, w, gametest.Wolf, gametest.Clearing)
	gametest.Spawn(t, w, gametest.Deer, gametest.Clearing)

	cfg := tuning.Default().Ecology
	cfg.ApexKills = 0

	j := &recordingJournal{}
	eco := NewEcosystem(w,
		WithRand(&scriptedRand{floats: []float64{0.9, 0.0}}),
		WithJournal(j),
		WithTuning(cfg),
	)

	err := eco.Tick(context.Background(), clock.Date{})
	testutil.AssertEqual(t, "err", err, nil)
	testutil.AssertEqual(t, "apex", w.ZoneApex(gametest.Clearing.Region()), wolf)
	testutil.AssertEqual(t, "flag", wolf.HasFlag(game.NPCApex), true)
	testutil.AssertEqual(t, "apex changes", len(j.apex), 1)
	testutil.AssertEqual(t, "title", j.apex[0].Title, "grey wolf, "+ApexTitle)
	testutil.AssertEqual(t, "threat", j.apex[0].Threat, 2)
}

func TestEcosystem_ApexRival(t *testing.T) {
	w := gametest.World(t)
	apex := gametest.Spawn(t, w, gametest.Wolf, gametest.Clearing)
	w.SetZoneApex(context.Background(), gametest.Clearing.Region(), apex)
	rival := gametest.Spawn(t, w, gametest.Wolf, gametest.Clearing)
	gametest.Spawn(t, w, gametest.Deer, gametest.Clearing)

	// The rival attacks first and is the stronger draw.
	eco := NewEcosystem(w, WithRand(&scriptedRand{floats: []float64{0.9, 0.0}}))

	err := eco.Tick(context.Background(), clock.Date{})
	testutil.AssertEqual(t, "err", err, nil)
	testutil.AssertEqual(t, "apex dead", w.NPC(apex.ID) == nil, true)
	testutil.AssertEqual(t, "rival alive", w.NPC(rival.ID) == rival, true)
	testutil.AssertEqual(t, "deer spared", len(w.RoomNPCs(gametest.Clearing)), 2)
	testutil.AssertEqual(t, "no apex", w.ZoneApex(gametest.Clearing.Region()) == nil, true)
}

func TestReport(t *testing.T) {
	w := gametest.World(t)
	wolf := gametest.Spawn(t, w, gametest.Wolf, gametest.Clearing)
	gametest.Spawn(t, w, gametest.Rat, gametest.Ridge)
	gametest.Spawn(t, w, gametest.Rat, gametest.Ridge)
	gametest.Spawn(t, w, gametest.Deer, gametest.Cave)
	w.SetZoneApex(context.Background(), 1, wolf)

	r := Report(w, 1)
	testutil.AssertEqual(t, "threat", r.ThreatLevel, 2)
	testutil.AssertEqual(t, "apex", r.Apex, "grey wolf")
	testutil.AssertEqual(t, "rats", r.Species["giant rat"], 2)
	testutil.AssertEqual(t, "string", r.String(),
		"Region 1, threat level 2.\nApex: grey wolf\n  giant rat            2\n  grey wolf            1")

	testutil.AssertEqual(t, "empty", Report(w, 7).String(), "Region 7, threat level 1.\nNothing stirs here.")
}

func TestTrack(t *testing.T) {
	w := gametest.World(t)
	first := gametest.Spawn(t, w, gametest.Wolf, gametest.Clearing)
	second := gametest.Spawn(t, w, gametest.Wolf, gametest.Ridge)
	gametest.Spawn(t, w, gametest.Rat, gametest.Ridge)
	second.RecordKill()

	got := Track(w, "wolf")
	testutil.AssertEqual(t, "count", len(got), 2)
	testutil.AssertEqual(t, "most kills first", got[0], second)
	testutil.AssertEqual(t, "then", got[1], first)
}
