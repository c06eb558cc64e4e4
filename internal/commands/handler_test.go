package commands

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/pixil98/go-aeternus/internal/chronicle"
	"github.com/pixil98/go-aeternus/internal/clock"
	"github.com/pixil98/go-aeternus/internal/combat"
	"github.com/pixil98/go-aeternus/internal/ecology"
	"github.com/pixil98/go-aeternus/internal/game"
	"github.com/pixil98/go-aeternus/internal/game/gametest"
	"github.com/pixil98/go-aeternus/internal/vnum"
	"github.com/pixil98/go-testutil"
)

type fixedCalendar clock.Date

func (c fixedCalendar) Date() clock.Date { return clock.Date(c) }

// fixedRand always rolls the same float and the first option.
type fixedRand float64

func (r fixedRand) Float64() float64 { return float64(r) }
func (r fixedRand) IntN(int) int     { return 0 }

var noon = fixedCalendar{Year: 1000, Month: 2, Day: 14, Hour: 12, Minute: 5}

func TestHandler_Process(t *testing.T) {
	tests := map[string]struct {
		actor string
		text  string
		exp   string
	}{
		"blank line": {
			actor: "Alice",
			text:  "   ",
			exp:   "",
		},
		"unknown actor": {
			actor: "Nobody",
			text:  "look",
			exp:   NothingHappens,
		},
		"unknown command": {
			actor: "Alice",
			text:  "dance wildly",
			exp:   "Unknown command: dance",
		},
		"missing argument": {
			actor: "Alice",
			text:  "get",
			exp:   "Missing item.",
		},
		"too many arguments": {
			actor: "Alice",
			text:  "inventory everything",
			exp:   "Expected at most 0 argument(s), got 1.",
		},
		"verbs are case insensitive": {
			actor: "Alice",
			text:  "INVENTORY",
			exp:   "You are carrying nothing.",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			w := gametest.World(t)
			gametest.Player(t, w, "Alice", gametest.Clearing)
			h := NewHandler(w)

			testutil.AssertEqual(t, "output", h.Process(context.Background(), tt.actor, tt.text), tt.exp)
		})
	}
}

func TestHandler_Register(t *testing.T) {
	w := gametest.World(t)
	h := NewHandler(w)

	err := h.Register(&Command{Name: "dance", Func: func(context.Context, *Input) (string, error) { return "You dance.", nil }})
	testutil.AssertEqual(t, "err", err, nil)

	gametest.Player(t, w, "Alice", gametest.Clearing)
	testutil.AssertEqual(t, "dance", h.Process(context.Background(), "Alice", "dance"), "You dance.")

	err = h.Register(&Command{Name: "jig", Aliases: []string{"l"}, Func: func(context.Context, *Input) (string, error) { return "", nil }})
	testutil.AssertErrorContains(t, err, `command "l" already registered`)

	err = h.Register(&Command{Name: "broken"})
	testutil.AssertErrorContains(t, err, "func is required")
}

func TestHandler_Panics(t *testing.T) {
	w := gametest.World(t)
	gametest.Player(t, w, "Alice", gametest.Clearing)
	h := NewHandler(w)
	_ = h.Register(&Command{Name: "explode", Func: func(context.Context, *Input) (string, error) { panic("boom") }})

	testutil.AssertEqual(t, "output", h.Process(context.Background(), "Alice", "explode"), NothingHappens)
}

func TestHandler_Look(t *testing.T) {
	tests := map[string]struct {
		calendar   Calendar
		perception int
		setup      func(t *testing.T, w *game.World)
		text       string
		exp        string
	}{
		"empty room by day": {
			calendar: noon,
			text:     "look",
			exp:      "== A Quiet Clearing ==\nSunlight pools on soft grass.\n[Exits: north]",
		},
		"night description": {
			calendar: fixedCalendar{Year: 1000, Month: 1, Day: 1, Hour: 22},
			text:     "l",
			exp:      "== A Quiet Clearing ==\nMoonlight silvers the grass.\n[Exits: north]",
		},
		"perceptive players notice senses": {
			calendar:   noon,
			perception: 14,
			text:       "look",
			exp:        "== A Quiet Clearing ==\nSunlight pools on soft grass.\n[Smell] pine resin\n[Exits: north]",
		},
		"occupants": {
			calendar: noon,
			setup: func(t *testing.T, w *game.World) {
				gametest.Spawn(t, w, gametest.Rat, gametest.Clearing)
				gametest.Player(t, w, "Bob", gametest.Clearing)
				if _, err := w.SpawnItem(context.Background(), gametest.Sword, gametest.Clearing); err != nil {
					t.Fatal(err)
				}
			},
			text: "look",
			exp: "== A Quiet Clearing ==\nSunlight pools on soft grass.\n[Exits: north]\n" +
				"> giant rat is here.\n- iron sword lies on the ground.\n* Bob is here.",
		},
		"wounded apex": {
			calendar: noon,
			setup: func(t *testing.T, w *game.World) {
				n := gametest.Spawn(t, w, gametest.Wolf, gametest.Clearing)
				n.ApplyDamage("", 5)
				w.SetZoneApex(context.Background(), 1, n)
			},
			text: "look",
			exp:  "== A Quiet Clearing ==\nSunlight pools on soft grass.\n[Exits: north]\n> grey wolf [APEX] (wounded) is here.",
		},
		"without a calendar it is day": {
			text: "look",
			exp:  "== A Quiet Clearing ==\nSunlight pools on soft grass.\n[Exits: north]",
		},
		"look at npc": {
			setup: func(t *testing.T, w *game.World) {
				gametest.Spawn(t, w, gametest.Wolf, gametest.Clearing)
			},
			text: "look wolf",
			exp:  "grey wolf, level 3. It is in perfect health.",
		},
		"look at item": {
			setup: func(t *testing.T, w *game.World) {
				if _, err := w.SpawnItem(context.Background(), gametest.Sword, gametest.Clearing); err != nil {
					t.Fatal(err)
				}
			},
			text: "look sword",
			exp:  "iron sword (weapon). It deals 4-8 slash damage.",
		},
		"look at nothing": {
			text: "look dragon",
			exp:  "You do not see dragon here.",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			w := gametest.World(t)

			rec := game.NewCharacterRecord("Alice", gametest.Clearing)
			if tt.perception > 0 {
				rec.Attributes[game.Perception] = game.Stat{Base: tt.perception}
			}
			if err := w.AddPlayer(context.Background(), w.Catalog().NewCharacter("Alice", rec)); err != nil {
				t.Fatal(err)
			}
			if tt.setup != nil {
				tt.setup(t, w)
			}

			var opts []HandlerOpt
			if tt.calendar != nil {
				opts = append(opts, WithCalendar(tt.calendar))
			}
			h := NewHandler(w, opts...)

			testutil.AssertEqual(t, "output", h.Process(context.Background(), "Alice", tt.text), tt.exp)
		})
	}
}

func TestHandler_Move(t *testing.T) {
	tests := map[string]struct {
		start   vnum.VNum
		text    string
		expHead string
		expRoom vnum.VNum
	}{
		"full direction": {
			start:   gametest.Clearing,
			text:    "north",
			expHead: "== A Windy Ridge ==",
			expRoom: gametest.Ridge,
		},
		"abbreviation": {
			start:   gametest.Clearing,
			text:    "n",
			expHead: "== A Windy Ridge ==",
			expRoom: gametest.Ridge,
		},
		"go": {
			start:   gametest.Clearing,
			text:    "go north",
			expHead: "== A Windy Ridge ==",
			expRoom: gametest.Ridge,
		},
		"no exit": {
			start:   gametest.Clearing,
			text:    "south",
			expHead: "You can't go that way.",
			expRoom: gametest.Clearing,
		},
		"locked exit": {
			start:   gametest.Ridge,
			text:    "down",
			expHead: "The way is locked.",
			expRoom: gametest.Ridge,
		},
		"not a direction": {
			start:   gametest.Clearing,
			text:    "go sideways",
			expHead: `"sideways" is not a direction.`,
			expRoom: gametest.Clearing,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			w := gametest.World(t)
			alice := gametest.Player(t, w, "Alice", tt.start)
			h := NewHandler(w)

			out := h.Process(context.Background(), "Alice", tt.text)
			testutil.AssertEqual(t, "head", strings.SplitN(out, "\n", 2)[0], tt.expHead)
			testutil.AssertEqual(t, "room", alice.Location(), tt.expRoom)
		})
	}
}

func TestHandler_Items(t *testing.T) {
	ctx := context.Background()
	w := gametest.World(t)
	gametest.Player(t, w, "Alice", gametest.Clearing)
	if _, err := w.SpawnItem(ctx, gametest.Sword, gametest.Clearing); err != nil {
		t.Fatal(err)
	}
	if _, err := w.SpawnItem(ctx, gametest.Idol, gametest.Clearing); err != nil {
		t.Fatal(err)
	}
	h := NewHandler(w)

	// Each step runs against the state the previous steps left behind.
	steps := []struct {
		text string
		exp  string
	}{
		{"get axe", "You do not see axe here."},
		{"get idol", "You can't take stone idol."},
		{"drop sword", "You are not carrying sword."},
		{"get sword", "You pick up iron sword."},
		{"inventory", "You are carrying:\n  iron sword"},
		{"wield sword", "You wield iron sword."},
		{"wield sword", "You are already wielding iron sword."},
		{"i", "Wielding: iron sword\nYou are carrying nothing."},
		{"drop iron sword", "You drop iron sword."},
		{"inv", "You are carrying nothing."},
	}

	for _, s := range steps {
		testutil.AssertEqual(t, s.text, h.Process(ctx, "Alice", s.text), s.exp)
	}
	testutil.AssertEqual(t, "floor", len(w.RoomItems(gametest.Clearing)), 2)
}

func TestHandler_Kill(t *testing.T) {
	ctx := context.Background()
	w := gametest.World(t)
	alice := gametest.Player(t, w, "Alice", gametest.Clearing)
	rat := gametest.Spawn(t, w, gametest.Rat, gametest.Clearing)
	gametest.Spawn(t, w, gametest.Wolf, gametest.Ridge)

	m := combat.NewManager(w, combat.WithRand(fixedRand(0.9)))
	h := NewHandler(w, WithCombat(m))

	testutil.AssertEqual(t, "no fight yet", h.Process(ctx, "Alice", "combat"), "There is no fight here.")
	testutil.AssertEqual(t, "wrong room", h.Process(ctx, "Alice", "kill wolf"), "You do not see wolf here.")
	testutil.AssertEqual(t, "self", h.Process(ctx, "Alice", "kill alice"), "Suicide is not the answer.")
	testutil.AssertEqual(t, "attack", h.Process(ctx, "Alice", "kill rat"), "You attack giant rat!")
	testutil.AssertEqual(t, "player in combat", m.InCombat(combat.PlayerID(alice.ID)), true)
	testutil.AssertEqual(t, "npc in combat", m.InCombat(combat.NPCID(rat.ID)), true)

	if err := m.Tick(ctx); err != nil {
		t.Fatal(err)
	}

	// Both sides miss on a 0.9 roll.
	exp := "Alice tries to attack with bare hands, but giant rat dodges!\n" +
		"giant rat tries to attack with teeth, but Alice dodges!"
	testutil.AssertEqual(t, "round log", h.Process(ctx, "Alice", "combat"), exp)
}

func TestHandler_KillWithoutCombat(t *testing.T) {
	w := gametest.World(t)
	gametest.Player(t, w, "Alice", gametest.Clearing)
	gametest.Spawn(t, w, gametest.Rat, gametest.Clearing)
	h := NewHandler(w)

	testutil.AssertEqual(t, "kill", h.Process(context.Background(), "Alice", "kill rat"), "You feel oddly peaceful.")
}

func TestHandler_Info(t *testing.T) {
	tests := map[string]struct {
		calendar Calendar
		text     string
		exp      string
	}{
		"time": {
			calendar: noon,
			text:     "time",
			exp:      "It is 14 The Thaw, Year 1000 (12:05).\nThe season of Rebirth, daytime.",
		},
		"time without a clock": {
			text: "time",
			exp:  "Time has no meaning here.",
		},
		"weather": {
			calendar: noon,
			text:     "weather",
			exp:      "Cool breezes carry the smell of wet earth.\nTemperature: cool. Precipitation: rain.",
		},
		"score": {
			text: "score",
			exp:  "Alice, level 1 Warrior\nHP: 100/100  Mana: 50/50  Stamina: 100/100\nExperience: 0",
		},
		"who": {
			text: "who",
			exp:  "Players online: 2\n  [  1] Alice\n  [  1] Bob",
		},
		"help for one command": {
			text: "help kill",
			exp:  "kill <target>\n  Start a fight.\n  Aliases: k, attack",
		},
		"help for unknown command": {
			text: "help dance",
			exp:  "There is no help for dance.",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			w := gametest.World(t)
			gametest.Player(t, w, "Alice", gametest.Clearing)
			gametest.Player(t, w, "Bob", gametest.Ridge)

			var opts []HandlerOpt
			if tt.calendar != nil {
				opts = append(opts, WithCalendar(tt.calendar))
			}
			h := NewHandler(w, opts...)

			testutil.AssertEqual(t, "output", h.Process(context.Background(), "Alice", tt.text), tt.exp)
		})
	}
}

type fixedPopulation map[int][]ecology.ResourceStatus

func (p fixedPopulation) Resources(region int) []ecology.ResourceStatus { return p[region] }

func TestHandler_FaunaResources(t *testing.T) {
	w := gametest.World(t)
	gametest.Player(t, w, "Alice", gametest.Clearing)
	gametest.Spawn(t, w, gametest.Rat, gametest.Ridge)
	h := NewHandler(w, WithPopulation(fixedPopulation{
		1: {{Name: "giant rat", Count: 1, Minimum: 2, Optimal: 6}},
	}))

	testutil.AssertEqual(t, "fauna", h.Process(context.Background(), "Alice", "fauna"),
		"Region 1, threat level 1.\n  giant rat            1\nResources:\n  giant rat            1/6 (min 2) critical")
	testutil.AssertEqual(t, "other region", h.Process(context.Background(), "Alice", "fauna 2"),
		"Region 2, threat level 1.\nNothing stirs here.")
}

type fakeChronicle struct {
	deaths     []chronicle.Death
	apexes     map[int][]chronicle.ApexChange
	evolutions map[string]int
	err        error
}

func (c *fakeChronicle) Recent(_ context.Context, n int) ([]chronicle.Death, error) {
	return c.deaths[:min(n, len(c.deaths))], c.err
}

func (c *fakeChronicle) ApexHistory(_ context.Context, region int) ([]chronicle.ApexChange, error) {
	return c.apexes[region], c.err
}

func (c *fakeChronicle) Evolutions(_ context.Context, npcID string) (int, error) {
	return c.evolutions[npcID], c.err
}

func TestHandler_Legends(t *testing.T) {
	tests := map[string]struct {
		chronicle *fakeChronicle
		crown     bool
		args      string
		exp       string
	}{
		"no chronicle": {
			exp: "No one has kept a record of this world.",
		},
		"empty history": {
			chronicle: &fakeChronicle{},
			exp:       "Legends of region 1:\nNo apex has ever ruled here.",
		},
		"apexes and deaths of own region": {
			chronicle: &fakeChronicle{
				deaths: []chronicle.Death{
					{Room: gametest.Ridge, Victim: "giant rat", Killer: "grey wolf", Method: "bite"},
					{Room: gametest.Cave, Victim: "red deer", Killer: "grey wolf", Method: "bite"},
					{Room: gametest.Clearing, Victim: "Bob", Method: "starvation", Player: true},
				},
				apexes: map[int][]chronicle.ApexChange{
					1: {{Region: 1, Title: "giant rat", Threat: 2}, {Region: 1, Title: "grey wolf", Threat: 3}},
				},
				evolutions: map[string]int{},
			},
			crown: true,
			exp: "Legends of region 1:\n  giant rat (threat 2)\n  grey wolf (threat 3)\n" +
				"Reigning: grey wolf, evolved 2 times.\nRecent deaths:\n" +
				"  giant rat, slain by grey wolf (bite)\n  Bob died (starvation)",
		},
		"other region": {
			chronicle: &fakeChronicle{
				deaths: []chronicle.Death{{Room: gametest.Cave, Victim: "red deer", Killer: "grey wolf", Method: "bite"}},
			},
			args: " 2",
			exp:  "Legends of region 2:\nNo apex has ever ruled here.\nRecent deaths:\n  red deer, slain by grey wolf (bite)",
		},
		"bad region": {
			chronicle: &fakeChronicle{},
			args:      " east",
			exp:       `"east" is not a valid number.`,
		},
		"chronicle failure": {
			chronicle: &fakeChronicle{err: errors.New("disk gone")},
			exp:       NothingHappens,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			w := gametest.World(t)
			gametest.Player(t, w, "Alice", gametest.Clearing)

			var opts []HandlerOpt
			if tt.chronicle != nil {
				opts = append(opts, WithChronicle(tt.chronicle))
			}
			if tt.crown {
				wolf := gametest.Spawn(t, w, gametest.Wolf, gametest.Ridge)
				w.SetZoneApex(ctx, 1, wolf)
				tt.chronicle.evolutions[wolf.ID] = 2
			}
			h := NewHandler(w, opts...)

			testutil.AssertEqual(t, "output", h.Process(ctx, "Alice", "legends"+tt.args), tt.exp)
		})
	}
}

func TestHandler_Remort(t *testing.T) {
	tests := map[string]struct {
		maxLevel bool
		cmd      string
		exp      []string
	}{
		"below max level": {
			cmd: "remort mage",
			exp: []string{"You must reach level 100 before you can remort."},
		},
		"unknown class": {
			maxLevel: true,
			cmd:      "remort bard",
			exp:      []string{"There is no bard class.", "iron_vanguard"},
		},
		"reborn": {
			maxLevel: true,
			cmd:      "remort Iron_Vanguard",
			exp:      []string{"You are reborn as a level 1 Iron Vanguard. Remorts: 1."},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			w := gametest.World(t)
			alice := gametest.Player(t, w, "Alice", gametest.Clearing)
			if tt.maxLevel {
				alice.AwardXP(1 << 40)
			}
			h := NewHandler(w)

			out := h.Process(context.Background(), "Alice", tt.cmd)
			for _, exp := range tt.exp {
				if !strings.Contains(out, exp) {
					t.Errorf("output %q missing %q", out, exp)
				}
			}
		})
	}
}

func TestHandler_RemortShowsInScore(t *testing.T) {
	w := gametest.World(t)
	alice := gametest.Player(t, w, "Alice", gametest.Clearing)
	alice.AwardXP(1 << 40)
	testutil.AssertEqual(t, "level", alice.Level(), game.MaxLevel)
	h := NewHandler(w)

	h.Process(context.Background(), "Alice", "remort cleric")
	testutil.AssertEqual(t, "level", alice.Level(), 1)
	testutil.AssertEqual(t, "class", alice.Class(), "cleric")
	if out := h.Process(context.Background(), "Alice", "score"); !strings.Contains(out, "Remorts: 1") {
		t.Errorf("score missing remorts: %q", out)
	}
}

func TestHandler_HelpListsCommands(t *testing.T) {
	w := gametest.World(t)
	gametest.Player(t, w, "Alice", gametest.Clearing)
	h := NewHandler(w)

	out := h.Process(context.Background(), "Alice", "help")
	for _, cmd := range []string{"look", "kill <target>", "fauna [region]", "north"} {
		if !strings.Contains(out, cmd) {
			t.Errorf("help output missing %q", cmd)
		}
	}
}

func TestHandler_Ecology(t *testing.T) {
	w := gametest.World(t)
	gametest.Player(t, w, "Alice", gametest.Clearing)
	wolf := gametest.Spawn(t, w, gametest.Wolf, gametest.Ridge)
	wolf.AddTitle("the Skewer")
	wolf.RecordKill()
	h := NewHandler(w)

	testutil.AssertEqual(t, "fauna", h.Process(context.Background(), "Alice", "fauna"),
		"Region 1, threat level 1.\n  grey wolf            1")
	testutil.AssertEqual(t, "bad region", h.Process(context.Background(), "Alice", "fauna east"),
		`"east" is not a valid number.`)
	testutil.AssertEqual(t, "track", h.Process(context.Background(), "Alice", "track wolf"),
		"grey wolf, the Skewer near A Windy Ridge (kills: 1)")
	testutil.AssertEqual(t, "no trace", h.Process(context.Background(), "Alice", "track dragon"),
		"You find no trace of dragon.")
}
