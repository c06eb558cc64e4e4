package ecology

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/pixil98/go-aeternus/internal/chronicle"
	"github.com/pixil98/go-aeternus/internal/clock"
	"github.com/pixil98/go-aeternus/internal/combat"
	"github.com/pixil98/go-aeternus/internal/game"
	"github.com/pixil98/go-aeternus/internal/tuning"
)

const (
	// ApexTitle is granted to an NPC crowned as its region's apex.
	ApexTitle = "the Apex of the Region"

	// contestKills is the number of kills an NPC needs before it challenges
	// its region's apex.
	contestKills = 5
)

var titlesByDamage = map[game.DamageType][]string{
	game.DamageSlash:  {"the Cutter", "the Butcher", "Red Blade"},
	game.DamageBlunt:  {"the Bonebreaker", "the Crusher", "Meat Hammer"},
	game.DamagePierce: {"the Piercer", "the Skewer", "Needle Eye"},
	game.DamageMagic:  {"the Arcane", "the Soul Eater", "Black Flame"},
	game.DamagePoison: {"the Venomous", "Rot Tongue", "the Plague Touched"},
}

var defaultTitles = []string{"the Slayer"}

type Opt func(*engine)

type engine struct {
	world   *game.World
	rng     combat.Rand
	cfg     tuning.Ecology
	journal Journal
	combat  CombatChecker
	now     func() time.Time
}

func newEngine(world *game.World, opts []Opt) engine {
	e := engine{
		world:   world,
		rng:     combat.DefaultRand,
		cfg:     tuning.Default().Ecology,
		journal: nopJournal{},
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(&e)
	}
	return e
}

func WithRand(r combat.Rand) Opt {
	return func(e *engine) {
		e.rng = r
	}
}

func WithTuning(cfg tuning.Ecology) Opt {
	return func(e *engine) {
		e.cfg = cfg
	}
}

func WithJournal(j Journal) Opt {
	return func(e *engine) {
		if j != nil {
			e.journal = j
		}
	}
}

// WithCombat skips NPCs that are fighting players.
func WithCombat(c CombatChecker) Opt {
	return func(e *engine) {
		e.combat = c
	}
}

// Nemesis lets NPCs that kill players grow into named threats.
type Nemesis struct {
	engine
}

func NewNemesis(world *game.World, opts ...Opt) *Nemesis {
	return &Nemesis{engine: newEngine(world, opts)}
}

// OnDeath picks out players slain by NPCs in combat.
func (n *Nemesis) OnDeath(ctx context.Context, ev combat.DeathEvent) {
	victim, ok := ev.Victim.(*combat.PlayerFighter)
	if !ok {
		return
	}
	killer, ok := ev.Killer.(*combat.NPCFighter)
	if !ok {
		return
	}
	n.RegisterPlayerDeath(ctx, killer.NPC, victim.Character, ev.Method)
}

// RegisterPlayerDeath records victim in the killer's history, may award a
// title and may evolve the killer.
func (n *Nemesis) RegisterPlayerDeath(ctx context.Context, killer *game.NPC, victim *game.Character, method game.DamageType) {
	kills := killer.RecordPlayerKill(game.KillRecord{
		Victim: victim.Name(),
		Level:  victim.Level(),
		Method: method,
		At:     n.now(),
	})
	slog.InfoContext(ctx, "npc slew a player", "npc", killer.Name(), "player", victim.Name(), "kills", kills)

	if len(killer.Progression().Titles) < n.cfg.MaxTitles {
		title := n.title(method, victim.Name())
		if killer.AddTitle(title) {
			slog.InfoContext(ctx, "npc earned a title", "npc", killer.Name(), "title", title)
		}
	}

	n.maybeEvolve(ctx, killer, kills)
}

func (n *Nemesis) title(method game.DamageType, victim string) string {
	if n.rng.Float64() < n.cfg.TitleChance {
		return fmt.Sprintf("the Nightmare of %s", victim)
	}
	options, ok := titlesByDamage[method]
	if !ok {
		options = defaultTitles
	}
	return options[n.rng.IntN(len(options))]
}

// Tick lets proven killers challenge their region's apex.
func (n *Nemesis) Tick(ctx context.Context, _ clock.Date) error {
	best := make(map[int]*game.NPC)
	for _, npc := range n.world.NPCs() {
		if !npc.IsAlive() || npc.HasFlag(game.NPCApex) {
			continue
		}
		kills := npc.Progression().Kills
		if kills < contestKills {
			continue
		}
		region := npc.Location().Region()
		if cur := best[region]; cur == nil || kills > cur.Progression().Kills {
			best[region] = npc
		}
	}

	for region, challenger := range best {
		apex := n.world.ZoneApex(region)
		if apex != nil && apex.Progression().Kills >= challenger.Progression().Kills {
			continue
		}
		n.crown(ctx, region, challenger)
	}
	return nil
}

// maybeEvolve evolves npc when kills hits one of the thresholds.
func (e *engine) maybeEvolve(ctx context.Context, npc *game.NPC, kills int) {
	if !slices.Contains(e.cfg.EvolutionThresholds, kills) {
		return
	}

	stage, oldMax, newMax := npc.Evolve(e.cfg.EvolutionHPFactor)
	slog.InfoContext(ctx, "npc evolved", "npc", npc.Name(), "stage", stage, "old_max_hp", oldMax, "new_max_hp", newMax)
	e.journal.RecordEvolution(chronicle.Evolution{
		NPCID:    npc.ID,
		Name:     npc.Name(),
		Stage:    stage,
		OldMaxHP: oldMax,
		NewMaxHP: newMax,
		At:       e.now(),
	})
}

func (e *engine) crown(ctx context.Context, region int, npc *game.NPC) {
	npc.AddTitle(ApexTitle)
	e.world.SetZoneApex(ctx, region, npc)

	z, _ := e.world.Zone(region)
	e.journal.RecordApex(chronicle.ApexChange{
		Region: region,
		NPCID:  npc.ID,
		Title:  z.ApexTitle,
		Threat: z.ThreatLevel,
		At:     e.now(),
	})
}
