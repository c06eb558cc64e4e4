package ecology

import (
	"context"
	"log/slog"

	"github.com/pixil98/go-aeternus/internal/chronicle"
	"github.com/pixil98/go-aeternus/internal/clock"
	"github.com/pixil98/go-aeternus/internal/combat"
	"github.com/pixil98/go-aeternus/internal/game"
	"github.com/pixil98/go-aeternus/internal/vnum"
)

// EcosystemMethod is the death method recorded for NPCs killed by other NPCs.
const EcosystemMethod = "ecosystem"

// CombatChecker reports whether a combatant is locked in player combat.
type CombatChecker interface {
	InCombat(id string) bool
}

// Ecosystem resolves fights between NPCs sharing a room.
type Ecosystem struct {
	engine
}

func NewEcosystem(world *game.World, opts ...Opt) *Ecosystem {
	return &Ecosystem{engine: newEngine(world, opts)}
}

// Tick runs one round of predation in every room.
func (e *Ecosystem) Tick(ctx context.Context, _ clock.Date) error {
	for _, room := range e.world.RoomIDs() {
		e.tickRoom(ctx, room)
	}
	return nil
}

func (e *Ecosystem) tickRoom(ctx context.Context, room vnum.VNum) {
	var predators, prey []*game.NPC
	for _, n := range e.world.RoomNPCs(room) {
		if !n.IsAlive() {
			continue
		}
		if e.combat != nil && e.combat.InCombat(combat.NPCID(n.ID)) {
			continue
		}
		if isPredator(n) {
			predators = append(predators, n)
		} else {
			prey = append(prey, n)
		}
	}

	if len(predators) == 0 {
		return
	}

	region := room.Region()
	apex := e.world.ZoneApex(region)

	if apex != nil {
		for _, p := range predators {
			if p != apex && p.Template.Name == apex.Template.Name && apex.Location() == room {
				e.fight(ctx, room, p, apex)
				return
			}
		}
	}

	switch {
	case len(prey) > 0:
		hunter := predators[e.rng.IntN(len(predators))]
		target := prey[e.rng.IntN(len(prey))]
		e.fight(ctx, room, hunter, target)
	case len(predators) > 1:
		i := e.rng.IntN(len(predators))
		j := e.rng.IntN(len(predators) - 1)
		if j >= i {
			j++
		}
		e.fight(ctx, room, predators[i], predators[j])
	}
}

func isPredator(n *game.NPC) bool {
	return n.HasFlag(game.NPCPredator) || n.HasFlag(game.NPCAggressive)
}

// power is an NPC's maximum health scaled by a random factor in [0.8, 1.2).
func (e *Ecosystem) power(n *game.NPC) float64 {
	_, maxHP := n.Health()
	return float64(maxHP) * (0.8 + 0.4*e.rng.Float64())
}

// fight resolves attacker against defender. Ties go to the defender.
func (e *Ecosystem) fight(ctx context.Context, room vnum.VNum, attacker, defender *game.NPC) {
	winner, loser := defender, attacker
	if e.power(attacker) > e.power(defender) {
		winner, loser = attacker, defender
	}

	if !e.world.KillNPC(ctx, loser.ID) {
		return
	}
	slog.DebugContext(ctx, "ecosystem kill", "room", room, "winner", winner.Name(), "loser", loser.Name())
	e.journal.RecordDeath(chronicle.Death{
		Room:   room,
		Victim: loser.Name(),
		Killer: winner.Name(),
		Method: EcosystemMethod,
		At:     e.now(),
	})

	_, loserMax := loser.Health()
	winner.Heal(int(float64(loserMax) * 0.5))

	kills := winner.RecordKill()
	e.maybeEvolve(ctx, winner, kills)

	if kills > e.cfg.ApexKills && !winner.HasFlag(game.NPCApex) {
		e.crown(ctx, room.Region(), winner)
	}
}
