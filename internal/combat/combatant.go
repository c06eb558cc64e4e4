package combat

import (
	"log/slog"
	"strings"

	"github.com/pixil98/go-aeternus/internal/game"
	"github.com/pixil98/go-aeternus/internal/vnum"
)

const (
	playerPrefix = "player:"
	npcPrefix    = "npc:"
)

// Combatant is anything that can take part in a fight.
type Combatant interface {
	CombatID() string
	Name() string
	Level() int
	Location() vnum.VNum
	IsAlive() bool
	Health() (current, maximum int)
	Attribute(game.Attribute) int
	BodyParts() game.Anatomy
	ApplyDamage(partID string, amount int) game.BodyPart
	SeverPart(partID string)

	// Attack picks what the combatant hits with this round.
	Attack(r Rand) Attack
	// AwardXP credits experience for a deed against a target of targetLevel.
	AwardXP(source game.XPSource, amount, targetLevel int)
}

// PlayerID is the combat id of a character.
func PlayerID(charID string) string { return playerPrefix + charID }

// NPCID is the combat id of an NPC instance.
func NPCID(npcID string) string { return npcPrefix + npcID }

// PlayerFighter adapts a Character for combat.
type PlayerFighter struct {
	*game.Character
	world *game.World
}

func (f *PlayerFighter) CombatID() string { return PlayerID(f.ID) }

func (f *PlayerFighter) Attack(Rand) Attack {
	w := f.world.Weapon(f.ID)
	if w == nil || w.Template == nil || w.Template.Damage == nil {
		return BareHands
	}
	return weaponAttack(w.Template)
}

func (f *PlayerFighter) AwardXP(source game.XPSource, amount, targetLevel int) {
	gain := game.XPGain(f.Class(), f.Level(), source, amount, targetLevel)
	for _, lvl := range f.Character.AwardXP(gain) {
		slog.Info("level up", "player", f.Name(), "level", lvl)
	}
}

// NPCFighter adapts an NPC instance for combat.
type NPCFighter struct {
	*game.NPC
}

func (f *NPCFighter) CombatID() string { return NPCID(f.ID) }

func (f *NPCFighter) Attack(r Rand) Attack {
	if f.Template == nil || len(f.Template.NaturalAttacks) == 0 {
		return BareHands
	}

	nat := f.Template.NaturalAttacks[0]
	if len(f.Template.NaturalAttacks) > 1 {
		nat = pick(r, f.Template.NaturalAttacks)
	}
	return naturalAttack(nat, f.Level())
}

func (f *NPCFighter) AwardXP(game.XPSource, int, int) {}

// lookup resolves a combat id against the world. It returns nil when the
// entity no longer exists.
func lookup(w *game.World, id string) Combatant {
	switch {
	case strings.HasPrefix(id, playerPrefix):
		if c := w.Player(strings.TrimPrefix(id, playerPrefix)); c != nil {
			return &PlayerFighter{Character: c, world: w}
		}
	case strings.HasPrefix(id, npcPrefix):
		if n := w.NPC(strings.TrimPrefix(id, npcPrefix)); n != nil {
			return &NPCFighter{NPC: n}
		}
	}
	return nil
}
