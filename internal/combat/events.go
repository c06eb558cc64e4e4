package combat

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/pixil98/go-aeternus/internal/game"
	"github.com/pixil98/go-aeternus/internal/vnum"
)

// DeathEvent describes a combatant slain in a fight.
type DeathEvent struct {
	Room   vnum.VNum
	Victim Combatant
	Killer Combatant
	Method game.DamageType
	At     time.Time
}

// Observer is told about every combat death after the victim has been
// taken out of its session and before the world forgets it. Observers run
// inside the combat round and must not call back into the Manager.
type Observer interface {
	OnDeath(ctx context.Context, ev DeathEvent)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(ctx context.Context, ev DeathEvent)

func (f ObserverFunc) OnDeath(ctx context.Context, ev DeathEvent) { f(ctx, ev) }

// Catalyst returns the catalyst dropped by a creature called name.
func Catalyst(name string) string {
	n := strings.ToLower(name)
	switch {
	case strings.Contains(n, "water"):
		return "water_sphere"
	case strings.Contains(n, "void"):
		return "void_dust"
	case strings.Contains(n, "summon"):
		return "summoning_core"
	default:
		return "salamander_tail"
	}
}

func (m *Manager) handleDeath(ctx context.Context, s *Session, d death) {
	victimID := d.victim.CombatID()
	if !slices.Contains(s.participants, victimID) {
		return
	}
	s.remove(victimID)

	m.pub.Broadcast(ctx, s.room, fmt.Sprintf("%s is DEAD!", d.victim.Name()))

	ev := DeathEvent{Room: s.room, Victim: d.victim, Killer: d.killer, Method: d.method, At: time.Now()}
	for _, o := range m.observers {
		o.OnDeath(ctx, ev)
	}

	switch v := d.victim.(type) {
	case *NPCFighter:
		m.onNPCDeath(ctx, s.room, v, d.killer)
	case *PlayerFighter:
		m.onPlayerDeath(ctx, s.room, v)
	}
}

func (m *Manager) onNPCDeath(ctx context.Context, room vnum.VNum, npc *NPCFighter, killer Combatant) {
	if pc, ok := killer.(*PlayerFighter); ok {
		pc.AwardXP(game.XPKill, 0, npc.Level())

		if m.rng.Float64() < m.cfg.CatalystChance {
			item := Catalyst(npc.Name())
			pc.GiveCatalyst(item, 1)
			slog.InfoContext(ctx, "catalyst dropped", "player", pc.Name(), "catalyst", item)
			m.pub.Broadcast(ctx, room, fmt.Sprintf("%s harvests a %s from the remains.", pc.Name(), strings.ReplaceAll(item, "_", " ")))
		}
	}

	if npc.Template != nil {
		for _, loot := range npc.Template.Loot {
			if m.rng.Float64() >= loot.Chance {
				continue
			}
			if _, err := m.world.SpawnItem(ctx, loot.Item, room); err != nil {
				slog.ErrorContext(ctx, "dropping loot", "npc", npc.Name(), "item", loot.Item, "error", err)
			}
		}
	}

	m.world.KillNPC(ctx, npc.ID)
}

func (m *Manager) onPlayerDeath(ctx context.Context, room vnum.VNum, pc *PlayerFighter) {
	pc.Revive(1)
	to := m.world.FallbackRoom()
	if !m.world.MoveCharacter(pc.ID, to) {
		slog.ErrorContext(ctx, "moving slain player", "player", pc.Name(), "room", to)
		return
	}
	slog.InfoContext(ctx, "player slain", "player", pc.Name(), "room", room, "respawn", to)
}
