package commands

import (
	"context"
	"fmt"
	"slices"

	"github.com/pixil98/go-aeternus/internal/combat"
	"github.com/pixil98/go-aeternus/internal/game"
)

// sensePerception is the perception needed to notice a room's smells and
// sounds.
const sensePerception = 12

type sense struct {
	Sense string
	Text  string
}

type roomView struct {
	Title       string
	Description string
	Senses      []sense
	Exits       []string
	NPCs        []string
	Items       []string
	Players     []string
}

func (h *Handler) look(ctx context.Context, in *Input) (string, error) {
	if target := in.Arg("target"); target != "" {
		return h.lookAt(in.Actor, target)
	}
	return h.describeRoom(in.Actor)
}

func (h *Handler) describeRoom(actor *game.Character) (string, error) {
	loc := actor.Location()
	room := h.world.Room(loc)
	if room == nil {
		return "", NewUserError("You are floating in the void.")
	}

	v := roomView{
		Title:       room.Title,
		Description: room.Description(h.daytime()),
	}

	if actor.Attribute(game.Perception) >= sensePerception {
		keys := make([]string, 0, len(room.Sensory))
		for k := range room.Sensory {
			keys = append(keys, k)
		}
		slices.Sort(keys)
		for _, k := range keys {
			v.Senses = append(v.Senses, sense{Sense: k, Text: room.Sensory[k]})
		}
	}

	for _, d := range game.Directions {
		if e, ok := room.Exit(d); ok && !e.Hidden {
			v.Exits = append(v.Exits, string(d))
		}
	}

	for _, n := range h.world.RoomNPCs(loc) {
		if !n.IsAlive() {
			continue
		}
		status := ""
		if n.HasFlag(game.NPCApex) {
			status += " [APEX]"
		}
		if hp, maxHP := n.Health(); hp < maxHP {
			status += " (wounded)"
		}
		v.NPCs = append(v.NPCs, n.FullName()+status)
	}
	for _, it := range h.world.RoomItems(loc) {
		v.Items = append(v.Items, it.Name())
	}
	for _, c := range h.world.RoomPlayers(loc) {
		if c.ID != actor.ID {
			v.Players = append(v.Players, c.Name())
		}
	}

	return render("look", v)
}

func (h *Handler) lookAt(actor *game.Character, target string) (string, error) {
	loc := actor.Location()

	if n := h.findNPC(loc, target); n != nil {
		hp, maxHP := n.Health()
		out := fmt.Sprintf("%s, level %d. %s", n.FullName(), n.Level(), condition(hp, maxHP))
		if h.combat != nil && h.combat.InCombat(combat.NPCID(n.ID)) {
			out += "\nIt is fighting!"
		}
		return out, nil
	}
	if c := h.findPlayer(loc, target, actor.ID); c != nil {
		hp, maxHP := c.Health()
		return fmt.Sprintf("%s, level %d. %s", c.Name(), c.Level(), condition(hp, maxHP)), nil
	}
	if it := findItem(append(h.world.RoomItems(loc), h.carried(actor.ID)...), target); it != nil {
		return describeItem(it), nil
	}
	return "", NewUserErrorf("You do not see %s here.", target)
}

func describeItem(it *game.ItemInstance) string {
	out := fmt.Sprintf("%s (%s).", it.Name(), it.Template.Type)
	if d := it.Template.Damage; d != nil {
		out += fmt.Sprintf(" It deals %d-%d %s damage.", d.Min, d.Max, d.Type)
	}
	return out
}

func condition(hp, maxHP int) string {
	if maxHP <= 0 {
		return "It is in perfect health."
	}
	switch pct := hp * 100 / maxHP; {
	case pct >= 100:
		return "It is in perfect health."
	case pct >= 75:
		return "It has a few scratches."
	case pct >= 40:
		return "It is wounded."
	case pct > 0:
		return "It is bleeding heavily."
	}
	return "It is dead."
}

func (h *Handler) daytime() bool {
	if h.calendar == nil {
		return true
	}
	return h.calendar.Date().IsDaytime()
}
