package commands

import (
	"strings"

	"github.com/pixil98/go-aeternus/internal/game"
	"github.com/pixil98/go-aeternus/internal/vnum"
)

func (h *Handler) findNPC(room vnum.VNum, name string) *game.NPC {
	for _, n := range h.world.RoomNPCs(room) {
		if n.IsAlive() && n.Template.MatchName(name) {
			return n
		}
	}
	return nil
}

func (h *Handler) findPlayer(room vnum.VNum, name, exclude string) *game.Character {
	for _, c := range h.world.RoomPlayers(room) {
		if c.ID != exclude && strings.EqualFold(c.Name(), name) {
			return c
		}
	}
	return nil
}

func findItem(items []*game.ItemInstance, name string) *game.ItemInstance {
	for _, it := range items {
		if it.Template.MatchName(name) {
			return it
		}
	}
	return nil
}

// carried returns the actor's inventory followed by its equipment.
func (h *Handler) carried(charID string) []*game.ItemInstance {
	items := h.world.Inventory(charID)
	if w := h.world.Weapon(charID); w != nil {
		items = append(items, w)
	}
	return items
}
