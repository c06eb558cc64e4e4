package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/pixil98/go-aeternus/internal/game"
)

func (h *Handler) get(ctx context.Context, in *Input) (string, error) {
	name := in.Arg("item")
	it := findItem(h.world.RoomItems(in.Actor.Location()), name)
	if it == nil {
		return "", NewUserErrorf("You do not see %s here.", name)
	}

	err := h.world.PickUpItem(in.Actor.ID, it.ID)
	switch {
	case errors.Is(err, game.ErrCannotTake):
		return "", NewUserErrorf("You can't take %s.", it.Name())
	case errors.Is(err, game.ErrItemNotHere):
		return "", NewUserErrorf("You do not see %s here.", name)
	case err != nil:
		return "", fmt.Errorf("picking up %s: %w", it.ID, err)
	}
	return fmt.Sprintf("You pick up %s.", it.Name()), nil
}

func (h *Handler) drop(ctx context.Context, in *Input) (string, error) {
	name := in.Arg("item")
	it := findItem(h.carried(in.Actor.ID), name)
	if it == nil {
		return "", NewUserErrorf("You are not carrying %s.", name)
	}

	if err := h.world.DropItem(in.Actor.ID, it.ID); err != nil {
		return "", fmt.Errorf("dropping %s: %w", it.ID, err)
	}
	return fmt.Sprintf("You drop %s.", it.Name()), nil
}

func (h *Handler) wield(ctx context.Context, in *Input) (string, error) {
	name := in.Arg("item")
	it := findItem(h.world.Inventory(in.Actor.ID), name)
	if it == nil {
		if w := h.world.Weapon(in.Actor.ID); w != nil && w.Template.MatchName(name) {
			return "", NewUserErrorf("You are already wielding %s.", w.Name())
		}
		return "", NewUserErrorf("You are not carrying %s.", name)
	}

	_, err := h.world.EquipItem(in.Actor.ID, it.ID)
	switch {
	case errors.Is(err, game.ErrCannotEquip):
		return "", NewUserErrorf("You can't wield %s.", it.Name())
	case err != nil:
		return "", fmt.Errorf("equipping %s: %w", it.ID, err)
	}
	return fmt.Sprintf("You wield %s.", it.Name()), nil
}

type inventoryView struct {
	Wielded string
	Items   []string
}

func (h *Handler) inventory(ctx context.Context, in *Input) (string, error) {
	var v inventoryView
	if w := h.world.Weapon(in.Actor.ID); w != nil {
		v.Wielded = w.Name()
	}
	for _, it := range h.world.Inventory(in.Actor.ID) {
		v.Items = append(v.Items, it.Name())
	}
	return render("inventory", v)
}
