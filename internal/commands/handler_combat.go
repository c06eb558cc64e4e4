package commands

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/pixil98/go-aeternus/internal/combat"
)

func (h *Handler) kill(ctx context.Context, in *Input) (string, error) {
	if h.combat == nil {
		return "", NewUserError("You feel oddly peaceful.")
	}

	name := in.Arg("target")
	loc := in.Actor.Location()
	attacker := combat.PlayerID(in.Actor.ID)

	var defender, defenderName string
	if n := h.findNPC(loc, name); n != nil {
		defender, defenderName = combat.NPCID(n.ID), n.FullName()
	} else if c := h.findPlayer(loc, name, in.Actor.ID); c != nil {
		defender, defenderName = combat.PlayerID(c.ID), c.Name()
	} else if strings.EqualFold(name, in.Actor.Name()) || strings.EqualFold(name, "self") {
		return "", NewUserError("Suicide is not the answer.")
	} else {
		return "", NewUserErrorf("You do not see %s here.", name)
	}

	err := h.combat.Start(ctx, attacker, defender)
	switch {
	case errors.Is(err, combat.ErrAlreadyDead):
		return "", NewUserErrorf("%s is beyond your reach.", defenderName)
	case errors.Is(err, combat.ErrNotTogether), errors.Is(err, combat.ErrUnknownCombatant):
		return "", NewUserErrorf("You do not see %s here.", name)
	case err != nil:
		return "", fmt.Errorf("starting combat: %w", err)
	}
	return fmt.Sprintf("You attack %s!", defenderName), nil
}

func (h *Handler) combatLog(ctx context.Context, in *Input) (string, error) {
	if h.combat == nil {
		return "There is no fight here.", nil
	}
	lines := h.combat.RoundLog(in.Actor.Location())
	if len(lines) == 0 {
		return "There is no fight here.", nil
	}
	return strings.Join(lines, "\n"), nil
}
