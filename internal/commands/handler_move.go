package commands

import (
	"context"
	"log/slog"

	"github.com/pixil98/go-aeternus/internal/game"
)

func (h *Handler) goDirection(ctx context.Context, in *Input) (string, error) {
	d, ok := game.ParseDirection(in.Arg("direction"))
	if !ok {
		return "", NewUserErrorf("%q is not a direction.", in.Arg("direction"))
	}
	return h.move(ctx, in.Actor, d)
}

func (h *Handler) move(ctx context.Context, actor *game.Character, d game.Direction) (string, error) {
	room := h.world.Room(actor.Location())
	if room == nil {
		return "", NewUserError("You are floating in the void.")
	}

	exit, ok := room.Exit(d)
	if !ok || exit.Hidden {
		return "", NewUserError("You can't go that way.")
	}
	if exit.Locked {
		return "", NewUserError("The way is locked.")
	}

	if !h.world.MoveCharacter(actor.ID, exit.To) {
		slog.WarnContext(ctx, "exit leads nowhere", "room", room.ID(), "direction", d, "to", exit.To)
		return "", NewUserError("Something blocks your path.")
	}
	return h.describeRoom(actor)
}
