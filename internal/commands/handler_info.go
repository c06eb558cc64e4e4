package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/pixil98/go-aeternus/internal/clock"
	"github.com/pixil98/go-aeternus/internal/display"
	"github.com/pixil98/go-aeternus/internal/game"
)

type scoreView struct {
	Name       string
	Class      string
	Level      int
	Experience int
	Remorts    int
	HP         game.Pool
	Mana       game.Pool
	Stamina    game.Pool
	Catalysts  map[string]int
}

func (h *Handler) score(ctx context.Context, in *Input) (string, error) {
	a := in.Actor
	hp, mana, stamina := a.Pools()
	return render("score", scoreView{
		Name:       a.Name(),
		Class:      display.Title(strings.ReplaceAll(a.Class(), "_", " ")),
		Level:      a.Level(),
		Experience: a.Experience(),
		Remorts:    a.Remorts(),
		HP:         hp,
		Mana:       mana,
		Stamina:    stamina,
		Catalysts:  a.Catalysts(),
	})
}

func (h *Handler) remort(ctx context.Context, in *Input) (string, error) {
	class := strings.ToLower(in.Arg("class"))
	err := in.Actor.Remort(class)
	switch {
	case errors.Is(err, game.ErrUnknownClass):
		return "", NewUserErrorf("There is no %s class. Choose from: %s.", class, strings.Join(game.Classes(), ", "))
	case errors.Is(err, game.ErrBelowMaxLevel):
		return "", NewUserErrorf("You must reach level %d before you can remort.", game.MaxLevel)
	case err != nil:
		return "", err
	}

	slog.InfoContext(ctx, "character remorted", "player", in.Actor.ID, "class", class, "remorts", in.Actor.Remorts())
	return fmt.Sprintf("You are reborn as a level 1 %s. Remorts: %d.",
		display.Title(strings.ReplaceAll(class, "_", " ")), in.Actor.Remorts()), nil
}

type timeView struct {
	Date    clock.Date
	Season  clock.Season
	Daytime bool
}

func (h *Handler) showTime(ctx context.Context, in *Input) (string, error) {
	if h.calendar == nil {
		return "Time has no meaning here.", nil
	}
	d := h.calendar.Date()
	return render("time", timeView{Date: d, Season: d.Season(), Daytime: d.IsDaytime()})
}

func (h *Handler) showWeather(ctx context.Context, in *Input) (string, error) {
	room := h.world.Room(in.Actor.Location())
	if room == nil || h.calendar == nil {
		return "You cannot see the sky.", nil
	}
	climate, ok := clock.ClimateOf(room.Flags)
	if !ok {
		climate = clock.ClimateTemperate
	}
	w := clock.WeatherFor(h.calendar.Date().Season(), climate)
	return fmt.Sprintf("%s\nTemperature: %s. Precipitation: %s.", w.Description, w.Temperature, w.Precipitation), nil
}

func (h *Handler) who(ctx context.Context, in *Input) (string, error) {
	players := h.world.Players()
	names := make([]string, 0, len(players))
	for _, c := range players {
		names = append(names, fmt.Sprintf("  [%3d] %s", c.Level(), c.Name()))
	}
	slices.Sort(names)
	return fmt.Sprintf("Players online: %d\n%s", len(names), strings.Join(names, "\n")), nil
}

func (h *Handler) help(ctx context.Context, in *Input) (string, error) {
	if name := in.Arg("command"); name != "" {
		cmd, ok := h.commands[strings.ToLower(name)]
		if !ok {
			return "", NewUserErrorf("There is no help for %s.", name)
		}
		out := fmt.Sprintf("%s\n  %s", cmd.Usage, cmd.Help)
		if len(cmd.Aliases) > 0 {
			out += fmt.Sprintf("\n  Aliases: %s", strings.Join(cmd.Aliases, ", "))
		}
		return out, nil
	}

	var sb strings.Builder
	sb.WriteString("Commands:")
	for _, cmd := range h.Commands() {
		fmt.Fprintf(&sb, "\n  %-18s %s", cmd.Usage, display.Capitalize(cmd.Help))
	}
	return sb.String(), nil
}
