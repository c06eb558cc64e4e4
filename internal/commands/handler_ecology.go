package commands

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/pixil98/go-aeternus/internal/ecology"
)

const (
	// trackLimit caps how many creatures track reports.
	trackLimit = 5

	legendDeaths = 5
	// deathScan is how far back legends looks for deaths in a region.
	deathScan = 50
)

// regionArg is the region named by the optional "region" input, defaulting to
// the actor's own.
func regionArg(in *Input) (int, error) {
	raw := in.Arg("region")
	if raw == "" {
		return in.Actor.Location().Region(), nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, NewUserErrorf("%q is not a valid number.", raw)
	}
	return n, nil
}

func (h *Handler) fauna(ctx context.Context, in *Input) (string, error) {
	region, err := regionArg(in)
	if err != nil {
		return "", err
	}
	report := ecology.Report(h.world, region)
	if h.population != nil {
		report.Resources = h.population.Resources(region)
	}
	return report.String(), nil
}

func (h *Handler) track(ctx context.Context, in *Input) (string, error) {
	species := in.Arg("creature")
	found := ecology.Track(h.world, species)
	if len(found) == 0 {
		return "", NewUserErrorf("You find no trace of %s.", species)
	}

	var lines []string
	for _, n := range found[:min(len(found), trackLimit)] {
		where := "somewhere unknown"
		if r := h.world.Room(n.Location()); r != nil {
			where = r.Title
		}
		lines = append(lines, fmt.Sprintf("%s near %s (kills: %d)", n.FullName(), where, n.Progression().Kills))
	}
	return strings.Join(lines, "\n"), nil
}

func (h *Handler) legends(ctx context.Context, in *Input) (string, error) {
	if h.chronicle == nil {
		return "No one has kept a record of this world.", nil
	}
	region, err := regionArg(in)
	if err != nil {
		return "", err
	}

	apexes, err := h.chronicle.ApexHistory(ctx, region)
	if err != nil {
		return "", fmt.Errorf("reading apex history: %w", err)
	}
	deaths, err := h.chronicle.Recent(ctx, deathScan)
	if err != nil {
		return "", fmt.Errorf("reading deaths: %w", err)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Legends of region %d:", region)
	if len(apexes) == 0 {
		sb.WriteString("\nNo apex has ever ruled here.")
	}
	for _, a := range apexes {
		fmt.Fprintf(&sb, "\n  %s (threat %d)", a.Title, a.Threat)
	}

	if apex := h.world.ZoneApex(region); apex != nil {
		n, err := h.chronicle.Evolutions(ctx, apex.ID)
		if err != nil {
			return "", fmt.Errorf("counting evolutions: %w", err)
		}
		fmt.Fprintf(&sb, "\nReigning: %s, evolved %d times.", apex.FullName(), n)
	}

	shown := 0
	for _, d := range deaths {
		if shown == legendDeaths {
			break
		}
		if d.Room.Region() != region {
			continue
		}
		if shown == 0 {
			sb.WriteString("\nRecent deaths:")
		}
		shown++
		if d.Killer == "" {
			fmt.Fprintf(&sb, "\n  %s died (%s)", d.Victim, d.Method)
			continue
		}
		fmt.Fprintf(&sb, "\n  %s, slain by %s (%s)", d.Victim, d.Killer, d.Method)
	}
	return sb.String(), nil
}
