package ecology

import (
	"fmt"
	"slices"
	"strings"

	"github.com/pixil98/go-aeternus/internal/game"
)

// ZoneReport describes the wildlife of one region.
type ZoneReport struct {
	Region      int
	ThreatLevel int
	Apex        string
	Species     map[string]int
	Resources   []ResourceStatus
}

// Report summarises the living NPCs of region.
func Report(w *game.World, region int) ZoneReport {
	r := ZoneReport{Region: region, ThreatLevel: 1, Species: map[string]int{}}
	if z, ok := w.Zone(region); ok {
		r.ThreatLevel = z.ThreatLevel
		r.Apex = z.ApexTitle
	}
	for _, n := range w.NPCs() {
		if n.IsAlive() && n.Location().Region() == region {
			r.Species[n.Name()]++
		}
	}
	return r
}

func (r ZoneReport) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Region %d, threat level %d.\n", r.Region, r.ThreatLevel)
	if r.Apex != "" {
		fmt.Fprintf(&sb, "Apex: %s\n", r.Apex)
	}
	if len(r.Species) == 0 {
		sb.WriteString("Nothing stirs here.")
	}

	names := make([]string, 0, len(r.Species))
	for name := range r.Species {
		names = append(names, name)
	}
	slices.Sort(names)
	for i, name := range names {
		if i > 0 {
			sb.WriteString("\n")
		}
		fmt.Fprintf(&sb, "  %-20s %d", name, r.Species[name])
	}

	if len(r.Resources) > 0 {
		sb.WriteString("\nResources:")
		for _, res := range r.Resources {
			fmt.Fprintf(&sb, "\n  %-20s %d/%d (min %d) %s", res.Name, res.Count, res.Optimal, res.Minimum, res.Status())
		}
	}
	return sb.String()
}

// Track returns the living NPCs whose name matches species, ordered by kills.
func Track(w *game.World, species string) []*game.NPC {
	var out []*game.NPC
	for _, n := range w.NPCs() {
		if n.IsAlive() && n.Template.MatchName(species) {
			out = append(out, n)
		}
	}
	slices.SortStableFunc(out, func(a, b *game.NPC) int {
		return b.Progression().Kills - a.Progression().Kills
	})
	return out
}
