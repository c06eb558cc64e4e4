package ecology

import (
	"context"
	"log/slog"

	"github.com/pixil98/go-aeternus/internal/clock"
	"github.com/pixil98/go-aeternus/internal/game"
	"github.com/pixil98/go-aeternus/internal/vnum"
)

// ResourceStatus is the head count of one resource species against its
// configured range.
type ResourceStatus struct {
	Name    string
	Count   int
	Minimum int
	Optimal int
}

func (s ResourceStatus) Status() string {
	switch {
	case s.Count >= s.Optimal:
		return "thriving"
	case s.Count >= s.Minimum:
		return "scarce"
	default:
		return "critical"
	}
}

// Population respawns resource species toward their optimal head count so
// predation never drives them extinct.
type Population struct {
	engine
	ticks int
}

func NewPopulation(world *game.World, opts ...Opt) *Population {
	return &Population{engine: newEngine(world, opts)}
}

// Tick runs a respawn cycle every RespawnEvery slow ticks.
func (p *Population) Tick(ctx context.Context, _ clock.Date) error {
	p.ticks++
	if p.ticks%max(1, p.cfg.RespawnEvery) != 0 {
		return nil
	}
	p.Replenish(ctx)
	return nil
}

// Replenish spawns half the deficit (at least one) of every resource species
// below its optimum, in random rooms of its region. It returns how many NPCs
// were spawned.
func (p *Population) Replenish(ctx context.Context) int {
	rooms := roomsByRegion(p.world)

	total := 0
	for _, res := range p.cfg.Resources {
		tmpl := vnum.VNum(res.NPC)
		if p.world.Catalog().NPCTemplate(tmpl) == nil {
			slog.DebugContext(ctx, "resource species has no template", "npc", tmpl)
			continue
		}
		candidates := rooms[res.Region]
		if len(candidates) == 0 {
			continue
		}

		count := countSpecies(p.world, res.Region, tmpl)
		if count >= res.Optimal {
			continue
		}

		spawned := 0
		for range max(1, (res.Optimal-count)/2) {
			room := candidates[p.rng.IntN(len(candidates))]
			if _, err := p.world.SpawnNPC(ctx, tmpl, room); err != nil {
				slog.ErrorContext(ctx, "respawning resource", "npc", tmpl, "room", room, "error", err)
				break
			}
			spawned++
		}
		if spawned > 0 {
			slog.InfoContext(ctx, "species replenished",
				"npc", tmpl, "region", res.Region, "from", count, "to", count+spawned)
		}
		total += spawned
	}
	return total
}

// Resources reports every resource species of region.
func (p *Population) Resources(region int) []ResourceStatus {
	var out []ResourceStatus
	for _, res := range p.cfg.Resources {
		if res.Region != region {
			continue
		}
		tmpl := vnum.VNum(res.NPC)
		t := p.world.Catalog().NPCTemplate(tmpl)
		if t == nil {
			continue
		}
		out = append(out, ResourceStatus{
			Name:    t.Name,
			Count:   countSpecies(p.world, region, tmpl),
			Minimum: res.Minimum,
			Optimal: res.Optimal,
		})
	}
	return out
}

func roomsByRegion(w *game.World) map[int][]vnum.VNum {
	out := map[int][]vnum.VNum{}
	for _, id := range w.RoomIDs() {
		out[id.Region()] = append(out[id.Region()], id)
	}
	return out
}

func countSpecies(w *game.World, region int, tmpl vnum.VNum) int {
	n := 0
	for _, npc := range w.NPCs() {
		if npc.IsAlive() && npc.TemplateID == tmpl && npc.Location().Region() == region {
			n++
		}
	}
	return n
}
