package command

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/pixil98/go-aeternus/internal/game"
	"github.com/pixil98/go-aeternus/internal/vnum"
	"github.com/pixil98/go-errors"
)

// SeedSpawn places Count copies of an npc template when the world starts.
type SeedSpawn struct {
	NPC   vnum.VNum `json:"npc"`
	Room  vnum.VNum `json:"room"`
	Count int       `json:"count,omitempty"`
}

func (s *SeedSpawn) validate() error {
	el := errors.NewErrorList()

	if !s.NPC.Valid() || s.NPC == 0 {
		el.Add(fmt.Errorf("npc %d is not a valid vnum", s.NPC))
	}
	if !s.Room.Valid() || s.Room == 0 {
		el.Add(fmt.Errorf("room %d is not a valid vnum", s.Room))
	}
	if s.Count < 0 {
		el.Add(fmt.Errorf("count must not be negative"))
	}

	return el.Err()
}

// seed spawns the initial population. A bad entry is logged and skipped.
func seed(ctx context.Context, w *game.World, spawns []SeedSpawn) {
	total := 0
	for _, s := range spawns {
		n := max(s.Count, 1)
		for range n {
			if _, err := w.SpawnNPC(ctx, s.NPC, s.Room); err != nil {
				slog.ErrorContext(ctx, "seeding npc", "npc", s.NPC, "room", s.Room, "error", err)
				break
			}
			total++
		}
	}
	slog.InfoContext(ctx, "world seeded", "npcs", total)
}
