package command

import (
	"fmt"

	"github.com/pixil98/go-aeternus/internal/commands"
	"github.com/pixil98/go-aeternus/internal/game"
	"github.com/pixil98/go-aeternus/internal/player"
	"github.com/pixil98/go-aeternus/internal/storage"
	"github.com/pixil98/go-aeternus/internal/vnum"
	"github.com/pixil98/go-errors"
)

type PlayerConfig struct {
	StartRoom vnum.VNum `json:"start_room"`
	Greeting  string    `json:"greeting,omitempty"`
}

func (c *PlayerConfig) validate() error {
	el := errors.NewErrorList()

	if c.StartRoom == 0 {
		el.Add(fmt.Errorf("player.start_room is required"))
	} else if !c.StartRoom.Valid() {
		el.Add(fmt.Errorf("player.start_room %d is not a valid vnum", c.StartRoom))
	}

	return el.Err()
}

type greetingData struct {
	Name  string
	Rooms int
}

func (c *PlayerConfig) BuildPlayerManager(
	world *game.World,
	cmds player.Processor,
	records storage.Storer[*game.CharacterRecord],
	sub player.Subscriber,
) (*player.Manager, error) {
	opts := []player.ManagerOpt{player.WithStartRoom(c.StartRoom)}

	if c.Greeting != "" {
		greeting, err := commands.ExpandTemplate(c.Greeting, greetingData{
			Name:  "Aeternus",
			Rooms: len(world.Catalog().RoomIDs()),
		})
		if err != nil {
			return nil, fmt.Errorf("expanding greeting: %w", err)
		}
		opts = append(opts, player.WithGreeting(greeting))
	}
	if sub != nil {
		opts = append(opts, player.WithSubscriber(sub))
	}

	return player.NewManager(world, cmds, records, opts...), nil
}
