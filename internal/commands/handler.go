package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/pixil98/go-aeternus/internal/chronicle"
	"github.com/pixil98/go-aeternus/internal/clock"
	"github.com/pixil98/go-aeternus/internal/display"
	"github.com/pixil98/go-aeternus/internal/ecology"
	"github.com/pixil98/go-aeternus/internal/game"
	"github.com/pixil98/go-aeternus/internal/vnum"
)

// NothingHappens is shown when a command fails for reasons the player
// should not see.
const NothingHappens = "Nothing happens."

// Combat is the part of the combat engine commands drive.
type Combat interface {
	Start(ctx context.Context, attackerID, defenderID string) error
	InCombat(id string) bool
	RoundLog(room vnum.VNum) []string
}

// Calendar supplies the current world date.
type Calendar interface {
	Date() clock.Date
}

// Population reports resource species of a region.
type Population interface {
	Resources(region int) []ecology.ResourceStatus
}

// Chronicle answers questions about the world's recorded past.
type Chronicle interface {
	Recent(ctx context.Context, n int) ([]chronicle.Death, error)
	ApexHistory(ctx context.Context, region int) ([]chronicle.ApexChange, error)
	Evolutions(ctx context.Context, npcID string) (int, error)
}

type HandlerOpt func(*Handler)

func WithCombat(c Combat) HandlerOpt {
	return func(h *Handler) {
		h.combat = c
	}
}

func WithCalendar(c Calendar) HandlerOpt {
	return func(h *Handler) {
		h.calendar = c
	}
}

func WithPopulation(p Population) HandlerOpt {
	return func(h *Handler) {
		h.population = p
	}
}

func WithChronicle(c Chronicle) HandlerOpt {
	return func(h *Handler) {
		h.chronicle = c
	}
}

// Handler turns command text from a player into response text.
type Handler struct {
	world      *game.World
	combat     Combat
	calendar   Calendar
	population Population
	chronicle  Chronicle

	commands map[string]*Command
	ordered  []*Command
}

func NewHandler(world *game.World, opts ...HandlerOpt) *Handler {
	h := &Handler{
		world:    world,
		commands: make(map[string]*Command),
	}
	for _, opt := range opts {
		opt(h)
	}

	for _, cmd := range h.builtins() {
		if err := h.Register(cmd); err != nil {
			panic(fmt.Sprintf("registering built-in command: %v", err))
		}
	}
	return h
}

// Register adds cmd under its name and aliases.
func (h *Handler) Register(cmd *Command) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	keys := append([]string{cmd.Name}, cmd.Aliases...)
	for _, k := range keys {
		if _, exists := h.commands[strings.ToLower(k)]; exists {
			return fmt.Errorf("command %q already registered", k)
		}
	}
	for _, k := range keys {
		h.commands[strings.ToLower(k)] = cmd
	}
	h.ordered = append(h.ordered, cmd)
	return nil
}

// Commands returns the registered commands ordered by name.
func (h *Handler) Commands() []*Command {
	out := slices.Clone(h.ordered)
	slices.SortFunc(out, func(a, b *Command) int {
		return strings.Compare(a.Name, b.Name)
	})
	return out
}

// Process runs one line of input for actorID and returns the response.
func (h *Handler) Process(ctx context.Context, actorID, text string) string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return ""
	}

	actor := h.world.Player(actorID)
	if actor == nil {
		slog.WarnContext(ctx, "command from unknown actor", "actor", actorID)
		return NothingHappens
	}

	verb := strings.ToLower(words[0])
	cmd, ok := h.commands[verb]
	if !ok {
		return fmt.Sprintf("Unknown command: %s", words[0])
	}

	out, err := h.exec(ctx, cmd, actor, verb, words[1:])
	if err != nil {
		var ue *UserError
		if errors.As(err, &ue) {
			return ue.Message
		}
		slog.ErrorContext(ctx, "command failed", "actor", actorID, "command", cmd.Name, "error", err)
		return NothingHappens
	}
	return display.Wrap(out)
}

func (h *Handler) exec(ctx context.Context, cmd *Command, actor *game.Character, verb string, words []string) (out string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()

	args, err := parseArgs(cmd.Inputs, words)
	if err != nil {
		return "", err
	}
	return cmd.Func(ctx, &Input{Actor: actor, Verb: verb, Args: args})
}

func (h *Handler) builtins() []*Command {
	cmds := []*Command{
		{
			Name: "look", Aliases: []string{"l"}, Usage: "look [target]",
			Help:   "Describe the room, or something in it.",
			Inputs: []InputSpec{{Name: "target", Rest: true}},
			Func:   h.look,
		},
		{
			Name: "go", Usage: "go <direction>",
			Help:   "Walk through an exit.",
			Inputs: []InputSpec{{Name: "direction", Required: true}},
			Func:   h.goDirection,
		},
		{
			Name: "get", Aliases: []string{"take"}, Usage: "get <item>",
			Help:   "Pick up an item from the floor.",
			Inputs: []InputSpec{{Name: "item", Required: true, Rest: true}},
			Func:   h.get,
		},
		{
			Name: "drop", Usage: "drop <item>",
			Help:   "Drop something you carry.",
			Inputs: []InputSpec{{Name: "item", Required: true, Rest: true}},
			Func:   h.drop,
		},
		{
			Name: "inventory", Aliases: []string{"i", "inv"}, Usage: "inventory",
			Help: "List what you carry.",
			Func: h.inventory,
		},
		{
			Name: "wield", Usage: "wield <item>",
			Help:   "Ready a weapon you carry.",
			Inputs: []InputSpec{{Name: "item", Required: true, Rest: true}},
			Func:   h.wield,
		},
		{
			Name: "kill", Aliases: []string{"k", "attack"}, Usage: "kill <target>",
			Help:   "Start a fight.",
			Inputs: []InputSpec{{Name: "target", Required: true, Rest: true}},
			Func:   h.kill,
		},
		{
			Name: "combat", Usage: "combat",
			Help: "Show the last round of the fight in this room.",
			Func: h.combatLog,
		},
		{
			Name: "score", Usage: "score",
			Help: "Show your character.",
			Func: h.score,
		},
		{
			Name: "time", Usage: "time",
			Help: "Show the world date.",
			Func: h.showTime,
		},
		{
			Name: "weather", Usage: "weather",
			Help: "Look at the sky.",
			Func: h.showWeather,
		},
		{
			Name: "remort", Usage: "remort <class>",
			Help:   "Begin again at level one as a new class.",
			Inputs: []InputSpec{{Name: "class", Required: true}},
			Func:   h.remort,
		},
		{
			Name: "who", Usage: "who",
			Help: "List everyone in the world.",
			Func: h.who,
		},
		{
			Name: "help", Usage: "help [command]",
			Help:   "List commands, or explain one.",
			Inputs: []InputSpec{{Name: "command"}},
			Func:   h.help,
		},
		{
			Name: "fauna", Usage: "fauna [region]",
			Help:   "Report the wildlife of a region.",
			Inputs: []InputSpec{{Name: "region"}},
			Func:   h.fauna,
		},
		{
			Name: "legends", Aliases: []string{"chronicle"}, Usage: "legends [region]",
			Help:   "Recall the apexes and recent deaths of a region.",
			Inputs: []InputSpec{{Name: "region"}},
			Func:   h.legends,
		},
		{
			Name: "track", Usage: "track <creature>",
			Help:   "Search for signs of a creature.",
			Inputs: []InputSpec{{Name: "creature", Required: true, Rest: true}},
			Func:   h.track,
		},
	}

	for _, d := range game.Directions {
		cmds = append(cmds, &Command{
			Name:    string(d),
			Aliases: []string{string(d)[:1]},
			Usage:   string(d),
			Help:    fmt.Sprintf("Walk %s.", d),
			Func: func(ctx context.Context, in *Input) (string, error) {
				return h.move(ctx, in.Actor, d)
			},
		})
	}
	return cmds
}
