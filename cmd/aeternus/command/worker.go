package command

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/pixil98/go-aeternus/internal/combat"
	"github.com/pixil98/go-aeternus/internal/commands"
	"github.com/pixil98/go-aeternus/internal/ecology"
	"github.com/pixil98/go-aeternus/internal/game"
	"github.com/pixil98/go-aeternus/internal/listener"
	"github.com/pixil98/go-aeternus/internal/messaging"
	"github.com/pixil98/go-aeternus/internal/player"
	"github.com/pixil98/go-aeternus/internal/storage"
	"github.com/pixil98/go-aeternus/internal/tuning"
	"github.com/pixil98/go-errors"
	"github.com/pixil98/go-service"
)

func BuildWorkers(config interface{}) (service.WorkerList, error) {
	cfg, ok := config.(*Config)
	if !ok {
		return nil, fmt.Errorf("unable to cast config")
	}

	cfg.Log.install()
	ctx := context.Background()

	t, err := tuning.Load(cfg.TuningPath)
	if err != nil {
		return nil, fmt.Errorf("loading tuning: %w", err)
	}

	// Load the world
	catalog, err := cfg.Storage.BuildCatalog(ctx)
	if err != nil {
		return nil, fmt.Errorf("building catalog: %w", err)
	}
	world := game.NewWorld(catalog, game.WithFallbackRoom(cfg.Player.StartRoom))
	if err := world.Start(ctx); err != nil {
		return nil, fmt.Errorf("starting world: %w", err)
	}
	seed(ctx, world, cfg.SeedSpawns)

	records, err := cfg.Storage.Characters.BuildFileStore()
	if err != nil {
		return nil, fmt.Errorf("creating character store: %w", err)
	}

	clk, err := cfg.Clock.BuildClock(ctx, t.Clock)
	if err != nil {
		return nil, fmt.Errorf("creating clock: %w", err)
	}

	workers := service.WorkerList{}

	// Room events go over NATS when it is enabled and are only logged otherwise
	var broadcaster combat.Broadcaster = combat.LogBroadcaster{}
	var sub player.Subscriber
	if cfg.Nats.Enabled {
		ns, err := cfg.Nats.BuildNatsServer()
		if err != nil {
			return nil, fmt.Errorf("creating nats server: %w", err)
		}
		workers["nats"] = ns
		broadcaster = messaging.NewRoomPublisher(ns)
		sub = ns
	}

	ecoOpts := []ecology.Opt{ecology.WithTuning(t.Ecology)}
	combatOpts := []combat.ManagerOpt{
		combat.WithTuning(t.Combat),
		combat.WithBroadcaster(broadcaster),
	}

	chron, err := cfg.Chronicle.BuildChronicle()
	if err != nil {
		return nil, fmt.Errorf("opening chronicle: %w", err)
	}
	if chron != nil {
		workers["chronicle"] = chron
		ecoOpts = append(ecoOpts, ecology.WithJournal(chron))
		combatOpts = append(combatOpts, combat.WithObserver(chron))
	}

	nemesis := ecology.NewNemesis(world, ecoOpts...)
	fights := combat.NewManager(world, append(combatOpts, combat.WithObserver(nemesis))...)
	ecosystem := ecology.NewEcosystem(world, append(ecoOpts, ecology.WithCombat(fights))...)
	population := ecology.NewPopulation(world, ecoOpts...)

	cmdOpts := []commands.HandlerOpt{
		commands.WithCombat(fights),
		commands.WithCalendar(clk),
		commands.WithPopulation(population),
	}
	if chron != nil {
		cmdOpts = append(cmdOpts, commands.WithChronicle(chron))
	}
	cmds := commands.NewHandler(world, cmdOpts...)

	players, err := cfg.Player.BuildPlayerManager(world, cmds, records, sub)
	if err != nil {
		return nil, fmt.Errorf("creating player manager: %w", err)
	}

	clk.RegisterFast("combat", fights.Tick)
	clk.RegisterSlow("ecosystem", ecosystem.Tick)
	clk.RegisterSlow("nemesis", nemesis.Tick)
	clk.RegisterSlow("population", population.Tick)
	clk.RegisterSlow("autosave", players.SaveAll)

	// Create Listeners
	cm := listener.NewConnectionManager(players)
	listeners := make(service.WorkerList, len(cfg.Listeners))
	for i, l := range cfg.Listeners {
		w, err := l.BuildListener(cm, cmds)
		if err != nil {
			return nil, fmt.Errorf("creating listener %d: %w", i, err)
		}
		listeners[fmt.Sprintf("listener-%d", i)] = w
	}

	workers["world"] = &worldKeeper{world: world, records: records}
	workers["clock"] = clk
	workers["players"] = players
	workers["listeners"] = &listeners

	return workers, nil
}

// worldKeeper shuts the world down with the service and saves whoever is
// still in it.
type worldKeeper struct {
	world   *game.World
	records storage.Storer[*game.CharacterRecord]
}

func (k *worldKeeper) Start(ctx context.Context) error {
	<-ctx.Done()

	ctx = context.WithoutCancel(ctx)
	el := errors.NewErrorList()
	for id, rec := range k.world.Shutdown(ctx) {
		if err := k.records.Save(id, rec); err != nil {
			el.Add(fmt.Errorf("saving %q: %w", id, err))
		}
	}

	if err := el.Err(); err != nil {
		slog.ErrorContext(ctx, "saving characters at shutdown", "error", err)
		return err
	}
	return nil
}
