// Package gametest provides a small in-memory world for tests.
package gametest

import (
	"context"
	"sort"
	"testing"

	"github.com/pixil98/go-aeternus/internal/game"
	"github.com/pixil98/go-aeternus/internal/storage"
	"github.com/pixil98/go-aeternus/internal/vnum"
)

var (
	Clearing = vnum.MustNew(1, 1)
	Ridge    = vnum.MustNew(1, 2)
	Cave     = vnum.MustNew(2, 1)

	Sword = vnum.MustNew(1, 1)
	Club  = vnum.MustNew(1, 2)
	Idol  = vnum.MustNew(1, 3)

	Rat  = vnum.MustNew(1, 1)
	Wolf = vnum.MustNew(1, 2)
	Deer = vnum.MustNew(1, 3)
)

// Store is a Storer backed by a map.
type Store[T storage.ValidatingSpec] struct {
	Records map[string]T
}

func (s *Store[T]) Save(id string, v T) error {
	if s.Records == nil {
		s.Records = map[string]T{}
	}
	s.Records[id] = v
	return nil
}

func (s *Store[T]) Get(id string) T { return s.Records[id] }

func (s *Store[T]) GetAll() map[string]T {
	out := make(map[string]T, len(s.Records))
	for k, v := range s.Records {
		out[k] = v
	}
	return out
}

func (s *Store[T]) Keys() []string {
	keys := make([]string, 0, len(s.Records))
	for k := range s.Records {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func Humanoid() *game.BodyPlan {
	return &game.BodyPlan{
		Name: "Humanoid",
		Parts: []game.PartSpec{
			{ID: "head", Name: "head", HPFactor: 0.2, HitWeight: 5, Flags: game.PartVital | game.PartSeverable},
			{ID: "torso", Name: "torso", HPFactor: 0.5, HitWeight: 40, Flags: game.PartVital},
			{ID: "left_arm", Name: "left arm", HPFactor: 0.15, HitWeight: 15, Flags: game.PartSeverable},
			{ID: "right_arm", Name: "right arm", HPFactor: 0.15, HitWeight: 15, Flags: game.PartSeverable},
			{ID: "legs", Name: "legs", HPFactor: 0.3, HitWeight: 25},
		},
	}
}

func Quadruped() *game.BodyPlan {
	return &game.BodyPlan{
		Name: "Quadruped",
		Parts: []game.PartSpec{
			{ID: "head", Name: "head", HPFactor: 0.25, HitWeight: 10, Flags: game.PartVital | game.PartSeverable | game.PartMatBone},
			{ID: "body", Name: "body", HPFactor: 0.6, HitWeight: 50, Flags: game.PartVital},
			{ID: "tail", Name: "tail", HitWeight: 5, Flags: game.PartSeverable},
		},
	}
}

// Catalog returns a catalog with two regions, three items and three NPCs.
func Catalog(t testing.TB) *game.Catalog {
	t.Helper()

	rooms := &Store[*game.Room]{Records: map[string]*game.Room{
		Clearing.String(): {
			Title:     "A Quiet Clearing",
			DayDesc:   "Sunlight pools on soft grass.",
			NightDesc: "Moonlight silvers the grass.",
			Sensory:   map[string]string{"smell": "pine resin"},
			Flags:     []string{"TEMPERATE"},
			Exits:     map[game.Direction]game.Exit{game.North: {To: Ridge}},
		},
		Ridge.String(): {
			Title:   "A Windy Ridge",
			DayDesc: "Wind howls along the ridge.",
			Flags:   []string{"TEMPERATE"},
			Exits: map[game.Direction]game.Exit{
				game.South: {To: Clearing},
				game.Down:  {To: Cave, Locked: true},
			},
		},
		Cave.String(): {
			Title:   "A Damp Cave",
			DayDesc: "Water drips in the dark.",
			Flags:   []string{"UNDERGROUND"},
			Exits:   map[game.Direction]game.Exit{game.Up: {To: Ridge}},
		},
	}}

	items := &Store[*game.ItemTemplate]{Records: map[string]*game.ItemTemplate{
		Sword.String(): {
			Name: "iron sword", Aliases: []string{"sword"}, Type: "weapon",
			Damage: &game.ItemDamage{Min: 4, Max: 8, Type: game.DamageSlash},
			Flags:  game.ItemSharp, AttackVerb: "slashes", Durability: 50,
		},
		Club.String(): {
			Name: "wooden club", Aliases: []string{"club"}, Type: "weapon",
			Damage: &game.ItemDamage{Min: 2, Max: 5, Type: game.DamageBlunt},
		},
		Idol.String(): {
			Name: "stone idol", Aliases: []string{"idol"}, Type: "furniture", Flags: game.ItemNoTake,
		},
	}}

	npcs := &Store[*game.NPCTemplate]{Records: map[string]*game.NPCTemplate{
		Rat.String(): {
			Name: "giant rat", Aliases: []string{"rat"}, Level: 1, BaseHP: 20,
			BodyPlan:       storage.NewRef[*game.BodyPlan]("quadruped"),
			NaturalAttacks: []game.NaturalAttack{{Name: "teeth", DamageType: game.DamagePierce, DamageMult: 1, Verb: "bites"}},
		},
		Wolf.String(): {
			Name: "grey wolf", Aliases: []string{"wolf"}, Level: 3, BaseHP: 40, Flags: game.NPCPredator,
			BodyPlan:       storage.NewRef[*game.BodyPlan]("quadruped"),
			NaturalAttacks: []game.NaturalAttack{{Name: "fangs", DamageType: game.DamagePierce, DamageMult: 1.2, Verb: "mauls"}},
			Loot:           []game.LootEntry{{Item: Club, Chance: 1}},
		},
		Deer.String(): {
			Name: "red deer", Aliases: []string{"deer"}, Level: 2, BaseHP: 30,
			BodyPlan: storage.NewRef[*game.BodyPlan]("quadruped"),
		},
	}}

	plans := &Store[*game.BodyPlan]{Records: map[string]*game.BodyPlan{
		"humanoid":  Humanoid(),
		"quadruped": Quadruped(),
	}}

	return game.NewCatalog(context.Background(), rooms, items, npcs, plans)
}

// World returns a started world over Catalog.
func World(t testing.TB) *game.World {
	t.Helper()

	w := game.NewWorld(Catalog(t))
	if err := w.Start(context.Background()); err != nil {
		t.Fatalf("starting world: %v", err)
	}
	return w
}

// Player adds a fresh character named name to w in room.
func Player(t testing.TB, w *game.World, name string, room vnum.VNum) *game.Character {
	t.Helper()

	c := w.Catalog().NewCharacter(name, game.NewCharacterRecord(name, room))
	if err := w.AddPlayer(context.Background(), c); err != nil {
		t.Fatalf("adding player %s: %v", name, err)
	}
	return c
}

// Spawn places an NPC from tmpl in room.
func Spawn(t testing.TB, w *game.World, tmpl, room vnum.VNum) *game.NPC {
	t.Helper()

	n, err := w.SpawnNPC(context.Background(), tmpl, room)
	if err != nil {
		t.Fatalf("spawning %d: %v", tmpl, err)
	}
	return n
}
