package game

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/google/uuid"
	"github.com/pixil98/go-aeternus/internal/storage"
	"github.com/pixil98/go-aeternus/internal/vnum"
)

// Catalog is the immutable set of templates loaded at startup. It also acts
// as the factory for live entities.
type Catalog struct {
	rooms     map[vnum.VNum]*Room
	items     map[vnum.VNum]*ItemTemplate
	npcs      map[vnum.VNum]*NPCTemplate
	bodyPlans storage.Storer[*BodyPlan]
}

// NewCatalog indexes the stores by vnum and resolves body plan references.
// Records with an undecodable id or an unknown body plan are logged and
// skipped.
func NewCatalog(
	ctx context.Context,
	rooms storage.Storer[*Room],
	items storage.Storer[*ItemTemplate],
	npcs storage.Storer[*NPCTemplate],
	plans storage.Storer[*BodyPlan],
) *Catalog {
	c := &Catalog{
		rooms:     indexByVNum(ctx, "room", rooms),
		items:     indexByVNum(ctx, "item", items),
		npcs:      indexByVNum(ctx, "npc", npcs),
		bodyPlans: plans,
	}

	for id, r := range c.rooms {
		r.id = id
	}

	for id, t := range c.npcs {
		if err := t.BodyPlan.Resolve(plans, DefaultBodyPlan); err != nil {
			slog.ErrorContext(ctx, "skipping npc template", "vnum", id, "error", err)
			delete(c.npcs, id)
		}
	}

	slog.InfoContext(ctx, "catalog loaded",
		"rooms", len(c.rooms),
		"items", len(c.items),
		"npcs", len(c.npcs),
		"body_plans", len(plans.Keys()))

	return c
}

func indexByVNum[T storage.ValidatingSpec](ctx context.Context, kind string, st storage.Storer[T]) map[vnum.VNum]T {
	out := map[vnum.VNum]T{}
	for id, rec := range st.GetAll() {
		v, err := vnum.FromString(id)
		if err != nil {
			slog.ErrorContext(ctx, "skipping "+kind, "id", id, "error", err)
			continue
		}
		out[v] = rec
	}
	return out
}

func (c *Catalog) Room(v vnum.VNum) *Room {
	return c.rooms[v]
}

// RoomIDs returns every room vnum in ascending order.
func (c *Catalog) RoomIDs() []vnum.VNum {
	ids := make([]vnum.VNum, 0, len(c.rooms))
	for v := range c.rooms {
		ids = append(ids, v)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func (c *Catalog) ItemTemplate(v vnum.VNum) *ItemTemplate {
	return c.items[v]
}

func (c *Catalog) NPCTemplate(v vnum.VNum) *NPCTemplate {
	return c.npcs[v]
}

// BodyPlan returns the named plan, falling back to the default plan.
func (c *Catalog) BodyPlan(name string) *BodyPlan {
	if p := c.bodyPlans.Get(name); p != nil {
		return p
	}
	return c.bodyPlans.Get(DefaultBodyPlan)
}

// NewNPC instantiates an NPC from its template. The NPC is not placed.
func (c *Catalog) NewNPC(v vnum.VNum) (*NPC, error) {
	t := c.npcs[v]
	if t == nil {
		return nil, fmt.Errorf("npc %d: %w", v, ErrTemplateNotFound)
	}
	return &NPC{
		ID:         uuid.New().String(),
		TemplateID: v,
		Template:   t,
		hp:         t.BaseHP,
		maxHP:      t.BaseHP,
		flags:      t.Flags,
		anatomy:    NewAnatomy(t.BodyPlan.Get(), t.BaseHP),
	}, nil
}

// NewItem instantiates an item from its template. The item is not placed.
func (c *Catalog) NewItem(v vnum.VNum) (*ItemInstance, error) {
	t := c.items[v]
	if t == nil {
		return nil, fmt.Errorf("item %d: %w", v, ErrTemplateNotFound)
	}
	return &ItemInstance{
		ID:         uuid.New().String(),
		TemplateID: v,
		Template:   t,
		durability: t.Durability,
		quality:    100,
	}, nil
}

// NewCharacter hydrates a live character using the humanoid plan.
func (c *Catalog) NewCharacter(id string, rec *CharacterRecord) *Character {
	return NewCharacter(id, rec, c.BodyPlan(DefaultBodyPlan))
}
