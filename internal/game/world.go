package game

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/pixil98/go-aeternus/internal/vnum"
)

// DefaultFallbackRoom receives players whose stored room no longer exists.
var DefaultFallbackRoom = vnum.MustNew(1, 1)

type WorldOpt func(*World)

// WithFallbackRoom overrides DefaultFallbackRoom.
func WithFallbackRoom(v vnum.VNum) WorldOpt {
	return func(w *World) {
		w.fallback = v
	}
}

// World is the registry of every live entity. It is the only writer of room
// membership and entity location; each method is one critical section.
type World struct {
	catalog  *Catalog
	fallback vnum.VNum

	mu      sync.RWMutex
	started bool
	rooms   map[vnum.VNum]*Room
	players map[string]*Character
	npcs    map[string]*NPC
	items   map[string]*ItemInstance
	zones   map[int]*ZoneState
}

func NewWorld(catalog *Catalog, opts ...WorldOpt) *World {
	w := &World{
		catalog:  catalog,
		fallback: DefaultFallbackRoom,
	}
	w.reset()
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// reset empties every registry map. Callers hold w.mu or own w exclusively.
func (w *World) reset() {
	w.rooms = map[vnum.VNum]*Room{}
	w.players = map[string]*Character{}
	w.npcs = map[string]*NPC{}
	w.items = map[string]*ItemInstance{}
	w.zones = map[int]*ZoneState{}
}

// Start places the catalog's rooms and creates the zone state of every
// region they cover.
func (w *World) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.started {
		return errors.New("world already started")
	}

	w.reset()
	for _, id := range w.catalog.RoomIDs() {
		r := w.catalog.Room(id)
		r.npcs, r.items, r.players = nil, nil, nil
		w.rooms[id] = r
		if _, ok := w.zones[id.Region()]; !ok {
			w.zones[id.Region()] = newZoneState(id.Region())
		}
	}

	if _, ok := w.rooms[w.fallback]; !ok {
		slog.WarnContext(ctx, "fallback room is not in the catalog", "room", w.fallback)
	}

	w.started = true
	slog.InfoContext(ctx, "world started", "rooms", len(w.rooms), "zones", len(w.zones))
	return nil
}

// Shutdown empties the world and returns the records of players still
// present, keyed by player id.
func (w *World) Shutdown(ctx context.Context) map[string]*CharacterRecord {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.started {
		return nil
	}

	out := make(map[string]*CharacterRecord, len(w.players))
	for id, c := range w.players {
		out[id] = c.record(w.itemRecords(c))
	}

	w.started = false
	w.players = map[string]*Character{}
	w.npcs = map[string]*NPC{}
	w.items = map[string]*ItemInstance{}
	for _, r := range w.rooms {
		r.npcs, r.items, r.players = nil, nil, nil
	}

	slog.InfoContext(ctx, "world shut down", "players", len(out))
	return out
}

func (w *World) Catalog() *Catalog {
	return w.catalog
}

func (w *World) FallbackRoom() vnum.VNum {
	return w.fallback
}

// SpawnNPC creates an NPC from template tmpl in room.
func (w *World) SpawnNPC(ctx context.Context, tmpl, room vnum.VNum) (*NPC, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.started {
		return nil, ErrNotStarted
	}
	r := w.rooms[room]
	if r == nil {
		return nil, fmt.Errorf("spawning npc %d in %d: %w", tmpl, room, ErrRoomNotFound)
	}

	n, err := w.catalog.NewNPC(tmpl)
	if err != nil {
		return nil, fmt.Errorf("spawning npc in %d: %w", room, err)
	}

	n.setRoom(room)
	w.npcs[n.ID] = n
	r.npcs = addMember(r.npcs, n.ID)
	w.zone(room.Region()).Population++

	slog.DebugContext(ctx, "npc spawned", "npc", n.Name(), "id", n.ID, "room", room)
	return n, nil
}

// SpawnItem creates an item from template tmpl lying in room.
func (w *World) SpawnItem(ctx context.Context, tmpl, room vnum.VNum) (*ItemInstance, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.started {
		return nil, ErrNotStarted
	}
	r := w.rooms[room]
	if r == nil {
		return nil, fmt.Errorf("spawning item %d in %d: %w", tmpl, room, ErrRoomNotFound)
	}

	it, err := w.catalog.NewItem(tmpl)
	if err != nil {
		return nil, fmt.Errorf("spawning item in %d: %w", room, err)
	}

	it.setLocation(ItemLocation{Place: ItemInRoom, Room: room})
	w.items[it.ID] = it
	r.items = addMember(r.items, it.ID)

	slog.DebugContext(ctx, "item spawned", "item", it.Name(), "id", it.ID, "room", room)
	return it, nil
}

// AddPlayer places c in its stored room, or in the fallback room when that
// room no longer exists. Items carried in the record are instantiated.
func (w *World) AddPlayer(ctx context.Context, c *Character) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.started {
		return ErrNotStarted
	}
	if _, ok := w.players[c.ID]; ok {
		return fmt.Errorf("adding %q: %w", c.ID, ErrPlayerExists)
	}

	r := w.rooms[c.Location()]
	if r == nil {
		slog.ErrorContext(ctx, "player room not found, using fallback",
			"player", c.ID, "room", c.Location(), "fallback", w.fallback)
		r = w.rooms[w.fallback]
		if r == nil {
			return fmt.Errorf("fallback %d: %w", w.fallback, ErrRoomNotFound)
		}
	}

	c.setRoom(r.id)
	w.players[c.ID] = c
	r.players = addMember(r.players, c.ID)

	for _, rec := range c.pending {
		it, err := w.catalog.NewItem(rec.Template)
		if err != nil {
			slog.ErrorContext(ctx, "dropping unknown carried item", "player", c.ID, "error", err)
			continue
		}
		w.items[it.ID] = it
		if _, taken := c.equipment[rec.Slot]; rec.Slot != "" && !taken {
			c.equipment[rec.Slot] = it.ID
			it.setLocation(ItemLocation{Place: ItemEquipped, Holder: c.ID, Slot: rec.Slot})
			continue
		}
		c.inventory = append(c.inventory, it.ID)
		it.setLocation(ItemLocation{Place: ItemCarried, Holder: c.ID})
	}
	c.pending = nil

	return nil
}

// RemovePlayer takes the player out of the world, returning its durable
// record. It returns nil if the player is not present.
func (w *World) RemovePlayer(ctx context.Context, id string) *CharacterRecord {
	w.mu.Lock()
	defer w.mu.Unlock()

	c := w.players[id]
	if c == nil {
		return nil
	}

	rec := c.record(w.itemRecords(c))

	if r := w.rooms[c.Location()]; r != nil {
		r.players = removeMember(r.players, id)
	}
	for _, itemID := range c.inventory {
		delete(w.items, itemID)
	}
	for _, itemID := range c.equipment {
		delete(w.items, itemID)
	}
	c.inventory = nil
	c.equipment = map[string]string{}
	delete(w.players, id)

	slog.InfoContext(ctx, "player removed", "player", id)
	return rec
}

// CharacterRecord returns the durable record of a present player.
func (w *World) CharacterRecord(id string) *CharacterRecord {
	w.mu.RLock()
	defer w.mu.RUnlock()

	c := w.players[id]
	if c == nil {
		return nil
	}
	return c.record(w.itemRecords(c))
}

func (w *World) itemRecords(c *Character) []ItemRecord {
	var out []ItemRecord
	for _, id := range c.inventory {
		if it := w.items[id]; it != nil {
			out = append(out, ItemRecord{Template: it.TemplateID})
		}
	}
	slots := make([]string, 0, len(c.equipment))
	for slot := range c.equipment {
		slots = append(slots, slot)
	}
	sort.Strings(slots)
	for _, slot := range slots {
		if it := w.items[c.equipment[slot]]; it != nil {
			out = append(out, ItemRecord{Template: it.TemplateID, Slot: slot})
		}
	}
	return out
}

// MoveCharacter relocates a player. It returns false if the player or the
// target room is unknown.
func (w *World) MoveCharacter(id string, to vnum.VNum) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	c := w.players[id]
	target := w.rooms[to]
	if c == nil || target == nil {
		return false
	}

	if from := w.rooms[c.Location()]; from != nil {
		from.players = removeMember(from.players, id)
	}
	target.players = addMember(target.players, id)
	c.setRoom(to)
	return true
}

// MoveNPC relocates an NPC, carrying its population count across regions.
func (w *World) MoveNPC(id string, to vnum.VNum) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	n := w.npcs[id]
	target := w.rooms[to]
	if !w.started || n == nil || target == nil {
		return false
	}

	from := n.Location()
	if r := w.rooms[from]; r != nil {
		r.npcs = removeMember(r.npcs, id)
	}
	target.npcs = addMember(target.npcs, id)
	n.setRoom(to)

	if from.Region() != to.Region() {
		w.zone(from.Region()).Population = max(0, w.zone(from.Region()).Population-1)
		w.zone(to.Region()).Population++
	}
	return true
}

// KillNPC removes an NPC permanently, clearing its region's apex if it held
// the role.
func (w *World) KillNPC(ctx context.Context, id string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	n := w.npcs[id]
	if n == nil {
		return false
	}

	room := n.Location()
	if r := w.rooms[room]; r != nil {
		r.npcs = removeMember(r.npcs, id)
	}
	delete(w.npcs, id)

	z := w.zone(room.Region())
	z.Population = max(0, z.Population-1)
	if z.ApexID == id {
		slog.InfoContext(ctx, "zone apex has fallen", "region", z.Region, "npc", z.ApexTitle)
		z.ApexID = ""
		z.ApexTitle = ""
	}

	slog.InfoContext(ctx, "npc died", "npc", n.Name(), "id", id, "room", room)
	return true
}

// PickUpItem moves an item lying in the player's room into its inventory.
func (w *World) PickUpItem(charID, itemID string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	c := w.players[charID]
	it := w.items[itemID]
	if c == nil || it == nil {
		return ErrNotFound
	}

	loc := it.Location()
	if loc.Place != ItemInRoom || loc.Room != c.Location() {
		return ErrItemNotHere
	}
	if it.Template.Flags.Has(ItemNoTake) {
		return ErrCannotTake
	}

	if r := w.rooms[loc.Room]; r != nil {
		r.items = removeMember(r.items, itemID)
	}
	c.inventory = addMember(c.inventory, itemID)
	it.setLocation(ItemLocation{Place: ItemCarried, Holder: charID})
	return nil
}

// DropItem moves a carried or equipped item onto the player's room floor.
func (w *World) DropItem(charID, itemID string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	c := w.players[charID]
	it := w.items[itemID]
	if c == nil || it == nil {
		return ErrNotFound
	}

	loc := it.Location()
	if loc.Holder != charID || (loc.Place != ItemCarried && loc.Place != ItemEquipped) {
		return ErrNotCarried
	}
	r := w.rooms[c.Location()]
	if r == nil {
		return ErrRoomNotFound
	}

	if loc.Place == ItemEquipped {
		delete(c.equipment, loc.Slot)
	} else {
		c.inventory = removeMember(c.inventory, itemID)
	}
	r.items = addMember(r.items, itemID)
	it.setLocation(ItemLocation{Place: ItemInRoom, Room: r.id})
	return nil
}

// EquipItem moves a carried item into its slot, returning whatever held the
// slot to the inventory. It returns the slot used.
func (w *World) EquipItem(charID, itemID string) (string, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	c := w.players[charID]
	it := w.items[itemID]
	if c == nil || it == nil {
		return "", ErrNotFound
	}

	loc := it.Location()
	if loc.Holder != charID || loc.Place != ItemCarried {
		return "", ErrNotCarried
	}

	slot := it.Template.Slot
	if slot == "" && it.Template.Damage != nil {
		slot = WeaponSlot
	}
	if slot == "" {
		return "", ErrCannotEquip
	}

	if prevID, ok := c.equipment[slot]; ok {
		if prev := w.items[prevID]; prev != nil {
			c.inventory = append(c.inventory, prevID)
			prev.setLocation(ItemLocation{Place: ItemCarried, Holder: charID})
		}
	}
	c.inventory = removeMember(c.inventory, itemID)
	c.equipment[slot] = itemID
	it.setLocation(ItemLocation{Place: ItemEquipped, Holder: charID, Slot: slot})
	return slot, nil
}

func (w *World) Room(v vnum.VNum) *Room {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.rooms[v]
}

// RoomIDs returns every room in ascending order.
func (w *World) RoomIDs() []vnum.VNum {
	w.mu.RLock()
	defer w.mu.RUnlock()

	ids := make([]vnum.VNum, 0, len(w.rooms))
	for id := range w.rooms {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func (w *World) Player(id string) *Character {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.players[id]
}

// Players returns every present player ordered by id.
func (w *World) Players() []*Character {
	w.mu.RLock()
	defer w.mu.RUnlock()

	out := make([]*Character, 0, len(w.players))
	for _, c := range w.players {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (w *World) NPC(id string) *NPC {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.npcs[id]
}

// NPCs returns every live NPC ordered by id.
func (w *World) NPCs() []*NPC {
	w.mu.RLock()
	defer w.mu.RUnlock()

	out := make([]*NPC, 0, len(w.npcs))
	for _, n := range w.npcs {
		out = append(out, n)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (w *World) Item(id string) *ItemInstance {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.items[id]
}

// RoomNPCs returns the NPCs in room in arrival order.
func (w *World) RoomNPCs(room vnum.VNum) []*NPC {
	w.mu.RLock()
	defer w.mu.RUnlock()

	r := w.rooms[room]
	if r == nil {
		return nil
	}
	out := make([]*NPC, 0, len(r.npcs))
	for _, id := range r.npcs {
		if n := w.npcs[id]; n != nil {
			out = append(out, n)
		}
	}
	return out
}

// RoomItems returns the items lying in room.
func (w *World) RoomItems(room vnum.VNum) []*ItemInstance {
	w.mu.RLock()
	defer w.mu.RUnlock()

	r := w.rooms[room]
	if r == nil {
		return nil
	}
	return w.lookupItems(r.items)
}

// RoomPlayers returns the players standing in room.
func (w *World) RoomPlayers(room vnum.VNum) []*Character {
	w.mu.RLock()
	defer w.mu.RUnlock()

	r := w.rooms[room]
	if r == nil {
		return nil
	}
	out := make([]*Character, 0, len(r.players))
	for _, id := range r.players {
		if c := w.players[id]; c != nil {
			out = append(out, c)
		}
	}
	return out
}

// Inventory returns the items a player carries but has not equipped.
func (w *World) Inventory(charID string) []*ItemInstance {
	w.mu.RLock()
	defer w.mu.RUnlock()

	c := w.players[charID]
	if c == nil {
		return nil
	}
	return w.lookupItems(c.inventory)
}

// Equipment returns a player's equipped items by slot.
func (w *World) Equipment(charID string) map[string]*ItemInstance {
	w.mu.RLock()
	defer w.mu.RUnlock()

	c := w.players[charID]
	if c == nil {
		return nil
	}
	out := make(map[string]*ItemInstance, len(c.equipment))
	for slot, id := range c.equipment {
		if it := w.items[id]; it != nil {
			out[slot] = it
		}
	}
	return out
}

// Weapon returns the item a player wields, or nil.
func (w *World) Weapon(charID string) *ItemInstance {
	w.mu.RLock()
	defer w.mu.RUnlock()

	c := w.players[charID]
	if c == nil {
		return nil
	}
	return w.items[c.equipment[WeaponSlot]]
}

func (w *World) lookupItems(ids []string) []*ItemInstance {
	out := make([]*ItemInstance, 0, len(ids))
	for _, id := range ids {
		if it := w.items[id]; it != nil {
			out = append(out, it)
		}
	}
	return out
}

// Zone returns a copy of a region's state.
func (w *World) Zone(region int) (ZoneState, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	z, ok := w.zones[region]
	if !ok {
		return ZoneState{}, false
	}
	return *z, true
}

// ZoneApex returns the dominant NPC of a region, or nil.
func (w *World) ZoneApex(region int) *NPC {
	w.mu.RLock()
	defer w.mu.RUnlock()

	z, ok := w.zones[region]
	if !ok || z.ApexID == "" {
		return nil
	}
	return w.npcs[z.ApexID]
}

// SetZoneApex crowns n as the dominant NPC of region and raises the region's
// threat level. The previous apex loses the role. It does nothing before
// Start or for a region the world does not cover.
func (w *World) SetZoneApex(ctx context.Context, region int, n *NPC) {
	w.mu.Lock()
	defer w.mu.Unlock()

	z, ok := w.zones[region]
	if !w.started || !ok {
		return
	}
	if prev := w.npcs[z.ApexID]; prev != nil && prev != n {
		prev.SetFlag(NPCApex, false)
	}

	if n == nil {
		z.ApexID = ""
		z.ApexTitle = ""
		return
	}

	n.SetFlag(NPCApex, true)
	z.ApexID = n.ID
	z.ApexTitle = n.FullName()
	z.ThreatLevel++

	slog.InfoContext(ctx, "new zone apex", "region", region, "npc", z.ApexTitle, "threat", z.ThreatLevel)
}

// zone returns the state of region, creating it on first use. Callers hold
// w.mu for writing.
func (w *World) zone(region int) *ZoneState {
	z, ok := w.zones[region]
	if !ok {
		z = newZoneState(region)
		w.zones[region] = z
	}
	return z
}
