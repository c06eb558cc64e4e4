package game

import (
	"fmt"
	"strings"
	"sync"

	"github.com/pixil98/go-aeternus/internal/vnum"
	"github.com/pixil98/go-errors"
)

// WeaponSlot is the equipment slot attacks are made from.
const WeaponSlot = "main_hand"

// ItemDamage is a weapon's damage profile.
type ItemDamage struct {
	Min  int        `json:"min"`
	Max  int        `json:"max"`
	Type DamageType `json:"type"`
}

func (d *ItemDamage) Validate() error {
	el := errors.NewErrorList()
	if d.Min < 0 || d.Max < d.Min {
		el.Add(fmt.Errorf("damage range %d-%d is invalid", d.Min, d.Max))
	}
	el.Add(d.Type.Validate())
	return el.Err()
}

// ItemTemplate is the immutable blueprint of an item.
type ItemTemplate struct {
	Name        string      `json:"name"`
	Aliases     []string    `json:"aliases"`
	Description string      `json:"description"`
	Type        string      `json:"type"`
	Slot        string      `json:"slot,omitempty"`
	Damage      *ItemDamage `json:"damage,omitempty"`
	Armor       int         `json:"armor,omitempty"`
	Flags       ItemFlags   `json:"flags,omitempty"`
	AttackVerb  string      `json:"attack_verb,omitempty"`
	Rarity      string      `json:"rarity,omitempty"`
	Durability  int         `json:"durability,omitempty"`
}

func (t *ItemTemplate) Validate() error {
	el := errors.NewErrorList()
	if t.Name == "" {
		el.Add(fmt.Errorf("item name is required"))
	}
	if t.Damage != nil {
		el.Add(t.Damage.Validate())
	}
	if t.Armor < 0 || t.Durability < 0 {
		el.Add(fmt.Errorf("armor and durability must not be negative"))
	}
	return el.Err()
}

// MatchName reports whether name is the item's name or one of its aliases.
func (t *ItemTemplate) MatchName(name string) bool {
	return matchName(name, t.Name, t.Aliases)
}

// ItemPlace is where an item instance currently is.
type ItemPlace int

const (
	ItemInRoom ItemPlace = iota
	ItemCarried
	ItemEquipped
)

// ItemLocation is the single place an item occupies. Only World writes it.
type ItemLocation struct {
	Place  ItemPlace
	Room   vnum.VNum
	Holder string
	Slot   string
}

// ItemInstance is a live item spawned from a template.
type ItemInstance struct {
	ID         string
	TemplateID vnum.VNum
	Template   *ItemTemplate

	mu         sync.Mutex
	durability int
	quality    int
	loc        ItemLocation
}

func (i *ItemInstance) Name() string {
	return i.Template.Name
}

// Location returns where the item is.
func (i *ItemInstance) Location() ItemLocation {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.loc
}

func (i *ItemInstance) setLocation(loc ItemLocation) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.loc = loc
}

func (i *ItemInstance) Durability() int {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.durability
}

func (i *ItemInstance) Quality() int {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.quality
}

func matchName(name, primary string, aliases []string) bool {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return false
	}
	if strings.ToLower(primary) == name {
		return true
	}
	for _, a := range aliases {
		if strings.ToLower(a) == name {
			return true
		}
	}
	for _, word := range strings.Fields(strings.ToLower(primary)) {
		if word == name {
			return true
		}
	}
	return false
}
