package game

import (
	"fmt"
	"regexp"
	"sync"

	"github.com/pixil98/go-aeternus/internal/vnum"
	"github.com/pixil98/go-errors"
)

var namePattern = regexp.MustCompile(`^[A-Za-z][A-Za-z-]{1,19}$`)

// ValidName reports whether s can be used as a character name.
func ValidName(s string) bool {
	return namePattern.MatchString(s)
}

// ItemRecord is a carried item in its durable form.
type ItemRecord struct {
	Template vnum.VNum `json:"template"`
	Slot     string    `json:"slot,omitempty"`
}

// CharacterRecord is the durable form of a player character.
type CharacterRecord struct {
	Name       string         `json:"name"`
	Class      string         `json:"class"`
	Level      int            `json:"level"`
	Experience int            `json:"experience"`
	Remorts    int            `json:"remorts,omitempty"`
	Room       vnum.VNum      `json:"room"`
	HP         Pool           `json:"hp"`
	Mana       Pool           `json:"mana"`
	Stamina    Pool           `json:"stamina"`
	Attributes Attributes     `json:"attributes"`
	Items      []ItemRecord   `json:"items,omitempty"`
	Catalysts  map[string]int `json:"catalysts,omitempty"`
}

// NewCharacterRecord returns a fresh level one character standing in room.
func NewCharacterRecord(name string, room vnum.VNum) *CharacterRecord {
	return &CharacterRecord{
		Name:       name,
		Class:      defaultClass,
		Level:      1,
		Room:       room,
		HP:         Pool{Current: 100, Max: 100, Regen: 1.0},
		Mana:       Pool{Current: 50, Max: 50, Regen: 0.5},
		Stamina:    Pool{Current: 100, Max: 100, Regen: 2.0},
		Attributes: DefaultAttributes(),
	}
}

func (c *CharacterRecord) Validate() error {
	el := errors.NewErrorList()
	if !ValidName(c.Name) {
		el.Add(fmt.Errorf("character name %q is invalid", c.Name))
	}
	if !KnownClass(c.Class) {
		el.Add(fmt.Errorf("unknown class %q", c.Class))
	}
	if c.Level < 1 || c.Level > MaxLevel {
		el.Add(fmt.Errorf("level %d out of range", c.Level))
	}
	if c.HP.Max < 1 {
		el.Add(fmt.Errorf("hp max must be positive"))
	}
	el.Add(c.Attributes.Validate())
	return el.Err()
}

// Character is a connected player's live state.
type Character struct {
	ID string

	mu         sync.Mutex
	name       string
	class      string
	level      int
	experience int
	remorts    int
	hp         Pool
	mana       Pool
	stamina    Pool
	attributes Attributes
	anatomy    Anatomy
	catalysts  map[string]int
	room       vnum.VNum

	// inventory and equipment hold item instance ids; guarded by World.mu.
	inventory []string
	equipment map[string]string
	pending   []ItemRecord
}

// NewCharacter hydrates a live character from its record. Carried items are
// instantiated when the character is added to a World.
func NewCharacter(id string, rec *CharacterRecord, plan *BodyPlan) *Character {
	attrs := DefaultAttributes()
	for a, s := range rec.Attributes {
		attrs[a] = s
	}
	catalysts := map[string]int{}
	for k, v := range rec.Catalysts {
		catalysts[k] = v
	}
	class := rec.Class
	if class == "" {
		class = defaultClass
	}

	return &Character{
		ID:         id,
		name:       rec.Name,
		class:      class,
		level:      max(1, rec.Level),
		experience: rec.Experience,
		remorts:    rec.Remorts,
		hp:         rec.HP,
		mana:       rec.Mana,
		stamina:    rec.Stamina,
		attributes: attrs,
		anatomy:    NewAnatomy(plan, rec.HP.Max),
		catalysts:  catalysts,
		room:       rec.Room,
		equipment:  map[string]string{},
		pending:    append([]ItemRecord(nil), rec.Items...),
	}
}

func (c *Character) Name() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.name
}

func (c *Character) Class() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.class
}

func (c *Character) Level() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.level
}

func (c *Character) Experience() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.experience
}

func (c *Character) Location() vnum.VNum {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.room
}

func (c *Character) setRoom(v vnum.VNum) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.room = v
}

func (c *Character) Health() (current, maximum int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hp.Current, c.hp.Max
}

// Pools returns copies of the health, mana and stamina pools.
func (c *Character) Pools() (hp, mana, stamina Pool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hp, c.mana, c.stamina
}

// IsAlive is false once health is gone or a vital part is destroyed.
func (c *Character) IsAlive() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hp.Current > 0 && !c.anatomy.VitalDestroyed()
}

func (c *Character) Attribute(a Attribute) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.attributes.Total(a)
}

func (c *Character) BodyParts() Anatomy {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.anatomy.Clone()
}

func (c *Character) ApplyDamage(partID string, amount int) BodyPart {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.hp.Drain(amount)

	p := c.anatomy.Part(partID)
	if p == nil {
		return BodyPart{}
	}
	p.Damage(amount)
	return *p
}

func (c *Character) SeverPart(partID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if p := c.anatomy.Part(partID); p != nil {
		p.Severed = true
	}
}

// Revive restores the character to hp health with a whole body.
func (c *Character) Revive(hp int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, p := range c.anatomy {
		p.HP = p.MaxHP
		p.Severed = false
		p.Broken = false
	}
	c.hp.Current = min(c.hp.Max, max(1, hp))
}

// AwardXP adds experience, applying as many level ups as it pays for. It
// returns the levels gained.
func (c *Character) AwardXP(amount int) []int {
	c.mu.Lock()
	defer c.mu.Unlock()

	if amount <= 0 || c.level >= MaxLevel {
		return nil
	}

	c.experience += amount

	var gained []int
	for c.level < MaxLevel {
		req := XPToNextLevel(c.level, c.remorts)
		if c.experience < req {
			break
		}
		c.experience -= req
		c.level++

		c.hp.Max += 10 + c.attributes.Total(Constitution)/2
		c.hp.Fill()
		c.mana.Max += 5 + c.attributes.Total(Intelligence)/2
		c.mana.Fill()

		gained = append(gained, c.level)
	}
	if len(gained) > 0 {
		c.anatomy.Rescale(c.hp.Max)
	}
	return gained
}

// Remort starts a max level character over at level one as class. Each
// remort makes later levels cost more.
func (c *Character) Remort(class string) error {
	if !KnownClass(class) {
		return fmt.Errorf("%w %q", ErrUnknownClass, class)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.level < MaxLevel {
		return ErrBelowMaxLevel
	}
	c.class = class
	c.level = 1
	c.experience = 0
	c.remorts++
	return nil
}

func (c *Character) Remorts() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.remorts
}

// GiveCatalyst adds n of a catalyst to the character's pouch.
func (c *Character) GiveCatalyst(name string, n int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.catalysts[name] += n
}

func (c *Character) Catalysts() map[string]int {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make(map[string]int, len(c.catalysts))
	for k, v := range c.catalysts {
		out[k] = v
	}
	return out
}

// record captures the durable state. items comes from World.
func (c *Character) record(items []ItemRecord) *CharacterRecord {
	c.mu.Lock()
	defer c.mu.Unlock()

	attrs := make(Attributes, len(c.attributes))
	for k, v := range c.attributes {
		attrs[k] = v
	}
	catalysts := make(map[string]int, len(c.catalysts))
	for k, v := range c.catalysts {
		catalysts[k] = v
	}

	return &CharacterRecord{
		Name:       c.name,
		Class:      c.class,
		Level:      c.level,
		Experience: c.experience,
		Remorts:    c.remorts,
		Room:       c.room,
		HP:         c.hp,
		Mana:       c.mana,
		Stamina:    c.stamina,
		Attributes: attrs,
		Items:      items,
		Catalysts:  catalysts,
	}
}
