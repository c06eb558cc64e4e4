package game

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/pixil98/go-aeternus/internal/storage"
	"github.com/pixil98/go-aeternus/internal/vnum"
	"github.com/pixil98/go-errors"
)

// NaturalAttack is an unarmed attack an NPC template can make.
type NaturalAttack struct {
	Name       string     `json:"name"`
	DamageType DamageType `json:"damage_type"`
	DamageMult float64    `json:"damage_mult,omitempty"`
	Verb       string     `json:"verb,omitempty"`
}

// LootEntry is one roll on an NPC's loot table.
type LootEntry struct {
	Item   vnum.VNum `json:"item"`
	Chance float64   `json:"chance"`
}

// NPCTemplate is the immutable blueprint of an NPC.
type NPCTemplate struct {
	Name           string                 `json:"name"`
	Aliases        []string               `json:"aliases"`
	Description    string                 `json:"description"`
	Level          int                    `json:"level"`
	BaseHP         int                    `json:"base_hp"`
	BodyPlan       storage.Ref[*BodyPlan] `json:"body_plan"`
	NaturalAttacks []NaturalAttack        `json:"natural_attacks,omitempty"`
	Loot           []LootEntry            `json:"loot,omitempty"`
	Flags          NPCFlags               `json:"flags,omitempty"`
	Attributes     Attributes             `json:"attributes,omitempty"`
}

func (t *NPCTemplate) Validate() error {
	el := errors.NewErrorList()
	if t.Name == "" {
		el.Add(fmt.Errorf("npc name is required"))
	}
	if t.Level < 1 {
		el.Add(fmt.Errorf("npc level must be at least 1"))
	}
	if t.BaseHP < 1 {
		el.Add(fmt.Errorf("npc base_hp must be at least 1"))
	}
	for i, a := range t.NaturalAttacks {
		if a.Name == "" {
			el.Add(fmt.Errorf("natural attack %d: name is required", i))
		}
		el.Add(a.DamageType.Validate())
	}
	for i, l := range t.Loot {
		if l.Chance < 0 || l.Chance > 1 {
			el.Add(fmt.Errorf("loot %d: chance must be within [0, 1]", i))
		}
	}
	el.Add(t.Attributes.Validate())
	return el.Err()
}

func (t *NPCTemplate) MatchName(name string) bool {
	return matchName(name, t.Name, t.Aliases)
}

// Progression records an NPC's rise through kills.
type Progression struct {
	Kills          int
	EvolutionStage int
	Titles         []string
}

// KillRecord is a player an NPC has killed.
type KillRecord struct {
	Victim string
	Level  int
	Method DamageType
	At     time.Time
}

// NPC is a live creature spawned from a template.
type NPC struct {
	ID         string
	TemplateID vnum.VNum
	Template   *NPCTemplate

	mu          sync.Mutex
	hp          int
	maxHP       int
	flags       NPCFlags
	anatomy     Anatomy
	progression Progression
	history     []KillRecord
	room        vnum.VNum
}

func (n *NPC) Name() string {
	return n.Template.Name
}

// FullName is the name followed by the NPC's first earned title.
func (n *NPC) FullName() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.progression.Titles) == 0 {
		return n.Template.Name
	}
	return fmt.Sprintf("%s, %s", n.Template.Name, n.progression.Titles[0])
}

func (n *NPC) Level() int {
	return n.Template.Level
}

func (n *NPC) Location() vnum.VNum {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.room
}

func (n *NPC) setRoom(v vnum.VNum) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.room = v
}

func (n *NPC) Health() (current, maximum int) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.hp, n.maxHP
}

// IsAlive is false once health is gone or a vital part is destroyed.
func (n *NPC) IsAlive() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.hp > 0 && !n.anatomy.VitalDestroyed()
}

// Attribute returns the template value, or a level based estimate when the
// template does not define it.
func (n *NPC) Attribute(a Attribute) int {
	if s, ok := n.Template.Attributes[a]; ok {
		return s.Total()
	}
	base := 8 + n.Template.Level*2
	flags := n.Flags()
	if a == Strength && flags.Has(NPCStrong) {
		base += 5
	}
	if a == Dexterity && flags.Has(NPCFast) {
		base += 5
	}
	return base
}

// BodyParts returns a copy of the anatomy.
func (n *NPC) BodyParts() Anatomy {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.anatomy.Clone()
}

// ApplyDamage removes amount from aggregate health and from the part, if
// any. It returns the part's state after the hit.
func (n *NPC) ApplyDamage(partID string, amount int) BodyPart {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.hp = max(0, n.hp-amount)

	p := n.anatomy.Part(partID)
	if p == nil {
		return BodyPart{}
	}
	p.Damage(amount)
	return *p
}

func (n *NPC) SeverPart(partID string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if p := n.anatomy.Part(partID); p != nil {
		p.Severed = true
	}
}

// Heal restores up to amount health, capped at the maximum.
func (n *NPC) Heal(amount int) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.hp = min(n.maxHP, n.hp+amount)
}

func (n *NPC) Flags() NPCFlags {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.flags
}

func (n *NPC) HasFlag(f NPCFlags) bool {
	return n.Flags().Has(f)
}

func (n *NPC) SetFlag(f NPCFlags, on bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if on {
		n.flags |= f
	} else {
		n.flags &^= f
	}
}

func (n *NPC) Progression() Progression {
	n.mu.Lock()
	defer n.mu.Unlock()
	p := n.progression
	p.Titles = append([]string(nil), n.progression.Titles...)
	return p
}

// RecordKill increments the kill count and returns the new total.
func (n *NPC) RecordKill() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.progression.Kills++
	return n.progression.Kills
}

// RecordPlayerKill stores a slain player in the kill history and counts it.
func (n *NPC) RecordPlayerKill(rec KillRecord) int {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.history = append(n.history, rec)
	n.progression.Kills++
	return n.progression.Kills
}

func (n *NPC) KillHistory() []KillRecord {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]KillRecord(nil), n.history...)
}

// AddTitle appends title unless it is already held. It reports whether the
// title was added.
func (n *NPC) AddTitle(title string) bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	for _, t := range n.progression.Titles {
		if strings.EqualFold(t, title) {
			return false
		}
	}
	n.progression.Titles = append(n.progression.Titles, title)
	return true
}

// Evolve advances the evolution stage, scales maximum health by factor and
// fully heals. It returns the new stage and the old and new maximum health.
func (n *NPC) Evolve(factor float64) (stage, oldMax, newMax int) {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.progression.EvolutionStage++
	oldMax = n.maxHP
	n.maxHP = int(float64(n.maxHP) * factor)
	n.hp = n.maxHP
	n.anatomy.Rescale(n.maxHP)
	if n.progression.EvolutionStage >= 2 {
		n.flags |= NPCElite
	}
	return n.progression.EvolutionStage, oldMax, n.maxHP
}
