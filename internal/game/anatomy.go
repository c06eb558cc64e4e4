package game

import (
	"fmt"

	"github.com/pixil98/go-errors"
)

const (
	// DefaultBodyPlan is used when a template names no plan.
	DefaultBodyPlan = "humanoid"

	defaultHPFactor  = 0.1
	defaultHitWeight = 10
)

// PartSpec describes one part of a body plan.
type PartSpec struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	HPFactor  float64   `json:"hp_factor,omitempty"`
	HitWeight int       `json:"hit_weight,omitempty"`
	Flags     PartFlags `json:"flags,omitempty"`
}

// BodyPlan is the template for an anatomy.
type BodyPlan struct {
	Name  string     `json:"name"`
	Parts []PartSpec `json:"parts"`
}

func (b *BodyPlan) Validate() error {
	el := errors.NewErrorList()

	if b.Name == "" {
		el.Add(fmt.Errorf("body plan name is required"))
	}
	if len(b.Parts) == 0 {
		el.Add(fmt.Errorf("body plan needs at least one part"))
	}

	seen := map[string]bool{}
	for i, p := range b.Parts {
		if p.ID == "" {
			el.Add(fmt.Errorf("part %d: id is required", i))
		}
		if seen[p.ID] {
			el.Add(fmt.Errorf("part %q: duplicate id", p.ID))
		}
		seen[p.ID] = true
		if p.HPFactor < 0 || p.HitWeight < 0 {
			el.Add(fmt.Errorf("part %q: hp_factor and hit_weight must not be negative", p.ID))
		}
	}

	return el.Err()
}

// BodyPart is a live part belonging to one NPC or character.
type BodyPart struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	HP        int       `json:"hp"`
	MaxHP     int       `json:"max_hp"`
	HitWeight int       `json:"hit_weight"`
	Flags     PartFlags `json:"flags"`
	Severed   bool      `json:"severed,omitempty"`
	Broken    bool      `json:"broken,omitempty"`

	factor float64
}

// Destroyed reports whether the part is severed or out of health.
func (p *BodyPart) Destroyed() bool {
	return p.Severed || p.HP <= 0
}

// Damage removes amount from the part, marking it broken at zero.
func (p *BodyPart) Damage(amount int) {
	p.HP = max(0, p.HP-amount)
	if p.HP == 0 {
		p.Broken = true
	}
}

// Anatomy is the ordered set of an entity's body parts.
type Anatomy []*BodyPart

// NewAnatomy builds fresh parts from plan, sized against baseHP.
func NewAnatomy(plan *BodyPlan, baseHP int) Anatomy {
	if plan == nil {
		return nil
	}

	a := make(Anatomy, 0, len(plan.Parts))
	for _, spec := range plan.Parts {
		factor := spec.HPFactor
		if factor == 0 {
			factor = defaultHPFactor
		}
		weight := spec.HitWeight
		if weight == 0 {
			weight = defaultHitWeight
		}
		hp := max(1, int(float64(baseHP)*factor))

		a = append(a, &BodyPart{
			ID:        spec.ID,
			Name:      spec.Name,
			HP:        hp,
			MaxHP:     hp,
			HitWeight: weight,
			Flags:     spec.Flags,
			factor:    factor,
		})
	}
	return a
}

// Rescale resizes every part to its share of baseHP. Damage already taken
// carries over.
func (a Anatomy) Rescale(baseHP int) {
	for _, p := range a {
		if p.factor == 0 {
			continue
		}
		size := max(1, int(float64(baseHP)*p.factor))
		p.HP = max(0, p.HP+size-p.MaxHP)
		p.MaxHP = size
	}
}

// Part returns the part with the given id, or nil.
func (a Anatomy) Part(id string) *BodyPart {
	for _, p := range a {
		if p.ID == id {
			return p
		}
	}
	return nil
}

// Attached returns the parts that have not been severed.
func (a Anatomy) Attached() []*BodyPart {
	out := make([]*BodyPart, 0, len(a))
	for _, p := range a {
		if !p.Severed {
			out = append(out, p)
		}
	}
	return out
}

// VitalDestroyed reports whether any vital part is severed or at zero.
func (a Anatomy) VitalDestroyed() bool {
	for _, p := range a {
		if p.Flags.Has(PartVital) && p.Destroyed() {
			return true
		}
	}
	return false
}

// Clone deep-copies the anatomy.
func (a Anatomy) Clone() Anatomy {
	if a == nil {
		return nil
	}
	out := make(Anatomy, len(a))
	for i, p := range a {
		cp := *p
		out[i] = &cp
	}
	return out
}

