package game

import "fmt"

type Attribute string

const (
	Strength     Attribute = "strength"
	Dexterity    Attribute = "dexterity"
	Constitution Attribute = "constitution"
	Intelligence Attribute = "intelligence"
	Wisdom       Attribute = "wisdom"
	Charisma     Attribute = "charisma"
	Luck         Attribute = "luck"
	Perception   Attribute = "perception"
	Willpower    Attribute = "willpower"
)

// AllAttributes lists every attribute in display order.
var AllAttributes = []Attribute{
	Strength, Dexterity, Constitution, Intelligence, Wisdom,
	Charisma, Luck, Perception, Willpower,
}

const defaultAttributeBase = 10

// Stat is one attribute value.
type Stat struct {
	Base     int `json:"base"`
	Modifier int `json:"modifier,omitempty"`
}

func (s Stat) Total() int {
	return s.Base + s.Modifier
}

// Attributes maps each attribute to its stat.
type Attributes map[Attribute]Stat

// DefaultAttributes returns every attribute at the starting base.
func DefaultAttributes() Attributes {
	a := make(Attributes, len(AllAttributes))
	for _, attr := range AllAttributes {
		a[attr] = Stat{Base: defaultAttributeBase}
	}
	return a
}

func (a Attributes) Total(attr Attribute) int {
	s, ok := a[attr]
	if !ok {
		return defaultAttributeBase
	}
	return s.Total()
}

func (a Attributes) Validate() error {
	for attr := range a {
		known := false
		for _, k := range AllAttributes {
			if attr == k {
				known = true
				break
			}
		}
		if !known {
			return fmt.Errorf("unknown attribute %q", attr)
		}
	}
	return nil
}

// Pool is a regenerating resource such as health or mana.
type Pool struct {
	Current int     `json:"current"`
	Max     int     `json:"max"`
	Regen   float64 `json:"regen"`
}

// Drain removes amount and returns what was actually removed.
func (p *Pool) Drain(amount int) int {
	if amount > p.Current {
		amount = p.Current
	}
	if amount < 0 {
		amount = 0
	}
	p.Current -= amount
	return amount
}

func (p *Pool) Restore(amount int) {
	p.Current = min(p.Max, p.Current+amount)
}

func (p *Pool) Fill() {
	p.Current = p.Max
}
