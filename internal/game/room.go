package game

import (
	"fmt"
	"slices"
	"strings"

	"github.com/pixil98/go-aeternus/internal/vnum"
	"github.com/pixil98/go-errors"
)

type Direction string

const (
	North Direction = "north"
	South Direction = "south"
	East  Direction = "east"
	West  Direction = "west"
	Up    Direction = "up"
	Down  Direction = "down"
)

// Directions lists every direction in display order.
var Directions = []Direction{North, South, East, West, Up, Down}

// ParseDirection accepts a full direction name or its first letter.
func ParseDirection(s string) (Direction, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return "", false
	}
	for _, d := range Directions {
		if string(d) == s || (len(s) == 1 && string(d)[0] == s[0]) {
			return d, true
		}
	}
	return "", false
}

// Exit connects a room to another.
type Exit struct {
	To     vnum.VNum `json:"to"`
	Locked bool      `json:"locked,omitempty"`
	Hidden bool      `json:"hidden,omitempty"`
	Key    vnum.VNum `json:"key,omitempty"`
}

// Room is a location loaded from the catalog. Its descriptive fields never
// change; the membership lists are written only by World.
type Room struct {
	Title     string             `json:"title"`
	DayDesc   string             `json:"description_day"`
	NightDesc string             `json:"description_night,omitempty"`
	Sensory   map[string]string  `json:"sensory,omitempty"`
	Flags     []string           `json:"flags,omitempty"`
	Exits     map[Direction]Exit `json:"exits,omitempty"`

	id      vnum.VNum
	npcs    []string
	items   []string
	players []string
}

func (r *Room) Validate() error {
	el := errors.NewErrorList()
	if r.Title == "" {
		el.Add(fmt.Errorf("room title is required"))
	}
	if r.DayDesc == "" {
		el.Add(fmt.Errorf("room description_day is required"))
	}
	for d, e := range r.Exits {
		if _, ok := ParseDirection(string(d)); !ok || len(d) == 1 {
			el.Add(fmt.Errorf("exit %q: unknown direction", d))
		}
		if !e.To.Valid() {
			el.Add(fmt.Errorf("exit %q: target %d out of range", d, e.To))
		}
	}
	return el.Err()
}

func (r *Room) ID() vnum.VNum {
	return r.id
}

func (r *Room) HasFlag(flag string) bool {
	for _, f := range r.Flags {
		if strings.EqualFold(f, flag) {
			return true
		}
	}
	return false
}

// Description picks the day or night text.
func (r *Room) Description(daytime bool) string {
	if !daytime && r.NightDesc != "" {
		return r.NightDesc
	}
	return r.DayDesc
}

// Exit returns the exit in direction d.
func (r *Room) Exit(d Direction) (Exit, bool) {
	e, ok := r.Exits[d]
	return e, ok
}

func addMember(list []string, id string) []string {
	if slices.Contains(list, id) {
		return list
	}
	return append(list, id)
}

func removeMember(list []string, id string) []string {
	return slices.DeleteFunc(list, func(s string) bool { return s == id })
}
