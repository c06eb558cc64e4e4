package game

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// PartFlags is the closed set of body part capabilities.
type PartFlags uint16

const (
	PartVital PartFlags = 1 << iota
	PartSeverable
	PartArmored
	PartMatBone
	PartMatStone
	PartMatWood
)

var partFlagNames = map[string]PartFlags{
	"VITAL":     PartVital,
	"SEVERABLE": PartSeverable,
	"ARMORED":   PartArmored,
	"MAT_BONE":  PartMatBone,
	"MAT_STONE": PartMatStone,
	"MAT_WOOD":  PartMatWood,
}

func (f PartFlags) Has(o PartFlags) bool { return f&o == o }

func (f PartFlags) String() string { return flagString(f, partFlagNames) }

func (f PartFlags) MarshalJSON() ([]byte, error) { return json.Marshal(flagList(f, partFlagNames)) }

func (f *PartFlags) UnmarshalJSON(b []byte) error { return unmarshalFlags(b, f, partFlagNames) }

// ItemFlags is the closed set of item capabilities.
type ItemFlags uint16

const (
	ItemSharp ItemFlags = 1 << iota
	ItemSevering
	ItemContainer
	ItemNoTake
)

var itemFlagNames = map[string]ItemFlags{
	"SHARP":     ItemSharp,
	"SEVERING":  ItemSevering,
	"CONTAINER": ItemContainer,
	"NO_TAKE":   ItemNoTake,
}

func (f ItemFlags) Has(o ItemFlags) bool { return f&o == o }

func (f ItemFlags) String() string { return flagString(f, itemFlagNames) }

func (f ItemFlags) MarshalJSON() ([]byte, error) { return json.Marshal(flagList(f, itemFlagNames)) }

func (f *ItemFlags) UnmarshalJSON(b []byte) error { return unmarshalFlags(b, f, itemFlagNames) }

// NPCFlags is the closed set of NPC status flags.
type NPCFlags uint16

const (
	NPCPredator NPCFlags = 1 << iota
	NPCAggressive
	NPCStrong
	NPCFast
	NPCElite
	NPCApex
)

var npcFlagNames = map[string]NPCFlags{
	"PREDATOR":   NPCPredator,
	"AGGRESSIVE": NPCAggressive,
	"STRONG":     NPCStrong,
	"FAST":       NPCFast,
	"ELITE":      NPCElite,
	"ZONE_APEX":  NPCApex,
}

func (f NPCFlags) Has(o NPCFlags) bool { return f&o == o }

func (f NPCFlags) String() string { return flagString(f, npcFlagNames) }

func (f NPCFlags) MarshalJSON() ([]byte, error) { return json.Marshal(flagList(f, npcFlagNames)) }

func (f *NPCFlags) UnmarshalJSON(b []byte) error { return unmarshalFlags(b, f, npcFlagNames) }

type flagSet interface {
	~uint16
}

func unmarshalFlags[F flagSet](b []byte, dst *F, names map[string]F) error {
	var list []string
	if err := json.Unmarshal(b, &list); err != nil {
		return err
	}

	var out F
	for _, n := range list {
		f, ok := names[strings.ToUpper(n)]
		if !ok {
			return fmt.Errorf("unknown flag %q", n)
		}
		out |= f
	}
	*dst = out
	return nil
}

func flagList[F flagSet](f F, names map[string]F) []string {
	list := []string{}
	for n, v := range names {
		if f&v == v {
			list = append(list, n)
		}
	}
	sort.Strings(list)
	return list
}

func flagString[F flagSet](f F, names map[string]F) string {
	return strings.Join(flagList(f, names), ",")
}

// DamageType classifies an attack for mitigation and narration.
type DamageType string

const (
	DamageSlash  DamageType = "slash"
	DamageBlunt  DamageType = "blunt"
	DamagePierce DamageType = "pierce"
	DamageMagic  DamageType = "magic"
	DamagePoison DamageType = "poison"
)

func (d DamageType) Validate() error {
	switch d {
	case DamageSlash, DamageBlunt, DamagePierce, DamageMagic, DamagePoison:
		return nil
	default:
		return fmt.Errorf("unknown damage type %q", d)
	}
}
