package game

import (
	"maps"
	"math"
	"slices"
)

const (
	// MaxLevel is the highest level a character can reach.
	MaxLevel = 100

	baseXPRequired = 2000
	xpGrowthRate   = 1.08
	remortPenalty  = 0.10

	mobBaseXP   = 100
	mobXPGrowth = 1.058
)

// XPSource is the kind of deed that earns experience.
type XPSource string

const (
	XPDamage XPSource = "damage"
	XPTank   XPSource = "tank"
	XPKill   XPSource = "kill"
	XPHeal   XPSource = "heal"
)

type classMultipliers map[XPSource]float64

const defaultClass = "warrior"

var classTable = map[string]classMultipliers{
	"novice":        {XPDamage: 1.0, XPHeal: 1.0, XPKill: 1000.0, XPTank: 1.0},
	"iron_vanguard": {XPDamage: 0.8, XPHeal: 0.0, XPKill: 1.0, XPTank: 4.0},
	"mage":          {XPDamage: 1.5, XPHeal: 0.0, XPKill: 1.2, XPTank: 0.1},
	"cleric":        {XPDamage: 0.5, XPHeal: 4.0, XPKill: 0.5, XPTank: 0.5},
	"rogue":         {XPDamage: 1.5, XPHeal: 0.0, XPKill: 1.0, XPTank: 0.0},
	"warrior":       {XPDamage: 1.0, XPHeal: 0.0, XPKill: 1.5, XPTank: 1.5},
}

// KnownClass reports whether class has an experience profile.
func KnownClass(class string) bool {
	_, ok := classTable[class]
	return ok
}

// Classes lists every known class in name order.
func Classes() []string {
	return slices.Sorted(maps.Keys(classTable))
}

// XPToNextLevel returns the experience needed to advance past level.
func XPToNextLevel(level, remorts int) int {
	if level < 1 {
		return baseXPRequired
	}
	if level >= MaxLevel {
		return 0
	}
	base := baseXPRequired * math.Pow(xpGrowthRate, float64(level-1))
	return int(base * (1.0 + float64(remorts)*remortPenalty))
}

// MobXP returns the base experience value of a creature of the given level.
func MobXP(level int) int {
	if level < 1 {
		return 10
	}
	return int(mobBaseXP * math.Pow(mobXPGrowth, float64(level-1)))
}

// LevelPenalty scales experience by how the target's level compares to the
// actor's.
func LevelPenalty(actorLevel, targetLevel int) float64 {
	diff := targetLevel - actorLevel
	switch {
	case diff <= -10:
		return 0.0
	case diff <= -5:
		return 0.2
	case diff <= -2:
		return 0.8
	case diff >= 3:
		return 1.2
	default:
		return 1.0
	}
}

// XPGain returns the experience a character of class and actorLevel earns
// from source. amount is ignored for kills.
func XPGain(class string, actorLevel int, source XPSource, amount, targetLevel int) int {
	mults, ok := classTable[class]
	if !ok {
		mults = classTable[defaultClass]
	}
	roleMult, ok := mults[source]
	if !ok {
		roleMult = 1.0
	}

	base := amount
	if source == XPKill {
		base = MobXP(targetLevel)
	}

	return max(0, int(float64(base)*roleMult*LevelPenalty(actorLevel, targetLevel)))
}
