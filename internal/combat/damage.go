package combat

import "github.com/pixil98/go-aeternus/internal/game"

const (
	baseHitChance = 60.0
	minHitChance  = 5.0
	maxHitChance  = 95.0

	defaultHitWeight = 10

	fatalityHealthShare = 0.10
	fatalityDamageShare = 0.80
	severDamageShare    = 0.5
)

// Attack is what a combatant strikes with: a weapon, a natural attack or
// bare hands.
type Attack struct {
	Name  string
	Min   int
	Max   int
	Type  game.DamageType
	Verb  string
	Flags game.ItemFlags
}

var BareHands = Attack{Name: "bare hands", Min: 1, Max: 2, Type: game.DamageBlunt, Verb: "punches"}

func weaponAttack(t *game.ItemTemplate) Attack {
	return Attack{
		Name:  t.Name,
		Min:   t.Damage.Min,
		Max:   t.Damage.Max,
		Type:  t.Damage.Type,
		Verb:  t.AttackVerb,
		Flags: t.Flags,
	}
}

func naturalAttack(nat game.NaturalAttack, level int) Attack {
	mult := nat.DamageMult
	if mult <= 0 {
		mult = 1
	}
	lo := max(1, int(float64(level)*1.5))
	hi := max(2, int(float64(level)*2.5))

	return Attack{
		Name: nat.Name,
		Min:  int(float64(lo) * mult),
		Max:  int(float64(hi) * mult),
		Type: nat.DamageType,
		Verb: nat.Verb,
	}
}

// HitChance returns the probability, between 0.05 and 0.95, that attacker
// lands a blow on defender.
func HitChance(attacker, defender Combatant) float64 {
	accuracy := 2*float64(attacker.Attribute(game.Dexterity)) +
		float64(attacker.Attribute(game.Perception)) +
		0.5*float64(attacker.Attribute(game.Luck))
	evasion := 1.5*float64(defender.Attribute(game.Dexterity)) +
		float64(defender.Attribute(game.Perception)) +
		0.5*float64(defender.Attribute(game.Luck))

	return min(maxHitChance, max(minHitChance, baseHitChance+accuracy-evasion)) / 100
}

// SelectPart picks an attached part, weighted by hit weight. It returns nil
// when nothing is left to hit.
func SelectPart(r Rand, parts game.Anatomy) *game.BodyPart {
	attached := parts.Attached()
	if len(attached) == 0 {
		return nil
	}

	total := 0
	for _, p := range attached {
		total += partWeight(p)
	}

	n := r.IntN(total)
	for _, p := range attached {
		n -= partWeight(p)
		if n < 0 {
			return p
		}
	}
	return attached[len(attached)-1]
}

func partWeight(p *game.BodyPart) int {
	if p.HitWeight <= 0 {
		return defaultHitWeight
	}
	return p.HitWeight
}

// RollDamage rolls the attack's range and adds half of strength.
func RollDamage(r Rand, a Attack, strength int, crit bool, critMult float64) int {
	hi := max(a.Min, a.Max)
	total := float64(a.Min+r.IntN(hi-a.Min+1)) + 0.5*float64(strength)
	if crit {
		total *= critMult
	}
	return int(total)
}

type resistance struct {
	material game.PartFlags
	damage   game.DamageType
	mult     float64
}

// Later entries take precedence when a part matches several.
var resistances = []resistance{
	{game.PartMatBone, game.DamagePierce, 0.5},
	{game.PartMatStone, game.DamageSlash, 0.3},
	{game.PartMatBone, game.DamageBlunt, 1.5},
	{game.PartMatWood, game.DamageSlash, 1.2},
}

// Mitigate scales raw by the part's material resistance and then subtracts
// its natural armor. The result is never below 1.
func Mitigate(raw int, dt game.DamageType, part *game.BodyPart) int {
	if part == nil {
		return max(1, raw)
	}

	armor := 0.0
	switch {
	case part.Flags.Has(game.PartArmored):
		armor = 5
	case part.Flags.Has(game.PartMatStone):
		armor = 10
	}

	mult := 1.0
	for _, res := range resistances {
		if res.damage == dt && part.Flags.Has(res.material) {
			mult = res.mult
		}
	}

	return int(max(1, float64(raw)*mult-armor))
}

// IsFatality reports whether a critical hit for dmg finishes a defender at
// hp of maxHP outright.
func IsFatality(hp, maxHP, dmg int) bool {
	return float64(hp) <= float64(maxHP)*fatalityHealthShare ||
		float64(dmg) >= float64(maxHP)*fatalityDamageShare
}

// CanSever reports whether a hit of dmg that left part in its current state
// takes it clean off.
func CanSever(dmg int, part game.BodyPart, weapon game.ItemFlags) bool {
	if !part.Flags.Has(game.PartSeverable) {
		return false
	}
	if !weapon.Has(game.ItemSharp) && !weapon.Has(game.ItemSevering) {
		return false
	}
	return float64(dmg) >= float64(part.MaxHP)*severDamageShare && part.HP <= 0
}

// DamageVerb describes a hit when the attack has no verb of its own.
func DamageVerb(dmg int) string {
	switch {
	case dmg < 5:
		return "scratches"
	case dmg > 20:
		return "DESTROYS"
	default:
		return "hits"
	}
}
