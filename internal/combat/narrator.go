package combat

import (
	"strings"

	"github.com/pixil98/go-aeternus/internal/game"
)

var fatalities = map[game.DamageType][]string{
	game.DamageSlash: {
		"{att} carves a perfect arc with their blade, parting flesh, sinew and pride from {def} in one fluid motion!",
		"The steel of {att} sings a song of death, opening an arterial fountain in {def} that paints the floor crimson!",
		"With surgical precision {att} finds the gap in the guard and slices {def} with a brutality that chills the spine!",
	},
	game.DamageBlunt: {
		"The blow from {att} lands like thunder, pulverising the bones of {def} under an unstoppable weight!",
		"{att} turns momentum into pure ruin, folding the body of {def} at an impossible angle!",
		"There is a wet crunch as {att} connects, leaving {def} an unrecognisable wreck!",
	},
	game.DamagePierce: {
		"{att} strikes with a viper's speed, burying their weapon in {def} until it finds the other side!",
		"Like a needle through cloth, {att} runs {def} through, finding the vital organs with terrifying precision!",
		"A quick thrust, a metallic glint, and {att} withdraws a weapon slick with the lifeblood of {def}!",
	},
	game.DamageMagic: {
		"The air crackles and smells of ozone as {att} unmakes {def} with raw arcane power!",
		"{att} channels primordial chaos, wrapping {def} in a storm that tears at reality itself!",
	},
}

var defaultFatalities = []string{
	"{att} lands a masterful blow, humbling {def} with an overwhelming display of power!",
	"With a primal roar, {att} utterly overwhelms the defence of {def}!",
}

var fumbles = []string{
	"{att} trips over their own feet in a moment of supreme incompetence!",
	"The weapon of {att} slips from sweaty fingers and flies off uselessly!",
	"{att} misjudges the distance and swings wildly at empty air, nearly dislocating a shoulder!",
	"{att} loses their balance and almost falls flat on their face before finishing the attack.",
	"{att} hesitates at the last second, turning a promising attack into a clumsy flail.",
}

// FatalityLine describes a killing blow of damage type dt.
func FatalityLine(r Rand, attacker, defender string, dt game.DamageType) string {
	lines, ok := fatalities[dt]
	if !ok {
		lines = defaultFatalities
	}
	return narrate(pick(r, lines), attacker, defender)
}

// FumbleLine describes a critical failure.
func FumbleLine(r Rand, attacker string) string {
	return narrate(pick(r, fumbles), attacker, "")
}

func narrate(tmpl, attacker, defender string) string {
	return strings.NewReplacer("{att}", attacker, "{def}", defender).Replace(tmpl)
}
