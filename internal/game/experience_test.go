package game

import (
	"testing"

	"github.com/pixil98/go-testutil"
)

func TestXPToNextLevel(t *testing.T) {
	tests := map[string]struct {
		level   int
		remorts int
		exp     int
	}{
		"level one":           {level: 1, exp: 2000},
		"level two":           {level: 2, exp: 2160},
		"level one remort two": {level: 1, remorts: 2, exp: 2400},
		"max level":           {level: MaxLevel, exp: 0},
		"below one":           {level: 0, exp: 2000},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			testutil.AssertEqual(t, "xp", XPToNextLevel(tt.level, tt.remorts), tt.exp)
		})
	}
}

func TestLevelPenalty(t *testing.T) {
	tests := map[string]struct {
		actor  int
		target int
		exp    float64
	}{
		"grey":        {actor: 20, target: 10, exp: 0.0},
		"far below":   {actor: 20, target: 15, exp: 0.2},
		"below":       {actor: 20, target: 18, exp: 0.8},
		"even":        {actor: 20, target: 20, exp: 1.0},
		"two above":   {actor: 20, target: 22, exp: 1.0},
		"three above": {actor: 20, target: 23, exp: 1.2},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			testutil.AssertEqual(t, "penalty", LevelPenalty(tt.actor, tt.target), tt.exp)
		})
	}
}

func TestXPGain(t *testing.T) {
	tests := map[string]struct {
		class  string
		source XPSource
		amount int
		target int
		exp    int
	}{
		"warrior damage":     {class: "warrior", source: XPDamage, amount: 12, target: 1, exp: 12},
		"warrior tank":       {class: "warrior", source: XPTank, amount: 10, target: 1, exp: 15},
		"warrior kill":       {class: "warrior", source: XPKill, target: 1, exp: 150},
		"rogue tank":         {class: "rogue", source: XPTank, amount: 10, target: 1, exp: 0},
		"unknown class":      {class: "bard", source: XPKill, target: 1, exp: 150},
		"mage damage":        {class: "mage", source: XPDamage, amount: 10, target: 2, exp: 15},
		"novice kill":        {class: "novice", source: XPKill, target: 1, exp: 100000},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			got := XPGain(tt.class, 1, tt.source, tt.amount, tt.target)
			testutil.AssertEqual(t, "xp", got, tt.exp)
		})
	}
}
