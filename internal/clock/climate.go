package clock

import "slices"

type Climate string

const (
	ClimateTemperate   Climate = "TEMPERATE"
	ClimateArctic      Climate = "ARCTIC"
	ClimateDesert      Climate = "DESERT"
	ClimateTropical    Climate = "TROPICAL"
	ClimateUnderground Climate = "UNDERGROUND"
)

var climates = []Climate{ClimateTemperate, ClimateArctic, ClimateDesert, ClimateTropical, ClimateUnderground}

// ClimateOf picks the first climate named in a room's flags.
func ClimateOf(flags []string) (Climate, bool) {
	for _, f := range flags {
		if slices.Contains(climates, Climate(f)) {
			return Climate(f), true
		}
	}
	return "", false
}

type Weather struct {
	Description   string
	Temperature   string
	Precipitation string
}

var temperate = map[Season]Weather{
	SeasonRebirth:   {"Cool breezes carry the smell of wet earth.", "cool", "rain"},
	SeasonAscension: {"The sun warms the land pleasantly.", "warm", "none"},
	SeasonZenith:    {"The heat makes the air shimmer.", "hot", "none"},
	SeasonScorching: {"Dry brush crackles under a merciless sun.", "hot", "none"},
	SeasonDecline:   {"Leaves fall beneath a grey sky.", "cool", "wind"},
	SeasonTwilight:  {"Cold rains herald the end of the year.", "cold", "rain"},
	SeasonTorpor:    {"Frost covers the hardened ground.", "freezing", "snow"},
}

var unknownWeather = Weather{"The weather is impossible to read.", "neutral", "none"}

// WeatherFor looks up the weather for a season in a climate.
func WeatherFor(season Season, climate Climate) Weather {
	switch climate {
	case ClimateUnderground:
		return Weather{"The air is stale and the temperature never changes.", "neutral", "none"}
	case ClimateArctic:
		if season == SeasonZenith || season == SeasonScorching {
			return Weather{"An icy wind blows, but the ice thaws a little.", "cold", "none"}
		}
		return Weather{"An endless blizzard howls, freezing you to the marrow.", "freezing", "snow"}
	case ClimateDesert:
		switch season {
		case SeasonZenith, SeasonScorching:
			return Weather{"The sand burns and the horizon wavers in infernal heat.", "scorching", "none"}
		case SeasonTorpor:
			return Weather{"Cold night winds scour the dunes.", "cool", "wind"}
		}
		return Weather{"A dry heat presses down on the dunes.", "hot", "none"}
	case ClimateTropical:
		switch season {
		case SeasonRebirth, SeasonAscension, SeasonTwilight:
			return Weather{"Warm rain drums on the broad leaves.", "hot", "rain"}
		}
		return Weather{"The air is thick and humid under a heavy sun.", "hot", "none"}
	case ClimateTemperate:
		if w, ok := temperate[season]; ok {
			return w
		}
		return temperate[SeasonRebirth]
	}
	return unknownWeather
}
