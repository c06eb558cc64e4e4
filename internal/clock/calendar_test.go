package clock

import (
	"testing"

	"github.com/pixil98/go-testutil"
)

func TestDateAt(t *testing.T) {
	tests := map[string]struct {
		seconds float64
		exp     Date
	}{
		"epoch":         {seconds: 0, exp: Date{Year: 1000, Month: 1, Day: 1}},
		"half past six": {seconds: 6*3600 + 30*60, exp: Date{Year: 1000, Month: 1, Day: 1, Hour: 6, Minute: 30}},
		"second month":  {seconds: 28 * SecondsPerDay, exp: Date{Year: 1000, Month: 2, Day: 1}},
		"last day":      {seconds: 363*SecondsPerDay + 23*3600 + 59*60, exp: Date{Year: 1000, Month: 13, Day: 28, Hour: 23, Minute: 59}},
		"new year":      {seconds: 364 * SecondsPerDay, exp: Date{Year: 1001, Month: 1, Day: 1}},
		"negative":      {seconds: -50, exp: Date{Year: 1000, Month: 1, Day: 1}},
		"fractional":    {seconds: 59.9, exp: Date{Year: 1000, Month: 1, Day: 1}},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			testutil.AssertEqual(t, "date", DateAt(tt.seconds, 1000), tt.exp)
		})
	}
}

func TestDate_Season(t *testing.T) {
	tests := map[string]struct {
		month int
		exp   Season
	}{
		"opening":  {month: 1, exp: SeasonTorpor},
		"thaw":     {month: 2, exp: SeasonRebirth},
		"vigil":    {month: 4, exp: SeasonAscension},
		"fire":     {month: 5, exp: SeasonZenith},
		"crown":    {month: 7, exp: SeasonScorching},
		"harvest":  {month: 9, exp: SeasonDecline},
		"mist":     {month: 11, exp: SeasonTwilight},
		"silence":  {month: 13, exp: SeasonTorpor},
		"no month": {month: 0, exp: ""},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			testutil.AssertEqual(t, "season", Date{Month: tt.month}.Season(), tt.exp)
		})
	}
}

func TestDate_String(t *testing.T) {
	d := Date{Year: 1003, Month: 2, Day: 14, Hour: 7, Minute: 5}
	testutil.AssertEqual(t, "string", d.String(), "14 The Thaw, Year 1003 (07:05)")
}

func TestDate_IsDaytime(t *testing.T) {
	tests := map[string]struct {
		hour int
		exp  bool
	}{
		"midnight":  {hour: 0, exp: false},
		"dawn":      {hour: 6, exp: true},
		"afternoon": {hour: 17, exp: true},
		"dusk":      {hour: 18, exp: false},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			testutil.AssertEqual(t, "daytime", Date{Hour: tt.hour}.IsDaytime(), tt.exp)
		})
	}
}

func TestWeatherFor(t *testing.T) {
	tests := map[string]struct {
		season  Season
		climate Climate
		expTemp string
		expRain string
	}{
		"underground ignores season": {season: SeasonZenith, climate: ClimateUnderground, expTemp: "neutral", expRain: "none"},
		"arctic summer":              {season: SeasonZenith, climate: ClimateArctic, expTemp: "cold", expRain: "none"},
		"arctic winter":              {season: SeasonTorpor, climate: ClimateArctic, expTemp: "freezing", expRain: "snow"},
		"temperate spring":           {season: SeasonRebirth, climate: ClimateTemperate, expTemp: "cool", expRain: "rain"},
		"temperate winter":           {season: SeasonTorpor, climate: ClimateTemperate, expTemp: "freezing", expRain: "snow"},
		"desert summer":              {season: SeasonScorching, climate: ClimateDesert, expTemp: "scorching", expRain: "none"},
		"tropical rains":             {season: SeasonTwilight, climate: ClimateTropical, expTemp: "hot", expRain: "rain"},
		"unknown climate":            {season: SeasonZenith, climate: "VOLCANIC", expTemp: "neutral", expRain: "none"},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			w := WeatherFor(tt.season, tt.climate)
			testutil.AssertEqual(t, "temperature", w.Temperature, tt.expTemp)
			testutil.AssertEqual(t, "precipitation", w.Precipitation, tt.expRain)
		})
	}
}

func TestClimateOf(t *testing.T) {
	c, ok := ClimateOf([]string{"DARK", "ARCTIC", "TEMPERATE"})
	testutil.AssertEqual(t, "found", ok, true)
	testutil.AssertEqual(t, "climate", c, ClimateArctic)

	_, ok = ClimateOf([]string{"DARK"})
	testutil.AssertEqual(t, "missing", ok, false)
}
