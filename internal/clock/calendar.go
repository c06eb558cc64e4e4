package clock

import "fmt"

const (
	SecondsPerDay  = 86400
	MonthsPerYear  = 13
	DaysPerMonth   = 28
	DaysPerYear    = MonthsPerYear * DaysPerMonth
	FirstDayHour   = 6
	FirstNightHour = 18
)

type Season string

const (
	SeasonRebirth   Season = "Rebirth"
	SeasonAscension Season = "Ascension"
	SeasonZenith    Season = "Zenith"
	SeasonScorching Season = "Scorching"
	SeasonDecline   Season = "Decline"
	SeasonTwilight  Season = "Twilight"
	SeasonTorpor    Season = "Torpor"
)

var monthNames = [MonthsPerYear]string{
	"Opening of the Gates",
	"The Thaw",
	"Sowing",
	"Sun's Vigil",
	"High Fire",
	"The Burning",
	"The Golden Crown",
	"The First Wind",
	"Blood Harvest",
	"Dry Leaf",
	"The Mist",
	"Black Ice",
	"The Silence",
}

var monthSeasons = [MonthsPerYear]Season{
	SeasonTorpor,
	SeasonRebirth,
	SeasonRebirth,
	SeasonAscension,
	SeasonZenith,
	SeasonScorching,
	SeasonScorching,
	SeasonDecline,
	SeasonDecline,
	SeasonTwilight,
	SeasonTwilight,
	SeasonTorpor,
	SeasonTorpor,
}

// Date is a calendar position. Month and Day are 1-based.
type Date struct {
	Year   int
	Month  int
	Day    int
	Hour   int
	Minute int
}

// DateAt derives the calendar date for a number of elapsed world seconds.
func DateAt(totalSeconds float64, yearOffset int) Date {
	if totalSeconds < 0 {
		totalSeconds = 0
	}
	total := int64(totalSeconds)
	days := total / SecondsPerDay
	second := total % SecondsPerDay
	dayOfYear := days % DaysPerYear

	return Date{
		Year:   yearOffset + int(days/DaysPerYear),
		Month:  int(dayOfYear/DaysPerMonth) + 1,
		Day:    int(dayOfYear%DaysPerMonth) + 1,
		Hour:   int(second / 3600),
		Minute: int(second % 3600 / 60),
	}
}

func (d Date) Season() Season {
	if d.Month < 1 || d.Month > MonthsPerYear {
		return ""
	}
	return monthSeasons[d.Month-1]
}

func (d Date) MonthName() string {
	if d.Month < 1 || d.Month > MonthsPerYear {
		return "???"
	}
	return monthNames[d.Month-1]
}

func (d Date) IsDaytime() bool {
	return d.Hour >= FirstDayHour && d.Hour < FirstNightHour
}

func (d Date) String() string {
	return fmt.Sprintf("%d %s, Year %d (%02d:%02d)", d.Day, d.MonthName(), d.Year, d.Hour, d.Minute)
}
