package sim

import "time"

// Condition is a day's discrete weather classification.
type Condition string

const (
	Thunderstorm Condition = "Thunderstorm"
	HeavyRain    Condition = "Heavy Rain"
	HeavySnow    Condition = "Heavy Snow"
	LightRain    Condition = "Light Rain"
	LightSnow    Condition = "Light Snow"
	Frosty       Condition = "Frosty"
	Clear        Condition = "Clear"
	PartlyCloudy Condition = "Partly Cloudy"
)

// Conditions lists every value the classifier can produce.
var Conditions = []Condition{
	Thunderstorm, HeavyRain, HeavySnow, LightRain, LightSnow,
	Frosty, Clear, PartlyCloudy,
}

// Mode is one of the six simulated public-transport categories.
type Mode string

const (
	Underground  Mode = "Underground"
	Bus          Mode = "Bus"
	Overground   Mode = "Overground"
	Tram         Mode = "Tram"
	DLR          Mode = "DLR"
	NationalRail Mode = "National Rail"
)

// Modes is the fixed simulation order. Metric draws consume randomness in
// this order, so it is part of the reproducibility contract and of the
// output column order.
var Modes = []Mode{Underground, Bus, Overground, Tram, DLR, NationalRail}

// ModeMetrics holds one mode's performance figures for a single day.
type ModeMetrics struct {
	DelayMinutes        int `json:"delay_minutes"`
	CancellationPercent int `json:"cancellation_percent"`
	RidershipThousands  int `json:"ridership_thousands"`
}

// Day is one fully simulated calendar day: the weather state plus one
// ModeMetrics per transport mode.
type Day struct {
	Date          time.Time             `json:"date"`
	Temperature   float64               `json:"temperature"`
	Precipitation int                   `json:"precipitation"`
	WindSpeed     int                   `json:"wind_speed"`
	Condition     Condition             `json:"condition"`
	Metrics       map[Mode]ModeMetrics  `json:"metrics"`
}
