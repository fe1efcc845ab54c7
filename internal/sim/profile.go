package sim

import (
	"fmt"
	"time"
)

// Range is an inclusive [Low, High] sampling interval.
type Range struct {
	Low  float64
	High float64
}

// TemperatureModel selects how the daily temperature is derived.
type TemperatureModel string

const (
	// TempAnchored blends a noisy continuation of yesterday's value with
	// the month's climatological mean.
	TempAnchored TemperatureModel = "anchored"
	// TempSeasonal draws each day independently from a flat monthly range.
	TempSeasonal TemperatureModel = "seasonal"
)

// Thresholds are the ordered precipitation cutoffs (mm) for the condition
// classifier. Storm > Heavy > Light must hold.
type Thresholds struct {
	Storm float64
	Heavy float64
	Light float64
}

// Profile holds every tunable constant of the simulation. The two shipped
// profiles correspond to the two historical generator variants.
type Profile struct {
	Name             string
	TemperatureModel TemperatureModel

	// Anchored model parameters.
	InitialTemperature float64
	SmoothingWeight    float64
	NoiseAmplitude     float64
	MonthlyAvgTemp     map[time.Month]float64

	// Seasonal model parameters.
	MonthlyTempRange map[time.Month]Range

	// Precipitation: per-month ceiling (mm) and the two rain probabilities.
	// WetRainChance applies when the month's ceiling exceeds WetMonthPrecip.
	MonthlyAvgPrecip map[time.Month]float64
	WetMonthPrecip   float64
	WetRainChance    float64
	DryRainChance    float64

	// Wind: winter months draw from WinterWind, the rest from MildWind.
	WinterMonths map[time.Month]bool
	WinterWind   Range
	MildWind     Range

	// Classifier constants.
	Thresholds      Thresholds
	ColdTemperature float64
	FrostyChance    float64
	ClearChance     float64
}

// Smoothed is the canonical profile: monthly-anchored temperature with the
// London climatological tables.
func Smoothed() Profile {
	return Profile{
		Name:             "smoothed",
		TemperatureModel: TempAnchored,

		InitialTemperature: 10,
		SmoothingWeight:    0.7,
		NoiseAmplitude:     2,
		MonthlyAvgTemp: map[time.Month]float64{
			time.January: 5, time.February: 6, time.March: 9,
			time.April: 12, time.May: 16, time.June: 19,
			time.July: 22, time.August: 21, time.September: 18,
			time.October: 14, time.November: 9, time.December: 6,
		},

		MonthlyAvgPrecip: map[time.Month]float64{
			time.January: 55, time.February: 40, time.March: 45,
			time.April: 40, time.May: 45, time.June: 35,
			time.July: 40, time.August: 45, time.September: 50,
			time.October: 65, time.November: 70, time.December: 65,
		},
		WetMonthPrecip: 50,
		WetRainChance:  0.4,
		DryRainChance:  0.2,

		WinterMonths: winterMonths(),
		WinterWind:   Range{Low: 15, High: 35},
		MildWind:     Range{Low: 5, High: 25},

		Thresholds:      Thresholds{Storm: 20, Heavy: 10, Light: 2},
		ColdTemperature: 3,
		FrostyChance:    0.7,
		ClearChance:     0.7,
	}
}

// Seasonal is the legacy profile: flat per-season temperature draws and the
// older thresholds. It keeps the canonical classifier shape; the legacy
// script's dry sub-zero branch (Light Snow without precipitation) is not
// carried over.
func Seasonal() Profile {
	tempRanges := make(map[time.Month]Range, 12)
	for m := time.January; m <= time.December; m++ {
		switch m {
		case time.December, time.January, time.February:
			tempRanges[m] = Range{Low: -10, High: 5}
		case time.March, time.April, time.May:
			tempRanges[m] = Range{Low: 5, High: 20}
		case time.June, time.July, time.August:
			tempRanges[m] = Range{Low: 20, High: 35}
		default:
			tempRanges[m] = Range{Low: 10, High: 25}
		}
	}

	precip := make(map[time.Month]float64, 12)
	for m := time.January; m <= time.December; m++ {
		precip[m] = 20
	}

	return Profile{
		Name:             "seasonal",
		TemperatureModel: TempSeasonal,
		MonthlyTempRange: tempRanges,

		MonthlyAvgPrecip: precip,
		WetMonthPrecip:   50, // never exceeded; rain chance is flat 0.3
		WetRainChance:    0.3,
		DryRainChance:    0.3,

		WinterMonths: winterMonths(),
		WinterWind:   Range{Low: 5, High: 30},
		MildWind:     Range{Low: 5, High: 30},

		Thresholds:      Thresholds{Storm: 15, Heavy: 10, Light: 5},
		ColdTemperature: 0,
		FrostyChance:    0.2,
		ClearChance:     0.7,
	}
}

// ProfileByName resolves a profile by its run-time name.
func ProfileByName(name string) (Profile, error) {
	switch name {
	case "smoothed":
		return Smoothed(), nil
	case "seasonal":
		return Seasonal(), nil
	default:
		return Profile{}, fmt.Errorf("unknown profile %q (want smoothed or seasonal)", name)
	}
}

// Validate checks that every lookup table is total over the 12 months and
// that all constants are coherent. A validation failure is fatal and happens
// before any row is written.
func (p Profile) Validate() error {
	switch p.TemperatureModel {
	case TempAnchored:
		if err := checkMonths("MonthlyAvgTemp", func(m time.Month) bool { _, ok := p.MonthlyAvgTemp[m]; return ok }); err != nil {
			return err
		}
		if p.SmoothingWeight < 0 || p.SmoothingWeight > 1 {
			return fmt.Errorf("SmoothingWeight %v outside [0, 1]", p.SmoothingWeight)
		}
		if p.NoiseAmplitude < 0 {
			return fmt.Errorf("NoiseAmplitude %v is negative", p.NoiseAmplitude)
		}
	case TempSeasonal:
		if err := checkMonths("MonthlyTempRange", func(m time.Month) bool { _, ok := p.MonthlyTempRange[m]; return ok }); err != nil {
			return err
		}
		for m, r := range p.MonthlyTempRange {
			if r.Low > r.High {
				return fmt.Errorf("MonthlyTempRange[%s]: low %v > high %v", m, r.Low, r.High)
			}
		}
	default:
		return fmt.Errorf("unknown temperature model %q", p.TemperatureModel)
	}

	if err := checkMonths("MonthlyAvgPrecip", func(m time.Month) bool { _, ok := p.MonthlyAvgPrecip[m]; return ok }); err != nil {
		return err
	}
	for m, v := range p.MonthlyAvgPrecip {
		if v < 0 {
			return fmt.Errorf("MonthlyAvgPrecip[%s] %v is negative", m, v)
		}
	}

	for _, c := range []struct {
		name  string
		value float64
	}{
		{"WetRainChance", p.WetRainChance},
		{"DryRainChance", p.DryRainChance},
		{"FrostyChance", p.FrostyChance},
		{"ClearChance", p.ClearChance},
	} {
		if c.value < 0 || c.value > 1 {
			return fmt.Errorf("%s %v outside [0, 1]", c.name, c.value)
		}
	}

	for _, r := range []struct {
		name string
		r    Range
	}{
		{"WinterWind", p.WinterWind},
		{"MildWind", p.MildWind},
	} {
		if r.r.Low > r.r.High || r.r.Low < 0 {
			return fmt.Errorf("%s range [%v, %v] is invalid", r.name, r.r.Low, r.r.High)
		}
	}

	t := p.Thresholds
	if !(t.Storm > t.Heavy && t.Heavy > t.Light && t.Light >= 0) {
		return fmt.Errorf("thresholds %v/%v/%v must satisfy storm > heavy > light >= 0", t.Storm, t.Heavy, t.Light)
	}

	return nil
}

func checkMonths(table string, has func(time.Month) bool) error {
	for m := time.January; m <= time.December; m++ {
		if !has(m) {
			return fmt.Errorf("%s is missing an entry for %s", table, m)
		}
	}
	return nil
}

func winterMonths() map[time.Month]bool {
	return map[time.Month]bool{
		time.November: true, time.December: true,
		time.January: true, time.February: true,
	}
}
