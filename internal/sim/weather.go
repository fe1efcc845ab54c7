package sim

import (
	"math"
	"math/rand"
	"time"
)

// uniform returns a draw in [low, high).
func uniform(rng *rand.Rand, low, high float64) float64 {
	return low + rng.Float64()*(high-low)
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func roundInt(v float64) int {
	return int(math.Round(v))
}

// NextTemperature advances the temperature fold by one day and returns the
// new value rounded to one decimal. Under the anchored model the day-to-day
// change is bounded by w*noise + (1-w)*|monthlyMean - prev|, which keeps the
// series smooth even though monthly means differ by up to 17 degrees.
func NextTemperature(p Profile, prev float64, month time.Month, rng *rand.Rand) float64 {
	if p.TemperatureModel == TempSeasonal {
		r := p.MonthlyTempRange[month]
		return round1(uniform(rng, r.Low, r.High))
	}

	noisy := prev + uniform(rng, -p.NoiseAmplitude, p.NoiseAmplitude)
	blended := noisy*p.SmoothingWeight + p.MonthlyAvgTemp[month]*(1-p.SmoothingWeight)
	return round1(blended)
}

// SamplePrecipitation returns the day's precipitation in whole millimetres.
// Most days are dry: rain happens with the month's chance, and only then is
// an amount drawn, uniformly up to the monthly ceiling.
func SamplePrecipitation(p Profile, month time.Month, rng *rand.Rand) int {
	ceiling := p.MonthlyAvgPrecip[month]
	chance := p.DryRainChance
	if ceiling > p.WetMonthPrecip {
		chance = p.WetRainChance
	}
	if rng.Float64() >= chance {
		return 0
	}
	return roundInt(uniform(rng, 0, ceiling))
}

// SampleWindSpeed returns the day's wind speed in whole km/h, drawn from the
// winter range in winter months and the milder range otherwise.
func SampleWindSpeed(p Profile, month time.Month, rng *rand.Rand) int {
	r := p.MildWind
	if p.WinterMonths[month] {
		r = p.WinterWind
	}
	return roundInt(uniform(rng, r.Low, r.High))
}
