package sim

import "math/rand"

// Classify maps a day's precipitation and temperature to a condition via
// ordered threshold checks; first match wins. Above the light threshold the
// result is a pure function of the inputs. On dry days the only randomness
// is the Frosty/Clear and Clear/Partly Cloudy tie-breaks, which consume
// exactly one draw.
func Classify(p Profile, precipitation int, temperature float64, rng *rand.Rand) Condition {
	precip := float64(precipitation)
	switch {
	case precip > p.Thresholds.Storm:
		return Thunderstorm
	case precip > p.Thresholds.Heavy:
		if temperature > 0 {
			return HeavyRain
		}
		return HeavySnow
	case precip > p.Thresholds.Light:
		if temperature > 0 {
			return LightRain
		}
		return LightSnow
	}

	if temperature < p.ColdTemperature {
		if rng.Float64() < p.FrostyChance {
			return Frosty
		}
		return Clear
	}
	if rng.Float64() < p.ClearChance {
		return Clear
	}
	return PartlyCloudy
}

// DeterministicCondition returns the condition for a wet day (precipitation
// above the light threshold) where no tie-break applies, and false on dry
// days. Validation tooling uses it to recheck emitted rows.
func DeterministicCondition(p Profile, precipitation int, temperature float64) (Condition, bool) {
	if float64(precipitation) <= p.Thresholds.Light {
		return "", false
	}
	// rng is never consulted above the light threshold.
	return Classify(p, precipitation, temperature, nil), true
}
