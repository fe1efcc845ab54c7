// Package sim models six years of daily London weather and the resulting
// public-transport performance.
//
// # Simulation shape
//
// The simulator is a day-by-day fold over a fixed date range. Temperature is
// the only state carried between days:
//
//	temp[d] = (temp[d-1] + noise) * w + monthlyMean(month) * (1 - w)
//
// with noise drawn uniformly from a fixed symmetric range and w the smoothing
// weight. The blend produces an autocorrelated, seasonally anchored series
// instead of independent daily draws. Precipitation and wind are sampled
// fresh each day from month-dependent tables.
//
// # Condition classification
//
// A day's condition is an ordered threshold check over precipitation, with
// temperature sign deciding rain versus snow:
//
//	precip > storm threshold            → Thunderstorm
//	precip > heavy threshold            → Heavy Rain | Heavy Snow
//	precip > light threshold            → Light Rain | Light Snow
//	dry, temp < cold threshold          → Frosty | Clear      (random tie-break)
//	dry, otherwise                      → Clear | Partly Cloudy (random tie-break)
//
// First match wins; the two tie-breaks are the only randomness in the
// classifier.
//
// # Transport metrics
//
// Conditions group into four severity buckets, most to least disruptive:
// {Heavy Snow, Thunderstorm} > {Light Snow, Heavy Rain} > {Light Rain} >
// everything else. Each bucket carries [low, high] sampling intervals for
// delay minutes, cancellation percent, and ridership (thousands), with a
// separate column for the Underground, which is always at least as favorable
// (lower delay and cancellation bounds, higher ridership bounds) as the five
// surface modes in the same bucket.
//
// # Reproducibility
//
// All sampling goes through one explicitly threaded *rand.Rand. The per-day
// draw order is fixed and is part of the contract for a given seed:
// temperature noise, rain-chance draw, precipitation amount (wet days only),
// wind, classifier tie-break (dry days only), then delay/cancellation/
// ridership for each mode in Modes order. Two runs with the same profile,
// range, and seed produce identical output.
//
// # Profiles
//
// The historical generator existed in two near-duplicate variants with
// different thresholds and temperature strategies. They survive here as
// named parameter profiles ("smoothed", the canonical monthly-anchored one,
// and "seasonal", the legacy flat-range one) selected at run time.
package sim
