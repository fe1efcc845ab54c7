package sim

import (
	"math"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNextTemperature_AnchoredStaysNearBlend(t *testing.T) {
	p := Smoothed()
	rng := rand.New(rand.NewSource(1))

	prev := 10.0
	for i := 0; i < 1000; i++ {
		month := time.Month(i%12 + 1)
		got := NextTemperature(p, prev, month, rng)

		center := prev*p.SmoothingWeight + p.MonthlyAvgTemp[month]*(1-p.SmoothingWeight)
		bound := p.SmoothingWeight*p.NoiseAmplitude + 0.05 // rounding slack
		assert.LessOrEqual(t, math.Abs(got-center), bound,
			"month %s prev %.1f got %.1f", month, prev, got)

		// One decimal of precision.
		assert.InDelta(t, got, math.Round(got*10)/10, 1e-9)
		prev = got
	}
}

func TestNextTemperature_SeasonalWithinMonthRange(t *testing.T) {
	p := Seasonal()
	rng := rand.New(rand.NewSource(2))

	for i := 0; i < 1000; i++ {
		month := time.Month(i%12 + 1)
		got := NextTemperature(p, 0, month, rng)
		r := p.MonthlyTempRange[month]
		assert.GreaterOrEqual(t, got, r.Low)
		assert.LessOrEqual(t, got, r.High)
	}
}

func TestSamplePrecipitation(t *testing.T) {
	p := Smoothed()
	rng := rand.New(rand.NewSource(3))

	t.Run("non-negative and below ceiling", func(t *testing.T) {
		for i := 0; i < 2000; i++ {
			month := time.Month(i%12 + 1)
			got := SamplePrecipitation(p, month, rng)
			assert.GreaterOrEqual(t, got, 0)
			assert.LessOrEqual(t, float64(got), p.MonthlyAvgPrecip[month])
		}
	})

	t.Run("dry days are exactly zero, wet days occur", func(t *testing.T) {
		var dry, wet int
		for i := 0; i < 2000; i++ {
			if SamplePrecipitation(p, time.November, rng) == 0 {
				dry++
			} else {
				wet++
			}
		}
		// November ceiling 70mm is above the wet-month cutoff: 40% rain chance.
		require.NotZero(t, dry)
		require.NotZero(t, wet)
		assert.Greater(t, dry, wet)
	})
}

func TestSampleWindSpeed(t *testing.T) {
	p := Smoothed()
	rng := rand.New(rand.NewSource(4))

	for i := 0; i < 500; i++ {
		winter := SampleWindSpeed(p, time.January, rng)
		assert.GreaterOrEqual(t, float64(winter), p.WinterWind.Low)
		assert.LessOrEqual(t, float64(winter), p.WinterWind.High)

		mild := SampleWindSpeed(p, time.June, rng)
		assert.GreaterOrEqual(t, float64(mild), p.MildWind.Low)
		assert.LessOrEqual(t, float64(mild), p.MildWind.High)
	}
}
