package sim

import "math/rand"

// severity buckets conditions by transport-disruption magnitude.
type severity int

const (
	severityExtreme  severity = iota // Heavy Snow, Thunderstorm
	severityHigh                     // Light Snow, Heavy Rain
	severityModerate                 // Light Rain
	severityCalm                     // Clear, Partly Cloudy, Frosty
)

func severityOf(c Condition) severity {
	switch c {
	case HeavySnow, Thunderstorm:
		return severityExtreme
	case LightSnow, HeavyRain:
		return severityHigh
	case LightRain:
		return severityModerate
	default:
		return severityCalm
	}
}

// MetricRanges holds the sampling intervals for one severity/mode-class cell.
type MetricRanges struct {
	Delay        Range
	Cancellation Range
	Ridership    Range
}

// metricTable is the fixed lookup of sampling intervals. Within every bucket
// the Underground column is favorable: both delay and cancellation bounds at
// or below the surface modes', both ridership bounds at or above.
var metricTable = map[severity]struct {
	Underground MetricRanges
	Other       MetricRanges
}{
	severityExtreme: {
		Underground: MetricRanges{Delay: Range{10, 20}, Cancellation: Range{2, 5}, Ridership: Range{150, 200}},
		Other:       MetricRanges{Delay: Range{20, 35}, Cancellation: Range{8, 15}, Ridership: Range{50, 150}},
	},
	severityHigh: {
		Underground: MetricRanges{Delay: Range{5, 10}, Cancellation: Range{1, 3}, Ridership: Range{220, 280}},
		Other:       MetricRanges{Delay: Range{10, 20}, Cancellation: Range{4, 8}, Ridership: Range{80, 130}},
	},
	severityModerate: {
		Underground: MetricRanges{Delay: Range{2, 5}, Cancellation: Range{0, 2}, Ridership: Range{250, 300}},
		Other:       MetricRanges{Delay: Range{5, 10}, Cancellation: Range{2, 5}, Ridership: Range{90, 140}},
	},
	severityCalm: {
		Underground: MetricRanges{Delay: Range{1, 3}, Cancellation: Range{0, 1}, Ridership: Range{280, 320}},
		Other:       MetricRanges{Delay: Range{1, 5}, Cancellation: Range{0, 2}, Ridership: Range{100, 150}},
	},
}

// RangesFor returns the sampling intervals used for a mode under a condition.
func RangesFor(c Condition, mode Mode) MetricRanges {
	cell := metricTable[severityOf(c)]
	if mode == Underground {
		return cell.Underground
	}
	return cell.Other
}

// SampleModeMetrics draws one mode's daily figures. The three draws happen
// in fixed order (delay, cancellation, ridership) and are independent across
// modes beyond sharing the condition.
func SampleModeMetrics(c Condition, mode Mode, rng *rand.Rand) ModeMetrics {
	r := RangesFor(c, mode)
	return ModeMetrics{
		DelayMinutes:        roundInt(uniform(rng, r.Delay.Low, r.Delay.High)),
		CancellationPercent: roundInt(uniform(rng, r.Cancellation.Low, r.Cancellation.High)),
		RidershipThousands:  roundInt(uniform(rng, r.Ridership.Low, r.Ridership.High)),
	}
}
