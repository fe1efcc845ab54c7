package dataset

import (
	"fmt"

	"github.com/transitlab/transit-weather-sim/internal/regtree"
	"github.com/transitlab/transit-weather-sim/internal/sim"
)

// Predictor serves delay predictions from one regression tree per mode,
// each fitted on the loaded dataset at startup.
type Predictor struct {
	trees   map[sim.Mode]*regtree.Tree
	metrics map[sim.Mode]regtree.Metrics
}

// TrainPredictor fits a shallow tree per mode on weather features. The seed
// fixes the holdout shuffle so evaluation figures are reproducible.
func TrainPredictor(d *Dataset, seed int64, opts ...regtree.Option) (*Predictor, error) {
	p := &Predictor{
		trees:   make(map[sim.Mode]*regtree.Tree, len(sim.Modes)),
		metrics: make(map[sim.Mode]regtree.Metrics, len(sim.Modes)),
	}
	for _, mode := range sim.Modes {
		X, y := FeatureMatrix(d.Days(), mode)
		tree, m, err := regtree.TrainEval(X, y, seed, opts...)
		if err != nil {
			return nil, fmt.Errorf("train %s model: %w", mode, err)
		}
		p.trees[mode] = tree
		p.metrics[mode] = m
	}
	return p, nil
}

// Predict returns the estimated delay minutes for a mode under the given
// weather, plus the model's holdout metrics. Unknown modes are an error.
func (p *Predictor) Predict(mode sim.Mode, temperature, precipitation, windSpeed float64) (float64, regtree.Metrics, error) {
	tree, ok := p.trees[mode]
	if !ok {
		return 0, regtree.Metrics{}, fmt.Errorf("unknown mode %q", mode)
	}
	return tree.Predict([]float64{temperature, precipitation, windSpeed}), p.metrics[mode], nil
}
