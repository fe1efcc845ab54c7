// Package regtree implements a shallow CART regression tree: recursive
// binary splits chosen by variance reduction, mean-value leaves.
package regtree

import (
	"errors"
	"math"
	"math/rand"
	"sort"
)

// ErrNoData is returned when Fit is called with an empty sample set.
var ErrNoData = errors.New("regtree: no training data")

// node is one tree node: either an internal split or a leaf with a value.
type node struct {
	feature   int
	threshold float64
	left      *node
	right     *node
	value     float64
	leaf      bool
}

// Tree is a regression tree. Configure it with options, then Fit.
type Tree struct {
	root            *node
	maxDepth        int
	minSamplesSplit int
}

// Option configures a Tree.
type Option func(*Tree)

// WithMaxDepth limits how deep the tree may grow.
func WithMaxDepth(d int) Option {
	return func(t *Tree) { t.maxDepth = d }
}

// WithMinSamplesSplit sets the minimum sample count a node needs to split.
func WithMinSamplesSplit(n int) Option {
	return func(t *Tree) { t.minSamplesSplit = n }
}

// New creates a tree with the given options. Defaults are shallow: depth 4,
// minimum 10 samples per split.
func New(opts ...Option) *Tree {
	t := &Tree{maxDepth: 4, minSamplesSplit: 10}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Fit builds the tree from feature rows X and targets y.
func (t *Tree) Fit(X [][]float64, y []float64) error {
	if len(X) == 0 || len(X) != len(y) {
		return ErrNoData
	}
	idx := make([]int, len(X))
	for i := range idx {
		idx[i] = i
	}
	t.root = t.build(X, y, idx, 0)
	return nil
}

// Predict returns the tree's estimate for one feature row. The tree must be
// fitted first.
func (t *Tree) Predict(x []float64) float64 {
	n := t.root
	for n != nil && !n.leaf {
		if x[n.feature] <= n.threshold {
			n = n.left
		} else {
			n = n.right
		}
	}
	if n == nil {
		return 0
	}
	return n.value
}

func (t *Tree) build(X [][]float64, y []float64, idx []int, depth int) *node {
	if depth >= t.maxDepth || len(idx) < t.minSamplesSplit {
		return &node{leaf: true, value: mean(y, idx)}
	}

	feature, threshold, ok := bestSplit(X, y, idx)
	if !ok {
		return &node{leaf: true, value: mean(y, idx)}
	}

	var left, right []int
	for _, i := range idx {
		if X[i][feature] <= threshold {
			left = append(left, i)
		} else {
			right = append(right, i)
		}
	}
	if len(left) == 0 || len(right) == 0 {
		return &node{leaf: true, value: mean(y, idx)}
	}

	return &node{
		feature:   feature,
		threshold: threshold,
		left:      t.build(X, y, left, depth+1),
		right:     t.build(X, y, right, depth+1),
	}
}

// bestSplit scans every feature's midpoints for the split with the lowest
// weighted child variance. Returns ok=false when no split reduces variance.
func bestSplit(X [][]float64, y []float64, idx []int) (int, float64, bool) {
	parentVar := variance(y, idx) * float64(len(idx))
	bestScore := parentVar
	bestFeature, bestThreshold := -1, 0.0

	nFeatures := len(X[idx[0]])
	for f := 0; f < nFeatures; f++ {
		values := make([]float64, 0, len(idx))
		for _, i := range idx {
			values = append(values, X[i][f])
		}
		sort.Float64s(values)

		for v := 1; v < len(values); v++ {
			if values[v] == values[v-1] {
				continue
			}
			threshold := (values[v] + values[v-1]) / 2

			var left, right []int
			for _, i := range idx {
				if X[i][f] <= threshold {
					left = append(left, i)
				} else {
					right = append(right, i)
				}
			}
			score := variance(y, left)*float64(len(left)) + variance(y, right)*float64(len(right))
			if score < bestScore {
				bestScore = score
				bestFeature = f
				bestThreshold = threshold
			}
		}
	}

	if bestFeature < 0 {
		return 0, 0, false
	}
	return bestFeature, bestThreshold, true
}

func mean(y []float64, idx []int) float64 {
	if len(idx) == 0 {
		return 0
	}
	var sum float64
	for _, i := range idx {
		sum += y[i]
	}
	return sum / float64(len(idx))
}

func variance(y []float64, idx []int) float64 {
	if len(idx) == 0 {
		return 0
	}
	m := mean(y, idx)
	var sum float64
	for _, i := range idx {
		d := y[i] - m
		sum += d * d
	}
	return sum / float64(len(idx))
}

// Metrics holds holdout evaluation figures for a fitted tree.
type Metrics struct {
	MAE  float64 `json:"mae"`
	RMSE float64 `json:"rmse"`
	R2   float64 `json:"r2"`
}

// TrainEval shuffles the samples with the given seed, fits a tree on 80% of
// them, and evaluates on the remaining 20%. When the holdout would be empty
// the tree trains and evaluates on the full set.
func TrainEval(X [][]float64, y []float64, seed int64, opts ...Option) (*Tree, Metrics, error) {
	if len(X) == 0 || len(X) != len(y) {
		return nil, Metrics{}, ErrNoData
	}

	rng := rand.New(rand.NewSource(seed))
	perm := rng.Perm(len(X))

	cut := len(X) * 4 / 5
	if cut == 0 {
		cut = len(X)
	}

	trainX := make([][]float64, 0, cut)
	trainY := make([]float64, 0, cut)
	testX := make([][]float64, 0, len(X)-cut)
	testY := make([]float64, 0, len(X)-cut)
	for n, i := range perm {
		if n < cut {
			trainX = append(trainX, X[i])
			trainY = append(trainY, y[i])
		} else {
			testX = append(testX, X[i])
			testY = append(testY, y[i])
		}
	}
	if len(testX) == 0 {
		testX, testY = trainX, trainY
	}

	tree := New(opts...)
	if err := tree.Fit(trainX, trainY); err != nil {
		return nil, Metrics{}, err
	}
	return tree, evaluate(tree, testX, testY), nil
}

func evaluate(t *Tree, X [][]float64, y []float64) Metrics {
	var absSum, sqSum, ySum float64
	for i := range X {
		diff := t.Predict(X[i]) - y[i]
		absSum += math.Abs(diff)
		sqSum += diff * diff
		ySum += y[i]
	}
	n := float64(len(y))
	yMean := ySum / n

	var totalSq float64
	for _, v := range y {
		d := v - yMean
		totalSq += d * d
	}

	r2 := 0.0
	if totalSq > 0 {
		r2 = 1 - sqSum/totalSq
	}
	return Metrics{
		MAE:  absSum / n,
		RMSE: math.Sqrt(sqSum / n),
		R2:   r2,
	}
}
