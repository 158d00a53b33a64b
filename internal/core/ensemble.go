package core

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// Alternative is a runner-up class from the base-model vote, decoded back
// to its label with its own support-based confidence.
type Alternative struct {
	Label      string  `json:"label"`
	Confidence float64 `json:"confidence"`
}

// Classification is the combined outcome of a classifier ensemble.
// Confidence is the fraction of base estimators agreeing with the winning
// label, as a percentage rounded to two decimals. It is an agreement
// score, not a calibrated probability.
type Classification struct {
	Label        string
	Confidence   float64
	Alternatives []Alternative
}

// Regression is the combined outcome of a regressor ensemble. Confidence
// is 1/(1+Var(base predictions)), the inverse-variance heuristic the
// models were shipped with; it is kept as-is rather than recalibrated.
type Regression struct {
	Value      float64
	Confidence float64
}

type vote struct {
	code  int
	label string
	count int
}

// classify runs every base estimator on the scaled feature vector and
// resolves the final label by strict majority. Ties are broken by the
// lexicographically smallest decoded label; the old behavior depended on
// map insertion order, which is not reproducible across runs.
func classify(base []Estimator, labels *LabelEncoder, features []float64) (Classification, error) {
	if len(base) == 0 {
		return Classification{}, fmt.Errorf("classifier ensemble has no base estimators")
	}

	counts := make(map[int]int, len(base))
	for i, est := range base {
		raw, err := est.Predict(features)
		if err != nil {
			return Classification{}, fmt.Errorf("base estimator %d: %w", i, err)
		}
		counts[int(math.Round(raw))]++
	}

	votes := make([]vote, 0, len(counts))
	for code, count := range counts {
		label, err := labels.Decode(code)
		if err != nil {
			// A base model voted for a code outside the label space;
			// the vote still counts against agreement but cannot win.
			continue
		}
		votes = append(votes, vote{code: code, label: label, count: count})
	}
	if len(votes) == 0 {
		return Classification{}, fmt.Errorf("no base prediction decodes to a known label")
	}

	sort.Slice(votes, func(i, j int) bool {
		if votes[i].count != votes[j].count {
			return votes[i].count > votes[j].count
		}
		return votes[i].label < votes[j].label
	})

	total := float64(len(base))
	result := Classification{
		Label:        votes[0].label,
		Confidence:   round2(float64(votes[0].count) / total * 100),
		Alternatives: []Alternative{},
	}

	for _, v := range votes[1:] {
		if len(result.Alternatives) == 3 {
			break
		}
		result.Alternatives = append(result.Alternatives, Alternative{
			Label:      v.label,
			Confidence: round2(float64(v.count) / total * 100),
		})
	}

	return result, nil
}

// regress stacks the ordered base predictions through the meta estimator.
// Base order must match the order used when the meta estimator was
// trained, which is why bundles keep estimators in a slice, not a map.
func regress(base []Estimator, meta Estimator, features []float64) (Regression, error) {
	if len(base) == 0 {
		return Regression{}, fmt.Errorf("regressor ensemble has no base estimators")
	}
	if meta == nil {
		return Regression{}, fmt.Errorf("regressor ensemble has no meta estimator")
	}

	basePreds := make([]float64, len(base))
	for i, est := range base {
		pred, err := est.Predict(features)
		if err != nil {
			return Regression{}, fmt.Errorf("base estimator %d: %w", i, err)
		}
		basePreds[i] = pred
	}

	value, err := meta.Predict(basePreds)
	if err != nil {
		return Regression{}, fmt.Errorf("meta estimator: %w", err)
	}

	return Regression{
		Value:      value,
		Confidence: 1 / (1 + popVariance(basePreds)),
	}, nil
}

// popVariance is the population variance (divide by n, not n-1), matching
// the variance the confidence heuristic was defined with.
func popVariance(xs []float64) float64 {
	mean := stat.Mean(xs, nil)
	var sum float64
	for _, x := range xs {
		d := x - mean
		sum += d * d
	}
	return sum / float64(len(xs))
}

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}
