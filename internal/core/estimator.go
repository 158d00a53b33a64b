package core

import (
	"encoding/json"
	"fmt"
)

// Estimator is one independently trained base model. For classifiers the
// returned value is a class code; for regressors it is the predicted
// quantity. Implementations are immutable after load and safe for
// concurrent use.
type Estimator interface {
	Predict(features []float64) (float64, error)
}

// DecisionTree is a flattened binary decision tree in the array layout the
// export tool writes: node i tests Feature[i] <= Threshold[i], descending
// to Left[i] or Right[i]; a node with Left[i] < 0 is a leaf holding
// Value[i].
type DecisionTree struct {
	Feature   []int     `json:"feature"`
	Threshold []float64 `json:"threshold"`
	Left      []int     `json:"left"`
	Right     []int     `json:"right"`
	Value     []float64 `json:"value"`
}

func (t *DecisionTree) Predict(features []float64) (float64, error) {
	n := len(t.Feature)
	if n == 0 || len(t.Threshold) != n || len(t.Left) != n || len(t.Right) != n || len(t.Value) != n {
		return 0, fmt.Errorf("malformed decision tree: inconsistent node arrays")
	}

	node := 0
	for steps := 0; steps <= n; steps++ {
		if t.Left[node] < 0 {
			return t.Value[node], nil
		}
		f := t.Feature[node]
		if f < 0 || f >= len(features) {
			return 0, fmt.Errorf("tree node %d references feature %d, have %d features", node, f, len(features))
		}
		if features[f] <= t.Threshold[node] {
			node = t.Left[node]
		} else {
			node = t.Right[node]
		}
		if node < 0 || node >= n {
			return 0, fmt.Errorf("tree traversal escaped node array at %d", node)
		}
	}
	return 0, fmt.Errorf("tree traversal did not terminate, cycle suspected")
}

// LinearModel is a plain weighted sum with intercept, used both as a base
// regressor and as the stacking meta estimator.
type LinearModel struct {
	Weights   []float64 `json:"weights"`
	Intercept float64   `json:"intercept"`
}

func (m *LinearModel) Predict(features []float64) (float64, error) {
	if len(m.Weights) != len(features) {
		return 0, fmt.Errorf("linear model expects %d features, got %d", len(m.Weights), len(features))
	}
	sum := m.Intercept
	for i, w := range m.Weights {
		sum += w * features[i]
	}
	return sum, nil
}

type estimatorSpec struct {
	Name   string          `json:"name"`
	Type   string          `json:"type"`
	Params json.RawMessage `json:"params"`
}

func loadEstimator(spec estimatorSpec) (Estimator, error) {
	switch spec.Type {
	case "tree":
		var tree DecisionTree
		if err := json.Unmarshal(spec.Params, &tree); err != nil {
			return nil, fmt.Errorf("parsing tree estimator %q: %w", spec.Name, err)
		}
		return &tree, nil
	case "linear":
		var linear LinearModel
		if err := json.Unmarshal(spec.Params, &linear); err != nil {
			return nil, fmt.Errorf("parsing linear estimator %q: %w", spec.Name, err)
		}
		return &linear, nil
	default:
		return nil, fmt.Errorf("unknown estimator type %q for %q", spec.Type, spec.Name)
	}
}
