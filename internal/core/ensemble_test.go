package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedEstimator float64

func (f fixedEstimator) Predict(features []float64) (float64, error) {
	return float64(f), nil
}

func fixed(values ...float64) []Estimator {
	ests := make([]Estimator, len(values))
	for i, v := range values {
		ests[i] = fixedEstimator(v)
	}
	return ests
}

var testLabels = &LabelEncoder{Classes: []string{"Apple", "Banana", "Cherry", "Date"}}

func TestClassifyMajority(t *testing.T) {
	// 3 of 5 base models vote for class 1.
	result, err := classify(fixed(1, 1, 1, 2, 0), testLabels, nil)
	require.NoError(t, err)

	assert.Equal(t, "Banana", result.Label)
	assert.Equal(t, 60.0, result.Confidence)
	assert.Equal(t, []Alternative{
		{Label: "Apple", Confidence: 20.0},
		{Label: "Cherry", Confidence: 20.0},
	}, result.Alternatives)
}

func TestClassifyTieBreakIsLexicographic(t *testing.T) {
	// Two-way tie between Cherry (2) and Apple (0): Apple wins on label
	// order regardless of which vote arrived first.
	result, err := classify(fixed(2, 2, 0, 0), testLabels, nil)
	require.NoError(t, err)
	assert.Equal(t, "Apple", result.Label)
	assert.Equal(t, 50.0, result.Confidence)

	result, err = classify(fixed(0, 0, 2, 2), testLabels, nil)
	require.NoError(t, err)
	assert.Equal(t, "Apple", result.Label)
}

func TestClassifyConfidenceFormula(t *testing.T) {
	// 2 of 3 agree: 2/3*100 rounded to 2 decimals.
	result, err := classify(fixed(3, 3, 1), testLabels, nil)
	require.NoError(t, err)
	assert.Equal(t, "Date", result.Label)
	assert.Equal(t, 66.67, result.Confidence)
}

func TestClassifyAlternativesCapped(t *testing.T) {
	result, err := classify(fixed(0, 1, 2, 3, 0), testLabels, nil)
	require.NoError(t, err)
	assert.Equal(t, "Apple", result.Label)
	assert.Len(t, result.Alternatives, 3)
}

func TestClassifyUnanimous(t *testing.T) {
	result, err := classify(fixed(2, 2, 2), testLabels, nil)
	require.NoError(t, err)
	assert.Equal(t, "Cherry", result.Label)
	assert.Equal(t, 100.0, result.Confidence)
	assert.Empty(t, result.Alternatives)
}

func TestClassifyUndecodableVotesCannotWin(t *testing.T) {
	// Code 9 is outside the label space: it still dilutes agreement but
	// the winner must be a known label.
	result, err := classify(fixed(9, 9, 1), testLabels, nil)
	require.NoError(t, err)
	assert.Equal(t, "Banana", result.Label)
	assert.InDelta(t, 33.33, result.Confidence, 0.001)
}

func TestClassifyNoDecodableVotes(t *testing.T) {
	_, err := classify(fixed(7, 8, 9), testLabels, nil)
	assert.Error(t, err)
}

func TestRegressStacking(t *testing.T) {
	// Meta averages the two base predictions: 0.5*2 + 0.5*4 = 3.
	meta := &LinearModel{Weights: []float64{0.5, 0.5}}
	result, err := regress(fixed(2, 4), meta, nil)
	require.NoError(t, err)

	assert.Equal(t, 3.0, result.Value)
	// Population variance of {2, 4} is 1, so confidence is 1/(1+1).
	assert.Equal(t, 0.5, result.Confidence)
}

func TestRegressConfidenceIsInverseVariance(t *testing.T) {
	meta := &LinearModel{Weights: []float64{1, 0, 0}}
	result, err := regress(fixed(5, 5, 5), meta, nil)
	require.NoError(t, err)

	// Zero variance across base models means full confidence.
	assert.Equal(t, 1.0, result.Confidence)
}

func TestRegressRequiresMeta(t *testing.T) {
	_, err := regress(fixed(1, 2), nil, nil)
	assert.Error(t, err)
}

func TestPopVariance(t *testing.T) {
	// Divides by n, not n-1: var({1,3}) = 1, not 2.
	assert.Equal(t, 1.0, popVariance([]float64{1, 3}))
	assert.Equal(t, 0.0, popVariance([]float64{4, 4, 4}))
}
