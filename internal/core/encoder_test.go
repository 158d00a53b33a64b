package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// identityScaler standardizes the listed columns with mean 0 and std 1, so
// encoded vectors can be inspected directly.
func identityScaler(columns ...int) *StandardScaler {
	mean := make([]float64, len(columns))
	std := make([]float64, len(columns))
	for i := range std {
		std[i] = 1
	}
	return &StandardScaler{Mean: mean, Std: std, Columns: columns}
}

func TestScalerTransformsOnlyItsColumns(t *testing.T) {
	scaler := &StandardScaler{
		Mean:    []float64{10, 20},
		Std:     []float64{2, 5},
		Columns: []int{0, 2},
	}

	out, err := scaler.Transform([]float64{14, 99, 30})
	require.NoError(t, err)

	assert.Equal(t, []float64{2, 99, 2}, out)
}

func TestScalerDeterministic(t *testing.T) {
	scaler := &StandardScaler{
		Mean:    []float64{1.5, 2.25},
		Std:     []float64{0.5, 3},
		Columns: []int{0, 1},
	}

	first, err := scaler.Transform([]float64{3.125, -7.875})
	require.NoError(t, err)
	second, err := scaler.Transform([]float64{3.125, -7.875})
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestScalerRejectsBadParameters(t *testing.T) {
	_, err := (&StandardScaler{Mean: []float64{0}, Std: []float64{1, 1}, Columns: []int{0}}).Transform([]float64{1})
	assert.Error(t, err)

	_, err = (&StandardScaler{Mean: []float64{0}, Std: []float64{0}, Columns: []int{0}}).Transform([]float64{1})
	assert.Error(t, err)

	_, err = (&StandardScaler{Mean: []float64{0}, Std: []float64{1}, Columns: []int{5}}).Transform([]float64{1})
	assert.Error(t, err)
}

func TestLabelEncoderRoundTrip(t *testing.T) {
	enc := &LabelEncoder{Classes: []string{"Barley", "Maize", "Wheat"}}

	for code, label := range enc.Classes {
		got, ok := enc.Encode(label)
		require.True(t, ok)
		assert.Equal(t, code, got)

		back, err := enc.Decode(got)
		require.NoError(t, err)
		assert.Equal(t, label, back)
	}

	_, err := enc.Decode(3)
	assert.Error(t, err)
	_, err = enc.Decode(-1)
	assert.Error(t, err)
}

func TestCategoryTableUnknownDefaultsToZero(t *testing.T) {
	assert.Equal(t, 1, SoilTypes.Code("Loamy"))
	assert.Equal(t, 6, FertilizerCrops.Code("Wheat"))

	// Unknown categories map to code 0, they do not error.
	assert.Equal(t, 0, SoilTypes.Code("Volcanic"))
	assert.Equal(t, 0, FertilizerCrops.Code("Quinoa"))
	assert.Equal(t, 0, Seasons.Code(""))
}

func TestCropEncodeOrder(t *testing.T) {
	model := &CropModel{Scaler: identityScaler(0, 1, 2, 3, 4, 5, 6)}

	out, err := model.Encode(CropInput{N: 90, P: 42, K: 43, Temperature: 20.87, Humidity: 82, PH: 6.5, Rainfall: 202.93})
	require.NoError(t, err)

	assert.Equal(t, []float64{90, 42, 43, 20.87, 82, 6.5, 202.93}, out)
}

func TestFertilizerEncodeDefaultsAndCodes(t *testing.T) {
	model := &FertilizerModel{Scaler: identityScaler(0, 1, 2, 3, 4, 5)}

	out, err := model.Encode(FertilizerInput{
		Temperature: 26, Humidity: 52, Moisture: 38,
		SoilType: "Loamy", CropType: "Wheat",
		Nitrogen: 37, Phosphorous: 0, Potassium: 0,
	})
	require.NoError(t, err)

	// Placeholder pH and rainfall occupy the trained column positions;
	// category codes ride unscaled at the tail.
	assert.Equal(t, []float64{37, 0, 0, 7.0, 200.0, 26, 6, 1}, out)
}

func TestFertilizerEncodeUnknownCategories(t *testing.T) {
	model := &FertilizerModel{Scaler: identityScaler(0, 1, 2, 3, 4, 5)}

	out, err := model.Encode(FertilizerInput{SoilType: "Peaty", CropType: "Dragonfruit"})
	require.NoError(t, err)
	assert.Equal(t, 0.0, out[6])
	assert.Equal(t, 0.0, out[7])
}

func TestYieldEncodeOrder(t *testing.T) {
	model := &YieldModel{Scaler: identityScaler(0, 1, 2, 3)}

	out, err := model.Encode(YieldInput{
		Crop: "Rice", Season: "Kharif", State: "West Bengal",
		Area: 1000, AnnualRainfall: 1500, Fertilizer: 120, Pesticide: 15,
	})
	require.NoError(t, err)

	// Numeric block first, then crop, state, season codes.
	assert.Equal(t, []float64{1000, 1500, 120, 15, 0, 5, 0}, out)
}
