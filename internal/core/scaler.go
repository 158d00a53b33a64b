package core

import "fmt"

// StandardScaler holds per-column standardization parameters frozen at
// training time. It transforms only the columns listed in Columns; any
// other position in the vector (categorical codes) is passed through
// untouched. Column order is contractual: permuting it silently corrupts
// predictions, so Transform validates lengths but cannot validate order.
type StandardScaler struct {
	Mean    []float64 `json:"mean"`
	Std     []float64 `json:"std"`
	Columns []int     `json:"columns"`
}

func (s *StandardScaler) Transform(features []float64) ([]float64, error) {
	if len(s.Mean) != len(s.Columns) || len(s.Std) != len(s.Columns) {
		return nil, fmt.Errorf("scaler parameter mismatch: %d columns, %d means, %d stds", len(s.Columns), len(s.Mean), len(s.Std))
	}

	out := make([]float64, len(features))
	copy(out, features)

	for i, col := range s.Columns {
		if col < 0 || col >= len(features) {
			return nil, fmt.Errorf("scaler column %d out of range for %d features", col, len(features))
		}
		if s.Std[i] == 0 {
			return nil, fmt.Errorf("scaler column %d has zero standard deviation", col)
		}
		out[col] = (features[col] - s.Mean[i]) / s.Std[i]
	}

	return out, nil
}
