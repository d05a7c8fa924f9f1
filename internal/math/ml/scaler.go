package ml

import (
	"fmt"

	"github.com/salesintel/dealrisk/buffer"
)

// minStDev is the variance floor below which a feature is left unscaled.
const minStDev = 1e-12

// Scaler standardizes features to zero mean and unit variance using
// statistics fitted on the training partition only.
// Fitting twice or transforming before fitting is a programming error
// and panics.
type Scaler struct {
	mean  []float64
	stDev []float64
}

// NewScaler creates an unfitted scaler.
func NewScaler() *Scaler {
	return &Scaler{}
}

// Fit computes per-feature mean and standard deviation over the given rows.
func (s *Scaler) Fit(x [][]float64) {
	if s.mean != nil {
		panic("scaler is already fitted")
	}
	if len(x) == 0 {
		panic("cannot fit scaler on empty matrix")
	}

	columns := len(x[0])
	stats := make([]*buffer.Stats, columns)
	for c := range stats {
		stats[c] = buffer.NewStats()
	}
	for _, row := range x {
		if len(row) != columns {
			panic(fmt.Sprintf("ragged matrix: row has %d columns, expected %d", len(row), columns))
		}
		for c, v := range row {
			stats[c].Push(v)
		}
	}

	s.mean = make([]float64, columns)
	s.stDev = make([]float64, columns)
	for c, st := range stats {
		s.mean[c] = st.Avg()
		s.stDev[c] = st.StDev()
		if s.stDev[c] < minStDev {
			// constant feature, leave it unscaled
			s.stDev[c] = 1
		}
	}
}

// Transform applies the fitted statistics to the given matrix,
// returning a new matrix.
func (s *Scaler) Transform(x [][]float64) [][]float64 {
	if s.mean == nil {
		panic("scaler is not fitted")
	}

	out := make([][]float64, len(x))
	for i, row := range x {
		if len(row) != len(s.mean) {
			panic(fmt.Sprintf("row has %d columns, scaler was fitted on %d", len(row), len(s.mean)))
		}
		scaled := make([]float64, len(row))
		for c, v := range row {
			scaled[c] = (v - s.mean[c]) / s.stDev[c]
		}
		out[i] = scaled
	}
	return out
}
