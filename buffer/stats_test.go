package buffer

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStats_Push(t *testing.T) {

	type test struct {
		values   []float64
		mean     float64
		stDev    float64
		min, max float64
	}

	tests := map[string]test{
		"constant": {
			values: []float64{5, 5, 5, 5},
			mean:   5,
			stDev:  0,
			min:    5,
			max:    5,
		},
		"mixed": {
			values: []float64{2, 4, 4, 4, 5, 5, 7, 9},
			mean:   5,
			stDev:  2,
			min:    2,
			max:    9,
		},
		"negative": {
			values: []float64{-1, 1},
			mean:   0,
			stDev:  1,
			min:    -1,
			max:    1,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			stats := NewStats()
			for _, v := range tt.values {
				stats.Push(v)
			}
			assert.Equal(t, len(tt.values), stats.Count())
			assert.InDelta(t, tt.mean, stats.Avg(), 1e-9)
			assert.InDelta(t, tt.stDev, stats.StDev(), 1e-9)
			assert.Equal(t, tt.min, stats.Min())
			assert.Equal(t, tt.max, stats.Max())
		})
	}
}

func TestStats_Empty(t *testing.T) {
	stats := NewStats()
	assert.Equal(t, 0, stats.Count())
	assert.Equal(t, 0.0, stats.Variance())
	assert.False(t, math.IsNaN(stats.StDev()))
}

func TestStats_SampleVariance(t *testing.T) {
	stats := NewStats()
	for _, v := range []float64{2, 4, 4, 4, 5, 5, 7, 9} {
		stats.Push(v)
	}
	// population variance 4, sample variance 32/7
	assert.InDelta(t, 4.0, stats.Variance(), 1e-9)
	assert.InDelta(t, 32.0/7.0, stats.SampleVariance(), 1e-9)
}
