package score

import (
	"testing"

	"github.com/salesintel/dealrisk/infra/config"
	"github.com/salesintel/dealrisk/internal/model"
	"github.com/stretchr/testify/assert"
)

func TestFromProbability(t *testing.T) {
	assert.Equal(t, 0.0, FromProbability(0))
	assert.Equal(t, 100.0, FromProbability(1))
	assert.Equal(t, 33.1, FromProbability(0.3312))
	assert.Equal(t, 66.0, FromProbability(0.66))
	assert.Equal(t, 50.0, FromProbability(0.49999))
}

func TestThresholds_Categorize(t *testing.T) {

	thresholds := FromConfig(config.Default())

	type test struct {
		score    float64
		category Category
	}

	tests := map[string]test{
		"zero":            {score: 0, category: Low},
		"low-boundary":    {score: 33.0, category: Low},
		"above-low":       {score: 33.1, category: Medium},
		"medium-boundary": {score: 66.0, category: Medium},
		"above-medium":    {score: 66.1, category: High},
		"max":             {score: 100, category: High},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tt.category, thresholds.Categorize(tt.score))
		})
	}
}

func TestThresholds_Monotonic(t *testing.T) {
	thresholds := FromConfig(config.Default())
	// increasing probability never decreases the score or the category rank
	rank := map[Category]int{Low: 0, Medium: 1, High: 2}
	prevScore, prevRank := -1.0, -1
	for p := 0.0; p <= 1.0; p += 0.001 {
		s := FromProbability(p)
		assert.GreaterOrEqual(t, s, prevScore)
		r := rank[thresholds.Categorize(s)]
		assert.GreaterOrEqual(t, r, prevRank)
		prevScore, prevRank = s, r
	}
}

func TestAll(t *testing.T) {
	deals := []model.Deal{
		{ID: "D-1"},
		{ID: "D-2"},
		{ID: "D-3"},
	}
	scored := All(FromConfig(config.Default()), deals, []float64{0.1, 0.5, 0.9})

	assert.Len(t, scored, 3)
	assert.Equal(t, "D-1", scored[0].Deal.ID)
	assert.Equal(t, Low, scored[0].Category)
	assert.Equal(t, Medium, scored[1].Category)
	assert.Equal(t, High, scored[2].Category)
	for _, s := range scored {
		assert.GreaterOrEqual(t, s.Score, 0.0)
		assert.LessOrEqual(t, s.Score, 100.0)
	}
}
