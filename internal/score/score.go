package score

import (
	"math"

	"github.com/salesintel/dealrisk/infra/config"
	"github.com/salesintel/dealrisk/internal/model"
)

// Category is the discretized risk bucket of a deal.
type Category string

const (
	Low    Category = "Low"
	Medium Category = "Medium"
	High   Category = "High"
)

// Scored is a deal together with its risk score and category.
type Scored struct {
	Deal     model.Deal
	Score    float64
	Category Category
}

// Thresholds are the score cuts between the risk categories.
type Thresholds struct {
	Low  float64
	High float64
}

// FromConfig extracts the category thresholds from the pipeline config.
func FromConfig(cfg config.Config) Thresholds {
	return Thresholds{Low: cfg.LowThreshold, High: cfg.HighThreshold}
}

// FromProbability maps a loss probability to the 0-100 risk score,
// rounded to one decimal place.
func FromProbability(p float64) float64 {
	return math.Round(p*100*10) / 10
}

// Categorize buckets a risk score: Low covers [0,low],
// Medium (low,high] and High (high,100].
func (t Thresholds) Categorize(score float64) Category {
	switch {
	case score <= t.Low:
		return Low
	case score <= t.High:
		return Medium
	default:
		return High
	}
}

// All scores every deal with the given loss probabilities, preserving order.
func All(t Thresholds, deals []model.Deal, probabilities []float64) []Scored {
	scored := make([]Scored, len(deals))
	for i, deal := range deals {
		s := FromProbability(probabilities[i])
		scored[i] = Scored{
			Deal:     deal,
			Score:    s,
			Category: t.Categorize(s),
		}
	}
	return scored
}
