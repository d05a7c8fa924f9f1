package features

import (
	"fmt"
	"math"
	"sort"

	"github.com/rs/zerolog/log"
	"github.com/salesintel/dealrisk/buffer"
	"github.com/salesintel/dealrisk/internal/model"
	"gonum.org/v1/gonum/stat"
)

// Names lists the engineered features in matrix column order.
var Names = []string{
	"sales_cycle_days",
	"deal_amount_log",
	"industry_win_rate",
	"region_win_rate",
	"product_win_rate",
	"lead_source_win_rate",
	"rep_win_rate",
	"deal_size_vs_segment",
	"deal_stage_encoded",
	"is_enterprise",
}

// Set is the immutable engineered feature set of one pipeline run.
type Set struct {
	Names  []string
	Matrix [][]float64
	Labels []float64
	// DegenerateGroups counts single-member groups behind a win-rate value.
	DegenerateGroups int
	// ZeroFilled counts feature values that had no defined statistic
	// and were substituted with 0.
	ZeroFilled int
}

// groupKey extracts the grouping value of a win-rate feature from a deal.
type groupKey struct {
	name    string
	extract func(model.Deal) string
}

var groupKeys = []groupKey{
	{name: "industry", extract: func(d model.Deal) string { return d.Industry }},
	{name: "region", extract: func(d model.Deal) string { return d.Region }},
	{name: "product_type", extract: func(d model.Deal) string { return d.ProductType }},
	{name: "lead_source", extract: func(d model.Deal) string { return d.LeadSource }},
	{name: "rep", extract: func(d model.Deal) string { return d.RepID }},
}

// Engineer derives one feature vector per deal, with group statistics
// computed over the entire dataset. The group win rates are deliberately
// retrospective: they read as the currently known performance of a segment,
// so rows that later land in the evaluation partition contribute to them.
func Engineer(deals []model.Deal) (*Set, error) {
	all := make([]int, len(deals))
	for i := range deals {
		all[i] = i
	}
	return engineer(deals, all)
}

// EngineerFrom derives the feature set with group statistics accumulated
// from the given rows only (the leakage-safe mode). Lookups that miss are
// zero-filled.
func EngineerFrom(deals []model.Deal, rows []int) (*Set, error) {
	return engineer(deals, rows)
}

func engineer(deals []model.Deal, statRows []int) (*Set, error) {
	set := &Set{
		Names:  Names,
		Matrix: make([][]float64, len(deals)),
		Labels: make([]float64, len(deals)),
	}

	rates := make([]map[string]*buffer.Stats, len(groupKeys))
	for k := range groupKeys {
		rates[k] = make(map[string]*buffer.Stats)
	}
	segments := make(map[string][]float64)

	for _, i := range statRows {
		deal := deals[i]
		for k, key := range groupKeys {
			value := key.extract(deal)
			if _, ok := rates[k][value]; !ok {
				rates[k][value] = buffer.NewStats()
			}
			rates[k][value].Push(deal.IsLost())
		}
		segments[deal.Segment()] = append(segments[deal.Segment()], deal.Amount)
	}

	for k, key := range groupKeys {
		for value, stats := range rates[k] {
			if stats.Count() == 1 {
				set.DegenerateGroups++
				log.Warn().Str("group", key.name).Str("value", value).
					Msg("win rate from a single deal")
			}
		}
	}

	medians := make(map[string]float64, len(segments))
	for segment, amounts := range segments {
		sort.Float64s(amounts)
		medians[segment] = stat.Quantile(0.5, stat.LinInterp, amounts, nil)
	}

	for i, deal := range deals {
		if deal.Stage.Code() == 0 {
			return nil, fmt.Errorf("unmapped deal stage '%s' for deal '%s'", deal.Stage, deal.ID)
		}
		if deal.Amount < 0 {
			return nil, fmt.Errorf("negative amount %f for deal '%s'", deal.Amount, deal.ID)
		}

		vector := make([]float64, len(Names))
		vector[0] = deal.CycleDays
		vector[1] = math.Log1p(deal.Amount)

		for k, key := range groupKeys {
			stats, ok := rates[k][key.extract(deal)]
			if !ok {
				set.ZeroFilled++
				continue
			}
			vector[2+k] = 1 - stats.Avg()
		}

		vector[7] = segmentRatio(deal, segments, medians, set)
		vector[8] = float64(deal.Stage.Code())
		if deal.ProductType == model.Enterprise {
			vector[9] = 1
		}

		set.Matrix[i] = vector
		set.Labels[i] = deal.IsLost()
	}

	if set.ZeroFilled > 0 {
		log.Warn().Int("values", set.ZeroFilled).
			Msg("missing group statistics substituted with 0")
	}
	log.Info().Int("deals", len(deals)).Int("features", len(Names)).
		Int("degenerate_groups", set.DegenerateGroups).
		Msg("engineered features")

	return set, nil
}

func segmentRatio(deal model.Deal, segments map[string][]float64, medians map[string]float64, set *Set) float64 {
	amounts, ok := segments[deal.Segment()]
	if !ok {
		set.ZeroFilled++
		return 0
	}
	if len(amounts) == 1 {
		return 1
	}
	median := medians[deal.Segment()]
	if median == 0 {
		// every amount in the segment is 0
		return 1
	}
	return deal.Amount / median
}
