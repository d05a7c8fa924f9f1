package insight

import (
	"sort"

	"github.com/rs/zerolog/log"
	"github.com/salesintel/dealrisk/buffer"
	"github.com/salesintel/dealrisk/internal/model"
	"gonum.org/v1/gonum/stat"
)

// outlierStDevs is the cut for flagging unusual deal amounts.
const outlierStDevs = 3.0

// SegmentStats are descriptive aggregates for one categorical value.
type SegmentStats struct {
	Value     string
	Deals     int
	WinRate   float64
	AvgAmount float64
	AvgCycle  float64
}

// QuarterHealth is the composite pipeline health of one closed quarter:
// win rate (30%), normalized average deal size (30%) and inverted
// normalized average cycle length (40%), on a 0-100 scale.
type QuarterHealth struct {
	Quarter     string
	Deals       int
	WinRate     float64
	AvgAmount   float64
	AvgCycle    float64
	HealthIndex float64
}

// Summary holds the descriptive metrics of one dataset snapshot.
type Summary struct {
	Deals          int
	OverallWinRate float64
	ByIndustry     []SegmentStats
	ByRegion       []SegmentStats
	ByProduct      []SegmentStats
	ByLeadSource   []SegmentStats
	ByRep          []SegmentStats
	Quarters       []QuarterHealth
	// Velocity holds the per-deal velocity score, aligned with the input:
	// (expected cycle - actual cycle) / expected cycle, where the
	// expectation is the segment median.
	Velocity []float64
	// AmountOutliers lists deal ids whose amount sits outside
	// three standard deviations of the corpus.
	AmountOutliers []string
}

// Analyze computes the descriptive metrics over the full deal set.
func Analyze(deals []model.Deal) Summary {
	summary := Summary{Deals: len(deals)}
	if len(deals) == 0 {
		return summary
	}

	won := 0
	for _, d := range deals {
		if d.Outcome == model.Won {
			won++
		}
	}
	summary.OverallWinRate = float64(won) / float64(len(deals))

	summary.ByIndustry = segmentStats(deals, func(d model.Deal) string { return d.Industry })
	summary.ByRegion = segmentStats(deals, func(d model.Deal) string { return d.Region })
	summary.ByProduct = segmentStats(deals, func(d model.Deal) string { return d.ProductType })
	summary.ByLeadSource = segmentStats(deals, func(d model.Deal) string { return d.LeadSource })
	summary.ByRep = segmentStats(deals, func(d model.Deal) string { return d.RepID })
	summary.Quarters = quarterHealth(deals)
	summary.Velocity = velocityScores(deals)
	summary.AmountOutliers = amountOutliers(deals)

	log.Info().Int("deals", len(deals)).
		Float64("win_rate", summary.OverallWinRate).
		Int("quarters", len(summary.Quarters)).
		Int("outliers", len(summary.AmountOutliers)).
		Msg("computed dataset insights")

	return summary
}

func segmentStats(deals []model.Deal, key func(model.Deal) string) []SegmentStats {
	amounts := make(map[string]*buffer.Stats)
	cycles := make(map[string]*buffer.Stats)
	wins := make(map[string]*buffer.Stats)

	for _, d := range deals {
		k := key(d)
		if _, ok := wins[k]; !ok {
			amounts[k] = buffer.NewStats()
			cycles[k] = buffer.NewStats()
			wins[k] = buffer.NewStats()
		}
		amounts[k].Push(d.Amount)
		cycles[k].Push(d.CycleDays)
		wins[k].Push(1 - d.IsLost())
	}

	out := make([]SegmentStats, 0, len(wins))
	for k, w := range wins {
		out = append(out, SegmentStats{
			Value:     k,
			Deals:     w.Count(),
			WinRate:   w.Avg(),
			AvgAmount: amounts[k].Avg(),
			AvgCycle:  cycles[k].Avg(),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].WinRate != out[j].WinRate {
			return out[i].WinRate > out[j].WinRate
		}
		return out[i].Value < out[j].Value
	})
	return out
}

func quarterHealth(deals []model.Deal) []QuarterHealth {
	amounts := make(map[string]*buffer.Stats)
	cycles := make(map[string]*buffer.Stats)
	wins := make(map[string]*buffer.Stats)

	for _, d := range deals {
		q := d.Quarter()
		if _, ok := wins[q]; !ok {
			amounts[q] = buffer.NewStats()
			cycles[q] = buffer.NewStats()
			wins[q] = buffer.NewStats()
		}
		amounts[q].Push(d.Amount)
		cycles[q].Push(d.CycleDays)
		wins[q].Push(1 - d.IsLost())
	}

	quarters := make([]QuarterHealth, 0, len(wins))
	amountSpread := buffer.NewStats()
	cycleSpread := buffer.NewStats()
	for q, w := range wins {
		quarter := QuarterHealth{
			Quarter:   q,
			Deals:     w.Count(),
			WinRate:   w.Avg(),
			AvgAmount: amounts[q].Avg(),
			AvgCycle:  cycles[q].Avg(),
		}
		amountSpread.Push(quarter.AvgAmount)
		cycleSpread.Push(quarter.AvgCycle)
		quarters = append(quarters, quarter)
	}
	sort.Slice(quarters, func(i, j int) bool { return quarters[i].Quarter < quarters[j].Quarter })

	for i := range quarters {
		amountNorm := minMax(quarters[i].AvgAmount, amountSpread)
		cycleNorm := minMax(quarters[i].AvgCycle, cycleSpread)
		quarters[i].HealthIndex = 100 * (0.3*quarters[i].WinRate + 0.3*amountNorm + 0.4*(1-cycleNorm))
	}
	return quarters
}

// minMax scales v into [0,1] across the observed spread; a flat spread
// maps to the neutral midpoint.
func minMax(v float64, spread *buffer.Stats) float64 {
	if spread.Max() == spread.Min() {
		return 0.5
	}
	return (v - spread.Min()) / (spread.Max() - spread.Min())
}

func velocityScores(deals []model.Deal) []float64 {
	bySegment := make(map[string][]float64)
	for _, d := range deals {
		bySegment[d.Segment()] = append(bySegment[d.Segment()], d.CycleDays)
	}
	medians := make(map[string]float64, len(bySegment))
	for segment, cycles := range bySegment {
		sort.Float64s(cycles)
		medians[segment] = stat.Quantile(0.5, stat.LinInterp, cycles, nil)
	}

	scores := make([]float64, len(deals))
	for i, d := range deals {
		expected := medians[d.Segment()]
		if expected == 0 {
			continue
		}
		scores[i] = (expected - d.CycleDays) / expected
	}
	return scores
}

func amountOutliers(deals []model.Deal) []string {
	stats := buffer.NewStats()
	for _, d := range deals {
		stats.Push(d.Amount)
	}
	mean, stDev := stats.Avg(), stats.StDev()
	if stDev == 0 {
		return nil
	}

	var ids []string
	for _, d := range deals {
		if d.Amount < mean-outlierStDevs*stDev || d.Amount > mean+outlierStDevs*stDev {
			ids = append(ids, d.ID)
		}
	}
	return ids
}
