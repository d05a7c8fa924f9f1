package report

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/salesintel/dealrisk/infra/config"
	"github.com/salesintel/dealrisk/internal/insight"
	"github.com/salesintel/dealrisk/internal/math/ml"
	"github.com/salesintel/dealrisk/internal/score"
)

// highRiskRows caps the pipeline-deal table in the report.
const highRiskRows = 15

// Coefficient is one fitted feature weight, for interpretability reporting.
type Coefficient struct {
	Feature string  `json:"feature"`
	Value   float64 `json:"value"`
}

// RankCoefficients pairs feature names with their fitted weights,
// strongest absolute effect first.
func RankCoefficients(names []string, weights []float64) []Coefficient {
	coefficients := make([]Coefficient, len(names))
	for i, name := range names {
		coefficients[i] = Coefficient{Feature: name, Value: weights[i]}
	}
	sort.SliceStable(coefficients, func(i, j int) bool {
		return math.Abs(coefficients[i].Value) > math.Abs(coefficients[j].Value)
	})
	return coefficients
}

// Render produces the human-readable model quality and risk report.
func Render(runID string, eval ml.Evaluation, coefficients []Coefficient, scored []score.Scored, summary insight.Summary, cfg config.Config) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Deal Risk Scoring Report\n\n")
	fmt.Fprintf(&b, "Run `%s` over %d deals.\n\n", runID, len(scored))

	fmt.Fprintf(&b, "## Model Performance\n\n")
	fmt.Fprintf(&b, "ROC-AUC: %.3f\n\n", eval.AUC)
	fmt.Fprintf(&b, "| Class | Precision | Recall | F1 | Support |\n")
	fmt.Fprintf(&b, "|-------|-----------|--------|----|---------|\n")
	fmt.Fprintf(&b, "| Won | %.3f | %.3f | %.3f | %d |\n", eval.Won.Precision, eval.Won.Recall, eval.Won.F1, eval.Won.Support)
	fmt.Fprintf(&b, "| Lost | %.3f | %.3f | %.3f | %d |\n\n", eval.Lost.Precision, eval.Lost.Recall, eval.Lost.F1, eval.Lost.Support)

	fmt.Fprintf(&b, "Confusion matrix at threshold %.2f:\n\n", eval.Threshold)
	fmt.Fprintf(&b, "| Actual \\ Predicted | Won | Lost |\n")
	fmt.Fprintf(&b, "|--------------------|-----|------|\n")
	fmt.Fprintf(&b, "| Won | %d | %d |\n", eval.Confusion[0][0], eval.Confusion[0][1])
	fmt.Fprintf(&b, "| Lost | %d | %d |\n\n", eval.Confusion[1][0], eval.Confusion[1][1])

	fmt.Fprintf(&b, "## Risk Factors\n\n")
	fmt.Fprintf(&b, "| Feature | Coefficient | Effect |\n")
	fmt.Fprintf(&b, "|---------|-------------|--------|\n")
	for _, c := range coefficients {
		effect := "decreases risk"
		if c.Value > 0 {
			effect = "increases risk"
		}
		fmt.Fprintf(&b, "| %s | %+.3f | %s |\n", c.Feature, c.Value, effect)
	}
	fmt.Fprintf(&b, "\n")

	fmt.Fprintf(&b, "## Risk Distribution\n\n")
	counts := map[score.Category]int{}
	values := map[score.Category]float64{}
	for _, s := range scored {
		counts[s.Category]++
		values[s.Category] += s.Deal.Amount
	}
	fmt.Fprintf(&b, "| Category | Deals | Total Value |\n")
	fmt.Fprintf(&b, "|----------|-------|-------------|\n")
	for _, c := range []score.Category{score.Low, score.Medium, score.High} {
		fmt.Fprintf(&b, "| %s | %d | $%.0f |\n", c, counts[c], values[c])
	}
	fmt.Fprintf(&b, "\n")

	renderHighRisk(&b, scored, cfg)
	renderInsights(&b, summary)

	return b.String()
}

// renderHighRisk lists open deals needing intervention, riskiest first.
func renderHighRisk(b *strings.Builder, scored []score.Scored, cfg config.Config) {
	var pipeline []score.Scored
	for _, s := range scored {
		if s.Deal.InPipeline() && s.Category == score.High {
			pipeline = append(pipeline, s)
		}
	}
	sort.SliceStable(pipeline, func(i, j int) bool { return pipeline[i].Score > pipeline[j].Score })

	fmt.Fprintf(b, "## High-Risk Pipeline Deals\n\n")
	if len(pipeline) == 0 {
		fmt.Fprintf(b, "No high-risk deals currently in pipeline.\n\n")
		return
	}

	fmt.Fprintf(b, "Total: %d\n\n", len(pipeline))
	fmt.Fprintf(b, "| Deal | Risk Score | Amount | Industry | Rep | Stage |\n")
	fmt.Fprintf(b, "|------|------------|--------|----------|-----|-------|\n")
	for i, s := range pipeline {
		if i == highRiskRows {
			break
		}
		fmt.Fprintf(b, "| %s | %.1f | $%.0f | %s | %s | %s |\n",
			s.Deal.ID, s.Score, s.Deal.Amount, s.Deal.Industry, s.Deal.RepID, s.Deal.Stage)
	}
	fmt.Fprintf(b, "\n")

	var alerts int
	for _, s := range pipeline {
		if s.Score > cfg.AlertThreshold {
			alerts++
		}
	}
	if alerts > 0 {
		fmt.Fprintf(b, "%d deals above the alert threshold of %.0f require immediate review.\n\n", alerts, cfg.AlertThreshold)
	}
}

func renderInsights(b *strings.Builder, summary insight.Summary) {
	if summary.Deals == 0 {
		return
	}

	fmt.Fprintf(b, "## Pipeline Health\n\n")
	fmt.Fprintf(b, "Overall win rate: %.1f%%\n\n", 100*summary.OverallWinRate)
	fmt.Fprintf(b, "| Quarter | Deals | Win Rate | Health Index |\n")
	fmt.Fprintf(b, "|---------|-------|----------|--------------|\n")
	for _, q := range summary.Quarters {
		fmt.Fprintf(b, "| %s | %d | %.1f%% | %.1f |\n", q.Quarter, q.Deals, 100*q.WinRate, q.HealthIndex)
	}
	fmt.Fprintf(b, "\n")

	fmt.Fprintf(b, "### Win Rate by Industry\n\n")
	fmt.Fprintf(b, "| Industry | Deals | Win Rate | Avg Amount |\n")
	fmt.Fprintf(b, "|----------|-------|----------|------------|\n")
	for _, s := range summary.ByIndustry {
		fmt.Fprintf(b, "| %s | %d | %.1f%% | $%.0f |\n", s.Value, s.Deals, 100*s.WinRate, s.AvgAmount)
	}
	fmt.Fprintf(b, "\n")

	if len(summary.AmountOutliers) > 0 {
		fmt.Fprintf(b, "Amount outliers: %s\n", strings.Join(summary.AmountOutliers, ", "))
	}
}
