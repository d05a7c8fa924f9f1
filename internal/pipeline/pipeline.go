package pipeline

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/salesintel/dealrisk/infra/config"
	"github.com/salesintel/dealrisk/internal/features"
	"github.com/salesintel/dealrisk/internal/insight"
	"github.com/salesintel/dealrisk/internal/math/ml"
	"github.com/salesintel/dealrisk/internal/metrics"
	"github.com/salesintel/dealrisk/internal/model"
	"github.com/salesintel/dealrisk/internal/report"
	"github.com/salesintel/dealrisk/internal/score"
)

// Result is the immutable output of one pipeline run.
type Result struct {
	RunID        string
	Features     *features.Set
	Split        ml.Split
	Evaluation   ml.Evaluation
	Coefficients []report.Coefficient
	Intercept    float64
	Scored       []score.Scored
	Insights     insight.Summary
}

// Run executes the risk scoring pipeline over the given deals:
// engineer features, split, scale, fit, evaluate and score the full corpus.
// Each stage takes the outputs of the prior stages and returns new values;
// nothing is recomputed or mutated between stages. Any error aborts the run
// before any output is produced.
func Run(cfg config.Config, deals []model.Deal) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if len(deals) == 0 {
		return nil, fmt.Errorf("no deals to score")
	}

	runID := uuid.New().String()
	log.Info().Str("run", runID).Int("deals", len(deals)).Msg("starting risk scoring")

	labels := make([]float64, len(deals))
	for i, deal := range deals {
		labels[i] = deal.IsLost()
	}

	split, err := ml.StratifiedSplit(labels, cfg.TestFraction, cfg.Seed)
	if err != nil {
		return nil, fmt.Errorf("could not partition dataset: %w", err)
	}

	set, err := engineer(cfg, deals, split)
	if err != nil {
		return nil, fmt.Errorf("could not engineer features: %w", err)
	}

	start := time.Now()
	scaler := ml.NewScaler()
	scaler.Fit(ml.Select(set.Matrix, split.Train))
	trainX := scaler.Transform(ml.Select(set.Matrix, split.Train))
	testX := scaler.Transform(ml.Select(set.Matrix, split.Test))
	observe("scale", len(set.Matrix), start)

	start = time.Now()
	classifier := ml.NewLogistic(cfg.L2, cfg.MaxIterations, cfg.Tolerance)
	if err := classifier.Fit(trainX, ml.SelectLabels(set.Labels, split.Train)); err != nil {
		return nil, fmt.Errorf("could not fit classifier: %w", err)
	}
	observe("fit", len(split.Train), start)

	start = time.Now()
	evaluation := ml.Evaluate(
		classifier.PredictProbaAll(testX),
		ml.SelectLabels(set.Labels, split.Test),
		cfg.DecisionThreshold,
	)
	observe("evaluate", len(split.Test), start)
	log.Info().Str("run", runID).
		Float64("auc", evaluation.AUC).
		Float64("lost_f1", evaluation.Lost.F1).
		Float64("accuracy", evaluation.Accuracy).
		Msg("evaluated classifier")

	// full-corpus scoring reuses the training-fitted scaler and model
	start = time.Now()
	probabilities := classifier.PredictProbaAll(scaler.Transform(set.Matrix))
	scored := score.All(score.FromConfig(cfg), deals, probabilities)
	for _, s := range scored {
		metrics.Observer.Categories.WithLabelValues(string(s.Category)).Inc()
	}
	observe("score", len(scored), start)

	weights, intercept := classifier.Coefficients()

	return &Result{
		RunID:        runID,
		Features:     set,
		Split:        split,
		Evaluation:   evaluation,
		Coefficients: report.RankCoefficients(set.Names, weights),
		Intercept:    intercept,
		Scored:       scored,
		Insights:     insight.Analyze(deals),
	}, nil
}

func engineer(cfg config.Config, deals []model.Deal, split ml.Split) (*features.Set, error) {
	start := time.Now()
	defer observe("features", len(deals), start)

	if cfg.TrainOnlyGroupRates {
		return features.EngineerFrom(deals, split.Train)
	}
	return features.Engineer(deals)
}

func observe(stage string, n int, start time.Time) {
	metrics.Observer.Deals.WithLabelValues(stage).Add(float64(n))
	metrics.Observer.Duration.WithLabelValues(stage).Observe(time.Since(start).Seconds())
}
