package main

import (
	"flag"
	"io/ioutil"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/salesintel/dealrisk/infra/config"
	"github.com/salesintel/dealrisk/internal/metrics"
	"github.com/salesintel/dealrisk/internal/pipeline"
	"github.com/salesintel/dealrisk/internal/report"
	"github.com/salesintel/dealrisk/internal/source"
	"github.com/salesintel/dealrisk/internal/storage"
	jsonblob "github.com/salesintel/dealrisk/internal/storage/file/json"
)

func init() {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
}

// artifact is the machine-readable model quality summary of one run.
type artifact struct {
	Run          string               `json:"run"`
	Config       config.Config        `json:"config"`
	AUC          float64              `json:"auc"`
	Accuracy     float64              `json:"accuracy"`
	Confusion    [2][2]int            `json:"confusion"`
	Coefficients []report.Coefficient `json:"coefficients"`
	Intercept    float64              `json:"intercept"`
}

func main() {
	input := flag.String("input", "data/sales_deals.csv", "deal dataset csv")
	configPath := flag.String("config", "", "optional pipeline config json")
	outDir := flag.String("out", storage.ArtifactsDir, "output directory")
	metricsPort := flag.Int("metrics-port", 0, "expose prometheus metrics on this port (0 disables)")
	flag.Parse()

	metrics.Serve(*metricsPort)

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("could not load config")
	}

	deals, err := source.LoadDeals(*input)
	if err != nil {
		log.Fatal().Err(err).Msg("could not load deals")
	}

	result, err := pipeline.Run(cfg, deals)
	if err != nil {
		log.Fatal().Err(err).Msg("risk scoring failed")
	}

	if err := source.WriteScores(filepath.Join(*outDir, "risk_scores.csv"), result.Scored); err != nil {
		log.Fatal().Err(err).Msg("could not write scored table")
	}

	md := report.Render(result.RunID, result.Evaluation, result.Coefficients, result.Scored, result.Insights, cfg)
	reportPath := filepath.Join(*outDir, "risk_scoring_report.md")
	if err := ioutil.WriteFile(reportPath, []byte(md), 0644); err != nil {
		log.Fatal().Err(err).Msg("could not write report")
	}

	store := jsonblob.NewJsonBlob(*outDir)
	summary := artifact{
		Run:          result.RunID,
		Config:       cfg,
		AUC:          result.Evaluation.AUC,
		Accuracy:     result.Evaluation.Accuracy,
		Confusion:    result.Evaluation.Confusion,
		Coefficients: result.Coefficients,
		Intercept:    result.Intercept,
	}
	if err := store.Store(storage.Key{Run: result.RunID, Label: "evaluation"}, summary); err != nil {
		log.Fatal().Err(err).Msg("could not store evaluation artifact")
	}

	log.Info().
		Str("run", result.RunID).
		Int("deals", len(result.Scored)).
		Float64("auc", result.Evaluation.AUC).
		Str("report", reportPath).
		Msg("risk scoring complete")
}
