package config

import (
	"encoding/json"
	"fmt"
	"io/ioutil"

	"github.com/rs/zerolog/log"
)

// Config gathers the tunable constants of the risk scoring pipeline.
// Defaults reproduce the reference run; every field can be overridden
// from a json file.
type Config struct {
	// TestFraction is the share of records held out for evaluation.
	TestFraction float64 `json:"test_fraction"`
	// Seed fixes the partition shuffle for reproducible evaluation.
	Seed int64 `json:"seed"`
	// L2 is the ridge penalty strength on the classifier weights.
	L2 float64 `json:"l2"`
	// MaxIterations bounds the classifier fit. Exceeding it fails the run.
	MaxIterations int `json:"max_iterations"`
	// Tolerance is the convergence criterion on the newton step.
	Tolerance float64 `json:"tolerance"`
	// DecisionThreshold is the probability cut for the confusion matrix.
	DecisionThreshold float64 `json:"decision_threshold"`
	// LowThreshold and HighThreshold split the 0-100 risk score
	// into Low (0,low], Medium (low,high] and High (high,100].
	LowThreshold  float64 `json:"low_threshold"`
	HighThreshold float64 `json:"high_threshold"`
	// AlertThreshold marks deals for the high-risk alert section of the report.
	AlertThreshold float64 `json:"alert_threshold"`
	// TrainOnlyGroupRates restricts the group win-rate statistics to the
	// training partition. The default keeps the retrospective full-corpus
	// semantics of the original analysis.
	TrainOnlyGroupRates bool `json:"train_only_group_rates"`
}

// Default returns the reference configuration.
func Default() Config {
	return Config{
		TestFraction:      0.2,
		Seed:              42,
		L2:                1.0,
		MaxIterations:     100,
		Tolerance:         1e-8,
		DecisionThreshold: 0.5,
		LowThreshold:      33,
		HighThreshold:     66,
		AlertThreshold:    80,
	}
}

// Load reads the config from the given file on top of the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	b, err := ioutil.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("could not load config from %s: %w", path, err)
	}

	if err := json.Unmarshal(b, &cfg); err != nil {
		return cfg, fmt.Errorf("could not unmarshal config from %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}

	log.Info().Str("path", path).Msg("loaded config")
	return cfg, nil
}

// Validate rejects configurations the pipeline cannot run with.
func (c Config) Validate() error {
	if c.TestFraction <= 0 || c.TestFraction >= 1 {
		return fmt.Errorf("test fraction must be within (0,1): %f", c.TestFraction)
	}
	if c.MaxIterations <= 0 {
		return fmt.Errorf("max iterations must be positive: %d", c.MaxIterations)
	}
	if c.L2 < 0 {
		return fmt.Errorf("l2 penalty must be non-negative: %f", c.L2)
	}
	if c.LowThreshold <= 0 || c.HighThreshold <= c.LowThreshold || c.HighThreshold >= 100 {
		return fmt.Errorf("thresholds must satisfy 0 < low < high < 100: [%f,%f]", c.LowThreshold, c.HighThreshold)
	}
	if c.DecisionThreshold <= 0 || c.DecisionThreshold >= 1 {
		return fmt.Errorf("decision threshold must be within (0,1): %f", c.DecisionThreshold)
	}
	return nil
}
