package config

import (
	"io/ioutil"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.NoError(t, cfg.Validate())
	assert.Equal(t, 0.2, cfg.TestFraction)
	assert.Equal(t, int64(42), cfg.Seed)
	assert.Equal(t, 33.0, cfg.LowThreshold)
	assert.Equal(t, 66.0, cfg.HighThreshold)
	assert.False(t, cfg.TrainOnlyGroupRates)
}

func TestLoad_Override(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pipeline.json")
	require.NoError(t, ioutil.WriteFile(path, []byte(`{"seed": 7, "test_fraction": 0.3, "train_only_group_rates": true}`), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, int64(7), cfg.Seed)
	assert.Equal(t, 0.3, cfg.TestFraction)
	assert.True(t, cfg.TrainOnlyGroupRates)
	// untouched fields keep their defaults
	assert.Equal(t, 100, cfg.MaxIterations)
}

func TestLoad_Invalid(t *testing.T) {

	tests := map[string]string{
		"fraction":  `{"test_fraction": 1.5}`,
		"iters":     `{"max_iterations": 0}`,
		"l2":        `{"l2": -1}`,
		"threshold": `{"low_threshold": 70, "high_threshold": 60}`,
		"decision":  `{"decision_threshold": 0}`,
	}

	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "pipeline.json")
			require.NoError(t, ioutil.WriteFile(path, []byte(body), 0644))
			_, err := Load(path)
			assert.Error(t, err)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load("does-not-exist.json")
	assert.Error(t, err)

	cfg, err := Load("")
	assert.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}
