package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoad_ScoringConfig(t *testing.T) {
	// Setup environment variables
	os.Setenv("SCORING_DISTANCE_WEIGHT", "10")
	os.Setenv("SCORING_BED_WEIGHT", "1.0")
	defer func() {
		os.Unsetenv("SCORING_DISTANCE_WEIGHT")
		os.Unsetenv("SCORING_BED_WEIGHT")
	}()

	cfg, err := Load()
	assert.NoError(t, err)

	assert.Equal(t, 10.0, cfg.Scoring.DistanceWeight)
	assert.Equal(t, 1.0, cfg.Scoring.BedWeight)
}

func TestLoad_Defaults(t *testing.T) {
	// Ensure env vars are cleared
	os.Unsetenv("SEARCH_MIN_RESULTS")
	os.Unsetenv("REGISTRY_TIMEOUT_SECONDS")
	os.Unsetenv("GEOCODER_MIN_CALL_INTERVAL_MS")

	cfg, err := Load()
	assert.NoError(t, err)

	// Verify defaults
	assert.Equal(t, 10, cfg.Search.MinResults)
	assert.Equal(t, 10, cfg.Search.InitialRadiusKm)
	assert.Equal(t, 20, cfg.Search.ExtendedRadiusKm)
	assert.Equal(t, 15, cfg.Registry.TimeoutSeconds)
	assert.Equal(t, 100, cfg.Geocoder.MinCallIntervalMs)
	assert.Equal(t, 20, cfg.Scoring.DisplayLimit)
}
