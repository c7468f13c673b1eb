package app

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/nfl-bets/internal/config"
	"github.com/yourusername/nfl-bets/internal/models"
	"github.com/yourusername/nfl-bets/internal/probability"
)

func testLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func memoryConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.LoadWithDefaults(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	players := filepath.Join(t.TempDir(), "players.txt")
	require.NoError(t, os.WriteFile(players, []byte("Josh Allen\nSaquon Barkley\n"), 0o600))

	cfg.App.Storage = "memory"
	cfg.DataSources.PopularPlayersFile = players
	return cfg
}

func TestBuildMemoryWithoutAPIKeys(t *testing.T) {
	cfg := memoryConfig(t)

	c, err := Build(context.Background(), cfg, testLogger())
	require.NoError(t, err)
	defer c.Close()

	assert.Nil(t, c.DB)
	assert.NotNil(t, c.Players)
	assert.NotNil(t, c.Probabilities)
	assert.Nil(t, c.Jobs)

	player := &models.Player{Name: "Josh Allen", Team: "BUF", Position: "QB"}
	require.NoError(t, c.Players.Create(context.Background(), player))
	got, err := c.Players.Get(context.Background(), player.ID)
	require.NoError(t, err)
	assert.Equal(t, "Josh Allen", got.Name)
}

func TestNewSelectorDefaultsMatchEngine(t *testing.T) {
	cfg := memoryConfig(t)
	assert.Equal(t, probability.DefaultSelector(), NewSelector(cfg.Engine))
}

func TestNewSelectorUsesConfiguredThresholds(t *testing.T) {
	cfg := memoryConfig(t)
	cfg.Engine.MinSampleSize = 5
	cfg.Engine.Selector.CountMaxCV = 0.9
	cfg.Engine.Selector.NormalMinSample = 12
	cfg.Engine.Selector.HighCV = 2

	s := NewSelector(cfg.Engine)
	assert.Equal(t, 5, s.MinSampleSize)
	assert.Equal(t, 0.9, s.CountMaxCV)
	assert.Equal(t, 12, s.NormalMinSample)
	assert.Equal(t, 2.0, s.HighCV)
	assert.Equal(t, 0.5, s.LowRateMean)

	// A receptions line with cv 1.0 is Poisson under the defaults but
	// overdispersed once count_max_cv drops below it.
	summary := models.StatSummary{SampleSize: 10, WeightedMean: 4, WeightedStd: 4}
	assert.Equal(t, probability.Poisson, NewSelector(memoryConfig(t).Engine).Select(models.StatReceptions, "WR", summary))
	assert.Equal(t, probability.NegativeBinomial, s.Select(models.StatReceptions, "WR", summary))
}

func TestBuildMemoryWithAPIKeys(t *testing.T) {
	cfg := memoryConfig(t)
	cfg.DataSources.SportsData.APIKey = "stats-key"
	cfg.DataSources.OddsAPI.APIKey = "odds-key"

	c, err := Build(context.Background(), cfg, testLogger())
	require.NoError(t, err)
	defer c.Close()

	require.NotNil(t, c.Jobs)
	assert.Nil(t, c.Jobs.LastRun())
}

func TestNewJobServiceMissingPlayersFile(t *testing.T) {
	cfg := memoryConfig(t)
	cfg.DataSources.SportsData.APIKey = "stats-key"
	cfg.DataSources.OddsAPI.APIKey = "odds-key"
	cfg.DataSources.PopularPlayersFile = filepath.Join(t.TempDir(), "nope.txt")

	c, err := Build(context.Background(), cfg, testLogger())
	require.NoError(t, err)
	assert.Nil(t, c.Jobs)
}

func TestNewClassifierFromLocalFiles(t *testing.T) {
	svc := NewClassifier(context.Background(), config.ClassifierConfig{
		ModelPath:   "../ml/testdata/linear_model.json",
		DatasetPath: "../ml/testdata/numeric.arff",
	}, testLogger())
	assert.NoError(t, svc.Ready())

	missing := NewClassifier(context.Background(), config.ClassifierConfig{
		ModelPath:   "missing.json",
		DatasetPath: "missing.arff",
	}, testLogger())
	assert.Error(t, missing.Ready())
}

func TestLoadConfigValidates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("app:\n  storage: memory\nserver:\n  port: 8081\n  health_port: 8081\n"), 0o600))

	_, err := LoadConfig(context.Background(), path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "health_port")

	require.NoError(t, os.WriteFile(path, []byte("app:\n  storage: memory\n"), 0o600))
	cfg, err := LoadConfig(context.Background(), path)
	require.NoError(t, err)
	assert.True(t, cfg.UsesMemoryStorage())
}
