package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "rewarded.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()

	require.NoError(t, cfg.Validate())
	assert.Equal(t, "ca-app-pub-3940256099942544/5224354917", cfg.Ads.PlacementID)
	assert.Equal(t, 10*time.Second, cfg.Game.Countdown.Std())
	assert.Equal(t, 1, cfg.Game.GameOverReward)
}

func TestEmbeddedDefaultsMatchDefault(t *testing.T) {
	var fromFile Config
	require.NoError(t, yaml.Unmarshal(DefaultYAML(), &fromFile))

	assert.Equal(t, Default(), fromFile)
}

func TestLoadCustomOverlaysDefaults(t *testing.T) {
	path := writeFile(t, `
game:
  countdown: 45s
network:
  fill_rate: 0.5
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 45*time.Second, cfg.Game.Countdown.Std())
	assert.InDelta(t, 0.5, cfg.Network.FillRate, 1e-9)
	assert.Equal(t, Default().Ads, cfg.Ads, "untouched sections keep their defaults")
	assert.Equal(t, Default().Game.TickRate, cfg.Game.TickRate)
}

func TestLoadMissingCustomFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadRejectsBadDuration(t *testing.T) {
	path := writeFile(t, "game:\n  countdown: soon\n")

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid duration")
}

func TestLoadValidates(t *testing.T) {
	path := writeFile(t, "network:\n  fill_rate: 1.5\n")

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "fill_rate")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"empty placement", func(c *Config) { c.Ads.PlacementID = "" }, "placement_id"},
		{"negative timeout", func(c *Config) { c.Ads.LoadTimeout = -1 }, "load_timeout"},
		{"zero countdown", func(c *Config) { c.Game.Countdown = 0 }, "countdown"},
		{"negative reward", func(c *Config) { c.Game.GameOverReward = -1 }, "game_over_reward"},
		{"zero tick rate", func(c *Config) { c.Game.TickRate = 0 }, "tick_rate"},
		{"inverted latency", func(c *Config) { c.Network.MaxLatency = c.Network.MinLatency - 1 }, "latency"},
		{"failure rate", func(c *Config) { c.Network.ShowFailureRate = -0.1 }, "show_failure_rate"},
		{"negative amount", func(c *Config) { c.Network.RewardAmount = -1 }, "reward_amount"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.field)
		})
	}
}

func TestMarshalRoundTripsDurations(t *testing.T) {
	out, err := Marshal(Default())
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(out), "countdown: 10s"), string(out))

	var back Config
	require.NoError(t, yaml.Unmarshal(out, &back))
	assert.Equal(t, Default(), back)
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	got, err := ExpandHome("~/.rewarded/x.db")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".rewarded/x.db"), got)

	got, err = ExpandHome("/abs/path")
	require.NoError(t, err)
	assert.Equal(t, "/abs/path", got)
}
