// Package config provides YAML-based configuration loading for the
// rewarded arcade.
package config

import (
	"fmt"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the full application configuration.
type Config struct {
	Ads     AdsConfig     `yaml:"ads"`
	Game    GameConfig    `yaml:"game"`
	Network NetworkConfig `yaml:"network"`
	Log     LogConfig     `yaml:"log"`
}

// AdsConfig configures the rewarded ad slot.
type AdsConfig struct {
	PlacementID string   `yaml:"placement_id"`
	LoadTimeout Duration `yaml:"load_timeout"` // 0 disables the bound
}

// GameConfig configures the countdown game.
type GameConfig struct {
	Countdown      Duration `yaml:"countdown"`
	GameOverReward int      `yaml:"game_over_reward"` // Coins awarded when the countdown ends
	TickRate       int      `yaml:"tick_rate"`        // UI refreshes per second
}

// NetworkConfig tunes the simulated ad network.
type NetworkConfig struct {
	Source          string   `yaml:"source"`
	MinLatency      Duration `yaml:"min_latency"`
	MaxLatency      Duration `yaml:"max_latency"`
	FillRate        float64  `yaml:"fill_rate"`         // 0.0 = never fill, 1.0 = always fill
	ShowFailureRate float64  `yaml:"show_failure_rate"` // 0.0 = never fail
	RewardType      string   `yaml:"reward_type"`
	RewardAmount    int      `yaml:"reward_amount"`
	Seed            int64    `yaml:"seed"` // 0 = random
}

// LogConfig configures logging.
type LogConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
	File  string `yaml:"file"`  // Used by interactive play; empty discards logs
}

// Duration is a time.Duration written as "10s" or "1m30s" in YAML.
type Duration time.Duration

// Std returns the value as a time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// MarshalYAML writes the duration in Go's string form.
func (d Duration) MarshalYAML() (any, error) {
	return time.Duration(d).String(), nil
}

// UnmarshalYAML accepts Go duration strings.
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return fmt.Errorf("duration must be a string like \"10s\": %w", err)
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	switch {
	case c.Ads.PlacementID == "":
		return fmt.Errorf("config: ads.placement_id is required")
	case c.Ads.LoadTimeout < 0:
		return fmt.Errorf("config: ads.load_timeout must not be negative")
	case c.Game.Countdown <= 0:
		return fmt.Errorf("config: game.countdown must be positive")
	case c.Game.GameOverReward < 0:
		return fmt.Errorf("config: game.game_over_reward must not be negative")
	case c.Game.TickRate <= 0:
		return fmt.Errorf("config: game.tick_rate must be positive")
	case c.Network.MinLatency < 0 || c.Network.MaxLatency < c.Network.MinLatency:
		return fmt.Errorf("config: network latency range is invalid")
	case c.Network.FillRate < 0 || c.Network.FillRate > 1:
		return fmt.Errorf("config: network.fill_rate must be within [0, 1]")
	case c.Network.ShowFailureRate < 0 || c.Network.ShowFailureRate > 1:
		return fmt.Errorf("config: network.show_failure_rate must be within [0, 1]")
	case c.Network.RewardAmount < 0:
		return fmt.Errorf("config: network.reward_amount must not be negative")
	}
	return nil
}
