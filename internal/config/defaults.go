package config

import (
	_ "embed"
	"time"
)

//go:embed defaults/rewarded.yaml
var defaultYAML []byte

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Ads: AdsConfig{
			PlacementID: "ca-app-pub-3940256099942544/5224354917",
			LoadTimeout: Duration(30 * time.Second),
		},
		Game: GameConfig{
			Countdown:      Duration(10 * time.Second),
			GameOverReward: 1,
			TickRate:       20,
		},
		Network: NetworkConfig{
			Source:          "SimulatedRewardedAdapter",
			MinLatency:      Duration(300 * time.Millisecond),
			MaxLatency:      Duration(1200 * time.Millisecond),
			FillRate:        0.9,
			ShowFailureRate: 0.05,
			RewardType:      "coins",
			RewardAmount:    10,
		},
		Log: LogConfig{
			Level: "info",
			File:  "~/.rewarded/rewarded.log",
		},
	}
}

// DefaultYAML returns the embedded default configuration file.
func DefaultYAML() []byte {
	return defaultYAML
}
