package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/rewarded-arcade/internal/adnet"
	"github.com/vovakirdan/rewarded-arcade/internal/ads"
	"github.com/vovakirdan/rewarded-arcade/internal/config"
	"github.com/vovakirdan/rewarded-arcade/internal/game"
	"github.com/vovakirdan/rewarded-arcade/internal/registry"
	"github.com/vovakirdan/rewarded-arcade/internal/storage"
)

// loadConfig loads the config file and applies flag overrides.
func loadConfig() (config.Config, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return cfg, err
	}
	if flagLogLevel != "" {
		cfg.Log.Level = flagLogLevel
	}
	if flagLogFile != "" {
		cfg.Log.File = flagLogFile
	}
	if flagFPS > 0 {
		cfg.Game.TickRate = flagFPS
	}
	return cfg, cfg.Validate()
}

// newLogger creates the process logger writing to w.
func newLogger(w io.Writer, cfg config.LogConfig, prefix string) (*log.Logger, error) {
	level, err := log.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
	}
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          prefix,
		Level:           level,
	}), nil
}

// openLogFile opens the log file for appending. An empty path discards logs.
// The returned close func is never nil.
func openLogFile(path string) (io.Writer, func() error, error) {
	if path == "" {
		return io.Discard, func() error { return nil }, nil
	}
	path, err := config.ExpandHome(path)
	if err != nil {
		return nil, nil, err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, fmt.Errorf("cannot create log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("cannot open log file: %w", err)
	}
	return f, f.Close, nil
}

// openInventory opens the creative database. Without it the network serves
// the built-in demo creatives. The returned close func is never nil.
func openInventory(logger *log.Logger) (adnet.Inventory, func() error) {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		logger.Warn("could not open inventory database, using demo creatives", "error", err)
		return adnet.DefaultCreatives, func() error { return nil }
	}
	return store, store.Close
}

// networkConfig converts the YAML section to the simulator config.
func networkConfig(c config.NetworkConfig) adnet.Config {
	return adnet.Config{
		Source:          c.Source,
		MinLatency:      c.MinLatency.Std(),
		MaxLatency:      c.MaxLatency.Std(),
		FillRate:        c.FillRate,
		ShowFailureRate: c.ShowFailureRate,
		RewardType:      c.RewardType,
		RewardAmount:    c.RewardAmount,
		Seed:            c.Seed,
	}
}

// gameConfig converts the YAML section to the controller config.
func gameConfig(c config.GameConfig) game.Config {
	return game.Config{
		Countdown:      c.Countdown.Std(),
		GameOverReward: c.GameOverReward,
	}
}

// newRegistry wires the simulated network into a placement registry.
func newRegistry(cfg config.Config, inv adnet.Inventory, logger *log.Logger) *registry.Registry {
	network := adnet.New(networkConfig(cfg.Network), inv, adnet.WithLogger(logger.WithPrefix("adnet")))
	slotLogger := logger.WithPrefix("ads")
	return registry.New(func(placementID string) *ads.Slot {
		return ads.NewSlot(placementID, network,
			ads.WithLogger(slotLogger.With("placement", placementID)),
			ads.WithLoadTimeout(cfg.Ads.LoadTimeout.Std()),
		)
	})
}
