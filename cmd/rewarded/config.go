package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/rewarded-arcade/internal/config"
)

var flagDefaults bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective configuration",
	Long: `Print the configuration after the search order and flag overrides
are applied, as YAML.

Search order:
  1. --config <path>
  2. ~/.rewarded/config.yaml
  3. ./configs/rewarded.yaml
  4. built-in defaults

Examples:
  rewarded config
  rewarded config --defaults > ~/.rewarded/config.yaml`,
	Args: cobra.NoArgs,
	RunE: runConfig,
}

func init() {
	configCmd.Flags().BoolVar(&flagDefaults, "defaults", false, "Print the built-in default file instead")
}

func runConfig(_ *cobra.Command, _ []string) error {
	if flagDefaults {
		_, err := os.Stdout.Write(config.DefaultYAML())
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	out, err := config.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("cannot render config: %w", err)
	}
	_, err = os.Stdout.Write(out)
	return err
}
