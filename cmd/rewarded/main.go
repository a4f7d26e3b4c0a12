// rewarded is a terminal game that pays coins for outlasting a countdown
// and for watching rewarded video ads from a simulated ad network.
//
// Usage:
//
//	rewarded play                - Play in this terminal
//	rewarded serve               - Start SSH server for remote play
//	rewarded placements          - Show ad slots of a running server
//	rewarded creatives list      - Show the ad inventory
//	rewarded config              - Print the effective configuration
//
// Global flags:
//
//	--config <path>     - Config file (default: search ~/.rewarded, ./configs)
//	--db <path>         - Inventory database (default: ~/.rewarded/rewarded.db)
//	--log-level <lvl>   - Override log level
//	--log-file <path>   - Override log file used by play
//	--fps <rate>        - Override UI tick rate
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	flagConfig   string
	flagDBPath   string
	flagLogLevel string
	flagLogFile  string
	flagFPS      int
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "rewarded",
	Short: "Rewarded Arcade - earn coins by watching ads in your terminal",
	Long: `Rewarded Arcade is a small terminal game built around a rewarded
video ad slot. Outlast the countdown for a coin, then watch a video ad
from the simulated ad network for a bigger reward.

Available commands:
  play        - Play in this terminal
  serve       - Start SSH server for remote play
  placements  - Show the ad slots of a running server
  creatives   - Manage the simulated ad inventory
  config      - Print the effective configuration

Examples:
  rewarded play
  rewarded serve --ssh :2222 --http :8081
  rewarded placements --addr http://localhost:8081
  rewarded creatives add --advertiser Acme --title "Rockets" --duration 5s`,
	SilenceUsage: true,
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to config YAML")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.rewarded/rewarded.db", "Path to inventory database")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level: debug, info, warn, error (overrides config)")
	rootCmd.PersistentFlags().StringVar(&flagLogFile, "log-file", "", "Log file for play (overrides config)")
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 0, "UI tick rate (0 = use config)")

	// Add subcommands
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(placementsCmd)
	rootCmd.AddCommand(creativesCmd)
	rootCmd.AddCommand(configCmd)
}
