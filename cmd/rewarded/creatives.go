package main

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/rewarded-arcade/internal/storage"
)

var (
	flagAdvertiser string
	flagTitle      string
	flagDuration   time.Duration
	flagWeight     int
)

var creativesCmd = &cobra.Command{
	Use:   "creatives",
	Short: "Manage the simulated ad inventory",
	Long: `List, add and remove the video creatives the simulated network
serves. A fresh database is seeded with three demo creatives.

Weights bias the pick: a creative with weight 3 is served three times as
often as one with weight 1.`,
}

var creativesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List creatives",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withStore(func(store *storage.Store) error {
			return listCreatives(cmd.Context(), store)
		})
	},
}

var creativesAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a creative",
	Long: `Add a creative to the inventory.

Examples:
  rewarded creatives add --advertiser Acme --title "Rockets" --duration 5s
  rewarded creatives add --advertiser Acme --title "Anvils" --duration 8s --weight 3`,
	Args: cobra.NoArgs,
	RunE: func(_ *cobra.Command, _ []string) error {
		return withStore(func(store *storage.Store) error {
			id, err := store.AddCreative(flagAdvertiser, flagTitle, flagDuration, flagWeight)
			if err != nil {
				return err
			}
			fmt.Printf("Added creative #%d\n", id)
			return nil
		})
	},
}

var creativesRmCmd = &cobra.Command{
	Use:   "rm <id>",
	Short: "Remove a creative",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid creative id %q", args[0])
		}
		return withStore(func(store *storage.Store) error {
			removed, err := store.RemoveCreative(id)
			if err != nil {
				return err
			}
			if !removed {
				return fmt.Errorf("no creative with id %d", id)
			}
			fmt.Printf("Removed creative #%d\n", id)
			return nil
		})
	},
}

func init() {
	creativesAddCmd.Flags().StringVar(&flagAdvertiser, "advertiser", "", "Advertiser name")
	creativesAddCmd.Flags().StringVar(&flagTitle, "title", "", "Creative title")
	creativesAddCmd.Flags().DurationVar(&flagDuration, "duration", 5*time.Second, "Playback duration")
	creativesAddCmd.Flags().IntVar(&flagWeight, "weight", 1, "Relative pick weight")

	creativesCmd.AddCommand(creativesListCmd)
	creativesCmd.AddCommand(creativesAddCmd)
	creativesCmd.AddCommand(creativesRmCmd)
}

// withStore opens the inventory database for the duration of fn.
func withStore(fn func(*storage.Store) error) error {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		return fmt.Errorf("error opening inventory database: %w", err)
	}
	defer store.Close()
	return fn(store)
}

func listCreatives(ctx context.Context, store *storage.Store) error {
	entries, err := store.ListCreatives(ctx)
	if err != nil {
		return fmt.Errorf("error retrieving creatives: %w", err)
	}

	if len(entries) == 0 {
		fmt.Println("No creatives in the inventory.")
		fmt.Println()
		fmt.Println("Add one with 'rewarded creatives add'; until then every load is a no-fill.")
		return nil
	}

	// Calculate column widths
	maxAdvLen := len("Advertiser")
	for _, e := range entries {
		maxAdvLen = max(maxAdvLen, len(e.Advertiser))
	}

	fmt.Printf("  %-4s  %-*s  %-8s  %-6s  %s\n", "ID", maxAdvLen, "Advertiser", "Duration", "Weight", "Title")
	fmt.Printf("  %-4s  %-*s  %-8s  %-6s  %s\n", "--", maxAdvLen, "----------", "--------", "------", "-----")

	for _, e := range entries {
		fmt.Printf("  %-4d  %-*s  %-8s  %-6d  %s\n", e.ID, maxAdvLen, e.Advertiser, e.Duration, e.Weight, e.Title)
	}

	return nil
}
