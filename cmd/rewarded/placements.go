package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/rewarded-arcade/internal/status"
)

var flagStatusAddr string

var placementsCmd = &cobra.Command{
	Use:   "placements",
	Short: "Show the ad slots of a running server",
	Long: `Query the status endpoint of a running 'rewarded serve --http' and
print every ad slot with its load state and expiry.

Examples:
  rewarded placements
  rewarded placements --addr http://game.example.com:8081`,
	Args: cobra.NoArgs,
	RunE: runPlacements,
}

func init() {
	placementsCmd.Flags().StringVar(&flagStatusAddr, "addr", "http://localhost:8081", "Base URL of the status server")
}

func runPlacements(cmd *cobra.Command, _ []string) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), 5*time.Second)
	defer cancel()

	url := strings.TrimSuffix(flagStatusAddr, "/") + "/placements/"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("invalid status address: %w", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("cannot reach status server: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("status server returned %s", resp.Status)
	}

	var placements []status.Placement
	if err := json.NewDecoder(resp.Body).Decode(&placements); err != nil {
		return fmt.Errorf("cannot decode placements: %w", err)
	}

	if len(placements) == 0 {
		fmt.Println("No placements yet.")
		return nil
	}

	// Calculate column widths
	maxIDLen := len("Placement")
	for _, p := range placements {
		maxIDLen = max(maxIDLen, len(p.PlacementID))
	}

	fmt.Printf("  %-*s  %-8s  %-20s  %s\n", maxIDLen, "Placement", "State", "Valid until", "Ad")
	fmt.Printf("  %-*s  %-8s  %-20s  %s\n", maxIDLen, "---------", "-----", "-----------", "--")

	for _, p := range placements {
		until := "-"
		if p.ValidUntil != nil {
			until = p.ValidUntil.Local().Format("2006-01-02 15:04:05")
			if p.Stale {
				until += " (stale)"
			}
		}
		ad := "-"
		if p.Ad != nil {
			ad = fmt.Sprintf("%s by %s", p.Ad.Title, p.Ad.Advertiser)
		}
		fmt.Printf("  %-*s  %-8s  %-20s  %s\n", maxIDLen, p.PlacementID, p.State, until, ad)
	}

	return nil
}
