package main

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/rewarded-arcade/internal/platform/tui"
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play in this terminal",
	Long: `Start a local game session.

Each round is a countdown. When it runs out you earn a coin and may watch
a rewarded video for more. Ads load in the background from the simulated
network; an ad stays valid for one hour after it loads.

Controls:
  R          - Retry (after the round ends)
  V/Enter    - Watch video
  P/Space    - Pause/resume
  X          - Close the ad early (no reward)
  B/Esc      - Back to menu
  Q/Ctrl+C   - Quit

Logs go to the configured log file so they do not disturb the screen.

Examples:
  rewarded play
  rewarded play --log-level debug --log-file ./rewarded.log
  rewarded play --config ./configs/rewarded.yaml`,
	Args: cobra.NoArgs,
	RunE: runPlay,
}

func runPlay(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	out, closeLog, err := openLogFile(cfg.Log.File)
	if err != nil {
		return err
	}
	defer closeLog()

	logger, err := newLogger(out, cfg.Log, "rewarded")
	if err != nil {
		return err
	}

	inv, closeInv := openInventory(logger)
	defer closeInv()

	// Get terminal size early so the first frame is laid out correctly
	width, height := 80, 24 // Defaults
	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		width = w
		height = h
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	session := tui.NewSessionModel(ctx, tui.SessionConfig{
		Registry:    newRegistry(cfg, inv, logger),
		PlacementID: cfg.Ads.PlacementID,
		Game:        gameConfig(cfg.Game),
		TickRate:    cfg.Game.TickRate,
		Logger:      logger,
		Username:    os.Getenv("USER"),
		Width:       width,
		Height:      height,
	})
	defer session.Close()

	logger.Info("starting local session", "placement", cfg.Ads.PlacementID)

	p := tea.NewProgram(session, tea.WithAltScreen(), tea.WithContext(ctx))
	final, err := p.Run()
	if err != nil {
		return fmt.Errorf("error running game: %w", err)
	}

	if m, ok := final.(tui.SessionModel); ok {
		fmt.Printf("You finished with %d coins.\n", m.Coins())
	}
	return nil
}
