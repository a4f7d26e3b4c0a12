package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/rewarded-arcade/internal/platform/tui"
	"github.com/vovakirdan/rewarded-arcade/internal/status"
)

var (
	flagSSHAddr     string
	flagHostKey     string
	flagIdleTimeout int
	flagHTTPAddr    string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the SSH server",
	Long: `Start an SSH server that allows users to connect and play.

Each SSH connection gets its own session with its own coin balance.
All sessions share one ad slot per placement, so an ad loaded for one
player can be shown to the next.

Host key handling:
  - If --host-key is provided, uses that key file
  - Otherwise, auto-generates a key at ~/.rewarded/host_key

With --http set, a read-only JSON status endpoint lists the ad slots:
  GET /healthz
  GET /placements/
  GET /placements/<placement id>

Examples:
  rewarded serve                           # Listen on :23234 with auto-generated key
  rewarded serve --ssh :2222               # Listen on port 2222
  rewarded serve --http :8081              # Also serve slot status over HTTP
  rewarded serve --host-key ./my_host_key  # Use specific host key

Users can connect with:
  ssh localhost -p 23234`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagSSHAddr, "ssh", ":23234", "SSH server address (host:port)")
	serveCmd.Flags().StringVar(&flagHostKey, "host-key", "", "Path to host key file (auto-generated if not specified)")
	serveCmd.Flags().IntVar(&flagIdleTimeout, "idle-timeout", 30, "Idle timeout in minutes before disconnecting")
	serveCmd.Flags().StringVar(&flagHTTPAddr, "http", "", "Status HTTP address (empty = disabled)")
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	logger, err := newLogger(os.Stderr, cfg.Log, "rewarded")
	if err != nil {
		return err
	}

	inv, closeInv := openInventory(logger)
	defer closeInv()

	reg := newRegistry(cfg, inv, logger)

	server, err := tui.NewSSHServer(tui.SSHServerConfig{
		Address:     flagSSHAddr,
		HostKeyPath: flagHostKey,
		IdleTimeout: time.Duration(flagIdleTimeout) * time.Minute,
	}, tui.SessionConfig{
		Registry:    reg,
		PlacementID: cfg.Ads.PlacementID,
		Game:        gameConfig(cfg.Game),
		TickRate:    cfg.Game.TickRate,
	}, logger)
	if err != nil {
		return fmt.Errorf("error creating server: %w", err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if flagHTTPAddr != "" {
		httpServer := &http.Server{
			Addr:              flagHTTPAddr,
			Handler:           status.NewHandler(reg, nil).Router(),
			ReadHeaderTimeout: 5 * time.Second,
		}
		go func() {
			logger.Info("starting status server", "address", flagHTTPAddr)
			if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("status server error", "error", err)
				stop()
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			//nolint:errcheck // Best-effort shutdown
			httpServer.Shutdown(shutdownCtx)
		}()
	}

	fmt.Printf("Starting rewarded arcade SSH server on %s\n", server.Addr())
	fmt.Println("Connect with: ssh localhost -p 23234")
	fmt.Println("Press Ctrl+C to stop")

	return server.ListenAndServe(ctx)
}
