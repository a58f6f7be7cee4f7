package arg

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/hodory/beacon/internal/bridge"
)

var systemBus bool

var rootCmd = &cobra.Command{
	Use:   "beaconctl",
	Short: "beaconctl is the command line tool for a running beacon host",
	Long: `beaconctl talks to the beacon host over D-Bus. It can start and stop
attendance sessions, drive the classroom hotspot, and decode scanned payloads.`,
	SilenceUsage: true,
}

// Execute runs the command tree and exits non-zero on failure.
func Execute() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		cancel()
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&systemBus, "system", false, "use the system bus instead of the session bus")
}

// withClient dials the host and runs fn with it.
func withClient(fn func(c *bridge.Client) error) error {
	c, err := bridge.Dial(systemBus)
	if err != nil {
		return err
	}
	defer func() { _ = c.Close() }()
	return fn(c)
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	return nil
}
