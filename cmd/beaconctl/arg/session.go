package arg

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/hodory/beacon/internal/bridge"
)

var (
	sessionRoom        string
	sessionWithHotspot bool
	sessionJSON        bool
)

var sessionCmd = &cobra.Command{
	Use:     "session",
	Aliases: []string{"s"},
	Short:   "Start, stop or inspect the attendance session",
}

var sessionStartCmd = &cobra.Command{
	Use:   "start <module>",
	Short: "Start a session for a module, replacing any running one",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withClient(func(c *bridge.Client) error {
			out, err := c.SessionStart(cmd.Context(), args[0], sessionRoom, sessionWithHotspot)
			if err != nil {
				return err
			}
			if sessionJSON {
				return printJSON(cmd, out)
			}
			printSession(cmd, out)
			if out.HotspotError != "" {
				fmt.Fprintf(cmd.ErrOrStderr(), "hotspot not started: %s\n", out.HotspotError)
			}
			return nil
		})
	},
}

var sessionStopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop the session and its hotspot",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withClient(func(c *bridge.Client) error {
			res, err := c.SessionStop(cmd.Context())
			if err != nil {
				return err
			}
			if sessionJSON {
				return printJSON(cmd, res)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Session stopped")
			if res.Error != "" {
				fmt.Fprintf(cmd.ErrOrStderr(), "hotspot: %s\n", res.Error)
			}
			return nil
		})
	},
}

var sessionStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the running session",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withClient(func(c *bridge.Client) error {
			out, err := c.SessionStatus(cmd.Context())
			if err != nil {
				return err
			}
			if sessionJSON {
				return printJSON(cmd, out)
			}
			printSession(cmd, out)
			return nil
		})
	},
}

func printSession(cmd *cobra.Command, out bridge.SessionReply) {
	w := cmd.OutOrStdout()
	s := out.Session
	if !s.IsActive {
		fmt.Fprintln(w, "No session running")
		return
	}
	fmt.Fprintf(w, "Code:      %s\n", s.Code)
	fmt.Fprintf(w, "Module:    %s\n", s.ModuleCode)
	if s.Room != "" {
		fmt.Fprintf(w, "Room:      %s\n", s.Room)
	}
	fmt.Fprintf(w, "Remaining: %s\n", s.Remaining().Round(time.Second))
	if out.Payload.Network != nil {
		fmt.Fprintf(w, "Network:   %s (%s)\n", out.Payload.Network.SSID, out.Payload.Network.Security)
	}
}

func init() {
	sessionStartCmd.Flags().StringVarP(&sessionRoom, "room", "r", "", "room the session is held in")
	sessionStartCmd.Flags().BoolVarP(&sessionWithHotspot, "hotspot", "w", false, "also raise the configured hotspot")
	sessionCmd.PersistentFlags().BoolVar(&sessionJSON, "json", false, "print the raw reply")

	sessionCmd.AddCommand(sessionStartCmd, sessionStopCmd, sessionStatusCmd)
	rootCmd.AddCommand(sessionCmd)
}
