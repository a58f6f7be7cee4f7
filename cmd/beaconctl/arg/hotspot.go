package arg

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hodory/beacon/internal/bridge"
	"github.com/hodory/beacon/internal/hotspot"
)

var (
	hotspotPassword string
	hotspotSecurity string
	hotspotIfname   string
)

var hotspotCmd = &cobra.Command{
	Use:     "hotspot",
	Aliases: []string{"hs"},
	Short:   "Control the classroom access point",
}

var hotspotStartCmd = &cobra.Command{
	Use:   "start <ssid>",
	Short: "Create the access point and bring it up",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := hotspot.StartOptions{
			SSID:     args[0],
			Password: hotspotPassword,
			Security: hotspot.ParseSecurity(hotspotSecurity),
			Ifname:   hotspotIfname,
		}
		return withClient(func(c *bridge.Client) error {
			st, err := c.HotspotStart(cmd.Context(), opts)
			if err != nil {
				return err
			}
			printHotspot(cmd, st)
			return nil
		})
	},
}

var hotspotStopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Bring the access point down",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withClient(func(c *bridge.Client) error {
			res, err := c.HotspotStop(cmd.Context())
			if err != nil {
				return err
			}
			if res.Error != "" {
				return fmt.Errorf("hotspot stop: %s", res.Error)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Hotspot stopped")
			return nil
		})
	},
}

var hotspotStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the wireless interface and whether the hotspot is up",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withClient(func(c *bridge.Client) error {
			st, err := c.HotspotStatus(cmd.Context(), hotspotIfname)
			if err != nil {
				return err
			}
			printHotspot(cmd, st)
			return nil
		})
	},
}

func printHotspot(cmd *cobra.Command, st hotspot.Status) {
	w := cmd.OutOrStdout()
	if !st.Supported {
		fmt.Fprintln(w, "Hotspot not supported on this host")
		return
	}
	up := "down"
	if st.IsHotspotActive {
		up = "up"
	}
	fmt.Fprintf(w, "Hotspot:    %s\n", up)
	fmt.Fprintf(w, "Interface:  %s\n", st.Interface)
	fmt.Fprintf(w, "State:      %s\n", st.State)
	if st.ConnectionName != "" {
		fmt.Fprintf(w, "Connection: %s\n", st.ConnectionName)
	}
	if st.IPv4Address != "" {
		fmt.Fprintf(w, "Address:    %s\n", st.IPv4Address)
	}
	if st.Error != "" {
		fmt.Fprintf(w, "Error:      %s\n", st.Error)
	}
}

func init() {
	hotspotStartCmd.Flags().StringVarP(&hotspotPassword, "password", "p", "", "WPA passphrase, 8 to 63 characters")
	hotspotStartCmd.Flags().StringVarP(&hotspotSecurity, "security", "s", "WPA", "WPA, WEP or nopass")
	hotspotCmd.PersistentFlags().StringVarP(&hotspotIfname, "ifname", "i", "", "wireless interface (default: first wifi device)")

	hotspotCmd.AddCommand(hotspotStartCmd, hotspotStopCmd, hotspotStatusCmd)
	rootCmd.AddCommand(hotspotCmd)
}
