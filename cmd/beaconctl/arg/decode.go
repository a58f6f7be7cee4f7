package arg

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hodory/beacon/internal/payload"
)

var decodeCmd = &cobra.Command{
	Use:   "decode <scanned>",
	Short: "Decode a scanned QR payload the way the scanner app does",
	Long: `decode interprets a scanned string. Structured session payloads are
printed field by field; anything else is treated as a bare attendance code.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		scan := payload.Decode(args[0])
		w := cmd.OutOrStdout()
		if !scan.Structured() {
			fmt.Fprintf(w, "Code: %s (bare)\n", scan.Code())
			return nil
		}
		return printJSON(cmd, scan.Payload)
	},
}

func init() {
	rootCmd.AddCommand(decodeCmd)
}
