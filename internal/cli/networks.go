package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/indexpilot/indexpilot/internal/network"
)

var networksCmd = &cobra.Command{
	Use:   "networks",
	Short: "List the supported networks",
	RunE: func(cmd *cobra.Command, args []string) error {
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tTIER\tTRACES\tRPC")
		for _, id := range network.SupportedIDs() {
			info := network.Supported[id]
			fmt.Fprintf(w, "%d\t%s\t%s\t%v\t%s\n",
				info.NetworkID, info.Name, info.Tier, info.SupportsTraces, info.RPCURL)
		}
		return w.Flush()
	},
}
