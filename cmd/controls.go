package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rajdefenseye/CMMC-lens3/pkg/catalog"
)

var controlsCmd = &cobra.Command{
	Use:   "controls [control-id]",
	Short: "List the CMMC control catalog or describe one control",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cat := catalog.Default()

		if len(args) == 1 {
			ctl, ok := cat.Lookup(args[0])
			if !ok {
				fmt.Printf("Control %s not found in the %s catalog.\n", args[0], cat.Standard)
				return
			}
			fmt.Printf("%s\n  %s\n", ctl.ID, ctl.Description)
			return
		}

		fmt.Printf("%s controls (%d):\n", cat.Standard, len(cat.Controls))
		for _, ctl := range cat.Controls {
			domain := ""
			if d, ok := cat.DomainOf(ctl.ID); ok {
				domain = d.Name
			}
			fmt.Printf("%-14s %-26s %s\n", ctl.ID, domain, ctl.Description)
		}
	},
}

func init() {
	rootCmd.AddCommand(controlsCmd)
}
