package cmd

import (
	"github.com/spf13/cobra"

	"github.com/rajdefenseye/CMMC-lens3/pkg/config"
	"github.com/rajdefenseye/CMMC-lens3/pkg/logger"
)

var rootCmd = &cobra.Command{
	Use:   "cmmc-lens",
	Short: "CMMC compliance scanner for tabular exports",
	Long: `CMMC-lens scans CSV exports (user lists, system inventories, website
content) against CMMC controls and reports findings, required evidence and
an overall compliance posture.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger.DebugEnabled = DebugMode
		config.LoadEnv()
	},
}

var DebugMode bool

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	cobra.CheckErr(rootCmd.Execute())
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&DebugMode, "debug", false, "Enable debug logging")
}
