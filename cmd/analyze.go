package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rajdefenseye/CMMC-lens3/pkg/adk"
	"github.com/rajdefenseye/CMMC-lens3/pkg/catalog"
	"github.com/rajdefenseye/CMMC-lens3/pkg/config"
	"github.com/rajdefenseye/CMMC-lens3/pkg/engine"
	"github.com/rajdefenseye/CMMC-lens3/pkg/logger"
	"github.com/rajdefenseye/CMMC-lens3/pkg/report"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <file.csv>",
	Short: "Analyze a CSV file and print the compliance report",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")
		output, _ := cmd.Flags().GetString("output")
		summarize, _ := cmd.Flags().GetBool("summarize")
		if format != "json" && format != "markdown" {
			return fmt.Errorf("unknown format %q (json, markdown)", format)
		}

		rep, analyzeErr := engine.NewEvaluator().Analyze(args[0])

		var out []byte
		switch {
		case analyzeErr != nil || format == "json":
			data, err := report.Encode(rep, analyzeErr)
			if err != nil {
				return err
			}
			out = append(data, '\n')
		default:
			out = []byte(report.Markdown(rep, catalog.Default()))
		}

		if analyzeErr == nil && summarize {
			summary, err := summarizeReport(cmd.Context(), rep)
			if err != nil {
				logger.Warnf("Skipping summary: %v", err)
			} else {
				out = append(out, []byte("\n# Assessor summary\n\n"+summary+"\n")...)
			}
		}

		if output != "" {
			if err := os.WriteFile(output, out, 0o644); err != nil {
				return err
			}
			logger.Infof("Report written to %s", output)
		} else {
			cmd.OutOrStdout().Write(out)
		}

		if analyzeErr != nil {
			cmd.SilenceUsage = true
			return fmt.Errorf("analysis failed: %s", engine.KindOf(analyzeErr))
		}
		return nil
	},
}

func summarizeReport(ctx context.Context, rep *engine.Report) (string, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	cfg, err := config.LoadConfig()
	if err != nil {
		return "", err
	}

	// stdout carries the report, so progress goes to stderr
	logger.Debugf("Requesting assessor summary from %s (%s)...", cfg.SelectedProvider, cfg.SelectedModel)
	provider, err := adk.NewProvider(ctx, cfg.SelectedProvider, cfg.GetAPIKey(cfg.SelectedProvider), cfg.SelectedModel)
	if err != nil {
		return "", err
	}
	if closer, ok := provider.(interface{ Close() }); ok {
		defer closer.Close()
	}

	return adk.Summarize(ctx, provider, rep)
}

func init() {
	analyzeCmd.Flags().StringP("format", "f", "json", "Output format (json, markdown)")
	analyzeCmd.Flags().StringP("output", "o", "", "Write the report to a file instead of stdout")
	analyzeCmd.Flags().Bool("summarize", false, "Append an LLM-written assessor summary (needs an API key)")
	rootCmd.AddCommand(analyzeCmd)
}
