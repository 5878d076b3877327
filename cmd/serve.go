package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/rajdefenseye/CMMC-lens3/pkg/catalog"
	"github.com/rajdefenseye/CMMC-lens3/pkg/config"
	"github.com/rajdefenseye/CMMC-lens3/pkg/engine"
	"github.com/rajdefenseye/CMMC-lens3/pkg/logger"
	"github.com/rajdefenseye/CMMC-lens3/pkg/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the CSV upload endpoint (POST /analyze)",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig()
		if err != nil {
			return err
		}
		if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
			cfg.Server.Addr = addr
		}

		ev := engine.NewEvaluator()
		logger.Infof("Evaluator initialised with %d rules: %v", len(ev.RuleNames()), ev.RuleNames())
		srv := server.NewServer(ev, catalog.Default(), cfg.Server)

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		errCh := make(chan error, 1)
		go func() {
			errCh <- srv.Start(cfg.Server.Addr)
		}()

		select {
		case err := <-errCh:
			return err
		case <-ctx.Done():
			return srv.Stop()
		}
	},
}

func init() {
	serveCmd.Flags().String("addr", "", "Listen address (overrides config and CMMC_LENS_ADDR)")
	rootCmd.AddCommand(serveCmd)
}
