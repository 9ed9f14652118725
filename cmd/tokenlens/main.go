package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"tokenlens/pkg/config"
	"tokenlens/pkg/logging"
)

// cli carries state shared by subcommands of one invocation
type cli struct {
	verbose bool
	cfg     config.Config
	logger  *slog.Logger
}

func newRootCmd() *cobra.Command {
	c := &cli{}

	root := &cobra.Command{
		Use:   "tokenlens",
		Short: "TokenLens - heuristic annotator for token promotion text",
		Long: `TokenLens reads token and project promotion text and produces an educational
report: sentiment score, hype level, momentum context, promotional bonding
stage, risk cues and narrative pattern similarity.

Matching is plain keyword presence. Nothing here is financial advice,
a prediction or an investment recommendation.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			if c.verbose {
				cfg.LogLevel = "debug"
			}
			c.cfg = cfg
			c.logger = logging.InitWriter(cmd.ErrOrStderr(), cfg.LogLevel)
			return nil
		},
	}

	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "Enable debug logging")

	root.AddCommand(c.analyzeCmd())
	root.AddCommand(c.serveCmd())
	root.AddCommand(c.banksCmd())
	root.AddCommand(versionCmd())
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
