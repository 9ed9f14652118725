package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"tokenlens/modules"
	"tokenlens/pkg/analysis"
)

func (c *cli) banksCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "banks",
		Short: "Print and validate the keyword banks",
		Long: `Prints every keyword bank with validation notes. With --config the YAML
file is merged over the defaults first; a malformed bank is an error.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if configPath == "" {
				configPath = c.cfg.BanksFile
			}

			cfg := analysis.DefaultBankConfig()
			if configPath != "" {
				var err error
				if cfg, err = analysis.LoadBankConfig(configPath); err != nil {
					return err
				}
			}
			if _, err := cfg.Build(); err != nil {
				return err
			}

			summary, err := modules.RunBanks(cfg)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), summary)
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "YAML keyword bank overrides (default: KEYWORD_BANKS_FILE)")
	return cmd
}
