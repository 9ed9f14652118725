package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"tokenlens/pkg/version"
)

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {},
		Run: func(cmd *cobra.Command, args []string) {
			info := version.GetBuildInfo()
			fmt.Fprintf(cmd.OutOrStdout(), "%s (%s, %s)\n", version.GetFullVersionString(), info.GoVersion, info.Platform)
		},
	}
}
