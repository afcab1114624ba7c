package commands

import (
	"github.com/spf13/cobra"
)

// Execute runs the treasurehunter command line
func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "treasurehunter",
		Short:        "Watch a shop catalog for treasure-priced listings and alert on Telegram",
		SilenceUsage: true,
	}

	root.AddCommand(runCmd(), diagCmd())
	return root
}
