package main

import (
	"os"

	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "paneldeck",
		Short:        "Rearrangeable status dashboard for the terminal",
		Long: `paneldeck shows configured status panels in a column layout you can
rearrange with the mouse or the keyboard. Arrangements persist across
restarts; named presets capture and restore them.

Run without arguments to start the dashboard. Subcommands operate on
the persisted state directly, without starting the UI.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI()
		},
	}

	cmd.AddCommand(newShowCmd())
	cmd.AddCommand(newExportCmd())
	cmd.AddCommand(newImportCmd())
	cmd.AddCommand(newResetCmd())
	cmd.AddCommand(newLockCmd())
	cmd.AddCommand(newUnlockCmd())

	return cmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
