package cli

import (
	"github.com/spf13/cobra"

	"github.com/stormlightlabs/docsift/internal/tui"
)

func newTuiCommand() *cobra.Command {
	tuiCmd := &cobra.Command{
		Use:   "tui",
		Short: "Launch the terminal user interface",
		Long:  `Launch the interactive search box over the index, with a result list and a document viewer.`,
		Args:  cobra.NoArgs,
		RunE:  runTui,
	}
	return tuiCmd
}

func runTui(cmd *cobra.Command, args []string) error {
	svc, err := openService()
	if err != nil {
		return err
	}

	return tui.Run(svc)
}
