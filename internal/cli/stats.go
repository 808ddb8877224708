package cli

import (
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/stormlightlabs/docsift/internal/shared"
)

var statsFormat string

func newStatsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show index statistics",
		Args:  cobra.NoArgs,
		RunE:  runStats,
	}

	cmd.Flags().StringVarP(&statsFormat, "format", "f", "", "Output format (table, json)")

	return cmd
}

func runStats(cmd *cobra.Command, args []string) error {
	format := outputFormat(statsFormat, formatTable, formatJSON)
	if err := checkFormat(format, formatTable, formatJSON); err != nil {
		return err
	}

	svc, err := openService()
	if err != nil {
		return err
	}

	stats := svc.Stats()
	if format == formatJSON {
		return writeJSON(cmd.OutOrStdout(), stats)
	}

	p.PrintHeader("Index")
	p.PrintListItem("Path", p.FormatPath(stats.Path))
	p.PrintListItem("Documents", shared.Itoa(stats.DocumentCount))
	p.PrintListItem("Terms", shared.Itoa(stats.TermCount))
	p.PrintListItem("Postings", shared.Itoa(stats.PostingCount))
	p.PrintListItem("Artifact size", humanize.Bytes(uint64(stats.ArtifactSize)))
	p.PrintListItem("Build ID", stats.BuildID)
	p.PrintListItem("Built at", stats.BuiltAt.Local().Format(time.RFC3339)+" ("+humanize.Time(stats.BuiltAt)+")")
	return nil
}
