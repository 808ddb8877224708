package cli

import (
	"fmt"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/stormlightlabs/docsift/internal/errors"
	"github.com/stormlightlabs/docsift/internal/service"
	"github.com/stormlightlabs/docsift/internal/shared"
)

var buildFull bool

func newBuildCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build or refresh the search index",
		Long: `Walk the corpus root, parse every eligible document and write the index
artifact.

Unchanged documents are reused from the existing index unless --full is
given. Unreadable files are skipped and malformed metadata headers are
ignored; both are reported as warnings and never fail the build.`,
		Example: `  docsift build
  docsift build -r ./docs
  docsift build --full -i handbook`,
		Args: cobra.NoArgs,
		RunE: runBuild,
	}

	cmd.Flags().BoolVar(&buildFull, "full", false, "Ignore the existing index and re-read every document")

	return cmd
}

func runBuild(cmd *cobra.Command, args []string) error {
	svc, err := service.New(cfg, nil)
	if err != nil {
		return err
	}
	if !buildFull {
		if err := svc.Load(); err != nil && errors.GetCode(err) != errors.ErrCodeIndexNotFound {
			return err
		}
	}

	report, err := svc.Rebuild(cmd.Context(), buildFull)
	if err != nil {
		return err
	}

	if quiet {
		return nil
	}

	n := report.Stats.DocumentCount
	p.PrintSuccess(fmt.Sprintf("Indexed %d %s (%d reused, %d removed) in %s",
		n, shared.Pluralize(n, "document", "documents"),
		report.Build.Reused, report.Build.Removed,
		report.Build.Duration.Round(time.Millisecond)))
	p.PrintListItem("Index", p.FormatPath(report.Stats.Path))
	p.PrintListItem("Terms", shared.Itoa(report.Stats.TermCount))

	if len(report.Warnings) == 0 {
		return nil
	}

	p.PrintWarning(fmt.Sprintf("%d %s with warnings", len(report.Warnings),
		shared.Pluralize(len(report.Warnings), "file", "files")))

	t := newTable(cmd.OutOrStdout())
	t.AppendHeader(table.Row{"Path", "Code", "Problem"})
	for _, w := range report.Warnings {
		t.AppendRow(table.Row{w.Path, errors.GetCode(w.Err), w.Err.Error()})
	}
	t.SetColumnConfigs([]table.ColumnConfig{{Number: 3, WidthMax: 60}})
	t.Render()
	return nil
}
