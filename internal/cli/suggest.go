package cli

import (
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/stormlightlabs/docsift/internal/suggest"
)

var (
	suggestLimit  int
	suggestFormat string
)

func newSuggestCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "suggest <prefix>",
		Short: "Complete a partial term from the index vocabulary",
		Long:  `List indexed terms that start with the given prefix, most frequent first.`,
		Example: `  docsift suggest plan
  docsift suggest -l 3 -f json ord`,
		Args: cobra.ExactArgs(1),
		RunE: runSuggest,
	}

	cmd.Flags().IntVarP(&suggestLimit, "limit", "l", 0, "Maximum number of suggestions (default: config search.suggest_limit)")
	cmd.Flags().StringVarP(&suggestFormat, "format", "f", "", "Output format (table, json)")

	return cmd
}

func runSuggest(cmd *cobra.Command, args []string) error {
	format := outputFormat(suggestFormat, formatTable, formatJSON)
	if err := checkFormat(format, formatTable, formatJSON); err != nil {
		return err
	}

	svc, err := openService()
	if err != nil {
		return err
	}

	suggestions := svc.Suggest(args[0], suggestLimit)
	if format == formatJSON {
		if suggestions == nil {
			suggestions = []suggest.Suggestion{}
		}
		return writeJSON(cmd.OutOrStdout(), suggestions)
	}

	if len(suggestions) == 0 {
		if !quiet {
			p.PrintInfo("No suggestions")
		}
		return nil
	}

	t := newTable(cmd.OutOrStdout())
	t.AppendHeader(table.Row{"Term", "Frequency"})
	for _, s := range suggestions {
		t.AppendRow(table.Row{s.Term, s.Frequency})
	}
	t.Render()
	return nil
}
