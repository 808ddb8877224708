package cli

import (
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/stormlightlabs/docsift/internal/search"
)

const alternativeLimit = 5

var (
	searchPhrase     bool
	searchNoFuzzy    bool
	searchCategories []string
	searchTags       []string
	searchLimit      int
	searchFormat     string
)

func newSearchCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search <query...>",
		Short: "Search the documentation",
		Long: `Search the index for documents matching the query.

Each matched term adds field weight x term frequency x match weight, where
typo matches weigh less than exact ones. The sum is divided by a document
length factor and phrase matches get a fixed bonus. Misspelled terms are matched against similar
vocabulary terms unless --no-fuzzy is given. With --phrase, the query
terms must appear consecutively in one field.`,
		Example: `  docsift search planogram
  docsift search --phrase "order flow"
  docsift search -c guides -t retail -l 5 shelf layout
  docsift search -f json plangoram`,
		Args: cobra.MinimumNArgs(1),
		RunE: runSearch,
	}

	cmd.Flags().BoolVarP(&searchPhrase, "phrase", "p", false, "Require the terms to appear consecutively")
	cmd.Flags().BoolVar(&searchNoFuzzy, "no-fuzzy", false, "Disable typo-tolerant matching")
	cmd.Flags().StringArrayVarP(&searchCategories, "category", "c", nil, "Restrict to a category (repeatable)")
	cmd.Flags().StringArrayVarP(&searchTags, "tag", "t", nil, "Restrict to documents with a tag (repeatable)")
	cmd.Flags().IntVarP(&searchLimit, "limit", "l", 0, "Maximum number of results (default: config search.default_limit)")
	cmd.Flags().StringVarP(&searchFormat, "format", "f", "", "Output format (table, json, paths)")

	return cmd
}

type searchHit struct {
	Path     string    `json:"path"`
	Title    string    `json:"title"`
	Category string    `json:"category"`
	Tags     []string  `json:"tags,omitempty"`
	Score    float64   `json:"score"`
	Snippets []snippet `json:"snippets,omitempty"`
}

type snippet struct {
	Field string        `json:"field"`
	Text  string        `json:"text"`
	Spans []search.Span `json:"spans"`
}

type searchOutput struct {
	Query        string      `json:"query"`
	Total        int         `json:"total"`
	Results      []searchHit `json:"results"`
	Alternatives []string    `json:"alternatives,omitempty"`
}

func runSearch(cmd *cobra.Command, args []string) error {
	format := outputFormat(searchFormat, formatTable, formatJSON, formatPaths)
	if err := checkFormat(format, formatTable, formatJSON, formatPaths); err != nil {
		return err
	}

	svc, err := openService()
	if err != nil {
		return err
	}

	text := strings.Join(args, " ")
	q := svc.NewQuery(text)
	q.Phrase = searchPhrase
	if searchNoFuzzy {
		q.Fuzzy = false
	}
	q.Categories = searchCategories
	q.Tags = searchTags
	if searchLimit > 0 {
		q.Limit = searchLimit
	}

	results := svc.Search(q)
	var alternatives []string
	if len(results) == 0 {
		alternatives = svc.Alternatives(text, alternativeLimit)
	}

	out := cmd.OutOrStdout()
	switch format {
	case formatJSON:
		hits := make([]searchHit, 0, len(results))
		for _, r := range results {
			hits = append(hits, searchHit{
				Path:     r.Document.Path,
				Title:    r.Document.Title,
				Category: r.Document.Category,
				Tags:     r.Document.Tags,
				Score:    r.Score,
				Snippets: newSnippets(r.Snippets),
			})
		}
		return writeJSON(out, searchOutput{Query: text, Total: len(hits), Results: hits, Alternatives: alternatives})
	case formatPaths:
		for _, r := range results {
			fmt.Fprintln(out, r.Document.Path)
		}
		return nil
	}

	if len(results) == 0 {
		if !quiet {
			p.PrintInfo("No results found")
			if len(alternatives) > 0 {
				terms := make([]string, len(alternatives))
				for i, a := range alternatives {
					terms[i] = p.FormatTerm(a)
				}
				p.PrintListItem("Did you mean", strings.Join(terms, ", "))
			}
		}
		return nil
	}

	t := newTable(out)
	t.AppendHeader(table.Row{"#", "Title", "Path", "Category", "Score", "Snippet"})
	for i, r := range results {
		t.AppendRow(table.Row{i + 1, r.Document.Title, r.Document.Path, r.Document.Category, fmt.Sprintf("%.4f", r.Score), highlight(r)})
	}
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, WidthMax: 32},
		{Number: 6, WidthMax: 60},
	})
	t.Render()
	return nil
}

func newSnippets(in []search.Snippet) []snippet {
	out := make([]snippet, len(in))
	for i, sn := range in {
		out[i] = snippet{Field: sn.Field.String(), Text: sn.Text, Spans: sn.Spans}
	}
	return out
}
