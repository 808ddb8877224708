package cli

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/stormlightlabs/docsift/internal/config"
	"github.com/stormlightlabs/docsift/internal/errors"
	"github.com/stormlightlabs/docsift/internal/service"
	"github.com/stormlightlabs/docsift/internal/shared"
)

func newInfoCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "info <path>",
		Short: "Show metadata for an indexed document",
		Long: `Display the metadata docsift extracted from one document: its title,
category, tags, headings and size.`,
		Example: `  docsift info guides/planogram.md
  docsift info readme.md`,
		Args:              cobra.ExactArgs(1),
		RunE:              runInfo,
		ValidArgsFunction: documentPathCompletion,
	}

	return cmd
}

func runInfo(cmd *cobra.Command, args []string) error {
	svc, err := openService()
	if err != nil {
		return err
	}

	doc, ok := svc.Document(args[0])
	if !ok {
		return errors.New(errors.ErrCodeIndexNotFound, "document not indexed: "+args[0], nil).
			WithSuggestion("run 'docsift list' to see indexed paths")
	}

	p.PrintListItem("Path", p.FormatPath(doc.Path))
	p.PrintListItem("Title", doc.Title)
	p.PrintListItem("Category", doc.Category)
	if len(doc.Tags) > 0 {
		p.PrintListItem("Tags", strings.Join(doc.Tags, ", "))
	}
	p.PrintListItem("Headings", shared.Itoa(len(doc.Headings)))
	p.PrintListItem("Code blocks", shared.Itoa(len(doc.CodeBlocks)))
	p.PrintListItem("Size", humanize.Bytes(uint64(doc.Size)))
	p.PrintListItem("Modified", doc.ModifiedAt.Local().Format(time.RFC3339))
	p.PrintListItem("Checksum", doc.Checksum)

	if len(doc.Extra) > 0 {
		keys := make([]string, 0, len(doc.Extra))
		for k := range doc.Extra {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			p.PrintListItem(fmt.Sprintf("meta.%s", k), doc.Extra[k])
		}
	}

	if verbose {
		for _, h := range doc.Headings {
			fmt.Fprintf(cmd.OutOrStdout(), "  %s %s\n", p.Styles.Muted.Render("#"), h)
		}
	}

	return nil
}

// documentPathCompletion completes indexed document paths. It runs before
// PersistentPreRunE, so it loads configuration itself.
func documentPathCompletion(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	c, err := config.Load()
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	if corpusRoot != "" {
		c.Corpus.Root = corpusRoot
	}
	if indexPath != "" {
		c.Index.Path = indexPath
	}
	svc, err := service.Open(c, nil)
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}

	var out []string
	for _, doc := range svc.Documents() {
		if strings.HasPrefix(doc.Path, toComplete) {
			out = append(out, doc.Path)
		}
	}
	sort.Strings(out)
	return out, cobra.ShellCompDirectiveNoFileComp
}
