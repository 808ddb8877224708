package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"

	"github.com/stormlightlabs/docsift/internal/config"
	"github.com/stormlightlabs/docsift/internal/errors"
	"github.com/stormlightlabs/docsift/internal/service"
)

// Version is stamped at build time.
var Version = "0.1.0"

var (
	cfg        *config.Config
	indexPath  string
	corpusRoot string
	verbose    bool
	quiet      bool
	noColor    bool

	p = NewPrinter(os.Stdout, os.Stderr)
)

// NewRootCommand builds the docsift command tree.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "docsift",
		Short: "Fast local search over a documentation corpus",
		Long: `Docsift indexes a directory of Markdown and plain text documentation
into a compact on-disk artifact and answers full-text queries against it,
with typo tolerance, phrase matching, category and tag filters, and
highlighted snippets.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: setup,
	}

	rootCmd.PersistentFlags().StringVarP(&indexPath, "index", "i", "", "Index artifact path or name (default: <root>/.docsift/index.dsft)")
	rootCmd.PersistentFlags().StringVarP(&corpusRoot, "root", "r", "", "Corpus root directory (default: config corpus.root)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Suppress non-error output")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")

	rootCmd.AddCommand(
		newBuildCommand(),
		newSearchCommand(),
		newSuggestCommand(),
		newStatsCommand(),
		newListCommand(),
		newInfoCommand(),
		newConfigCommand(),
		newMCPCommand(),
		newServeCommand(),
		newTuiCommand(),
	)
	return rootCmd
}

// Execute runs the command tree and reports a failure on stderr.
func Execute() error {
	err := NewRootCommand().Execute()
	if err != nil {
		reportError(p, err)
	}
	return err
}

func reportError(pr *Printer, err error) {
	pr.PrintError(err.Error())
	if s := errors.GetSuggestion(err); s != "" {
		fmt.Fprintf(pr.errOut, "  %s %s\n", pr.Styles.Muted.Render("hint:"), s)
	}
}

// setup loads configuration and applies the persistent flags before any
// command runs.
func setup(cmd *cobra.Command, args []string) error {
	p = NewPrinter(cmd.OutOrStdout(), cmd.ErrOrStderr())
	configureLogging(cmd.ErrOrStderr())

	loaded, err := config.Load()
	if err != nil {
		return err
	}
	cfg = loaded

	if corpusRoot != "" {
		cfg.Corpus.Root = corpusRoot
	}
	if indexPath != "" {
		cfg.Index.Path = indexPath
	}
	if noColor || (cfg.Display.ColorOutput != nil && !*cfg.Display.ColorOutput) {
		lipgloss.SetColorProfile(termenv.Ascii)
	}
	return nil
}

func configureLogging(w io.Writer) {
	log.SetOutput(w)
	switch {
	case verbose:
		log.SetLevel(log.DebugLevel)
	case quiet:
		log.SetLevel(log.ErrorLevel)
	default:
		log.SetLevel(log.WarnLevel)
	}
}

// openService loads the persisted index for read-only commands.
func openService() (*service.Service, error) {
	return service.Open(cfg, nil)
}
