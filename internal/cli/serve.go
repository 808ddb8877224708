package cli

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/stormlightlabs/docsift/internal/errors"
	"github.com/stormlightlabs/docsift/internal/service"
	"github.com/stormlightlabs/docsift/internal/shared"
	"github.com/stormlightlabs/docsift/internal/watch"
	"github.com/stormlightlabs/docsift/internal/web"
)

var (
	serveAddr  string
	serveWatch bool
)

func newServeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the JSON search API",
		Long: `Serve the index over HTTP:

  GET /api/search?q=...   ranked results with snippets
  GET /api/suggest?q=...  term completions
  GET /api/stats          index statistics
  GET /api/docs           indexed documents
  GET /metrics            Prometheus metrics

With --watch, the corpus root is watched and the index is rebuilt and
swapped in place shortly after files change.`,
		Example: `  docsift serve
  docsift serve --http :8765 --watch -r ./docs`,
		Args: cobra.NoArgs,
		RunE: runServe,
	}

	cmd.Flags().StringVar(&serveAddr, "http", "", "HTTP service address (default: config serve.addr)")
	cmd.Flags().BoolVarP(&serveWatch, "watch", "w", false, "Rebuild the index when the corpus changes")

	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	addr := serveAddr
	if addr == "" {
		addr = cfg.Serve.Addr
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	svc, err := prepareService(ctx)
	if err != nil {
		return err
	}

	srv := web.NewServer(svc, svc.Metrics(), addr)
	if !quiet {
		p.PrintInfo("Serving " + shortStats(svc) + " on http://" + addr)
	}

	if !serveWatch {
		return srv.Start(ctx)
	}

	w, err := watch.New(svc, watch.Options{
		Root:     cfg.Corpus.Root,
		Corpus:   cfg.CorpusOptions(),
		Debounce: time.Duration(cfg.Serve.DebounceMS) * time.Millisecond,
		OnRebuild: func(changed []string, report *service.Report, err error) {
			if err != nil {
				log.Error("rebuild failed", "changed", len(changed), "err", err)
				return
			}
			log.Info("index refreshed",
				"changed", strings.Join(changed, ","),
				"documents", report.Stats.DocumentCount,
				"warnings", len(report.Warnings))
		},
	})
	if err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return srv.Start(gctx) })
	g.Go(func() error { return w.Run(gctx) })
	return g.Wait()
}

// prepareService opens the persisted index. In watch mode a missing index is
// built first.
func prepareService(ctx context.Context) (*service.Service, error) {
	svc, err := openService()
	if err == nil || !serveWatch || errors.GetCode(err) != errors.ErrCodeIndexNotFound {
		return svc, err
	}

	svc, err = service.New(cfg, nil)
	if err != nil {
		return nil, err
	}
	if _, err := svc.Rebuild(ctx, true); err != nil {
		return nil, err
	}
	return svc, nil
}

func shortStats(svc *service.Service) string {
	s := svc.Stats()
	return shared.Itoa(s.DocumentCount) + " " + shared.Pluralize(s.DocumentCount, "document", "documents")
}
