// Package watch rebuilds the index when files under the corpus root change.
package watch

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"

	"github.com/stormlightlabs/docsift/internal/corpus"
	"github.com/stormlightlabs/docsift/internal/service"
)

// DefaultDebounce is the quiet period used when Options leaves it unset.
const DefaultDebounce = 500 * time.Millisecond

// Rebuilder performs an incremental rebuild.
type Rebuilder interface {
	Rebuild(ctx context.Context, full bool) (*service.Report, error)
}

// Options configures a Watcher.
type Options struct {
	Root     string
	Corpus   corpus.Options
	Debounce time.Duration
	// OnRebuild is called after every rebuild attempt with the changed paths.
	OnRebuild func(changed []string, report *service.Report, err error)
}

// Watcher turns filesystem events into debounced rebuilds.
type Watcher struct {
	opts      Options
	root      string
	rebuilder Rebuilder
	fsWatcher *fsnotify.Watcher
	debouncer *Debouncer
}

// New creates a watcher over opts.Root. Call Run to start it.
func New(r Rebuilder, opts Options) (*Watcher, error) {
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	root, err := filepath.Abs(opts.Root)
	if err != nil {
		return nil, fmt.Errorf("resolve absolute path: %w", err)
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	return &Watcher{
		opts:      opts,
		root:      root,
		rebuilder: r,
		fsWatcher: fsw,
		debouncer: NewDebouncer(opts.Debounce),
	}, nil
}

// Run watches until ctx ends. Rebuild failures are logged and reported to
// OnRebuild; they never stop the watcher.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.fsWatcher.Close()
	defer w.debouncer.Stop()

	if err := w.addRecursive(w.root); err != nil {
		return fmt.Errorf("add directories to watcher: %w", err)
	}
	log.Info("watching corpus", "root", w.root, "debounce", w.opts.Debounce)

	go w.rebuildLoop(ctx)

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return nil
			}
			w.handle(event)
		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return nil
			}
			log.Warn("watch error", "err", err)
		}
	}
}

func (w *Watcher) rebuildLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case changed, ok := <-w.debouncer.Output():
			if !ok {
				return
			}
			log.Debug("corpus changed", "paths", len(changed))
			report, err := w.rebuilder.Rebuild(ctx, false)
			if err != nil {
				log.Error("rebuild failed", "err", err)
			}
			if w.opts.OnRebuild != nil {
				w.opts.OnRebuild(changed, report, err)
			}
		}
	}
}

func (w *Watcher) handle(event fsnotify.Event) {
	if event.Op == fsnotify.Chmod {
		return
	}
	rel, err := filepath.Rel(w.root, event.Name)
	if err != nil {
		return
	}
	rel = filepath.ToSlash(rel)
	if w.ignoredParent(rel) {
		return
	}

	if event.Op&fsnotify.Create != 0 {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if corpus.SkipDir(rel, w.opts.Corpus) {
				return
			}
			if err := w.addRecursive(event.Name); err != nil {
				log.Warn("cannot watch directory", "path", rel, "err", err)
			}
			w.debouncer.Add(rel)
			return
		}
	}

	// Removed or renamed directories carry no extension; any event that could
	// drop documents is passed on.
	if corpus.Eligible(rel, w.opts.Corpus) || (event.Op&(fsnotify.Remove|fsnotify.Rename) != 0 && filepath.Ext(rel) == "") {
		w.debouncer.Add(rel)
	}
}

func (w *Watcher) ignoredParent(rel string) bool {
	parts := strings.Split(rel, "/")
	for i := 1; i < len(parts); i++ {
		if corpus.SkipDir(strings.Join(parts[:i], "/"), w.opts.Corpus) {
			return true
		}
	}
	return false
}

func (w *Watcher) addRecursive(dir string) error {
	return filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil || !d.IsDir() {
			return nil
		}
		rel, _ := filepath.Rel(w.root, p)
		if corpus.SkipDir(filepath.ToSlash(rel), w.opts.Corpus) {
			return filepath.SkipDir
		}
		return w.fsWatcher.Add(p)
	})
}
