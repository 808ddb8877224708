// Package corpus walks a documentation tree and turns each eligible file into
// an index.Document.
package corpus

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"runtime"
	"slices"
	"sort"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/stormlightlabs/docsift/internal/errors"
	"github.com/stormlightlabs/docsift/internal/index"
	"github.com/stormlightlabs/docsift/internal/shared"
)

// DefaultCategory is assigned to documents at the corpus root that declare
// no category.
const DefaultCategory = "general"

// DefaultExtensions are the file extensions loaded when none are configured.
var DefaultExtensions = []string{".md", ".markdown", ".mdx", ".txt"}

var skipDirs = map[string]bool{
	"node_modules": true,
	"vendor":       true,
}

// Options controls a corpus load.
type Options struct {
	// Extensions lists eligible file extensions, including the dot.
	Extensions []string
	// Exclude holds glob patterns matched against corpus-relative paths.
	Exclude []string
	// Workers bounds parallel file reads. Zero means GOMAXPROCS.
	Workers int
	// Previous maps paths to documents of the prior generation. A file whose
	// size and modification time are unchanged is reused without reading.
	Previous func(path string) (*index.Document, bool)
}

// Warning is a recoverable per-document problem.
type Warning struct {
	Path string
	Err  error
}

func (w Warning) Error() string {
	return fmt.Sprintf("%s: %v", w.Path, w.Err)
}

func (w Warning) Unwrap() error { return w.Err }

// Result is the outcome of a load.
type Result struct {
	Documents []*index.Document
	Warnings  []Warning
	// Reused counts documents taken from Options.Previous.
	Reused int
}

// Load walks root and returns a Document for every eligible file, sorted by
// path. A missing or unreadable root is fatal; per-file problems are
// returned as warnings and never abort the load.
func Load(ctx context.Context, root string, opts Options) (*Result, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, errors.New(errors.ErrCodeCorpusUnreadable, "cannot read corpus root "+root, err).
			WithDetail("root", root)
	}
	if !info.IsDir() {
		return nil, errors.New(errors.ErrCodeCorpusUnreadable, "corpus root is not a directory: "+root, nil).
			WithDetail("root", root)
	}

	paths, walkWarnings, err := walk(root, opts)
	if err != nil {
		return nil, err
	}

	var (
		mu     sync.Mutex
		result = &Result{Warnings: walkWarnings}
		docs   = make([]*index.Document, len(paths))
	)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers(opts.Workers))

	for i, rel := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			doc, reused, warn := loadFile(root, rel, opts.Previous)
			mu.Lock()
			defer mu.Unlock()
			if warn != nil {
				result.Warnings = append(result.Warnings, *warn)
			}
			if reused {
				result.Reused++
			}
			docs[i] = doc
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	for _, d := range docs {
		if d != nil {
			result.Documents = append(result.Documents, d)
		}
	}
	sort.Slice(result.Warnings, func(i, j int) bool { return result.Warnings[i].Path < result.Warnings[j].Path })
	for _, w := range result.Warnings {
		log.Warn("document warning", "path", w.Path, "err", w.Err)
	}
	return result, nil
}

// walk collects eligible corpus-relative paths in lexical order.
func walk(root string, opts Options) ([]string, []Warning, error) {
	var (
		paths    []string
		warnings []Warning
	)

	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		rel, relErr := filepath.Rel(root, p)
		if relErr != nil {
			return relErr
		}
		rel = filepath.ToSlash(rel)

		if err != nil {
			if rel == "." {
				return errors.New(errors.ErrCodeCorpusUnreadable, "cannot read corpus root "+root, err)
			}
			warnings = append(warnings, Warning{Path: rel, Err: errors.New(errors.ErrCodeDocumentUnreadable, "cannot read", err)})
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}

		if d.IsDir() {
			if SkipDir(rel, opts) {
				return fs.SkipDir
			}
			return nil
		}

		if d.Type().IsRegular() && Eligible(rel, opts) {
			paths = append(paths, rel)
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return paths, warnings, nil
}

// SkipDir reports whether the directory at the corpus-relative slash path
// rel is left out of the walk. The root itself is never skipped.
func SkipDir(rel string, opts Options) bool {
	if rel == "." || rel == "" {
		return false
	}
	name := path.Base(rel)
	return strings.HasPrefix(name, ".") || skipDirs[name] || excluded(rel, opts.Exclude)
}

// Eligible reports whether a file at the corpus-relative slash path rel is
// loaded, judging by name alone. Callers also check every parent with SkipDir.
func Eligible(rel string, opts Options) bool {
	exts := opts.Extensions
	if len(exts) == 0 {
		exts = DefaultExtensions
	}
	name := path.Base(rel)
	if strings.HasPrefix(name, ".") {
		return false
	}
	return hasExtension(name, exts) && !excluded(rel, opts.Exclude)
}

// loadFile reads and parses one file. A nil document with a warning means the
// file was skipped; a document with a warning was indexed partially.
func loadFile(root, rel string, previous func(string) (*index.Document, bool)) (*index.Document, bool, *Warning) {
	full := filepath.Join(root, filepath.FromSlash(rel))

	info, err := os.Stat(full)
	if err != nil {
		return nil, false, &Warning{Path: rel, Err: errors.New(errors.ErrCodeDocumentUnreadable, "cannot stat file", err)}
	}

	var prev *index.Document
	if previous != nil {
		if p, ok := previous(rel); ok {
			prev = p
			if p.Size == info.Size() && p.ModifiedAt.Equal(info.ModTime()) {
				return p, true, nil
			}
		}
	}

	raw, err := os.ReadFile(full)
	if err != nil {
		return nil, false, &Warning{Path: rel, Err: errors.New(errors.ErrCodeDocumentUnreadable, "cannot read file", err)}
	}
	if !utf8.Valid(raw) {
		return nil, false, &Warning{Path: rel, Err: errors.New(errors.ErrCodeDocumentEncoding, "file is not valid UTF-8", nil)}
	}

	checksum := shared.HashBytes(raw)
	if prev != nil && prev.Checksum == checksum {
		reused := *prev
		reused.ModifiedAt = info.ModTime()
		reused.Size = info.Size()
		return &reused, true, nil
	}

	doc, warn := Parse(rel, raw)
	doc.Checksum = checksum
	doc.ModifiedAt = info.ModTime()
	doc.Size = info.Size()
	return doc, false, warn
}

// Parse builds a Document from the raw bytes of a file at the corpus-relative
// path rel. The returned warning is non-nil when the metadata header was
// malformed; the document is still usable and holds the body content only.
func Parse(rel string, raw []byte) (*index.Document, *Warning) {
	content := shared.NormalizeLineEndings(string(raw))
	content = strings.TrimPrefix(content, "\ufeff")

	var (
		meta Metadata
		warn *Warning
	)

	header, body, found, err := splitHeader(content)
	if err == nil && found {
		meta, err = parseMetadata(header)
		if err != nil {
			meta = Metadata{}
		}
	}
	if err != nil {
		warn = &Warning{Path: rel, Err: errors.New(errors.ErrCodeHeaderMalformed, "malformed metadata header", err)}
	}

	s := extractStructure(body)
	doc := &index.Document{
		Path:       rel,
		Title:      resolveTitle(meta, s, rel),
		Category:   resolveCategory(meta, rel),
		Tags:       meta.Tags,
		Headings:   s.Headings,
		CodeBlocks: s.CodeBlocks,
		Body:       s.Body,
		Extra:      meta.ExtraStrings(),
		Size:       int64(len(raw)),
		Checksum:   shared.HashBytes(raw),
	}
	return doc, warn
}

func resolveTitle(meta Metadata, s structure, rel string) string {
	if meta.Title != "" {
		return meta.Title
	}
	if len(s.Headings) > 0 {
		return s.Headings[0]
	}
	return titleFromPath(rel)
}

func titleFromPath(rel string) string {
	base := path.Base(rel)
	title := strings.TrimSuffix(base, path.Ext(base))
	title = strings.NewReplacer("-", " ", "_", " ", ".", " ").Replace(title)
	title = strings.Join(strings.Fields(title), " ")
	return shared.Capitalize(title)
}

func resolveCategory(meta Metadata, rel string) string {
	if meta.Category != "" {
		return strings.ToLower(meta.Category)
	}
	if dir, _, ok := strings.Cut(rel, "/"); ok && dir != "" {
		return strings.ToLower(dir)
	}
	return DefaultCategory
}

func hasExtension(name string, exts []string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	return ext != "" && slices.Contains(exts, ext)
}

func excluded(rel string, patterns []string) bool {
	for _, pattern := range patterns {
		if ok, _ := path.Match(pattern, rel); ok {
			return true
		}
		if ok, _ := path.Match(pattern, path.Base(rel)); ok {
			return true
		}
	}
	return false
}

func workers(n int) int {
	if n > 0 {
		return n
	}
	return runtime.GOMAXPROCS(0)
}
