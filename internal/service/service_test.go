package service

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stormlightlabs/docsift/internal/config"
	"github.com/stormlightlabs/docsift/internal/errors"
	"github.com/stormlightlabs/docsift/internal/index"
	"github.com/stormlightlabs/docsift/internal/metrics"
	"github.com/stormlightlabs/docsift/internal/search"
	"github.com/stormlightlabs/docsift/internal/store"
)

var corpusFiles = map[string]string{
	"guides/planogram.md": "---\ntitle: Planogram Optimization\ntags: [retail, layout]\n---\n# Slots\n\nThe planogram engine places products into shelf slots.\n",
	"orders/flow.md":      "# Service Order Flow\n\nEvery service order moves through intake, review and dispatch.\n",
	"readme.md":           "# Readme\n\nStart here to learn about order handling.\n",
}

func writeCorpus(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		p := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	}
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	root := t.TempDir()
	writeCorpus(t, root, corpusFiles)
	cfg := config.DefaultConfig()
	cfg.Corpus.Root = root
	cfg.Index.Path = filepath.Join(t.TempDir(), "index.dsft")
	return cfg
}

func built(t *testing.T) *Service {
	t.Helper()
	svc, err := New(testConfig(t), metrics.NewRegistry())
	require.NoError(t, err)
	_, err = svc.Rebuild(context.Background(), false)
	require.NoError(t, err)
	return svc
}

func TestOpen_MissingArtifact(t *testing.T) {
	_, err := Open(testConfig(t), nil)
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeIndexNotFound, errors.GetCode(err))
}

func TestNew_ServesEmptySnapshot(t *testing.T) {
	svc, err := New(testConfig(t), nil)
	require.NoError(t, err)
	assert.Empty(t, svc.Search(svc.NewQuery("order")))
	assert.Empty(t, svc.Suggest("ord", 5))
	assert.Empty(t, svc.Documents())
}

func TestRebuild_PersistsAndPublishes(t *testing.T) {
	svc := built(t)

	report := svc.Stats()
	assert.Equal(t, 3, report.DocumentCount)
	assert.Positive(t, report.TermCount)
	assert.Positive(t, report.ArtifactSize)
	assert.NotEmpty(t, report.BuildID)
	assert.True(t, store.Exists(svc.IndexPath()))

	reopened, err := Open(svc.Config(), nil)
	require.NoError(t, err)
	assert.True(t, index.Equal(svc.Snapshot(), reopened.Snapshot()))
	assert.Equal(t, svc.Stats().BuildID, reopened.Stats().BuildID)
}

func TestRebuild_ReusesUnchangedDocuments(t *testing.T) {
	svc := built(t)

	report, err := svc.Rebuild(context.Background(), false)
	require.NoError(t, err)
	assert.Equal(t, 3, report.Build.Reused)
	assert.Equal(t, 3, report.Loaded)

	report, err = svc.Rebuild(context.Background(), true)
	require.NoError(t, err)
	assert.Zero(t, report.Build.Reused)
	assert.Zero(t, report.Loaded)
}

func TestRebuild_PicksUpChanges(t *testing.T) {
	svc := built(t)
	root := svc.Config().Corpus.Root
	before := svc.Stats().BuildID

	writeCorpus(t, root, map[string]string{"guides/returns.md": "# Returns\n\nRefund workflow for damaged shipments.\n"})
	require.NoError(t, os.Remove(filepath.Join(root, "readme.md")))

	report, err := svc.Rebuild(context.Background(), false)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Build.Removed)
	assert.NotEqual(t, before, report.Stats.BuildID)

	results := svc.Search(svc.NewQuery("refund"))
	require.Len(t, results, 1)
	assert.Equal(t, "guides/returns.md", results[0].Document.Path)

	_, ok := svc.Document("readme.md")
	assert.False(t, ok)
}

func TestRebuild_WarningsDoNotFail(t *testing.T) {
	cfg := testConfig(t)
	writeCorpus(t, cfg.Corpus.Root, map[string]string{"broken.md": "---\ntitle: [unclosed\n---\nBody text survives.\n"})

	svc, err := New(cfg, nil)
	require.NoError(t, err)
	report, err := svc.Rebuild(context.Background(), false)
	require.NoError(t, err)
	require.Len(t, report.Warnings, 1)
	assert.Equal(t, "broken.md", report.Warnings[0].Path)

	_, ok := svc.Document("broken.md")
	assert.True(t, ok)
}

func TestRebuild_MissingRootIsFatal(t *testing.T) {
	cfg := testConfig(t)
	cfg.Corpus.Root = filepath.Join(t.TempDir(), "missing")

	svc, err := New(cfg, nil)
	require.NoError(t, err)
	_, err = svc.Rebuild(context.Background(), false)
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeCorpusUnreadable, errors.GetCode(err))
	assert.Zero(t, svc.Stats().DocumentCount)
}

func TestRebuild_LockedByAnotherBuilder(t *testing.T) {
	svc, err := New(testConfig(t), nil)
	require.NoError(t, err)

	other := store.NewLock(svc.IndexPath())
	ok, err := other.TryAcquire()
	require.NoError(t, err)
	require.True(t, ok)
	defer other.Release()

	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()
	_, err = svc.Rebuild(ctx, false)
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeIndexLocked, errors.GetCode(err))
}

func TestQueries(t *testing.T) {
	svc := built(t)

	t.Run("search", func(t *testing.T) {
		results := svc.Search(svc.NewQuery("service order"))
		require.NotEmpty(t, results)
		assert.Equal(t, "orders/flow.md", results[0].Document.Path)
	})

	t.Run("default limit", func(t *testing.T) {
		svc.Config().Search.DefaultLimit = 1
		defer func() { svc.Config().Search.DefaultLimit = search.DefaultLimit }()
		assert.Len(t, svc.Search(svc.NewQuery("order")), 1)
	})

	t.Run("zero limit", func(t *testing.T) {
		assert.Empty(t, svc.Search(search.Query{Text: "order", Fuzzy: true}))
		q := svc.NewQuery("order")
		q.Limit = 0
		assert.Empty(t, svc.Search(q))
	})

	t.Run("tag filter", func(t *testing.T) {
		q := svc.NewQuery("slots")
		q.Tags = []string{"Retail"}
		results := svc.Search(q)
		require.Len(t, results, 1)
		assert.Equal(t, "guides/planogram.md", results[0].Document.Path)
	})

	t.Run("suggest", func(t *testing.T) {
		got := svc.Suggest("how about ord", 0)
		require.NotEmpty(t, got)
		assert.Equal(t, "order", got[0].Term)
	})

	t.Run("alternatives", func(t *testing.T) {
		assert.Contains(t, svc.Alternatives("planogrm", 3), "planogram")
	})
}

func TestConcurrentReadsDuringRebuild(t *testing.T) {
	svc := built(t)

	var wg sync.WaitGroup
	stop := make(chan struct{})
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-stop:
					return
				default:
				}
				results := svc.Search(svc.NewQuery("order"))
				assert.Len(t, results, 2)
			}
		}()
	}

	for i := 0; i < 3; i++ {
		_, err := svc.Rebuild(context.Background(), i%2 == 0)
		require.NoError(t, err)
	}
	close(stop)
	wg.Wait()
}

func TestSource(t *testing.T) {
	svc := built(t)

	src, err := svc.Source("orders/flow.md")
	require.NoError(t, err)
	assert.Equal(t, corpusFiles["orders/flow.md"], src)

	_, err = svc.Source("../etc/passwd")
	assert.Error(t, err)
}
