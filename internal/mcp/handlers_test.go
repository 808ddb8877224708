package mcp

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stormlightlabs/docsift/internal/config"
	"github.com/stormlightlabs/docsift/internal/service"
)

func newBackend(t *testing.T) *service.Service {
	t.Helper()
	root := t.TempDir()
	files := map[string]string{
		"orders/flow.md":      "---\ntags: [workflow]\n---\n# Service Order Flow\n\nEvery service order moves through intake and dispatch.\n",
		"guides/planogram.md": "# Planogram Optimization\n\nThe planogram engine places products into shelf slots.\n",
	}
	for rel, content := range files {
		p := filepath.Join(root, rel)
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	}

	cfg := config.DefaultConfig()
	cfg.Corpus.Root = root
	cfg.Index.Path = filepath.Join(t.TempDir(), "index.dsft")
	svc, err := service.New(cfg, nil)
	require.NoError(t, err)
	_, err = svc.Rebuild(context.Background(), false)
	require.NoError(t, err)
	return svc
}

func TestSearchDocsHandler(t *testing.T) {
	h := NewHandlers(newBackend(t))
	ctx := context.Background()

	tests := []struct {
		name         string
		input        SearchDocsInput
		paths        []string
		alternatives bool
	}{
		{"plain", SearchDocsInput{Query: "service order"}, []string{"orders/flow.md"}, false},
		{"typo", SearchDocsInput{Query: "planogrm"}, []string{"guides/planogram.md"}, false},
		{"exact typo", SearchDocsInput{Query: "planogrm", Exact: true}, nil, true},
		{"phrase", SearchDocsInput{Query: "shelf slots", Phrase: true}, []string{"guides/planogram.md"}, false},
		{"tag filter", SearchDocsInput{Query: "service", Tags: []string{"retail"}}, nil, false},
		{"category filter", SearchDocsInput{Query: "service", Categories: []string{"orders"}}, []string{"orders/flow.md"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, out, err := h.SearchDocsHandler(ctx, nil, tt.input)
			require.NoError(t, err)
			var paths []string
			for _, r := range out.Results {
				paths = append(paths, r.Path)
			}
			assert.Equal(t, tt.paths, paths)
			assert.Equal(t, len(out.Results), out.Total)
			if tt.alternatives {
				assert.Contains(t, out.Alternatives, "planogram")
			}
		})
	}
}

func TestSearchDocsHandler_MarksSnippets(t *testing.T) {
	h := NewHandlers(newBackend(t))
	_, out, err := h.SearchDocsHandler(context.Background(), nil, SearchDocsInput{Query: "dispatch"})
	require.NoError(t, err)
	require.Len(t, out.Results, 1)
	require.NotEmpty(t, out.Results[0].Snippets)
	assert.Contains(t, out.Results[0].Snippets[0], "**dispatch**")
}

func TestSearchDocsHandler_RequiresQuery(t *testing.T) {
	h := NewHandlers(newBackend(t))
	_, _, err := h.SearchDocsHandler(context.Background(), nil, SearchDocsInput{})
	assert.Error(t, err)
}

func TestSuggestTermsHandler(t *testing.T) {
	h := NewHandlers(newBackend(t))
	_, out, err := h.SuggestTermsHandler(context.Background(), nil, SuggestTermsInput{Prefix: "plan", Limit: 3})
	require.NoError(t, err)
	require.NotEmpty(t, out.Suggestions)
	assert.Equal(t, "planogram", out.Suggestions[0].Term)

	_, out, err = h.SuggestTermsHandler(context.Background(), nil, SuggestTermsInput{Prefix: "zzz"})
	require.NoError(t, err)
	assert.NotNil(t, out.Suggestions)
	assert.Empty(t, out.Suggestions)
}

func TestIndexStatsHandler(t *testing.T) {
	h := NewHandlers(newBackend(t))
	_, out, err := h.IndexStatsHandler(context.Background(), nil, IndexStatsInput{})
	require.NoError(t, err)
	assert.Equal(t, 2, out.DocumentCount)
	assert.NotEmpty(t, out.BuildID)
	assert.NotEmpty(t, out.BuiltAt)
}

func TestReadDocHandler(t *testing.T) {
	h := NewHandlers(newBackend(t))
	_, out, err := h.ReadDocHandler(context.Background(), nil, ReadDocInput{Path: "orders/flow.md"})
	require.NoError(t, err)
	assert.Equal(t, "Service Order Flow", out.Title)
	assert.Equal(t, []string{"workflow"}, out.Tags)
	assert.Contains(t, out.Content, "intake and dispatch")

	_, _, err = h.ReadDocHandler(context.Background(), nil, ReadDocInput{Path: "missing.md"})
	assert.Error(t, err)
}

func TestServerListsTools(t *testing.T) {
	ctx := context.Background()
	server := NewServer(newBackend(t), "test")

	clientTransport, serverTransport := mcp.NewInMemoryTransports()
	serverSession, err := server.Connect(ctx, serverTransport, nil)
	require.NoError(t, err)
	defer serverSession.Close()

	client := mcp.NewClient(&mcp.Implementation{Name: "client", Version: "test"}, nil)
	session, err := client.Connect(ctx, clientTransport, nil)
	require.NoError(t, err)
	defer session.Close()

	res, err := session.ListTools(ctx, &mcp.ListToolsParams{})
	require.NoError(t, err)
	var names []string
	for _, tool := range res.Tools {
		names = append(names, tool.Name)
	}
	sort.Strings(names)
	assert.Equal(t, []string{"index_stats", "read_doc", "search_docs", "suggest_terms"}, names)
}
