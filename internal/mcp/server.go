package mcp

import (
	"context"
	"log/slog"
	"net/http"
	"os"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// NewServer creates a new MCP server over backend.
func NewServer(backend Backend, version string) *mcp.Server {
	logger := slog.New(slog.NewJSONHandler(
		os.Stderr,
		&slog.HandlerOptions{Level: slog.LevelInfo},
	))

	server := mcp.NewServer(
		&mcp.Implementation{Name: "docsift", Version: version},
		&mcp.ServerOptions{Logger: logger},
	)

	handlers := NewHandlers(backend)

	mcp.AddTool(server, newTool("search_docs", "Ranked full-text search over the documentation corpus with typo tolerance, phrase matching and category/tag filters"),
		func(ctx context.Context, req *mcp.CallToolRequest, input SearchDocsInput) (*mcp.CallToolResult, SearchDocsOutput, error) {
			logger.Info("Tool call: search_docs", "query", input.Query, "phrase", input.Phrase)
			return handlers.SearchDocsHandler(ctx, req, input)
		})

	mcp.AddTool(server, newTool("suggest_terms", "Complete the last word of a partial query from the indexed vocabulary"),
		func(ctx context.Context, req *mcp.CallToolRequest, input SuggestTermsInput) (*mcp.CallToolResult, SuggestTermsOutput, error) {
			logger.Info("Tool call: suggest_terms", "prefix", input.Prefix)
			return handlers.SuggestTermsHandler(ctx, req, input)
		})

	mcp.AddTool(server, newTool("index_stats", "Report document, term and posting counts for the active index"),
		func(ctx context.Context, req *mcp.CallToolRequest, input IndexStatsInput) (*mcp.CallToolResult, IndexStatsOutput, error) {
			logger.Info("Tool call: index_stats")
			return handlers.IndexStatsHandler(ctx, req, input)
		})

	mcp.AddTool(server, newTool("read_doc", "Read the full text and metadata of one indexed document"),
		func(ctx context.Context, req *mcp.CallToolRequest, input ReadDocInput) (*mcp.CallToolResult, ReadDocOutput, error) {
			logger.Info("Tool call: read_doc", "path", input.Path)
			return handlers.ReadDocHandler(ctx, req, input)
		})

	return server
}

// RunStdio runs the server using the stdio transport.
func RunStdio(ctx context.Context, server *mcp.Server) error {
	return server.Run(ctx, &mcp.StdioTransport{})
}

// RunHTTP runs the server using the streamable HTTP transport.
func RunHTTP(ctx context.Context, server *mcp.Server, addr string) error {
	f := func(r *http.Request) *mcp.Server { return server }
	handler := mcp.NewStreamableHTTPHandler(f, nil)

	s := &http.Server{Addr: addr, Handler: handler}

	go func() {
		<-ctx.Done()
		_ = s.Shutdown(context.Background())
	}()

	if err := s.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func newTool(n, d string) *mcp.Tool {
	return &mcp.Tool{Name: n, Description: d}
}
