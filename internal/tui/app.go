package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/stormlightlabs/docsift/internal/index"
	"github.com/stormlightlabs/docsift/internal/search"
)

// Backend is the query surface the interface reads from.
type Backend interface {
	NewQuery(text string) search.Query
	Search(q search.Query) []search.Result
	Alternatives(text string, limit int) []string
	Document(path string) (*index.Document, bool)
	Source(path string) (string, error)
}

// Run starts the Bubble Tea program over backend.
func Run(backend Backend) error {
	p := tea.NewProgram(NewRootModel(backend), tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, err := p.Run()
	return err
}
