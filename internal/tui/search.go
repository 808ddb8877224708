package tui

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/stormlightlabs/docsift/internal/search"
	"github.com/stormlightlabs/docsift/internal/shared"
)

const (
	defaultDebounce  = 150 * time.Millisecond
	minQueryLen      = 2
	alternativeLimit = 3
)

// searchTickMsg is sent when the debounce timer expires.
type searchTickMsg struct{ query string }

// searchResultsMsg is sent when search results are ready.
type searchResultsMsg struct {
	results      []search.Result
	alternatives []string
	query        string
}

// SearchModel is the search input component.
type SearchModel struct {
	input        textinput.Model
	backend      Backend
	debounce     time.Duration
	lastQuery    string
	phrase       bool
	resultCount  int
	alternatives []string
	searching    bool
}

// NewSearchModel creates a new search model.
func NewSearchModel(backend Backend) SearchModel {
	input := textinput.New()
	input.Placeholder = "Search documentation..."
	input.Focus()
	return SearchModel{input: input, backend: backend, debounce: defaultDebounce}
}

func (m SearchModel) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages.
func (m SearchModel) Update(msg tea.Msg) (SearchModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "enter":
			if m.input.Value() != "" {
				m.searching = true
				return m, m.performSearch(m.input.Value())
			}
			return m, nil
		case "esc":
			m.input.Reset()
			m.lastQuery = ""
			m.resultCount = 0
			m.alternatives = nil
			return m, nil
		case "ctrl+p":
			m.phrase = !m.phrase
			if q := m.input.Value(); len([]rune(q)) >= minQueryLen {
				m.searching = true
				return m, m.performSearch(q)
			}
			return m, nil
		}

		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)

		query := m.input.Value()
		if query != m.lastQuery && len([]rune(query)) >= minQueryLen {
			m.lastQuery = query
			return m, tea.Sequence(cmd, m.startDebounce(query))
		}

		return m, cmd

	case searchTickMsg:
		if msg.query == m.input.Value() {
			m.searching = true
			return m, m.performSearch(msg.query)
		}
		return m, nil
	}

	return m, nil
}

// View renders the search input.
func (m SearchModel) View() string {
	var status string
	switch {
	case m.searching:
		status = dimStyle.Render(" Searching...")
	case m.resultCount > 0:
		status = accentStyle.Render(" " + shared.Itoa(m.resultCount) + " " + shared.Pluralize(m.resultCount, "result", "results"))
	case len(m.alternatives) > 0:
		status = dimStyle.Render(" Did you mean: " + strings.Join(m.alternatives, ", ") + "?")
	}
	if m.phrase {
		status = accentStyle.Render(" [phrase]") + status
	}

	return lipgloss.JoinHorizontal(lipgloss.Center, searchInputStyle.Render(m.input.View()), status)
}

// Value returns the current search query.
func (m SearchModel) Value() string {
	return m.input.Value()
}

// Phrase reports whether phrase mode is on.
func (m SearchModel) Phrase() bool {
	return m.phrase
}

// Focused returns whether the input is focused.
func (m SearchModel) Focused() bool {
	return m.input.Focused()
}

// Focus sets focus on the input.
func (m SearchModel) Focus() SearchModel {
	m.input.Focus()
	return m
}

// Blur removes focus from the input.
func (m SearchModel) Blur() SearchModel {
	m.input.Blur()
	return m
}

// startDebounce starts the debounce timer.
func (m SearchModel) startDebounce(query string) tea.Cmd {
	return tea.Tick(m.debounce, func(_ time.Time) tea.Msg {
		return searchTickMsg{query: query}
	})
}

// performSearch executes the search query against the backend.
func (m SearchModel) performSearch(query string) tea.Cmd {
	backend, phrase := m.backend, m.phrase
	return func() tea.Msg {
		q := backend.NewQuery(query)
		q.Phrase = phrase
		results := backend.Search(q)
		msg := searchResultsMsg{results: results, query: query}
		if len(results) == 0 {
			msg.alternatives = backend.Alternatives(query, alternativeLimit)
		}
		return msg
	}
}

// SetResults updates the status line after a search.
func (m *SearchModel) SetResults(count int, alternatives []string) {
	m.searching = false
	m.resultCount = count
	m.alternatives = alternatives
}
