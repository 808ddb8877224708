package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/stormlightlabs/docsift/internal/search"
	"github.com/stormlightlabs/docsift/internal/shared"
	"github.com/stormlightlabs/docsift/internal/tokenize"
)

// listSelectMsg is sent when the user presses Enter on a result.
type listSelectMsg struct {
	result search.Result
}

// ResultItem adapts a search.Result to list.Item.
type ResultItem struct {
	result search.Result
}

func NewResultItem(r search.Result) ResultItem { return ResultItem{result: r} }

func (i ResultItem) Result() search.Result { return i.result }

func (i ResultItem) FilterValue() string { return i.result.Document.Title }

// ResultDelegate draws a result as a title line plus one snippet line.
type ResultDelegate struct{}

func NewResultDelegate() ResultDelegate { return ResultDelegate{} }

func (ResultDelegate) Height() int                         { return 2 }
func (ResultDelegate) Spacing() int                        { return 1 }
func (ResultDelegate) Update(tea.Msg, *list.Model) tea.Cmd { return nil }

func (ResultDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	i, ok := item.(ResultItem)
	if !ok {
		return
	}

	doc := i.result.Document
	name := nameStyle.Render(doc.Title)
	if index == m.Index() {
		name = selectedNameStyle.Render(doc.Title)
	}
	meta := pathStyle.Render(fmt.Sprintf(" %s  %.2f", doc.Path, i.result.Score))

	fmt.Fprintf(w, "%s%s\n%s", name, meta, renderSnippet(i.result.Snippets, m.Width()))
}

// renderSnippet shows the first body snippet, or the first snippet of any
// field, with matches highlighted.
func renderSnippet(snippets []search.Snippet, width int) string {
	if len(snippets) == 0 {
		return ""
	}
	sn := snippets[0]
	for _, s := range snippets {
		if s.Field == tokenize.FieldBody {
			sn = s
			break
		}
	}

	text := shared.FlattenWhitespace(sn.Text)
	var b strings.Builder
	last := 0
	for _, sp := range sn.Spans {
		if sp.Start < last || sp.End > len(text) {
			continue
		}
		b.WriteString(snippetStyle.Render(text[last:sp.Start]))
		b.WriteString(matchStyle.Render(text[sp.Start:sp.End]))
		last = sp.End
	}
	b.WriteString(snippetStyle.Render(text[last:]))

	out := "  " + b.String()
	if width > 0 {
		out = lipgloss.NewStyle().MaxWidth(width).Render(out)
	}
	return out
}

// ListModel wraps bubbles/list for search result navigation.
type ListModel struct {
	list     list.Model
	results  []search.Result
	selected *search.Result
}

func NewListModel() ListModel {
	l := list.New(nil, NewResultDelegate(), 0, 0)
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	l.SetShowTitle(false)
	l.SetShowPagination(true)
	l.SetShowFilter(false)
	l.DisableQuitKeybindings()

	l.KeyMap.NextPage.SetKeys("ctrl+d", "pgdown")
	l.KeyMap.PrevPage.SetKeys("ctrl+u", "pgup")
	l.KeyMap.GoToStart.SetKeys("g", "home")
	l.KeyMap.GoToEnd.SetKeys("G", "end")

	return ListModel{list: l}
}

func (m ListModel) Init() tea.Cmd { return nil }

func (m ListModel) Update(msg tea.Msg) (ListModel, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "enter":
			if item, ok := m.list.SelectedItem().(ResultItem); ok {
				m.selected = &item.result
				return m, func() tea.Msg {
					return listSelectMsg{result: item.result}
				}
			}
			return m, nil
		case "/":
			return m, func() tea.Msg {
				return focusSearchMsg{}
			}
		case "j", "down":
			m.list.CursorDown()
			return m, nil
		case "k", "up":
			m.list.CursorUp()
			return m, nil
		}

	case searchResultsMsg:
		m.SetResults(msg.results)
		return m, nil
	}

	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// View renders the list.
func (m ListModel) View() string {
	if len(m.list.Items()) == 0 {
		return emptyStateStyle.Render("No results found. Try a different search term.")
	}

	return m.list.View()
}

// SetResults updates the list with new search results.
func (m *ListModel) SetResults(results []search.Result) {
	m.results = results
	items := make([]list.Item, len(results))
	for i, r := range results {
		items[i] = NewResultItem(r)
	}
	m.list.SetItems(items)
	if len(items) > 0 {
		m.list.Select(0)
	}
}

// Len returns the number of results shown.
func (m ListModel) Len() int {
	return len(m.results)
}

// Selected returns the last opened result.
func (m ListModel) Selected() *search.Result {
	return m.selected
}

// SetSize sets the width and height of the list.
func (m *ListModel) SetSize(w, h int) {
	m.list.SetWidth(w)
	m.list.SetHeight(h)
}

// focusSearchMsg is sent when user presses "/" to return to search.
type focusSearchMsg struct{}
