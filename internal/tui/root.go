package tui

import (
	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// appMode represents the current application state.
type appMode int

const (
	modeSearch appMode = iota
	modeList
	modeDoc
)

// RootModel is the top-level application model that orchestrates all components.
type RootModel struct {
	backend  Backend
	mode     appMode
	quitting bool
	showHelp bool
	notice   string
	width    int
	height   int
	search   SearchModel
	list     ListModel
	doc      DocModel
	tabs     TabBar
	help     help.Model
	keys     keyBindings
}

// NewRootModel creates a new root application model.
func NewRootModel(backend Backend) RootModel {
	h := help.New()
	h.ShowAll = true
	return RootModel{
		backend: backend,
		mode:    modeSearch,
		search:  NewSearchModel(backend),
		list:    NewListModel(),
		doc:     NewDocModel(backend),
		tabs:    NewTabBar(),
		help:    h,
		keys:    newKeyBindings(),
	}
}

// Init returns the initial command for startup.
func (m RootModel) Init() tea.Cmd {
	return m.search.Init()
}

// openDocument starts a fresh viewer on path, sized to the current window.
func (m RootModel) openDocument(path string) (RootModel, tea.Cmd) {
	m.mode = modeDoc
	m.search = m.search.Blur()
	m.doc = NewDocModel(m.backend)
	if m.width > 0 {
		m.doc, _ = m.doc.Update(tea.WindowSizeMsg{Width: m.width, Height: m.height})
	}
	return m, m.doc.LoadDocument(path)
}

// Update processes messages and returns the updated model.
func (m RootModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		m.notice = ""
		switch msg.String() {
		case "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		case "q":
			if m.mode != modeSearch || !m.search.Focused() {
				m.quitting = true
				return m, tea.Quit
			}
		case "?":
			if m.mode != modeSearch || !m.search.Focused() {
				m.showHelp = !m.showHelp
				return m, nil
			}
		case "tab":
			if m.mode == modeDoc && m.tabs.TabCount() > 1 {
				m.tabs.NextTab()
				if tab, ok := m.tabs.ActiveTab(); ok {
					return m.openDocument(tab.Path)
				}
			}
			return m, nil
		case "ctrl+w":
			if m.mode == modeDoc && m.tabs.HasTabs() {
				if m.tabs.CloseTab() {
					tab, _ := m.tabs.ActiveTab()
					return m.openDocument(tab.Path)
				}
				m.mode = modeList
			}
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.list.SetSize(msg.Width, msg.Height-4)
		m.doc, _ = m.doc.Update(msg)
		m.tabs.SetWidth(msg.Width)
		return m, nil

	case searchTickMsg:
		var cmd tea.Cmd
		m.search, cmd = m.search.Update(msg)
		return m, cmd

	case searchResultsMsg:
		if msg.query != m.search.Value() {
			return m, nil
		}
		m.search.SetResults(len(msg.results), msg.alternatives)
		var cmd tea.Cmd
		m.list, cmd = m.list.Update(msg)
		if len(msg.results) > 0 && m.mode == modeSearch {
			m.mode = modeList
			m.search = m.search.Blur()
		}
		return m, cmd

	case listSelectMsg:
		if !m.tabs.AddTab(msg.result.Document.Title, msg.result.Document.Path) {
			m.notice = "Tab limit reached; close a tab with ctrl+w"
			return m, nil
		}
		return m.openDocument(msg.result.Document.Path)

	case loadDocMsg, docLoadedMsg:
		var cmd tea.Cmd
		m.doc, cmd = m.doc.Update(msg)
		return m, cmd

	case backToListMsg:
		m.mode = modeList
		return m, nil

	case docLinkMsg:
		doc, ok := m.backend.Document(msg.target)
		if !ok {
			return m, nil
		}
		if !m.tabs.AddTab(doc.Title, doc.Path) {
			m.notice = "Tab limit reached; close a tab with ctrl+w"
			return m, nil
		}
		return m.openDocument(doc.Path)

	case focusSearchMsg:
		m.mode = modeSearch
		m.search = m.search.Focus()
		return m, nil
	}

	var cmd tea.Cmd
	switch m.mode {
	case modeSearch:
		m.search, cmd = m.search.Update(msg)
	case modeList:
		m.list, cmd = m.list.Update(msg)
	case modeDoc:
		m.doc, cmd = m.doc.Update(msg)
	}

	return m, cmd
}

// View renders the UI as a string.
func (m RootModel) View() string {
	if m.quitting {
		return "Goodbye!\n"
	}

	if m.showHelp {
		return m.renderHelpView()
	}

	var parts []string
	switch m.mode {
	case modeSearch:
		parts = append(parts, m.search.View())
	case modeList:
		parts = append(parts, m.search.View(), "", m.list.View())
	case modeDoc:
		if m.tabs.HasTabs() {
			parts = append(parts, m.tabs.Render())
		}
		parts = append(parts, m.doc.View())
	}
	if m.notice != "" {
		parts = append(parts, errorStyle.Render(m.notice))
	}
	parts = append(parts, "", helpStyle.Render(m.help.ShortHelpView(m.keys.ShortHelp())))
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

// Mode reports which component has focus.
func (m RootModel) Mode() appMode {
	return m.mode
}

// renderHelpView renders the full help overlay.
func (m RootModel) renderHelpView() string {
	return lipgloss.JoinVertical(
		lipgloss.Left,
		titleStyle.Render("Keyboard Shortcuts"),
		"",
		m.help.View(m.keys),
		"",
		dimStyle.Render("Press ? to close help"),
	)
}
