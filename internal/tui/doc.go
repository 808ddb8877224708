package tui

import (
	"fmt"
	"net/url"
	"path"
	"regexp"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/glamour/ansi"
	"github.com/charmbracelet/lipgloss"

	"github.com/stormlightlabs/docsift/internal/shared"
)

const wordWrap = 80

var linkPattern = regexp.MustCompile(`\[([^\]]+)\]\(([^)\s]+)\)`)

// loadDocMsg is sent to trigger loading a document.
type loadDocMsg struct {
	path string
}

// docLoadedMsg is sent when a document is fetched and rendered.
type docLoadedMsg struct {
	content string
	path    string
	title   string
	links   []Link
	err     error
}

// docLinkMsg is sent when a user activates a numbered link.
type docLinkMsg struct {
	target string
}

// Link is a markdown link from the open document to another indexed one.
type Link struct {
	index  int
	target string
	text   string
}

func NewLink(i int, t, txt string) Link {
	return Link{index: i, target: t, text: txt}
}

// DocModel is the document viewer component.
type DocModel struct {
	backend  Backend
	viewport viewport.Model
	spinner  spinner.Model
	content  string
	path     string
	title    string
	links    []Link
	loading  bool
	err      error
}

// NewDocModel creates a new document model without loading content.
func NewDocModel(b Backend) DocModel {
	v := viewport.New(0, 0)
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#22c55e"))
	return DocModel{backend: b, viewport: v, spinner: sp}
}

func (m DocModel) Init() tea.Cmd {
	return m.spinner.Tick
}

// LoadDocument returns a command to load a document by corpus path.
func (m DocModel) LoadDocument(p string) tea.Cmd {
	return func() tea.Msg {
		return loadDocMsg{path: p}
	}
}

// loadDocument fetches and renders the document.
func (m DocModel) loadDocument(p string) tea.Cmd {
	backend := m.backend
	return func() tea.Msg {
		doc, ok := backend.Document(p)
		if !ok {
			return docLoadedMsg{path: p, err: fmt.Errorf("document not indexed: %s", p)}
		}

		source, err := backend.Source(p)
		if err != nil {
			return docLoadedMsg{path: p, err: err}
		}

		content, err := renderMarkdown(source)
		if err != nil {
			return docLoadedMsg{path: p, err: err}
		}

		return docLoadedMsg{
			content: content,
			path:    p,
			title:   doc.Title,
			links:   extractLinks(backend, p, source),
		}
	}
}

func docTheme() ansi.StyleConfig {
	heading := func(prefix string) ansi.StyleBlock {
		return ansi.StyleBlock{StylePrimitive: ansi.StylePrimitive{
			Color:       shared.Ptr("#22c55e"),
			Bold:        shared.Ptr(true),
			BlockPrefix: prefix,
			BlockSuffix: "\n",
		}}
	}
	minor := ansi.StyleBlock{StylePrimitive: ansi.StylePrimitive{Bold: shared.Ptr(true), BlockPrefix: "\n"}}

	return ansi.StyleConfig{
		Document: ansi.StyleBlock{
			StylePrimitive: ansi.StylePrimitive{Color: shared.Ptr("#fafafa")},
		},
		Heading: heading(""),
		H1:      heading(""),
		H2:      heading("\n"),
		H3:      heading("\n"),
		H4:      minor,
		H5:      minor,
		H6:      minor,
		Text:    ansi.StylePrimitive{Color: shared.Ptr("#fafafa")},
		BlockQuote: ansi.StyleBlock{
			StylePrimitive: ansi.StylePrimitive{
				Color:       shared.Ptr("#737373"),
				Italic:      shared.Ptr(true),
				BlockPrefix: "> ",
			},
		},
		List: ansi.StyleList{LevelIndent: 2},
		Item: ansi.StylePrimitive{BlockPrefix: "• "},
		CodeBlock: ansi.StyleCodeBlock{
			StyleBlock: ansi.StyleBlock{
				StylePrimitive: ansi.StylePrimitive{
					Color:           shared.Ptr("#e5e5e5"),
					BackgroundColor: shared.Ptr("#1f1f1f"),
					BlockPrefix:     "\n",
					BlockSuffix:     "\n",
				},
			},
		},
		Paragraph: ansi.StyleBlock{
			StylePrimitive: ansi.StylePrimitive{BlockPrefix: "\n", BlockSuffix: "\n"},
		},
		Link:     ansi.StylePrimitive{Color: shared.Ptr("#22c55e"), Underline: shared.Ptr(true)},
		LinkText: ansi.StylePrimitive{Color: shared.Ptr("#22c55e"), Bold: shared.Ptr(true)},
	}
}

// renderMarkdown renders markdown source with the viewer theme.
func renderMarkdown(markdown string) (string, error) {
	r, err := glamour.NewTermRenderer(glamour.WithStyles(docTheme()), glamour.WithWordWrap(wordWrap))
	if err != nil {
		return "", err
	}
	return r.Render(markdown)
}

// extractLinks returns the links of content that point at other indexed
// documents, numbered in order of appearance.
func extractLinks(b Backend, from, content string) []Link {
	var links []Link
	seen := make(map[string]bool)
	for _, match := range linkPattern.FindAllStringSubmatch(content, -1) {
		target, ok := resolveLink(from, match[2])
		if !ok || seen[target] {
			continue
		}
		if _, indexed := b.Document(target); !indexed {
			continue
		}
		seen[target] = true
		links = append(links, NewLink(len(links)+1, target, match[1]))
	}
	return links
}

// resolveLink turns a relative markdown link into a corpus path. External
// URLs, pure anchors and links escaping the corpus root are rejected.
func resolveLink(from, href string) (string, bool) {
	u, err := url.Parse(href)
	if err != nil || u.Scheme != "" || u.Host != "" || u.Path == "" {
		return "", false
	}
	target := u.Path
	if !strings.HasPrefix(target, "/") {
		target = path.Join(path.Dir(from), target)
	}
	target = strings.TrimPrefix(path.Clean(target), "/")
	if target == "." || target == ".." || strings.HasPrefix(target, "../") {
		return "", false
	}
	return target, true
}

// Update scrolls the viewport and turns number keys into link activations.
func (m DocModel) Update(msg tea.Msg) (DocModel, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case loadDocMsg:
		m.path = msg.path
		m.loading = true
		m.err = nil
		return m, tea.Batch(m.spinner.Tick, m.loadDocument(msg.path))

	case docLoadedMsg:
		if msg.path != m.path {
			return m, nil
		}
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.content = msg.content
		m.title = msg.title
		m.links = msg.links
		m.viewport.SetContent(m.content)
		m.viewport.GotoTop()
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "j", "down":
			m.viewport.ScrollDown(1)
			return m, nil
		case "k", "up":
			m.viewport.ScrollUp(1)
			return m, nil
		case "d":
			m.viewport.HalfPageDown()
			return m, nil
		case "u":
			m.viewport.HalfPageUp()
			return m, nil
		case "g":
			m.viewport.GotoTop()
			return m, nil
		case "G":
			m.viewport.GotoBottom()
			return m, nil
		case "1", "2", "3", "4", "5", "6", "7", "8", "9":
			idx := int(msg.String()[0] - '0')
			if idx <= len(m.links) {
				target := m.links[idx-1].target
				return m, func() tea.Msg {
					return docLinkMsg{target: target}
				}
			}
			return m, nil
		case "esc":
			return m, func() tea.Msg {
				return backToListMsg{}
			}
		case "/":
			return m, func() tea.Msg {
				return focusSearchMsg{}
			}
		}

	case tea.WindowSizeMsg:
		m.viewport.Width = msg.Width
		m.viewport.Height = msg.Height - 4
		return m, nil

	case spinner.TickMsg:
		if m.loading {
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil
	}

	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m DocModel) View() string {
	if m.err != nil {
		return errorStyle.Render("Error loading document: " + m.err.Error())
	}

	if m.loading {
		return lipgloss.JoinHorizontal(lipgloss.Left,
			m.spinner.View(),
			dimStyle.Render(" Loading document..."),
		)
	}

	if m.content == "" {
		return emptyStateStyle.Render("No document loaded.")
	}

	return lipgloss.JoinVertical(lipgloss.Left, m.renderHeader(), m.viewport.View(), m.renderFooter())
}

// renderHeader renders the document title, path and back hint.
func (m DocModel) renderHeader() string {
	title := docTitleStyle.Render(m.title)
	where := pathStyle.Render("  " + m.path)
	back := docBackStyle.Render("  esc: back")
	return lipgloss.JoinHorizontal(lipgloss.Left, title, where, back)
}

// renderFooter renders the footer with links summary.
func (m DocModel) renderFooter() string {
	if len(m.links) == 0 {
		return ""
	}

	var linkParts []string
	for _, link := range m.links {
		linkParts = append(linkParts, fmt.Sprintf("[%d]%s", link.index, link.text))
	}

	return docLinksStyle.Render("Links: " + strings.Join(linkParts, " "))
}

// Path returns the document path.
func (m DocModel) Path() string {
	return m.path
}

// Links returns the navigable links of the open document.
func (m DocModel) Links() []Link {
	return m.links
}

// backToListMsg is sent when user presses Esc to return to the list.
type backToListMsg struct{}
