package tui

import "github.com/charmbracelet/lipgloss"

var (
	titleStyle        = newWithColor("#22c55e").Bold(true).MarginBottom(1)
	helpStyle         = newWithColor("#525252").Italic(true)
	searchInputStyle  = lipgloss.NewStyle().Padding(0, 1).Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("#404040"))
	errorStyle        = newWithColor("#ef4444")
	dimStyle          = newWithColor("#525252").Italic(true)
	accentStyle       = newWithColor("#22c55e")
	matchStyle        = newWithColor("#22c55e").Bold(true)
	nameStyle         = newWithColor("#fafafa")
	selectedNameStyle = newWithColor("#22c55e").Bold(true)
	pathStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("#737373")).Faint(true)
	snippetStyle      = newWithColor("#a1a1a1")
	emptyStateStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#737373")).Italic(true).Padding(1, 2)
	docTitleStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#22c55e")).Bold(true)
	docBackStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#737373"))
	docLinksStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#737373")).Italic(true)
	activeTabStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#0a0a0a")).Background(lipgloss.Color("#22c55e")).Bold(true)
	inactiveTabStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#a1a1a1")).Background(lipgloss.Color("#262626"))
)

func newWithColor(c string) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(c))
}
