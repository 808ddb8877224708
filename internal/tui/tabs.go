package tui

import (
	"fmt"
	"slices"

	"github.com/charmbracelet/lipgloss"
)

const (
	maxTabs     = 10
	maxTitleLen = 20
)

// Tab is one open document, keyed by its corpus path.
type Tab struct {
	Title string
	Path  string
}

// TabBar holds the open documents in opening order.
type TabBar struct {
	tabs    []Tab
	active  int
	maxTabs int
	width   int
}

func NewTabBar() TabBar {
	return TabBar{maxTabs: maxTabs, width: 80}
}

func (tb TabBar) find(path string) int {
	return slices.IndexFunc(tb.tabs, func(t Tab) bool { return t.Path == path })
}

// AddTab activates the tab for path, opening one when needed. It reports
// false when a new tab would exceed the limit.
func (tb *TabBar) AddTab(title, path string) bool {
	if i := tb.find(path); i >= 0 {
		tb.active = i
		return true
	}
	if tb.TabLimitReached() {
		return false
	}
	tb.tabs = append(tb.tabs, Tab{Title: title, Path: path})
	tb.active = len(tb.tabs) - 1
	return true
}

// CloseTab drops the active tab and reports whether any remain.
func (tb *TabBar) CloseTab() bool {
	if len(tb.tabs) == 0 {
		return false
	}
	tb.tabs = slices.Delete(tb.tabs, tb.active, tb.active+1)
	tb.active = max(0, min(tb.active, len(tb.tabs)-1))
	return len(tb.tabs) > 0
}

func (tb *TabBar) NextTab() { tb.shift(1) }

func (tb *TabBar) PrevTab() { tb.shift(-1) }

func (tb *TabBar) shift(delta int) {
	if n := len(tb.tabs); n > 0 {
		tb.active = ((tb.active+delta)%n + n) % n
	}
}

func (tb TabBar) ActiveTab() (Tab, bool) {
	if tb.active >= len(tb.tabs) {
		return Tab{}, false
	}
	return tb.tabs[tb.active], true
}

func (tb TabBar) HasTabs() bool { return len(tb.tabs) > 0 }

func (tb TabBar) TabCount() int { return len(tb.tabs) }

func (tb *TabBar) SetWidth(w int) { tb.width = w }

func (tb TabBar) TabLimitReached() bool { return len(tb.tabs) >= tb.maxTabs }

// Render draws the tabs left to right and replaces whatever does not fit
// with an ellipsis.
func (tb TabBar) Render() string {
	if len(tb.tabs) == 0 {
		return ""
	}

	budget := tb.width - 4
	parts := make([]string, 0, len(tb.tabs))
	for i, tab := range tb.tabs {
		style := inactiveTabStyle
		if i == tb.active {
			style = activeTabStyle
		}
		part := style.Render(" " + formatTabTitle(i, truncateTitle(tab.Title, maxTitleLen), i == tb.active) + " ")

		budget -= lipgloss.Width(part)
		if budget < 0 && i > 0 {
			parts = append(parts, dimStyle.Render(" ..."))
			break
		}
		parts = append(parts, part)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

// truncateTitle shortens title to at most maxLen runes.
func truncateTitle(title string, maxLen int) string {
	r := []rune(title)
	switch {
	case len(r) <= maxLen:
		return title
	case maxLen <= 3:
		return string(r[:maxLen])
	default:
		return string(r[:maxLen-3]) + "..."
	}
}

func formatTabTitle(idx int, title string, active bool) string {
	s := fmt.Sprintf("%d:%s", idx+1, title)
	if active {
		s += "*"
	}
	return s
}
