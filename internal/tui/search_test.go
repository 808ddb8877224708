package tui

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/exp/teatest"
)

func typeInto(m SearchModel, s string) (SearchModel, tea.Cmd) {
	var cmd tea.Cmd
	for _, r := range s {
		m, cmd = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	return m, cmd
}

func TestSearchModel_New(t *testing.T) {
	m := NewSearchModel(newFakeBackend())
	if !m.Focused() {
		t.Error("expected input to be focused")
	}
	if m.debounce != defaultDebounce {
		t.Errorf("expected debounce %v, got %v", defaultDebounce, m.debounce)
	}
	if m.Init() == nil {
		t.Error("expected Init to return blink command")
	}
}

func TestSearchModel_EnterSearches(t *testing.T) {
	b := newFakeBackend()
	m, _ := typeInto(NewSearchModel(b), "order")

	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("expected search command")
	}
	if !m.searching {
		t.Error("expected searching to be set")
	}

	msg, ok := cmd().(searchResultsMsg)
	if !ok {
		t.Fatal("expected searchResultsMsg")
	}
	if len(msg.results) != 1 || msg.results[0].Document.Path != "orders/flow.md" {
		t.Errorf("unexpected results: %+v", msg.results)
	}
	if msg.query != "order" {
		t.Errorf("expected query 'order', got %q", msg.query)
	}
}

func TestSearchModel_EnterEmptyDoesNothing(t *testing.T) {
	m := NewSearchModel(newFakeBackend())
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd != nil {
		t.Error("expected no command for empty query")
	}
}

func TestSearchModel_NoResultsOffersAlternatives(t *testing.T) {
	m, _ := typeInto(NewSearchModel(newFakeBackend()), "planogrm")
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})

	msg := cmd().(searchResultsMsg)
	if len(msg.results) != 0 {
		t.Errorf("expected no results, got %d", len(msg.results))
	}
	if len(msg.alternatives) != 1 || msg.alternatives[0] != "planogram" {
		t.Errorf("expected planogram alternative, got %v", msg.alternatives)
	}

	m.SetResults(0, msg.alternatives)
	if !strings.Contains(m.View(), "Did you mean: planogram?") {
		t.Error("expected alternatives in view")
	}
}

func TestSearchModel_PhraseToggle(t *testing.T) {
	b := newFakeBackend()
	m, _ := typeInto(NewSearchModel(b), "order flow")

	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlP})
	if !m.Phrase() {
		t.Fatal("expected phrase mode on")
	}
	if cmd == nil {
		t.Fatal("expected re-search on toggle")
	}
	cmd()
	if got := b.queries[len(b.queries)-1]; !got.Phrase {
		t.Error("expected phrase query to reach the backend")
	}
	if !strings.Contains(m.View(), "[phrase]") {
		t.Error("expected phrase marker in view")
	}

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyCtrlP})
	if m.Phrase() {
		t.Error("expected phrase mode off")
	}
}

func TestSearchModel_Debounce(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantCmd bool
	}{
		{"single rune waits", "o", false},
		{"two runes start timer", "or", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, _ := typeInto(NewSearchModel(newFakeBackend()), tt.input)
			if got := m.lastQuery == tt.input; got != tt.wantCmd {
				t.Errorf("lastQuery = %q, debounce started = %v, want %v", m.lastQuery, got, tt.wantCmd)
			}
		})
	}
}

func TestSearchModel_StaleTickIgnored(t *testing.T) {
	m, _ := typeInto(NewSearchModel(newFakeBackend()), "order")

	if _, cmd := m.Update(searchTickMsg{query: "ord"}); cmd != nil {
		t.Error("expected stale tick to be ignored")
	}
	if _, cmd := m.Update(searchTickMsg{query: "order"}); cmd == nil {
		t.Error("expected current tick to search")
	}
}

func TestSearchModel_Escape(t *testing.T) {
	m, _ := typeInto(NewSearchModel(newFakeBackend()), "order")
	m.SetResults(3, nil)

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEscape})
	if m.Value() != "" {
		t.Errorf("expected empty input, got %q", m.Value())
	}
	if m.resultCount != 0 {
		t.Error("expected result count reset")
	}
}

func TestSearchModel_ResultCountView(t *testing.T) {
	m := NewSearchModel(newFakeBackend())
	m.SetResults(1, nil)
	if !strings.Contains(m.View(), "1 result") {
		t.Error("expected singular result count")
	}
	m.SetResults(4, nil)
	if !strings.Contains(m.View(), "4 results") {
		t.Error("expected plural result count")
	}
}

func TestSearchModel_FocusBlur(t *testing.T) {
	m := NewSearchModel(newFakeBackend()).Blur()
	if m.Focused() {
		t.Error("expected blurred input")
	}
	if !m.Focus().Focused() {
		t.Error("expected focused input")
	}
}

func TestSearchModel_Integration_TypingFlow(t *testing.T) {
	tm := teatest.NewTestModel(t, NewRootModel(newFakeBackend()), teatest.WithInitialTermSize(80, 10))
	defer tm.Quit()

	tm.Type("hello world")
	time.Sleep(100 * time.Millisecond)
	if tm.Output() == nil {
		t.Error("expected output reader")
	}
}
