package ui

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vanderheijden86/hypercut/pkg/partition"
)

func sampleResult() *partition.Result {
	return &partition.Result{
		A: []int{0, 1}, B: []int{2, 3},
		Cutset: 2, Passes: 2, Ratio: 0.5, Cells: 4, Nets: 4,
	}
}

func TestModelAccumulatesPasses(t *testing.T) {
	var m tea.Model = NewModel("g.edges")
	m, _ = m.Update(PassMsg{Pass: 1, Cutset: 5, Moves: 4})
	m, _ = m.Update(PassMsg{Pass: 2, Cutset: 2, Moves: 4})

	model := m.(Model)
	if len(model.Passes()) != 2 {
		t.Fatalf("got %d passes, want 2", len(model.Passes()))
	}
	view := model.View()
	for _, want := range []string{"pass  1", "pass  2", "partitioning"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}
}

func TestModelDoneShowsSummary(t *testing.T) {
	var m tea.Model = NewModel("g.edges")
	m, _ = m.Update(PassMsg{Pass: 1, Cutset: 2, Moves: 4})
	m, _ = m.Update(DoneMsg{Result: sampleResult()})

	model := m.(Model)
	if !model.Done() {
		t.Fatal("model not done after DoneMsg")
	}
	view := model.View()
	for _, want := range []string{"cutset 2", "A (2)", "B (2)", "q to quit"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}
	if strings.Contains(view, "partitioning") {
		t.Error("spinner text still visible after done")
	}
}

func TestModelShowsError(t *testing.T) {
	var m tea.Model = NewModel("g.edges")
	m, _ = m.Update(DoneMsg{Err: errors.New("boom")})
	view := m.(Model).View()
	if !strings.Contains(view, "boom") {
		t.Errorf("view missing error:\n%s", view)
	}
}

func TestModelQuitKeys(t *testing.T) {
	for _, key := range []string{"q", "ctrl+c", "esc"} {
		var m tea.Model = NewModel("g")
		var cmd tea.Cmd
		m, cmd = m.Update(keyMsg(key))
		if cmd == nil {
			t.Errorf("key %q did not quit", key)
			continue
		}
		if msg := cmd(); msg != tea.Quit() {
			t.Errorf("key %q produced %v, want tea.Quit", key, msg)
		}
	}
}

func TestModelEnterQuitsOnlyWhenDone(t *testing.T) {
	var m tea.Model = NewModel("g")
	_, cmd := m.Update(keyMsg("enter"))
	if cmd != nil {
		t.Error("enter should be inert while running")
	}
	m, _ = m.Update(DoneMsg{Result: sampleResult()})
	_, cmd = m.Update(keyMsg("enter"))
	if cmd == nil {
		t.Error("enter should quit once done")
	}
}

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
}
