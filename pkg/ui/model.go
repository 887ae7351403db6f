// Package ui provides the terminal user interface for hcut: a live view
// of FM passes converging, followed by the final partition summary.
//
// The engine runs in a background goroutine and streams PassStats into
// the bubbletea program; the model only renders.
package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vanderheijden86/hypercut/pkg/partition"
)

// PassMsg carries one completed pass from the engine goroutine.
type PassMsg partition.PassStats

// DoneMsg carries the final result (or the run error).
type DoneMsg struct {
	Result *partition.Result
	Err    error
}

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	passStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	cutStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
	errorStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
	blockStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("14"))
	helpStyle   = lipgloss.NewStyle().Faint(true)
	headerStyle = lipgloss.NewStyle().Bold(true)
)

// Model is the bubbletea model for a partitioning run.
type Model struct {
	input   string
	spinner spinner.Model
	passes  []partition.PassStats
	result  *partition.Result
	err     error
	done    bool
	width   int
}

// NewModel builds a model for a run over the named input.
func NewModel(input string) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	return Model{input: input, spinner: sp, width: 80}
}

// Init starts the spinner.
func (m Model) Init() tea.Cmd {
	return m.spinner.Tick
}

// Update handles engine progress, completion, resizes and quit keys.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "enter":
			if m.done {
				return m, tea.Quit
			}
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case PassMsg:
		m.passes = append(m.passes, partition.PassStats(msg))
		return m, nil

	case DoneMsg:
		m.done = true
		m.result = msg.Result
		m.err = msg.Err
		return m, nil

	case spinner.TickMsg:
		if m.done {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

// Passes returns the pass stats received so far (for tests).
func (m Model) Passes() []partition.PassStats { return m.passes }

// Done reports whether the run has finished.
func (m Model) Done() bool { return m.done }

// View renders the progress log and, once done, the summary.
func (m Model) View() string {
	var sb strings.Builder
	sb.WriteString(titleStyle.Render("hcut — " + m.input))
	sb.WriteString("\n\n")

	for _, p := range m.passes {
		sb.WriteString(passStyle.Render(fmt.Sprintf("pass %2d  cutset %4d  moves %4d", p.Pass, p.Cutset, p.Moves)))
		sb.WriteByte('\n')
	}

	switch {
	case m.err != nil:
		sb.WriteString("\n")
		sb.WriteString(errorStyle.Render("error: " + m.err.Error()))
		sb.WriteString("\n\n")
		sb.WriteString(helpStyle.Render("q to quit"))
	case m.done:
		sb.WriteString("\n")
		sb.WriteString(renderSummary(m.result))
		sb.WriteString("\n")
		sb.WriteString(helpStyle.Render("q to quit"))
	default:
		sb.WriteString("\n")
		sb.WriteString(m.spinner.View())
		sb.WriteString(" partitioning...")
	}
	sb.WriteByte('\n')
	return sb.String()
}

func renderSummary(res *partition.Result) string {
	if res == nil {
		return ""
	}
	var sb strings.Builder
	sb.WriteString(headerStyle.Render("result"))
	sb.WriteByte('\n')
	sb.WriteString(cutStyle.Render(fmt.Sprintf("cutset %d", res.Cutset)))
	sb.WriteString(passStyle.Render(fmt.Sprintf("  (%d cells, %d nets, %d passes)", res.Cells, res.Nets, res.Passes)))
	sb.WriteByte('\n')
	sb.WriteString(blockStyle.Render(fmt.Sprintf("A (%d): %s", len(res.A), joinIDs(res.A))))
	sb.WriteByte('\n')
	sb.WriteString(blockStyle.Render(fmt.Sprintf("B (%d): %s", len(res.B), joinIDs(res.B))))
	sb.WriteByte('\n')
	return sb.String()
}

func joinIDs(ids []int) string {
	if len(ids) == 0 {
		return "-"
	}
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = fmt.Sprintf("%d", id)
	}
	return strings.Join(parts, " ")
}

// Run executes the engine in the background and drives the TUI until the
// user quits. The caller hands in a closure so the UI owns no I/O.
func Run(input string, partitionFn func(onPass func(partition.PassStats)) (*partition.Result, error)) (*partition.Result, error) {
	p := tea.NewProgram(NewModel(input))

	resultCh := make(chan DoneMsg, 1)
	go func() {
		res, err := partitionFn(func(s partition.PassStats) {
			p.Send(PassMsg(s))
		})
		done := DoneMsg{Result: res, Err: err}
		resultCh <- done
		p.Send(done)
	}()

	if _, err := p.Run(); err != nil {
		return nil, fmt.Errorf("ui: %w", err)
	}
	done := <-resultCh
	return done.Result, done.Err
}
