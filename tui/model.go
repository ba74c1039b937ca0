// Package tui is a full screen terminal interface for the calculator.
package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	"github.com/mohamadnahleh/set-calculator/calc"
	"github.com/mohamadnahleh/set-calculator/setstore"
)

const usageHint = "(enter to run, ↑/↓ recall, tab completes transforms, ctrl+y copies output, esc to quit)"

// model is the Bubble Tea model. The calculator and session are shared
// pointers, so copies of the model all act on the same sets.
type model struct {
	ctx     context.Context
	session *calc.Session
	styles  Styles

	input    textinput.Model
	viewport viewport.Model
	ready    bool

	transcript []string // rendered lines of past commands and their output
	entered    []string // lines typed so far, for recall
	recall     int      // index into entered; len(entered) means a fresh line

	lastOutput string
	status     string
	quitting   bool

	copy func(string) error
}

func newModel(ctx context.Context, session *calc.Session, color bool) model {
	ti := textinput.New()
	ti.Placeholder = "x 1,2,3"
	ti.Prompt = session.Prompt + " "
	ti.CharLimit = 0
	ti.Focus()

	return model{
		ctx:      ctx,
		session:  session,
		styles:   NewStyles(color),
		input:    ti,
		viewport: viewport.New(0, 0), // sized on the first tea.WindowSizeMsg
		copy:     clipboard.WriteAll,
	}
}

// Run starts the interface and blocks until the user leaves.
func Run(ctx context.Context, session *calc.Session, color bool) error {
	p := tea.NewProgram(newModel(ctx, session, color), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("failed to run tui: %w", err)
	}
	return nil
}

func (m model) Init() tea.Cmd {
	return textinput.Blink
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.quitting {
		return m, tea.Quit
	}

	var (
		cmd  tea.Cmd
		cmds []tea.Cmd
	)

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		headerHeight := lipgloss.Height(m.setsView()) + 1
		footerHeight := lipgloss.Height(m.input.View()) + 2
		m.viewport.Width = msg.Width
		m.viewport.Height = max(msg.Height-headerHeight-footerHeight, 1)
		m.input.Width = max(msg.Width-lipgloss.Width(m.input.Prompt)-1, 1)
		if !m.ready {
			m.ready = true
		}
		m.refresh()

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			m.quitting = true
			return m, tea.Quit

		case "enter":
			if m.execute() {
				m.quitting = true
				return m, tea.Quit
			}
			return m, nil

		case "up":
			m.recallLine(-1)
			return m, nil

		case "down":
			m.recallLine(1)
			return m, nil

		case "tab":
			m.complete()
			return m, nil

		case "ctrl+y":
			m.copyOutput()
			return m, nil

		case "pgup":
			m.viewport.HalfViewUp()
			return m, nil

		case "pgdown":
			m.viewport.HalfViewDown()
			return m, nil
		}
	}

	m.input, cmd = m.input.Update(msg)
	cmds = append(cmds, cmd)

	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

func (m model) View() string {
	if !m.ready {
		return "Initializing..."
	}
	if m.quitting {
		return ""
	}

	status := m.status
	if status == "" {
		status = usageHint
	}
	return fmt.Sprintf("%s\n%s\n%s\n%s",
		m.setsView(),
		m.viewport.View(),
		m.input.View(),
		m.styles.Status.Render(status),
	)
}

// execute runs the typed line. It reports whether the calculator asked to
// quit.
func (m *model) execute() bool {
	line := m.input.Value()
	m.input.Reset()
	m.status = ""

	if strings.TrimSpace(line) != "" {
		m.entered = append(m.entered, line)
	}
	m.recall = len(m.entered)

	res := m.session.Calc.ExecuteLine(line)
	m.session.Record(m.ctx, line, res)

	m.transcript = append(m.transcript, m.styles.Prompt.Render(m.session.Prompt)+" "+line)
	if res.Output != "" {
		style := m.styles.Output
		if res.Failed {
			style = m.styles.Error
		}
		m.transcript = append(m.transcript, style.Render(res.Output))
		m.lastOutput = res.Output
	}
	m.refresh()
	return res.Quit
}

// recallLine moves through previously entered lines. Moving past the newest
// line clears the input.
func (m *model) recallLine(delta int) {
	if len(m.entered) == 0 {
		return
	}
	m.recall = min(max(m.recall+delta, 0), len(m.entered))
	if m.recall == len(m.entered) {
		m.input.SetValue("")
		return
	}
	m.input.SetValue(m.entered[m.recall])
	m.input.CursorEnd()
}

// complete replaces a partial transform name after "l " with the best
// matching named transform.
func (m *model) complete() {
	value := m.input.Value()
	name, partial, ok := strings.Cut(strings.TrimLeft(value, " "), " ")
	if !ok || strings.ToLower(name) != "l" {
		return
	}
	partial = strings.TrimSpace(partial)
	if partial == "" || strings.ContainsAny(partial, " ") {
		return
	}

	names := m.session.Calc.Transforms.Names()
	matches := fuzzy.Find(strings.ToLower(partial), names)
	if len(matches) == 0 {
		m.status = fmt.Sprintf("no transform matches %q", partial)
		return
	}
	m.input.SetValue(name + " " + matches[0].Str)
	m.input.CursorEnd()
	m.status = ""
}

func (m *model) copyOutput() {
	if m.lastOutput == "" {
		m.status = "nothing to copy"
		return
	}
	if err := m.copy(m.lastOutput); err != nil {
		m.status = fmt.Sprintf("failed to copy: %v", err)
		return
	}
	m.status = "copied to clipboard"
}

// refresh re-renders the transcript into the viewport and scrolls to the end.
func (m *model) refresh() {
	m.viewport.SetContent(strings.Join(m.transcript, "\n"))
	m.viewport.GotoBottom()
}

func (m model) setsView() string {
	rows := make([]string, 0, 3)
	for _, e := range m.session.Calc.Store.Snapshot() {
		rows = append(rows, m.styles.Label.Render(string(e.Label)+":")+" "+joinValues(e))
	}
	return m.styles.Sets.Render(strings.Join(rows, "\n"))
}

func joinValues(e setstore.Entry) string {
	parts := make([]string, len(e.Values))
	for i, v := range e.Values {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, " ")
}
