// internal/tui/run.go
//
// Live progress view for a workflow run. It uses bubbletea, which follows
// The Elm Architecture: the Model holds all state, Update folds messages
// into new state, and View renders the state to a string.
//
// The run itself executes in a goroutine; trace events arrive over a
// channel fed by a workflow.Observer and are folded in one at a time.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/slidesmith/slidesmith/internal/workflow"
)

const traceWindow = 12

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#5B8DEF")).
			MarginBottom(1)
	phaseStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#F7B801"))
	okStyle      = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#4CAF50"))
	warnStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FF6B6B"))
	traceStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#AAAAAA"))
	footerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888")).MarginTop(1)
	summaryStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#444444")).
			Padding(0, 1)
)

// Runner executes the workflow and returns its outcome. The observer is
// the view's trace sink; pass it to the engine so events stream into the
// display. Injected so tests can drive the view without a real engine.
type Runner func(ctx context.Context, observe workflow.Observer) (workflow.Outcome, error)

type traceMsg struct {
	event workflow.TraceEvent
}

type runDoneMsg struct {
	outcome workflow.Outcome
	err     error
}

// Model is the progress view. It holds ALL the view's state.
type Model struct {
	topic   string
	spinner spinner.Model
	events  []workflow.TraceEvent
	outcome workflow.Outcome
	err     error
	done    bool
	started time.Time

	runner Runner
	cancel context.CancelFunc
	trace  chan workflow.TraceEvent
	result chan runDoneMsg

	width int
}

// NewModel builds a progress view for one topic.
func NewModel(topic string, runner Runner) *Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#5B8DEF"))
	return &Model{
		topic:   topic,
		spinner: sp,
		runner:  runner,
		trace:   make(chan workflow.TraceEvent, 64),
		result:  make(chan runDoneMsg, 1),
		started: time.Now(),
	}
}

// Observer returns the trace sink to hand to the engine. Events are
// buffered so a slow terminal never stalls the workflow.
func (m *Model) Observer() workflow.Observer {
	return func(event workflow.TraceEvent) {
		select {
		case m.trace <- event:
		default:
		}
	}
}

// Init launches the run and starts listening for its events.
func (m *Model) Init() tea.Cmd {
	ctx, cancel := context.WithCancel(context.Background())
	m.cancel = cancel
	go func() {
		outcome, err := m.runner(ctx, m.Observer())
		m.result <- runDoneMsg{outcome: outcome, err: err}
	}()
	return tea.Batch(m.spinner.Tick, m.waitForEvent())
}

// waitForEvent blocks on the next trace event or the final result,
// whichever comes first.
func (m *Model) waitForEvent() tea.Cmd {
	return func() tea.Msg {
		select {
		case event := <-m.trace:
			return traceMsg{event: event}
		case done := <-m.result:
			return done
		}
	}
}

// drainTrace folds in events that arrived after the run finished so the
// final view shows the complete trace.
func (m *Model) drainTrace() {
	for {
		select {
		case event := <-m.trace:
			m.events = append(m.events, event)
		default:
			return
		}
	}
}

// Update folds a message into the model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case traceMsg:
		m.events = append(m.events, msg.event)
		return m, m.waitForEvent()

	case runDoneMsg:
		m.drainTrace()
		m.outcome = msg.outcome
		m.err = msg.err
		m.done = true
		return m, tea.Quit

	case spinner.TickMsg:
		if m.done {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			if m.cancel != nil {
				m.cancel()
			}
			// The run notices the cancellation at the next phase
			// boundary and finalizes; runDoneMsg still arrives.
			return m, nil
		}
	}
	return m, nil
}

// View renders the current state.
func (m *Model) View() string {
	var sections []string
	sections = append(sections, titleStyle.Render(fmt.Sprintf("◆ SLIDESMITH · %s", m.topic)))

	if m.done {
		sections = append(sections, m.renderSummary())
	} else {
		sections = append(sections, fmt.Sprintf("%s %s", m.spinner.View(), m.renderPhaseLine()))
	}

	if trace := m.renderTrace(); trace != "" {
		sections = append(sections, "", trace)
	}

	if !m.done {
		sections = append(sections, footerStyle.Render("q/esc → cancel run"))
	}
	return strings.Join(sections, "\n")
}

func (m *Model) renderPhaseLine() string {
	if len(m.events) == 0 {
		return phaseStyle.Render("starting run")
	}
	last := m.events[len(m.events)-1]
	return fmt.Sprintf("%s · iteration %d · %s",
		phaseStyle.Render(string(last.Phase)), last.Iteration, last.Summary)
}

func (m *Model) renderTrace() string {
	if len(m.events) == 0 {
		return ""
	}
	events := m.events
	if len(events) > traceWindow {
		events = events[len(events)-traceWindow:]
	}
	lines := make([]string, 0, len(events))
	for _, event := range events {
		lines = append(lines, fmt.Sprintf("%s  %-9s i%d  %s",
			event.At.Format("15:04:05"), event.Phase, event.Iteration, event.Summary))
	}
	return traceStyle.Render(strings.Join(lines, "\n"))
}

func (m *Model) renderSummary() string {
	if m.err != nil {
		return warnStyle.Render(fmt.Sprintf("✗ run failed: %v", m.err))
	}
	reasonStyle := okStyle
	if m.outcome.Reason != workflow.ReasonApproved {
		reasonStyle = warnStyle
	}
	lines := []string{
		fmt.Sprintf("Result: %s", reasonStyle.Render(string(m.outcome.Reason))),
		fmt.Sprintf("Iterations: %d", m.outcome.Iterations),
		fmt.Sprintf("Slides: %d", len(m.outcome.Final.Slides)),
		fmt.Sprintf("Elapsed: %s", time.Since(m.started).Round(time.Second)),
	}
	return summaryStyle.Render(strings.Join(lines, "\n"))
}

// Outcome returns the finished run's outcome and error. Valid after the
// program exits.
func (m *Model) Outcome() (workflow.Outcome, error) {
	return m.outcome, m.err
}

// Done reports whether the run has finished.
func (m *Model) Done() bool {
	return m.done
}

// Run executes the view as a full-screen bubbletea program and returns
// the workflow outcome once it finishes.
func Run(topic string, runner Runner) (workflow.Outcome, error) {
	model := NewModel(topic, runner)
	program := tea.NewProgram(model)
	final, err := program.Run()
	if err != nil {
		return workflow.Outcome{}, fmt.Errorf("tui: %w", err)
	}
	finished, ok := final.(*Model)
	if !ok {
		return workflow.Outcome{}, fmt.Errorf("tui: unexpected final model %T", final)
	}
	return finished.Outcome()
}
