// Package tui provides an interactive terminal UI for reachability checks.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/KilimcininKorOglu/echocheck/internal/check"
)

// State represents the current state of the TUI.
type State int

const (
	StateRunning State = iota
	StateComplete
	StateError
)

// hostRow is the live view of one target.
type hostRow struct {
	target  string
	started bool
	addr    string
	stage   check.Stage
	seq     int
	count   int
	result  *check.Result
}

// Model is the Bubble Tea model for the reachability TUI.
type Model struct {
	// Configuration
	targets []string
	config  *check.Config
	width   int
	height  int

	// State
	state     State
	rows      []hostRow
	index     map[string]int
	results   []*check.Result
	err       error
	elapsed   time.Duration
	startTime time.Time

	// UI components
	spinner spinner.Model

	// Styles
	styles Styles

	// Progress updates from the checker goroutine
	progressChan chan check.Progress
	ctx          context.Context
	cancel       context.CancelFunc
}

// ProgressMsg is sent on every state change of a host check.
type ProgressMsg struct {
	Progress check.Progress
}

// CompleteMsg is sent when every host has been checked.
type CompleteMsg struct {
	Results []*check.Result
}

// ErrorMsg is sent when an error occurs.
type ErrorMsg struct {
	Err error
}

// TickMsg is sent to update elapsed time.
type TickMsg time.Time

// New creates a new TUI model.
func New(targets []string, config *check.Config) (*Model, error) {
	if len(targets) == 0 {
		return nil, fmt.Errorf("no targets")
	}
	if config == nil {
		config = check.DefaultConfig()
	}

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	ctx, cancel := context.WithCancel(context.Background())

	m := &Model{
		targets:      targets,
		config:       config,
		state:        StateRunning,
		rows:         make([]hostRow, len(targets)),
		index:        make(map[string]int, len(targets)),
		spinner:      s,
		styles:       DefaultStyles(),
		width:        80,
		height:       24,
		startTime:    time.Now(),
		progressChan: make(chan check.Progress, 64),
		ctx:          ctx,
		cancel:       cancel,
	}

	for i, t := range targets {
		m.rows[i] = hostRow{target: t, count: config.ProbeCount}
		if _, dup := m.index[t]; !dup {
			m.index[t] = i
		}
	}

	return m, nil
}

// SetStyles replaces the style set.
func (m *Model) SetStyles(s Styles) {
	m.styles = s
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.spinner.Tick,
		m.runChecks(),
		m.tickCmd(),
		m.waitForProgress(),
	)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			m.cancel()
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case TickMsg:
		if m.state == StateRunning {
			m.elapsed = time.Since(m.startTime)
			return m, m.tickCmd()
		}

	case ProgressMsg:
		m.applyProgress(msg.Progress)
		return m, m.waitForProgress()

	case CompleteMsg:
		m.state = StateComplete
		m.results = msg.Results
		for i, r := range msg.Results {
			if i < len(m.rows) {
				m.rows[i].result = r
				m.rows[i].stage = check.StageClosed
			}
		}

	case ErrorMsg:
		m.state = StateError
		m.err = msg.Err
		return m, tea.Quit
	}

	return m, nil
}

// applyProgress updates the first unfinished row for the target.
func (m *Model) applyProgress(p check.Progress) {
	i, ok := m.rowFor(p.Target)
	if !ok {
		return
	}

	row := &m.rows[i]
	row.started = true
	row.stage = p.Stage
	row.count = p.Count
	if p.Addr.IsValid() {
		row.addr = p.Addr.String()
	}
	if p.Stage == check.StageProbing {
		row.seq = p.Seq
	}
}

func (m *Model) rowFor(target string) (int, bool) {
	start, ok := m.index[target]
	if !ok {
		return 0, false
	}
	for i := start; i < len(m.rows); i++ {
		if m.rows[i].target == target && m.rows[i].result == nil && m.rows[i].stage != check.StageClosed {
			return i, true
		}
	}
	return start, true
}

// View implements tea.Model.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(m.renderHeader())
	b.WriteString("\n\n")

	b.WriteString(m.renderHosts())

	b.WriteString("\n\n")
	b.WriteString(m.renderFooter())

	return b.String()
}

// renderHeader renders the header section.
func (m Model) renderHeader() string {
	title := m.styles.Title.Render("echocheck")

	var status string
	switch m.state {
	case StateRunning:
		status = m.spinner.View() + " Probing..."
	case StateComplete:
		if check.AllReachable(m.results) {
			status = m.styles.Success.Render("✓ All hosts reachable")
		} else {
			status = m.styles.Error.Render("✗ Some hosts unreachable")
		}
	case StateError:
		status = m.styles.Error.Render("✗ Error: " + fmt.Sprint(m.err))
	}

	info := fmt.Sprintf("Hosts: %d | Probes per host: %d", len(m.targets), m.config.ProbeCount)

	return lipgloss.JoinVertical(lipgloss.Left,
		title,
		m.styles.Subtle.Render(info),
		status,
	)
}

// renderHosts renders the host table.
func (m Model) renderHosts() string {
	rows := []string{
		m.styles.Header.Render(fmt.Sprintf("%-2s %-30s %-15s %-9s %s", "", "Target", "IP", "Probes", "Outcome")),
		m.styles.Subtle.Render(strings.Repeat("─", 72)),
	}

	for _, row := range m.rows {
		rows = append(rows, m.renderHostRow(row))
	}

	return strings.Join(rows, "\n")
}

// renderHostRow renders a single host row.
func (m Model) renderHostRow(row hostRow) string {
	var mark, outcome string
	probes := fmt.Sprintf("%d/%d", row.seq, row.count)

	switch {
	case row.result != nil && row.result.Reachable:
		mark = m.styles.Success.Render("✓")
		probes = fmt.Sprintf("%d/%d", row.result.Completed, row.result.ProbeCount)
		outcome = m.styles.Success.Render(row.result.Outcome.String())
	case row.result != nil:
		mark = m.styles.Error.Render("✗")
		probes = fmt.Sprintf("%d/%d", row.result.Completed, row.result.ProbeCount)
		outcome = m.styles.Error.Render(row.result.Outcome.String())
		if row.result.FailedSeq > 0 {
			outcome += m.styles.Subtle.Render(fmt.Sprintf(" at probe %d", row.result.FailedSeq))
		}
	case !row.started:
		mark = " "
		outcome = m.styles.Subtle.Render("waiting")
	default:
		mark = m.spinner.View()
		outcome = m.styles.Progress.Render(row.stage.String())
	}

	addr := row.addr
	if addr == "" {
		addr = "-"
	}

	return fmt.Sprintf("%-2s %-30s %-15s %-9s %s",
		mark,
		m.styles.Target.Render(truncate(row.target, 30)),
		m.styles.IP.Render(addr),
		m.styles.Progress.Render(probes),
		outcome,
	)
}

// renderFooter renders the footer section.
func (m Model) renderFooter() string {
	var parts []string

	if m.state == StateComplete {
		s := check.Summarize(m.results)
		parts = append(parts, fmt.Sprintf("Reachable: %d/%d", s.Reachable, s.Total))
	}
	parts = append(parts, fmt.Sprintf("Elapsed: %s", m.elapsed.Round(100*time.Millisecond)))
	parts = append(parts, "Press 'q' to quit")

	return m.styles.Subtle.Render(strings.Join(parts, " | "))
}

// runChecks runs the checks in the background.
func (m Model) runChecks() tea.Cmd {
	return func() tea.Msg {
		config := *m.config
		config.OnProgress = func(p check.Progress) {
			select {
			case m.progressChan <- p:
			case <-m.ctx.Done():
			}
		}

		checker, err := check.New(&config)
		if err != nil {
			return ErrorMsg{Err: err}
		}

		return CompleteMsg{Results: checker.CheckAll(m.ctx, m.targets)}
	}
}

// waitForProgress waits for a progress update from the channel.
func (m Model) waitForProgress() tea.Cmd {
	return func() tea.Msg {
		select {
		case p := <-m.progressChan:
			return ProgressMsg{Progress: p}
		case <-m.ctx.Done():
			return nil
		}
	}
}

// tickCmd returns a command that sends tick messages.
func (m Model) tickCmd() tea.Cmd {
	return tea.Tick(100*time.Millisecond, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

// Results returns the results of a completed run.
func (m Model) Results() []*check.Result {
	return m.results
}

// Close stops the background checks.
func (m *Model) Close() error {
	m.cancel()
	return nil
}

// truncate truncates a string to maxLen.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}
