// Package ui renders live progress for squaring chains.
package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"quadform/internal/chain"
)

type chainModel struct {
	title   string
	events  <-chan chain.Event
	spinner spinner.Model
	prog    progress.Model
	items   []chainItem
	index   map[string]int
	width   int
	done    bool
}

type chainItem struct {
	name   string
	status chain.Status
	step   uint64
	total  uint64
	form   string
}

type eventMsg chain.Event
type doneMsg struct{}

// NewChainModel returns a Bubble Tea model that follows the chains named in
// names (a single unnamed chain is []string{""}). It quits once events is
// closed.
func NewChainModel(title string, names []string, events <-chan chain.Event) tea.Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))

	prog := progress.New(progress.WithDefaultGradient())
	prog.Width = 76

	items := make([]chainItem, 0, len(names))
	index := make(map[string]int, len(names))
	for i, name := range names {
		items = append(items, chainItem{name: name, status: chain.StatusQueued})
		index[name] = i
	}
	return &chainModel{
		title:   title,
		events:  events,
		spinner: sp,
		prog:    prog,
		items:   items,
		index:   index,
		width:   80,
	}
}

func (m *chainModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.listenForEvent())
}

func (m *chainModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case eventMsg:
		cmd := m.applyEvent(chain.Event(msg))
		return m, tea.Batch(cmd, m.listenForEvent())
	case doneMsg:
		m.done = true
		return m, tea.Quit
	case spinner.TickMsg:
		if m.done {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case tea.WindowSizeMsg:
		if msg.Width > 0 {
			m.width = msg.Width
			m.prog.Width = msg.Width - 4
		}
		return m, nil
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		return m, nil
	case progress.FrameMsg:
		pm, cmd := m.prog.Update(msg)
		m.prog = pm.(progress.Model)
		return m, cmd
	}
	return m, nil
}

func (m *chainModel) View() string {
	if len(m.items) == 0 {
		return ""
	}
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("7"))
	header := m.title
	if m.done {
		header = "done: " + header
	} else {
		header = m.spinner.View() + " " + header
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(header))
	b.WriteString("\n\n")

	const statusWidth = 8
	lineWidth := max(m.width-statusWidth-4, 20)

	for _, item := range m.items {
		status := styleStatus(item.status).Render(fmt.Sprintf("%*s", statusWidth, item.status))
		line := fmt.Sprintf("%d/%d", item.step, item.total)
		if item.name != "" {
			line = item.name + " " + line
		}
		if item.form != "" {
			line += " " + item.form
		}
		b.WriteString("  ")
		b.WriteString(status)
		b.WriteString(" ")
		b.WriteString(truncate(line, lineWidth))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if m.done {
		b.WriteString(m.prog.ViewAs(1.0))
	} else {
		b.WriteString(m.prog.View())
	}
	b.WriteString("\n")
	return b.String()
}

func (m *chainModel) listenForEvent() tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-m.events
		if !ok {
			return doneMsg{}
		}
		return eventMsg(ev)
	}
}

func (m *chainModel) applyEvent(ev chain.Event) tea.Cmd {
	idx, ok := m.index[ev.Name]
	if !ok {
		return nil
	}
	item := &m.items[idx]
	item.status = ev.Status
	item.step = ev.Step
	item.total = ev.Total
	if ev.Form.A != nil {
		item.form = ev.Form.String()
	}
	if ev.Err != nil {
		item.form = ev.Err.Error()
	}
	return m.prog.SetPercent(m.percent())
}

// percent weighs each chain equally; finished chains count as complete.
func (m *chainModel) percent() float64 {
	if len(m.items) == 0 {
		return 0
	}
	total := 0.0
	for _, item := range m.items {
		switch {
		case item.status == chain.StatusDone || item.status == chain.StatusError:
			total += 1.0
		case item.total > 0:
			total += float64(item.step) / float64(item.total)
		}
	}
	return total / float64(len(m.items))
}

func styleStatus(status chain.Status) lipgloss.Style {
	switch status {
	case chain.StatusDone:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	case chain.StatusError:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	case chain.StatusWorking:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	default:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("7"))
	}
}

func truncate(value string, width int) string {
	if width <= 0 {
		return value
	}
	if runewidth.StringWidth(value) <= width {
		return value
	}
	if width <= 3 {
		return runewidth.Truncate(value, width, "")
	}
	// the tail counts toward width
	return runewidth.Truncate(value, width, "...")
}
