package history

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/dailyfocus/internal/constants"
	"github.com/julianstephens/dailyfocus/internal/popup"
)

type Model struct {
	entries  []popup.HistoryEntry
	streak   int
	width    int
	height   int
	viewport viewport.Model
}

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205")).
			MarginBottom(1)

	dateStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Width(14)

	taskStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")).
			Width(40)

	completedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42"))

	incompleteStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	skippedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")).
			Italic(true)

	emptyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Italic(true)
)

func New(width, height int) Model {
	m := Model{
		width:    width,
		height:   height,
		viewport: viewport.New(width, height),
	}
	m.updateViewportContent()
	return m
}

func (m *Model) SetEntries(entries []popup.HistoryEntry, streak int) {
	m.entries = entries
	m.streak = streak
	m.updateViewportContent()
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if m.width == 0 {
		return ""
	}
	return m.viewport.View()
}

func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = width
	m.viewport.Height = height
	m.updateViewportContent()
}

func displayDate(key string) string {
	t, err := time.Parse(constants.DateFormat, key)
	if err != nil {
		return key
	}
	return t.Format("Mon Jan 2")
}

// Row renders one history entry.
func Row(e popup.HistoryEntry) string {
	status := incompleteStyle.Render(e.Status)
	task := taskStyle.Render(e.Task)
	switch {
	case e.Skipped:
		status = skippedStyle.Render(e.Status)
		task = skippedStyle.Width(40).Render(e.Task)
	case e.Completed:
		status = completedStyle.Render(e.Status)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, dateStyle.Render(displayDate(e.Date)), task, status)
}

func (m *Model) updateViewportContent() {
	sections := []string{
		titleStyle.Render(fmt.Sprintf("History (streak: %d)", m.streak)),
	}

	if len(m.entries) == 0 {
		sections = append(sections, emptyStyle.Render("No history yet. Complete some daily tasks!"))
	} else {
		for _, e := range m.entries {
			sections = append(sections, Row(e))
		}
	}

	content := lipgloss.JoinVertical(lipgloss.Left, sections...)
	m.viewport.SetContent(lipgloss.NewStyle().Padding(0, 2).Render(content))
}
