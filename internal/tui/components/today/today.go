package today

import (
	"fmt"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/dailyfocus/internal/models"
	"github.com/julianstephens/dailyfocus/internal/popup"
)

type Model struct {
	view     popup.View
	record   *models.DayRecord
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

	taskStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")).
			Bold(true).
			MarginBottom(1)

	completedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Bold(true)

	skippedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")).
			Italic(true)

	emptyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Italic(true)

	streakStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			MarginTop(1)

	sectionStyle = lipgloss.NewStyle().
			MarginTop(1).
			MarginBottom(1)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Italic(true).
			MarginTop(2)
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

// SetState replaces what is shown. Only the four today views render here.
func (m *Model) SetState(view popup.View, record *models.DayRecord, streak int) {
	m.view = view
	m.record = record
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

func (m *Model) updateViewportContent() {
	var sections []string
	var hint string

	switch m.view {
	case popup.ViewEvening:
		sections = append(sections, titleStyle.Render("Evening check-in"))
		sections = append(sections, sectionStyle.Render(taskStyle.Render(fmt.Sprintf("Today's Focus: %s", m.record.TaskText()))))
		sections = append(sections, "Did you complete your task today?")
		hint = "Press 'c' to complete the day"
	case popup.ViewTodayTask:
		sections = append(sections, titleStyle.Render("Today's Focus"))
		sections = append(sections, sectionStyle.Render(taskStyle.Render(m.record.TaskText())))
		hint = "Press 'e' to edit or 'c' to complete early"
	case popup.ViewTodayCompleted:
		task, status := popup.CompletedSummary(m.record)
		sections = append(sections, titleStyle.Render("Today"))
		if m.record != nil && m.record.Skipped {
			sections = append(sections, sectionStyle.Render(skippedStyle.Render(task)))
			sections = append(sections, skippedStyle.Render(status))
		} else {
			sections = append(sections, sectionStyle.Render(taskStyle.Render(task)))
			sections = append(sections, completedStyle.Render(status))
		}
	default:
		sections = append(sections, titleStyle.Render("Good morning!"))
		sections = append(sections, sectionStyle.Render(emptyStyle.Render("What is the one thing you want to get done today?")))
		hint = "Press 'enter' to set your focus or 's' to skip today"
	}

	sections = append(sections, streakStyle.Render(fmt.Sprintf("🔥 Streak: %d", m.streak)))
	if hint != "" {
		sections = append(sections, helpStyle.Render(hint))
	}

	content := lipgloss.JoinVertical(lipgloss.Left, sections...)
	m.viewport.SetContent(lipgloss.NewStyle().Padding(0, 2).Render(content))
}
