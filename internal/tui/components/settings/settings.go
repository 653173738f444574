package settings

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/dailyfocus/internal/models"
)

type EditSettingsMsg struct{}

type ResetSettingsMsg struct{}

type Model struct {
	settings models.Settings
	width    int
	height   int
}

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205")).
			MarginBottom(1)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Width(25)

	valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("255")).
			Bold(true)

	sectionStyle = lipgloss.NewStyle().
			MarginTop(1).
			MarginBottom(1)
)

func New(settings models.Settings, width, height int) Model {
	return Model{
		settings: settings,
		width:    width,
		height:   height,
	}
}

func (m *Model) SetSettings(settings models.Settings) {
	m.settings = settings
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "e":
			return m, func() tea.Msg { return EditSettingsMsg{} }
		case "r":
			return m, func() tea.Msg { return ResetSettingsMsg{} }
		}
	}
	return m, nil
}

func onOff(enabled bool) string {
	if enabled {
		return "on"
	}
	return "off"
}

func (m Model) row(label, value string) string {
	return fmt.Sprintf("%s %s", labelStyle.Render(label), valueStyle.Render(value))
}

func (m Model) View() string {
	if m.width == 0 {
		return ""
	}

	var sections []string

	s := m.settings
	title := titleStyle.Render("Notifications")
	content := lipgloss.JoinVertical(
		lipgloss.Left,
		m.row("Morning prompt:", fmt.Sprintf("%s (%s)", s.MorningClock(), onOff(s.EnableMorning))),
		m.row("Evening check-in:", fmt.Sprintf("%s (%s)", s.EveningClock(), onOff(s.EnableEvening))),
		m.row("Reminders:", fmt.Sprintf("every %d min (%s)", s.ReminderMinutes, onOff(s.EnableReminders))),
	)
	sections = append(sections, sectionStyle.Render(title+"\n"+content))

	helpText := lipgloss.NewStyle().
		Foreground(lipgloss.Color("240")).
		Italic(true).
		MarginTop(2).
		Render("Press 'e' to edit settings or 'r' to reset to defaults")

	sections = append(sections, helpText)

	return lipgloss.Place(
		m.width,
		m.height,
		lipgloss.Left,
		lipgloss.Top,
		lipgloss.NewStyle().Padding(2, 4).Render(lipgloss.JoinVertical(lipgloss.Left, sections...)),
	)
}

func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}
