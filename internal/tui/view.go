package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/dailyfocus/internal/popup"
)

var (
	focusTabStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("230")).
			Background(lipgloss.Color("62")).
			Bold(true).
			Padding(0, 2)

	idleTabStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")).
			Padding(0, 2)

	bodyStyle = lipgloss.NewStyle().Margin(1, 2)

	storeErrorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("203")).
			Bold(true).
			MarginLeft(2)

	// refusals and confirmations from the controller
	noticeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("179")).
			MarginLeft(2)
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var content string
	if m.form != nil {
		content = bodyStyle.Render(m.form.View())
	} else {
		switch m.st.View {
		case popup.ViewHistory:
			content = bodyStyle.Render(m.historyModel.View())
		case popup.ViewSettings:
			content = m.settingsModel.View()
		default:
			content = bodyStyle.Render(m.todayModel.View())
		}
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.viewTabs(),
		content,
		m.viewStatus(),
		m.help.View(m),
	)
}

func (m Model) viewTabs() string {
	var rendered []string
	active := m.activeTab()
	for i, tab := range tabs {
		if i == active {
			rendered = append(rendered, focusTabStyle.Render(tab.title))
		} else {
			rendered = append(rendered, idleTabStyle.Render(tab.title))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
}

func (m Model) viewStatus() string {
	switch {
	case m.errMsg != "":
		return storeErrorStyle.Render(m.errMsg)
	case m.st.Message != "":
		return noticeStyle.Render(m.st.Message)
	default:
		return ""
	}
}
