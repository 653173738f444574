package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/dailyfocus/internal/popup"
	"github.com/julianstephens/dailyfocus/internal/tui/components/settings"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if size, ok := msg.(tea.WindowSizeMsg); ok {
		m.setSize(size.Width, size.Height)
		return m, nil
	}

	if m.form != nil {
		return m.updateForm(msg)
	}

	switch msg := msg.(type) {
	case settings.EditSettingsMsg:
		return m.openSettingsForm()
	case settings.ResetSettingsMsg:
		m.apply(m.controller.ResetSettings(m.ctx, m.st))
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	case key.Matches(msg, m.keys.Tab):
		return m.navigate((m.activeTab() + 1) % len(tabs))
	case key.Matches(msg, m.keys.ShiftTab):
		return m.navigate((m.activeTab() + len(tabs) - 1) % len(tabs))
	}

	var cmd tea.Cmd
	switch m.st.View {
	case popup.ViewMorning:
		switch {
		case key.Matches(msg, m.keys.Enter):
			return m.openTaskForm()
		case key.Matches(msg, m.keys.Skip):
			m.apply(m.controller.Skip(m.ctx, m.st))
		}
	case popup.ViewEvening:
		if key.Matches(msg, m.keys.Complete) {
			m.apply(m.controller.Complete(m.ctx, m.st))
		}
	case popup.ViewTodayTask:
		switch {
		case key.Matches(msg, m.keys.Edit):
			m.apply(m.controller.Edit(m.st), nil)
			return m.openTaskForm()
		case key.Matches(msg, m.keys.Complete):
			m.apply(m.controller.CompleteEarly(m.st), nil)
		}
	case popup.ViewHistory:
		m.historyModel, cmd = m.historyModel.Update(msg)
	case popup.ViewSettings:
		m.settingsModel, cmd = m.settingsModel.Update(msg)
	default:
		m.todayModel, cmd = m.todayModel.Update(msg)
	}
	return m, cmd
}

func (m Model) navigate(tab int) (tea.Model, tea.Cmd) {
	m.apply(m.controller.Navigate(m.ctx, m.st, tabs[tab].view))
	return m, nil
}

func (m Model) openTaskForm() (tea.Model, tea.Cmd) {
	m.taskForm = NewTaskFormModel(m.st.TaskInput)
	m.form = NewTaskForm(m.taskForm)
	m.formKind = formTask
	return m, m.form.Init()
}

func (m Model) openSettingsForm() (tea.Model, tea.Cmd) {
	m.settingsForm = NewSettingsFormModel(m.st.Settings)
	m.form = NewSettingsForm(m.settingsForm)
	m.formKind = formSettings
	return m, m.form.Init()
}

func (m Model) closeForm() Model {
	m.form = nil
	m.formKind = formNone
	m.taskForm = nil
	m.settingsForm = nil
	return m
}

func (m Model) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && msg.Type == tea.KeyEsc {
		return m.closeForm(), nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		switch m.formKind {
		case formTask:
			m.apply(m.controller.SetTask(m.ctx, m.st, m.taskForm.Task))
		case formSettings:
			m.apply(m.controller.SaveSettings(m.ctx, m.st, m.settingsForm.Settings(m.st.Settings)))
		}
		return m.closeForm(), nil
	case huh.StateAborted:
		return m.closeForm(), nil
	}
	return m, cmd
}
