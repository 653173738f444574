package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	apperrors "github.com/julianstephens/dailyfocus/internal/errors"
	"github.com/julianstephens/dailyfocus/internal/logger"
	"github.com/julianstephens/dailyfocus/internal/popup"
	"github.com/julianstephens/dailyfocus/internal/tui/components/history"
	"github.com/julianstephens/dailyfocus/internal/tui/components/settings"
	"github.com/julianstephens/dailyfocus/internal/tui/components/today"
)

type formKind int

const (
	formNone formKind = iota
	formTask
	formSettings
)

var tabs = []struct {
	title string
	view  popup.View
}{
	{"Today", popup.ViewToday},
	{"History", popup.ViewHistory},
	{"Settings", popup.ViewSettings},
}

type Model struct {
	ctx           context.Context
	controller    *popup.Controller
	st            popup.AppState
	keys          KeyMap
	help          help.Model
	todayModel    today.Model
	historyModel  history.Model
	settingsModel settings.Model
	form          *huh.Form
	formKind      formKind
	taskForm      *TaskFormModel
	settingsForm  *SettingsFormModel
	errMsg        string // store failure shown under the content
	quitting      bool
	width         int
	height        int
}

func NewModel(ctx context.Context, controller *popup.Controller) (Model, error) {
	st, err := controller.Open(ctx)
	if err != nil {
		return Model{}, err
	}

	m := Model{
		ctx:           ctx,
		controller:    controller,
		st:            st,
		keys:          DefaultKeyMap(),
		help:          help.New(),
		todayModel:    today.New(0, 0),
		historyModel:  history.New(0, 0),
		settingsModel: settings.New(st.Settings, 0, 0),
	}
	m.syncComponents()
	return m, nil
}

// State returns the controller state behind the current screen.
func (m Model) State() popup.AppState {
	return m.st
}

// apply takes the result of a controller transition. Validation errors keep
// the returned state, which carries the refusal message.
func (m *Model) apply(st popup.AppState, err error) {
	switch {
	case err == nil:
		m.st = st
		m.errMsg = ""
	case apperrors.IsValidation(err):
		m.st = st
		m.errMsg = ""
	default:
		logger.Error("TUI action failed", "view", m.st.View, "error", err)
		m.errMsg = apperrors.UserMessage(err)
	}
	m.syncComponents()
}

func (m *Model) syncComponents() {
	m.todayModel.SetState(m.st.View, m.st.Record, m.st.Streak)
	m.historyModel.SetEntries(m.st.History, m.st.Streak)
	m.settingsModel.SetSettings(m.st.Settings)
}

func (m *Model) setSize(width, height int) {
	m.width = width
	m.height = height
	// tabs, status line and help
	content := max(0, height-4)
	m.todayModel.SetSize(width, content)
	m.historyModel.SetSize(width, content)
	m.settingsModel.SetSize(width, content)
	m.help.Width = width
}

func (m Model) activeTab() int {
	switch {
	case m.st.View == popup.ViewHistory:
		return 1
	case m.st.View == popup.ViewSettings:
		return 2
	default:
		return 0
	}
}

func (m Model) ShortHelp() []key.Binding {
	keys := []key.Binding{m.keys.Tab, m.keys.Quit, m.keys.Help}
	switch m.st.View {
	case popup.ViewMorning:
		keys = append(keys, m.keys.Enter, m.keys.Skip)
	case popup.ViewEvening:
		keys = append(keys, m.keys.Complete)
	case popup.ViewTodayTask:
		keys = append(keys, m.keys.Edit, m.keys.Complete)
	case popup.ViewSettings:
		keys = append(keys, m.keys.Edit, m.keys.Reset)
	}
	return keys
}

func (m Model) FullHelp() [][]key.Binding {
	global := []key.Binding{m.keys.Tab, m.keys.ShiftTab, m.keys.Quit, m.keys.Help}
	navigation := []key.Binding{m.keys.Up, m.keys.Down}

	var actions []key.Binding
	switch m.st.View {
	case popup.ViewMorning:
		actions = []key.Binding{m.keys.Enter, m.keys.Skip}
	case popup.ViewEvening:
		actions = []key.Binding{m.keys.Complete}
	case popup.ViewTodayTask:
		actions = []key.Binding{m.keys.Edit, m.keys.Complete}
	case popup.ViewSettings:
		actions = []key.Binding{m.keys.Edit, m.keys.Reset}
	}

	return [][]key.Binding{global, navigation, actions}
}

func (m Model) Init() tea.Cmd {
	return nil
}
