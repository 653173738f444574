package tui

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/jmhodges/clock"

	"github.com/julianstephens/dailyfocus/internal/models"
	"github.com/julianstephens/dailyfocus/internal/popup"
	"github.com/julianstephens/dailyfocus/internal/storage"
	"github.com/julianstephens/dailyfocus/internal/tui/components/settings"
)

func newTestModel(t *testing.T) (Model, *storage.DayStore) {
	t.Helper()
	provider := storage.NewJSONStore(filepath.Join(t.TempDir(), "store.json"))
	if err := provider.Init(); err != nil {
		t.Fatalf("store init: %v", err)
	}
	days := storage.NewDayStore(provider)

	clk := clock.NewFake()
	clk.Set(time.Date(2024, 1, 4, 9, 0, 0, 0, time.UTC))
	controller := popup.New(days, nil, clk, time.UTC)

	m, err := NewModel(context.Background(), controller)
	if err != nil {
		t.Fatalf("NewModel: %v", err)
	}
	next, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	return next.(Model), days
}

func press(t *testing.T, m Model, keys ...tea.KeyMsg) Model {
	t.Helper()
	for _, k := range keys {
		next, _ := m.Update(k)
		m = next.(Model)
	}
	return m
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestSkipFromMorning(t *testing.T) {
	m, days := newTestModel(t)
	if m.State().View != popup.ViewMorning {
		t.Fatalf("initial view = %s", m.State().View)
	}

	m = press(t, m, runes("s"))
	if m.State().View != popup.ViewTodayCompleted {
		t.Fatalf("view after skip = %s", m.State().View)
	}
	rec, err := days.Day(context.Background(), "2024-01-04")
	if err != nil || rec == nil || !rec.Skipped {
		t.Errorf("stored record = %+v, %v", rec, err)
	}
	if !strings.Contains(m.View(), "Day skipped") {
		t.Error("completed view should show the skipped summary")
	}
}

func TestTabCyclesViews(t *testing.T) {
	m, _ := newTestModel(t)

	m = press(t, m, tea.KeyMsg{Type: tea.KeyTab})
	if m.State().View != popup.ViewHistory {
		t.Fatalf("after tab = %s", m.State().View)
	}
	if !strings.Contains(m.View(), "No history yet") {
		t.Error("empty history message missing")
	}

	m = press(t, m, tea.KeyMsg{Type: tea.KeyTab})
	if m.State().View != popup.ViewSettings {
		t.Fatalf("after second tab = %s", m.State().View)
	}

	m = press(t, m, tea.KeyMsg{Type: tea.KeyShiftTab}, tea.KeyMsg{Type: tea.KeyShiftTab})
	if m.State().View != popup.ViewMorning {
		t.Fatalf("back on today = %s", m.State().View)
	}
}

func TestEditOpensPrefilledForm(t *testing.T) {
	m, days := newTestModel(t)
	if err := days.PutDay(context.Background(), models.NewTaskRecord("2024-01-04", "Draft")); err != nil {
		t.Fatal(err)
	}
	m = press(t, m, tea.KeyMsg{Type: tea.KeyTab}, tea.KeyMsg{Type: tea.KeyShiftTab})
	if m.State().View != popup.ViewTodayTask {
		t.Fatalf("view = %s", m.State().View)
	}

	m = press(t, m, runes("e"))
	if m.form == nil || m.formKind != formTask || m.taskForm.Task != "Draft" {
		t.Fatalf("expected prefilled task form, got kind %d", m.formKind)
	}

	m = press(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.form != nil || m.State().View != popup.ViewMorning {
		t.Errorf("esc should close the form and stay on task entry")
	}
	rec, _ := days.Day(context.Background(), "2024-01-04")
	if rec.TaskText() != "Draft" {
		t.Error("cancelled edit must not change the stored task")
	}
}

func TestResetSettingsMessage(t *testing.T) {
	m, days := newTestModel(t)
	s := models.DefaultSettings()
	s.ReminderMinutes = 5
	if err := days.SaveSettings(context.Background(), s); err != nil {
		t.Fatal(err)
	}

	next, _ := m.Update(settings.ResetSettingsMsg{})
	m = next.(Model)
	if m.State().Settings != models.DefaultSettings() || m.State().Message != popup.MsgSettingsReset {
		t.Errorf("state after reset = %+v", m.State())
	}
}

func TestSettingsFormRoundTrip(t *testing.T) {
	base := models.DefaultSettings()
	fm := NewSettingsFormModel(base)
	fm.MorningTime = "07:30"
	fm.ReminderMinutes = "15"
	fm.EnableEvening = false

	got := fm.Settings(base)
	if got.MorningHour != 7 || got.MorningMinute != 30 || got.ReminderMinutes != 15 || got.EnableEvening {
		t.Errorf("converted settings = %+v", got)
	}

	fm.EveningTime = "bad"
	if got := fm.Settings(base); got.EveningHour != base.EveningHour {
		t.Errorf("bad evening time should keep the base value, got %+v", got)
	}
}
