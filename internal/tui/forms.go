package tui

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/dailyfocus/internal/constants"
	"github.com/julianstephens/dailyfocus/internal/models"
	"github.com/julianstephens/dailyfocus/internal/utils"
)

type TaskFormModel struct {
	Task string
}

type SettingsFormModel struct {
	MorningTime     string
	EveningTime     string
	ReminderMinutes string
	EnableMorning   bool
	EnableEvening   bool
	EnableReminders bool
}

func NewTaskFormModel(task string) *TaskFormModel {
	return &TaskFormModel{Task: task}
}

// NewTaskForm creates the task entry form. Emptiness is checked by the
// controller so the refusal message is shown in the view.
func NewTaskForm(fm *TaskFormModel) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("What is your focus for today?").
				Description(fmt.Sprintf("Up to %d characters", constants.MaxTaskLength)).
				CharLimit(constants.MaxTaskLength).
				Value(&fm.Task),
		),
	)
}

func NewSettingsFormModel(s models.Settings) *SettingsFormModel {
	return &SettingsFormModel{
		MorningTime:     s.MorningClock(),
		EveningTime:     s.EveningClock(),
		ReminderMinutes: strconv.Itoa(s.ReminderMinutes),
		EnableMorning:   s.EnableMorning,
		EnableEvening:   s.EnableEvening,
		EnableReminders: s.EnableReminders,
	}
}

func validateClock(s string) error {
	if _, _, err := utils.ParseClock(s); err != nil {
		return fmt.Errorf("invalid time format, use HH:MM")
	}
	return nil
}

// NewSettingsForm creates a new form for editing settings
func NewSettingsForm(fm *SettingsFormModel) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("Morning prompt").
				Value(&fm.EnableMorning),
			huh.NewInput().
				Title("Morning time (HH:MM)").
				Value(&fm.MorningTime).
				Validate(validateClock),
			huh.NewConfirm().
				Title("Evening check-in").
				Value(&fm.EnableEvening),
			huh.NewInput().
				Title("Evening time (HH:MM)").
				Value(&fm.EveningTime).
				Validate(validateClock),
			huh.NewConfirm().
				Title("Reminders").
				Value(&fm.EnableReminders),
			huh.NewInput().
				Title("Reminder interval (minutes)").
				Value(&fm.ReminderMinutes).
				Validate(func(s string) error {
					i, err := strconv.Atoi(s)
					if err != nil {
						return err
					}
					if i < 1 {
						return fmt.Errorf("must be at least 1")
					}
					return nil
				}),
		),
	)
}

// Settings converts the submitted form back into settings. Fields that fail
// to parse keep their value from base.
func (fm *SettingsFormModel) Settings(base models.Settings) models.Settings {
	s := base
	s.EnableMorning = fm.EnableMorning
	s.EnableEvening = fm.EnableEvening
	s.EnableReminders = fm.EnableReminders
	_ = s.SetMorningClock(fm.MorningTime)
	_ = s.SetEveningClock(fm.EveningTime)
	if n, err := strconv.Atoi(fm.ReminderMinutes); err == nil {
		s.ReminderMinutes = n
	}
	return s
}
