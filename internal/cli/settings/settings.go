package settings

import (
	"fmt"
	"sort"

	"github.com/julianstephens/dailyfocus/internal/cli"
	apperrors "github.com/julianstephens/dailyfocus/internal/errors"
	"github.com/julianstephens/dailyfocus/internal/models"
)

type SettingsCmd struct {
	List  bool `help:"List current settings."`
	Raw   bool `help:"With --list, print stored field names and values."`
	Reset bool `help:"Restore the default settings."`

	Morning         *string `help:"Morning prompt time (HH:MM)."`
	Evening         *string `help:"Evening check-in time (HH:MM)."`
	ReminderMinutes *int    `help:"Minutes between reminders once a task is set (at least 1)."`
	EnableMorning   *bool   `help:"Enable or disable the morning prompt."`
	EnableEvening   *bool   `help:"Enable or disable the evening check-in."`
	EnableReminders *bool   `help:"Enable or disable reminders."`
}

func (c *SettingsCmd) Run(ctx *cli.Context) error {
	ctrl := ctx.Controller()
	st, err := ctrl.Open(ctx.Context())
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}
	settings := st.Settings

	if c.List && c.Raw {
		fields := models.SettingsToMap(settings)
		keys := make([]string, 0, len(fields))
		for k := range fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Printf("%s=%s\n", k, fields[k])
		}
		return nil
	}

	if c.List {
		fmt.Println("Current Settings:")
		fmt.Printf("  Morning Prompt:   %s (enabled: %v)\n", settings.MorningClock(), settings.EnableMorning)
		fmt.Printf("  Evening Check-in: %s (enabled: %v)\n", settings.EveningClock(), settings.EnableEvening)
		fmt.Printf("  Reminders:        every %d min (enabled: %v)\n", settings.ReminderMinutes, settings.EnableReminders)
		return nil
	}

	if c.Reset {
		if _, err := ctrl.ResetSettings(ctx.Context(), st); err != nil {
			return fmt.Errorf("failed to reset settings: %w", err)
		}
		fmt.Println("Settings reset to defaults.")
		return nil
	}

	updated := false
	if c.Morning != nil {
		if err := settings.SetMorningClock(*c.Morning); err != nil {
			return apperrors.Validation(err.Error())
		}
		updated = true
	}
	if c.Evening != nil {
		if err := settings.SetEveningClock(*c.Evening); err != nil {
			return apperrors.Validation(err.Error())
		}
		updated = true
	}
	if c.ReminderMinutes != nil {
		settings.ReminderMinutes = *c.ReminderMinutes
		updated = true
	}
	if c.EnableMorning != nil {
		settings.EnableMorning = *c.EnableMorning
		updated = true
	}
	if c.EnableEvening != nil {
		settings.EnableEvening = *c.EnableEvening
		updated = true
	}
	if c.EnableReminders != nil {
		settings.EnableReminders = *c.EnableReminders
		updated = true
	}

	if updated {
		if _, err := ctrl.SaveSettings(ctx.Context(), st, settings); err != nil {
			return fmt.Errorf("failed to save settings: %w", err)
		}
		fmt.Println("Settings updated successfully.")
	} else {
		fmt.Println("No changes specified. Use --list to view settings or flags to update them.")
	}

	return nil
}
