package models

import (
	"fmt"

	"github.com/julianstephens/dailyfocus/internal/constants"
	"github.com/julianstephens/dailyfocus/internal/utils"
)

// Normalize clamps out-of-range fields the way the settings form does on
// save: bad hours and minutes fall back to the defaults and the reminder
// interval is at least one minute.
func (s Settings) Normalize() Settings {
	d := DefaultSettings()
	if s.MorningHour < 0 || s.MorningHour > 23 {
		s.MorningHour = d.MorningHour
	}
	if s.MorningMinute < 0 || s.MorningMinute > 59 {
		s.MorningMinute = d.MorningMinute
	}
	if s.EveningHour < 0 || s.EveningHour > 23 {
		s.EveningHour = d.EveningHour
	}
	if s.EveningMinute < 0 || s.EveningMinute > 59 {
		s.EveningMinute = d.EveningMinute
	}
	if s.ReminderMinutes < 1 {
		s.ReminderMinutes = 1
	}
	return s
}

// MorningClock returns the morning prompt time as HH:MM.
func (s Settings) MorningClock() string {
	return utils.FormatClock(s.MorningHour, s.MorningMinute)
}

// EveningClock returns the evening check-in time as HH:MM.
func (s Settings) EveningClock() string {
	return utils.FormatClock(s.EveningHour, s.EveningMinute)
}

// SetMorningClock parses an HH:MM value into the morning fields.
func (s *Settings) SetMorningClock(value string) error {
	h, m, err := utils.ParseClock(value)
	if err != nil {
		return fmt.Errorf("morning time: %w", err)
	}
	s.MorningHour, s.MorningMinute = h, m
	return nil
}

// SetEveningClock parses an HH:MM value into the evening fields.
func (s *Settings) SetEveningClock(value string) error {
	h, m, err := utils.ParseClock(value)
	if err != nil {
		return fmt.Errorf("evening time: %w", err)
	}
	s.EveningHour, s.EveningMinute = h, m
	return nil
}

// SettingsToMap converts a Settings struct to display-ready key/value pairs.
func SettingsToMap(settings Settings) map[string]string {
	return map[string]string{
		constants.SettingMorningHour:     fmt.Sprintf("%d", settings.MorningHour),
		constants.SettingMorningMinute:   fmt.Sprintf("%d", settings.MorningMinute),
		constants.SettingEveningHour:     fmt.Sprintf("%d", settings.EveningHour),
		constants.SettingEveningMinute:   fmt.Sprintf("%d", settings.EveningMinute),
		constants.SettingReminderMinutes: fmt.Sprintf("%d", settings.ReminderMinutes),
		constants.SettingEnableMorning:   fmt.Sprintf("%v", settings.EnableMorning),
		constants.SettingEnableEvening:   fmt.Sprintf("%v", settings.EnableEvening),
		constants.SettingEnableReminders: fmt.Sprintf("%v", settings.EnableReminders),
	}
}
