package models

import "github.com/julianstephens/dailyfocus/internal/constants"

// Settings represents the user's reminder schedule. It is stored whole under
// the "settings" key and never partially updated.
type Settings struct {
	MorningHour     int  `json:"morningHour"`     // hour of the morning prompt, 0-23
	MorningMinute   int  `json:"morningMinute"`   // minute of the morning prompt, 0-59
	EveningHour     int  `json:"eveningHour"`     // hour of the evening check-in
	EveningMinute   int  `json:"eveningMinute"`   // minute of the evening check-in
	ReminderMinutes int  `json:"reminderMinutes"` // interval between reminders once a task is set
	EnableMorning   bool `json:"enableMorning"`
	EnableEvening   bool `json:"enableEvening"`
	EnableReminders bool `json:"enableReminders"`
}

// StoredSettings is the settings record as found in storage, where any field
// may be missing.
type StoredSettings struct {
	MorningHour     *int  `json:"morningHour,omitempty"`
	MorningMinute   *int  `json:"morningMinute,omitempty"`
	EveningHour     *int  `json:"eveningHour,omitempty"`
	EveningMinute   *int  `json:"eveningMinute,omitempty"`
	ReminderMinutes *int  `json:"reminderMinutes,omitempty"`
	EnableMorning   *bool `json:"enableMorning,omitempty"`
	EnableEvening   *bool `json:"enableEvening,omitempty"`
	EnableReminders *bool `json:"enableReminders,omitempty"`
}

// DefaultSettings returns the settings used when nothing is stored.
func DefaultSettings() Settings {
	return Settings{
		MorningHour:     constants.DefaultMorningHour,
		MorningMinute:   constants.DefaultMorningMinute,
		EveningHour:     constants.DefaultEveningHour,
		EveningMinute:   constants.DefaultEveningMinute,
		ReminderMinutes: constants.DefaultReminderMinutes,
		EnableMorning:   constants.DefaultEnableMorning,
		EnableEvening:   constants.DefaultEnableEvening,
		EnableReminders: constants.DefaultEnableReminders,
	}
}

// ResolveSettings overlays every present stored field onto the defaults.
// A nil stored record yields the defaults.
func ResolveSettings(stored *StoredSettings) Settings {
	s := DefaultSettings()
	if stored == nil {
		return s
	}
	if stored.MorningHour != nil {
		s.MorningHour = *stored.MorningHour
	}
	if stored.MorningMinute != nil {
		s.MorningMinute = *stored.MorningMinute
	}
	if stored.EveningHour != nil {
		s.EveningHour = *stored.EveningHour
	}
	if stored.EveningMinute != nil {
		s.EveningMinute = *stored.EveningMinute
	}
	if stored.ReminderMinutes != nil {
		s.ReminderMinutes = *stored.ReminderMinutes
	}
	if stored.EnableMorning != nil {
		s.EnableMorning = *stored.EnableMorning
	}
	if stored.EnableEvening != nil {
		s.EnableEvening = *stored.EnableEvening
	}
	if stored.EnableReminders != nil {
		s.EnableReminders = *stored.EnableReminders
	}
	return s
}
