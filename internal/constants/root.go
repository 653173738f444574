package constants

import "time"

const (
	AppName            = "dailyfocus"
	DefaultKeyringUser = "database-connection"
	DefaultConfigDir   = "~/.config/dailyfocus"
	DefaultConfigPath  = "~/.config/dailyfocus/config.yaml"
	DefaultStorePath   = "~/.config/dailyfocus/dailyfocus.db"
	DefaultSocketName  = "dailyfocus.sock"
	InstallMarkerName  = ".installed"
	Version            = "v0.1.0"

	// SettingsKey is the store key holding the user settings record. Every
	// other key is a YYYY-MM-DD day key.
	SettingsKey = "settings"

	// Alarm names
	AlarmMorning  = "daily-focus-morning"
	AlarmReminder = "daily-focus-reminder"
	AlarmEvening  = "daily-focus-evening"

	// Notification ids
	NotifMorning  = "notif-daily-focus-morning"
	NotifReminder = "notif-daily-focus-reminder"
	NotifEvening  = "notif-daily-focus-evening"

	NotificationType    = "basic"
	NotificationIconURL = "icon.png"

	// Popup
	EveningViewHour = 20
	HistoryLimit    = 20
	MaxTaskLength   = 200

	// Notify constants
	NotifierLockfileName   = "dailyfocus-notifier.lock"
	NotificationDurationMs = 8000
	TrayAppIdentifier      = "com.julianstephens.dailyfocus"
	TrayExecutablePrefix   = "dailyfocus-tray"

	// IPC
	IPCServiceName = "Focus"
	IPCTimeout     = 10 * time.Second
)

// MessageType identifies a popup to background control message.
type MessageType string

const (
	MsgScheduleReminders MessageType = "schedule_reminders_after_task_set"
	MsgClearReminders    MessageType = "clear_reminders_for_today"
	MsgRescheduleDaily   MessageType = "reschedule_morning_evening"

	// MsgScheduleRemindersLegacy is accepted for older tray builds.
	MsgScheduleRemindersLegacy MessageType = "schedule_daily_focus_reminder"
)
