package constants

const (
	// Settings record field names (JSON keys under the "settings" store key)
	SettingMorningHour     = "morningHour"
	SettingMorningMinute   = "morningMinute"
	SettingEveningHour     = "eveningHour"
	SettingEveningMinute   = "eveningMinute"
	SettingReminderMinutes = "reminderMinutes"
	SettingEnableMorning   = "enableMorning"
	SettingEnableEvening   = "enableEvening"
	SettingEnableReminders = "enableReminders"

	// Default Settings Values
	DefaultMorningHour     = 10
	DefaultMorningMinute   = 0
	DefaultEveningHour     = 18
	DefaultEveningMinute   = 0
	DefaultReminderMinutes = 60
	DefaultEnableMorning   = true
	DefaultEnableEvening   = true
	DefaultEnableReminders = true

	// Process config keys
	ConfigStore       = "store"
	ConfigSocket      = "socket"
	ConfigTimezone    = "timezone"
	ConfigDebug       = "debug"
	ConfigNotifier    = "notifier"
	ConfigOpenCommand = "open_command"

	NotifierTray = "tray"
	NotifierLog  = "log"

	// Store selectors besides a plain sqlite path
	StoreKeyring    = "keyring"
	StoreJSONPrefix = "json:"

	DefaultTimezone = "Local" // Use system local timezone by default
	EnvPrefix       = "DAILYFOCUS"
)
