package constants

const (
	SettingTimezone           = "timezone"
	SettingAutoBackup         = "auto_backup"
	SettingDefaultPeriodicity = "default_periodicity"

	DefaultTimezone         = "Local" // Use system local timezone by default
	DefaultAutoBackup       = true
	DefaultPeriodicityValue = "daily"
)
