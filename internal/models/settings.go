package models

import (
	"strconv"

	"github.com/julianstephens/habitrack/internal/constants"
)

// Settings represents application-wide settings
type Settings struct {
	Timezone           string `json:"timezone"`            // IANA timezone name, or "Local" for the system timezone
	AutoBackup         bool   `json:"auto_backup"`         // back up the SQLite database before destructive commands
	DefaultPeriodicity string `json:"default_periodicity"` // preselected periodicity when adding a habit
}

// DefaultSettings returns the settings written by init.
func DefaultSettings() Settings {
	return Settings{
		Timezone:           constants.DefaultTimezone,
		AutoBackup:         constants.DefaultAutoBackup,
		DefaultPeriodicity: constants.DefaultPeriodicityValue,
	}
}

// MapToSettings converts a map of key-value pairs to a Settings struct.
// Missing keys keep their default value.
func MapToSettings(data map[string]string) (Settings, error) {
	settings := DefaultSettings()

	for key, value := range data {
		switch key {
		case constants.SettingTimezone:
			settings.Timezone = value
		case constants.SettingAutoBackup:
			b, err := strconv.ParseBool(value)
			if err != nil {
				return Settings{}, err
			}
			settings.AutoBackup = b
		case constants.SettingDefaultPeriodicity:
			settings.DefaultPeriodicity = value
		}
	}
	return settings, nil
}

// SettingsToMap converts a Settings struct to a map of key-value pairs.
func SettingsToMap(settings Settings) map[string]string {
	return map[string]string{
		constants.SettingTimezone:           settings.Timezone,
		constants.SettingAutoBackup:         strconv.FormatBool(settings.AutoBackup),
		constants.SettingDefaultPeriodicity: settings.DefaultPeriodicity,
	}
}
