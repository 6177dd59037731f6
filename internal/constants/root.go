package constants

import "time"

const (
	AppName            = "habitrack"
	DefaultKeyringUser = "database-connection"
	DefaultConfigPath  = "~/.config/habitrack/habitrack.db"
	Version            = "v0.3.0"

	// DateFormat is the standard date format used throughout the application (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// DateTimeFormat is used when printing completion timestamps
	DateTimeFormat = "2006-01-02 15:04"

	// Environment variables
	EnvDB           = "HABITRACK_DB"
	EnvDBConnection = "HABITRACK_DB_CONNECTION"
	EnvTimezone     = "HABITRACK_TIMEZONE"
	EnvDebug        = "HABITRACK_DEBUG"

	// Backup constants
	MaxBackups       = 14
	BackupDirName    = "backups"
	BackupFilePrefix = "habitrack-"
	BackupFileSuffix = ".db"

	// Log rotation
	LogDirName    = "logs"
	LogFileName   = "habitrack.log"
	LogMaxSizeMB  = 10
	LogMaxBackups = 3
	LogMaxAgeDays = 28

	// PostgreSQL pool
	PGMaxOpenConns    = 25
	PGMaxIdleConns    = 25
	PGConnMaxLifetime = 5 * time.Minute
)
