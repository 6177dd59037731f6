// Package config reads habitrack's environment and decides which store a
// command runs against.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ilyakaznacheev/cleanenv"

	"github.com/julianstephens/habitrack/internal/constants"
	"github.com/julianstephens/habitrack/internal/logger"
	"github.com/julianstephens/habitrack/internal/storage/postgres"
)

type Env struct {
	DB           string `env:"HABITRACK_DB" env-description:"SQLite database path or PostgreSQL connection string"`
	DBConnection string `env:"HABITRACK_DB_CONNECTION" env-description:"PostgreSQL connection string, may carry credentials"`
	Timezone     string `env:"HABITRACK_TIMEZONE" env-description:"IANA timezone overriding the stored setting"`
	Debug        bool   `env:"HABITRACK_DEBUG" env-default:"false" env-description:"Enable debug logging"`
}

// Load reads the environment.
func Load() (Env, error) {
	var env Env
	if err := cleanenv.ReadEnv(&env); err != nil {
		return Env{}, fmt.Errorf("read env: %w", err)
	}
	return env, nil
}

// Usage returns a description of every environment variable, for help output.
func Usage() string {
	var env Env
	text, err := cleanenv.GetDescription(&env, nil)
	if err != nil {
		return ""
	}
	return text
}

// DefaultDBPath is the value of --config when nothing overrides it.
func (e Env) DefaultDBPath() string {
	if strings.TrimSpace(e.DB) != "" {
		return e.DB
	}
	return constants.DefaultConfigPath
}

// Backend names a storage implementation.
type Backend string

const (
	BackendSQLite   Backend = "sqlite"
	BackendPostgres Backend = "postgres"
)

// Source records where the resolved target came from.
type Source string

const (
	SourceFlag    Source = "flag"
	SourceEnv     Source = "env"
	SourceKeyring Source = "keyring"
	SourceDefault Source = "default"
)

// Target is the resolved storage location.
type Target struct {
	Backend Backend
	// Location is a file path for SQLite and a connection string for PostgreSQL.
	Location string
	Source   Source
}

// ConfigDir returns the directory holding logs and backups. PostgreSQL
// targets fall back to the default SQLite directory.
func (t Target) ConfigDir() string {
	if t.Backend == BackendSQLite {
		return filepath.Dir(t.Location)
	}
	return filepath.Dir(ExpandHome(constants.DefaultConfigPath))
}

// KeyringLookup returns a stored connection string, if any.
type KeyringLookup func() (connStr string, ok bool, err error)

// Resolve picks the store. A PostgreSQL connection string given through
// --config wins, then HABITRACK_DB_CONNECTION, then the OS keyring, and
// finally the SQLite path from --config.
func Resolve(configFlag string, env Env, lookup KeyringLookup) (Target, error) {
	configFlag = strings.TrimSpace(configFlag)

	if postgres.IsConnString(configFlag) {
		if _, err := postgres.ValidateConnString(configFlag); err != nil {
			if errors.Is(err, postgres.ErrEmbeddedCredentials) {
				return Target{}, fmt.Errorf("%w: store the full string with 'habitrack config set-connection' or export %s instead", err, constants.EnvDBConnection)
			}
			return Target{}, err
		}
		return Target{Backend: BackendPostgres, Location: configFlag, Source: SourceFlag}, nil
	}

	if conn := strings.TrimSpace(env.DBConnection); conn != "" {
		return Target{Backend: BackendPostgres, Location: conn, Source: SourceEnv}, nil
	}

	if lookup != nil {
		conn, ok, err := lookup()
		switch {
		case err != nil:
			logger.Warn("Skipping OS keyring", "error", err)
		case ok:
			return Target{Backend: BackendPostgres, Location: conn, Source: SourceKeyring}, nil
		}
	}

	if configFlag == "" {
		configFlag = env.DefaultDBPath()
	}
	source := SourceFlag
	if configFlag == constants.DefaultConfigPath {
		source = SourceDefault
	}
	return Target{Backend: BackendSQLite, Location: ExpandHome(configFlag), Source: source}, nil
}

// ExpandHome replaces a leading ~ with the user's home directory.
func ExpandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
