package system

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/julianstephens/habitrack/internal/cli"
	"github.com/julianstephens/habitrack/internal/constants"
	"github.com/julianstephens/habitrack/internal/keyring"
	"github.com/julianstephens/habitrack/internal/storage/postgres"
)

type ConfigCmd struct {
	SetConnection    SetConnectionCmd    `cmd:"" help:"Store a PostgreSQL connection string in the OS keyring."`
	GetConnection    GetConnectionCmd    `cmd:"" help:"Show the stored connection string with its password masked."`
	DeleteConnection DeleteConnectionCmd `cmd:"" help:"Remove the stored connection string."`
	Status           KeyringStatusCmd    `cmd:"" help:"Check whether the OS keyring is available."`
}

// SetConnectionCmd stores a connection string in the OS keyring. The keyring
// is the one place a password inside the string is accepted.
type SetConnectionCmd struct {
	ConnectionString string `arg:"" help:"PostgreSQL connection string to store in keyring"`
}

func (cmd *SetConnectionCmd) Run(ctx *cli.Context) error {
	if !postgres.IsConnString(cmd.ConnectionString) {
		return errors.New("connection string must be a valid PostgreSQL connection string")
	}

	if _, err := postgres.ValidateConnString(cmd.ConnectionString); err != nil {
		if !errors.Is(err, postgres.ErrEmbeddedCredentials) {
			return fmt.Errorf("invalid connection string: %w", err)
		}
		ctx.Printf("%s Connection string contains embedded credentials.\n", cli.WarnStyle.Render("⚠"))
		ctx.Println("   It will be stored as-is in the encrypted OS keyring.")
	}

	if err := keyring.SetConnectionString(cmd.ConnectionString); err != nil {
		return fmt.Errorf("failed to store connection string in keyring: %w", err)
	}

	ctx.Printf("%s Connection string stored in OS keyring\n", cli.SuccessStyle.Render("✓"))
	ctx.Println("  habitrack will use it unless --config names a PostgreSQL database or " + constants.EnvDBConnection + " is set")
	return nil
}

type GetConnectionCmd struct{}

func (cmd *GetConnectionCmd) Run(ctx *cli.Context) error {
	connStr, err := keyring.GetConnectionString()
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return errors.New("no connection string found in keyring. Use 'habitrack config set-connection' to store one")
		}
		return fmt.Errorf("failed to retrieve connection string from keyring: %w", err)
	}

	ctx.Println("Connection string retrieved from keyring:")
	ctx.Println(maskPassword(connStr))
	return nil
}

type DeleteConnectionCmd struct{}

func (cmd *DeleteConnectionCmd) Run(ctx *cli.Context) error {
	if err := keyring.DeleteConnectionString(); err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return errors.New("no connection string found in keyring")
		}
		return fmt.Errorf("failed to delete connection string from keyring: %w", err)
	}

	ctx.Printf("%s Connection string deleted from OS keyring\n", cli.SuccessStyle.Render("✓"))
	return nil
}

type KeyringStatusCmd struct{}

func (cmd *KeyringStatusCmd) Run(ctx *cli.Context) error {
	if !keyring.IsAvailable() {
		ctx.Printf("%s OS keyring is not available on this system\n", cli.ErrorStyle.Render("❌"))
		return keyring.ErrKeyringUnavailable
	}

	ctx.Printf("%s OS keyring is available\n", cli.SuccessStyle.Render("✓"))
	if _, err := keyring.GetConnectionString(); err == nil {
		ctx.Printf("%s Connection string is stored in keyring\n", cli.SuccessStyle.Render("✓"))
	} else if errors.Is(err, keyring.ErrNotFound) {
		ctx.Println("ℹ No connection string stored in keyring")
	}
	return nil
}

// maskPassword hides the password of a URL or key=value connection string.
func maskPassword(connStr string) string {
	if u, err := url.Parse(connStr); err == nil && u.Scheme != "" && u.User != nil {
		if _, ok := u.User.Password(); ok {
			u.User = url.UserPassword(u.User.Username(), "xxxxx")
			return strings.Replace(u.String(), "xxxxx", "****", 1)
		}
		return connStr
	}

	if strings.Contains(connStr, "password=") {
		parts := strings.Fields(connStr)
		for i, part := range parts {
			if strings.HasPrefix(part, "password=") {
				parts[i] = "password=****"
			}
		}
		return strings.Join(parts, " ")
	}
	return connStr
}
