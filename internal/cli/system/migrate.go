package system

import (
	"errors"
	"fmt"

	"github.com/julianstephens/habitrack/internal/cli"
)

// migrator is implemented by both SQL stores.
type migrator interface {
	Migrate(logFn func(string)) (int, error)
}

// schemaReporter is implemented by both SQL stores.
type schemaReporter interface {
	SchemaStatus() (current, latest int, err error)
	Ping() error
}

type MigrateCmd struct{}

func (c *MigrateCmd) Run(ctx *cli.Context) error {
	m, ok := ctx.Store.(migrator)
	if !ok {
		return errors.New("migrate is not supported by this store")
	}

	count, err := m.Migrate(func(msg string) {
		ctx.Println(msg)
	})
	if err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	if count == 0 {
		ctx.Println("No migrations to apply. Database is up to date.")
	} else {
		ctx.Printf("\nSuccessfully applied %d migration(s).\n", count)
	}
	return nil
}
