package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/julianstephens/habitrack/internal/backup"
	"github.com/julianstephens/habitrack/internal/config"
	"github.com/julianstephens/habitrack/internal/logger"
	"github.com/julianstephens/habitrack/internal/storage"
	"github.com/julianstephens/habitrack/internal/tracker"
)

type Context struct {
	Store   storage.Provider
	Tracker *tracker.Tracker
	Target  config.Target

	Out io.Writer
	In  io.Reader
}

// NewContext wires a tracker over store. A nil clock uses the wall clock.
func NewContext(store storage.Provider, target config.Target, clock func() time.Time) *Context {
	return &Context{
		Store:   store,
		Tracker: tracker.New(store, tracker.WithClock(clock)),
		Target:  target,
		Out:     os.Stdout,
		In:      os.Stdin,
	}
}

// Now returns the current time in the configured timezone.
func (c *Context) Now() time.Time {
	return c.Tracker.Now()
}

// Location is the timezone commands interpret dates in.
func (c *Context) Location() *time.Location {
	return c.Now().Location()
}

func (c *Context) out() io.Writer {
	if c.Out == nil {
		return os.Stdout
	}
	return c.Out
}

func (c *Context) Printf(format string, args ...any) {
	fmt.Fprintf(c.out(), format, args...)
}

func (c *Context) Println(args ...any) {
	fmt.Fprintln(c.out(), args...)
}

// Confirm asks a yes/no question on In. Anything but y or yes is a no.
func (c *Context) Confirm(question string) (bool, error) {
	c.Printf("%s [y/N]: ", question)
	in := c.In
	if in == nil {
		in = os.Stdin
	}
	response, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && err != io.EOF {
		return false, err
	}
	response = strings.TrimSpace(strings.ToLower(response))
	return response == "y" || response == "yes", nil
}

// IsSQLite reports whether the store is a local SQLite file.
func (c *Context) IsSQLite() bool {
	return c.Target.Backend == config.BackendSQLite
}

// PerformAutomaticBackup backs up a SQLite store when the auto_backup
// setting is on. Failures are logged and never interrupt the command.
func (c *Context) PerformAutomaticBackup() {
	if !c.IsSQLite() {
		return
	}
	settings, err := c.Store.GetSettings()
	if err != nil {
		logger.Warn("Automatic backup skipped", "error", err)
		return
	}
	if !settings.AutoBackup {
		return
	}

	mgr := backup.NewManager(c.Store.GetConfigPath())
	path, err := mgr.CreateBackup()
	if err != nil {
		logger.Warn("Automatic backup failed", "error", err)
		return
	}
	logger.Debug("Automatic backup created", "path", path)
}
