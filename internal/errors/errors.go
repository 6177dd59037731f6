package errors

import (
	"errors"
	"fmt"
	"os"

	"github.com/julianstephens/habitrack/internal/logger"
	"github.com/julianstephens/habitrack/internal/models"
	"github.com/julianstephens/habitrack/internal/period"
)

// Exit codes returned by the CLI.
const (
	ExitOK        = 0
	ExitFailure   = 1
	ExitUsage     = 2
	ExitDuplicate = 3
)

// Format formats an error message with a consistent "Error: " prefix
func Format(err error) string {
	if err == nil {
		return ""
	}
	if hint := Hint(err); hint != "" {
		return fmt.Sprintf("Error: %v\nHint: %s", err, hint)
	}
	return fmt.Sprintf("Error: %v", err)
}

// Formatf formats an error message with a consistent "Error: " prefix using a format string
func Formatf(format string, args ...interface{}) string {
	return fmt.Sprintf("Error: "+format, args...)
}

// Hint returns a short suggestion for errors the user can act on.
func Hint(err error) string {
	switch {
	case errors.Is(err, models.ErrDuplicateCompletion):
		return "each habit can be completed once per period; try again next period"
	case errors.Is(err, models.ErrHabitNotFound):
		return "run 'habitrack list' to see existing habits"
	case errors.Is(err, models.ErrHabitExists):
		return "pick another name or restore the deleted habit with 'habitrack restore'"
	case errors.Is(err, period.ErrInvalidPeriodicity):
		return "valid periodicities are daily and weekly"
	}
	return ""
}

// ExitCode maps an error to the process exit code.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, models.ErrDuplicateCompletion):
		return ExitDuplicate
	case errors.Is(err, period.ErrInvalidPeriodicity):
		return ExitUsage
	default:
		return ExitFailure
	}
}

// Fatal logs an error and exits the program with the code ExitCode picks
func Fatal(err error) {
	if err != nil {
		logger.Error("Command execution failed", "error", err)
		fmt.Fprintf(os.Stderr, "%s\n", Format(err))
		os.Exit(ExitCode(err))
	}
}

// Fatalf logs and formats an error message, then exits the program with exit code 1
func Fatalf(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	logger.Error("Command execution failed", "error", msg)
	fmt.Fprintf(os.Stderr, "%s\n", Formatf(format, args...))
	os.Exit(ExitFailure)
}
