package contract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
)

// Color variables for console output.
var (
	AlertColor   = color.New(color.FgRed, color.Bold) // AlertColor marks wastage above the alert level.
	OKColor      = color.New(color.FgGreen)           // OKColor marks wastage within the alert level.
	HeadingColor = color.New(color.FgCyan, color.Bold)
)

// GetColorWastage returns the wastage text colored by whether it crossed the alert level.
func GetColorWastage(text string, alert bool) string {
	if alert {
		return AlertColor.Sprint(text)
	}
	return OKColor.Sprint(text)
}

// SelectOutputFile returns the appropriate file handle for output, based on the provided
// file path. An empty path selects os.Stdout.
func SelectOutputFile(filePath string) (*os.File, error) {
	if filePath == "" {
		return os.Stdout, nil
	}
	return os.Create(filePath)
}

// LogFatal logs an error and exits the program.
func LogFatal(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Fatal %s: %v\n", msg, err)
	os.Exit(1)
}

// LogWarn logs a warning message to stderr.
func LogWarn(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Warn %s: %v\n", msg, err)
}

// LogInfo logs an informational message to stderr.
func LogInfo(format string, args ...any) {
	_, _ = fmt.Fprintf(os.Stderr, format+"\n", args...)
}

// GetDBFilePath returns the path to the SQLite DB file for record storage.
func GetDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".shiftlog.db"
	}
	return filepath.Join(homeDir, ".shiftlog.db")
}

// ParseBoolString parses a string value into a boolean.
// Accepts "yes", "no", "true", "false", "1", "0" (case-insensitive).
// Returns an error for invalid values.
func ParseBoolString(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "yes", "true", "1":
		return true, nil
	case "no", "false", "0":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean string: %s (expected yes/no/true/false/1/0)", s)
	}
}

// DisplayOrDash returns s, or "-" when s is blank.
func DisplayOrDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}

// DisplayOrZero returns s, or "0" when s is blank.
func DisplayOrZero(s string) string {
	if strings.TrimSpace(s) == "" {
		return "0"
	}
	return s
}
