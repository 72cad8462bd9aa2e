package logging

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
)

// User-facing output functions with status indicators.
// These write to stdout/stderr directly for CLI output,
// separate from the structured debug logging.

var (
	// Stdout and Stderr receive user-facing output. Tests may swap them.
	Stdout io.Writer = os.Stdout
	Stderr io.Writer = os.Stderr

	infoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
)

func userLine(w io.Writer, indicator string, format string, args ...interface{}) {
	fmt.Fprintf(w, indicator+" "+format+"\n", args...)
}

// UserInfo prints an info message to stdout.
func UserInfo(format string, args ...interface{}) {
	userLine(Stdout, infoStyle.Render("ℹ"), format, args...)
}

// UserSuccess prints a success message to stdout.
func UserSuccess(format string, args ...interface{}) {
	userLine(Stdout, successStyle.Render("✓"), format, args...)
}

// UserWarning prints a warning message to stderr.
func UserWarning(format string, args ...interface{}) {
	userLine(Stderr, warningStyle.Render("⚠"), format, args...)
}

// UserError prints an error message to stderr.
func UserError(format string, args ...interface{}) {
	userLine(Stderr, errorStyle.Render("✗"), format, args...)
}
