package errors

import (
	"errors"
	"fmt"
	"os/exec"
)

// Exit codes for botlaunch
const (
	ExitSuccess           = 0
	ExitGeneralError      = 1
	ExitActivationMissing = 1
	ExitConfigError       = 2
	ExitWorkdirError      = 3
)

// LaunchError is the base error type for botlaunch
type LaunchError struct {
	Code    int
	Message string
	Cause   error
}

func (e *LaunchError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *LaunchError) Unwrap() error {
	return e.Cause
}

// ExitCode returns the exit code for this error
func (e *LaunchError) ExitCode() int {
	return e.Code
}

// New creates a new LaunchError
func New(code int, message string) *LaunchError {
	return &LaunchError{
		Code:    code,
		Message: message,
	}
}

// Wrap wraps an existing error with a LaunchError
func Wrap(code int, message string, cause error) *LaunchError {
	return &LaunchError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// CommandFailed wraps the failure of an external tool. When the cause is an
// *exec.ExitError the tool's own exit status becomes the error's code.
func CommandFailed(message string, cause error) *LaunchError {
	return Wrap(toolExitCode(cause), message, cause)
}

func toolExitCode(err error) int {
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		if code := exitErr.ExitCode(); code > 0 {
			return code
		}
	}
	return ExitGeneralError
}

// Common error constructors

// SyncFailed returns an error for a failed repository sync step
func SyncFailed(op string, cause error) *LaunchError {
	return CommandFailed(fmt.Sprintf("git %s failed", op), cause)
}

// VenvFailed returns an error for a failed virtual environment creation
func VenvFailed(dir string, cause error) *LaunchError {
	return CommandFailed(fmt.Sprintf("failed to create virtual environment %s", dir), cause)
}

// ActivationMissing returns the error for a virtual environment without an activation script
func ActivationMissing(script string) *LaunchError {
	return New(ExitActivationMissing, fmt.Sprintf("activation script not found: %s", script))
}

// InstallFailed returns an error for package installer failures
func InstallFailed(op string, cause error) *LaunchError {
	return CommandFailed(fmt.Sprintf("pip %s failed", op), cause)
}

// LaunchFailed returns an error for a failed or non-zero bot process
func LaunchFailed(entry string, cause error) *LaunchError {
	return CommandFailed(fmt.Sprintf("%s exited with an error", entry), cause)
}

// ConfigError returns an error for configuration issues
func ConfigError(message string, cause error) *LaunchError {
	return Wrap(ExitConfigError, message, cause)
}

// WorkdirError returns an error when the working directory cannot be entered
func WorkdirError(dir string, cause error) *LaunchError {
	return Wrap(ExitWorkdirError, fmt.Sprintf("cannot enter working directory %s", dir), cause)
}

// GetExitCode extracts the exit code from an error
func GetExitCode(err error) int {
	var launchErr *LaunchError
	if errors.As(err, &launchErr) {
		return launchErr.ExitCode()
	}
	return toolExitCode(err)
}

// Is checks if an error is of a specific type
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target
func As(err error, target any) bool {
	return errors.As(err, target)
}
