package errors

import (
	"errors"
	"fmt"
	"os/exec"
	"testing"
)

// exitError runs a shell that exits with code and returns the resulting *exec.ExitError.
func exitError(t *testing.T, code int) error {
	t.Helper()
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not found in PATH, skipping test")
	}
	err := exec.Command("sh", "-c", fmt.Sprintf("exit %d", code)).Run()
	if err == nil {
		t.Fatalf("expected sh to exit with %d", code)
	}
	return err
}

func TestLaunchError_Error(t *testing.T) {
	tests := []struct {
		name    string
		err     *LaunchError
		wantMsg string
	}{
		{
			name:    "without cause",
			err:     New(ExitGeneralError, "something went wrong"),
			wantMsg: "something went wrong",
		},
		{
			name:    "with cause",
			err:     Wrap(ExitGeneralError, "operation failed", fmt.Errorf("underlying error")),
			wantMsg: "operation failed: underlying error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.wantMsg {
				t.Errorf("Error() = %q, want %q", got, tt.wantMsg)
			}
		})
	}
}

func TestLaunchError_Unwrap(t *testing.T) {
	cause := fmt.Errorf("root cause")
	err := Wrap(ExitGeneralError, "wrapped", cause)

	if unwrapped := err.Unwrap(); unwrapped != cause {
		t.Errorf("Unwrap() = %v, want %v", unwrapped, cause)
	}

	errNoCause := New(ExitGeneralError, "no cause")
	if unwrapped := errNoCause.Unwrap(); unwrapped != nil {
		t.Errorf("Unwrap() = %v, want nil", unwrapped)
	}
}

func TestActivationMissing(t *testing.T) {
	err := ActivationMissing("venv/bin/activate")

	if err.Code != 1 {
		t.Errorf("Code = %d, want 1", err.Code)
	}
	if err.Message != "activation script not found: venv/bin/activate" {
		t.Errorf("Message = %q", err.Message)
	}
}

func TestCommandFailed_PlainError(t *testing.T) {
	cause := fmt.Errorf("executable file not found")
	err := SyncFailed("fetch", cause)

	if err.Code != ExitGeneralError {
		t.Errorf("Code = %d, want %d", err.Code, ExitGeneralError)
	}
	if err.Message != "git fetch failed" {
		t.Errorf("Message = %q, want %q", err.Message, "git fetch failed")
	}
	if err.Cause != cause {
		t.Errorf("Cause = %v, want %v", err.Cause, cause)
	}
}

func TestCommandFailed_PropagatesToolExitCode(t *testing.T) {
	cause := exitError(t, 42)

	tests := []struct {
		name string
		err  *LaunchError
	}{
		{"sync", SyncFailed("pull", cause)},
		{"venv", VenvFailed("venv", cause)},
		{"install", InstallFailed("install", cause)},
		{"launch", LaunchFailed("main.py", cause)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Code != 42 {
				t.Errorf("Code = %d, want 42", tt.err.Code)
			}
		})
	}
}

func TestConfigAndWorkdirErrors(t *testing.T) {
	cause := fmt.Errorf("boom")

	if err := ConfigError("bad config", cause); err.Code != ExitConfigError {
		t.Errorf("ConfigError Code = %d, want %d", err.Code, ExitConfigError)
	}

	err := WorkdirError("/opt/discord-bot", cause)
	if err.Code != ExitWorkdirError {
		t.Errorf("WorkdirError Code = %d, want %d", err.Code, ExitWorkdirError)
	}
	if err.Message != "cannot enter working directory /opt/discord-bot" {
		t.Errorf("Message = %q", err.Message)
	}
}

func TestGetExitCode(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
	}{
		{
			name:     "LaunchError",
			err:      ConfigError("bad", nil),
			wantCode: ExitConfigError,
		},
		{
			name:     "wrapped LaunchError",
			err:      fmt.Errorf("outer: %w", ActivationMissing("x")),
			wantCode: ExitActivationMissing,
		},
		{
			name:     "regular error",
			err:      fmt.Errorf("some error"),
			wantCode: ExitGeneralError,
		},
		{
			name:     "nil error",
			err:      nil,
			wantCode: ExitGeneralError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetExitCode(tt.err); got != tt.wantCode {
				t.Errorf("GetExitCode() = %d, want %d", got, tt.wantCode)
			}
		})
	}
}

func TestGetExitCode_BareExitError(t *testing.T) {
	if got := GetExitCode(exitError(t, 7)); got != 7 {
		t.Errorf("GetExitCode() = %d, want 7", got)
	}
}

func TestErrorChaining(t *testing.T) {
	root := fmt.Errorf("root cause")
	middle := Wrap(ExitConfigError, "config error", root)
	outer := fmt.Errorf("operation failed: %w", middle)

	if !errors.Is(outer, root) {
		t.Error("errors.Is should find root cause")
	}

	var launchErr *LaunchError
	if !As(outer, &launchErr) {
		t.Fatal("As should find LaunchError")
	}
	if launchErr.Code != ExitConfigError {
		t.Errorf("Code = %d, want %d", launchErr.Code, ExitConfigError)
	}
	if !Is(outer, root) {
		t.Error("Is should find root cause")
	}
}
