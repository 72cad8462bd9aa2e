// Package logging provides logging utilities for botlaunch.
//
// This package provides two categories of output:
//   - Debug logging: Structured logs for debugging (via slog)
//   - User output: Formatted messages for the operator
//
// # Debug Logging
//
// Debug logs are written using slog and controlled by verbosity settings:
//
//	logging.Debug("running step", "step", "sync", "workdir", dir)
//	logging.Warn("failed to write launch history", "error", err)
//
// # User Output
//
// User-facing messages are formatted with colored status indicators:
//
//	logging.UserInfo("Fetching origin...")
//	logging.UserSuccess("Dependencies installed")
//	logging.UserWarning("DISCORD_TOKEN is not set")
//	logging.UserError("Activation script not found: %s", path)
//
// Output destinations:
//   - UserInfo, UserSuccess: Stdout (os.Stdout by default)
//   - UserWarning, UserError: Stderr (os.Stderr by default)
//
// # Status Indicators
//
// User functions prepend status indicators:
//   - ℹ (info)
//   - ✓ (success)
//   - ⚠ (warning)
//   - ✗ (error)
package logging
