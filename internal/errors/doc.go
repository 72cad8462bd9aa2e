// Package errors provides typed errors with exit codes for botlaunch.
//
// # Error Types
//
// LaunchError wraps an error with the exit code the process should end with:
//
//	type LaunchError struct {
//	    Code    int    // Exit code
//	    Message string // User-facing message
//	    Cause   error  // Wrapped error
//	}
//
// # Exit Codes
//
//	ExitSuccess           = 0 // Success
//	ExitGeneralError      = 1 // General/unknown errors
//	ExitActivationMissing = 1 // Virtual environment has no activation script
//	ExitConfigError       = 2 // Configuration error
//	ExitWorkdirError      = 3 // Working directory missing or not enterable
//
// Failures of external tools (git, python, pip) carry the tool's own exit
// status. CommandFailed reads it from the wrapped *exec.ExitError:
//
//	errors.SyncFailed("pull", err)   // exit status of git pull
//	errors.InstallFailed("install", err)
//	errors.LaunchFailed("main.py", err)
//
// # Extracting Exit Codes
//
//	if err != nil {
//	    os.Exit(errors.GetExitCode(err))
//	}
package errors
