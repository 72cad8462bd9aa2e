// Package health reports whether a bot checkout is ready to launch.
//
// Checks are read-only: they look at the working directory, the virtual
// environment and the marker package, but never fetch, create or install.
//
// # Status
//
//	StatusReady       - activation script present and marker installed
//	StatusNoWorkDir   - working directory missing
//	StatusNoVenv      - virtual environment not created yet
//	StatusBrokenVenv  - venv directory without an activation script
//	StatusMissingDeps - marker package not installed
//
// # Usage
//
//	result := health.Check(ctx, cfg, paths, health.CheckOptions{
//		Executor: exec,
//		FS:       fs,
//		History:  audit.NewLogger(paths.HistoryFile),
//	})
//	status := result.Summary()
package health
