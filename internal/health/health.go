package health

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/firefly-engineering/botlaunch/internal/audit"
	"github.com/firefly-engineering/botlaunch/internal/config"
	"github.com/firefly-engineering/botlaunch/internal/deps"
	"github.com/firefly-engineering/botlaunch/internal/system"
)

// CheckOptions holds the dependencies used by Check.
type CheckOptions struct {
	Executor system.CommandExecutor
	FS       system.FileSystem
	History  *audit.Logger
}

// Status represents the readiness of a bot checkout
type Status string

const (
	StatusReady       Status = "ready"
	StatusNoWorkDir   Status = "no-workdir"
	StatusNoVenv      Status = "no-venv"
	StatusBrokenVenv  Status = "broken-venv"
	StatusMissingDeps Status = "missing-deps"
)

// CheckResult contains the results of readiness checks
type CheckResult struct {
	WorkDirPresent    bool
	Head              string
	VenvPresent       bool
	ActivationPresent bool
	MarkerInstalled   bool
	LastLaunch        string
}

// GetHead returns the commit checked out in dir, or "" when dir is not a git checkout.
func GetHead(ctx context.Context, exec system.CommandExecutor, dir string) string {
	output, err := exec.Execute(ctx, "git", "-C", dir, "rev-parse", "HEAD")
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(output))
}

// GetLastLaunch returns how long ago the bot was last launched.
func GetLastLaunch(history *audit.Logger) string {
	if history == nil {
		return "never"
	}

	last, err := history.Last(audit.EventLaunch)
	if err != nil {
		return "unknown"
	}
	if last == nil {
		return "never"
	}
	return formatDuration(time.Since(last.Timestamp)) + " ago"
}

func formatDuration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%ds", int(d.Seconds()))
	} else if d < time.Hour {
		return fmt.Sprintf("%dm", int(d.Minutes()))
	} else if d < 24*time.Hour {
		hours := int(d.Hours())
		mins := int(d.Minutes()) % 60
		return fmt.Sprintf("%dh %dm", hours, mins)
	}
	days := int(d.Hours()) / 24
	hours := int(d.Hours()) % 24
	return fmt.Sprintf("%dd %dh", days, hours)
}

// Check inspects the checkout without changing it: no fetch, no venv
// creation, no installs. Later checks are skipped once one fails.
func Check(ctx context.Context, cfg *config.Config, paths *config.Paths, opts CheckOptions) *CheckResult {
	result := &CheckResult{
		LastLaunch: GetLastLaunch(opts.History),
	}

	result.WorkDirPresent = opts.FS.IsDir(paths.WorkDir)
	if !result.WorkDirPresent {
		return result
	}
	result.Head = GetHead(ctx, opts.Executor, paths.WorkDir)

	result.VenvPresent = opts.FS.IsDir(paths.VenvDir)
	if !result.VenvPresent {
		return result
	}

	result.ActivationPresent = opts.FS.Exists(paths.ActivateScript)
	if !result.ActivationPresent {
		return result
	}

	inst := deps.New(opts.Executor, paths.VenvPython, cfg.Deps.Marker, cfg.Deps.Packages)
	result.MarkerInstalled = inst.IsInstalled(ctx, cfg.Deps.Marker)

	return result
}

// Summary reduces the result to the first failing check.
func (r *CheckResult) Summary() Status {
	switch {
	case !r.WorkDirPresent:
		return StatusNoWorkDir
	case !r.VenvPresent:
		return StatusNoVenv
	case !r.ActivationPresent:
		return StatusBrokenVenv
	case !r.MarkerInstalled:
		return StatusMissingDeps
	}
	return StatusReady
}
