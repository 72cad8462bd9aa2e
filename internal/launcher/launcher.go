package launcher

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/firefly-engineering/botlaunch/internal/audit"
	"github.com/firefly-engineering/botlaunch/internal/config"
	"github.com/firefly-engineering/botlaunch/internal/deps"
	"github.com/firefly-engineering/botlaunch/internal/errors"
	"github.com/firefly-engineering/botlaunch/internal/logging"
	"github.com/firefly-engineering/botlaunch/internal/repo"
	"github.com/firefly-engineering/botlaunch/internal/system"
	"github.com/firefly-engineering/botlaunch/internal/venv"
)

// Step names one stage of the launch sequence.
type Step string

const (
	StepWorkDir  Step = "workdir"
	StepSync     Step = "sync"
	StepVenv     Step = "venv"
	StepActivate Step = "activate"
	StepInstall  Step = "install"
	StepLaunch   Step = "launch"
)

// Launcher runs the launch sequence for one bot checkout.
type Launcher struct {
	cfg     *config.Config
	paths   *config.Paths
	exec    system.CommandExecutor
	fs      system.FileSystem
	env     system.Environment
	history *audit.Logger

	dryRun      bool
	dryRunOut   io.Writer
	skipSync    bool
	skipInstall bool
	replace     bool

	venvCreated bool
}

// Option is a function that configures the Launcher
type Option func(*Launcher)

// WithExecutor sets the command executor
func WithExecutor(exec system.CommandExecutor) Option {
	return func(l *Launcher) {
		l.exec = exec
	}
}

// WithFS sets the filesystem
func WithFS(fs system.FileSystem) Option {
	return func(l *Launcher) {
		l.fs = fs
	}
}

// WithEnv sets the process environment
func WithEnv(env system.Environment) Option {
	return func(l *Launcher) {
		l.env = env
	}
}

// WithHistory sets the launch history logger
func WithHistory(history *audit.Logger) Option {
	return func(l *Launcher) {
		l.history = history
	}
}

// WithDryRun prints commands to w instead of running them. Read-only
// queries still run so the printed plan follows the real repository state.
func WithDryRun(w io.Writer) Option {
	return func(l *Launcher) {
		l.dryRun = true
		l.dryRunOut = w
	}
}

// WithSkipSync skips the repository sync step
func WithSkipSync(skip bool) Option {
	return func(l *Launcher) {
		l.skipSync = skip
	}
}

// WithSkipInstall skips the dependency installation step
func WithSkipInstall(skip bool) Option {
	return func(l *Launcher) {
		l.skipInstall = skip
	}
}

// WithReplace makes Launch exec the bot in place of the launcher process.
func WithReplace(replace bool) Option {
	return func(l *Launcher) {
		l.replace = l.replace || replace
	}
}

// New creates a Launcher for cfg. Unset dependencies default to the real OS.
func New(cfg *config.Config, opts ...Option) (*Launcher, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.ConfigError("invalid configuration", err)
	}
	paths, err := cfg.Resolve()
	if err != nil {
		return nil, errors.ConfigError("failed to resolve paths", err)
	}

	l := &Launcher{
		cfg:     cfg,
		paths:   paths,
		replace: cfg.Launch.Replace,
	}
	for _, opt := range opts {
		opt(l)
	}

	if l.exec == nil {
		l.exec = system.DefaultExecutor()
	}
	if l.dryRun {
		out := l.dryRunOut
		if out == nil {
			out = os.Stdout
		}
		l.exec = system.NewDryRunExecutor(out, l.exec)
		l.history = nil
	}
	if l.fs == nil {
		l.fs = system.DefaultFS()
	}
	if l.env == nil {
		l.env = system.DefaultEnv()
	}
	if l.history == nil && !l.dryRun {
		l.history = audit.NewLogger(paths.HistoryFile)
	}

	return l, nil
}

// Paths returns the resolved filesystem locations.
func (l *Launcher) Paths() *config.Paths {
	return l.paths
}

// record appends a history event. History is best effort.
func (l *Launcher) record(eventType audit.EventType, details string) {
	if l.history == nil {
		return
	}
	if err := l.history.LogEvent(eventType, details); err != nil {
		logging.Warn("failed to write launch history", "path", l.history.Path(), "error", err)
	}
}

// fail records a step failure and returns err unchanged.
func (l *Launcher) fail(step Step, err error) error {
	logging.With("step", string(step)).Debug("step failed", "error", err)
	l.record(audit.EventError, fmt.Sprintf("%s: %v", step, err))
	return err
}

// EnterWorkDir changes the process working directory to the configured path.
func (l *Launcher) EnterWorkDir() error {
	if err := l.fs.Chdir(l.paths.WorkDir); err != nil {
		return l.fail(StepWorkDir, errors.WorkdirError(l.paths.WorkDir, err))
	}
	logging.Debug("entered working directory", "dir", l.paths.WorkDir)
	return nil
}

// SyncRepo fetches and, when the remote moved, pulls the working copy.
func (l *Launcher) SyncRepo(ctx context.Context) error {
	if l.skipSync {
		logging.Debug("skipping repository sync")
		return nil
	}
	return l.syncRepo(ctx)
}

func (l *Launcher) syncRepo(ctx context.Context) error {
	g := repo.New(l.exec, l.cfg.Repo.Remote, l.cfg.Repo.Branch)
	result, err := g.Sync(ctx)
	if err != nil {
		return l.fail(StepSync, err)
	}

	if result.Updated {
		l.record(audit.EventSync, fmt.Sprintf("pulled %s -> %s", result.Local, result.Remote))
	} else {
		l.record(audit.EventSync, "up to date at "+result.Local)
	}
	return nil
}

func (l *Launcher) venvManager() *venv.Manager {
	return venv.New(l.exec, l.fs, l.env, l.cfg.Venv.Python, l.paths)
}

// EnsureVenv creates the virtual environment when its directory is missing.
func (l *Launcher) EnsureVenv(ctx context.Context) error {
	created, err := l.venvManager().Ensure(ctx)
	if err != nil {
		return l.fail(StepVenv, err)
	}
	l.venvCreated = created
	if created {
		l.record(audit.EventVenv, "created "+l.paths.VenvDir)
	}
	return nil
}

// Activate enables the virtual environment for this process and its children.
func (l *Launcher) Activate() error {
	if l.dryRun && l.venvCreated {
		logging.UserInfo("Would activate %s", l.paths.ActivateScript)
		return nil
	}
	if err := l.venvManager().Activate(); err != nil {
		return l.fail(StepActivate, err)
	}
	l.record(audit.EventActivate, l.paths.VenvDir)
	return nil
}

// InstallDeps upgrades pip and installs the dependency list when the marker is missing.
func (l *Launcher) InstallDeps(ctx context.Context) error {
	if l.skipInstall {
		logging.Debug("skipping dependency installation")
		return nil
	}

	inst := deps.New(l.exec, l.paths.VenvPython, l.cfg.Deps.Marker, l.cfg.Deps.Packages)
	result, err := inst.Ensure(ctx)
	if err != nil {
		return l.fail(StepInstall, err)
	}

	if result.Installed {
		l.record(audit.EventInstall, strings.Join(l.cfg.Deps.Packages, " "))
	} else {
		l.record(audit.EventInstall, "marker "+l.cfg.Deps.Marker+" present")
	}
	return nil
}

// Launch starts the bot's entry point with the terminal attached and
// returns once it exits. With replace set the launcher process becomes the bot.
func (l *Launcher) Launch(ctx context.Context) error {
	entry, err := l.cfg.EntryArgs()
	if err != nil {
		return errors.ConfigError("invalid entry point", err)
	}

	for _, name := range MissingEnv(l.env, l.paths.DotEnv, l.cfg.Launch.RequiredEnv) {
		logging.UserWarning("%s is not set in the environment or %s", name, l.paths.DotEnv)
	}

	line := system.FormatCommand(l.paths.VenvPython, entry...)
	l.record(audit.EventLaunch, line)
	logging.UserSuccess("Starting %s", entry[0])

	if l.replace {
		if err := l.exec.ReplaceProcess(l.paths.VenvPython, entry...); err != nil {
			return l.fail(StepLaunch, errors.LaunchFailed(entry[0], err))
		}
		return nil
	}

	if err := l.exec.ExecuteInteractive(ctx, l.paths.VenvPython, entry...); err != nil {
		return l.fail(StepLaunch, errors.LaunchFailed(entry[0], err))
	}
	return nil
}

// Bootstrap prepares the checkout without launching: workdir, sync,
// venv, activation and dependencies.
func (l *Launcher) Bootstrap(ctx context.Context) error {
	if err := l.EnterWorkDir(); err != nil {
		return err
	}
	if err := l.SyncRepo(ctx); err != nil {
		return err
	}
	if err := l.EnsureVenv(ctx); err != nil {
		return err
	}
	if err := l.Activate(); err != nil {
		return err
	}
	return l.InstallDeps(ctx)
}

// Run executes the whole sequence and then launches the bot.
func (l *Launcher) Run(ctx context.Context) error {
	if err := l.Bootstrap(ctx); err != nil {
		return err
	}
	return l.Launch(ctx)
}

// Sync enters the working directory and synchronizes the repository only.
func (l *Launcher) Sync(ctx context.Context) error {
	if err := l.EnterWorkDir(); err != nil {
		return err
	}
	return l.syncRepo(ctx)
}
