package testutil

import (
	"bytes"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/firefly-engineering/botlaunch/internal/app"
	"github.com/firefly-engineering/botlaunch/internal/audit"
	"github.com/firefly-engineering/botlaunch/internal/config"
	"github.com/firefly-engineering/botlaunch/internal/launcher"
	"github.com/firefly-engineering/botlaunch/internal/logging"
	"github.com/firefly-engineering/botlaunch/internal/system"
)

// TestWorkDir is the bot checkout used by the mocked filesystem.
const TestWorkDir = "/srv/bot"

var errNotFound = errors.New("exit status 1")

// TestEnv holds the test environment
type TestEnv struct {
	T        *testing.T
	TmpDir   string
	Config   *config.Config
	Paths    *config.Paths
	FS       *system.MockFS
	Executor *system.MockExecutor
	Env      *system.MockEnv
	History  *audit.Logger
	App      *app.App

	// Stdout and Stderr capture user-facing output.
	Stdout *bytes.Buffer
	Stderr *bytes.Buffer
}

// NewTestEnv creates a test environment where the working directory exists,
// the heads are equal, no venv exists yet and the marker package is installed.
func NewTestEnv(t *testing.T) *TestEnv {
	t.Helper()

	tmpDir := t.TempDir()

	cfg := config.Default()
	cfg.WorkDir = TestWorkDir
	paths, err := cfg.Resolve()
	if err != nil {
		t.Fatalf("Failed to resolve paths: %v", err)
	}

	mockFS := system.NewMockFS()
	mockFS.AddDir(TestWorkDir)
	mockFS.AddFile(filepath.Join(TestWorkDir, config.DefaultEntry))

	mockEnv := system.NewMockEnv(map[string]string{
		"PATH":          "/usr/local/bin:/usr/bin:/bin",
		"DISCORD_TOKEN": "test-token",
	})

	env := &TestEnv{
		T:        t,
		TmpDir:   tmpDir,
		Config:   cfg,
		Paths:    paths,
		FS:       mockFS,
		Executor: system.NewMockExecutor(),
		Env:      mockEnv,
		History:  audit.NewLogger(filepath.Join(tmpDir, config.HistoryFileName)),
		Stdout:   &bytes.Buffer{},
		Stderr:   &bytes.Buffer{},
	}
	env.App = app.New(
		app.WithExecutor(env.Executor),
		app.WithFS(env.FS),
		app.WithEnv(env.Env),
	)
	env.SetHeads("abc1234", "abc1234")

	oldStdout, oldStderr := logging.Stdout, logging.Stderr
	logging.Stdout, logging.Stderr = env.Stdout, env.Stderr
	t.Cleanup(func() {
		logging.Stdout, logging.Stderr = oldStdout, oldStderr
	})

	return env
}

// SetHeads sets the commits git rev-parse reports for HEAD and the remote ref.
func (e *TestEnv) SetHeads(local, remote string) {
	remoteRef := e.Config.Repo.Remote + "/" + e.Config.Repo.Branch
	e.Executor.AddResponse("git rev-parse HEAD", []byte(local+"\n"), nil)
	e.Executor.AddResponse("git rev-parse "+remoteRef, []byte(remote+"\n"), nil)
}

// AddVenv creates an existing virtual environment with its activation script.
func (e *TestEnv) AddVenv() {
	e.FS.AddDir(e.Paths.VenvDir)
	e.FS.AddFile(e.Paths.ActivateScript)
	e.FS.AddFile(e.Paths.VenvPython)
}

// SimulateVenvCreation makes "python -m venv" produce a complete environment.
func (e *TestEnv) SimulateVenvCreation() {
	e.Executor.AddEffect(e.VenvCommand(), e.AddVenv)
}

// VenvCommand returns the command line that creates the environment.
func (e *TestEnv) VenvCommand() string {
	return strings.Join([]string{e.Config.Venv.Python, "-m", "venv", e.Paths.VenvDir}, " ")
}

// PipCommand returns "<venv python> -m pip" followed by args.
func (e *TestEnv) PipCommand(args ...string) string {
	return strings.Join(append([]string{e.Paths.VenvPython, "-m", "pip"}, args...), " ")
}

// LaunchCommand returns the command line that starts the bot.
func (e *TestEnv) LaunchCommand() string {
	return e.Paths.VenvPython + " " + e.Config.Launch.Entry
}

// SetMarkerInstalled controls whether pip show reports the marker package.
func (e *TestEnv) SetMarkerInstalled(installed bool) {
	line := e.PipCommand("show", e.Config.Deps.Marker)
	if installed {
		e.Executor.AddResponse(line, []byte("Name: "+e.Config.Deps.Marker+"\n"), nil)
		return
	}
	e.Executor.AddResponse(line, []byte("WARNING: Package(s) not found: "+e.Config.Deps.Marker+"\n"), errNotFound)
}

// Launcher builds a launcher over the mocks and the temp history file.
func (e *TestEnv) Launcher(opts ...launcher.Option) *launcher.Launcher {
	e.T.Helper()

	all := append(e.App.LauncherOptions(), launcher.WithHistory(e.History))
	l, err := launcher.New(e.Config, append(all, opts...)...)
	if err != nil {
		e.T.Fatalf("launcher.New() error: %v", err)
	}
	return l
}

// Events returns the recorded launch history.
func (e *TestEnv) Events() []audit.Event {
	e.T.Helper()

	events, err := e.History.Events()
	if err != nil {
		e.T.Fatalf("Failed to read history: %v", err)
	}
	return events
}

// EventTypes returns the type of each recorded history event.
func (e *TestEnv) EventTypes() []audit.EventType {
	var types []audit.EventType
	for _, ev := range e.Events() {
		types = append(types, ev.Type)
	}
	return types
}
