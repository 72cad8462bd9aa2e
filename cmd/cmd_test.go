package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/firefly-engineering/botlaunch/internal/app"
	"github.com/firefly-engineering/botlaunch/internal/audit"
	"github.com/firefly-engineering/botlaunch/internal/config"
	"github.com/firefly-engineering/botlaunch/internal/errors"
	"github.com/firefly-engineering/botlaunch/internal/logging"
	"github.com/firefly-engineering/botlaunch/internal/system"
)

// testEnv holds test environment state
type testEnv struct {
	workDir string
	paths   *config.Paths
	fs      *system.MockFS
	exec    *system.MockExecutor
	env     *system.MockEnv
	user    *bytes.Buffer
}

// setupTestEnv installs mocks as the default app. The working directory is a
// real temp dir so the launch history lands on disk.
func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()

	workDir := t.TempDir()
	cfg := config.Default()
	cfg.WorkDir = workDir
	paths, err := cfg.Resolve()
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}

	env := &testEnv{
		workDir: workDir,
		paths:   paths,
		fs:      system.NewMockFS(),
		exec:    system.NewMockExecutor(),
		env:     system.NewMockEnv(map[string]string{"PATH": "/usr/bin", "DISCORD_TOKEN": "t"}),
		user:    &bytes.Buffer{},
	}
	env.fs.AddDir(workDir)
	env.exec.AddResponse("git rev-parse HEAD", []byte("abc\n"), nil)
	env.exec.AddResponse("git rev-parse origin/main", []byte("abc\n"), nil)

	app.SetDefault(app.New(
		app.WithExecutor(env.exec),
		app.WithFS(env.fs),
		app.WithEnv(env.env),
	))

	oldStdout, oldStderr := logging.Stdout, logging.Stderr
	logging.Stdout, logging.Stderr = env.user, env.user
	t.Cleanup(func() {
		app.ResetDefault()
		logging.Stdout, logging.Stderr = oldStdout, oldStderr
	})

	return env
}

func (e *testEnv) addVenv() {
	e.fs.AddDir(e.paths.VenvDir)
	e.fs.AddFile(e.paths.ActivateScript)
}

func (e *testEnv) launchLine() string {
	return e.paths.VenvPython + " " + config.DefaultEntry
}

func executeCommand(args ...string) (string, string, error) {
	// Reset flag values before each test
	verbose = false
	jsonOutput = false
	configPath = ""
	workDir = ""
	dryRun = false
	execBot = false
	skipSync = false
	skipInstall = false
	historyJSON = false
	historyLines = 0
	historyClear = false

	cmd := rootCmd
	cmd.SetArgs(args)

	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)

	err := cmd.Execute()

	// Reset args for next test
	cmd.SetArgs(nil)
	cmd.SetOut(nil)
	cmd.SetErr(nil)

	return stdout.String(), stderr.String(), err
}

func TestRootCommand_Help(t *testing.T) {
	stdout, _, err := executeCommand("--help")
	if err != nil {
		t.Fatalf("Help command failed: %v", err)
	}

	for _, want := range []string{"botlaunch", "--dry-run", "--workdir", "sync", "bootstrap", "history"} {
		if !strings.Contains(stdout, want) {
			t.Errorf("Help output should contain %q", want)
		}
	}
}

func TestRootCommand_RejectsArguments(t *testing.T) {
	setupTestEnv(t)

	if _, _, err := executeCommand("unexpected"); err == nil {
		t.Error("botlaunch should take no arguments")
	}
}

func TestRootCommand_Launches(t *testing.T) {
	env := setupTestEnv(t)
	env.addVenv()

	if _, _, err := executeCommand("--workdir", env.workDir); err != nil {
		t.Fatalf("botlaunch failed: %v", err)
	}

	if n := env.exec.Count(env.launchLine()); n != 1 {
		t.Errorf("bot launched %d times, want 1; commands: %v", n, env.exec.CommandLines())
	}
	if env.fs.Cwd() != env.workDir {
		t.Errorf("cwd = %q, want %q", env.fs.Cwd(), env.workDir)
	}

	events, err := audit.NewLogger(env.paths.HistoryFile).Events()
	if err != nil {
		t.Fatalf("Events: %v", err)
	}
	if len(events) == 0 || events[len(events)-1].Type != audit.EventLaunch {
		t.Errorf("history = %+v, want trailing launch event", events)
	}
}

func TestRootCommand_ActivationMissing(t *testing.T) {
	env := setupTestEnv(t)
	env.fs.AddDir(env.paths.VenvDir)

	_, _, err := executeCommand("--workdir", env.workDir)
	if err == nil {
		t.Fatal("botlaunch should fail without an activation script")
	}
	if code := errors.GetExitCode(err); code != 1 {
		t.Errorf("exit code = %d, want 1", code)
	}
	if n := env.exec.Count(env.paths.VenvPython); n != 0 {
		t.Errorf("venv python ran %d times, want 0", n)
	}
}

func TestRootCommand_DryRun(t *testing.T) {
	env := setupTestEnv(t)

	stdout, _, err := executeCommand("--workdir", env.workDir, "--dry-run")
	if err != nil {
		t.Fatalf("dry run failed: %v", err)
	}

	for _, line := range env.exec.CommandLines() {
		if !strings.HasPrefix(line, "git rev-parse ") && !strings.Contains(line, " -m pip show ") {
			t.Errorf("dry run executed %q", line)
		}
	}
	if !strings.Contains(stdout, "$ git fetch origin") {
		t.Errorf("dry run output should list git fetch:\n%s", stdout)
	}
	if _, err := os.Stat(env.paths.HistoryFile); !os.IsNotExist(err) {
		t.Error("dry run should not write history")
	}
}

func TestRootCommand_SkipFlags(t *testing.T) {
	env := setupTestEnv(t)
	env.addVenv()

	if _, _, err := executeCommand("--workdir", env.workDir, "--skip-sync", "--skip-install"); err != nil {
		t.Fatalf("botlaunch failed: %v", err)
	}

	lines := env.exec.CommandLines()
	if len(lines) != 1 || lines[0] != env.launchLine() {
		t.Errorf("commands = %v, want only the launch", lines)
	}
}

func TestSyncCommand(t *testing.T) {
	env := setupTestEnv(t)

	if _, _, err := executeCommand("sync", "--workdir", env.workDir); err != nil {
		t.Fatalf("sync failed: %v", err)
	}

	for _, line := range env.exec.CommandLines() {
		if !strings.HasPrefix(line, "git ") {
			t.Errorf("sync ran %q", line)
		}
	}
	if !strings.Contains(env.user.String(), "Already up to date") {
		t.Errorf("output = %q", env.user.String())
	}
}

func TestBootstrapCommand(t *testing.T) {
	env := setupTestEnv(t)
	env.addVenv()

	if _, _, err := executeCommand("bootstrap", "--workdir", env.workDir); err != nil {
		t.Fatalf("bootstrap failed: %v", err)
	}

	if n := env.exec.Count(env.launchLine()); n != 0 {
		t.Error("bootstrap should not launch the bot")
	}
	if n := env.exec.Count(env.paths.VenvPython + " -m pip install --upgrade pip"); n != 1 {
		t.Errorf("pip upgrade ran %d times, want 1", n)
	}
}

func TestHistoryCommand(t *testing.T) {
	env := setupTestEnv(t)

	stdout, _, err := executeCommand("history", "--workdir", env.workDir)
	if err != nil {
		t.Fatalf("history failed: %v", err)
	}
	if stdout != "" || !strings.Contains(env.user.String(), "No launches recorded") {
		t.Errorf("empty history output: stdout=%q user=%q", stdout, env.user.String())
	}

	history := audit.NewLogger(env.paths.HistoryFile)
	_ = history.LogEvent(audit.EventSync, "up to date at abc")
	_ = history.LogEvent(audit.EventLaunch, "python main.py")

	stdout, _, err = executeCommand("history", "--workdir", env.workDir)
	if err != nil {
		t.Fatalf("history failed: %v", err)
	}
	if !strings.Contains(stdout, "sync") || !strings.Contains(stdout, "python main.py") {
		t.Errorf("history output = %q", stdout)
	}

	stdout, _, err = executeCommand("history", "--workdir", env.workDir, "--json", "-n", "1")
	if err != nil {
		t.Fatalf("history --json failed: %v", err)
	}
	var event audit.Event
	if err := json.Unmarshal([]byte(strings.TrimSpace(stdout)), &event); err != nil {
		t.Fatalf("history --json should print one JSON event: %v\n%s", err, stdout)
	}
	if event.Type != audit.EventLaunch {
		t.Errorf("last event type = %q, want launch", event.Type)
	}

	if _, _, err := executeCommand("history", "--workdir", env.workDir, "--clear"); err != nil {
		t.Fatalf("history --clear failed: %v", err)
	}
	if _, err := os.Stat(env.paths.HistoryFile); !os.IsNotExist(err) {
		t.Error("history file should be removed")
	}
}

func TestConfigCommand_Defaults(t *testing.T) {
	env := setupTestEnv(t)

	stdout, _, err := executeCommand("config", "--workdir", env.workDir)
	if err != nil {
		t.Fatalf("config failed: %v", err)
	}

	for _, want := range []string{"workdir = ", "[repo]", `marker = "discord.py"`, `entry = "main.py"`} {
		if !strings.Contains(stdout, want) {
			t.Errorf("config output should contain %q:\n%s", want, stdout)
		}
	}
}

func TestConfigCommand_File(t *testing.T) {
	env := setupTestEnv(t)
	path := filepath.Join(t.TempDir(), "botlaunch.yaml")
	data := "workdir: " + env.workDir + "\nrepo:\n  remote: upstream\n"
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	stdout, _, err := executeCommand("config", "-c", path)
	if err != nil {
		t.Fatalf("config failed: %v", err)
	}
	if !strings.Contains(stdout, `remote = "upstream"`) {
		t.Errorf("config output = %s", stdout)
	}
}

func TestConfigCommand_EnvVar(t *testing.T) {
	env := setupTestEnv(t)
	path := filepath.Join(t.TempDir(), "botlaunch.toml")
	data := "workdir = \"" + env.workDir + "\"\n[launch]\nentry = \"bot.py\"\n"
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}
	_ = env.env.Setenv(config.ConfigEnvVar, path)

	stdout, _, err := executeCommand("config")
	if err != nil {
		t.Fatalf("config failed: %v", err)
	}
	if !strings.Contains(stdout, `entry = "bot.py"`) {
		t.Errorf("config output = %s", stdout)
	}
}

func TestConfigCommand_Invalid(t *testing.T) {
	setupTestEnv(t)
	path := filepath.Join(t.TempDir(), "bad.toml")
	if err := os.WriteFile(path, []byte("workdir = \"relative\"\n"), 0644); err != nil {
		t.Fatal(err)
	}

	_, _, err := executeCommand("config", "--config", path)
	if err == nil {
		t.Fatal("config should reject an invalid file")
	}
	if code := errors.GetExitCode(err); code != errors.ExitConfigError {
		t.Errorf("exit code = %d, want %d", code, errors.ExitConfigError)
	}
}

func TestStatusCommand(t *testing.T) {
	env := setupTestEnv(t)

	stdout, _, err := executeCommand("status", "--workdir", env.workDir)
	if err != nil {
		t.Fatalf("status failed: %v", err)
	}
	if !strings.Contains(stdout, "Status: no-venv") {
		t.Errorf("status output = %s", stdout)
	}

	env.addVenv()
	stdout, _, err = executeCommand("status", "--workdir", env.workDir)
	if err != nil {
		t.Fatalf("status failed: %v", err)
	}
	if !strings.Contains(stdout, "Status: ready") {
		t.Errorf("status output = %s", stdout)
	}
	if len(env.exec.Commands) == 0 {
		t.Error("status should query git and pip")
	}
	for _, line := range env.exec.CommandLines() {
		if strings.Contains(line, "fetch") || strings.Contains(line, "install") {
			t.Errorf("status must not modify the checkout, ran %q", line)
		}
	}
}
