// Package venv creates and activates the bot's Python virtual environment.
package venv

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/firefly-engineering/botlaunch/internal/config"
	"github.com/firefly-engineering/botlaunch/internal/errors"
	"github.com/firefly-engineering/botlaunch/internal/logging"
	"github.com/firefly-engineering/botlaunch/internal/system"
)

// Environment variables touched by activation.
const (
	EnvVirtualEnv = "VIRTUAL_ENV"
	EnvPath       = "PATH"
	EnvPythonHome = "PYTHONHOME"
)

// Manager owns one virtual environment directory.
type Manager struct {
	exec   system.CommandExecutor
	fs     system.FileSystem
	env    system.Environment
	python string
	paths  *config.Paths
}

// New returns a Manager creating environments with the given interpreter.
func New(exec system.CommandExecutor, fs system.FileSystem, env system.Environment, python string, paths *config.Paths) *Manager {
	return &Manager{exec: exec, fs: fs, env: env, python: python, paths: paths}
}

// Ensure creates the environment unless its directory already exists.
// It reports whether a new environment was created. A non-directory at
// the venv path or an unreadable path is an error, not a reason to create.
func (m *Manager) Ensure(ctx context.Context) (bool, error) {
	info, err := m.fs.Stat(m.paths.VenvDir)
	switch {
	case err == nil && info.IsDir():
		logging.Debug("virtual environment present", "dir", m.paths.VenvDir)
		return false, nil
	case err == nil:
		return false, errors.VenvFailed(m.paths.VenvDir, fmt.Errorf("%s exists and is not a directory", m.paths.VenvDir))
	case !errors.Is(err, fs.ErrNotExist):
		return false, errors.VenvFailed(m.paths.VenvDir, err)
	}

	logging.UserInfo("Creating virtual environment in %s...", m.paths.VenvDir)
	if err := m.exec.ExecuteInteractive(ctx, m.python, "-m", "venv", m.paths.VenvDir); err != nil {
		return false, errors.VenvFailed(m.paths.VenvDir, err)
	}
	return true, nil
}

// Activate points the current process environment at the virtual
// environment. It fails with exit code 1 when the activation script is
// missing, which marks a broken or foreign directory.
func (m *Manager) Activate() error {
	if !m.fs.Exists(m.paths.ActivateScript) {
		return errors.ActivationMissing(m.paths.ActivateScript)
	}

	binDir := m.paths.BinDir()
	path := binDir
	if current := m.env.Getenv(EnvPath); current != "" && !hasPathEntry(current, binDir) {
		path = binDir + string(filepath.ListSeparator) + current
	} else if current != "" {
		path = current
	}

	if err := m.env.Setenv(EnvVirtualEnv, m.paths.VenvDir); err != nil {
		return errors.Wrap(errors.ExitGeneralError, "failed to set "+EnvVirtualEnv, err)
	}
	if err := m.env.Setenv(EnvPath, path); err != nil {
		return errors.Wrap(errors.ExitGeneralError, "failed to set "+EnvPath, err)
	}
	if err := m.env.Unsetenv(EnvPythonHome); err != nil {
		return errors.Wrap(errors.ExitGeneralError, "failed to unset "+EnvPythonHome, err)
	}

	logging.Debug("activated virtual environment", "dir", m.paths.VenvDir)
	return nil
}

func hasPathEntry(pathList, dir string) bool {
	for _, entry := range strings.Split(pathList, string(filepath.ListSeparator)) {
		if filepath.Clean(entry) == filepath.Clean(dir) {
			return true
		}
	}
	return false
}
