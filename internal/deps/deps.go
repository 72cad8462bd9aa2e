// Package deps installs the bot's Python dependencies with pip.
//
// Presence of a single marker package stands in for the whole set: when
// the marker is installed nothing else is checked or installed.
package deps

import (
	"context"
	"strings"

	"github.com/firefly-engineering/botlaunch/internal/errors"
	"github.com/firefly-engineering/botlaunch/internal/logging"
	"github.com/firefly-engineering/botlaunch/internal/system"
)

// Result reports what Ensure did.
type Result struct {
	Upgraded  bool
	Installed bool
}

// Installer drives pip through the environment's interpreter.
type Installer struct {
	exec     system.CommandExecutor
	python   string
	marker   string
	packages []string
}

// New returns an Installer running "<python> -m pip".
func New(exec system.CommandExecutor, python, marker string, packages []string) *Installer {
	return &Installer{exec: exec, python: python, marker: marker, packages: packages}
}

func (i *Installer) pipArgs(args ...string) []string {
	return append([]string{"-m", "pip"}, args...)
}

// UpgradeInstaller upgrades pip itself.
func (i *Installer) UpgradeInstaller(ctx context.Context) error {
	logging.UserInfo("Upgrading pip...")
	if err := i.exec.ExecuteInteractive(ctx, i.python, i.pipArgs("install", "--upgrade", "pip")...); err != nil {
		return errors.InstallFailed("upgrade", err)
	}
	return nil
}

// IsInstalled reports whether pip knows the package.
func (i *Installer) IsInstalled(ctx context.Context, pkg string) bool {
	output, err := i.exec.Execute(ctx, i.python, i.pipArgs("show", pkg)...)
	if err != nil {
		logging.Debug("package not installed", "package", pkg, "output", strings.TrimSpace(string(output)))
		return false
	}
	return true
}

// Install installs the given packages in one pip invocation.
func (i *Installer) Install(ctx context.Context, pkgs []string) error {
	logging.UserInfo("Installing %s...", strings.Join(pkgs, ", "))
	if err := i.exec.ExecuteInteractive(ctx, i.python, i.pipArgs(append([]string{"install"}, pkgs...)...)...); err != nil {
		return errors.InstallFailed("install", err)
	}
	return nil
}

// Ensure upgrades pip, then installs the package list once if the marker
// package is missing.
func (i *Installer) Ensure(ctx context.Context) (Result, error) {
	var result Result

	if err := i.UpgradeInstaller(ctx); err != nil {
		return result, err
	}
	result.Upgraded = true

	if i.IsInstalled(ctx, i.marker) {
		logging.UserInfo("Dependencies already installed")
		return result, nil
	}

	if err := i.Install(ctx, i.packages); err != nil {
		return result, err
	}
	result.Installed = true
	logging.UserSuccess("Dependencies installed")
	return result, nil
}
