package cmd

import (
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/firefly-engineering/botlaunch/internal/app"
	"github.com/firefly-engineering/botlaunch/internal/config"
	"github.com/firefly-engineering/botlaunch/internal/errors"
	"github.com/firefly-engineering/botlaunch/internal/launcher"
)

// loadConfig loads the effective configuration: the located config file
// (or the defaults) with --workdir applied on top.
func loadConfig() (*config.Config, error) {
	path := config.Locate(configPath, app.Default.Env.Getenv)
	cfg, err := config.LoadOrDefault(path)
	if err != nil {
		return nil, errors.ConfigError("failed to load configuration", err)
	}

	if workDir != "" {
		abs, err := filepath.Abs(workDir)
		if err != nil {
			return nil, errors.ConfigError("invalid --workdir", err)
		}
		cfg.WorkDir = abs
		if err := cfg.Validate(); err != nil {
			return nil, errors.ConfigError("invalid configuration", err)
		}
	}

	return cfg, nil
}

// newLauncher builds a launcher from the configuration and the global flags.
func newLauncher(cmd *cobra.Command) (*launcher.Launcher, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	opts := append(app.Default.LauncherOptions(),
		launcher.WithSkipSync(skipSync),
		launcher.WithSkipInstall(skipInstall),
		launcher.WithReplace(execBot),
	)
	if dryRun {
		opts = append(opts, launcher.WithDryRun(cmd.OutOrStdout()))
	}

	l, err := launcher.New(cfg, opts...)
	if err != nil {
		return nil, err
	}
	return l, nil
}
