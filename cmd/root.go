package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/firefly-engineering/botlaunch/internal/logging"
)

var (
	verbose     bool
	jsonOutput  bool
	configPath  string
	workDir     string
	dryRun      bool
	execBot     bool
	skipSync    bool
	skipInstall bool
)

var rootCmd = &cobra.Command{
	Use:   "botlaunch",
	Short: "Update, bootstrap and start the Discord bot",
	Long: `botlaunch keeps the bot's checkout current and starts it.

Run without arguments it performs, in order:
  - enter the working directory
  - fetch the remote and pull when the heads differ
  - create the virtual environment if it is missing
  - activate it (exit 1 when the activation script is absent)
  - upgrade pip and install dependencies when the marker package is missing
  - run the bot's entry point`,
	Args:          cobra.NoArgs,
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logging.Setup(verbose, jsonOutput, os.Stderr)
	},
	RunE: runLaunch,
}

// Execute runs the CLI. SIGINT and SIGTERM cancel the running step.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	flags.BoolVar(&jsonOutput, "json", false, "Output logs in JSON format")
	flags.StringVarP(&configPath, "config", "c", "", "Config file (default $BOTLAUNCH_CONFIG or /etc/botlaunch/config.toml)")
	flags.StringVar(&workDir, "workdir", "", "Bot checkout directory (overrides config)")
	flags.BoolVar(&dryRun, "dry-run", false, "Print commands instead of running them")
	flags.BoolVar(&execBot, "exec", false, "Replace the launcher process with the bot")
	flags.BoolVar(&skipSync, "skip-sync", false, "Do not fetch or pull the repository")
	flags.BoolVar(&skipInstall, "skip-install", false, "Do not run pip")
	rootCmd.CompletionOptions.DisableDefaultCmd = true
}

// Helper aliases for user-facing output (delegates to logging package)
var (
	logInfo    = logging.UserInfo
	logSuccess = logging.UserSuccess
)

func runLaunch(cmd *cobra.Command, args []string) error {
	l, err := newLauncher(cmd)
	if err != nil {
		return err
	}
	return l.Run(cmd.Context())
}
