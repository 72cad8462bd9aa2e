package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/firefly-engineering/botlaunch/internal/app"
	"github.com/firefly-engineering/botlaunch/internal/audit"
	"github.com/firefly-engineering/botlaunch/internal/health"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show whether the bot checkout is ready to launch",
	Args:  cobra.NoArgs,
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	paths, err := cfg.Resolve()
	if err != nil {
		return err
	}

	result := health.Check(cmd.Context(), cfg, paths, health.CheckOptions{
		Executor: app.Default.Executor,
		FS:       app.Default.FS,
		History:  audit.NewLogger(paths.HistoryFile),
	})

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Workdir: %s\n", paths.WorkDir)
	fmt.Fprintf(out, "Remote: %s/%s\n", cfg.Repo.Remote, cfg.Repo.Branch)
	fmt.Fprintf(out, "Entry: %s\n", cfg.Launch.Entry)
	fmt.Fprintf(out, "Last launch: %s\n", result.LastLaunch)
	fmt.Fprintln(out)

	fmt.Fprintln(out, "Checks:")
	fmt.Fprintf(out, "  Checkout: %s\n", boolStatus(result.WorkDirPresent))
	if result.Head != "" {
		fmt.Fprintf(out, "  HEAD: %s\n", result.Head)
	}
	fmt.Fprintf(out, "  Venv: %s\n", boolStatus(result.VenvPresent))
	fmt.Fprintf(out, "  Activation: %s\n", boolStatus(result.ActivationPresent))
	fmt.Fprintf(out, "  %s: %s\n", cfg.Deps.Marker, boolStatus(result.MarkerInstalled))
	fmt.Fprintln(out)
	fmt.Fprintf(out, "Status: %s\n", result.Summary())

	return nil
}

func boolStatus(b bool) string {
	if b {
		return "✓"
	}
	return "✗"
}
