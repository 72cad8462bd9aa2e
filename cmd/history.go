package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/firefly-engineering/botlaunch/internal/audit"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Display the launch history",
	Args:  cobra.NoArgs,
	RunE:  runHistory,
}

var (
	historyJSON  bool
	historyLines int
	historyClear bool
)

func init() {
	historyCmd.Flags().BoolVar(&historyJSON, "json", false, "Output events as JSON lines")
	historyCmd.Flags().IntVarP(&historyLines, "lines", "n", 0, "Show only the last N events")
	historyCmd.Flags().BoolVar(&historyClear, "clear", false, "Delete the history")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	paths, err := cfg.Resolve()
	if err != nil {
		return err
	}

	history := audit.NewLogger(paths.HistoryFile)
	if historyClear {
		if err := history.Remove(); err != nil {
			return fmt.Errorf("failed to clear history: %w", err)
		}
		logSuccess("Cleared %s", history.Path())
		return nil
	}

	events, err := history.Tail(historyLines)
	if err != nil {
		return fmt.Errorf("failed to read history: %w", err)
	}

	if len(events) == 0 {
		logInfo("No launches recorded in %s", cfg.WorkDir)
		return nil
	}

	out := cmd.OutOrStdout()
	for _, e := range events {
		if historyJSON {
			data, err := json.Marshal(e)
			if err != nil {
				return fmt.Errorf("failed to marshal event: %w", err)
			}
			fmt.Fprintln(out, string(data))
		} else {
			ts := e.Timestamp.Local().Format("2006-01-02 15:04:05")
			fmt.Fprintf(out, "[%s] %-8s %s\n", ts, e.Type, e.Details)
		}
	}

	return nil
}
