package cmd

import (
	"github.com/spf13/cobra"
)

var bootstrapCmd = &cobra.Command{
	Use:   "bootstrap",
	Short: "Prepare the checkout and virtual environment without starting the bot",
	Long: `Run every step up to, but not including, the bot launch:
sync the repository, create and activate the virtual environment and
install dependencies.`,
	Args: cobra.NoArgs,
	RunE: runBootstrap,
}

func init() {
	rootCmd.AddCommand(bootstrapCmd)
}

func runBootstrap(cmd *cobra.Command, args []string) error {
	l, err := newLauncher(cmd)
	if err != nil {
		return err
	}
	if err := l.Bootstrap(cmd.Context()); err != nil {
		return err
	}
	logSuccess("Bot environment ready in %s", l.Paths().VenvDir)
	return nil
}
