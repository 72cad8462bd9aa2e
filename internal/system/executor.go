package system

import (
	"context"
	"os"
	"os/exec"
	"runtime"
	"syscall"
	"time"

	"github.com/firefly-engineering/botlaunch/internal/logging"
)

// interruptGrace is how long a cancelled child gets to exit after SIGINT
// before it is killed.
const interruptGrace = 10 * time.Second

// osExecutor implements CommandExecutor using real OS operations.
// Commands inherit the process environment, so variables set through
// Environment are visible to every child.
type osExecutor struct{}

// command builds a child that is interrupted, not killed, when ctx is done.
func (e *osExecutor) command(ctx context.Context, name string, args []string) *exec.Cmd {
	logging.Debug("exec", "cmd", FormatCommand(name, args...))

	cmd := exec.CommandContext(ctx, name, args...)
	if runtime.GOOS != "windows" {
		cmd.Cancel = func() error {
			return cmd.Process.Signal(os.Interrupt)
		}
		cmd.WaitDelay = interruptGrace
	}
	return cmd
}

func (e *osExecutor) Execute(ctx context.Context, name string, args ...string) ([]byte, error) {
	return e.command(ctx, name, args).CombinedOutput()
}

func (e *osExecutor) ExecuteInteractive(ctx context.Context, name string, args ...string) error {
	cmd := e.command(ctx, name, args)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}

func (e *osExecutor) ReplaceProcess(name string, args ...string) error {
	binary, err := exec.LookPath(name)
	if err != nil {
		return err
	}
	logging.Debug("exec (replace)", "cmd", FormatCommand(name, args...))

	// argv[0] is the program name
	argv := append([]string{name}, args...)

	return syscall.Exec(binary, argv, os.Environ())
}
