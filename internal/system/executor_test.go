package system

import (
	"context"
	"errors"
	"os/exec"
	"strings"
	"testing"
	"time"
)

func requireSh(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
}

func TestOSExecutor_Execute(t *testing.T) {
	requireSh(t)
	e := &osExecutor{}

	out, err := e.Execute(context.Background(), "sh", "-c", "echo out; echo err >&2")
	if err != nil {
		t.Fatalf("Execute error: %v", err)
	}
	if !strings.Contains(string(out), "out") || !strings.Contains(string(out), "err") {
		t.Errorf("output = %q, want stdout and stderr combined", out)
	}
}

func TestOSExecutor_ExitStatus(t *testing.T) {
	requireSh(t)
	e := &osExecutor{}

	err := e.ExecuteInteractive(context.Background(), "sh", "-c", "exit 3")
	var exitErr *exec.ExitError
	if !errors.As(err, &exitErr) {
		t.Fatalf("error = %v, want *exec.ExitError", err)
	}
	if exitErr.ExitCode() != 3 {
		t.Errorf("exit code = %d, want 3", exitErr.ExitCode())
	}
}

func TestOSExecutor_CancelInterrupts(t *testing.T) {
	requireSh(t)
	e := &osExecutor{}

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := e.Execute(ctx, "sh", "-c", "exec sleep 30")
	if err == nil {
		t.Fatal("cancelled command should fail")
	}
	if elapsed := time.Since(start); elapsed > 5*time.Second {
		t.Errorf("command ran %v after cancellation", elapsed)
	}
}

func TestOSExecutor_ReplaceProcessNotFound(t *testing.T) {
	e := &osExecutor{}

	if err := e.ReplaceProcess("botlaunch-no-such-binary"); err == nil {
		t.Error("ReplaceProcess should fail for a missing binary")
	}
}
