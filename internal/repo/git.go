package repo

import (
	"context"
	"fmt"
	"strings"

	"github.com/firefly-engineering/botlaunch/internal/errors"
	"github.com/firefly-engineering/botlaunch/internal/logging"
	"github.com/firefly-engineering/botlaunch/internal/system"
)

// upstreamRef is compared against when no branch is configured.
const upstreamRef = "@{u}"

// SyncResult reports what Sync observed and did.
type SyncResult struct {
	Local   string
	Remote  string
	Updated bool
}

// Git synchronizes the working copy in the current directory with a remote.
type Git struct {
	exec   system.CommandExecutor
	remote string
	branch string
}

// New returns a Git syncing against remote/branch. An empty branch tracks
// the current branch's upstream.
func New(exec system.CommandExecutor, remote, branch string) *Git {
	return &Git{exec: exec, remote: remote, branch: branch}
}

// RemoteRef returns the revision compared against the local HEAD.
func (g *Git) RemoteRef() string {
	if g.branch == "" {
		return upstreamRef
	}
	return g.remote + "/" + g.branch
}

// Fetch updates remote-tracking refs.
func (g *Git) Fetch(ctx context.Context) error {
	output, err := g.exec.Execute(ctx, "git", "fetch", g.remote)
	if err != nil {
		return errors.SyncFailed("fetch", commandError(output, err))
	}
	logging.Debug("git fetch", "remote", g.remote, "output", strings.TrimSpace(string(output)))
	return nil
}

// LocalHead returns the commit checked out in the working copy.
func (g *Git) LocalHead(ctx context.Context) (string, error) {
	return g.revParse(ctx, "HEAD")
}

// RemoteHead returns the commit at RemoteRef.
func (g *Git) RemoteHead(ctx context.Context) (string, error) {
	return g.revParse(ctx, g.RemoteRef())
}

func (g *Git) revParse(ctx context.Context, rev string) (string, error) {
	output, err := g.exec.Execute(ctx, "git", "rev-parse", rev)
	if err != nil {
		return "", errors.SyncFailed("rev-parse "+rev, commandError(output, err))
	}
	return strings.TrimSpace(string(output)), nil
}

// Pull brings the working copy up to the remote state.
func (g *Git) Pull(ctx context.Context) error {
	args := []string{"pull"}
	if g.branch != "" {
		args = append(args, g.remote, g.branch)
	}
	if err := g.exec.ExecuteInteractive(ctx, "git", args...); err != nil {
		return errors.SyncFailed("pull", err)
	}
	return nil
}

// Sync fetches, compares local and remote heads and pulls once when they differ.
func (g *Git) Sync(ctx context.Context) (SyncResult, error) {
	var result SyncResult

	if err := g.Fetch(ctx); err != nil {
		return result, err
	}

	local, err := g.LocalHead(ctx)
	if err != nil {
		return result, err
	}
	remote, err := g.RemoteHead(ctx)
	if err != nil {
		return result, err
	}
	result.Local, result.Remote = local, remote

	if local == remote {
		logging.UserInfo("Already up to date")
		return result, nil
	}

	logging.UserInfo("Updating %s..%s from %s", shortRev(local), shortRev(remote), g.RemoteRef())
	if err := g.Pull(ctx); err != nil {
		return result, err
	}
	result.Updated = true
	return result, nil
}

func shortRev(rev string) string {
	if len(rev) > 7 {
		return rev[:7]
	}
	return rev
}

// commandError folds captured tool output into err, keeping err in the chain.
func commandError(output []byte, err error) error {
	if out := strings.TrimSpace(string(output)); out != "" {
		return fmt.Errorf("%s: %w", out, err)
	}
	return err
}
