// Package repo keeps the bot's working copy in step with its remote.
//
// Sync runs a fixed sequence against the repository in the current
// directory:
//
//	git fetch <remote>
//	git rev-parse HEAD
//	git rev-parse <remote>/<branch>   (or @{u} without a branch)
//	git pull <remote> <branch>        (only when the two revisions differ)
//
// Any git failure is returned as an errors.LaunchError carrying git's own
// exit status.
package repo
