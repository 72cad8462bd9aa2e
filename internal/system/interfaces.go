// Package system provides abstractions for OS operations to enable testing.
package system

import (
	"context"
	"io/fs"
	"os"
)

// FileSystem abstracts file system operations for testability.
type FileSystem interface {
	// Stat returns file info for the named file.
	Stat(path string) (fs.FileInfo, error)

	// Exists returns true if the path exists.
	Exists(path string) bool

	// IsDir returns true if the path is a directory.
	IsDir(path string) bool

	// Chdir changes the current working directory of the process.
	Chdir(dir string) error

	// Getwd returns the current working directory.
	Getwd() (string, error)
}

// Environment abstracts the process environment for testability.
type Environment interface {
	// Getenv returns the value of the variable, or "" when unset.
	Getenv(key string) string

	// LookupEnv returns the value of the variable and whether it is set.
	LookupEnv(key string) (string, bool)

	// Setenv sets the variable for this process and its children.
	Setenv(key, value string) error

	// Unsetenv removes the variable.
	Unsetenv(key string) error
}

// CommandExecutor abstracts command execution for testability.
type CommandExecutor interface {
	// Execute runs a command and returns its combined output.
	Execute(ctx context.Context, name string, args ...string) ([]byte, error)

	// ExecuteInteractive runs a command with stdin/stdout/stderr connected to the terminal.
	ExecuteInteractive(ctx context.Context, name string, args ...string) error

	// ReplaceProcess replaces the current process with the given command (exec syscall).
	ReplaceProcess(name string, args ...string) error
}

// Default instances using real OS operations.
var (
	defaultFS       FileSystem      = &osFileSystem{}
	defaultEnv      Environment     = &osEnvironment{}
	defaultExecutor CommandExecutor = &osExecutor{}
)

// DefaultFS returns the default FileSystem implementation using real OS operations.
func DefaultFS() FileSystem {
	return defaultFS
}

// DefaultEnv returns the default Environment backed by the process environment.
func DefaultEnv() Environment {
	return defaultEnv
}

// DefaultExecutor returns the default CommandExecutor implementation.
func DefaultExecutor() CommandExecutor {
	return defaultExecutor
}

// osFileSystem implements FileSystem using real OS operations.
type osFileSystem struct{}

func (f *osFileSystem) Stat(path string) (fs.FileInfo, error) {
	return os.Stat(path)
}

func (f *osFileSystem) Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func (f *osFileSystem) IsDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

func (f *osFileSystem) Chdir(dir string) error {
	return os.Chdir(dir)
}

func (f *osFileSystem) Getwd() (string, error) {
	return os.Getwd()
}

// osEnvironment implements Environment on top of the os package.
type osEnvironment struct{}

func (e *osEnvironment) Getenv(key string) string {
	return os.Getenv(key)
}

func (e *osEnvironment) LookupEnv(key string) (string, bool) {
	return os.LookupEnv(key)
}

func (e *osEnvironment) Setenv(key, value string) error {
	return os.Setenv(key, value)
}

func (e *osEnvironment) Unsetenv(key string) error {
	return os.Unsetenv(key)
}
