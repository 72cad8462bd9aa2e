// Package app provides the application context for botlaunch.
// It allows dependency injection for testing.
package app

import (
	"github.com/firefly-engineering/botlaunch/internal/launcher"
	"github.com/firefly-engineering/botlaunch/internal/system"
)

// App holds the application dependencies
type App struct {
	// Executor runs external tools (git, python, pip)
	Executor system.CommandExecutor

	// FS is the filesystem the launcher inspects
	FS system.FileSystem

	// Env is the process environment activation modifies
	Env system.Environment
}

// Option is a function that configures the App
type Option func(*App)

// WithExecutor sets a custom command executor
func WithExecutor(exec system.CommandExecutor) Option {
	return func(a *App) {
		a.Executor = exec
	}
}

// WithFS sets a custom filesystem
func WithFS(fs system.FileSystem) Option {
	return func(a *App) {
		a.FS = fs
	}
}

// WithEnv sets a custom environment
func WithEnv(env system.Environment) Option {
	return func(a *App) {
		a.Env = env
	}
}

// New creates a new App with the given options.
// Dependencies not provided fall back to the real OS implementations.
func New(opts ...Option) *App {
	app := &App{}

	for _, opt := range opts {
		opt(app)
	}

	if app.Executor == nil {
		app.Executor = system.DefaultExecutor()
	}
	if app.FS == nil {
		app.FS = system.DefaultFS()
	}
	if app.Env == nil {
		app.Env = system.DefaultEnv()
	}

	return app
}

// LauncherOptions returns the launcher options wiring in the app's dependencies.
func (a *App) LauncherOptions() []launcher.Option {
	return []launcher.Option{
		launcher.WithExecutor(a.Executor),
		launcher.WithFS(a.FS),
		launcher.WithEnv(a.Env),
	}
}

// Default is the default application instance
var Default = New()

// SetDefault sets the default application instance (used for testing)
func SetDefault(app *App) {
	Default = app
}

// ResetDefault resets to the default application instance
func ResetDefault() {
	Default = New()
}
