// Package app provides the application context for botlaunch.
//
// This package manages application-wide dependencies using the functional
// options pattern, enabling easy testing through dependency injection.
//
// # App Context
//
// The App struct holds the OS seams the launcher runs against:
//
//	type App struct {
//	    Executor system.CommandExecutor // git, python, pip
//	    FS       system.FileSystem      // existence checks, chdir
//	    Env      system.Environment     // activation target
//	}
//
// # Creating an App
//
//	// Production usage
//	a := app.New()
//
//	// Testing with mocks
//	a := app.New(
//	    app.WithExecutor(system.NewMockExecutor()),
//	    app.WithFS(system.NewMockFS()),
//	    app.WithEnv(system.NewMockEnv(nil)),
//	)
//	app.SetDefault(a)
//
// LauncherOptions hands the dependencies to launcher.New.
package app
