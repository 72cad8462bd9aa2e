// Package launcher runs the bot launch sequence.
//
// Run performs, in order and each exactly once:
//
//  1. change into the configured working directory
//  2. sync the working copy with its remote (repo)
//  3. create the virtual environment if missing (venv)
//  4. fail with exit code 1 if the activation script is missing
//  5. activate the environment for this process
//  6. upgrade pip and install dependencies when the marker package is missing (deps)
//  7. start the bot's entry point with the terminal attached
//
// The first failing step ends the sequence. Every completed step is
// appended to the launch history (audit).
//
// Construction follows the options pattern so tests can substitute the
// executor, filesystem and environment:
//
//	l, err := launcher.New(cfg,
//	    launcher.WithExecutor(mockExec),
//	    launcher.WithFS(mockFS),
//	    launcher.WithEnv(mockEnv),
//	)
//	err = l.Run(ctx)
package launcher
