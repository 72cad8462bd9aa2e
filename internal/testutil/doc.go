// Package testutil provides test fixtures and a mocked launch environment.
//
// # Fixtures
//
// Config fixtures are embedded using go:embed:
//
//	fixtures/valid_config.toml
//	fixtures/valid_config.yaml
//	fixtures/invalid_config.toml
//
//	cfg, err := testutil.ValidConfig()
//	cfg, err := testutil.LoadConfigFixture("invalid_config.toml")
//
// # Test Environment
//
// NewTestEnv wires a launcher against mocks: a MockFS holding the working
// directory, a MockExecutor answering git and pip, a MockEnv, and a real
// history file in a temp dir. User output is captured.
//
//	env := testutil.NewTestEnv(t)
//	env.SetHeads("abc", "def")   // remote moved: expect a pull
//	env.SimulateVenvCreation()    // venv creation produces an activation script
//	env.SetMarkerInstalled(false) // expect pip install
//	err := env.Launcher().Run(ctx)
package testutil
