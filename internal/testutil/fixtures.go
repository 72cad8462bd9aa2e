package testutil

import (
	"embed"
	"path/filepath"

	"github.com/firefly-engineering/botlaunch/internal/config"
)

//go:embed fixtures/*
var fixturesFS embed.FS

// LoadFixture loads a fixture file by name.
func LoadFixture(name string) ([]byte, error) {
	return fixturesFS.ReadFile("fixtures/" + name)
}

// LoadConfigFixture decodes a config fixture, picking the format from its extension.
func LoadConfigFixture(name string) (*config.Config, error) {
	data, err := LoadFixture(name)
	if err != nil {
		return nil, err
	}
	return config.Decode(data, filepath.Ext(name))
}

// ValidConfig returns the valid TOML config fixture.
func ValidConfig() (*config.Config, error) {
	return LoadConfigFixture("valid_config.toml")
}

// ValidYAMLConfig returns the valid YAML config fixture.
func ValidYAMLConfig() (*config.Config, error) {
	return LoadConfigFixture("valid_config.yaml")
}
