package config

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/BurntSushi/toml"
	securejoin "github.com/cyphar/filepath-securejoin"
	shellquote "github.com/kballard/go-shellquote"
	"gopkg.in/yaml.v3"
)

const (
	DefaultConfigDir  = "/etc/botlaunch"
	DefaultConfigFile = "config.toml"
	DefaultWorkDir    = "/opt/discord-bot"
	DefaultRemote     = "origin"
	DefaultBranch     = "main"
	DefaultVenvDir    = "venv"
	DefaultPython     = "python3"
	DefaultEntry      = "main.py"
	DefaultMarker     = "discord.py"
	StateDirName      = ".botlaunch"
	HistoryFileName   = "history.jsonl"
	DotEnvFileName    = ".env"

	// ConfigEnvVar names a config file when --config is not given.
	ConfigEnvVar = "BOTLAUNCH_CONFIG"
)

// DefaultPackages is the dependency set the bot imports.
var DefaultPackages = []string{"discord.py", "python-dotenv", "Pillow", "SQLAlchemy"}

// DefaultRequiredEnv lists variables the bot refuses to start without.
var DefaultRequiredEnv = []string{"DISCORD_TOKEN"}

// Config is the launcher configuration.
type Config struct {
	WorkDir string       `toml:"workdir" yaml:"workdir"`
	Repo    RepoConfig   `toml:"repo" yaml:"repo"`
	Venv    VenvConfig   `toml:"venv" yaml:"venv"`
	Deps    DepsConfig   `toml:"deps" yaml:"deps"`
	Launch  LaunchConfig `toml:"launch" yaml:"launch"`
}

// RepoConfig selects the remote the working copy tracks.
type RepoConfig struct {
	Remote string `toml:"remote" yaml:"remote"`
	Branch string `toml:"branch" yaml:"branch"` // empty compares against @{u}
}

// VenvConfig describes the virtual environment.
type VenvConfig struct {
	Dir    string `toml:"dir" yaml:"dir"`       // relative to WorkDir
	Python string `toml:"python" yaml:"python"` // interpreter used to create the venv
}

// DepsConfig is the fixed dependency list and its marker package.
type DepsConfig struct {
	Marker   string   `toml:"marker" yaml:"marker"`
	Packages []string `toml:"packages" yaml:"packages"`
}

// LaunchConfig describes how the bot process is started.
type LaunchConfig struct {
	Entry       string   `toml:"entry" yaml:"entry"` // shell-quoted, e.g. "main.py --shard 0"
	Replace     bool     `toml:"replace" yaml:"replace"`
	RequiredEnv []string `toml:"required_env" yaml:"required_env"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		WorkDir: DefaultWorkDir,
		Repo: RepoConfig{
			Remote: DefaultRemote,
			Branch: DefaultBranch,
		},
		Venv: VenvConfig{
			Dir:    DefaultVenvDir,
			Python: DefaultPython,
		},
		Deps: DepsConfig{
			Marker:   DefaultMarker,
			Packages: append([]string(nil), DefaultPackages...),
		},
		Launch: LaunchConfig{
			Entry:       DefaultEntry,
			RequiredEnv: append([]string(nil), DefaultRequiredEnv...),
		},
	}
}

// Validate checks that the Config is valid.
func (c *Config) Validate() error {
	if c.WorkDir == "" {
		return fmt.Errorf("workdir is required")
	}
	if !filepath.IsAbs(c.WorkDir) {
		return fmt.Errorf("workdir must be an absolute path (got %q)", c.WorkDir)
	}
	if c.Repo.Remote == "" {
		return fmt.Errorf("repo.remote is required")
	}
	if c.Venv.Dir == "" {
		return fmt.Errorf("venv.dir is required")
	}
	if !filepath.IsLocal(c.Venv.Dir) {
		return fmt.Errorf("venv.dir must be a path inside workdir (got %q)", c.Venv.Dir)
	}
	if c.Venv.Python == "" {
		return fmt.Errorf("venv.python is required")
	}
	if len(c.Deps.Packages) == 0 {
		return fmt.Errorf("deps.packages must list at least one package")
	}
	if c.Deps.Marker == "" {
		return fmt.Errorf("deps.marker is required")
	}
	if !containsPackage(c.Deps.Packages, c.Deps.Marker) {
		return fmt.Errorf("deps.marker %q must be one of deps.packages", c.Deps.Marker)
	}
	if _, err := c.EntryArgs(); err != nil {
		return err
	}
	return nil
}

// containsPackage matches pip distribution names, which compare
// case-insensitively and treat '-', '_' and '.' alike.
func containsPackage(pkgs []string, name string) bool {
	for _, p := range pkgs {
		if NormalizePackageName(p) == NormalizePackageName(name) {
			return true
		}
	}
	return false
}

// NormalizePackageName returns the canonical form of a pip distribution name.
func NormalizePackageName(name string) string {
	r := strings.NewReplacer("_", "-", ".", "-")
	return strings.ToLower(r.Replace(strings.TrimSpace(name)))
}

// EntryArgs splits Launch.Entry into the script and its arguments.
func (c *Config) EntryArgs() ([]string, error) {
	args, err := shellquote.Split(c.Launch.Entry)
	if err != nil {
		return nil, fmt.Errorf("invalid launch.entry %q: %w", c.Launch.Entry, err)
	}
	if len(args) == 0 {
		return nil, fmt.Errorf("launch.entry is required")
	}
	return args, nil
}

// Paths holds the filesystem locations derived from a Config.
type Paths struct {
	WorkDir        string
	VenvDir        string
	ActivateScript string
	VenvPython     string
	StateDir       string
	HistoryFile    string
	DotEnv         string
}

// Resolve derives absolute paths from the config. The venv and .env paths
// are plain joins, so symlinks placed there by the operator are followed
// like the shell would. The state directory is written by the launcher into
// a checkout that git pull can change, so it is joined with securejoin and
// a symlinked .botlaunch cannot redirect history writes out of WorkDir.
func (c *Config) Resolve() (*Paths, error) {
	if !filepath.IsLocal(c.Venv.Dir) {
		return nil, fmt.Errorf("venv.dir must be a path inside workdir (got %q)", c.Venv.Dir)
	}
	venvDir := filepath.Join(c.WorkDir, c.Venv.Dir)
	dotEnv := filepath.Join(c.WorkDir, DotEnvFileName)

	stateDir, err := securejoin.SecureJoin(c.WorkDir, StateDirName)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve state directory: %w", err)
	}

	binDir, activate, python := "bin", "activate", "python"
	if runtime.GOOS == "windows" {
		binDir, activate, python = "Scripts", "activate.bat", "python.exe"
	}

	return &Paths{
		WorkDir:        c.WorkDir,
		VenvDir:        venvDir,
		ActivateScript: filepath.Join(venvDir, binDir, activate),
		VenvPython:     filepath.Join(venvDir, binDir, python),
		StateDir:       stateDir,
		HistoryFile:    filepath.Join(stateDir, HistoryFileName),
		DotEnv:         dotEnv,
	}, nil
}

// BinDir returns the directory holding the environment's executables.
func (p *Paths) BinDir() string {
	return filepath.Dir(p.VenvPython)
}

// Load reads a config file on top of the defaults. The format is chosen
// by extension: .yaml/.yml for YAML, anything else is TOML.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg, err := Decode(data, filepath.Ext(path))
	if err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Decode parses data in the format named by ext on top of the defaults and
// validates the result.
func Decode(data []byte, ext string) (*Config, error) {
	cfg := Default()
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(cfg); err != nil && err != io.EOF {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	default:
		md, err := toml.Decode(string(data), cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return nil, fmt.Errorf("unknown config key %q", undecoded[0].String())
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// Locate returns the config file to load: explicit wins, then $BOTLAUNCH_CONFIG,
// then the system-wide file when it exists. An empty result means defaults.
func Locate(explicit string, getenv func(string) string) string {
	if explicit != "" {
		return explicit
	}
	if p := getenv(ConfigEnvVar); p != "" {
		return p
	}
	system := filepath.Join(DefaultConfigDir, DefaultConfigFile)
	if _, err := os.Stat(system); err == nil {
		return system
	}
	return ""
}

// LoadOrDefault loads path, or returns the validated defaults when path is empty.
func LoadOrDefault(path string) (*Config, error) {
	if path == "" {
		cfg := Default()
		return cfg, cfg.Validate()
	}
	return Load(path)
}

// WriteTOML encodes the config as TOML.
func (c *Config) WriteTOML(w io.Writer) error {
	return toml.NewEncoder(w).Encode(c)
}
