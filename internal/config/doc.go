// Package config provides configuration types and loading for botlaunch.
//
// # Configuration File
//
// The launcher runs with built-in defaults. A file overrides them; it is
// found in this order:
//
//   - the --config flag
//   - $BOTLAUNCH_CONFIG
//   - /etc/botlaunch/config.toml, when present
//
// Files ending in .yaml or .yml are parsed as YAML, everything else as TOML:
//
//	workdir = "/opt/discord-bot"
//
//	[repo]
//	remote = "origin"
//	branch = "main"
//
//	[venv]
//	dir = "venv"
//	python = "python3"
//
//	[deps]
//	marker = "discord.py"
//	packages = ["discord.py", "python-dotenv", "Pillow", "SQLAlchemy"]
//
//	[launch]
//	entry = "main.py"
//	required_env = ["DISCORD_TOKEN"]
//
// Unknown keys are rejected.
//
// # Paths
//
// Resolve derives the venv, activation script, interpreter and launcher
// state locations. All of them are joined under workdir.
package config
