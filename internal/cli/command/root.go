// Package command provides CLI command definitions for flatkv.
//
// It uses urfave/cli/v2 for command parsing. Every command is
// one-shot: it opens the store, performs the operation and exits.
package command

import (
	"fmt"

	"github.com/urfave/cli/v2"
)

// Build information, set via ldflags.
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

// App creates the CLI application.
func App() *cli.App {
	return &cli.App{
		Name:    "flatkv",
		Usage:   "Flat-file key-value store management tool",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildTime),
		Flags:   globalFlags(),
		Commands: []*cli.Command{
			GetCommand(),
			SetCommand(),
			DelCommand(),
			KeysCommand(),
			CountCommand(),
			DestroyCommand(),
			BackupCommand(),
			WatchCommand(),
		},
	}
}

// globalFlags returns the global CLI flags.
func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "Path to YAML configuration file",
			EnvVars: []string{"FLATKV_CONFIG"},
		},
		&cli.StringFlag{
			Name:    "dir",
			Aliases: []string{"d"},
			Usage:   "Directory holding the backing file",
			EnvVars: []string{"FLATKV_STORE_DIR"},
		},
		&cli.StringFlag{
			Name:    "file",
			Aliases: []string{"f"},
			Usage:   "Backing file name",
			EnvVars: []string{"FLATKV_STORE_FILENAME"},
		},
		&cli.BoolFlag{
			Name:    "encrypt",
			Aliases: []string{"e"},
			Usage:   "Encrypt values at rest",
			EnvVars: []string{"FLATKV_STORE_ENCRYPT"},
		},
		&cli.StringFlag{
			Name:    "passphrase",
			Aliases: []string{"p"},
			Usage:   "Encryption passphrase (prefer the environment variable)",
			EnvVars: []string{"FLATKV_PASSPHRASE"},
		},
		&cli.StringFlag{
			Name:    "salt",
			Usage:   "Key derivation salt",
			EnvVars: []string{"FLATKV_STORE_SALT"},
		},
		&cli.StringFlag{
			Name:    "log-level",
			Usage:   "Log level: debug, info, warn, error",
			EnvVars: []string{"FLATKV_LOG_LEVEL"},
		},
		&cli.StringFlag{
			Name:    "log-format",
			Usage:   "Log format: json, text",
			EnvVars: []string{"FLATKV_LOG_FORMAT"},
		},
	}
}
