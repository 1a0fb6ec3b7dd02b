// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

func configFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "Path to configuration file",
	}
}

// listCommand handles task listing from Notion
func listCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "list",
		Aliases: []string{"ls"},
		Usage:   "List tasks from the Notion database",
		Flags: []cli.Flag{
			configFlag(),
			&cli.BoolFlag{
				Name:  "detailed",
				Usage: "Show every page property",
			},
			&cli.BoolFlag{
				Name:  "raw",
				Usage: "Output raw page JSON",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output tasks as JSON",
			},
		},
		Action: r.List,
	}
}

// exportCommand handles syncing tasks to an exporter target
func exportCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "Export tasks to a calendar target",
		Flags: []cli.Flag{
			configFlag(),
			&cli.StringFlag{
				Name:    "exporter",
				Aliases: []string{"e"},
				Usage:   "Exporter target name",
				Value:   "apple_calendar",
			},
			&cli.BoolFlag{
				Name:  "dry-run",
				Usage: "Show what would change without touching the calendar",
			},
			&cli.BoolFlag{
				Name:  "reset-cache",
				Usage: "Discard a corrupt sync cache and start fresh",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output result as JSON",
			},
		},
		Action: r.Export,
	}
}

// accountsCommand lists calendar destinations
func accountsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "accounts",
		Usage:  "List available calendar destinations",
		Flags:  []cli.Flag{configFlag()},
		Action: r.Accounts,
	}
}

// runsCommand shows export run history
func runsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "runs",
		Usage: "Show export run history",
		Flags: []cli.Flag{
			configFlag(),
			&cli.StringFlag{
				Name:  "exporter",
				Usage: "Filter by exporter name",
			},
			&cli.IntFlag{
				Name:  "limit",
				Usage: "Maximum number of runs to show",
				Value: 20,
			},
		},
		Action: r.Runs,
	}
}

// setupCommand handles setup operations for configuration and the database.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Setup and configuration commands",
		Commands: []*cli.Command{
			{
				Name:  "config",
				Usage: "Create a config.toml from the bundled template",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "config",
						Aliases: []string{"c"},
						Usage:   "Path for the new configuration file",
						Value:   "config.toml",
					},
				},
				Action: r.SetupConfig,
			},
			{
				Name:  "database",
				Usage: "Initialize the database and run migrations",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "config",
						Aliases: []string{"c"},
						Usage:   "Path to configuration file",
						Value:   "config.toml",
					},
				},
				Action: r.SetupDatabase,
			},
		},
	}
}

// tuiCommand returns the top-level TUI command for interactive exports.
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "tui",
		Aliases: []string{"interactive", "ui"},
		Usage:   "Launch interactive TUI for task export",
		Flags:   []cli.Flag{configFlag()},
		Action:  r.TUI,
	}
}
