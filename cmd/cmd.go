// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

// setupCommand handles setup operations for the config file and database.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Create config.toml and initialize the history database",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
				Value:   "config.toml",
			},
		},
		Action: r.Setup,
	}
}

// uiCommand returns the top-level command for the interactive build viewer.
func uiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "ui",
		Aliases: []string{"tui", "interactive"},
		Usage:   "Launch the build viewer and the tray control server",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "no-server",
				Usage: "Do not start the control server",
			},
		},
		Action: r.UI,
	}
}

// sourcesCommand lists build sources
func sourcesCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "sources",
		Aliases: []string{"src"},
		Usage:   "Build source operations",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List available build sources",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
						Value: true,
					},
				},
				Action: r.SourcesList,
			},
			{
				Name:  "browse",
				Usage: "Open a source's package page in the browser",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "source"},
				},
				Action: r.SourcesBrowse,
			},
		},
	}
}

// buildsCommand previews a champion's builds
func buildsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "builds",
		Usage: "Preview a champion's builds from a source",
		Arguments: []cli.Argument{
			&cli.StringArg{Name: "champion"},
		},
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "source",
				Aliases: []string{"s"},
				Usage:   "Build source",
				Value:   "op.gg",
			},
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "Output format (text, markdown, csv, json)",
				Value:   "text",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Output file path",
			},
		},
		Action: r.Builds,
	}
}

// applyCommand writes item sets for many champions
func applyCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "apply",
		Usage: "Write item sets from one or more sources into the client directory",
		Flags: []cli.Flag{
			&cli.StringSliceFlag{
				Name:    "source",
				Aliases: []string{"s"},
				Usage:   "Build source (repeatable, defaults to apply.default_sources)",
			},
			&cli.StringSliceFlag{
				Name:    "champion",
				Aliases: []string{"c"},
				Usage:   "Champion alias (repeatable, defaults to every champion)",
			},
			&cli.IntFlag{
				Name:  "workers",
				Usage: "Number of concurrent workers",
			},
			&cli.FloatFlag{
				Name:  "rate",
				Usage: "Champion fetches per second",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output the result as JSON",
			},
		},
		Action: r.Apply,
	}
}

// runeCommand handles rune page operations
func runeCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "rune",
		Usage: "Rune page operations",
		Commands: []*cli.Command{
			{
				Name:  "apply",
				Usage: "Replace the current rune page with a build's runes",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "champion"},
				},
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "source",
						Aliases: []string{"s"},
						Usage:   "Build source",
						Value:   "op.gg",
					},
					&cli.IntFlag{
						Name:    "index",
						Aliases: []string{"i"},
						Usage:   "Rune page number, as listed by 'champr builds'",
						Value:   1,
					},
				},
				Action: r.RuneApply,
			},
		},
	}
}

// lcuCommand handles direct calls to the game client API
func lcuCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "lcu",
		Usage: "Game client API operations",
		Commands: []*cli.Command{
			{
				Name:  "status",
				Usage: "Show the client connection and current summoner",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.LCUStatus,
			},
			{
				Name:  "get",
				Usage: "Direct GET to the client API, prints raw JSON",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "path"},
				},
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
						Value: true,
					},
				},
				Action: r.LCUGet,
			},
		},
	}
}

// trayCommand sends commands to a running 'champr ui'
func trayCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "tray",
		Usage: "Control a running build viewer",
		Commands: []*cli.Command{
			{
				Name:   "toggle",
				Usage:  "Show or hide the build viewer",
				Action: r.TrayToggle,
			},
			{
				Name:  "apply",
				Usage: "Write item sets for the current champion",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "source",
						Aliases: []string{"s"},
						Usage:   "Build source (defaults to the viewer's selection)",
					},
				},
				Action: r.TrayApply,
			},
			{
				Name:   "status",
				Usage:  "Show the viewer's connection state",
				Action: r.TrayStatus,
			},
		},
	}
}

// historyCommand lists recorded bulk apply jobs
func historyCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "history",
		Usage: "List recorded item-set apply jobs",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "limit",
				Aliases: []string{"n"},
				Usage:   "Maximum number of jobs to show",
				Value:   20,
			},
			&cli.StringFlag{
				Name:  "status",
				Usage: "Filter by status (pending, running, completed, partial, failed)",
			},
			&cli.StringFlag{
				Name:  "source",
				Usage: "Filter by source",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
		},
		Action: r.History,
	}
}

// cacheCommand handles the persisted icon cache
func cacheCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "cache",
		Usage: "Inspect or clear the icon cache",
		Commands: []*cli.Command{
			{
				Name:   "stats",
				Usage:  "Show icon cache size",
				Action: r.CacheStats,
			},
			{
				Name:   "clear",
				Usage:  "Delete every cached icon",
				Action: r.CacheClear,
			},
		},
	}
}
