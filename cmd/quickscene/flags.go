package main

import urfavecli "github.com/urfave/cli/v2"

func globalFlags() []urfavecli.Flag {
	return []urfavecli.Flag{
		&urfavecli.StringFlag{
			Name:    "scene-dir",
			Aliases: []string{"d"},
			Usage:   "Directory containing the scene files to composite",
		},
		&urfavecli.StringFlag{
			Name:  "config-file",
			Usage: "Path to the configuration file",
		},
		&urfavecli.StringFlag{
			Name:  "debug-log",
			Usage: "Write debug logs to this file",
		},
		&urfavecli.BoolFlag{
			Name:  "detect",
			Usage: "Enable dirty and external-change detection (slower)",
		},
		&urfavecli.DurationFlag{
			Name:  "poll-interval",
			Usage: "Change-detector poll interval",
		},
		&urfavecli.BoolFlag{
			Name:  "no-watch",
			Usage: "Disable the filesystem watcher on the scene directory",
		},
	}
}
