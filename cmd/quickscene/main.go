// Package main is the entry point for the quickscene application.
package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	urfavecli "github.com/urfave/cli/v2"

	"github.com/juansaizh/quickscene/internal/app"
	"github.com/juansaizh/quickscene/internal/buildinfo"
	"github.com/juansaizh/quickscene/internal/config"
	"github.com/juansaizh/quickscene/internal/host/memhost"
	"github.com/juansaizh/quickscene/internal/log"
	"github.com/juansaizh/quickscene/internal/models"
	"github.com/juansaizh/quickscene/internal/workspace"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
	builtBy = "unknown"
)

func main() {
	buildinfo.Set(version, commit, date, builtBy)
	buildinfo.Enrich()

	cliApp := &urfavecli.App{
		Name:    "quickscene",
		Usage:   "Composite scene files into one working scene as switchable layers",
		Version: buildinfo.Version(),

		Flags: globalFlags(),

		Commands: []*urfavecli.Command{
			mergeCommand(),
			inspectCommand(),
		},

		Action: runTUI,
	}

	if err := cliApp.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}

func loadConfig(c *urfavecli.Context) (*config.AppConfig, error) {
	cfg, err := config.LoadConfig(c.String("config-file"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		cfg = config.DefaultConfig()
	}
	if dir := c.String("scene-dir"); dir != "" {
		cfg.SceneDir = dir
	}
	if c.Bool("detect") {
		cfg.DisableDetection = false
	}
	if iv := c.Duration("poll-interval"); iv > 0 {
		cfg.PollInterval = iv
	}
	if c.Bool("no-watch") {
		cfg.WatchSceneDir = false
	}
	if dl := c.String("debug-log"); dl != "" {
		cfg.DebugLog = dl
	}
	if err := log.SetFile(cfg.DebugLog); err != nil {
		fmt.Fprintf(os.Stderr, "Error opening debug log file %q: %v\n", cfg.DebugLog, err)
	}
	return cfg, nil
}

// runTUI is the default action that launches the TUI.
func runTUI(c *urfavecli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	if cfg.SceneDir == "" {
		cfg.SceneDir, _ = os.Getwd()
	}
	defer func() { _ = log.Close() }()

	prompter := app.NewPrompter()
	mgr := workspace.New(memhost.New(), prompter, workspace.Options{
		Extensions:       cfg.Extensions,
		DisableDetection: cfg.DisableDetection,
		SweepEvery:       cfg.SweepEvery,
		ScratchPath:      cfg.ScratchPath,
		Publish: func(st models.PublishedState) {
			log.Printf("active: %s (%d cyan marked)", st.ActivePath, len(st.CyanMarked))
		},
	})

	var watcher *workspace.Watcher
	if cfg.WatchSceneDir {
		if watcher, err = workspace.WatchDir(mgr, cfg.SceneDir); err != nil {
			log.Printf("scene dir watch disabled: %v", err)
			watcher = nil
		}
	}
	if watcher != nil {
		defer func() { _ = watcher.Close() }()
	}

	prog := tea.NewProgram(app.NewModel(cfg, mgr), tea.WithAltScreen())
	prompter.Attach(prog)

	_, err = prog.Run()
	return err
}
