// Package config loads the quickscene configuration from YAML.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// AppConfig defines the global quickscene configuration options.
type AppConfig struct {
	SceneDir         string   `yaml:"scene_dir"`         // directory scanned for scene files
	Extensions       []string `yaml:"extensions"`        // scene file extensions, with leading dot
	PollIntervalMS   int      `yaml:"poll_interval_ms"`  // change-detector tick, milliseconds
	SweepEvery       int      `yaml:"sweep_every"`       // inactive-entry sweep, in ticks
	DisableDetection bool     `yaml:"disable_detection"` // skip dirty tracking; faster
	WatchSceneDir    bool     `yaml:"watch_scene_dir"`   // fsnotify accelerator for the poll loop
	DebugLog         string   `yaml:"debug_log"`         // debug log file path
	ScratchPath      string   `yaml:"scratch_path"`      // throwaway save target for force-clean

	// PollInterval is derived from PollIntervalMS; flags may override it.
	PollInterval time.Duration `yaml:"-"`
}

// DefaultConfig returns the default configuration values. Detection is
// off by default since every tick costs a host dirty query and a stat;
// --detect or the config file turns it on.
func DefaultConfig() *AppConfig {
	return &AppConfig{
		Extensions:       []string{".scene.yaml", ".scene.yml"},
		PollIntervalMS:   500,
		PollInterval:     500 * time.Millisecond,
		SweepEvery:       10,
		DisableDetection: true,
		WatchSceneDir:    true,
	}
}

// LoadConfig reads the configuration file, or the default locations
// under the user config dir when path is empty. A missing file is not
// an error; defaults apply.
func LoadConfig(path string) (*AppConfig, error) {
	var paths []string
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return DefaultConfig(), err
		}
		paths = []string{expanded}
	} else {
		base := filepath.Join(configDir(), "quickscene")
		paths = []string{
			filepath.Join(base, "config.yaml"),
			filepath.Join(base, "config.yml"),
		}
	}

	cfg := DefaultConfig()
	for _, p := range paths {
		// #nosec G304 -- the path is the user's own config file
		data, err := os.ReadFile(p)
		if os.IsNotExist(err) {
			continue
		}
		if err != nil {
			return cfg, err
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return DefaultConfig(), fmt.Errorf("parse %s: %w", p, err)
		}
		break
	}

	cfg.normalize()
	return cfg, nil
}

func (c *AppConfig) normalize() {
	if len(c.Extensions) == 0 {
		c.Extensions = DefaultConfig().Extensions
	}
	for i, ext := range c.Extensions {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext != "" && !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		c.Extensions[i] = ext
	}
	if c.PollIntervalMS > 0 {
		c.PollInterval = time.Duration(c.PollIntervalMS) * time.Millisecond
	}
	if c.PollInterval <= 0 {
		c.PollInterval = 500 * time.Millisecond
	}
	if c.SweepEvery <= 0 {
		c.SweepEvery = 10
	}
}

func configDir() string {
	if xdgConfigHome := os.Getenv("XDG_CONFIG_HOME"); xdgConfigHome != "" {
		return xdgConfigHome
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config")
}

func expandPath(path string) (string, error) {
	if strings.HasPrefix(path, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		path = filepath.Join(home, path[1:])
	}
	return os.ExpandEnv(path), nil
}
