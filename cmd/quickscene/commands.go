package main

import (
	"fmt"
	"io"

	urfavecli "github.com/urfave/cli/v2"

	"github.com/juansaizh/quickscene/internal/host"
	"github.com/juansaizh/quickscene/internal/host/memhost"
	"github.com/juansaizh/quickscene/internal/host/scenefile"
	"github.com/juansaizh/quickscene/internal/workspace"
)

// mergeCommand composites scenes headlessly and prints the resulting
// layer tree, mainly for scripting and sanity checks.
func mergeCommand() *urfavecli.Command {
	return &urfavecli.Command{
		Name:      "merge",
		Usage:     "Merge scene files and print the composited layer tree",
		ArgsUsage: "[files...]",
		Action: func(c *urfavecli.Context) error {
			cfg, err := loadConfig(c)
			if err != nil {
				return err
			}

			h := memhost.New()
			mgr := workspace.New(h, workspace.SilentPrompter{}, workspace.Options{
				Extensions:       cfg.Extensions,
				DisableDetection: true,
			})

			paths := c.Args().Slice()
			if len(paths) == 0 {
				if cfg.SceneDir == "" {
					return fmt.Errorf("no files given and no scene directory configured")
				}
				if paths, err = mgr.ScanDir(cfg.SceneDir); err != nil {
					return fmt.Errorf("scan %s: %w", cfg.SceneDir, err)
				}
			}
			if err := mgr.MergeAll(paths); err != nil {
				return err
			}

			printLayerTree(c.App.Writer, h)
			return nil
		},
	}
}

// inspectCommand prints the contents of one scene file.
func inspectCommand() *urfavecli.Command {
	return &urfavecli.Command{
		Name:      "inspect",
		Usage:     "Print the layers and objects of a scene file",
		ArgsUsage: "<file>",
		Action: func(c *urfavecli.Context) error {
			if c.NArg() != 1 {
				return fmt.Errorf("expected exactly one scene file")
			}
			doc, err := scenefile.Read(c.Args().First())
			if err != nil {
				return err
			}
			for _, l := range doc.Layers {
				if l.Parent != "" {
					fmt.Fprintf(c.App.Writer, "layer %q (parent %q)\n", l.Name, l.Parent)
				} else {
					fmt.Fprintf(c.App.Writer, "layer %q\n", l.Name)
				}
			}
			for _, o := range doc.Objects {
				fmt.Fprintf(c.App.Writer, "object %q layer=%q material=%q\n", o.Name, o.Layer, o.Material)
			}
			return nil
		},
	}
}

func printLayerTree(w io.Writer, h host.Host) {
	children := make(map[host.LayerID][]host.LayerID)
	var roots []host.LayerID
	for i := 0; i < h.LayerCount(); i++ {
		id := h.LayerAt(i)
		if parent, ok := h.LayerParent(id); ok {
			children[parent] = append(children[parent], id)
		} else {
			roots = append(roots, id)
		}
	}

	var walk func(id host.LayerID, depth int)
	walk = func(id host.LayerID, depth int) {
		indent := ""
		for i := 0; i < depth; i++ {
			indent += "  "
		}
		fmt.Fprintf(w, "%s%s\n", indent, h.LayerName(id))
		for _, child := range children[id] {
			walk(child, depth+1)
		}
	}
	for _, root := range roots {
		walk(root, 0)
	}
}
