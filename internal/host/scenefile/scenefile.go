// Package scenefile reads and writes the YAML scene documents the
// memory host binds to. A document lists layers (with optional parent
// and visibility), objects (with layer and material references by name)
// and nothing else; materials exist implicitly through object references.
package scenefile

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Layer describes one layer in a scene document. An empty parent means
// the layer is top-level. Visibility defaults to true when omitted.
type Layer struct {
	Name    string `yaml:"name"`
	Parent  string `yaml:"parent,omitempty"`
	Visible *bool  `yaml:"visible,omitempty"`
}

// Object describes one scene object. An empty layer places the object on
// the host's default layer.
type Object struct {
	Name     string `yaml:"name"`
	Layer    string `yaml:"layer,omitempty"`
	Material string `yaml:"material,omitempty"`
}

// Document is a full scene file.
type Document struct {
	Layers  []Layer  `yaml:"layers,omitempty"`
	Objects []Object `yaml:"objects,omitempty"`
}

// Read loads and validates a scene document.
func Read(path string) (*Document, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- scene paths come from the user's own workspace
	if err != nil {
		return nil, err
	}
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := doc.validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &doc, nil
}

// Write marshals a scene document to path, truncating any previous file.
func Write(path string, doc *Document) error {
	data, err := yaml.Marshal(doc)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644) // #nosec G306 -- scene files are shared project data
}

func (d *Document) validate() error {
	seen := make(map[string]bool, len(d.Layers))
	for _, l := range d.Layers {
		if l.Name == "" {
			return fmt.Errorf("layer with empty name")
		}
		if seen[l.Name] {
			return fmt.Errorf("duplicate layer %q", l.Name)
		}
		seen[l.Name] = true
	}
	for _, l := range d.Layers {
		if l.Parent != "" && !seen[l.Parent] {
			return fmt.Errorf("layer %q: unknown parent %q", l.Name, l.Parent)
		}
	}
	for _, o := range d.Objects {
		if o.Name == "" {
			return fmt.Errorf("object with empty name")
		}
		if o.Layer != "" && !seen[o.Layer] {
			return fmt.Errorf("object %q: unknown layer %q", o.Name, o.Layer)
		}
	}
	return nil
}
