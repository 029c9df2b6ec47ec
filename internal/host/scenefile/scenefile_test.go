package scenefile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTemp(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scene.scene.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestReadValidDocument(t *testing.T) {
	path := writeTemp(t, `
layers:
  - name: Props
  - name: Crates
    parent: Props
    visible: false
objects:
  - name: Crate01
    layer: Crates
    material: Wood
  - name: Floor
`)
	doc, err := Read(path)
	require.NoError(t, err)

	require.Len(t, doc.Layers, 2)
	assert.Equal(t, "Props", doc.Layers[0].Name)
	assert.Empty(t, doc.Layers[0].Parent)
	assert.Nil(t, doc.Layers[0].Visible)
	assert.Equal(t, "Props", doc.Layers[1].Parent)
	require.NotNil(t, doc.Layers[1].Visible)
	assert.False(t, *doc.Layers[1].Visible)

	require.Len(t, doc.Objects, 2)
	assert.Equal(t, "Crate01", doc.Objects[0].Name)
	assert.Equal(t, "Wood", doc.Objects[0].Material)
	assert.Empty(t, doc.Objects[1].Layer)
}

func TestReadRejectsInvalidDocuments(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{
			name: "duplicate layer names",
			content: `
layers:
  - name: Props
  - name: Props
`,
		},
		{
			name: "unknown parent",
			content: `
layers:
  - name: Props
    parent: Missing
`,
		},
		{
			name: "object on unknown layer",
			content: `
objects:
  - name: Crate01
    layer: Missing
`,
		},
		{
			name: "empty layer name",
			content: `
layers:
  - name: ""
`,
		},
		{
			name: "empty object name",
			content: `
objects:
  - name: ""
`,
		},
		{
			name:    "malformed yaml",
			content: "layers: [",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Read(writeTemp(t, tt.content))
			assert.Error(t, err)
		})
	}
}

func TestReadMissingFile(t *testing.T) {
	_, err := Read(filepath.Join(t.TempDir(), "nope.scene.yaml"))
	assert.Error(t, err)
}

func TestWriteReadRoundTrip(t *testing.T) {
	off := false
	doc := &Document{
		Layers: []Layer{
			{Name: "Props"},
			{Name: "Crates", Parent: "Props", Visible: &off},
		},
		Objects: []Object{
			{Name: "Crate01", Layer: "Crates", Material: "Wood"},
			{Name: "Floor"},
		},
	}

	path := filepath.Join(t.TempDir(), "out.scene.yaml")
	require.NoError(t, Write(path, doc))

	got, err := Read(path)
	require.NoError(t, err)
	assert.Equal(t, doc.Layers, got.Layers)
	assert.Equal(t, doc.Objects, got.Objects)
}
