// Package host defines the capability set quickscene requires from a
// scene host. The core never talks to an editor directly; it only uses
// this interface, with opaque comparable identifiers for layers, objects
// and materials.
package host

import "errors"

// DefaultLayerName is the host's permanent default layer. It cannot be
// renamed, reparented or deleted.
const DefaultLayerName = "0"

// LayerID identifies a layer. The zero value means "no layer".
type LayerID int

// ObjectID identifies a scene object (node).
type ObjectID int

// MaterialID identifies a material instance. Material names are not
// unique; several instances may share a name.
type MaterialID int

// NoLayer is the absent layer id, used to detach a layer from its parent.
const NoLayer LayerID = 0

// DupPolicy controls how MergeFile treats incoming object names that
// collide with objects already in the scene.
type DupPolicy int

const (
	// RenameDups gives colliding incoming objects a fresh unique name.
	RenameDups DupPolicy = iota
	// SkipDups drops colliding incoming objects.
	SkipDups
)

var (
	// ErrNotFound reports a layer, object or material that does not exist.
	ErrNotFound = errors.New("not found")
	// ErrImmutableLayer reports an attempt to rename, reparent or delete
	// the default layer.
	ErrImmutableLayer = errors.New("default layer cannot be modified")
)

// Host is the scene host adapter. Implementations are not required to be
// safe for concurrent use; quickscene serializes all calls.
type Host interface {
	// Layers.
	NewLayer(name string) (LayerID, error)
	FindLayer(name string) (LayerID, bool)
	DeleteLayer(id LayerID) error
	LayerCount() int
	LayerAt(i int) LayerID
	LayerName(id LayerID) string
	SetLayerName(id LayerID, name string) error
	LayerParent(id LayerID) (LayerID, bool)
	// SetLayerParent with NoLayer detaches the layer from its parent.
	SetLayerParent(id, parent LayerID) error
	SetLayerVisible(id LayerID, on bool) error
	SetCurrentLayer(id LayerID) error
	CurrentLayer() LayerID
	DefaultLayer() LayerID

	// Objects.
	Objects() []ObjectID
	ObjectExists(id ObjectID) bool
	ObjectName(id ObjectID) string
	SetObjectName(id ObjectID, name string) error
	ObjectLayer(id ObjectID) LayerID
	MoveObject(id ObjectID, layer LayerID) error
	ObjectMaterial(id ObjectID) (MaterialID, bool)
	DeleteObjects(ids []ObjectID) error
	CloneObjects(ids []ObjectID) ([]ObjectID, error)

	// Materials.
	Materials() []MaterialID
	MaterialName(id MaterialID) string
	SetMaterialName(id MaterialID, name string) error

	// Selection.
	Selection() []ObjectID
	SetSelection(ids []ObjectID)
	ClearSelection()

	// Scene I/O.
	Reset()
	MergeFile(path string, policy DupPolicy, selectMerged bool) error
	SaveObjects(ids []ObjectID, path string) error

	// Dirty tracking and settling. Settle blocks until every previous
	// call has taken effect, so a SetDirty(false) immediately after it
	// sticks.
	Dirty() bool
	SetDirty(dirty bool)
	Settle()

	// SuppressNotifications scopes off host-side change broadcasts for a
	// bulk structural edit; the returned func restores them.
	SuppressNotifications() (restore func())
	Redraw()
}
