// Package store provides access to the hierarchical containers that hold
// radar survey data. The Store interface is a capability view of one
// container: group/leaf enumeration, trace retrieval, and (for writable
// stores) group and trace creation. The production backend reads and
// writes HDF5 files; MemStore backs fixtures and tests.
//
// A Store is a scarce resource. Callers open one, perform a single
// logical operation, and close it before returning control; handles are
// never shared or kept across operations.
package store

// Mode selects how a store is opened.
type Mode int

const (
	// ModeRead opens an existing store read-only.
	ModeRead Mode = iota

	// ModeReadWrite opens an existing store for modification.
	ModeReadWrite

	// ModeCreate creates a new store, truncating any existing one.
	ModeCreate
)

// Store is a hierarchical container of groups and leaves. Paths are
// slash-delimited and relative to the container root ("line_0/location_3");
// the empty path names the root itself.
type Store interface {
	// Close releases the underlying handle. For writable stores it also
	// flushes pending structure, so its error must not be discarded.
	Close() error

	// ListDescendants returns every node below root, depth-first, named
	// relative to root.
	ListDescendants(root string) ([]string, error)

	// IsLeaf reports whether path names a leaf (a trace vector) rather
	// than a group. Nonexistent paths report false.
	IsLeaf(path string) bool

	// Children returns the immediate child names of a group.
	Children(path string) ([]string, error)

	// ReadTrace returns the 1-D numeric vector stored at a leaf.
	ReadTrace(path string) ([]float64, error)

	// Attrs returns the string-valued attributes attached to a node.
	// Nodes without attributes yield an empty map.
	Attrs(path string) map[string]string

	// CreateGroup creates the group named by path. Parent groups must
	// exist. Creating a group that already exists fails with
	// ErrGroupExists.
	CreateGroup(path string) error

	// WriteTrace stores a vector at path, creating intermediate groups
	// as needed, and attaches the given string attributes.
	WriteTrace(path string, values []float64, attrs map[string]string) error
}

// Opener constructs a Store for a container path. It exists so the survey
// layer can be pointed at a different backend (MemStore in tests) without
// touching its selection or assembly logic.
type Opener func(path string, mode Mode) (Store, error)
