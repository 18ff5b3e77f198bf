package store

import (
	"fmt"
	"os"
	"path"
	"strings"

	"github.com/robert-malhotra/go-hdf5/hdf5"
)

// hdf5Store is the production backend: one HDF5 file per survey.
type hdf5Store struct {
	path   string
	file   *hdf5.File
	closed bool

	// Groups created during a write session, keyed by cleaned relative
	// path. Freshly written groups are navigated through this map rather
	// than re-opened from disk before the file is flushed.
	created map[string]*hdf5.Group
}

// Open opens the HDF5 container at p. Opening a nonexistent container for
// read fails with ErrStoreNotFound.
func Open(p string, mode Mode) (Store, error) {
	var (
		f   *hdf5.File
		err error
	)
	switch mode {
	case ModeRead:
		if _, serr := os.Stat(p); os.IsNotExist(serr) {
			return nil, fmt.Errorf("%w: %s", ErrStoreNotFound, p)
		}
		f, err = hdf5.Open(p)
	case ModeReadWrite:
		f, err = hdf5.OpenReadWrite(p)
	case ModeCreate:
		f, err = hdf5.Create(p)
	default:
		return nil, fmt.Errorf("unknown open mode %d", mode)
	}
	if err != nil {
		return nil, fmt.Errorf("opening store %s: %w", p, err)
	}
	return &hdf5Store{path: p, file: f, created: make(map[string]*hdf5.Group)}, nil
}

func (h *hdf5Store) Close() error {
	if h.closed {
		return nil
	}
	h.closed = true
	if err := h.file.Close(); err != nil {
		return fmt.Errorf("closing store %s: %w", h.path, err)
	}
	return nil
}

// groupAt resolves a relative path to a group, consulting the created-group
// map first so that unflushed groups remain reachable.
func (h *hdf5Store) groupAt(p string) (*hdf5.Group, error) {
	p = clean(p)
	if p == "" {
		return h.file.Root(), nil
	}
	if g, ok := h.created[p]; ok {
		return g, nil
	}
	g, err := h.file.OpenGroup(p)
	if err != nil {
		return nil, fmt.Errorf("%w: group %s", ErrNotFound, p)
	}
	return g, nil
}

func (h *hdf5Store) ListDescendants(root string) ([]string, error) {
	if h.closed {
		return nil, ErrClosed
	}
	g, err := h.groupAt(root)
	if err != nil {
		return nil, err
	}
	prefix := g.Path()
	var out []string
	err = hdf5.Walk(g, func(p string, obj interface{}, err error) error {
		if err != nil {
			return err
		}
		if p == prefix {
			return nil
		}
		out = append(out, strings.TrimPrefix(strings.TrimPrefix(p, prefix), "/"))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking %s: %w", root, err)
	}
	return out, nil
}

func (h *hdf5Store) IsLeaf(p string) bool {
	if h.closed {
		return false
	}
	_, err := h.file.OpenDataset(clean(p))
	return err == nil
}

func (h *hdf5Store) Children(p string) ([]string, error) {
	if h.closed {
		return nil, ErrClosed
	}
	if _, err := h.file.OpenDataset(clean(p)); err == nil {
		return nil, fmt.Errorf("%w: %s", ErrNotGroup, p)
	}
	g, err := h.groupAt(p)
	if err != nil {
		return nil, err
	}
	members, err := g.Members()
	if err != nil {
		return nil, fmt.Errorf("listing members of %s: %w", p, err)
	}
	return members, nil
}

func (h *hdf5Store) ReadTrace(p string) ([]float64, error) {
	if h.closed {
		return nil, ErrClosed
	}
	d, err := h.file.OpenDataset(clean(p))
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrNotLeaf, p)
	}
	return readVector(d)
}

// readVector reads a 1-D dataset as float64, converting from the narrower
// numeric types digitizers actually record.
func readVector(d *hdf5.Dataset) ([]float64, error) {
	if v, err := d.ReadFloat64(); err == nil {
		return v, nil
	}
	if v, err := d.ReadFloat32(); err == nil {
		return widen(v), nil
	}
	if v, err := d.ReadInt64(); err == nil {
		return widen(v), nil
	}
	if v, err := d.ReadInt32(); err == nil {
		return widen(v), nil
	}
	if v, err := d.ReadInt16(); err == nil {
		return widen(v), nil
	}
	if v, err := d.ReadUint16(); err == nil {
		return widen(v), nil
	}
	return nil, fmt.Errorf("reading %s: unsupported trace datatype", d.Path())
}

func widen[T float32 | int64 | int32 | int16 | uint16](v []T) []float64 {
	out := make([]float64, len(v))
	for i, x := range v {
		out[i] = float64(x)
	}
	return out
}

func (h *hdf5Store) Attrs(p string) map[string]string {
	out := make(map[string]string)
	if h.closed {
		return out
	}
	p = clean(p)

	// Probe for a dataset first, then a group.
	if d, err := h.file.OpenDataset(p); err == nil {
		for _, name := range d.Attrs() {
			if a := d.Attr(name); a != nil {
				if s, err := a.ReadScalarString(); err == nil {
					out[name] = s
				}
			}
		}
		return out
	}
	if g, err := h.file.OpenGroup(p); err == nil {
		for _, name := range g.Attrs() {
			if a := g.Attr(name); a != nil {
				if s, err := a.ReadScalarString(); err == nil {
					out[name] = s
				}
			}
		}
	}
	return out
}

func (h *hdf5Store) CreateGroup(p string) error {
	if h.closed {
		return ErrClosed
	}
	p = clean(p)
	if p == "" {
		return fmt.Errorf("%w: /", ErrGroupExists)
	}
	if _, ok := h.created[p]; ok {
		return fmt.Errorf("%w: %s", ErrGroupExists, p)
	}
	if _, err := h.file.OpenGroup(p); err == nil {
		return fmt.Errorf("%w: %s", ErrGroupExists, p)
	}
	parent, err := h.groupAt(path.Dir(p))
	if err != nil {
		return err
	}
	g, err := parent.CreateGroup(path.Base(p))
	if err != nil {
		return fmt.Errorf("creating group %s: %w", p, err)
	}
	h.created[p] = g
	return nil
}

// ensureGroup returns the group at p, creating missing ancestors.
func (h *hdf5Store) ensureGroup(p string) (*hdf5.Group, error) {
	p = clean(p)
	if g, err := h.groupAt(p); err == nil {
		return g, nil
	}
	if _, err := h.ensureGroup(path.Dir(p)); err != nil {
		return nil, err
	}
	if err := h.CreateGroup(p); err != nil {
		return nil, err
	}
	return h.created[p], nil
}

func (h *hdf5Store) WriteTrace(p string, values []float64, attrs map[string]string) error {
	if h.closed {
		return ErrClosed
	}
	p = clean(p)
	parent, err := h.ensureGroup(path.Dir(p))
	if err != nil {
		return err
	}
	opts := make([]hdf5.DatasetOption, 0, len(attrs))
	for name, val := range attrs {
		opts = append(opts, hdf5.WithAttribute(name, val))
	}
	if _, err := parent.CreateDataset(path.Base(p), values, opts...); err != nil {
		return fmt.Errorf("writing trace %s: %w", p, err)
	}
	return nil
}

// clean normalizes a relative store path: no leading or trailing slash,
// "" for the root. path.Dir on a single-segment result yields "." which
// also cleans to "".
func clean(p string) string {
	p = strings.Trim(p, "/")
	if p == "." {
		return ""
	}
	return p
}
