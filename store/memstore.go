package store

import (
	"fmt"
	"path"
	"strings"
)

// MemStore is an in-memory Store used for fixtures and tests. It mirrors
// the HDF5 backend's semantics, including depth-first enumeration and the
// duplicate-group check, but Close is a no-op so a single instance can
// back repeated open/close brackets.
type MemStore struct {
	name string
	root *memNode
}

type memNode struct {
	children map[string]*memNode
	order    []string // insertion order of children
	values   []float64
	leaf     bool
	attrs    map[string]string
}

func newMemNode() *memNode {
	return &memNode{children: make(map[string]*memNode)}
}

// NewMem returns an empty in-memory store. name is reported in errors.
func NewMem(name string) *MemStore {
	return &MemStore{name: name, root: newMemNode()}
}

// Opener returns an Opener that hands back this same store for every open,
// regardless of path or mode.
func (m *MemStore) Opener() Opener {
	return func(string, Mode) (Store, error) { return m, nil }
}

func (m *MemStore) Close() error { return nil }

func (m *MemStore) find(p string) (*memNode, bool) {
	n := m.root
	for _, seg := range segments(p) {
		child, ok := n.children[seg]
		if !ok {
			return nil, false
		}
		n = child
	}
	return n, true
}

func (m *MemStore) ListDescendants(root string) ([]string, error) {
	n, ok := m.find(root)
	if !ok {
		return nil, fmt.Errorf("%w: %s in %s", ErrNotFound, root, m.name)
	}
	var out []string
	var walk func(node *memNode, rel string)
	walk = func(node *memNode, rel string) {
		for _, name := range node.order {
			childRel := name
			if rel != "" {
				childRel = rel + "/" + name
			}
			out = append(out, childRel)
			walk(node.children[name], childRel)
		}
	}
	walk(n, "")
	return out, nil
}

func (m *MemStore) IsLeaf(p string) bool {
	n, ok := m.find(p)
	return ok && n.leaf
}

func (m *MemStore) Children(p string) ([]string, error) {
	n, ok := m.find(p)
	if !ok {
		return nil, fmt.Errorf("%w: %s in %s", ErrNotFound, p, m.name)
	}
	if n.leaf {
		return nil, fmt.Errorf("%w: %s", ErrNotGroup, p)
	}
	return append([]string(nil), n.order...), nil
}

func (m *MemStore) ReadTrace(p string) ([]float64, error) {
	n, ok := m.find(p)
	if !ok {
		return nil, fmt.Errorf("%w: %s in %s", ErrNotFound, p, m.name)
	}
	if !n.leaf {
		return nil, fmt.Errorf("%w: %s", ErrNotLeaf, p)
	}
	return append([]float64(nil), n.values...), nil
}

func (m *MemStore) Attrs(p string) map[string]string {
	out := make(map[string]string)
	n, ok := m.find(p)
	if !ok {
		return out
	}
	for k, v := range n.attrs {
		out[k] = v
	}
	return out
}

func (m *MemStore) CreateGroup(p string) error {
	p = strings.Trim(p, "/")
	if p == "" {
		return fmt.Errorf("%w: /", ErrGroupExists)
	}
	parent, ok := m.find(path.Dir(clean(p)))
	if !ok {
		return fmt.Errorf("%w: parent of %s", ErrNotFound, p)
	}
	name := path.Base(p)
	if _, exists := parent.children[name]; exists {
		return fmt.Errorf("%w: %s", ErrGroupExists, p)
	}
	parent.children[name] = newMemNode()
	parent.order = append(parent.order, name)
	return nil
}

// ensure returns the group node at p, creating missing ancestors.
func (m *MemStore) ensure(p string) *memNode {
	n := m.root
	for _, seg := range segments(p) {
		child, ok := n.children[seg]
		if !ok {
			child = newMemNode()
			n.children[seg] = child
			n.order = append(n.order, seg)
		}
		n = child
	}
	return n
}

func (m *MemStore) WriteTrace(p string, values []float64, attrs map[string]string) error {
	p = clean(p)
	if p == "" {
		return fmt.Errorf("%w: cannot write a trace at the root", ErrNotLeaf)
	}
	parent := m.ensure(path.Dir(p))
	name := path.Base(p)
	node, ok := parent.children[name]
	if !ok {
		node = newMemNode()
		parent.children[name] = node
		parent.order = append(parent.order, name)
	}
	node.leaf = true
	node.values = append([]float64(nil), values...)
	if len(attrs) > 0 {
		node.attrs = make(map[string]string, len(attrs))
		for k, v := range attrs {
			node.attrs[k] = v
		}
	}
	return nil
}

func segments(p string) []string {
	p = clean(p)
	if p == "" {
		return nil
	}
	return strings.Split(p, "/")
}
