package store

import "errors"

// Common errors
var (
	ErrStoreNotFound = errors.New("survey store not found")
	ErrNotFound      = errors.New("object not found")
	ErrNotLeaf       = errors.New("object is not a trace leaf")
	ErrNotGroup      = errors.New("object is not a group")
	ErrGroupExists   = errors.New("group already exists")
	ErrReadOnly      = errors.New("store is not writable")
	ErrClosed        = errors.New("store is closed")
)
