// Package survey is the core of radar-tools: it opens a hierarchical
// survey store, selects and assembles radar traces into dense arrays,
// tags them with stable identifiers for metadata joins, consults an
// on-disk cache of assembled lines, and can rewrite a store down to its
// retained locations.
package survey

import "errors"

// Common errors
var (
	ErrPathFormat         = errors.New("path does not match the line/location/datacapture/echogram grammar")
	ErrShapeDegenerate    = errors.New("cannot determine a sample count")
	ErrDestinationExists  = errors.New("destination store already exists")
	ErrStructuralConflict = errors.New("group unexpectedly present in fresh destination")
	ErrNoSuchLine         = errors.New("line index out of range")
)
