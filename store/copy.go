package store

import (
	"errors"
	"fmt"
)

// Copy replicates the subtree rooted at srcPath in src into dst at
// dstPath: groups, trace leaves, and their string attributes. Anything the
// backends do not expose through the Store interface (free-form object
// comments, non-string attributes) is not carried over.
func Copy(src Store, srcPath string, dst Store, dstPath string) error {
	if src.IsLeaf(srcPath) {
		return copyLeaf(src, srcPath, dst, dstPath)
	}
	if err := dst.CreateGroup(dstPath); err != nil && !errors.Is(err, ErrGroupExists) {
		return err
	}
	children, err := src.Children(srcPath)
	if err != nil {
		return fmt.Errorf("copying %s: %w", srcPath, err)
	}
	for _, name := range children {
		if err := Copy(src, srcPath+"/"+name, dst, dstPath+"/"+name); err != nil {
			return err
		}
	}
	return nil
}

func copyLeaf(src Store, srcPath string, dst Store, dstPath string) error {
	values, err := src.ReadTrace(srcPath)
	if err != nil {
		return fmt.Errorf("copying %s: %w", srcPath, err)
	}
	if err := dst.WriteTrace(dstPath, values, src.Attrs(srcPath)); err != nil {
		return fmt.Errorf("copying %s: %w", srcPath, err)
	}
	return nil
}
