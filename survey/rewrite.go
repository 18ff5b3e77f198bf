package survey

import (
	"errors"
	"fmt"
	"os"

	"github.com/njwilson23/radar-tools/store"
)

// WriteFiltered writes a copy of the survey store to dest containing only
// the retained locations. The usage case is shedding locations that
// analysis flagged as bad. Each retained location subtree is copied
// verbatim; dropped locations are silently omitted. Store-level comments
// beyond what the copy primitive carries are not preserved.
//
// An existing destination without overwrite fails with
// ErrDestinationExists before anything is written. A line group already
// present in the freshly created destination is structurally impossible
// and fails loudly with ErrStructuralConflict.
func (s *Survey) WriteFiltered(dest string, overwrite bool) (err error) {
	if _, serr := os.Stat(dest); serr == nil && !overwrite {
		return fmt.Errorf("%w: %s", ErrDestinationExists, dest)
	}

	src, err := s.open(s.path, store.ModeRead)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := src.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	dst, err := s.open(dest, store.ModeCreate)
	if err != nil {
		return fmt.Errorf("creating destination store: %w", err)
	}
	defer func() {
		if cerr := dst.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	lines, err := lineGroups(src)
	if err != nil {
		return err
	}
	for _, line := range lines {
		if err := dst.CreateGroup(line); err != nil {
			if errors.Is(err, store.ErrGroupExists) {
				return fmt.Errorf("%w: %s already present in %s", ErrStructuralConflict, line, dest)
			}
			return err
		}
		s.log.Info("writing line", "line", line)

		locations, err := src.Children(line)
		if err != nil {
			return fmt.Errorf("listing locations of %s: %w", line, err)
		}
		for _, loc := range locations {
			if !s.retain.Retained(line, loc) {
				continue
			}
			subtree := line + "/" + loc
			if err := store.Copy(src, subtree, dst, subtree); err != nil {
				return fmt.Errorf("copying %s: %w", subtree, err)
			}
		}
	}
	return nil
}
