package survey

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/njwilson23/radar-tools/store"
)

// rewriteFixture builds a source store with lines {1, 2} and locations
// {0, 1} under each, and an opener that hands out the source for its path
// and a fresh MemStore for every ModeCreate open of anything else.
type rewriteFixture struct {
	src   *store.MemStore
	dests map[string]*store.MemStore
}

func newRewriteFixture(t *testing.T) *rewriteFixture {
	t.Helper()
	f := &rewriteFixture{
		src:   store.NewMem("src.h5"),
		dests: make(map[string]*store.MemStore),
	}
	for _, line := range []int{1, 2} {
		for _, loc := range []int{0, 1} {
			path := fmt.Sprintf("line_%d/location_%d/datacapture_0/echogram_0", line, loc)
			require.NoError(t, f.src.WriteTrace(path,
				[]float64{float64(line), float64(loc)},
				map[string]string{"annotation": "<x/>"}))
		}
	}
	return f
}

func (f *rewriteFixture) opener() store.Opener {
	return func(path string, mode store.Mode) (store.Store, error) {
		if path == "src.h5" {
			return f.src, nil
		}
		if mode == store.ModeCreate {
			d := store.NewMem(path)
			f.dests[path] = d
			return d, nil
		}
		return nil, fmt.Errorf("unexpected open of %s", path)
	}
}

func (f *rewriteFixture) survey(t *testing.T) *Survey {
	t.Helper()
	s, err := New("src.h5", WithOpener(f.opener()), WithLogger(discardLogger()))
	require.NoError(t, err)
	return s
}

func destStructure(t *testing.T, d *store.MemStore) []string {
	t.Helper()
	var leaves []string
	rels, err := d.ListDescendants("")
	require.NoError(t, err)
	for _, rel := range rels {
		if d.IsLeaf(rel) {
			leaves = append(leaves, rel)
		}
	}
	return leaves
}

func TestWriteFilteredDropsUnretainedLocations(t *testing.T) {
	f := newRewriteFixture(t)
	s := f.survey(t)

	s.SetRetain("line_1", "location_0", false)
	require.NoError(t, s.WriteFiltered("out.h5", false))

	d := f.dests["out.h5"]
	require.NotNil(t, d)
	assert.Equal(t, []string{
		"line_1/location_1/datacapture_0/echogram_0",
		"line_2/location_0/datacapture_0/echogram_0",
		"line_2/location_1/datacapture_0/echogram_0",
	}, destStructure(t, d))

	// Line groups exist even when every location under them survives.
	names, err := d.Children("")
	require.NoError(t, err)
	assert.Equal(t, []string{"line_1", "line_2"}, names)

	// Copied subtrees are verbatim: values and attributes.
	vec, err := d.ReadTrace("line_2/location_1/datacapture_0/echogram_0")
	require.NoError(t, err)
	assert.Equal(t, []float64{2, 1}, vec)
	assert.Equal(t, "<x/>", d.Attrs("line_2/location_1/datacapture_0/echogram_0")["annotation"])
}

func TestGatherRetainSteersRewrite(t *testing.T) {
	f := newRewriteFixture(t)
	s := f.survey(t)

	// Marking a location bad on the gather writes through to the survey,
	// so the next rewrite drops it.
	g, err := s.ExtractLine(1)
	require.NoError(t, err)
	g.Retain.Set("location_0", false)
	assert.False(t, s.Retention().Retained("line_1", "location_0"))

	require.NoError(t, s.WriteFiltered("out.h5", false))
	assert.Equal(t, []string{
		"line_1/location_1/datacapture_0/echogram_0",
		"line_2/location_0/datacapture_0/echogram_0",
		"line_2/location_1/datacapture_0/echogram_0",
	}, destStructure(t, f.dests["out.h5"]))
}

func TestWriteFilteredDestinationExists(t *testing.T) {
	f := newRewriteFixture(t)
	s := f.survey(t)

	existing := filepath.Join(t.TempDir(), "existing.h5")
	require.NoError(t, os.WriteFile(existing, []byte("x"), 0o644))

	err := s.WriteFiltered(existing, false)
	assert.ErrorIs(t, err, ErrDestinationExists)

	// Nothing was opened for writing.
	assert.Empty(t, f.dests)
}

func TestWriteFilteredIdempotent(t *testing.T) {
	f := newRewriteFixture(t)
	s := f.survey(t)
	s.SetRetain("line_2", "location_1", false)

	require.NoError(t, s.WriteFiltered("out.h5", true))
	first := destStructure(t, f.dests["out.h5"])

	require.NoError(t, s.WriteFiltered("out.h5", true))
	second := destStructure(t, f.dests["out.h5"])

	assert.Equal(t, first, second)
	assert.Equal(t, []string{
		"line_1/location_0/datacapture_0/echogram_0",
		"line_1/location_1/datacapture_0/echogram_0",
		"line_2/location_0/datacapture_0/echogram_0",
	}, second)
}

func TestWriteFilteredStructuralConflict(t *testing.T) {
	f := newRewriteFixture(t)

	// An opener that hands back a destination already containing a line
	// group simulates the impossible condition the engine must surface.
	stale := store.NewMem("stale.h5")
	require.NoError(t, stale.CreateGroup("line_1"))
	opener := func(path string, mode store.Mode) (store.Store, error) {
		if path == "src.h5" {
			return f.src, nil
		}
		return stale, nil
	}
	s, err := New("src.h5", WithOpener(opener), WithLogger(discardLogger()))
	require.NoError(t, err)

	err = s.WriteFiltered("stale.h5", true)
	assert.ErrorIs(t, err, ErrStructuralConflict)
	assert.Contains(t, err.Error(), "line_1")
}
