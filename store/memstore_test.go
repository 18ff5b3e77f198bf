package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixtureMem(t *testing.T) *MemStore {
	t.Helper()
	ms := NewMem("fixture.h5")
	require.NoError(t, ms.WriteTrace("line_0/location_0/datacapture_0/echogram_0",
		[]float64{1, 2, 3}, map[string]string{"units": "mV"}))
	require.NoError(t, ms.WriteTrace("line_0/location_1/datacapture_0/echogram_0",
		[]float64{4, 5}, nil))
	require.NoError(t, ms.WriteTrace("line_1/location_0/datacapture_0/echogram_0",
		[]float64{6}, nil))
	return ms
}

func TestMemStoreChildren(t *testing.T) {
	ms := fixtureMem(t)

	names, err := ms.Children("")
	require.NoError(t, err)
	assert.Equal(t, []string{"line_0", "line_1"}, names)

	names, err = ms.Children("line_0")
	require.NoError(t, err)
	assert.Equal(t, []string{"location_0", "location_1"}, names)

	_, err = ms.Children("line_7")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = ms.Children("line_0/location_0/datacapture_0/echogram_0")
	assert.ErrorIs(t, err, ErrNotGroup)
}

func TestMemStoreListDescendantsDepthFirst(t *testing.T) {
	ms := fixtureMem(t)

	rels, err := ms.ListDescendants("line_0")
	require.NoError(t, err)
	assert.Equal(t, []string{
		"location_0",
		"location_0/datacapture_0",
		"location_0/datacapture_0/echogram_0",
		"location_1",
		"location_1/datacapture_0",
		"location_1/datacapture_0/echogram_0",
	}, rels)
}

func TestMemStoreLeaves(t *testing.T) {
	ms := fixtureMem(t)

	assert.True(t, ms.IsLeaf("line_0/location_0/datacapture_0/echogram_0"))
	assert.False(t, ms.IsLeaf("line_0/location_0"))
	assert.False(t, ms.IsLeaf("line_9/location_9"))

	vec, err := ms.ReadTrace("line_0/location_0/datacapture_0/echogram_0")
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 2, 3}, vec)

	// Returned vectors are copies, not views.
	vec[0] = 99
	again, err := ms.ReadTrace("line_0/location_0/datacapture_0/echogram_0")
	require.NoError(t, err)
	assert.Equal(t, float64(1), again[0])

	_, err = ms.ReadTrace("line_0/location_0")
	assert.ErrorIs(t, err, ErrNotLeaf)

	attrs := ms.Attrs("line_0/location_0/datacapture_0/echogram_0")
	assert.Equal(t, "mV", attrs["units"])
	assert.Empty(t, ms.Attrs("line_0/location_1/datacapture_0/echogram_0"))
}

func TestMemStoreCreateGroup(t *testing.T) {
	ms := fixtureMem(t)

	require.NoError(t, ms.CreateGroup("line_2"))
	names, err := ms.Children("")
	require.NoError(t, err)
	assert.Equal(t, []string{"line_0", "line_1", "line_2"}, names)

	err = ms.CreateGroup("line_2")
	assert.ErrorIs(t, err, ErrGroupExists)

	err = ms.CreateGroup("line_9/location_0")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCopySubtree(t *testing.T) {
	src := fixtureMem(t)
	dst := NewMem("out.h5")

	require.NoError(t, dst.CreateGroup("line_0"))
	require.NoError(t, Copy(src, "line_0/location_0", dst, "line_0/location_0"))

	rels, err := dst.ListDescendants("line_0")
	require.NoError(t, err)
	assert.Equal(t, []string{
		"location_0",
		"location_0/datacapture_0",
		"location_0/datacapture_0/echogram_0",
	}, rels)

	vec, err := dst.ReadTrace("line_0/location_0/datacapture_0/echogram_0")
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 2, 3}, vec)
	assert.Equal(t, "mV", dst.Attrs("line_0/location_0/datacapture_0/echogram_0")["units"])

	// Locations that were not copied stay absent.
	assert.False(t, dst.IsLeaf("line_0/location_1/datacapture_0/echogram_0"))
}
