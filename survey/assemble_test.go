package survey

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/njwilson23/radar-tools/store"
)

func TestAssemblePadsShortTraces(t *testing.T) {
	ms := store.NewMem("pad.h5")
	require.NoError(t, ms.WriteTrace("line_0/location_0/datacapture_0/echogram_0",
		[]float64{1, 2, 3, 4, 5}, nil))
	require.NoError(t, ms.WriteTrace("line_0/location_1/datacapture_0/echogram_0",
		[]float64{10, 11, 12}, nil))
	require.NoError(t, ms.WriteTrace("line_0/location_2/datacapture_0/echogram_0",
		[]float64{20, 21, 22, 23, 24, 25, 26}, nil))

	paths := []string{
		"line_0/location_0/datacapture_0/echogram_0",
		"line_0/location_1/datacapture_0/echogram_0",
		"line_0/location_2/datacapture_0/echogram_0",
	}
	arr, counts, err := assemble(ms, paths, 0)
	require.NoError(t, err)

	assert.Equal(t, 7, arr.Rows)
	assert.Equal(t, 3, arr.Cols)
	assert.Equal(t, []int{5, 3, 7}, counts)

	// The 3-sample trace fills rows 0..2 of its column, zeros after.
	assert.Equal(t, []float64{10, 11, 12, 0, 0, 0, 0}, arr.Column(1))

	// Full-length trace untouched.
	assert.Equal(t, []float64{20, 21, 22, 23, 24, 25, 26}, arr.Column(2))

	// Element access agrees with column access.
	assert.Equal(t, float64(4), arr.At(3, 0))
	assert.Equal(t, float64(0), arr.At(6, 0))
}

func TestAssembleDegenerateShapes(t *testing.T) {
	ms := store.NewMem("degenerate.h5")

	_, _, err := assemble(ms, nil, 4)
	assert.ErrorIs(t, err, ErrShapeDegenerate)
	assert.Contains(t, err.Error(), "line_4")

	require.NoError(t, ms.WriteTrace("line_4/location_0/datacapture_0/echogram_0",
		[]float64{}, nil))
	_, _, err = assemble(ms, []string{"line_4/location_0/datacapture_0/echogram_0"}, 4)
	assert.ErrorIs(t, err, ErrShapeDegenerate)
	assert.Contains(t, err.Error(), "line_4")
}

func TestAssembleMissingLeaf(t *testing.T) {
	ms := store.NewMem("missing.h5")
	_, _, err := assemble(ms, []string{"line_0/location_0/datacapture_0/echogram_0"}, 0)
	assert.ErrorIs(t, err, store.ErrNotFound)
}
