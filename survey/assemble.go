package survey

import (
	"fmt"

	"github.com/njwilson23/radar-tools/store"
)

// Array is a dense rectangular trace block: Rows samples by Cols traces,
// row-major. Columns are traces in location order; traces shorter than
// Rows are zero-padded at the bottom.
type Array struct {
	Data []float64
	Rows int
	Cols int
}

func newArray(rows, cols int) *Array {
	return &Array{Data: make([]float64, rows*cols), Rows: rows, Cols: cols}
}

// At returns the sample at row i of trace j.
func (a *Array) At(i, j int) float64 {
	return a.Data[i*a.Cols+j]
}

// Column returns a copy of trace j, padding included.
func (a *Array) Column(j int) []float64 {
	out := make([]float64, a.Rows)
	for i := range out {
		out[i] = a.Data[i*a.Cols+j]
	}
	return out
}

// assemble reads every selected leaf and packs the vectors into a single
// zero-filled rectangle sized by the longest trace. Sample counts vary
// within a line in the field, so short traces padding out with zeros is
// the intended policy, not an error. A line with no usable traces aborts
// with ErrShapeDegenerate naming the line.
func assemble(st store.Store, paths []string, line int) (*Array, []int, error) {
	if len(paths) == 0 {
		return nil, nil, fmt.Errorf("%w: %s has no traces to assemble", ErrShapeDegenerate, lineName(line))
	}

	vectors := make([][]float64, len(paths))
	counts := make([]int, len(paths))
	maxSamples := 0
	for j, p := range paths {
		v, err := st.ReadTrace(p)
		if err != nil {
			return nil, nil, fmt.Errorf("reading trace %s: %w", p, err)
		}
		vectors[j] = v
		counts[j] = len(v)
		if len(v) > maxSamples {
			maxSamples = len(v)
		}
	}
	if maxSamples == 0 {
		return nil, nil, fmt.Errorf("%w: every trace in %s is empty", ErrShapeDegenerate, lineName(line))
	}

	arr := newArray(maxSamples, len(paths))
	for j, v := range vectors {
		for i, x := range v {
			arr.Data[i*arr.Cols+j] = x
		}
	}
	return arr, counts, nil
}
