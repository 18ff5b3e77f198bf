package survey

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPathToFID(t *testing.T) {
	cases := []struct {
		name   string
		path   string
		linLoc bool
		want   FID
	}{
		{
			name: "all four fields derive from their own segments",
			path: "line_1/location_2/datacapture_3/echogram_4",
			want: "0001000200030004",
		},
		{
			name: "leading slash tolerated",
			path: "/line_0/location_12/datacapture_0/echogram_0",
			want: "0000001200000000",
		},
		{
			name:   "line and location only",
			path:   "line_12/location_7",
			linLoc: true,
			want:   "0012000700000000",
		},
		{
			name:   "deeper path still resolves at location granularity",
			path:   "line_3/location_4/datacapture_1/echogram_0",
			linLoc: true,
			want:   "0003000400000000",
		},
		{
			name: "maximum width fields",
			path: "line_9999/location_9999/datacapture_9999/echogram_9999",
			want: "9999999999999999",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			fid, err := PathToFID(tc.path, tc.linLoc)
			require.NoError(t, err)
			assert.Equal(t, tc.want, fid)
			assert.Len(t, string(fid), 16)
		})
	}
}

func TestPathToFIDErrors(t *testing.T) {
	cases := []struct {
		name string
		path string
	}{
		{"missing segments", "line_1/location_2"},
		{"non-numeric suffix", "line_x/location_2/datacapture_0/echogram_0"},
		{"segments out of order", "location_1/line_2/datacapture_0/echogram_0"},
		{"no underscore suffix", "line/location_2/datacapture_0/echogram_0"},
		{"field overflows its width", "line_10000/location_0/datacapture_0/echogram_0"},
		{"empty path", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := PathToFID(tc.path, false)
			assert.ErrorIs(t, err, ErrPathFormat)
		})
	}
}

func TestPathToFIDInjective(t *testing.T) {
	values := []int{0, 1, 9, 10, 123, 9999}
	seen := make(map[FID]string)
	for _, lin := range values {
		for _, loc := range values {
			path := fmt.Sprintf("line_%d/location_%d/datacapture_1/echogram_0", lin, loc)
			fid, err := PathToFID(path, false)
			require.NoError(t, err)
			prev, dup := seen[fid]
			require.False(t, dup, "paths %s and %s collide on %s", prev, path, fid)
			seen[fid] = path
		}
	}
}
