package survey

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// FID is the fixed-width identifier derived from a hierarchical path:
// four zero-padded 4-digit fields (line, location, datacapture, echogram)
// concatenated into 16 digits. FIDs are the join keys between traces and
// their metadata records, so derivation never defaults silently.
type FID string

const fidFieldWidth = 4

var segmentPattern = regexp.MustCompile(`^(line|location|datacapture|echogram)_(\d+)$`)

var fidLevels = [4]string{"line", "location", "datacapture", "echogram"}

// PathToFID derives the identifier for a hierarchical path such as
// "line_1/location_12/datacapture_0/echogram_0". A leading slash is
// tolerated. When linLocOnly is true only the first two levels are
// required and the datacapture and echogram fields are forced to 0 (used
// for retention bookkeeping, where paths resolve to location granularity).
//
// Each field is derived from its own segment. A missing segment, a suffix
// that is not a non-negative integer, or a field too wide for its 4-digit
// slot fails with ErrPathFormat.
func PathToFID(p string, linLocOnly bool) (FID, error) {
	parts := strings.Split(strings.Trim(p, "/"), "/")
	need := len(fidLevels)
	if linLocOnly {
		need = 2
	}
	if len(parts) < need {
		return "", fmt.Errorf("%w: %q has %d segments, need %d", ErrPathFormat, p, len(parts), need)
	}

	var fields [4]int
	for i := 0; i < need; i++ {
		m := segmentPattern.FindStringSubmatch(parts[i])
		if m == nil || m[1] != fidLevels[i] {
			return "", fmt.Errorf("%w: segment %q is not %s_<n> in %q", ErrPathFormat, parts[i], fidLevels[i], p)
		}
		n, err := strconv.Atoi(m[2])
		if err != nil {
			return "", fmt.Errorf("%w: segment %q in %q: %v", ErrPathFormat, parts[i], p, err)
		}
		fields[i] = n
	}

	var b strings.Builder
	for i, n := range fields {
		s := strconv.Itoa(n)
		if len(s) > fidFieldWidth {
			return "", fmt.Errorf("%w: %s number %d overflows its %d-digit field in %q",
				ErrPathFormat, fidLevels[i], n, fidFieldWidth, p)
		}
		b.WriteString(strings.Repeat("0", fidFieldWidth-len(s)))
		b.WriteString(s)
	}
	return FID(b.String()), nil
}

// lineName renders the group name for a line number.
func lineName(line int) string {
	return fmt.Sprintf("line_%d", line)
}

// segmentNumber extracts the integer suffix of a <prefix>_<n> segment.
func segmentNumber(segment string) (int, error) {
	m := segmentPattern.FindStringSubmatch(segment)
	if m == nil {
		return 0, fmt.Errorf("%w: segment %q", ErrPathFormat, segment)
	}
	return strconv.Atoi(m[2])
}
