package survey

import (
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"strings"

	"github.com/njwilson23/radar-tools/store"
)

// pickedMarker flags computed overlays (picked horizons and the like).
// Nodes whose path carries it hold derived data, never raw traces, and are
// excluded from extraction.
const pickedMarker = "picked"

// ChannelSpec names the datacapture channels to extract. The zero value
// selects channel 0.
type ChannelSpec []int

// Channels builds a spec from one or more channel numbers.
func Channels(nums ...int) ChannelSpec { return ChannelSpec(nums) }

func (c ChannelSpec) labels() map[string]bool {
	if len(c) == 0 {
		c = ChannelSpec{0}
	}
	out := make(map[string]bool, len(c))
	for _, n := range c {
		out[fmt.Sprintf("datacapture_%d", n)] = true
	}
	return out
}

func (c ChannelSpec) String() string {
	if len(c) == 0 {
		return "0"
	}
	parts := make([]string, len(c))
	for i, n := range c {
		parts[i] = strconv.Itoa(n)
	}
	return strings.Join(parts, ",")
}

// Bounds restricts extraction to a half-open index range over the sorted
// trace sequence. A nil side leaves that end unbounded.
type Bounds struct {
	Lo, Hi *int
}

// ParseBounds reads "lo:hi" text (either side may be empty). Malformed
// text is reported to the caller, who skips bounding rather than aborting
// the extraction.
func ParseBounds(s string) (*Bounds, error) {
	lo, hi, ok := strings.Cut(s, ":")
	if !ok {
		return nil, fmt.Errorf("bounds must be a lo:hi pair, got %q", s)
	}
	var b Bounds
	if lo != "" {
		n, err := strconv.Atoi(lo)
		if err != nil {
			return nil, fmt.Errorf("bounds lower index %q: %w", lo, err)
		}
		b.Lo = &n
	}
	if hi != "" {
		n, err := strconv.Atoi(hi)
		if err != nil {
			return nil, fmt.Errorf("bounds upper index %q: %w", hi, err)
		}
		b.Hi = &n
	}
	return &b, nil
}

// apply slices a sorted sequence of n elements, clamping to [0, n].
func (b *Bounds) apply(n int) (int, int) {
	lo, hi := 0, n
	if b.Hi != nil && *b.Hi < hi {
		hi = *b.Hi
	}
	if b.Lo != nil && *b.Lo > 0 {
		lo = *b.Lo
	}
	if lo > n {
		lo = n
	}
	if hi < lo {
		hi = lo
	}
	return lo, hi
}

// selectDatasets enumerates the trace leaves of one line: descendants of
// the line group, minus picked overlays and non-leaves, restricted to the
// requested channels, sorted numerically by location, optionally bounded.
//
// An empty selection is not a failure: it is logged and the empty slice
// returned, so callers can tell "nothing matched" from "could not look".
func selectDatasets(st store.Store, line int, channels ChannelSpec, bounds *Bounds, log *slog.Logger) ([]string, error) {
	root := lineName(line)
	rels, err := st.ListDescendants(root)
	if err != nil {
		return nil, fmt.Errorf("enumerating %s: %w", root, err)
	}

	allowed := channels.labels()
	var keep []string
	for _, rel := range rels {
		full := root + "/" + rel
		if hasPickedSegment(full) {
			continue
		}
		if !st.IsLeaf(full) {
			continue
		}
		segs := strings.Split(full, "/")
		if len(segs) < 2 || !allowed[segs[len(segs)-2]] {
			continue
		}
		keep = append(keep, full)
	}
	if len(keep) == 0 {
		log.Warn("no datasets match the requested channels",
			"line", line, "channels", channels.String())
		return nil, nil
	}

	// Sort by location number, not name: location_10 after location_9.
	type located struct {
		loc  int
		path string
	}
	items := make([]located, len(keep))
	for i, p := range keep {
		n, err := segmentNumber(strings.Split(p, "/")[1])
		if err != nil {
			return nil, fmt.Errorf("sorting %s by location: %w", root, err)
		}
		items[i] = located{loc: n, path: p}
	}
	sort.SliceStable(items, func(i, j int) bool { return items[i].loc < items[j].loc })
	for i := range items {
		keep[i] = items[i].path
	}

	if bounds != nil {
		lo, hi := bounds.apply(len(keep))
		keep = keep[lo:hi]
	}
	return keep, nil
}

func hasPickedSegment(p string) bool {
	for _, seg := range strings.Split(p, "/") {
		if strings.Contains(seg, pickedMarker) {
			return true
		}
	}
	return false
}
