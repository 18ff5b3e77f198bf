package survey

import "sort"

type locKey struct {
	line, location string
}

// Retention tracks a keep/drop flag for every (line, location) pair in a
// survey. The Survey constructor marks every observed pair retained;
// downstream analysis flips pairs off before a filtered rewrite. Pairs
// never observed read as not retained.
type Retention struct {
	m map[locKey]bool
}

func newRetention() *Retention {
	return &Retention{m: make(map[locKey]bool)}
}

// Set records the flag for a (line, location) pair, creating it if absent.
func (r *Retention) Set(line, location string, keep bool) {
	r.m[locKey{line, location}] = keep
}

// Retained reports the flag for a pair. Unknown pairs are not retained.
func (r *Retention) Retained(line, location string) bool {
	return r.m[locKey{line, location}]
}

// Len returns the number of tracked pairs.
func (r *Retention) Len() int { return len(r.m) }

// LineRetention is one line's slice of the retention map, keyed by
// location group name. A view built by LineView writes through to the
// survey's map, so flags flipped on a gather steer the next filtered
// rewrite. A view decoded from a cache entry has no backing map and is a
// detached snapshot.
type LineRetention struct {
	Line  string
	Flags map[string]bool

	r *Retention
}

// Retained reports the flag for a location on this line.
func (v *LineRetention) Retained(location string) bool {
	if v.r != nil {
		return v.r.Retained(v.Line, location)
	}
	return v.Flags[location]
}

// Set flips the flag for a location, writing through to the survey when
// the view is live.
func (v *LineRetention) Set(location string, keep bool) {
	if v.r != nil {
		v.r.Set(v.Line, location, keep)
	}
	if v.Flags == nil {
		v.Flags = make(map[string]bool)
	}
	v.Flags[location] = keep
}

// Len returns the number of locations the view covers.
func (v *LineRetention) Len() int { return len(v.Flags) }

// Live reports whether the view writes through to a survey. Cache-decoded
// views are detached.
func (v *LineRetention) Live() bool { return v.r != nil }

// LineView returns a live view of one line's location flags. Gathers
// carry this view so analysis can mark bad locations without holding the
// whole survey.
func (r *Retention) LineView(line string) *LineRetention {
	flags := make(map[string]bool)
	for k, v := range r.m {
		if k.line == line {
			flags[k.location] = v
		}
	}
	return &LineRetention{Line: line, Flags: flags, r: r}
}

// Lines returns the tracked line names, sorted by line number.
func (r *Retention) Lines() []string {
	seen := make(map[string]bool)
	var out []string
	for k := range r.m {
		if !seen[k.line] {
			seen[k.line] = true
			out = append(out, k.line)
		}
	}
	sortByNumber(out)
	return out
}

// sortByNumber orders group names by their integer suffix; names whose
// suffix fails to parse sort last, lexicographically.
func sortByNumber(names []string) {
	sort.SliceStable(names, func(i, j int) bool {
		a, aerr := segmentNumber(names[i])
		b, berr := segmentNumber(names[j])
		if aerr != nil || berr != nil {
			if (aerr == nil) != (berr == nil) {
				return aerr == nil
			}
			return names[i] < names[j]
		}
		return a < b
	})
}
