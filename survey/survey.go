package survey

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/njwilson23/radar-tools/metadata"
	"github.com/njwilson23/radar-tools/store"
)

// DefaultMetadataAttr is the leaf attribute that carries the per-trace
// annotation cluster written by the acquisition software.
const DefaultMetadataAttr = "GPS Cluster- MetaData_xml"

// Survey wraps one hierarchical survey store. Construction walks the
// store once to build the retention map (every observed line/location
// pair starts retained); after that the store is reopened and closed
// around each operation; no long-lived open handle is held.
type Survey struct {
	path   string
	open   store.Opener
	log    *slog.Logger
	retain *Retention
}

// Option configures a Survey.
type Option func(*Survey)

// WithOpener points the survey at a different store backend. The default
// opens HDF5 files.
func WithOpener(open store.Opener) Option {
	return func(s *Survey) { s.open = open }
}

// WithLogger sets the diagnostic logger. The default is slog.Default().
func WithLogger(log *slog.Logger) Option {
	return func(s *Survey) { s.log = log }
}

// New opens the survey store at path, populates the retention map, and
// closes it again. A missing store fails wrapping store.ErrStoreNotFound.
func New(path string, opts ...Option) (*Survey, error) {
	s := &Survey{
		path:   path,
		open:   store.Open,
		log:    slog.Default(),
		retain: newRetention(),
	}
	for _, opt := range opts {
		opt(s)
	}

	err := s.withStore(store.ModeRead, func(st store.Store) error {
		lines, err := lineGroups(st)
		if err != nil {
			return err
		}
		for _, line := range lines {
			locations, err := st.Children(line)
			if err != nil {
				return fmt.Errorf("listing locations of %s: %w", line, err)
			}
			for _, loc := range locations {
				s.retain.Set(line, loc, true)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s, nil
}

// Path returns the survey store path.
func (s *Survey) Path() string { return s.path }

// Retention returns the survey's retention map. Analysis layers mutate it
// directly before invoking WriteFiltered.
func (s *Survey) Retention() *Retention { return s.retain }

// SetRetain flags one (line, location) pair, e.g. SetRetain("line_0",
// "location_12", false) to drop a bad location from the next rewrite.
func (s *Survey) SetRetain(line, location string, keep bool) {
	s.retain.Set(line, location, keep)
}

// withStore opens the store, runs fn, and guarantees the handle is closed
// on every exit path. The close error surfaces unless fn already failed.
func (s *Survey) withStore(mode store.Mode, fn func(store.Store) error) (err error) {
	st, err := s.open(s.path, mode)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := st.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	return fn(st)
}

// lineGroups returns the top-level line groups of an open store.
func lineGroups(st store.Store) ([]string, error) {
	names, err := st.Children("")
	if err != nil {
		return nil, fmt.Errorf("listing store root: %w", err)
	}
	var lines []string
	for _, name := range names {
		if strings.HasPrefix(name, "line_") && !st.IsLeaf(name) {
			lines = append(lines, name)
		}
	}
	sortByNumber(lines)
	return lines, nil
}

// Lines returns the line group names in the store, sorted by line number.
func (s *Survey) Lines() ([]string, error) {
	var lines []string
	err := s.withStore(store.ModeRead, func(st store.Store) error {
		var err error
		lines, err = lineGroups(st)
		return err
	})
	if err != nil {
		return nil, err
	}
	return lines, nil
}

// ChannelsInLine returns the number of datacaptures per location for the
// line at index lineno of Lines(). Lines ragged in channel count report
// the maximum.
func (s *Survey) ChannelsInLine(lineno int) (int, error) {
	lines, err := s.Lines()
	if err != nil {
		return 0, err
	}
	if lineno < 0 || lineno >= len(lines) {
		return 0, fmt.Errorf("%w: %d not in 0:%d", ErrNoSuchLine, lineno, len(lines))
	}

	maxChannels := 0
	err = s.withStore(store.ModeRead, func(st store.Store) error {
		locations, err := st.Children(lines[lineno])
		if err != nil {
			return err
		}
		for _, loc := range locations {
			captures, err := st.Children(lines[lineno] + "/" + loc)
			if err != nil {
				return err
			}
			if len(captures) > maxChannels {
				maxChannels = len(captures)
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return maxChannels, nil
}

// ExtractTrace returns the sample vector for a single echogram.
func (s *Survey) ExtractTrace(line, location, datacapture, echogram int) ([]float64, error) {
	path := fmt.Sprintf("line_%d/location_%d/datacapture_%d/echogram_%d",
		line, location, datacapture, echogram)
	var vec []float64
	err := s.withStore(store.ModeRead, func(st store.Store) error {
		var err error
		vec, err = st.ReadTrace(path)
		return err
	})
	if err != nil {
		return nil, err
	}
	return vec, nil
}

type extractOptions struct {
	channels  ChannelSpec
	bounds    *Bounds
	fromCache bool
	cacheDir  string
	metaAttr  string
}

// ExtractOption configures one ExtractLine call.
type ExtractOption func(*extractOptions)

// WithChannels restricts extraction to the given datacapture channels.
// The default is channel 0.
func WithChannels(nums ...int) ExtractOption {
	return func(o *extractOptions) { o.channels = Channels(nums...) }
}

// WithBounds slices the location-sorted trace sequence. nil leaves the
// extraction unbounded.
func WithBounds(b *Bounds) ExtractOption {
	return func(o *extractOptions) { o.bounds = b }
}

// FromCache makes ExtractLine consult the cache first, falling through to
// the store on a miss.
func FromCache() ExtractOption {
	return func(o *extractOptions) { o.fromCache = true }
}

// WithCacheDir overrides the default "cache" cache directory.
func WithCacheDir(dir string) ExtractOption {
	return func(o *extractOptions) { o.cacheDir = dir }
}

// WithMetadataAttr overrides the leaf attribute read for per-trace
// metadata.
func WithMetadataAttr(name string) ExtractOption {
	return func(o *extractOptions) { o.metaAttr = name }
}

// ExtractLine assembles every selected trace on a line into a Gather:
// cache consult (when requested), selection, FID tagging, metadata
// ingestion, assembly.
//
// A trace whose metadata fails to parse is cropped from the record set
// and extraction continues; a path that defeats FID derivation aborts,
// since a bad join key would corrupt every downstream metadata lookup.
func (s *Survey) ExtractLine(line int, opts ...ExtractOption) (*Gather, error) {
	o := extractOptions{
		cacheDir: "cache",
		metaAttr: DefaultMetadataAttr,
	}
	for _, opt := range opts {
		opt(&o)
	}

	if o.fromCache {
		cachePath := CachePath(o.cacheDir, s.path, line, o.channels)
		s.log.Debug("consulting cache", "path", cachePath)
		if g := loadCachedGather(cachePath, s.log); g != nil {
			return g, nil
		}
	}

	var g *Gather
	err := s.withStore(store.ModeRead, func(st store.Store) error {
		paths, err := selectDatasets(st, line, o.channels, o.bounds, s.log)
		if err != nil {
			return err
		}

		records := metadata.NewRecordList(s.path)
		for _, p := range paths {
			fid, err := PathToFID(p, false)
			if err != nil {
				return err
			}
			if err := records.AddLeaf(st.Attrs(p)[o.metaAttr], string(fid)); err != nil {
				s.log.Warn("cropping trace metadata", "trace", p, "err", err)
			}
		}

		arr, counts, err := assemble(st, paths, line)
		if err != nil {
			return err
		}

		g = &Gather{
			Arr:          arr,
			StorePath:    s.path,
			Line:         line,
			Channels:     o.channels,
			SampleCounts: counts,
			Records:      records,
			Retain:       s.retain.LineView(lineName(line)),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return g, nil
}
