package survey

import (
	"encoding/gob"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// cacheExt is the extension for serialized gathers. The blob is a gob
// stream understood only by this codec.
const cacheExt = ".ird"

// CachePath returns the canonical cache location for a line:
// <cacheDir>/<store base name without extension>_line<line>_<channels>.ird.
// The whole channel spec is rendered into the name, so extractions with
// different specs never share an entry.
func CachePath(cacheDir, storePath string, line int, channels ChannelSpec) string {
	base := filepath.Base(storePath)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(cacheDir, fmt.Sprintf("%s_line%d_%s%s", base, line, channels, cacheExt))
}

// loadCachedGather returns the gather serialized at path, or nil on any
// kind of miss: absent file, unreadable file, undecodable blob. A miss is
// a diagnostic, never a failure: the caller falls through to assembling
// from the store. A hit is trusted as-is; invalidating stale entries when
// the store changes is the caller's responsibility.
func loadCachedGather(path string, log *slog.Logger) *Gather {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			log.Warn("cached file not available, loading from store", "path", path)
		} else {
			log.Warn("cannot open cache entry", "path", path, "err", err)
		}
		return nil
	}
	defer f.Close()

	var g Gather
	if err := gob.NewDecoder(f).Decode(&g); err != nil {
		log.Warn("discarding undecodable cache entry", "path", path, "err", err)
		return nil
	}
	return &g
}

// SaveCache serializes the gather to path, creating the cache directory
// if needed.
func (g *Gather) SaveCache(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating cache directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating cache entry: %w", err)
	}
	if err := gob.NewEncoder(f).Encode(g); err != nil {
		f.Close()
		return fmt.Errorf("encoding cache entry %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("writing cache entry %s: %w", path, err)
	}
	return nil
}
