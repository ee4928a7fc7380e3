package outputcache

import (
	"os"
	"path/filepath"
)

// Index maps cache keys to local file paths. It is the authoritative
// view of what is currently cached.
//
// An Index is never mutated after publication: each successful update
// replaces the published index wholesale, so concurrent readers see
// either the old or the new state without locking.
type Index map[string]string

// readState lists the cache directory's direct entries into an index.
//
// A missing or unreadable directory is an empty cache, not an error;
// the first sync cycle starts from nothing. The cache directory is
// flat, so subdirectories are ignored.
func readState(dir string) Index {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return Index{}
	}
	idx := make(Index, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		idx[e.Name()] = filepath.Join(dir, e.Name())
	}
	return idx
}
