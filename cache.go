package outputcache

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync/atomic"
)

const (
	defaultWorkers = 4
	defaultDirPerm = 0o700
)

// Cache mirrors a subset of remote build outputs into a flat local
// directory and maintains an immutable key-to-path index over it.
//
// The published index is the only shared mutable state; it is swapped
// atomically after each successful update, so Resolve never blocks and
// never observes a half-updated cache. Only one Update is expected to
// run at a time per Cache; serializing sync cycles is the caller's job.
type Cache struct {
	dir        string
	dirPerm    os.FileMode
	workers    int
	byteBudget int64
	selectors  []Selector
	logger     *slog.Logger

	index atomic.Pointer[Index]
}

// New creates a cache rooted at dir. The directory is not created until
// the first update cycle needs it.
func New(dir string, opts ...Option) (*Cache, error) {
	if dir == "" {
		return nil, errors.New("outputcache: cache dir is empty")
	}
	c := &Cache{
		dir:     dir,
		dirPerm: defaultDirPerm,
		workers: defaultWorkers,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.workers < 1 {
		return nil, errors.New("outputcache: workers must be >= 1")
	}
	empty := Index{}
	c.index.Store(&empty)
	return c, nil
}

// log returns the logger, falling back to a discard logger if nil.
func (c *Cache) log() *slog.Logger {
	if c.logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return c.logger
}

// Dir returns the cache directory.
func (c *Cache) Dir() string {
	return c.dir
}

// Initialize publishes the cache state currently on disk, making
// previously cached outputs resolvable after a restart. Idempotent;
// call before the first Resolve or Update.
func (c *Cache) Initialize() {
	idx := readState(c.dir)
	c.index.Store(&idx)
}

// Resolve returns the local path of the cached copy of a, or false if
// the artifact is not cached. It is a pure read of the published index:
// it never blocks and never mutates.
func (c *Cache) Resolve(a Artifact) (string, bool) {
	idx := *c.index.Load()
	p, ok := idx[KeyFor(a)]
	return p, ok
}

// Len reports how many artifacts the published index currently holds.
func (c *Cache) Len() int {
	return len(*c.index.Load())
}

// Update runs one sync cycle: diff the desired artifacts against the
// cache directory and the previous generation, transfer the difference,
// and republish the index.
//
// Disk state is re-read fresh rather than trusted from the published
// index, so externally modified cache contents are reconciled. On
// success the index is exactly {key -> dir/key} for every desired key,
// whether freshly copied or already present. On cancellation or failure
// the index is left unchanged.
//
// prev may be nil, in which case every desired artifact not already on
// disk under its derived key is fetched.
func (c *Cache) Update(ctx context.Context, desired []Artifact, prev Generation, clearFirst bool) Result {
	if clearFirst {
		c.Clear()
	}

	keyed := keyArtifacts(desired)
	current := readState(c.dir)
	plan := computePlan(keyed, current, prev)

	if err := os.MkdirAll(c.dir, c.dirPerm); err != nil {
		err = fmt.Errorf("%w: %v", ErrCacheDirCreate, err)
		c.log().Error("output cache update aborted", "dir", c.dir, "error", err)
		return Result{Status: StatusFailed, Err: err}
	}

	tr := &transferor{
		dir:        c.dir,
		workers:    c.workers,
		byteBudget: c.byteBudget,
		logger:     c.logger,
	}
	copied, deleted, err := tr.run(ctx, plan)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return Result{Status: StatusCancelled, Err: err, Copied: copied, Deleted: deleted}
		}
		c.log().Error("output synchronization did not complete", "error", err)
		return Result{Status: StatusFailed, Err: err, Copied: copied, Deleted: deleted}
	}

	next := make(Index, len(keyed))
	for key := range keyed {
		next[key] = filepath.Join(c.dir, key)
	}
	c.index.Store(&next)

	c.log().Debug("output cache updated",
		"cached", len(next), "copied", copied, "deleted", deleted)
	return Result{Status: StatusOK, Copied: copied, Deleted: deleted}
}

// Sync runs a full cycle driven by the registered selectors: each
// selector nominates logical paths from the generation, the selection
// is filtered to generated outputs and deduplicated, and the resolved
// artifacts are handed to Update.
func (c *Cache) Sync(ctx context.Context, gen, prev Generation, targets TargetSet, settings LanguageSettings, clearFirst bool) Result {
	seen := make(map[string]struct{})
	var desired []Artifact
	for _, sel := range c.selectors {
		for _, path := range sel.SelectOutputs(gen, targets, settings) {
			if _, dup := seen[path]; dup {
				continue
			}
			seen[path] = struct{}{}
			a, ok := gen.Find(path)
			if !ok || !a.Generated() {
				continue
			}
			desired = append(desired, a)
		}
	}
	return c.Update(ctx, desired, prev, clearFirst)
}

// Clear publishes an empty index immediately, then removes the cache
// directory's current contents in the background. Readers see "nothing
// cached" before any file is physically deleted; deletion is best
// effort, since leftover files are overwritten or evicted by a later
// update anyway.
func (c *Cache) Clear() {
	empty := Index{}
	c.index.Store(&empty)

	entries, err := os.ReadDir(c.dir)
	if err != nil {
		return
	}
	go func() {
		for _, e := range entries {
			if err := os.RemoveAll(filepath.Join(c.dir, e.Name())); err != nil {
				c.log().Debug("clear: remove failed", "name", e.Name(), "error", err)
			}
		}
	}()
}
