package outputcache

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync/atomic"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
)

// transferor executes one sync cycle's copies and deletes against a
// bounded worker pool.
type transferor struct {
	dir        string
	workers    int
	byteBudget int64
	logger     *slog.Logger
}

func (t *transferor) log() *slog.Logger {
	if t.logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return t.logger
}

// run executes the plan and reports how many copies and deletes took
// effect. Each copy and delete is an independent unit: an I/O failure
// on one unit is logged and skipped without aborting its siblings,
// since losing a cached file only costs a future cache miss. Only
// context cancellation aborts the batch.
func (t *transferor) run(ctx context.Context, plan Plan) (copied, deleted int, err error) {
	var budget *semaphore.Weighted
	if t.byteBudget > 0 {
		budget = semaphore.NewWeighted(t.byteBudget)
	}

	var copies, deletes atomic.Int64
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(t.workers)

	for key, a := range plan.Fetch {
		eg.Go(func() error {
			if budget != nil {
				weight := t.budgetWeight(a)
				if err := budget.Acquire(ctx, weight); err != nil {
					return err
				}
				defer budget.Release(weight)
			}
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := t.copy(ctx, key, a); err != nil {
				t.log().Warn("copy failed", "key", key, "path", a.Path(), "error", err)
				return nil
			}
			copies.Add(1)
			return nil
		})
	}

	for _, path := range plan.Evict {
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
				// Already-removed is an acceptable outcome.
				t.log().Warn("delete failed", "path", path, "error", err)
				return nil
			}
			deletes.Add(1)
			return nil
		})
	}

	waitErr := eg.Wait()
	return int(copies.Load()), int(deletes.Load()), waitErr
}

// copy streams the artifact to a temp file in the cache directory and
// renames it over the final name, so a partially written file is never
// visible at the cache key.
func (t *transferor) copy(ctx context.Context, key string, a Artifact) error {
	src, err := a.Open(ctx)
	if err != nil {
		return err
	}
	defer src.Close()

	tmp, err := os.CreateTemp(t.dir, "fetch-*")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()
	if _, err := io.Copy(tmp, src); err != nil {
		tmp.Close()
		_ = os.Remove(tmpPath)
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return err
	}
	if err := os.Rename(tmpPath, filepath.Join(t.dir, key)); err != nil {
		_ = os.Remove(tmpPath)
		return err
	}
	return nil
}

// budgetWeight clamps an artifact's size into the acquirable range of
// the byte budget. Artifacts of unknown size weigh one byte; artifacts
// larger than the whole budget weigh the whole budget so they can still
// be transferred, just exclusively.
func (t *transferor) budgetWeight(a Artifact) int64 {
	size := a.SizeBytes()
	if size < 1 {
		return 1
	}
	if size > t.byteBudget {
		return t.byteBudget
	}
	return size
}
