// Package outputcache maintains a local on-disk mirror of build outputs
// that physically reside on a remote execution or storage backend, so
// clients can read their bytes without a network round trip per access.
//
// The engine is deliberately small: a sync cycle diffs the desired
// artifact set against the cache directory and the previous generation,
// copies what changed and deletes what is no longer wanted on a bounded
// worker pool, and then atomically republishes an immutable key-to-path
// index. Readers always observe either the old or the new index, never a
// partial one.
//
// # Quick Start
//
// Construct a cache, initialize it from disk, and run a sync cycle:
//
//	c, err := outputcache.New(filepath.Join(dataDir, "remoteOutputCache"),
//	    outputcache.WithWorkers(8),
//	)
//	if err != nil {
//	    return err
//	}
//	c.Initialize()
//
//	res := c.Update(ctx, desired, previousGeneration, false)
//	if res.Status != outputcache.StatusOK {
//	    return res.Err
//	}
//	local, ok := c.Resolve(artifact)
//
// Which outputs are worth caching is a pluggable decision: register
// [Selector] implementations via [WithSelectors] and drive full cycles
// with [Cache.Sync].
//
// Artifacts can come from any backend implementing [Store]; the
// [github.com/meigma/outputcache/httpstore] and
// [github.com/meigma/outputcache/ocistore] subpackages provide HTTP and
// OCI registry backed stores.
package outputcache
