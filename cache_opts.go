package outputcache

import (
	"log/slog"
	"os"
)

// Option configures a Cache.
type Option func(*Cache)

// WithLogger sets the logger used for transfer and lifecycle events.
// Logs are discarded by default.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Cache) {
		c.logger = logger
	}
}

// WithWorkers bounds the number of concurrent copy and delete units per
// update cycle. Defaults to 4.
func WithWorkers(n int) Option {
	return func(c *Cache) {
		c.workers = n
	}
}

// WithByteBudget limits the total artifact bytes in flight at once
// during a transfer batch. Artifacts larger than the budget are clamped
// to it and transfer exclusively. Zero disables the limit.
func WithByteBudget(n int64) Option {
	return func(c *Cache) {
		c.byteBudget = n
	}
}

// WithDirPerm sets the permissions used when creating the cache
// directory.
func WithDirPerm(mode os.FileMode) Option {
	return func(c *Cache) {
		c.dirPerm = mode
	}
}

// WithSelectors registers the ordered selection policies consulted by
// Sync. Selectors are run in registration order.
func WithSelectors(selectors ...Selector) Option {
	return func(c *Cache) {
		c.selectors = append(c.selectors, selectors...)
	}
}
