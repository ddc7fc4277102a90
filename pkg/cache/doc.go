// Package cache provides a generic key-value cache with memory and Redis
// backends, plus a Loader that fills the cache on misses.
//
// TTL passed to Set: positive expires after the duration, zero uses the
// backend default, negative never expires.
//
//	c := cache.NewMemory[search.Params](
//		cache.WithDefaultTTL(time.Minute),
//		cache.WithSweepEvery(30*time.Second),
//	)
//	defer c.Close()
//
//	loader := cache.NewLoader[search.Params](c, 0)
//	v, err := loader.Get(ctx, "route:/test/?foo=bar", load)
//
// The memory backend evicts least recently used entries once WithMaxEntries
// is reached and sweeps expired entries on a cron schedule.
package cache
