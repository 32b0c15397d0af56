// Package cache provides a generic, thread-safe bounded LRU cache.
//
// It backs the process-local fallbacks of the resilience layer, most notably
// the circuit breaker's last-known-state cache in pkg/breaker, where memory
// must stay bounded no matter how many (provider, region) partitions the
// backend tracks. Least recently used entries are evicted once capacity is
// reached.
//
// # Usage
//
//	c := cache.New[string, int](256)
//	c.Put("plaid/US", 1)
//	if v, ok := c.Get("plaid/US"); ok {
//	    // v == 1, entry marked recently used
//	}
//
// An eviction callback can be attached for entries that own resources:
//
//	c := cache.New(16, cache.WithOnEvict(func(key string, conn *grpc.ClientConn) {
//	    conn.Close()
//	}))
//
// All operations are O(1) and safe for concurrent use.
package cache
