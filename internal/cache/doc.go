// Package cache provides a small generic TTL cache with an in-process and a
// Redis backend, and GetOrSet for read-through loading.
//
// The repository uses it to keep template lookups off the database during a
// dispatch run. Redis is used when REDIS_URL is configured so several
// instances share one cache; otherwise the memory backend is used.
package cache
