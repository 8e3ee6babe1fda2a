// Package redis provides a thin convenience layer over github.com/redis/go-redis
// for establishing resilient connections.
//
// Connect parses a connection URL, retries the initial ping a configurable
// number of times, and returns a ready *redis.Client. Healthcheck returns a
// probe function suitable for readiness endpoints.
//
// The notification engine uses Redis for two shared-state concerns: the
// deduplication guard and the preference cache. Both receive an already
// connected client, so a single connection pool can back both components.
package redis
