// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package ratelimit

import (
	"context"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// tokenBucketScript implements the bucket atomically server-side: read
// tokens and last-refill time, apply linear refill, then debit if the
// cost fits. Running it as one script avoids the read-modify-write race
// between instances.
var tokenBucketScript = redis.NewScript(`
local key      = KEYS[1]
local capacity = tonumber(ARGV[1])
local refill   = tonumber(ARGV[2])
local cost     = tonumber(ARGV[3])
local now      = tonumber(ARGV[4])

local state  = redis.call('HMGET', key, 'tokens', 'ts')
local tokens = tonumber(state[1])
local ts     = tonumber(state[2])
if tokens == nil then
  tokens = capacity
  ts = now
end

tokens = math.min(capacity, tokens + (now - ts) * refill)

local allowed = 0
if tokens >= cost then
  tokens = tokens - cost
  allowed = 1
end

redis.call('HSET', key, 'tokens', tokens, 'ts', now)
redis.call('EXPIRE', key, math.ceil(capacity / refill) + 60)
return allowed
`)

// Redis is the shared Limiter backing for multi-instance deployments.
type Redis struct {
	client   *redis.Client
	capacity int
	refill   float64
	prefix   string
}

// NewRedis creates a Redis-backed limiter with the given bucket capacity
// and refill rate in tokens per second.
func NewRedis(client *redis.Client, capacity int, refillPerSecond float64) *Redis {
	return &Redis{
		client:   client,
		capacity: capacity,
		refill:   refillPerSecond,
		prefix:   "ratelimit:",
	}
}

// Allow implements Limiter. A backend failure fails open: the request is
// admitted and the error logged, because losing Redis should degrade the
// abuse guard, not the API.
func (r *Redis) Allow(ctx context.Context, key string, cost int) (bool, error) {
	now := float64(time.Now().UnixMicro()) / 1e6

	res, err := tokenBucketScript.Run(ctx, r.client,
		[]string{r.prefix + key},
		r.capacity, r.refill, cost, now,
	).Int()
	if err != nil {
		slog.Warn("rate limiter backend unavailable, failing open", "error", err)
		return true, err
	}

	return res == 1, nil
}
