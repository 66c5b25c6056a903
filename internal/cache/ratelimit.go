package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// rateLimitIPPrefix is the Redis key prefix for IP rate limits.
	rateLimitIPPrefix = "ratelimit:ip:"
	// rateLimitIPTTL is the TTL for IP rate limit keys.
	rateLimitIPTTL = 120 * time.Second
)

// RateLimitResult contains the result of a rate limit check.
type RateLimitResult struct {
	Allowed    bool
	Remaining  int64
	RetryAfter time.Duration
}

// fixedWindowScript atomically increments a per-window counter and reports
// whether the request fits within the limit.
var fixedWindowScript = redis.NewScript(`
	local key = KEYS[1]
	local limit = tonumber(ARGV[1])
	local window = tonumber(ARGV[2])

	local count = redis.call('INCR', key)
	if count == 1 then
		redis.call('EXPIRE', key, window)
	end

	local ttl = redis.call('TTL', key)
	if count > limit then
		return {0, 0, ttl}
	end
	return {1, limit - count, ttl}
`)

// CheckIPRateLimit checks and updates the per-minute rate limit for an IP.
// The IP is hashed so raw addresses never become Redis keys.
func (c *Cache) CheckIPRateLimit(ctx context.Context, ip string, ratePerMinute int) (*RateLimitResult, error) {
	window := time.Now().Unix() / 60
	key := rateLimitIPPrefix + hashIP(ip) + ":" + strconv.FormatInt(window, 10)

	result, err := fixedWindowScript.Run(ctx, c.client,
		[]string{key},
		ratePerMinute, int(rateLimitIPTTL.Seconds()),
	).Int64Slice()

	if err != nil {
		// Fail open on Redis errors - allow the request
		return &RateLimitResult{
			Allowed:   true,
			Remaining: int64(ratePerMinute),
		}, nil
	}

	return &RateLimitResult{
		Allowed:    result[0] == 1,
		Remaining:  result[1],
		RetryAfter: time.Duration(result[2]) * time.Second,
	}, nil
}

// hashIP returns a short deterministic hash of an IP address.
// Uses the first 8 bytes of SHA256, hex encoded.
func hashIP(ip string) string {
	sum := sha256.Sum256([]byte(ip))
	return hex.EncodeToString(sum[:8])
}
