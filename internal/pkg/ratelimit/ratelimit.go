package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Token bucket shared across server instances. Refill is discrete: the
// bucket gains RefillTokens per elapsed RefillPeriod, capped at Capacity.
// Consumption is one Lua script so concurrent requests from the same client
// can never overdraw the bucket.

const keyPrefix = "quiz:rate_limit:"

// ErrStoreUnavailable means the bucket state could not be reached.
var ErrStoreUnavailable = errors.New("rate limit store unavailable")

// Limit describes one bucket category.
type Limit struct {
	Capacity     int
	RefillTokens int
	RefillPeriod time.Duration
}

// Result is the outcome of one consumption attempt.
type Result struct {
	Allowed    bool
	Remaining  int64
	RetryAfter time.Duration
}

var consumeScript = redis.NewScript(`
local capacity = tonumber(ARGV[1])
local refill = tonumber(ARGV[2])
local period = tonumber(ARGV[3])
local now = tonumber(ARGV[4])

local tokens = tonumber(redis.call('HGET', KEYS[1], 'tokens'))
local ts = tonumber(redis.call('HGET', KEYS[1], 'ts'))
if tokens == nil or ts == nil then
  tokens = capacity
  ts = now
else
  local periods = math.floor((now - ts) / period)
  if periods > 0 then
    tokens = math.min(capacity, tokens + periods * refill)
    ts = ts + periods * period
  end
end

local allowed = 0
if tokens > 0 then
  tokens = tokens - 1
  allowed = 1
end

redis.call('HSET', KEYS[1], 'tokens', tokens, 'ts', ts)
redis.call('PEXPIRE', KEYS[1], ARGV[5])
return {allowed, tokens}
`)

// Store evaluates token-bucket consumption against Redis.
type Store struct {
	rdb *redis.Client
	now func() time.Time
}

func NewStore(rdb *redis.Client) *Store {
	return &Store{rdb: rdb, now: time.Now}
}

// WithClock overrides the bucket clock (tests).
func (s *Store) WithClock(now func() time.Time) *Store {
	s.now = now
	return s
}

// Consume atomically takes one token from the (category, clientID) bucket,
// creating it at full capacity when absent.
func (s *Store) Consume(ctx context.Context, category, clientID string, limit Limit) (Result, error) {
	key := keyPrefix + category + ":" + clientID
	idle := refillWindow(limit) + limit.RefillPeriod

	vals, err := consumeScript.Run(ctx, s.rdb, []string{key},
		limit.Capacity,
		limit.RefillTokens,
		limit.RefillPeriod.Milliseconds(),
		s.now().UnixMilli(),
		idle.Milliseconds(),
	).Int64Slice()
	if err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	if len(vals) != 2 {
		return Result{}, fmt.Errorf("%w: unexpected script reply", ErrStoreUnavailable)
	}

	return Result{
		Allowed:    vals[0] == 1,
		Remaining:  vals[1],
		RetryAfter: limit.RefillPeriod,
	}, nil
}

// refillWindow is the time an empty bucket needs to refill completely; keys
// idle longer than that plus one period carry no state worth keeping.
func refillWindow(limit Limit) time.Duration {
	if limit.RefillTokens <= 0 {
		return limit.RefillPeriod
	}
	periods := (limit.Capacity + limit.RefillTokens - 1) / limit.RefillTokens
	return time.Duration(periods) * limit.RefillPeriod
}
