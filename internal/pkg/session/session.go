package session

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// A session (refresh) token is opaque and requires a store lookup; it is
// rotated on every use. The store holds at most one live record per email:
// Put atomically supersedes any prior record for the same identity.

const (
	tokenKeyPrefix = "quiz:session:token:"
	emailKeyPrefix = "quiz:session:email:"
)

var (
	// ErrNotFound means the record is absent, never that the store is down.
	ErrNotFound = errors.New("session not found")
	// ErrStoreUnavailable means the store could not be reached; callers must
	// treat it as transient rather than as an invalid credential.
	ErrStoreUnavailable = errors.New("session store unavailable")
)

// Record is the stored session-token state for one principal.
type Record struct {
	Token     string    `json:"token"`
	UserID    string    `json:"user_id"`
	Email     string    `json:"email"`
	Roles     []string  `json:"roles"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Expired reports whether the record is logically dead even if the store has
// not evicted it yet.
func (r *Record) Expired(now time.Time) bool {
	return !now.Before(r.ExpiresAt)
}

// NewToken returns an opaque random session token.
func NewToken() string {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		panic(fmt.Sprintf("session token entropy: %v", err))
	}
	return hex.EncodeToString(b)
}

// putScript supersedes any previous token for the identity and writes the
// new record plus the identity pointer in one atomic step.
var putScript = redis.NewScript(`
local prev = redis.call('GET', KEYS[2])
if prev and prev ~= ARGV[4] then
  redis.call('DEL', ARGV[3] .. prev)
end
redis.call('SET', KEYS[1], ARGV[1], 'PX', ARGV[2])
redis.call('SET', KEYS[2], ARGV[4], 'PX', ARGV[2])
return 1
`)

// deleteScript removes the token key and, when it still points here, the
// identity pointer. The DEL count return is the linearization point: under
// concurrent refreshes of one token exactly one caller sees 1.
var deleteScript = redis.NewScript(`
local raw = redis.call('GET', KEYS[1])
if not raw then
  return 0
end
local removed = redis.call('DEL', KEYS[1])
local ok, rec = pcall(cjson.decode, raw)
if ok and rec and rec.email then
  local ekey = ARGV[1] .. rec.email
  if redis.call('GET', ekey) == ARGV[2] then
    redis.call('DEL', ekey)
  end
end
return removed
`)

// Store is the Redis-backed session-token store.
type Store struct {
	rdb *redis.Client
}

func NewStore(rdb *redis.Client) *Store { return &Store{rdb: rdb} }

// Put stores the record under its token with the given TTL, atomically
// invalidating any prior record for the same email.
func (s *Store) Put(ctx context.Context, rec *Record, ttl time.Duration) error {
	raw, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode session record: %w", err)
	}
	err = putScript.Run(ctx, s.rdb,
		[]string{tokenKeyPrefix + rec.Token, emailKeyPrefix + rec.Email},
		string(raw), ttl.Milliseconds(), tokenKeyPrefix, rec.Token,
	).Err()
	if err != nil {
		return storeErr(err)
	}
	return nil
}

// GetByToken returns the live record for a token. A logically expired record
// is deleted as cleanup and reported as ErrNotFound.
func (s *Store) GetByToken(ctx context.Context, token string) (*Record, error) {
	raw, err := s.rdb.Get(ctx, tokenKeyPrefix+token).Result()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, storeErr(err)
	}

	var rec Record
	if err := json.Unmarshal([]byte(raw), &rec); err != nil {
		return nil, fmt.Errorf("decode session record: %w", err)
	}
	if rec.Expired(time.Now()) {
		_, _ = s.Delete(ctx, token)
		return nil, ErrNotFound
	}
	return &rec, nil
}

// GetByEmail resolves the identity pointer and returns the current record.
func (s *Store) GetByEmail(ctx context.Context, email string) (*Record, error) {
	token, err := s.rdb.Get(ctx, emailKeyPrefix+email).Result()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, storeErr(err)
	}
	return s.GetByToken(ctx, token)
}

// Delete removes the record for a token and reports whether this call did
// the removal. Deleting an absent token is not an error.
func (s *Store) Delete(ctx context.Context, token string) (bool, error) {
	n, err := deleteScript.Run(ctx, s.rdb,
		[]string{tokenKeyPrefix + token},
		emailKeyPrefix, token,
	).Int64()
	if err != nil {
		return false, storeErr(err)
	}
	return n == 1, nil
}

func storeErr(err error) error {
	return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
}
