// Package surrogate implements the Redis-backed token transform. Clients
// receive short-lived opaque surrogate tokens instead of real provider
// credentials; the mapping lives in Redis under a TTL with a bounded per-user
// index.
package surrogate

import (
	"context"
	"errors"
	"fmt"
	"time"

	errs "github.com/jrsteele09/go-webflow-bridge/internal/errors"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	surrogateKeyPrefix = "Surrogate."
	keyListPrefix      = "Keys."

	// DefaultLifespan can be short in demo use. A live system will want a
	// lot longer.
	DefaultLifespan = 5 * time.Minute

	// DefaultMaxKeysPerUser bounds how many records a single user can
	// create before the oldest is pruned.
	DefaultMaxKeysPerUser = 4

	removeTimeout = 5 * time.Second
)

// Store holds surrogate records in Redis. Each record maps a surrogate id to
// the real token under a TTL; a per-user list indexes the ids issued to that
// user so the record count per user stays bounded.
type Store struct {
	redis          redis.Cmdable
	lifespan       time.Duration
	maxKeysPerUser int
}

func NewStore(client redis.Cmdable, lifespan time.Duration, maxKeysPerUser int) *Store {
	if lifespan <= 0 {
		lifespan = DefaultLifespan
	}
	if maxKeysPerUser <= 0 {
		maxKeysPerUser = DefaultMaxKeysPerUser
	}
	return &Store{redis: client, lifespan: lifespan, maxKeysPerUser: maxKeysPerUser}
}

// Insert stores the real token under the surrogate id with set-if-absent
// semantics. At 42 bytes of entropy a duplicate id means something is broken,
// not unlucky, so a collision fails rather than retries.
func (s *Store) Insert(ctx context.Context, uid, token string) error {
	stored, err := s.redis.SetNX(ctx, surrogateKey(uid), token, s.lifespan).Result()
	if err != nil {
		return errs.Wrapf(err, "storing surrogate token")
	}
	if !stored {
		return fmt.Errorf("surrogate key collision, unable to store the token")
	}
	return nil
}

// Index appends uid to the user's issued list and refreshes the list's TTL in
// a single atomic step. When the list grows past the cap, one id is popped
// from the head and its surrogate key deleted out of band; the delete is fire
// and forget because the TTL reclaims the key regardless.
func (s *Store) Index(ctx context.Context, userID, uid string) error {
	listKey := keyListKey(userID)

	pipe := s.redis.TxPipeline()
	pushCmd := pipe.RPush(ctx, listKey, uid)
	pipe.Expire(ctx, listKey, s.lifespan)
	if _, err := pipe.Exec(ctx); err != nil {
		return errs.Wrapf(err, "indexing surrogate token")
	}

	if pushCmd.Val() <= int64(s.maxKeysPerUser) {
		return nil
	}

	// Pop a single id to match the one just inserted. Concurrent inserts
	// each pop one, so the cap is only briefly exceeded.
	oldest, err := s.redis.LPop(ctx, listKey).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil
		}
		return errs.Wrapf(err, "trimming surrogate index")
	}
	go s.remove(oldest)
	return nil
}

// Lookup returns the real token behind uid. The record is left in place and
// stays usable until TTL expiry or eviction.
func (s *Store) Lookup(ctx context.Context, uid string) (string, error) {
	token, err := s.redis.Get(ctx, surrogateKey(uid)).Result()
	if errors.Is(err, redis.Nil) {
		return "", errs.ErrNotFound
	}
	if err != nil {
		return "", errs.Wrapf(err, "looking up surrogate token")
	}
	return token, nil
}

// Take returns the real token behind uid and deletes the record, making the
// surrogate single use.
func (s *Store) Take(ctx context.Context, uid string) (string, error) {
	token, err := s.redis.GetDel(ctx, surrogateKey(uid)).Result()
	if errors.Is(err, redis.Nil) {
		return "", errs.ErrNotFound
	}
	if err != nil {
		return "", errs.Wrapf(err, "taking surrogate token")
	}
	return token, nil
}

func (s *Store) remove(uid string) {
	ctx, cancel := context.WithTimeout(context.Background(), removeTimeout)
	defer cancel()
	if err := s.redis.Del(ctx, surrogateKey(uid)).Err(); err != nil {
		log.Warn().Err(err).Msg("failed to delete evicted surrogate token")
	}
}

func surrogateKey(uid string) string {
	return surrogateKeyPrefix + uid
}

func keyListKey(userID string) string {
	return keyListPrefix + userID
}
