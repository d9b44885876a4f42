package lock

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	keyPrefix          = "meeting-minder:lock:"
	defaultRetryPeriod = 25 * time.Millisecond
)

// releaseScript deletes the key only while it still holds our token.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// Redis is a Locker shared by all instances using the same redis server.
// A lock expires after ttl so a crashed holder can not block a key forever.
type Redis struct {
	client redis.UniversalClient
	ttl    time.Duration
	retry  time.Duration
}

// NewRedis returns a redis backed Locker.
func NewRedis(client redis.UniversalClient, ttl time.Duration) *Redis {
	return &Redis{client: client, ttl: ttl, retry: defaultRetryPeriod}
}

// Lock implements Locker by polling SET NX until it succeeds or ctx is done.
func (r *Redis) Lock(ctx context.Context, key string) (Unlock, error) {
	var (
		token = uuid.NewString()
		rkey  = keyPrefix + key
	)

	ticker := time.NewTicker(r.retry)
	defer ticker.Stop()

	for {
		ok, err := r.client.SetNX(ctx, rkey, token, r.ttl).Result()

		switch {
		case ok:
			return r.unlock(rkey, token), nil
		case ctx.Err() != nil:
			return nil, timeout(ctx, key)
		case err != nil:
			return nil, errors.Wrapf(err, "lock %s", key)
		}

		select {
		case <-ticker.C:
		case <-ctx.Done():
			return nil, timeout(ctx, key)
		}
	}
}

func (r *Redis) unlock(rkey, token string) Unlock {
	var once sync.Once

	return func() {
		once.Do(func() {
			// the request context may already be done, release regardless
			ctx, cancel := context.WithTimeout(context.Background(), r.ttl)
			defer cancel()

			if err := releaseScript.Run(ctx, r.client, []string{rkey}, token).Err(); err != nil {
				log.Warn().Err(err).Str("key", rkey).Msg("can't release lock, it expires after its ttl")
			}
		})
	}
}
