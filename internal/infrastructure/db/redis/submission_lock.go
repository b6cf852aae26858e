package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const defaultLockTTL = 30 * time.Second

// ErrLockNotHeld is returned by Release when the lock expired or was taken
// over by another holder.
var ErrLockNotHeld = errors.New("submission lock not held")

// releaseScript deletes the key only while it still stores the caller's token.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// SubmissionLock is a best-effort mutex around timesheet submission.
// Key format: timesheet-lock:<user_id>:<project_id>:<week_start>
// The TTL bounds how long a crashed holder can block the same week.
type SubmissionLock struct {
	client   *redis.Client
	ttl      time.Duration
	newToken func() string
}

// NewSubmissionLock creates a SubmissionLock wrapping the given Redis client.
func NewSubmissionLock(client *redis.Client, ttl time.Duration) *SubmissionLock {
	if ttl <= 0 {
		ttl = defaultLockTTL
	}
	return &SubmissionLock{client: client, ttl: ttl, newToken: uuid.NewString}
}

// Acquire takes the lock for key. It returns the holder token and true when
// the lock was free.
func (l *SubmissionLock) Acquire(ctx context.Context, key string) (string, bool, error) {
	token := l.newToken()
	ok, err := l.client.SetNX(ctx, l.key(key), token, l.ttl).Result()
	if err != nil {
		return "", false, fmt.Errorf("acquire submission lock: %w", err)
	}
	if !ok {
		return "", false, nil
	}
	return token, true, nil
}

// Release drops the lock for key if it is still held with token.
func (l *SubmissionLock) Release(ctx context.Context, key, token string) error {
	if token == "" {
		return ErrLockNotHeld
	}
	deleted, err := releaseScript.Run(ctx, l.client, []string{l.key(key)}, token).Int()
	if err != nil {
		return fmt.Errorf("release submission lock: %w", err)
	}
	if deleted == 0 {
		return ErrLockNotHeld
	}
	return nil
}

func (l *SubmissionLock) key(key string) string {
	return "timesheet-lock:" + key
}
