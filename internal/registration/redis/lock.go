package redis

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"
)

const keyPrefix = "registration_lock:"

// Lock keeps one pending registration per control across portal instances.
type Lock struct {
	Client *redis.Client
}

func NewLock(client *redis.Client) *Lock {
	return &Lock{Client: client}
}

// Acquire locks controlID for owner. It returns false when another owner holds it.
func (l *Lock) Acquire(ctx context.Context, controlID, owner string, ttl time.Duration) (bool, error) {
	return l.Client.SetNX(ctx, keyPrefix+controlID, owner, ttl).Result()
}

// Release unlocks controlID if owner still holds it.
func (l *Lock) Release(ctx context.Context, controlID, owner string) error {
	key := keyPrefix + controlID
	val, err := l.Client.Get(ctx, key).Result()
	if err == redis.Nil {
		return nil // already expired
	}
	if err != nil {
		return err
	}
	if val == owner {
		return l.Client.Del(ctx, key).Err()
	}
	return nil
}

func (l *Lock) IsLocked(ctx context.Context, controlID string) (bool, error) {
	_, err := l.Client.Get(ctx, keyPrefix+controlID).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
