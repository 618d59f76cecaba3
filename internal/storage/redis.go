package storage

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "martclient:"

type Redis struct {
	client *redis.Client
	prefix string
}

// NewRedis stores keys as martclient:<namespace>:<key>.
func NewRedis(client *redis.Client, namespace string) *Redis {
	prefix := keyPrefix
	if namespace != "" {
		prefix += namespace + ":"
	}
	return &Redis{client: client, prefix: prefix}
}

func (r *Redis) key(k string) string { return r.prefix + k }

func (r *Redis) Get(ctx context.Context, key string) (string, bool, error) {
	v, err := r.client.Get(ctx, r.key(key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return v, true, nil
}

func (r *Redis) Set(ctx context.Context, key, value string) error {
	return r.client.Set(ctx, r.key(key), value, 0).Err()
}

func (r *Redis) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	full := make([]string, len(keys))
	for i, k := range keys {
		full[i] = r.key(k)
	}
	return r.client.Del(ctx, full...).Err()
}
