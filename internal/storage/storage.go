// Package storage is the client's local key/value store, the analogue of
// browser local storage. Writes are last-write-wins.
package storage

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
)

type Storage interface {
	// Get returns ok=false when key is absent.
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, keys ...string) error
}

type Type string

const (
	TypeMemory Type = "memory"
	TypeFile   Type = "file"
	TypeRedis  Type = "redis"
)

var (
	ErrInvalidType   = errors.New("storage: invalid type")
	ErrInvalidConfig = errors.New("storage: invalid config")
)

type Option func(*options)

type options struct {
	path        string
	redisClient *redis.Client
	namespace   string
}

// WithPath sets the JSON file for the file driver.
func WithPath(path string) Option {
	return func(o *options) { o.path = path }
}

func WithRedisClient(c *redis.Client) Option {
	return func(o *options) { o.redisClient = c }
}

// WithNamespace prefixes every redis key, typically with the role.
func WithNamespace(ns string) Option {
	return func(o *options) { o.namespace = ns }
}

func New(t Type, opts ...Option) (Storage, error) {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}

	switch t {
	case TypeMemory, "":
		return NewMemory(), nil
	case TypeFile:
		if o.path == "" {
			return nil, ErrInvalidConfig
		}
		return NewFile(o.path), nil
	case TypeRedis:
		if o.redisClient == nil {
			return nil, ErrInvalidConfig
		}
		return NewRedis(o.redisClient, o.namespace), nil
	default:
		return nil, ErrInvalidType
	}
}
