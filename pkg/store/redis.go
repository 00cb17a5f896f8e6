package store

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"slices"

	"github.com/redis/go-redis/v9"

	apperrors "github.com/matzehuels/routeboard/pkg/errors"
	"github.com/matzehuels/routeboard/pkg/graph"
)

// DefaultRedisPrefix namespaces every key the Redis backend writes.
const DefaultRedisPrefix = "routeboard:"

// RedisConfig configures a RedisStore.
type RedisConfig struct {
	Addr   string // defaults to localhost:6379
	DB     int
	Prefix string // defaults to DefaultRedisPrefix
}

// RedisStore keeps each document as a JSON string under
// <prefix>graph:<name> and tracks names in the set <prefix>graphs.
type RedisStore struct {
	client *redis.Client
	prefix string
}

// NewRedisStore connects to Redis and verifies the connection with PING.
func NewRedisStore(ctx context.Context, cfg RedisConfig) (*RedisStore, error) {
	if cfg.Addr == "" {
		cfg.Addr = "localhost:6379"
	}
	client := redis.NewClient(&redis.Options{Addr: cfg.Addr, DB: cfg.DB})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, apperrors.Wrap(apperrors.ErrCodeStorage, err, "connect to redis at %s", cfg.Addr)
	}
	return newRedisStore(client, cfg.Prefix), nil
}

func newRedisStore(client *redis.Client, prefix string) *RedisStore {
	if prefix == "" {
		prefix = DefaultRedisPrefix
	}
	return &RedisStore{client: client, prefix: prefix}
}

func (s *RedisStore) docKey(name string) string { return s.prefix + "graph:" + name }

func (s *RedisStore) indexKey() string { return s.prefix + "graphs" }

func (s *RedisStore) Get(ctx context.Context, name string) (*graph.Document, error) {
	if err := apperrors.ValidateDocumentName(name); err != nil {
		return nil, err
	}
	var data []byte
	err := RetryWithBackoff(ctx, func() error {
		var err error
		data, err = s.client.Get(ctx, s.docKey(name)).Bytes()
		return redisRetryable(err)
	})
	if errors.Is(err, redis.Nil) {
		return nil, notFound(name)
	}
	if err != nil {
		return nil, storageErr(err, "get", name)
	}
	var doc graph.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInvalidFormat, err, "decode stored graph %q", name)
	}
	return &doc, nil
}

func (s *RedisStore) Put(ctx context.Context, name string, doc graph.Document) error {
	if err := apperrors.ValidateDocumentName(name); err != nil {
		return err
	}
	data, err := json.Marshal(doc)
	if err != nil {
		return storageErr(err, "encode", name)
	}
	err = RetryWithBackoff(ctx, func() error {
		_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, s.docKey(name), data, 0)
			pipe.SAdd(ctx, s.indexKey(), name)
			return nil
		})
		return redisRetryable(err)
	})
	if err != nil {
		return storageErr(err, "put", name)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, name string) error {
	if err := apperrors.ValidateDocumentName(name); err != nil {
		return err
	}
	err := RetryWithBackoff(ctx, func() error {
		_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Del(ctx, s.docKey(name))
			pipe.SRem(ctx, s.indexKey(), name)
			return nil
		})
		return redisRetryable(err)
	})
	if err != nil {
		return storageErr(err, "delete", name)
	}
	return nil
}

func (s *RedisStore) List(ctx context.Context) ([]string, error) {
	var names []string
	err := RetryWithBackoff(ctx, func() error {
		var err error
		names, err = s.client.SMembers(ctx, s.indexKey()).Result()
		return redisRetryable(err)
	})
	if err != nil {
		return nil, storageErr(err, "list", s.indexKey())
	}
	slices.Sort(names)
	return names, nil
}

// Close closes the Redis client.
func (s *RedisStore) Close() error { return s.client.Close() }

// redisRetryable marks network failures as retryable. redis.Nil and
// server-side errors pass through unchanged.
func redisRetryable(err error) error {
	var netErr net.Error
	if errors.As(err, &netErr) {
		return Retryable(err)
	}
	return err
}

var _ Store = (*RedisStore)(nil)
