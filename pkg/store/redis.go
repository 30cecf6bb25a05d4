package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	backend "github.com/redis/go-redis/v9"

	"github.com/mindwell/mindgrid/pkg/mapdoc"
	"github.com/mindwell/mindgrid/pkg/observability"
)

// indexFarFuture is the index score used for entries without expiration.
const indexFarFuture = 4102444800 // 2100-01-01

// RedisStore implements DocumentStore on a Redis backend. Documents are
// stored as JSON values; a ZSET index scored by expiration time supports
// listing with lazy cleanup of expired names.
type RedisStore struct {
	client *backend.Client
	prefix string
	ttl    time.Duration
}

// RedisOption configures a RedisStore.
type RedisOption func(*RedisStore)

// WithTTL sets the expiration for stored documents. Zero (the default)
// means documents never expire.
func WithTTL(ttl time.Duration) RedisOption {
	return func(s *RedisStore) { s.ttl = ttl }
}

// WithPrefix sets the key prefix for stored documents.
func WithPrefix(prefix string) RedisOption {
	return func(s *RedisStore) { s.prefix = prefix }
}

// NewRedisStore creates a store connected to the given address.
func NewRedisStore(address, password string, db int, opts ...RedisOption) *RedisStore {
	client := backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
	return NewRedisStoreFromClient(client, opts...)
}

// NewRedisStoreFromClient creates a store from an existing client.
// The caller keeps ownership of clients it passes in only until Close.
func NewRedisStoreFromClient(client *backend.Client, opts ...RedisOption) *RedisStore {
	s := &RedisStore{
		client: client,
		prefix: "mindgrid:map:",
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *RedisStore) key(name string) string { return s.prefix + name }
func (s *RedisStore) indexKey() string       { return s.prefix + "index" }

// Save persists the document as JSON and registers it in the index.
func (s *RedisStore) Save(ctx context.Context, name string, doc mapdoc.Document) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal document: %w", err)
	}

	pipe := s.client.Pipeline()
	pipe.Set(ctx, s.key(name), data, s.ttl)

	score := float64(indexFarFuture)
	if s.ttl > 0 {
		score = float64(time.Now().Add(s.ttl).Unix())
	}
	pipe.ZAdd(ctx, s.indexKey(), backend.Z{Score: score, Member: name})

	_, err = pipe.Exec(ctx)
	observability.Store().OnStoreWrite(ctx, "redis", name, len(data), err)
	if err != nil {
		return fmt.Errorf("save to redis: %w", err)
	}
	return nil
}

// Load retrieves the document stored under name.
func (s *RedisStore) Load(ctx context.Context, name string) (mapdoc.Document, error) {
	val, err := s.client.Get(ctx, s.key(name)).Result()
	observability.Store().OnStoreRead(ctx, "redis", name, err)
	if err != nil {
		if err == backend.Nil {
			return mapdoc.Document{}, ErrNotFound
		}
		return mapdoc.Document{}, fmt.Errorf("get from redis: %w", err)
	}

	var doc mapdoc.Document
	if err := json.Unmarshal([]byte(val), &doc); err != nil {
		return mapdoc.Document{}, fmt.Errorf("unmarshal document: %w", err)
	}
	return doc, nil
}

// Delete removes the document and its index entry.
func (s *RedisStore) Delete(ctx context.Context, name string) error {
	pipe := s.client.Pipeline()
	pipe.Del(ctx, s.key(name))
	pipe.ZRem(ctx, s.indexKey(), name)
	_, err := pipe.Exec(ctx)
	return err
}

// List returns stored document names, lazily pruning expired index
// entries first.
func (s *RedisStore) List(ctx context.Context) ([]string, error) {
	now := float64(time.Now().Unix())
	if err := s.client.ZRemRangeByScore(ctx, s.indexKey(), "-inf", fmt.Sprintf("%f", now)).Err(); err != nil {
		return nil, fmt.Errorf("prune expired documents: %w", err)
	}

	names, err := s.client.ZRange(ctx, s.indexKey(), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	return names, nil
}

// Close closes the redis client.
func (s *RedisStore) Close(ctx context.Context) error {
	return s.client.Close()
}

// Ensure RedisStore implements DocumentStore.
var _ DocumentStore = (*RedisStore)(nil)
