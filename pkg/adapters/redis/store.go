package redis

import (
	"context"
	"fmt"

	backend "github.com/redis/go-redis/v9"
)

const defaultPrefix = "sectionkit:impressions:"

// ImpressionStore implements ports.ImpressionStore using Redis sets, one per
// section, plus an index set used by Reset. Records never expire: an item
// impression fires at most once for as long as the keys exist.
type ImpressionStore struct {
	client *backend.Client
	prefix string
}

// Option configures the store.
type Option func(*ImpressionStore)

// WithPrefix sets the key prefix. Engines sharing a Redis instance should use
// distinct prefixes (for example one per list ID).
func WithPrefix(prefix string) Option {
	return func(s *ImpressionStore) {
		s.prefix = prefix
	}
}

// New creates a new Redis store with options.
func New(address, password string, db int, opts ...Option) *ImpressionStore {
	rdb := backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
	return NewFromClient(rdb, opts...)
}

// NewFromClient creates a new Redis store from an existing client.
func NewFromClient(client *backend.Client, opts ...Option) *ImpressionStore {
	store := &ImpressionStore{
		client: client,
		prefix: defaultPrefix,
	}
	for _, opt := range opts {
		opt(store)
	}
	return store
}

func (s *ImpressionStore) key(section string) string {
	return s.prefix + "section:" + section
}

func (s *ImpressionStore) indexKey() string {
	return s.prefix + "index"
}

// MarkImpressed adds key to the section set. SADD reports 1 only for the
// first insertion, which makes concurrent engines agree on a single winner.
func (s *ImpressionStore) MarkImpressed(ctx context.Context, section, key string) (bool, error) {
	pipe := s.client.TxPipeline()
	added := pipe.SAdd(ctx, s.key(section), key)
	pipe.SAdd(ctx, s.indexKey(), section)

	if _, err := pipe.Exec(ctx); err != nil {
		return false, fmt.Errorf("failed to record impression in redis: %w", err)
	}
	return added.Val() == 1, nil
}

// Impressed lists the keys recorded for section.
func (s *ImpressionStore) Impressed(ctx context.Context, section string) ([]string, error) {
	keys, err := s.client.SMembers(ctx, s.key(section)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read impressions from redis: %w", err)
	}
	return keys, nil
}

// Reset deletes every section set known to the index, then the index.
func (s *ImpressionStore) Reset(ctx context.Context) error {
	sections, err := s.client.SMembers(ctx, s.indexKey()).Result()
	if err != nil {
		return fmt.Errorf("failed to read impression index: %w", err)
	}

	keys := make([]string, 0, len(sections)+1)
	for _, sec := range sections {
		keys = append(keys, s.key(sec))
	}
	keys = append(keys, s.indexKey())

	if err := s.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("failed to reset impressions: %w", err)
	}
	return nil
}

// Ping checks the connection.
func (s *ImpressionStore) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("failed to ping redis: %w", err)
	}
	return nil
}
