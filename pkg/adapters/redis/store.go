package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Moosa-Imran/Content-Machine-sub001/pkg/domain"
	backend "github.com/redis/go-redis/v9"
)

// DefaultPrefix namespaces every key written by this package.
const DefaultPrefix = "contentmachine:"

// Store implements ports.FrameworkStore using Redis.
// The framework is a single JSON string value; SET replaces it atomically.
type Store struct {
	client *backend.Client
	prefix string
}

type Option func(*Store)

// WithPrefix sets the key prefix for the framework document.
func WithPrefix(prefix string) Option {
	return func(s *Store) {
		s.prefix = prefix
	}
}

// New creates a new Redis store with options.
func New(address, password string, db int, opts ...Option) *Store {
	rdb := backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
	return NewFromClient(rdb, opts...)
}

// NewFromClient creates a new Redis store from an existing client.
func NewFromClient(client *backend.Client, opts ...Option) *Store {
	store := &Store{
		client: client,
		prefix: DefaultPrefix,
	}

	for _, opt := range opts {
		opt(store)
	}

	return store
}

// Key returns the Redis key holding the framework document.
func (s *Store) Key() string {
	return s.prefix + "framework"
}

// Client exposes the underlying client so a Locker can share the connection pool.
func (s *Store) Client() *backend.Client {
	return s.client
}

// Persist overwrites the framework document. No expiration is set.
func (s *Store) Persist(ctx context.Context, fw domain.Framework) error {
	data, err := json.Marshal(fw)
	if err != nil {
		return fmt.Errorf("failed to marshal framework: %w", err)
	}

	if err := s.client.Set(ctx, s.Key(), data, 0).Err(); err != nil {
		return fmt.Errorf("failed to save to redis: %w", err)
	}

	return nil
}

// Load retrieves the framework document from Redis.
func (s *Store) Load(ctx context.Context) (domain.Framework, error) {
	val, err := s.client.Get(ctx, s.Key()).Bytes()
	if err != nil {
		if errors.Is(err, backend.Nil) {
			return nil, domain.ErrFrameworkAbsent
		}
		return nil, fmt.Errorf("failed to get from redis: %w", err)
	}

	var fw domain.Framework
	if err := json.Unmarshal(val, &fw); err != nil {
		return nil, fmt.Errorf("failed to unmarshal framework: %w", err)
	}
	if fw == nil {
		fw = domain.Framework{}
	}

	return fw, nil
}

// Close closes the redis client.
func (s *Store) Close() error {
	return s.client.Close()
}
