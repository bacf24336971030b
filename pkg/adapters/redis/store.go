// Package redis persists exports and shell history in Redis, so several UI
// processes can share them.
package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	backend "github.com/redis/go-redis/v9"

	"github.com/aretw0/outliner/pkg/domain"
	"github.com/aretw0/outliner/pkg/ports"
)

const (
	fieldData        = "data"
	fieldContentType = "content_type"
)

// Store implements ports.BlobStore and ports.HistoryStore using Redis.
type Store struct {
	client *backend.Client
	prefix string
	ttl    time.Duration
}

var (
	_ ports.BlobStore    = (*Store)(nil)
	_ ports.HistoryStore = (*Store)(nil)
)

type Option func(*Store)

// WithTTL sets the expiration for exported blobs.
func WithTTL(ttl time.Duration) Option {
	return func(s *Store) {
		s.ttl = ttl
	}
}

// WithPrefix sets the key prefix.
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
		prefix: "outliner:",
		ttl:    0, // No expiration by default
	}

	for _, opt := range opts {
		opt(store)
	}

	return store
}

func (s *Store) blobKey(ref string) string {
	return s.prefix + "blob:" + ref
}

func (s *Store) historyKey(shell string) string {
	return s.prefix + "history:" + shell
}

// Create stores data under a fresh reference.
func (s *Store) Create(ctx context.Context, data []byte, contentType string) (string, error) {
	ref := uuid.NewString()
	key := s.blobKey(ref)

	pipe := s.client.TxPipeline()
	pipe.HSet(ctx, key, fieldData, data, fieldContentType, contentType)
	if s.ttl > 0 {
		pipe.Expire(ctx, key, s.ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return "", fmt.Errorf("failed to save blob to redis: %w", err)
	}
	return ref, nil
}

// Open retrieves a blob.
func (s *Store) Open(ctx context.Context, ref string) (*ports.Blob, error) {
	vals, err := s.client.HMGet(ctx, s.blobKey(ref), fieldData, fieldContentType).Result()
	if err != nil {
		if errors.Is(err, backend.Nil) {
			return nil, domain.ErrBlobNotFound
		}
		return nil, fmt.Errorf("failed to load blob from redis: %w", err)
	}
	data, ok := vals[0].(string)
	if !ok {
		return nil, domain.ErrBlobNotFound
	}
	contentType, _ := vals[1].(string)
	return &ports.Blob{Data: []byte(data), ContentType: contentType}, nil
}

// Revoke deletes a blob. Unknown references are ignored.
func (s *Store) Revoke(ctx context.Context, ref string) error {
	if err := s.client.Del(ctx, s.blobKey(ref)).Err(); err != nil {
		return fmt.Errorf("failed to delete blob from redis: %w", err)
	}
	return nil
}

// Append adds an entry to the end of a shell's history.
func (s *Store) Append(ctx context.Context, shell, entry string) error {
	if err := s.client.RPush(ctx, s.historyKey(shell), entry).Err(); err != nil {
		return fmt.Errorf("failed to append history to redis: %w", err)
	}
	return nil
}

// Load returns a shell's history, oldest first.
func (s *Store) Load(ctx context.Context, shell string) ([]string, error) {
	entries, err := s.client.LRange(ctx, s.historyKey(shell), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to load history from redis: %w", err)
	}
	return entries, nil
}

// Close closes the underlying client.
func (s *Store) Close() error {
	return s.client.Close()
}
