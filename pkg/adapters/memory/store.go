package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/aretw0/outliner/pkg/domain"
	"github.com/aretw0/outliner/pkg/ports"
)

// BlobStore implements ports.BlobStore in memory.
// Safe for concurrent use.
type BlobStore struct {
	data map[string]ports.Blob
	mu   sync.RWMutex
}

// NewBlobStore creates a new in-memory blob store.
func NewBlobStore() *BlobStore {
	return &BlobStore{
		data: make(map[string]ports.Blob),
	}
}

// Create stores a copy of data under a fresh reference.
func (s *BlobStore) Create(ctx context.Context, data []byte, contentType string) (string, error) {
	ref := uuid.NewString()
	blob := ports.Blob{Data: append([]byte(nil), data...), ContentType: contentType}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[ref] = blob
	return ref, nil
}

// Open returns a copy of the blob.
func (s *BlobStore) Open(ctx context.Context, ref string) (*ports.Blob, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	blob, ok := s.data[ref]
	if !ok {
		return nil, domain.ErrBlobNotFound
	}
	blob.Data = append([]byte(nil), blob.Data...)
	return &blob, nil
}

// Revoke forgets the blob.
func (s *BlobStore) Revoke(ctx context.Context, ref string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, ref)
	return nil
}

// Len returns the number of live blobs.
func (s *BlobStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data)
}

// HistoryStore implements ports.HistoryStore in memory.
type HistoryStore struct {
	data map[string][]string
	mu   sync.RWMutex
}

// NewHistoryStore creates a new in-memory history store.
func NewHistoryStore() *HistoryStore {
	return &HistoryStore{
		data: make(map[string][]string),
	}
}

func (s *HistoryStore) Append(ctx context.Context, shell, entry string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[shell] = append(s.data[shell], entry)
	return nil
}

func (s *HistoryStore) Load(ctx context.Context, shell string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string(nil), s.data[shell]...), nil
}
