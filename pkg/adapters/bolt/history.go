// Package bolt keeps shell history in a local bbolt database.
package bolt

import (
	"context"
	"encoding/binary"
	"fmt"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/aretw0/outliner/pkg/ports"
)

const bucketHistory = "history"

// HistoryStore implements ports.HistoryStore. Each shell gets a nested bucket
// keyed by sequence number, so entries come back in insertion order.
type HistoryStore struct {
	db *bolt.DB
}

var _ ports.HistoryStore = (*HistoryStore)(nil)

// Open opens, creating when needed, the database at path.
func Open(path string) (*HistoryStore, error) {
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucketHistory))
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize history database: %w", err)
	}
	return &HistoryStore{db: db}, nil
}

// Append adds an entry to the end of a shell's history.
func (s *HistoryStore) Append(ctx context.Context, shell, entry string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		b, err := tx.Bucket([]byte(bucketHistory)).CreateBucketIfNotExists([]byte(shell))
		if err != nil {
			return err
		}
		seq, err := b.NextSequence()
		if err != nil {
			return err
		}
		return b.Put(marshalSeq(seq), []byte(entry))
	})
}

// Load returns a shell's history, oldest first.
func (s *HistoryStore) Load(ctx context.Context, shell string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var entries []string
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucketHistory)).Bucket([]byte(shell))
		if b == nil {
			return nil
		}
		return b.ForEach(func(_, v []byte) error {
			entries = append(entries, string(v))
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load history: %w", err)
	}
	return entries, nil
}

// Close closes the database.
func (s *HistoryStore) Close() error {
	return s.db.Close()
}

func marshalSeq(seq uint64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, seq)
	return b
}
