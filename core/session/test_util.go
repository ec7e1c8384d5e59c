package session

import (
	"context"
	"sync"
)

// MemStorage is an in-memory Storage, for tests and the demo mode.
type MemStorage struct {
	mu   sync.Mutex
	blob []byte
}

var _ Storage = (*MemStorage)(nil)

func NewMemStorage() *MemStorage { return &MemStorage{} }

func (s *MemStorage) Load(ctx context.Context) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.blob == nil {
		return nil, ErrNoSession
	}
	blob := make([]byte, len(s.blob))
	copy(blob, s.blob)
	return blob, nil
}

func (s *MemStorage) Save(ctx context.Context, blob []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.blob = append([]byte(nil), blob...)
	return nil
}

func (s *MemStorage) Delete(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.blob = nil
	return nil
}

// Blob returns the stored blob, nil when absent.
func (s *MemStorage) Blob() []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.blob
}
