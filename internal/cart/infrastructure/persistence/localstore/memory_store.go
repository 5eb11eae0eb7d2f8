package localstore

import (
	"context"
	"sync"

	"github.com/wyfcoding/stylehub/internal/cart/domain"
)

// MemoryStore 进程内游客购物车存储，用于本地开发与测试。
type MemoryStore struct {
	mu       sync.RWMutex
	payloads map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{payloads: make(map[string][]byte)}
}

var _ domain.GuestStore = (*MemoryStore)(nil)

func (s *MemoryStore) Get(_ context.Context, token string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	payload, ok := s.payloads[token]
	if !ok {
		return nil, nil
	}
	out := make([]byte, len(payload))
	copy(out, payload)
	return out, nil
}

func (s *MemoryStore) Set(_ context.Context, token string, payload []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := make([]byte, len(payload))
	copy(cp, payload)
	s.payloads[token] = cp
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.payloads, token)
	return nil
}
