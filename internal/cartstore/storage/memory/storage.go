// Package memory keeps cart slots in process memory. Slots survive store
// reopening within one process, which is what tests and single-instance
// deployments need.
package memory

import (
	"context"
	"sync"

	"github.com/jcmexdev/product-catalog/internal/cartstore"
)

var _ cartstore.Storage = (*Storage)(nil)

type Storage struct {
	mu    sync.RWMutex
	slots map[string][]byte
}

func New() *Storage {
	return &Storage{slots: make(map[string][]byte)}
}

func (s *Storage) Load(_ context.Context, name string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, ok := s.slots[name]
	if !ok {
		return nil, cartstore.ErrSlotNotFound
	}
	return append([]byte(nil), data...), nil
}

func (s *Storage) Save(_ context.Context, name string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.slots[name] = append([]byte(nil), data...)
	return nil
}
