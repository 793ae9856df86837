// Package redis keeps cart slots in Redis, one key per slot.
package redis

import (
	"context"
	"errors"
	"time"

	"github.com/jcmexdev/product-catalog/internal/cartstore"
	"github.com/jcmexdev/product-catalog/internal/pkg/cache"
)

var _ cartstore.Storage = (*Storage)(nil)

const slotOperation = "slot"

// Storage maps slot names to keys of the form <service>:slot:<name>.
type Storage struct {
	cache cache.Cache
	ttl   time.Duration
}

// New returns a slot store over c. Every save refreshes the key's ttl; zero
// keeps slots forever.
func New(c cache.Cache, ttl time.Duration) *Storage {
	return &Storage{cache: c, ttl: ttl}
}

func (s *Storage) Load(ctx context.Context, name string) ([]byte, error) {
	data, err := s.cache.Get(ctx, s.cache.GenerateKey(slotOperation, name))
	if errors.Is(err, cache.ErrMiss) {
		return nil, cartstore.ErrSlotNotFound
	}
	return data, err
}

func (s *Storage) Save(ctx context.Context, name string, data []byte) error {
	return s.cache.Set(ctx, s.cache.GenerateKey(slotOperation, name), data, s.ttl)
}
