package cartstore

import (
	"context"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultOpenSessions bounds how many session carts stay in memory.
const DefaultOpenSessions = 4096

// SlotName scopes the fixed store name to one browser session.
func SlotName(sessionID string) string {
	return StoreName + ":" + sessionID
}

type sessionCart struct {
	mu   sync.Mutex
	cart *Persistent
}

// Sessions owns one Persistent cart per browser session. Carts are opened
// lazily and hydrated once; the least recently used ones are dropped from
// memory and rehydrated from storage on their next access.
type Sessions struct {
	storage Storage

	mu    sync.Mutex
	carts *lru.Cache[string, *sessionCart]
}

// NewSessions keeps at most size carts in memory. size <= 0 means
// DefaultOpenSessions.
func NewSessions(storage Storage, size int) (*Sessions, error) {
	if size <= 0 {
		size = DefaultOpenSessions
	}
	carts, err := lru.New[string, *sessionCart](size)
	if err != nil {
		return nil, err
	}
	return &Sessions{storage: storage, carts: carts}, nil
}

// Cart returns the cart of sessionID, hydrating it on first access. If the
// slot cannot be read nothing is cached and the next call tries again.
// The read ignores cancellation of ctx.
func (s *Sessions) Cart(ctx context.Context, sessionID string) (*Persistent, error) {
	s.mu.Lock()
	sc, ok := s.carts.Get(sessionID)
	if !ok {
		sc = &sessionCart{}
		s.carts.Add(sessionID, sc)
	}
	s.mu.Unlock()

	sc.mu.Lock()
	defer sc.mu.Unlock()
	if sc.cart != nil {
		return sc.cart, nil
	}

	cart, err := Open(context.WithoutCancel(ctx), s.storage, SlotName(sessionID))
	if err != nil {
		s.mu.Lock()
		if cur, ok := s.carts.Peek(sessionID); ok && cur == sc {
			s.carts.Remove(sessionID)
		}
		s.mu.Unlock()
		return nil, err
	}
	sc.cart = cart
	return cart, nil
}

// Len reports how many carts are currently in memory.
func (s *Sessions) Len() int {
	return s.carts.Len()
}
