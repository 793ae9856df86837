// Package cartstore is the single source of truth for what is in a cart.
//
// A Store holds the line items of one cart in memory. Mutations are visible
// to every subsequent read on the same Store as soon as the call returns.
// Views observe slices of the state through Watch/WatchFunc and are notified
// only when their slice changes. Persistent decorates a Store with
// write-through persistence to a Storage slot.
package cartstore

import (
	"math"
	"slices"
	"sync"
)

// CartItem is one line of the cart: accumulated adds of a single product.
type CartItem struct {
	ID       string `json:"id"`
	Quantity int    `json:"quantity"`
}

// State is the full cart. Items keep insertion order and hold at most one
// entry per product id, each with Quantity >= 1.
type State struct {
	Items []CartItem `json:"items"`
}

// TotalQuantity sums the quantities of all items. It is recomputed from the
// items on every call; an empty cart totals 0.
func TotalQuantity(s State) int {
	total := 0
	for _, it := range s.Items {
		total += it.Quantity
	}
	return total
}

// Quantity returns the quantity recorded for id in s, or 0.
func Quantity(s State, id string) int {
	for _, it := range s.Items {
		if it.ID == id {
			return it.Quantity
		}
	}
	return 0
}

// addQuantity adds two positive quantities, saturating at math.MaxInt.
func addQuantity(a, b int) int {
	if a > math.MaxInt-b {
		return math.MaxInt
	}
	return a + b
}

func (s State) clone() State {
	return State{Items: slices.Clone(s.Items)}
}

// Store is an in-memory cart. The zero value is not usable; call New.
type Store struct {
	mu    sync.Mutex
	state State

	wmu      sync.Mutex // held while notifying watchers, keeps mutation order
	watchers map[int]watcher
	nextID   int
}

// New returns an empty store.
func New() *Store {
	return NewWithState(State{})
}

// NewWithState returns a store seeded with s, typically a rehydrated state.
func NewWithState(s State) *Store {
	st := s.clone()
	if st.Items == nil {
		st.Items = []CartItem{}
	}
	return &Store{state: st, watchers: make(map[int]watcher)}
}

// AddToCart adds one unit of id: a new line with quantity 1, or +1 on the
// existing line. The id is not checked against the catalog.
func (s *Store) AddToCart(id string) {
	s.mutate(func(st State) State {
		next := st.clone()
		for i := range next.Items {
			if next.Items[i].ID == id {
				next.Items[i].Quantity = addQuantity(next.Items[i].Quantity, 1)
				return next
			}
		}
		next.Items = append(next.Items, CartItem{ID: id, Quantity: 1})
		return next
	})
}

// ResetCart removes every item.
func (s *Store) ResetCart() {
	s.mutate(func(State) State {
		return State{Items: []CartItem{}}
	})
}

// GetQuantity returns the quantity of id, or 0 if it is not in the cart.
func (s *Store) GetQuantity(id string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Quantity(s.state, id)
}

// State returns a copy of the current state.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.clone()
}

// mutate swaps in the next state and notifies watchers. The write lock is
// released before watchers run, so a watcher may read the store.
func (s *Store) mutate(fn func(State) State) {
	s.wmu.Lock()
	defer s.wmu.Unlock()

	s.mu.Lock()
	next := fn(s.state)
	s.state = next
	snapshot := next.clone()
	s.mu.Unlock()

	s.notify(snapshot)
}
