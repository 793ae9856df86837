package cartstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
)

// StoreName is the fixed name of the persisted cart slot.
const StoreName = "cart-storage"

// persistVersion is written next to the state; payloads with another version
// are treated as absent.
const persistVersion = 0

type envelope struct {
	State   State `json:"state"`
	Version int   `json:"version"`
}

// Encode serializes s into the persisted layout:
//
//	{"state":{"items":[{"id":"1","quantity":2}]},"version":0}
func Encode(s State) ([]byte, error) {
	if s.Items == nil {
		s.Items = []CartItem{}
	}
	data, err := json.Marshal(envelope{State: s, Version: persistVersion})
	if err != nil {
		return nil, fmt.Errorf("cartstore: encode state: %w", err)
	}
	return data, nil
}

// Decode parses a persisted payload. Lines with an empty id or a quantity
// below 1 are dropped and duplicate ids are merged (saturating at
// math.MaxInt), so the result always satisfies the store invariants.
func Decode(data []byte) (State, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return State{}, fmt.Errorf("cartstore: decode state: %w", err)
	}
	if env.Version != persistVersion {
		return State{}, fmt.Errorf("cartstore: unsupported state version %d", env.Version)
	}

	out := State{Items: make([]CartItem, 0, len(env.State.Items))}
	index := make(map[string]int, len(env.State.Items))
	for _, it := range env.State.Items {
		if it.ID == "" || it.Quantity < 1 {
			continue
		}
		if i, ok := index[it.ID]; ok {
			out.Items[i].Quantity = addQuantity(out.Items[i].Quantity, it.Quantity)
			continue
		}
		index[it.ID] = len(out.Items)
		out.Items = append(out.Items, it)
	}
	return out, nil
}

// Hydrate reads the slot and returns the stored state. A missing or
// undecodable slot yields an empty state. A slot that could not be read at
// all is reported as an error: the saved cart may still be intact, and
// writing over it from an empty state would lose it.
func Hydrate(ctx context.Context, storage Storage, name string) (State, error) {
	data, err := storage.Load(ctx, name)
	if errors.Is(err, ErrSlotNotFound) {
		return State{Items: []CartItem{}}, nil
	}
	if err != nil {
		return State{}, fmt.Errorf("cartstore: read %q: %w", name, err)
	}

	st, err := Decode(data)
	if err != nil {
		slog.WarnContext(ctx, "cart slot corrupt, starting empty", "slot", name, "error", err)
		return State{Items: []CartItem{}}, nil
	}
	return st, nil
}

// Persistent decorates a Store so that every mutation is followed by a
// synchronous write of the full state to its slot.
type Persistent struct {
	mu      sync.Mutex // serializes mutate+save so saves land in mutation order
	store   *Store
	storage Storage
	name    string
}

// Open hydrates the slot called name and returns the decorated store. It
// fails only when the slot could not be read; see Hydrate.
func Open(ctx context.Context, storage Storage, name string) (*Persistent, error) {
	st, err := Hydrate(ctx, storage, name)
	if err != nil {
		slog.ErrorContext(ctx, "cart slot unreadable", "slot", name, "error", err)
		return nil, err
	}
	return &Persistent{
		store:   NewWithState(st),
		storage: storage,
		name:    name,
	}, nil
}

// Store exposes the underlying store for Watch/WatchFunc. Mutating it
// directly bypasses persistence.
func (p *Persistent) Store() *Store {
	return p.store
}

// Name returns the slot name.
func (p *Persistent) Name() string {
	return p.name
}

// AddToCart adds one unit of id and persists. The in-memory mutation always
// happens; the error only reports a failed durable write.
func (p *Persistent) AddToCart(ctx context.Context, id string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.store.AddToCart(id)
	return p.save(ctx)
}

// ResetCart empties the cart and persists the empty state.
func (p *Persistent) ResetCart(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.store.ResetCart()
	return p.save(ctx)
}

// GetQuantity returns the quantity of id, or 0.
func (p *Persistent) GetQuantity(id string) int {
	return p.store.GetQuantity(id)
}

// State returns a copy of the current state.
func (p *Persistent) State() State {
	return p.store.State()
}

func (p *Persistent) save(ctx context.Context) error {
	data, err := Encode(p.store.State())
	if err != nil {
		return err
	}
	if err := p.storage.Save(ctx, p.name, data); err != nil {
		slog.ErrorContext(ctx, "cart slot write failed", "slot", p.name, "error", err)
		return fmt.Errorf("cartstore: persist %q: %w", p.name, err)
	}
	return nil
}
