package cartstore

import (
	"context"
	"errors"
)

// ErrSlotNotFound is returned by Storage.Load when nothing was ever saved
// under the name.
var ErrSlotNotFound = errors.New("cartstore: slot not found")

// Storage is a durable key-value slot store. Implementations live under
// cartstore/storage.
type Storage interface {
	Load(ctx context.Context, name string) ([]byte, error)
	Save(ctx context.Context, name string, data []byte) error
}
