// Package jsonfile serves the catalog from a flat JSON array of products on
// disk. The file is maintained out of band and re-read on every call, so edits
// show up on the next render without a restart.
package jsonfile

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"golang.org/x/sync/singleflight"

	"github.com/jcmexdev/product-catalog/internal/catalog/core/domain"
	"github.com/jcmexdev/product-catalog/internal/catalog/core/ports"
)

var _ ports.ProductRepository = (*Repository)(nil)

// Repository reads products from a JSON file.
type Repository struct {
	path string
	sfg  singleflight.Group // collapses concurrent reads of the same file
}

// NewRepository returns a repository over the JSON file at path. The file is
// not opened until the first call.
func NewRepository(path string) *Repository {
	return &Repository{path: path}
}

// List returns the products matching f, ordered by order.
func (r *Repository) List(ctx context.Context, f domain.Filter, order domain.SortOrder) ([]domain.Product, error) {
	products, err := r.load(ctx)
	if err != nil {
		return nil, err
	}
	return domain.Query(products, f, order), nil
}

// Get returns a single product or domain.ErrNotFound.
func (r *Repository) Get(ctx context.Context, id string) (domain.Product, error) {
	products, err := r.load(ctx)
	if err != nil {
		return domain.Product{}, err
	}
	return domain.Find(products, id)
}

func (r *Repository) load(ctx context.Context) ([]domain.Product, error) {
	ch := r.sfg.DoChan(r.path, func() (interface{}, error) {
		return readProducts(r.path)
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		// Each caller gets its own slice header; Query never mutates its input.
		return res.Val.([]domain.Product), nil
	}
}

func readProducts(path string) ([]domain.Product, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: read %q: %v", domain.ErrUnavailable, path, err)
	}

	var products []domain.Product
	if err := json.Unmarshal(data, &products); err != nil {
		return nil, fmt.Errorf("%w: parse %q: %v", domain.ErrUnavailable, path, err)
	}
	return products, nil
}
